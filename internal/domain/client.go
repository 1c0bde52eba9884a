package domain

import "time"

// Client belongs to exactly one tenant. AdminID references the user who
// administers it, when one has been appointed.
type Client struct {
	ID        string
	TenantID  string
	AdminID   *string
	Name      string
	Email     *string
	Phone     *string
	CreatedAt time.Time
	UpdatedAt time.Time

	// joined display fields
	TenantName string
	AdminName  *string
}

// Scope returns the client's scope keys.
func (c *Client) Scope() ResourceScope {
	return ResourceScope{TenantID: &c.TenantID, ClientID: &c.ID}
}

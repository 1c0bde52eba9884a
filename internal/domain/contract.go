package domain

import "time"

// ContractStatus enumerates contract states.
type ContractStatus string

const (
	ContractStatusActive     ContractStatus = "active"
	ContractStatusTerminated ContractStatus = "terminated"
)

// Contract is a commercial agreement between a tenant and a client.
type Contract struct {
	ID        string
	TenantID  string
	ClientID  string
	Name      string
	Status    ContractStatus
	StartDate time.Time
	EndDate   *time.Time
	CreatedAt time.Time
	UpdatedAt time.Time

	// joined display fields
	ClientName string
}

// Scope returns the contract's scope keys.
func (c *Contract) Scope() ResourceScope {
	return ResourceScope{TenantID: &c.TenantID, ClientID: &c.ClientID}
}

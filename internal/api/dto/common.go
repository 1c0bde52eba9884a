package dto

// PageMeta describes list pagination. Page and Limit are 1-based request
// values; Total counts all rows matching the filter, not just the page.
type PageMeta struct {
	Total   int  `json:"total"`
	Page    int  `json:"page"`
	Limit   int  `json:"limit"`
	HasNext bool `json:"hasNext"`
	HasPrev bool `json:"hasPrev"`
}

// NewPageMeta computes pagination metadata for a page of results.
func NewPageMeta(total, page, limit int) PageMeta {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 20
	}
	return PageMeta{
		Total:   total,
		Page:    page,
		Limit:   limit,
		HasNext: page*limit < total,
		HasPrev: page > 1,
	}
}

// ListResponse is the uniform list envelope.
type ListResponse[T any] struct {
	Data []T      `json:"data"`
	Meta PageMeta `json:"meta"`
}

// DataResponse is the uniform single-item envelope.
type DataResponse[T any] struct {
	Data T `json:"data"`
}

package domain

const (
	DefaultPageLimit = 10
	MaxPageLimit     = 100
)

type Pagination struct {
	Page       int  `json:"page"`
	Limit      int  `json:"limit"`
	Total      int  `json:"total"`
	TotalPages int  `json:"totalPages"`
	HasNext    bool `json:"hasNext"`
	HasPrev    bool `json:"hasPrev"`
}

// PageRequest is a normalised page/limit pair.
type PageRequest struct {
	Page  int
	Limit int
}

// NewPageRequest clamps page to >= 1 and limit to [1, MaxPageLimit],
// using DefaultPageLimit when limit is not set.
func NewPageRequest(page, limit int) PageRequest {
	if page < 1 {
		page = 1
	}

	switch {
	case limit < 1:
		limit = DefaultPageLimit
	case limit > MaxPageLimit:
		limit = MaxPageLimit
	}

	return PageRequest{Page: page, Limit: limit}
}

func (p PageRequest) Offset() int {
	return (p.Page - 1) * p.Limit
}

func (p PageRequest) Paginate(total int) Pagination {
	totalPages := 0
	if total > 0 {
		totalPages = (total + p.Limit - 1) / p.Limit
	}

	return Pagination{
		Page:       p.Page,
		Limit:      p.Limit,
		Total:      total,
		TotalPages: totalPages,
		HasNext:    p.Page < totalPages,
		HasPrev:    p.Page > 1,
	}
}

// Page is one page of a listing.
type Page[T any] struct {
	Items      []T
	Pagination Pagination
}

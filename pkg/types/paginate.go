package types

// Paginate carries list-endpoint paging. PerPage is capped server side.
type Paginate struct {
	Page    int `form:"page" json:"page"`
	PerPage int `form:"per_page" json:"perPage"`
}

const (
	defaultPerPage = 25
	maxPerPage     = 100
)

// Normalize clamps the paging window to sane bounds.
func (p Paginate) Normalize() Paginate {
	if p.Page < 1 {
		p.Page = 1
	}
	if p.PerPage < 1 {
		p.PerPage = defaultPerPage
	}
	if p.PerPage > maxPerPage {
		p.PerPage = maxPerPage
	}
	return p
}

func (p Paginate) Offset() int {
	return (p.Page - 1) * p.PerPage
}

// Page wraps a list response with its paging envelope.
type PageResult[T any] struct {
	Items       []T   `json:"items"`
	TotalItem   int64 `json:"totalItem"`
	CurrentPage int   `json:"currentPage"`
	PerPage     int   `json:"perPage"`
}

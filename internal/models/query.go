package models

// Filter holds the optional equality filters and the free-text search term
// applied to feedback queries. Zero values mean "no constraint". Search is a
// case-insensitive substring match across text, user name and company name.
type Filter struct {
	Status    string
	Sentiment string
	Category  string
	Source    string
	Search    string
}

// ListQuery is the declarative filter + sort + pagination object passed to
// the store. Page is 1-based.
type ListQuery struct {
	Filter
	Page      int
	Limit     int
	SortBy    string
	SortOrder string // "asc" or "desc"
}

// Normalize applies the listing defaults: page 1, limit 10, newest first.
func (q *ListQuery) Normalize() {
	if q.Page < 1 {
		q.Page = 1
	}
	if q.Limit < 1 {
		q.Limit = 10
	}
	if q.SortBy == "" {
		q.SortBy = "createdAt"
	}
	if q.SortOrder != "asc" {
		q.SortOrder = "desc"
	}
}

func (q ListQuery) Skip() int {
	return (q.Page - 1) * q.Limit
}

// FieldCount is one group-count result row (category or tag ranking).
type FieldCount struct {
	Name  string `bson:"_id"`
	Count int64  `bson:"count"`
}

type Pagination struct {
	Total int64 `json:"total"`
	Page  int   `json:"page"`
	Limit int   `json:"limit"`
	Pages int64 `json:"pages"`
}

func NewPagination(total int64, page, limit int) Pagination {
	pages := int64(0)
	if limit > 0 {
		pages = (total + int64(limit) - 1) / int64(limit)
	}
	return Pagination{Total: total, Page: page, Limit: limit, Pages: pages}
}

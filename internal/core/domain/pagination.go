package domain

// Pagination describes the page position within a result set.
type Pagination struct {
	Page       int  `json:"page"`
	Limit      int  `json:"limit"`
	Total      int  `json:"total"`
	TotalPages int  `json:"total_pages"`
	HasNext    bool `json:"has_next"`
	HasPrev    bool `json:"has_prev"`
}

// PaginatedResult - the uniform shape returned to all search callers,
// identical whether the page was served from cache or from the store.
type PaginatedResult struct {
	Data       []PropertyRecord `json:"data"`
	Pagination Pagination       `json:"pagination"`
}

// NewPagination computes the derived pagination fields.
// Invariants: totalPages == ceil(total/limit) (0 when total == 0),
// hasNext == page < totalPages, hasPrev == page > 1.
func NewPagination(page, limit, total int) Pagination {
	totalPages := 0
	if total > 0 && limit > 0 {
		totalPages = (total + limit - 1) / limit
	}
	return Pagination{
		Page:       page,
		Limit:      limit,
		Total:      total,
		TotalPages: totalPages,
		HasNext:    page < totalPages,
		HasPrev:    page > 1,
	}
}

// NewPaginatedResult assembles a result page.
func NewPaginatedResult(items []PropertyRecord, page, limit, total int) *PaginatedResult {
	if items == nil {
		items = []PropertyRecord{}
	}
	return &PaginatedResult{
		Data:       items,
		Pagination: NewPagination(page, limit, total),
	}
}

package query

import "visa_leads_backend/internal/leads/domain"

const (
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// Page is one slice of a filtered result.
type Page struct {
	Items      []domain.Lead
	Total      int
	Page       int
	PageSize   int
	TotalPages int
}

// Paginate returns the 1-based page of leads. Out-of-range pages are empty;
// page and pageSize are clamped to sane values.
func Paginate(leads []domain.Lead, page, pageSize int) Page {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = DefaultPageSize
	}
	if pageSize > MaxPageSize {
		pageSize = MaxPageSize
	}

	total := len(leads)
	totalPages := (total + pageSize - 1) / pageSize

	// Compare page numbers before multiplying so huge pages cannot overflow.
	start := total
	if page-1 < totalPages {
		start = (page - 1) * pageSize
	}
	end := start + pageSize
	if end > total {
		end = total
	}

	return Page{
		Items:      leads[start:end],
		Total:      total,
		Page:       page,
		PageSize:   pageSize,
		TotalPages: totalPages,
	}
}

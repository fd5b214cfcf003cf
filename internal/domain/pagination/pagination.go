package pagination

const (
	// DefaultLimit is the page size used when none is requested.
	DefaultLimit = 10
	// MaxLimit caps page sizes for list endpoints.
	MaxLimit = 100
)

// Pagination represents pagination information for list responses.
type Pagination struct {
	Total      int64 `json:"total"`       // Total number of records
	Page       int64 `json:"page"`        // Current page number (1-based)
	Limit      int64 `json:"limit"`       // Number of records per page
	TotalPages int64 `json:"total_pages"` // Total number of pages
}

// New creates a new Pagination instance with calculated total pages.
func New(total, page, limit int64) *Pagination {
	var totalPages int64
	if limit > 0 {
		totalPages = (total + limit - 1) / limit
	}

	return &Pagination{
		Total:      total,
		Page:       page,
		Limit:      limit,
		TotalPages: totalPages,
	}
}

// Normalize clamps page to >= 1 and limit to [1, MaxLimit], defaulting to DefaultLimit.
func Normalize(page, limit int64) (int64, int64) {
	if page <= 0 {
		page = 1
	}
	if limit <= 0 {
		limit = DefaultLimit
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}
	return page, limit
}

// Offset returns the row offset for page and limit.
func Offset(page, limit int64) int {
	return int((page - 1) * limit)
}

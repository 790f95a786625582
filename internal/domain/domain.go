package domain

// Actor identifies the authenticated caller of a service operation.
type Actor struct {
	UserID int64
	Role   string
}

const (
	RoleUser   = "user"
	RoleVendor = "vendor"
	RoleAdmin  = "admin"
)

// IsAdmin reports whether the actor has the admin role.
func (a Actor) IsAdmin() bool {
	return a.Role == RoleAdmin
}

// CanAccess reports whether the actor owns the resource or is an admin.
func (a Actor) CanAccess(ownerID int64) bool {
	return a.UserID == ownerID || a.IsAdmin()
}

// Page is a normalized pagination request.
type Page struct {
	Number int
	Limit  int
}

// NewPage clamps raw pagination input to sane bounds.
func NewPage(number, limit int) Page {
	if number < 1 {
		number = 1
	}
	if limit < 1 {
		limit = 10
	}
	if limit > 100 {
		limit = 100
	}
	return Page{Number: number, Limit: limit}
}

// Offset returns the SQL offset for the page.
func (p Page) Offset() int {
	return (p.Number - 1) * p.Limit
}

// Pagination describes a page of results in API responses.
type Pagination struct {
	Total      int `json:"total"`
	Page       int `json:"page"`
	Limit      int `json:"limit"`
	TotalPages int `json:"totalPages"`
}

// NewPagination computes the result metadata for a page request.
func NewPagination(total int, page Page) Pagination {
	totalPages := total / page.Limit
	if total%page.Limit != 0 {
		totalPages++
	}
	return Pagination{
		Total:      total,
		Page:       page.Number,
		Limit:      page.Limit,
		TotalPages: totalPages,
	}
}

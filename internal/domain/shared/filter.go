package shared

// Filter carries the list query options understood by every master-data
// store. Code and Name are substring matches, Group is an exact match.
type Filter struct {
	Page     int
	PageSize int
	Code     string
	Name     string
	Group    string
}

// Offset returns the number of rows to skip for the requested page.
func (f Filter) Offset() int {
	if f.Page <= 1 || f.PageSize <= 0 {
		return 0
	}
	return (f.Page - 1) * f.PageSize
}

// Paged reports whether the caller asked for a bounded page.
func (f Filter) Paged() bool {
	return f.PageSize > 0
}

package shared

const (
	// DefaultPageLimit is used when a page request does not specify a limit
	DefaultPageLimit = 10
	// MaxPageLimit is the largest page a store will return
	MaxPageLimit = 100
)

// PageRequest represents an offset/limit window over an id-ordered result
type PageRequest struct {
	Offset int
	Limit  int
}

// NewPageRequest creates a page request
func NewPageRequest(offset, limit int) PageRequest {
	return PageRequest{Offset: offset, Limit: limit}
}

// Normalize validates the request and applies the default and maximum limit.
// Negative values are rejected, a zero limit becomes defaultLimit and
// a limit above maxLimit is clamped.
func (p PageRequest) Normalize(defaultLimit, maxLimit int) (PageRequest, error) {
	if p.Offset < 0 {
		return p, Errorf(ErrInvalidArgument, "offset must not be negative, got %d", p.Offset)
	}
	if p.Limit < 0 {
		return p, Errorf(ErrInvalidArgument, "limit must not be negative, got %d", p.Limit)
	}
	if defaultLimit <= 0 {
		defaultLimit = DefaultPageLimit
	}
	if maxLimit <= 0 {
		maxLimit = MaxPageLimit
	}
	if p.Limit == 0 {
		p.Limit = defaultLimit
	}
	if p.Limit > maxLimit {
		p.Limit = maxLimit
	}
	return p, nil
}

// Page represents one window of results plus the total match count
type Page[T any] struct {
	Items  []T   `json:"items"`
	Total  int64 `json:"total"`
	Offset int   `json:"offset"`
	Limit  int   `json:"limit"`
}

// NewPage creates a page result
func NewPage[T any](items []T, total int64, req PageRequest) Page[T] {
	if items == nil {
		items = []T{}
	}
	return Page[T]{
		Items:  items,
		Total:  total,
		Offset: req.Offset,
		Limit:  req.Limit,
	}
}

// HasMore reports whether more results exist after this page
func (p Page[T]) HasMore() bool {
	return int64(p.Offset+len(p.Items)) < p.Total
}

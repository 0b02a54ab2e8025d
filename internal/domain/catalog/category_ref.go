package catalog

import (
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/erp/catalog/internal/domain/shared"
)

// CategoryRefKind discriminates the CategoryRef variants
type CategoryRefKind string

const (
	CategoryRefNone  CategoryRefKind = "none"
	CategoryRefLabel CategoryRefKind = "label"
	CategoryRefID    CategoryRefKind = "id"
)

// CategoryRef is how a product names its category: not at all, by a
// free-form label, or by the id of a Category record.
type CategoryRef struct {
	kind  CategoryRefKind
	label string
	id    int64
}

// NoCategory returns an empty reference
func NoCategory() CategoryRef {
	return CategoryRef{kind: CategoryRefNone}
}

// CategoryByLabel references a category by free-form text.
// A blank label yields NoCategory.
func CategoryByLabel(label string) CategoryRef {
	label = strings.TrimSpace(label)
	if label == "" {
		return NoCategory()
	}
	return CategoryRef{kind: CategoryRefLabel, label: label}
}

// CategoryByID references a Category record
func CategoryByID(id int64) CategoryRef {
	return CategoryRef{kind: CategoryRefID, id: id}
}

// Kind returns the variant
func (r CategoryRef) Kind() CategoryRefKind {
	if r.kind == "" {
		return CategoryRefNone
	}
	return r.kind
}

// IsNone returns true for an empty reference
func (r CategoryRef) IsNone() bool {
	return r.Kind() == CategoryRefNone
}

// Label returns the label of a label reference
func (r CategoryRef) Label() (string, bool) {
	return r.label, r.kind == CategoryRefLabel
}

// ID returns the id of an id reference
func (r CategoryRef) ID() (int64, bool) {
	return r.id, r.kind == CategoryRefID
}

// String renders the reference for logs
func (r CategoryRef) String() string {
	switch r.Kind() {
	case CategoryRefLabel:
		return r.label
	case CategoryRefID:
		return "#" + strconv.FormatInt(r.id, 10)
	default:
		return ""
	}
}

// Validate checks the reference shape. Whether an id resolves is checked by the caller.
func (r CategoryRef) Validate() error {
	switch r.Kind() {
	case CategoryRefLabel:
		if utf8.RuneCountInString(r.label) > MaxCategoryNameLength {
			return shared.Errorf(shared.ErrInvalidArgument, "category label cannot exceed %d characters", MaxCategoryNameLength)
		}
	case CategoryRefID:
		if r.id <= 0 {
			return shared.NewDomainError(shared.CodeInvalidArgument, "category id must be positive")
		}
	}
	return nil
}

package csvimport

import (
	"context"
	"fmt"
	"strconv"
	"unicode/utf8"

	"github.com/shopspring/decimal"
)

// FieldType represents the expected type of a field
type FieldType string

const (
	TypeString  FieldType = "string"
	TypeInt     FieldType = "int"
	TypeDecimal FieldType = "decimal"
)

// FieldRule defines validation rules for a column
type FieldRule struct {
	Column     string
	Type       FieldType
	Required   bool
	MaxLength  int
	Positive   bool
	Code       string
	CustomFunc func(value string) error
}

// FieldRuleBuilder helps build field rules fluently
type FieldRuleBuilder struct {
	rule FieldRule
}

// Field creates a new field rule builder
func Field(column string) *FieldRuleBuilder {
	return &FieldRuleBuilder{
		rule: FieldRule{
			Column: column,
			Type:   TypeString,
			Code:   ErrCodeInvalidField,
		},
	}
}

// Required marks the field as required
func (b *FieldRuleBuilder) Required() *FieldRuleBuilder {
	b.rule.Required = true
	return b
}

// Int sets the field type to integer
func (b *FieldRuleBuilder) Int() *FieldRuleBuilder {
	b.rule.Type = TypeInt
	return b
}

// Decimal sets the field type to decimal
func (b *FieldRuleBuilder) Decimal() *FieldRuleBuilder {
	b.rule.Type = TypeDecimal
	return b
}

// MaxLength sets the maximum length in characters
func (b *FieldRuleBuilder) MaxLength(n int) *FieldRuleBuilder {
	b.rule.MaxLength = n
	return b
}

// Positive requires a numeric value strictly greater than zero
func (b *FieldRuleBuilder) Positive() *FieldRuleBuilder {
	b.rule.Positive = true
	return b
}

// Code sets the error code reported for any violation of this rule
func (b *FieldRuleBuilder) Code(code string) *FieldRuleBuilder {
	b.rule.Code = code
	return b
}

// Custom sets a custom validation function
func (b *FieldRuleBuilder) Custom(fn func(value string) error) *FieldRuleBuilder {
	b.rule.CustomFunc = fn
	return b
}

// Build returns the built field rule
func (b *FieldRuleBuilder) Build() FieldRule {
	return b.rule
}

// FieldValidator validates rows according to an ordered list of rules
type FieldValidator struct {
	rules []FieldRule
}

// NewFieldValidator creates a new field validator. Rules are evaluated in order.
func NewFieldValidator(rules ...FieldRule) *FieldValidator {
	return &FieldValidator{rules: rules}
}

// ValidateRow returns the first rule violation of row, if any
func (v *FieldValidator) ValidateRow(row *Row) (RowError, bool) {
	for _, rule := range v.rules {
		value := row.Get(rule.Column)
		if msg := rule.check(value); msg != "" {
			return NewRowErrorWithValue(row, rule.Column, rule.Code, msg, value), false
		}
	}
	return RowError{}, true
}

func (r FieldRule) check(value string) string {
	if value == "" {
		if r.Required {
			return fmt.Sprintf("field '%s' is required", r.Column)
		}
		return ""
	}

	switch r.Type {
	case TypeInt:
		n, err := strconv.ParseInt(value, 10, 64)
		if err != nil {
			return fmt.Sprintf("field '%s' must be an integer", r.Column)
		}
		if r.Positive && n <= 0 {
			return fmt.Sprintf("field '%s' must be greater than zero", r.Column)
		}
	case TypeDecimal:
		d, err := decimal.NewFromString(value)
		if err != nil {
			return fmt.Sprintf("field '%s' must be a number", r.Column)
		}
		if r.Positive && !d.IsPositive() {
			return fmt.Sprintf("field '%s' must be greater than zero", r.Column)
		}
	}

	if r.MaxLength > 0 && utf8.RuneCountInString(value) > r.MaxLength {
		return fmt.Sprintf("field '%s' must be at most %d characters", r.Column, r.MaxLength)
	}

	if r.CustomFunc != nil {
		if err := r.CustomFunc(value); err != nil {
			return err.Error()
		}
	}
	return ""
}

// LookupFunc resolves a reference value to an id
type LookupFunc func(ctx context.Context, value string) (id int64, found bool, err error)

// ReferenceResolver resolves references by value and caches the outcome,
// including misses, for the lifetime of one import
type ReferenceResolver struct {
	lookup LookupFunc
	cache  map[string]resolved
}

type resolved struct {
	id    int64
	found bool
}

// NewReferenceResolver creates a resolver over lookup
func NewReferenceResolver(lookup LookupFunc) *ReferenceResolver {
	return &ReferenceResolver{
		lookup: lookup,
		cache:  make(map[string]resolved),
	}
}

// Resolve returns the id for value. Lookup errors are not cached.
func (r *ReferenceResolver) Resolve(ctx context.Context, value string) (int64, bool, error) {
	if hit, ok := r.cache[value]; ok {
		return hit.id, hit.found, nil
	}
	id, found, err := r.lookup(ctx, value)
	if err != nil {
		return 0, false, err
	}
	r.cache[value] = resolved{id: id, found: found}
	return id, found, nil
}


package catalog

import (
	"strings"
	"unicode/utf8"

	"github.com/erp/catalog/internal/domain/shared"
)

// Company owns products and, optionally, categories
type Company struct {
	shared.BaseEntity
	Name        string
	Description string
	Website     string
}

// CompanyUpdate carries the fields supplied in a partial update
type CompanyUpdate struct {
	Name        shared.Optional[string]
	Description shared.Optional[string]
	Website     shared.Optional[string]
}

// IsEmpty returns true if no field is supplied
func (u CompanyUpdate) IsEmpty() bool {
	return !u.Name.IsSet() && !u.Description.IsSet() && !u.Website.IsSet()
}

// NewCompany creates a new company
func NewCompany(name, description, website string) (*Company, error) {
	c := &Company{
		BaseEntity:  shared.NewBaseEntity(),
		Name:        strings.TrimSpace(name),
		Description: strings.TrimSpace(description),
		Website:     strings.TrimSpace(website),
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// Apply applies a partial update. On error the company is left unchanged.
func (c *Company) Apply(u CompanyUpdate) error {
	next := *c
	if v, ok := u.Name.Get(); ok {
		next.Name = strings.TrimSpace(v)
	}
	if v, ok := u.Description.Get(); ok {
		next.Description = strings.TrimSpace(v)
	}
	if v, ok := u.Website.Get(); ok {
		next.Website = strings.TrimSpace(v)
	}
	if err := next.Validate(); err != nil {
		return err
	}
	next.Touch()
	*c = next
	return nil
}

// Validate checks the company fields
func (c *Company) Validate() error {
	if err := validateName("company", c.Name, MaxCompanyNameLength); err != nil {
		return err
	}
	if err := validateDescription(c.Description); err != nil {
		return err
	}
	return validateWebsite(c.Website)
}

func validateName(kind, name string, maxLen int) error {
	if name == "" {
		return shared.Errorf(shared.ErrInvalidArgument, "%s name cannot be empty", kind)
	}
	if utf8.RuneCountInString(name) > maxLen {
		return shared.Errorf(shared.ErrInvalidArgument, "%s name cannot exceed %d characters", kind, maxLen)
	}
	return nil
}

func validateDescription(description string) error {
	if utf8.RuneCountInString(description) > MaxDescriptionLength {
		return shared.Errorf(shared.ErrInvalidArgument, "description cannot exceed %d characters", MaxDescriptionLength)
	}
	return nil
}

func validateWebsite(website string) error {
	if website == "" {
		return nil
	}
	if len(website) > MaxWebsiteLength {
		return shared.Errorf(shared.ErrInvalidArgument, "website cannot exceed %d characters", MaxWebsiteLength)
	}
	if !IsHTTPURL(website) {
		return shared.NewDomainError(shared.CodeInvalidArgument, "website must start with http:// or https://")
	}
	return nil
}

// IsHTTPURL reports whether s starts with an http or https scheme followed by a host
func IsHTTPURL(s string) bool {
	lower := strings.ToLower(s)
	for _, prefix := range []string{"http://", "https://"} {
		if strings.HasPrefix(lower, prefix) && len(lower) > len(prefix) {
			return true
		}
	}
	return false
}

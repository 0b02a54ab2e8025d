package catalog

import (
	"context"

	"github.com/erp/catalog/internal/domain/catalog"
	"github.com/erp/catalog/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// SearchService runs filtered, paged product searches and joins each
// product with its company
type SearchService struct {
	productRepo  catalog.ProductRepository
	companyRepo  catalog.CompanyRepository
	defaultLimit int
	maxLimit     int
}

// SearchOption configures a SearchService
type SearchOption func(*SearchService)

// WithPageLimits overrides the default and maximum page size
func WithPageLimits(defaultLimit, maxLimit int) SearchOption {
	return func(s *SearchService) {
		if maxLimit > 0 && maxLimit <= shared.MaxPageLimit {
			s.maxLimit = maxLimit
		}
		if defaultLimit > 0 && defaultLimit <= s.maxLimit {
			s.defaultLimit = defaultLimit
		}
	}
}

// NewSearchService creates a new SearchService
func NewSearchService(productRepo catalog.ProductRepository, companyRepo catalog.CompanyRepository, opts ...SearchOption) *SearchService {
	s := &SearchService{
		productRepo:  productRepo,
		companyRepo:  companyRepo,
		defaultLimit: shared.DefaultPageLimit,
		maxLimit:     shared.MaxPageLimit,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Search returns one page of products matching every supplied filter,
// ordered by id. An inverted price range yields an empty page.
func (s *SearchService) Search(ctx context.Context, req SearchRequest) (*SearchResult, error) {
	page, err := s.pageRequest(req)
	if err != nil {
		return nil, err
	}
	filter, err := BuildFilter(req)
	if err != nil {
		return nil, err
	}

	found, err := s.productRepo.FindPage(ctx, filter, page)
	if err != nil {
		return nil, err
	}

	companies, err := s.companiesFor(ctx, found.Items)
	if err != nil {
		return nil, err
	}

	items := make([]ProductResponse, len(found.Items))
	for i := range found.Items {
		p := &found.Items[i]
		items[i] = ToProductResponse(p, companies[p.CompanyID])
	}

	return &SearchResult{
		Items:  items,
		Total:  found.Total,
		Offset: page.Offset,
		Limit:  page.Limit,
	}, nil
}

func (s *SearchService) pageRequest(req SearchRequest) (shared.PageRequest, error) {
	page := shared.NewPageRequest(0, s.defaultLimit)
	if req.Offset != nil {
		if *req.Offset < 0 {
			return page, shared.Errorf(shared.ErrInvalidArgument, "offset must not be negative, got %d", *req.Offset)
		}
		page.Offset = *req.Offset
	}
	if req.Limit != nil {
		if *req.Limit < 1 || *req.Limit > s.maxLimit {
			return page, shared.Errorf(shared.ErrInvalidArgument, "limit must be between 1 and %d, got %d", s.maxLimit, *req.Limit)
		}
		page.Limit = *req.Limit
	}
	return page, nil
}

// BuildFilter converts search parameters into a product filter.
// Negative price bounds and non-positive ids are rejected.
func BuildFilter(req SearchRequest) (catalog.ProductFilter, error) {
	b := catalog.NewFilterBuilder().Text(req.Q)

	if req.CompanyID != nil {
		if *req.CompanyID <= 0 {
			return catalog.ProductFilter{}, shared.Errorf(shared.ErrInvalidArgument, "company_id must be positive")
		}
		b.Company(*req.CompanyID)
	}
	if req.CategoryID != nil {
		if *req.CategoryID <= 0 {
			return catalog.ProductFilter{}, shared.Errorf(shared.ErrInvalidArgument, "category_id must be positive")
		}
		b.Category(*req.CategoryID)
	}
	if req.MinPrice != nil {
		if *req.MinPrice < 0 {
			return catalog.ProductFilter{}, shared.Errorf(shared.ErrInvalidArgument, "min_price must not be negative")
		}
		b.MinPrice(decimal.NewFromFloat(*req.MinPrice))
	}
	if req.MaxPrice != nil {
		if *req.MaxPrice < 0 {
			return catalog.ProductFilter{}, shared.Errorf(shared.ErrInvalidArgument, "max_price must not be negative")
		}
		b.MaxPrice(decimal.NewFromFloat(*req.MaxPrice))
	}

	return b.Build(), nil
}

func (s *SearchService) companiesFor(ctx context.Context, products []catalog.Product) (map[int64]*catalog.Company, error) {
	result := make(map[int64]*catalog.Company)
	if len(products) == 0 {
		return result, nil
	}

	ids := make([]int64, 0, len(products))
	seen := make(map[int64]struct{}, len(products))
	for _, p := range products {
		if _, ok := seen[p.CompanyID]; ok {
			continue
		}
		seen[p.CompanyID] = struct{}{}
		ids = append(ids, p.CompanyID)
	}

	companies, err := s.companyRepo.FindByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	for i := range companies {
		result[companies[i].ID] = &companies[i]
	}
	return result, nil
}

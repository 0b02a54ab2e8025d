package catalog

import (
	"context"

	"github.com/erp/catalog/internal/domain/catalog"
	"github.com/erp/catalog/internal/domain/shared"
	"go.uber.org/zap"
)

// CompanyService handles company-related business operations
type CompanyService struct {
	companyRepo catalog.CompanyRepository
	logger      *zap.Logger
}

// NewCompanyService creates a new CompanyService
func NewCompanyService(companyRepo catalog.CompanyRepository, logger *zap.Logger) *CompanyService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CompanyService{
		companyRepo: companyRepo,
		logger:      logger.Named("company_service"),
	}
}

// Create creates a new company
func (s *CompanyService) Create(ctx context.Context, req CreateCompanyRequest) (*CompanyResponse, error) {
	company, err := catalog.NewCompany(req.Name, req.Description, req.Website)
	if err != nil {
		return nil, err
	}

	if err := s.ensureNameFree(ctx, company.Name, 0); err != nil {
		return nil, err
	}

	if err := s.companyRepo.Create(ctx, company); err != nil {
		return nil, err
	}

	response := ToCompanyResponse(company)
	return &response, nil
}

// GetByID retrieves a company by ID
func (s *CompanyService) GetByID(ctx context.Context, id int64) (*CompanyResponse, error) {
	company, err := s.companyRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	response := ToCompanyResponse(company)
	return &response, nil
}

// List returns a page of companies ordered by id
func (s *CompanyService) List(ctx context.Context, req ListRequest) (shared.Page[CompanyResponse], error) {
	page, err := s.companyRepo.FindPage(ctx, req.Q, shared.NewPageRequest(req.Offset, req.Limit))
	if err != nil {
		return shared.Page[CompanyResponse]{}, err
	}

	items := make([]CompanyResponse, len(page.Items))
	for i := range page.Items {
		items[i] = ToCompanyResponse(&page.Items[i])
	}
	return shared.Page[CompanyResponse]{Items: items, Total: page.Total, Offset: page.Offset, Limit: page.Limit}, nil
}

// Update applies a partial update to a company
func (s *CompanyService) Update(ctx context.Context, id int64, req UpdateCompanyRequest) (*CompanyResponse, error) {
	company, err := s.companyRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	update := req.ToDomain()
	if err := company.Apply(update); err != nil {
		return nil, err
	}

	if update.Name.IsSet() {
		if err := s.ensureNameFree(ctx, company.Name, id); err != nil {
			return nil, err
		}
	}

	if err := s.companyRepo.Update(ctx, company); err != nil {
		return nil, err
	}

	response := ToCompanyResponse(company)
	return &response, nil
}

// Delete removes a company. Without cascade a company that still has
// products or categories is rejected with HAS_DEPENDENTS.
func (s *CompanyService) Delete(ctx context.Context, id int64, cascade bool) error {
	if _, err := s.companyRepo.FindByID(ctx, id); err != nil {
		return err
	}

	if cascade {
		if err := s.companyRepo.DeleteCascade(ctx, id); err != nil {
			return err
		}
		s.logger.Info("company deleted with dependents", zap.Int64("company_id", id))
		return nil
	}

	deps, err := s.companyRepo.CountDependents(ctx, id)
	if err != nil {
		return err
	}
	if !deps.IsZero() {
		return shared.Errorf(shared.ErrHasDependents,
			"company %d is referenced by %d products and %d categories", id, deps.Products, deps.Categories)
	}

	return s.companyRepo.Delete(ctx, id)
}

func (s *CompanyService) ensureNameFree(ctx context.Context, name string, excludeID int64) error {
	exists, err := s.companyRepo.ExistsByName(ctx, name, excludeID)
	if err != nil {
		return err
	}
	if exists {
		return shared.Errorf(shared.ErrDuplicateName, "company name %q is already in use", name)
	}
	return nil
}

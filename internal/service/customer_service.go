package service

import (
	"context"
	"time"

	"github.com/masakazoo1979/dailyReport-sub001/internal/model"
	"github.com/masakazoo1979/dailyReport-sub001/internal/repository"
	"github.com/masakazoo1979/dailyReport-sub001/internal/workflow"
	"github.com/masakazoo1979/dailyReport-sub001/pkg/apperr"
)

// --- DTOs ---

type CustomerRequest struct {
	CompanyName string `json:"company_name" binding:"required"`
	ContactName string `json:"contact_name" binding:"required"`
	Industry    string `json:"industry"`
	Phone       string `json:"phone"`
	Email       string `json:"email"`
	Address     string `json:"address"`
}

type CustomerResponse struct {
	ID          string `json:"id"`
	CompanyName string `json:"company_name"`
	ContactName string `json:"contact_name"`
	Industry    string `json:"industry"`
	Phone       string `json:"phone"`
	Email       string `json:"email"`
	Address     string `json:"address"`
	CreatedAt   string `json:"created_at"`
}

// --- Interface ---

// CustomerService covers the customer master. Any authenticated actor may
// edit customers; deletion is blocked while visit records reference one.
type CustomerService interface {
	Create(ctx context.Context, req CustomerRequest) (*CustomerResponse, error)
	GetByID(ctx context.Context, id string) (*CustomerResponse, error)
	List(ctx context.Context, keyword string, page, limit int) ([]CustomerResponse, int64, error)
	Update(ctx context.Context, id string, req CustomerRequest) (*CustomerResponse, error)
	Delete(ctx context.Context, id string) error
}

type customerService struct {
	repo repository.CustomerRepository
}

func NewCustomerService(repo repository.CustomerRepository) CustomerService {
	return &customerService{repo: repo}
}

func validIndustry(industry string) bool {
	switch industry {
	case "", model.IndustryManufacturing, model.IndustryRetail, model.IndustryFinance,
		model.IndustryIT, model.IndustryConstruction, model.IndustryOther:
		return true
	}
	return false
}

func (s *customerService) Create(ctx context.Context, req CustomerRequest) (*CustomerResponse, error) {
	if err := workflow.ValidateCustomerFields(req.CompanyName, req.ContactName, req.Phone, req.Email, req.Address); err != nil {
		return nil, err
	}
	if !validIndustry(req.Industry) {
		return nil, apperr.Validation("invalid industry %q", req.Industry)
	}

	customer := &model.Customer{
		CompanyName: req.CompanyName,
		ContactName: req.ContactName,
		Industry:    req.Industry,
		Phone:       req.Phone,
		Email:       req.Email,
		Address:     req.Address,
	}
	if err := s.repo.Create(ctx, customer); err != nil {
		return nil, apperr.FromGorm(err, "customer")
	}
	return toCustomerResponse(customer), nil
}

func (s *customerService) GetByID(ctx context.Context, id string) (*CustomerResponse, error) {
	customerID, err := parseID(id, "customer")
	if err != nil {
		return nil, err
	}
	customer, err := s.repo.GetByID(ctx, customerID)
	if err != nil {
		return nil, apperr.FromGorm(err, "customer")
	}
	return toCustomerResponse(customer), nil
}

func (s *customerService) List(ctx context.Context, keyword string, page, limit int) ([]CustomerResponse, int64, error) {
	customers, total, err := s.repo.List(ctx, keyword, page, limit)
	if err != nil {
		return nil, 0, apperr.FromGorm(err, "customer")
	}
	result := make([]CustomerResponse, 0, len(customers))
	for i := range customers {
		result = append(result, *toCustomerResponse(&customers[i]))
	}
	return result, total, nil
}

func (s *customerService) Update(ctx context.Context, id string, req CustomerRequest) (*CustomerResponse, error) {
	customerID, err := parseID(id, "customer")
	if err != nil {
		return nil, err
	}
	if err := workflow.ValidateCustomerFields(req.CompanyName, req.ContactName, req.Phone, req.Email, req.Address); err != nil {
		return nil, err
	}
	if !validIndustry(req.Industry) {
		return nil, apperr.Validation("invalid industry %q", req.Industry)
	}

	customer, err := s.repo.GetByID(ctx, customerID)
	if err != nil {
		return nil, apperr.FromGorm(err, "customer")
	}

	customer.CompanyName = req.CompanyName
	customer.ContactName = req.ContactName
	customer.Industry = req.Industry
	customer.Phone = req.Phone
	customer.Email = req.Email
	customer.Address = req.Address

	if err := s.repo.Update(ctx, customer); err != nil {
		return nil, apperr.FromGorm(err, "customer")
	}
	return toCustomerResponse(customer), nil
}

func (s *customerService) Delete(ctx context.Context, id string) error {
	customerID, err := parseID(id, "customer")
	if err != nil {
		return err
	}
	if _, err := s.repo.GetByID(ctx, customerID); err != nil {
		return apperr.FromGorm(err, "customer")
	}

	refs, err := s.repo.CountVisitRefs(ctx, customerID)
	if err != nil {
		return apperr.FromGorm(err, "customer")
	}
	if refs > 0 {
		return apperr.StateConflict("customer is referenced by %d visit record(s) and cannot be deleted", refs)
	}
	return apperr.FromGorm(s.repo.Delete(ctx, customerID), "customer")
}

// --- Mapping ---

func toCustomerResponse(c *model.Customer) *CustomerResponse {
	return &CustomerResponse{
		ID:          c.ID.String(),
		CompanyName: c.CompanyName,
		ContactName: c.ContactName,
		Industry:    c.Industry,
		Phone:       c.Phone,
		Email:       c.Email,
		Address:     c.Address,
		CreatedAt:   c.CreatedAt.Format(time.RFC3339),
	}
}

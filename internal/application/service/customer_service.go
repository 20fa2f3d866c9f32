package service

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/sangkips/atelier-api/internal/domain/entity"
	"github.com/sangkips/atelier-api/internal/domain/repository"
	"github.com/sangkips/atelier-api/pkg/apperror"
	"github.com/sangkips/atelier-api/pkg/pagination"
	"github.com/sangkips/atelier-api/pkg/phone"
)

// CustomerService handles customer-related operations
type CustomerService struct {
	customerRepo repository.CustomerRepository
}

// NewCustomerService creates a new customer service
func NewCustomerService(customerRepo repository.CustomerRepository) *CustomerService {
	return &CustomerService{customerRepo: customerRepo}
}

// CustomerInput represents the create/update customer input. On update nil
// fields are left unchanged.
type CustomerInput struct {
	Name      *string
	Email     *string
	Phone     *string
	Address   *string
	City      *string
	District  *string
	TaxNumber *string
	TaxOffice *string
	Notes     *string
}

// CreateCustomer creates a new customer
func (s *CustomerService) CreateCustomer(ctx context.Context, input *CustomerInput) (*entity.Customer, error) {
	customer := &entity.Customer{}
	if err := s.apply(ctx, customer, input); err != nil {
		return nil, err
	}

	if err := s.customerRepo.Create(ctx, customer); err != nil {
		return nil, err
	}
	return customer, nil
}

// GetCustomer retrieves a customer by ID
func (s *CustomerService) GetCustomer(ctx context.Context, id uuid.UUID) (*entity.Customer, error) {
	customer, err := s.customerRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if customer == nil {
		return nil, apperror.NewNotFoundError("Customer")
	}
	return customer, nil
}

// ListCustomers lists customers
func (s *CustomerService) ListCustomers(ctx context.Context, params *pagination.Params, search string) (*pagination.Result[entity.Customer], error) {
	params.Validate()
	customers, total, err := s.customerRepo.List(ctx, params, search)
	if err != nil {
		return nil, err
	}

	pag := pagination.New(params.Page, params.PerPage, total)
	return pagination.NewResult(customers, pag), nil
}

// UpdateCustomer updates a customer
func (s *CustomerService) UpdateCustomer(ctx context.Context, id uuid.UUID, input *CustomerInput) (*entity.Customer, error) {
	customer, err := s.GetCustomer(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.apply(ctx, customer, input); err != nil {
		return nil, err
	}

	if err := s.customerRepo.Update(ctx, customer); err != nil {
		return nil, err
	}
	return customer, nil
}

// DeleteCustomer deletes a customer
func (s *CustomerService) DeleteCustomer(ctx context.Context, id uuid.UUID) error {
	if _, err := s.GetCustomer(ctx, id); err != nil {
		return err
	}
	return s.customerRepo.Delete(ctx, id)
}

func (s *CustomerService) apply(ctx context.Context, c *entity.Customer, in *CustomerInput) error {
	if in.Name != nil {
		c.Name = strings.TrimSpace(*in.Name)
	}
	if c.Name == "" {
		return apperror.NewValidationError([]apperror.FieldError{{Field: "name", Message: "name is required"}})
	}

	if in.Email != nil {
		email := normalizeEmail(*in.Email)
		if email != "" {
			existing, err := s.customerRepo.GetByEmail(ctx, email)
			if err != nil {
				return err
			}
			if existing != nil && existing.ID != c.ID {
				return apperror.NewConflictError("Customer email already exists")
			}
		}
		c.Email = optionalString(email)
	}
	if in.Phone != nil {
		p, err := normalizePhone(*in.Phone)
		if err != nil {
			return err
		}
		c.Phone = p
	}
	if in.Address != nil {
		c.Address = optionalString(*in.Address)
	}
	if in.City != nil {
		c.City = strings.TrimSpace(*in.City)
	}
	if in.District != nil {
		c.District = strings.TrimSpace(*in.District)
	}
	if in.TaxNumber != nil {
		c.TaxNumber = optionalString(*in.TaxNumber)
	}
	if in.TaxOffice != nil {
		c.TaxOffice = optionalString(*in.TaxOffice)
	}
	if in.Notes != nil {
		c.Notes = optionalString(*in.Notes)
	}
	return nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// normalizePhone returns nil for a blank number and a validation error for
// one that cannot be normalized.
func normalizePhone(raw string) (*string, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, nil
	}
	p, err := phone.Normalize(raw)
	if err != nil {
		return nil, apperror.NewValidationError([]apperror.FieldError{{Field: "phone", Message: "invalid phone number"}})
	}
	return &p, nil
}

func optionalString(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}

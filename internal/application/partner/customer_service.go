// Package partner implements back office customer management.
package partner

import (
	"context"
	"strings"

	"github.com/storefront/backend/internal/domain/partner"
	"github.com/storefront/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// CustomerService handles customer business operations
type CustomerService struct {
	customerRepo partner.CustomerRepository
	logger       *zap.Logger
}

// NewCustomerService creates a new CustomerService
func NewCustomerService(customerRepo partner.CustomerRepository, logger *zap.Logger) *CustomerService {
	return &CustomerService{
		customerRepo: customerRepo,
		logger:       logger,
	}
}

// Create creates a new customer. The password is stored hashed.
func (s *CustomerService) Create(ctx context.Context, req CreateCustomerRequest) (*CustomerResponse, error) {
	customer, err := partner.NewCustomer(req.FirstName, req.LastName, req.Phone, req.Email, req.Password)
	if err != nil {
		return nil, err
	}
	if err := s.customerRepo.Save(ctx, customer); err != nil {
		return nil, err
	}

	s.logger.Info("Customer created",
		zap.Uint("customer_id", customer.ID),
		zap.String("name", customer.String()))

	resp := ToCustomerResponse(customer)
	return &resp, nil
}

// GetByID retrieves a customer by id
func (s *CustomerService) GetByID(ctx context.Context, id uint) (*CustomerResponse, error) {
	customer, err := s.customerRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := ToCustomerResponse(customer)
	return &resp, nil
}

// List retrieves a page of customers
func (s *CustomerService) List(ctx context.Context, filter CustomerListFilter) ([]CustomerResponse, int64, error) {
	domainFilter := shared.Filter{
		Page:     filter.Page,
		PageSize: filter.PageSize,
		OrderBy:  filter.OrderBy,
		OrderDir: filter.OrderDir,
		Search:   strings.TrimSpace(filter.Search),
	}
	if domainFilter.Page < 1 {
		domainFilter.Page = 1
	}
	if domainFilter.PageSize < 1 {
		domainFilter.PageSize = shared.DefaultFilter().PageSize
	}

	customers, total, err := s.customerRepo.List(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	return ToCustomerResponses(customers), total, nil
}

// Update applies a partial update to a customer
func (s *CustomerService) Update(ctx context.Context, id uint, req UpdateCustomerRequest) (*CustomerResponse, error) {
	customer, err := s.customerRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	first, last, phone, email := customer.FirstName, customer.LastName, customer.Phone, customer.Email
	if req.FirstName != nil {
		first = *req.FirstName
	}
	if req.LastName != nil {
		last = *req.LastName
	}
	if req.Phone != nil {
		phone = *req.Phone
	}
	if req.Email != nil {
		email = *req.Email
	}
	if err := customer.UpdateContact(first, last, phone, email); err != nil {
		return nil, err
	}
	if req.Password != nil {
		if err := customer.SetPassword(*req.Password); err != nil {
			return nil, err
		}
	}

	if err := s.customerRepo.Save(ctx, customer); err != nil {
		return nil, err
	}

	resp := ToCustomerResponse(customer)
	return &resp, nil
}

// Delete removes a customer together with its orders
func (s *CustomerService) Delete(ctx context.Context, id uint) error {
	if err := s.customerRepo.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info("Customer deleted", zap.Uint("customer_id", id))
	return nil
}

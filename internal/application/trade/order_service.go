// Package trade implements back office order management.
package trade

import (
	"context"
	"errors"

	"github.com/storefront/backend/internal/domain/catalog"
	"github.com/storefront/backend/internal/domain/partner"
	"github.com/storefront/backend/internal/domain/shared"
	"github.com/storefront/backend/internal/domain/trade"
	"go.uber.org/zap"
)

var (
	// ErrInvalidProduct is returned when an order names a missing product
	ErrInvalidProduct = shared.NewDomainError("INVALID_PRODUCT", "Order product does not exist")
	// ErrInvalidCustomer is returned when an order names a missing customer
	ErrInvalidCustomer = shared.NewDomainError("INVALID_CUSTOMER", "Order customer does not exist")
)

// OrderService handles order business operations
type OrderService struct {
	orderRepo    trade.OrderRepository
	productRepo  catalog.ProductRepository
	customerRepo partner.CustomerRepository
	logger       *zap.Logger
}

// NewOrderService creates a new OrderService
func NewOrderService(
	orderRepo trade.OrderRepository,
	productRepo catalog.ProductRepository,
	customerRepo partner.CustomerRepository,
	logger *zap.Logger,
) *OrderService {
	return &OrderService{
		orderRepo:    orderRepo,
		productRepo:  productRepo,
		customerRepo: customerRepo,
		logger:       logger,
	}
}

// Create places an unfulfilled order dated today
func (s *OrderService) Create(ctx context.Context, req CreateOrderRequest) (*OrderResponse, error) {
	product, err := s.productRepo.FindByID(ctx, req.ProductID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, ErrInvalidProduct
		}
		return nil, err
	}
	if _, err := s.customerRepo.FindByID(ctx, req.CustomerID); err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, ErrInvalidCustomer
		}
		return nil, err
	}

	order, err := trade.NewOrder(req.ProductID, req.CustomerID, req.Quantity)
	if err != nil {
		return nil, err
	}
	if err := order.SetDelivery(req.Address, req.Phone); err != nil {
		return nil, err
	}
	if err := s.orderRepo.Save(ctx, order); err != nil {
		return nil, err
	}
	order.ProductName = product.Name

	s.logger.Info("Order created",
		zap.Uint("order_id", order.ID),
		zap.Uint("product_id", order.ProductID),
		zap.Uint("customer_id", order.CustomerID),
		zap.Int("quantity", order.Quantity))

	resp := ToOrderResponse(order)
	return &resp, nil
}

// GetByID retrieves an order by id
func (s *OrderService) GetByID(ctx context.Context, id uint) (*OrderResponse, error) {
	order, err := s.orderRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := ToOrderResponse(order)
	return &resp, nil
}

// List retrieves a page of orders
func (s *OrderService) List(ctx context.Context, filter OrderListFilter) ([]OrderResponse, int64, error) {
	domainFilter := trade.OrderFilter{
		Filter: shared.Filter{
			Page:     filter.Page,
			PageSize: filter.PageSize,
			OrderBy:  filter.OrderBy,
			OrderDir: filter.OrderDir,
		},
		Status:     filter.Status,
		CustomerID: filter.CustomerID,
	}
	if domainFilter.Page < 1 {
		domainFilter.Page = 1
	}
	if domainFilter.PageSize < 1 {
		domainFilter.PageSize = shared.DefaultFilter().PageSize
	}

	orders, total, err := s.orderRepo.List(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	return ToOrderResponses(orders), total, nil
}

// Update changes quantity, delivery details or fulfilment status
func (s *OrderService) Update(ctx context.Context, id uint, req UpdateOrderRequest) (*OrderResponse, error) {
	order, err := s.orderRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Quantity != nil {
		if err := order.SetQuantity(*req.Quantity); err != nil {
			return nil, err
		}
	}
	if req.Address != nil || req.Phone != nil {
		address, phone := order.Address, order.Phone
		if req.Address != nil {
			address = *req.Address
		}
		if req.Phone != nil {
			phone = *req.Phone
		}
		if err := order.SetDelivery(address, phone); err != nil {
			return nil, err
		}
	}
	if req.Status != nil && *req.Status != order.Status {
		if *req.Status {
			order.MarkFulfilled()
		} else {
			order.MarkUnfulfilled()
		}
		s.logger.Info("Order status changed",
			zap.Uint("order_id", order.ID),
			zap.Bool("fulfilled", order.Status))
	}

	if err := s.orderRepo.Save(ctx, order); err != nil {
		return nil, err
	}

	resp := ToOrderResponse(order)
	return &resp, nil
}

// Delete removes an order
func (s *OrderService) Delete(ctx context.Context, id uint) error {
	if err := s.orderRepo.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info("Order deleted", zap.Uint("order_id", id))
	return nil
}

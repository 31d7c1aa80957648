package trade

import (
	"time"

	"github.com/storefront/backend/internal/domain/trade"
)

// CreateOrderRequest represents a request to create an order
type CreateOrderRequest struct {
	ProductID  uint   `json:"product_id" binding:"required"`
	CustomerID uint   `json:"customer_id" binding:"required"`
	Quantity   int    `json:"quantity" binding:"omitempty,min=1"`
	Address    string `json:"address" binding:"max=100"`
	Phone      string `json:"phone" binding:"max=20"`
}

// UpdateOrderRequest represents a partial order update
type UpdateOrderRequest struct {
	Quantity *int    `json:"quantity" binding:"omitempty,min=1"`
	Address  *string `json:"address" binding:"omitempty,max=100"`
	Phone    *string `json:"phone" binding:"omitempty,max=20"`
	Status   *bool   `json:"status"`
}

// OrderListFilter represents filter options for the order list
type OrderListFilter struct {
	Status     *bool  `form:"status"`
	CustomerID *uint  `form:"customer_id"`
	Page       int    `form:"page" binding:"omitempty,min=1"`
	PageSize   int    `form:"page_size" binding:"omitempty,min=1,max=100"`
	OrderBy    string `form:"order_by"`
	OrderDir   string `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}

// OrderResponse represents an order in responses
type OrderResponse struct {
	ID          uint      `json:"id"`
	ProductID   uint      `json:"product_id"`
	ProductName string    `json:"product_name"`
	CustomerID  uint      `json:"customer_id"`
	Quantity    int       `json:"quantity"`
	Address     string    `json:"address"`
	Phone       string    `json:"phone"`
	Date        string    `json:"date"`
	Status      bool      `json:"status"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// ToOrderResponse converts a domain Order to OrderResponse
func ToOrderResponse(o *trade.Order) OrderResponse {
	return OrderResponse{
		ID:          o.ID,
		ProductID:   o.ProductID,
		ProductName: o.ProductName,
		CustomerID:  o.CustomerID,
		Quantity:    o.Quantity,
		Address:     o.Address,
		Phone:       o.Phone,
		Date:        o.Date.Format(time.DateOnly),
		Status:      o.Status,
		CreatedAt:   o.CreatedAt,
		UpdatedAt:   o.UpdatedAt,
	}
}

// ToOrderResponses converts a slice of domain Orders
func ToOrderResponses(orders []trade.Order) []OrderResponse {
	out := make([]OrderResponse, len(orders))
	for i := range orders {
		out[i] = ToOrderResponse(&orders[i])
	}
	return out
}

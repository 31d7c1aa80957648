package cart

import (
	"github.com/shopspring/decimal"
	catalogapp "github.com/storefront/backend/internal/application/catalog"
)

// ItemInput is the body of /cart/add and /cart/update
type ItemInput struct {
	ProductID uint `form:"product_id" json:"product_id" binding:"required"`
	Quantity  int  `form:"product_qty" json:"product_qty"`
}

// RemoveInput is the body of /cart/delete
type RemoveInput struct {
	ProductID uint `form:"product_id" json:"product_id" binding:"required"`
}

// CountResponse is returned by every cart mutation
type CountResponse struct {
	Quantity int `json:"qty"`
}

// Line is one product in the cart summary
type Line struct {
	Product   catalogapp.ProductResponse `json:"product"`
	Quantity  int                        `json:"quantity"`
	UnitPrice decimal.Decimal            `json:"unit_price"`
	LineTotal decimal.Decimal            `json:"line_total"`
}

// Summary is the payload of the cart page
type Summary struct {
	Lines         []Line          `json:"lines"`
	TotalQuantity int             `json:"total_quantity"`
	Total         decimal.Decimal `json:"total"`
}

// RestoreResult reports what a login-time restore did
type RestoreResult struct {
	Restored int    `json:"restored"`
	Dropped  []uint `json:"dropped,omitempty"`
	Skipped  bool   `json:"skipped"`
}

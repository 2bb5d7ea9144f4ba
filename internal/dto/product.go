package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

type CreateProductRequest struct {
	SKU         string           `json:"sku"`
	Name        string           `json:"name"`
	Description *string          `json:"description"`
	Category    string           `json:"category"`
	Price       *decimal.Decimal `json:"price"`
}

// UpdateProductRequest applies only the fields that are present. The SKU is
// immutable.
type UpdateProductRequest struct {
	Name        *string          `json:"name"`
	Description *string          `json:"description"`
	Category    *string          `json:"category"`
	Price       *decimal.Decimal `json:"price"`
}

type ProductListQuery struct {
	Page     int
	PageSize int
	Category string
	MinPrice *decimal.Decimal
	MaxPrice *decimal.Decimal
	Stock    *int
}

type ProductInventoryDTO struct {
	StoreID  string `json:"storeId"`
	Quantity int    `json:"quantity"`
}

type ProductDTO struct {
	SKU         string                `json:"sku"`
	Name        string                `json:"name"`
	Description *string               `json:"description"`
	Category    string                `json:"category"`
	Price       decimal.Decimal       `json:"price"`
	Inventories []ProductInventoryDTO `json:"inventories,omitempty"`
	CreatedAt   time.Time             `json:"createdAt"`
	UpdatedAt   time.Time             `json:"updatedAt"`
}

type ProductPage struct {
	Total      int          `json:"total"`
	Page       int          `json:"page"`
	PageSize   int          `json:"pageSize"`
	TotalPages int          `json:"totalPages"`
	Data       []ProductDTO `json:"data"`
}

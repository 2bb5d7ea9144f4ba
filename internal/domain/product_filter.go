package domain

import "github.com/shopspring/decimal"

// ProductFilter narrows a catalog listing. Zero values mean "no constraint".
type ProductFilter struct {
	Categories []string
	MinPrice   *decimal.Decimal
	MaxPrice   *decimal.Decimal
	MinStock   *int
	Limit      int
	Offset     int
}

type ProductStock struct {
	StoreID  string
	Quantity int
}

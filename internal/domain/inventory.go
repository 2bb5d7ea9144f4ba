package domain

import "time"

type Inventory struct {
	ID         string
	StoreID    string
	ProductSKU string
	Quantity   int
	MinStock   int
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// CanRelease reports whether removing amount units keeps the row at or above
// its minimum stock floor.
func (i Inventory) CanRelease(amount int) bool {
	return i.Quantity-amount >= i.MinStock
}

func (i Inventory) BelowFloor() bool {
	return i.Quantity <= i.MinStock
}

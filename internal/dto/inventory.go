package dto

import "time"

type InventoryDTO struct {
	ID         string    `json:"id"`
	StoreID    string    `json:"storeId"`
	ProductSKU string    `json:"productSku"`
	Quantity   int       `json:"quantity"`
	MinStock   int       `json:"minStock"`
	LowStock   bool      `json:"lowStock"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

type StoreInventoryResponse struct {
	StoreID   string         `json:"storeId"`
	Inventory []InventoryDTO `json:"inventory"`
}

type StoresResponse struct {
	Stores []string `json:"stores"`
}

type AlertsResponse struct {
	Alerts []InventoryDTO `json:"alerts"`
}

type MovementDTO struct {
	ID            uint64    `json:"id"`
	ProductSKU    string    `json:"productSku"`
	Quantity      int       `json:"quantity"`
	Type          string    `json:"type"`
	SourceStoreID *string   `json:"sourceStoreId"`
	TargetStoreID *string   `json:"targetStoreId"`
	CreatedAt     time.Time `json:"createdAt"`
}

type MovementsResponse struct {
	ProductSKU string        `json:"productSku"`
	Movements  []MovementDTO `json:"movements"`
}

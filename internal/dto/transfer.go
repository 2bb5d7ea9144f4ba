package dto

import "time"

type ProductTransferRequest struct {
	SKU           string `json:"sku"`
	Quantity      int    `json:"quantity"`
	SourceStoreID string `json:"sourceStoreId,omitempty"`
	TargetStoreID string `json:"targetStoreId,omitempty"`
}

type TransferResponse struct {
	TraceID   string    `json:"traceId"`
	Success   bool      `json:"success"`
	Type      string    `json:"type"`
	Timestamp time.Time `json:"timestamp"`
}

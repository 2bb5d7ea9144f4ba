package domain

import "time"

type MovementType string

const (
	MovementIn       MovementType = "IN"
	MovementOut      MovementType = "OUT"
	MovementTransfer MovementType = "TRANSFER"
)

func (t MovementType) Valid() bool {
	switch t {
	case MovementIn, MovementOut, MovementTransfer:
		return true
	}
	return false
}

// Movement is an append-only ledger entry. SourceStoreID is set for OUT and
// TRANSFER, TargetStoreID for IN and TRANSFER.
type Movement struct {
	ID            uint64
	ProductSKU    string
	Quantity      int
	Type          MovementType
	SourceStoreID *string
	TargetStoreID *string
	CreatedAt     time.Time
}

package service

import (
	"context"

	"stockroom/internal/domain"
	apperrors "stockroom/internal/errors"
)

const (
	DefaultMovementLimit = 50
	MaxMovementLimit     = 500
)

type InventoryReader interface {
	ListDistinctStores(ctx context.Context) ([]string, error)
	ListByStore(ctx context.Context, storeID string) ([]domain.Inventory, error)
	ListBelowMinStock(ctx context.Context) ([]domain.Inventory, error)
}

type MovementReader interface {
	ListByProduct(ctx context.Context, sku string, limit int) ([]domain.Movement, error)
}

type ProductFinder interface {
	FindBySKU(ctx context.Context, sku string) (*domain.Product, error)
}

// StockQueryService is the read side of the stock subsystem. It never holds
// locks and never caches inventory.
type StockQueryService struct {
	inventory InventoryReader
	movements MovementReader
	products  ProductFinder
}

func NewStockQueryService(inventory InventoryReader, movements MovementReader, products ProductFinder) *StockQueryService {
	return &StockQueryService{
		inventory: inventory,
		movements: movements,
		products:  products,
	}
}

func (s *StockQueryService) ListStores(ctx context.Context) ([]string, error) {
	return s.inventory.ListDistinctStores(ctx)
}

// ListInventoryStore returns every inventory row held by the store. A store
// is known only through its inventory, so an empty result means it does not
// exist.
func (s *StockQueryService) ListInventoryStore(ctx context.Context, storeID string) ([]domain.Inventory, error) {
	if storeID == "" {
		return nil, apperrors.NewBadRequestError("store does not exist")
	}

	items, err := s.inventory.ListByStore(ctx, storeID)
	if err != nil {
		return nil, err
	}

	if len(items) == 0 {
		return nil, apperrors.NewBadRequestError("store does not exist")
	}

	return items, nil
}

func (s *StockQueryService) ListAlerts(ctx context.Context) ([]domain.Inventory, error) {
	return s.inventory.ListBelowMinStock(ctx)
}

func (s *StockQueryService) ListMovements(ctx context.Context, sku string, limit int) ([]domain.Movement, error) {
	if _, err := s.products.FindBySKU(ctx, sku); err != nil {
		return nil, err
	}

	switch {
	case limit <= 0:
		limit = DefaultMovementLimit
	case limit > MaxMovementLimit:
		limit = MaxMovementLimit
	}

	return s.movements.ListByProduct(ctx, sku, limit)
}

package service

import (
	"context"
	"sort"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"stockroom/internal/domain"
	"stockroom/internal/dto"
	apperrors "stockroom/internal/errors"
)

// UnitOfWork is one transaction against the inventory store. Rollback must be
// safe to call after Commit.
type UnitOfWork interface {
	FindProductBySKU(ctx context.Context, sku string) (*domain.Product, error)
	FindInventoryForUpdate(ctx context.Context, storeID, sku string) (*domain.Inventory, error)
	DecrementInventory(ctx context.Context, storeID, sku string, amount int) error
	UpsertInventory(ctx context.Context, storeID, sku string, amount int) error
	AppendMovement(ctx context.Context, m *domain.Movement) error
	Commit() error
	Rollback() error
}

type UnitOfWorkFactory interface {
	Begin(ctx context.Context) (UnitOfWork, error)
}

type transferHandler func(ctx context.Context, uow UnitOfWork, req dto.ProductTransferRequest) error

type TransferEngine struct {
	uow       UnitOfWorkFactory
	logger    *zap.Logger
	tracer    trace.Tracer
	txTimeout time.Duration
	handlers  map[domain.MovementType]transferHandler
}

func NewTransferEngine(uow UnitOfWorkFactory, logger *zap.Logger, txTimeout time.Duration) *TransferEngine {
	e := &TransferEngine{
		uow:       uow,
		logger:    logger,
		tracer:    otel.Tracer("stockroom/internal/stock/service"),
		txTimeout: txTimeout,
	}
	e.handlers = map[domain.MovementType]transferHandler{
		domain.MovementOut:      e.transferOut,
		domain.MovementIn:       e.transferIn,
		domain.MovementTransfer: e.transferBetweenStores,
	}
	return e
}

// Transfer validates req and applies it inside a single unit of work. Nothing
// is written unless every step succeeds. Conflicts with concurrent transfers
// are returned to the caller, never retried here.
func (e *TransferEngine) Transfer(ctx context.Context, t domain.MovementType, req dto.ProductTransferRequest) (bool, error) {
	if err := ValidateProductTransfer(req); err != nil {
		return false, err
	}
	if err := ValidateTransferType(t, req); err != nil {
		return false, err
	}

	ctx, span := e.tracer.Start(ctx, "stock.Transfer", trace.WithAttributes(
		attribute.String("transfer.type", string(t)),
		attribute.String("product.sku", req.SKU),
		attribute.Int("transfer.quantity", req.Quantity),
	))
	defer span.End()

	logger := e.logger.With(
		zap.String("type", string(t)),
		zap.String("sku", req.SKU),
		zap.Int("quantity", req.Quantity),
		zap.String("sourceStoreId", req.SourceStoreID),
		zap.String("targetStoreId", req.TargetStoreID),
	)

	txCtx, cancel := context.WithTimeout(ctx, e.txTimeout)
	defer cancel()

	uow, err := e.uow.Begin(txCtx)
	if err != nil {
		logger.Error("failed to begin unit of work", zap.Error(err))
		recordError(span, err)
		return false, err
	}
	defer func() {
		if rbErr := uow.Rollback(); rbErr != nil {
			logger.Error("rollback failed", zap.Error(rbErr))
		}
	}()

	if err := e.handlers[t](txCtx, uow, req); err != nil {
		logger.Warn("transfer rolled back", zap.Error(err))
		recordError(span, err)
		return false, err
	}

	if err := uow.Commit(); err != nil {
		logger.Error("failed to commit transfer", zap.Error(err))
		recordError(span, err)
		return false, err
	}

	logger.Info("transfer committed")
	return true, nil
}

func (e *TransferEngine) transferOut(ctx context.Context, uow UnitOfWork, req dto.ProductTransferRequest) error {
	product, err := uow.FindProductBySKU(ctx, req.SKU)
	if err != nil {
		return err
	}

	if err := e.release(ctx, uow, product.SKU, req.SourceStoreID, req.Quantity); err != nil {
		return err
	}

	return uow.AppendMovement(ctx, &domain.Movement{
		ProductSKU:    product.SKU,
		Quantity:      req.Quantity,
		Type:          domain.MovementOut,
		SourceStoreID: stringPtr(req.SourceStoreID),
	})
}

func (e *TransferEngine) transferIn(ctx context.Context, uow UnitOfWork, req dto.ProductTransferRequest) error {
	product, err := uow.FindProductBySKU(ctx, req.SKU)
	if err != nil {
		return err
	}

	if err := uow.UpsertInventory(ctx, req.TargetStoreID, product.SKU, req.Quantity); err != nil {
		return err
	}

	return uow.AppendMovement(ctx, &domain.Movement{
		ProductSKU:    product.SKU,
		Quantity:      req.Quantity,
		Type:          domain.MovementIn,
		TargetStoreID: stringPtr(req.TargetStoreID),
	})
}

// transferBetweenStores moves stock from source to target and records a
// single TRANSFER movement carrying both store ids.
func (e *TransferEngine) transferBetweenStores(ctx context.Context, uow UnitOfWork, req dto.ProductTransferRequest) error {
	product, err := uow.FindProductBySKU(ctx, req.SKU)
	if err != nil {
		return err
	}

	// Lock both rows in store id order so opposing transfers cannot deadlock.
	stores := []string{req.SourceStoreID, req.TargetStoreID}
	sort.Strings(stores)
	for _, storeID := range stores {
		_, err := uow.FindInventoryForUpdate(ctx, storeID, product.SKU)
		if err == nil {
			continue
		}
		if _, ok := apperrors.IsNotFoundError(err); ok && storeID == req.TargetStoreID {
			continue
		}
		return err
	}

	if err := e.release(ctx, uow, product.SKU, req.SourceStoreID, req.Quantity); err != nil {
		return err
	}

	if err := uow.UpsertInventory(ctx, req.TargetStoreID, product.SKU, req.Quantity); err != nil {
		return err
	}

	return uow.AppendMovement(ctx, &domain.Movement{
		ProductSKU:    product.SKU,
		Quantity:      req.Quantity,
		Type:          domain.MovementTransfer,
		SourceStoreID: stringPtr(req.SourceStoreID),
		TargetStoreID: stringPtr(req.TargetStoreID),
	})
}

// release locks the source row, enforces the minimum stock floor and
// decrements the row in place.
func (e *TransferEngine) release(ctx context.Context, uow UnitOfWork, sku, storeID string, amount int) error {
	inv, err := uow.FindInventoryForUpdate(ctx, storeID, sku)
	if err != nil {
		return err
	}

	if !inv.CanRelease(amount) {
		return apperrors.NewInsufficientStockError(sku, storeID, inv.Quantity, inv.MinStock, amount)
	}

	return uow.DecrementInventory(ctx, storeID, sku, amount)
}

func recordError(span trace.Span, err error) {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
}

func stringPtr(s string) *string {
	return &s
}

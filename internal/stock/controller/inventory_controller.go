package controller

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"stockroom/internal/domain"
	"stockroom/internal/dto"
	apperrors "stockroom/internal/errors"
	"stockroom/internal/server/respond"
)

const IdempotencyKeyHeader = "Idempotency-Key"

type Transferrer interface {
	Transfer(ctx context.Context, t domain.MovementType, req dto.ProductTransferRequest) (bool, error)
}

type StockQueries interface {
	ListStores(ctx context.Context) ([]string, error)
	ListInventoryStore(ctx context.Context, storeID string) ([]domain.Inventory, error)
	ListAlerts(ctx context.Context) ([]domain.Inventory, error)
	ListMovements(ctx context.Context, sku string, limit int) ([]domain.Movement, error)
}

// IdempotencyGuard deduplicates transfer requests carrying an
// Idempotency-Key header.
type IdempotencyGuard interface {
	Acquire(ctx context.Context, key, owner string) (bool, error)
	Release(ctx context.Context, key, owner string) error
}

type InventoryController struct {
	engine  Transferrer
	queries StockQueries
	guard   IdempotencyGuard
	logger  *zap.Logger
}

// NewInventoryController builds the controller. guard may be nil, in which
// case the Idempotency-Key header is ignored.
func NewInventoryController(engine Transferrer, queries StockQueries, guard IdempotencyGuard, logger *zap.Logger) *InventoryController {
	return &InventoryController{
		engine:  engine,
		queries: queries,
		guard:   guard,
		logger:  logger,
	}
}

func (c *InventoryController) Transfer(w http.ResponseWriter, r *http.Request) {
	traceID := respond.NewTraceID()
	logger := c.logger.With(zap.String("traceId", traceID))

	t := domain.MovementType(strings.ToUpper(r.URL.Query().Get("type")))
	if !t.Valid() {
		respond.ValidationError(w, logger, traceID, "invalid transaction type", apperrors.ValidationDetail{
			Field:   "type",
			Message: "type must be one of IN, OUT, TRANSFER",
		})
		return
	}

	var req dto.ProductTransferRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.Warn("invalid JSON body", zap.Error(err))
		respond.ValidationError(w, logger, traceID, "invalid JSON body", apperrors.ValidationDetail{
			Field:   "body",
			Message: "request body must be valid JSON",
		})
		return
	}

	key := strings.TrimSpace(r.Header.Get(IdempotencyKeyHeader))
	if c.guard != nil && key != "" {
		acquired, err := c.guard.Acquire(r.Context(), key, traceID)
		if err != nil {
			respond.Error(w, logger, traceID, err)
			return
		}
		if !acquired {
			logger.Warn("duplicate idempotency key", zap.String("idempotencyKey", key))
			respond.Error(w, logger, traceID, apperrors.NewConflictError("request with this idempotency key was already received"))
			return
		}
	}

	ok, err := c.engine.Transfer(r.Context(), t, req)
	if err != nil {
		if c.guard != nil && key != "" {
			if relErr := c.guard.Release(context.WithoutCancel(r.Context()), key, traceID); relErr != nil {
				logger.Error("failed to release idempotency key", zap.Error(relErr))
			}
		}
		respond.Error(w, logger, traceID, err)
		return
	}

	respond.JSON(w, logger, http.StatusOK, dto.TransferResponse{
		TraceID:   traceID,
		Success:   ok,
		Type:      string(t),
		Timestamp: time.Now().UTC(),
	})
}

func (c *InventoryController) Alerts(w http.ResponseWriter, r *http.Request) {
	traceID := respond.NewTraceID()
	logger := c.logger.With(zap.String("traceId", traceID))

	items, err := c.queries.ListAlerts(r.Context())
	if err != nil {
		respond.Error(w, logger, traceID, err)
		return
	}

	respond.JSON(w, logger, http.StatusOK, dto.AlertsResponse{Alerts: toInventoryDTOs(items)})
}

func (c *InventoryController) Movements(w http.ResponseWriter, r *http.Request) {
	traceID := respond.NewTraceID()
	logger := c.logger.With(zap.String("traceId", traceID))

	sku := chi.URLParam(r, "sku")

	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			respond.ValidationError(w, logger, traceID, "invalid limit", apperrors.ValidationDetail{
				Field:   "limit",
				Message: "limit must be a positive integer",
			})
			return
		}
		limit = n
	}

	movements, err := c.queries.ListMovements(r.Context(), sku, limit)
	if err != nil {
		respond.Error(w, logger, traceID, err)
		return
	}

	out := make([]dto.MovementDTO, len(movements))
	for i, m := range movements {
		out[i] = dto.MovementDTO{
			ID:            m.ID,
			ProductSKU:    m.ProductSKU,
			Quantity:      m.Quantity,
			Type:          string(m.Type),
			SourceStoreID: m.SourceStoreID,
			TargetStoreID: m.TargetStoreID,
			CreatedAt:     m.CreatedAt,
		}
	}

	respond.JSON(w, logger, http.StatusOK, dto.MovementsResponse{ProductSKU: sku, Movements: out})
}

func toInventoryDTOs(items []domain.Inventory) []dto.InventoryDTO {
	out := make([]dto.InventoryDTO, len(items))
	for i, inv := range items {
		out[i] = dto.InventoryDTO{
			ID:         inv.ID,
			StoreID:    inv.StoreID,
			ProductSKU: inv.ProductSKU,
			Quantity:   inv.Quantity,
			MinStock:   inv.MinStock,
			LowStock:   inv.BelowFloor(),
			UpdatedAt:  inv.UpdatedAt,
		}
	}
	return out
}

package controller

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"stockroom/internal/dto"
	"stockroom/internal/server/respond"
)

type StoresController struct {
	queries StockQueries
	logger  *zap.Logger
}

func NewStoresController(queries StockQueries, logger *zap.Logger) *StoresController {
	return &StoresController{queries: queries, logger: logger}
}

func (c *StoresController) List(w http.ResponseWriter, r *http.Request) {
	traceID := respond.NewTraceID()
	logger := c.logger.With(zap.String("traceId", traceID))

	stores, err := c.queries.ListStores(r.Context())
	if err != nil {
		respond.Error(w, logger, traceID, err)
		return
	}
	if stores == nil {
		stores = []string{}
	}

	respond.JSON(w, logger, http.StatusOK, dto.StoresResponse{Stores: stores})
}

func (c *StoresController) Inventory(w http.ResponseWriter, r *http.Request) {
	traceID := respond.NewTraceID()
	logger := c.logger.With(zap.String("traceId", traceID))

	storeID := chi.URLParam(r, "id")

	items, err := c.queries.ListInventoryStore(r.Context(), storeID)
	if err != nil {
		respond.Error(w, logger, traceID, err)
		return
	}

	respond.JSON(w, logger, http.StatusOK, dto.StoreInventoryResponse{
		StoreID:   storeID,
		Inventory: toInventoryDTOs(items),
	})
}

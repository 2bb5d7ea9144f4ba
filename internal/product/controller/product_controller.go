package controller

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"stockroom/internal/dto"
	apperrors "stockroom/internal/errors"
	"stockroom/internal/server/respond"
)

type ProductService interface {
	Create(ctx context.Context, req dto.CreateProductRequest) (*dto.ProductDTO, error)
	Get(ctx context.Context, sku string) (*dto.ProductDTO, error)
	Update(ctx context.Context, sku string, req dto.UpdateProductRequest) (*dto.ProductDTO, error)
	Delete(ctx context.Context, sku string) error
	List(ctx context.Context, q dto.ProductListQuery) (*dto.ProductPage, error)
}

type Controller struct {
	service ProductService
	logger  *zap.Logger
}

func NewController(service ProductService, logger *zap.Logger) *Controller {
	return &Controller{service: service, logger: logger}
}

func (c *Controller) List(w http.ResponseWriter, r *http.Request) {
	traceID := respond.NewTraceID()
	logger := c.logger.With(zap.String("traceId", traceID))

	q, details := parseListQuery(r)
	if len(details) > 0 {
		respond.ValidationError(w, logger, traceID, "invalid query parameters", details...)
		return
	}

	page, err := c.service.List(r.Context(), q)
	if err != nil {
		respond.Error(w, logger, traceID, err)
		return
	}

	respond.JSON(w, logger, http.StatusOK, page)
}

func (c *Controller) Get(w http.ResponseWriter, r *http.Request) {
	traceID := respond.NewTraceID()
	logger := c.logger.With(zap.String("traceId", traceID))

	p, err := c.service.Get(r.Context(), chi.URLParam(r, "sku"))
	if err != nil {
		respond.Error(w, logger, traceID, err)
		return
	}

	respond.JSON(w, logger, http.StatusOK, p)
}

func (c *Controller) Create(w http.ResponseWriter, r *http.Request) {
	traceID := respond.NewTraceID()
	logger := c.logger.With(zap.String("traceId", traceID))

	var req dto.CreateProductRequest
	if !c.decode(w, r, logger, traceID, &req) {
		return
	}

	p, err := c.service.Create(r.Context(), req)
	if err != nil {
		respond.Error(w, logger, traceID, err)
		return
	}

	respond.JSON(w, logger, http.StatusCreated, p)
}

func (c *Controller) Update(w http.ResponseWriter, r *http.Request) {
	traceID := respond.NewTraceID()
	logger := c.logger.With(zap.String("traceId", traceID))

	var req dto.UpdateProductRequest
	if !c.decode(w, r, logger, traceID, &req) {
		return
	}

	p, err := c.service.Update(r.Context(), chi.URLParam(r, "sku"), req)
	if err != nil {
		respond.Error(w, logger, traceID, err)
		return
	}

	respond.JSON(w, logger, http.StatusOK, p)
}

func (c *Controller) Delete(w http.ResponseWriter, r *http.Request) {
	traceID := respond.NewTraceID()
	logger := c.logger.With(zap.String("traceId", traceID))

	if err := c.service.Delete(r.Context(), chi.URLParam(r, "sku")); err != nil {
		respond.Error(w, logger, traceID, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (c *Controller) decode(w http.ResponseWriter, r *http.Request, logger *zap.Logger, traceID string, dst interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		logger.Warn("invalid JSON body", zap.Error(err))
		respond.ValidationError(w, logger, traceID, "invalid JSON body", apperrors.ValidationDetail{
			Field:   "body",
			Message: "request body must be valid JSON",
		})
		return false
	}
	return true
}

func parseListQuery(r *http.Request) (dto.ProductListQuery, []apperrors.ValidationDetail) {
	values := r.URL.Query()
	q := dto.ProductListQuery{Category: values.Get("category")}
	var details []apperrors.ValidationDetail

	parseInt := func(field string) *int {
		raw := values.Get(field)
		if raw == "" {
			return nil
		}
		n, err := strconv.Atoi(raw)
		if err != nil {
			details = append(details, apperrors.ValidationDetail{Field: field, Message: field + " must be an integer"})
			return nil
		}
		return &n
	}

	parseDecimal := func(field string) *decimal.Decimal {
		raw := values.Get(field)
		if raw == "" {
			return nil
		}
		d, err := decimal.NewFromString(raw)
		if err != nil {
			details = append(details, apperrors.ValidationDetail{Field: field, Message: field + " must be a number"})
			return nil
		}
		return &d
	}

	if page := parseInt("page"); page != nil {
		if *page < 1 {
			details = append(details, apperrors.ValidationDetail{Field: "page", Message: "page must be greater than zero"})
		}
		q.Page = *page
	}
	if pageSize := parseInt("pageSize"); pageSize != nil {
		if *pageSize < 1 {
			details = append(details, apperrors.ValidationDetail{Field: "pageSize", Message: "pageSize must be between 1 and 100"})
		}
		q.PageSize = *pageSize
	}
	q.Stock = parseInt("stock")
	q.MinPrice = parseDecimal("minPrice")
	q.MaxPrice = parseDecimal("maxPrice")

	return q, details
}

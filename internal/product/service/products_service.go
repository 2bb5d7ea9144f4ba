package service

import (
	"context"
	"strings"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"stockroom/internal/domain"
	"stockroom/internal/dto"
	apperrors "stockroom/internal/errors"
)

const (
	DefaultPageSize = 10
	MaxPageSize     = 100
)

type Repository interface {
	FindBySKU(ctx context.Context, sku string) (*domain.Product, error)
	Create(ctx context.Context, p domain.Product) error
	Update(ctx context.Context, p domain.Product) error
	Delete(ctx context.Context, sku string) error
	List(ctx context.Context, f domain.ProductFilter) ([]domain.Product, int, error)
	StockBySKU(ctx context.Context, skus []string) (map[string][]domain.ProductStock, error)
}

type ProductService struct {
	repo   Repository
	logger *zap.Logger
}

func NewService(repo Repository, logger *zap.Logger) *ProductService {
	return &ProductService{repo: repo, logger: logger}
}

// FindBySKU lets the stock module resolve products without depending on the
// catalog's HTTP types.
func (s *ProductService) FindBySKU(ctx context.Context, sku string) (*domain.Product, error) {
	return s.repo.FindBySKU(ctx, sku)
}

func (s *ProductService) Create(ctx context.Context, req dto.CreateProductRequest) (*dto.ProductDTO, error) {
	if err := validateCreate(req); err != nil {
		return nil, err
	}

	p := domain.Product{
		SKU:         strings.TrimSpace(req.SKU),
		Name:        strings.TrimSpace(req.Name),
		Description: req.Description,
		Category:    strings.TrimSpace(req.Category),
		Price:       *req.Price,
	}

	if err := s.repo.Create(ctx, p); err != nil {
		if _, ok := apperrors.IsConflictError(err); ok {
			return nil, apperrors.NewConflictErrorWithCause("product with this sku already exists", err)
		}
		return nil, err
	}

	s.logger.Info("product created", zap.String("sku", p.SKU))

	created, err := s.repo.FindBySKU(ctx, p.SKU)
	if err != nil {
		return nil, err
	}
	out := toDTO(*created, nil)
	return &out, nil
}

func (s *ProductService) Get(ctx context.Context, sku string) (*dto.ProductDTO, error) {
	p, err := s.repo.FindBySKU(ctx, sku)
	if err != nil {
		return nil, err
	}

	stock, err := s.repo.StockBySKU(ctx, []string{sku})
	if err != nil {
		return nil, err
	}

	out := toDTO(*p, stock[sku])
	return &out, nil
}

func (s *ProductService) Update(ctx context.Context, sku string, req dto.UpdateProductRequest) (*dto.ProductDTO, error) {
	if err := validateUpdate(req); err != nil {
		return nil, err
	}

	p, err := s.repo.FindBySKU(ctx, sku)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		p.Name = strings.TrimSpace(*req.Name)
	}
	if req.Description != nil {
		p.Description = req.Description
	}
	if req.Category != nil {
		p.Category = strings.TrimSpace(*req.Category)
	}
	if req.Price != nil {
		p.Price = *req.Price
	}

	if err := s.repo.Update(ctx, *p); err != nil {
		return nil, err
	}

	s.logger.Info("product updated", zap.String("sku", sku))

	return s.Get(ctx, sku)
}

func (s *ProductService) Delete(ctx context.Context, sku string) error {
	if err := s.repo.Delete(ctx, sku); err != nil {
		if _, ok := apperrors.IsBadRequestError(err); ok {
			return apperrors.NewBadRequestError("product still has inventory or movements")
		}
		return err
	}

	s.logger.Info("product deleted", zap.String("sku", sku))
	return nil
}

func (s *ProductService) List(ctx context.Context, q dto.ProductListQuery) (*dto.ProductPage, error) {
	page, pageSize, err := normalizePage(q.Page, q.PageSize)
	if err != nil {
		return nil, err
	}

	filter, err := buildFilter(q)
	if err != nil {
		return nil, err
	}
	filter.Limit = pageSize
	filter.Offset = (page - 1) * pageSize

	products, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}

	skus := make([]string, len(products))
	for i, p := range products {
		skus[i] = p.SKU
	}

	stock, err := s.repo.StockBySKU(ctx, skus)
	if err != nil {
		return nil, err
	}

	data := make([]dto.ProductDTO, len(products))
	for i, p := range products {
		data[i] = toDTO(p, stock[p.SKU])
	}

	return &dto.ProductPage{
		Total:      total,
		Page:       page,
		PageSize:   pageSize,
		TotalPages: (total + pageSize - 1) / pageSize,
		Data:       data,
	}, nil
}

func normalizePage(page, pageSize int) (int, int, error) {
	var details []apperrors.ValidationDetail

	if page == 0 {
		page = 1
	}
	if page < 0 {
		details = append(details, apperrors.ValidationDetail{Field: "page", Message: "page must be greater than zero"})
	}

	if pageSize == 0 {
		pageSize = DefaultPageSize
	}
	if pageSize < 0 || pageSize > MaxPageSize {
		details = append(details, apperrors.ValidationDetail{Field: "pageSize", Message: "pageSize must be between 1 and 100"})
	}

	if len(details) > 0 {
		return 0, 0, apperrors.NewValidationError("invalid pagination", details...)
	}
	return page, pageSize, nil
}

func buildFilter(q dto.ProductListQuery) (domain.ProductFilter, error) {
	var f domain.ProductFilter
	var details []apperrors.ValidationDetail

	for _, c := range strings.Split(q.Category, ",") {
		if c = strings.TrimSpace(c); c != "" {
			f.Categories = append(f.Categories, strings.ToLower(c))
		}
	}

	if q.MinPrice != nil && q.MinPrice.IsNegative() {
		details = append(details, apperrors.ValidationDetail{Field: "minPrice", Message: "minPrice must not be negative"})
	}
	if q.MaxPrice != nil && q.MaxPrice.IsNegative() {
		details = append(details, apperrors.ValidationDetail{Field: "maxPrice", Message: "maxPrice must not be negative"})
	}
	if q.MinPrice != nil && q.MaxPrice != nil && q.MinPrice.GreaterThan(*q.MaxPrice) {
		details = append(details, apperrors.ValidationDetail{Field: "minPrice", Message: "minPrice must not exceed maxPrice"})
	}
	if q.Stock != nil && *q.Stock < 0 {
		details = append(details, apperrors.ValidationDetail{Field: "stock", Message: "stock must not be negative"})
	}

	if len(details) > 0 {
		return f, apperrors.NewValidationError("invalid filters", details...)
	}

	f.MinPrice = q.MinPrice
	f.MaxPrice = q.MaxPrice
	f.MinStock = q.Stock
	return f, nil
}

func validateCreate(req dto.CreateProductRequest) error {
	var details []apperrors.ValidationDetail

	if strings.TrimSpace(req.SKU) == "" {
		details = append(details, apperrors.ValidationDetail{Field: "sku", Message: "sku is required"})
	}
	if strings.TrimSpace(req.Name) == "" {
		details = append(details, apperrors.ValidationDetail{Field: "name", Message: "name is required"})
	}
	if strings.TrimSpace(req.Category) == "" {
		details = append(details, apperrors.ValidationDetail{Field: "category", Message: "category is required"})
	}
	if req.Price == nil {
		details = append(details, apperrors.ValidationDetail{Field: "price", Message: "price is required"})
	} else {
		details = appendPriceDetail(details, *req.Price)
	}

	if len(details) > 0 {
		return apperrors.NewValidationError("invalid product", details...)
	}
	return nil
}

func validateUpdate(req dto.UpdateProductRequest) error {
	var details []apperrors.ValidationDetail

	if req.Name != nil && strings.TrimSpace(*req.Name) == "" {
		details = append(details, apperrors.ValidationDetail{Field: "name", Message: "name must not be empty"})
	}
	if req.Category != nil && strings.TrimSpace(*req.Category) == "" {
		details = append(details, apperrors.ValidationDetail{Field: "category", Message: "category must not be empty"})
	}
	if req.Price != nil {
		details = appendPriceDetail(details, *req.Price)
	}

	if len(details) > 0 {
		return apperrors.NewValidationError("invalid product", details...)
	}
	return nil
}

func appendPriceDetail(details []apperrors.ValidationDetail, price decimal.Decimal) []apperrors.ValidationDetail {
	if !domain.ValidPrice(price) {
		return append(details, apperrors.ValidationDetail{
			Field:   "price",
			Message: "price must be non-negative with at most two decimals",
		})
	}
	return details
}

func toDTO(p domain.Product, stock []domain.ProductStock) dto.ProductDTO {
	out := dto.ProductDTO{
		SKU:         p.SKU,
		Name:        p.Name,
		Description: p.Description,
		Category:    p.Category,
		Price:       p.Price,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}

	if len(stock) > 0 {
		out.Inventories = make([]dto.ProductInventoryDTO, len(stock))
		for i, s := range stock {
			out.Inventories[i] = dto.ProductInventoryDTO{StoreID: s.StoreID, Quantity: s.Quantity}
		}
	}

	return out
}

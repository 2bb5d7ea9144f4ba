package product

import (
	"database/sql"

	"go.uber.org/zap"

	"stockroom/internal/product/controller"
	"stockroom/internal/product/repository"
	"stockroom/internal/product/service"
)

type Module struct {
	Controller *controller.Controller
	Service    *service.ProductService
}

func NewModule(db *sql.DB, logger *zap.Logger) *Module {
	repo := repository.NewMySQLRepository(db)
	svc := service.NewService(repo, logger)
	return &Module{
		Controller: controller.NewController(svc, logger),
		Service:    svc,
	}
}

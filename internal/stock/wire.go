package stock

import (
	"context"
	"database/sql"

	"go.uber.org/zap"

	"stockroom/internal/config"
	"stockroom/internal/stock/controller"
	"stockroom/internal/stock/repository"
	"stockroom/internal/stock/service"
)

type Module struct {
	Inventory *controller.InventoryController
	Stores    *controller.StoresController
}

// NewModule wires the stock subsystem. products resolves SKUs for the
// movement ledger; guard may be nil when Redis is not configured.
func NewModule(db *sql.DB, products service.ProductFinder, guard controller.IdempotencyGuard, cfg *config.Config, logger *zap.Logger) *Module {
	uow := unitOfWorkFactory{repository.NewMySQLUnitOfWorkFactory(db)}
	engine := service.NewTransferEngine(uow, logger, cfg.Transfer.TxTimeout)

	queries := service.NewStockQueryService(
		repository.NewMySQLInventoryRepository(db),
		repository.NewMySQLMovementRepository(db),
		products,
	)

	return &Module{
		Inventory: controller.NewInventoryController(engine, queries, guard, logger),
		Stores:    controller.NewStoresController(queries, logger),
	}
}

// unitOfWorkFactory narrows the MySQL factory's concrete return type to the
// engine's interface.
type unitOfWorkFactory struct {
	factory *repository.MySQLUnitOfWorkFactory
}

func (f unitOfWorkFactory) Begin(ctx context.Context) (service.UnitOfWork, error) {
	uow, err := f.factory.Begin(ctx)
	if err != nil {
		return nil, err
	}
	return uow, nil
}

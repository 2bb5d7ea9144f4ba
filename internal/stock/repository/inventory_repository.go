package repository

import (
	"context"
	"database/sql"
	"fmt"

	"stockroom/internal/domain"
	"stockroom/internal/infrastructure/mysql"
)

type MySQLInventoryRepository struct {
	db *sql.DB
}

func NewMySQLInventoryRepository(db *sql.DB) *MySQLInventoryRepository {
	return &MySQLInventoryRepository{db: db}
}

func (r *MySQLInventoryRepository) ListDistinctStores(ctx context.Context) ([]string, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT DISTINCT storeId FROM Inventory ORDER BY storeId`)
	if err != nil {
		return nil, mysql.Classify(err, "querying stores")
	}
	defer rows.Close()

	stores := []string{}
	for rows.Next() {
		var storeID string
		if err := rows.Scan(&storeID); err != nil {
			return nil, mysql.Classify(err, "scanning store row")
		}
		stores = append(stores, storeID)
	}

	if err := rows.Err(); err != nil {
		return nil, mysql.Classify(err, "iterating store rows")
	}

	return stores, nil
}

func (r *MySQLInventoryRepository) ListByStore(ctx context.Context, storeID string) ([]domain.Inventory, error) {
	query := `
		SELECT id, storeId, productSku, quantity, minStock, createdAt, updatedAt
		FROM Inventory
		WHERE storeId = ?
		ORDER BY productSku
	`
	return r.list(ctx, "inventory by store", query, storeID)
}

func (r *MySQLInventoryRepository) ListBelowMinStock(ctx context.Context) ([]domain.Inventory, error) {
	query := `
		SELECT id, storeId, productSku, quantity, minStock, createdAt, updatedAt
		FROM Inventory
		WHERE quantity <= minStock
		ORDER BY storeId, productSku
	`
	return r.list(ctx, "low stock inventory", query)
}

func (r *MySQLInventoryRepository) list(ctx context.Context, what string, query string, args ...any) ([]domain.Inventory, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, mysql.Classify(err, fmt.Sprintf("querying %s", what))
	}
	defer rows.Close()

	items := []domain.Inventory{}
	for rows.Next() {
		var inv domain.Inventory
		err := rows.Scan(
			&inv.ID, &inv.StoreID, &inv.ProductSKU, &inv.Quantity, &inv.MinStock,
			&inv.CreatedAt, &inv.UpdatedAt,
		)
		if err != nil {
			return nil, mysql.Classify(err, fmt.Sprintf("scanning %s row", what))
		}
		items = append(items, inv)
	}

	if err := rows.Err(); err != nil {
		return nil, mysql.Classify(err, fmt.Sprintf("iterating %s rows", what))
	}

	return items, nil
}

package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"stockroom/internal/domain"
	apperrors "stockroom/internal/errors"
	"stockroom/internal/infrastructure/mysql"
)

type MySQLUnitOfWorkFactory struct {
	db        *sql.DB
	isolation sql.IsolationLevel
}

func NewMySQLUnitOfWorkFactory(db *sql.DB) *MySQLUnitOfWorkFactory {
	return &MySQLUnitOfWorkFactory{db: db, isolation: sql.LevelRepeatableRead}
}

// Begin opens a transaction. The caller owns the returned unit of work and
// must end it with Commit or Rollback.
func (f *MySQLUnitOfWorkFactory) Begin(ctx context.Context) (*MySQLUnitOfWork, error) {
	tx, err := f.db.BeginTx(ctx, &sql.TxOptions{Isolation: f.isolation})
	if err != nil {
		return nil, mysql.Classify(err, "beginning transaction")
	}
	return &MySQLUnitOfWork{tx: tx}, nil
}

// MySQLUnitOfWork exposes the transfer operations on a single transaction.
// Inventory reads take a row lock that is held until Commit or Rollback.
type MySQLUnitOfWork struct {
	tx   *sql.Tx
	done bool
}

func (u *MySQLUnitOfWork) FindProductBySKU(ctx context.Context, sku string) (*domain.Product, error) {
	query := `
		SELECT sku, name, description, category, price, createdAt, updatedAt
		FROM Product
		WHERE sku = ?
	`

	var p domain.Product
	err := u.tx.QueryRowContext(ctx, query, sku).Scan(
		&p.SKU, &p.Name, &p.Description, &p.Category, &p.Price, &p.CreatedAt, &p.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperrors.NewNotFoundError("product does not exist")
	}
	if err != nil {
		return nil, mysql.Classify(err, "querying product by sku")
	}

	return &p, nil
}

func (u *MySQLUnitOfWork) FindInventoryForUpdate(ctx context.Context, storeID, sku string) (*domain.Inventory, error) {
	query := `
		SELECT id, storeId, productSku, quantity, minStock, createdAt, updatedAt
		FROM Inventory
		WHERE storeId = ? AND productSku = ?
		FOR UPDATE
	`

	var inv domain.Inventory
	err := u.tx.QueryRowContext(ctx, query, storeID, sku).Scan(
		&inv.ID, &inv.StoreID, &inv.ProductSKU, &inv.Quantity, &inv.MinStock,
		&inv.CreatedAt, &inv.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperrors.NewNotFoundError("inventory does not exist")
	}
	if err != nil {
		return nil, mysql.Classify(err, "locking inventory row")
	}

	return &inv, nil
}

func (u *MySQLUnitOfWork) DecrementInventory(ctx context.Context, storeID, sku string, amount int) error {
	query := `UPDATE Inventory SET quantity = quantity - ? WHERE storeId = ? AND productSku = ?`

	result, err := u.tx.ExecContext(ctx, query, amount, storeID, sku)
	if err != nil {
		return mysql.Classify(err, "decrementing inventory")
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return mysql.Classify(err, "getting rows affected")
	}

	if rowsAffected == 0 {
		return apperrors.NewNotFoundError("inventory does not exist")
	}

	return nil
}

// UpsertInventory adds amount to the row for (storeID, sku), creating it with
// quantity = amount and the default minStock when absent.
func (u *MySQLUnitOfWork) UpsertInventory(ctx context.Context, storeID, sku string, amount int) error {
	query := `
		INSERT INTO Inventory (id, storeId, productSku, quantity)
		VALUES (?, ?, ?, ?)
		ON DUPLICATE KEY UPDATE quantity = quantity + ?
	`

	_, err := u.tx.ExecContext(ctx, query, uuid.NewString(), storeID, sku, amount, amount)
	if err != nil {
		return mysql.Classify(err, "upserting inventory")
	}

	return nil
}

func (u *MySQLUnitOfWork) AppendMovement(ctx context.Context, m *domain.Movement) error {
	query := `
		INSERT INTO Movement (productSku, quantity, type, sourceStoreId, targetStoreId)
		VALUES (?, ?, ?, ?, ?)
	`

	result, err := u.tx.ExecContext(ctx, query, m.ProductSKU, m.Quantity, string(m.Type), m.SourceStoreID, m.TargetStoreID)
	if err != nil {
		return mysql.Classify(err, "inserting movement")
	}

	lastInsertID, err := result.LastInsertId()
	if err != nil {
		return mysql.Classify(err, "getting last insert id")
	}

	m.ID = uint64(lastInsertID)
	return nil
}

func (u *MySQLUnitOfWork) Commit() error {
	if u.done {
		return fmt.Errorf("unit of work already finished")
	}
	u.done = true
	if err := u.tx.Commit(); err != nil {
		return mysql.Classify(err, "committing transaction")
	}
	return nil
}

// Rollback is a no-op once the unit of work has been committed or rolled back.
func (u *MySQLUnitOfWork) Rollback() error {
	if u.done {
		return nil
	}
	u.done = true
	if err := u.tx.Rollback(); err != nil && !errors.Is(err, sql.ErrTxDone) {
		return mysql.Classify(err, "rolling back transaction")
	}
	return nil
}

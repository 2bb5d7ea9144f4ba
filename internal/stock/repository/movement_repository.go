package repository

import (
	"context"
	"database/sql"

	"stockroom/internal/domain"
	"stockroom/internal/infrastructure/mysql"
)

type MySQLMovementRepository struct {
	db *sql.DB
}

func NewMySQLMovementRepository(db *sql.DB) *MySQLMovementRepository {
	return &MySQLMovementRepository{db: db}
}

// ListByProduct returns the newest movements first.
func (r *MySQLMovementRepository) ListByProduct(ctx context.Context, sku string, limit int) ([]domain.Movement, error) {
	query := `
		SELECT id, productSku, quantity, type, sourceStoreId, targetStoreId, createdAt
		FROM Movement
		WHERE productSku = ?
		ORDER BY id DESC
		LIMIT ?
	`

	rows, err := r.db.QueryContext(ctx, query, sku, limit)
	if err != nil {
		return nil, mysql.Classify(err, "querying movements")
	}
	defer rows.Close()

	movements := []domain.Movement{}
	for rows.Next() {
		var m domain.Movement
		var movementType string
		err := rows.Scan(
			&m.ID, &m.ProductSKU, &m.Quantity, &movementType,
			&m.SourceStoreID, &m.TargetStoreID, &m.CreatedAt,
		)
		if err != nil {
			return nil, mysql.Classify(err, "scanning movement row")
		}
		m.Type = domain.MovementType(movementType)
		movements = append(movements, m)
	}

	if err := rows.Err(); err != nil {
		return nil, mysql.Classify(err, "iterating movement rows")
	}

	return movements, nil
}

package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"stockroom/internal/domain"
	apperrors "stockroom/internal/errors"
	"stockroom/internal/infrastructure/mysql"
)

const productColumns = `p.sku, p.name, p.description, p.category, p.price, p.createdAt, p.updatedAt`

type MySQLRepository struct {
	db *sql.DB
}

func NewMySQLRepository(db *sql.DB) *MySQLRepository {
	return &MySQLRepository{db: db}
}

func (r *MySQLRepository) FindBySKU(ctx context.Context, sku string) (*domain.Product, error) {
	query := `SELECT ` + productColumns + ` FROM Product p WHERE p.sku = ?`

	p, err := scanProduct(r.db.QueryRowContext(ctx, query, sku))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperrors.NewNotFoundError("product does not exist")
	}
	if err != nil {
		return nil, mysql.Classify(err, "querying product by sku")
	}

	return p, nil
}

func (r *MySQLRepository) Create(ctx context.Context, p domain.Product) error {
	query := `INSERT INTO Product (sku, name, description, category, price) VALUES (?, ?, ?, ?, ?)`

	_, err := r.db.ExecContext(ctx, query, p.SKU, p.Name, p.Description, p.Category, p.Price)
	if err != nil {
		return mysql.Classify(err, "inserting product")
	}

	return nil
}

func (r *MySQLRepository) Update(ctx context.Context, p domain.Product) error {
	query := `UPDATE Product SET name = ?, description = ?, category = ?, price = ? WHERE sku = ?`

	result, err := r.db.ExecContext(ctx, query, p.Name, p.Description, p.Category, p.Price, p.SKU)
	if err != nil {
		return mysql.Classify(err, "updating product")
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return mysql.Classify(err, "getting rows affected")
	}

	// MySQL reports 0 affected rows when nothing changed, so only treat it as
	// missing when the row is really gone.
	if rowsAffected == 0 {
		if _, err := r.FindBySKU(ctx, p.SKU); err != nil {
			return err
		}
	}

	return nil
}

func (r *MySQLRepository) Delete(ctx context.Context, sku string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM Product WHERE sku = ?`, sku)
	if err != nil {
		return mysql.Classify(err, "deleting product")
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return mysql.Classify(err, "getting rows affected")
	}

	if rowsAffected == 0 {
		return apperrors.NewNotFoundError("product does not exist")
	}

	return nil
}

// List returns one page of products matching f together with the total
// number of matches.
func (r *MySQLRepository) List(ctx context.Context, f domain.ProductFilter) ([]domain.Product, int, error) {
	where, args := buildWhere(f)

	var total int
	countQuery := `SELECT COUNT(*) FROM Product p` + where
	if err := r.db.QueryRowContext(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, mysql.Classify(err, "counting products")
	}

	query := `SELECT ` + productColumns + ` FROM Product p` + where + ` ORDER BY p.sku LIMIT ? OFFSET ?`
	rows, err := r.db.QueryContext(ctx, query, append(args, f.Limit, f.Offset)...)
	if err != nil {
		return nil, 0, mysql.Classify(err, "querying products")
	}
	defer rows.Close()

	products := []domain.Product{}
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, 0, mysql.Classify(err, "scanning product row")
		}
		products = append(products, *p)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, mysql.Classify(err, "iterating product rows")
	}

	return products, total, nil
}

// StockBySKU returns the per-store quantities of the given products, ordered
// by store id.
func (r *MySQLRepository) StockBySKU(ctx context.Context, skus []string) (map[string][]domain.ProductStock, error) {
	if len(skus) == 0 {
		return map[string][]domain.ProductStock{}, nil
	}

	query := fmt.Sprintf(`
		SELECT productSku, storeId, quantity
		FROM Inventory
		WHERE productSku IN (%s)
		ORDER BY productSku, storeId`,
		placeholders(len(skus)),
	)

	args := make([]any, len(skus))
	for i, sku := range skus {
		args[i] = sku
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, mysql.Classify(err, "querying product stock")
	}
	defer rows.Close()

	stock := make(map[string][]domain.ProductStock, len(skus))
	for rows.Next() {
		var sku string
		var s domain.ProductStock
		if err := rows.Scan(&sku, &s.StoreID, &s.Quantity); err != nil {
			return nil, mysql.Classify(err, "scanning product stock row")
		}
		stock[sku] = append(stock[sku], s)
	}

	if err := rows.Err(); err != nil {
		return nil, mysql.Classify(err, "iterating product stock rows")
	}

	return stock, nil
}

func buildWhere(f domain.ProductFilter) (string, []any) {
	var conds []string
	var args []any

	if len(f.Categories) > 0 {
		conds = append(conds, fmt.Sprintf("LOWER(p.category) IN (%s)", placeholders(len(f.Categories))))
		for _, c := range f.Categories {
			args = append(args, strings.ToLower(c))
		}
	}
	if f.MinPrice != nil {
		conds = append(conds, "p.price >= ?")
		args = append(args, *f.MinPrice)
	}
	if f.MaxPrice != nil {
		conds = append(conds, "p.price <= ?")
		args = append(args, *f.MaxPrice)
	}
	if f.MinStock != nil {
		conds = append(conds, "EXISTS (SELECT 1 FROM Inventory i WHERE i.productSku = p.sku AND i.quantity >= ?)")
		args = append(args, *f.MinStock)
	}

	if len(conds) == 0 {
		return "", args
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

func placeholders(n int) string {
	return strings.TrimSuffix(strings.Repeat("?, ", n), ", ")
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanProduct(row rowScanner) (*domain.Product, error) {
	var p domain.Product
	err := row.Scan(&p.SKU, &p.Name, &p.Description, &p.Category, &p.Price, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

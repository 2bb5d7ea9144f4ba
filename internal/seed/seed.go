// Package seed loads catalog and inventory fixtures into the database.
// Loading the same fixture twice leaves the tables unchanged.
package seed

import (
	"bytes"
	"context"
	"database/sql"
	"fmt"
	"os"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"go.yaml.in/yaml/v3"

	"stockroom/internal/domain"
	"stockroom/internal/infrastructure/mysql"
)

type Fixture struct {
	Products  []ProductFixture   `yaml:"products"`
	Inventory []InventoryFixture `yaml:"inventory"`
}

type ProductFixture struct {
	SKU         string  `yaml:"sku"`
	Name        string  `yaml:"name"`
	Description *string `yaml:"description"`
	Category    string  `yaml:"category"`
	Price       string  `yaml:"price"`
}

type InventoryFixture struct {
	StoreID    string `yaml:"storeId"`
	ProductSKU string `yaml:"productSku"`
	Quantity   int    `yaml:"quantity"`
	MinStock   int    `yaml:"minStock"`
}

func LoadFile(path string) (*Fixture, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading seed file: %w", err)
	}
	return Parse(data)
}

// Parse decodes and validates a fixture. Unknown keys are rejected so typos
// do not silently drop data.
func Parse(data []byte) (*Fixture, error) {
	var f Fixture
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil {
		return nil, fmt.Errorf("decoding seed file: %w", err)
	}

	if err := f.validate(); err != nil {
		return nil, err
	}
	return &f, nil
}

func (f *Fixture) validate() error {
	for i, p := range f.Products {
		if p.SKU == "" || p.Name == "" || p.Category == "" {
			return fmt.Errorf("products[%d]: sku, name and category are required", i)
		}
		price, err := decimal.NewFromString(p.Price)
		if err != nil {
			return fmt.Errorf("products[%d]: invalid price %q: %w", i, p.Price, err)
		}
		if !domain.ValidPrice(price) {
			return fmt.Errorf("products[%d]: price %s must be non-negative with at most two decimals", i, p.Price)
		}
	}

	for i, inv := range f.Inventory {
		if inv.StoreID == "" || inv.ProductSKU == "" {
			return fmt.Errorf("inventory[%d]: storeId and productSku are required", i)
		}
		if inv.Quantity < 0 || inv.MinStock < 0 {
			return fmt.Errorf("inventory[%d]: quantity and minStock must not be negative", i)
		}
	}

	return nil
}

// Apply upserts every product and inventory row of f in one transaction.
func Apply(ctx context.Context, db *sql.DB, f *Fixture, logger *zap.Logger) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return mysql.Classify(err, "beginning seed transaction")
	}
	defer tx.Rollback()

	for _, p := range f.Products {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO Product (sku, name, description, category, price)
			VALUES (?, ?, ?, ?, ?)
			ON DUPLICATE KEY UPDATE
				name = VALUES(name),
				description = VALUES(description),
				category = VALUES(category),
				price = VALUES(price)`,
			p.SKU, p.Name, p.Description, p.Category, decimal.RequireFromString(p.Price),
		)
		if err != nil {
			return mysql.Classify(err, fmt.Sprintf("seeding product %s", p.SKU))
		}
	}

	for _, inv := range f.Inventory {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO Inventory (id, storeId, productSku, quantity, minStock)
			VALUES (?, ?, ?, ?, ?)
			ON DUPLICATE KEY UPDATE
				quantity = VALUES(quantity),
				minStock = VALUES(minStock)`,
			uuid.NewString(), inv.StoreID, inv.ProductSKU, inv.Quantity, inv.MinStock,
		)
		if err != nil {
			return mysql.Classify(err, fmt.Sprintf("seeding inventory %s/%s", inv.StoreID, inv.ProductSKU))
		}
	}

	if err := tx.Commit(); err != nil {
		return mysql.Classify(err, "committing seed transaction")
	}

	logger.Info("seed applied",
		zap.Int("products", len(f.Products)),
		zap.Int("inventory", len(f.Inventory)),
	)
	return nil
}

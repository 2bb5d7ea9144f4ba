package mysql

import (
	"context"
	"database/sql"
	"fmt"
)

// Schema holds the DDL for every table the service owns, in dependency order.
var Schema = []struct {
	Name  string
	Query string
}{
	{"Product", `
	CREATE TABLE IF NOT EXISTS Product (
		sku VARCHAR(64) NOT NULL PRIMARY KEY,
		name VARCHAR(255) NOT NULL,
		description TEXT NULL,
		category VARCHAR(100) NOT NULL,
		price DECIMAL(10,2) NOT NULL,
		createdAt DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updatedAt DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP,
		INDEX idx_category (category),
		INDEX idx_price (price)
	) ENGINE=InnoDB`},
	{"Inventory", `
	CREATE TABLE IF NOT EXISTS Inventory (
		id CHAR(36) NOT NULL PRIMARY KEY,
		storeId VARCHAR(64) NOT NULL,
		productSku VARCHAR(64) NOT NULL,
		quantity INT NOT NULL DEFAULT 0,
		minStock INT NOT NULL DEFAULT 0,
		createdAt DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updatedAt DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP,
		UNIQUE KEY uq_store_product (storeId, productSku),
		INDEX idx_product (productSku),
		FOREIGN KEY (productSku) REFERENCES Product(sku) ON UPDATE CASCADE
	) ENGINE=InnoDB`},
	{"Movement", `
	CREATE TABLE IF NOT EXISTS Movement (
		id BIGINT UNSIGNED NOT NULL AUTO_INCREMENT PRIMARY KEY,
		productSku VARCHAR(64) NOT NULL,
		quantity INT NOT NULL,
		type ENUM('IN', 'OUT', 'TRANSFER') NOT NULL,
		sourceStoreId VARCHAR(64) NULL,
		targetStoreId VARCHAR(64) NULL,
		createdAt DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		INDEX idx_product_created (productSku, createdAt),
		FOREIGN KEY (productSku) REFERENCES Product(sku) ON UPDATE CASCADE
	) ENGINE=InnoDB`},
}

func Migrate(ctx context.Context, db *sql.DB) error {
	for _, tbl := range Schema {
		if _, err := db.ExecContext(ctx, tbl.Query); err != nil {
			return fmt.Errorf("creating table %s: %w", tbl.Name, err)
		}
	}
	return nil
}

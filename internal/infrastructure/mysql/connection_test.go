package mysql

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"stockroom/internal/config"
)

func TestDSN(t *testing.T) {
	dsn := DSN(config.DatabaseConfig{
		Host:     "db",
		Port:     3307,
		User:     "stock",
		Password: "pw",
		Name:     "stockroom_test",
	})

	assert.Contains(t, dsn, "stock:pw@tcp(db:3307)/stockroom_test")
	assert.Contains(t, dsn, "parseTime=true")
}

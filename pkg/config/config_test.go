package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("STORE_DRIVER", "memory")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "memory", cfg.Store.Driver)
	assert.Equal(t, "0.18", cfg.Sales.TaxRate.String())
	assert.Equal(t, 8080, cfg.HTTP.Port)
}

func TestLoad_FromEnv(t *testing.T) {
	t.Setenv("STORE_DRIVER", "MEMORY")
	t.Setenv("SALES_TAX_RATE", "0.10")
	t.Setenv("SALES_DEFAULT_WAREHOUSE_ID", "alm-1")
	t.Setenv("HTTP_PORT", "9090")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "memory", cfg.Store.Driver)
	assert.Equal(t, "0.1", cfg.Sales.TaxRate.String())
	assert.Equal(t, "alm-1", cfg.Sales.DefaultWarehouseID)
	assert.Equal(t, 9090, cfg.HTTP.Port)
}

func TestLoad_InvalidValues(t *testing.T) {
	t.Setenv("STORE_DRIVER", "sqlite")
	_, err := Load()
	assert.Error(t, err)

	t.Setenv("STORE_DRIVER", "memory")
	t.Setenv("SALES_TAX_RATE", "abc")
	_, err = Load()
	assert.Error(t, err)
}

func TestDBConfig_ConnectionString(t *testing.T) {
	c := DBConfig{Host: "db", Port: 5432, User: "app", Password: "p@ss", DBName: "distribuidora", SSLMode: "disable"}
	assert.Equal(t, "postgres://app:p%40ss@db:5432/distribuidora?sslmode=disable", c.ConnectionString())

	c.DatabaseURL = "postgres://x"
	assert.Equal(t, "postgres://x", c.ConnectionString())
}

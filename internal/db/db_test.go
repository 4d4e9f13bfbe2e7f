package db

import (
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm/logger"

	"warehouse-ops-backend/config"
)

func TestInit_SQLiteMigratesAllTables(t *testing.T) {
	cfg := &config.DatabaseConfig{Driver: "sqlite", DSN: "file:dbinit?mode=memory&cache=shared", LogLevel: "silent"}

	gdb, err := Init(cfg, zerolog.Nop())
	require.NoError(t, err)
	sqlDB, _ := gdb.DB()
	defer sqlDB.Close()

	for _, table := range []string{"products", "bots", "bot_histories", "push_subscriptions", "settings", "subscription_bot_mapping"} {
		assert.True(t, gdb.Migrator().HasTable(table), table)
	}
}

func TestInit_UnknownDriver(t *testing.T) {
	_, err := Init(&config.DatabaseConfig{Driver: "oracle"}, zerolog.Nop())
	assert.ErrorContains(t, err, "unsupported database driver")
}

func TestGormLogLevel(t *testing.T) {
	assert.Equal(t, logger.Silent, gormLogLevel("SILENT"))
	assert.Equal(t, logger.Info, gormLogLevel("info"))
	assert.Equal(t, logger.Warn, gormLogLevel(""))
}

package db

import (
	"context"
	"testing"
	"time"

	"github.com/menuca/menuca-backend/config"
	"github.com/menuca/menuca-backend/internal/app/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestRegistry_ForRole_CachesPools(t *testing.T) {
	registry, err := SetupTestRegistry()
	require.NoError(t, err)
	defer registry.Close()

	first, err := registry.ForRole(PoolConsumer)
	require.NoError(t, err)
	second, err := registry.ForRole(PoolConsumer)
	require.NoError(t, err)

	// One pool per role for the process lifetime
	assert.Same(t, first, second)
}

func TestRegistry_ForRole_UnknownRole(t *testing.T) {
	registry, err := SetupTestRegistry()
	require.NoError(t, err)
	defer registry.Close()

	_, err = registry.ForRole(PoolRole("superuser"))
	assert.ErrorIs(t, err, ErrUnknownRole)
}

func TestRegistry_ForUserRole(t *testing.T) {
	registry, err := SetupTestRegistry()
	require.NoError(t, err)
	defer registry.Close()

	tests := []struct {
		name    string
		role    model.UserRole
		wantErr bool
	}{
		{name: "Consumer", role: model.RoleConsumer},
		{name: "Vendor", role: model.RoleVendor},
		{name: "Administrator", role: model.RoleAdministrator},
		{name: "Unknown role", role: model.UserRole("root"), wantErr: true},
		{name: "Empty role", role: model.UserRole(""), wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pool, err := registry.ForUserRole(tt.role)

			if tt.wantErr {
				assert.ErrorIs(t, err, ErrUnknownRole)
				assert.Nil(t, pool)
			} else {
				require.NoError(t, err)
				assert.NotNil(t, pool)
			}
		})
	}
}

func TestRegistry_Begin(t *testing.T) {
	registry, err := SetupTestRegistry()
	require.NoError(t, err)
	defer registry.Close()

	tx, err := registry.Begin(PoolVendor)
	require.NoError(t, err)

	user := &model.User{
		Name:         "Vendor",
		Surname:      "Owner",
		Email:        "vendor@example.com",
		PasswordHash: "x",
		Role:         model.RoleVendor,
	}
	require.NoError(t, tx.Create(user).Error)
	require.NoError(t, tx.Commit().Error)

	pool, err := registry.ForRole(PoolVendor)
	require.NoError(t, err)

	var count int64
	require.NoError(t, pool.Model(&model.User{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestRegistry_Begin_Rollback(t *testing.T) {
	registry, err := SetupTestRegistry()
	require.NoError(t, err)
	defer registry.Close()

	tx, err := registry.Begin(PoolVendor)
	require.NoError(t, err)

	require.NoError(t, tx.Create(&model.User{
		Name:         "Vendor",
		Surname:      "Owner",
		Email:        "vendor@example.com",
		PasswordHash: "x",
		Role:         model.RoleVendor,
	}).Error)
	require.NoError(t, tx.Rollback().Error)

	pool, err := registry.ForRole(PoolVendor)
	require.NoError(t, err)

	var count int64
	require.NoError(t, pool.Model(&model.User{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestRegistry_Begin_UnknownRole(t *testing.T) {
	registry, err := SetupTestRegistry()
	require.NoError(t, err)
	defer registry.Close()

	_, err = registry.Begin(PoolRole("superuser"))
	assert.ErrorIs(t, err, ErrUnknownRole)
}

// impatientRegistry builds a registry over a single-connection pool with a
// timeout short enough to trip in a test.
func impatientRegistry(t *testing.T) *Registry {
	shared, err := SetupTestDB()
	require.NoError(t, err)

	cfg := &config.DatabaseConfig{MaxOpenConns: 1, PoolTimeout: 100 * time.Millisecond}
	return NewRegistry(cfg, func(PoolRole, *config.DatabaseConfig) (*gorm.DB, error) {
		return shared, nil
	})
}

func TestRegistry_Begin_PoolExhausted(t *testing.T) {
	registry := impatientRegistry(t)
	defer registry.Close()

	pool, err := registry.ForRole(PoolConsumer)
	require.NoError(t, err)
	sqlDB, err := pool.DB()
	require.NoError(t, err)

	// Hold the pool's only connection so acquisition has to wait
	conn, err := sqlDB.Conn(context.Background())
	require.NoError(t, err)

	_, err = registry.Begin(PoolConsumer)
	assert.ErrorIs(t, err, ErrPoolTimeout)

	require.NoError(t, conn.Close())

	tx, err := registry.Begin(PoolConsumer)
	require.NoError(t, err)
	require.NoError(t, tx.Rollback().Error)
}

func TestRegistry_Query_PoolExhausted(t *testing.T) {
	registry := impatientRegistry(t)
	defer registry.Close()

	pool, err := registry.ForRole(PoolConsumer)
	require.NoError(t, err)
	sqlDB, err := pool.DB()
	require.NoError(t, err)

	conn, err := sqlDB.Conn(context.Background())
	require.NoError(t, err)

	// Plain reads are bounded too, not just Begin
	var users []model.User
	err = pool.Find(&users).Error
	assert.ErrorIs(t, err, ErrPoolTimeout)

	require.NoError(t, conn.Close())
	require.NoError(t, pool.Find(&users).Error)
}

func TestRegistry_Stats(t *testing.T) {
	registry, err := SetupTestRegistry()
	require.NoError(t, err)
	defer registry.Close()

	_, err = registry.ForRole(PoolConsumer)
	require.NoError(t, err)

	stats := registry.Stats()
	assert.Contains(t, stats, PoolConsumer)
	assert.NotContains(t, stats, PoolVendor)
}

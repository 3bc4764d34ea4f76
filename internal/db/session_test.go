package db

import (
	"errors"
	"testing"

	"github.com/menuca/menuca-backend/internal/app/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// SQLite has no set_config, so these tests pin the degraded behavior: a
// session bind that the backend cannot honor is logged and swallowed, and
// the surrounding transaction keeps working.
func TestBindSessionUser_NonFatal(t *testing.T) {
	registry, err := SetupTestRegistry()
	require.NoError(t, err)
	defer registry.Close()

	tx, err := registry.Begin(PoolVendor)
	require.NoError(t, err)

	BindSessionUser(tx, 42)

	require.NoError(t, tx.Create(&model.User{
		Name:         "Vendor",
		Surname:      "Owner",
		Email:        "vendor@example.com",
		PasswordHash: "x",
		Role:         model.RoleVendor,
	}).Error)
	require.NoError(t, tx.Commit().Error)
}

func TestWithSessionUser_Commit(t *testing.T) {
	registry, err := SetupTestRegistry()
	require.NoError(t, err)
	defer registry.Close()

	err = registry.WithSessionUser(PoolVendor, 42, func(tx *gorm.DB) error {
		return tx.Create(&model.User{
			Name:         "Vendor",
			Surname:      "Owner",
			Email:        "vendor@example.com",
			PasswordHash: "x",
			Role:         model.RoleVendor,
		}).Error
	})
	require.NoError(t, err)

	pool, err := registry.ForRole(PoolVendor)
	require.NoError(t, err)

	var count int64
	require.NoError(t, pool.Model(&model.User{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestWithSessionUser_RollbackOnError(t *testing.T) {
	registry, err := SetupTestRegistry()
	require.NoError(t, err)
	defer registry.Close()

	boom := errors.New("boom")
	err = registry.WithSessionUser(PoolVendor, 42, func(tx *gorm.DB) error {
		if err := tx.Create(&model.User{
			Name:         "Vendor",
			Surname:      "Owner",
			Email:        "vendor@example.com",
			PasswordHash: "x",
			Role:         model.RoleVendor,
		}).Error; err != nil {
			return err
		}
		return boom
	})
	assert.ErrorIs(t, err, boom)

	pool, err := registry.ForRole(PoolVendor)
	require.NoError(t, err)

	// Nothing written inside the failed closure survives
	var count int64
	require.NoError(t, pool.Model(&model.User{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestWithSessionUser_UnknownRole(t *testing.T) {
	registry, err := SetupTestRegistry()
	require.NoError(t, err)
	defer registry.Close()

	err = registry.WithSessionUser(PoolRole("superuser"), 1, func(tx *gorm.DB) error {
		t.Fatal("closure must not run without a transaction")
		return nil
	})
	assert.ErrorIs(t, err, ErrUnknownRole)
}

func TestCurrentSessionUser_Unavailable(t *testing.T) {
	registry, err := SetupTestRegistry()
	require.NoError(t, err)
	defer registry.Close()

	pool, err := registry.ForRole(PoolConsumer)
	require.NoError(t, err)

	userID, ok := CurrentSessionUser(pool)
	assert.False(t, ok)
	assert.Zero(t, userID)
}

package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/menuca/menuca-backend/config"
	"github.com/menuca/menuca-backend/internal/app/model"
	appLogger "github.com/menuca/menuca-backend/pkg/logger"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// PoolRole identifies which database principal a pool authenticates as.
// PoolAuth is the generic principal used before a caller has proven a role.
type PoolRole string

const (
	PoolAuth          PoolRole = "auth"
	PoolConsumer      PoolRole = "consumer"
	PoolVendor        PoolRole = "vendor"
	PoolAdministrator PoolRole = "administrator"
)

var (
	ErrUnknownRole = errors.New("unknown database role")
	ErrPoolTimeout = errors.New("timed out waiting for a database connection")
)

// OpenFunc opens the underlying gorm connection for one role. Overridable so
// tests can build isolated registries on SQLite.
type OpenFunc func(role PoolRole, cfg *config.DatabaseConfig) (*gorm.DB, error)

// Registry maps application roles to connection pools, each authenticated to
// PostgreSQL as a role-specific least-privilege user. A compromised consumer
// code path can therefore never exceed the consumer principal's grants,
// regardless of how a query was constructed.
//
// Pools are opened lazily on first use and cached for the process lifetime:
// at most one pool per role.
type Registry struct {
	cfg  *config.DatabaseConfig
	open OpenFunc

	mu    sync.Mutex
	pools map[PoolRole]*gorm.DB
}

// NewRegistry builds a registry over the given per-role credentials. The
// registry is owned by the composition root and passed into services; there
// is no package-level pool state.
func NewRegistry(cfg *config.DatabaseConfig, open OpenFunc) *Registry {
	if open == nil {
		open = openPostgres
	}
	return &Registry{
		cfg:   cfg,
		open:  open,
		pools: make(map[PoolRole]*gorm.DB),
	}
}

func openPostgres(role PoolRole, cfg *config.DatabaseConfig) (*gorm.DB, error) {
	creds, err := cfg.CredentialsFor(string(role))
	if err != nil {
		return nil, err
	}

	appLogger.Info("Opening role-scoped database pool", map[string]interface{}{
		"role":     role,
		"host":     cfg.Host,
		"database": cfg.DBName,
		"user":     creds.User,
	})

	db, err := gorm.Open(postgres.Open(cfg.DSN(creds)), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent), // request logging is ours
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect as %s: %w", role, err)
	}
	return db, nil
}

// ForRole returns the pool for the given role, opening it on first use.
// Unknown roles fail with ErrUnknownRole.
func (r *Registry) ForRole(role PoolRole) (*gorm.DB, error) {
	switch role {
	case PoolAuth, PoolConsumer, PoolVendor, PoolAdministrator:
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownRole, role)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if pool, ok := r.pools[role]; ok {
		return pool, nil
	}

	pool, err := r.open(role, r.cfg)
	if err != nil {
		return nil, err
	}

	sqlDB, err := pool.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database instance for %s: %w", role, err)
	}
	sqlDB.SetMaxOpenConns(r.cfg.MaxOpenConns)
	sqlDB.SetMaxIdleConns(r.cfg.MaxOpenConns)

	if err := registerStatementTimeout(pool, r.cfg.PoolTimeout); err != nil {
		return nil, fmt.Errorf("failed to install statement timeout for %s: %w", role, err)
	}

	r.pools[role] = pool

	appLogger.Info("Role-scoped pool ready", map[string]interface{}{
		"role":           role,
		"max_open_conns": r.cfg.MaxOpenConns,
	})
	return pool, nil
}

// ForUserRole resolves an authenticated user's role to its pool. The role
// set is closed: anything outside it is rejected, never mapped to a
// broader principal.
func (r *Registry) ForUserRole(role model.UserRole) (*gorm.DB, error) {
	switch role {
	case model.RoleConsumer:
		return r.ForRole(PoolConsumer)
	case model.RoleVendor:
		return r.ForRole(PoolVendor)
	case model.RoleAdministrator:
		return r.ForRole(PoolAdministrator)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownRole, role)
	}
}

// Begin starts a transaction on the role's pool. Pool acquisition is bounded
// by the configured timeout and surfaced as ErrPoolTimeout; once acquired,
// the transaction is detached from the acquisition deadline so it always
// runs to commit or rollback even if the originating request goes away.
func (r *Registry) Begin(role PoolRole) (*gorm.DB, error) {
	pool, err := r.ForRole(role)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(context.Background(), r.cfg.PoolTimeout)
	defer cancel()

	tx := pool.WithContext(ctx).Begin()
	if tx.Error != nil {
		if errors.Is(tx.Error, context.DeadlineExceeded) {
			appLogger.Error("Pool acquisition timed out", tx.Error, map[string]interface{}{
				"role":    role,
				"timeout": r.cfg.PoolTimeout.String(),
			})
			return nil, ErrPoolTimeout
		}
		return nil, tx.Error
	}

	// The coordinator owns the transaction lifetime from here on.
	return tx.WithContext(context.Background()), nil
}

// registerStatementTimeout bounds every single-statement operation on the
// pool by the configured acquisition timeout, so callers waiting on an
// exhausted pool surface ErrPoolTimeout instead of blocking indefinitely.
// Statements already inside a transaction hold their connection and are
// left alone; Begin bounds acquisition for those itself.
func registerStatementTimeout(pool *gorm.DB, timeout time.Duration) error {
	const cancelKey = "menuca:stmt_cancel"

	before := func(tx *gorm.DB) {
		if _, ok := tx.Statement.ConnPool.(gorm.TxCommitter); ok {
			return
		}
		ctx, cancel := context.WithTimeout(tx.Statement.Context, timeout)
		tx.Statement.Context = ctx
		tx.InstanceSet(cancelKey, cancel)
	}
	after := func(tx *gorm.DB) {
		if v, ok := tx.InstanceGet(cancelKey); ok {
			v.(context.CancelFunc)()
		}
		if tx.Error != nil && errors.Is(tx.Error, context.DeadlineExceeded) {
			tx.Error = ErrPoolTimeout
		}
	}

	// Create/update/delete acquire their connection when the implicit
	// transaction begins; query/row/raw acquire at execution.
	for _, err := range []error{
		pool.Callback().Create().Before("gorm:begin_transaction").Register("menuca:stmt_timeout", before),
		pool.Callback().Update().Before("gorm:begin_transaction").Register("menuca:stmt_timeout", before),
		pool.Callback().Delete().Before("gorm:begin_transaction").Register("menuca:stmt_timeout", before),
		pool.Callback().Query().Before("gorm:query").Register("menuca:stmt_timeout", before),
		pool.Callback().Row().Before("gorm:row").Register("menuca:stmt_timeout", before),
		pool.Callback().Raw().Before("gorm:raw").Register("menuca:stmt_timeout", before),
		pool.Callback().Create().Register("menuca:stmt_timeout_done", after),
		pool.Callback().Update().Register("menuca:stmt_timeout_done", after),
		pool.Callback().Delete().Register("menuca:stmt_timeout_done", after),
		pool.Callback().Query().Register("menuca:stmt_timeout_done", after),
		pool.Callback().Row().Register("menuca:stmt_timeout_done", after),
		pool.Callback().Raw().Register("menuca:stmt_timeout_done", after),
	} {
		if err != nil {
			return err
		}
	}
	return nil
}

// Stats reports sql.DBStats for every pool opened so far.
func (r *Registry) Stats() map[PoolRole]sql.DBStats {
	r.mu.Lock()
	defer r.mu.Unlock()

	stats := make(map[PoolRole]sql.DBStats, len(r.pools))
	for role, pool := range r.pools {
		sqlDB, err := pool.DB()
		if err != nil {
			continue
		}
		stats[role] = sqlDB.Stats()
	}
	return stats
}

// Close closes every opened pool. Only used on shutdown.
func (r *Registry) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	var firstErr error
	for role, pool := range r.pools {
		sqlDB, err := pool.DB()
		if err == nil {
			err = sqlDB.Close()
		}
		if err != nil && firstErr == nil {
			firstErr = fmt.Errorf("closing %s pool: %w", role, err)
		}
		delete(r.pools, role)
	}
	return firstErr
}

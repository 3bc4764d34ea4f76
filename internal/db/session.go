package db

import (
	"strconv"

	"github.com/menuca/menuca-backend/pkg/logger"
	"gorm.io/gorm"
)

// sessionKey is the PostgreSQL configuration parameter carrying the
// authenticated caller's id for the current session. Server-side logic
// (audit columns, row policies) reads it back via current_setting.
const sessionKey = "menuca.current_user_id"

// BindSessionUser pushes the authenticated user's id into the database
// session so server-side logic can recover "current user" without trusting
// a client-supplied identifier. set_config overwrites whatever a previous
// caller left on a reused pooled connection, so a stale identity can never
// survive into the next request.
//
// Authorization does not depend on the binding: a bind failure is logged
// and the request proceeds on application-level identity checks.
func BindSessionUser(tx *gorm.DB, userID uint) {
	err := tx.Exec(
		"SELECT set_config(?, ?, false)",
		sessionKey, strconv.FormatUint(uint64(userID), 10),
	).Error
	if err != nil {
		logger.Warn("Failed to bind user to database session", map[string]interface{}{
			"user_id": userID,
			"error":   err.Error(),
		})
	}
}

// ClearSessionUser resets the session identity to absent. Called before
// commit so the binding does not outlive the transaction on a pooled
// connection.
func ClearSessionUser(tx *gorm.DB) {
	if err := tx.Exec("SELECT set_config(?, '', false)", sessionKey).Error; err != nil {
		logger.Warn("Failed to clear database session user", map[string]interface{}{
			"error": err.Error(),
		})
	}
}

// WithSessionUser runs fn inside a transaction on the role's pool with the
// caller's id bound to the database session for its duration. Every
// authenticated write path goes through here so server-side logic always
// sees who is writing. The binding is cleared again before commit; a
// rollback reverts it on its own.
func (r *Registry) WithSessionUser(role PoolRole, userID uint, fn func(tx *gorm.DB) error) error {
	tx, err := r.Begin(role)
	if err != nil {
		return err
	}

	committed := false
	defer func() {
		if p := recover(); p != nil {
			tx.Rollback()
			panic(p)
		}
		if !committed {
			tx.Rollback()
		}
	}()

	BindSessionUser(tx, userID)

	if err := fn(tx); err != nil {
		return err
	}

	ClearSessionUser(tx)
	if err := tx.Commit().Error; err != nil {
		return err
	}
	committed = true
	return nil
}

// CurrentSessionUser reads back the identity bound to this session.
// Returns false when nothing (or an empty value) is bound — never a stale
// id from a previous caller.
func CurrentSessionUser(tx *gorm.DB) (uint, bool) {
	var raw string
	err := tx.Raw("SELECT COALESCE(current_setting(?, true), '')", sessionKey).Scan(&raw).Error
	if err != nil || raw == "" {
		return 0, false
	}
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		return 0, false
	}
	return uint(id), true
}

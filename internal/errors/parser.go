package errors

import (
	"errors"
	"strings"

	"github.com/lib/pq"
	"gorm.io/gorm"
)

// ErrorInfo is a parsed storage error: a code plus a user-facing message.
type ErrorInfo struct {
	Code    string
	Message string
}

// PostgreSQL error classes we translate instead of surfacing as generic
// faults. A uniqueness race that slips past an explicit pre-check must read
// identically to the pre-check's own rejection.
const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
	pgNotNullViolation    = "23502"
	pgCheckViolation      = "23514"
)

// ParseStorageError converts a data-access error into a user-facing code and
// message. context is a short operation label ("create review", "register
// user") used to pick entity-specific wording.
func ParseStorageError(err error, context string) ErrorInfo {
	if err == nil {
		return ErrorInfo{Code: InternalServerError, Message: "An internal error occurred"}
	}

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrorInfo{Code: ResourceNotFound, Message: notFoundMessage(context)}
	}

	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		switch string(pqErr.Code) {
		case pgUniqueViolation:
			return parseUniqueViolation(pqErr)
		case pgForeignKeyViolation:
			return ErrorInfo{Code: ResourceNotFound, Message: "Referenced record does not exist"}
		case pgNotNullViolation:
			return ErrorInfo{Code: ValidationRequired, Message: "A required field is missing"}
		case pgCheckViolation:
			return parseCheckViolation(pqErr)
		}
	}

	// SQLite (test harness) reports constraints as text, not pq codes.
	errLower := strings.ToLower(err.Error())
	if strings.Contains(errLower, "unique constraint") || strings.Contains(errLower, "duplicate key") {
		return parseUniqueText(errLower)
	}
	if strings.Contains(errLower, "check constraint") {
		return parseCheckText(errLower)
	}

	return ErrorInfo{Code: InternalDatabaseError, Message: "A database error occurred. Please try again later"}
}

func parseUniqueViolation(pqErr *pq.Error) ErrorInfo {
	return parseUniqueText(strings.ToLower(pqErr.Constraint + " " + pqErr.Detail))
}

func parseUniqueText(text string) ErrorInfo {
	if strings.Contains(text, "email") {
		return ErrorInfo{Code: AuthEmailAlreadyExists, Message: "Email is already registered"}
	}
	if strings.Contains(text, "user_restaurant") || strings.Contains(text, "reviews") {
		return ErrorInfo{Code: ReviewAlreadyExists, Message: "You have already reviewed this restaurant"}
	}
	return ErrorInfo{Code: ResourceAlreadyExists, Message: "Record already exists"}
}

func parseCheckViolation(pqErr *pq.Error) ErrorInfo {
	return parseCheckText(strings.ToLower(pqErr.Constraint + " " + pqErr.Message))
}

func parseCheckText(text string) ErrorInfo {
	if strings.Contains(text, "score") {
		return ErrorInfo{Code: ReviewInvalidScore, Message: "Score must be between 1 and 5"}
	}
	if strings.Contains(text, "price") {
		return ErrorInfo{Code: DishInvalidPrice, Message: "Price must not be negative"}
	}
	return ErrorInfo{Code: ValidationInvalidRange, Message: "A value is out of range"}
}

func notFoundMessage(context string) string {
	contextLower := strings.ToLower(context)

	if strings.Contains(contextLower, "restaurant") {
		return "Restaurant not found"
	}
	if strings.Contains(contextLower, "dish") {
		return "Dish not found"
	}
	if strings.Contains(contextLower, "review") {
		return "Review not found"
	}
	if strings.Contains(contextLower, "user") {
		return "User not found"
	}
	return "Requested record not found"
}

// IsUniqueViolation reports whether err is a uniqueness-constraint failure,
// regardless of which engine raised it.
func IsUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return string(pqErr.Code) == pgUniqueViolation
	}
	errLower := strings.ToLower(err.Error())
	return strings.Contains(errLower, "unique constraint") || strings.Contains(errLower, "duplicate key")
}

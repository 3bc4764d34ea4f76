package errors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

func TestParseStorageError(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		context  string
		wantCode string
	}{
		{
			name:     "Record not found for restaurant",
			err:      gorm.ErrRecordNotFound,
			context:  "get restaurant",
			wantCode: ResourceNotFound,
		},
		{
			name:     "Unique violation on email",
			err:      &pq.Error{Code: "23505", Constraint: "idx_users_email"},
			context:  "register user",
			wantCode: AuthEmailAlreadyExists,
		},
		{
			name:     "Unique violation on review pair",
			err:      &pq.Error{Code: "23505", Constraint: "idx_reviews_user_restaurant"},
			context:  "create review",
			wantCode: ReviewAlreadyExists,
		},
		{
			name:     "Check violation on score",
			err:      &pq.Error{Code: "23514", Constraint: "chk_reviews_score"},
			context:  "create review",
			wantCode: ReviewInvalidScore,
		},
		{
			name:     "Check violation on price",
			err:      &pq.Error{Code: "23514", Constraint: "chk_dishes_price"},
			context:  "create dish",
			wantCode: DishInvalidPrice,
		},
		{
			name:     "Foreign key violation",
			err:      &pq.Error{Code: "23503"},
			context:  "create dish",
			wantCode: ResourceNotFound,
		},
		{
			name:     "Not null violation",
			err:      &pq.Error{Code: "23502"},
			context:  "create dish",
			wantCode: ValidationRequired,
		},
		{
			name:     "SQLite unique text",
			err:      fmt.Errorf("UNIQUE constraint failed: users.email"),
			context:  "register user",
			wantCode: AuthEmailAlreadyExists,
		},
		{
			name:     "SQLite check text",
			err:      fmt.Errorf("CHECK constraint failed: score >= 1 AND score <= 5"),
			context:  "create review",
			wantCode: ReviewInvalidScore,
		},
		{
			name:     "Unrecognized error",
			err:      errors.New("connection reset by peer"),
			context:  "get restaurant",
			wantCode: InternalDatabaseError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			info := ParseStorageError(tt.err, tt.context)
			assert.Equal(t, tt.wantCode, info.Code)
			assert.NotEmpty(t, info.Message)
		})
	}
}

func TestNotFoundMessage(t *testing.T) {
	assert.Equal(t, "Restaurant not found", ParseStorageError(gorm.ErrRecordNotFound, "update restaurant").Message)
	assert.Equal(t, "Dish not found", ParseStorageError(gorm.ErrRecordNotFound, "delete dish").Message)
	assert.Equal(t, "User not found", ParseStorageError(gorm.ErrRecordNotFound, "get user").Message)
}

func TestIsUniqueViolation(t *testing.T) {
	assert.True(t, IsUniqueViolation(&pq.Error{Code: "23505"}))
	assert.True(t, IsUniqueViolation(fmt.Errorf("UNIQUE constraint failed: reviews.user_id, reviews.restaurant_id")))
	assert.False(t, IsUniqueViolation(&pq.Error{Code: "23503"}))
	assert.False(t, IsUniqueViolation(errors.New("some other error")))
	assert.False(t, IsUniqueViolation(nil))
}

package errors

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// ErrorResponse is the standard error payload. Details carries the
// underlying error text and is only attached to 5xx responses.
type ErrorResponse struct {
	Error   string `json:"error"`             // code, for frontend mapping
	Message string `json:"message"`           // human-readable fallback
	Details string `json:"details,omitempty"` // underlying cause, 5xx only
}

// RespondWithError writes the standard error payload
func RespondWithError(c *gin.Context, statusCode int, errorCode string, message string) {
	c.JSON(statusCode, ErrorResponse{
		Error:   errorCode,
		Message: message,
	})
}

// Shorthand helpers for the common cases

func Unauthorized(c *gin.Context, message string) {
	if message == "" {
		message = "Authentication required"
	}
	RespondWithError(c, http.StatusUnauthorized, AuthUnauthorized, message)
}

func Forbidden(c *gin.Context, message string) {
	if message == "" {
		message = "You do not have permission to perform this action"
	}
	RespondWithError(c, http.StatusForbidden, AuthzForbidden, message)
}

func BadRequest(c *gin.Context, errorCode string, message string) {
	RespondWithError(c, http.StatusBadRequest, errorCode, message)
}

func NotFound(c *gin.Context, errorCode string, message string) {
	RespondWithError(c, http.StatusNotFound, errorCode, message)
}

func Conflict(c *gin.Context, errorCode string, message string) {
	RespondWithError(c, http.StatusConflict, errorCode, message)
}

// InternalError writes a 500 carrying the underlying error in details.
func InternalError(c *gin.Context, err error) {
	resp := ErrorResponse{
		Error:   InternalServerError,
		Message: "An internal error occurred. Please try again later",
	}
	if err != nil {
		resp.Details = err.Error()
	}
	c.JSON(http.StatusInternalServerError, resp)
}

// ParseAndRespond translates a storage error into the standard payload.
// Constraint and not-found errors map to 4xx codes; anything else falls
// through to the given status.
func ParseAndRespond(c *gin.Context, fallbackStatus int, err error, context string) {
	info := ParseStorageError(err, context)

	switch info.Code {
	case ResourceNotFound, RestaurantNotFound, DishNotFound:
		RespondWithError(c, http.StatusNotFound, info.Code, info.Message)
	case AuthEmailAlreadyExists, ReviewAlreadyExists, ResourceAlreadyExists:
		RespondWithError(c, http.StatusConflict, info.Code, info.Message)
	case ReviewInvalidScore, DishInvalidPrice, ValidationRequired, ValidationInvalidRange:
		RespondWithError(c, http.StatusBadRequest, info.Code, info.Message)
	default:
		resp := ErrorResponse{
			Error:   info.Code,
			Message: info.Message,
		}
		if fallbackStatus >= http.StatusInternalServerError && err != nil {
			resp.Details = err.Error()
		}
		c.JSON(fallbackStatus, resp)
	}
}

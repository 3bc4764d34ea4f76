package errors

// Error code constants, shaped CATEGORY_SPECIFIC_DETAIL. The frontend maps
// these codes to display messages; the message field is a fallback.

const (
	// ==================== Authentication (AUTH_) ====================
	AuthUnauthorized       = "AUTH_UNAUTHORIZED"        // login required
	AuthInvalidCredentials = "AUTH_INVALID_CREDENTIALS" // bad email/password
	AuthTokenMissing       = "AUTH_TOKEN_MISSING"       // no bearer token
	AuthTokenInvalid       = "AUTH_TOKEN_INVALID"       // bad or expired token
	AuthTokenRevoked       = "AUTH_TOKEN_REVOKED"       // token blacklisted
	AuthEmailAlreadyExists = "AUTH_EMAIL_EXISTS"        // duplicate email
	AuthWrongPassword      = "AUTH_WRONG_PASSWORD"      // current password mismatch

	// ==================== Authorization (AUTHZ_) ====================
	AuthzForbidden    = "AUTHZ_FORBIDDEN"      // no access
	AuthzRoleRequired = "AUTHZ_ROLE_REQUIRED"  // wrong role for operation
	AuthzRoleNotFound = "AUTHZ_ROLE_NOT_FOUND" // no role info in context

	// ==================== Validation (VALIDATION_) ====================
	ValidationInvalidInput = "VALIDATION_INVALID_INPUT" // malformed body
	ValidationInvalidID    = "VALIDATION_INVALID_ID"    // bad path id
	ValidationInvalidRange = "VALIDATION_INVALID_RANGE" // value out of range
	ValidationTooShort     = "VALIDATION_TOO_SHORT"     // below minimum length
	ValidationRequired     = "VALIDATION_REQUIRED"      // missing required field
	ValidationInvalidRole  = "VALIDATION_INVALID_ROLE"  // role outside closed set

	// ==================== Resources (RESOURCE_) ====================
	ResourceNotFound      = "RESOURCE_NOT_FOUND"
	ResourceAlreadyExists = "RESOURCE_ALREADY_EXISTS"
	ResourceConflict      = "RESOURCE_CONFLICT"

	// ==================== Restaurants (RESTAURANT_) ====================
	RestaurantNotFound = "RESTAURANT_NOT_FOUND" // missing, inactive, or not owned

	// ==================== Dishes (DISH_) ====================
	DishNotFound     = "DISH_NOT_FOUND"
	DishInvalidPrice = "DISH_INVALID_PRICE"

	// ==================== Reviews (REVIEW_) ====================
	ReviewNotFound      = "REVIEW_NOT_FOUND"
	ReviewInvalidScore  = "REVIEW_INVALID_SCORE"  // score outside [1,5]
	ReviewAlreadyExists = "REVIEW_ALREADY_EXISTS" // one per user per restaurant

	// ==================== Internal (INTERNAL_) ====================
	InternalServerError   = "INTERNAL_SERVER_ERROR"
	InternalDatabaseError = "INTERNAL_DATABASE_ERROR"
	InternalPoolTimeout   = "INTERNAL_POOL_TIMEOUT" // connection pool exhausted
)

package errors

import (
	"errors"
	"strings"

	"gorm.io/gorm"
)

// ErrorInfo is a parsed error code and a message safe to show to users
type ErrorInfo struct {
	Code    string
	Message string
}

// ParseError converts a persistence error into a code and a friendly message.
// Driver details never reach the response; context names the operation, e.g. "update menu item".
func ParseError(err error, context string) ErrorInfo {
	if err == nil {
		return ErrorInfo{
			Code:    InternalServerError,
			Message: "Something went wrong",
		}
	}

	errStr := err.Error()
	errStrLower := strings.ToLower(errStr)

	// 1. gorm sentinel errors
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrorInfo{
			Code:    ResourceNotFound,
			Message: NotFoundMessage(context),
		}
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return parseDuplicateKeyError(errStr)
	}

	// 2. PostgreSQL (and SQLite in tests) constraint errors

	// 2-1. unique violation (23505)
	if strings.Contains(errStrLower, "duplicate key") || strings.Contains(errStrLower, "unique constraint") {
		return parseDuplicateKeyError(errStr)
	}

	// 2-2. foreign key violation (23503)
	if strings.Contains(errStrLower, "foreign key constraint") {
		return ErrorInfo{
			Code:    ResourceConflict,
			Message: "This record is referenced by other data",
		}
	}

	// 2-3. not-null violation (23502)
	if strings.Contains(errStrLower, "violates not-null constraint") || strings.Contains(errStrLower, "not null constraint failed") {
		return ErrorInfo{
			Code:    ValidationRequired,
			Message: "A required field is missing",
		}
	}

	// 2-4. check violation (23514)
	if strings.Contains(errStrLower, "check constraint") {
		return ErrorInfo{
			Code:    ValidationInvalidInput,
			Message: "A value is out of the allowed range",
		}
	}

	// 3. connectivity
	if strings.Contains(errStrLower, "connection refused") ||
		strings.Contains(errStrLower, "no such host") ||
		strings.Contains(errStrLower, "timeout") {
		return ErrorInfo{
			Code:    InternalDatabaseError,
			Message: "The database is unreachable. Please try again later",
		}
	}

	// 4. any other persistence failure
	return ErrorInfo{
		Code:    InternalDatabaseError,
		Message: getDefaultErrorMessage(context),
	}
}

func parseDuplicateKeyError(errStr string) ErrorInfo {
	errLower := strings.ToLower(errStr)

	if strings.Contains(errLower, "email") {
		return ErrorInfo{
			Code:    AuthEmailAlreadyExists,
			Message: "This email is already registered",
		}
	}
	if strings.Contains(errLower, "settings") {
		return ErrorInfo{
			Code:    ResourceAlreadyExists,
			Message: "A setting with this key already exists",
		}
	}
	if strings.Contains(errLower, "user_id") {
		return ErrorInfo{
			Code:    ResourceAlreadyExists,
			Message: "This account already has a role",
		}
	}

	return ErrorInfo{
		Code:    ResourceAlreadyExists,
		Message: "This record already exists",
	}
}

// NotFoundMessage names the missing record from the operation context
func NotFoundMessage(context string) string {
	contextLower := strings.ToLower(context)

	switch {
	case strings.Contains(contextLower, "menu"):
		return "Menu item not found"
	case strings.Contains(contextLower, "special"):
		return "Special not found"
	case strings.Contains(contextLower, "gallery"):
		return "Gallery image not found"
	case strings.Contains(contextLower, "reservation"):
		return "Reservation not found"
	case strings.Contains(contextLower, "staff"), strings.Contains(contextLower, "user"), strings.Contains(contextLower, "account"):
		return "Account not found"
	case strings.Contains(contextLower, "setting"):
		return "Setting not found"
	}

	return "The requested record was not found"
}

func getDefaultErrorMessage(context string) string {
	contextLower := strings.ToLower(context)

	switch {
	case strings.Contains(contextLower, "create"):
		return "Could not save. Please try again later"
	case strings.Contains(contextLower, "update"), strings.Contains(contextLower, "toggle"):
		return "Could not update. Please try again later"
	case strings.Contains(contextLower, "delete"):
		return "Could not delete. Please try again later"
	case strings.Contains(contextLower, "list"), strings.Contains(contextLower, "load"):
		return "Could not load data. Please try again later"
	}

	return "Something went wrong. Please try again later"
}

// ParseAndRespond parses err and writes it with the given status.
func ParseAndRespond(c interface{ JSON(int, interface{}) }, statusCode int, err error, context string) {
	errorInfo := ParseError(err, context)
	c.JSON(statusCode, ErrorResponse{
		Error:   errorInfo.Code,
		Message: errorInfo.Message,
	})
}

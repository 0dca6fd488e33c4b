package errors

// Error code constants.
// Format: CATEGORY_SPECIFIC_DETAIL
// The admin frontend maps these codes to user-facing notifications.

const (
	// ==================== Authentication (AUTH_) ====================
	AuthUnauthorized       = "AUTH_UNAUTHORIZED"        // sign-in required
	AuthInvalidCredentials = "AUTH_INVALID_CREDENTIALS" // wrong email/password
	AuthTokenExpired       = "AUTH_TOKEN_EXPIRED"       // session expired
	AuthTokenInvalid       = "AUTH_TOKEN_INVALID"       // malformed or forged token
	AuthTokenRevoked       = "AUTH_TOKEN_REVOKED"       // signed out
	AuthEmailAlreadyExists = "AUTH_EMAIL_EXISTS"        // duplicate email
	AuthSignupDisabled     = "AUTH_SIGNUP_DISABLED"     // public sign-up turned off

	// ==================== Authorization (AUTHZ_) ====================
	AuthzForbidden    = "AUTHZ_FORBIDDEN"  // no access to the admin area
	AuthzAdminOnly    = "AUTHZ_ADMIN_ONLY" // action restricted to admins
	AuthzRoleNotFound = "AUTHZ_ROLE_NOT_FOUND"

	// ==================== Validation (VALIDATION_) ====================
	ValidationInvalidInput  = "VALIDATION_INVALID_INPUT"
	ValidationInvalidID     = "VALIDATION_INVALID_ID"
	ValidationInvalidFormat = "VALIDATION_INVALID_FORMAT"
	ValidationInvalidRange  = "VALIDATION_INVALID_RANGE"
	ValidationRequired      = "VALIDATION_REQUIRED"
	ValidationUnknownField  = "VALIDATION_UNKNOWN_FIELD" // patch touches a non-editable column

	// ==================== Resources (RESOURCE_) ====================
	ResourceNotFound      = "RESOURCE_NOT_FOUND"
	ResourceAlreadyExists = "RESOURCE_ALREADY_EXISTS"
	ResourceConflict      = "RESOURCE_CONFLICT"

	// ==================== Staff accounts (STAFF_) ====================
	StaffLastAdmin      = "STAFF_LAST_ADMIN"      // sole admin cannot be demoted or deleted
	StaffSelfDelete     = "STAFF_SELF_DELETE"     // admins cannot delete their own account
	StaffProfileMissing = "STAFF_PROFILE_MISSING" // role row exists without a profile
	StaffInvalidRole    = "STAFF_INVALID_ROLE"

	// ==================== Reservations (RESERVATION_) ====================
	ReservationInvalidTransition  = "RESERVATION_INVALID_TRANSITION"
	ReservationTransitionConflict = "RESERVATION_TRANSITION_CONFLICT" // status moved by another session

	// ==================== Settings (SETTING_) ====================
	SettingInvalidKey   = "SETTING_INVALID_KEY"
	SettingInvalidValue = "SETTING_INVALID_VALUE"

	// ==================== Uploads (UPLOAD_) ====================
	UploadInvalidFileType = "UPLOAD_INVALID_FILE_TYPE"
	UploadFileTooLarge    = "UPLOAD_FILE_TOO_LARGE"
	UploadFailed          = "UPLOAD_FAILED"
	UploadNotSupported    = "UPLOAD_NOT_SUPPORTED" // presign on a non-S3 driver

	// ==================== Internal (INTERNAL_) ====================
	InternalServerError   = "INTERNAL_SERVER_ERROR"
	InternalDatabaseError = "INTERNAL_DATABASE_ERROR"
	InternalExternalAPI   = "INTERNAL_EXTERNAL_API"
	InternalConfigError   = "INTERNAL_CONFIG_ERROR"
)

// internal/i18n/keys.go
package i18n

// Translation keys constants
const (
	// Common
	KeySuccess = "success"
	KeyError   = "error"

	// Licenses
	KeyLicenseCreated         = "license.created"
	KeyLicenseActivated       = "license.activated"
	KeyLicenseRenewed         = "license.renewed"
	KeyLicenseDeleted         = "license.deleted"
	KeyLicenseNotFound        = "license.not_found"
	KeyLicenseDoesNotExist    = "license.does_not_exist"
	KeyLicenseNotActivated    = "license.not_activated"
	KeyLicenseExpired         = "license.expired"
	KeyLicenseAlreadyActive   = "license.already_active"
	KeyLicenseInvalidDuration = "license.invalid_duration"
	KeyLicenseInsertFailed    = "license.insert_failed"

	// Failures
	KeyDatabaseError = "database.error"
	KeyInternalError = "internal.error"

	// Validation
	KeyValidationInvalid = "validation.invalid"

	// Rate limiting
	KeyRateLimitExceeded = "rate_limit.exceeded"
)

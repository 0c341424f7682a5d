// internal/models/errors.go
package models

// LicenseError is the closed set of failures a lifecycle operation can
// report. Store faults wrap ErrDatabase together with the driver error.
type LicenseError string

func (e LicenseError) Error() string { return string(e) }

const (
	ErrDatabase             LicenseError = "database error"
	ErrLicenseNotFound      LicenseError = "license not found"
	ErrLicenseDoesNotExist  LicenseError = "license does not exist"
	ErrLicenseNotActivated  LicenseError = "license not activated"
	ErrLicenseExpired       LicenseError = "license expired"
	ErrLicenseAlreadyActive LicenseError = "license already active"
	ErrInvalidDuration      LicenseError = "invalid duration"
)

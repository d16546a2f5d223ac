package gateway

import "errors"

// Error kinds for the two external services. Callers branch with errors.Is.
var (
	// ErrServiceAuth means credentials are missing or were rejected.
	ErrServiceAuth = errors.New("service authorization failed")

	// ErrServiceNotFound means the named spreadsheet or configured Drive
	// folder does not exist or is not accessible to the service account.
	ErrServiceNotFound = errors.New("service resource not found")

	// ErrUpload covers any failure while publishing a file to Drive.
	ErrUpload = errors.New("upload failed")

	// ErrPersistence covers any failure while appending a feedback row.
	ErrPersistence = errors.New("row append failed")
)

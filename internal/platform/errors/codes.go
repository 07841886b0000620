// Package errors provides coded domain errors for the garage.
package errors

// Code is a machine-readable error code.
type Code string

const (
	// CodeUnknown represents an unknown error.
	CodeUnknown Code = "UNKNOWN"

	// Entity errors
	CodeValidationRejected Code = "VALIDATION_REJECTED"
	CodeConstructionOrder  Code = "CONSTRUCTION_ORDER"
	CodeInvalidRecord      Code = "INVALID_RECORD"

	// Storage errors
	CodeNotFound  Code = "NOT_FOUND"
	CodeDuplicate Code = "DUPLICATE"
	CodeConflict  Code = "CONFLICT"
)

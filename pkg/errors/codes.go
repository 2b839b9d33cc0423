package errors

import "net/http"

// ErrorCode identifies a specific failure category. Codes are stable strings
// so they can be matched by API clients and grepped in logs.
type ErrorCode string

func (c ErrorCode) String() string {
	return string(c)
}

// Common error codes shared by every layer.
const (
	ErrCodeInternal        ErrorCode = "COMMON_001"
	ErrCodeBadRequest      ErrorCode = "COMMON_002"
	ErrCodeNotFound        ErrorCode = "COMMON_003"
	ErrCodeConflict        ErrorCode = "COMMON_004"
	ErrCodeValidation      ErrorCode = "COMMON_005"
	ErrCodeTimeout         ErrorCode = "COMMON_006"
	ErrCodeExternalService ErrorCode = "COMMON_007"
	ErrCodeDatabaseError   ErrorCode = "COMMON_008"
	ErrCodeStorageError    ErrorCode = "COMMON_009"
)

// Docking pipeline error codes.
const (
	// ErrCodeMissingInput is returned when a workflow advance requires a
	// receptor and a ligand and at least one of them has not been uploaded.
	ErrCodeMissingInput ErrorCode = "DOCK_001"

	// ErrCodeInvalidTransition is returned when a session is asked to move to
	// a step the transition table does not permit from its current step.
	ErrCodeInvalidTransition ErrorCode = "DOCK_002"

	// ErrCodeInvalidEnginePath is returned when a user-supplied docking engine
	// path fails syntactic validation.
	ErrCodeInvalidEnginePath ErrorCode = "DOCK_003"

	// ErrCodePackageFailed is returned when assembling the job package fails.
	ErrCodePackageFailed ErrorCode = "DOCK_004"

	// ErrCodeGenerationBusy is returned when a package generation is requested
	// while a previous one on the same session is still outstanding.
	ErrCodeGenerationBusy ErrorCode = "DOCK_005"

	// ErrCodeSessionNotFound is returned when a workflow session ID is unknown.
	ErrCodeSessionNotFound ErrorCode = "DOCK_006"
)

// httpStatusByCode maps error codes to HTTP response statuses. Codes absent
// from the map report 500.
var httpStatusByCode = map[ErrorCode]int{
	ErrCodeInternal:          http.StatusInternalServerError,
	ErrCodeBadRequest:        http.StatusBadRequest,
	ErrCodeNotFound:          http.StatusNotFound,
	ErrCodeConflict:          http.StatusConflict,
	ErrCodeValidation:        http.StatusBadRequest,
	ErrCodeTimeout:           http.StatusGatewayTimeout,
	ErrCodeExternalService:   http.StatusBadGateway,
	ErrCodeDatabaseError:     http.StatusInternalServerError,
	ErrCodeStorageError:      http.StatusInternalServerError,
	ErrCodeMissingInput:      http.StatusUnprocessableEntity,
	ErrCodeInvalidTransition: http.StatusConflict,
	ErrCodeInvalidEnginePath: http.StatusBadRequest,
	ErrCodePackageFailed:     http.StatusInternalServerError,
	ErrCodeGenerationBusy:    http.StatusConflict,
	ErrCodeSessionNotFound:   http.StatusNotFound,
}

// HTTPStatus returns the HTTP status an API layer should use for the code.
func (c ErrorCode) HTTPStatus() int {
	if s, ok := httpStatusByCode[c]; ok {
		return s
	}
	return http.StatusInternalServerError
}

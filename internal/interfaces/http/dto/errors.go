package dto

import "net/http"

// Domain error codes surfaced on the API. These are stable contract values;
// clients branch on them, so renames are breaking changes.
const (
	ErrCodeInternal = "INTERNAL_ERROR"

	ErrCodeUnauthorized = "UNAUTHORIZED"
	ErrCodeForbidden    = "FORBIDDEN"

	ErrCodeNotFound            = "NOT_FOUND"
	ErrCodeAlreadyExists       = "ALREADY_EXISTS"
	ErrCodeConcurrencyConflict = "CONCURRENCY_CONFLICT"

	ErrCodeBadRequest   = "BAD_REQUEST"
	ErrCodeInvalidInput = "INVALID_INPUT"
	ErrCodeInvalidState = "INVALID_STATE"

	ErrCodeInvalidTransition       = "INVALID_TRANSITION"
	ErrCodeDuplicateActiveShipment = "DUPLICATE_ACTIVE_SHIPMENT"
	ErrCodeAWBAlreadyAssigned      = "AWB_ALREADY_ASSIGNED"
	ErrCodeRouteNotServiceable     = "ROUTE_NOT_SERVICEABLE"
	ErrCodeCourierFailure          = "COURIER_FAILURE"
	ErrCodePersistenceAfterBooking = "PERSISTENCE_AFTER_BOOKING"
)

// ErrorCodeHTTPStatus maps error codes to HTTP status codes
var ErrorCodeHTTPStatus = map[string]int{
	ErrCodeInternal: http.StatusInternalServerError,

	ErrCodeUnauthorized: http.StatusUnauthorized,
	ErrCodeForbidden:    http.StatusForbidden,

	ErrCodeNotFound:            http.StatusNotFound,
	ErrCodeAlreadyExists:       http.StatusConflict,
	ErrCodeConcurrencyConflict: http.StatusConflict,

	ErrCodeBadRequest:   http.StatusBadRequest,
	ErrCodeInvalidInput: http.StatusBadRequest,
	ErrCodeInvalidState: http.StatusUnprocessableEntity,

	ErrCodeInvalidTransition:       http.StatusUnprocessableEntity,
	ErrCodeDuplicateActiveShipment: http.StatusConflict,
	ErrCodeAWBAlreadyAssigned:      http.StatusConflict,
	ErrCodeRouteNotServiceable:     http.StatusUnprocessableEntity,
	ErrCodeCourierFailure:          http.StatusBadGateway,
	// booking exists externally but not locally; clients must not retry blindly
	ErrCodePersistenceAfterBooking: http.StatusInternalServerError,
}

// GetHTTPStatus returns the HTTP status code for an error code,
// defaulting to 500 for unknown codes
func GetHTTPStatus(code string) int {
	if status, ok := ErrorCodeHTTPStatus[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}

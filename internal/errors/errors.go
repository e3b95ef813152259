// Package errors provides the typed error taxonomy of outfleet. Every
// terminal provisioning failure is represented by an AppError with a stable
// code so callers can decide on compensation instead of parsing messages.
package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// AppError represents an application error with an associated HTTP status
// code for the presentation surface.
type AppError struct {
	// Code is a stable error code string for programmatic handling
	Code string
	// Message is a user-friendly error message
	Message string
	// StatusCode is the HTTP status code the server surface returns
	StatusCode int
	// Cause is the underlying error (for error wrapping)
	Cause error
}

// Error implements the error interface.
func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

// Unwrap returns the underlying error for error unwrapping.
func (e *AppError) Unwrap() error {
	return e.Cause
}

// Is allows errors.Is to match AppErrors by code.
func (e *AppError) Is(target error) bool {
	if t, ok := target.(*AppError); ok {
		return e.Code != "" && e.Code == t.Code
	}
	return false
}

// Provisioning error codes. Each names the orchestration step whose terminal
// failure it carries.
const (
	ErrCodeOperationFailed    = "OPERATION_FAILED"
	ErrCodeProjectCreation    = "PROJECT_CREATION_FAILED"
	ErrCodeInstanceCreation   = "INSTANCE_CREATION_FAILED"
	ErrCodeFirewallCreation   = "FIREWALL_CREATION_FAILED"
	ErrCodeIPPromotion        = "IP_PROMOTION_FAILED"
	ErrCodeServiceEnablement  = "SERVICE_ENABLEMENT_FAILED"
	ErrCodeBillingLink        = "BILLING_LINK_FAILED"
	ErrCodeTimeout            = "TIMEOUT"
	ErrCodeInvalidRequest     = "INVALID_REQUEST"
	ErrCodeNotFound           = "NOT_FOUND"
	ErrCodeInternalError      = "INTERNAL_ERROR"
	ErrCodeServiceUnavailable = "SERVICE_UNAVAILABLE"
)

// NewClientError creates a new client error (4xx status codes).
func NewClientError(statusCode int, code, message string, cause error) *AppError {
	if statusCode < 400 || statusCode >= 500 {
		panic(fmt.Sprintf("NewClientError called with non-client status code: %d", statusCode))
	}
	return &AppError{Code: code, Message: message, StatusCode: statusCode, Cause: cause}
}

// NewServerError creates a new server error (5xx status codes).
func NewServerError(statusCode int, code, message string, cause error) *AppError {
	if statusCode < 500 || statusCode >= 600 {
		panic(fmt.Sprintf("NewServerError called with non-server status code: %d", statusCode))
	}
	return &AppError{Code: code, Message: message, StatusCode: statusCode, Cause: cause}
}

// ErrOperationFailed reports a terminal cloud operation that carries a
// provider error payload. opName is the provider operation name.
func ErrOperationFailed(opName string, cause error) *AppError {
	return NewServerError(http.StatusBadGateway, ErrCodeOperationFailed,
		fmt.Sprintf("operation %s failed", opName), cause)
}

// ErrProjectCreationFailed reports a failed project-create flow. The caller
// must not proceed to project configuration.
func ErrProjectCreationFailed(projectID string, cause error) *AppError {
	return NewServerError(http.StatusBadGateway, ErrCodeProjectCreation,
		fmt.Sprintf("creation of project %s failed", projectID), cause)
}

// ErrInstanceCreationFailed reports a failed instance-create call or
// zone operation. It aborts the whole createServer flow.
func ErrInstanceCreationFailed(name string, cause error) *AppError {
	return NewServerError(http.StatusBadGateway, ErrCodeInstanceCreation,
		fmt.Sprintf("creation of instance %s failed", name), cause)
}

// ErrFirewallCreationFailed reports a failed firewall-ensure step. Surfaced
// through the completion signal; never only logged.
func ErrFirewallCreationFailed(name string, cause error) *AppError {
	return NewServerError(http.StatusBadGateway, ErrCodeFirewallCreation,
		fmt.Sprintf("creation of firewall %s failed", name), cause)
}

// ErrIPPromotionFailed reports a failed static-address reservation. The VM
// keeps running; rollback is an operator decision.
func ErrIPPromotionFailed(instance string, cause error) *AppError {
	return NewServerError(http.StatusBadGateway, ErrCodeIPPromotion,
		fmt.Sprintf("static address promotion for instance %s failed", instance), cause)
}

// ErrServiceEnablementFailed reports a failed required-services enablement.
func ErrServiceEnablementFailed(projectID string, cause error) *AppError {
	return NewServerError(http.StatusBadGateway, ErrCodeServiceEnablement,
		fmt.Sprintf("service enablement for project %s failed", projectID), cause)
}

// ErrBillingLinkFailed reports a failed billing-account link.
func ErrBillingLinkFailed(projectID string, cause error) *AppError {
	return NewServerError(http.StatusBadGateway, ErrCodeBillingLink,
		fmt.Sprintf("billing link for project %s failed", projectID), cause)
}

// ErrTimeout reports a poll loop that exceeded its deadline.
func ErrTimeout(what string, cause error) *AppError {
	return NewServerError(http.StatusGatewayTimeout, ErrCodeTimeout,
		fmt.Sprintf("timed out waiting for %s", what), cause)
}

// ErrBadRequest creates a bad request error (400).
func ErrBadRequest(message string, cause error) *AppError {
	return NewClientError(http.StatusBadRequest, ErrCodeInvalidRequest, message, cause)
}

// ErrNotFound creates a not found error (404).
func ErrNotFound(message string, cause error) *AppError {
	return NewClientError(http.StatusNotFound, ErrCodeNotFound, message, cause)
}

// ErrInternalError creates an internal server error (500).
func ErrInternalError(message string, cause error) *AppError {
	return NewServerError(http.StatusInternalServerError, ErrCodeInternalError, message, cause)
}

// GetStatusCode extracts the HTTP status code from an error.
// Returns 500 if the error is not an AppError.
func GetStatusCode(err error) int {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.StatusCode
	}
	return http.StatusInternalServerError
}

// GetErrorCode extracts the error code from an error.
// Returns empty string if the error is not an AppError.
func GetErrorCode(err error) string {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code
	}
	return ""
}

// GetErrorMessage extracts a user-friendly message from an error.
func GetErrorMessage(err error) string {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Message
	}
	return err.Error()
}

// GetErrorDetails extracts the underlying cause message when available,
// otherwise the main message.
func GetErrorDetails(err error) string {
	var appErr *AppError
	if errors.As(err, &appErr) {
		if appErr.Cause != nil {
			return appErr.Cause.Error()
		}
		return appErr.Message
	}
	return err.Error()
}

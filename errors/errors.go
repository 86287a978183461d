package errors

import (
	"fmt"
	"net/http"
	"strings"
)

// AppError is the unified application error type.
type AppError struct {
	// Code is a machine-readable error code.
	Code ErrorCode `json:"code"`
	// Message is a human-readable error message.
	Message string `json:"message"`
	// Retryable indicates if the operation can be retried.
	Retryable bool `json:"retryable"`
	// HTTPStatus is the recommended HTTP status code for this error.
	HTTPStatus int `json:"-"`
	// Details contains additional context for the error.
	Details map[string]any `json:"details,omitempty"`
	// Cause is the underlying error that caused this error.
	Cause error `json:"-"`
}

// Error returns the string representation of the error.
func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (cause: %v)", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause of the error.
func (e *AppError) Unwrap() error { return e.Cause }

// WithCause sets the underlying cause of the error and returns the receiver.
func (e *AppError) WithCause(cause error) *AppError {
	e.Cause = cause
	return e
}

// WithDetails merges the provided details into the error and returns the receiver.
func (e *AppError) WithDetails(details map[string]any) *AppError {
	if e.Details == nil {
		e.Details = make(map[string]any)
	}
	for k, v := range details {
		e.Details[k] = v
	}
	return e
}

// WithDetail sets a single detail key-value pair and returns the receiver.
func (e *AppError) WithDetail(key string, value any) *AppError {
	if e.Details == nil {
		e.Details = make(map[string]any)
	}
	e.Details[key] = value
	return e
}

// New creates a new AppError with automatic retryable detection.
func New(code ErrorCode, message string, httpStatus int) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		HTTPStatus: httpStatus,
		Retryable:  IsRetryableCode(code),
	}
}

// --- Graph Definition Error Constructors ---

// GraphInvalid creates a new AppError for a graph that fails validation.
func GraphInvalid(reason string) *AppError {
	return &AppError{
		Code: ErrCodeGraphInvalid, Message: fmt.Sprintf("Invalid graph definition: %s", reason),
		HTTPStatus: http.StatusBadRequest, Retryable: false,
	}
}

// DuplicateNode creates a new AppError for a node id declared more than once.
func DuplicateNode(id string) *AppError {
	return &AppError{
		Code: ErrCodeDuplicateNode, Message: fmt.Sprintf("Node id %q is declared more than once.", id),
		HTTPStatus: http.StatusBadRequest, Retryable: false,
		Details: map[string]any{"node": id},
	}
}

// MissingDependency creates a new AppError for a dependency that does not resolve.
func MissingDependency(node, dependency string) *AppError {
	return &AppError{
		Code: ErrCodeMissingDependency, Message: fmt.Sprintf("Node %q depends on %q, which is not in the graph.", node, dependency),
		HTTPStatus: http.StatusBadRequest, Retryable: false,
		Details: map[string]any{"node": node, "dependency": dependency},
	}
}

// CycleDetected creates a new AppError for a dependency cycle. The path lists
// the node ids along the cycle, ending where it started.
func CycleDetected(path []string) *AppError {
	return &AppError{
		Code: ErrCodeCycleDetected, Message: fmt.Sprintf("Dependency cycle detected: %s", strings.Join(path, " -> ")),
		HTTPStatus: http.StatusBadRequest, Retryable: false,
		Details: map[string]any{"path": path},
	}
}

// DuplicateOutputKey creates a new AppError for two nodes writing the same output key.
func DuplicateOutputKey(key, first, second string) *AppError {
	return &AppError{
		Code: ErrCodeDuplicateOutputKey, Message: fmt.Sprintf("Output key %q is declared by both %q and %q.", key, first, second),
		HTTPStatus: http.StatusBadRequest, Retryable: false,
		Details: map[string]any{"output_key": key, "nodes": []string{first, second}},
	}
}

// UnknownEntry creates a new AppError for an entry point that is not in the graph.
func UnknownEntry(id string) *AppError {
	return &AppError{
		Code: ErrCodeUnknownEntry, Message: fmt.Sprintf("Entry point %q is not a node in the graph.", id),
		HTTPStatus: http.StatusBadRequest, Retryable: false,
		Details: map[string]any{"entry": id},
	}
}

// --- Execution Error Constructors ---

// NodeExecutionFailed creates a new AppError for a node whose delegated
// invocation failed. The run halts at this node.
func NodeExecutionFailed(node string, cause error) *AppError {
	return &AppError{
		Code: ErrCodeNodeExecutionFailed, Message: fmt.Sprintf("Execution of node %q failed.", node),
		HTTPStatus: http.StatusUnprocessableEntity, Retryable: false,
		Details: map[string]any{"node": node}, Cause: cause,
	}
}

// --- Backend/Availability Error Constructors ---

// BackendUnavailable creates a new AppError for an execution backend that is not reachable.
func BackendUnavailable(name string) *AppError {
	return &AppError{
		Code: ErrCodeBackendUnavailable, Message: fmt.Sprintf("The %s backend is unavailable. Please try again.", name),
		HTTPStatus: http.StatusServiceUnavailable, Retryable: true,
		Details: map[string]any{"backend": name},
	}
}

// ConnectionFailed creates a new AppError for a failed connection to a service.
func ConnectionFailed(service string) *AppError {
	return &AppError{
		Code: ErrCodeConnectionFailed, Message: fmt.Sprintf("Unable to connect to %s. Please verify the service is running.", service),
		HTTPStatus: http.StatusServiceUnavailable, Retryable: true,
		Details: map[string]any{"service": service},
	}
}

// Timeout creates a new AppError for a request that timed out.
func Timeout(operation string) *AppError {
	return &AppError{
		Code: ErrCodeTimeout, Message: "The request took too long. Please try again.",
		HTTPStatus: http.StatusGatewayTimeout, Retryable: true,
		Details: map[string]any{"operation": operation},
	}
}

// RateLimited creates a new AppError for too many requests.
func RateLimited() *AppError {
	return &AppError{
		Code: ErrCodeRateLimited, Message: "Too many requests. Please wait a moment and try again.",
		HTTPStatus: http.StatusTooManyRequests, Retryable: true,
	}
}

// NotFound creates a new AppError for a resource that was not found.
func NotFound(resource, id string) *AppError {
	details := map[string]any{"resource": resource}
	if id != "" {
		details["id"] = id
	}
	return &AppError{
		Code: ErrCodeNotFound, Message: fmt.Sprintf("The requested %s was not found.", resource),
		HTTPStatus: http.StatusNotFound, Retryable: false, Details: details,
	}
}

// --- Validation/Configuration Error Constructors ---

// InvalidInput creates a new AppError for invalid input.
func InvalidInput(field, reason string) *AppError {
	details := make(map[string]any)
	if field != "" {
		details["field"] = field
	}
	return &AppError{
		Code: ErrCodeInvalidInput, Message: fmt.Sprintf("Invalid input: %s", reason),
		HTTPStatus: http.StatusBadRequest, Retryable: false, Details: details,
	}
}

// Validation creates a new AppError for validation errors.
func Validation(message string) *AppError {
	return &AppError{
		Code: ErrCodeInvalidInput, Message: message,
		HTTPStatus: http.StatusBadRequest, Retryable: false,
	}
}

// MissingField creates a new AppError for a missing required field.
func MissingField(field string) *AppError {
	return &AppError{
		Code: ErrCodeMissingField, Message: fmt.Sprintf("Missing required field: %s", field),
		HTTPStatus: http.StatusBadRequest, Retryable: false,
		Details: map[string]any{"field": field},
	}
}

// InvalidConfig creates a new AppError for configuration that fails validation.
func InvalidConfig(reason string) *AppError {
	return &AppError{
		Code: ErrCodeInvalidConfig, Message: fmt.Sprintf("Invalid configuration: %s", reason),
		HTTPStatus: http.StatusInternalServerError, Retryable: false,
	}
}

// --- Internal Error Constructors ---

// Internal creates a new AppError for an internal error.
func Internal(cause error) *AppError {
	return &AppError{
		Code: ErrCodeInternal, Message: "An unexpected error occurred. Please try again or contact support.",
		HTTPStatus: http.StatusInternalServerError, Retryable: false, Cause: cause,
	}
}

// ExternalServiceError creates a new AppError for an error from an external service.
func ExternalServiceError(service string, cause error) *AppError {
	return &AppError{
		Code: ErrCodeExternalService, Message: fmt.Sprintf("The %s service encountered an error. Please try again.", service),
		HTTPStatus: http.StatusBadGateway, Retryable: true,
		Details: map[string]any{"service": service}, Cause: cause,
	}
}

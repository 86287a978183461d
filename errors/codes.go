package errors

// ErrorCode represents a machine-readable error code.
type ErrorCode string

// Graph definition errors (fatal, detected before execution)
const (
	// ErrCodeGraphInvalid indicates the graph definition is invalid.
	ErrCodeGraphInvalid ErrorCode = "GRAPH_INVALID"
	// ErrCodeDuplicateNode indicates two nodes share the same id.
	ErrCodeDuplicateNode ErrorCode = "DUPLICATE_NODE"
	// ErrCodeMissingDependency indicates a node depends on an id that is not in the graph.
	ErrCodeMissingDependency ErrorCode = "MISSING_DEPENDENCY"
	// ErrCodeCycleDetected indicates the dependency graph contains a cycle.
	ErrCodeCycleDetected ErrorCode = "CYCLE_DETECTED"
	// ErrCodeDuplicateOutputKey indicates two nodes declare the same output key.
	ErrCodeDuplicateOutputKey ErrorCode = "DUPLICATE_OUTPUT_KEY"
	// ErrCodeUnknownEntry indicates the declared entry point is not in the graph.
	ErrCodeUnknownEntry ErrorCode = "UNKNOWN_ENTRY"
)

// Execution errors (per node, recorded on the run)
const (
	// ErrCodeNodeExecutionFailed indicates a delegated node invocation failed.
	ErrCodeNodeExecutionFailed ErrorCode = "NODE_EXECUTION_FAILED"
)

// Backend/availability errors (retryable)
const (
	// ErrCodeBackendUnavailable indicates the execution backend is not reachable.
	ErrCodeBackendUnavailable ErrorCode = "BACKEND_UNAVAILABLE"
	// ErrCodeConnectionFailed indicates a failed connection to a service.
	ErrCodeConnectionFailed ErrorCode = "CONNECTION_FAILED"
	// ErrCodeTimeout indicates the request timed out.
	ErrCodeTimeout ErrorCode = "TIMEOUT"
	// ErrCodeRateLimited indicates the client is rate limited.
	ErrCodeRateLimited ErrorCode = "RATE_LIMITED"
)

// Validation/configuration errors
const (
	// ErrCodeNotFound indicates the requested resource was not found.
	ErrCodeNotFound ErrorCode = "NOT_FOUND"
	// ErrCodeInvalidInput indicates the input is invalid.
	ErrCodeInvalidInput ErrorCode = "INVALID_INPUT"
	// ErrCodeMissingField indicates a required field is missing.
	ErrCodeMissingField ErrorCode = "MISSING_FIELD"
	// ErrCodeInvalidConfig indicates the configuration failed validation.
	ErrCodeInvalidConfig ErrorCode = "INVALID_CONFIG"
)

// Internal errors
const (
	// ErrCodeInternal indicates an internal error.
	ErrCodeInternal ErrorCode = "INTERNAL_ERROR"
	// ErrCodeExternalService indicates an error from an external service.
	ErrCodeExternalService ErrorCode = "EXTERNAL_SERVICE_ERROR"
)

var retryableCodes = map[ErrorCode]bool{
	ErrCodeBackendUnavailable: true,
	ErrCodeConnectionFailed:   true,
	ErrCodeTimeout:            true,
	ErrCodeRateLimited:        true,
	ErrCodeExternalService:    true,
	ErrCodeInternal:           false,
}

// IsRetryableCode returns true if the error code indicates a retryable error.
func IsRetryableCode(code ErrorCode) bool {
	return retryableCodes[code]
}

var graphDefinitionCodes = map[ErrorCode]bool{
	ErrCodeGraphInvalid:       true,
	ErrCodeDuplicateNode:      true,
	ErrCodeMissingDependency:  true,
	ErrCodeCycleDetected:      true,
	ErrCodeDuplicateOutputKey: true,
	ErrCodeUnknownEntry:       true,
}

// IsGraphDefinitionCode returns true if the code belongs to the graph
// definition family, which is always fatal and detected before execution.
func IsGraphDefinitionCode(code ErrorCode) bool {
	return graphDefinitionCodes[code]
}

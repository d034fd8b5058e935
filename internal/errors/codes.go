package errors

// Common error codes
const (
	// System errors
	ErrInternal        ErrorCode = "internal_error"
	ErrInvalidArgument ErrorCode = "invalid_argument"
	ErrAlreadyRunning  ErrorCode = "already_running"

	// Configuration errors
	ErrInvalidConfig   ErrorCode = "invalid_configuration"
	ErrReadConfig      ErrorCode = "read_config_failed"
	ErrInvalidInterval ErrorCode = "invalid_interval"

	// Logging errors
	ErrInvalidLogLevel ErrorCode = "invalid_log_level"

	// Initialization errors
	ErrInitFailed     ErrorCode = "initialization_failed"
	ErrShutdownFailed ErrorCode = "shutdown_failed"

	// Device link errors
	ErrLinkUnavailable ErrorCode = "link_unavailable"
	ErrLinkClosed      ErrorCode = "link_closed"
	ErrWriteFailed     ErrorCode = "write_failed"
	ErrShortWrite      ErrorCode = "short_write"
	ErrShortRead       ErrorCode = "short_read"
	ErrHandshake       ErrorCode = "handshake_failed"

	// Metric source errors
	ErrParseFailure ErrorCode = "parse_failure"
	ErrNotReady     ErrorCode = "not_ready"

	// Profile errors
	ErrUnknownProfile ErrorCode = "unknown_profile"
	ErrEmptyProfile   ErrorCode = "empty_profile"
	ErrSelectorRead   ErrorCode = "selector_read_failed"
	ErrSelectorWrite  ErrorCode = "selector_write_failed"

	// Operation errors
	ErrOperationFailed ErrorCode = "operation_failed"
	ErrTimeout         ErrorCode = "operation_timeout"
)

// Common error messages
var errorMessages = map[ErrorCode]string{
	ErrInternal:        "Internal error occurred",
	ErrInvalidArgument: "Invalid argument provided",
	ErrAlreadyRunning:  "Another instance is already running",
	ErrInvalidConfig:   "Invalid configuration",
	ErrReadConfig:      "Failed to read config file",
	ErrInvalidInterval: "Invalid interval value",
	ErrInvalidLogLevel: "Invalid log level",
	ErrInitFailed:      "Initialization failed",
	ErrShutdownFailed:  "Shutdown failed",
	ErrLinkUnavailable: "Serial link unavailable",
	ErrLinkClosed:      "Serial link closed",
	ErrWriteFailed:     "Failed to write to serial port",
	ErrShortWrite:      "Short write to serial port",
	ErrShortRead:       "Short read from serial port",
	ErrHandshake:       "Device handshake failed",
	ErrParseFailure:    "Failed to parse metric source",
	ErrNotReady:        "Data not ready",
	ErrUnknownProfile:  "Unknown profile",
	ErrEmptyProfile:    "Empty profile",
	ErrSelectorRead:    "Failed to read profile selector",
	ErrSelectorWrite:   "Failed to write profile selector",
	ErrOperationFailed: "Operation failed",
	ErrTimeout:         "Operation timed out",
}

// GetErrorMessage returns the message for a given error code
func GetErrorMessage(code ErrorCode) string {
	if msg, ok := errorMessages[code]; ok {
		return msg
	}

	return string(code)
}

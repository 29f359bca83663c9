package syscontrol

import (
	"errors"
	"fmt"
)

// Common errors returned by control-plane operations
var (
	// ErrGatewayUnreachable indicates the control gateway could not be
	// reached at the transport level (connect, DNS, or transport timeout)
	ErrGatewayUnreachable = errors.New("syscontrol: gateway unreachable")

	// ErrBackendRejected indicates the gateway answered with a non-2xx
	// status and, where available, a structured error body
	ErrBackendRejected = errors.New("syscontrol: backend rejected request")

	// ErrMalformedPayload indicates a response body could not be decoded
	ErrMalformedPayload = errors.New("syscontrol: malformed response payload")
)

// Operation identifies one of the uniform control verbs, used for error
// reporting and operation logging
type Operation int

const (
	// OpUnknown is the zero operation
	OpUnknown Operation = iota
	// OpStart brings a module up
	OpStart
	// OpStop brings a module down
	OpStop
	// OpRestart cycles a module
	OpRestart
	// OpStatus reads a module snapshot
	OpStatus
	// OpLogs fetches recent log lines
	OpLogs
	// OpUpdateConfig pushes new module configuration
	OpUpdateConfig
)

// String returns the verb name
func (op Operation) String() string {
	switch op {
	case OpStart:
		return "start"
	case OpStop:
		return "stop"
	case OpRestart:
		return "restart"
	case OpStatus:
		return "status"
	case OpLogs:
		return "logs"
	case OpUpdateConfig:
		return "update-config"
	default:
		return "unknown"
	}
}

// OpError represents a failed control operation against one module.
// It never crosses the SystemController boundary as an error value; the
// adapters flatten it into the relevant typed failure result.
type OpError struct {
	// Op is the operation that failed
	Op Operation
	// Module is the logical module name the operation targeted
	Module string
	// Err is the underlying error
	Err error
}

// Error returns a formatted error message
func (e *OpError) Error() string {
	return fmt.Sprintf("syscontrol %s %q: %v", e.Op.String(), e.Module, e.Err)
}

// Unwrap returns the underlying error for error chain inspection
func (e *OpError) Unwrap() error {
	return e.Err
}

package taskdef

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
)

// Sentinel errors for composition-root failures.
var (
	// ErrUnsupportedStorage indicates an unknown storage backend type.
	ErrUnsupportedStorage = errors.New("unsupported storage type")

	// ErrUnsupportedEncoding indicates an unknown value encoding.
	ErrUnsupportedEncoding = errors.New("unsupported encoding")
)

// Error kinds categorize errors by their type.
const (
	// KindConfiguration represents errors related to configuration.
	KindConfiguration = "configuration"

	// KindValidation represents configs that load but are incomplete.
	KindValidation = "validation"

	// KindStorage represents errors opening or using a storage backend.
	KindStorage = "storage"
)

// Error is a structured error that records the failed operation and the
// category of failure.
//
// Error supports unwrapping, so errors.Is and errors.As see the cause:
//
//	_, err := taskdef.New(taskdef.WithConfigFile("missing.yaml"))
//	if errors.Is(err, &taskdef.Error{Kind: taskdef.KindConfiguration}) {
//		// bad or missing configuration
//	}
type Error struct {
	// Op is the operation that failed (e.g., "taskdef.New").
	Op string

	// Kind categorizes the error (e.g., KindStorage).
	Kind string

	// Err is the underlying error that caused this error.
	Err error

	// Context holds extra debugging information (optional).
	Context map[string]any
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("taskdef: %s: %s", e.Op, e.Kind)
	}
	if len(e.Context) > 0 {
		return fmt.Sprintf("taskdef: %s (%s): %v [context: %+v]", e.Op, e.Kind, e.Err, e.Context)
	}
	return fmt.Sprintf("taskdef: %s (%s): %v", e.Op, e.Kind, e.Err)
}

// Unwrap returns the underlying error.
func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches an *Error target with the same Kind (and Op, when the target
// sets one), then falls back to the underlying error.
func (e *Error) Is(target error) bool {
	if target == nil {
		return false
	}
	if t, ok := target.(*Error); ok {
		if t.Kind != "" && e.Kind == t.Kind {
			if t.Op == "" || e.Op == t.Op {
				return true
			}
		}
	}
	return errors.Is(e.Err, target)
}

// WithContext returns a copy of e with ctx merged into its context.
func (e *Error) WithContext(ctx map[string]any) *Error {
	newErr := *e
	newErr.Context = make(map[string]any, len(e.Context)+len(ctx))
	for k, v := range e.Context {
		newErr.Context[k] = v
	}
	for k, v := range ctx {
		newErr.Context[k] = v
	}
	return &newErr
}

// NewConfigurationError creates an Error with KindConfiguration.
func NewConfigurationError(op string, err error) *Error {
	return &Error{Op: op, Kind: KindConfiguration, Err: err}
}

// NewValidationError creates an Error with KindValidation.
func NewValidationError(op string, err error) *Error {
	return &Error{Op: op, Kind: KindValidation, Err: err}
}

// NewStorageError creates an Error with KindStorage.
func NewStorageError(op string, err error) *Error {
	return &Error{Op: op, Kind: KindStorage, Err: err}
}

// CloseWithLog closes closer and logs a failure at warning level. A nil
// closer is ignored; a nil logger means slog.Default().
func CloseWithLog(closer io.Closer, logger *slog.Logger, name string) {
	if closer == nil {
		return
	}
	if logger == nil {
		logger = slog.Default()
	}
	if err := closer.Close(); err != nil {
		logger.Warn("failed to close resource",
			"resource", name,
			"error", err)
	}
}

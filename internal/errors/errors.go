package errors

import (
	"errors"
	"fmt"
	"strings"
)

// Standard application errors
var (
	ErrSourceEmpty     = errors.New("source document is empty")
	ErrInvalidYAML     = errors.New("invalid YAML document")
	ErrExpectedMapping = errors.New("expected a mapping")
	ErrNonStringKey    = errors.New("mapping key is not a string")
	ErrUnsupportedTag  = errors.New("unsupported tag")
	ErrExpansionArity  = errors.New("tag expansion must yield exactly one value outside a sequence")
	ErrInvalidConfig   = errors.New("invalid configuration")
	ErrInvalidFilePath = errors.New("invalid file path")
)

// ErrorType categorizes errors
type ErrorType string

const (
	ErrorTypeInput         ErrorType = "input"
	ErrorTypeConfig        ErrorType = "config"
	ErrorTypeParsing       ErrorType = "parsing"
	ErrorTypeShape         ErrorType = "shape"
	ErrorTypeKey           ErrorType = "key"
	ErrorTypeTag           ErrorType = "tag"
	ErrorTypeSerialization ErrorType = "serialization"
	ErrorTypeIO            ErrorType = "io"
)

// AppError is an application-specific error with context
type AppError struct {
	Type    ErrorType
	Message string
	Err     error
	// Path is the key path inside the source document where the error
	// surfaced, e.g. "data/tags/load.json/values[2]".
	Path string
	// Tag is set for ErrorTypeTag errors.
	Tag string
}

// Error implements error interface
func (e *AppError) Error() string {
	msg := fmt.Sprintf("%s: %s", e.Type, e.Message)
	if e.Path != "" {
		msg = fmt.Sprintf("%s (at %s)", msg, e.Path)
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return msg
}

// Unwrap returns wrapped error
func (e *AppError) Unwrap() error {
	return e.Err
}

// Is implements errors.Is for comparison
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	if !ok {
		return false
	}
	return e.Type == t.Type
}

// WithPath prepends segment to the key path of err when err is an *AppError.
// Segments starting with "[" are appended without a separator.
func WithPath(err error, segment string) error {
	var appErr *AppError
	if !errors.As(err, &appErr) || segment == "" {
		return err
	}
	switch {
	case appErr.Path == "":
		appErr.Path = segment
	case strings.HasPrefix(appErr.Path, "["):
		appErr.Path = segment + appErr.Path
	default:
		appErr.Path = segment + "/" + appErr.Path
	}
	return err
}

// NewInputError creates a new error related to locating or reading the source
func NewInputError(message string, err error) *AppError {
	return &AppError{
		Type:    ErrorTypeInput,
		Message: message,
		Err:     err,
	}
}

// NewConfigError creates a new error related to configuration loading
func NewConfigError(message string, err error) *AppError {
	return &AppError{
		Type:    ErrorTypeConfig,
		Message: message,
		Err:     err,
	}
}

// NewParsingError creates a new error for malformed source syntax
func NewParsingError(message string, err error) *AppError {
	return &AppError{
		Type:    ErrorTypeParsing,
		Message: message,
		Err:     err,
	}
}

// NewShapeError creates a new error for a value of the wrong kind
func NewShapeError(message string, err error) *AppError {
	return &AppError{
		Type:    ErrorTypeShape,
		Message: message,
		Err:     err,
	}
}

// NewKeyTypeError creates a new error for a non-string mapping key
func NewKeyTypeError(message string) *AppError {
	return &AppError{
		Type:    ErrorTypeKey,
		Message: message,
		Err:     ErrNonStringKey,
	}
}

// NewUnsupportedTagError creates a new error for a tag that has no expansion
func NewUnsupportedTagError(tag string) *AppError {
	return &AppError{
		Type:    ErrorTypeTag,
		Message: fmt.Sprintf("unexpected tag `!%s`", tag),
		Err:     ErrUnsupportedTag,
		Tag:     tag,
	}
}

// NewSerializationError creates a new error for output that cannot be encoded
func NewSerializationError(message string, err error) *AppError {
	return &AppError{
		Type:    ErrorTypeSerialization,
		Message: message,
		Err:     err,
	}
}

// NewIOError creates a new error for a failed filesystem operation
func NewIOError(message string, err error) *AppError {
	return &AppError{
		Type:    ErrorTypeIO,
		Message: message,
		Err:     err,
	}
}

// UserFriendlyError returns a user-friendly error message
func UserFriendlyError(err error) string {
	var appErr *AppError
	if errors.As(err, &appErr) {
		where := ""
		if appErr.Path != "" {
			where = fmt.Sprintf(" (at %s)", appErr.Path)
		}
		switch appErr.Type {
		case ErrorTypeInput:
			return fmt.Sprintf("Input error: %s%s", appErr.Message, where)
		case ErrorTypeConfig:
			return fmt.Sprintf("Configuration error: %s%s", appErr.Message, where)
		case ErrorTypeParsing:
			return fmt.Sprintf("YAML parsing error: %s%s", appErr.Message, where)
		case ErrorTypeShape:
			return fmt.Sprintf("Shape error: %s%s", appErr.Message, where)
		case ErrorTypeKey:
			return fmt.Sprintf("Key error: %s%s", appErr.Message, where)
		case ErrorTypeTag:
			return fmt.Sprintf("Tag error: %s%s", appErr.Message, where)
		case ErrorTypeSerialization:
			return fmt.Sprintf("Serialization error: %s%s", appErr.Message, where)
		case ErrorTypeIO:
			return fmt.Sprintf("I/O error: %s%s", appErr.Message, where)
		default:
			return fmt.Sprintf("Error: %s%s", appErr.Message, where)
		}
	}

	if errors.Is(err, ErrInvalidYAML) {
		return "Error: The source document contains invalid YAML. Please check its syntax."
	}
	if errors.Is(err, ErrInvalidConfig) {
		return "Error: The configuration file is invalid. Please check its values."
	}
	if errors.Is(err, ErrInvalidFilePath) {
		return "Error: Invalid file path. Please provide a valid file path."
	}

	return fmt.Sprintf("Error: %v", err)
}

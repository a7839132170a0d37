package errors

import (
	"fmt"
	"time"
)

// ErrorType represents the type of error
type ErrorType string

const (
	// ErrorTypeTransport represents page/API fetch failures
	ErrorTypeTransport ErrorType = "transport"
	// ErrorTypeParse represents markup parsing errors
	ErrorTypeParse ErrorType = "parse"
	// ErrorTypeRateLimit represents rate limiting errors
	ErrorTypeRateLimit ErrorType = "rate_limit"
	// ErrorTypeNotification represents message delivery errors
	ErrorTypeNotification ErrorType = "notification"
	// ErrorTypeStorage represents dedup/history storage errors
	ErrorTypeStorage ErrorType = "storage"
	// ErrorTypeConfiguration represents configuration errors
	ErrorTypeConfiguration ErrorType = "configuration"
)

// ScanError represents a pipeline-specific error
type ScanError struct {
	Type     ErrorType
	Category string
	Message  string
	Err      error
	Time     time.Time
}

// Error implements the error interface
func (e *ScanError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %s - %v", e.Type, e.Category, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s: %s", e.Type, e.Category, e.Message)
}

// Unwrap returns the underlying error
func (e *ScanError) Unwrap() error {
	return e.Err
}

// IsRetryable returns true if the error is worth retrying on a later cycle
func (e *ScanError) IsRetryable() bool {
	switch e.Type {
	case ErrorTypeTransport:
		return true
	case ErrorTypeRateLimit:
		return false
	case ErrorTypeParse:
		return false
	default:
		return false
	}
}

// New creates a new ScanError
func New(errType ErrorType, category, message string, err error) *ScanError {
	return &ScanError{
		Type:     errType,
		Category: category,
		Message:  message,
		Err:      err,
		Time:     time.Now(),
	}
}

// NewTransport creates a new transport error
func NewTransport(category, message string, err error) *ScanError {
	return New(ErrorTypeTransport, category, message, err)
}

// NewParse creates a new parse error
func NewParse(category, message string, err error) *ScanError {
	return New(ErrorTypeParse, category, message, err)
}

// NewRateLimit creates a new rate limit error
func NewRateLimit(category string, duration time.Duration) *ScanError {
	message := fmt.Sprintf("rate limited for %v", duration)
	return New(ErrorTypeRateLimit, category, message, nil)
}

// NewNotification creates a new notification delivery error
func NewNotification(category, message string, err error) *ScanError {
	return New(ErrorTypeNotification, category, message, err)
}

// NewStorage creates a new storage error
func NewStorage(category, message string, err error) *ScanError {
	return New(ErrorTypeStorage, category, message, err)
}

// NewConfiguration creates a new configuration error
func NewConfiguration(message string, err error) *ScanError {
	return New(ErrorTypeConfiguration, "", message, err)
}

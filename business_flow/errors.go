// Package businessflow contains the core business logic and use cases for the URL shortener.
package businessflow

import (
	"errors"
	"fmt"
)

// Business flow error constants
var (
	// Shorten-related errors
	ErrEmptyURL = errors.New("url cannot be empty")

	// Redirect-related errors
	ErrLinkNotFound = errors.New("short link not found")
	ErrLinkExpired  = errors.New("short link has expired")
)

type BusinessError struct {
	Code    string
	Message string
	Err     error
}

func (e *BusinessError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *BusinessError) Unwrap() error {
	return e.Err
}

func NewBusinessError(code, message string, err error) *BusinessError {
	return &BusinessError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

func IsEmptyURL(err error) bool {
	return errors.Is(err, ErrEmptyURL)
}

func IsLinkNotFound(err error) bool {
	return errors.Is(err, ErrLinkNotFound)
}

func IsLinkExpired(err error) bool {
	return errors.Is(err, ErrLinkExpired)
}

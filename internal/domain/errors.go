package domain

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrNotFound signals a missing resource.
	ErrNotFound = errors.New("not found")
	// ErrDuplicateUsername signals a registration with a taken username.
	ErrDuplicateUsername = errors.New("username exists")
	// ErrInvalidPassword signals a password rejected by the acceptance policy.
	ErrInvalidPassword = errors.New("invalid password")
	// ErrMissingCredentials signals a registration without username or password.
	ErrMissingCredentials = errors.New("username and password required")
	// ErrInvalidCredentials signals a failed login.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrInvalidUsername signals an empty or oversized username.
	ErrInvalidUsername = errors.New("invalid username")
	// ErrUnauthenticated signals a missing, expired or revoked session.
	ErrUnauthenticated = errors.New("unauthorized")
	// ErrForbidden signals a request acting on behalf of another user.
	ErrForbidden = errors.New("forbidden")
	// ErrInvalidProfile signals a malformed filter profile.
	ErrInvalidProfile = errors.New("invalid profile")
	// ErrInvalidReference signals feedback pointing at an unknown property.
	ErrInvalidReference = errors.New("invalid reference")
	// ErrInvalidFeedback signals an unknown feedback label.
	ErrInvalidFeedback = errors.New("invalid feedback")
	// ErrMissingColumns signals a CSV without the required headers.
	ErrMissingColumns = errors.New("CSV missing required columns")
	// ErrParse signals an undecodable CSV file or cell.
	ErrParse = errors.New("CSV parse error")
	// ErrEmptyFile signals an upload with no header or no data rows.
	ErrEmptyFile = errors.New("CSV file is empty")
	// ErrPayloadTooLarge signals an upload over the configured size limit.
	ErrPayloadTooLarge = errors.New("payload too large")
	// ErrStorage signals a failed database operation.
	ErrStorage = errors.New("storage error")
)

// PasswordPolicyError names the first password rule that failed.
type PasswordPolicyError struct {
	Rule string
}

func (e *PasswordPolicyError) Error() string { return e.Rule }

func (e *PasswordPolicyError) Unwrap() error { return ErrInvalidPassword }

// MissingColumnsError lists the required CSV headers absent from an upload.
type MissingColumnsError struct {
	Columns []string
}

func (e *MissingColumnsError) Error() string {
	return fmt.Sprintf("%s: %s", ErrMissingColumns.Error(), strings.Join(e.Columns, ", "))
}

func (e *MissingColumnsError) Unwrap() error { return ErrMissingColumns }

// ParseError locates an invalid CSV cell. Line is 1-based and counts the header.
type ParseError struct {
	Line   int
	Column string
	Err    error
}

func (e *ParseError) Error() string {
	if e.Column == "" {
		return fmt.Sprintf("%s: line %d: %v", ErrParse.Error(), e.Line, e.Err)
	}
	return fmt.Sprintf("%s: line %d, column %q: %v", ErrParse.Error(), e.Line, e.Column, e.Err)
}

func (e *ParseError) Unwrap() []error { return []error{ErrParse, e.Err} }

// StorageError wraps a failed database operation. The transaction it ran in has rolled back.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string { return fmt.Sprintf("%s: %v", e.Op, e.Err) }

func (e *StorageError) Unwrap() []error { return []error{ErrStorage, e.Err} }

// Package errors provides custom error types for contactsync.
// These errors enable programmatic error checking at the scope where a
// failure is handled: the run, one target user, or one batched operation.
package errors

import (
	"errors"
	"fmt"
)

// New returns an error that formats as the given text.
// It's an alias for the standard library errors.New for convenience.
var New = errors.New

// Is and As forward to the standard library for callers that import this
// package under the name errors.
var (
	Is = errors.Is
	As = errors.As
)

// Common sentinel errors.
var (
	// ErrNotFound indicates that a requested record was not found.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates that provided input was invalid.
	ErrInvalidInput = errors.New("invalid input")

	// ErrNothingToDo indicates that the selection matched no resources or
	// no users. The run stops without error.
	ErrNothingToDo = errors.New("nothing to do")

	// ErrGroupDiscovery indicates that the managed group could not be found
	// or created for a user.
	ErrGroupDiscovery = errors.New("managed group unavailable")

	// ErrBatchItem indicates that a batched operation was rejected.
	ErrBatchItem = errors.New("batch operation failed")

	// ErrOptOutFormat indicates an opt-out document in an unsupported format.
	ErrOptOutFormat = errors.New("unsupported opt-out format")

	// ErrRateLimited indicates that the API rate limit has been exceeded.
	ErrRateLimited = errors.New("rate limited")

	// ErrProviderUnavailable indicates that a provider is temporarily unavailable.
	ErrProviderUnavailable = errors.New("provider unavailable")
)

// NotFoundError represents an error when a record is not found.
type NotFoundError struct {
	Resource string
	ID       string
}

// Error implements the error interface
func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s with ID %s not found", e.Resource, e.ID)
}

// Is implements errors.Is support
func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}

// NewNotFoundError creates a new NotFoundError
func NewNotFoundError(resource, id string) *NotFoundError {
	return &NotFoundError{Resource: resource, ID: id}
}

// ValidationError represents a validation failure
type ValidationError struct {
	Field   string
	Value   interface{}
	Message string
}

// Error implements the error interface
func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("validation failed for field %s: %s", e.Field, e.Message)
	}
	return fmt.Sprintf("validation failed: %s", e.Message)
}

// Is implements errors.Is support
func (e *ValidationError) Is(target error) bool {
	return target == ErrInvalidInput
}

// NewValidationError creates a new ValidationError
func NewValidationError(field string, value interface{}, message string) *ValidationError {
	return &ValidationError{Field: field, Value: value, Message: message}
}

// APIError represents an error returned by a directory or contacts API.
type APIError struct {
	Provider   string
	StatusCode int
	Message    string
	Endpoint   string
	Err        error
}

// Error implements the error interface
func (e *APIError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("API error from %s (status %d): %s", e.Provider, e.StatusCode, e.Message)
	}
	return fmt.Sprintf("API error from %s: %s", e.Provider, e.Message)
}

// Unwrap implements errors.Unwrap
func (e *APIError) Unwrap() error {
	return e.Err
}

// Is implements errors.Is support
func (e *APIError) Is(target error) bool {
	if e.StatusCode == 429 {
		return target == ErrRateLimited
	}
	if e.StatusCode >= 500 {
		return target == ErrProviderUnavailable
	}
	return false
}

// NewAPIError creates a new APIError
func NewAPIError(provider string, statusCode int, message string) *APIError {
	return &APIError{
		Provider:   provider,
		StatusCode: statusCode,
		Message:    message,
	}
}

// ConfigError represents a configuration error
type ConfigError struct {
	Component string
	Message   string
	Err       error
}

// Error implements the error interface
func (e *ConfigError) Error() string {
	if e.Component != "" {
		return fmt.Sprintf("configuration error in %s: %s", e.Component, e.Message)
	}
	return fmt.Sprintf("configuration error: %s", e.Message)
}

// Unwrap implements errors.Unwrap
func (e *ConfigError) Unwrap() error {
	return e.Err
}

// NewConfigError creates a new ConfigError
func NewConfigError(component, message string, err error) *ConfigError {
	return &ConfigError{
		Component: component,
		Message:   message,
		Err:       err,
	}
}

// GroupDiscoveryError aborts the processing of a single user: the managed
// group could neither be found nor created, so no contact may be touched.
type GroupDiscoveryError struct {
	User  string
	Group string
	Err   error
}

// Error implements the error interface
func (e *GroupDiscoveryError) Error() string {
	return fmt.Sprintf("managed group %q for %s: %v", e.Group, e.User, e.Err)
}

// Unwrap implements errors.Unwrap
func (e *GroupDiscoveryError) Unwrap() error {
	return e.Err
}

// Is implements errors.Is support
func (e *GroupDiscoveryError) Is(target error) bool {
	return target == ErrGroupDiscovery
}

// NewGroupDiscoveryError creates a new GroupDiscoveryError
func NewGroupDiscoveryError(user, group string, err error) *GroupDiscoveryError {
	return &GroupDiscoveryError{User: user, Group: group, Err: err}
}

// BatchItemError records one rejected batched operation. It never aborts a run.
type BatchItemError struct {
	User      string
	BatchID   string
	Operation string
	Status    int
	Reason    string
	Name      string // display name of the affected contact, when known
}

// Error implements the error interface
func (e *BatchItemError) Error() string {
	name := e.Name
	if name == "" {
		name = "name unknown"
	}
	return fmt.Sprintf("error %d (%s) while %s'ing batch ID %s (%s)", e.Status, e.Reason, e.Operation, e.BatchID, name)
}

// Is implements errors.Is support
func (e *BatchItemError) Is(target error) bool {
	return target == ErrBatchItem
}

// OptOutFormatError reports an opt-out document that lacks the expected keys.
// Proceeding without the opt-out list could touch opted-out users, so the
// whole run fails.
type OptOutFormatError struct {
	Source  string
	Message string
	Err     error
}

// Error implements the error interface
func (e *OptOutFormatError) Error() string {
	if e.Source != "" {
		return fmt.Sprintf("could not understand opt-out data from %s: %s", e.Source, e.Message)
	}
	return fmt.Sprintf("could not understand opt-out data: %s", e.Message)
}

// Unwrap implements errors.Unwrap
func (e *OptOutFormatError) Unwrap() error {
	return e.Err
}

// Is implements errors.Is support
func (e *OptOutFormatError) Is(target error) bool {
	return target == ErrOptOutFormat
}

// Helper functions for error checking

// IsNotFound checks if an error is a not found error
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsValidationError checks if an error is a validation error
func IsValidationError(err error) bool {
	return errors.Is(err, ErrInvalidInput)
}

// IsNothingToDo checks if an error signals an empty selection.
func IsNothingToDo(err error) bool {
	return errors.Is(err, ErrNothingToDo)
}

// IsRateLimited checks if an error is a rate limit error
func IsRateLimited(err error) bool {
	return errors.Is(err, ErrRateLimited)
}

// IsProviderUnavailable checks if an error indicates provider unavailability
func IsProviderUnavailable(err error) bool {
	return errors.Is(err, ErrProviderUnavailable)
}

// ParseError represents an error when parsing data formats
type ParseError struct {
	Format  string // "json", "yaml"
	File    string
	Message string
	Err     error
}

// Error implements the error interface
func (e *ParseError) Error() string {
	if e.File != "" {
		return fmt.Sprintf("parse error in %s file %s: %s", e.Format, e.File, e.Message)
	}
	return fmt.Sprintf("%s parse error: %s", e.Format, e.Message)
}

// Unwrap implements errors.Unwrap
func (e *ParseError) Unwrap() error {
	return e.Err
}

// NewParseError creates a new ParseError
func NewParseError(format, file string, message string, err error) *ParseError {
	return &ParseError{
		Format:  format,
		File:    file,
		Message: message,
		Err:     err,
	}
}

// IOError represents an error during I/O operations
type IOError struct {
	Operation string // "read", "write", "open", "fetch"
	Path      string
	Message   string
	Err       error
}

// Error implements the error interface
func (e *IOError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("IO error during %s of %s: %s", e.Operation, e.Path, e.Message)
	}
	return fmt.Sprintf("IO error during %s: %s", e.Operation, e.Message)
}

// Unwrap implements errors.Unwrap
func (e *IOError) Unwrap() error {
	return e.Err
}

// NewIOError creates a new IOError
func NewIOError(operation, path string, err error) *IOError {
	message := ""
	if err != nil {
		message = err.Error()
	}
	return &IOError{
		Operation: operation,
		Path:      path,
		Message:   message,
		Err:       err,
	}
}

// ResourceError represents a failed operation on a provider record.
type ResourceError struct {
	Operation string // "list", "create", "update", "delete"
	Resource  string // "contact", "group", "resources", "users"
	ID        string
	Message   string
	Err       error
}

// Error implements the error interface
func (e *ResourceError) Error() string {
	if e.ID != "" {
		return fmt.Sprintf("failed to %s %s %s: %s", e.Operation, e.Resource, e.ID, e.Message)
	}
	return fmt.Sprintf("failed to %s %s: %s", e.Operation, e.Resource, e.Message)
}

// Unwrap implements errors.Unwrap
func (e *ResourceError) Unwrap() error {
	return e.Err
}

// NewResourceError creates a new ResourceError
func NewResourceError(operation, resource, id string, err error) *ResourceError {
	message := ""
	if err != nil {
		message = err.Error()
	}
	return &ResourceError{
		Operation: operation,
		Resource:  resource,
		ID:        id,
		Message:   message,
		Err:       err,
	}
}

// Helper wrapping functions for common patterns

// WrapValidation wraps an error as a ValidationError
func WrapValidation(field string, err error) error {
	if err == nil {
		return nil
	}
	return &ValidationError{Field: field, Message: err.Error()}
}

// WrapIO wraps an error as an IOError
func WrapIO(operation, path string, err error) error {
	if err == nil {
		return nil
	}
	return NewIOError(operation, path, err)
}

// WrapResource wraps an error as a ResourceError
func WrapResource(operation, resource, id string, err error) error {
	if err == nil {
		return nil
	}
	return NewResourceError(operation, resource, id, err)
}

// WrapParse wraps an error as a ParseError
func WrapParse(format, file string, err error) error {
	if err == nil {
		return nil
	}
	return NewParseError(format, file, err.Error(), err)
}

// WrapAPI wraps an error as an APIError
func WrapAPI(provider string, statusCode int, err error) error {
	if err == nil {
		return nil
	}
	return &APIError{
		Provider:   provider,
		StatusCode: statusCode,
		Message:    err.Error(),
		Err:        err,
	}
}

// Package apperr defines the error taxonomy shared by the use-case, storage
// and transport layers.
package apperr

import (
	"errors"
	"fmt"
	"strings"
)

// FieldError is one failed constraint on an input field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError reports malformed input before it reaches a repository.
type ValidationError struct {
	Message string       `json:"message"`
	Fields  []FieldError `json:"fields,omitempty"`
}

func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		return e.Message
	}
	parts := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		parts = append(parts, f.Field+": "+f.Message)
	}
	if e.Message == "" {
		return strings.Join(parts, "; ")
	}
	return e.Message + ": " + strings.Join(parts, "; ")
}

func NewValidation(msg string) *ValidationError {
	return &ValidationError{Message: msg}
}

// NotFoundError is returned for operations on an id that does not exist.
type NotFoundError struct {
	Entity string
	ID     string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s not found: %s", e.Entity, e.ID)
}

func NewNotFound(entity, id string) *NotFoundError {
	return &NotFoundError{Entity: entity, ID: id}
}

// AlreadyConvertedError is returned when converting a lead that is already Converted.
type AlreadyConvertedError struct {
	LeadID string
}

func (e *AlreadyConvertedError) Error() string {
	return fmt.Sprintf("lead %s is already converted", e.LeadID)
}

type StorageCode string

const (
	CodeEmptyData    StorageCode = "EMPTY_DATA"
	CodeExportFailed StorageCode = "EXPORT_FAILED"
	CodeReadFailed   StorageCode = "READ_FAILED"
	CodeWriteFailed  StorageCode = "WRITE_FAILED"
)

// StorageError wraps serialization and persistence failures.
type StorageError struct {
	Code StorageCode
	Op   string
	Err  error
}

func (e *StorageError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("storage %s: %s", e.Code, e.Op)
	}
	return fmt.Sprintf("storage %s: %s: %v", e.Code, e.Op, e.Err)
}

func (e *StorageError) Unwrap() error { return e.Err }

func NewStorage(code StorageCode, op string, err error) *StorageError {
	return &StorageError{Code: code, Op: op, Err: err}
}

func IsValidation(err error) bool {
	var v *ValidationError
	return errors.As(err, &v)
}

func IsNotFound(err error) bool {
	var v *NotFoundError
	return errors.As(err, &v)
}

func IsAlreadyConverted(err error) bool {
	var v *AlreadyConvertedError
	return errors.As(err, &v)
}

// StorageCodeOf returns the storage code carried by err, if any.
func StorageCodeOf(err error) (StorageCode, bool) {
	var v *StorageError
	if errors.As(err, &v) {
		return v.Code, true
	}
	return "", false
}

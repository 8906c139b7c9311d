package core

import (
	"fmt"
	"strings"

	"github.com/pkg/errors"
)

// FieldError is used to indicate an error with a specific struct field.
type FieldError struct {
	Field string
	Error string
}

type ValidationError struct {
	Err    error
	Fields []FieldError
}

func NewValidationError(err error, flds ...FieldError) error {
	return &ValidationError{err, flds}
}

func (err ValidationError) Error() string {
	if err.Err == nil {
		return ""
	}
	return err.Err.Error()
}

// InvalidInputError reports a value that cannot be interpreted, eg. a non-numeric credit count.
type InvalidInputError struct {
	Value  interface{}
	Reason string
}

func NewInvalidInputError(value interface{}, reason string) error {
	return &InvalidInputError{Value: value, Reason: reason}
}

func (err InvalidInputError) Error() string {
	return fmt.Sprintf("invalid input %#v: %s", err.Value, err.Reason)
}

// InvalidCategoryError reports a value outside the fixed vocabulary of a categorical column.
type InvalidCategoryError struct {
	Column     string
	Row        int
	Value      string
	Categories []string
}

func NewInvalidCategoryError(column string, row int, value string, categories []string) error {
	return &InvalidCategoryError{Column: column, Row: row, Value: value, Categories: categories}
}

func (err InvalidCategoryError) Error() string {
	return fmt.Sprintf("column %q row %d: %q is not one of [%s]",
		err.Column, err.Row, err.Value, strings.Join(err.Categories, ", "))
}

// MissingColumnError reports a column absent from a table. Suggestion holds the closest existing column, if any.
type MissingColumnError struct {
	Column     string
	Suggestion string
}

func NewMissingColumnError(column, suggestion string) error {
	return &MissingColumnError{Column: column, Suggestion: suggestion}
}

func (err MissingColumnError) Error() string {
	if err.Suggestion != "" {
		return fmt.Sprintf("column %q not found (did you mean %q?)", err.Column, err.Suggestion)
	}
	return fmt.Sprintf("column %q not found", err.Column)
}

// DataSourceError wraps any connection, authentication or query failure of the student records database.
type DataSourceError struct {
	Op  string
	Err error
}

func NewDataSourceError(op string, err error) error {
	return &DataSourceError{Op: op, Err: err}
}

func (err DataSourceError) Error() string {
	return "sad: " + err.Op + ": " + err.Err.Error()
}

func (err DataSourceError) Cause() error  { return err.Err }
func (err DataSourceError) Unwrap() error { return err.Err }

func IsInvalidInput(err error) bool {
	var target *InvalidInputError
	return errors.As(err, &target)
}

func IsInvalidCategory(err error) bool {
	var target *InvalidCategoryError
	return errors.As(err, &target)
}

func IsMissingColumn(err error) bool {
	var target *MissingColumnError
	return errors.As(err, &target)
}

func IsDataSource(err error) bool {
	var target *DataSourceError
	return errors.As(err, &target)
}

func IsValidation(err error) bool {
	var target *ValidationError
	return errors.As(err, &target)
}

package models

import "fmt"

// SchemaError reports a dataset that cannot be analysed at all: a required
// column is missing, or a field required for every record cannot be resolved.
// Row is -1 when the error concerns the whole dataset rather than one record.
type SchemaError struct {
	Field   string
	Row     int
	Message string
}

func (e *SchemaError) Error() string {
	if e.Row >= 0 {
		return fmt.Sprintf("schema error: %s (field %q, row %d)", e.Message, e.Field, e.Row)
	}
	return fmt.Sprintf("schema error: %s (field %q)", e.Message, e.Field)
}

// IsTransient returns false as schema errors are permanent
func (e *SchemaError) IsTransient() bool {
	return false
}

// UnknownViewError reports a view identifier outside the fixed view set.
type UnknownViewError struct {
	View string
}

func (e *UnknownViewError) Error() string {
	return fmt.Sprintf("unknown view: %q", e.View)
}

// IsTransient returns false as an unknown view is a configuration error
func (e *UnknownViewError) IsTransient() bool {
	return false
}

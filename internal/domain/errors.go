package domain

import (
	"fmt"
	"strings"
)

// InvalidParameterError reports a caller-supplied parameter outside its
// contract, e.g. a sampling fraction of zero. Nothing is computed when one is
// returned.
type InvalidParameterError struct {
	Param  string
	Reason string
}

func (e *InvalidParameterError) Error() string {
	return fmt.Sprintf("invalid parameter %q: %s", e.Param, e.Reason)
}

// SchemaError reports required fields missing from the input dataset. It is
// fatal: unlike row-level issues, a structural hole means no subset of the
// data can be trusted.
type SchemaError struct {
	Missing []string
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("dataset schema is missing required fields: %s", strings.Join(e.Missing, ", "))
}

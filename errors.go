package site

import "fmt"

// ValidationError reports a missing or malformed input field. The caller is
// expected to correct the submission and retry.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// ConflictError reports a uniqueness violation, currently only duplicate slugs.
type ConflictError struct {
	Resource string
	Value    string
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("%s %q already exists", e.Resource, e.Value)
}

// NotFoundError reports a referenced record or file that does not exist.
type NotFoundError struct {
	Resource string
	ID       int64
	Name     string
}

func (e *NotFoundError) Error() string {
	if e.Name != "" {
		return fmt.Sprintf("%s %q not found", e.Resource, e.Name)
	}
	return fmt.Sprintf("%s %d not found", e.Resource, e.ID)
}

// BadRequestError reports a structurally invalid payload, such as a reorder
// batch that is not a list of {id, order} objects or an upload without a file.
type BadRequestError struct {
	Reason string
}

func (e *BadRequestError) Error() string {
	return e.Reason
}

// ServerError wraps a storage or I/O failure.
type ServerError struct {
	Op  string
	Err error
}

func (e *ServerError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *ServerError) Unwrap() error {
	return e.Err
}

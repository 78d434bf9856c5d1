package service

import "fmt"

// DuplicateError means the report file was ingested before. Callers treat it
// as a skip, not a failure.
type DuplicateError struct {
	FileName string
}

func (e *DuplicateError) Error() string {
	return fmt.Sprintf("report %s already ingested", e.FileName)
}

// ValidationError means the file produced nothing indexable.
type ValidationError struct {
	FileName string
	Reason   string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("report %s: %s", e.FileName, e.Reason)
}

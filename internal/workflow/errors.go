package workflow

import "fmt"

// InsertError aborts the load phase. ID names the record that failed.
type InsertError struct {
	ID  string
	Err error
}

func (e *InsertError) Error() string {
	return fmt.Sprintf("insert %s: %v", e.ID, e.Err)
}

func (e *InsertError) Unwrap() error { return e.Err }

// SearchError aborts the query phase.
type SearchError struct {
	Err error
}

func (e *SearchError) Error() string {
	return fmt.Sprintf("search: %v", e.Err)
}

func (e *SearchError) Unwrap() error { return e.Err }

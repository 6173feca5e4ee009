package services

import (
	"errors"
	"fmt"
)

// ErrInvalidDataset means the dataset identifier extracted from the
// caller's input was empty; the run aborts before any fetch.
var ErrInvalidDataset = errors.New("dataset identifier is empty")

// FetchError wraps a table-provider failure with the table it came from.
// The provider's own message stays visible through Unwrap.
type FetchError struct {
	Table string
	Err   error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("fetch table %q: %v", e.Table, e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

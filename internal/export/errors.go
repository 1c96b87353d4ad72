package export

import (
	"errors"
	"fmt"
)

// ErrNoData is returned when there is nothing to write.
var ErrNoData = errors.New("no CSV data generated")

// IOFailure wraps a filesystem error raised while persisting an export.
type IOFailure struct {
	Op   string
	Path string
	Err  error
}

func (e *IOFailure) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

func (e *IOFailure) Unwrap() error {
	return e.Err
}

package supertag

import (
	"errors"
	"fmt"
)

// ErrOutOfRange is returned when a category index falls outside the
// inventory's [0, Size()) range. It signals a caller bug, not bad data.
var ErrOutOfRange = errors.New("category index out of range")

// ErrEmptyInput is returned (wrapped in a PredictionError) when Predict is
// called with an empty token sequence.
var ErrEmptyInput = errors.New("empty token sequence")

// LoadError reports a failure while loading model resources. It is only
// produced during construction; a tagger that constructed successfully
// never raises it again.
type LoadError struct {
	Path string
	Err  error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("load %s: %v", e.Path, e.Err)
}

func (e *LoadError) Unwrap() error { return e.Err }

// PredictionError reports invalid input to a single Predict call. The
// tagger remains usable for subsequent calls.
type PredictionError struct {
	Err error
}

func (e *PredictionError) Error() string {
	return fmt.Sprintf("predict: %v", e.Err)
}

func (e *PredictionError) Unwrap() error { return e.Err }

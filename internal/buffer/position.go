package buffer

import (
	"errors"
	"fmt"
)

// Position addresses a grapheme column within a row. Both fields may equal
// the relevant length to denote an append point.
type Position struct {
	Col int
	Row int
}

type Direction int

const (
	Forward Direction = iota
	Backward
)

func (d Direction) String() string {
	switch d {
	case Forward:
		return "forward"
	case Backward:
		return "backward"
	}
	return fmt.Sprintf("Direction(%d)", int(d))
}

// ErrNoFileName is wrapped by the IOError returned when saving a document
// that was never associated with a file.
var ErrNoFileName = errors.New("no file name")

// IOError records a failed file operation on a document.
type IOError struct {
	Op   string
	Path string
	Err  error
}

func (e *IOError) Error() string {
	if e.Path == "" {
		return "buffer: " + e.Op + ": " + e.Err.Error()
	}
	return "buffer: " + e.Op + " " + e.Path + ": " + e.Err.Error()
}

func (e *IOError) Unwrap() error { return e.Err }

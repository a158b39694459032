package model

import (
	"errors"
	"fmt"
)

// ErrorKind classifies the local, non-retryable failures raised while
// building rectangles or querying rectangle collections.
type ErrorKind int

const (
	KindDimension       ErrorKind = iota + 1 // Zero width or height
	KindBounds                               // Corner arithmetic overflows the coordinate range
	KindInvalidID                            // Reserved id used where a real identity is required
	KindDuplicateID                          // Two rectangles share an id
	KindIndexOutOfRange                      // Positional access at or beyond the collection size
)

func (k ErrorKind) String() string {
	switch k {
	case KindDimension:
		return "dimension"
	case KindBounds:
		return "bounds"
	case KindInvalidID:
		return "invalid id"
	case KindDuplicateID:
		return "duplicate id"
	case KindIndexOutOfRange:
		return "index out of range"
	default:
		return "unknown"
	}
}

// Sentinel errors, one per kind. An *Error matches its kind's sentinel
// under errors.Is.
var (
	ErrDimension       = errors.New("rectangle width and height must be > 0")
	ErrBounds          = errors.New("rectangle exceeds coordinate bounds")
	ErrInvalidID       = errors.New("rectangle ids must be > 0")
	ErrDuplicateID     = errors.New("duplicate rectangle id")
	ErrIndexOutOfRange = errors.New("index out of range")
)

// Error carries the structured payload of a failure. Only the fields that
// make sense for Kind are set.
type Error struct {
	Kind  ErrorKind
	ID    ID     // Offending id (KindInvalidID, KindDuplicateID)
	Index int    // Requested index (KindIndexOutOfRange)
	Size  int    // Collection size at the time of the request (KindIndexOutOfRange)
	Axis  string // "X" or "Y" (KindBounds)
}

func (e *Error) Error() string {
	switch e.Kind {
	case KindDimension:
		return ErrDimension.Error()
	case KindBounds:
		return fmt.Sprintf("rectangle exceeds coordinate %s bounds", e.Axis)
	case KindInvalidID:
		if e.ID == IDUndefined {
			return "rectangle id is undefined"
		}
		return ErrInvalidID.Error()
	case KindDuplicateID:
		return fmt.Sprintf("duplicate ID: %d", e.ID)
	case KindIndexOutOfRange:
		return fmt.Sprintf("index %d out of range [0, %d)", e.Index, e.Size)
	default:
		return "unknown rectangle error"
	}
}

// Is reports whether target is the sentinel for e's kind.
func (e *Error) Is(target error) bool {
	return kindSentinel(e.Kind) == target
}

func kindSentinel(k ErrorKind) error {
	switch k {
	case KindDimension:
		return ErrDimension
	case KindBounds:
		return ErrBounds
	case KindInvalidID:
		return ErrInvalidID
	case KindDuplicateID:
		return ErrDuplicateID
	case KindIndexOutOfRange:
		return ErrIndexOutOfRange
	}
	return nil
}

// IndexError builds a KindIndexOutOfRange error.
func IndexError(index, size int) error {
	return &Error{Kind: KindIndexOutOfRange, Index: index, Size: size}
}

// DuplicateIDError builds a KindDuplicateID error naming id.
func DuplicateIDError(id ID) error {
	return &Error{Kind: KindDuplicateID, ID: id}
}

package editor

import (
	"errors"
	"fmt"
)

var (
	// ErrStructuralConflict is returned when a command would place a node
	// where its container's content rule forbids it.
	ErrStructuralConflict = errors.New("structural conflict")
	ErrInvalidRange       = errors.New("invalid range")
	ErrInvalidPath        = errors.New("invalid path")
	ErrUnknownType        = errors.New("unknown type")
	// ErrNoChange signals a command that had nothing to do; callers keep
	// their current document.
	ErrNoChange     = errors.New("no change")
	ErrEmptyPalette = errors.New("no slash command selected")
)

// ConflictError describes a rejected placement.
type ConflictError struct {
	Node      string
	Container string
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("structural conflict: %q cannot be placed inside %q", e.Node, e.Container)
}

func (e *ConflictError) Is(target error) bool { return target == ErrStructuralConflict }

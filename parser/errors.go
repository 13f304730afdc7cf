package parser

import (
	"fmt"

	"github.com/pkg/errors"
)

var (
	// No pattern in the classifier matched the line.
	ErrUnrecognizedLine = errors.New("Unrecognized line")

	// The grammar does not allow the transition.
	ErrIllegalTransition = errors.New("Illegal transition")

	// The entity stack does not hold the expected kind of entity.
	ErrStructuralMismatch = errors.New("Structural mismatch")

	// Two size figures disagree or a byte run would be reassigned.
	ErrGeometry = errors.New("Geometry inconsistency")

	// A recognized line shape that we do not know how to model in
	// this position.
	ErrUnimplemented = errors.New("Not implemented")
)

// ParseError carries the report position of any failure.
type ParseError struct {
	LineNo int
	Line   string
	Err    error
}

func (self *ParseError) Error() string {
	return fmt.Sprintf("line %d: %v: %q", self.LineNo, self.Err, self.Line)
}

func (self *ParseError) Unwrap() error {
	return self.Err
}

func (self *ParseError) Cause() error {
	return self.Err
}

package model

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidDefault matches every *InvalidDefaultError via errors.Is.
	ErrInvalidDefault = errors.New("model: invalid default")
	// ErrDuplicateIdentifier matches every *DuplicateIdentifierError.
	ErrDuplicateIdentifier = errors.New("model: duplicate identifier")
	// ErrUnknownIdentifier matches every *UnknownIdentifierError.
	ErrUnknownIdentifier = errors.New("model: unknown identifier")
	// ErrConstraintViolation matches every *ConstraintViolationError.
	ErrConstraintViolation = errors.New("model: constraint violation")

	// ErrNestedForm is returned when a form section contains another form.
	ErrNestedForm = errors.New("model: forms cannot be nested")
	// ErrSubmitOutsideForm is returned for submit buttons placed outside a form.
	ErrSubmitOutsideForm = errors.New("model: submit button must live inside a form")
	// ErrFormWithoutSubmit is returned for form sections lacking a submit button.
	ErrFormWithoutSubmit = errors.New("model: form requires a submit button")
	// ErrReservedIdentifier is returned for nodes named after a rule or
	// template helper.
	ErrReservedIdentifier = errors.New("model: identifier is reserved")
)

// InvalidDefaultError reports a descriptor whose default value does not match
// its kind or violates its constraints.
type InvalidDefaultError struct {
	ID     string
	Kind   WidgetKind
	Reason error
}

func (e *InvalidDefaultError) Error() string {
	return fmt.Sprintf("model: widget %q (%s): invalid default: %v", e.ID, e.Kind, e.Reason)
}

func (e *InvalidDefaultError) Unwrap() error { return e.Reason }

func (e *InvalidDefaultError) Is(target error) bool { return target == ErrInvalidDefault }

// DuplicateIdentifierError reports an identifier used more than once inside a
// single tree.
type DuplicateIdentifierError struct {
	ID string
}

func (e *DuplicateIdentifierError) Error() string {
	return fmt.Sprintf("model: identifier %q is used more than once", e.ID)
}

func (e *DuplicateIdentifierError) Is(target error) bool { return target == ErrDuplicateIdentifier }

// UnknownIdentifierError reports a lookup for an identifier absent from the
// catalog, or one that does not name the expected node type.
type UnknownIdentifierError struct {
	ID     string
	Expect string
}

func (e *UnknownIdentifierError) Error() string {
	if e.Expect != "" {
		return fmt.Sprintf("model: identifier %q does not name a %s", e.ID, e.Expect)
	}
	return fmt.Sprintf("model: unknown identifier %q", e.ID)
}

func (e *UnknownIdentifierError) Is(target error) bool { return target == ErrUnknownIdentifier }

// ConstraintViolationError reports a value rejected by a descriptor.
type ConstraintViolationError struct {
	ID     string
	Kind   WidgetKind
	Value  any
	Reason error
}

func (e *ConstraintViolationError) Error() string {
	return fmt.Sprintf("model: widget %q (%s): value %v rejected: %v", e.ID, e.Kind, e.Value, e.Reason)
}

func (e *ConstraintViolationError) Unwrap() error { return e.Reason }

func (e *ConstraintViolationError) Is(target error) bool { return target == ErrConstraintViolation }

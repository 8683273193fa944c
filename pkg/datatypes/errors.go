package datatypes

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidLiteral reports a malformed or out-of-range lexical form.
	ErrInvalidLiteral = errors.New("invalid literal")
	// ErrDivideByZero reports division by zero on an exact datatype.
	ErrDivideByZero = errors.New("division by zero")
	// ErrOverOrUnderFlow reports an arithmetic result outside the datatype range.
	ErrOverOrUnderFlow = errors.New("numeric overflow or underflow")
	// ErrInvalidValueForCast reports a value that does not satisfy the target datatype.
	ErrInvalidValueForCast = errors.New("invalid value for cast")
	// ErrUnsupportedOperation reports a capability the datatype does not have.
	ErrUnsupportedOperation = errors.New("operation not supported by datatype")
	// ErrFixedDatatype reports an attempt to re-register a fixed datatype at runtime.
	ErrFixedDatatype = errors.New("datatype is fixed")
)

// InvalidLiteralError carries the details of a rejected lexical form.
type InvalidLiteralError struct {
	Datatype string
	Lexical  string
	Reason   string
}

func (e *InvalidLiteralError) Error() string {
	return fmt.Sprintf("invalid literal %q for datatype <%s>: %s", e.Lexical, e.Datatype, e.Reason)
}

// Unwrap makes errors.Is(err, ErrInvalidLiteral) hold.
func (e *InvalidLiteralError) Unwrap() error {
	return ErrInvalidLiteral
}

func invalidLiteral(iri, lexical, format string, args ...any) error {
	return &InvalidLiteralError{
		Datatype: iri,
		Lexical:  lexical,
		Reason:   fmt.Sprintf(format, args...),
	}
}

func invalidValue(iri, lexical, format string, args ...any) error {
	return fmt.Errorf("%w: %q is not a value of <%s>: %s", ErrInvalidValueForCast, lexical, iri, fmt.Sprintf(format, args...))
}

func wrongValueType(iri string, v Value) error {
	return fmt.Errorf("%w: %T is not a value of <%s>", ErrInvalidValueForCast, v, iri)
}

// Ordering is the outcome of comparing two values under a partial order.
type Ordering int8

const (
	// Less means the first operand orders before the second.
	Less Ordering = -1
	// Equal means the operands are equal in value.
	Equal Ordering = 0
	// Greater means the first operand orders after the second.
	Greater Ordering = 1
	// Incomparable means the order does not relate the operands.
	Incomparable Ordering = 2
)

func (o Ordering) String() string {
	switch o {
	case Less:
		return "less"
	case Equal:
		return "equal"
	case Greater:
		return "greater"
	default:
		return "incomparable"
	}
}

func orderingOf(c int) Ordering {
	switch {
	case c < 0:
		return Less
	case c > 0:
		return Greater
	default:
		return Equal
	}
}

package domain

import "errors"

var (
	// ErrCollectionNotFound signals a query against an unknown collection.
	ErrCollectionNotFound = errors.New("collection not found")
	// ErrCollectionExists signals a duplicate collection name.
	ErrCollectionExists = errors.New("collection already exists")
	// ErrInvalidName signals a malformed collection name.
	ErrInvalidName = errors.New("invalid collection name")

	// ErrUnsupportedComparison signals an ordering comparison between
	// operand kinds that have no defined order (boolean < boolean,
	// string < number, and so on).
	ErrUnsupportedComparison = errors.New("unsupported comparison")
	// ErrInvalidOperand signals an operator applied to an operand kind
	// it cannot accept, such as NOT on a non-boolean.
	ErrInvalidOperand = errors.New("invalid operand")
	// ErrUnknownFunction signals a call to a function outside the
	// built-in set. Raised at evaluation time, not parse time.
	ErrUnknownFunction = errors.New("unknown function")
	// ErrUnsupportedOperator signals an operator the evaluator does not
	// implement.
	ErrUnsupportedOperator = errors.New("unsupported operator")
)

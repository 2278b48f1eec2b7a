// Package eval evaluates expression trees against documents. It owns
// the comparison and type-coercion rules of the query language:
// case-insensitive string equality, numeric widening, undefined
// propagation, and the built-in function library.
package eval

import (
	"errors"
	"fmt"
	"strings"

	"github.com/kailas-cloud/docql/internal/domain"
	"github.com/kailas-cloud/docql/internal/domain/document"
	"github.com/kailas-cloud/docql/internal/domain/query"
	"github.com/kailas-cloud/docql/internal/domain/value"
)

// Predicate evaluates expr as a boolean predicate over doc.
//
// Errors are per-document: ErrUnsupportedComparison and
// ErrInvalidOperand mean this document's predicate could not be
// decided; ErrUnknownFunction and ErrUnsupportedOperator mean the
// query itself is unsupported. Recoverable distinguishes the two.
func Predicate(doc document.Document, expr query.Expression) (bool, error) {
	switch e := expr.(type) {
	case *query.Binary:
		return binaryPredicate(doc, e)
	case *query.Unary:
		return unaryPredicate(doc, e)
	case *query.FunctionCall:
		return callFunction(doc, e)
	case *query.Constant:
		return truthy(e.Value), nil
	case *query.Property:
		return truthy(doc.Lookup(e.Path)), nil
	default:
		return false, fmt.Errorf("%w: %T", domain.ErrUnsupportedOperator, expr)
	}
}

// Value evaluates expr to a value. Logical and comparison nodes yield
// booleans; property paths yield the document field or Undefined.
func Value(doc document.Document, expr query.Expression) (value.Value, error) {
	switch e := expr.(type) {
	case *query.Constant:
		return e.Value, nil
	case *query.Property:
		return doc.Lookup(e.Path), nil
	case *query.Binary, *query.Unary, *query.FunctionCall:
		b, err := Predicate(doc, e)
		if err != nil {
			return value.NewUndefined(), err
		}
		return value.NewBool(b), nil
	default:
		return value.NewUndefined(), fmt.Errorf("%w: %T", domain.ErrUnsupportedOperator, expr)
	}
}

// Recoverable reports whether err only invalidates one document's
// predicate (lenient mode excludes the document) as opposed to the
// whole query.
func Recoverable(err error) bool {
	return errors.Is(err, domain.ErrUnsupportedComparison) ||
		errors.Is(err, domain.ErrInvalidOperand)
}

func binaryPredicate(doc document.Document, e *query.Binary) (bool, error) {
	switch e.Op {
	case query.OpAnd:
		left, err := Predicate(doc, e.Left)
		if err != nil || !left {
			return false, err
		}
		return Predicate(doc, e.Right)
	case query.OpOr:
		left, err := Predicate(doc, e.Left)
		if err != nil {
			return false, err
		}
		if left {
			return true, nil
		}
		return Predicate(doc, e.Right)
	}

	left, err := Value(doc, e.Left)
	if err != nil {
		return false, err
	}
	right, err := Value(doc, e.Right)
	if err != nil {
		return false, err
	}
	return Compare(e.Op, left, right)
}

func unaryPredicate(doc document.Document, e *query.Unary) (bool, error) {
	v, err := Value(doc, e.Operand)
	if err != nil {
		return false, err
	}
	if v.Kind() != value.Bool {
		return false, fmt.Errorf("%w: NOT requires a boolean, got %s", domain.ErrInvalidOperand, v.Kind())
	}
	return !v.Bool(), nil
}

// Compare applies a comparison operator to two evaluated values.
//
// Undefined on either side makes every operator false; no operator
// throws on a missing property. Equality across kinds is false (true
// for !=). Ordering is defined only within string/string and
// number/number pairs; anything else is an unsupported comparison.
func Compare(op query.Operator, left, right value.Value) (bool, error) {
	if !left.IsDefined() || !right.IsDefined() {
		return false, nil
	}

	switch op {
	case query.OpEqual:
		return equal(left, right), nil
	case query.OpNotEqual:
		return !equal(left, right), nil
	case query.OpGreater, query.OpGreaterOrEqual, query.OpLess, query.OpLessOrEqual:
		cmp, err := order(left, right)
		if err != nil {
			return false, err
		}
		switch op {
		case query.OpGreater:
			return cmp > 0, nil
		case query.OpGreaterOrEqual:
			return cmp >= 0, nil
		case query.OpLess:
			return cmp < 0, nil
		default:
			return cmp <= 0, nil
		}
	default:
		return false, fmt.Errorf("%w: %s is not a comparison", domain.ErrUnsupportedOperator, op)
	}
}

// equal implements `=`: ordinal case-insensitive for strings, widening
// for numbers, direct for booleans and nulls, textual for composites
// of the same kind, false across kinds.
func equal(left, right value.Value) bool {
	if left.IsNumber() && right.IsNumber() {
		if left.Kind() == value.Int && right.Kind() == value.Int {
			return left.Int() == right.Int()
		}
		return left.AsFloat() == right.AsFloat()
	}
	if left.Kind() != right.Kind() {
		return false
	}

	switch left.Kind() {
	case value.String:
		return strings.EqualFold(left.Str(), right.Str())
	case value.Bool:
		return left.Bool() == right.Bool()
	case value.Null:
		return true
	case value.Array, value.Object:
		return left.Text() == right.Text()
	default:
		return false
	}
}

// order compares two same-kind ordinal values: -1, 0 or 1. Strings
// compare case-insensitively, consistent with equality.
func order(left, right value.Value) (int, error) {
	if left.IsNumber() && right.IsNumber() {
		lf, rf := left.AsFloat(), right.AsFloat()
		switch {
		case lf < rf:
			return -1, nil
		case lf > rf:
			return 1, nil
		default:
			return 0, nil
		}
	}
	if left.Kind() == value.String && right.Kind() == value.String {
		return strings.Compare(strings.ToLower(left.Str()), strings.ToLower(right.Str())), nil
	}
	return 0, fmt.Errorf("%w: cannot order %s against %s",
		domain.ErrUnsupportedComparison, left.Kind(), right.Kind())
}

func truthy(v value.Value) bool {
	if v.Kind() == value.Bool {
		return v.Bool()
	}
	return v.IsDefined() && !v.IsNull()
}

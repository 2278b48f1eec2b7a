// Package query defines the parsed representation of a query: the
// projection, source, WHERE expression tree, ordering keys, and limit.
// Trees are built once by the parser and never mutated afterwards.
package query

import "github.com/kailas-cloud/docql/internal/domain/value"

// Operator is a binary comparison or logical operator. The set is
// closed; the evaluator matches it exhaustively.
type Operator int

const (
	// OpEqual is `=`.
	OpEqual Operator = iota
	// OpNotEqual is `!=` or `<>`.
	OpNotEqual
	// OpGreater is `>`.
	OpGreater
	// OpGreaterOrEqual is `>=`.
	OpGreaterOrEqual
	// OpLess is `<`.
	OpLess
	// OpLessOrEqual is `<=`.
	OpLessOrEqual
	// OpAnd is logical AND, short-circuit left to right.
	OpAnd
	// OpOr is logical OR, short-circuit left to right.
	OpOr
)

// String returns the SQL spelling of the operator.
func (op Operator) String() string {
	switch op {
	case OpEqual:
		return "="
	case OpNotEqual:
		return "!="
	case OpGreater:
		return ">"
	case OpGreaterOrEqual:
		return ">="
	case OpLess:
		return "<"
	case OpLessOrEqual:
		return "<="
	case OpAnd:
		return "AND"
	case OpOr:
		return "OR"
	default:
		return "?"
	}
}

// IsOrdering reports whether the operator is one of < <= > >=.
func (op Operator) IsOrdering() bool {
	switch op {
	case OpGreater, OpGreaterOrEqual, OpLess, OpLessOrEqual:
		return true
	default:
		return false
	}
}

// UnaryOperator is a unary operator. Only NOT exists.
type UnaryOperator int

// OpNot is logical NOT; requires a boolean operand.
const OpNot UnaryOperator = iota

// String returns the SQL spelling.
func (op UnaryOperator) String() string { return "NOT" }

// Direction is a sort direction.
type Direction int

const (
	// Ascending sorts smallest first.
	Ascending Direction = iota
	// Descending sorts largest first.
	Descending
)

// String returns the SQL spelling of the direction.
func (d Direction) String() string {
	if d == Descending {
		return "DESC"
	}
	return "ASC"
}

// SortKey is one ORDER BY entry: an alias-stripped property path and a
// direction.
type SortKey struct {
	Path      string
	Direction Direction
}

// Expression is a node of the WHERE tree. Implementations form a
// closed set; the evaluator dispatches by exhaustive type switch.
type Expression interface {
	isExpression()
}

// Constant is a literal scalar.
type Constant struct {
	Value value.Value
}

// Property is a dotted field path with the source alias already
// stripped by the parser.
type Property struct {
	Path string
}

// Unary applies a unary operator to one operand.
type Unary struct {
	Op      UnaryOperator
	Operand Expression
}

// Binary applies a comparison or logical operator to two operands.
type Binary struct {
	Op    Operator
	Left  Expression
	Right Expression
}

// FunctionCall invokes a built-in predicate function. Arity of known
// functions is checked at parse time; unknown names surface at
// evaluation.
type FunctionCall struct {
	Name string
	Args []Expression
}

func (*Constant) isExpression()     {}
func (*Property) isExpression()     {}
func (*Unary) isExpression()        {}
func (*Binary) isExpression()       {}
func (*FunctionCall) isExpression() {}

// ParsedQuery is the immutable output of parsing one query text.
type ParsedQuery struct {
	// Projection holds the alias-stripped paths to project, in SELECT
	// order. Empty means the `*` wildcard: pass documents through.
	Projection []string
	// Source is the collection alias bound in FROM.
	Source string
	// Where is the root predicate, nil when the query has no WHERE.
	Where Expression
	// OrderBy lists sort keys in priority order.
	OrderBy []SortKey
	// Limit is the maximum result count; nil means unlimited.
	Limit *int
}

// IsWildcard reports whether the query selects whole documents.
func (q *ParsedQuery) IsWildcard() bool { return len(q.Projection) == 0 }

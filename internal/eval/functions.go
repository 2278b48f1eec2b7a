package eval

import (
	"fmt"
	"strings"

	"github.com/kailas-cloud/docql/internal/domain"
	"github.com/kailas-cloud/docql/internal/domain/document"
	"github.com/kailas-cloud/docql/internal/domain/query"
	"github.com/kailas-cloud/docql/internal/domain/value"
)

// callFunction dispatches the built-in predicate functions. Names
// arrive upper-cased from the parser; arity of known names is already
// validated there.
func callFunction(doc document.Document, e *query.FunctionCall) (bool, error) {
	args := make([]value.Value, len(e.Args))
	for i, a := range e.Args {
		v, err := Value(doc, a)
		if err != nil {
			return false, err
		}
		args[i] = v
	}

	switch e.Name {
	case "CONTAINS":
		return textMatch(args[0], args[1], strings.Contains), nil
	case "STARTSWITH":
		return textMatch(args[0], args[1], strings.HasPrefix), nil
	case "ARRAY_CONTAINS":
		return arrayContains(args[0], args[1]), nil
	case "IS_NULL":
		return args[0].IsNull(), nil
	case "IS_DEFINED":
		return args[0].IsDefined(), nil
	default:
		return false, fmt.Errorf("%w: %s", domain.ErrUnknownFunction, e.Name)
	}
}

// textMatch runs a case-insensitive string test over the textual form
// of both operands. Undefined on either side is false, never an error.
func textMatch(target, probe value.Value, test func(s, sub string) bool) bool {
	if !target.IsDefined() || !probe.IsDefined() {
		return false
	}
	return test(strings.ToLower(target.Text()), strings.ToLower(probe.Text()))
}

// arrayContains tests membership by case-insensitive textual equality
// of each element. A non-array target is false, not an error.
func arrayContains(target, needle value.Value) bool {
	if target.Kind() != value.Array || !needle.IsDefined() {
		return false
	}
	want := needle.Text()
	for _, elem := range target.Elems() {
		if strings.EqualFold(elem.Text(), want) {
			return true
		}
	}
	return false
}

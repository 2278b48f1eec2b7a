// Package parser turns query text in the supported SQL subset into a
// query.ParsedQuery. Keywords and function names are case-insensitive;
// property paths and string literals are case-sensitive.
package parser

import (
	"strconv"
	"strings"

	"github.com/kailas-cloud/docql/internal/domain/query"
	"github.com/kailas-cloud/docql/internal/domain/value"
)

// functionArity lists the built-in predicate functions whose arity is
// checked at parse time. Unknown names parse and fail at evaluation.
var functionArity = map[string]int{
	"CONTAINS":       2,
	"STARTSWITH":     2,
	"ARRAY_CONTAINS": 2,
	"IS_NULL":        1,
	"IS_DEFINED":     1,
}

// Parse parses one query. Errors are always *ParseError.
func Parse(text string) (*query.ParsedQuery, error) {
	p := &parser{lex: newLexer(text)}
	p.advance()
	p.advance()
	return p.parseQuery()
}

type parser struct {
	lex  *lexer
	cur  Token
	peek Token

	alias    string
	explicit bool // alias declared via FROM ... AS
}

func (p *parser) advance() {
	p.cur = p.peek
	p.peek = p.lex.next()
}

func (p *parser) expect(t TokenType, what string) (Token, error) {
	if p.cur.Type != t {
		return Token{}, errorf(p.cur, "expected %s", what)
	}
	tok := p.cur
	p.advance()
	return tok, nil
}

func (p *parser) parseQuery() (*query.ParsedQuery, error) {
	if _, err := p.expect(KwSelect, "SELECT"); err != nil {
		return nil, err
	}

	rawPaths, err := p.parseProjection()
	if err != nil {
		return nil, err
	}

	if _, err := p.expect(KwFrom, "FROM"); err != nil {
		return nil, err
	}
	src, err := p.expect(Ident, "collection alias after FROM")
	if err != nil {
		return nil, err
	}
	p.alias = src.Literal
	if p.cur.Type == KwAs {
		p.advance()
		aliasTok, err := p.expect(Ident, "alias after AS")
		if err != nil {
			return nil, err
		}
		p.alias = aliasTok.Literal
		p.explicit = true
	}

	q := &query.ParsedQuery{Source: p.alias}
	for _, raw := range rawPaths {
		q.Projection = append(q.Projection, p.stripAlias(raw))
	}

	if p.cur.Type == KwWhere {
		p.advance()
		q.Where, err = p.parseOr()
		if err != nil {
			return nil, err
		}
	}

	if p.cur.Type == KwOrder {
		p.advance()
		if _, err := p.expect(KwBy, "BY after ORDER"); err != nil {
			return nil, err
		}
		q.OrderBy, err = p.parseOrderBy()
		if err != nil {
			return nil, err
		}
	}

	if p.cur.Type == KwLimit {
		p.advance()
		limit, err := p.parseLimit()
		if err != nil {
			return nil, err
		}
		q.Limit = &limit
	}

	if p.cur.Type != EOF {
		return nil, errorf(p.cur, "unexpected token after query")
	}
	return q, nil
}

// parseProjection parses `*` or a comma-separated path list. The
// wildcard is represented as an empty projection.
func (p *parser) parseProjection() ([]string, error) {
	if p.cur.Type == Star {
		p.advance()
		return nil, nil
	}

	var paths []string
	for {
		path, err := p.parsePath()
		if err != nil {
			return nil, err
		}
		paths = append(paths, path)
		if p.cur.Type != Comma {
			return paths, nil
		}
		p.advance()
	}
}

func (p *parser) parseOrderBy() ([]query.SortKey, error) {
	var keys []query.SortKey
	for {
		path, err := p.parsePath()
		if err != nil {
			return nil, err
		}
		key := query.SortKey{Path: p.stripAlias(path), Direction: query.Ascending}
		switch p.cur.Type {
		case KwAsc:
			p.advance()
		case KwDesc:
			key.Direction = query.Descending
			p.advance()
		}
		keys = append(keys, key)
		if p.cur.Type != Comma {
			return keys, nil
		}
		p.advance()
	}
}

func (p *parser) parseLimit() (int, error) {
	if p.cur.Type == Minus {
		return 0, errorf(p.cur, "LIMIT must be non-negative")
	}
	tok, err := p.expect(Number, "integer after LIMIT")
	if err != nil {
		return 0, err
	}
	n, convErr := strconv.Atoi(tok.Literal)
	if convErr != nil {
		return 0, errorf(tok, "LIMIT must be an integer")
	}
	return n, nil
}

// parseOr parses OR-chains; lowest precedence.
func (p *parser) parseOr() (query.Expression, error) {
	left, err := p.parseAnd()
	if err != nil {
		return nil, err
	}
	for p.cur.Type == KwOr {
		p.advance()
		right, err := p.parseAnd()
		if err != nil {
			return nil, err
		}
		left = &query.Binary{Op: query.OpOr, Left: left, Right: right}
	}
	return left, nil
}

// parseAnd parses AND-chains left-associatively. A top-level comma is
// accepted as an AND for compatibility with flat condition lists.
func (p *parser) parseAnd() (query.Expression, error) {
	left, err := p.parseNot()
	if err != nil {
		return nil, err
	}
	for p.cur.Type == KwAnd || p.cur.Type == Comma {
		p.advance()
		right, err := p.parseNot()
		if err != nil {
			return nil, err
		}
		left = &query.Binary{Op: query.OpAnd, Left: left, Right: right}
	}
	return left, nil
}

func (p *parser) parseNot() (query.Expression, error) {
	if p.cur.Type == KwNot {
		p.advance()
		operand, err := p.parseNot()
		if err != nil {
			return nil, err
		}
		return &query.Unary{Op: query.OpNot, Operand: operand}, nil
	}
	return p.parseCondition()
}

// parseCondition parses a parenthesized group, a comparison, a function
// predicate, or a bare operand used as a truthy predicate.
func (p *parser) parseCondition() (query.Expression, error) {
	if p.cur.Type == LParen {
		p.advance()
		e, err := p.parseOr()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(RParen, "closing parenthesis"); err != nil {
			return nil, err
		}
		return e, nil
	}

	left, err := p.parseOperand()
	if err != nil {
		return nil, err
	}

	op, ok := comparisonOp(p.cur.Type)
	if !ok {
		return left, nil
	}
	p.advance()

	right, err := p.parseOperand()
	if err != nil {
		return nil, err
	}
	return &query.Binary{Op: op, Left: left, Right: right}, nil
}

func comparisonOp(t TokenType) (query.Operator, bool) {
	switch t {
	case Eq:
		return query.OpEqual, true
	case Ne:
		return query.OpNotEqual, true
	case Gt:
		return query.OpGreater, true
	case Ge:
		return query.OpGreaterOrEqual, true
	case Lt:
		return query.OpLess, true
	case Le:
		return query.OpLessOrEqual, true
	default:
		return 0, false
	}
}

// parseOperand parses a property path, a function call, or a literal.
func (p *parser) parseOperand() (query.Expression, error) {
	switch p.cur.Type {
	case Ident:
		if p.peek.Type == LParen {
			return p.parseFunctionCall()
		}
		path, err := p.parsePath()
		if err != nil {
			return nil, err
		}
		return &query.Property{Path: p.stripAlias(path)}, nil
	case StringLit:
		v := value.NewString(p.cur.Literal)
		p.advance()
		return &query.Constant{Value: v}, nil
	case Number, Minus:
		return p.parseNumber()
	case KwTrue:
		p.advance()
		return &query.Constant{Value: value.NewBool(true)}, nil
	case KwFalse:
		p.advance()
		return &query.Constant{Value: value.NewBool(false)}, nil
	case KwNull:
		p.advance()
		return &query.Constant{Value: value.NewNull()}, nil
	default:
		return nil, errorf(p.cur, "expected property path, function call, or literal")
	}
}

func (p *parser) parseNumber() (query.Expression, error) {
	neg := false
	if p.cur.Type == Minus {
		neg = true
		p.advance()
	}
	tok, err := p.expect(Number, "numeric literal")
	if err != nil {
		return nil, err
	}

	if strings.Contains(tok.Literal, ".") {
		f, convErr := strconv.ParseFloat(tok.Literal, 64)
		if convErr != nil {
			return nil, errorf(tok, "invalid numeric literal")
		}
		if neg {
			f = -f
		}
		return &query.Constant{Value: value.NewFloat(f)}, nil
	}

	i, convErr := strconv.ParseInt(tok.Literal, 10, 64)
	if convErr != nil {
		return nil, errorf(tok, "invalid numeric literal")
	}
	if neg {
		i = -i
	}
	return &query.Constant{Value: value.NewInt(i)}, nil
}

func (p *parser) parseFunctionCall() (query.Expression, error) {
	nameTok := p.cur
	name := strings.ToUpper(nameTok.Literal)
	p.advance() // name
	p.advance() // (

	var args []query.Expression
	if p.cur.Type != RParen {
		for {
			arg, err := p.parseOperand()
			if err != nil {
				return nil, err
			}
			args = append(args, arg)
			if p.cur.Type != Comma {
				break
			}
			p.advance()
		}
	}
	if _, err := p.expect(RParen, "closing parenthesis after function arguments"); err != nil {
		return nil, err
	}

	// Arity is a parse-time check for known functions only; unknown
	// names surface as ErrUnknownFunction at evaluation.
	if want, known := functionArity[name]; known && len(args) != want {
		return nil, errorf(nameTok, "%s takes %d argument(s), got %d", name, want, len(args))
	}

	return &query.FunctionCall{Name: name, Args: args}, nil
}

// parsePath parses ident ('.' ident)*, case preserved. Keywords are
// tolerated as segments after the first dot so field names like
// "order" stay usable.
func (p *parser) parsePath() (string, error) {
	first, err := p.expect(Ident, "property path")
	if err != nil {
		return "", err
	}
	segs := []string{first.Literal}
	for p.cur.Type == Dot {
		p.advance()
		if p.cur.Type != Ident && !isKeyword(p.cur.Type) {
			return "", errorf(p.cur, "expected path segment after '.'")
		}
		segs = append(segs, p.cur.Literal)
		p.advance()
	}
	return strings.Join(segs, "."), nil
}

func isKeyword(t TokenType) bool {
	return t >= KwSelect && t <= KwNull
}

// stripAlias removes the leading source-alias segment from a path. The
// declared alias always strips; the conventional `c`/`r` prefixes strip
// only when no explicit alias was given.
func (p *parser) stripAlias(path string) string {
	head, rest, found := strings.Cut(path, ".")
	if !found {
		return path
	}
	if head == p.alias {
		return rest
	}
	if !p.explicit && (head == "c" || head == "r") {
		return rest
	}
	return path
}

package parser

import "strings"

// TokenType classifies a lexical token.
type TokenType int

const (
	// EOF marks the end of input.
	EOF TokenType = iota
	// Illegal marks an unrecognized character or malformed literal.
	Illegal

	// Ident is an unquoted identifier (property segment, alias,
	// function name).
	Ident
	// Number is a numeric literal; integer or float by decimal point.
	Number
	// StringLit is a single-quoted string literal.
	StringLit

	// Eq is `=`.
	Eq
	// Ne is `!=` or `<>`.
	Ne
	// Lt is `<`.
	Lt
	// Gt is `>`.
	Gt
	// Le is `<=`.
	Le
	// Ge is `>=`.
	Ge
	// Star is `*`.
	Star
	// Minus is `-` (only valid as a numeric sign).
	Minus
	// Dot is `.`.
	Dot
	// Comma is `,`.
	Comma
	// LParen is `(`.
	LParen
	// RParen is `)`.
	RParen

	// Keywords.
	KwSelect
	KwFrom
	KwAs
	KwWhere
	KwAnd
	KwOr
	KwNot
	KwOrder
	KwBy
	KwAsc
	KwDesc
	KwLimit
	KwTrue
	KwFalse
	KwNull
)

var keywords = map[string]TokenType{
	"select": KwSelect,
	"from":   KwFrom,
	"as":     KwAs,
	"where":  KwWhere,
	"and":    KwAnd,
	"or":     KwOr,
	"not":    KwNot,
	"order":  KwOrder,
	"by":     KwBy,
	"asc":    KwAsc,
	"desc":   KwDesc,
	"limit":  KwLimit,
	"true":   KwTrue,
	"false":  KwFalse,
	"null":   KwNull,
}

// lookupIdent maps an identifier to its keyword type, or Ident.
// Keywords are case-insensitive.
func lookupIdent(lit string) TokenType {
	if t, ok := keywords[strings.ToLower(lit)]; ok {
		return t
	}
	return Ident
}

// Position locates a token in the query text (1-based line and column).
type Position struct {
	Line   int
	Column int
	Offset int
}

// Token is one lexical unit with its source position.
type Token struct {
	Type    TokenType
	Literal string
	Pos     Position
}

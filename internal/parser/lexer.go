package parser

import "strings"

// lexer scans query text into tokens.
type lexer struct {
	input   string
	pos     int  // current position in input
	readPos int  // reading position (after current char)
	ch      byte // current char under examination
	line    int
	col     int
}

func newLexer(input string) *lexer {
	l := &lexer{input: input, line: 1}
	l.readChar()
	return l
}

func (l *lexer) readChar() {
	if l.readPos >= len(l.input) {
		l.ch = 0 // NUL = EOF
	} else {
		l.ch = l.input[l.readPos]
	}
	l.pos = l.readPos
	l.readPos++

	if l.ch == '\n' {
		l.line++
		l.col = 0
	} else {
		l.col++
	}
}

func (l *lexer) peekChar() byte {
	if l.readPos >= len(l.input) {
		return 0
	}
	return l.input[l.readPos]
}

func (l *lexer) currentPos() Position {
	return Position{Line: l.line, Column: l.col, Offset: l.pos}
}

// next returns the next token.
func (l *lexer) next() Token {
	l.skipWhitespace()

	pos := l.currentPos()

	var tok Token
	tok.Pos = pos

	switch l.ch {
	case 0:
		tok.Type = EOF
	case '=':
		tok = Token{Type: Eq, Literal: "=", Pos: pos}
	case '<':
		switch l.peekChar() {
		case '=':
			l.readChar()
			tok = Token{Type: Le, Literal: "<=", Pos: pos}
		case '>':
			l.readChar()
			tok = Token{Type: Ne, Literal: "<>", Pos: pos}
		default:
			tok = Token{Type: Lt, Literal: "<", Pos: pos}
		}
	case '>':
		if l.peekChar() == '=' {
			l.readChar()
			tok = Token{Type: Ge, Literal: ">=", Pos: pos}
		} else {
			tok = Token{Type: Gt, Literal: ">", Pos: pos}
		}
	case '!':
		if l.peekChar() == '=' {
			l.readChar()
			tok = Token{Type: Ne, Literal: "!=", Pos: pos}
		} else {
			tok = Token{Type: Illegal, Literal: string(l.ch), Pos: pos}
		}
	case '*':
		tok = Token{Type: Star, Literal: "*", Pos: pos}
	case '-':
		tok = Token{Type: Minus, Literal: "-", Pos: pos}
	case '.':
		tok = Token{Type: Dot, Literal: ".", Pos: pos}
	case ',':
		tok = Token{Type: Comma, Literal: ",", Pos: pos}
	case '(':
		tok = Token{Type: LParen, Literal: "(", Pos: pos}
	case ')':
		tok = Token{Type: RParen, Literal: ")", Pos: pos}
	case '\'':
		lit, ok := l.readString()
		if !ok {
			return Token{Type: Illegal, Literal: "unterminated string literal", Pos: pos}
		}
		return Token{Type: StringLit, Literal: lit, Pos: pos}
	default:
		if isLetter(l.ch) || l.ch == '_' {
			lit := l.readIdentifier()
			return Token{Type: lookupIdent(lit), Literal: lit, Pos: pos}
		}
		if isDigit(l.ch) {
			return Token{Type: Number, Literal: l.readNumber(), Pos: pos}
		}
		tok = Token{Type: Illegal, Literal: string(l.ch), Pos: pos}
	}

	l.readChar()
	return tok
}

func (l *lexer) skipWhitespace() {
	for l.ch == ' ' || l.ch == '\t' || l.ch == '\n' || l.ch == '\r' {
		l.readChar()
	}
}

// readString consumes a single-quoted string. A doubled quote escapes
// a literal quote. Returns false when the closing quote is missing.
func (l *lexer) readString() (string, bool) {
	var sb strings.Builder
	l.readChar() // consume opening quote
	for {
		switch l.ch {
		case 0:
			return "", false
		case '\'':
			if l.peekChar() == '\'' {
				sb.WriteByte('\'')
				l.readChar()
				l.readChar()
				continue
			}
			l.readChar() // consume closing quote
			return sb.String(), true
		default:
			sb.WriteByte(l.ch)
			l.readChar()
		}
	}
}

// readIdentifier consumes [A-Za-z_][A-Za-z0-9_]*, case preserved.
func (l *lexer) readIdentifier() string {
	start := l.pos
	for isLetter(l.ch) || isDigit(l.ch) || l.ch == '_' {
		l.readChar()
	}
	return l.input[start:l.pos]
}

// readNumber consumes digits with an optional single decimal point.
func (l *lexer) readNumber() string {
	start := l.pos
	for isDigit(l.ch) {
		l.readChar()
	}
	if l.ch == '.' && isDigit(l.peekChar()) {
		l.readChar()
		for isDigit(l.ch) {
			l.readChar()
		}
	}
	return l.input[start:l.pos]
}

func isLetter(ch byte) bool {
	return 'a' <= ch && ch <= 'z' || 'A' <= ch && ch <= 'Z'
}

func isDigit(ch byte) bool {
	return '0' <= ch && ch <= '9'
}

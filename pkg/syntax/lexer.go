package syntax

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"
)

type tokenKind int

const (
	tokEOF tokenKind = iota
	tokNewline
	tokSemicolon
	tokIdentifier
	tokKeyword
	tokNumber
	tokString
	tokOperator
	tokOpenParen
	tokCloseParen
	tokOpenBrace
	tokCloseBrace
	tokOpenBracket     // [
	tokCloseBracket    // ]
	tokOpenDoubleBrack // [[
	tokComma
	tokBackslash // \ introducing a lambda
)

type token struct {
	kind  tokenKind
	text  string
	start int
	end   int
}

var keywords = map[string]bool{
	"if": true, "else": true, "for": true, "in": true, "while": true,
	"repeat": true, "function": true, "break": true, "next": true,
	"TRUE": true, "FALSE": true, "NULL": true, "NA": true, "NaN": true,
	"Inf": true, "NA_integer_": true, "NA_real_": true,
	"NA_character_": true, "NA_complex_": true,
}

// lexer turns R source into a token stream. Comments are not tokens; they
// are collected separately with their ranges so the parser can attach them
// as trivia afterwards.
type lexer struct {
	src      string
	pos      int
	tokens   []token
	comments []Comment
}

func lex(src string) ([]token, []Comment, error) {
	l := &lexer{src: src}
	if err := l.run(); err != nil {
		return nil, nil, err
	}
	l.tokens = append(l.tokens, token{kind: tokEOF, start: len(src), end: len(src)})
	return l.tokens, l.comments, nil
}

func (l *lexer) run() error {
	for l.pos < len(l.src) {
		c := l.src[l.pos]
		switch {
		case c == '\n':
			l.emit(tokNewline, l.pos, l.pos+1)
			l.pos++
		case c == ' ' || c == '\t' || c == '\r':
			l.pos++
		case c == '#':
			start := l.pos
			for l.pos < len(l.src) && l.src[l.pos] != '\n' {
				l.pos++
			}
			l.comments = append(l.comments, Comment{
				Text:  l.src[start:l.pos],
				Range: Range{Start: start, End: l.pos},
			})
		case c == '"' || c == '\'':
			if err := l.lexString(c); err != nil {
				return err
			}
		case c == '`':
			if err := l.lexBackquoted(); err != nil {
				return err
			}
		case c >= '0' && c <= '9':
			l.lexNumber()
		case c == '.' && l.pos+1 < len(l.src) && l.src[l.pos+1] >= '0' && l.src[l.pos+1] <= '9':
			l.lexNumber()
		case isIdentStart(rune(c)):
			l.lexIdentifier()
		case c == '%':
			if err := l.lexSpecial(); err != nil {
				return err
			}
		default:
			if err := l.lexOperator(); err != nil {
				return err
			}
		}
	}
	return nil
}

func (l *lexer) emit(kind tokenKind, start, end int) {
	l.tokens = append(l.tokens, token{kind: kind, text: l.src[start:end], start: start, end: end})
}

func (l *lexer) lexString(quote byte) error {
	start := l.pos
	l.pos++
	for l.pos < len(l.src) {
		switch l.src[l.pos] {
		case '\\':
			l.pos += 2
		case quote:
			l.pos++
			l.emit(tokString, start, l.pos)
			return nil
		default:
			l.pos++
		}
	}
	return fmt.Errorf("unterminated string literal at offset %d", start)
}

func (l *lexer) lexBackquoted() error {
	start := l.pos
	l.pos++
	for l.pos < len(l.src) {
		if l.src[l.pos] == '`' {
			l.pos++
			l.emit(tokIdentifier, start, l.pos)
			return nil
		}
		l.pos++
	}
	return fmt.Errorf("unterminated backquoted name at offset %d", start)
}

func (l *lexer) lexNumber() {
	start := l.pos
	if strings.HasPrefix(l.src[l.pos:], "0x") || strings.HasPrefix(l.src[l.pos:], "0X") {
		l.pos += 2
		for l.pos < len(l.src) && isHexDigit(l.src[l.pos]) {
			l.pos++
		}
	} else {
		for l.pos < len(l.src) && (isDigit(l.src[l.pos]) || l.src[l.pos] == '.') {
			l.pos++
		}
		if l.pos < len(l.src) && (l.src[l.pos] == 'e' || l.src[l.pos] == 'E') {
			l.pos++
			if l.pos < len(l.src) && (l.src[l.pos] == '+' || l.src[l.pos] == '-') {
				l.pos++
			}
			for l.pos < len(l.src) && isDigit(l.src[l.pos]) {
				l.pos++
			}
		}
	}
	// Integer and imaginary suffixes.
	if l.pos < len(l.src) && (l.src[l.pos] == 'L' || l.src[l.pos] == 'i') {
		l.pos++
	}
	l.emit(tokNumber, start, l.pos)
}

func (l *lexer) lexIdentifier() {
	start := l.pos
	for l.pos < len(l.src) {
		r, size := utf8.DecodeRuneInString(l.src[l.pos:])
		if !isIdentPart(r) {
			break
		}
		l.pos += size
	}
	text := l.src[start:l.pos]
	if keywords[text] {
		l.emit(tokKeyword, start, l.pos)
	} else {
		l.emit(tokIdentifier, start, l.pos)
	}
}

// lexSpecial handles %%-delimited operators such as %in%, %%, %/% and
// user-defined %foo% operators.
func (l *lexer) lexSpecial() error {
	start := l.pos
	l.pos++
	for l.pos < len(l.src) {
		if l.src[l.pos] == '%' {
			l.pos++
			l.emit(tokOperator, start, l.pos)
			return nil
		}
		if l.src[l.pos] == '\n' {
			break
		}
		l.pos++
	}
	return fmt.Errorf("unterminated %% operator at offset %d", start)
}

var multiCharOps = []string{
	"<<-", "->>", "%%", "<-", "->", "<=", ">=", "==", "!=", "&&", "||", "|>", ":::", "::",
}

func (l *lexer) lexOperator() error {
	start := l.pos
	rest := l.src[l.pos:]
	for _, op := range multiCharOps {
		if strings.HasPrefix(rest, op) {
			l.pos += len(op)
			l.emit(tokOperator, start, l.pos)
			return nil
		}
	}
	c := l.src[l.pos]
	switch c {
	case '(':
		l.pos++
		l.emit(tokOpenParen, start, l.pos)
	case ')':
		l.pos++
		l.emit(tokCloseParen, start, l.pos)
	case '{':
		l.pos++
		l.emit(tokOpenBrace, start, l.pos)
	case '}':
		l.pos++
		l.emit(tokCloseBrace, start, l.pos)
	case '[':
		if strings.HasPrefix(rest, "[[") {
			l.pos += 2
			l.emit(tokOpenDoubleBrack, start, l.pos)
		} else {
			l.pos++
			l.emit(tokOpenBracket, start, l.pos)
		}
	case ']':
		// Always a single token; `]]` closing a [[ pair is consumed as two
		// so that nested subsets like m[x[1]] lex correctly.
		l.pos++
		l.emit(tokCloseBracket, start, l.pos)
	case ',':
		l.pos++
		l.emit(tokComma, start, l.pos)
	case ';':
		l.pos++
		l.emit(tokSemicolon, start, l.pos)
	case '\\':
		l.pos++
		l.emit(tokBackslash, start, l.pos)
	case '+', '-', '*', '/', '^', '<', '>', '!', '&', '|', '~', '?', ':', '$', '@', '=':
		l.pos++
		l.emit(tokOperator, start, l.pos)
	default:
		return fmt.Errorf("unexpected character %q at offset %d", c, l.pos)
	}
	return nil
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }

func isHexDigit(c byte) bool {
	return isDigit(c) || (c >= 'a' && c <= 'f') || (c >= 'A' && c <= 'F')
}

func isIdentStart(r rune) bool {
	return r == '.' || r == '_' || unicode.IsLetter(r)
}

func isIdentPart(r rune) bool {
	return r == '.' || r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r)
}

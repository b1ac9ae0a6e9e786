package syntax

import (
	"fmt"
)

// Parse parses R source text into a Tree. The parser is a recursive-descent
// parser over the token stream with precedence climbing for binary
// operators. It covers the R surface the linter analyzes; exotic constructs
// (e.g. raw strings) surface as parse errors rather than panics.
func Parse(src string) (*Tree, error) {
	tokens, comments, err := lex(src)
	if err != nil {
		return nil, err
	}
	p := &parser{src: src, tokens: tokens}
	root, err := p.parseProgram()
	if err != nil {
		return nil, err
	}
	tree := &Tree{Root: root, Source: src, Comments: comments}
	finalize(tree)
	attachComments(tree)
	return tree, nil
}

type parser struct {
	src    string
	tokens []token
	i      int
	// groupDepth > 0 means we are inside ( ), [ ] or [[ ]] where newlines
	// are insignificant.
	groupDepth int
}

func (p *parser) peek() token { return p.tokens[p.i] }

func (p *parser) at(kind tokenKind) bool { return p.tokens[p.i].kind == kind }

func (p *parser) atOp(text string) bool {
	t := p.tokens[p.i]
	return t.kind == tokOperator && t.text == text
}

func (p *parser) atKeyword(text string) bool {
	t := p.tokens[p.i]
	return t.kind == tokKeyword && t.text == text
}

func (p *parser) advance() token {
	t := p.tokens[p.i]
	if t.kind != tokEOF {
		p.i++
	}
	return t
}

func (p *parser) expect(kind tokenKind, what string) (token, error) {
	p.maybeSkipNewlines()
	t := p.peek()
	if t.kind != kind {
		return t, p.errorf(t, "expected %s", what)
	}
	return p.advance(), nil
}

func (p *parser) errorf(t token, format string, args ...interface{}) error {
	return fmt.Errorf("parse error at offset %d: %s", t.start, fmt.Sprintf(format, args...))
}

// skipNewlines unconditionally consumes newline tokens.
func (p *parser) skipNewlines() {
	for p.at(tokNewline) {
		p.i++
	}
}

// maybeSkipNewlines consumes newlines only inside grouping constructs,
// where they are insignificant.
func (p *parser) maybeSkipNewlines() {
	if p.groupDepth > 0 {
		p.skipNewlines()
	}
}

func (p *parser) parseProgram() (*Node, error) {
	prog := &Node{Kind: KindProgram, Start: 0, End: len(p.src)}
	stmts, err := p.parseStatements(tokEOF)
	if err != nil {
		return nil, err
	}
	prog.Children = stmts
	return prog, nil
}

// parseStatements parses newline/semicolon separated expressions until the
// given closing token kind (tokEOF or tokCloseBrace) is reached.
func (p *parser) parseStatements(until tokenKind) ([]*Node, error) {
	var stmts []*Node
	for {
		p.skipNewlines()
		for p.at(tokSemicolon) {
			p.advance()
			p.skipNewlines()
		}
		if p.at(until) || p.at(tokEOF) {
			return stmts, nil
		}
		stmt, err := p.parseExpr(precLowest)
		if err != nil {
			return nil, err
		}
		stmts = append(stmts, stmt)
		// A statement must be followed by a separator or the block end.
		t := p.peek()
		switch t.kind {
		case tokNewline, tokSemicolon:
			p.advance()
		case until, tokEOF:
		default:
			return nil, p.errorf(t, "unexpected %q after expression", t.text)
		}
	}
}

// Binary operator binding powers, loosest first. Mirrors R's operator
// precedence table (`?Syntax`).
const (
	precLowest     = 1
	precHelp       = 1  // ?
	precEq         = 2  // =
	precAssign     = 3  // <- <<- -> ->>
	precTilde      = 4  // ~
	precOr         = 5  // | ||
	precAnd        = 6  // & &&
	precNot        = 7  // unary !
	precCompare    = 8  // == != < > <= >=
	precAdd        = 9  // binary + -
	precMul        = 10 // * /
	precSpecial    = 11 // %any% |>
	precColon      = 12 // :
	precUnaryMinus = 13 // unary - +
	precPower      = 14 // ^
)

func binaryPrec(op string) (prec int, rightAssoc bool, ok bool) {
	switch op {
	case "?":
		return precHelp, false, true
	case "=":
		return precEq, true, true
	case "<-", "<<-":
		return precAssign, true, true
	case "->", "->>":
		return precAssign, false, true
	case "~":
		return precTilde, false, true
	case "|", "||":
		return precOr, false, true
	case "&", "&&":
		return precAnd, false, true
	case "==", "!=", "<", ">", "<=", ">=":
		return precCompare, false, true
	case "+", "-":
		return precAdd, false, true
	case "*", "/":
		return precMul, false, true
	case ":":
		return precColon, false, true
	case "^":
		return precPower, true, true
	}
	if len(op) >= 2 && op[0] == '%' && op[len(op)-1] == '%' {
		return precSpecial, false, true
	}
	if op == "|>" {
		return precSpecial, false, true
	}
	return 0, false, false
}

func (p *parser) parseExpr(minPrec int) (*Node, error) {
	left, err := p.parseUnary()
	if err != nil {
		return nil, err
	}
	for {
		t := p.peek()
		if t.kind != tokOperator {
			return left, nil
		}
		prec, rightAssoc, ok := binaryPrec(t.text)
		if !ok || prec < minPrec {
			return left, nil
		}
		p.advance()
		p.skipNewlines() // operators at end of line continue the expression
		nextMin := prec + 1
		if rightAssoc {
			nextMin = prec
		}
		right, err := p.parseExpr(nextMin)
		if err != nil {
			return nil, err
		}
		left = &Node{
			Kind:     KindBinary,
			Op:       t.text,
			Start:    left.Start,
			End:      right.End,
			Children: []*Node{left, right},
		}
	}
}

func (p *parser) parseUnary() (*Node, error) {
	p.maybeSkipNewlines()
	t := p.peek()
	if t.kind == tokOperator {
		switch t.text {
		case "!":
			p.advance()
			operand, err := p.parseExpr(precNot)
			if err != nil {
				return nil, err
			}
			return &Node{Kind: KindUnary, Op: "!", Start: t.start, End: operand.End, Children: []*Node{operand}}, nil
		case "-", "+":
			p.advance()
			operand, err := p.parseExpr(precUnaryMinus)
			if err != nil {
				return nil, err
			}
			return &Node{Kind: KindUnary, Op: t.text, Start: t.start, End: operand.End, Children: []*Node{operand}}, nil
		case "~":
			p.advance()
			operand, err := p.parseExpr(precTilde)
			if err != nil {
				return nil, err
			}
			return &Node{Kind: KindUnary, Op: "~", Start: t.start, End: operand.End, Children: []*Node{operand}}, nil
		}
	}
	primary, err := p.parsePrimary()
	if err != nil {
		return nil, err
	}
	return p.parsePostfix(primary)
}

func (p *parser) parsePrimary() (*Node, error) {
	p.maybeSkipNewlines()
	t := p.peek()
	switch t.kind {
	case tokNumber:
		p.advance()
		return &Node{Kind: KindNumber, Text: t.text, Start: t.start, End: t.end}, nil
	case tokString:
		p.advance()
		return &Node{Kind: KindString, Text: t.text, Start: t.start, End: t.end}, nil
	case tokIdentifier:
		p.advance()
		return &Node{Kind: KindIdentifier, Text: t.text, Start: t.start, End: t.end}, nil
	case tokKeyword:
		return p.parseKeyword()
	case tokOpenParen:
		p.advance()
		p.groupDepth++
		inner, err := p.parseExpr(precLowest)
		if err != nil {
			return nil, err
		}
		close, err := p.expect(tokCloseParen, ")")
		p.groupDepth--
		if err != nil {
			return nil, err
		}
		return &Node{Kind: KindParen, Start: t.start, End: close.end, Children: []*Node{inner}}, nil
	case tokOpenBrace:
		p.advance()
		stmts, err := p.parseStatements(tokCloseBrace)
		if err != nil {
			return nil, err
		}
		close, err := p.expect(tokCloseBrace, "}")
		if err != nil {
			return nil, err
		}
		return &Node{Kind: KindBraced, Start: t.start, End: close.end, Children: stmts}, nil
	case tokBackslash:
		p.advance()
		return p.parseFunctionTail(t.start)
	}
	return nil, p.errorf(t, "unexpected %q", t.text)
}

func (p *parser) parseKeyword() (*Node, error) {
	t := p.peek()
	switch t.text {
	case "TRUE":
		p.advance()
		return &Node{Kind: KindTrue, Text: t.text, Start: t.start, End: t.end}, nil
	case "FALSE":
		p.advance()
		return &Node{Kind: KindFalse, Text: t.text, Start: t.start, End: t.end}, nil
	case "NULL":
		p.advance()
		return &Node{Kind: KindNull, Text: t.text, Start: t.start, End: t.end}, nil
	case "NA", "NA_integer_", "NA_real_", "NA_character_", "NA_complex_":
		p.advance()
		return &Node{Kind: KindNA, Text: t.text, Start: t.start, End: t.end}, nil
	case "NaN":
		p.advance()
		return &Node{Kind: KindNaN, Text: t.text, Start: t.start, End: t.end}, nil
	case "Inf":
		p.advance()
		return &Node{Kind: KindInf, Text: t.text, Start: t.start, End: t.end}, nil
	case "break":
		p.advance()
		return &Node{Kind: KindBreak, Text: t.text, Start: t.start, End: t.end}, nil
	case "next":
		p.advance()
		return &Node{Kind: KindNext, Text: t.text, Start: t.start, End: t.end}, nil
	case "if":
		return p.parseIf()
	case "for":
		return p.parseFor()
	case "while":
		return p.parseWhile()
	case "repeat":
		return p.parseRepeat()
	case "function":
		p.advance()
		return p.parseFunctionTail(t.start)
	}
	return nil, p.errorf(t, "unexpected keyword %q", t.text)
}

func (p *parser) parseIf() (*Node, error) {
	start := p.advance() // if
	if _, err := p.expect(tokOpenParen, "( after if"); err != nil {
		return nil, err
	}
	p.groupDepth++
	cond, err := p.parseExpr(precLowest)
	if err != nil {
		return nil, err
	}
	_, err = p.expect(tokCloseParen, ") after if condition")
	p.groupDepth--
	if err != nil {
		return nil, err
	}
	cons, err := p.parseExpr(precLowest)
	if err != nil {
		return nil, err
	}
	node := &Node{Kind: KindIf, Start: start.start, End: cons.End, Children: []*Node{cond, cons}}
	// `else` may sit on the next line; look ahead across newlines and
	// backtrack if it is not there.
	mark := p.i
	p.skipNewlines()
	if p.atKeyword("else") {
		p.advance()
		alt, err := p.parseExpr(precLowest)
		if err != nil {
			return nil, err
		}
		node.Children = append(node.Children, alt)
		node.End = alt.End
	} else {
		p.i = mark
	}
	return node, nil
}

func (p *parser) parseFor() (*Node, error) {
	start := p.advance() // for
	if _, err := p.expect(tokOpenParen, "( after for"); err != nil {
		return nil, err
	}
	p.groupDepth++
	varTok, err := p.expect(tokIdentifier, "loop variable")
	if err != nil {
		return nil, err
	}
	loopVar := &Node{Kind: KindIdentifier, Text: varTok.text, Start: varTok.start, End: varTok.end}
	p.maybeSkipNewlines()
	if !p.atKeyword("in") {
		return nil, p.errorf(p.peek(), "expected `in` in for loop")
	}
	p.advance()
	seq, err := p.parseExpr(precLowest)
	if err != nil {
		return nil, err
	}
	_, err = p.expect(tokCloseParen, ") after for clause")
	p.groupDepth--
	if err != nil {
		return nil, err
	}
	body, err := p.parseExpr(precLowest)
	if err != nil {
		return nil, err
	}
	return &Node{Kind: KindFor, Start: start.start, End: body.End, Children: []*Node{loopVar, seq, body}}, nil
}

func (p *parser) parseWhile() (*Node, error) {
	start := p.advance() // while
	if _, err := p.expect(tokOpenParen, "( after while"); err != nil {
		return nil, err
	}
	p.groupDepth++
	cond, err := p.parseExpr(precLowest)
	if err != nil {
		return nil, err
	}
	_, err = p.expect(tokCloseParen, ") after while condition")
	p.groupDepth--
	if err != nil {
		return nil, err
	}
	body, err := p.parseExpr(precLowest)
	if err != nil {
		return nil, err
	}
	return &Node{Kind: KindWhile, Start: start.start, End: body.End, Children: []*Node{cond, body}}, nil
}

func (p *parser) parseRepeat() (*Node, error) {
	start := p.advance() // repeat
	body, err := p.parseExpr(precLowest)
	if err != nil {
		return nil, err
	}
	return &Node{Kind: KindRepeat, Start: start.start, End: body.End, Children: []*Node{body}}, nil
}

// parseFunctionTail parses `(params) body` after the `function` keyword or
// `\` lambda marker has been consumed.
func (p *parser) parseFunctionTail(start int) (*Node, error) {
	if _, err := p.expect(tokOpenParen, "( after function"); err != nil {
		return nil, err
	}
	p.groupDepth++
	var params []*Node
	for {
		p.maybeSkipNewlines()
		if p.at(tokCloseParen) {
			break
		}
		param, err := p.parseParameter()
		if err != nil {
			return nil, err
		}
		params = append(params, param)
		p.maybeSkipNewlines()
		if p.at(tokComma) {
			p.advance()
			continue
		}
		break
	}
	_, err := p.expect(tokCloseParen, ") after parameters")
	p.groupDepth--
	if err != nil {
		return nil, err
	}
	body, err := p.parseExpr(precLowest)
	if err != nil {
		return nil, err
	}
	children := append(params, body)
	return &Node{Kind: KindFunction, Start: start, End: body.End, Children: children}, nil
}

func (p *parser) parseParameter() (*Node, error) {
	nameTok, err := p.expect(tokIdentifier, "parameter name")
	if err != nil {
		return nil, err
	}
	param := &Node{Kind: KindParameter, Text: nameTok.text, Start: nameTok.start, End: nameTok.end}
	p.maybeSkipNewlines()
	if p.atOp("=") {
		p.advance()
		def, err := p.parseExpr(precTilde)
		if err != nil {
			return nil, err
		}
		param.Children = []*Node{def}
		param.End = def.End
	}
	return param, nil
}

func (p *parser) parsePostfix(left *Node) (*Node, error) {
	for {
		t := p.peek()
		switch {
		case t.kind == tokOperator && (t.text == "::" || t.text == ":::"):
			p.advance()
			p.maybeSkipNewlines()
			name, err := p.parsePrimaryName()
			if err != nil {
				return nil, err
			}
			left = &Node{Kind: KindNamespace, Op: t.text, Start: left.Start, End: name.End, Children: []*Node{left, name}}
		case t.kind == tokOperator && (t.text == "$" || t.text == "@"):
			p.advance()
			p.maybeSkipNewlines()
			name, err := p.parsePrimaryName()
			if err != nil {
				return nil, err
			}
			left = &Node{Kind: KindBinary, Op: t.text, Start: left.Start, End: name.End, Children: []*Node{left, name}}
		case t.kind == tokOpenParen:
			node, err := p.parseArguments(left, KindCall, tokCloseParen, ")")
			if err != nil {
				return nil, err
			}
			left = node
		case t.kind == tokOpenBracket:
			node, err := p.parseArguments(left, KindSubset, tokCloseBracket, "]")
			if err != nil {
				return nil, err
			}
			left = node
		case t.kind == tokOpenDoubleBrack:
			node, err := p.parseArguments(left, KindSubset2, tokCloseBracket, "]]")
			if err != nil {
				return nil, err
			}
			left = node
		default:
			return left, nil
		}
	}
}

// parsePrimaryName parses the right-hand side of ::, $ and @ accesses,
// which must be a simple name or string.
func (p *parser) parsePrimaryName() (*Node, error) {
	t := p.peek()
	switch t.kind {
	case tokIdentifier:
		p.advance()
		return &Node{Kind: KindIdentifier, Text: t.text, Start: t.start, End: t.end}, nil
	case tokString:
		p.advance()
		return &Node{Kind: KindString, Text: t.text, Start: t.start, End: t.end}, nil
	}
	return nil, p.errorf(t, "expected name after accessor")
}

func (p *parser) parseArguments(callee *Node, kind Kind, closer tokenKind, closerText string) (*Node, error) {
	p.advance()
	p.groupDepth++
	node := &Node{Kind: kind, Start: callee.Start, Children: []*Node{callee}}
	expectArg := true
	for {
		p.maybeSkipNewlines()
		t := p.peek()
		if t.kind == closer {
			break
		}
		if t.kind == tokComma {
			// Empty argument slot, as in x[, 1].
			if expectArg {
				node.Children = append(node.Children, &Node{Kind: KindArgument, Start: t.start, End: t.start})
			}
			p.advance()
			expectArg = true
			continue
		}
		arg, err := p.parseArgument()
		if err != nil {
			return nil, err
		}
		node.Children = append(node.Children, arg)
		expectArg = false
		p.maybeSkipNewlines()
		if p.at(tokComma) {
			p.advance()
			expectArg = true
		}
	}
	close, err := p.expect(closer, closerText)
	if err != nil {
		p.groupDepth--
		return nil, err
	}
	if kind == KindSubset2 {
		// [[ closes with two separate ] tokens.
		close, err = p.expect(tokCloseBracket, "]]")
		if err != nil {
			p.groupDepth--
			return nil, err
		}
	}
	p.groupDepth--
	node.End = close.end
	return node, nil
}

func (p *parser) parseArgument() (*Node, error) {
	t := p.peek()
	// Named argument: `name = value` where name is an identifier or string.
	if (t.kind == tokIdentifier || t.kind == tokString) && p.tokens[p.i+1].kind == tokOperator && p.tokens[p.i+1].text == "=" {
		p.advance() // name
		p.advance() // =
		p.maybeSkipNewlines()
		if p.at(tokComma) || p.at(tokCloseParen) || p.at(tokCloseBracket) {
			// `name =` with no value (missing default).
			return &Node{Kind: KindArgument, Text: t.text, Start: t.start, End: p.peek().start}, nil
		}
		value, err := p.parseExpr(precTilde)
		if err != nil {
			return nil, err
		}
		return &Node{Kind: KindArgument, Text: t.text, Start: t.start, End: value.End, Children: []*Node{value}}, nil
	}
	value, err := p.parseExpr(precLowest)
	if err != nil {
		return nil, err
	}
	return &Node{Kind: KindArgument, Start: value.Start, End: value.End, Children: []*Node{value}}, nil
}

// finalize assigns sequential IDs in pre-order and wires parent pointers.
func finalize(t *Tree) {
	id := 0
	var walk func(n *Node, parent *Node)
	walk = func(n *Node, parent *Node) {
		n.ID = id
		id++
		n.Parent = parent
		for _, c := range n.Children {
			walk(c, n)
		}
	}
	walk(t.Root, nil)
	t.nodes = id
}

// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

package opsrc

import (
	"math"
	"strconv"
	"strings"
	"text/scanner"

	"github.com/Parzival-05/spla/pkg/core/dtypes"
	"github.com/pkg/errors"
)

// binaryPrecedence of the C binary operators supported; higher binds tighter.
var binaryPrecedence = map[string]int{
	"||": 1,
	"&&": 2,
	"|":  3,
	"^":  4,
	"&":  5,
	"==": 6, "!=": 6,
	"<": 7, "<=": 7, ">": 7, ">=": 7,
	"<<": 8, ">>": 8,
	"+": 9, "-": 9,
	"*": 10, "/": 10, "%": 10,
}

var assignOperators = map[string]bool{
	"=": true, "+=": true, "-=": true, "*=": true, "/=": true, "%=": true,
	"&=": true, "|=": true, "^=": true, "<<=": true, ">>=": true,
}

// reservedWords can't be used as variable names.
var reservedWords = map[string]bool{
	"return": true, "if": true, "else": true, "const": true, "true": true, "false": true,
	"for": true, "while": true, "do": true, "switch": true, "case": true, "break": true,
	"continue": true, "goto": true, "void": true, "unsigned": true, "signed": true,
}

type parser struct {
	tokens []token
	next   int
}

func (p *parser) peek() token { return p.tokens[p.next] }

func (p *parser) peekAt(offset int) token {
	idx := min(p.next+offset, len(p.tokens)-1)
	return p.tokens[idx]
}

func (p *parser) advance() token {
	tok := p.tokens[p.next]
	if tok.kind != scanner.EOF {
		p.next++
	}
	return tok
}

func (p *parser) isPunct(text string) bool {
	tok := p.peek()
	return tok.kind == tokPunct && tok.text == text
}

func (p *parser) isIdent(text string) bool {
	tok := p.peek()
	return tok.kind == scanner.Ident && tok.text == text
}

func (p *parser) expectPunct(text string) (token, error) {
	tok := p.peek()
	if tok.kind != tokPunct || tok.text != text {
		return tok, errorAt(tok.pos, "expected %q, got %s", text, tok)
	}
	return p.advance(), nil
}

func errorAt(pos scanner.Position, format string, args ...any) error {
	return errors.Errorf("%s: "+format, append([]any{pos}, args...)...)
}

// parseFragment parses either a statement block or a bare expression (optionally followed by ";").
func parseFragment(source string) (body *blockStmt, bare bool, err error) {
	if strings.TrimSpace(source) == "" {
		return nil, false, errors.New("empty fragment")
	}
	tokens, err := tokenize(source)
	if err != nil {
		return nil, false, err
	}
	p := &parser{tokens: tokens}
	if p.isPunct("{") {
		body, err = p.parseBlock()
		if err != nil {
			return nil, false, err
		}
	} else {
		bare = true
		start := p.peek().pos
		var x expr
		x, err = p.parseExpr()
		if err != nil {
			return nil, false, err
		}
		if p.isPunct(";") {
			p.advance()
		}
		body = &blockStmt{pos: start, stmts: []stmt{&returnStmt{pos: start, x: x}}}
	}
	if tok := p.peek(); tok.kind != scanner.EOF {
		return nil, false, errorAt(tok.pos, "unexpected %s after end of fragment", tok)
	}
	return body, bare, nil
}

func (p *parser) parseBlock() (*blockStmt, error) {
	open, err := p.expectPunct("{")
	if err != nil {
		return nil, err
	}
	block := &blockStmt{pos: open.pos}
	for !p.isPunct("}") {
		if p.peek().kind == scanner.EOF {
			return nil, errorAt(p.peek().pos, "missing \"}\" for block opened at %s", open.pos)
		}
		s, err := p.parseStmt()
		if err != nil {
			return nil, err
		}
		block.stmts = append(block.stmts, s)
	}
	p.advance()
	return block, nil
}

func (p *parser) parseStmt() (stmt, error) {
	tok := p.peek()
	switch tok.kind {
	case tokPunct:
		switch tok.text {
		case "{":
			return p.parseBlock()
		case ";":
			p.advance()
			return &emptyStmt{pos: tok.pos}, nil
		}
		return nil, errorAt(tok.pos, "unexpected %s, expected a statement", tok)

	case scanner.Ident:
		switch tok.text {
		case "return":
			p.advance()
			x, err := p.parseExpr()
			if err != nil {
				return nil, err
			}
			if _, err = p.expectPunct(";"); err != nil {
				return nil, err
			}
			return &returnStmt{pos: tok.pos, x: x}, nil
		case "if":
			return p.parseIf()
		case "const":
			p.advance()
			if _, isType := typeKeywords[p.peek().text]; !isType || p.peek().kind != scanner.Ident {
				return nil, errorAt(p.peek().pos, "expected a type after \"const\", got %s", p.peek())
			}
			return p.parseDecl()
		case "for", "while", "do", "switch", "goto", "break", "continue":
			return nil, errorAt(tok.pos, "%q statements are not supported in operator fragments", tok.text)
		}
		if _, isType := typeKeywords[tok.text]; isType {
			return p.parseDecl()
		}
		if next := p.peekAt(1); next.kind == tokPunct && assignOperators[next.text] {
			p.advance()
			p.advance()
			x, err := p.parseExpr()
			if err != nil {
				return nil, err
			}
			if _, err = p.expectPunct(";"); err != nil {
				return nil, err
			}
			return &assignStmt{pos: tok.pos, name: tok.text, op: next.text, x: x}, nil
		}
	}
	return nil, errorAt(tok.pos, "unexpected %s, expected a statement", tok)
}

func (p *parser) parseIf() (stmt, error) {
	ifTok := p.advance()
	if _, err := p.expectPunct("("); err != nil {
		return nil, err
	}
	cond, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	if _, err = p.expectPunct(")"); err != nil {
		return nil, err
	}
	s := &ifStmt{pos: ifTok.pos, cond: cond}
	if s.then, err = p.parseStmt(); err != nil {
		return nil, err
	}
	if p.isIdent("else") {
		p.advance()
		if s.els, err = p.parseStmt(); err != nil {
			return nil, err
		}
	}
	return s, nil
}

func (p *parser) parseDecl() (stmt, error) {
	typeTok := p.advance()
	decl := &declStmt{pos: typeTok.pos, dtype: typeKeywords[typeTok.text]}
	for {
		nameTok := p.advance()
		if nameTok.kind != scanner.Ident {
			return nil, errorAt(nameTok.pos, "expected variable name, got %s", nameTok)
		}
		if reservedWords[nameTok.text] {
			return nil, errorAt(nameTok.pos, "%q is a reserved word", nameTok.text)
		}
		if _, isType := typeKeywords[nameTok.text]; isType {
			return nil, errorAt(nameTok.pos, "%q is a type name", nameTok.text)
		}
		var init expr
		if p.isPunct("=") {
			p.advance()
			var err error
			if init, err = p.parseExpr(); err != nil {
				return nil, err
			}
		}
		decl.names = append(decl.names, nameTok.text)
		decl.inits = append(decl.inits, init)
		if !p.isPunct(",") {
			break
		}
		p.advance()
	}
	if _, err := p.expectPunct(";"); err != nil {
		return nil, err
	}
	return decl, nil
}

func (p *parser) parseExpr() (expr, error) {
	cond, err := p.parseBinary(1)
	if err != nil {
		return nil, err
	}
	if !p.isPunct("?") {
		return cond, nil
	}
	question := p.advance()
	x, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	if _, err = p.expectPunct(":"); err != nil {
		return nil, err
	}
	y, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	return &ternaryExpr{pos: question.pos, cond: cond, x: x, y: y}, nil
}

func (p *parser) parseBinary(minPrecedence int) (expr, error) {
	x, err := p.parseUnary()
	if err != nil {
		return nil, err
	}
	for {
		tok := p.peek()
		if tok.kind != tokPunct {
			return x, nil
		}
		precedence, found := binaryPrecedence[tok.text]
		if !found || precedence < minPrecedence {
			return x, nil
		}
		p.advance()
		y, err := p.parseBinary(precedence + 1)
		if err != nil {
			return nil, err
		}
		x = &binaryExpr{pos: tok.pos, op: tok.text, x: x, y: y}
	}
}

func (p *parser) parseUnary() (expr, error) {
	tok := p.peek()
	if tok.kind == tokPunct {
		switch tok.text {
		case "-", "+", "!", "~":
			p.advance()
			x, err := p.parseUnary()
			if err != nil {
				return nil, err
			}
			return &unaryExpr{pos: tok.pos, op: tok.text, x: x}, nil
		case "++", "--":
			return nil, errorAt(tok.pos, "increment and decrement operators are not supported in operator fragments")
		case "(":
			// Cast: "(type) expr".
			typeTok, closeTok := p.peekAt(1), p.peekAt(2)
			if dtype, isType := typeKeywords[typeTok.text]; isType && typeTok.kind == scanner.Ident &&
				closeTok.kind == tokPunct && closeTok.text == ")" {
				p.advance()
				p.advance()
				p.advance()
				x, err := p.parseUnary()
				if err != nil {
					return nil, err
				}
				return &castExpr{pos: tok.pos, dtype: dtype, x: x}, nil
			}
		}
	}
	return p.parsePrimary()
}

func (p *parser) parsePrimary() (expr, error) {
	tok := p.advance()
	switch tok.kind {
	case scanner.Int:
		return parseIntLiteral(tok)
	case scanner.Float:
		value, err := strconv.ParseFloat(tok.text, 32)
		if err != nil {
			return nil, errorAt(tok.pos, "invalid float literal %s", tok)
		}
		return &literalExpr{pos: tok.pos, dtype: dtypes.Float32, word: math.Float32bits(float32(value))}, nil
	case scanner.Ident:
		switch tok.text {
		case "true":
			return &literalExpr{pos: tok.pos, dtype: dtypes.Bool, word: 1}, nil
		case "false":
			return &literalExpr{pos: tok.pos, dtype: dtypes.Bool, word: 0}, nil
		}
		if reservedWords[tok.text] {
			return nil, errorAt(tok.pos, "unexpected keyword %s in expression", tok)
		}
		if !p.isPunct("(") {
			return &identExpr{pos: tok.pos, name: tok.text}, nil
		}
		p.advance()
		call := &callExpr{pos: tok.pos, name: tok.text}
		if p.isPunct(")") {
			p.advance()
			return call, nil
		}
		for {
			arg, err := p.parseExpr()
			if err != nil {
				return nil, err
			}
			call.args = append(call.args, arg)
			if p.isPunct(",") {
				p.advance()
				continue
			}
			if _, err = p.expectPunct(")"); err != nil {
				return nil, err
			}
			return call, nil
		}
	case tokPunct:
		if tok.text == "(" {
			x, err := p.parseExpr()
			if err != nil {
				return nil, err
			}
			if _, err = p.expectPunct(")"); err != nil {
				return nil, err
			}
			return x, nil
		}
	}
	return nil, errorAt(tok.pos, "unexpected %s, expected an expression", tok)
}

// parseIntLiteral follows C rules loosely: literals that fit int are int, otherwise (or with the "u"
// suffix) they must fit uint.
func parseIntLiteral(tok token) (expr, error) {
	text, unsigned := strings.CutSuffix(tok.text, "u")
	value, err := strconv.ParseUint(text, 0, 64)
	if err != nil || value > math.MaxUint32 {
		return nil, errorAt(tok.pos, "integer literal %s out of range", tok)
	}
	if !unsigned && value <= math.MaxInt32 {
		return &literalExpr{pos: tok.pos, dtype: dtypes.Int32, word: uint32(value)}, nil
	}
	return &literalExpr{pos: tok.pos, dtype: dtypes.Uint32, word: uint32(value)}, nil
}

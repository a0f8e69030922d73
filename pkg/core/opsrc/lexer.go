// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

package opsrc

import (
	"strings"
	"text/scanner"

	"github.com/pkg/errors"
)

// tokenKind classifies a token: scanner.EOF, scanner.Ident, scanner.Int, scanner.Float or tokPunct.
type tokenKind = rune

// tokPunct is the kind of operators and punctuation; the token text holds the actual symbol.
const tokPunct tokenKind = -100

type token struct {
	kind tokenKind
	text string
	pos  scanner.Position
}

func (t token) String() string {
	if t.kind == scanner.EOF {
		return "end of fragment"
	}
	return "\"" + t.text + "\""
}

// tokenize splits the fragment source into tokens. Comments are skipped.
func tokenize(source string) ([]token, error) {
	var s scanner.Scanner
	s.Init(strings.NewReader(source))
	s.Mode = scanner.ScanIdents | scanner.ScanInts | scanner.ScanFloats | scanner.ScanComments | scanner.SkipComments
	var firstErr error
	s.Error = func(s *scanner.Scanner, msg string) {
		if firstErr == nil {
			firstErr = errors.Errorf("%s: %s", s.Pos(), msg)
		}
	}

	var tokens []token
	for {
		kind := s.Scan()
		if firstErr != nil {
			return nil, firstErr
		}
		tok := token{kind: kind, text: s.TokenText(), pos: s.Position}
		switch kind {
		case scanner.EOF:
			tokens = append(tokens, tok)
			return tokens, nil
		case scanner.Ident:
		case scanner.Int:
			// C suffix "u" makes the literal unsigned.
			if next := s.Peek(); next == 'u' || next == 'U' {
				s.Next()
				tok.text += "u"
			}
		case scanner.Float:
			if next := s.Peek(); next == 'f' || next == 'F' {
				s.Next()
			}
		default:
			tok.kind = tokPunct
			tok.text = scanOperator(&s, kind)
		}
		tokens = append(tokens, tok)
	}
}

// scanOperator extends the single character first into the longest C operator starting with it.
func scanOperator(s *scanner.Scanner, first rune) string {
	text := string(first)
	next := s.Peek()
	switch first {
	case '<', '>':
		if next == first {
			s.Next()
			text += string(first)
			if s.Peek() == '=' {
				s.Next()
				text += "="
			}
		} else if next == '=' {
			s.Next()
			text += "="
		}
	case '&', '|', '+', '-':
		if next == first || next == '=' {
			s.Next()
			text += string(next)
		}
	case '=', '!', '*', '/', '%', '^':
		if next == '=' {
			s.Next()
			text += "="
		}
	}
	return text
}

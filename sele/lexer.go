/*
 * lexer.go, part of dockprep.
 *
 * Copyright 2025 Raul Mera <rmeraa{at}academicos(dot)uta(dot)cl>
 *
 * This program is free software; you can redistribute it and/or modify
 * it under the terms of the GNU Lesser General Public License as
 * published by the Free Software Foundation; either version 2.1 of the
 * License, or (at your option) any later version.
 *
 * This program is distributed in the hope that it will be useful,
 * but WITHOUT ANY WARRANTY; without even the implied warranty of
 * MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
 * GNU General Public License for more details.
 *
 * You should have received a copy of the GNU Lesser General
 * Public License along with this program.  If not, see
 * <http://www.gnu.org/licenses/>.
 *
 * dockprep is developed at Universidad de Tarapaca (UTA)
 *
 */

package sele

import (
	"strings"
)

type tokKind int

const (
	tEOF tokKind = iota
	tWord
	tString //quoted
	tLParen
	tRParen
	tOp  //comparisons
	tNot //!
	tAnd //&&
	tOr  //||
)

type token struct {
	kind tokKind
	text string
	pos  int
}

// wordOps are the spelled-out forms of the comparison operators.
var wordOps = map[string]string{
	"eq": "==",
	"ne": "!=",
	"lt": "<",
	"le": "<=",
	"gt": ">",
	"ge": ">=",
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r'
}

func isDelim(c byte) bool {
	return isSpace(c) || strings.IndexByte("()\"=!<>&|", c) >= 0
}

// lex splits a selection expression in tokens.
func lex(expr string) ([]token, error) {
	var toks []token
	i := 0
	n := len(expr)
	for i < n {
		c := expr[i]
		switch {
		case isSpace(c):
			i++
		case c == '(':
			toks = append(toks, token{tLParen, "(", i})
			i++
		case c == ')':
			toks = append(toks, token{tRParen, ")", i})
			i++
		case c == '\'' || c == '"':
			end := strings.IndexByte(expr[i+1:], c)
			if end < 0 {
				return nil, &SyntaxError{Expr: expr, Pos: i, Msg: "unterminated quoted string"}
			}
			toks = append(toks, token{tString, expr[i+1 : i+1+end], i})
			i += end + 2
		case c == '&' || c == '|':
			if i+1 >= n || expr[i+1] != c {
				return nil, &SyntaxError{Expr: expr, Pos: i, Msg: "unexpected character " + string(c)}
			}
			k := tAnd
			if c == '|' {
				k = tOr
			}
			toks = append(toks, token{k, expr[i : i+2], i})
			i += 2
		case c == '=' || c == '!' || c == '<' || c == '>':
			if i+1 < n && expr[i+1] == '=' {
				toks = append(toks, token{tOp, expr[i : i+2], i})
				i += 2
				continue
			}
			switch c {
			case '=':
				return nil, &SyntaxError{Expr: expr, Pos: i, Msg: "single '=', use '=='"}
			case '!':
				toks = append(toks, token{tNot, "!", i})
			default:
				toks = append(toks, token{tOp, string(c), i})
			}
			i++
		default:
			j := i
			for j < n && !isDelim(expr[j]) {
				j++
			}
			toks = append(toks, token{tWord, expr[i:j], i})
			i = j
		}
	}
	toks = append(toks, token{tEOF, "", n})
	return toks, nil
}

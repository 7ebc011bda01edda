/*
 * sele.go, part of dockprep.
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

/*
Package sele implements a small atom selection language, in the style of the one used by
MDTraj and VMD. Some examples:

	protein and backbone and not element H
	resname LIG or (chain B and resSeq 10 to 20)
	name CA CB and resid 0:9
	not water and mass > 2

Boolean keywords: all, none, protein, nucleic, backbone, sidechain, water, hetero.
Value keywords: name, resname, resid (residue ordinal, from 0), resSeq (residue number in
the file), index (atom ordinal, from 0), serial, chainid (chain ordinal, from 0), chain (chain
identifier), element, rescode and mass. A keyword followed by several values selects atoms
matching any of them. Numeric values admit ranges ("1 to 5", "1:5") and comparisons
(==, !=, <, <=, >, >=, or eq, ne, lt, le, gt, ge). Operators are not (!), and (&&),
or (||), in order of precedence, and parentheses.
*/
package sele

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	chem "github.com/rmera/dockprep"
)

// ErrNoMatch is returned by SelectNonEmpty when the selection is valid, but no atom matches it.
var ErrNoMatch = errors.New("no atoms matched the selection")

// SyntaxError is returned for selection expressions that can't be parsed.
type SyntaxError struct {
	Expr string
	Pos  int
	Msg  string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("invalid selection %q: %s (at position %d)", e.Expr, e.Msg, e.Pos)
}

// Node is a parsed selection, which can be evaluated on atoms.
type Node interface {
	Match(at *chem.Atom) bool
}

type boolNode func(*chem.Atom) bool

func (b boolNode) Match(at *chem.Atom) bool { return b(at) }

type notNode struct{ n Node }

func (n notNode) Match(at *chem.Atom) bool { return !n.n.Match(at) }

type andNode struct{ l, r Node }

func (n andNode) Match(at *chem.Atom) bool { return n.l.Match(at) && n.r.Match(at) }

type orNode struct{ l, r Node }

func (n orNode) Match(at *chem.Atom) bool { return n.l.Match(at) || n.r.Match(at) }

var sidechainExcluded = map[string]bool{"N": true, "CA": true, "C": true, "O": true, "H": true, "HA": true}

var boolKeywords = map[string]boolNode{
	"all":          func(*chem.Atom) bool { return true },
	"everything":   func(*chem.Atom) bool { return true },
	"none":         func(*chem.Atom) bool { return false },
	"nothing":      func(*chem.Atom) bool { return false },
	"protein":      (*chem.Atom).IsProtein,
	"is_protein":   (*chem.Atom).IsProtein,
	"nucleic":      (*chem.Atom).IsNucleic,
	"is_nucleic":   (*chem.Atom).IsNucleic,
	"backbone":     (*chem.Atom).IsBackbone,
	"is_backbone":  (*chem.Atom).IsBackbone,
	"sidechain":    isSidechain,
	"is_sidechain": isSidechain,
	"water":        (*chem.Atom).IsWater,
	"waters":       (*chem.Atom).IsWater,
	"is_water":     (*chem.Atom).IsWater,
	"hetero":       func(a *chem.Atom) bool { return a.Het },
}

func isSidechain(a *chem.Atom) bool {
	return a.IsProtein() && !sidechainExcluded[a.Name]
}

// field describes an atom property usable with a value keyword.
type field struct {
	numeric bool
	fold    bool //case-insensitive string comparison
	str     func(*chem.Atom) string
	num     func(*chem.Atom) float64
}

var fields = map[string]field{
	"name":    {str: func(a *chem.Atom) string { return a.Name }},
	"resname": {str: func(a *chem.Atom) string { return a.MolName }},
	"resn":    {str: func(a *chem.Atom) string { return a.MolName }},
	"chain":   {str: func(a *chem.Atom) string { return a.Chain }},
	"element": {str: func(a *chem.Atom) string { return a.Symbol }, fold: true},
	"symbol":  {str: func(a *chem.Atom) string { return a.Symbol }, fold: true},
	"rescode": {str: rescode},
	"resid":   {numeric: true, num: func(a *chem.Atom) float64 { return float64(a.ResIndex()) }},
	"resseq":  {numeric: true, num: func(a *chem.Atom) float64 { return float64(a.MolID) }},
	"resnum":  {numeric: true, num: func(a *chem.Atom) float64 { return float64(a.MolID) }},
	"index":   {numeric: true, num: func(a *chem.Atom) float64 { return float64(a.Index()) }},
	"serial":  {numeric: true, num: func(a *chem.Atom) float64 { return float64(a.ID) }},
	"chainid": {numeric: true, num: func(a *chem.Atom) float64 { return float64(a.ChainIndex()) }},
	"mass":    {numeric: true, num: (*chem.Atom).Mass},
}

func rescode(a *chem.Atom) string {
	if a.MolName1 == 0 {
		return ""
	}
	return string(a.MolName1)
}

// Select returns the sorted indexes of the atoms in top that match the selection expr.
// An invalid expression gives a *SyntaxError. A valid selection matching nothing
// gives an empty slice and no error.
func Select(top chem.Atomer, expr string) ([]int, error) {
	n, err := Parse(expr)
	if err != nil {
		return nil, err
	}
	ret := make([]int, 0, top.Len()/4)
	for i := 0; i < top.Len(); i++ {
		if n.Match(top.Atom(i)) {
			ret = append(ret, i)
		}
	}
	return ret, nil
}

// SelectNonEmpty is like Select, but returns an error wrapping ErrNoMatch if no atoms match.
func SelectNonEmpty(top chem.Atomer, expr string) ([]int, error) {
	r, err := Select(top, expr)
	if err != nil {
		return nil, err
	}
	if len(r) == 0 {
		return nil, fmt.Errorf("%q: %w", expr, ErrNoMatch)
	}
	return r, nil
}

// Parse parses a selection expression.
func Parse(expr string) (Node, error) {
	toks, err := lex(expr)
	if err != nil {
		return nil, err
	}
	p := &parser{toks: toks, expr: expr}
	if p.peek().kind == tEOF {
		return nil, p.errorf("empty selection")
	}
	n, err := p.or()
	if err != nil {
		return nil, err
	}
	if t := p.peek(); t.kind != tEOF {
		return nil, p.errorf("unexpected %q", t.text)
	}
	return n, nil
}

type parser struct {
	toks []token
	i    int
	expr string
}

func (p *parser) peek() token { return p.toks[p.i] }

func (p *parser) next() token {
	t := p.toks[p.i]
	if t.kind != tEOF {
		p.i++
	}
	return t
}

func (p *parser) errorf(format string, args ...any) error {
	return &SyntaxError{Expr: p.expr, Pos: p.peek().pos, Msg: fmt.Sprintf(format, args...)}
}

func (p *parser) isWord(w string) bool {
	t := p.peek()
	return t.kind == tWord && strings.ToLower(t.text) == w
}

func (p *parser) or() (Node, error) {
	l, err := p.and()
	if err != nil {
		return nil, err
	}
	for p.isWord("or") || p.peek().kind == tOr {
		p.next()
		r, err := p.and()
		if err != nil {
			return nil, err
		}
		l = orNode{l, r}
	}
	return l, nil
}

func (p *parser) and() (Node, error) {
	l, err := p.not()
	if err != nil {
		return nil, err
	}
	for p.isWord("and") || p.peek().kind == tAnd {
		p.next()
		r, err := p.not()
		if err != nil {
			return nil, err
		}
		l = andNode{l, r}
	}
	return l, nil
}

func (p *parser) not() (Node, error) {
	if p.isWord("not") || p.peek().kind == tNot {
		p.next()
		n, err := p.not()
		if err != nil {
			return nil, err
		}
		return notNode{n}, nil
	}
	return p.primary()
}

func (p *parser) primary() (Node, error) {
	t := p.peek()
	switch t.kind {
	case tLParen:
		p.next()
		n, err := p.or()
		if err != nil {
			return nil, err
		}
		if p.peek().kind != tRParen {
			return nil, p.errorf("expected ')'")
		}
		p.next()
		return n, nil
	case tWord:
		kw := strings.ToLower(t.text)
		if b, ok := boolKeywords[kw]; ok {
			p.next()
			return b, nil
		}
		if f, ok := fields[kw]; ok {
			p.next()
			return p.values(kw, f)
		}
		return nil, p.errorf("unknown keyword %q", t.text)
	case tEOF:
		return nil, p.errorf("unexpected end of selection")
	}
	return nil, p.errorf("unexpected %q", t.text)
}

// endOfValues returns true if the next token can't be a value.
func (p *parser) endOfValues() bool {
	t := p.peek()
	if t.kind == tString {
		return false
	}
	if t.kind != tWord {
		return true
	}
	switch strings.ToLower(t.text) {
	case "and", "or", "not":
		return true
	}
	return false
}

// values parses what follows a value keyword: a comparison or a list of values and ranges.
func (p *parser) values(kw string, f field) (Node, error) {
	op := ""
	if t := p.peek(); t.kind == tOp {
		op = t.text
	} else if t.kind == tWord && wordOps[strings.ToLower(t.text)] != "" {
		op = wordOps[strings.ToLower(t.text)]
	}
	if op != "" {
		p.next()
		if p.endOfValues() {
			return nil, p.errorf("expected a value after %s %s", kw, op)
		}
		v := p.next()
		return p.comparison(kw, f, op, v)
	}
	var matchers []Node
	for !p.endOfValues() {
		v := p.next()
		if f.numeric {
			m, err := p.numericValue(f, v)
			if err != nil {
				return nil, err
			}
			matchers = append(matchers, m)
			continue
		}
		val := v.text
		if f.fold {
			matchers = append(matchers, boolNode(func(a *chem.Atom) bool { return strings.EqualFold(f.str(a), val) }))
		} else {
			matchers = append(matchers, boolNode(func(a *chem.Atom) bool { return f.str(a) == val }))
		}
	}
	if len(matchers) == 0 {
		return nil, p.errorf("expected a value after %s", kw)
	}
	var n Node = matchers[0]
	for _, m := range matchers[1:] {
		n = orNode{n, m}
	}
	return n, nil
}

func (p *parser) number(t token) (float64, error) {
	f, err := strconv.ParseFloat(t.text, 64)
	if err != nil {
		return 0, &SyntaxError{Expr: p.expr, Pos: t.pos, Msg: fmt.Sprintf("%q is not a number", t.text)}
	}
	return f, nil
}

// numericValue parses a number, a range "a to b" or a range "a:b".
func (p *parser) numericValue(f field, v token) (Node, error) {
	if lo, hi, ok := strings.Cut(v.text, ":"); ok && v.kind == tWord {
		l, err := p.number(token{tWord, lo, v.pos})
		if err != nil {
			return nil, err
		}
		h, err := p.number(token{tWord, hi, v.pos + len(lo) + 1})
		if err != nil {
			return nil, err
		}
		return rangeNode(f, l, h), nil
	}
	l, err := p.number(v)
	if err != nil {
		return nil, err
	}
	if p.isWord("to") {
		p.next()
		if p.endOfValues() {
			return nil, p.errorf("expected a value after 'to'")
		}
		h, err := p.number(p.next())
		if err != nil {
			return nil, err
		}
		return rangeNode(f, l, h), nil
	}
	return boolNode(func(a *chem.Atom) bool { return f.num(a) == l }), nil
}

func rangeNode(f field, lo, hi float64) Node {
	return boolNode(func(a *chem.Atom) bool {
		v := f.num(a)
		return v >= lo && v <= hi
	})
}

func (p *parser) comparison(kw string, f field, op string, v token) (Node, error) {
	if !f.numeric {
		val := v.text
		eq := func(a *chem.Atom) bool { return f.str(a) == val }
		if f.fold {
			eq = func(a *chem.Atom) bool { return strings.EqualFold(f.str(a), val) }
		}
		switch op {
		case "==":
			return boolNode(eq), nil
		case "!=":
			return notNode{boolNode(eq)}, nil
		}
		return nil, &SyntaxError{Expr: p.expr, Pos: v.pos, Msg: fmt.Sprintf("operator %s can't be used with %s", op, kw)}
	}
	x, err := p.number(v)
	if err != nil {
		return nil, err
	}
	var cmp func(float64) bool
	switch op {
	case "==":
		cmp = func(y float64) bool { return y == x }
	case "!=":
		cmp = func(y float64) bool { return y != x }
	case "<":
		cmp = func(y float64) bool { return y < x }
	case "<=":
		cmp = func(y float64) bool { return y <= x }
	case ">":
		cmp = func(y float64) bool { return y > x }
	case ">=":
		cmp = func(y float64) bool { return y >= x }
	}
	return boolNode(func(a *chem.Atom) bool { return cmp(f.num(a)) }), nil
}

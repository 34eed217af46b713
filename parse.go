package jsonpath

import (
	"fmt"
	"strconv"
	"strings"
)

const (
	powLowest = iota
	powOr
	powAnd
	powCmp
	powNot
)

var bindings = map[rune]int{
	Or:  powOr,
	And: powAnd,
	Eq:  powCmp,
	Ne:  powCmp,
	Lt:  powCmp,
	Le:  powCmp,
	Gt:  powCmp,
	Ge:  powCmp,
}

type parser struct {
	scan *Scanner
	curr Token
	peek Token

	env *Environment
}

func (p *parser) Parse() ([]Segment, error) {
	if p.curr.Type != Root {
		return nil, p.errCurr("expected '$'")
	}
	p.next()
	segments, err := p.parseSegments()
	if err != nil {
		return nil, err
	}
	if p.curr.Type != EOF {
		return nil, p.errCurr(fmt.Sprintf("unexpected token %s", p.curr))
	}
	return segments, nil
}

func (p *parser) parseSegments() ([]Segment, error) {
	var list []Segment
	for {
		switch p.curr.Type {
		case DotDot:
			p.next()
			selectors, err := p.parseSelectors()
			if err != nil {
				return nil, err
			}
			if len(selectors) == 0 {
				return nil, p.errCurr("bald descendant segment")
			}
			list = append(list, &descendantSegment{selectors: selectors})
		case Property, Wildcard, BegBrk:
			selectors, err := p.parseSelectors()
			if err != nil {
				return nil, err
			}
			list = append(list, &childSegment{selectors: selectors})
		default:
			return list, nil
		}
	}
}

func (p *parser) parseSelectors() ([]Selector, error) {
	switch p.curr.Type {
	case Property:
		sel := &nameSelector{
			name: p.curr.Literal,
		}
		p.next()
		return []Selector{sel}, nil
	case Wildcard:
		p.next()
		return []Selector{wildSelector{}}, nil
	case BegBrk:
		return p.parseBracketed()
	default:
		return nil, nil
	}
}

func (p *parser) parseBracketed() ([]Selector, error) {
	p.next()
	var list []Selector
	for p.curr.Type != EndBrk {
		var (
			sel Selector
			err error
		)
		switch p.curr.Type {
		case Integer:
			if p.peek.Type == Colon {
				sel, err = p.parseSlice()
			} else {
				sel, err = p.parseIndex()
			}
		case String:
			sel = &nameSelector{
				name: p.curr.Literal,
			}
			p.next()
		case Colon:
			sel, err = p.parseSlice()
		case Wildcard:
			sel = wildSelector{}
			p.next()
		case Filter:
			sel, err = p.parseFilter()
		case EOF:
			return nil, syntaxError("unexpected end of query", p.curr)
		default:
			return nil, p.errCurr("unexpected token in bracketed selection")
		}
		if err != nil {
			return nil, err
		}
		list = append(list, sel)
		switch p.curr.Type {
		case Comma:
			p.next()
			if p.curr.Type == EndBrk {
				return nil, syntaxError("trailing comma in bracketed selection", p.curr)
			}
		case EndBrk:
		default:
			return nil, p.errCurr("expected ',' or ']'")
		}
	}
	if len(list) == 0 {
		return nil, syntaxError("empty bracketed segment", p.curr)
	}
	p.next()
	return list, nil
}

func (p *parser) parseIndex() (Selector, error) {
	ix, err := p.parseIndexValue()
	if err != nil {
		return nil, err
	}
	p.next()
	sel := indexSelector{
		index: ix,
	}
	return &sel, nil
}

func (p *parser) parseIndexValue() (int, error) {
	lit := p.curr.Literal
	if strings.HasPrefix(lit, "-0") || (len(lit) > 1 && lit[0] == '0') {
		return 0, syntaxError(fmt.Sprintf("invalid index %q", lit), p.curr)
	}
	n, err := strconv.ParseInt(lit, 10, 64)
	if err != nil || n > maxIntIndex || n < minIntIndex {
		return 0, syntaxError("index out of range", p.curr)
	}
	return int(n), nil
}

func (p *parser) parseSlice() (Selector, error) {
	var sel sliceSelector
	if p.curr.Type == Integer {
		ix, err := p.parseIndexValue()
		if err != nil {
			return nil, err
		}
		sel.start = &ix
		p.next()
	}
	if p.curr.Type != Colon {
		return nil, p.errCurr("expected ':' in slice selector")
	}
	p.next()
	if p.curr.Type == Integer {
		ix, err := p.parseIndexValue()
		if err != nil {
			return nil, err
		}
		sel.stop = &ix
		p.next()
	}
	if p.curr.Type == Colon {
		p.next()
		if p.curr.Type == Integer {
			ix, err := p.parseIndexValue()
			if err != nil {
				return nil, err
			}
			sel.step = &ix
			p.next()
		}
	}
	return &sel, nil
}

func (p *parser) parseFilter() (Selector, error) {
	tok := p.curr
	p.next()
	expr, err := p.parseFilterExpr(powLowest)
	if err != nil {
		return nil, err
	}
	if err := p.checkLogical(expr, tok); err != nil {
		return nil, err
	}
	sel := filterSelector{
		expr: expr,
	}
	return &sel, nil
}

func (p *parser) parseFilterExpr(pow int) (filterExpr, error) {
	left, err := p.parseAtom()
	if err != nil {
		return nil, err
	}
	for pow < bindings[p.curr.Type] {
		left, err = p.parseInfix(left)
		if err != nil {
			return nil, err
		}
	}
	return left, nil
}

func (p *parser) parseAtom() (filterExpr, error) {
	switch p.curr.Type {
	case String:
		defer p.next()
		return &literalExpr{value: p.curr.Literal}, nil
	case Integer:
		return p.parseIntLiteral()
	case Number:
		return p.parseNumberLiteral()
	case Boolean:
		defer p.next()
		return &literalExpr{value: p.curr.Literal == "true"}, nil
	case Null:
		defer p.next()
		return &literalExpr{value: nil}, nil
	case Root, Current:
		return p.parseQueryExpr()
	case Not:
		return p.parseNot()
	case BegGrp:
		return p.parseGroup()
	case Func:
		return p.parseFunction()
	default:
		return nil, p.errCurr("unexpected token in filter expression")
	}
}

func (p *parser) parseIntLiteral() (filterExpr, error) {
	lit := p.curr.Literal
	if invalidNumber(lit) {
		return nil, syntaxError(fmt.Sprintf("invalid number literal %q", lit), p.curr)
	}
	f, err := strconv.ParseFloat(lit, 64)
	if err != nil {
		return nil, syntaxError(fmt.Sprintf("invalid number literal %q", lit), p.curr)
	}
	p.next()
	return &literalExpr{value: int64(f)}, nil
}

func (p *parser) parseNumberLiteral() (filterExpr, error) {
	lit := p.curr.Literal
	if invalidNumber(lit) {
		return nil, syntaxError(fmt.Sprintf("invalid number literal %q", lit), p.curr)
	}
	f, err := strconv.ParseFloat(lit, 64)
	if err != nil {
		return nil, syntaxError(fmt.Sprintf("invalid number literal %q", lit), p.curr)
	}
	p.next()
	return &literalExpr{value: f}, nil
}

func (p *parser) parseQueryExpr() (filterExpr, error) {
	rel := p.curr.Type == Current
	p.next()
	segments, err := p.parseSegments()
	if err != nil {
		return nil, err
	}
	expr := queryExpr{
		rel:      rel,
		segments: segments,
	}
	return &expr, nil
}

func (p *parser) parseNot() (filterExpr, error) {
	tok := p.curr
	p.next()
	right, err := p.parseFilterExpr(powNot)
	if err != nil {
		return nil, err
	}
	if err := p.checkLogical(right, tok); err != nil {
		return nil, err
	}
	expr := notExpr{
		expr: right,
	}
	return &expr, nil
}

func (p *parser) parseGroup() (filterExpr, error) {
	tok := p.curr
	p.next()
	inner, err := p.parseFilterExpr(powLowest)
	if err != nil {
		return nil, err
	}
	if p.curr.Type != EndGrp {
		return nil, p.errCurr("unbalanced parentheses")
	}
	p.next()
	if err := p.checkLogical(inner, tok); err != nil {
		return nil, err
	}
	expr := groupExpr{
		expr: inner,
	}
	return &expr, nil
}

func (p *parser) parseFunction() (filterExpr, error) {
	tok := p.curr
	fn, ok := p.env.function(tok.Literal)
	if !ok {
		return nil, typeError(fmt.Sprintf("function %q is not defined", tok.Literal), tok)
	}
	p.next()
	var args []filterExpr
	for p.curr.Type != EndGrp {
		if p.curr.Type == EOF {
			return nil, syntaxError("unbalanced parentheses", p.curr)
		}
		arg, err := p.parseFilterExpr(powLowest)
		if err != nil {
			return nil, err
		}
		args = append(args, arg)
		switch p.curr.Type {
		case Comma:
			p.next()
			if p.curr.Type == EndGrp {
				return nil, syntaxError("trailing comma", p.curr)
			}
		case EndGrp:
		default:
			return nil, p.errCurr("expected ',' or ')'")
		}
	}
	p.next()
	if err := p.checkFunction(tok, fn, args); err != nil {
		return nil, err
	}
	expr := funcExpr{
		name: tok.Literal,
		fn:   fn,
		args: args,
	}
	return &expr, nil
}

func (p *parser) parseInfix(left filterExpr) (filterExpr, error) {
	var (
		tok = p.curr
		pow = bindings[tok.Type]
	)
	p.next()
	right, err := p.parseFilterExpr(pow)
	if err != nil {
		return nil, err
	}
	if tok.Type == And || tok.Type == Or {
		if err := p.checkLogical(left, tok); err != nil {
			return nil, err
		}
		if err := p.checkLogical(right, tok); err != nil {
			return nil, err
		}
		expr := logicalExpr{
			left:  left,
			right: right,
			op:    tok.Type,
		}
		return &expr, nil
	}
	if err := p.checkComparable(left, tok); err != nil {
		return nil, err
	}
	if err := p.checkComparable(right, tok); err != nil {
		return nil, err
	}
	expr := comparisonExpr{
		left:  left,
		right: right,
		op:    tok.Type,
	}
	return &expr, nil
}

func (p *parser) checkLogical(expr filterExpr, tok Token) error {
	switch e := expr.(type) {
	case *literalExpr:
		return typeError("filter expression literals must be compared", tok)
	case *funcExpr:
		if e.fn.Ret == ValueType {
			return typeError(fmt.Sprintf("result of %s() must be compared", e.name), tok)
		}
	}
	return nil
}

func (p *parser) checkComparable(expr filterExpr, tok Token) error {
	switch e := expr.(type) {
	case *literalExpr:
		return nil
	case *queryExpr:
		if !singularQuery(e.segments) {
			return typeError("non-singular query is not comparable", tok)
		}
		return nil
	case *funcExpr:
		if e.fn.Ret != ValueType {
			return typeError(fmt.Sprintf("result of %s() is not comparable", e.name), tok)
		}
		return nil
	default:
		return typeError("expression is not comparable", tok)
	}
}

func (p *parser) checkFunction(tok Token, fn *Function, args []filterExpr) error {
	if len(args) != len(fn.Args) {
		return typeError(fmt.Sprintf("%s() requires %d arguments", tok.Literal, len(fn.Args)), tok)
	}
	for i, typ := range fn.Args {
		var ok bool
		switch typ {
		case ValueType:
			ok = isValueArg(args[i])
		case LogicalType:
			ok = isLogicalArg(args[i])
		case NodesType:
			ok = isNodesArg(args[i])
		}
		if !ok {
			return typeError(fmt.Sprintf("%s() argument %d must be of %s", tok.Literal, i, typ), tok)
		}
	}
	return nil
}

func isValueArg(expr filterExpr) bool {
	switch e := expr.(type) {
	case *literalExpr:
		return true
	case *queryExpr:
		return singularQuery(e.segments)
	case *funcExpr:
		return e.fn.Ret == ValueType
	default:
		return false
	}
}

func isLogicalArg(expr filterExpr) bool {
	switch e := expr.(type) {
	case *queryExpr, *comparisonExpr, *logicalExpr, *notExpr, *groupExpr:
		return true
	case *funcExpr:
		return e.fn.Ret == LogicalType
	default:
		return false
	}
}

func isNodesArg(expr filterExpr) bool {
	switch e := expr.(type) {
	case *queryExpr:
		return true
	case *funcExpr:
		return e.fn.Ret == NodesType
	default:
		return false
	}
}

func singularQuery(segments []Segment) bool {
	for _, seg := range segments {
		child, ok := seg.(*childSegment)
		if !ok || len(child.selectors) != 1 {
			return false
		}
		switch child.selectors[0].(type) {
		case *nameSelector, *indexSelector:
		default:
			return false
		}
	}
	return true
}

func invalidNumber(lit string) bool {
	rest := strings.TrimPrefix(lit, "-")
	return len(rest) > 1 && rest[0] == '0' && isDigit(rune(rest[1]))
}

func (p *parser) errCurr(msg string) error {
	if p.curr.Type == Invalid {
		return syntaxError(p.curr.Literal, p.curr)
	}
	return syntaxError(msg, p.curr)
}

func (p *parser) next() {
	p.curr = p.peek
	p.peek = p.scan.Scan()
}

// Package jsonpath evaluates RFC 9535 JSONPath query expressions
// against JSON-like values: trees of map[string]any, []any, string,
// float64 (or int/int64), bool and nil, as produced by json.Unmarshal.
//
// A query is compiled once and can then be applied any number of
// times, concurrently if needed. Applying a query produces a NodeList:
// the matched values in document order (object members in sorted key
// order), each paired with the normalized path of its location.
package jsonpath

import (
	"iter"
	"strings"
)

// Index and slice literals are restricted to the interoperable integer
// range of RFC 9535.
const (
	maxIntIndex = 1<<53 - 1
	minIntIndex = -maxIntIndex
)

// Environment binds a query compiler to its function registry. The
// registry is fixed by RFC 9535; environments exist so that queries
// carry their compilation context with them.
type Environment struct {
	funcs map[string]*Function
}

func NewEnvironment() *Environment {
	env := Environment{
		funcs: builtins,
	}
	return &env
}

// Compile prepares a query for repeated application. It reports a
// *PathError when the query is not a well-formed, well-typed RFC 9535
// expression.
func (e *Environment) Compile(query string) (*Query, error) {
	p := parser{
		scan: ScanQuery(query),
		env:  e,
	}
	p.next()
	p.next()
	segments, err := p.Parse()
	if err != nil {
		return nil, err
	}
	q := Query{
		env:      e,
		segments: segments,
	}
	return &q, nil
}

func (e *Environment) function(name string) (*Function, bool) {
	fn, ok := e.funcs[name]
	return fn, ok
}

// Query is a compiled JSONPath expression. It is immutable and safe
// for concurrent use.
type Query struct {
	env      *Environment
	segments []Segment
}

// Select applies the query to doc and returns the resulting node list.
func (q *Query) Select(doc any) NodeList {
	var list NodeList
	for n := range q.Iter(doc) {
		list = append(list, n)
	}
	return list
}

// Iter applies the query to doc lazily. Nodes are produced in the same
// order Select would return them.
func (q *Query) Iter(doc any) iter.Seq[*Node] {
	ctx := context{
		env:  q.env,
		root: doc,
	}
	return evalSegments(&ctx, q.segments, doc)
}

// String renders the query in canonical bracketed form. The result
// compiles back to an equivalent query.
func (q *Query) String() string {
	var str strings.Builder
	str.WriteRune('$')
	for _, seg := range q.segments {
		str.WriteString(seg.String())
	}
	return str.String()
}

var defaultEnv = NewEnvironment()

// Compile prepares a query using the default environment.
func Compile(query string) (*Query, error) {
	return defaultEnv.Compile(query)
}

// Find compiles query and applies it to doc.
func Find(query string, doc any) (NodeList, error) {
	q, err := Compile(query)
	if err != nil {
		return nil, err
	}
	return q.Select(doc), nil
}

// FindOne compiles query and returns the first node matched in doc, or
// nil when nothing matches.
func FindOne(query string, doc any) (*Node, error) {
	q, err := Compile(query)
	if err != nil {
		return nil, err
	}
	for n := range q.Iter(doc) {
		return n, nil
	}
	return nil, nil
}

// Iter compiles query and returns a lazy sequence of matches in doc.
func Iter(query string, doc any) (iter.Seq[*Node], error) {
	q, err := Compile(query)
	if err != nil {
		return nil, err
	}
	return q.Iter(doc), nil
}

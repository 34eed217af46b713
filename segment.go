package jsonpath

import (
	"fmt"
	"iter"
	"maps"
	"slices"
	"strings"
)

type context struct {
	env  *Environment
	root any
}

// Segment is one step of a query. A segment transforms the node list
// produced by the preceding segments into a new node list.
type Segment interface {
	fmt.Stringer
	resolve(ctx *context, nodes iter.Seq[*Node]) iter.Seq[*Node]
}

type childSegment struct {
	selectors []Selector
}

func (s *childSegment) resolve(ctx *context, nodes iter.Seq[*Node]) iter.Seq[*Node] {
	fn := func(yield func(*Node) bool) {
		for n := range nodes {
			for _, sel := range s.selectors {
				if !sel.resolve(ctx, n, yield) {
					return
				}
			}
		}
	}
	return fn
}

func (s *childSegment) String() string {
	return "[" + joinSelectors(s.selectors) + "]"
}

type descendantSegment struct {
	selectors []Selector
}

func (s *descendantSegment) resolve(ctx *context, nodes iter.Seq[*Node]) iter.Seq[*Node] {
	fn := func(yield func(*Node) bool) {
		for n := range nodes {
			ok := visitDescendants(n, func(d *Node) bool {
				for _, sel := range s.selectors {
					if !sel.resolve(ctx, d, yield) {
						return false
					}
				}
				return true
			})
			if !ok {
				return
			}
		}
	}
	return fn
}

func (s *descendantSegment) String() string {
	return "..[" + joinSelectors(s.selectors) + "]"
}

// visitDescendants walks node and every node below it in pre-order:
// the node itself first, then object members by key, then array
// elements by index.
func visitDescendants(n *Node, visit func(*Node) bool) bool {
	if !visit(n) {
		return false
	}
	switch v := n.Value.(type) {
	case map[string]any:
		for _, k := range sortedKeys(v) {
			child := Node{
				Value:    v[k],
				Location: n.Location.With(k),
			}
			if !visitDescendants(&child, visit) {
				return false
			}
		}
	case []any:
		for i := range v {
			child := Node{
				Value:    v[i],
				Location: n.Location.With(i),
			}
			if !visitDescendants(&child, visit) {
				return false
			}
		}
	}
	return true
}

func evalSegments(ctx *context, segments []Segment, doc any) iter.Seq[*Node] {
	nodes := iter.Seq[*Node](func(yield func(*Node) bool) {
		n := Node{
			Value: doc,
		}
		yield(&n)
	})
	for _, seg := range segments {
		nodes = seg.resolve(ctx, nodes)
	}
	return nodes
}

// sortedKeys fixes the object member order used by wildcard, descendant
// and filter iteration. Go maps are unordered so source order is lost;
// lexicographic key order keeps results deterministic.
func sortedKeys(obj map[string]any) []string {
	return slices.Sorted(maps.Keys(obj))
}

func joinSelectors(list []Selector) string {
	parts := make([]string, len(list))
	for i := range list {
		parts[i] = list[i].String()
	}
	return strings.Join(parts, ", ")
}

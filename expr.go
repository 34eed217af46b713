package jsonpath

import (
	"fmt"
	"strconv"
	"strings"
)

type filterContext struct {
	env     *Environment
	root    any
	current any
}

type filterExpr interface {
	fmt.Stringer
	eval(ctx *filterContext) any
}

// nothing is the special result produced by an unresolvable singular
// query or a function with no answer. It only exists while a filter
// expression is being evaluated and never reaches a node list.
type nothingType struct{}

func (nothingType) String() string {
	return "<nothing>"
}

var nothing nothingType

type literalExpr struct {
	value any
}

func (e *literalExpr) eval(_ *filterContext) any {
	return e.value
}

func (e *literalExpr) String() string {
	switch v := e.value.(type) {
	case nil:
		return "null"
	case bool:
		return strconv.FormatBool(v)
	case string:
		var str strings.Builder
		str.WriteRune('"')
		for _, c := range v {
			switch {
			case c == '"' || c == '\\':
				str.WriteRune('\\')
				str.WriteRune(c)
			case c < 0x20:
				fmt.Fprintf(&str, `\u%04x`, c)
			default:
				str.WriteRune(c)
			}
		}
		str.WriteRune('"')
		return str.String()
	case int64:
		return strconv.FormatInt(v, 10)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	default:
		return fmt.Sprintf("%v", v)
	}
}

type queryExpr struct {
	rel      bool
	segments []Segment
}

func (e *queryExpr) eval(ctx *filterContext) any {
	target := ctx.root
	if e.rel {
		target = ctx.current
	}
	sub := context{
		env:  ctx.env,
		root: ctx.root,
	}
	var list NodeList
	for n := range evalSegments(&sub, e.segments, target) {
		list = append(list, n)
	}
	return list
}

func (e *queryExpr) String() string {
	var str strings.Builder
	if e.rel {
		str.WriteRune('@')
	} else {
		str.WriteRune('$')
	}
	for _, seg := range e.segments {
		str.WriteString(seg.String())
	}
	return str.String()
}

type comparisonExpr struct {
	left  filterExpr
	right filterExpr
	op    rune
}

func (e *comparisonExpr) eval(ctx *filterContext) any {
	var (
		left  = toValue(e.left.eval(ctx))
		right = toValue(e.right.eval(ctx))
	)
	switch e.op {
	case Eq:
		return equalValues(left, right)
	case Ne:
		return !equalValues(left, right)
	case Lt:
		return lessValue(left, right)
	case Gt:
		return lessValue(right, left)
	case Le:
		return lessValue(left, right) || equalValues(left, right)
	case Ge:
		return lessValue(right, left) || equalValues(left, right)
	default:
		return false
	}
}

func (e *comparisonExpr) String() string {
	return fmt.Sprintf("%s %s %s", e.left, opString(e.op), e.right)
}

type logicalExpr struct {
	left  filterExpr
	right filterExpr
	op    rune
}

func (e *logicalExpr) eval(ctx *filterContext) any {
	if e.op == And {
		return truthy(e.left.eval(ctx)) && truthy(e.right.eval(ctx))
	}
	return truthy(e.left.eval(ctx)) || truthy(e.right.eval(ctx))
}

func (e *logicalExpr) String() string {
	return fmt.Sprintf("%s %s %s", e.left, opString(e.op), e.right)
}

type notExpr struct {
	expr filterExpr
}

func (e *notExpr) eval(ctx *filterContext) any {
	return !truthy(e.expr.eval(ctx))
}

func (e *notExpr) String() string {
	return "!" + e.expr.String()
}

type groupExpr struct {
	expr filterExpr
}

func (e *groupExpr) eval(ctx *filterContext) any {
	return truthy(e.expr.eval(ctx))
}

func (e *groupExpr) String() string {
	return "(" + e.expr.String() + ")"
}

type funcExpr struct {
	name string
	fn   *Function
	args []filterExpr
}

func (e *funcExpr) eval(ctx *filterContext) any {
	args := make([]any, len(e.args))
	for i := range e.args {
		val := e.args[i].eval(ctx)
		switch e.fn.Args[i] {
		case ValueType:
			val = toValue(val)
		case LogicalType:
			val = truthy(val)
		}
		args[i] = val
	}
	return e.fn.Call(args)
}

func (e *funcExpr) String() string {
	parts := make([]string, len(e.args))
	for i := range e.args {
		parts[i] = e.args[i].String()
	}
	return fmt.Sprintf("%s(%s)", e.name, strings.Join(parts, ", "))
}

func opString(op rune) string {
	switch op {
	case Eq:
		return "=="
	case Ne:
		return "!="
	case Lt:
		return "<"
	case Le:
		return "<="
	case Gt:
		return ">"
	case Ge:
		return ">="
	case And:
		return "&&"
	case Or:
		return "||"
	default:
		return "<op>"
	}
}

func truthy(v any) bool {
	switch v := v.(type) {
	case NodeList:
		return len(v) > 0
	case bool:
		return v
	case nothingType:
		return false
	default:
		return true
	}
}

// toValue converts the result of a singular query to ValueType: the
// value of its single node, or nothing when the node list is empty.
func toValue(v any) any {
	if list, ok := v.(NodeList); ok {
		if len(list) == 1 {
			return list[0].Value
		}
		return nothing
	}
	return v
}

func isNothing(v any) bool {
	_, ok := v.(nothingType)
	return ok
}

func equalValues(left, right any) bool {
	if isNothing(left) || isNothing(right) {
		return isNothing(left) && isNothing(right)
	}
	return equalJSON(left, right)
}

func equalJSON(left, right any) bool {
	switch lv := left.(type) {
	case nil:
		return right == nil
	case bool:
		rv, ok := right.(bool)
		return ok && lv == rv
	case string:
		rv, ok := right.(string)
		return ok && lv == rv
	case []any:
		rv, ok := right.([]any)
		if !ok || len(lv) != len(rv) {
			return false
		}
		for i := range lv {
			if !equalJSON(lv[i], rv[i]) {
				return false
			}
		}
		return true
	case map[string]any:
		rv, ok := right.(map[string]any)
		if !ok || len(lv) != len(rv) {
			return false
		}
		for k := range lv {
			rval, ok := rv[k]
			if !ok || !equalJSON(lv[k], rval) {
				return false
			}
		}
		return true
	default:
		lf, ok1 := toFloat(left)
		rf, ok2 := toFloat(right)
		return ok1 && ok2 && lf == rf
	}
}

func lessValue(left, right any) bool {
	if ls, ok := left.(string); ok {
		rs, ok := right.(string)
		return ok && ls < rs
	}
	lf, ok1 := toFloat(left)
	rf, ok2 := toFloat(right)
	return ok1 && ok2 && lf < rf
}

func toFloat(v any) (float64, bool) {
	switch v := v.(type) {
	case float64:
		return v, true
	case int64:
		return float64(v), true
	case int:
		return float64(v), true
	default:
		return 0, false
	}
}

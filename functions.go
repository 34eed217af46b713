package jsonpath

import (
	"regexp"
	"unicode/utf8"
)

// FuncType is one of the three value categories RFC 9535 assigns to
// filter function parameters and results.
type FuncType int8

const (
	ValueType FuncType = iota
	LogicalType
	NodesType
)

func (t FuncType) String() string {
	switch t {
	case ValueType:
		return "ValueType"
	case LogicalType:
		return "LogicalType"
	case NodesType:
		return "NodesType"
	default:
		return "UnknownType"
	}
}

// Function is an entry of the registry. Call never returns an error:
// invalid input degrades to nothing or false as the RFC requires.
type Function struct {
	Args []FuncType
	Ret  FuncType
	Call func(args []any) any
}

var builtins = map[string]*Function{
	"length": {
		Args: []FuncType{ValueType},
		Ret:  ValueType,
		Call: fnLength,
	},
	"count": {
		Args: []FuncType{NodesType},
		Ret:  ValueType,
		Call: fnCount,
	},
	"match": {
		Args: []FuncType{ValueType, ValueType},
		Ret:  LogicalType,
		Call: fnMatch,
	},
	"search": {
		Args: []FuncType{ValueType, ValueType},
		Ret:  LogicalType,
		Call: fnSearch,
	},
	"value": {
		Args: []FuncType{NodesType},
		Ret:  ValueType,
		Call: fnValue,
	},
}

func fnLength(args []any) any {
	switch v := args[0].(type) {
	case string:
		return int64(utf8.RuneCountInString(v))
	case []any:
		return int64(len(v))
	case map[string]any:
		return int64(len(v))
	default:
		return nothing
	}
}

func fnCount(args []any) any {
	list, ok := args[0].(NodeList)
	if !ok {
		return nothing
	}
	return int64(len(list))
}

func fnValue(args []any) any {
	list, ok := args[0].(NodeList)
	if ok && len(list) == 1 {
		return list[0].Value
	}
	return nothing
}

func fnMatch(args []any) any {
	return matchString(args[0], args[1], true)
}

func fnSearch(args []any) any {
	return matchString(args[0], args[1], false)
}

func matchString(val, pattern any, full bool) any {
	str, ok := val.(string)
	if !ok {
		return false
	}
	pat, ok := pattern.(string)
	if !ok || !validPattern(pat) {
		return false
	}
	expr := translatePattern(pat)
	if full {
		expr = "^(?:" + expr + ")$"
	}
	re, err := regexp.Compile(expr)
	if err != nil {
		return false
	}
	return re.MatchString(str)
}

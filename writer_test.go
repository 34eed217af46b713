package jsonpath_test

import (
	"strings"
	"testing"

	"github.com/midbel/jsonpath"
)

func TestWriter(t *testing.T) {
	data := []struct {
		Value any
		Want  string
	}{
		{
			Value: nil,
			Want:  `null`,
		},
		{
			Value: true,
			Want:  `true`,
		},
		{
			Value: 3.14,
			Want:  `3.14`,
		},
		{
			Value: int64(7),
			Want:  `7`,
		},
		{
			Value: "say \"hi\"\n",
			Want:  `"say \"hi\"\n"`,
		},
		{
			Value: []any{1.0, "two", nil},
			Want:  `[1,"two",null]`,
		},
		{
			Value: map[string]any{"b": 2.0, "a": 1.0},
			Want:  `{"a":1,"b":2}`,
		},
		{
			Value: map[string]any{"list": []any{map[string]any{"x": true}}},
			Want:  `{"list":[{"x":true}]}`,
		},
		{
			Value: map[string]any{},
			Want:  `{}`,
		},
		{
			Value: []any{},
			Want:  `[]`,
		},
	}
	for _, d := range data {
		var (
			str strings.Builder
			ws  = jsonpath.NewWriter(&str)
		)
		ws.Compact = true
		if err := ws.Write(d.Value); err != nil {
			t.Errorf("unexpected error: %s", err)
			continue
		}
		if got := str.String(); got != d.Want {
			t.Errorf("got %s, want %s", got, d.Want)
		}
	}
}

func TestWriterList(t *testing.T) {
	doc := loadDoc(t, `{"a": [1, 2]}`)
	list, err := jsonpath.Find("$.a[*]", doc)
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	var (
		str strings.Builder
		ws  = jsonpath.NewWriter(&str)
	)
	ws.Compact = true
	if err := ws.WriteList(list); err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	if got := str.String(); got != `[1,2]` {
		t.Errorf("got %s", got)
	}

	str.Reset()
	ws = jsonpath.NewWriter(&str)
	ws.Compact = true
	if err := ws.WriteItems(list); err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	want := `[{"path":"$['a'][0]","value":1},{"path":"$['a'][1]","value":2}]`
	if got := str.String(); got != want {
		t.Errorf("got %s, want %s", got, want)
	}
}

package jsonpath_test

import (
	"testing"

	"github.com/midbel/jsonpath"
)

func TestScanQuery(t *testing.T) {
	data := []struct {
		Input string
		Types []rune
	}{
		{
			Input: "$",
			Types: []rune{jsonpath.Root},
		},
		{
			Input: "$.thing",
			Types: []rune{jsonpath.Root, jsonpath.Property},
		},
		{
			Input: "$.thing.*",
			Types: []rune{jsonpath.Root, jsonpath.Property, jsonpath.Wildcard},
		},
		{
			Input: "$..thing",
			Types: []rune{jsonpath.Root, jsonpath.DotDot, jsonpath.Property},
		},
		{
			Input: "$..[0]",
			Types: []rune{jsonpath.Root, jsonpath.DotDot, jsonpath.BegBrk, jsonpath.Integer, jsonpath.EndBrk},
		},
		{
			Input: "$['a', 'b']",
			Types: []rune{jsonpath.Root, jsonpath.BegBrk, jsonpath.String, jsonpath.Comma, jsonpath.String, jsonpath.EndBrk},
		},
		{
			Input: "$[1:2:3]",
			Types: []rune{jsonpath.Root, jsonpath.BegBrk, jsonpath.Integer, jsonpath.Colon, jsonpath.Integer, jsonpath.Colon, jsonpath.Integer, jsonpath.EndBrk},
		},
		{
			Input: "$[?@.score > 85]",
			Types: []rune{jsonpath.Root, jsonpath.BegBrk, jsonpath.Filter, jsonpath.Current, jsonpath.Property, jsonpath.Gt, jsonpath.Integer, jsonpath.EndBrk},
		},
		{
			Input: "$[?@.a == 1.5 && !@.b]",
			Types: []rune{jsonpath.Root, jsonpath.BegBrk, jsonpath.Filter, jsonpath.Current, jsonpath.Property, jsonpath.Eq, jsonpath.Number, jsonpath.And, jsonpath.Not, jsonpath.Current, jsonpath.Property, jsonpath.EndBrk},
		},
		{
			Input: "$[?match(@.name, 'S.*')]",
			Types: []rune{jsonpath.Root, jsonpath.BegBrk, jsonpath.Filter, jsonpath.Func, jsonpath.Current, jsonpath.Property, jsonpath.Comma, jsonpath.String, jsonpath.EndGrp, jsonpath.EndBrk},
		},
		{
			Input: "$[?@.a == true || @.b != null]",
			Types: []rune{jsonpath.Root, jsonpath.BegBrk, jsonpath.Filter, jsonpath.Current, jsonpath.Property, jsonpath.Eq, jsonpath.Boolean, jsonpath.Or, jsonpath.Current, jsonpath.Property, jsonpath.Ne, jsonpath.Null, jsonpath.EndBrk},
		},
	}
	for _, d := range data {
		var (
			scan = jsonpath.ScanQuery(d.Input)
			got  []rune
		)
		for {
			tok := scan.Scan()
			if tok.Type == jsonpath.EOF {
				break
			}
			if tok.Type == jsonpath.Invalid {
				t.Errorf("%s: invalid token: %s", d.Input, tok.Literal)
				break
			}
			got = append(got, tok.Type)
			if len(got) > len(d.Types)+4 {
				break
			}
		}
		if len(got) != len(d.Types) {
			t.Errorf("%s: got %d tokens, want %d", d.Input, len(got), len(d.Types))
			continue
		}
		for i := range got {
			if got[i] != d.Types[i] {
				t.Errorf("%s: token %d mismatch", d.Input, i)
			}
		}
	}
}

func TestScanStrings(t *testing.T) {
	data := []struct {
		Input string
		Want  string
	}{
		{
			Input: `$['a b']`,
			Want:  "a b",
		},
		{
			Input: `$["a\nb"]`,
			Want:  "a\nb",
		},
		{
			Input: `$['it\'s']`,
			Want:  "it's",
		},
		{
			Input: `$["☺"]`,
			Want:  "☺",
		},
		{
			Input: `$["𝄞"]`,
			Want:  "\U0001D11E",
		},
		{
			Input: `$['\\']`,
			Want:  `\`,
		},
		{
			Input: `$['\/']`,
			Want:  "/",
		},
	}
	for _, d := range data {
		scan := jsonpath.ScanQuery(d.Input)
		scan.Scan()
		scan.Scan()
		tok := scan.Scan()
		if tok.Type != jsonpath.String {
			t.Errorf("%s: expected string token, got %s", d.Input, tok)
			continue
		}
		if tok.Literal != d.Want {
			t.Errorf("%s: got %q, want %q", d.Input, tok.Literal, d.Want)
		}
	}
}

func TestScanInvalid(t *testing.T) {
	data := []string{
		"",
		" $",
		"$.a ",
		"$. a",
		`$['a]`,
		`$['a\q']`,
		`$["\uD834"]`,
		`$["\uDD1E\uD834"]`,
		"$[?@.a & @.b]",
		"$[?@.a | @.b]",
		"$[?@.a = 1]",
	}
	for _, input := range data {
		var (
			scan = jsonpath.ScanQuery(input)
			seen bool
		)
		for i := 0; i < 32; i++ {
			tok := scan.Scan()
			if tok.Type == jsonpath.Invalid {
				seen = true
				break
			}
			if tok.Type == jsonpath.EOF {
				break
			}
		}
		if !seen {
			t.Errorf("%q: expected an invalid token", input)
		}
	}
}

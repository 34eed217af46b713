package jsonpath

import (
	"slices"
	"strings"
)

// validPattern reports whether pattern conforms to the I-Regexp profile
// of RFC 9485. The profile has no anchors, backreferences, lookaround
// or lazy quantifiers; validation happens here so that an invalid
// pattern never reaches the native regexp engine.
func validPattern(pattern string) bool {
	c := reChecker{
		input: []rune(pattern),
	}
	return c.checkBranches() && c.done()
}

type reChecker struct {
	input []rune
	pos   int
}

func (c *reChecker) checkBranches() bool {
	if !c.checkBranch() {
		return false
	}
	for c.is('|') {
		c.pos++
		if !c.checkBranch() {
			return false
		}
	}
	return true
}

func (c *reChecker) checkBranch() bool {
	for !c.done() && !c.is('|') && !c.is(')') {
		if !c.checkPiece() {
			return false
		}
	}
	return true
}

func (c *reChecker) checkPiece() bool {
	if !c.checkAtom() {
		return false
	}
	switch {
	case c.is('*') || c.is('+') || c.is('?'):
		c.pos++
	case c.is('{'):
		return c.checkQuantity()
	}
	return true
}

func (c *reChecker) checkQuantity() bool {
	c.pos++
	if !c.checkDigits() {
		return false
	}
	if c.is(',') {
		c.pos++
		if !c.is('}') && !c.checkDigits() {
			return false
		}
	}
	if !c.is('}') {
		return false
	}
	c.pos++
	return true
}

func (c *reChecker) checkDigits() bool {
	var n int
	for !c.done() && isDigit(c.input[c.pos]) {
		c.pos++
		n++
	}
	return n > 0
}

func (c *reChecker) checkAtom() bool {
	switch {
	case c.is('('):
		c.pos++
		if !c.checkBranches() || !c.is(')') {
			return false
		}
		c.pos++
		return true
	case c.is('['):
		return c.checkClassExpr()
	case c.is('\\'):
		return c.checkEscape()
	case c.is('.'):
		c.pos++
		return true
	default:
		return c.checkNormal()
	}
}

func (c *reChecker) checkNormal() bool {
	if c.done() {
		return false
	}
	switch c.input[c.pos] {
	case ')', '*', '+', '?', ']', '{', '|', '}':
		return false
	default:
		c.pos++
		return true
	}
}

func (c *reChecker) checkEscape() bool {
	c.pos++
	if c.done() {
		return false
	}
	switch c.input[c.pos] {
	case '(', ')', '*', '+', '-', '.', '?', '[', '\\', ']', '^', 'n', 'r', 't', '{', '|', '}':
		c.pos++
		return true
	case 'p', 'P':
		c.pos++
		return c.checkCategory()
	default:
		return false
	}
}

func (c *reChecker) checkCategory() bool {
	if !c.is('{') {
		return false
	}
	c.pos++
	start := c.pos
	for !c.done() && !c.is('}') {
		c.pos++
	}
	if !c.is('}') {
		return false
	}
	name := string(c.input[start:c.pos])
	c.pos++
	return validCategory(name)
}

func (c *reChecker) checkClassExpr() bool {
	c.pos++
	if c.is('^') {
		c.pos++
	}
	var n int
	if c.is('-') {
		c.pos++
		n++
	}
	for !c.done() && !c.is(']') {
		if c.is('-') {
			c.pos++
			if !c.is(']') {
				return false
			}
			break
		}
		if !c.checkClassItem() {
			return false
		}
		n++
	}
	if n == 0 || !c.is(']') {
		return false
	}
	c.pos++
	return true
}

func (c *reChecker) checkClassItem() bool {
	if c.is('\\') && (c.at(1) == 'p' || c.at(1) == 'P') {
		c.pos += 2
		return c.checkCategory()
	}
	if !c.checkClassChar() {
		return false
	}
	if c.is('-') && c.at(1) != ']' && c.at(1) != 0 {
		c.pos++
		return c.checkClassChar()
	}
	return true
}

func (c *reChecker) checkClassChar() bool {
	if c.done() {
		return false
	}
	if c.is('\\') {
		c.pos++
		if c.done() {
			return false
		}
		switch c.input[c.pos] {
		case '(', ')', '*', '+', '-', '.', '?', '[', '\\', ']', '^', 'n', 'r', 't', '{', '|', '}':
			c.pos++
			return true
		default:
			return false
		}
	}
	switch c.input[c.pos] {
	case '-', '[', ']':
		return false
	default:
		c.pos++
		return true
	}
}

func (c *reChecker) is(r rune) bool {
	return !c.done() && c.input[c.pos] == r
}

func (c *reChecker) at(offset int) rune {
	if c.pos+offset >= len(c.input) {
		return 0
	}
	return c.input[c.pos+offset]
}

func (c *reChecker) done() bool {
	return c.pos >= len(c.input)
}

var categories = []string{
	"Lu", "Ll", "Lt", "Lm", "Lo",
	"Mn", "Mc", "Me",
	"Nd", "Nl", "No",
	"Pc", "Pd", "Ps", "Pe", "Pi", "Pf", "Po",
	"Zs", "Zl", "Zp",
	"Sm", "Sc", "Sk", "So",
	"Cc", "Cf", "Co", "Cn",
}

func validCategory(name string) bool {
	if len(name) == 1 {
		return strings.ContainsAny(name, "LMNPZSC")
	}
	return slices.Contains(categories, name)
}

// translatePattern rewrites an unescaped '.' outside character classes
// to the class RFC 9535 gives it, so the native engine does not match
// line terminators. It also escapes '^' and '$' outside character
// classes: they are ordinary characters in I-Regexp but anchors in the
// native engine.
func translatePattern(pattern string) string {
	var (
		str     strings.Builder
		inClass bool
		escaped bool
	)
	for _, c := range pattern {
		switch {
		case escaped:
			str.WriteRune(c)
			escaped = false
		case c == '\\':
			str.WriteRune(c)
			escaped = true
		case c == '[' && !inClass:
			inClass = true
			str.WriteRune(c)
		case c == ']' && inClass:
			inClass = false
			str.WriteRune(c)
		case c == '.' && !inClass:
			str.WriteString(`[^\n\r]`)
		case (c == '^' || c == '$') && !inClass:
			str.WriteRune('\\')
			str.WriteRune(c)
		default:
			str.WriteRune(c)
		}
	}
	return str.String()
}

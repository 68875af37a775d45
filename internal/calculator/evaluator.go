package calculator

import (
	"fmt"
	"strconv"
	"strings"
)

// maxNesting bounds parenthesis and unary-sign nesting.
const maxNesting = 256

var glyphs = strings.NewReplacer("×", "*", "÷", "/", "−", "-")

// Evaluate computes a free-form arithmetic expression such as "12 × (3 + 4)".
//
// Only digits, "+ - * / . % ( )" and spaces are accepted once the keypad
// glyphs are normalized; anything else, and unbalanced parentheses, fail
// with ErrSyntax. "<number>%" is worth number/100, and right after an
// operand it multiplies that operand, so "200 15%" is 30. Spaces separate
// tokens; two plain numbers in a row are a syntax error. A single trailing
// operator is ignored and the prefix evaluated. NaN and infinite results
// fail with ErrInvalidResult.
func Evaluate(text string) (float64, error) {
	expr, err := sanitize(text)
	if err != nil {
		return 0, err
	}

	expr = strings.TrimSpace(expr)
	if n := len(expr); n > 0 && strings.ContainsRune("+-*/", rune(expr[n-1])) {
		expr = strings.TrimSpace(expr[:n-1])
	}
	if expr == "" {
		return 0, nil
	}

	toks, err := tokenize(expr)
	if err != nil {
		return 0, err
	}

	p := &parser{toks: toks}
	v, err := p.expr()
	if err != nil {
		return 0, err
	}
	if p.pos != len(p.toks) {
		return 0, fmt.Errorf("%w: unexpected %q", ErrSyntax, p.toks[p.pos].text)
	}

	return CheckFinite(v)
}

// Validate checks the character set and parenthesis balance of text
// without evaluating it.
func Validate(text string) error {
	if strings.TrimSpace(text) == "" {
		return fmt.Errorf("%w: please enter a number or expression", ErrSyntax)
	}
	_, err := sanitize(text)
	return err
}

func sanitize(text string) (string, error) {
	expr := glyphs.Replace(text)

	depth := 0
	for i, r := range expr {
		switch {
		case r >= '0' && r <= '9':
		case strings.ContainsRune("+-*/.% ", r):
		case r == '(':
			depth++
		case r == ')':
			depth--
			if depth < 0 {
				return "", fmt.Errorf("%w: unbalanced ')' at offset %d", ErrSyntax, i)
			}
		default:
			return "", fmt.Errorf("%w: character %q is not allowed", ErrSyntax, r)
		}
	}
	if depth != 0 {
		return "", fmt.Errorf("%w: %d unclosed '('", ErrSyntax, depth)
	}
	return expr, nil
}

type tokenKind int

const (
	tokNumber tokenKind = iota
	tokOp
	tokLParen
	tokRParen
)

type token struct {
	kind  tokenKind
	text  string
	value float64
}

func tokenize(expr string) ([]token, error) {
	var toks []token
	for i := 0; i < len(expr); {
		c := expr[i]
		switch {
		case c == ' ':
			i++
		case c == '(':
			toks = append(toks, token{kind: tokLParen, text: "("})
			i++
		case c == ')':
			toks = append(toks, token{kind: tokRParen, text: ")"})
			i++
		case strings.IndexByte("+-*/", c) >= 0:
			toks = append(toks, token{kind: tokOp, text: string(c)})
			i++
		case c == '.' || (c >= '0' && c <= '9'):
			start := i
			dots, digits := 0, 0
			for i < len(expr) && (expr[i] == '.' || (expr[i] >= '0' && expr[i] <= '9')) {
				if expr[i] == '.' {
					dots++
				} else {
					digits++
				}
				i++
			}
			lit := expr[start:i]
			if dots > 1 || digits == 0 {
				return nil, fmt.Errorf("%w: malformed number %q", ErrSyntax, lit)
			}
			v, err := strconv.ParseFloat(lit, 64)
			if err != nil {
				return nil, fmt.Errorf("%w: malformed number %q", ErrSyntax, lit)
			}
			if i < len(expr) && expr[i] == '%' {
				v = Percentage(v, 1)
				lit += "%"
				i++
			}
			toks = append(toks, token{kind: tokNumber, text: lit, value: v})
		case c == '%':
			return nil, fmt.Errorf("%w: '%%' must follow a number", ErrSyntax)
		default:
			return nil, fmt.Errorf("%w: unexpected %q", ErrSyntax, c)
		}
	}
	return toks, nil
}

// parser is a recursive-descent evaluator:
//
//	expr  = term  { ("+" | "-") term }
//	term  = unary { ("*" | "/") unary }
//	unary = ("+" | "-") unary | primary
//	primary = number | "(" expr ")"
type parser struct {
	toks  []token
	pos   int
	depth int
}

func (p *parser) peek() (token, bool) {
	if p.pos >= len(p.toks) {
		return token{}, false
	}
	return p.toks[p.pos], true
}

func (p *parser) expr() (float64, error) {
	left, err := p.term()
	if err != nil {
		return 0, err
	}
	for {
		t, ok := p.peek()
		if !ok || t.kind != tokOp || (t.text != "+" && t.text != "-") {
			return left, nil
		}
		p.pos++
		right, err := p.term()
		if err != nil {
			return 0, err
		}
		if t.text == "+" {
			left = Add(left, right)
		} else {
			left = Subtract(left, right)
		}
	}
}

func (p *parser) term() (float64, error) {
	left, err := p.unary()
	if err != nil {
		return 0, err
	}
	for {
		t, ok := p.peek()
		if ok && t.kind == tokNumber && strings.HasSuffix(t.text, "%") {
			// "200 15%" reads as 200 * 0.15.
			p.pos++
			left = Multiply(left, t.value)
			continue
		}
		if !ok || t.kind != tokOp || (t.text != "*" && t.text != "/") {
			return left, nil
		}
		p.pos++
		right, err := p.unary()
		if err != nil {
			return 0, err
		}
		if t.text == "*" {
			left = Multiply(left, right)
		} else {
			// IEEE division; x/0 surfaces as ErrInvalidResult at the end.
			left = left / right
		}
	}
}

func (p *parser) unary() (float64, error) {
	t, ok := p.peek()
	if ok && t.kind == tokOp && (t.text == "+" || t.text == "-") {
		if p.depth++; p.depth > maxNesting {
			return 0, fmt.Errorf("%w: expression nested too deeply", ErrSyntax)
		}
		defer func() { p.depth-- }()

		p.pos++
		v, err := p.unary()
		if err != nil {
			return 0, err
		}
		if t.text == "-" {
			return Negate(v), nil
		}
		return v, nil
	}
	return p.primary()
}

func (p *parser) primary() (float64, error) {
	t, ok := p.peek()
	if !ok {
		return 0, fmt.Errorf("%w: unexpected end of expression", ErrSyntax)
	}
	switch t.kind {
	case tokNumber:
		p.pos++
		return t.value, nil
	case tokLParen:
		if p.depth++; p.depth > maxNesting {
			return 0, fmt.Errorf("%w: expression nested too deeply", ErrSyntax)
		}
		defer func() { p.depth-- }()

		p.pos++
		v, err := p.expr()
		if err != nil {
			return 0, err
		}
		if t, ok := p.peek(); !ok || t.kind != tokRParen {
			return 0, fmt.Errorf("%w: missing ')'", ErrSyntax)
		}
		p.pos++
		return v, nil
	}
	return 0, fmt.Errorf("%w: unexpected %q", ErrSyntax, t.text)
}

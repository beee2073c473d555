/*
 * This file is subject to the terms and conditions defined in
 * file 'LICENSE.md', which is part of this source code package.
 */

package transform

import (
	"math"
	"strconv"

	"github.com/dvisvgm-go/dvi2svg/dvierrors"
	"github.com/dvisvgm-go/dvi2svg/length"
)

// Calculator evaluates a page's transformCommands string (spec §6): a
// textual sequence of affine operations — translate(x,y), scale(sx[,sy]),
// rotate(deg), rotate(deg,cx,cy), skewx(deg), skewy(deg), matrix(a,b,c,d,
// e,f) — each argument a small arithmetic expression over the named
// variables `ux`, `uy`, `w`, `h` and length-unit constants (1in, 2.54cm,
// ...), composed left to right. Grounded in spirit on contentstream's
// hand-rolled recursive-descent numeric parsing (contentstream/parser.go);
// no pack example ships a comparable small-DSL evaluator, so this one is
// built directly over the standard library (see DESIGN.md).
type Calculator struct {
	Vars map[string]float64
}

// NewCalculator creates a Calculator with ux, uy, w, h bound to the given
// values, as spec §6 names them.
func NewCalculator(ux, uy, w, h float64) *Calculator {
	return &Calculator{Vars: map[string]float64{"ux": ux, "uy": uy, "w": w, "h": h}}
}

// Evaluate parses and applies commands in sequence, starting from the
// identity matrix, returning the composed result.
func (c *Calculator) Evaluate(commands string) (Matrix, error) {
	p := &exprParser{calc: c, s: commands}
	m := Identity()
	for {
		p.skipSpace()
		if p.eof() {
			break
		}
		name, err := p.readIdent()
		if err != nil {
			return Matrix{}, err
		}
		p.skipSpace()
		if err := p.expect('('); err != nil {
			return Matrix{}, err
		}
		args, err := p.readArgs()
		if err != nil {
			return Matrix{}, err
		}
		op, err := applyOp(name, args)
		if err != nil {
			return Matrix{}, err
		}
		m = m.Mult(op)
	}
	return m, nil
}

func applyOp(name string, args []float64) (Matrix, error) {
	switch name {
	case "translate":
		if len(args) == 1 {
			return Translation(args[0], 0), nil
		}
		if len(args) == 2 {
			return Translation(args[0], args[1]), nil
		}
	case "scale":
		if len(args) == 1 {
			return NewMatrix(args[0], 0, 0, args[0], 0, 0), nil
		}
		if len(args) == 2 {
			return NewMatrix(args[0], 0, 0, args[1], 0, 0), nil
		}
	case "rotate":
		if len(args) == 1 {
			return Identity().Rotate(args[0]), nil
		}
		if len(args) == 3 {
			return Translation(args[1], args[2]).Rotate(args[0]).Translate(-args[1], -args[2]), nil
		}
	case "skewx":
		if len(args) == 1 {
			return NewMatrix(1, 0, tanDeg(args[0]), 1, 0, 0), nil
		}
	case "skewy":
		if len(args) == 1 {
			return NewMatrix(1, tanDeg(args[0]), 0, 1, 0, 0), nil
		}
	case "matrix":
		if len(args) == 6 {
			return NewMatrix(args[0], args[1], args[2], args[3], args[4], args[5]), nil
		}
	}
	return Matrix{}, dvierrors.New(dvierrors.InvalidTransformExpression, 0, "unknown operation %q with %d argument(s)", name, len(args))
}

// exprParser is a small recursive-descent parser over arithmetic
// expressions: + - * / unary-minus, parentheses, decimal literals with an
// optional length unit suffix, and variable references.
type exprParser struct {
	calc *Calculator
	s    string
	pos  int
}

func (p *exprParser) eof() bool { return p.pos >= len(p.s) }

func (p *exprParser) peek() byte {
	if p.eof() {
		return 0
	}
	return p.s[p.pos]
}

func (p *exprParser) skipSpace() {
	for !p.eof() && (p.peek() == ' ' || p.peek() == '\t' || p.peek() == '\n') {
		p.pos++
	}
}

func (p *exprParser) expect(b byte) error {
	if p.eof() || p.peek() != b {
		return dvierrors.New(dvierrors.InvalidTransformExpression, 0, "expected %q at position %d in %q", b, p.pos, p.s)
	}
	p.pos++
	return nil
}

func (p *exprParser) readIdent() (string, error) {
	start := p.pos
	for !p.eof() && isIdentRune(p.peek()) {
		p.pos++
	}
	if p.pos == start {
		return "", dvierrors.New(dvierrors.InvalidTransformExpression, 0, "expected identifier at position %d in %q", p.pos, p.s)
	}
	return p.s[start:p.pos], nil
}

func isIdentRune(b byte) bool {
	return b == '_' || (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z') || (b >= '0' && b <= '9')
}

// readArgs parses a comma-separated argument list up to the closing ')'.
func (p *exprParser) readArgs() ([]float64, error) {
	var args []float64
	p.skipSpace()
	if p.peek() == ')' {
		p.pos++
		return args, nil
	}
	for {
		v, err := p.readExpr()
		if err != nil {
			return nil, err
		}
		args = append(args, v)
		p.skipSpace()
		switch p.peek() {
		case ',':
			p.pos++
			continue
		case ')':
			p.pos++
			return args, nil
		default:
			return nil, dvierrors.New(dvierrors.InvalidTransformExpression, 0, "expected ',' or ')' at position %d in %q", p.pos, p.s)
		}
	}
}

// readExpr parses a sum of terms.
func (p *exprParser) readExpr() (float64, error) {
	v, err := p.readTerm()
	if err != nil {
		return 0, err
	}
	for {
		p.skipSpace()
		switch p.peek() {
		case '+':
			p.pos++
			t, err := p.readTerm()
			if err != nil {
				return 0, err
			}
			v += t
		case '-':
			p.pos++
			t, err := p.readTerm()
			if err != nil {
				return 0, err
			}
			v -= t
		default:
			return v, nil
		}
	}
}

// readTerm parses a product of factors.
func (p *exprParser) readTerm() (float64, error) {
	v, err := p.readFactor()
	if err != nil {
		return 0, err
	}
	for {
		p.skipSpace()
		switch p.peek() {
		case '*':
			p.pos++
			f, err := p.readFactor()
			if err != nil {
				return 0, err
			}
			v *= f
		case '/':
			p.pos++
			f, err := p.readFactor()
			if err != nil {
				return 0, err
			}
			if f == 0 {
				return 0, dvierrors.New(dvierrors.InvalidTransformExpression, 0, "division by zero at position %d in %q", p.pos, p.s)
			}
			v /= f
		default:
			return v, nil
		}
	}
}

// readFactor parses a unary-minus expression, a parenthesized expression, a
// numeric literal (with optional length-unit suffix), or a variable name.
func (p *exprParser) readFactor() (float64, error) {
	p.skipSpace()
	if p.peek() == '-' {
		p.pos++
		v, err := p.readFactor()
		return -v, err
	}
	if p.peek() == '(' {
		p.pos++
		v, err := p.readExpr()
		if err != nil {
			return 0, err
		}
		p.skipSpace()
		if err := p.expect(')'); err != nil {
			return 0, err
		}
		return v, nil
	}
	if isDigit(p.peek()) || p.peek() == '.' {
		return p.readNumber()
	}
	name, err := p.readIdent()
	if err != nil {
		return 0, err
	}
	v, ok := p.calc.Vars[name]
	if !ok {
		return 0, dvierrors.New(dvierrors.InvalidTransformExpression, 0, "undefined variable %q", name)
	}
	return v, nil
}

func isDigit(b byte) bool { return b >= '0' && b <= '9' }

// readNumber reads a decimal literal and an optional trailing length unit
// (pt, bp, in, cm, mm, pc, dd, cc, sp), converting to big points.
func (p *exprParser) readNumber() (float64, error) {
	start := p.pos
	for !p.eof() && (isDigit(p.peek()) || p.peek() == '.') {
		p.pos++
	}
	numStr := p.s[start:p.pos]
	unitStart := p.pos
	for !p.eof() && ((p.peek() >= 'a' && p.peek() <= 'z') || (p.peek() >= 'A' && p.peek() <= 'Z')) {
		p.pos++
	}
	unit := p.s[unitStart:p.pos]
	v, err := strconv.ParseFloat(numStr, 64)
	if err != nil {
		return 0, dvierrors.Wrap(dvierrors.InvalidTransformExpression, 0, err, "invalid number %q", numStr)
	}
	if unit == "" {
		return v, nil
	}
	bp, err := length.ToBigPoints(v, unit)
	if err != nil {
		return 0, dvierrors.Wrap(dvierrors.InvalidTransformExpression, 0, err, "invalid length unit %q", unit)
	}
	return bp, nil
}

func tanDeg(deg float64) float64 {
	return math.Tan(deg / 180.0 * math.Pi)
}

package parser

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// Numeric expression evaluation for amounts, costs, prices, and metadata values.
//
// Grammar (per the token stream, not the Go grammar):
//
//	expression → term (('+' | '-') term)*
//	term       → factor (('*' | '/') factor)*
//	factor     → NUMBER | '(' expression ')' | '-' factor
//
// Evaluation is exact decimal throughout. Division whose result does not
// terminate (e.g. 1/3) is rounded to divisionScale fractional digits rather than
// raising an error, a deliberate choice recorded in SPEC_FULL.md §4.2.
const divisionScale = 28

// parseExpression parses and evaluates an arithmetic expression, returning a
// plain error (not a Diagnostic) on malformed syntax or division by zero; the
// caller is responsible for turning that into a ParserError against the
// containing directive and dropping it, per spec.
func (p *Parser) parseExpression() (decimal.Decimal, error) {
	return p.parseAddSubtract()
}

func (p *Parser) parseAddSubtract() (decimal.Decimal, error) {
	left, err := p.parseMultiplyDivide()
	if err != nil {
		return decimal.Zero, err
	}

	for {
		op := p.peek().Type
		if op != PLUS && op != MINUS {
			break
		}
		p.advance()

		right, err := p.parseMultiplyDivide()
		if err != nil {
			return decimal.Zero, err
		}

		if op == PLUS {
			left = left.Add(right)
		} else {
			left = left.Sub(right)
		}
	}

	return left, nil
}

func (p *Parser) parseMultiplyDivide() (decimal.Decimal, error) {
	left, err := p.parsePrimary()
	if err != nil {
		return decimal.Zero, err
	}

	for {
		op := p.peek().Type
		if op != ASTERISK && op != SLASH {
			break
		}
		p.advance()

		right, err := p.parsePrimary()
		if err != nil {
			return decimal.Zero, err
		}

		if op == ASTERISK {
			left = left.Mul(right)
		} else {
			if right.IsZero() {
				return decimal.Zero, fmt.Errorf("division by zero")
			}
			left = left.DivRound(right, divisionScale)
		}
	}

	return left, nil
}

func (p *Parser) parsePrimary() (decimal.Decimal, error) {
	tok := p.peek()

	switch tok.Type {
	case LPAREN:
		p.advance()
		result, err := p.parseExpression()
		if err != nil {
			return decimal.Zero, err
		}
		if !p.check(RPAREN) {
			return decimal.Zero, fmt.Errorf("expected ')' after expression")
		}
		p.advance()
		return result, nil

	case NUMBER:
		numTok := p.advance()
		d, err := decimal.NewFromString(strings.ReplaceAll(numTok.String(p.source), ",", ""))
		if err != nil {
			return decimal.Zero, fmt.Errorf("invalid number %q: %w", numTok.String(p.source), err)
		}
		return d, nil

	case MINUS:
		p.advance()
		value, err := p.parsePrimary()
		if err != nil {
			return decimal.Zero, err
		}
		return value.Neg(), nil

	default:
		return decimal.Zero, fmt.Errorf("expected number or '(' in expression, got %s", tok.Type)
	}
}

// isExpressionStart reports whether the upcoming tokens begin a NUMBER
// expression (as opposed to, say, an account name or keyword).
func (p *Parser) isExpressionStart() bool {
	return p.check(NUMBER) || p.check(LPAREN) || p.check(MINUS)
}

package parser

import (
	"fmt"

	"github.com/shopspring/decimal"

	"ledgerparse/ast"
)

// Directive parsers for every non-transaction directive. Each consumes its
// own keyword token (already peeked by parseEntry) then its argument list,
// finishing with an optional metadata block.

func (p *Parser) parseBalance(pos ast.Position, date ast.Date) (*ast.Balance, error) {
	p.advance() // 'balance'

	account, err := p.parseAccount()
	if err != nil {
		return nil, err
	}
	amount, err := p.parseAmount()
	if err != nil {
		return nil, err
	}

	bal := &ast.Balance{Pos: pos, Date: date, Account: account, Amount: amount}

	if p.match(TILDE) {
		toleranceValue, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		bal.Tolerance = &ast.Amount{Number: toleranceValue, Currency: amount.Currency}
	}

	if p.check(LBRACE) || p.check(LDBRACE) {
		return nil, fmt.Errorf("balance directive cannot carry a cost specification")
	}

	p.addMetadata(bal, pos, p.parseMetadataBlock())
	return bal, nil
}

func (p *Parser) parseOpen(pos ast.Position, date ast.Date) (*ast.Open, error) {
	p.advance() // 'open'

	account, err := p.parseAccount()
	if err != nil {
		return nil, err
	}

	open := &ast.Open{Pos: pos, Date: date, Account: account}

	if p.check(CURRENCY) {
		currency, err := p.parseCurrency()
		if err != nil {
			return nil, err
		}
		open.ConstraintCurrencies = append(open.ConstraintCurrencies, currency)
		for p.match(COMMA) {
			currency, err := p.parseCurrency()
			if err != nil {
				return nil, err
			}
			open.ConstraintCurrencies = append(open.ConstraintCurrencies, currency)
		}
	}

	if p.check(STRING) {
		method, err := p.parseString()
		if err != nil {
			return nil, err
		}
		open.BookingMethod = method
	}

	p.addMetadata(open, pos, p.parseMetadataBlock())
	return open, nil
}

func (p *Parser) parseClose(pos ast.Position, date ast.Date) (*ast.Close, error) {
	p.advance() // 'close'
	account, err := p.parseAccount()
	if err != nil {
		return nil, err
	}
	c := &ast.Close{Pos: pos, Date: date, Account: account}
	p.addMetadata(c, pos, p.parseMetadataBlock())
	return c, nil
}

func (p *Parser) parseCommodity(pos ast.Position, date ast.Date) (*ast.Commodity, error) {
	p.advance() // 'commodity'
	currency, err := p.parseCurrency()
	if err != nil {
		return nil, err
	}
	c := &ast.Commodity{Pos: pos, Date: date, Currency: currency}
	p.addMetadata(c, pos, p.parseMetadataBlock())
	return c, nil
}

func (p *Parser) parsePad(pos ast.Position, date ast.Date) (*ast.Pad, error) {
	p.advance() // 'pad'
	account, err := p.parseAccount()
	if err != nil {
		return nil, err
	}
	accountPad, err := p.parseAccount()
	if err != nil {
		return nil, err
	}
	pad := &ast.Pad{Pos: pos, Date: date, Account: account, AccountPad: accountPad}
	p.addMetadata(pad, pos, p.parseMetadataBlock())
	return pad, nil
}

func (p *Parser) parseNote(pos ast.Position, date ast.Date) (*ast.Note, error) {
	p.advance() // 'note'
	account, err := p.parseAccount()
	if err != nil {
		return nil, err
	}
	description, err := p.parseString()
	if err != nil {
		return nil, err
	}
	n := &ast.Note{Pos: pos, Date: date, Account: account, Description: description}
	p.addMetadata(n, pos, p.parseMetadataBlock())
	return n, nil
}

func (p *Parser) parseDocument(pos ast.Position, date ast.Date) (*ast.Document, error) {
	p.advance() // 'document'
	account, err := p.parseAccount()
	if err != nil {
		return nil, err
	}
	path, err := p.parseString()
	if err != nil {
		return nil, err
	}
	d := &ast.Document{Pos: pos, Date: date, Account: account, PathToDocument: path}
	p.addMetadata(d, pos, p.parseMetadataBlock())
	return d, nil
}

func (p *Parser) parsePrice(pos ast.Position, date ast.Date) (*ast.Price, error) {
	p.advance() // 'price'
	commodity, err := p.parseCurrency()
	if err != nil {
		return nil, err
	}
	amount, err := p.parseAmount()
	if err != nil {
		return nil, err
	}
	pr := &ast.Price{Pos: pos, Date: date, Commodity: commodity, Amount: amount}
	p.addMetadata(pr, pos, p.parseMetadataBlock())
	return pr, nil
}

func (p *Parser) parseEvent(pos ast.Position, date ast.Date) (*ast.Event, error) {
	p.advance() // 'event'
	name, err := p.parseString()
	if err != nil {
		return nil, err
	}
	value, err := p.parseString()
	if err != nil {
		return nil, err
	}
	e := &ast.Event{Pos: pos, Date: date, Name: name, Value: value}
	p.addMetadata(e, pos, p.parseMetadataBlock())
	return e, nil
}

// parseCustom parses: 'custom' STRING VALUE* where VALUE is STRING | BOOL | Amount | NUMBER | ACCOUNT.
func (p *Parser) parseCustom(pos ast.Position, date ast.Date) (*ast.Custom, error) {
	p.advance() // 'custom'
	customType, err := p.parseString()
	if err != nil {
		return nil, err
	}

	custom := &ast.Custom{Pos: pos, Date: date, Type: customType}
	line := p.previous().Line

	for !p.isAtEnd() && p.peek().Line == line {
		tok := p.peek()
		if tok.Type == KEY && p.peekAhead(1).Type == COLON {
			break
		}

		var val *ast.CustomValue
		switch tok.Type {
		case STRING:
			s, err := p.parseString()
			if err != nil {
				return nil, err
			}
			val = &ast.CustomValue{String: &s}
		case ACCOUNT:
			a, err := p.parseAccount()
			if err != nil {
				return nil, err
			}
			s := string(a)
			val = &ast.CustomValue{String: &s}
		case CURRENCY:
			text := tok.String(p.source)
			if text == "TRUE" || text == "FALSE" {
				p.advance()
				b := text == "TRUE"
				val = &ast.CustomValue{Boolean: &b}
			} else {
				currency, err := p.parseCurrency()
				if err != nil {
					return nil, err
				}
				val = &ast.CustomValue{String: &currency}
			}
		case NUMBER:
			if p.peekAhead(1).Type == CURRENCY {
				amt, err := p.parseAmount()
				if err != nil {
					return nil, err
				}
				val = &ast.CustomValue{Amount: amt}
			} else {
				n, err := p.parseExpression()
				if err != nil {
					return nil, err
				}
				numStr := n.String()
				val = &ast.CustomValue{Number: &numStr}
			}
		default:
		}

		if val == nil {
			break
		}
		custom.Values = append(custom.Values, val)
	}

	p.addMetadata(custom, pos, p.parseMetadataBlock())
	return custom, nil
}

// checkNegative rejects a negative cost/price amount unless the parser's
// config allows it.
func checkNegative(kind string, value decimal.Decimal, allowNegative bool) error {
	if !allowNegative && value.IsNegative() {
		return fmt.Errorf("negative %s not allowed", kind)
	}
	return nil
}

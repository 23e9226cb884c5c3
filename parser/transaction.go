package parser

import (
	"fmt"

	"ledgerparse/ast"
)

// parseTransaction parses:
//
//	DATE ['txn'] (FLAG|STRING) (STRING|TAG|LINK)* EOL MetaBlock? Posting*
//
// The flag, payee/narration texts, tags, and links may appear in any
// interleaved order after the required flag.
func (p *Parser) parseTransaction(pos ast.Position, date ast.Date) (*ast.Transaction, error) {
	p.match(TXN) // optional explicit keyword

	txn := &ast.Transaction{Pos: pos, Date: date}

	switch {
	case p.match(ASTERISK):
		txn.Flag = "*"
	case p.match(EXCLAIM):
		txn.Flag = "!"
	case p.check(STRING):
		txn.Flag = "*"
	default:
		return nil, fmt.Errorf("expected transaction flag (* or !) or 'txn'")
	}

	var texts []string
	textsAtPipe := -1
	headerLine := pos.Line
	for {
		switch {
		case p.check(STRING):
			s, err := p.parseString()
			if err != nil {
				return nil, err
			}
			texts = append(texts, s)
			continue
		case p.check(TAG):
			tag, err := p.parseTag()
			if err != nil {
				return nil, err
			}
			txn.Tags = append(txn.Tags, tag)
			continue
		case p.check(LINK):
			link, err := p.parseLink()
			if err != nil {
				return nil, err
			}
			txn.Links = append(txn.Links, link)
			continue
		case p.check(PIPE):
			p.advance()
			textsAtPipe = len(texts)
			continue
		}
		break
	}

	if textsAtPipe >= 0 && len(texts) == textsAtPipe {
		return nil, fmt.Errorf("'|' in transaction header is not followed by a string")
	}

	switch len(texts) {
	case 0:
	case 1:
		txn.Narration = texts[0]
	case 2:
		payee := texts[0]
		txn.Payee = &payee
		txn.Narration = texts[1]
	default:
		return nil, fmt.Errorf("transaction header has %d texts, expected at most 2", len(texts))
	}

	p.skipBlankLines()
	if !p.isAtEnd() && p.peek().Line > headerLine {
		p.addMetadata(txn, pos, p.parseMetadataBlock())
	}

	postings, err := p.parsePostings()
	if err != nil {
		return nil, err
	}
	txn.Postings = postings

	return txn, nil
}

// parsePostings parses every posting line following a transaction header: each
// is more indented than column 1 and stops at the first token at column 1
// (which belongs to the next top-level directive or EOF).
func (p *Parser) parsePostings() ([]*ast.Posting, error) {
	var postings []*ast.Posting

	for {
		p.skipBlankLines()
		if p.isAtEnd() {
			break
		}
		tok := p.peek()
		if tok.Column <= 1 {
			break
		}
		if tok.Type != ASTERISK && tok.Type != EXCLAIM && tok.Type != ACCOUNT {
			break
		}

		posting, err := p.parsePosting()
		if err != nil {
			return nil, err
		}
		postings = append(postings, posting)
	}

	return postings, nil
}

// parsePosting parses: [FLAG] ACCOUNT (Amount (Cost? Price?)?)? MetaBlock?
func (p *Parser) parsePosting() (*ast.Posting, error) {
	posting := &ast.Posting{Pos: p.posOf(p.peek())}

	switch {
	case p.match(ASTERISK):
		posting.Flag = "*"
	case p.match(EXCLAIM):
		posting.Flag = "!"
	}

	account, err := p.parseAccount()
	if err != nil {
		return nil, err
	}
	posting.Account = account

	if p.isExpressionStart() {
		amount, err := p.parseAmount()
		if err != nil {
			return nil, err
		}
		posting.Amount = amount

		if p.check(LBRACE) || p.check(LDBRACE) {
			cost, err := p.parseCost()
			if err != nil {
				return nil, err
			}
			if amount.Number.IsZero() {
				return nil, fmt.Errorf("Amount is zero")
			}
			if cost.Amount != nil {
				if err := checkNegative("cost", cost.Amount.Number, p.cfg.AllowNegativePrices); err != nil {
					return nil, err
				}
				if cost.Total {
					if amount.Number.IsZero() {
						return nil, fmt.Errorf("Amount is zero")
					}
					cost.Amount = &ast.Amount{
						Number:   cost.Amount.Number.DivRound(amount.Number.Abs(), divisionScale),
						Currency: cost.Amount.Currency,
					}
				}
			}
			posting.Cost = cost
		}

		if p.match(ATAT) {
			posting.PriceTotal = true
			price, err := p.parseAmount()
			if err != nil {
				return nil, err
			}
			if amount.Number.IsZero() {
				return nil, fmt.Errorf("Amount is zero")
			}
			if err := checkNegative("price", price.Number, p.cfg.AllowNegativePrices); err != nil {
				return nil, err
			}
			posting.Price = &ast.Amount{
				Number:   price.Number.DivRound(amount.Number.Abs(), divisionScale),
				Currency: price.Currency,
			}
		} else if p.match(AT) {
			price, err := p.parseAmount()
			if err != nil {
				return nil, err
			}
			if err := checkNegative("price", price.Number, p.cfg.AllowNegativePrices); err != nil {
				return nil, err
			}
			posting.Price = price
		}
	} else {
		posting.Automatic = true
		posting.AddMetadata(&ast.Metadata{Key: ast.AutomaticMetaKey, Value: &ast.MetadataValue{Boolean: boolPtrLocal(true)}})
	}

	p.addMetadata(posting, posting.Pos, p.parseMetadataBlock())
	return posting, nil
}

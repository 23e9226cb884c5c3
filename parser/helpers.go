package parser

import (
	"fmt"
	"strings"

	"ledgerparse/ast"
)

// Helper parsing methods shared by directive and transaction parsing.

// addMetadata attaches a parsed metadata block to entity, reporting a
// ParserError for each key that duplicates one already present on entity (the
// first value for that key is retained, the rest are dropped).
func (p *Parser) addMetadata(entity ast.WithMetadata, pos ast.Position, items []*ast.Metadata) {
	for _, key := range entity.AddMetadata(items...) {
		p.diag.Add(ParserError, pos, "duplicate metadata key %q: keeping first value", key)
	}
}

func (p *Parser) parseDate() (ast.Date, error) {
	tok := p.peek()
	if tok.Type != DATE {
		return ast.Date{}, fmt.Errorf("expected date, got %s", tok.Type)
	}
	p.advance()
	if tok.Invalid {
		p.diag.Add(LexerError, p.posOf(tok), "invalid date %q", tok.String(p.source))
		return ast.Date{}, fmt.Errorf("invalid calendar date %q", tok.String(p.source))
	}
	date, err := ast.ParseDate(tok.String(p.source))
	if err != nil {
		p.diag.Add(LexerError, p.posOf(tok), "invalid date %q", tok.String(p.source))
		return ast.Date{}, err
	}
	return date, nil
}

// parseAccount parses an ACCOUNT token, validating and interning its text. A
// syntactically well-formed lexeme that fails the naming rule (bad root, bad
// segment) is reported as a LexerError and the directive that contains it is
// dropped by the caller.
func (p *Parser) parseAccount() (ast.Account, error) {
	tok := p.peek()
	if tok.Type != ACCOUNT {
		return "", fmt.Errorf("expected account, got %s", tok.Type)
	}
	p.advance()
	name := p.internIdent(tok)
	if err := ast.ValidateAccount(name); err != nil {
		p.diag.Add(LexerError, p.posOf(tok), "invalid account %q: %v", name, err)
		return "", err
	}
	return ast.Account(name), nil
}

func (p *Parser) parseCurrency() (string, error) {
	tok := p.peek()
	if tok.Type != CURRENCY {
		return "", fmt.Errorf("expected currency, got %s", tok.Type)
	}
	p.advance()
	code := p.internCurrency(tok)
	if err := ast.ValidateCurrency(code); err != nil {
		p.diag.Add(LexerError, p.posOf(tok), "invalid currency %q: %v", code, err)
		return "", err
	}
	return code, nil
}

// parseAmount parses NUMBER CURRENCY, or '(' expr ')' CURRENCY. The numeric part
// is fully evaluated (not retained as source text) since the parser owns
// arithmetic for amounts, unlike the teacher's round-trip-preserving design.
func (p *Parser) parseAmount() (*ast.Amount, error) {
	value, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	currency, err := p.parseCurrency()
	if err != nil {
		return nil, err
	}
	return &ast.Amount{Number: value, Currency: currency}, nil
}

// parseCost parses { [*] [AMOUNT] [, DATE] [, LABEL] } or {{ AMOUNT [, DATE] [, LABEL] }}.
func (p *Parser) parseCost() (*ast.Cost, error) {
	isTotal := false
	if p.check(LDBRACE) {
		p.advance()
		isTotal = true
	} else if p.check(LBRACE) {
		p.advance()
	} else {
		return nil, fmt.Errorf("expected '{' or '{{'")
	}

	cost := &ast.Cost{Total: isTotal}
	closing := RBRACE
	if isTotal {
		closing = RDBRACE
	}

	if !isTotal && p.match(ASTERISK) {
		cost.IsMerge = true
		if !p.match(closing) {
			return nil, fmt.Errorf("expected '}' after merge cost")
		}
		return cost, nil
	}

	if p.check(closing) {
		if isTotal {
			return nil, fmt.Errorf("empty total cost {{}} is not allowed")
		}
		p.advance()
		return cost, nil
	}

	if p.isExpressionStart() {
		amt, err := p.parseAmount()
		if err != nil {
			return nil, err
		}
		cost.Amount = amt
	} else if isTotal {
		return nil, fmt.Errorf("total cost {{}} requires an amount")
	}

	if p.match(COMMA) {
		if p.check(DATE) {
			date, err := p.parseDate()
			if err != nil {
				return nil, err
			}
			cost.Date = &date
			if p.match(COMMA) {
				if p.check(STRING) {
					label, err := p.parseString()
					if err != nil {
						return nil, err
					}
					cost.Label = label
				}
			}
		} else if p.check(STRING) {
			label, err := p.parseString()
			if err != nil {
				return nil, err
			}
			cost.Label = label
		}
	}

	if !p.match(closing) {
		return nil, fmt.Errorf("expected closing brace for cost")
	}
	return cost, nil
}

func (p *Parser) parseString() (string, error) {
	tok := p.peek()
	if tok.Type != STRING {
		return "", fmt.Errorf("expected string, got %s", tok.Type)
	}
	p.advance()
	unquoted, err := unquoteString(tok.String(p.source))
	if err != nil {
		p.diag.Add(LexerError, p.posOf(tok), "invalid string literal: %v", err)
		return "", err
	}
	return p.internString(unquoted), nil
}

func unquoteString(s string) (string, error) {
	if len(s) < 2 || s[0] != '"' || s[len(s)-1] != '"' {
		return "", fmt.Errorf("string must be enclosed in double quotes")
	}
	inner := s[1 : len(s)-1]
	if strings.IndexByte(inner, '\\') < 0 {
		return inner, nil
	}
	var buf strings.Builder
	buf.Grow(len(inner))
	for i := 0; i < len(inner); {
		if inner[i] != '\\' {
			buf.WriteByte(inner[i])
			i++
			continue
		}
		if i+1 >= len(inner) {
			return "", fmt.Errorf("escape sequence at end of string")
		}
		switch inner[i+1] {
		case '"':
			buf.WriteByte('"')
		case '\\':
			buf.WriteByte('\\')
		case 'n':
			buf.WriteByte('\n')
		case 't':
			buf.WriteByte('\t')
		case 'r':
			buf.WriteByte('\r')
		default:
			return "", fmt.Errorf("invalid escape sequence '\\%c'", inner[i+1])
		}
		i += 2
	}
	return buf.String(), nil
}

func (p *Parser) parseTag() (ast.Tag, error) {
	tok := p.peek()
	if tok.Type != TAG {
		return "", fmt.Errorf("expected tag, got %s", tok.Type)
	}
	p.advance()
	return ast.NewTag(p.internIdent(tok)), nil
}

func (p *Parser) parseLink() (ast.Link, error) {
	tok := p.peek()
	if tok.Type != LINK {
		return "", fmt.Errorf("expected link, got %s", tok.Type)
	}
	p.advance()
	return ast.NewLink(p.internIdent(tok)), nil
}

// parseMetadataBlock parses zero or more "KEY: VALUE" lines, each more indented
// than column 1, stopping at the first token that isn't a KEY/keyword
// immediately followed by a COLON.
func (p *Parser) parseMetadataBlock() []*ast.Metadata {
	var metadata []*ast.Metadata
	for {
		p.skipBlankLines()
		keyTok := p.peek()
		if keyTok.Column <= 1 {
			break
		}
		isKey := (keyTok.Type == KEY || p.isKeyword(keyTok.Type)) && p.peekAhead(1).Type == COLON
		if !isKey {
			break
		}
		p.advance() // key
		p.advance() // colon
		value := p.parseMetadataValue(keyTok.Line)
		metadata = append(metadata, &ast.Metadata{Key: keyTok.String(p.source), Value: value})
	}
	return metadata
}

// parseMetadataValue parses one of the nine metadata value kinds. On a
// malformed value it falls back to treating the rest of the line as a string,
// mirroring the teacher's graceful-degradation behavior. keyLine is the
// physical line the "KEY:" prefix was on: since a content line never emits a
// trailing EOL token, a value-less key ("key:" followed directly by the next
// metadata line or directive) is detected by the next token having jumped to
// a different line, not by hitting EOL.
func (p *Parser) parseMetadataValue(keyLine int) *ast.MetadataValue {
	tok := p.peek()

	if p.isAtEnd() || tok.Type == EOL || tok.Line != keyLine {
		return &ast.MetadataValue{}
	}

	switch tok.Type {
	case STRING:
		if s, err := p.parseString(); err == nil {
			return &ast.MetadataValue{StringValue: &s}
		}
	case DATE:
		if d, err := p.parseDate(); err == nil {
			return &ast.MetadataValue{Date: &d}
		}
	case TAG:
		if t, err := p.parseTag(); err == nil {
			return &ast.MetadataValue{Tag: &t}
		}
	case LINK:
		if l, err := p.parseLink(); err == nil {
			return &ast.MetadataValue{Link: &l}
		}
	case ACCOUNT:
		if a, err := p.parseAccount(); err == nil {
			return &ast.MetadataValue{Account: &a}
		}
	case NUMBER:
		if p.peekAhead(1).Type == CURRENCY {
			if amt, err := p.parseAmount(); err == nil {
				return &ast.MetadataValue{Amount: amt}
			}
		} else {
			n, err := p.parseExpression()
			if err == nil {
				numStr := n.String()
				return &ast.MetadataValue{Number: &numStr}
			}
		}
	case CURRENCY:
		text := tok.String(p.source)
		if text == "TRUE" {
			p.advance()
			return &ast.MetadataValue{Boolean: boolPtrLocal(true)}
		}
		if text == "FALSE" {
			p.advance()
			return &ast.MetadataValue{Boolean: boolPtrLocal(false)}
		}
		p.advance()
		currency := p.internCurrency(tok)
		return &ast.MetadataValue{Currency: &currency}
	}

	value := p.parseRestOfLine()
	return &ast.MetadataValue{StringValue: &value}
}

func boolPtrLocal(b bool) *bool { return &b }

func (p *Parser) isKeyword(typ TokenType) bool {
	switch typ {
	case TXN, BALANCE, OPEN, CLOSE, COMMODITY, PAD, NOTE, DOCUMENT,
		PRICE, EVENT, CUSTOM, OPTION, INCLUDE, PLUGIN,
		PUSHTAG, POPTAG, PUSHMETA, POPMETA:
		return true
	default:
		return false
	}
}

// parseRestOfLine joins the remaining tokens on the current line into a string,
// used as a last-resort fallback for a metadata value that matched no type.
func (p *Parser) parseRestOfLine() string {
	line := p.peek().Line
	var parts []string
	for !p.isAtEnd() && p.peek().Line == line && p.peek().Type != EOL {
		tok := p.advance()
		parts = append(parts, tok.String(p.source))
	}
	return strings.TrimSpace(strings.Join(parts, " "))
}

// skipBlankLines consumes EOL tokens (blank lines) without consuming anything
// content-bearing, since content lines never emit a boundary token themselves.
func (p *Parser) skipBlankLines() {
	for p.check(EOL) {
		p.advance()
	}
}

// skipToNextDirective resyncs after a ParserSyntaxError by discarding tokens
// until the next DATE token or pragma keyword, or EOF.
func (p *Parser) skipToNextDirective() {
	for !p.isAtEnd() {
		tok := p.peek()
		if tok.Column <= 1 && (tok.Type == DATE || tok.Type == OPTION || tok.Type == INCLUDE ||
			tok.Type == PLUGIN || tok.Type == PUSHTAG || tok.Type == POPTAG ||
			tok.Type == PUSHMETA || tok.Type == POPMETA) {
			return
		}
		p.advance()
	}
}

func (p *Parser) posOf(tok Token) ast.Position {
	return ast.Position{Filename: p.filename, Offset: tok.Start, Line: tok.Line, Column: tok.Column}
}

func (p *Parser) internCurrency(tok Token) string {
	return p.interner.InternBytes(tok.Bytes(p.source))
}

func (p *Parser) internString(s string) string {
	return p.interner.Intern(s)
}

func (p *Parser) internIdent(tok Token) string {
	return p.interner.InternBytes(tok.Bytes(p.source))
}

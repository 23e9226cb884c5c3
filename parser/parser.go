package parser

import (
	"fmt"
	"sort"

	"ledgerparse/ast"
	"ledgerparse/options"
)

// Config is the per-parse configuration threaded through one call, replacing
// what upstream fixtures once toggled as process-wide flags.
type Config struct {
	// AllowNegativePrices permits a negative cost or price amount instead of
	// reporting a ParserError.
	AllowNegativePrices bool
	// ReportFilename attributes diagnostics and positions to this name instead
	// of the literal "<string>"/"<bytes>" used by ParseString/ParseBytes.
	ReportFilename string
	// DebugTrace enables phase timing and an AST dump to stderr.
	DebugTrace bool
}

// Output is everything a parse run produces.
type Output struct {
	Directives  ast.Directives
	Options     *options.Registry
	Diagnostics []Diagnostic
	TokenCount  int
}

// Parser drives recursive-descent parsing over a pre-scanned token stream.
type Parser struct {
	source   []byte
	filename string
	tokens   []Token
	pos      int
	interner *Interner
	cfg      Config

	diag    Diagnostics
	opts    *options.Registry
	tagStack  []ast.Tag
	metaStack []*ast.Metadata
}

// New creates a Parser over already-scanned tokens.
func New(source []byte, filename string, tokens []Token, interner *Interner, cfg Config) *Parser {
	return &Parser{
		source:   source,
		filename: filename,
		tokens:   tokens,
		interner: interner,
		cfg:      cfg,
		opts:     options.New(),
	}
}

// ParseTokens scans source then parses it end to end, returning every
// directive alongside accumulated diagnostics and the options registry. It
// never returns a Go error for input-driven reasons: all faults are
// Diagnostics.
func ParseTokens(source []byte, filename string, cfg Config) (*Output, error) {
	lexer := NewLexer(source, filename)
	tokens, err := lexer.ScanAll()
	if err != nil {
		return nil, err
	}

	p := New(source, filename, tokens, lexer.Interner(), cfg)
	directives := p.Parse()

	diagnostics := append(lexer.Diagnostics(), p.diag.All()...)
	sort.SliceStable(diagnostics, func(i, j int) bool {
		return diagnostics[i].Location.Line < diagnostics[j].Location.Line
	})

	return &Output{
		Directives:  directives,
		Options:     p.opts,
		Diagnostics: diagnostics,
		TokenCount:  len(tokens),
	}, nil
}

// Parse runs the File production over the Parser's token stream and reports
// any tags left unbalanced at EOF. Callers that need to time scanning and
// parsing separately (the root package's telemetry) construct the Parser
// themselves and call this directly instead of ParseTokens.
func (p *Parser) Parse() ast.Directives {
	directives := p.parseFile()

	for _, tag := range p.tagStack {
		p.diag.Add(ParserError, ast.Position{Filename: p.filename}, "Unbalanced tag: %s", tag)
	}

	return directives
}

// Diagnostics returns every diagnostic accumulated so far.
func (p *Parser) Diagnostics() []Diagnostic {
	return p.diag.All()
}

// Options returns the options registry populated during parsing.
func (p *Parser) Options() *options.Registry {
	return p.opts
}

// parseFile is the File := Directive* EOF production.
func (p *Parser) parseFile() ast.Directives {
	var directives ast.Directives

	for !p.isAtEnd() {
		p.skipBlankLines()
		if p.isAtEnd() {
			break
		}

		tok := p.peek()
		switch tok.Type {
		case DATE:
			if d := p.parseEntry(); d != nil {
				directives = append(directives, d)
			}
		case PUSHTAG:
			p.parsePushtag()
		case POPTAG:
			p.parsePoptag()
		case PUSHMETA:
			p.parsePushmeta()
		case POPMETA:
			p.parsePopmeta()
		case OPTION:
			p.parseOption()
		case PLUGIN:
			p.parsePlugin()
		case INCLUDE:
			p.parseInclude()
		default:
			p.diag.Add(ParserSyntaxError, p.posOf(tok), "unexpected token %s", tok.Type)
			p.advance()
			p.skipToNextDirective()
		}
	}

	return directives
}

// parseEntry dispatches a DATE-led directive header to its specific parser,
// applying the ambient tag/metadata stacks to whatever comes back.
func (p *Parser) parseEntry() ast.Directive {
	pos := p.posOf(p.peek())
	date, err := p.parseDate()
	if err != nil {
		p.diag.AddDropped(ParserSyntaxError, pos, "entry", "invalid date header")
		p.skipToNextDirective()
		return nil
	}

	kw := p.peek()
	var directive ast.Directive
	var perr error

	switch kw.Type {
	case BALANCE:
		directive, perr = p.parseBalance(pos, date)
	case OPEN:
		directive, perr = p.parseOpen(pos, date)
	case CLOSE:
		directive, perr = p.parseClose(pos, date)
	case COMMODITY:
		directive, perr = p.parseCommodity(pos, date)
	case PAD:
		directive, perr = p.parsePad(pos, date)
	case NOTE:
		directive, perr = p.parseNote(pos, date)
	case DOCUMENT:
		directive, perr = p.parseDocument(pos, date)
	case PRICE:
		directive, perr = p.parsePrice(pos, date)
	case EVENT:
		directive, perr = p.parseEvent(pos, date)
	case CUSTOM:
		directive, perr = p.parseCustom(pos, date)
	case TXN, ASTERISK, EXCLAIM, STRING:
		var txn *ast.Transaction
		txn, perr = p.parseTransaction(pos, date)
		directive = txn
	default:
		perr = fmt.Errorf("expected directive keyword or transaction flag, got %s", kw.Type)
	}

	if perr != nil {
		p.diag.AddDropped(ParserSyntaxError, pos, "entry", "%v", perr)
		p.skipToNextDirective()
		return nil
	}

	if txn, ok := directive.(*ast.Transaction); ok {
		p.applyAmbientStacks(txn)
	}
	return directive
}

// applyAmbientStacks unions the tag stack into a freshly-parsed transaction's
// own tags, and appends any pushed metadata not already set on it, inline as
// the transaction is reduced (never as a second pass over the whole AST).
func (p *Parser) applyAmbientStacks(txn *ast.Transaction) {
	if len(p.tagStack) == 0 && len(p.metaStack) == 0 {
		return
	}

	seen := make(map[ast.Tag]bool, len(txn.Tags))
	for _, t := range txn.Tags {
		seen[t] = true
	}
	for _, t := range p.tagStack {
		if !seen[t] {
			txn.Tags = append(txn.Tags, t)
			seen[t] = true
		}
	}

	existing := make(map[string]bool, len(txn.MetadataList()))
	for _, m := range txn.MetadataList() {
		existing[m.Key] = true
	}
	for _, m := range p.metaStack {
		if !existing[m.Key] {
			txn.AddMetadata(&ast.Metadata{Key: m.Key, Value: m.Value})
		}
	}
}

func (p *Parser) parsePushtag() {
	pos := p.posOf(p.peek())
	p.advance()
	tag, err := p.parseTag()
	if err != nil {
		p.diag.Add(ParserSyntaxError, pos, "expected tag after pushtag")
		p.skipToNextDirective()
		return
	}
	p.tagStack = append(p.tagStack, tag)
	p.skipBlankLines()
}

func (p *Parser) parsePoptag() {
	pos := p.posOf(p.peek())
	p.advance()
	tag, err := p.parseTag()
	if err != nil {
		p.diag.Add(ParserSyntaxError, pos, "expected tag after poptag")
		p.skipToNextDirective()
		return
	}
	idx := -1
	for i := len(p.tagStack) - 1; i >= 0; i-- {
		if p.tagStack[i] == tag {
			idx = i
			break
		}
	}
	if idx < 0 {
		p.diag.Add(ParserError, pos, "absent tag: %s", tag)
	} else {
		p.tagStack = append(p.tagStack[:idx], p.tagStack[idx+1:]...)
	}
	p.skipBlankLines()
}

func (p *Parser) parsePushmeta() {
	pos := p.posOf(p.peek())
	p.advance()
	keyTok := p.peek()
	if keyTok.Type != KEY && !p.isKeyword(keyTok.Type) {
		p.diag.Add(ParserSyntaxError, pos, "expected metadata key after pushmeta")
		p.skipToNextDirective()
		return
	}
	p.advance()
	if !p.match(COLON) {
		p.diag.Add(ParserSyntaxError, pos, "expected ':' after pushmeta key")
		p.skipToNextDirective()
		return
	}
	value := p.parseMetadataValue(keyTok.Line)
	p.metaStack = append(p.metaStack, &ast.Metadata{Key: keyTok.String(p.source), Value: value})
	p.skipBlankLines()
}

func (p *Parser) parsePopmeta() {
	pos := p.posOf(p.peek())
	p.advance()
	keyTok := p.peek()
	if keyTok.Type != KEY && !p.isKeyword(keyTok.Type) {
		p.diag.Add(ParserSyntaxError, pos, "expected metadata key after popmeta")
		p.skipToNextDirective()
		return
	}
	p.advance()
	if p.check(COLON) {
		p.advance()
	}
	key := keyTok.String(p.source)
	idx := -1
	for i := len(p.metaStack) - 1; i >= 0; i-- {
		if p.metaStack[i].Key == key {
			idx = i
			break
		}
	}
	if idx < 0 {
		p.diag.Add(ParserError, pos, "absent meta key: %s", key)
	} else {
		p.metaStack = append(p.metaStack[:idx], p.metaStack[idx+1:]...)
	}
	p.skipBlankLines()
}

// parseOption parses: 'option' STRING STRING
func (p *Parser) parseOption() {
	pos := p.posOf(p.peek())
	p.advance()
	name, err := p.parseString()
	if err != nil {
		p.diag.Add(ParserSyntaxError, pos, "expected option name string")
		p.skipToNextDirective()
		return
	}
	value, err := p.parseString()
	if err != nil {
		p.diag.Add(ParserSyntaxError, pos, "expected option value string")
		p.skipToNextDirective()
		return
	}

	result := p.opts.Set(name, value)
	switch {
	case result.Unknown:
		p.diag.Add(ParserError, pos, "unknown option %q", name)
	case result.ReadOnly:
		p.diag.Add(ParserError, pos, "option %q is read-only", name)
	case result.InvalidEnum:
		p.diag.Add(ParserError, pos, "Error for option %q: invalid value %q", name, value)
	case result.Deprecated:
		p.diag.Add(DeprecatedWarning, pos, "%s", result.DeprecationMsg)
	}
	p.skipBlankLines()
}

// parsePlugin parses: 'plugin' STRING STRING?
func (p *Parser) parsePlugin() {
	pos := p.posOf(p.peek())
	p.advance()
	name, err := p.parseString()
	if err != nil {
		p.diag.Add(ParserSyntaxError, pos, "expected plugin name string")
		p.skipToNextDirective()
		return
	}
	config := ""
	if p.check(STRING) {
		config, _ = p.parseString()
	}
	p.opts.AddPlugin(name, config)
	p.skipBlankLines()
}

// parseInclude parses: 'include' STRING. Resolving the include is a Non-goal;
// the filename is only recorded.
func (p *Parser) parseInclude() {
	pos := p.posOf(p.peek())
	p.advance()
	filename, err := p.parseString()
	if err != nil {
		p.diag.Add(ParserSyntaxError, pos, "expected include filename string")
		p.skipToNextDirective()
		return
	}
	p.opts.AddInclude(filename)
	p.skipBlankLines()
}

// Navigation primitives.

func (p *Parser) peek() Token {
	if p.pos >= len(p.tokens) {
		return Token{Type: EOF}
	}
	return p.tokens[p.pos]
}

func (p *Parser) peekAhead(n int) Token {
	idx := p.pos + n
	if idx >= len(p.tokens) {
		return Token{Type: EOF}
	}
	return p.tokens[idx]
}

func (p *Parser) previous() Token {
	if p.pos == 0 {
		return Token{Type: ILLEGAL}
	}
	return p.tokens[p.pos-1]
}

func (p *Parser) isAtEnd() bool {
	return p.peek().Type == EOF
}

func (p *Parser) check(typ TokenType) bool {
	return p.peek().Type == typ
}

func (p *Parser) match(types ...TokenType) bool {
	for _, typ := range types {
		if p.check(typ) {
			p.advance()
			return true
		}
	}
	return false
}

func (p *Parser) advance() Token {
	if !p.isAtEnd() {
		p.pos++
	}
	return p.previous()
}

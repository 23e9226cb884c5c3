package ast

// DirectiveKind names a directive's concrete variant for dispatch without a type switch.
type DirectiveKind string

const (
	KindTransaction DirectiveKind = "transaction"
	KindOpen        DirectiveKind = "open"
	KindClose       DirectiveKind = "close"
	KindCommodity   DirectiveKind = "commodity"
	KindPad         DirectiveKind = "pad"
	KindBalance     DirectiveKind = "balance"
	KindNote        DirectiveKind = "note"
	KindDocument    DirectiveKind = "document"
	KindPrice       DirectiveKind = "price"
	KindEvent       DirectiveKind = "event"
	KindCustom      DirectiveKind = "custom"
)

// Commodity declares a commodity or currency that can be used in the ledger.
//
// Example:
//
//	2014-01-01 commodity USD
//	  name: "US Dollar"
type Commodity struct {
	Pos      Position
	Date     Date
	Currency string

	withMetadata
}

var _ Directive = &Commodity{}

func (c *Commodity) Position() Position    { return c.Pos }
func (c *Commodity) GetDate() Date         { return c.Date }
func (c *Commodity) Kind() DirectiveKind   { return KindCommodity }

// Open declares the opening of an account at a specific date. It may optionally
// constrain which currencies the account may hold and name a booking method.
//
// Example:
//
//	2014-05-01 open Assets:US:BofA:Checking USD
type Open struct {
	Pos                  Position
	Date                 Date
	Account              Account
	ConstraintCurrencies []string
	BookingMethod        string

	withMetadata
}

var _ Directive = &Open{}

func (o *Open) Position() Position  { return o.Pos }
func (o *Open) GetDate() Date       { return o.Date }
func (o *Open) Kind() DirectiveKind { return KindOpen }

// Close declares the closing of an account at a specific date.
//
// Example:
//
//	2015-09-23 close Assets:US:BofA:Checking
type Close struct {
	Pos     Position
	Date    Date
	Account Account

	withMetadata
}

var _ Directive = &Close{}

func (c *Close) Position() Position  { return c.Pos }
func (c *Close) GetDate() Date       { return c.Date }
func (c *Close) Kind() DirectiveKind { return KindClose }

// Balance asserts that an account should have a specific balance at the beginning
// of a given date.
//
// Example:
//
//	2014-08-09 balance Assets:US:BofA:Checking 562.00 USD
type Balance struct {
	Pos       Position
	Date      Date
	Account   Account
	Amount    *Amount
	Tolerance *Amount // non-nil when a "~ tolerance" followed the amount; shares its currency

	withMetadata
}

var _ Directive = &Balance{}

func (b *Balance) Position() Position  { return b.Pos }
func (b *Balance) GetDate() Date       { return b.Date }
func (b *Balance) Kind() DirectiveKind { return KindBalance }

// Pad automatically inserts a transaction to bring an account to a specific balance
// determined by the next balance assertion; the interpolation itself belongs to the
// downstream balancing collaborator, not this parser.
//
// Example:
//
//	2014-01-01 pad Assets:US:BofA:Checking Equity:Opening-Balances
type Pad struct {
	Pos        Position
	Date       Date
	Account    Account
	AccountPad Account

	withMetadata
}

var _ Directive = &Pad{}

func (p *Pad) Position() Position  { return p.Pos }
func (p *Pad) GetDate() Date       { return p.Date }
func (p *Pad) Kind() DirectiveKind { return KindPad }

// Note attaches a dated comment to an account.
//
// Example:
//
//	2014-07-09 note Assets:US:BofA:Checking "Called bank about pending deposit"
type Note struct {
	Pos         Position
	Date        Date
	Account     Account
	Description string

	withMetadata
}

var _ Directive = &Note{}

func (n *Note) Position() Position  { return n.Pos }
func (n *Note) GetDate() Date       { return n.Date }
func (n *Note) Kind() DirectiveKind { return KindNote }

// Document associates an external file with an account at a specific date.
//
// Example:
//
//	2014-07-09 document Assets:US:BofA:Checking "/documents/statement-2014-07.pdf"
type Document struct {
	Pos            Position
	Date           Date
	Account        Account
	PathToDocument string

	withMetadata
}

var _ Directive = &Document{}

func (d *Document) Position() Position  { return d.Pos }
func (d *Document) GetDate() Date       { return d.Date }
func (d *Document) Kind() DirectiveKind { return KindDocument }

// Price declares the price of a commodity in terms of another currency.
//
// Example:
//
//	2014-07-09 price USD 1.08 CAD
type Price struct {
	Pos       Position
	Date      Date
	Commodity string
	Amount    *Amount

	withMetadata
}

var _ Directive = &Price{}

func (p *Price) Position() Position  { return p.Pos }
func (p *Price) GetDate() Date       { return p.Date }
func (p *Price) Kind() DirectiveKind { return KindPrice }

// Event records a named event with a value at a specific date.
//
// Example:
//
//	2014-07-09 event "location" "New York, USA"
type Event struct {
	Pos   Position
	Date  Date
	Name  string
	Value string

	withMetadata
}

var _ Directive = &Event{}

func (e *Event) Position() Position  { return e.Pos }
func (e *Event) GetDate() Date       { return e.Date }
func (e *Event) Kind() DirectiveKind { return KindEvent }

// Custom is an extension-point directive: arbitrary typed values following a type name.
//
// Example:
//
//	2014-07-09 custom "budget" "..." TRUE 45.30 USD
type Custom struct {
	Pos    Position
	Date   Date
	Type   string
	Values []*CustomValue

	withMetadata
}

var _ Directive = &Custom{}

func (c *Custom) Position() Position  { return c.Pos }
func (c *Custom) GetDate() Date       { return c.Date }
func (c *Custom) Kind() DirectiveKind { return KindCustom }

// CustomValue represents a single value in a custom directive: a string, number,
// boolean, or amount. Only one field is populated for each value.
type CustomValue struct {
	String  *string
	Boolean *bool
	Amount  *Amount
	Number  *string
}

// GetValue returns the Go-native value stored in this CustomValue.
func (cv *CustomValue) GetValue() any {
	switch {
	case cv.String != nil:
		return *cv.String
	case cv.Boolean != nil:
		return *cv.Boolean
	case cv.Amount != nil:
		return cv.Amount
	case cv.Number != nil:
		return *cv.Number
	default:
		return nil
	}
}

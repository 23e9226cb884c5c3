package ast

import (
	"fmt"
	"regexp"
	"time"

	"github.com/shopspring/decimal"
)

// Amount pairs an arbitrary-precision decimal value with its currency or commodity
// symbol. The decimal keeps the exponent of the literal that produced it (e.g. "100"
// and "100.00" compare equal but carry different exponents; String trims trailing
// zeros, so both print as "100"), rather than going through binary floating point.
type Amount struct {
	Number   decimal.Decimal
	Currency string
}

func (a *Amount) String() string {
	if a == nil {
		return ""
	}
	return a.Number.String() + " " + a.Currency
}

// Cost represents the cost basis specification for a posting, used primarily for tracking
// the acquisition cost of investments and other commodities. An empty cost {} selects any
// lot automatically. A merge cost {*} averages all lots together. Otherwise, you can specify
// the per-unit cost amount, acquisition date, and/or a label to identify specific lots for
// capital gains calculations.
//
// Example cost specifications:
//
//	10 HOOL {518.73 USD}              ; Per-unit cost
//	10 HOOL {518.73 USD, 2014-05-01}  ; Cost with acquisition date
//	-5 HOOL {502.12 USD, "first-lot"} ; Cost with label for lot selection
//	10 HOOL {}                        ; Any lot (automatic selection)
//	10 HOOL {*}                       ; Merge/average all lots
type Cost struct {
	IsMerge bool
	Amount  *Amount
	Date    *Date
	Label   string
	// Total is true when the cost was written in total form ({{...}}); Amount
	// already holds the per-unit equivalent by the time the builder is done.
	Total bool
}

// IsEmpty returns true if this is an empty cost specification {}.
func (c *Cost) IsEmpty() bool {
	return c != nil && !c.IsMerge && c.Amount == nil && c.Date == nil && c.Label == ""
}

// IsMergeCost returns true if this is a merge cost specification {*}.
func (c *Cost) IsMergeCost() bool {
	return c != nil && c.IsMerge
}

// Account represents a Beancount account name consisting of at least two colon-separated
// segments. The first segment (account type) must be one of the five account categories:
// Assets, Liabilities, Equity, Income, or Expenses. Subsequent segments must start with
// an uppercase letter or digit and can contain letters, numbers, and hyphens.
//
// Example accounts:
//
//	Assets:US:BofA:Checking
//	Liabilities:CreditCard:CapitalOne
//	Income:US:Acme:Salary
//	Expenses:Home:Rent
type Account string

// accountSegmentRegex validates account segments after the first.
var accountSegmentRegex = regexp.MustCompile(`^[A-Z0-9][A-Za-z0-9-]*$`)

// currencyRegex validates currency/commodity codes: 2-24 characters, starting
// with a capital letter, made up of capitals, digits, and '._-, and ending
// in a capital letter or digit.
var currencyRegex = regexp.MustCompile(`^[A-Z][A-Z0-9'._-]{0,22}[A-Z0-9]$`)

// ValidateCurrency checks the beancount currency-code rules.
func ValidateCurrency(code string) error {
	if len(code) == 2 {
		if code[0] >= 'A' && code[0] <= 'Z' && ((code[1] >= 'A' && code[1] <= 'Z') || (code[1] >= '0' && code[1] <= '9')) {
			return nil
		}
		return fmt.Errorf("invalid currency code: %s", code)
	}
	if len(code) < 2 || len(code) > 24 {
		return fmt.Errorf("currency must be 2-24 characters: %s", code)
	}
	if !currencyRegex.MatchString(code) {
		return fmt.Errorf("invalid currency code: %s", code)
	}
	return nil
}

// ValidateAccount checks the beancount account-naming rules described on Account
// without allocating an Account value, so the scanner can classify a lexeme before
// deciding whether to emit an ACCOUNT token or a LexerError.
func ValidateAccount(name string) error {
	segs := splitColon(name)
	if len(segs) < 2 {
		return fmt.Errorf("account must have at least two segments: %s", name)
	}
	switch segs[0] {
	case "Assets", "Liabilities", "Equity", "Income", "Expenses":
	default:
		return fmt.Errorf("unexpected account type %q", segs[0])
	}
	for i := 1; i < len(segs); i++ {
		if !accountSegmentRegex.MatchString(segs[i]) {
			return fmt.Errorf("invalid account segment at position %d: %s", i, segs[i])
		}
	}
	return nil
}

func splitColon(s string) []string {
	var parts []string
	start := 0
	for i := 0; i < len(s); i++ {
		if s[i] == ':' {
			parts = append(parts, s[start:i])
			start = i + 1
		}
	}
	parts = append(parts, s[start:])
	return parts
}

// Date represents a calendar date in ISO 8601 format (YYYY-MM-DD). All Beancount
// directives and transactions must have a date.
type Date struct {
	time.Time
}

// ParseDate parses a YYYY-MM-DD literal into a Date, validating the calendar date
// (rejecting e.g. 2013-02-30) the way the scanner's date recognizer does.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return Date{}, fmt.Errorf("invalid date: %s", s)
	}
	return Date{Time: t}, nil
}

// IsZero returns true if the Date is nil or represents the zero time.
func (d *Date) IsZero() bool {
	if d == nil {
		return true
	}
	return d.Time.IsZero()
}

// Link represents a reference link starting with ^, used to connect related transactions.
type Link string

// Tag represents a hashtag starting with #, used to categorize transactions.
type Tag string

// MetadataValue is a discriminated union of the nine typed value kinds beancount
// metadata may hold. At most one field is non-nil; a value with none set is the null
// value of a key written with nothing after its colon. String/Account/Currency/Tag/Link/Number are
// stored as the lexeme text (Number keeps exact decimal text rather than a parsed
// decimal.Decimal, matching how a bare metadata number is never arithmetically
// combined with anything else).
type MetadataValue struct {
	StringValue *string
	Date        *Date
	Account     *Account
	Currency    *string
	Tag         *Tag
	Link        *Link
	Number      *string
	Amount      *Amount
	Boolean     *bool
}

// Type returns the name of the populated variant, or "null" if none is set.
func (m *MetadataValue) Type() string {
	if m == nil {
		return "null"
	}
	switch {
	case m.StringValue != nil:
		return "string"
	case m.Date != nil:
		return "date"
	case m.Account != nil:
		return "account"
	case m.Currency != nil:
		return "currency"
	case m.Tag != nil:
		return "tag"
	case m.Link != nil:
		return "link"
	case m.Number != nil:
		return "number"
	case m.Amount != nil:
		return "amount"
	case m.Boolean != nil:
		return "boolean"
	default:
		return "null"
	}
}

// String renders the value's text form, used by the debug-trace dump and tests.
func (m *MetadataValue) String() string {
	if m == nil {
		return ""
	}
	switch {
	case m.StringValue != nil:
		return *m.StringValue
	case m.Date != nil:
		return m.Date.Format("2006-01-02")
	case m.Account != nil:
		return string(*m.Account)
	case m.Currency != nil:
		return *m.Currency
	case m.Tag != nil:
		return string(*m.Tag)
	case m.Link != nil:
		return string(*m.Link)
	case m.Number != nil:
		return *m.Number
	case m.Amount != nil:
		return m.Amount.String()
	case m.Boolean != nil:
		if *m.Boolean {
			return "TRUE"
		}
		return "FALSE"
	default:
		return ""
	}
}

// Metadata is a single key-value pair attached to a directive or posting.
type Metadata struct {
	Key   string
	Value *MetadataValue
}

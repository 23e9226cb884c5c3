package ast

import (
	"strings"

	"github.com/shopspring/decimal"
)

// NewAmount creates an Amount from a decimal string and currency code. Panics if
// value cannot be parsed as a decimal — callers building an AST programmatically
// are expected to pass literal, known-good values (as in the examples below); data
// coming from untrusted input should go through the parser instead, which reports
// malformed numbers as diagnostics rather than panicking.
//
// Example:
//
//	amount := ast.NewAmount("45.60", "USD")
func NewAmount(value, currency string) *Amount {
	n, err := decimal.NewFromString(value)
	if err != nil {
		panic("ast: invalid amount literal: " + value)
	}
	return &Amount{Number: n, Currency: currency}
}

// NewDate parses a date string in YYYY-MM-DD format.
//
// Example:
//
//	date, err := ast.NewDate("2024-01-15")
func NewDate(s string) (Date, error) {
	return ParseDate(s)
}

// NewAccount validates and returns an Account from the given name.
//
// Example:
//
//	account, err := ast.NewAccount("Assets:US:BofA:Checking")
func NewAccount(name string) (Account, error) {
	if err := ValidateAccount(name); err != nil {
		return "", err
	}
	return Account(name), nil
}

// NewLink creates a Link from a name, stripping a leading ^ if present.
func NewLink(name string) Link {
	return Link(strings.TrimPrefix(name, "^"))
}

// NewTag creates a Tag from a name, stripping a leading # if present.
func NewTag(name string) Tag {
	return Tag(strings.TrimPrefix(name, "#"))
}

// NewMetadata creates a Metadata entry with a string value.
func NewMetadata(key, value string) *Metadata {
	return &Metadata{Key: key, Value: &MetadataValue{StringValue: &value}}
}

// TransactionOption configures a Transaction built with NewTransaction.
type TransactionOption func(*Transaction)

// NewTransaction creates a Transaction with the given date and narration.
//
// Example:
//
//	txn := ast.NewTransaction(date, "Buy groceries",
//	    ast.WithFlag("*"),
//	    ast.WithPayee("Whole Foods"),
//	    ast.WithTags("food", "shopping"),
//	    ast.WithPostings(
//	        ast.NewPosting(expensesAccount, ast.WithAmount("45.60", "USD")),
//	        ast.NewPosting(checkingAccount),
//	    ),
//	)
func NewTransaction(date Date, narration string, opts ...TransactionOption) *Transaction {
	txn := &Transaction{
		Date:      date,
		Narration: narration,
		Flag:      "*",
	}
	for _, opt := range opts {
		opt(txn)
	}
	return txn
}

func WithFlag(flag string) TransactionOption {
	return func(t *Transaction) { t.Flag = flag }
}

func WithPayee(payee string) TransactionOption {
	return func(t *Transaction) { t.Payee = &payee }
}

func WithTags(tags ...string) TransactionOption {
	return func(t *Transaction) {
		for _, tag := range tags {
			t.Tags = append(t.Tags, NewTag(tag))
		}
	}
}

func WithLinks(links ...string) TransactionOption {
	return func(t *Transaction) {
		for _, link := range links {
			t.Links = append(t.Links, NewLink(link))
		}
	}
}

func WithTransactionMetadata(metadata ...*Metadata) TransactionOption {
	return func(t *Transaction) { t.AddMetadata(metadata...) }
}

func WithPostings(postings ...*Posting) TransactionOption {
	return func(t *Transaction) { t.Postings = postings }
}

// PostingOption configures a Posting built with NewPosting.
type PostingOption func(*Posting)

// NewPosting creates a Posting for the given account.
//
// Example:
//
//	posting := ast.NewPosting(account,
//	    ast.WithAmount("100.00", "USD"),
//	    ast.WithCost(ast.NewCost(ast.NewAmount("1.35", "EUR"))),
//	)
func NewPosting(account Account, opts ...PostingOption) *Posting {
	p := &Posting{Account: account}
	for _, opt := range opts {
		opt(p)
	}
	p.Automatic = p.Amount == nil
	if p.Automatic {
		p.AddMetadata(&Metadata{Key: AutomaticMetaKey, Value: &MetadataValue{Boolean: boolPtr(true)}})
	}
	return p
}

func boolPtr(b bool) *bool { return &b }

func WithAmount(value, currency string) PostingOption {
	return func(p *Posting) { p.Amount = NewAmount(value, currency) }
}

func WithCost(cost *Cost) PostingOption {
	return func(p *Posting) { p.Cost = cost }
}

func WithPrice(price *Amount) PostingOption {
	return func(p *Posting) { p.Price = price; p.PriceTotal = false }
}

func WithTotalPrice(price *Amount) PostingOption {
	return func(p *Posting) { p.Price = price; p.PriceTotal = true }
}

func WithPostingFlag(flag string) PostingOption {
	return func(p *Posting) { p.Flag = flag }
}

func WithPostingMetadata(metadata ...*Metadata) PostingOption {
	return func(p *Posting) { p.AddMetadata(metadata...) }
}

// NewCost creates a Cost specification with just a per-unit amount.
func NewCost(amount *Amount) *Cost {
	return &Cost{Amount: amount}
}

// NewCostWithDate creates a Cost specification with an amount and acquisition date.
func NewCostWithDate(amount *Amount, date Date) *Cost {
	return &Cost{Amount: amount, Date: &date}
}

// NewCostWithLabel creates a Cost specification with an amount, date, and lot label.
func NewCostWithLabel(amount *Amount, date Date, label string) *Cost {
	return &Cost{Amount: amount, Date: &date, Label: label}
}

// NewEmptyCost creates an empty cost specification {}.
func NewEmptyCost() *Cost {
	return &Cost{}
}

// NewMergeCost creates a merge cost specification {*}.
func NewMergeCost() *Cost {
	return &Cost{IsMerge: true}
}

// NewClearedTransaction creates a Transaction with flag="*" (cleared).
func NewClearedTransaction(date Date, narration string, postings ...*Posting) *Transaction {
	return NewTransaction(date, narration, WithFlag("*"), WithPostings(postings...))
}

// NewPendingTransaction creates a Transaction with flag="!" (pending).
func NewPendingTransaction(date Date, narration string, postings ...*Posting) *Transaction {
	return NewTransaction(date, narration, WithFlag("!"), WithPostings(postings...))
}

// NewOpen creates an Open directive for an account.
func NewOpen(date Date, account Account, constraintCurrencies []string, bookingMethod string) *Open {
	return &Open{Date: date, Account: account, ConstraintCurrencies: constraintCurrencies, BookingMethod: bookingMethod}
}

// NewClose creates a Close directive for an account.
func NewClose(date Date, account Account) *Close {
	return &Close{Date: date, Account: account}
}

// NewBalance creates a Balance assertion directive.
func NewBalance(date Date, account Account, amount *Amount) *Balance {
	return &Balance{Date: date, Account: account, Amount: amount}
}

// NewPad creates a Pad directive that balances Account against AccountPad.
func NewPad(date Date, account, padAccount Account) *Pad {
	return &Pad{Date: date, Account: account, AccountPad: padAccount}
}

// NewNote creates a Note directive for an account.
func NewNote(date Date, account Account, description string) *Note {
	return &Note{Date: date, Account: account, Description: description}
}

// NewDocument creates a Document directive linking a file to an account.
func NewDocument(date Date, account Account, pathToDocument string) *Document {
	return &Document{Date: date, Account: account, PathToDocument: pathToDocument}
}

// NewCommodity creates a Commodity directive.
func NewCommodity(date Date, currency string) *Commodity {
	return &Commodity{Date: date, Currency: currency}
}

// NewPrice creates a Price directive for a commodity.
func NewPrice(date Date, commodity string, amount *Amount) *Price {
	return &Price{Date: date, Commodity: commodity, Amount: amount}
}

// NewEvent creates an Event directive.
func NewEvent(date Date, name, value string) *Event {
	return &Event{Date: date, Name: name, Value: value}
}

// NewCustom creates a Custom directive.
func NewCustom(date Date, typeName string, values []*CustomValue) *Custom {
	return &Custom{Date: date, Type: typeName, Values: values}
}

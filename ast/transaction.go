package ast

// Transaction records a financial transaction with a date, flag, optional payee,
// narration, and a list of postings. The flag indicates transaction status: '*' for
// cleared/complete transactions, '!' for pending/uncleared transactions.
//
// Example:
//
//	2014-05-05 * "Cafe Mogador" "Lamb tagine with wine"
//	  Liabilities:CreditCard:CapitalOne         -37.45 USD
//	  Expenses:Food:Restaurant
type Transaction struct {
	Pos       Position
	Date      Date
	Flag      string
	Payee     *string // nil unless the header wrote two strings
	Narration string  // empty if the header wrote zero strings
	Tags      []Tag
	Links     []Link

	withMetadata

	Postings []*Posting
}

var _ Directive = &Transaction{}

func (t *Transaction) Position() Position  { return t.Pos }
func (t *Transaction) GetDate() Date       { return t.Date }
func (t *Transaction) Kind() DirectiveKind { return KindTransaction }

// AutomaticMetaKey is the metadata key mirroring Posting.Automatic, preserved per
// the distilled spec's note that both representations (a dedicated boolean field and
// a magic metadata key) must be available to downstream consumers.
const AutomaticMetaKey = "__automatic__"

// Posting represents a single leg of a transaction: an account plus optional amount,
// cost, and price. A posting whose Amount is nil is Automatic and must be
// interpolated by a downstream balancing collaborator; this parser never computes it.
//
// Example postings within transactions:
//
//	Assets:Investments:Brokerage    10 HOOL {518.73 USD}  ; Purchase with cost
//	Assets:Investments:Cash        200 EUR @ 1.35 USD     ; Currency conversion with price
//	Assets:Checking                                        ; Automatic (amount inferred)
type Posting struct {
	Pos        Position
	Flag       string
	Account    Account
	Amount     *Amount
	Automatic  bool
	Cost       *Cost
	PriceTotal bool // true when the price was written in total form (@@)
	Price      *Amount

	withMetadata
}

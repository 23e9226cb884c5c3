package parser

import (
	"testing"

	"github.com/alecthomas/assert/v2"

	"ledgerparse/ast"
)

func parse(t *testing.T, source string, cfg Config) *Output {
	t.Helper()
	out, err := ParseTokens([]byte(source), "test.beancount", cfg)
	assert.NoError(t, err)
	return out
}

func TestParseOpenDirective(t *testing.T) {
	out := parse(t, "2014-05-01 open Assets:US:BofA:Checking USD,EUR \"FIFO\"\n", Config{})
	assert.Equal(t, 0, len(out.Diagnostics))
	assert.Equal(t, 1, len(out.Directives))

	open, ok := out.Directives[0].(*ast.Open)
	assert.True(t, ok)
	assert.Equal(t, ast.Account("Assets:US:BofA:Checking"), open.Account)
	assert.Equal(t, []string{"USD", "EUR"}, open.ConstraintCurrencies)
	assert.Equal(t, "FIFO", open.BookingMethod)
}

func TestParseCloseDirective(t *testing.T) {
	out := parse(t, "2015-09-23 close Assets:US:BofA:Checking\n", Config{})
	assert.Equal(t, 0, len(out.Diagnostics))
	close, ok := out.Directives[0].(*ast.Close)
	assert.True(t, ok)
	assert.Equal(t, ast.Account("Assets:US:BofA:Checking"), close.Account)
}

func TestParseBalanceWithTolerance(t *testing.T) {
	out := parse(t, "2014-08-09 balance Assets:US:BofA:Checking 562.00 USD ~ 0.005\n", Config{})
	assert.Equal(t, 0, len(out.Diagnostics))
	bal, ok := out.Directives[0].(*ast.Balance)
	assert.True(t, ok)
	assert.Equal(t, "562", bal.Amount.Number.String())
	assert.Equal(t, "USD", bal.Amount.Currency)
	assert.NotZero(t, bal.Tolerance)
	assert.Equal(t, "0.005", bal.Tolerance.Number.String())
}

func TestParseBalanceWithCostIsRejected(t *testing.T) {
	source := "2014-08-09 balance Assets:Investments:Brokerage 10 HOOL {518.73 USD}\n" +
		"2014-08-10 balance Assets:Investments:Brokerage 10 HOOL\n"
	out := parse(t, source, Config{})
	assert.Equal(t, 1, len(out.Directives))
	assert.Equal(t, 1, len(out.Diagnostics))
	assert.Equal(t, ParserSyntaxError, out.Diagnostics[0].Kind)

	bal, ok := out.Directives[0].(*ast.Balance)
	assert.True(t, ok)
	assert.Equal(t, "10", bal.Amount.Number.String())
}

func TestParseSimpleTransaction(t *testing.T) {
	source := `2014-05-05 * "Cafe Mogador" "Lamb tagine with wine"
  Liabilities:CreditCard:CapitalOne         -37.45 USD
  Expenses:Food:Restaurant
`
	out := parse(t, source, Config{})
	assert.Equal(t, 0, len(out.Diagnostics))
	txn, ok := out.Directives[0].(*ast.Transaction)
	assert.True(t, ok)
	assert.Equal(t, "*", txn.Flag)
	assert.Equal(t, "Cafe Mogador", *txn.Payee)
	assert.Equal(t, "Lamb tagine with wine", txn.Narration)
	assert.Equal(t, 2, len(txn.Postings))
	assert.Equal(t, "-37.45", txn.Postings[0].Amount.Number.String())
	assert.True(t, txn.Postings[1].Automatic)
	assert.Equal(t, true, *txn.Postings[1].MetadataList()[0].Value.Boolean)
}

func TestParseTransactionWithCostAndPrice(t *testing.T) {
	source := `2014-05-05 * "Buy stock"
  Assets:Investments:Brokerage    10 HOOL {518.73 USD} @ 530.00 USD
  Assets:Investments:Cash
`
	out := parse(t, source, Config{})
	assert.Equal(t, 0, len(out.Diagnostics))
	txn := out.Directives[0].(*ast.Transaction)
	posting := txn.Postings[0]
	assert.Equal(t, "518.73", posting.Cost.Amount.Number.String())
	assert.Equal(t, "530", posting.Price.Number.String())
	assert.False(t, posting.PriceTotal)
}

func TestParseTotalPriceDividesByUnits(t *testing.T) {
	source := `2014-05-05 * "Currency conversion"
  Assets:Investments:Cash        200 EUR @@ 270.00 USD
  Assets:Checking
`
	out := parse(t, source, Config{})
	assert.Equal(t, 0, len(out.Diagnostics))
	txn := out.Directives[0].(*ast.Transaction)
	assert.Equal(t, "1.35", txn.Postings[0].Price.Number.String())
	assert.True(t, txn.Postings[0].PriceTotal)
}

func TestParseNegativePriceIsErrorByDefault(t *testing.T) {
	source := `2014-05-05 * "Bad price"
  Assets:Investments:Cash        10 EUR @ -1.35 USD
  Assets:Checking
`
	out := parse(t, source, Config{})
	assert.Equal(t, 0, len(out.Directives))
	assert.Equal(t, 1, len(out.Diagnostics))
}

func TestParseNegativePriceAllowedWithConfig(t *testing.T) {
	source := `2014-05-05 * "Negative price allowed"
  Assets:Investments:Cash        10 EUR @ -1.35 USD
  Assets:Checking
`
	out := parse(t, source, Config{AllowNegativePrices: true})
	assert.Equal(t, 0, len(out.Diagnostics))
	assert.Equal(t, 1, len(out.Directives))
}

func TestParsePushtagAppliesToSubsequentTransactions(t *testing.T) {
	source := `pushtag #trip-europe
2014-05-05 * "Hotel"
  Expenses:Travel:Hotel  100.00 USD
  Assets:Checking
poptag #trip-europe
2014-05-06 * "Not tagged"
  Expenses:Food  10.00 USD
  Assets:Checking
`
	out := parse(t, source, Config{})
	assert.Equal(t, 0, len(out.Diagnostics))
	assert.Equal(t, 2, len(out.Directives))

	tagged := out.Directives[0].(*ast.Transaction)
	assert.Equal(t, []ast.Tag{"trip-europe"}, tagged.Tags)

	untagged := out.Directives[1].(*ast.Transaction)
	assert.Equal(t, 0, len(untagged.Tags))
}

func TestParsePoptagWithoutMatchingPushtagIsError(t *testing.T) {
	out := parse(t, "poptag #never-pushed\n", Config{})
	assert.Equal(t, 1, len(out.Diagnostics))
	assert.Equal(t, ParserError, out.Diagnostics[0].Kind)
}

func TestParseUnbalancedPushtagAtEOF(t *testing.T) {
	out := parse(t, "pushtag #unclosed\n", Config{})
	assert.Equal(t, 1, len(out.Diagnostics))
	assert.Equal(t, ParserError, out.Diagnostics[0].Kind)
}

func TestParsePushmetaPopmeta(t *testing.T) {
	source := `pushmeta location: "New York, NY"
2014-05-05 * "Dinner"
  Expenses:Food  10.00 USD
  Assets:Checking
popmeta location:
`
	out := parse(t, source, Config{})
	assert.Equal(t, 0, len(out.Diagnostics))
	txn := out.Directives[0].(*ast.Transaction)
	found := false
	for _, m := range txn.MetadataList() {
		if m.Key == "location" {
			found = true
			assert.Equal(t, "New York, NY", *m.Value.StringValue)
		}
	}
	assert.True(t, found)
}

func TestParseOptionDirective(t *testing.T) {
	out := parse(t, `option "title" "My Ledger"`+"\n", Config{})
	assert.Equal(t, 0, len(out.Diagnostics))
	assert.Equal(t, "My Ledger", out.Options.String("title"))
}

func TestParseUnknownOptionIsError(t *testing.T) {
	out := parse(t, `option "not_a_real_option" "x"`+"\n", Config{})
	assert.Equal(t, 1, len(out.Diagnostics))
	assert.Equal(t, ParserError, out.Diagnostics[0].Kind)
}

func TestParseDeprecatedOptionWarns(t *testing.T) {
	out := parse(t, `option "tolerance" "0.02"`+"\n", Config{})
	assert.Equal(t, 1, len(out.Diagnostics))
	assert.Equal(t, DeprecatedWarning, out.Diagnostics[0].Kind)
}

func TestParseIncludeRecordedNotResolved(t *testing.T) {
	out := parse(t, `include "accounts.beancount"`+"\n", Config{})
	assert.Equal(t, 0, len(out.Diagnostics))
	assert.Equal(t, []string{"accounts.beancount"}, out.Options.StringList("include"))
}

func TestParsePluginDirective(t *testing.T) {
	out := parse(t, `plugin "beancount.plugins.auto_accounts" "config"`+"\n", Config{})
	assert.Equal(t, 0, len(out.Diagnostics))
	plugins := out.Options.Plugins()
	assert.Equal(t, 1, len(plugins))
	assert.Equal(t, "beancount.plugins.auto_accounts", plugins[0].Name)
	assert.Equal(t, "config", plugins[0].Config)
}

func TestParseInvalidAccountIsLexerError(t *testing.T) {
	out := parse(t, "2014-05-01 open BadRoot:Checking\n", Config{})
	assert.Equal(t, 0, len(out.Directives))
	// The account validator reports the specific LexerError, and parseEntry's
	// generic dropped-entry handler reports a second ParserSyntaxError for
	// the whole directive it had to discard.
	assert.Equal(t, 2, len(out.Diagnostics))
	assert.Equal(t, LexerError, out.Diagnostics[0].Kind)
	assert.Equal(t, ParserSyntaxError, out.Diagnostics[1].Kind)
}

func TestParseInvalidDateRecoversAtNextDirective(t *testing.T) {
	source := "2013-02-30 close Assets:X\n2014-01-01 close Assets:Y\n"
	out := parse(t, source, Config{})
	assert.Equal(t, 1, len(out.Directives))
	assert.Equal(t, 2, len(out.Diagnostics))
	assert.Equal(t, LexerError, out.Diagnostics[0].Kind)
	close, ok := out.Directives[0].(*ast.Close)
	assert.True(t, ok)
	assert.Equal(t, ast.Account("Assets:Y"), close.Account)
}

func TestParseSourceOrderRetainedAcrossDates(t *testing.T) {
	source := "2015-01-01 close Assets:Y\n2014-01-01 close Assets:X\n"
	out := parse(t, source, Config{})
	assert.Equal(t, 0, len(out.Diagnostics))
	assert.Equal(t, ast.Account("Assets:Y"), out.Directives[0].(*ast.Close).Account)
	assert.Equal(t, ast.Account("Assets:X"), out.Directives[1].(*ast.Close).Account)
}

func TestParseMetadataOnDirective(t *testing.T) {
	source := `2014-05-01 open Assets:US:BofA:Checking
  number: 12345678
  is-primary: TRUE
`
	out := parse(t, source, Config{})
	assert.Equal(t, 0, len(out.Diagnostics))
	open := out.Directives[0].(*ast.Open)
	assert.Equal(t, 2, len(open.MetadataList()))
	assert.Equal(t, "12345678", *open.MetadataList()[0].Value.Number)
	assert.Equal(t, true, *open.MetadataList()[1].Value.Boolean)
}

func TestParseEmptyMetadataValueBindsToNull(t *testing.T) {
	source := `2014-05-01 open Assets:US:BofA:Checking
  empty-key:
  number: 12345678
`
	out := parse(t, source, Config{})
	assert.Equal(t, 0, len(out.Diagnostics))
	open := out.Directives[0].(*ast.Open)
	assert.Equal(t, 2, len(open.MetadataList()))

	empty := open.MetadataList()[0]
	assert.Equal(t, "empty-key", empty.Key)
	assert.Zero(t, empty.Value.StringValue)
	assert.Zero(t, empty.Value.Number)
	assert.Zero(t, empty.Value.Boolean)
	assert.Zero(t, empty.Value.Date)
	assert.Zero(t, empty.Value.Tag)
	assert.Zero(t, empty.Value.Link)
	assert.Zero(t, empty.Value.Account)
	assert.Zero(t, empty.Value.Currency)
	assert.Zero(t, empty.Value.Amount)

	number := open.MetadataList()[1]
	assert.Equal(t, "number", number.Key)
	assert.Equal(t, "12345678", *number.Value.Number)
}

func TestParseDuplicateMetadataKeyKeepsFirstValue(t *testing.T) {
	source := `2014-05-01 open Assets:US:BofA:Checking
  number: 111
  number: 222
`
	out := parse(t, source, Config{})
	assert.Equal(t, 1, len(out.Diagnostics))
	assert.Equal(t, ParserError, out.Diagnostics[0].Kind)

	open := out.Directives[0].(*ast.Open)
	assert.Equal(t, 1, len(open.MetadataList()))
	assert.Equal(t, "111", *open.MetadataList()[0].Value.Number)
}

func TestParseInvalidUTF8LineResyncsAndReportsDiagnostic(t *testing.T) {
	source := "2014-05-01 open Assets:Checking\n\xff\xfe\n2014-05-02 close Assets:Checking\n"
	out := parse(t, source, Config{})
	assert.Equal(t, 1, len(out.Diagnostics))
	assert.Equal(t, LexerError, out.Diagnostics[0].Kind)
	assert.Equal(t, 2, out.Diagnostics[0].Location.Line)
	assert.Equal(t, 2, len(out.Directives))
	assert.Equal(t, ast.Account("Assets:Checking"), out.Directives[0].(*ast.Open).Account)
	assert.Equal(t, ast.Account("Assets:Checking"), out.Directives[1].(*ast.Close).Account)
}

func TestParseCustomDirective(t *testing.T) {
	out := parse(t, `2014-07-09 custom "budget" "..." TRUE 45.30 USD`+"\n", Config{})
	assert.Equal(t, 0, len(out.Diagnostics))
	custom := out.Directives[0].(*ast.Custom)
	assert.Equal(t, "budget", custom.Type)
	assert.Equal(t, 3, len(custom.Values))
	assert.Equal(t, "...", *custom.Values[0].String)
	assert.Equal(t, true, *custom.Values[1].Boolean)
	assert.Equal(t, "45.3", custom.Values[2].Amount.Number.String())
}

func TestParseExpressionInAmount(t *testing.T) {
	out := parse(t, "2014-05-01 balance Assets:X (10 + 5) * 2 USD\n", Config{})
	assert.Equal(t, 0, len(out.Diagnostics))
	bal := out.Directives[0].(*ast.Balance)
	assert.Equal(t, "30", bal.Amount.Number.String())
}

func TestDiagnosticErrorString(t *testing.T) {
	d := Diagnostic{Kind: ParserError, Location: ast.Position{Filename: "a.bean", Line: 3, Column: 1}, Message: "bad"}
	assert.Equal(t, "a.bean:3:1: ParserError: bad", d.Error())
}

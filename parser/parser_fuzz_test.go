package parser

import (
	"testing"
)

func FuzzParseTokens(f *testing.F) {
	seeds := []string{
		"2014-01-01 open Assets:Checking USD",
		"2014-12-31 close Assets:Checking",
		"2014-08-09 balance Assets:Checking 100.00 USD",
		"2014-08-09 balance Assets:Checking 100.00 USD ~ 0.01",

		"2014-05-05 * \"Cafe\" \"Coffee\"\n  Expenses:Food  4.50 USD\n  Assets:Cash",
		"2014-05-06 * \"Store\"\n  Expenses:Shopping  50.00 USD\n  Assets:Checking",
		"2014-05-05 * \"Buy stock\"\n  Assets:Brokerage  10 HOOL {518.73 USD} @ 530.00 USD\n  Assets:Cash",

		"option \"title\" \"Example\"",
		"option \"operating_currency\" \"USD\"",
		"include \"accounts.beancount\"",
		"plugin \"beancount.plugins.auto_accounts\" \"config\"",

		"; This is a comment",
		"pushtag #trip",
		"poptag #trip",
		"pushmeta location: \"NYC\"",
		"popmeta location:",

		"",
		"  \n\n  \n",
		"; Just a comment\n",

		"2014-01-01 open Assets:Checking USD\n  description: \"Primary checking account\"",
		"2014-07-09 price HOOL 579.18 USD",
		"2014-07-09 note Assets:Checking \"Called about rebate\"",
		"2014-07-09 document Assets:Checking \"/path/to/statement.pdf\"",
		"2014-07-09 event \"location\" \"New York, USA\"",
		"2014-07-09 query \"cash\" \"SELECT * FROM accounts WHERE account ~ 'Cash'\"",
		"2014-07-09 pad Assets:Checking Equity:Opening-Balances",
		"2014-07-09 custom \"budget\" Expenses:Food \"monthly\" 500.00 USD",

		"2013-02-30 close Assets:X",
		"2014-05-01 open BadRoot:Checking",
		"poptag #never-pushed",
		"pushtag #unclosed",
	}

	for _, seed := range seeds {
		f.Add([]byte(seed))
	}

	f.Fuzz(func(t *testing.T, data []byte) {
		defer func() {
			if r := recover(); r != nil {
				t.Errorf("parser panicked on input %q: %v", data, r)
			}
		}()

		out, err := ParseTokens(data, "fuzz-test", Config{})
		if err != nil {
			// Scanning and parsing report every input fault, invalid UTF-8
			// included, as a Diagnostic rather than a Go error.
			return
		}

		if out == nil {
			t.Fatal("ParseTokens returned nil Output with nil error")
		}
	})
}

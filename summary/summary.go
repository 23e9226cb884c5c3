// Package summary derives a read-only enumeration of the accounts and currencies
// referenced by an already-parsed directive stream. It performs no arithmetic and
// keeps no running balances — evaluating inventory/lot selection and maintaining
// account-balance state are explicit Non-goals of the parser this package sits
// next to; this is purely a traversal over values the parser already produced.
package summary

import (
	"golang.org/x/exp/slices"

	"ledgerparse/ast"
)

// Ledger is the set of distinct accounts and currencies seen across a directive
// stream, each sorted and de-duplicated.
type Ledger struct {
	Accounts   []string
	Currencies []string
}

// Summarize walks directives once and collects every account and currency any of
// them reference.
func Summarize(directives []ast.Directive) Ledger {
	accounts := make(map[string]struct{})
	currencies := make(map[string]struct{})

	addAccount := func(a ast.Account) {
		if a != "" {
			accounts[string(a)] = struct{}{}
		}
	}
	addAmount := func(a *ast.Amount) {
		if a != nil && a.Currency != "" {
			currencies[a.Currency] = struct{}{}
		}
	}

	for _, d := range directives {
		switch v := d.(type) {
		case *ast.Transaction:
			for _, p := range v.Postings {
				addAccount(p.Account)
				addAmount(p.Amount)
				addAmount(p.Price)
				if p.Cost != nil {
					addAmount(p.Cost.Amount)
				}
			}
		case *ast.Open:
			addAccount(v.Account)
			for _, c := range v.ConstraintCurrencies {
				if c != "" {
					currencies[c] = struct{}{}
				}
			}
		case *ast.Close:
			addAccount(v.Account)
		case *ast.Balance:
			addAccount(v.Account)
			addAmount(v.Amount)
			addAmount(v.Tolerance)
		case *ast.Pad:
			addAccount(v.Account)
			addAccount(v.AccountPad)
		case *ast.Note:
			addAccount(v.Account)
		case *ast.Document:
			addAccount(v.Account)
		case *ast.Price:
			if v.Commodity != "" {
				currencies[v.Commodity] = struct{}{}
			}
			addAmount(v.Amount)
		case *ast.Commodity:
			if v.Currency != "" {
				currencies[v.Currency] = struct{}{}
			}
		}
	}

	return Ledger{
		Accounts:   sortedKeys(accounts),
		Currencies: sortedKeys(currencies),
	}
}

func sortedKeys(m map[string]struct{}) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	slices.Sort(out)
	return out
}

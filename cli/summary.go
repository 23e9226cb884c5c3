package cli

import (
	"fmt"

	"github.com/alecthomas/kong"

	"ledgerparse"
)

// AccountsCmd lists every account referenced by a ledger file.
type AccountsCmd struct {
	File FileOrStdin `help:"Ledger input filename (use '-' for stdin, or omit for stdin)." arg:"" optional:""`
}

func (cmd *AccountsCmd) Run(ctx *kong.Context, globals *Globals) error {
	result, err := parseForSummary(cmd.File, globals)
	if err != nil {
		return err
	}
	for _, account := range result.Summarize().Accounts {
		fmt.Fprintln(ctx.Stdout, account)
	}
	return nil
}

// CurrenciesCmd lists every currency referenced by a ledger file.
type CurrenciesCmd struct {
	File FileOrStdin `help:"Ledger input filename (use '-' for stdin, or omit for stdin)." arg:"" optional:""`
}

func (cmd *CurrenciesCmd) Run(ctx *kong.Context, globals *Globals) error {
	result, err := parseForSummary(cmd.File, globals)
	if err != nil {
		return err
	}
	for _, currency := range result.Summarize().Currencies {
		fmt.Fprintln(ctx.Stdout, currency)
	}
	return nil
}

func parseForSummary(file FileOrStdin, globals *Globals) (*ledgerparse.Result, error) {
	if err := file.EnsureContents(); err != nil {
		return nil, err
	}
	cfg := ledgerparse.ParseConfig{DebugTrace: globals.Telemetry}
	result, err := file.Parse(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", file.Filename, err)
	}
	return result, nil
}

package cli

import (
	"fmt"

	"github.com/alecthomas/kong"

	"ledgerparse"
	"ledgerparse/diagutil"
)

// ParseCmd parses a ledger file and reports every diagnostic produced.
type ParseCmd struct {
	File                FileOrStdin `help:"Ledger input filename (use '-' for stdin, or omit for stdin)." arg:"" optional:""`
	AllowNegativePrices bool        `help:"Allow negative cost/price amounts instead of reporting an error."`
	JSON                bool        `help:"Emit diagnostics as a JSON array instead of text."`
}

func (cmd *ParseCmd) Run(ctx *kong.Context, globals *Globals) error {
	if err := cmd.File.EnsureContents(); err != nil {
		return err
	}

	cfg := ledgerparse.ParseConfig{
		AllowNegativePrices: cmd.AllowNegativePrices,
		DebugTrace:          globals.Telemetry,
	}

	result, err := cmd.File.Parse(cfg)
	if err != nil {
		return fmt.Errorf("failed to parse %s: %w", cmd.File.Filename, err)
	}

	if len(result.Diagnostics) > 0 {
		if cmd.JSON {
			formatter := diagutil.NewJSONFormatter()
			if err := formatter.Format(ctx.Stderr, result.Diagnostics); err != nil {
				return err
			}
		} else {
			sourceContent, err := cmd.File.GetSourceContent()
			formatter := diagutil.NewTextFormatter()
			if err == nil {
				formatter.Source = map[string][]byte{cmd.File.GetAbsoluteFilename(): sourceContent}
			}
			if err := formatter.Format(ctx.Stderr, result.Diagnostics); err != nil {
				return err
			}
		}
	}

	if result.HasErrors() {
		printError(ctx.Stderr, fmt.Sprintf("%d diagnostic(s) found", len(result.Diagnostics)))
		return NewCommandError(1)
	}

	printSuccess(ctx.Stdout, fmt.Sprintf("Parsed %d directive(s)", len(result.Directives)))
	return nil
}

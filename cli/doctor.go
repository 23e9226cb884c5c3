package cli

import (
	"fmt"

	"github.com/alecthomas/kong"

	"ledgerparse/diagutil"
	"ledgerparse/parser"
)

// DoctorCmd provides doctor utilities for debugging beancount files.
type DoctorCmd struct {
	Lex LexCmd `cmd:"" help:"Show lexical tokens from a beancount file."`
}

// LexCmd shows lexical tokens from a beancount file.
type LexCmd struct {
	File FileOrStdin `help:"Beancount input filename (use '-' for stdin, or omit for stdin)." arg:"" optional:""`
}

// Run executes the lex command.
func (cmd *LexCmd) Run(ctx *kong.Context, globals *Globals) error {
	if err := cmd.File.EnsureContents(); err != nil {
		return err
	}

	// Get source content for lexing
	content, err := cmd.File.GetSourceContent()
	if err != nil {
		return fmt.Errorf("failed to read file: %w", err)
	}

	// Create lexer and scan all tokens. ScanAll never returns an error for
	// input-driven reasons: invalid bytes surface as LexerError diagnostics.
	lexer := parser.NewLexer(content, cmd.File.Filename)
	tokens, err := lexer.ScanAll()
	if err != nil {
		return fmt.Errorf("failed to lex file: %w", err)
	}

	if diags := lexer.Diagnostics(); len(diags) > 0 {
		formatter := diagutil.NewTextFormatter()
		formatter.Source = map[string][]byte{cmd.File.GetAbsoluteFilename(): content}
		if err := formatter.Format(ctx.Stderr, diags); err != nil {
			return err
		}
	}

	// Display tokens in the format: TYPE line:col "content"
	for _, token := range tokens {
		// Skip EOF token for clean output
		if token.Type == parser.EOF {
			continue
		}

		// Get the token content
		content := token.String(content)

		// Format: TYPE line:col "content"
		_, _ = fmt.Fprintf(ctx.Stdout, "%-10s %d:%d    %q\n",
			token.Type.String(),
			token.Line,
			token.Column,
			content)
	}

	return nil
}

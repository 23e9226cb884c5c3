// Package ledgerparse parses a plain-text double-entry accounting ledger
// into a stream of typed directives, a global options registry, and a list
// of recoverable diagnostics.
//
// ParseString, ParseBytes, and ParseFile are convenience entry points next
// to Parse, the generic io.Reader entry point: ParseFile reads through Parse,
// while ParseString and ParseBytes hand their bytes straight to the same
// scan-and-parse pipeline. None of them ever return a
// Go error for input that merely fails to parse cleanly: malformed input
// produces Diagnostics on the Result, not an error. The error return is
// reserved for programmer errors (ErrNilInput) and filesystem faults
// (ParseFile's *os.PathError).
package ledgerparse

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"time"

	"github.com/alecthomas/repr"

	"ledgerparse/ast"
	"ledgerparse/options"
	"ledgerparse/parser"
	"ledgerparse/summary"
	"ledgerparse/telemetry"
)

// ParseConfig is the per-parse configuration threaded through every entry
// point. Its zero value reproduces the parser's default behavior.
type ParseConfig = parser.Config

// ErrNilInput is returned by Parse/ParseBytes when given a nil reader or
// byte slice. It is a programmer error, not a Diagnostic: the grammar
// never sees the input, so there is nothing for it to recover from.
var ErrNilInput = errors.New("ledgerparse: nil input")

// TelemetryReport summarizes the phase timings of one parse run. It is
// populated on the Result only when ParseConfig.DebugTrace is set.
type TelemetryReport struct {
	ScanDuration   time.Duration
	ParseDuration  time.Duration
	BuildDuration  time.Duration
	TokenCount     int
	DirectiveCount int
}

// LedgerSummary is the set of distinct accounts and currencies referenced
// by a directive stream. It performs no arithmetic and retains no running
// balances.
type LedgerSummary = summary.Ledger

// Result is everything one parse run produces.
type Result struct {
	Directives  ast.Directives
	Options     *options.Registry
	Diagnostics []parser.Diagnostic
	Telemetry   *TelemetryReport
}

// HasErrors reports whether any diagnostic is severe enough to have dropped
// a directive (anything other than a DeprecatedWarning).
func (r *Result) HasErrors() bool {
	for _, d := range r.Diagnostics {
		if d.Kind != parser.DeprecatedWarning {
			return true
		}
	}
	return false
}

// Summarize collects every distinct account and currency referenced by the
// result's directives.
func (r *Result) Summarize() LedgerSummary {
	return summary.Summarize(r.Directives)
}

// ParseString parses ledger text held in memory. Diagnostics and positions
// attribute to "<string>", or to cfg.ReportFilename when set.
func ParseString(text string, cfg ParseConfig) (*Result, error) {
	return ParseBytes([]byte(text), withDefaultFilename(cfg, "<string>"))
}

// ParseBytes parses a byte slice without copying it into a string first.
func ParseBytes(data []byte, cfg ParseConfig) (*Result, error) {
	if data == nil {
		return nil, ErrNilInput
	}
	filename := cfg.ReportFilename
	if filename == "" {
		filename = "<bytes>"
	}
	return parseSource(context.Background(), data, filename, cfg)
}

// ParseFile reads and parses the ledger file at path. path == "-" reads
// standard input instead. A missing file surfaces a *os.PathError, not a
// parse diagnostic.
func ParseFile(path string, cfg ParseConfig) (*Result, error) {
	if path == "-" {
		return Parse(os.Stdin, withDefaultFilename(cfg, "<stdin>"))
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	return Parse(f, withDefaultFilename(cfg, path))
}

// Parse is the generic reader entry point; ParseFile is built on it.
func Parse(r io.Reader, cfg ParseConfig) (*Result, error) {
	if r == nil {
		return nil, ErrNilInput
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	filename := cfg.ReportFilename
	if filename == "" {
		filename = "<reader>"
	}
	return parseSource(context.Background(), data, filename, cfg)
}

func withDefaultFilename(cfg ParseConfig, filename string) ParseConfig {
	if cfg.ReportFilename == "" {
		cfg.ReportFilename = filename
	}
	return cfg
}

// parseSource scans then parses data, timing each phase through a
// telemetry.Collector. With DebugTrace unset, the collector is the
// package's no-op implementation and timing is free.
func parseSource(ctx context.Context, data []byte, filename string, cfg ParseConfig) (*Result, error) {
	var collector telemetry.Collector = telemetry.FromContext(ctx)
	if cfg.DebugTrace {
		collector = telemetry.NewTimingCollector()
	}

	scanStart := time.Now()
	scanTimer := collector.Start("scan")
	lexer := parser.NewLexer(data, filename)
	tokens, err := lexer.ScanAll()
	scanTimer.End()
	scanDuration := time.Since(scanStart)
	if err != nil {
		return nil, err
	}

	parseStart := time.Now()
	parseTimer := collector.Start("parse")
	p := parser.New(data, filename, tokens, lexer.Interner(), cfg)
	directives := p.Parse()
	parseTimer.End()
	parseDuration := time.Since(parseStart)

	buildStart := time.Now()
	buildTimer := collector.Start("build")
	diagnostics := append(lexer.Diagnostics(), p.Diagnostics()...)
	sort.SliceStable(diagnostics, func(i, j int) bool {
		return diagnostics[i].Location.Line < diagnostics[j].Location.Line
	})
	result := &Result{
		Directives:  directives,
		Options:     p.Options(),
		Diagnostics: diagnostics,
	}
	buildTimer.End()
	buildDuration := time.Since(buildStart)

	if cfg.DebugTrace {
		result.Telemetry = &TelemetryReport{
			ScanDuration:   scanDuration,
			ParseDuration:  parseDuration,
			BuildDuration:  buildDuration,
			TokenCount:     len(tokens),
			DirectiveCount: len(directives),
		}
		if tc, ok := collector.(*telemetry.TimingCollector); ok {
			var buf bytes.Buffer
			tc.Report(&buf)
			fmt.Fprint(os.Stderr, buf.String())
		}
		repr.New(os.Stderr).Println(directives)
	}

	return result, nil
}

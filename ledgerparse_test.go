package ledgerparse

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/alecthomas/assert/v2"

	"ledgerparse/parser"
)

const sampleLedger = `2014-05-01 open Assets:US:BofA:Checking USD

2014-05-05 * "Cafe Mogador" "Lamb tagine with wine"
  Liabilities:CreditCard:CapitalOne         -37.45 USD
  Expenses:Food:Restaurant
`

func TestParseStringProducesDirectivesAndNoDiagnostics(t *testing.T) {
	result, err := ParseString(sampleLedger, ParseConfig{})
	assert.NoError(t, err)
	assert.Equal(t, 2, len(result.Directives))
	assert.Equal(t, 0, len(result.Diagnostics))
	assert.False(t, result.HasErrors())
}

func TestParseStringDefaultsReportFilename(t *testing.T) {
	result, err := ParseString("2014-01-01 open BadRoot:X\n", ParseConfig{})
	assert.NoError(t, err)
	assert.Equal(t, 2, len(result.Diagnostics))
	assert.Equal(t, "<string>", result.Diagnostics[0].Location.Filename)
}

func TestParseBytesNilReturnsSentinel(t *testing.T) {
	result, err := ParseBytes(nil, ParseConfig{})
	assert.Error(t, err)
	assert.True(t, errors.Is(err, ErrNilInput))
	assert.Zero(t, result)
}

func TestParseNilReaderReturnsSentinel(t *testing.T) {
	result, err := Parse(nil, ParseConfig{})
	assert.Error(t, err)
	assert.True(t, errors.Is(err, ErrNilInput))
	assert.Zero(t, result)
}

func TestParseReportFilenameOverride(t *testing.T) {
	result, err := ParseBytes([]byte("2014-01-01 open BadRoot:X\n"), ParseConfig{ReportFilename: "custom.beancount"})
	assert.NoError(t, err)
	assert.Equal(t, 2, len(result.Diagnostics))
	assert.Equal(t, "custom.beancount", result.Diagnostics[0].Location.Filename)
}

func TestParseFileReadsFromDisk(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "ledger.beancount")
	assert.NoError(t, os.WriteFile(path, []byte(sampleLedger), 0o644))

	result, err := ParseFile(path, ParseConfig{})
	assert.NoError(t, err)
	assert.Equal(t, 2, len(result.Directives))
}

func TestParseFileMissingReturnsPathError(t *testing.T) {
	_, err := ParseFile(filepath.Join(t.TempDir(), "missing.beancount"), ParseConfig{})
	assert.Error(t, err)
	var pathErr *os.PathError
	assert.True(t, errors.As(err, &pathErr))
}

func TestParseFileStdinDash(t *testing.T) {
	r, w, err := os.Pipe()
	assert.NoError(t, err)
	_, werr := w.WriteString(sampleLedger)
	assert.NoError(t, werr)
	assert.NoError(t, w.Close())

	origStdin := os.Stdin
	os.Stdin = r
	defer func() { os.Stdin = origStdin }()

	result, err := ParseFile("-", ParseConfig{})
	assert.NoError(t, err)
	assert.Equal(t, 2, len(result.Directives))
}

func TestResultHasErrorsIgnoresDeprecatedWarningsOnly(t *testing.T) {
	result := &Result{Diagnostics: []parser.Diagnostic{{Kind: parser.DeprecatedWarning}}}
	assert.False(t, result.HasErrors())

	result.Diagnostics = append(result.Diagnostics, parser.Diagnostic{Kind: parser.ParserError})
	assert.True(t, result.HasErrors())
}

func TestResultSummarize(t *testing.T) {
	result, err := ParseString(sampleLedger, ParseConfig{})
	assert.NoError(t, err)
	ledger := result.Summarize()
	assert.Equal(t, []string{"Assets:US:BofA:Checking", "Expenses:Food:Restaurant", "Liabilities:CreditCard:CapitalOne"}, ledger.Accounts)
}

func TestDebugTraceProducesTelemetryReport(t *testing.T) {
	result, err := ParseString(sampleLedger, ParseConfig{DebugTrace: true})
	assert.NoError(t, err)
	assert.NotZero(t, result.Telemetry)
	assert.Equal(t, 2, result.Telemetry.DirectiveCount)
	assert.NotZero(t, result.Telemetry.TokenCount)
}

func TestDebugTraceOffLeavesTelemetryNil(t *testing.T) {
	result, err := ParseString(sampleLedger, ParseConfig{})
	assert.NoError(t, err)
	assert.Zero(t, result.Telemetry)
}

func TestParseGenericReader(t *testing.T) {
	result, err := Parse(bytes.NewBufferString(sampleLedger), ParseConfig{})
	assert.NoError(t, err)
	assert.Equal(t, 2, len(result.Directives))
}

func TestParseReaderDefaultFilename(t *testing.T) {
	result, err := Parse(strings.NewReader("2014-01-01 open BadRoot:X\n"), ParseConfig{})
	assert.NoError(t, err)
	assert.Equal(t, 2, len(result.Diagnostics))
	assert.Equal(t, "<reader>", result.Diagnostics[0].Location.Filename)
}

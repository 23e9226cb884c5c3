package cli

import (
	"fmt"
	"os"

	"github.com/alecthomas/kong"
	"github.com/fsnotify/fsnotify"

	"ledgerparse"
	"ledgerparse/diagutil"
)

// WatchCmd re-parses a ledger file every time it changes on disk, printing
// a fresh diagnostic report after each write. It cannot watch stdin.
type WatchCmd struct {
	File                string `help:"Ledger file to watch." arg:""`
	AllowNegativePrices bool   `help:"Allow negative cost/price amounts instead of reporting an error."`
}

func (cmd *WatchCmd) Run(ctx *kong.Context, globals *Globals) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer watcher.Close()

	if err := watcher.Add(cmd.File); err != nil {
		return fmt.Errorf("failed to watch %s: %w", cmd.File, err)
	}

	cfg := ledgerparse.ParseConfig{
		AllowNegativePrices: cmd.AllowNegativePrices,
		ReportFilename:      cmd.File,
		DebugTrace:          globals.Telemetry,
	}

	cmd.reparse(ctx, cfg)
	printInfof(ctx.Stdout, "Watching %s for changes (Ctrl-C to stop)", pathStyle.Render(cmd.File))

	for {
		select {
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) != 0 {
				cmd.reparse(ctx, cfg)
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			printError(ctx.Stderr, err.Error())
		}
	}
}

func (cmd *WatchCmd) reparse(ctx *kong.Context, cfg ledgerparse.ParseConfig) {
	result, err := ledgerparse.ParseFile(cmd.File, cfg)
	if err != nil {
		printError(ctx.Stderr, err.Error())
		return
	}

	if len(result.Diagnostics) > 0 {
		formatter := diagutil.NewTextFormatter()
		if source, readErr := os.ReadFile(cmd.File); readErr == nil {
			formatter.Source = map[string][]byte{cmd.File: source}
		}
		_ = formatter.Format(ctx.Stderr, result.Diagnostics)
	}

	if result.HasErrors() {
		printError(ctx.Stdout, fmt.Sprintf("%d diagnostic(s) found", len(result.Diagnostics)))
		return
	}
	printSuccess(ctx.Stdout, fmt.Sprintf("Parsed %d directive(s)", len(result.Directives)))
}

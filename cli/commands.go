package cli

var (
	Version   = ""
	CommitSHA = ""
)

// Globals defines global flags available to all commands.
type Globals struct {
	Telemetry bool `help:"Show timing telemetry for operations."`
}

type Commands struct {
	Globals

	Parse      ParseCmd      `cmd:"" help:"Parse a ledger file and report diagnostics."`
	Accounts   AccountsCmd   `cmd:"" help:"List every account referenced by a ledger file."`
	Currencies CurrenciesCmd `cmd:"" help:"List every currency referenced by a ledger file."`
	Watch      WatchCmd      `cmd:"" help:"Re-parse a ledger file whenever it changes."`
	Doctor     DoctorCmd     `cmd:"" help:"Doctor utilities for debugging ledger files."`
}

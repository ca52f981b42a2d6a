// ABOUTME: Entry point for the AutoReach outreach workspace
// ABOUTME: Loads config, wires the backend client, and routes to TUI, CLI or MCP commands
package main

import (
	"context"
	"database/sql"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/term"

	"github.com/harperreed/autoreach/backend"
	"github.com/harperreed/autoreach/cli"
	"github.com/harperreed/autoreach/config"
	"github.com/harperreed/autoreach/db"
	"github.com/harperreed/autoreach/logging"
	"github.com/harperreed/autoreach/signals"
	"github.com/harperreed/autoreach/tui"
	"github.com/harperreed/autoreach/workspace"
)

const version = "0.1.0"

func main() {
	// Global flags
	showVersion := flag.Bool("version", false, "Show version and exit")
	apiURL := flag.String("api-url", "", "Backend base URL (default: http://localhost:8000)")
	dbPath := flag.String("db-path", "", "Handoff ledger path (default: ~/.local/share/autoreach/autoreach.db)")
	logFile := flag.String("log-file", "", "Log file (default: ~/.local/state/autoreach/autoreach.log)")
	logLevel := flag.String("log-level", "", "Log level: debug, info, warn, error")
	flag.Usage = printUsage

	// Parse global flags but don't fail on unknown (for subcommands)
	_ = flag.CommandLine.Parse(os.Args[1:])

	if *showVersion {
		fmt.Printf("autoreach version %s\n", version)
		os.Exit(0)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	applyFlags(cfg, *apiURL, *dbPath, *logFile, *logLevel)

	logger, closer, err := logging.Open(cfg.LogFile, cfg.LogLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: logging disabled: %v\n", err)
		logger, closer = logging.Discard(), io.NopCloser(nil)
	}
	defer closer.Close()

	args := flag.Args()
	command := "tui"
	if len(args) > 0 {
		command = args[0]
		args = args[1:]
	} else if !term.IsTerminal(int(os.Stdout.Fd())) {
		command = "signals"
	}

	if command == "help" {
		printUsage()
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logger, command, args); err != nil {
		logger.Error("command failed", "command", command, "err", err)
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		closer.Close()
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, logger *log.Logger, command string, args []string) error {
	// config never needs the backend, so a broken api_url can still be fixed
	if command == "config" {
		return cli.ConfigCommand(cfg, args)
	}

	client, err := backend.NewClient(backend.Options{
		BaseURL: cfg.APIURL,
		Token:   cfg.APIToken,
		Timeout: time.Duration(cfg.RequestTimeout),
		Logger:  logger,
	})
	if err != nil {
		return err
	}
	store := signals.NewStore(client, logger)
	logger.Debug("backend configured", "url", client.BaseURL(), "command", command)

	switch command {
	case "tui":
		database := openLedger(cfg, logger)
		if database != nil {
			defer database.Close()
		}
		return cli.TUICommand(tui.Options{
			Context:   ctx,
			Store:     store,
			Backend:   client,
			DB:        database,
			Clipboard: workspace.SystemClipboard{},
			CRMTarget: cfg.CRMTarget,
			Logger:    logger,
		})

	case "signals":
		return cli.SignalsCommand(ctx, store, args)

	case "generate":
		database := openLedger(cfg, logger)
		if database != nil {
			defer database.Close()
		}
		return cli.GenerateCommand(ctx, cli.GenerateDeps{
			Store:     store,
			Generator: client,
			DB:        database,
			Clipboard: workspace.SystemClipboard{},
			Logger:    logger,
		}, args)

	case "runs":
		return cli.RunsCommand(ctx, client, args)

	case "crm-events":
		return cli.CRMEventsCommand(ctx, client, args)

	case "crm-sync":
		return cli.CRMSyncCommand(ctx, client, cfg, args)

	case "handoffs":
		database, err := db.OpenDatabase(cfg.DBPath)
		if err != nil {
			return fmt.Errorf("failed to open database: %w", err)
		}
		defer database.Close()
		return cli.HandoffsCommand(ctx, database, args)

	case "mcp":
		database := openLedger(cfg, logger)
		if database != nil {
			defer database.Close()
		}
		server := cli.NewMCPServer(store, client, database, logger, version)
		return cli.MCPCommand(ctx, server, logger)

	default:
		printUsage()
		return fmt.Errorf("unknown command: %s", command)
	}
}

// openLedger opens the local CRM ledger. The workspace works without it, so
// failures only disable handoffs.
func openLedger(cfg *config.Config, logger *log.Logger) *sql.DB {
	database, err := db.OpenDatabase(cfg.DBPath)
	if err != nil {
		logger.Warn("local CRM ledger unavailable", "path", cfg.DBPath, "err", err)
		return nil
	}
	return database
}

func applyFlags(cfg *config.Config, apiURL, dbPath, logFile, logLevel string) {
	if apiURL != "" {
		cfg.APIURL = strings.TrimRight(apiURL, "/")
	}
	if dbPath != "" {
		cfg.DBPath = dbPath
	}
	if logFile != "" {
		cfg.LogFile = logFile
	}
	if logLevel != "" {
		cfg.LogLevel = logLevel
	}
}

func printUsage() {
	fmt.Printf(`autoreach v%s - Signal-driven outreach workspace

USAGE:
  autoreach [global flags] [command] [flags]

GLOBAL FLAGS:
  --version              Show version and exit
  --api-url <url>        Backend base URL (default: http://localhost:8000)
  --db-path <path>       Handoff ledger path (default: ~/.local/share/autoreach/autoreach.db)
  --log-file <path>      Log file (default: ~/.local/state/autoreach/autoreach.log)
  --log-level <level>    debug, info, warn or error

COMMANDS:
  tui                    Interactive workspace (default on a terminal)
  signals                List the signal feed (default when piped)
    --json                 Print raw JSON
  generate               Generate outreach for one signal
    --id <n>               Signal ID (required)
    --channel <c>          email, linkedin or call (default: email)
    --graph <file>         Write a DOT lead graph
    --copy                 Copy the draft to the clipboard
    --handoff              Record the result in the local CRM ledger
    --json                 Print the raw result as JSON
  runs [--limit n]       Recent generation runs
  crm-events [--limit n] Recent CRM sync events
  crm-sync               Push a routing decision to CRM
    --run-id <id>          Run to sync (required)
    --crm <name>           Target CRM (default: crm_target)
    --status <s>           Sync status (default: queued)
  handoffs               Local CRM handoffs
    --limit <n>            Maximum results (default: 20)
    --graph <file>         Write a DOT handoff graph
    --stats                Show the handoff dashboard
  mcp                    Start the MCP server on stdio
  config show            Print the effective configuration
  config set <k> <v>     Persist one key (%s)

TUI KEYS:
  ↑/↓ select  enter generate  r re-run  tab/1-3 channel  c copy
  s CRM sync  x hand off      pgup/pgdn scroll           q quit

ENVIRONMENT:
  AUTOREACH_API_URL, AUTOREACH_API_TOKEN, AUTOREACH_DB_PATH, AUTOREACH_LOG_FILE,
  AUTOREACH_LOG_LEVEL, AUTOREACH_REQUEST_TIMEOUT, AUTOREACH_CRM_TARGET
  (also read from .env in the working directory)
`, version, strings.Join(config.Keys(), ", "))
}

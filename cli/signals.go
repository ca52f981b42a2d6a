// ABOUTME: Signal feed CLI commands
// ABOUTME: Prints the inbound lead feed as a table or JSON
package cli

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/harperreed/autoreach/signals"
)

// stdout is where human output goes; tests swap it for a buffer.
var stdout io.Writer = os.Stdout

// SignalsCommand lists the signal feed
func SignalsCommand(ctx context.Context, store *signals.Store, args []string) error {
	fs := flag.NewFlagSet("signals", flag.ExitOnError)
	asJSON := fs.Bool("json", false, "Print raw JSON")
	if err := fs.Parse(args); err != nil {
		return err
	}

	store.Load(ctx)
	if err := store.Err(); err != nil {
		return fmt.Errorf("failed to load signals: %w", err)
	}
	list := store.All()

	if *asJSON {
		enc := json.NewEncoder(stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(list)
	}

	if len(list) == 0 {
		fmt.Fprintln(stdout, "No signals found")
		return nil
	}

	w := tabwriter.NewWriter(stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tTIME\tCOMPANY\tINTENT\tSIGNAL")
	fmt.Fprintln(w, "--\t----\t-------\t------\t------")
	for _, sig := range list {
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\n",
			sig.ID, dash(sig.Time), sig.Company, dash(sig.IntentStrength), sig.Signal)
	}
	_ = w.Flush()

	fmt.Fprintf(stdout, "\nTotal: %d signal(s)\n", len(list))
	return nil
}

func dash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

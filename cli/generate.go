// ABOUTME: Headless generation CLI command
// ABOUTME: Runs one lead through the workspace and prints the projected outreach package
package cli

import (
	"context"
	"database/sql"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/harperreed/autoreach/db"
	"github.com/harperreed/autoreach/models"
	"github.com/harperreed/autoreach/signals"
	"github.com/harperreed/autoreach/viz"
	"github.com/harperreed/autoreach/workspace"
)

// GenerateDeps are the collaborators GenerateCommand needs. DB and Clipboard may be nil.
type GenerateDeps struct {
	Store     *signals.Store
	Generator workspace.Generator
	DB        *sql.DB
	Clipboard workspace.Clipboard
	Logger    *log.Logger
}

// GenerateCommand generates outreach for a single signal
func GenerateCommand(ctx context.Context, deps GenerateDeps, args []string) error {
	fs := flag.NewFlagSet("generate", flag.ExitOnError)
	id := fs.Int("id", 0, "Signal ID (required)")
	channel := fs.String("channel", "email", "Draft to show: email, linkedin or call")
	graph := fs.String("graph", "", "Write a DOT lead graph to this file")
	handoff := fs.Bool("handoff", false, "Record the result in the local CRM ledger")
	copyDraft := fs.Bool("copy", false, "Copy the draft to the clipboard")
	asJSON := fs.Bool("json", false, "Print the raw generation result as JSON")
	if err := fs.Parse(args); err != nil {
		return err
	}

	if *id == 0 {
		return fmt.Errorf("--id is required")
	}
	ch, err := models.ParseChannel(*channel)
	if err != nil {
		return err
	}

	deps.Store.Load(ctx)
	sig, ok := deps.Store.Get(*id)
	if !ok {
		if err := deps.Store.Err(); err != nil {
			return fmt.Errorf("failed to load signals: %w", err)
		}
		return fmt.Errorf("signal %d not found", *id)
	}

	ws := workspace.New(deps.Logger)
	ws.SetActiveChannel(ch)
	state, err := ws.Generate(ctx, deps.Generator, sig)
	if err != nil {
		return fmt.Errorf("generation failed for %s: %w", sig.Company, err)
	}

	if *asJSON {
		enc := json.NewEncoder(stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(state.Result); err != nil {
			return err
		}
	} else {
		printView(workspace.Project(state))
	}

	if *copyDraft {
		if ws.CopyActiveDraft(deps.Clipboard) {
			fmt.Fprintf(stdout, "\n✓ Copied %s draft to clipboard\n", ch.Label())
		} else {
			fmt.Fprintln(stdout, "\nNothing copied")
		}
	}

	if *graph != "" {
		dot, err := viz.GenerateLeadGraph(ctx, sig, state.Result)
		if err != nil {
			return err
		}
		if err := os.WriteFile(*graph, []byte(dot), 0644); err != nil {
			return fmt.Errorf("failed to write graph: %w", err)
		}
		fmt.Fprintf(stdout, "✓ Lead graph written to %s\n", *graph)
	}

	if *handoff {
		if deps.DB == nil {
			return fmt.Errorf("local CRM ledger is not available")
		}
		h, err := db.RecordHandoff(deps.DB, sig, state.Result)
		if err != nil {
			return err
		}
		fmt.Fprintf(stdout, "✓ Handed off %s (ID: %s, %d contacts)\n", h.CompanyName, h.ID, h.ContactCount)
	}

	return nil
}

func printView(v workspace.View) {
	fmt.Fprintf(stdout, "%s: %s\n", v.Company, v.Signal)
	fmt.Fprintf(stdout, "Score: %d (%s)\n", v.Score, v.ScoreTier)
	if v.IntentLevel != "" {
		fmt.Fprintf(stdout, "Intent: %s\n", v.IntentLevel)
	}
	if v.NextBestAction != "" {
		fmt.Fprintf(stdout, "Next best action: %s\n", v.NextBestAction)
	}
	printList("Reasons", v.Reasons)

	if v.Summary != "" {
		fmt.Fprintf(stdout, "\nResearch:\n  %s\n", v.Summary)
	}
	printList("Pain points", v.PainPoints)
	printList("Opportunities", v.Opportunities)
	if len(v.DecisionMakers) > 0 {
		fmt.Fprintln(stdout, "\nDecision makers:")
		for _, c := range v.DecisionMakers {
			fmt.Fprintf(stdout, "  • %s, %s <%s>\n", c.Name, c.Title, c.Email)
		}
	}

	fmt.Fprintf(stdout, "\n[%s]\n%s\n", v.ActiveChannel.Label(), v.ActiveDraft)

	fmt.Fprintf(stdout, "\nRouting: owner %s, priority %s, crm %s\n", dash(v.Owner), dash(v.Priority), dash(v.CRMTarget))
	if v.Notes != "" {
		fmt.Fprintf(stdout, "  %s\n", v.Notes)
	}
	if v.RunID != "" {
		fmt.Fprintf(stdout, "Run: %s\n", v.RunID)
	}
	if len(v.Logs) > 0 {
		fmt.Fprintf(stdout, "\nAgent log:\n  %s\n", strings.Join(v.Logs, "\n  "))
	}
}

func printList(title string, items []string) {
	if len(items) == 0 {
		return
	}
	fmt.Fprintf(stdout, "\n%s:\n", title)
	for _, item := range items {
		fmt.Fprintf(stdout, "  • %s\n", item)
	}
}

// ABOUTME: Backend audit CLI commands
// ABOUTME: Lists generation runs and CRM events, and pushes routing decisions to CRM sync
package cli

import (
	"context"
	"flag"
	"fmt"
	"text/tabwriter"

	"github.com/harperreed/autoreach/config"
	"github.com/harperreed/autoreach/models"
)

// RunLister is satisfied by backend.Client.
type RunLister interface {
	ListRuns(ctx context.Context) ([]models.GenerationResult, error)
}

// CRMClient is satisfied by backend.Client.
type CRMClient interface {
	ListCRMEvents(ctx context.Context) ([]models.CRMEvent, error)
	SyncCRM(ctx context.Context, event models.CRMEvent) (*models.CRMSyncResponse, error)
}

// RunsCommand lists recent generation runs
func RunsCommand(ctx context.Context, client RunLister, args []string) error {
	fs := flag.NewFlagSet("runs", flag.ExitOnError)
	limit := fs.Int("limit", 20, "Maximum results")
	if err := fs.Parse(args); err != nil {
		return err
	}

	runs, err := client.ListRuns(ctx)
	if err != nil {
		return fmt.Errorf("failed to list runs: %w", err)
	}
	if *limit > 0 && len(runs) > *limit {
		runs = runs[:*limit]
	}

	if len(runs) == 0 {
		fmt.Fprintln(stdout, "No runs found")
		return nil
	}

	w := tabwriter.NewWriter(stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "RUN\tCREATED\tCOMPANY\tSCORE\tOWNER\tCRM")
	fmt.Fprintln(w, "---\t-------\t-------\t-----\t-----\t---")
	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%s\t%s\n",
			dash(run.RunID), dash(run.CreatedAt), dash(run.Company), run.Score,
			dash(run.Routing.RecommendedOwner), dash(run.Routing.CRMTarget))
	}
	_ = w.Flush()

	fmt.Fprintf(stdout, "\nTotal: %d run(s)\n", len(runs))
	return nil
}

// CRMEventsCommand lists recent CRM sync events
func CRMEventsCommand(ctx context.Context, client CRMClient, args []string) error {
	fs := flag.NewFlagSet("crm-events", flag.ExitOnError)
	limit := fs.Int("limit", 20, "Maximum results")
	if err := fs.Parse(args); err != nil {
		return err
	}

	events, err := client.ListCRMEvents(ctx)
	if err != nil {
		return fmt.Errorf("failed to list CRM events: %w", err)
	}
	if *limit > 0 && len(events) > *limit {
		events = events[:*limit]
	}

	if len(events) == 0 {
		fmt.Fprintln(stdout, "No CRM events found")
		return nil
	}

	w := tabwriter.NewWriter(stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "RUN\tCRM\tSTATUS\tRECEIVED")
	fmt.Fprintln(w, "---\t---\t------\t--------")
	for _, ev := range events {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", ev.RunID, dash(ev.CRM), dash(ev.Status), dash(ev.ReceivedAt))
	}
	_ = w.Flush()

	fmt.Fprintf(stdout, "\nTotal: %d event(s)\n", len(events))
	return nil
}

// CRMSyncCommand pushes a routing decision for a run to the CRM sync endpoint
func CRMSyncCommand(ctx context.Context, client CRMClient, cfg *config.Config, args []string) error {
	defaultCRM := config.DefaultCRMTarget
	if cfg != nil && cfg.CRMTarget != "" {
		defaultCRM = cfg.CRMTarget
	}

	fs := flag.NewFlagSet("crm-sync", flag.ExitOnError)
	runID := fs.String("run-id", "", "Run ID to sync (required)")
	crm := fs.String("crm", defaultCRM, "Target CRM")
	status := fs.String("status", models.CRMStatusQueued, "Sync status")
	if err := fs.Parse(args); err != nil {
		return err
	}

	if *runID == "" {
		return fmt.Errorf("--run-id is required")
	}

	resp, err := client.SyncCRM(ctx, models.CRMEvent{RunID: *runID, CRM: *crm, Status: *status})
	if err != nil {
		return fmt.Errorf("failed to sync CRM: %w", err)
	}

	fmt.Fprintf(stdout, "✓ Run %s sent to %s (%s)\n", resp.Stored.RunID, resp.Stored.CRM, resp.Stored.Status)
	return nil
}

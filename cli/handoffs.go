// ABOUTME: Local CRM ledger CLI commands
// ABOUTME: Lists recorded handoffs, one handoff with its contacts, the dashboard and the graph
package cli

import (
	"context"
	"database/sql"
	"flag"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/google/uuid"

	"github.com/harperreed/autoreach/db"
	"github.com/harperreed/autoreach/models"
	"github.com/harperreed/autoreach/viz"
)

// HandoffsCommand lists leads handed off to the local CRM ledger
func HandoffsCommand(ctx context.Context, database *sql.DB, args []string) error {
	fs := flag.NewFlagSet("handoffs", flag.ExitOnError)
	limit := fs.Int("limit", 20, "Maximum results")
	graph := fs.String("graph", "", "Write a DOT handoff graph to this file")
	stats := fs.Bool("stats", false, "Show the handoff dashboard instead of the table")
	id := fs.String("id", "", "Show one handoff with its company's stored contacts")
	if err := fs.Parse(args); err != nil {
		return err
	}

	if *id != "" {
		handoffID, err := uuid.Parse(*id)
		if err != nil {
			return fmt.Errorf("invalid handoff ID: %w", err)
		}
		detail, err := db.GetHandoffDetail(database, handoffID)
		if err != nil {
			return err
		}
		printHandoffDetail(detail)
		return nil
	}

	if *stats {
		dashboard, err := viz.GenerateDashboardStats(database, *limit)
		if err != nil {
			return err
		}
		fmt.Fprint(stdout, viz.RenderDashboard(dashboard))
		return nil
	}

	handoffs, err := db.ListHandoffs(database, *limit)
	if err != nil {
		return err
	}

	if len(handoffs) == 0 {
		fmt.Fprintln(stdout, "No handoffs found")
	} else {
		w := tabwriter.NewWriter(stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "COMPANY\tSCORE\tOWNER\tPRIORITY\tCRM\tCONTACTS\tCREATED\tID")
		fmt.Fprintln(w, "-------\t-----\t-----\t--------\t---\t--------\t-------\t--")
		for _, h := range handoffs {
			fmt.Fprintf(w, "%s\t%d\t%s\t%s\t%s\t%d\t%s\t%s\n",
				h.CompanyName, h.Score, dash(h.Owner), dash(h.Priority), dash(h.CRMTarget),
				h.ContactCount, h.CreatedAt.Format("2006-01-02 15:04"), h.ID)
		}
		_ = w.Flush()
		fmt.Fprintf(stdout, "\nTotal: %d handoff(s)\n", len(handoffs))
	}

	if *graph != "" {
		dot, err := viz.NewGraphGenerator(database).GenerateHandoffGraph(ctx, *limit)
		if err != nil {
			return err
		}
		if err := os.WriteFile(*graph, []byte(dot), 0644); err != nil {
			return fmt.Errorf("failed to write graph: %w", err)
		}
		fmt.Fprintf(stdout, "✓ Handoff graph written to %s\n", *graph)
	}

	return nil
}

func printHandoffDetail(d *models.HandoffDetail) {
	fmt.Fprintf(stdout, "\n%s\n", d.CompanyName)
	fmt.Fprintf(stdout, "ID:        %s\n", d.ID)
	if d.RunID != "" {
		fmt.Fprintf(stdout, "Run:       %s\n", d.RunID)
	}
	fmt.Fprintf(stdout, "Signal:    %s\n", d.Signal)
	fmt.Fprintf(stdout, "Score:     %d\n", d.Score)
	fmt.Fprintf(stdout, "Owner:     %s\n", dash(d.Owner))
	fmt.Fprintf(stdout, "Priority:  %s\n", dash(d.Priority))
	fmt.Fprintf(stdout, "CRM:       %s\n", dash(d.CRMTarget))
	if d.Notes != "" {
		fmt.Fprintf(stdout, "Notes:     %s\n", d.Notes)
	}
	fmt.Fprintf(stdout, "Created:   %s\n", d.CreatedAt.Format("2006-01-02 15:04"))

	fmt.Fprintf(stdout, "\nContacts at %s (%d):\n", d.CompanyName, len(d.Contacts))
	if len(d.Contacts) == 0 {
		fmt.Fprintln(stdout, "  (none)")
		return
	}
	for _, c := range d.Contacts {
		fmt.Fprintf(stdout, "  • %s (%s) <%s>\n", c.Name, dash(c.Title), c.Email)
	}
}

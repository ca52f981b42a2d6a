// ABOUTME: Terminal dashboard statistics and rendering
// ABOUTME: Summarizes local handoffs by owner and score tier as an ASCII dashboard
package viz

import (
	"database/sql"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/harperreed/autoreach/db"
	"github.com/harperreed/autoreach/workspace"
)

// staleAfter marks handoffs that have sat in the ledger too long.
const staleAfter = 3 * 24 * time.Hour

type DashboardStats struct {
	TotalHandoffs  int
	TotalContacts  int
	AverageScore   int
	SuccessTier    int
	HighPriority   int
	ByOwner        []OwnerStats
	StaleHandoffs  []StaleHandoff
	LatestHandoffs []string
}

type OwnerStats struct {
	Owner string
	Count int
}

type StaleHandoff struct {
	Company   string
	DaysSince int
}

func GenerateDashboardStats(database *sql.DB, limit int) (*DashboardStats, error) {
	handoffs, err := db.ListHandoffs(database, limit)
	if err != nil {
		return nil, err
	}

	stats := &DashboardStats{TotalHandoffs: len(handoffs)}
	owners := make(map[string]int)
	scoreSum := 0
	now := time.Now()

	for i, h := range handoffs {
		scoreSum += h.Score
		stats.TotalContacts += h.ContactCount
		if workspace.TierFor(h.Score) == workspace.TierSuccess {
			stats.SuccessTier++
		}
		if strings.EqualFold(h.Priority, "high") {
			stats.HighPriority++
		}

		owner := h.Owner
		if owner == "" {
			owner = "unassigned"
		}
		owners[owner]++

		if age := now.Sub(h.CreatedAt); age > staleAfter {
			stats.StaleHandoffs = append(stats.StaleHandoffs, StaleHandoff{
				Company:   h.CompanyName,
				DaysSince: int(age.Hours() / 24),
			})
		}
		if i < 5 {
			stats.LatestHandoffs = append(stats.LatestHandoffs,
				fmt.Sprintf("%s  %s (%d)", h.CreatedAt.Format("Jan 02"), h.CompanyName, h.Score))
		}
	}
	if len(handoffs) > 0 {
		stats.AverageScore = scoreSum / len(handoffs)
	}

	for owner, count := range owners {
		stats.ByOwner = append(stats.ByOwner, OwnerStats{Owner: owner, Count: count})
	}
	sort.Slice(stats.ByOwner, func(i, j int) bool {
		if stats.ByOwner[i].Count != stats.ByOwner[j].Count {
			return stats.ByOwner[i].Count > stats.ByOwner[j].Count
		}
		return stats.ByOwner[i].Owner < stats.ByOwner[j].Owner
	})

	return stats, nil
}

func RenderDashboard(stats *DashboardStats) string {
	var out strings.Builder

	out.WriteString("━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━\n")
	out.WriteString("  AUTOREACH HANDOFF DASHBOARD\n")
	out.WriteString("━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━\n\n")

	out.WriteString("STATS\n")
	out.WriteString(fmt.Sprintf("  🏢 %d handoffs  📇 %d contacts  avg score %d\n",
		stats.TotalHandoffs, stats.TotalContacts, stats.AverageScore))
	out.WriteString(fmt.Sprintf("  ✓ %d above %d  🔥 %d high priority\n\n",
		stats.SuccessTier, workspace.ScoreSuccessThreshold, stats.HighPriority))

	if len(stats.ByOwner) > 0 {
		out.WriteString("BY OWNER\n")
		renderOwners(&out, stats.ByOwner)
		out.WriteString("\n")
	}

	if len(stats.LatestHandoffs) > 0 {
		out.WriteString("LATEST\n")
		for _, line := range stats.LatestHandoffs {
			out.WriteString("  " + line + "\n")
		}
		out.WriteString("\n")
	}

	if len(stats.StaleHandoffs) > 0 {
		out.WriteString("NEEDS ATTENTION\n")
		out.WriteString(fmt.Sprintf("  ⚠️  %d handoffs waiting %d+ days\n", len(stats.StaleHandoffs), int(staleAfter.Hours()/24)))
	}

	return out.String()
}

func renderOwners(out *strings.Builder, owners []OwnerStats) {
	maxCount := 1
	for _, o := range owners {
		if o.Count > maxCount {
			maxCount = o.Count
		}
	}

	for _, o := range owners {
		// 0-10 blocks
		barLength := (o.Count * 10) / maxCount
		bar := strings.Repeat("█", barLength) + strings.Repeat("░", 10-barLength)
		out.WriteString(fmt.Sprintf("  %-16s %s  %2d\n", o.Owner, bar, o.Count))
	}
}

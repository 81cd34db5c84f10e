package dashboard

import (
	"testing"
	"time"

	"github.com/louisbranch/fleettrack/internal/services/web/integration/backend"
)

func TestSummarizeCountsAndPanels(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 5, 10, 12, 0, 0, 0, time.UTC)
	summary := backend.DashboardSummary{
		Vehicles: []backend.Vehicle{
			{ID: "v1", Status: "ACTIVE"},
			{ID: "v2", Status: "SERVICE"},
			{ID: "v3", Status: "active"},
		},
		Drivers: []backend.Person{{ID: "d1"}},
		Users:   []backend.Person{{ID: "u1"}, {ID: "u2"}},
		Assignments: []backend.Assignment{
			{ID: "a1", Status: "IN_PROGRESS"},
			{ID: "a2", Status: "COMPLETED"},
		},
		Services: []backend.ServiceRecord{
			{ID: "s1", Status: "PENDING", ServiceDate: now.AddDate(0, 0, 3)},
			{ID: "s2", Status: "PENDING", ServiceDate: now.AddDate(0, 0, -2)},
			{ID: "s3", Status: "OVERDUE", ServiceDate: now.AddDate(0, 0, -9)},
			{ID: "s4", Status: "COMPLETED", ServiceDate: now.AddDate(0, -1, 0), NextServiceDate: now.AddDate(0, 0, 1)},
			{ID: "s5", Status: "COMPLETED", ServiceDate: now.AddDate(0, -2, 0)},
		},
	}

	view := summarize(summary, now)
	if view.Vehicles != 3 || view.Drivers != 1 || view.Users != 2 || view.Assignments != 2 || view.Services != 5 {
		t.Fatalf("counts = %+v", view)
	}
	if view.ActiveVehicles != 2 {
		t.Fatalf("ActiveVehicles = %d, want 2", view.ActiveVehicles)
	}
	if len(view.InProgress) != 1 || view.InProgress[0].ID != "a1" {
		t.Fatalf("InProgress = %+v", view.InProgress)
	}
	if got := ids(view.Upcoming); got != "s4,s1" {
		t.Fatalf("Upcoming = %s, want s4,s1", got)
	}
	if got := ids(view.Overdue); got != "s3,s2" {
		t.Fatalf("Overdue = %s, want s3,s2", got)
	}
}

func TestSummarizeLimitsPanels(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 5, 10, 12, 0, 0, 0, time.UTC)
	var summary backend.DashboardSummary
	for i := 0; i < panelLimit+3; i++ {
		summary.Assignments = append(summary.Assignments, backend.Assignment{Status: "IN_PROGRESS"})
	}
	view := summarize(summary, now)
	if len(view.InProgress) != panelLimit {
		t.Fatalf("len(InProgress) = %d, want %d", len(view.InProgress), panelLimit)
	}
	if view.Assignments != panelLimit+3 {
		t.Fatalf("Assignments = %d, want full count", view.Assignments)
	}
}

func ids(records []backend.ServiceRecord) string {
	out := ""
	for i, record := range records {
		if i > 0 {
			out += ","
		}
		out += record.ID
	}
	return out
}

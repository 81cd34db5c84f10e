package dashboard

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/louisbranch/fleettrack/internal/services/web/integration/backend"
	apperrors "github.com/louisbranch/fleettrack/internal/services/web/platform/errors"
	webtemplates "github.com/louisbranch/fleettrack/internal/services/web/templates"
)

// panelLimit caps the rows shown in each dashboard list.
const panelLimit = 5

// DashboardGateway loads the fleet summary.
type DashboardGateway interface {
	Dashboard(ctx context.Context) (backend.DashboardSummary, error)
}

type service struct {
	gateway DashboardGateway
}

type unavailableGateway struct{}

func (unavailableGateway) Dashboard(context.Context) (backend.DashboardSummary, error) {
	return backend.DashboardSummary{}, apperrors.EK(apperrors.KindUnavailable, "web.error.backend_unavailable", "dashboard backend is not configured")
}

func newService(gateway DashboardGateway) service {
	if gateway == nil {
		gateway = unavailableGateway{}
	}
	return service{gateway: gateway}
}

func (s service) load(ctx context.Context, now time.Time) (webtemplates.DashboardView, error) {
	summary, err := s.gateway.Dashboard(ctx)
	if err != nil {
		return webtemplates.DashboardView{Now: now}, err
	}
	return summarize(summary, now), nil
}

// summarize derives the dashboard counters and panels. A pending record whose
// next date has passed counts as overdue.
func summarize(summary backend.DashboardSummary, now time.Time) webtemplates.DashboardView {
	view := webtemplates.DashboardView{
		Now:         now,
		Vehicles:    len(summary.Vehicles),
		Drivers:     len(summary.Drivers),
		Users:       len(summary.Users),
		Assignments: len(summary.Assignments),
		Services:    len(summary.Services),
	}
	for _, vehicle := range summary.Vehicles {
		if strings.EqualFold(vehicle.Status, backend.VehicleActive) {
			view.ActiveVehicles++
		}
	}
	for _, assignment := range summary.Assignments {
		if strings.EqualFold(assignment.Status, backend.AssignmentInProgress) {
			view.InProgress = append(view.InProgress, assignment)
		}
	}
	for _, record := range summary.Services {
		due := dueDate(record)
		switch {
		case strings.EqualFold(record.Status, backend.ServiceOverdue):
			view.Overdue = append(view.Overdue, record)
		case strings.EqualFold(record.Status, backend.ServiceCompleted):
			if !record.NextServiceDate.IsZero() && !record.NextServiceDate.Before(now) {
				view.Upcoming = append(view.Upcoming, record)
			}
		case !due.IsZero() && due.Before(now):
			view.Overdue = append(view.Overdue, record)
		default:
			view.Upcoming = append(view.Upcoming, record)
		}
	}
	sortByDue(view.Upcoming)
	sortByDue(view.Overdue)
	view.InProgress = limit(view.InProgress)
	view.Upcoming = limit(view.Upcoming)
	view.Overdue = limit(view.Overdue)
	return view
}

func dueDate(record backend.ServiceRecord) time.Time {
	if !record.NextServiceDate.IsZero() && !strings.EqualFold(record.Status, backend.ServicePending) {
		return record.NextServiceDate
	}
	if !record.ServiceDate.IsZero() {
		return record.ServiceDate
	}
	return record.NextServiceDate
}

func sortByDue(records []backend.ServiceRecord) {
	sort.SliceStable(records, func(i, j int) bool {
		return dueDate(records[i]).Before(dueDate(records[j]))
	})
}

func limit[T any](rows []T) []T {
	if len(rows) > panelLimit {
		return rows[:panelLimit]
	}
	return rows
}

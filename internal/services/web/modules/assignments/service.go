package assignments

import (
	"context"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/louisbranch/fleettrack/internal/services/web/integration/backend"
	apperrors "github.com/louisbranch/fleettrack/internal/services/web/platform/errors"
	"github.com/louisbranch/fleettrack/internal/services/web/platform/formvalue"
	"github.com/louisbranch/fleettrack/internal/services/web/session"
	webtemplates "github.com/louisbranch/fleettrack/internal/services/web/templates"
)

// AssignmentGateway reads and writes assignments on the backend.
type AssignmentGateway interface {
	ListAssignments(ctx context.Context) ([]backend.Assignment, error)
	CreateAssignment(ctx context.Context, input backend.AssignmentInput) (backend.Assignment, error)
	UpdateAssignment(ctx context.Context, id string, input backend.AssignmentInput) (backend.Assignment, error)
	DeleteAssignment(ctx context.Context, id string) error
	ListVehicles(ctx context.Context) ([]backend.Vehicle, error)
	ListDrivers(ctx context.Context) ([]backend.Person, error)
}

type service struct {
	gateway AssignmentGateway
}

type unavailableGateway struct{}

func unavailable() error {
	return apperrors.EK(apperrors.KindUnavailable, "web.error.backend_unavailable", "assignments backend is not configured")
}

func (unavailableGateway) ListAssignments(context.Context) ([]backend.Assignment, error) {
	return nil, unavailable()
}

func (unavailableGateway) CreateAssignment(context.Context, backend.AssignmentInput) (backend.Assignment, error) {
	return backend.Assignment{}, unavailable()
}

func (unavailableGateway) UpdateAssignment(context.Context, string, backend.AssignmentInput) (backend.Assignment, error) {
	return backend.Assignment{}, unavailable()
}

func (unavailableGateway) DeleteAssignment(context.Context, string) error {
	return unavailable()
}

func (unavailableGateway) ListVehicles(context.Context) ([]backend.Vehicle, error) {
	return nil, unavailable()
}

func (unavailableGateway) ListDrivers(context.Context) ([]backend.Person, error) {
	return nil, unavailable()
}

func newService(gateway AssignmentGateway) service {
	if gateway == nil {
		gateway = unavailableGateway{}
	}
	return service{gateway: gateway}
}

// filter narrows the list by free text and status.
type filter struct {
	Query  string
	Status string
}

// load builds the page view. Admins also get the vehicles and drivers for
// the create form, fetched alongside the list. The view is usable even when
// err is set.
func (s service) load(ctx context.Context, viewer session.Session, f filter) (webtemplates.AssignmentsView, error) {
	view := webtemplates.AssignmentsView{
		Query:     f.Query,
		Status:    f.Status,
		CanManage: viewer.Role == session.RoleAdmin,
	}

	var rows []backend.Assignment
	group, gctx := errgroup.WithContext(ctx)
	group.Go(func() error {
		var err error
		rows, err = s.gateway.ListAssignments(gctx)
		return err
	})
	if view.CanManage {
		group.Go(func() error {
			vehicles, err := s.gateway.ListVehicles(gctx)
			view.Vehicles = vehicles
			return err
		})
		group.Go(func() error {
			drivers, err := s.gateway.ListDrivers(gctx)
			view.Drivers = drivers
			return err
		})
	}
	if err := group.Wait(); err != nil {
		return view, err
	}
	view.Rows = visibleRows(rows, viewer, f)
	return view, nil
}

func visibleRows(rows []backend.Assignment, viewer session.Session, f filter) []backend.Assignment {
	query := strings.ToLower(strings.TrimSpace(f.Query))
	status := strings.ToUpper(strings.TrimSpace(f.Status))
	out := make([]backend.Assignment, 0, len(rows))
	for _, row := range rows {
		if viewer.Role != session.RoleAdmin && !assignedTo(row, viewer) {
			continue
		}
		if status != "" && !strings.EqualFold(row.Status, status) {
			continue
		}
		if query != "" && !matches(row, query) {
			continue
		}
		out = append(out, row)
	}
	return out
}

func assignedTo(row backend.Assignment, viewer session.Session) bool {
	if viewer.UserID != "" && row.Driver.ID == viewer.UserID {
		return true
	}
	return viewer.Username != "" && strings.EqualFold(row.Driver.Username, viewer.Username)
}

func matches(row backend.Assignment, query string) bool {
	for _, candidate := range []string{
		row.Name,
		row.Vehicle.Name,
		row.Vehicle.RegistrationNumber,
		row.Driver.Name,
		row.Driver.Username,
		row.StartLocation,
		row.DropLocation,
		row.Status,
	} {
		if strings.Contains(strings.ToLower(candidate), query) {
			return true
		}
	}
	return false
}

// parseForm converts the create form. Name, vehicle and driver are required;
// the route must not end before it starts.
func parseForm(form webtemplates.AssignmentForm) (backend.AssignmentInput, error) {
	input := backend.AssignmentInput{
		Name:          strings.TrimSpace(form.Name),
		VehicleID:     strings.TrimSpace(form.VehicleID),
		DriverID:      strings.TrimSpace(form.DriverID),
		StartLocation: strings.TrimSpace(form.StartLocation),
		DropLocation:  strings.TrimSpace(form.DropLocation),
		Status:        backend.AssignmentInProgress,
	}
	if input.Name == "" || input.VehicleID == "" || input.DriverID == "" {
		return input, apperrors.EK(apperrors.KindInvalidInput, "web.assignments.error_required", "name, vehicle and driver are required")
	}
	var err error
	for _, pair := range []struct {
		raw    string
		target *float64
	}{
		{form.StartLat, &input.StartLat},
		{form.StartLng, &input.StartLng},
		{form.EndLat, &input.EndLat},
		{form.EndLng, &input.EndLng},
		{form.RouteDistance, &input.RouteDistance},
	} {
		if *pair.target, err = formvalue.Float(pair.raw); err != nil {
			return input, err
		}
	}
	if input.RouteDistance < 0 {
		return input, apperrors.EK(apperrors.KindInvalidInput, "web.form.error_number", "route distance must not be negative")
	}
	if input.StartTime, err = formvalue.DateTime(form.StartTime); err != nil {
		return input, err
	}
	if input.EndTime, err = formvalue.DateTime(form.EndTime); err != nil {
		return input, err
	}
	if !input.StartTime.IsZero() && !input.EndTime.IsZero() && input.EndTime.Before(input.StartTime) {
		return input, apperrors.EK(apperrors.KindInvalidInput, "web.assignments.error_time_order", "end time is before start time")
	}
	return input, nil
}

func (s service) create(ctx context.Context, form webtemplates.AssignmentForm) error {
	input, err := parseForm(form)
	if err != nil {
		return err
	}
	_, err = s.gateway.CreateAssignment(ctx, input)
	return err
}

// updateStatus rewrites one assignment with a new status. The backend
// replaces the whole record, so the current values are carried over.
func (s service) updateStatus(ctx context.Context, id string, status string) error {
	id = strings.TrimSpace(id)
	status = strings.ToUpper(strings.TrimSpace(status))
	if !validStatus(status) {
		return apperrors.EK(apperrors.KindInvalidInput, "web.assignments.error_status", "unknown assignment status")
	}
	rows, err := s.gateway.ListAssignments(ctx)
	if err != nil {
		return err
	}
	for _, row := range rows {
		if row.ID != id {
			continue
		}
		input := inputFrom(row)
		input.Status = status
		_, err := s.gateway.UpdateAssignment(ctx, id, input)
		return err
	}
	return apperrors.EK(apperrors.KindNotFound, "web.error.not_found", "assignment "+id+" not found")
}

func (s service) delete(ctx context.Context, id string) error {
	id = strings.TrimSpace(id)
	if id == "" {
		return apperrors.EK(apperrors.KindNotFound, "web.error.not_found", "assignment id is required")
	}
	return s.gateway.DeleteAssignment(ctx, id)
}

func inputFrom(row backend.Assignment) backend.AssignmentInput {
	return backend.AssignmentInput{
		Name:          row.Name,
		VehicleID:     row.Vehicle.ID,
		DriverID:      row.Driver.ID,
		StartLat:      row.StartLat,
		StartLng:      row.StartLng,
		EndLat:        row.EndLat,
		EndLng:        row.EndLng,
		StartLocation: row.StartLocation,
		DropLocation:  row.DropLocation,
		RouteDistance: row.RouteDistance,
		StartTime:     row.StartTime,
		EndTime:       row.EndTime,
		Status:        row.Status,
	}
}

func validStatus(status string) bool {
	for _, candidate := range backend.AssignmentStatuses {
		if status == candidate {
			return true
		}
	}
	return false
}

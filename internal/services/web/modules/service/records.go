package service

import (
	"context"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/louisbranch/fleettrack/internal/services/web/integration/backend"
	apperrors "github.com/louisbranch/fleettrack/internal/services/web/platform/errors"
	"github.com/louisbranch/fleettrack/internal/services/web/platform/formvalue"
	webtemplates "github.com/louisbranch/fleettrack/internal/services/web/templates"
)

// RecordGateway reads and writes service records on the backend.
type RecordGateway interface {
	ListServices(ctx context.Context) ([]backend.ServiceRecord, error)
	CreateService(ctx context.Context, input backend.ServiceInput) (backend.ServiceRecord, error)
	UpdateService(ctx context.Context, id string, input backend.ServiceInput) (backend.ServiceRecord, error)
	ListVehicles(ctx context.Context) ([]backend.Vehicle, error)
}

type records struct {
	gateway RecordGateway
}

type unavailableGateway struct{}

func unavailable() error {
	return apperrors.EK(apperrors.KindUnavailable, "web.error.backend_unavailable", "service backend is not configured")
}

func (unavailableGateway) ListServices(context.Context) ([]backend.ServiceRecord, error) {
	return nil, unavailable()
}

func (unavailableGateway) CreateService(context.Context, backend.ServiceInput) (backend.ServiceRecord, error) {
	return backend.ServiceRecord{}, unavailable()
}

func (unavailableGateway) UpdateService(context.Context, string, backend.ServiceInput) (backend.ServiceRecord, error) {
	return backend.ServiceRecord{}, unavailable()
}

func (unavailableGateway) ListVehicles(context.Context) ([]backend.Vehicle, error) {
	return nil, unavailable()
}

func newRecords(gateway RecordGateway) records {
	if gateway == nil {
		gateway = unavailableGateway{}
	}
	return records{gateway: gateway}
}

type filter struct {
	Query  string
	Status string
}

// load fetches the records and, for admins, the vehicle picker options.
func (s records) load(ctx context.Context, canManage bool, f filter) (webtemplates.ServiceView, error) {
	view := webtemplates.ServiceView{Query: f.Query, Status: f.Status, CanManage: canManage}
	var rows []backend.ServiceRecord
	group, gctx := errgroup.WithContext(ctx)
	group.Go(func() error {
		var err error
		rows, err = s.gateway.ListServices(gctx)
		return err
	})
	if canManage {
		group.Go(func() error {
			vehicles, err := s.gateway.ListVehicles(gctx)
			view.Vehicles = vehicles
			return err
		})
	}
	if err := group.Wait(); err != nil {
		return view, err
	}
	view.Rows = filterRows(rows, f)
	return view, nil
}

func filterRows(rows []backend.ServiceRecord, f filter) []backend.ServiceRecord {
	query := strings.ToLower(strings.TrimSpace(f.Query))
	status := strings.TrimSpace(f.Status)
	out := make([]backend.ServiceRecord, 0, len(rows))
	for _, row := range rows {
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

func matches(row backend.ServiceRecord, query string) bool {
	for _, candidate := range []string{row.Vehicle.RegistrationNumber, row.Vehicle.Name, row.ServiceName, row.Notes} {
		if strings.Contains(strings.ToLower(candidate), query) {
			return true
		}
	}
	return false
}

// parseForm converts the create form. Vehicle, name and service date are
// required; the next service cannot precede the service itself.
func parseForm(form webtemplates.ServiceForm) (backend.ServiceInput, error) {
	input := backend.ServiceInput{
		VehicleID:   strings.TrimSpace(form.VehicleID),
		ServiceName: strings.TrimSpace(form.ServiceName),
		Notes:       strings.TrimSpace(form.Notes),
		Status:      strings.ToUpper(strings.TrimSpace(form.Status)),
	}
	if input.Status == "" {
		input.Status = backend.ServicePending
	}
	if input.VehicleID == "" || input.ServiceName == "" || strings.TrimSpace(form.ServiceDate) == "" {
		return input, apperrors.EK(apperrors.KindInvalidInput, "web.service.error_required", "vehicle, service name and date are required")
	}
	if !validStatus(input.Status) {
		return input, apperrors.EK(apperrors.KindInvalidInput, "web.service.error_status", "unknown service status")
	}
	var err error
	if input.ServiceDate, err = formvalue.Date(form.ServiceDate); err != nil {
		return input, err
	}
	if input.NextServiceDate, err = formvalue.Date(form.NextServiceDate); err != nil {
		return input, err
	}
	if !input.NextServiceDate.IsZero() && input.NextServiceDate.Before(input.ServiceDate) {
		return input, apperrors.EK(apperrors.KindInvalidInput, "web.service.error_date_order", "next service is before the service date")
	}
	if input.Amount, err = formvalue.Float(form.Amount); err != nil {
		return input, err
	}
	if input.Amount < 0 {
		return input, apperrors.EK(apperrors.KindInvalidInput, "web.form.error_number", "amount must not be negative")
	}
	return input, nil
}

func (s records) create(ctx context.Context, form webtemplates.ServiceForm) error {
	input, err := parseForm(form)
	if err != nil {
		return err
	}
	_, err = s.gateway.CreateService(ctx, input)
	return err
}

// recordUpdate is what the row form may change. A nil NextServiceDate
// keeps the stored date.
type recordUpdate struct {
	Status          string
	NextServiceDate *string
}

// update replaces one record with the submitted status and next service
// date, keeping its other fields.
func (s records) update(ctx context.Context, id string, change recordUpdate) error {
	id = strings.TrimSpace(id)
	status := strings.ToUpper(strings.TrimSpace(change.Status))
	if !validStatus(status) {
		return apperrors.EK(apperrors.KindInvalidInput, "web.service.error_status", "unknown service status")
	}
	rows, err := s.gateway.ListServices(ctx)
	if err != nil {
		return err
	}
	for _, row := range rows {
		if row.ID != id {
			continue
		}
		next := row.NextServiceDate
		if change.NextServiceDate != nil {
			if next, err = formvalue.Date(*change.NextServiceDate); err != nil {
				return err
			}
		}
		_, err := s.gateway.UpdateService(ctx, id, backend.ServiceInput{
			VehicleID:       row.Vehicle.ID,
			ServiceName:     row.ServiceName,
			ServiceDate:     row.ServiceDate,
			NextServiceDate: next,
			Notes:           row.Notes,
			Amount:          row.Amount,
			Status:          status,
		})
		return err
	}
	return apperrors.EK(apperrors.KindNotFound, "web.error.not_found", "service record "+id+" not found")
}

func validStatus(status string) bool {
	for _, candidate := range backend.ServiceStatuses {
		if status == candidate {
			return true
		}
	}
	return false
}

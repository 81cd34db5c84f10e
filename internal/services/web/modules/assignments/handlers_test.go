package assignments

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/louisbranch/fleettrack/internal/services/web/integration/backend"
	module "github.com/louisbranch/fleettrack/internal/services/web/module"
	apperrors "github.com/louisbranch/fleettrack/internal/services/web/platform/errors"
	"github.com/louisbranch/fleettrack/internal/services/web/routepath"
	"github.com/louisbranch/fleettrack/internal/services/web/session"
)

func mountHandler(t *testing.T, gateway AssignmentGateway) http.Handler {
	t.Helper()
	mount, err := New(module.Dependencies{}, gateway).Mount()
	if err != nil {
		t.Fatalf("Mount() error = %v", err)
	}
	if mount.Prefix != routepath.AssignmentsPrefix {
		t.Fatalf("Prefix = %q, want %q", mount.Prefix, routepath.AssignmentsPrefix)
	}
	return mount.Handler
}

func as(r *http.Request, role session.Role, userID string) *http.Request {
	return r.WithContext(session.WithSession(r.Context(), session.Session{
		ID:       "sess-" + userID,
		Identity: session.Identity{UserID: userID, Username: "user" + userID, Role: role},
	}))
}

func postForm(target string, values url.Values) *http.Request {
	req := httptest.NewRequest(http.MethodPost, target, strings.NewReader(values.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return req
}

func TestIndexAdminSeesFormAndRows(t *testing.T) {
	t.Parallel()

	gateway := &fakeGateway{
		rows:     sampleRows(),
		vehicles: []backend.Vehicle{{ID: "v9", Name: "Spare bus"}},
		drivers:  []backend.Person{{ID: "d9", Name: "Lee"}},
	}
	rr := httptest.NewRecorder()
	mountHandler(t, gateway).ServeHTTP(rr, as(httptest.NewRequest(http.MethodGet, routepath.AppAssignments, nil), session.RoleAdmin, "1"))
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rr.Code, http.StatusOK)
	}
	body := rr.Body.String()
	for _, marker := range []string{"Airport shuttle", "School run", "data-assignment-form", "Spare bus", "Lee", routepath.AppAssignmentStatus("a1")} {
		if !strings.Contains(body, marker) {
			t.Fatalf("body missing %q", marker)
		}
	}
}

func TestIndexDriverSeesOnlyOwnRows(t *testing.T) {
	t.Parallel()

	rr := httptest.NewRecorder()
	mountHandler(t, &fakeGateway{rows: sampleRows()}).ServeHTTP(rr, as(httptest.NewRequest(http.MethodGet, routepath.AppAssignments, nil), session.RoleDriver, "7"))
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rr.Code, http.StatusOK)
	}
	body := rr.Body.String()
	if !strings.Contains(body, "Airport shuttle") || strings.Contains(body, "School run") {
		t.Fatalf("driver rows wrong: %s", body)
	}
	if strings.Contains(body, "data-assignment-form") {
		t.Fatal("driver should not see the create form")
	}
}

func TestIndexBackendFailureShowsToastWithoutRows(t *testing.T) {
	t.Parallel()

	gateway := &fakeGateway{rows: sampleRows(), listErr: apperrors.Backend(http.StatusInternalServerError, "DB unavailable")}
	rr := httptest.NewRecorder()
	mountHandler(t, gateway).ServeHTTP(rr, as(httptest.NewRequest(http.MethodGet, routepath.AppAssignments, nil), session.RoleAdmin, "1"))
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rr.Code, http.StatusOK)
	}
	body := rr.Body.String()
	if !strings.Contains(body, "DB unavailable") {
		t.Fatalf("body missing backend message: %s", body)
	}
	if strings.Contains(body, "Airport shuttle") {
		t.Fatal("rows rendered despite failed load")
	}
}

func TestIndexFiltersFromQuery(t *testing.T) {
	t.Parallel()

	rr := httptest.NewRecorder()
	target := routepath.AppAssignments + "?status=COMPLETED"
	mountHandler(t, &fakeGateway{rows: sampleRows()}).ServeHTTP(rr, as(httptest.NewRequest(http.MethodGet, target, nil), session.RoleAdmin, "1"))
	body := rr.Body.String()
	if !strings.Contains(body, "School run") || strings.Contains(body, "Airport shuttle") {
		t.Fatalf("status filter not applied: %s", body)
	}
}

func TestCreateRedirectsWithNotice(t *testing.T) {
	t.Parallel()

	gateway := &fakeGateway{}
	values := url.Values{"name": {"Harbour run"}, "vehicleId": {"v1"}, "driverId": {"7"}, "routeDistance": {"12"}}
	rr := httptest.NewRecorder()
	mountHandler(t, gateway).ServeHTTP(rr, as(postForm(routepath.AppAssignments, values), session.RoleAdmin, "1"))
	if rr.Code != http.StatusSeeOther {
		t.Fatalf("status = %d, want %d", rr.Code, http.StatusSeeOther)
	}
	if got := rr.Header().Get("Location"); got != routepath.AppAssignments {
		t.Fatalf("Location = %q, want %q", got, routepath.AppAssignments)
	}
	if len(gateway.created) != 1 || gateway.created[0].Name != "Harbour run" || gateway.created[0].RouteDistance != 12 {
		t.Fatalf("created = %+v", gateway.created)
	}
}

func TestCreateInvalidFormRedisplaysValues(t *testing.T) {
	t.Parallel()

	gateway := &fakeGateway{}
	values := url.Values{"name": {"Harbour run"}, "startLocation": {"Pier 4"}}
	rr := httptest.NewRecorder()
	mountHandler(t, gateway).ServeHTTP(rr, as(postForm(routepath.AppAssignments, values), session.RoleAdmin, "1"))
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want %d", rr.Code, http.StatusBadRequest)
	}
	if len(gateway.created) != 0 {
		t.Fatalf("created = %+v, want none", gateway.created)
	}
	if !strings.Contains(rr.Body.String(), "Pier 4") {
		t.Fatal("submitted value not redisplayed")
	}
}

func TestCreateBackendMessageShownVerbatim(t *testing.T) {
	t.Parallel()

	gateway := &fakeGateway{createErr: apperrors.Backend(http.StatusConflict, "Driver already assigned")}
	values := url.Values{"name": {"Run"}, "vehicleId": {"v1"}, "driverId": {"7"}}
	rr := httptest.NewRecorder()
	mountHandler(t, gateway).ServeHTTP(rr, as(postForm(routepath.AppAssignments, values), session.RoleAdmin, "1"))
	if rr.Code != http.StatusConflict {
		t.Fatalf("status = %d, want %d", rr.Code, http.StatusConflict)
	}
	if !strings.Contains(rr.Body.String(), "Driver already assigned") {
		t.Fatal("backend message missing")
	}
}

func TestDriverCannotMutate(t *testing.T) {
	t.Parallel()

	gateway := &fakeGateway{rows: sampleRows()}
	h := mountHandler(t, gateway)
	for _, target := range []string{routepath.AppAssignments, routepath.AppAssignmentStatus("a1"), routepath.AppAssignmentDelete("a1")} {
		rr := httptest.NewRecorder()
		h.ServeHTTP(rr, as(postForm(target, url.Values{"status": {"COMPLETED"}, "name": {"x"}}), session.RoleDriver, "7"))
		if rr.Code != http.StatusSeeOther {
			t.Fatalf("%s status = %d, want %d", target, rr.Code, http.StatusSeeOther)
		}
	}
	if len(gateway.created) != 0 || gateway.updatedID != "" || len(gateway.deletedIDs) != 0 {
		t.Fatal("driver mutation reached the backend")
	}
}

func TestStatusAndDeleteRoutes(t *testing.T) {
	t.Parallel()

	gateway := &fakeGateway{rows: sampleRows()}
	h := mountHandler(t, gateway)

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, as(postForm(routepath.AppAssignmentStatus("a2"), url.Values{"status": {"CANCELLED"}}), session.RoleAdmin, "1"))
	if rr.Code != http.StatusSeeOther || gateway.updatedID != "a2" || gateway.updated.Status != "CANCELLED" {
		t.Fatalf("status update = %d %q %+v", rr.Code, gateway.updatedID, gateway.updated)
	}

	rr = httptest.NewRecorder()
	h.ServeHTTP(rr, as(postForm(routepath.AppAssignmentDelete("a3"), nil), session.RoleAdmin, "1"))
	if rr.Code != http.StatusSeeOther || len(gateway.deletedIDs) != 1 || gateway.deletedIDs[0] != "a3" {
		t.Fatalf("delete = %d %v", rr.Code, gateway.deletedIDs)
	}

	rr = httptest.NewRecorder()
	h.ServeHTTP(rr, as(httptest.NewRequest(http.MethodGet, routepath.AppAssignmentDelete("a3"), nil), session.RoleAdmin, "1"))
	if rr.Code != http.StatusMethodNotAllowed {
		t.Fatalf("GET delete status = %d, want %d", rr.Code, http.StatusMethodNotAllowed)
	}
}

func TestHTMXStatusUpdateUsesHXRedirect(t *testing.T) {
	t.Parallel()

	req := postForm(routepath.AppAssignmentStatus("a1"), url.Values{"status": {"COMPLETED"}})
	req.Header.Set("HX-Request", "true")
	rr := httptest.NewRecorder()
	mountHandler(t, &fakeGateway{rows: sampleRows()}).ServeHTTP(rr, as(req, session.RoleAdmin, "1"))
	if got := rr.Header().Get("HX-Redirect"); got != routepath.AppAssignments {
		t.Fatalf("HX-Redirect = %q, want %q", got, routepath.AppAssignments)
	}
}

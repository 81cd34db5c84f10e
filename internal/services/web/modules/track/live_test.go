package track

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/louisbranch/fleettrack/internal/services/web/integration/backend"
	apperrors "github.com/louisbranch/fleettrack/internal/services/web/platform/errors"
	"github.com/louisbranch/fleettrack/internal/services/web/routepath"
	"github.com/louisbranch/fleettrack/internal/services/web/session"
)

func dialLive(t *testing.T, cfg Config) *websocket.Conn {
	t.Helper()
	h := mountHandler(t, cfg)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h.ServeHTTP(w, withAdmin(r))
	}))
	t.Cleanup(srv.Close)

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + routepath.AppTrackLive
	conn, resp, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	if resp != nil && resp.Body != nil {
		_ = resp.Body.Close()
	}
	t.Cleanup(func() { _ = conn.Close() })
	_ = conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	return conn
}

func readUntilClose(t *testing.T, conn *websocket.Conn) error {
	t.Helper()
	for {
		var frame Frame
		if err := conn.ReadJSON(&frame); err != nil {
			return err
		}
	}
}

func TestLiveFeedPushesSnapshots(t *testing.T) {
	t.Parallel()

	gateway := &fakeGateway{vehicles: []backend.Vehicle{{ID: "v1", Name: "Bus", Lat: 1, Lng: 2}}}
	conn := dialLive(t, Config{Gateway: gateway, PollInterval: 20 * time.Millisecond})

	for i := 0; i < 2; i++ {
		var frame Frame
		if err := conn.ReadJSON(&frame); err != nil {
			t.Fatalf("read frame %d: %v", i, err)
		}
		if frame.Type != frameSnapshot || len(frame.Vehicles) != 1 || frame.Vehicles[0].ID != "v1" {
			t.Fatalf("frame %d = %+v", i, frame)
		}
	}
}

func TestLiveFeedReportsBackendErrors(t *testing.T) {
	t.Parallel()

	gateway := &fakeGateway{vehiclesErr: apperrors.Backend(http.StatusInternalServerError, "DB unavailable")}
	conn := dialLive(t, Config{Gateway: gateway, PollInterval: time.Hour})

	var frame Frame
	if err := conn.ReadJSON(&frame); err != nil {
		t.Fatalf("read frame: %v", err)
	}
	if frame.Type != frameError || frame.Message != "DB unavailable" {
		t.Fatalf("frame = %+v", frame)
	}
}

func TestLiveFeedClosesWhenSessionLogsOut(t *testing.T) {
	t.Parallel()

	events := newFakeEvents()
	gateway := &fakeGateway{vehicles: []backend.Vehicle{{ID: "v1"}}}
	conn := dialLive(t, Config{Gateway: gateway, Events: events, PollInterval: time.Hour})

	var frame Frame
	if err := conn.ReadJSON(&frame); err != nil {
		t.Fatalf("read first frame: %v", err)
	}
	events.ch <- session.Event{Kind: session.EventLoggedOut, SessionID: "other-session"}
	events.ch <- session.Event{Kind: session.EventLoggedOut, SessionID: "sess-1", Reason: session.ReasonUserLogout}

	err := readUntilClose(t, conn)
	if !websocket.IsCloseError(err, CloseSessionEnded) {
		t.Fatalf("close error = %v, want code %d", err, CloseSessionEnded)
	}
}

func TestLiveFeedClosesWhenBackendRejectsSession(t *testing.T) {
	t.Parallel()

	gateway := &fakeGateway{vehicles: []backend.Vehicle{{ID: "v1"}}}
	conn := dialLive(t, Config{Gateway: gateway, PollInterval: 20 * time.Millisecond})

	var frame Frame
	if err := conn.ReadJSON(&frame); err != nil {
		t.Fatalf("read first frame: %v", err)
	}
	gateway.setVehiclesErr(apperrors.E(apperrors.KindUnauthorized, "401"))

	err := readUntilClose(t, conn)
	if !websocket.IsCloseError(err, CloseSessionEnded) {
		t.Fatalf("close error = %v, want code %d", err, CloseSessionEnded)
	}
}

func TestLiveFeedRequiresSession(t *testing.T) {
	t.Parallel()

	rr := httptest.NewRecorder()
	mountHandler(t, Config{}).ServeHTTP(rr, httptest.NewRequest(http.MethodGet, routepath.AppTrackLive, nil))
	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want %d", rr.Code, http.StatusUnauthorized)
	}
}

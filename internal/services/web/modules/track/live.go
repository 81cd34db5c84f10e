package track

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	apperrors "github.com/louisbranch/fleettrack/internal/services/web/platform/errors"
	"github.com/louisbranch/fleettrack/internal/services/web/platform/weberror"
	"github.com/louisbranch/fleettrack/internal/services/web/session"
	webtemplates "github.com/louisbranch/fleettrack/internal/services/web/templates"
)

const (
	liveWriteWait = 10 * time.Second
	liveReadLimit = 512
	// CloseSessionEnded is sent when the viewer's session ends while the
	// feed is open.
	CloseSessionEnded = 4001
)

const (
	frameSnapshot = "snapshot"
	frameError    = "error"
)

// Frame is one message on the live feed.
type Frame struct {
	Type     string   `json:"type"`
	Vehicles []Marker `json:"vehicles,omitempty"`
	Message  string   `json:"message,omitempty"`
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 4096,
}

func (h handlers) handleLive(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.Session(r)
	if !ok {
		http.Error(w, http.StatusText(http.StatusUnauthorized), http.StatusUnauthorized)
		return
	}
	loc := h.Localizer(w, r)

	var events <-chan session.Event
	if h.cfg.Events != nil {
		ch, unsubscribe := h.cfg.Events.Subscribe(8)
		defer unsubscribe()
		events = ch
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("web: track live upgrade: %v", err)
		return
	}
	defer conn.Close()

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()
	go drain(conn, cancel)

	ticker := time.NewTicker(h.cfg.PollInterval)
	defer ticker.Stop()
	for {
		if done := h.pushSnapshot(ctx, conn, r, loc); done {
			return
		}
		select {
		case <-ctx.Done():
			return
		case event, ok := <-events:
			if !ok {
				events = nil
				continue
			}
			if event.Kind == session.EventLoggedOut && event.SessionID == sess.ID {
				closeWith(conn, CloseSessionEnded, string(event.Reason))
				return
			}
		case <-ticker.C:
		}
	}
}

// pushSnapshot writes the current positions and reports whether the feed
// must stop.
func (h handlers) pushSnapshot(ctx context.Context, conn *websocket.Conn, r *http.Request, loc webtemplates.Localizer) bool {
	snap, err := h.service.snapshot(ctx)
	if ctx.Err() != nil {
		return true
	}
	frame := Frame{Type: frameSnapshot, Vehicles: snap.Vehicles}
	if err != nil {
		if apperrors.IsAuthFailure(err) {
			h.EndRejectedSession(r)
			closeWith(conn, CloseSessionEnded, string(session.ReasonExpired))
			return true
		}
		frame = Frame{Type: frameError, Message: weberror.PublicMessage(loc, err)}
	}
	_ = conn.SetWriteDeadline(time.Now().Add(liveWriteWait))
	if err := conn.WriteJSON(frame); err != nil {
		return true
	}
	return false
}

// drain reads until the client goes away so control frames are processed.
func drain(conn *websocket.Conn, cancel context.CancelFunc) {
	defer cancel()
	conn.SetReadLimit(liveReadLimit)
	for {
		if _, _, err := conn.NextReader(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure, websocket.CloseNoStatusReceived) {
				log.Printf("web: track live read: %v", err)
			}
			return
		}
	}
}

func closeWith(conn *websocket.Conn, code int, reason string) {
	msg := websocket.FormatCloseMessage(code, reason)
	_ = conn.WriteControl(websocket.CloseMessage, msg, time.Now().Add(liveWriteWait))
}

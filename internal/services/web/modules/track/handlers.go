package track

import (
	"net/http"

	module "github.com/louisbranch/fleettrack/internal/services/web/module"
	"github.com/louisbranch/fleettrack/internal/services/web/platform/httpx"
	"github.com/louisbranch/fleettrack/internal/services/web/platform/modulehandler"
	"github.com/louisbranch/fleettrack/internal/services/web/platform/pagerender"
	"github.com/louisbranch/fleettrack/internal/services/web/routepath"
	webtemplates "github.com/louisbranch/fleettrack/internal/services/web/templates"
)

type handlers struct {
	modulehandler.Base
	service service
	cfg     Config
}

func newHandlers(s service, cfg Config, deps module.Dependencies) handlers {
	return handlers{Base: modulehandler.NewBase(deps), service: s, cfg: cfg}
}

func (h handlers) handleIndex(w http.ResponseWriter, r *http.Request) {
	loc := h.Localizer(w, r)
	view := webtemplates.TrackView{
		TileURL:         h.cfg.TileURL,
		TileAttribution: h.cfg.TileAttribution,
		PollSeconds:     int(h.cfg.PollInterval.Seconds()),
	}
	if view.PollSeconds < 1 {
		view.PollSeconds = 1
	}
	var toasts []webtemplates.Toast
	vehicles, err := h.service.vehicles(httpx.RequestContext(r))
	if err != nil {
		if h.HandleAuthFailure(w, r, err) {
			return
		}
		toasts = append(toasts, h.ErrorToast(loc, err))
	}
	view.Vehicles = vehicles
	h.WritePage(w, r, pagerender.ModulePage{
		Title:      webtemplates.T(loc, "web.track.title"),
		StatusCode: http.StatusOK,
		Fragment:   webtemplates.TrackPage(view, loc),
		Toasts:     toasts,
		Scripts:    []string{webtemplates.LeafletScriptURL, webtemplates.MapScriptURL},
		Styles:     []string{webtemplates.LeafletStyleURL},
	})
}

func (h handlers) handleVehicles(w http.ResponseWriter, r *http.Request) {
	snap, err := h.service.snapshot(httpx.RequestContext(r))
	if err != nil {
		h.WriteJSONError(w, r, err)
		return
	}
	h.WriteJSON(w, r, snap)
}

func (h handlers) handleVehicle(w http.ResponseWriter, r *http.Request) {
	marker, err := h.service.vehicle(httpx.RequestContext(r), r.PathValue("vehicleID"))
	if err != nil {
		h.WriteJSONError(w, r, err)
		return
	}
	h.WriteJSON(w, r, marker)
}

func (h handlers) handleSearch(w http.ResponseWriter, r *http.Request) {
	result, err := h.service.search(httpx.RequestContext(r), r.URL.Query().Get("query"))
	if err != nil {
		h.WriteJSONError(w, r, err)
		return
	}
	h.WriteJSON(w, r, result)
}

func (h handlers) handleGeocode(w http.ResponseWriter, r *http.Request) {
	places, err := h.service.geocode(httpx.RequestContext(r), r.URL.Query().Get(routepath.QueryKeySearch))
	if err != nil {
		h.WriteJSONError(w, r, err)
		return
	}
	h.WriteJSON(w, r, places)
}

func (h handlers) handleReverse(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	place, err := h.service.reverse(httpx.RequestContext(r), query.Get("lat"), query.Get("lng"))
	if err != nil {
		h.WriteJSONError(w, r, err)
		return
	}
	h.WriteJSON(w, r, place)
}

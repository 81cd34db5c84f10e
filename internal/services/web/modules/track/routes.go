package track

import (
	"net/http"

	"github.com/louisbranch/fleettrack/internal/services/web/routepath"
)

func registerRoutes(mux *http.ServeMux, h handlers) {
	if mux == nil {
		return
	}
	mux.HandleFunc(http.MethodGet+" "+routepath.AppTrack, h.handleIndex)
	mux.HandleFunc(http.MethodGet+" "+routepath.TrackPrefix+"{$}", h.handleIndex)
	mux.HandleFunc(http.MethodGet+" "+routepath.AppTrackVehicles, h.handleVehicles)
	mux.HandleFunc(http.MethodGet+" "+routepath.AppTrackVehiclePattern, h.handleVehicle)
	mux.HandleFunc(http.MethodGet+" "+routepath.AppTrackSearch, h.handleSearch)
	mux.HandleFunc(http.MethodGet+" "+routepath.AppTrackGeocode, h.handleGeocode)
	mux.HandleFunc(http.MethodGet+" "+routepath.AppTrackReverse, h.handleReverse)
	mux.HandleFunc(http.MethodGet+" "+routepath.AppTrackLive, h.handleLive)
	mux.HandleFunc(http.MethodGet+" "+routepath.TrackPrefix+"{rest...}", h.WriteNotFound)
}

package templates

import (
	"strconv"

	"github.com/a-h/templ"

	"github.com/louisbranch/fleettrack/internal/services/web/integration/backend"
	"github.com/louisbranch/fleettrack/internal/services/web/routepath"
)

// Map widget assets.
const (
	LeafletStyleURL  = "https://unpkg.com/leaflet@1.9.4/dist/leaflet.css"
	LeafletScriptURL = "https://unpkg.com/leaflet@1.9.4/dist/leaflet.js"
	MapScriptURL     = routepath.StaticPrefix + "map.js"
)

// TrackView is the live map page.
type TrackView struct {
	TileURL         string
	TileAttribution string
	PollSeconds     int
	Vehicles        []backend.Vehicle
}

// Tracked counts the vehicles with a plottable position.
func (v TrackView) Tracked() int {
	n := 0
	for _, vehicle := range v.Vehicles {
		if vehicle.Tracked() {
			n++
		}
	}
	return n
}

// TrackPage renders the map and the vehicle list beside it.
func TrackPage(view TrackView, loc Localizer) templ.Component {
	return group(
		el("h1", nil, text(T(loc, "web.track.title"))),
		el("p", attrs(class("muted"), at("data-track-summary", "")),
			text(T(loc, "web.track.tracked", view.Tracked(), len(view.Vehicles))),
		),
		el("div", attrs(class("track-layout")),
			el("aside", attrs(class("track-sidebar")),
				el("form", attrs(class("inline-form"), at("data-track-search", ""), at("action", routepath.AppTrackSearch)),
					el("input", attrs(at("type", "search"), at("name", "query"), at("placeholder", T(loc, "web.track.search_placeholder")))),
					el("button", attrs(at("type", "submit")), text(T(loc, "core.action.search"))),
				),
				el("form", attrs(class("inline-form"), at("data-track-geocode", ""), at("action", routepath.AppTrackGeocode)),
					el("input", attrs(at("type", "search"), at("name", "q"), at("placeholder", T(loc, "web.track.geocode_placeholder")))),
					el("button", attrs(at("type", "submit")), text(T(loc, "web.track.find_place"))),
				),
				el("ul", attrs(class("vehicle-list"), at("data-vehicle-list", "")),
					each(view.Vehicles, func(v backend.Vehicle) templ.Component {
						return trackVehicleItem(v, loc)
					}),
				),
				when(len(view.Vehicles) == 0, EmptyState(T(loc, "web.track.empty"))),
			),
			el("div", attrs(
				class("track-map"),
				at("id", "track-map"),
				at("data-track-map", ""),
				at("data-vehicles-url", routepath.AppTrackVehicles),
				at("data-search-url", routepath.AppTrackSearch),
				at("data-geocode-url", routepath.AppTrackGeocode),
				at("data-reverse-url", routepath.AppTrackReverse),
				at("data-live-url", routepath.AppTrackLive),
				at("data-tile-url", view.TileURL),
				at("data-tile-attribution", view.TileAttribution),
				at("data-poll-seconds", strconv.Itoa(view.PollSeconds)),
				at("data-driver-label", T(loc, "web.track.driver")),
				at("data-untracked-label", T(loc, "web.track.untracked")),
			)),
		),
	)
}

func trackVehicleItem(v backend.Vehicle, loc Localizer) templ.Component {
	driver := T(loc, "core.label.none")
	if v.AssignedDriver != nil {
		driver = v.AssignedDriver.Label()
	}
	position := T(loc, "web.track.untracked")
	if v.Tracked() {
		position = strconv.FormatFloat(v.Lat, 'f', 5, 64) + ", " + strconv.FormatFloat(v.Lng, 'f', 5, 64)
	}
	return el("li", attrs(at("data-vehicle-id", v.ID), at("data-vehicle-url", routepath.AppTrackVehicle(v.ID))),
		el("strong", nil, text(v.Label())),
		el("span", attrs(class(statusClass(v.Status))), text(statusLabel(loc, v.Status))),
		el("span", attrs(class("muted")), text(T(loc, "web.track.driver")+": "+driver)),
		el("span", attrs(class("muted")), text(position)),
	)
}

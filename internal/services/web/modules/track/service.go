package track

import (
	"context"
	"strconv"
	"strings"

	"github.com/louisbranch/fleettrack/internal/services/web/integration/backend"
	"github.com/louisbranch/fleettrack/internal/services/web/integration/geocode"
	apperrors "github.com/louisbranch/fleettrack/internal/services/web/platform/errors"
	"github.com/louisbranch/fleettrack/internal/services/web/session"
)

// TrackingGateway reads vehicle positions from the backend.
type TrackingGateway interface {
	TrackedVehicles(ctx context.Context) ([]backend.Vehicle, error)
	SearchTracking(ctx context.Context, query string) (backend.SearchResult, error)
	TrackedVehicle(ctx context.Context, id string) (backend.Vehicle, error)
}

// Geocoder resolves place names and coordinates.
type Geocoder interface {
	Search(ctx context.Context, query string) ([]geocode.Place, error)
	Reverse(ctx context.Context, lat float64, lng float64) (geocode.Place, error)
}

// SessionEvents publishes session changes.
type SessionEvents interface {
	Subscribe(buffer int) (<-chan session.Event, func())
}

// Marker is one vehicle as the map script draws it.
type Marker struct {
	ID                 string  `json:"id"`
	Name               string  `json:"name"`
	RegistrationNumber string  `json:"registrationNumber"`
	Label              string  `json:"label"`
	Status             string  `json:"status"`
	LocationStatus     string  `json:"locationStatus"`
	Location           string  `json:"location"`
	Lat                float64 `json:"lat"`
	Lng                float64 `json:"lng"`
	Tracked            bool    `json:"tracked"`
	Driver             string  `json:"driver,omitempty"`
}

// Snapshot is the payload of the vehicles feed and each live frame.
type Snapshot struct {
	Vehicles []Marker `json:"vehicles"`
}

// SearchResponse is the search endpoint payload.
type SearchResponse struct {
	Vehicles []Marker `json:"vehicles"`
	Drivers  []Driver `json:"drivers"`
}

// Driver is a search hit on a driver.
type Driver struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Phone     string `json:"phone,omitempty"`
	VehicleID string `json:"vehicleId,omitempty"`
}

type service struct {
	gateway  TrackingGateway
	geocoder Geocoder
}

type unavailableGateway struct{}

func unavailable() error {
	return apperrors.EK(apperrors.KindUnavailable, "web.error.backend_unavailable", "tracking backend is not configured")
}

func (unavailableGateway) TrackedVehicles(context.Context) ([]backend.Vehicle, error) {
	return nil, unavailable()
}

func (unavailableGateway) SearchTracking(context.Context, string) (backend.SearchResult, error) {
	return backend.SearchResult{}, unavailable()
}

func (unavailableGateway) TrackedVehicle(context.Context, string) (backend.Vehicle, error) {
	return backend.Vehicle{}, unavailable()
}

type unavailableGeocoder struct{}

func (unavailableGeocoder) Search(context.Context, string) ([]geocode.Place, error) {
	return nil, apperrors.EK(apperrors.KindUnavailable, "web.track.error_geocoder", "geocoder is not configured")
}

func (unavailableGeocoder) Reverse(context.Context, float64, float64) (geocode.Place, error) {
	return geocode.Place{}, apperrors.EK(apperrors.KindUnavailable, "web.track.error_geocoder", "geocoder is not configured")
}

func newService(gateway TrackingGateway, geocoder Geocoder) service {
	if gateway == nil {
		gateway = unavailableGateway{}
	}
	if geocoder == nil {
		geocoder = unavailableGeocoder{}
	}
	return service{gateway: gateway, geocoder: geocoder}
}

func (s service) vehicles(ctx context.Context) ([]backend.Vehicle, error) {
	return s.gateway.TrackedVehicles(ctx)
}

func (s service) snapshot(ctx context.Context) (Snapshot, error) {
	vehicles, err := s.gateway.TrackedVehicles(ctx)
	if err != nil {
		return Snapshot{}, err
	}
	return Snapshot{Vehicles: markers(vehicles)}, nil
}

func (s service) vehicle(ctx context.Context, id string) (Marker, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return Marker{}, apperrors.EK(apperrors.KindNotFound, "web.error.not_found", "vehicle id is required")
	}
	vehicle, err := s.gateway.TrackedVehicle(ctx, id)
	if err != nil {
		return Marker{}, err
	}
	return markerFor(vehicle), nil
}

func (s service) search(ctx context.Context, query string) (SearchResponse, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		snap, err := s.snapshot(ctx)
		return SearchResponse{Vehicles: snap.Vehicles, Drivers: []Driver{}}, err
	}
	result, err := s.gateway.SearchTracking(ctx, query)
	if err != nil {
		return SearchResponse{}, err
	}
	resp := SearchResponse{Vehicles: markers(result.Vehicles), Drivers: make([]Driver, 0, len(result.Drivers))}
	for _, person := range result.Drivers {
		resp.Drivers = append(resp.Drivers, Driver{
			ID:        person.ID,
			Name:      person.Label(),
			Phone:     person.Phone,
			VehicleID: person.AssignedVehicleID,
		})
	}
	return resp, nil
}

func (s service) geocode(ctx context.Context, query string) ([]geocode.Place, error) {
	if strings.TrimSpace(query) == "" {
		return []geocode.Place{}, nil
	}
	places, err := s.geocoder.Search(ctx, query)
	if err != nil {
		return nil, err
	}
	if places == nil {
		places = []geocode.Place{}
	}
	return places, nil
}

func (s service) reverse(ctx context.Context, rawLat string, rawLng string) (geocode.Place, error) {
	lat, latErr := strconv.ParseFloat(strings.TrimSpace(rawLat), 64)
	lng, lngErr := strconv.ParseFloat(strings.TrimSpace(rawLng), 64)
	if latErr != nil || lngErr != nil || lat < -90 || lat > 90 || lng < -180 || lng > 180 {
		return geocode.Place{}, apperrors.EK(apperrors.KindInvalidInput, "web.track.error_coordinates", "invalid coordinates")
	}
	return s.geocoder.Reverse(ctx, lat, lng)
}

func markers(vehicles []backend.Vehicle) []Marker {
	out := make([]Marker, 0, len(vehicles))
	for _, vehicle := range vehicles {
		out = append(out, markerFor(vehicle))
	}
	return out
}

func markerFor(v backend.Vehicle) Marker {
	marker := Marker{
		ID:                 v.ID,
		Name:               v.Name,
		RegistrationNumber: v.RegistrationNumber,
		Label:              v.Label(),
		Status:             v.Status,
		LocationStatus:     v.LocationStatus,
		Location:           v.CurrentLocation,
		Lat:                v.Lat,
		Lng:                v.Lng,
		Tracked:            v.Tracked(),
	}
	if v.AssignedDriver != nil {
		marker.Driver = v.AssignedDriver.Label()
	}
	return marker
}

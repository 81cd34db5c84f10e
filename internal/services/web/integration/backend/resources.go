package backend

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	apperrors "github.com/louisbranch/fleettrack/internal/services/web/platform/errors"
)

// Profile kinds accepted by the profile update and delete endpoints.
const (
	KindUsers    = "users"
	KindDrivers  = "drivers"
	KindVehicles = "vehicles"
)

// Dashboard loads the admin aggregate.
func (c *Client) Dashboard(ctx context.Context) (DashboardSummary, error) {
	resp, err := c.get(ctx, "/dashboard", nil)
	if err != nil {
		return DashboardSummary{}, err
	}
	return adaptDashboard(resp.body), nil
}

// ListUsers loads every user profile.
func (c *Client) ListUsers(ctx context.Context) ([]Person, error) {
	resp, err := c.get(ctx, "/v1/profiles/users", nil)
	if err != nil {
		return nil, err
	}
	return adaptPeople(resp.body, "users"), nil
}

// ListDrivers loads every driver profile.
func (c *Client) ListDrivers(ctx context.Context) ([]Person, error) {
	resp, err := c.get(ctx, "/v1/profiles/drivers", nil)
	if err != nil {
		return nil, err
	}
	return adaptPeople(resp.body, "drivers"), nil
}

// ListVehicles loads every vehicle profile.
func (c *Client) ListVehicles(ctx context.Context) ([]Vehicle, error) {
	resp, err := c.get(ctx, "/v1/profiles/vehicles", nil)
	if err != nil {
		return nil, err
	}
	return adaptVehicles(resp.body), nil
}

// Photo is an optional profile picture upload.
type Photo struct {
	Filename    string
	ContentType string
	Data        []byte
}

// PersonInput creates a user or driver.
type PersonInput struct {
	Username string
	Password string
	Name     string
	Email    string
	Phone    string
	Role     string
	Photo    *Photo
}

// CreatePerson creates a user or driver with a multipart request.
func (c *Client) CreatePerson(ctx context.Context, input PersonInput) (Person, error) {
	if strings.TrimSpace(input.Username) == "" || input.Password == "" {
		return Person{}, apperrors.EK(apperrors.KindInvalidInput, "web.profiles.error_credentials_required", "username and password are required")
	}
	body, contentType, err := encodePersonForm(input)
	if err != nil {
		return Person{}, err
	}
	resp, err := c.do(ctx, http.MethodPost, "/v1/profiles/create", nil, body, contentType)
	if err != nil {
		return Person{}, err
	}
	return adaptPerson(objectOf(resp.body, "user", "profile", "data")), nil
}

// VehicleInput creates or updates a vehicle. The API takes every field as a
// string.
type VehicleInput struct {
	Name               string
	RegistrationNumber string
	Model              string
	Type               string
	Capacity           int
	LastServiceDate    time.Time
	NextServiceDate    time.Time
	Status             string
}

func (in VehicleInput) payload() map[string]string {
	payload := map[string]string{
		"vehicleName":        strings.TrimSpace(in.Name),
		"registrationNumber": strings.TrimSpace(in.RegistrationNumber),
		"model":              strings.TrimSpace(in.Model),
		"type":               strings.ToUpper(strings.TrimSpace(in.Type)),
		"status":             strings.ToUpper(strings.TrimSpace(in.Status)),
	}
	if in.Capacity > 0 {
		payload["capacity"] = strconv.Itoa(in.Capacity)
	}
	if !in.LastServiceDate.IsZero() {
		payload["lastServiceDate"] = in.LastServiceDate.Format(dateLayout)
	}
	if !in.NextServiceDate.IsZero() {
		payload["nextServiceDate"] = in.NextServiceDate.Format(dateLayout)
	}
	return payload
}

// CreateVehicle creates a vehicle.
func (c *Client) CreateVehicle(ctx context.Context, input VehicleInput) (Vehicle, error) {
	if strings.TrimSpace(input.Name) == "" || strings.TrimSpace(input.RegistrationNumber) == "" {
		return Vehicle{}, apperrors.EK(apperrors.KindInvalidInput, "web.profiles.error_vehicle_required", "vehicle name and registration number are required")
	}
	resp, err := c.sendJSON(ctx, http.MethodPost, "/v1/profiles/vehicles/create", input.payload())
	if err != nil {
		return Vehicle{}, err
	}
	return adaptVehicle(objectOf(resp.body, "vehicle", "data")), nil
}

// UpdateProfileEntity updates a user, driver or vehicle with the given
// field map.
func (c *Client) UpdateProfileEntity(ctx context.Context, kind string, id string, fields map[string]string) error {
	path, err := profileEntityPath(kind, id)
	if err != nil {
		return err
	}
	_, err = c.sendJSON(ctx, http.MethodPut, path, fields)
	return err
}

// DeleteProfileEntity deletes a user, driver or vehicle.
func (c *Client) DeleteProfileEntity(ctx context.Context, kind string, id string) error {
	path, err := profileEntityPath(kind, id)
	if err != nil {
		return err
	}
	_, err = c.do(ctx, http.MethodDelete, path, nil, nil, "")
	return err
}

func profileEntityPath(kind string, id string) (string, error) {
	switch kind {
	case KindUsers, KindDrivers, KindVehicles:
	default:
		return "", apperrors.E(apperrors.KindInvalidInput, "unknown profile kind "+kind)
	}
	id = strings.TrimSpace(id)
	if id == "" {
		return "", apperrors.E(apperrors.KindInvalidInput, "profile id is required")
	}
	return "/v1/profiles/" + kind + "/" + url.PathEscape(id), nil
}

// MyProfile loads the profile of userID. A missing user is reported by the
// API as {success:false, message} and surfaces as a backend error.
func (c *Client) MyProfile(ctx context.Context, userID string) (Profile, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return Profile{}, apperrors.EK(apperrors.KindNotFound, "web.profile.error_not_found", "profile not found")
	}
	resp, err := c.get(ctx, "/v1/profiles/me/"+url.PathEscape(userID), nil)
	if err != nil {
		return Profile{}, err
	}
	profile := adaptProfile(resp.body)
	if profile.ID == "" && profile.Username == "" {
		return Profile{}, apperrors.EK(apperrors.KindNotFound, "web.profile.error_not_found", "profile not found")
	}
	return profile, nil
}

// AssignmentInput creates or updates an assignment.
type AssignmentInput struct {
	Name          string
	VehicleID     string
	DriverID      string
	StartLat      float64
	StartLng      float64
	EndLat        float64
	EndLng        float64
	StartLocation string
	DropLocation  string
	RouteDistance float64
	StartTime     time.Time
	EndTime       time.Time
	Status        string
}

func (in AssignmentInput) payload() map[string]any {
	payload := map[string]any{
		"assignmentName": strings.TrimSpace(in.Name),
		"vehicle":        map[string]string{"id": strings.TrimSpace(in.VehicleID)},
		"driver":         map[string]string{"id": strings.TrimSpace(in.DriverID)},
		"startLat":       in.StartLat,
		"startLng":       in.StartLng,
		"endLat":         in.EndLat,
		"endLng":         in.EndLng,
		"startLocation":  strings.TrimSpace(in.StartLocation),
		"dropLocation":   strings.TrimSpace(in.DropLocation),
		"routeDistance":  in.RouteDistance,
		"status":         strings.ToUpper(strings.TrimSpace(in.Status)),
	}
	if !in.StartTime.IsZero() {
		payload["startTime"] = in.StartTime.Format(localDateTimeLayout)
	}
	if !in.EndTime.IsZero() {
		payload["endTime"] = in.EndTime.Format(localDateTimeLayout)
	}
	return payload
}

// ListAssignments loads every assignment.
func (c *Client) ListAssignments(ctx context.Context) ([]Assignment, error) {
	resp, err := c.get(ctx, "/assignments", nil)
	if err != nil {
		return nil, err
	}
	return adaptAssignments(resp.body), nil
}

// CreateAssignment creates an assignment.
func (c *Client) CreateAssignment(ctx context.Context, input AssignmentInput) (Assignment, error) {
	resp, err := c.sendJSON(ctx, http.MethodPost, "/assignments", input.payload())
	if err != nil {
		return Assignment{}, err
	}
	return adaptAssignment(objectOf(resp.body, "data")), nil
}

// UpdateAssignment replaces an assignment.
func (c *Client) UpdateAssignment(ctx context.Context, id string, input AssignmentInput) (Assignment, error) {
	resp, err := c.sendJSON(ctx, http.MethodPut, "/assignments/"+url.PathEscape(strings.TrimSpace(id)), input.payload())
	if err != nil {
		return Assignment{}, err
	}
	return adaptAssignment(objectOf(resp.body, "data")), nil
}

// DeleteAssignment deletes an assignment.
func (c *Client) DeleteAssignment(ctx context.Context, id string) error {
	_, err := c.do(ctx, http.MethodDelete, "/assignments/"+url.PathEscape(strings.TrimSpace(id)), nil, nil, "")
	return err
}

// ServiceInput creates or updates a service record.
type ServiceInput struct {
	VehicleID       string
	ServiceName     string
	ServiceDate     time.Time
	NextServiceDate time.Time
	Notes           string
	Amount          float64
	Status          string
}

func (in ServiceInput) payload() map[string]any {
	payload := map[string]any{
		"vehicle":     map[string]string{"id": strings.TrimSpace(in.VehicleID)},
		"serviceName": strings.TrimSpace(in.ServiceName),
		"notes":       strings.TrimSpace(in.Notes),
		"amount":      in.Amount,
		"status":      strings.ToUpper(strings.TrimSpace(in.Status)),
	}
	if !in.ServiceDate.IsZero() {
		payload["serviceDate"] = in.ServiceDate.Format(dateLayout)
	}
	if !in.NextServiceDate.IsZero() {
		payload["nextServiceDate"] = in.NextServiceDate.Format(dateLayout)
	}
	return payload
}

// ListServices loads every service record.
func (c *Client) ListServices(ctx context.Context) ([]ServiceRecord, error) {
	resp, err := c.get(ctx, "/services", nil)
	if err != nil {
		return nil, err
	}
	return adaptServiceRecords(resp.body), nil
}

// CreateService creates a service record.
func (c *Client) CreateService(ctx context.Context, input ServiceInput) (ServiceRecord, error) {
	resp, err := c.sendJSON(ctx, http.MethodPost, "/services", input.payload())
	if err != nil {
		return ServiceRecord{}, err
	}
	return adaptServiceRecord(objectOf(resp.body, "data")), nil
}

// UpdateService replaces a service record.
func (c *Client) UpdateService(ctx context.Context, id string, input ServiceInput) (ServiceRecord, error) {
	resp, err := c.sendJSON(ctx, http.MethodPut, "/services/"+url.PathEscape(strings.TrimSpace(id)), input.payload())
	if err != nil {
		return ServiceRecord{}, err
	}
	return adaptServiceRecord(objectOf(resp.body, "data")), nil
}

// TrackedVehicles loads every vehicle with its position and driver.
func (c *Client) TrackedVehicles(ctx context.Context) ([]Vehicle, error) {
	resp, err := c.get(ctx, "/track/vehicles/all", nil)
	if err != nil {
		return nil, err
	}
	return adaptVehicles(resp.body), nil
}

// SearchTracking searches vehicles and drivers by free text.
func (c *Client) SearchTracking(ctx context.Context, query string) (SearchResult, error) {
	resp, err := c.get(ctx, "/track/vehicles/search", url.Values{"query": {strings.TrimSpace(query)}})
	if err != nil {
		return SearchResult{}, err
	}
	return adaptSearch(resp.body), nil
}

// TrackedVehicle loads one vehicle with its position.
func (c *Client) TrackedVehicle(ctx context.Context, id string) (Vehicle, error) {
	resp, err := c.get(ctx, "/track/vehicles/"+url.PathEscape(strings.TrimSpace(id)), nil)
	if err != nil {
		return Vehicle{}, err
	}
	return adaptVehicle(objectOf(resp.body, "data")), nil
}

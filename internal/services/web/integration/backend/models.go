package backend

import "time"

// Vehicle statuses.
const (
	VehicleActive   = "ACTIVE"
	VehicleInactive = "INACTIVE"
	VehicleService  = "SERVICE"
)

// Assignment statuses.
const (
	AssignmentInProgress = "IN_PROGRESS"
	AssignmentCompleted  = "COMPLETED"
	AssignmentCancelled  = "CANCELLED"
)

// Service record statuses.
const (
	ServicePending   = "PENDING"
	ServiceCompleted = "COMPLETED"
	ServiceOverdue   = "OVERDUE"
)

// AssignmentStatuses lists the statuses an assignment may take.
var AssignmentStatuses = []string{AssignmentInProgress, AssignmentCompleted, AssignmentCancelled}

// ServiceStatuses lists the statuses a service record may take.
var ServiceStatuses = []string{ServicePending, ServiceCompleted, ServiceOverdue}

// VehicleTypes lists the vehicle types the API accepts.
var VehicleTypes = []string{"BUS", "CAR", "TRUCK"}

// Vehicle is the canonical vehicle shape.
type Vehicle struct {
	ID                 string
	Name               string
	RegistrationNumber string
	Model              string
	Type               string
	Capacity           int
	FuelLevel          float64
	Mileage            float64
	CurrentLocation    string
	Status             string
	LocationStatus     string
	Lat                float64
	Lng                float64
	LastServiceDate    time.Time
	NextServiceDate    time.Time
	// AssignedDriver is set when the payload embeds the driver; otherwise
	// only AssignedDriverID may be known.
	AssignedDriver   *Person
	AssignedDriverID string
}

// Tracked reports whether the vehicle has a position worth plotting.
func (v Vehicle) Tracked() bool {
	if v.LocationStatus == "UNTRACKED" {
		return false
	}
	return v.Lat != 0 || v.Lng != 0
}

// Label is the best human name of the vehicle.
func (v Vehicle) Label() string {
	switch {
	case v.Name != "" && v.RegistrationNumber != "":
		return v.Name + " (" + v.RegistrationNumber + ")"
	case v.Name != "":
		return v.Name
	case v.RegistrationNumber != "":
		return v.RegistrationNumber
	default:
		return "#" + v.ID
	}
}

// Person is the canonical user or driver shape.
type Person struct {
	ID                string
	Username          string
	Name              string
	Email             string
	Phone             string
	Role              string
	Status            string
	PhotoURL          string
	LicenseNumber     string
	TotalTrips        int
	Rating            float64
	AssignedVehicleID string
}

// Label is the best human name of the person.
func (p Person) Label() string {
	if p.Name != "" {
		return p.Name
	}
	if p.Username != "" {
		return p.Username
	}
	return "#" + p.ID
}

// Assignment binds a driver and vehicle to a route.
type Assignment struct {
	ID            string
	Name          string
	Vehicle       Vehicle
	Driver        Person
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

// ServiceRecord is one maintenance entry for a vehicle.
type ServiceRecord struct {
	ID              string
	Vehicle         Vehicle
	ServiceName     string
	ServiceDate     time.Time
	NextServiceDate time.Time
	Notes           string
	Amount          float64
	Status          string
}

// DashboardSummary is the aggregate behind the admin dashboard.
type DashboardSummary struct {
	Vehicles    []Vehicle
	Drivers     []Person
	Users       []Person
	Assignments []Assignment
	Services    []ServiceRecord
}

// Profile is a user's own profile with the vehicle assigned to them.
type Profile struct {
	Person
	JoinedDate      string
	AssignedVehicle *Vehicle
}

// SearchResult is the answer of the tracking search endpoint.
type SearchResult struct {
	Vehicles []Vehicle
	Drivers  []Person
}

// LoginResult is a successful login.
type LoginResult struct {
	Token            string
	UserID           string
	Username         string
	Name             string
	Role             string
	AntiForgeryToken string
}

// VerifyResult is the backend's view of a token.
type VerifyResult struct {
	Valid    bool
	Username string
	Role     string
}

// Package routepath stores canonical HTTP paths for web modules.
package routepath

import (
	"net/url"
	"strings"
)

const (
	Root              = "/"
	Login             = "/login"
	Logout            = "/logout"
	Health            = "/up"
	StaticPrefix      = "/static/"
	LoginNextQueryKey = "next"
	AppPrefix         = "/app/"

	AppDashboard    = "/app/dashboard"
	DashboardPrefix = "/app/dashboard/"

	AppTrack               = "/app/track"
	TrackPrefix            = "/app/track/"
	AppTrackVehicles       = "/app/track/vehicles"
	AppTrackVehiclePattern = TrackPrefix + "vehicles/{vehicleID}"
	AppTrackSearch         = "/app/track/search"
	AppTrackGeocode        = "/app/track/geocode"
	AppTrackReverse        = "/app/track/reverse"
	AppTrackLive           = "/app/track/live"

	AppAssignments             = "/app/assignments"
	AssignmentsPrefix          = "/app/assignments/"
	AppAssignmentStatusPattern = AssignmentsPrefix + "{assignmentID}/status"
	AppAssignmentDeletePattern = AssignmentsPrefix + "{assignmentID}/delete"
	QueryKeyStatus             = "status"
	QueryKeySearch             = "q"

	AppService                    = "/app/service"
	ServicePrefix                 = "/app/service/"
	AppServiceRecordUpdatePattern = ServicePrefix + "{serviceID}/update"

	AppProfiles                    = "/app/profiles"
	ProfilesPrefix                 = "/app/profiles/"
	ProfilesQueryKeyTab            = "tab"
	AppProfilesCreate              = "/app/profiles/create"
	AppProfilesVehicleCreate       = "/app/profiles/vehicles/create"
	AppProfilesEntityUpdatePattern = ProfilesPrefix + "{kind}/{entityID}/update"
	AppProfilesEntityDeletePattern = ProfilesPrefix + "{kind}/{entityID}/delete"

	AppProfile             = "/app/profile"
	ProfilePrefix          = "/app/profile/"
	AppProfileOtherPattern = ProfilePrefix + "{userID}"
)

// LoginWithNext returns the login route that returns to next after success.
func LoginWithNext(next string) string {
	next = strings.TrimSpace(next)
	if next == "" || next == Root {
		return Login
	}
	return Login + "?" + LoginNextQueryKey + "=" + url.QueryEscape(next)
}

// AppTrackVehicle returns the single tracked vehicle JSON route.
func AppTrackVehicle(vehicleID string) string {
	return TrackPrefix + "vehicles/" + escapeSegment(vehicleID)
}

// AppAssignment returns the base route of one assignment.
func AppAssignment(assignmentID string) string {
	return AssignmentsPrefix + escapeSegment(assignmentID)
}

// AppAssignmentStatus returns the assignment status-update route.
func AppAssignmentStatus(assignmentID string) string {
	return AppAssignment(assignmentID) + "/status"
}

// AppAssignmentDelete returns the assignment delete route.
func AppAssignmentDelete(assignmentID string) string {
	return AppAssignment(assignmentID) + "/delete"
}

// AppServiceRecordUpdate returns the service record update route.
func AppServiceRecordUpdate(serviceID string) string {
	return ServicePrefix + escapeSegment(serviceID) + "/update"
}

// AppProfilesTab returns the profiles page opened on tab.
func AppProfilesTab(tab string) string {
	tab = strings.TrimSpace(tab)
	if tab == "" {
		return AppProfiles
	}
	return AppProfiles + "?" + ProfilesQueryKeyTab + "=" + url.QueryEscape(tab)
}

// AppProfilesEntityUpdate returns the update route for one profile entity.
func AppProfilesEntityUpdate(kind string, entityID string) string {
	return ProfilesPrefix + escapeSegment(kind) + "/" + escapeSegment(entityID) + "/update"
}

// AppProfilesEntityDelete returns the delete route for one profile entity.
func AppProfilesEntityDelete(kind string, entityID string) string {
	return ProfilesPrefix + escapeSegment(kind) + "/" + escapeSegment(entityID) + "/delete"
}

// AppProfileFor returns the driver profile route for another user, used by
// admins drilling down from the profiles page.
func AppProfileFor(userID string) string {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return AppProfile
	}
	return ProfilePrefix + escapeSegment(userID)
}

func escapeSegment(raw string) string {
	return url.PathEscape(strings.TrimSpace(raw))
}

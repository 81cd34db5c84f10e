// Package storage declares persistence interfaces for console-owned state.
//
// The console persists only its own session records and a geocoding cache.
// Fleet data (vehicles, drivers, assignments, services) is owned by the
// backend and is never stored here.
package storage

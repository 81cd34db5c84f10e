// Package timeouts defines shared timeout constants used across the console.
package timeouts

import "time"

// BackendRequest caps a single call from the console to the fleet backend.
const BackendRequest = 10 * time.Second

// Geocode caps a single geocoding lookup.
const Geocode = 5 * time.Second

// LoginAdvisory is how long the login form waits before telling the user the
// sign-in is taking a while.
const LoginAdvisory = 4 * time.Second

// ReadHeader limits how long an HTTP server waits for request headers.
const ReadHeader = 5 * time.Second

// Shutdown limits how long an HTTP server waits for in-flight requests
// during graceful shutdown.
const Shutdown = 5 * time.Second

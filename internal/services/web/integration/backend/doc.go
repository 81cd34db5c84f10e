// Package backend is the HTTP client of the fleet REST API.
//
// Every outgoing request reads its bearer token from a TokenSource at send
// time, so a session that logs out stops authenticating on the very next
// request. Responses are decoded through one adapter per resource
// (adapt_*.go) that accepts the alternate field names and envelope shapes the
// API uses and yields a canonical struct.
package backend

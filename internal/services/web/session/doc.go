// Package session owns the console's authenticated identities.
//
// Store is the only writer of backend bearer tokens. Every Login and Logout
// advances a generation counter; Verify captures the generation before it
// calls the backend and applies the answer only if the session still holds
// that generation, so a Logout always wins over a verify response that
// arrives later.
package session

// Package tokenstore persists the most recent Kite access token outside the
// HTTP session mechanism, so a single-operator deployment survives process
// restarts without re-login.
package tokenstore

import "errors"

// ErrNoToken is returned by Get when no access token has been stored.
var ErrNoToken = errors.New("no access token stored")

// Store is a single-slot durable store for the current access token. It is
// deliberately narrow so the flat-file implementations can be swapped for a
// proper single-writer store without touching call sites.
type Store interface {
	// Get returns the current access token, or ErrNoToken.
	Get() (string, error)
	// Set durably records token as the current access token.
	Set(token string) error
	// Clear removes the current access token.
	Clear() error
}

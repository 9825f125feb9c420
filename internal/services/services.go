package services

import (
	"context"
	"encoding/json"
	"errors"
	"net"
)

// TokenProvider obtains a bearer credential for the catalog API.
type TokenProvider interface {
	// AccessToken performs a single credential exchange and returns the token.
	AccessToken(ctx context.Context) (string, error)
}

// Catalog defines the upstream catalog operations used to build recommendations.
type Catalog interface {
	// SearchArtist returns candidate artists matching name, best match first.
	// Zero matches is an empty slice and a nil error.
	SearchArtist(ctx context.Context, token, name string) ([]Artist, error)

	// Recommendations returns tracks seeded by three artist IDs as opaque JSON values.
	// Zero tracks is an empty slice and a nil error.
	Recommendations(ctx context.Context, token string, seeds ArtistSeeds) ([]json.RawMessage, error)
}

// ArtistSeeds holds the three resolved artist IDs, in request order.
type ArtistSeeds [3]string

// Artist represents a Spotify artist search match.
type Artist struct {
	ID         string   `json:"id"`
	Name       string   `json:"name"`
	URI        string   `json:"uri"`
	Genres     []string `json:"genres"`
	Popularity int      `json:"popularity"`
}

// isTimeout reports whether err was caused by a deadline or a network timeout.
func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}

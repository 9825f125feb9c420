// package testing contains shared testing utilities
package testing

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"sync"

	"github.com/desertthunder/seedmix/internal/services"
)

// StubTokenProvider is a test double for [services.TokenProvider] that counts calls.
type StubTokenProvider struct {
	Token string
	Err   error

	mu    sync.Mutex
	calls int
}

func (s *StubTokenProvider) AccessToken(ctx context.Context) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	if s.Err != nil {
		return "", s.Err
	}
	return s.Token, nil
}

// Calls returns the number of AccessToken invocations.
func (s *StubTokenProvider) Calls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls
}

// SearchResult is the canned answer for one artist name.
type SearchResult struct {
	Artists []services.Artist
	Err     error
}

// StubCatalog is a test double for [services.Catalog] that records every call.
//
// Names missing from Searches return zero matches.
type StubCatalog struct {
	Searches  map[string]SearchResult
	Tracks    []json.RawMessage
	RecErr    error
	WantToken string

	mu           sync.Mutex
	searched     []string
	seeds        []services.ArtistSeeds
	tokenErrored bool
}

func (s *StubCatalog) SearchArtist(ctx context.Context, token, name string) ([]services.Artist, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.searched = append(s.searched, name)
	if s.WantToken != "" && token != s.WantToken {
		s.tokenErrored = true
		return nil, errors.New("unexpected token")
	}
	result := s.Searches[name]
	return result.Artists, result.Err
}

func (s *StubCatalog) Recommendations(ctx context.Context, token string, seeds services.ArtistSeeds) ([]json.RawMessage, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.seeds = append(s.seeds, seeds)
	if s.WantToken != "" && token != s.WantToken {
		s.tokenErrored = true
		return nil, errors.New("unexpected token")
	}
	return s.Tracks, s.RecErr
}

// Searched returns the artist names searched, in call order.
func (s *StubCatalog) Searched() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.searched...)
}

// Seeds returns the seeds of every Recommendations call.
func (s *StubCatalog) Seeds() []services.ArtistSeeds {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]services.ArtistSeeds(nil), s.seeds...)
}

// TokenMismatch reports whether any call carried a token other than WantToken.
func (s *StubCatalog) TokenMismatch() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.tokenErrored
}

// Artist builds a single-match search result.
func Artist(id, name string) SearchResult {
	return SearchResult{Artists: []services.Artist{{ID: id, Name: name}}}
}

// FWriter always returns an error on Write
type FWriter struct{}

func (f *FWriter) Write(p []byte) (n int, err error) {
	return 0, errors.New("write failed")
}

// LimitedWriter fails after a certain number of writes
type LimitedWriter struct {
	maxWrites int
	written   int
	target    io.Writer
}

func (l *LimitedWriter) Write(p []byte) (n int, err error) {
	if l.written >= l.maxWrites {
		return 0, errors.New("write limit exceeded")
	}
	l.written++
	return l.target.Write(p)
}

func NewLimitedWriter(maxWrites, written int, target io.Writer) LimitedWriter {
	return LimitedWriter{maxWrites: maxWrites, written: written, target: target}
}

// MockRoundTripper allows custom HTTP responses for testing
type MockRoundTripper struct {
	response *http.Response
	err      error
}

func NewMockRoundTripper(r *http.Response, e error) *MockRoundTripper {
	return &MockRoundTripper{response: r, err: e}
}

func (m *MockRoundTripper) RoundTrip(*http.Request) (*http.Response, error) {
	return m.response, m.err
}

// FCloser simulates a failure when reading response body
type FCloser struct{}

func (f *FCloser) Read(p []byte) (n int, err error) {
	return 0, errors.New("read failed")
}

func (f *FCloser) Close() error {
	return nil
}

// Spotify API implementation of [Catalog]
//
// Spotify API response types based on https://developer.spotify.com/documentation/web-api/reference/
package services

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/desertthunder/seedmix/internal/shared"
)

const spotifyBaseURL = "https://api.spotify.com/v1"

// maxErrorBody caps how much of an upstream error body is kept for logging.
const maxErrorBody = 512

type artistPage struct {
	Items []Artist `json:"items"`
	Total int      `json:"total"`
}

// SpotifySearchResponse is the subset of the search response used for artist lookups.
type SpotifySearchResponse struct {
	Artists artistPage `json:"artists"`
}

// SpotifyRecommendationsResponse keeps each track as raw JSON so it can be relayed unmodified.
type SpotifyRecommendationsResponse struct {
	Tracks []json.RawMessage `json:"tracks"`
	Seeds  []json.RawMessage `json:"seeds"`
}

// SpotifyCatalogOpts contains optional query settings for [SpotifyCatalog].
type SpotifyCatalogOpts struct {
	BaseURL             string
	HTTPClient          *http.Client
	SearchLimit         int
	RecommendationLimit int
	Market              string
}

// SpotifyCatalog implements [Catalog] against the Spotify Web API.
type SpotifyCatalog struct {
	baseURL             string
	httpClient          *http.Client
	searchLimit         int
	recommendationLimit int
	market              string
}

// NewSpotifyCatalog creates a catalog client, filling defaults for empty options.
func NewSpotifyCatalog(opts SpotifyCatalogOpts) *SpotifyCatalog {
	if opts.BaseURL == "" {
		opts.BaseURL = spotifyBaseURL
	}
	if opts.HTTPClient == nil {
		opts.HTTPClient = http.DefaultClient
	}
	if opts.SearchLimit <= 0 {
		opts.SearchLimit = 1
	}

	return &SpotifyCatalog{
		baseURL:             strings.TrimRight(opts.BaseURL, "/"),
		httpClient:          opts.HTTPClient,
		searchLimit:         opts.SearchLimit,
		recommendationLimit: opts.RecommendationLimit,
		market:              opts.Market,
	}
}

// doRequest performs an authenticated GET request to the Spotify API and decodes the JSON body into result.
func (s *SpotifyCatalog) doRequest(ctx context.Context, token, endpoint string, query url.Values, result any) error {
	apiURL := s.baseURL + endpoint
	if len(query) > 0 {
		apiURL += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, apiURL, nil)
	if err != nil {
		return fmt.Errorf("%w: failed to create request: %v", shared.ErrAPIRequest, err)
	}

	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Accept", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		if isTimeout(err) {
			return fmt.Errorf("%w: %w: %v", shared.ErrAPIRequest, shared.ErrTimeout, err)
		}
		return fmt.Errorf("%w: request failed: %v", shared.ErrAPIRequest, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return fmt.Errorf("%w: spotify API error: status %d, body: %s", shared.ErrAPIRequest, resp.StatusCode, strings.TrimSpace(string(body)))
	}

	if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
		return fmt.Errorf("%w: failed to decode response: %v", shared.ErrAPIRequest, err)
	}

	return nil
}

// SearchArtist searches the catalog for artists matching name.
func (s *SpotifyCatalog) SearchArtist(ctx context.Context, token, name string) ([]Artist, error) {
	query := url.Values{}
	query.Set("q", name)
	query.Set("type", "artist")
	query.Set("limit", strconv.Itoa(s.searchLimit))
	if s.market != "" {
		query.Set("market", s.market)
	}

	var response SpotifySearchResponse
	if err := s.doRequest(ctx, token, "/search", query, &response); err != nil {
		return nil, err
	}

	if response.Artists.Items == nil {
		return []Artist{}, nil
	}
	return response.Artists.Items, nil
}

// Recommendations fetches tracks seeded by the three artist IDs.
func (s *SpotifyCatalog) Recommendations(ctx context.Context, token string, seeds ArtistSeeds) ([]json.RawMessage, error) {
	for i, id := range seeds {
		if id == "" {
			return nil, fmt.Errorf("%w: seed artist %d is empty", shared.ErrMissingArgument, i+1)
		}
	}

	query := url.Values{}
	query.Set("seed_artists", strings.Join(seeds[:], ","))
	if s.recommendationLimit > 0 {
		query.Set("limit", strconv.Itoa(s.recommendationLimit))
	}
	if s.market != "" {
		query.Set("market", s.market)
	}

	var response SpotifyRecommendationsResponse
	if err := s.doRequest(ctx, token, "/recommendations", query, &response); err != nil {
		return nil, err
	}

	if response.Tracks == nil {
		return []json.RawMessage{}, nil
	}
	return response.Tracks, nil
}

package server

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/desertthunder/seedmix/internal/services"
	"github.com/desertthunder/seedmix/internal/shared"
	tu "github.com/desertthunder/seedmix/internal/testing"
	"github.com/desertthunder/seedmix/internal/web"
)

const validBody = `{"artist1":"Bowie","artist2":"Queen","artist3":"Prince"}`

func stubCatalog() *tu.StubCatalog {
	return &tu.StubCatalog{
		Searches: map[string]tu.SearchResult{
			"Bowie":  tu.Artist("id-bowie", "David Bowie"),
			"Queen":  tu.Artist("id-queen", "Queen"),
			"Prince": tu.Artist("id-prince", "Prince"),
		},
		Tracks: []json.RawMessage{
			json.RawMessage(`{"id":"t1","name":"Heroes","artists":[{"name":"David Bowie"}]}`),
			json.RawMessage(`{"id":"t2","name":"Kiss"}`),
		},
	}
}

func newTestRouter(tokens services.TokenProvider, catalog services.Catalog) http.Handler {
	logger := shared.NewLogger(io.Discard)
	recommender := services.NewRecommender(tokens, catalog, logger)
	return NewAppRouter(
		NewRecommendationHandler(recommender, logger),
		NewStaticHandler("", web.Assets()),
		logger,
	)
}

func post(t *testing.T, h http.Handler, body string) (*httptest.ResponseRecorder, ErrorResponse) {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(http.MethodPost, "/recommendations", reader)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	var errBody ErrorResponse
	if rec.Code != http.StatusOK {
		if err := json.Unmarshal(rec.Body.Bytes(), &errBody); err != nil {
			t.Fatalf("expected JSON error body, got %q", rec.Body.String())
		}
	}
	return rec, errBody
}

func TestRecommendationHandler(t *testing.T) {
	t.Run("Invalid Requests Make No Outbound Calls", func(t *testing.T) {
		tt := []struct {
			name    string
			body    string
			message string
		}{
			{name: "missing body", body: "", message: msgMissingBody},
			{name: "malformed json", body: `{"artist1":`, message: msgMissingBody},
			{name: "empty object", body: `{}`, message: msgMissingArtists},
			{name: "missing artist1", body: `{"artist2":"Queen","artist3":"Prince"}`, message: msgMissingArtists},
			{name: "missing artist2", body: `{"artist1":"Bowie","artist3":"Prince"}`, message: msgMissingArtists},
			{name: "missing artist3", body: `{"artist1":"Bowie","artist2":"Queen"}`, message: msgMissingArtists},
			{name: "blank artist", body: `{"artist1":"Bowie","artist2":" ","artist3":"Prince"}`, message: msgMissingArtists},
		}

		for _, tc := range tt {
			t.Run(tc.name, func(t *testing.T) {
				tokens := &tu.StubTokenProvider{Token: "tok"}
				catalog := stubCatalog()

				rec, body := post(t, newTestRouter(tokens, catalog), tc.body)

				if rec.Code != http.StatusBadRequest {
					t.Errorf("expected status 400, got %d", rec.Code)
				}
				if body.Message != tc.message {
					t.Errorf("expected message %q, got %q", tc.message, body.Message)
				}
				if tokens.Calls() != 0 || len(catalog.Searched()) != 0 || len(catalog.Seeds()) != 0 {
					t.Error("expected no outbound calls")
				}
			})
		}
	})

	t.Run("Token Failure", func(t *testing.T) {
		tokens := &tu.StubTokenProvider{Err: errors.New("secret upstream detail")}
		catalog := stubCatalog()

		rec, body := post(t, newTestRouter(tokens, catalog), validBody)

		if rec.Code != http.StatusInternalServerError {
			t.Errorf("expected status 500, got %d", rec.Code)
		}
		if body.Message != msgTokenFailed {
			t.Errorf("expected message %q, got %q", msgTokenFailed, body.Message)
		}
		if strings.Contains(rec.Body.String(), "secret upstream detail") {
			t.Error("upstream detail leaked to client")
		}
		if len(catalog.Searched()) != 0 || len(catalog.Seeds()) != 0 {
			t.Error("expected no catalog calls")
		}
	})

	t.Run("Artist Not Found", func(t *testing.T) {
		names := []string{"Bowie", "Queen", "Prince"}

		for k, name := range names {
			t.Run(name, func(t *testing.T) {
				catalog := stubCatalog()
				delete(catalog.Searches, name)

				rec, body := post(t, newTestRouter(&tu.StubTokenProvider{Token: "tok"}, catalog), validBody)

				if rec.Code != http.StatusNotFound {
					t.Errorf("expected status 404, got %d", rec.Code)
				}
				if body.Message != name+" not found." {
					t.Errorf("expected message naming %s, got %q", name, body.Message)
				}
				if got := catalog.Searched(); len(got) != k+1 {
					t.Errorf("expected %d searches, got %v", k+1, got)
				}
				if len(catalog.Seeds()) != 0 {
					t.Error("expected no recommendation call")
				}
			})
		}
	})

	t.Run("Search Transport Failure", func(t *testing.T) {
		catalog := stubCatalog()
		catalog.Searches["Bowie"] = tu.SearchResult{Err: errors.New("dial tcp: refused")}

		rec, body := post(t, newTestRouter(&tu.StubTokenProvider{Token: "tok"}, catalog), validBody)

		if rec.Code != http.StatusInternalServerError {
			t.Errorf("expected status 500, got %d", rec.Code)
		}
		if body.Message != msgSearchFailed {
			t.Errorf("expected message %q, got %q", msgSearchFailed, body.Message)
		}
		if got := catalog.Searched(); len(got) != 1 {
			t.Errorf("expected a single search, got %v", got)
		}
	})

	t.Run("Recommendation Transport Failure", func(t *testing.T) {
		catalog := stubCatalog()
		catalog.RecErr = errors.New("status 502")

		rec, body := post(t, newTestRouter(&tu.StubTokenProvider{Token: "tok"}, catalog), validBody)

		if rec.Code != http.StatusInternalServerError {
			t.Errorf("expected status 500, got %d", rec.Code)
		}
		if body.Message != msgRecommendFailed {
			t.Errorf("expected message %q, got %q", msgRecommendFailed, body.Message)
		}
	})

	t.Run("No Recommendations", func(t *testing.T) {
		catalog := stubCatalog()
		catalog.Tracks = nil

		rec, body := post(t, newTestRouter(&tu.StubTokenProvider{Token: "tok"}, catalog), validBody)

		if rec.Code != http.StatusNotFound {
			t.Errorf("expected status 404, got %d", rec.Code)
		}
		if body.Message != msgNoRecommendations {
			t.Errorf("expected message %q, got %q", msgNoRecommendations, body.Message)
		}
	})

	t.Run("Success", func(t *testing.T) {
		catalog := stubCatalog()

		rec, _ := post(t, newTestRouter(&tu.StubTokenProvider{Token: "tok"}, catalog), validBody)

		if rec.Code != http.StatusOK {
			t.Fatalf("expected status 200, got %d: %s", rec.Code, rec.Body.String())
		}
		if ct := rec.Header().Get("Content-Type"); !strings.HasPrefix(ct, "application/json") {
			t.Errorf("expected JSON content type, got %q", ct)
		}

		var resp RecommendationResponse
		if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
			t.Fatalf("failed to decode response: %v", err)
		}
		if len(resp.Tracks) != 2 {
			t.Fatalf("expected 2 tracks, got %d", len(resp.Tracks))
		}
		if string(resp.Tracks[1]) != `{"id":"t2","name":"Kiss"}` {
			t.Errorf("expected track relayed unmodified, got %s", resp.Tracks[1])
		}
	})

	t.Run("Wrong Method", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/recommendations", nil)
		rec := httptest.NewRecorder()
		newTestRouter(&tu.StubTokenProvider{}, stubCatalog()).ServeHTTP(rec, req)

		if rec.Code != http.StatusMethodNotAllowed {
			t.Errorf("expected status 405, got %d", rec.Code)
		}
		if rec.Header().Get("Allow") != http.MethodPost {
			t.Errorf("expected Allow: POST, got %q", rec.Header().Get("Allow"))
		}
	})
}

func TestFailureResponse(t *testing.T) {
	tt := []struct {
		name    string
		err     error
		status  int
		message string
	}{
		{
			name:    "unknown error",
			err:     errors.New("boom"),
			status:  http.StatusInternalServerError,
			message: msgInternal,
		},
		{
			name:    "validation",
			err:     &services.StageError{Stage: services.StageValidating, Err: shared.ErrMissingArgument},
			status:  http.StatusBadRequest,
			message: msgMissingArtists,
		},
		{
			name:    "token",
			err:     &services.StageError{Stage: services.StageFetchingToken, Err: shared.ErrAuthFailed},
			status:  http.StatusInternalServerError,
			message: msgTokenFailed,
		},
		{
			name: "artist not found",
			err: &services.StageError{
				Stage: services.StageResolvingArtist, Position: 2, Artist: "Queen",
				Err: &services.ArtistNotFoundError{Position: 2, Name: "Queen"},
			},
			status:  http.StatusNotFound,
			message: "Queen not found.",
		},
		{
			name:    "search failure",
			err:     &services.StageError{Stage: services.StageResolvingArtist, Position: 1, Err: shared.ErrAPIRequest},
			status:  http.StatusInternalServerError,
			message: msgSearchFailed,
		},
		{
			name:    "no recommendations",
			err:     &services.StageError{Stage: services.StageFetchingRecommendations, Err: shared.ErrNoRecommendations},
			status:  http.StatusNotFound,
			message: msgNoRecommendations,
		},
		{
			name:    "recommendation failure",
			err:     &services.StageError{Stage: services.StageFetchingRecommendations, Err: shared.ErrAPIRequest},
			status:  http.StatusInternalServerError,
			message: msgRecommendFailed,
		},
	}

	for _, tc := range tt {
		t.Run(tc.name, func(t *testing.T) {
			status, message := failureResponse(tc.err)
			if status != tc.status || message != tc.message {
				t.Errorf("failureResponse() = %d %q, want %d %q", status, message, tc.status, tc.message)
			}
		})
	}
}

// upstream fakes the accounts and Web API hosts behind one httptest server.
type upstream struct {
	mu          sync.Mutex
	tokenCalls  int
	searchCalls []string
	recCalls    int
	tracks      string
}

func (u *upstream) handler(t *testing.T) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/token", func(w http.ResponseWriter, r *http.Request) {
		u.mu.Lock()
		u.tokenCalls++
		u.mu.Unlock()
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"access_token":"live-token","token_type":"Bearer","expires_in":3600}`))
	})
	mux.HandleFunc("/v1/search", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer live-token" {
			t.Errorf("search without bearer token: %q", r.Header.Get("Authorization"))
		}
		name := r.URL.Query().Get("q")
		u.mu.Lock()
		u.searchCalls = append(u.searchCalls, name)
		u.mu.Unlock()
		w.Write([]byte(`{"artists":{"items":[{"id":"id-` + strings.ToLower(name) + `","name":"` + name + `"}]}}`))
	})
	mux.HandleFunc("/v1/recommendations", func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("seed_artists"); got != "id-bowie,id-queen,id-prince" {
			t.Errorf("unexpected seeds %q", got)
		}
		u.mu.Lock()
		u.recCalls++
		u.mu.Unlock()
		w.Write([]byte(`{"tracks":` + u.tracks + `,"seeds":[]}`))
	})
	return mux
}

func TestRecommendationsEndToEnd(t *testing.T) {
	up := &upstream{tracks: `[{"id":"t1","name":"Under Pressure","artists":[{"id":"id-queen","name":"Queen"}],"popularity":80}]`}
	server := httptest.NewServer(up.handler(t))
	defer server.Close()

	tokens := services.NewClientCredentialsProvider("id", "secret", server.URL+"/api/token", server.Client())
	catalog := services.NewSpotifyCatalog(services.SpotifyCatalogOpts{BaseURL: server.URL + "/v1", HTTPClient: server.Client()})
	router := newTestRouter(tokens, catalog)

	t.Run("Relays Upstream Tracks", func(t *testing.T) {
		rec, _ := post(t, router, validBody)
		if rec.Code != http.StatusOK {
			t.Fatalf("expected status 200, got %d: %s", rec.Code, rec.Body.String())
		}

		var got, want struct {
			Tracks []map[string]any `json:"tracks"`
		}
		if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
			t.Fatalf("failed to decode response: %v", err)
		}
		if err := json.Unmarshal([]byte(`{"tracks":`+up.tracks+`}`), &want); err != nil {
			t.Fatalf("failed to decode fixture: %v", err)
		}

		gotJSON, _ := json.Marshal(got)
		wantJSON, _ := json.Marshal(want)
		if !bytes.Equal(gotJSON, wantJSON) {
			t.Errorf("expected tracks %s, got %s", wantJSON, gotJSON)
		}
	})

	t.Run("Empty Body Makes No Upstream Call", func(t *testing.T) {
		up.mu.Lock()
		before := up.tokenCalls + len(up.searchCalls) + up.recCalls
		up.mu.Unlock()

		rec, _ := post(t, router, `{}`)
		if rec.Code != http.StatusBadRequest {
			t.Errorf("expected status 400, got %d", rec.Code)
		}

		up.mu.Lock()
		after := up.tokenCalls + len(up.searchCalls) + up.recCalls
		up.mu.Unlock()
		if after != before {
			t.Errorf("expected no upstream calls, got %d", after-before)
		}
	})

	t.Run("Repeated Requests Fetch Fresh Tokens", func(t *testing.T) {
		up.mu.Lock()
		before := up.tokenCalls
		up.mu.Unlock()

		for i := 0; i < 2; i++ {
			if rec, _ := post(t, router, validBody); rec.Code != http.StatusOK {
				t.Fatalf("request %d: expected status 200, got %d", i+1, rec.Code)
			}
		}

		up.mu.Lock()
		defer up.mu.Unlock()
		if up.tokenCalls-before != 2 {
			t.Errorf("expected 2 token fetches, got %d", up.tokenCalls-before)
		}
	})
}

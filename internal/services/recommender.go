package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/seedmix/internal/shared"
)

// Stage identifies a step of the recommendation pipeline.
type Stage int

const (
	StageValidating Stage = iota
	StageFetchingToken
	StageResolvingArtist
	StageFetchingRecommendations
)

func (s Stage) String() string {
	switch s {
	case StageValidating:
		return "validating"
	case StageFetchingToken:
		return "fetching token"
	case StageResolvingArtist:
		return "resolving artist"
	case StageFetchingRecommendations:
		return "fetching recommendations"
	default:
		return "unknown"
	}
}

// StageError is the failure outcome of a pipeline stage.
//
// Position and Artist are set for [StageResolvingArtist] only; Position is 1-based.
type StageError struct {
	Stage    Stage
	Position int
	Artist   string
	Err      error
}

func (e *StageError) Error() string {
	if e.Stage == StageResolvingArtist {
		return fmt.Sprintf("%s %d (%q): %v", e.Stage, e.Position, e.Artist, e.Err)
	}
	return fmt.Sprintf("%s: %v", e.Stage, e.Err)
}

func (e *StageError) Unwrap() error {
	return e.Err
}

// ArtistNotFoundError reports a search that succeeded with zero matches.
type ArtistNotFoundError struct {
	Position int
	Name     string
}

func (e *ArtistNotFoundError) Error() string {
	return fmt.Sprintf("artist %d %q not found", e.Position, e.Name)
}

func (e *ArtistNotFoundError) Unwrap() error {
	return shared.ErrArtistNotFound
}

// RecommendationRequest names the three seed artists.
type RecommendationRequest struct {
	Artist1 string `json:"artist1"`
	Artist2 string `json:"artist2"`
	Artist3 string `json:"artist3"`
}

// Artists returns the artist names in request order.
func (r RecommendationRequest) Artists() [3]string {
	return [3]string{r.Artist1, r.Artist2, r.Artist3}
}

// Validate requires all three artist names to be non-blank.
func (r RecommendationRequest) Validate() error {
	var missing []string
	for i, name := range r.Artists() {
		if strings.TrimSpace(name) == "" {
			missing = append(missing, fmt.Sprintf("artist%d", i+1))
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: %s", shared.ErrMissingArgument, strings.Join(missing, ", "))
	}
	return nil
}

// Recommender resolves three artists and fetches recommendations seeded by them.
//
// It holds no per-request state and is safe for concurrent use when its
// [TokenProvider] and [Catalog] are.
type Recommender struct {
	tokens  TokenProvider
	catalog Catalog
	logger  *log.Logger
}

// NewRecommender creates a [Recommender]. A nil logger defaults to [shared.NewLogger].
func NewRecommender(tokens TokenProvider, catalog Catalog, logger *log.Logger) *Recommender {
	if logger == nil {
		logger = shared.NewLogger(nil)
	}
	return &Recommender{tokens: tokens, catalog: catalog, logger: logger}
}

// Recommend runs the pipeline for req and returns the upstream tracks unmodified.
//
// Every failure is a [*StageError]; the first failing stage ends the run.
func (r *Recommender) Recommend(ctx context.Context, req RecommendationRequest) ([]json.RawMessage, error) {
	started := time.Now()

	if err := req.Validate(); err != nil {
		return nil, &StageError{Stage: StageValidating, Err: err}
	}

	token, err := r.fetchToken(ctx)
	if err != nil {
		return nil, err
	}

	var seeds ArtistSeeds
	for i, name := range req.Artists() {
		id, err := r.resolveArtist(ctx, token, i+1, strings.TrimSpace(name))
		if err != nil {
			return nil, err
		}
		seeds[i] = id
	}

	tracks, err := r.fetchRecommendations(ctx, token, seeds)
	if err != nil {
		return nil, err
	}

	r.logger.Debug("recommendations ready", "tracks", len(tracks), "elapsed", time.Since(started))
	return tracks, nil
}

func (r *Recommender) fetchToken(ctx context.Context) (string, error) {
	token, err := r.tokens.AccessToken(ctx)
	if err != nil {
		if !errors.Is(err, shared.ErrAuthFailed) {
			err = fmt.Errorf("%w: %v", shared.ErrAuthFailed, err)
		}
		return "", &StageError{Stage: StageFetchingToken, Err: err}
	}
	return token, nil
}

// resolveArtist returns the ID of the first match for name.
func (r *Recommender) resolveArtist(ctx context.Context, token string, position int, name string) (string, error) {
	matches, err := r.catalog.SearchArtist(ctx, token, name)
	if err != nil {
		return "", &StageError{Stage: StageResolvingArtist, Position: position, Artist: name, Err: err}
	}

	if len(matches) == 0 || matches[0].ID == "" {
		return "", &StageError{
			Stage:    StageResolvingArtist,
			Position: position,
			Artist:   name,
			Err:      &ArtistNotFoundError{Position: position, Name: name},
		}
	}

	r.logger.Debug("artist resolved", "position", position, "name", name, "id", matches[0].ID)
	return matches[0].ID, nil
}

func (r *Recommender) fetchRecommendations(ctx context.Context, token string, seeds ArtistSeeds) ([]json.RawMessage, error) {
	tracks, err := r.catalog.Recommendations(ctx, token, seeds)
	if err != nil {
		return nil, &StageError{Stage: StageFetchingRecommendations, Err: err}
	}

	if len(tracks) == 0 {
		return nil, &StageError{Stage: StageFetchingRecommendations, Err: shared.ErrNoRecommendations}
	}

	return tracks, nil
}

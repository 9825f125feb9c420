package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/seedmix/internal/services"
	"github.com/desertthunder/seedmix/internal/shared"
)

// maxBodyBytes bounds the decoded request body.
const maxBodyBytes = 1 << 20

// Client-facing messages. Upstream detail never appears in these.
const (
	msgMissingBody       = "Bad Request - must send a JSON body with three artists"
	msgMissingArtists    = "Bad Request - must pass 3 artists"
	msgTokenFailed       = "Something went wrong when fetching access token"
	msgSearchFailed      = "Error when searching tracks"
	msgRecommendFailed   = "Something went wrong when fetching recommendations"
	msgNoRecommendations = "No recommendations found."
	msgInternal          = "Internal Server Error"
)

// Recommender runs the recommendation pipeline for one request.
type Recommender interface {
	Recommend(ctx context.Context, req services.RecommendationRequest) ([]json.RawMessage, error)
}

// RecommendationResponse is the success body of POST /recommendations.
type RecommendationResponse struct {
	Tracks []json.RawMessage `json:"tracks"`
}

// RecommendationHandler serves POST /recommendations.
type RecommendationHandler struct {
	recommender Recommender
	logger      *log.Logger
}

// NewRecommendationHandler creates a handler backed by recommender.
func NewRecommendationHandler(recommender Recommender, logger *log.Logger) *RecommendationHandler {
	if logger == nil {
		logger = shared.NewLogger(nil)
	}
	return &RecommendationHandler{recommender: recommender, logger: logger}
}

// Routes returns the HTTP routes this handler serves.
func (h *RecommendationHandler) Routes() []string {
	return []string{"/recommendations"}
}

// ServeHTTP decodes the request, runs the pipeline, and writes exactly one response.
func (h *RecommendationHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	logger := shared.WithLogger(h.logger, "request_id", RequestIDFrom(r.Context()))

	req, err := decodeRecommendationRequest(r)
	if err != nil {
		logger.Warn("rejected request body", "error", err)
		writeError(w, http.StatusBadRequest, msgMissingBody)
		return
	}

	tracks, err := h.recommender.Recommend(r.Context(), req)
	if err != nil {
		status, message := failureResponse(err)
		if status >= http.StatusInternalServerError {
			logger.Error("recommendation failed", "status", status, "error", err)
		} else {
			logger.Warn("recommendation failed", "status", status, "error", err)
		}
		writeError(w, status, message)
		return
	}

	writeJSON(w, http.StatusOK, RecommendationResponse{Tracks: tracks})
}

func decodeRecommendationRequest(r *http.Request) (services.RecommendationRequest, error) {
	var req services.RecommendationRequest

	if r.Body == nil || r.Body == http.NoBody {
		return req, fmt.Errorf("%w: missing body", shared.ErrInvalidInput)
	}

	if err := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes)).Decode(&req); err != nil {
		if errors.Is(err, io.EOF) {
			return req, fmt.Errorf("%w: missing body", shared.ErrInvalidInput)
		}
		return req, fmt.Errorf("%w: %v", shared.ErrInvalidInput, err)
	}

	return req, nil
}

// failureResponse maps a pipeline failure to its status code and client message.
func failureResponse(err error) (int, string) {
	var notFound *services.ArtistNotFoundError
	if errors.As(err, &notFound) {
		return http.StatusNotFound, fmt.Sprintf("%s not found.", notFound.Name)
	}

	var stageErr *services.StageError
	if !errors.As(err, &stageErr) {
		return http.StatusInternalServerError, msgInternal
	}

	switch stageErr.Stage {
	case services.StageValidating:
		return http.StatusBadRequest, msgMissingArtists
	case services.StageFetchingToken:
		return http.StatusInternalServerError, msgTokenFailed
	case services.StageResolvingArtist:
		return http.StatusInternalServerError, msgSearchFailed
	case services.StageFetchingRecommendations:
		if errors.Is(err, shared.ErrNoRecommendations) {
			return http.StatusNotFound, msgNoRecommendations
		}
		return http.StatusInternalServerError, msgRecommendFailed
	default:
		return http.StatusInternalServerError, msgInternal
	}
}

package main

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/desertthunder/seedmix/internal/formatter"
	"github.com/desertthunder/seedmix/internal/models"
	"github.com/desertthunder/seedmix/internal/services"
	"github.com/desertthunder/seedmix/internal/shared"
	"github.com/urfave/cli/v3"
)

// Recommend runs the recommendation pipeline once and prints the tracks.
//
// JSON output is {"tracks": [...]} with the upstream track objects unmodified.
func (r *Runner) Recommend(ctx context.Context, cmd *cli.Command) error {
	format, err := formatter.ParseFormat(cmd.String("format"))
	if err != nil {
		return err
	}

	if err := r.loadConfig(cmd); err != nil {
		return err
	}

	req := services.RecommendationRequest{
		Artist1: cmd.StringArg("artist1"),
		Artist2: cmd.StringArg("artist2"),
		Artist3: cmd.StringArg("artist3"),
	}
	return r.recommend(ctx, req, format, cmd.Bool("pretty"))
}

func (r *Runner) recommend(ctx context.Context, req services.RecommendationRequest, format formatter.Format, pretty bool) error {
	if err := req.Validate(); err != nil {
		return fmt.Errorf("%w: recommend needs three artists", err)
	}
	if r.tokens == nil && r.config.MissingCredentials() {
		return fmt.Errorf("%w: set SPOTIFY_CLIENT_ID and SPOTIFY_CLIENT_SECRET", shared.ErrMissingCredentials)
	}

	r.logger.Info("fetching recommendations", "artists", req.Artists())

	tracks, err := r.recommender().Recommend(ctx, req)
	if err != nil {
		return err
	}

	if format == formatter.FormatJSON {
		return r.writeJSON(struct {
			Tracks []json.RawMessage `json:"tracks"`
		}{Tracks: tracks}, pretty)
	}

	summaries, err := formatter.Summarize(tracks)
	if err != nil {
		return err
	}

	data, err := formatter.Render(format, &models.Recommendations{Seeds: req.Artists(), Tracks: summaries})
	if err != nil {
		return err
	}

	return r.writePlain("%s", data)
}

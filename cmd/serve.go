package main

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/desertthunder/seedmix/internal/server"
	"github.com/desertthunder/seedmix/internal/web"
	"github.com/urfave/cli/v3"
)

// Serve loads the config and runs the relay until SIGINT or SIGTERM.
func (r *Runner) Serve(ctx context.Context, cmd *cli.Command) error {
	if err := r.loadConfig(cmd); err != nil {
		return err
	}
	if cmd.IsSet("port") {
		r.config.Server.Port = int(cmd.Int("port"))
	}
	if cmd.IsSet("static") {
		r.config.Server.StaticDir = cmd.String("static")
	}
	if err := r.config.Validate(); err != nil {
		return err
	}

	if r.config.MissingCredentials() {
		r.logger.Warn("spotify client id or secret is not set; token requests will fail",
			"env", "SPOTIFY_CLIENT_ID, SPOTIFY_CLIENT_SECRET")
	}

	srv := r.newServer()

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := srv.Run(ctx); err != nil {
		return fmt.Errorf("failed to serve: %w", err)
	}
	return nil
}

// newServer builds the HTTP server for the runner's current config.
func (r *Runner) newServer() *server.Server {
	router := server.NewAppRouter(
		server.NewRecommendationHandler(r.recommender(), r.logger),
		server.NewStaticHandler(r.config.Server.StaticDir, web.Assets()),
		r.logger,
	)

	return server.NewServer(server.ServerOpts{
		Addr:         r.config.Server.Addr(),
		Handler:      router,
		ReadTimeout:  r.config.Server.ReadTimeoutDuration(),
		WriteTimeout: r.config.Server.WriteTimeoutDuration(),
		Logger:       r.logger,
	})
}

package main

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/seedmix/internal/services"
	"github.com/desertthunder/seedmix/internal/shared"
	"github.com/urfave/cli/v3"
)

// Runner holds all dependencies for CLI commands and provides methods for each command action.
type Runner struct {
	config     *shared.Config
	tokens     services.TokenProvider
	catalog    services.Catalog
	httpClient *http.Client
	logger     *log.Logger
	output     io.Writer
}

// RunnerOpts contains configuration options for creating a Runner.
//
// Tokens, Catalog and HTTPClient are built from the loaded config when nil.
type RunnerOpts struct {
	Config     *shared.Config
	Tokens     services.TokenProvider
	Catalog    services.Catalog
	HTTPClient *http.Client
	Logger     *log.Logger
	Output     io.Writer
}

// NewRunner creates a new Runner with the provided configuration
func NewRunner(opts RunnerOpts) *Runner {
	if opts.Config == nil {
		opts.Config = shared.DefaultConfig()
	}
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}
	if opts.Output == nil {
		opts.Output = os.Stdout
	}

	return &Runner{
		config:     opts.Config,
		tokens:     opts.Tokens,
		catalog:    opts.Catalog,
		httpClient: opts.HTTPClient,
		logger:     opts.Logger,
		output:     opts.Output,
	}
}

func (r *Runner) register() []*cli.Command {
	commands := []*cli.Command{}
	for _, fn := range [](func(*Runner) *cli.Command){
		serveCommand, recommendCommand, configCommand,
	} {
		commands = append(commands, fn(r))
	}

	return commands
}

// loadConfig replaces the runner's config with the layered startup config and
// applies its log level.
func (r *Runner) loadConfig(cmd *cli.Command) error {
	config, err := shared.Load(cmd.String("config"), cmd.String("env-file"))
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	level, err := shared.ParseLogLevel(config.Log.Level)
	if err != nil {
		return err
	}
	shared.SetLogLevel(r.logger, level)

	r.config = config
	return nil
}

func (r *Runner) client() *http.Client {
	if r.httpClient != nil {
		return r.httpClient
	}
	return &http.Client{Timeout: r.config.Server.UpstreamTimeoutDuration()}
}

// recommender assembles the pipeline from injected services, building the
// Spotify-backed ones from config where none were given.
func (r *Runner) recommender() *services.Recommender {
	client := r.client()
	spotify := r.config.Credentials.Spotify

	tokens := r.tokens
	if tokens == nil {
		tokens = services.NewClientCredentialsProvider(spotify.ClientID, spotify.ClientSecret, spotify.TokenURL, client)
	}

	catalog := r.catalog
	if catalog == nil {
		catalog = services.NewSpotifyCatalog(services.SpotifyCatalogOpts{
			BaseURL:             spotify.APIURL,
			HTTPClient:          client,
			SearchLimit:         r.config.Catalog.SearchLimit,
			RecommendationLimit: r.config.Catalog.RecommendationLimit,
			Market:              r.config.Catalog.Market,
		})
	}

	return services.NewRecommender(tokens, catalog, r.logger)
}

func (r *Runner) writeJSON(data any, pretty bool) error {
	var output []byte
	var err error

	if pretty {
		output, err = json.MarshalIndent(data, "", "  ")
	} else {
		output, err = json.Marshal(data)
	}

	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}

	if _, err := r.output.Write(output); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}

	if _, err := r.output.Write([]byte("\n")); err != nil {
		return fmt.Errorf("failed to write newline: %w", err)
	}

	return nil
}

func (r *Runner) writePlain(format string, args ...any) error {
	text := fmt.Sprintf(format, args...)
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

package cli

import (
	"context"
	"io"
	"log/slog"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/amal-assist/amal/pkg/adapter"
	"github.com/amal-assist/amal/pkg/eventbus"
	"github.com/amal-assist/amal/pkg/knowledge"
	"github.com/amal-assist/amal/pkg/utils/logging"
)

// config holds configuration values
type config struct {
	// Logging
	logLevel string
	logFile  string

	// Generation backend
	genEndpoint string
	genAPIKey   string
	genModel    string

	// Detection backend
	detEndpoint string

	// Knowledge sources and artifact storage
	sourcesPath string
	storageDir  string
}

// globalFlags returns common flags used across commands with destination config
func globalFlags(cfg *config) []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "log-level",
			Usage:       "Log level (debug, info, warn, error)",
			Value:       "info",
			Sources:     cli.EnvVars("AMAL_LOG_LEVEL"),
			Destination: &cfg.logLevel,
		},
		&cli.StringFlag{
			Name:        "log-file",
			Usage:       "Mirror logs to this file",
			Sources:     cli.EnvVars("AMAL_LOG_FILE"),
			Destination: &cfg.logFile,
		},
		&cli.StringFlag{
			Name:        "sources",
			Aliases:     []string{"s"},
			Usage:       "Path to YAML file listing knowledge sources",
			Value:       "sources.yml",
			Sources:     cli.EnvVars("AMAL_SOURCES"),
			Destination: &cfg.sourcesPath,
		},
		&cli.StringFlag{
			Name:        "storage-dir",
			Usage:       "Directory for saved session artifacts",
			Value:       ".amal",
			Sources:     cli.EnvVars("AMAL_STORAGE_DIR"),
			Destination: &cfg.storageDir,
		},
	}
}

// backendFlags returns flags for the generation and detection backends
func backendFlags(cfg *config) []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "generator-endpoint",
			Usage:       "OpenAI-compatible completion endpoint (e.g. llama-server)",
			Sources:     cli.EnvVars("AMAL_GENERATOR_ENDPOINT"),
			Destination: &cfg.genEndpoint,
		},
		&cli.StringFlag{
			Name:        "generator-api-key",
			Usage:       "API key for the generation backend (optional for local servers)",
			Sources:     cli.EnvVars("AMAL_GENERATOR_API_KEY"),
			Destination: &cfg.genAPIKey,
		},
		&cli.StringFlag{
			Name:        "generator-model",
			Usage:       "Model name requested from the generation backend",
			Value:       "llama-3.2-3b-instruct",
			Sources:     cli.EnvVars("AMAL_GENERATOR_MODEL"),
			Destination: &cfg.genModel,
		},
		&cli.StringFlag{
			Name:        "detector-endpoint",
			Usage:       "Tumor detection inference endpoint",
			Sources:     cli.EnvVars("AMAL_DETECTOR_ENDPOINT"),
			Destination: &cfg.detEndpoint,
		},
	}
}

// setupLogger builds the logger from flags and attaches it to the
// context. The closer is non-nil when a log file mirror is open.
func (cfg *config) setupLogger(ctx context.Context) (context.Context, io.Closer, error) {
	var (
		logger *slog.Logger
		closer io.Closer
		err    error
	)

	if cfg.logFile != "" {
		logger, closer, err = logging.NewWithMirror(cfg.logLevel, os.Stderr, cfg.logFile)
		if err != nil {
			return ctx, nil, err
		}
	} else {
		logger = logging.New(cfg.logLevel, os.Stderr)
	}

	logging.SetDefault(logger)
	return logging.With(ctx, logger), closer, nil
}

// newGenerator creates the generation backend client, or nil when no
// endpoint is configured. A missing backend degrades to canned
// responses instead of failing.
func (cfg *config) newGenerator(ctx context.Context) adapter.Generator {
	if cfg.genEndpoint == "" {
		logging.From(ctx).Warn("no generation backend configured, canned responses only")
		return nil
	}
	return adapter.NewGenerator(cfg.genEndpoint, cfg.genAPIKey, adapter.WithModel(cfg.genModel))
}

// newDetector creates the detection backend client, or nil when no
// endpoint is configured.
func (cfg *config) newDetector(ctx context.Context) adapter.Detector {
	if cfg.detEndpoint == "" {
		logging.From(ctx).Warn("no detection backend configured, image analysis disabled")
		return nil
	}
	return adapter.NewDetector(cfg.detEndpoint)
}

// newStorage creates the local artifact storage
func (cfg *config) newStorage() (adapter.Storage, error) {
	return adapter.NewStorage(cfg.storageDir)
}

// buildKnowledge assembles the knowledge base from the configured
// sources. A missing or empty sources file yields an empty base; the
// assistant still answers from canned and generated text.
func (cfg *config) buildKnowledge(ctx context.Context, bus *eventbus.Bus) string {
	src, err := knowledge.LoadSources(cfg.sourcesPath)
	if err != nil {
		logging.From(ctx).Warn("knowledge sources unavailable", "path", cfg.sourcesPath, "error", err)
		return ""
	}

	return knowledge.NewLoader(bus).Build(ctx, src)
}

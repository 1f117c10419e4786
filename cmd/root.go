package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/dotcommander/innerscope/internal/cache"
	"github.com/dotcommander/innerscope/internal/config"
	"github.com/dotcommander/innerscope/internal/logging"
	"github.com/dotcommander/innerscope/internal/metrics"
	"github.com/dotcommander/innerscope/internal/project"
	"github.com/dotcommander/innerscope/internal/scoring"
	"github.com/dotcommander/innerscope/internal/service"
	"github.com/dotcommander/innerscope/internal/source"
)

// Version is set at build time.
var Version = "dev"

var (
	cfgFile      string
	quiet        bool
	verbose      bool
	outputFormat string
	outputFile   string
)

// exitFunc is swapped in tests.
var exitFunc = os.Exit

var rootCmd = &cobra.Command{
	Use:   "innerscope",
	Short: "Innerscope - psychological intelligence reports from journaling profiles",
	Long: `Innerscope turns a user's stories, conversation history and assessment results
into an intelligence report: an archetype, eight dimension scores, behaviour
patterns, recommendations and predictions.

Reports are deterministic. The same profile always yields the same report and
report ID, so reports can be cached, compared against baselines and diffed.`,
	SilenceUsage: true,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		exitFunc(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "Config file (default: first .innerscoperc.{json,yaml,yml} found)")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "Suppress non-essential output")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")
	rootCmd.PersistentFlags().StringVarP(&outputFormat, "format", "f", "console", "Output format for reports (console|compact|json|markdown)")
	rootCmd.PersistentFlags().StringVarP(&outputFile, "output", "o", "", "Output file for reports (json and markdown)")

	viper.BindPFlag("quiet", rootCmd.PersistentFlags().Lookup("quiet"))
	viper.BindPFlag("verbose", rootCmd.PersistentFlags().Lookup("verbose"))
	viper.BindPFlag("format", rootCmd.PersistentFlags().Lookup("format"))
	viper.BindPFlag("output", rootCmd.PersistentFlags().Lookup("output"))
}

// loadConfig reads --config, or else the config file of the nearest
// enclosing workspace.
func loadConfig() (*config.Config, error) {
	path := cfgFile
	if path == "" {
		if info, err := project.Detect(".", config.ConfigFiles); err == nil {
			path = info.ConfigFile
		}
	}
	cfg, err := config.LoadConfig(path)
	if err != nil {
		return nil, fmt.Errorf("error loading configuration: %w", err)
	}
	return cfg, nil
}

// newLogger returns the configured logger for long-running commands, a
// debug logger with --verbose, and a no-op logger otherwise.
func newLogger(cfg *config.Config, longRunning bool) (*zap.Logger, error) {
	switch {
	case cfg.Verbose:
		return logging.New("debug", cfg.Log.JSON)
	case longRunning:
		return logging.New(cfg.Log.Level, cfg.Log.JSON)
	default:
		return zap.NewNop(), nil
	}
}

func newEngine(cfg *config.Config) *scoring.Engine {
	return scoring.NewEngine(scoring.WithMaxCorpusBytes(cfg.Engine.MaxCorpusBytes))
}

// buildService wires the engine, profile source, cache and metrics into a
// report service. The returned cleanup is always safe to call.
func buildService(ctx context.Context, cfg *config.Config, logger *zap.Logger, reg prometheus.Registerer) (*service.ReportService, func(), error) {
	var closers []func() error
	cleanup := func() {
		for i := len(closers) - 1; i >= 0; i-- {
			if err := closers[i](); err != nil {
				logger.Warn("cleanup failed", zap.Error(err))
			}
		}
	}

	opts := []service.Option{service.WithLogger(logger)}

	src, err := source.Open(ctx, cfg.Source)
	switch {
	case errors.Is(err, source.ErrNoSource):
		logger.Info("no profile source configured; user lookups disabled")
	case err != nil:
		return nil, cleanup, fmt.Errorf("open profile source: %w", err)
	default:
		closers = append(closers, src.Close)
		opts = append(opts, service.WithSource(src))
		logger.Info("profile source ready", zap.String("kind", cfg.Source.Kind))
	}

	mem, err := cache.NewMemory(cfg.Cache.MemorySize)
	if err != nil {
		return nil, cleanup, err
	}
	var shared cache.Cache
	if cfg.Cache.RedisAddr != "" {
		rc, err := cache.Dial(ctx, cfg.Cache.RedisAddr, cfg.Cache.TTL)
		if err != nil {
			cleanup()
			return nil, func() {}, err
		}
		closers = append(closers, rc.Close)
		shared = rc
		logger.Info("redis report cache ready", zap.String("addr", cfg.Cache.RedisAddr))
	}
	opts = append(opts, service.WithCache(cache.NewTiered(mem, shared)))

	if reg != nil {
		obs, err := metrics.NewObserver("innerscope", reg)
		if err != nil {
			cleanup()
			return nil, func() {}, err
		}
		opts = append(opts, service.WithObserver(obs))
	}

	svc, err := service.NewReportService(newEngine(cfg), opts...)
	if err != nil {
		cleanup()
		return nil, func() {}, err
	}
	return svc, cleanup, nil
}

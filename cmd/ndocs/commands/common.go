package commands

import (
	"context"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/alecthomas/kong"
	"github.com/google/uuid"

	"git.home.luguber.info/inful/ndocs/internal/config"
	"git.home.luguber.info/inful/ndocs/internal/convert"
	"git.home.luguber.info/inful/ndocs/internal/git"
	"git.home.luguber.info/inful/ndocs/internal/linkrewrite"
	"git.home.luguber.info/inful/ndocs/internal/logfields"
	"git.home.luguber.info/inful/ndocs/internal/metrics"
	"git.home.luguber.info/inful/ndocs/internal/postprocess"
	"git.home.luguber.info/inful/ndocs/internal/render"
)

// Global carries values shared by all subcommands.
type Global struct {
	Stdout io.Writer
}

// CLI definition & global flags.
type CLI struct {
	Config      string           `short:"c" help:"Configuration file path" default:"ndocs.yaml"`
	Verbose     bool             `short:"v" help:"Enable verbose logging"`
	Version     kong.VersionFlag `name:"version" help:"Show version and exit"`
	SourceRoot  string           `name:"source-root" help:"Override source_root (base URL for source tree links)"`
	MetricsFile string           `name:"metrics-file" help:"Write Prometheus metrics to this textfile after the run"`

	Convert  ConvertCmd  `cmd:"" help:"Convert notes documents to HTML pages"`
	Prevnext PrevnextCmd `cmd:"" help:"Insert previous/next navigation into tutorial pages"`
	Watch    WatchCmd    `cmd:"" help:"Convert and stitch, then repeat whenever inputs change"`
	Check    CheckCmd    `cmd:"" help:"Audit links in notes documents"`

	logOut io.Writer
	runID  string
}

// NewCLI returns a CLI whose log output goes to logOut (stderr when nil).
func NewCLI(logOut io.Writer) *CLI {
	if logOut == nil {
		logOut = os.Stderr
	}
	return &CLI{logOut: logOut}
}

// AfterApply runs after flag parsing; setup logging once.
// nolint:unparam // AfterApply currently never returns an error.
func (c *CLI) AfterApply() error {
	if c.logOut == nil {
		c.logOut = os.Stderr
	}
	c.runID = uuid.NewString()
	level := slog.LevelInfo
	if c.Verbose {
		level = slog.LevelDebug
	}
	c.installLogger(level, config.LogFormatText)
	return nil
}

func (c *CLI) installLogger(level slog.Level, format config.LogFormat) {
	opts := &slog.HandlerOptions{Level: level}
	var handler slog.Handler = slog.NewTextHandler(c.logOut, opts)
	if format == config.LogFormatJSON {
		handler = slog.NewJSONHandler(c.logOut, opts)
	}
	slog.SetDefault(slog.New(handler).With(logfields.RunID(c.runID)))
}

// LoadConfig loads the configuration, applies global flag overrides and
// reinstalls the logger with the configured level and format. A missing
// default config file is fine; a missing explicitly named one is not.
func (c *CLI) LoadConfig() (*config.Config, error) {
	cfg, err := config.Load(c.Config, c.Config != config.DefaultConfigPath)
	if err != nil {
		return nil, err
	}
	if c.SourceRoot != "" {
		cfg.SourceRoot = c.SourceRoot
	}
	if c.MetricsFile != "" {
		cfg.MetricsFile = c.MetricsFile
	}
	if err := cfg.ExpandSourceRoot(func() (string, error) { return git.CurrentRef(cfg.SourceTree) }); err != nil {
		return nil, err
	}

	level := cfg.Logging.Level.SlogLevel()
	if c.Verbose {
		level = slog.LevelDebug
	}
	c.installLogger(level, cfg.Logging.Format)
	slog.Debug("Configuration loaded",
		slog.String("config", c.Config),
		slog.String("source_root", cfg.SourceRoot),
		slog.String("source_tree", cfg.SourceTree),
		slog.String("output_dir", cfg.OutputDir))
	return cfg, nil
}

// metricsSink couples a recorder with the function that persists it.
type metricsSink struct {
	recorder metrics.Recorder
	flush    func() error
}

func newMetricsSink(cfg *config.Config) metricsSink {
	if cfg.MetricsFile == "" {
		return metricsSink{recorder: metrics.NoopRecorder{}, flush: func() error { return nil }}
	}
	pr := metrics.NewPrometheusRecorder(nil)
	path := cfg.MetricsFile
	return metricsSink{recorder: pr, flush: func() error { return pr.WriteTextfile(path) }}
}

// finish flushes metrics without masking an earlier error.
func (m metricsSink) finish(runErr error) error {
	if err := m.flush(); err != nil {
		if runErr != nil {
			slog.Warn("Failed to write metrics file", logfields.Error(err))
			return runErr
		}
		return err
	}
	return runErr
}

// BuildPipeline wires the conversion stages described by cfg.
func BuildPipeline(cfg *config.Config, recorder metrics.Recorder) (*convert.Pipeline, error) {
	converter, err := render.New(cfg.Render)
	if err != nil {
		return nil, err
	}
	post, err := postprocess.New(cfg.Substitutions)
	if err != nil {
		return nil, err
	}
	resolver := linkrewrite.NewResolver(cfg.SourceRoot, cfg.NotesSuffix, cfg.OutputExt)
	rewriter := linkrewrite.NewRewriter(resolver, slog.Default())
	return convert.NewPipeline(cfg, rewriter, converter, post, recorder).WithLogger(slog.Default()), nil
}

// signalContext is replaced in tests.
var signalContext = func() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}

package config

// DefaultApplier applies defaults for a specific configuration domain.
type DefaultApplier interface {
	ApplyDefaults(cfg *Config) error
	Domain() string
}

const (
	DefaultSourceRoot  = "https://github.com/fadden/CiderPress2/blob/main/"
	DefaultSourceTree  = "../.."
	DefaultNotesSuffix = "-notes.md"
	DefaultOutputExt   = ".html"
	DefaultTopicList   = "topic-list.txt"
	DefaultBoxWidth    = "25cm"

	DefaultRetryInitialDelay = "1s"
	DefaultRetryMaxDelay     = "30s"

	DefaultFooter = "<p><a href=\"../doc-index.html\">Return to documentation index</a> | " +
		"<a href=\"{source_root}{path}\">View in source tree</a></p>\n"
)

// SourceDefaultApplier handles link resolution and source tree defaults.
type SourceDefaultApplier struct{}

func (SourceDefaultApplier) Domain() string { return "source" }

func (SourceDefaultApplier) ApplyDefaults(cfg *Config) error {
	if cfg.SourceRoot == "" {
		cfg.SourceRoot = DefaultSourceRoot
	}
	if cfg.SourceTree == "" {
		cfg.SourceTree = DefaultSourceTree
	}
	if cfg.NotesSuffix == "" {
		cfg.NotesSuffix = DefaultNotesSuffix
	}
	return nil
}

// OutputDefaultApplier handles converter output defaults.
type OutputDefaultApplier struct{}

func (OutputDefaultApplier) Domain() string { return "output" }

func (OutputDefaultApplier) ApplyDefaults(cfg *Config) error {
	if cfg.OutputExt == "" {
		cfg.OutputExt = DefaultOutputExt
	}
	if cfg.OutputDir == "" {
		cfg.OutputDir = "."
	}
	if cfg.OutputNaming == "" {
		cfg.OutputNaming = OutputNamingSource
	} else {
		cfg.OutputNaming = NormalizeOutputNaming(string(cfg.OutputNaming))
	}
	if cfg.Footer == "" {
		cfg.Footer = DefaultFooter
	}
	if cfg.Render.Engine == "" {
		cfg.Render.Engine = RenderEngineGoldmark
	} else {
		cfg.Render.Engine = NormalizeRenderEngine(string(cfg.Render.Engine))
	}
	if cfg.Render.BoxWidth == "" {
		cfg.Render.BoxWidth = DefaultBoxWidth
	}
	cfg.Render.RetryBackoff = NormalizeRetryBackoff(string(cfg.Render.RetryBackoff))
	if cfg.Render.RetryBackoff == "" { // fallback to default if unknown
		cfg.Render.RetryBackoff = RetryBackoffLinear
	}
	if cfg.Render.RetryInitialDelay == "" {
		cfg.Render.RetryInitialDelay = DefaultRetryInitialDelay
	}
	if cfg.Render.RetryMaxDelay == "" {
		cfg.Render.RetryMaxDelay = DefaultRetryMaxDelay
	}
	// nil means "not configured"; an explicit empty list disables substitutions.
	if cfg.Substitutions == nil {
		cfg.Substitutions = []Substitution{{Pattern: "/github-markdown-css/", Replace: ""}}
	}
	return nil
}

// NavigationDefaultApplier handles prev/next defaults.
type NavigationDefaultApplier struct{}

func (NavigationDefaultApplier) Domain() string { return "navigation" }

func (NavigationDefaultApplier) ApplyDefaults(cfg *Config) error {
	if cfg.Navigation.TopicList == "" {
		cfg.Navigation.TopicList = DefaultTopicList
	}
	if len(cfg.Navigation.Dirs) == 0 {
		cfg.Navigation.Dirs = []string{"cli-tutorial", "gui-tutorial"}
	}
	return nil
}

// LoggingDefaultApplier normalizes logging settings.
type LoggingDefaultApplier struct{}

func (LoggingDefaultApplier) Domain() string { return "logging" }

func (LoggingDefaultApplier) ApplyDefaults(cfg *Config) error {
	cfg.Logging.Level = NormalizeLogLevel(string(cfg.Logging.Level))
	cfg.Logging.Format = NormalizeLogFormat(string(cfg.Logging.Format))
	return nil
}

var defaultAppliers = []DefaultApplier{
	SourceDefaultApplier{},
	OutputDefaultApplier{},
	NavigationDefaultApplier{},
	LoggingDefaultApplier{},
}

// ApplyDefaults runs every domain applier in order.
func ApplyDefaults(cfg *Config) error {
	for _, a := range defaultAppliers {
		if err := a.ApplyDefaults(cfg); err != nil {
			return err
		}
	}
	return nil
}

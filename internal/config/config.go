package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"regexp"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	derrors "git.home.luguber.info/inful/ndocs/internal/foundation/errors"
)

// DefaultConfigPath is used when no --config flag is given. A missing file at
// this path is not an error.
const DefaultConfigPath = "ndocs.yaml"

// Config represents the application configuration.
type Config struct {
	// SourceRoot is the canonical source-root URL relative links resolve into.
	SourceRoot string `yaml:"source_root"`
	// SourceRef replaces a {ref} placeholder in SourceRoot. "HEAD" means the
	// branch of the enclosing git checkout.
	SourceRef string `yaml:"source_ref,omitempty"`
	// SourceTree is where repository-relative Markdown paths are read from.
	SourceTree  string `yaml:"source_tree"`
	NotesSuffix string `yaml:"notes_suffix"`
	OutputExt   string `yaml:"output_ext"`
	OutputDir   string `yaml:"output_dir"`
	// OutputNaming is "source" (Zip-notes.html) or "link" (Zip.html).
	OutputNaming OutputNaming `yaml:"output_naming"`
	// Footer is appended to every converted document. {path} and {source_root}
	// are substituted.
	Footer        string           `yaml:"footer"`
	Render        RenderConfig     `yaml:"render"`
	Substitutions []Substitution   `yaml:"substitutions"`
	Documents     []string         `yaml:"documents,omitempty"`
	Navigation    NavigationConfig `yaml:"navigation"`
	Logging       LoggingConfig    `yaml:"logging"`
	MetricsFile   string           `yaml:"metrics_file,omitempty"`
}

// RenderConfig selects and tunes the Markdown to HTML converter.
type RenderConfig struct {
	Engine RenderEngine `yaml:"engine"`
	// Command is the argv of an external renderer. {input}, {output},
	// {footer_file}, {math} and {box_width} are substituted per document.
	Command  []string `yaml:"command,omitempty"`
	Math     bool     `yaml:"math"`
	BoxWidth string   `yaml:"box_width"`
	// Retries apply to failed runs of the command engine only.
	MaxRetries        int              `yaml:"max_retries"`
	RetryBackoff      RetryBackoffMode `yaml:"retry_backoff,omitempty"`
	RetryInitialDelay string           `yaml:"retry_initial_delay,omitempty"`
	RetryMaxDelay     string           `yaml:"retry_max_delay,omitempty"`
}

// Substitution is a regex replacement applied to converted HTML.
type Substitution struct {
	Pattern string `yaml:"pattern"`
	Replace string `yaml:"replace"`
}

// NavigationConfig controls prev/next stitching.
type NavigationConfig struct {
	TopicList string   `yaml:"topic_list"`
	Dirs      []string `yaml:"dirs"`
}

// LoggingConfig controls the default slog handler.
type LoggingConfig struct {
	Level  LogLevel  `yaml:"level"`
	Format LogFormat `yaml:"format"`
}

// Load reads configuration from configPath. When required is false a missing
// file yields the built-in defaults.
func Load(configPath string, required bool) (*Config, error) {
	loadEnvFiles()

	cfg := &Config{}
	data, err := os.ReadFile(configPath)
	switch {
	case err == nil:
		if err := decode(string(data), cfg); err != nil {
			return nil, derrors.WrapError(err, derrors.CategoryConfig, "invalid configuration file").
				WithContext("path", configPath).
				Fatal().
				Build()
		}
		cfg.expandEnv()
	case errors.Is(err, fs.ErrNotExist) && !required:
		// Defaults only.
	default:
		return nil, derrors.WrapError(err, derrors.CategoryConfig, "cannot read configuration file").
			WithContext("path", configPath).
			Fatal().
			Build()
	}

	if err := ApplyDefaults(cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Default returns a configuration holding only built-in defaults.
func Default() *Config {
	cfg := &Config{}
	_ = ApplyDefaults(cfg)
	return cfg
}

func decode(text string, cfg *Config) error {
	if strings.TrimSpace(text) == "" {
		return nil
	}
	dec := yaml.NewDecoder(strings.NewReader(text))
	dec.KnownFields(true)
	return dec.Decode(cfg)
}

// expandEnv substitutes ${VAR} in path and URL fields. Substitutions are left
// alone: their replacements use $1 and ${name} for capture groups.
func (c *Config) expandEnv() {
	for _, f := range []*string{
		&c.SourceRoot, &c.SourceRef, &c.SourceTree, &c.NotesSuffix, &c.OutputExt,
		&c.OutputDir, &c.Footer, &c.MetricsFile, &c.Render.BoxWidth, &c.Navigation.TopicList,
	} {
		*f = os.ExpandEnv(*f)
	}
	for _, list := range [][]string{c.Render.Command, c.Documents, c.Navigation.Dirs} {
		for i := range list {
			list[i] = os.ExpandEnv(list[i])
		}
	}
}

// loadEnvFiles loads .env then .env.local. Existing process environment
// variables are not overwritten and missing files are ignored.
func loadEnvFiles() {
	for _, name := range []string{".env", ".env.local"} {
		if _, err := os.Stat(name); err != nil {
			continue
		}
		if err := godotenv.Load(name); err != nil {
			fmt.Fprintf(os.Stderr, "Note: could not load %s: %v\n", name, err)
		}
	}
}

// Validate checks the configuration for values no default can repair.
func (c *Config) Validate() error {
	if !strings.HasPrefix(c.OutputExt, ".") {
		return derrors.ConfigError("output_ext must start with '.'").WithContext("value", c.OutputExt).Build()
	}
	if c.NotesSuffix == "" {
		return derrors.ConfigError("notes_suffix must not be empty").Build()
	}
	if _, err := outputNamings.NormalizeWithError(string(c.OutputNaming)); err != nil {
		return derrors.WrapError(err, derrors.CategoryConfig, "unknown output_naming").
			WithContext("value", string(c.OutputNaming)).
			Fatal().
			Build()
	}
	if _, err := renderEngines.NormalizeWithError(string(c.Render.Engine)); err != nil {
		return derrors.WrapError(err, derrors.CategoryConfig, "unknown render engine").
			WithContext("value", string(c.Render.Engine)).
			WithContext("valid", RenderEngineNames()).
			Fatal().
			Build()
	}
	if c.Render.Engine == RenderEngineCommand && len(c.Render.Command) == 0 {
		return derrors.ConfigError("render.command is required for the command engine").Build()
	}
	if c.Render.MaxRetries < 0 {
		return derrors.ConfigError("render.max_retries cannot be negative").WithContext("value", c.Render.MaxRetries).Build()
	}
	if _, _, err := c.Render.RetryDelays(); err != nil {
		return derrors.WrapError(err, derrors.CategoryConfig, "invalid render retry delay").Build()
	}
	for i, s := range c.Substitutions {
		if _, err := regexp.Compile(s.Pattern); err != nil {
			return derrors.WrapError(err, derrors.CategoryConfig, "invalid substitution pattern").
				WithContext("index", i).
				Fatal().
				Build()
		}
	}
	return nil
}

// ExpandSourceRoot substitutes the {ref} placeholder in SourceRoot. resolveHead
// is consulted only when SourceRef is "HEAD".
func (c *Config) ExpandSourceRoot(resolveHead func() (string, error)) error {
	if !strings.Contains(c.SourceRoot, "{ref}") {
		return nil
	}
	ref := c.SourceRef
	if ref == "" {
		ref = "main"
	}
	if ref == "HEAD" {
		if resolveHead == nil {
			return derrors.ConfigError("source_ref HEAD needs a git checkout").Build()
		}
		head, err := resolveHead()
		if err != nil {
			return derrors.WrapError(err, derrors.CategoryGit, "cannot resolve source_ref HEAD").Fatal().Build()
		}
		ref = head
	}
	c.SourceRoot = strings.ReplaceAll(c.SourceRoot, "{ref}", ref)
	return nil
}

// FooterFor renders the footer for the repository-relative document path.
func (c *Config) FooterFor(docPath string) string {
	r := strings.NewReplacer("{path}", docPath, "{source_root}", c.SourceRoot)
	return r.Replace(c.Footer)
}

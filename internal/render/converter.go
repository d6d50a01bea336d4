// Package render turns rewritten Markdown into HTML pages.
//
// Converter is the contract the conversion pipeline needs from a renderer. Two
// implementations exist: GoldmarkConverter renders in-process, and
// CommandConverter runs an external program inside a private scratch
// directory that is removed after every call.
package render

import (
	"context"
	"errors"

	"git.home.luguber.info/inful/ndocs/internal/config"
	derrors "git.home.luguber.info/inful/ndocs/internal/foundation/errors"
	"git.home.luguber.info/inful/ndocs/internal/retry"
)

var (
	// ErrConverterFailed indicates the renderer reported failure.
	ErrConverterFailed = errors.New("converter failed")
	// ErrNoOutput indicates the renderer succeeded but produced no HTML file.
	ErrNoOutput = errors.New("converter produced no output")
)

// Options are the per-run rendering switches.
type Options struct {
	Math     bool
	BoxWidth string
}

// Request is one document to render.
type Request struct {
	// Path is the repository-relative source path; it names the document.
	Path     string
	Markdown []byte
	// Footer is an HTML fragment appended after the document body.
	Footer  string
	Options Options
}

// Converter renders a Request to a complete HTML page.
type Converter interface {
	Convert(ctx context.Context, req Request) ([]byte, error)
}

// OptionsFrom converts the render section of the configuration.
func OptionsFrom(cfg config.RenderConfig) Options {
	return Options{Math: cfg.Math, BoxWidth: cfg.BoxWidth}
}

// New returns the converter selected by cfg.Engine.
func New(cfg config.RenderConfig) (Converter, error) {
	switch cfg.Engine {
	case config.RenderEngineGoldmark, "":
		return NewGoldmarkConverter(), nil
	case config.RenderEngineCommand:
		policy, err := retry.FromRenderConfig(cfg)
		if err != nil {
			return nil, derrors.WrapError(err, derrors.CategoryConfig, "invalid render retry delay").Build()
		}
		c, err := NewCommandConverter(cfg.Command, "")
		if err != nil {
			return nil, err
		}
		return c.WithRetry(policy), nil
	default:
		return nil, derrors.ConfigError("unknown render engine").WithContext("value", string(cfg.Engine)).Build()
	}
}

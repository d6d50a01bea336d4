package commands

import (
	"git.home.luguber.info/inful/ndocs/internal/config"
	"git.home.luguber.info/inful/ndocs/internal/convert"
	derrors "git.home.luguber.info/inful/ndocs/internal/foundation/errors"
)

// ConvertCmd implements the 'convert' command.
type ConvertCmd struct {
	Documents []string `arg:"" optional:"" name:"md-path" help:"Repository-relative notes documents, or 'all'"`
	Output    string   `short:"o" help:"Output directory (overrides output_dir)"`
	Engine    string   `help:"Renderer engine: goldmark or command (overrides render.engine)"`
	Math      bool     `help:"Enable math rendering (overrides render.math)"`
	Naming    string   `help:"Page naming: source (Zip-notes.html) or link (Zip.html)"`
}

func (c *ConvertCmd) Run(_ *Global, root *CLI) error {
	// Usage is checked before any configuration or file is touched.
	if len(c.Documents) == 0 {
		return derrors.UsageError(convert.UsageText).Build()
	}

	cfg, err := root.LoadConfig()
	if err != nil {
		return err
	}
	if c.Output != "" {
		cfg.OutputDir = c.Output
	}
	if c.Engine != "" {
		engine := config.NormalizeRenderEngine(c.Engine)
		if !engine.Valid() {
			return derrors.ConfigError("unknown render engine").WithContext("value", c.Engine).Build()
		}
		cfg.Render.Engine = engine
	}
	if c.Naming != "" {
		naming := config.NormalizeOutputNaming(c.Naming)
		if !naming.Valid() {
			return derrors.ConfigError("unknown output naming").WithContext("value", c.Naming).Build()
		}
		cfg.OutputNaming = naming
	}
	if c.Math {
		cfg.Render.Math = true
	}

	sink := newMetricsSink(cfg)
	pipeline, err := BuildPipeline(cfg, sink.recorder)
	if err != nil {
		return err
	}

	ctx, cancel := signalContext()
	defer cancel()
	return sink.finish(pipeline.Run(ctx, c.Documents))
}

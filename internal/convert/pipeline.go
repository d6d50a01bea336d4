// Package convert drives the per-document conversion: link rewriting, HTML
// rendering, post-processing and writing the page.
package convert

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"git.home.luguber.info/inful/ndocs/internal/config"
	derrors "git.home.luguber.info/inful/ndocs/internal/foundation/errors"
	"git.home.luguber.info/inful/ndocs/internal/linkrewrite"
	"git.home.luguber.info/inful/ndocs/internal/logfields"
	"git.home.luguber.info/inful/ndocs/internal/metrics"
	"git.home.luguber.info/inful/ndocs/internal/postprocess"
	"git.home.luguber.info/inful/ndocs/internal/render"
)

// Pipeline converts notes documents one at a time, in order.
type Pipeline struct {
	cfg       *config.Config
	rewriter  *linkrewrite.Rewriter
	converter render.Converter
	post      *postprocess.Processor
	recorder  metrics.Recorder
	logger    *slog.Logger
}

// NewPipeline wires the conversion stages. A nil recorder disables metrics.
func NewPipeline(cfg *config.Config, rewriter *linkrewrite.Rewriter, converter render.Converter, post *postprocess.Processor, recorder metrics.Recorder) *Pipeline {
	if recorder == nil {
		recorder = metrics.NoopRecorder{}
	}
	return &Pipeline{
		cfg:       cfg,
		rewriter:  rewriter,
		converter: converter,
		post:      post,
		recorder:  recorder,
		logger:    slog.Default(),
	}
}

// WithLogger sets the logger used for progress messages.
func (p *Pipeline) WithLogger(l *slog.Logger) *Pipeline {
	if l != nil {
		p.logger = l
	}
	return p
}

// Documents is the list "all" expands to.
func (p *Pipeline) Documents() []string {
	return ConfiguredDocuments(p.cfg)
}

// ConfiguredDocuments returns cfg's document list, or the built-in list when
// cfg names none.
func ConfiguredDocuments(cfg *config.Config) []string {
	if len(cfg.Documents) > 0 {
		return append([]string(nil), cfg.Documents...)
	}
	return DefaultDocuments()
}

// OutputName is the page filename docPath is written to.
func (p *Pipeline) OutputName(docPath string) string {
	if p.cfg.OutputNaming == config.OutputNamingLink {
		return p.rewriter.Resolver().LinkedName(docPath)
	}
	return p.rewriter.Resolver().OutputName(docPath)
}

// Run converts the documents named by args. The first failure stops the run;
// pages written for earlier documents are kept.
func (p *Pipeline) Run(ctx context.Context, args []string) error {
	docs, err := ExpandDocuments(args, p.Documents())
	if err != nil {
		return err
	}
	if err := p.ensureOutputDir(); err != nil {
		return err
	}

	start := time.Now()
	defer func() { p.recorder.ObserveStageDuration("convert", time.Since(start)) }()

	for _, doc := range docs {
		if err := ctx.Err(); err != nil {
			return err
		}
		if _, err := p.ConvertDocument(ctx, doc); err != nil {
			return err
		}
	}
	p.logger.Info("Conversion complete",
		logfields.Count(len(docs)),
		logfields.DurationMS(float64(time.Since(start).Milliseconds())))
	return nil
}

// ConvertDocument converts one repository-relative Markdown path and returns
// the written page's path.
func (p *Pipeline) ConvertDocument(ctx context.Context, docPath string) (string, error) {
	docPath = filepath.ToSlash(docPath)
	p.logger.Info("convert "+docPath, logfields.Stage("convert"), logfields.Path(docPath))

	result, err := p.rewriter.RewriteFile(p.cfg.SourceTree, docPath)
	if err != nil {
		return "", err
	}
	p.recorder.AddLinksRewritten(len(result.Changes))
	if len(result.Changes) > 0 {
		p.logger.Debug("Links rewritten", logfields.Path(docPath), logfields.Count(len(result.Changes)))
	}

	page, err := p.converter.Convert(ctx, render.Request{
		Path:     docPath,
		Markdown: []byte(result.Text),
		Footer:   p.cfg.FooterFor(docPath),
		Options:  render.OptionsFrom(p.cfg.Render),
	})
	if err != nil {
		return "", err
	}

	if err := p.ensureOutputDir(); err != nil {
		return "", err
	}
	name := p.OutputName(docPath)
	written, err := p.post.WriteFile(p.cfg.OutputDir, name, page)
	if err != nil {
		return "", err
	}
	p.recorder.IncDocumentsConverted()
	return written, nil
}

func (p *Pipeline) ensureOutputDir() error {
	if err := os.MkdirAll(p.cfg.OutputDir, 0o750); err != nil {
		return derrors.FileSystemError("cannot create output directory").
			WithCause(err).
			WithContext("dir", p.cfg.OutputDir).
			Build()
	}
	return nil
}

package commands

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"

	"git.home.luguber.info/inful/ndocs/internal/convert"
	derrors "git.home.luguber.info/inful/ndocs/internal/foundation/errors"
	"git.home.luguber.info/inful/ndocs/internal/linkcheck"
	"git.home.luguber.info/inful/ndocs/internal/linkrewrite"
)

// CheckCmd implements the 'check' command.
type CheckCmd struct {
	Documents []string `arg:"" optional:"" name:"md-path" help:"Notes documents to audit, or 'all' (default)"`
	Format    string   `enum:"text,json" default:"text" help:"Report format: text or json"`
}

func (c *CheckCmd) Run(g *Global, root *CLI) error {
	cfg, err := root.LoadConfig()
	if err != nil {
		return err
	}
	args := c.Documents
	if len(args) == 0 {
		args = []string{convert.AllToken}
	}
	listed := convert.ConfiguredDocuments(cfg)
	docs, err := convert.ExpandDocuments(args, listed)
	if err != nil {
		return err
	}

	resolver := linkrewrite.NewResolver(cfg.SourceRoot, cfg.NotesSuffix, cfg.OutputExt)
	checker := linkcheck.NewChecker(cfg.SourceTree, linkrewrite.NewRewriter(resolver, slog.Default()), listed)
	report, err := checker.Check(docs)
	if err != nil {
		return err
	}

	if g.Stdout != nil {
		if err := writeReport(g.Stdout, report, c.Format); err != nil {
			return derrors.WrapError(err, derrors.CategoryInternal, "cannot write link report").Build()
		}
	}
	if n := report.Errors(); n > 0 {
		return derrors.NewError(derrors.CategoryDocs, "broken links found").
			WithContext("errors", n).
			Build()
	}
	return nil
}

func writeReport(w io.Writer, report linkcheck.Report, format string) error {
	if format == "json" {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(report)
	}
	for _, f := range report.Findings {
		if _, err := fmt.Fprintf(w, "%s:%d: %s %s: %s\n", f.Document, f.Line, f.Severity, f.Problem, f.Target); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintf(w, "%d documents, %d links, %d findings (%d errors)\n",
		report.Documents, report.Links, len(report.Findings), report.Errors())
	return err
}

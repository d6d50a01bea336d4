// Package linkcheck audits the links of notes documents against the source
// tree and the conversion list, before or independently of conversion.
package linkcheck

import (
	"errors"
	"io/fs"
	"log/slog"
	"os"
	"path"
	"path/filepath"
	"strings"

	derrors "git.home.luguber.info/inful/ndocs/internal/foundation/errors"
	"git.home.luguber.info/inful/ndocs/internal/linkrewrite"
	"git.home.luguber.info/inful/ndocs/internal/logfields"
	"git.home.luguber.info/inful/ndocs/internal/markdown"
)

// Problem names what is wrong with a link.
type Problem string

const (
	// ProblemMissingNotes: the sibling notes document does not exist.
	ProblemMissingNotes Problem = "missing_notes"
	// ProblemNotConverted: the sibling exists but is not in the conversion
	// list, so its page will not be generated.
	ProblemNotConverted Problem = "not_converted"
	// ProblemMissingSource: a relative link points at no file in the tree.
	ProblemMissingSource Problem = "missing_source"
	// ProblemCodeRewrite: the rewriter changes text that Markdown renders
	// as code rather than as a link.
	ProblemCodeRewrite Problem = "rewrite_in_code"
)

// Severity of a finding.
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
)

// BrokenLink is one finding.
type BrokenLink struct {
	Document string   `json:"document"`
	Line     int      `json:"line,omitempty"`
	Target   string   `json:"target"`
	Resolved string   `json:"resolved,omitempty"`
	Problem  Problem  `json:"problem"`
	Severity Severity `json:"severity"`
}

// Report collects the findings of a run in document order.
type Report struct {
	Documents int          `json:"documents"`
	Links     int          `json:"links"`
	Findings  []BrokenLink `json:"findings"`
}

// Errors counts error-severity findings.
func (r Report) Errors() int {
	n := 0
	for _, f := range r.Findings {
		if f.Severity == SeverityError {
			n++
		}
	}
	return n
}

// Checker audits documents read from a source tree.
type Checker struct {
	sourceTree string
	rewriter   *linkrewrite.Rewriter
	converted  map[string]bool
	logger     *slog.Logger
}

// NewChecker creates a Checker. documents is the conversion list that notes
// links are expected to point into.
func NewChecker(sourceTree string, rewriter *linkrewrite.Rewriter, documents []string) *Checker {
	converted := make(map[string]bool, len(documents))
	for _, d := range documents {
		converted[path.Clean(filepath.ToSlash(d))] = true
	}
	return &Checker{sourceTree: sourceTree, rewriter: rewriter, converted: converted, logger: slog.Default()}
}

// Check audits docs in order. Unreadable documents stop the run.
func (c *Checker) Check(docs []string) (Report, error) {
	report := Report{Findings: []BrokenLink{}}
	for _, doc := range docs {
		links, findings, err := c.CheckDocument(doc)
		if err != nil {
			return report, err
		}
		report.Documents++
		report.Links += links
		report.Findings = append(report.Findings, findings...)
	}
	c.logger.Info("Link check complete",
		logfields.Count(report.Documents),
		slog.Int("links", report.Links),
		slog.Int("errors", report.Errors()),
		slog.Int("findings", len(report.Findings)))
	return report, nil
}

// CheckDocument audits one repository-relative document and returns the
// number of links seen plus the findings.
func (c *Checker) CheckDocument(docPath string) (int, []BrokenLink, error) {
	docPath = filepath.ToSlash(docPath)
	doc, err := linkrewrite.ReadSourceDocument(c.sourceTree, docPath)
	if err != nil {
		return 0, nil, err
	}
	resolver := c.rewriter.Resolver()
	links := markdown.ExtractLinks([]byte(doc.Body))

	var findings []BrokenLink
	parsed := make(map[string]int, len(links))
	for _, l := range links {
		parsed[destinationOf(l.Destination)]++
		f, ok := c.checkTarget(docPath, l, resolver)
		if ok {
			findings = append(findings, f)
		}
	}

	// Targets the textual rewriter changes that the parser never saw as links.
	for _, ch := range c.rewriter.Rewrite(doc).Changes {
		if dest := destinationOf(ch.Old); parsed[dest] > 0 {
			parsed[dest]--
			continue
		}
		findings = append(findings, BrokenLink{
			Document: docPath,
			Target:   ch.Old,
			Resolved: ch.New,
			Problem:  ProblemCodeRewrite,
			Severity: SeverityWarning,
		})
	}

	for _, f := range findings {
		c.logger.Debug("Link finding", logfields.Path(docPath), slog.Int("line", f.Line),
			slog.String("target", f.Target), slog.String("problem", string(f.Problem)))
	}
	return len(links), findings, nil
}

func (c *Checker) checkTarget(docPath string, l markdown.Link, resolver *linkrewrite.Resolver) (BrokenLink, bool) {
	finding := BrokenLink{Document: docPath, Line: l.Line, Target: l.Destination}
	switch resolver.Classify(l.Destination) {
	case linkrewrite.KindNotes:
		finding.Resolved = resolver.Resolve(l.Destination, docPath)
		sibling := path.Join(path.Dir(docPath), stripFragment(l.Destination))
		exists, err := c.exists(sibling)
		switch {
		case err != nil || !exists:
			finding.Problem, finding.Severity = ProblemMissingNotes, SeverityError
		case !c.converted[sibling]:
			finding.Problem, finding.Severity = ProblemNotConverted, SeverityWarning
		default:
			return finding, false
		}
		return finding, true
	case linkrewrite.KindRelative:
		target := stripFragment(l.Destination)
		if target == "" {
			return finding, false
		}
		local := path.Join(path.Dir(docPath), target)
		if strings.HasPrefix(local, "../") || local == ".." {
			// Above the source tree; nothing local to verify.
			return finding, false
		}
		finding.Resolved = resolver.Resolve(l.Destination, docPath)
		if exists, err := c.exists(local); err == nil && exists {
			return finding, false
		}
		finding.Problem, finding.Severity = ProblemMissingSource, SeverityError
		return finding, true
	default:
		return finding, false
	}
}

func (c *Checker) exists(rel string) (bool, error) {
	_, err := os.Stat(filepath.Join(c.sourceTree, filepath.FromSlash(rel)))
	if err == nil {
		return true, nil
	}
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	return false, derrors.WrapError(err, derrors.CategoryFileSystem, "cannot stat link target").
		WithContext("path", rel).
		Build()
}

func stripFragment(target string) string {
	if i := strings.IndexAny(target, "#?"); i >= 0 {
		return target[:i]
	}
	return target
}

// destinationOf reduces the raw text between a link's parentheses to the
// destination the parser reports: the title is dropped and angle brackets
// are removed.
func destinationOf(target string) string {
	target = strings.TrimSpace(target)
	if strings.HasPrefix(target, "<") {
		if end := strings.IndexByte(target, '>'); end > 0 {
			return target[1:end]
		}
	}
	if i := strings.IndexAny(target, " \t"); i >= 0 {
		target = target[:i]
	}
	return target
}

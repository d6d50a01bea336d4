package linkrewrite

import (
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"

	derrors "git.home.luguber.info/inful/ndocs/internal/foundation/errors"
	"git.home.luguber.info/inful/ndocs/internal/logfields"
)

// linkPattern matches `[display](target)`. Submatch 2 is the target span,
// which never crosses a line break.
var linkPattern = regexp.MustCompile(`\[([^\]]+)\]\(([^)\n]+)\)`)

const byteOrderMark = "\uFEFF"

// SourceDocument is a decoded notes document identified by its
// repository-relative path.
type SourceDocument struct {
	Path string
	Body string
}

// LinkChange records one target that was rewritten.
type LinkChange struct {
	Old  string
	New  string
	Kind TargetKind
}

// Result is the rewritten document text plus the links that changed.
type Result struct {
	Text    string
	Changes []LinkChange
}

// Rewriter applies a Resolver to every link in a document.
type Rewriter struct {
	resolver *Resolver
	logger   *slog.Logger
}

// NewRewriter creates a Rewriter. A nil logger uses slog.Default().
func NewRewriter(resolver *Resolver, logger *slog.Logger) *Rewriter {
	if logger == nil {
		logger = slog.Default()
	}
	return &Rewriter{resolver: resolver, logger: logger}
}

// Resolver returns the resolver links are rewritten with.
func (rw *Rewriter) Resolver() *Resolver { return rw.resolver }

// ErrInvalidUTF8 indicates source text that is not valid UTF-8.
var ErrInvalidUTF8 = errors.New("invalid UTF-8")

// DecodeText decodes UTF-8 source text, discarding a leading byte-order mark.
// Invalid UTF-8 is rejected rather than replaced.
func DecodeText(raw []byte) (string, error) {
	if !utf8.Valid(raw) {
		return "", ErrInvalidUTF8
	}
	out, _, err := transform.Bytes(unicode.UTF8BOM.NewDecoder(), raw)
	if err != nil {
		return "", err
	}
	return string(out), nil
}

// ReadSourceDocument reads root/relPath and decodes it. A file that cannot be
// read is a fatal error for that document.
func ReadSourceDocument(root, relPath string) (SourceDocument, error) {
	full := filepath.Join(root, filepath.FromSlash(relPath))
	// #nosec G304 -- relPath names a document from the configured document list
	raw, err := os.ReadFile(full)
	if err != nil {
		return SourceDocument{}, derrors.WrapError(err, derrors.CategoryFileSystem, "cannot open source document").
			WithContext("path", full).
			Fatal().
			Build()
	}
	body, err := DecodeText(raw)
	if err != nil {
		return SourceDocument{}, derrors.WrapError(err, derrors.CategoryDocs, "cannot decode source document").
			WithContext("path", full).
			Fatal().
			Build()
	}
	return SourceDocument{Path: relPath, Body: body}, nil
}

// Rewrite returns doc's text with every link target resolved. Matching is a
// single non-overlapping pass; scanning resumes after each full match, so a
// target is never re-scanned.
func (rw *Rewriter) Rewrite(doc SourceDocument) Result {
	text := strings.TrimPrefix(doc.Body, byteOrderMark)
	matches := linkPattern.FindAllStringSubmatchIndex(text, -1)
	if len(matches) == 0 {
		return Result{Text: text}
	}

	var out strings.Builder
	out.Grow(len(text))
	var changes []LinkChange
	last := 0
	for _, m := range matches {
		targetStart, targetEnd := m[4], m[5]
		target := text[targetStart:targetEnd]
		resolved := rw.resolver.Resolve(target, doc.Path)

		out.WriteString(text[last:targetStart])
		out.WriteString(resolved)
		last = targetEnd

		if resolved != target {
			changes = append(changes, LinkChange{Old: target, New: resolved, Kind: rw.resolver.Classify(target)})
			rw.logger.Debug("Rewrote link", logfields.Path(doc.Path), logfields.Old(target), logfields.New(resolved))
		}
	}
	out.WriteString(text[last:])

	return Result{Text: out.String(), Changes: changes}
}

// RewriteFile reads root/relPath and rewrites it.
func (rw *Rewriter) RewriteFile(root, relPath string) (Result, error) {
	doc, err := ReadSourceDocument(root, relPath)
	if err != nil {
		return Result{}, err
	}
	return rw.Rewrite(doc), nil
}

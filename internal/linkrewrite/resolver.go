package linkrewrite

import (
	"path"
	"strings"
)

// TargetKind classifies a link target.
type TargetKind int

const (
	KindRelative TargetKind = iota
	KindNotes
	KindOpaque
)

func (k TargetKind) String() string {
	switch k {
	case KindNotes:
		return "notes"
	case KindOpaque:
		return "opaque"
	default:
		return "relative"
	}
}

const parentSegment = "../"

// schemes that mark a target as an external URL.
var schemes = []string{"http://", "https://", "mailto:", "ftp://"}

// Resolver maps link targets found in a notes document to their published form.
// It holds no per-document state.
type Resolver struct {
	sourceRoot  string
	notesSuffix string
	outputExt   string
}

// NewResolver creates a Resolver. sourceRoot is used verbatim as the prefix of
// resolved relative links and should end with "/".
func NewResolver(sourceRoot, notesSuffix, outputExt string) *Resolver {
	return &Resolver{
		sourceRoot:  sourceRoot,
		notesSuffix: notesSuffix,
		outputExt:   outputExt,
	}
}

// SourceRoot returns the canonical source root.
func (r *Resolver) SourceRoot() string { return r.sourceRoot }

// Classify determines which rule Resolve applies to target. The checks run in
// priority order: notes suffix, then anchor/URL, then relative path.
func (r *Resolver) Classify(target string) TargetKind {
	if r.notesSuffix != "" && strings.HasSuffix(target, r.notesSuffix) {
		return KindNotes
	}
	if strings.HasPrefix(target, "#") || hasScheme(target) {
		return KindOpaque
	}
	return KindRelative
}

// Resolve rewrites target as seen from the document at currentDocPath (a
// repository-relative, slash-separated path).
//
// Malformed relative paths are not rejected; they resolve to a best-effort URL.
func (r *Resolver) Resolve(target, currentDocPath string) string {
	switch r.Classify(target) {
	case KindNotes:
		return r.notesTarget(target)
	case KindOpaque:
		return target
	default:
		return r.sourceTarget(target, currentDocPath)
	}
}

// OutputName returns the converted filename for a document path: its base
// name with the output extension, so Zip-notes.md becomes Zip-notes.html.
func (r *Resolver) OutputName(docPath string) string {
	base := path.Base(docPath)
	return strings.TrimSuffix(base, path.Ext(base)) + r.outputExt
}

// LinkedName returns the filename notes links to docPath resolve to. For a
// notes document that is the base name without the notes suffix.
func (r *Resolver) LinkedName(docPath string) string {
	base := path.Base(docPath)
	if r.notesSuffix != "" && strings.HasSuffix(base, r.notesSuffix) {
		return r.notesTarget(base)
	}
	return r.OutputName(docPath)
}

func (r *Resolver) notesTarget(target string) string {
	return strings.TrimSuffix(path.Base(target), r.notesSuffix) + r.outputExt
}

// sourceTarget consumes leading "../" segments of target, dropping one
// trailing component of the document's directory per segment. Segments beyond
// the top of the tree are consumed without effect.
func (r *Resolver) sourceTarget(target, currentDocPath string) string {
	dirs := splitDir(currentDocPath)
	rest := target
	for strings.HasPrefix(rest, parentSegment) {
		rest = rest[len(parentSegment):]
		if len(dirs) > 0 {
			dirs = dirs[:len(dirs)-1]
		}
	}

	var b strings.Builder
	b.Grow(len(r.sourceRoot) + len(currentDocPath) + len(rest))
	b.WriteString(r.sourceRoot)
	if len(dirs) > 0 {
		b.WriteString(strings.Join(dirs, "/"))
		b.WriteByte('/')
	}
	b.WriteString(rest)
	return b.String()
}

func splitDir(docPath string) []string {
	dir := path.Dir(strings.TrimPrefix(docPath, "./"))
	if dir == "." || dir == "/" || dir == "" {
		return nil
	}
	return strings.Split(strings.Trim(dir, "/"), "/")
}

func hasScheme(target string) bool {
	low := strings.ToLower(target)
	for _, s := range schemes {
		if strings.HasPrefix(low, s) {
			return true
		}
	}
	return false
}

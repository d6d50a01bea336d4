package prevnext

import (
	"regexp"
	"strings"
)

// State is the stitching state of a single file.
type State int

const (
	// StateSeeking means no marker region has been found. It is terminal
	// when a file has no marker.
	StateSeeking State = iota
	// StateFound means the marker region has been located.
	StateFound
	// StateReplaced means the region interior has been regenerated.
	StateReplaced
)

func (s State) String() string {
	switch s {
	case StateSeeking:
		return "seeking"
	case StateFound:
		return "found"
	case StateReplaced:
		return "replaced"
	default:
		return "unknown"
	}
}

var markerPattern = regexp.MustCompile(`(?ms)^\s*<div id="prevnext">\s*$.(.*?)^\s*</div>`)

// Marker is the byte span of a marker region's interior.
type Marker struct {
	Start int
	End   int
}

// Locate finds the first marker region in content.
func Locate(content []byte) (Marker, State) {
	loc := markerPattern.FindSubmatchIndex(content)
	if loc == nil {
		return Marker{}, StateSeeking
	}
	return Marker{Start: loc[2], End: loc[3]}, StateFound
}

// Anchors returns the navigation HTML for position index of ordered.
func Anchors(ordered []string, index int) string {
	var b strings.Builder
	if index > 0 && index-1 < len(ordered) {
		b.WriteString(`    <a href="` + ordered[index-1] + `" class="btn-previous">&laquo; Previous</a>` + "\n")
	}
	if index >= 0 && index+1 < len(ordered) {
		b.WriteString(`    <a href="` + ordered[index+1] + `" class="btn-next">Next &raquo;</a>` + "\n")
	}
	return b.String()
}

// Splice replaces the interior of the first marker region in content with the
// anchors for ordered[index]. Bytes outside the interior are copied
// unchanged. Without a marker, content is returned as is with StateSeeking.
func Splice(content []byte, ordered []string, index int) ([]byte, State) {
	m, state := Locate(content)
	if state != StateFound {
		return content, state
	}
	return m.Replace(content, Anchors(ordered, index)), StateReplaced
}

// Replace returns a copy of content with the span m (as found by Locate on
// the same content) replaced by interior.
func (m Marker) Replace(content []byte, interior string) []byte {
	out := make([]byte, 0, len(content)-(m.End-m.Start)+len(interior))
	out = append(out, content[:m.Start]...)
	out = append(out, interior...)
	return append(out, content[m.End:]...)
}

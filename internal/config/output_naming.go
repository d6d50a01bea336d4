package config

import "git.home.luguber.info/inful/ndocs/internal/foundation/normalization"

// OutputNaming selects how converted pages are named.
type OutputNaming string

const (
	// OutputNamingSource keeps the source base name: Zip-notes.md -> Zip-notes.html.
	OutputNamingSource OutputNaming = "source"
	// OutputNamingLink uses the name notes links resolve to: Zip-notes.md -> Zip.html.
	OutputNamingLink OutputNaming = "link"
)

var outputNamings = normalization.NewNormalizer(map[string]OutputNaming{
	"source": OutputNamingSource,
	"link":   OutputNamingLink,
}, OutputNamingSource)

// NormalizeOutputNaming lower-cases and trims raw; unknown values are kept so
// Validate can report them.
func NormalizeOutputNaming(raw string) OutputNaming {
	if n, ok := outputNamings.Lookup(raw); ok {
		return n
	}
	return OutputNaming(normalization.Clean(raw))
}

// Valid reports whether n names a supported scheme.
func (n OutputNaming) Valid() bool {
	_, ok := outputNamings.Lookup(string(n))
	return ok
}

package config

import "git.home.luguber.info/inful/ndocs/internal/foundation/normalization"

// RenderEngine selects the Markdown to HTML converter implementation.
type RenderEngine string

const (
	// RenderEngineGoldmark renders in-process.
	RenderEngineGoldmark RenderEngine = "goldmark"
	// RenderEngineCommand runs an external program per document.
	RenderEngineCommand RenderEngine = "command"
)

// NormalizeRenderEngine lower-cases and trims raw; unknown values are kept so
// Validate can report them.
func NormalizeRenderEngine(raw string) RenderEngine {
	if e, ok := renderEngines.Lookup(raw); ok {
		return e
	}
	return RenderEngine(normalization.Clean(raw))
}

var renderEngines = normalization.NewNormalizer(map[string]RenderEngine{
	"goldmark": RenderEngineGoldmark,
	"command":  RenderEngineCommand,
}, RenderEngineGoldmark)

// Valid reports whether e names a supported engine.
func (e RenderEngine) Valid() bool {
	_, ok := renderEngines.Lookup(string(e))
	return ok
}

// RenderEngineNames lists the accepted engine names.
func RenderEngineNames() []string { return renderEngines.Keys() }

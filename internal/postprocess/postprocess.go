// Package postprocess applies the final text substitutions to converted HTML
// and writes the page to the output directory.
package postprocess

import (
	"log/slog"
	"path/filepath"
	"regexp"

	"git.home.luguber.info/inful/ndocs/internal/config"
	"git.home.luguber.info/inful/ndocs/internal/fileops"
	derrors "git.home.luguber.info/inful/ndocs/internal/foundation/errors"
	"git.home.luguber.info/inful/ndocs/internal/logfields"
)

type substitution struct {
	re      *regexp.Regexp
	replace []byte
}

// Processor holds an ordered list of compiled substitutions.
type Processor struct {
	subs []substitution
}

// New compiles subs in order. Replacement strings may reference capture
// groups with $1 or ${name}.
func New(subs []config.Substitution) (*Processor, error) {
	p := &Processor{subs: make([]substitution, 0, len(subs))}
	for i, s := range subs {
		re, err := regexp.Compile(s.Pattern)
		if err != nil {
			return nil, derrors.WrapError(err, derrors.CategoryConfig, "invalid substitution pattern").
				WithContext("index", i).
				WithContext("pattern", s.Pattern).
				Fatal().
				Build()
		}
		p.subs = append(p.subs, substitution{re: re, replace: []byte(s.Replace)})
	}
	return p, nil
}

// Apply runs every substitution over html, each on the output of the previous.
func (p *Processor) Apply(html []byte) []byte {
	out := html
	for _, s := range p.subs {
		out = s.re.ReplaceAll(out, s.replace)
	}
	return out
}

// WriteFile applies the substitutions and stores the page as dir/name. The
// file is only replaced when its content changes. It returns the written path.
func (p *Processor) WriteFile(dir, name string, html []byte) (string, error) {
	if name == "" || filepath.Base(name) != name {
		return "", derrors.InternalError("output name must be a bare file name").
			WithContext("file", name).
			Build()
	}
	target := filepath.Join(dir, name)
	changed, err := fileops.ReplaceIfChanged(target, p.Apply(html))
	if err != nil {
		return "", err
	}
	if changed {
		slog.Info("Wrote page", logfields.File(target))
	} else {
		slog.Debug("Page unchanged", logfields.File(target))
	}
	return target, nil
}

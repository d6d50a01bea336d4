package commands

import (
	"context"
	"path/filepath"
	"strings"
	"time"

	"git.home.luguber.info/inful/ndocs/internal/config"
	"git.home.luguber.info/inful/ndocs/internal/convert"
	"git.home.luguber.info/inful/ndocs/internal/prevnext"
	"git.home.luguber.info/inful/ndocs/internal/watch"
)

// WatchCmd implements the 'watch' command.
type WatchCmd struct {
	Debounce time.Duration `help:"Quiet period before re-running after a change" default:"500ms"`
	NoNav    bool          `name:"no-nav" help:"Do not watch navigation directories"`
}

func (w *WatchCmd) Run(g *Global, root *CLI) error {
	cfg, err := root.LoadConfig()
	if err != nil {
		return err
	}

	sink := newMetricsSink(cfg)
	pipeline, err := BuildPipeline(cfg, sink.recorder)
	if err != nil {
		return err
	}
	targets := []watch.Target{convertTarget(cfg, pipeline)}
	if !w.NoNav {
		stitcher := prevnext.NewStitcher(prevnext.WithRecorder(sink.recorder))
		for _, dir := range cfg.Navigation.Dirs {
			targets = append(targets, navTarget(g, stitcher, dir, cfg.Navigation.TopicList))
		}
	}

	watcher, err := watch.New(w.Debounce, nil, targets...)
	if err != nil {
		return err
	}
	ctx, cancel := signalContext()
	defer cancel()
	return sink.finish(watcher.Run(ctx))
}

// convertTarget re-converts only the documents whose sources changed.
func convertTarget(cfg *config.Config, pipeline *convert.Pipeline) watch.Target {
	docs := pipeline.Documents()
	bySource := make(map[string]string, len(docs))
	dirSet := map[string]bool{}
	var dirs []string
	for _, doc := range docs {
		src := filepath.Join(cfg.SourceTree, filepath.FromSlash(doc))
		if abs, err := filepath.Abs(src); err == nil {
			src = abs
		}
		bySource[src] = doc
		dir := filepath.Dir(src)
		if !dirSet[dir] {
			dirSet[dir] = true
			dirs = append(dirs, dir)
		}
	}

	return watch.Target{
		Name: "convert",
		Dirs: dirs,
		Match: func(path string) bool {
			_, ok := bySource[path]
			return ok
		},
		Run: func(ctx context.Context, changed []string) error {
			if changed == nil {
				return pipeline.Run(ctx, []string{convert.AllToken})
			}
			for _, path := range changed {
				if _, err := pipeline.ConvertDocument(ctx, bySource[path]); err != nil {
					return err
				}
			}
			return nil
		},
	}
}

// navTarget re-stitches a navigation directory when its topic list or one
// of its pages changes. The stitcher's own no-op passes write nothing, so
// they raise no further events.
func navTarget(g *Global, stitcher *prevnext.Stitcher, dir, listName string) watch.Target {
	return watch.Target{
		Name: "prevnext:" + dir,
		Dirs: []string{dir},
		Match: func(path string) bool {
			base := filepath.Base(path)
			return base == listName || strings.HasSuffix(base, ".html")
		},
		Run: func(_ context.Context, _ []string) error {
			return stitchDirs(g, stitcher, []string{dir}, listName, false)
		},
	}
}

package commands

import (
	"fmt"
	"log/slog"

	"git.home.luguber.info/inful/ndocs/internal/config"
	derrors "git.home.luguber.info/inful/ndocs/internal/foundation/errors"
	"git.home.luguber.info/inful/ndocs/internal/prevnext"
)

// PrevnextCmd implements the 'prevnext' command.
type PrevnextCmd struct {
	Dirs   []string `arg:"" optional:"" name:"dir" help:"Directories holding a topic list (default: navigation.dirs)"`
	List   string   `help:"Topic list file name (overrides navigation.topic_list)"`
	DryRun bool     `name:"dry-run" help:"Report which pages would change without writing them"`
}

func (p *PrevnextCmd) Run(g *Global, root *CLI) error {
	cfg, err := root.LoadConfig()
	if err != nil {
		return err
	}
	dirs, listName := p.targets(cfg)
	if len(dirs) == 0 {
		// Navigation problems, usage included, exit with 1.
		return derrors.NavigationError("Usage: prevnext <subdir>...").Build()
	}

	sink := newMetricsSink(cfg)
	stitcher := prevnext.NewStitcher(
		prevnext.WithLogger(slog.Default()),
		prevnext.WithDryRun(p.DryRun),
		prevnext.WithRecorder(sink.recorder),
	)
	return sink.finish(stitchDirs(g, stitcher, dirs, listName, p.DryRun))
}

func (p *PrevnextCmd) targets(cfg *config.Config) ([]string, string) {
	dirs := p.Dirs
	if len(dirs) == 0 {
		dirs = cfg.Navigation.Dirs
	}
	listName := cfg.Navigation.TopicList
	if p.List != "" {
		listName = p.List
	}
	return dirs, listName
}

func stitchDirs(g *Global, stitcher *prevnext.Stitcher, dirs []string, listName string, dryRun bool) error {
	for _, dir := range dirs {
		report, err := stitcher.StitchDir(dir, listName)
		if err != nil {
			return err
		}
		verb := "changed"
		if dryRun {
			verb = "would change"
		}
		if g.Stdout != nil {
			_, _ = fmt.Fprintf(g.Stdout, "%s: %d %s, %d unchanged, %d without marker\n",
				dir, len(report.Changed), verb, len(report.Unchanged), len(report.MissingMarker))
		}
	}
	return nil
}

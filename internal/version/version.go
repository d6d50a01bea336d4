// Package version reports the ndocs build identity.
package version

import (
	"fmt"
	"runtime/debug"
)

// Version, GitCommit and BuildTime are set with -ldflags, for example
// -X git.home.luguber.info/inful/ndocs/internal/version.Version=v0.4.0.
// Values left at "unknown" are filled from the embedded build info.
var (
	Version   = "unknown"
	GitCommit = "unknown"
	BuildTime = "unknown"
)

// String renders the version line printed by --version.
func String() string {
	v, commit, built := Version, GitCommit, BuildTime
	if info, ok := debug.ReadBuildInfo(); ok {
		v, commit, built = fromBuildInfo(info, v, commit, built)
	}
	return fmt.Sprintf("ndocs %s (commit %s, built %s)", v, commit, built)
}

func fromBuildInfo(info *debug.BuildInfo, v, commit, built string) (string, string, string) {
	if v == "unknown" && info.Main.Version != "" && info.Main.Version != "(devel)" {
		v = info.Main.Version
	}
	for _, s := range info.Settings {
		switch {
		case s.Key == "vcs.revision" && commit == "unknown":
			commit = s.Value
			if len(commit) > 12 {
				commit = commit[:12]
			}
		case s.Key == "vcs.time" && built == "unknown":
			built = s.Value
		}
	}
	return v, commit, built
}

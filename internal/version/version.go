// Package version holds build information injected at link time.
package version

import (
	"fmt"
	"runtime"
	"runtime/debug"
)

var (
	Version   = "0.1.0-dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
	GoVersion = runtime.Version()
)

// Info is a snapshot of the build metadata.
type Info struct {
	Version   string
	BuildTime string
	GitCommit string
	GoVersion string
}

func SetInfo(v, bt, gc, gv string) {
	if v != "" {
		Version = v
	}
	if bt != "" {
		BuildTime = bt
	}
	if gc != "" {
		GitCommit = gc
	}
	if gv != "" {
		GoVersion = gv
	}
}

// Get returns the current build info. Fields left unset by ldflags are
// filled from the VCS stamp embedded by the Go toolchain when available.
func Get() Info {
	info := Info{
		Version:   Version,
		BuildTime: BuildTime,
		GitCommit: GitCommit,
		GoVersion: GoVersion,
	}

	bi, ok := debug.ReadBuildInfo()
	if !ok {
		return info
	}
	for _, s := range bi.Settings {
		switch s.Key {
		case "vcs.revision":
			if info.GitCommit == "unknown" && s.Value != "" {
				info.GitCommit = shortRevision(s.Value)
			}
		case "vcs.time":
			if info.BuildTime == "unknown" && s.Value != "" {
				info.BuildTime = s.Value
			}
		}
	}
	return info
}

func shortRevision(rev string) string {
	if len(rev) > 12 {
		return rev[:12]
	}
	return rev
}

// UserAgent is sent with every Discord REST request.
func UserAgent() string {
	return fmt.Sprintf("DiscordBot (https://github.com/aatumaykin/bearobot, %s)", Version)
}

// String renders the multi-line block printed by the version command.
func String() string {
	info := Get()
	return fmt.Sprintf("Bearobot - Discord moderation bot\nVersion: %s\nBuild Time: %s\nGit Commit: %s\nGo Version: %s",
		info.Version, info.BuildTime, info.GitCommit, info.GoVersion)
}

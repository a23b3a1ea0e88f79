// Package version reports build information stamped by the Go toolchain.
package version

import (
	"fmt"
	"runtime/debug"
	"time"
)

var (
	Tag      string
	Revision string
	BuildAt  string
	Dirty    bool
)

func init() {
	buildInfo, ok := debug.ReadBuildInfo()
	if !ok {
		return
	}
	if Tag == "" && buildInfo.Main.Version != "" && buildInfo.Main.Version != "(devel)" {
		Tag = buildInfo.Main.Version
	}

	for _, setting := range buildInfo.Settings {
		// https://pkg.go.dev/runtime/debug#BuildSetting
		switch setting.Key {
		case "vcs.revision":
			Revision = setting.Value
		case "vcs.time":
			BuildAt = setting.Value
		case "vcs.modified":
			Dirty = setting.Value == "true"
		}
	}
}

// String formats the build info, or "dev" for go run builds.
func String() string {
	return format(Tag, Revision, BuildAt, Dirty)
}

func format(tag, revision, buildAt string, dirty bool) string {
	if revision == "" {
		return "dev"
	}
	if len(revision) > 7 {
		revision = revision[:7]
	}
	if t, err := time.Parse(time.RFC3339, buildAt); err == nil {
		buildAt = t.Format("2006-01-02 15:04:05")
	}

	s := revision
	if tag != "" {
		s = tag + " " + s
	}
	if buildAt != "" {
		s = fmt.Sprintf("%s at %s", s, buildAt)
	}
	if dirty {
		s += " dirty"
	}
	return s
}

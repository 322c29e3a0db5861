// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package version

import (
	"fmt"
	"runtime"
	"runtime/debug"
)

// Set with, for example:
//
//	go build -ldflags "-X github.com/bureau-foundation/dynofleet/lib/version.GitCommit=$(git rev-parse --short HEAD)"
var (
	GitCommit = "unknown"
	GitDirty  = "false"
	BuildTime = "unknown"
	Version   = "0.1.0-dev"
)

// BuildInfo is the structured version of a binary.
type BuildInfo struct {
	Version   string `json:"version" cbor:"version"`
	Commit    string `json:"commit" cbor:"commit"`
	Dirty     bool   `json:"dirty" cbor:"dirty"`
	BuildTime string `json:"build_time" cbor:"build_time"`
	GoVersion string `json:"go_version" cbor:"go_version"`
	Platform  string `json:"platform" cbor:"platform"`
}

// Current returns the running binary's build information.
func Current() BuildInfo {
	info := BuildInfo{
		Version:   Version,
		Commit:    GitCommit,
		Dirty:     GitDirty == "true",
		BuildTime: BuildTime,
		GoVersion: runtime.Version(),
		Platform:  runtime.GOOS + "/" + runtime.GOARCH,
	}
	if info.Commit == "unknown" {
		if build, ok := debug.ReadBuildInfo(); ok {
			applyVCSSettings(&info, build.Settings)
		}
	}
	return info
}

func applyVCSSettings(info *BuildInfo, settings []debug.BuildSetting) {
	for _, setting := range settings {
		switch setting.Key {
		case "vcs.revision":
			info.Commit = setting.Value
			if len(info.Commit) > 12 {
				info.Commit = info.Commit[:12]
			}
		case "vcs.modified":
			info.Dirty = setting.Value == "true"
		case "vcs.time":
			if info.BuildTime == "unknown" {
				info.BuildTime = setting.Value
			}
		}
	}
}

// String formats info as "0.1.0-dev (abc1234-dirty, 2026-...)".
func (info BuildInfo) String() string {
	dirty := ""
	if info.Dirty {
		dirty = "-dirty"
	}
	return fmt.Sprintf("%s (%s%s, %s)", info.Version, info.Commit, dirty, info.BuildTime)
}

// Info returns the --version line.
func Info() string {
	return Current().String()
}

// Full is Info plus the Go toolchain and platform.
func Full() string {
	info := Current()
	return fmt.Sprintf("%s\n  Go: %s\n  Platform: %s", info, info.GoVersion, info.Platform)
}

// Short returns just the version number.
func Short() string {
	return Version
}

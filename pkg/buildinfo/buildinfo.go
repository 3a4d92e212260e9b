// Package buildinfo exposes the version stamped into the repokit binary.
package buildinfo

import (
	"runtime"
	"runtime/debug"
)

// BinaryVersion is set at build time via -ldflags. Defaults to "dev".
var BinaryVersion = "dev"

// ModuleVersion returns the module version embedded by the Go toolchain (when available).
func ModuleVersion() string {
	if info, ok := debug.ReadBuildInfo(); ok && info.Main.Version != "" {
		return info.Main.Version
	}
	return ""
}

// Version prefers the ldflags value and falls back to the module version
// recorded by `go install`.
func Version() string {
	if BinaryVersion != "" && BinaryVersion != "dev" {
		return BinaryVersion
	}
	if v := ModuleVersion(); v != "" && v != "(devel)" {
		return v
	}
	return "dev"
}

// UserAgent is the product identifier sent to the GitHub API.
func UserAgent() string {
	return "repokit/" + Version()
}

// Info is the extended version report.
type Info struct {
	Version   string `json:"version"`
	Module    string `json:"module,omitempty"`
	GoVersion string `json:"goVersion"`
	Platform  string `json:"platform"`
	Arch      string `json:"arch"`
}

// Collect gathers the extended version report.
func Collect() Info {
	return Info{
		Version:   Version(),
		Module:    ModuleVersion(),
		GoVersion: runtime.Version(),
		Platform:  runtime.GOOS,
		Arch:      runtime.GOARCH,
	}
}

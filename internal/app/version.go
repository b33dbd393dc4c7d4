// Package app wires the mpcalc CLI together: configuration, dispatch
// between evaluate/server/REPL/calibrate modes, and version reporting.
package app

import (
	"fmt"
	"io"
	"runtime"
)

// Release metadata, injected at build time with -ldflags, for example:
//
//	go build -ldflags="-X github.com/agbru/mpcalc/internal/app.Version=v1.2.3 -X github.com/agbru/mpcalc/internal/app.Commit=abc123 -X github.com/agbru/mpcalc/internal/app.BuildDate=2025-01-01T00:00:00Z"
var (
	// Version is the release tag, "dev" for local builds.
	Version = "dev"
	// Commit is the short Git hash of the build.
	Commit = "unknown"
	// BuildDate is the ISO 8601 build timestamp.
	BuildDate = "unknown"
)

// HasVersionFlag scans args for a version flag in any position, so
// "mpcalc --server --version" still prints the version and exits.
func HasVersionFlag(args []string) bool {
	for _, arg := range args {
		if arg == "--version" || arg == "-version" || arg == "-V" {
			return true
		}
	}
	return false
}

// PrintVersion writes the release metadata plus the Go runtime and
// platform the binary was built for.
func PrintVersion(out io.Writer) {
	fmt.Fprintf(out, "mpcalc %s\n", Version)
	fmt.Fprintf(out, "  Commit:     %s\n", Commit)
	fmt.Fprintf(out, "  Built:      %s\n", BuildDate)
	fmt.Fprintf(out, "  Go version: %s\n", runtime.Version())
	fmt.Fprintf(out, "  OS/Arch:    %s/%s\n", runtime.GOOS, runtime.GOARCH)
}

// VersionData is the JSON-taggable form of the version report, for
// callers that want the metadata as a value rather than printed text.
type VersionData struct {
	Version   string `json:"version"`
	Commit    string `json:"commit"`
	BuildDate string `json:"build_date"`
	GoVersion string `json:"go_version"`
	OS        string `json:"os"`
	Arch      string `json:"arch"`
}

// GetVersionInfo snapshots the current version metadata.
func GetVersionInfo() VersionData {
	return VersionData{
		Version:   Version,
		Commit:    Commit,
		BuildDate: BuildDate,
		GoVersion: runtime.Version(),
		OS:        runtime.GOOS,
		Arch:      runtime.GOARCH,
	}
}

// Package contracts holds the shared domain types and version metadata
// exchanged between the engine, transport, and tooling.
package contracts

import (
	"fmt"
	"runtime"
)

const (
	// Version is the current version of the application.
	Version = "1.0.0"

	// DataFormatVersion is the version of the exported data format.
	DataFormatVersion = "v1"
)

// VersionInfo describes the running build.
type VersionInfo struct {
	Version           string `json:"version"`
	DataFormatVersion string `json:"data_format_version"`
	GoVersion         string `json:"go_version"`
	Platform          string `json:"platform"`
}

// GetVersionInfo returns the build's version metadata.
func GetVersionInfo() VersionInfo {
	return VersionInfo{
		Version:           Version,
		DataFormatVersion: DataFormatVersion,
		GoVersion:         runtime.Version(),
		Platform:          fmt.Sprintf("%s/%s", runtime.GOOS, runtime.GOARCH),
	}
}

// Package version holds the build version of pinwarden.
package version

import "strings"

// Version is set at build time:
//
//	-ldflags "-X github.com/xdg/pinwarden/internal/version.Version=v1.0.0"
var Version = "dev"

// Short returns Version without a leading "v", the form reported to
// GETINFO version.
func Short() string {
	return strings.TrimPrefix(Version, "v")
}

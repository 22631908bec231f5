//
// robocide-go - UCI chess engine in Go
//
// MIT License
//

// Package version holds the build identity reported by the "version" CLI
// flag and the UCI "id name"/"id author" handshake. appVersion/buildDate/
// gitCommit are meant to be set with -ldflags "-X" at build time; the
// zero-value defaults below are what a plain "go build" produces.
package version

import "fmt"

var (
	appVersion = "0.1.0-dev"
	gitCommit  = "unknown"
	buildDate  = "unknown"
)

// Version returns a single-line identity string suitable for the UCI
// "id name" response and the "-version" CLI flag.
func Version() string {
	if gitCommit == "unknown" {
		return appVersion
	}
	return fmt.Sprintf("%s (%s, built %s)", appVersion, gitCommit, buildDate)
}

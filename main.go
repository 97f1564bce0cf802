// readme-stats rewrites the generated sections of a GitHub profile README
// from live GitHub data and saves the underlying numbers as JSON.
//
// Usage:
//
//	GH_TOKEN=... readme-stats build --readme README.md --json github_overview.json
package main

import (
	"github.com/naka-gawa/readme-stats/cmd"
)

// Version can be overridden at build time using:
//
//	go build -ldflags="-X main.Version=v1.0.0"
var Version = "dev"

func main() {
	cmd.Version = Version
	cmd.Execute()
}

package cmd

import (
	"errors"
	"fmt"
	"os"
	"runtime/debug"
	"time"

	"github.com/spf13/cobra"
)

// shortRevisionLen is how much of the VCS revision a pseudo version keeps.
const shortRevisionLen = 12

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Prints the council CLI version.",
	Run:   Version,
}

// Version is the cobra handler for `council version`.
func Version(_ *cobra.Command, _ []string) {
	info, ok := debug.ReadBuildInfo()
	if !ok {
		fmt.Fprintln(os.Stderr, "could not read build info")
		os.Exit(1)
	}
	v, err := versionFrom(info)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	fmt.Println(v)
}

// versionFrom prefers the module version and falls back to a pseudo
// version of the form 0.0.0-<revision>-<yyyymmddhhmmss> built from the VCS
// stamp, see https://go.dev/ref/mod#pseudo-versions.
func versionFrom(info *debug.BuildInfo) (string, error) {
	if v := info.Main.Version; v != "" && v != "(devel)" {
		return v, nil
	}

	settings := make(map[string]string, len(info.Settings))
	for _, s := range info.Settings {
		settings[s.Key] = s.Value
	}
	revision, stamp := settings["vcs.revision"], settings["vcs.time"]
	if revision == "" && stamp == "" {
		return "", errors.New("version information is not available")
	}

	v := "0.0.0"
	if revision != "" {
		v += "-" + revision[:min(shortRevisionLen, len(revision))]
	}
	if at, err := time.Parse(time.RFC3339, stamp); err == nil {
		v += "-" + at.UTC().Format("20060102150405")
	}
	return v, nil
}

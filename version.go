package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"gitlab.com/tinyland/lab/hostpulse/docs/manpage"
)

// Build-time variables, set via ldflags:
//
//	go build -ldflags "-X main.version=0.3.0 -X main.commit=$(git rev-parse --short HEAD) -X main.date=$(date -u +%Y-%m-%dT%H:%M:%SZ)"
var (
	version = "0.3.0"
	commit  = "dev"
	date    = "unknown"
)

func versionString() string {
	return fmt.Sprintf("hostpulse %s (%s) built %s", version, commit, date)
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:         "version",
		Short:       "Print version and exit",
		Args:        cobra.NoArgs,
		Annotations: map[string]string{skipSetup: "true"},
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintln(cmd.OutOrStdout(), versionString())
		},
	}
}

func manCmd() *cobra.Command {
	return &cobra.Command{
		Use:         "man",
		Short:       "Print the man page in roff format",
		Args:        cobra.NoArgs,
		Annotations: map[string]string{skipSetup: "true"},
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprint(cmd.OutOrStdout(), manpage.Generate(cmd.Root(), version, commit, date))
		},
	}
}

package main

import (
	"fmt"
	"io"

	"emperror.dev/errors"
	"github.com/spf13/cobra"

	"gitlab.com/tinyland/lab/hostpulse/display/tui"
)

func keysCmd() *cobra.Command {
	var mode, format string

	cmd := &cobra.Command{
		Use:         "keys",
		Short:       "List dashboard keybindings",
		Args:        cobra.NoArgs,
		Annotations: map[string]string{skipSetup: "true"},
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runKeysCommand(cmd.OutOrStdout(), mode, format)
		},
	}

	cmd.Flags().StringVar(&mode, "mode", "", "only list one mode: global, processes or settings")
	cmd.Flags().StringVar(&format, "format", "table", "output format: table or json")
	return cmd
}

// runKeysCommand prints keybindings, optionally filtered to one mode.
func runKeysCommand(w io.Writer, mode, format string) error {
	reg := tui.DefaultRegistry()

	switch format {
	case "json":
		entries := reg.FormatJSON()
		if mode != "" {
			entries = filterJSONByMode(entries, mode)
		}
		return writeJSON(w, entries)

	case "table", "":
		if mode != "" {
			filtered := reg.ByMode(tui.KeyMode(mode))
			if len(filtered) == 0 {
				return errors.NewWithDetails("no bindings found for mode", "mode", mode)
			}
			reg = &tui.KeyRegistry{Entries: filtered}
		}
		fmt.Fprint(w, reg.FormatTable())
		return nil
	}

	return errors.NewWithDetails("unknown format", "format", format)
}

// filterJSONByMode filters FormatJSON entries by mode name.
func filterJSONByMode(entries []map[string]string, mode string) []map[string]string {
	var result []map[string]string
	for _, e := range entries {
		if e["mode"] == mode {
			result = append(result, e)
		}
	}
	return result
}

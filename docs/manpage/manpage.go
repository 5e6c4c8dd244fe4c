// Package manpage generates a roff-formatted man page for hostpulse.
//
// Commands and flags are read from the cobra command tree and keybindings
// from the TUI KeyRegistry, so the page always matches the binary.
//
// Usage:
//
//	hostpulse man | man -l -
//	hostpulse man > ~/.local/share/man/man1/hostpulse.1
package manpage

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"gitlab.com/tinyland/lab/hostpulse/display/tui"
)

// Generate produces a complete man(1) page for root. The version, commit
// and date come from the build-time linker variables.
func Generate(root *cobra.Command, version, commit, date string) string {
	var b strings.Builder

	writeHeader(&b, version)
	writeName(&b)
	writeSynopsis(&b)
	writeDescription(&b)
	writeGlobalOptions(&b, root)
	writeCommands(&b, root)
	writeKeybindings(&b)
	writeConfiguration(&b)
	writeEndpoints(&b)
	writeFiles(&b)
	writeEnvironment(&b)
	writeExitStatus(&b)
	writeFooter(&b, version, commit, date)

	return b.String()
}

// roffEscape escapes special roff characters in a string.
func roffEscape(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, `-`, `\-`)
	s = strings.ReplaceAll(s, `.`, `\&.`)
	return s
}

func writeHeader(b *strings.Builder, version string) {
	month := time.Now().Format("January 2006")
	fmt.Fprintf(b, ".TH HOSTPULSE 1 \"%s\" \"hostpulse %s\" \"User Commands\"\n", month, version)
}

func writeName(b *strings.Builder) {
	b.WriteString(`.SH NAME
hostpulse \- live host resource monitor
`)
}

func writeSynopsis(b *strings.Builder) {
	b.WriteString(`.SH SYNOPSIS
.B hostpulse
[\fIGLOBAL OPTIONS\fR] [\fICOMMAND\fR] [\fIOPTIONS\fR]
`)
}

func writeDescription(b *strings.Builder) {
	b.WriteString(`.SH DESCRIPTION
.B hostpulse
samples CPU, memory, disk and network utilization and the process list at a
fixed interval. Each sample is published as one consistent state that
readers see in full or not at all.
.PP
A metric that cannot be read keeps its previous value and is listed as
unavailable until it recovers. The last 60 CPU samples are kept for trend
display.
.PP
Without a command,
.B hostpulse
opens the interactive dashboard.
`)
}

// writeFlags renders one .TP entry per visible flag in fs.
func writeFlags(b *strings.Builder, fs *pflag.FlagSet) {
	fs.VisitAll(func(f *pflag.Flag) {
		if f.Hidden || f.Name == "help" {
			return
		}
		b.WriteString(".TP\n")
		name := roffEscape(f.Name)
		if f.Value.Type() != "bool" {
			fmt.Fprintf(b, ".BR \\-\\-%s \" \\fI%s\\fR\"\n", name, strings.ToUpper(f.Value.Type()))
		} else {
			fmt.Fprintf(b, ".B \\-\\-%s\n", name)
		}
		usage := roffEscape(f.Usage)
		if f.DefValue != "" && f.DefValue != "false" {
			usage += fmt.Sprintf(" Default: %s.", roffEscape(f.DefValue))
		}
		b.WriteString(usage + "\n")
	})
}

func writeGlobalOptions(b *strings.Builder, root *cobra.Command) {
	b.WriteString(".SH GLOBAL OPTIONS\n")
	writeFlags(b, root.PersistentFlags())
}

func writeCommands(b *strings.Builder, root *cobra.Command) {
	b.WriteString(".SH COMMANDS\n")

	var walk func(cmd *cobra.Command, prefix string)
	walk = func(cmd *cobra.Command, prefix string) {
		subs := cmd.Commands()
		sort.Slice(subs, func(i, j int) bool { return subs[i].Name() < subs[j].Name() })
		for _, sub := range subs {
			if sub.Hidden || sub.Name() == "help" || sub.Name() == "completion" {
				continue
			}
			name := strings.TrimSpace(prefix + " " + sub.Name())
			fmt.Fprintf(b, ".SS %s\n%s\n", roffEscape(name), roffEscape(sub.Short))
			if sub.HasLocalFlags() {
				writeFlags(b, sub.LocalFlags())
			}
			walk(sub, name)
		}
	}
	walk(root, "")
}

func writeKeybindings(b *strings.Builder) {
	b.WriteString(`.SH KEYBINDINGS
Keys available in the interactive dashboard.
`)

	registry := tui.DefaultRegistry()

	modes := []struct {
		mode tui.KeyMode
		name string
		desc string
	}{
		{tui.ModeGlobal, "Global", "Active on every tab."},
		{tui.ModeProcesses, "Processes Tab", "Active while the process table is shown."},
		{tui.ModeSettings, "Settings Tab", "Active while the theme list is shown."},
	}
	categories := []struct {
		cat  tui.KeyCategory
		name string
	}{
		{tui.CategoryNavigation, "Navigation"},
		{tui.CategoryScroll, "Scrolling"},
		{tui.CategoryProcess, "Processes"},
		{tui.CategorySystem, "System"},
	}

	for _, m := range modes {
		entries := registry.ByMode(m.mode)
		if len(entries) == 0 {
			continue
		}
		fmt.Fprintf(b, ".SS %s\n%s\n", m.name, m.desc)

		for _, cat := range categories {
			var catEntries []tui.KeyEntry
			for _, e := range entries {
				if e.Category == cat.cat {
					catEntries = append(catEntries, e)
				}
			}
			if len(catEntries) == 0 {
				continue
			}

			fmt.Fprintf(b, ".PP\n\\fI%s:\\fR\n", cat.name)
			for _, e := range catEntries {
				keysStr := strings.Join(e.Binding.Keys(), ", ")
				fmt.Fprintf(b, ".TP\n.B %s\n%s\n", roffEscape(keysStr), e.Binding.Help().Desc)
			}
		}
	}
}

func writeConfiguration(b *strings.Builder) {
	b.WriteString(`.SH CONFIGURATION
Configuration is read from a YAML file. Missing keys take their defaults;
a missing file yields the defaults entirely.
.SS monitor
.TP
.B interval
Duration slept between ticks. Default: "2s".
.TP
.B disk_path
Filesystem whose usage is reported. Default: "/".
.TP
.B query_timeout
Bound on the OS queries of one tick. "0" disables it. Default: "0".
.SS log
.TP
.B level
One of debug, info, warn, error. Default: info.
.TP
.B file
Log file path. Empty means stderr for headless commands and no logging for
the dashboard.
.SS server
.TP
.B listen
host:port for \fBhostpulse serve\fR. Default: 127.0.0.1:9273.
.TP
.B allow_terminate
Enable the process termination endpoint. Default: false.
.SS display
.TP
.B process_rows
Rows in the process table. Default: 20.
.TP
.B sort
Initial process ordering: cpu, mem, pid or name. Default: cpu.
.TP
.B theme
Color preset: neon, monitoring or minimal. Default: neon.
`)
}

func writeEndpoints(b *strings.Builder) {
	b.WriteString(`.SH HTTP ENDPOINTS
Served by \fBhostpulse serve\fR.
.TP
.B GET /metrics
Prometheus exposition of the published state.
.TP
.B GET /healthz
200 once a sample is published and fresh, 503 while pending or stale.
.TP
.B GET /api/state
The full published state as JSON.
.TP
.B GET /api/history
The CPU history, oldest first.
.TP
.B GET /api/info
Static host information.
.TP
.B GET /api/processes
The process table. Accepts \fBsort\fR and \fBlimit\fR query parameters.
.TP
.B POST /api/processes/{pid}/terminate
Request termination of a process. Disabled unless \fBallow_terminate\fR is set.
`)
}

func writeFiles(b *strings.Builder) {
	b.WriteString(`.SH FILES
.TP
.I ~/.config/hostpulse/config.yaml
Default configuration file.
`)
}

func writeEnvironment(b *strings.Builder) {
	b.WriteString(`.SH ENVIRONMENT
.TP
.B HOSTPULSE_CONFIG
Configuration file path, used when \fB\-\-config\fR is not given.
.TP
.B XDG_CONFIG_HOME
Base directory for the default configuration file.
.TP
.B NO_COLOR
Disable colored output of headless commands.
`)
}

func writeExitStatus(b *strings.Builder) {
	b.WriteString(`.SH EXIT STATUS
.TP
.B 0
Success. For \fBhealth\fR, the exporter reported ok.
.TP
.B 1
Any error, including an unhealthy or unreachable exporter.
`)
}

func writeFooter(b *strings.Builder, version, commit, date string) {
	fmt.Fprintf(b, ".SH VERSION\nhostpulse %s (commit %s, built %s)\n", roffEscape(version), roffEscape(commit), roffEscape(date))
}

package main

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"emperror.dev/errors"
	"github.com/goccy/go-json"
	"github.com/spf13/cobra"

	"gitlab.com/tinyland/lab/hostpulse/exporter"
)

// healthTimeout bounds one /healthz request.
const healthTimeout = 5 * time.Second

// ErrUnhealthy is returned when the exporter answers but is not "ok".
var ErrUnhealthy = errors.Sentinel("exporter unhealthy")

func (c *cli) healthCmd() *cobra.Command {
	var (
		url    string
		asJSON bool
	)

	cmd := &cobra.Command{
		Use:   "health",
		Short: "Check a running exporter and exit non-zero unless it is healthy",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if url == "" {
				url = healthURL(c.cfg.Server.Listen)
			}
			ctx, cancel := context.WithTimeout(cmd.Context(), healthTimeout)
			defer cancel()

			status, err := fetchHealth(ctx, http.DefaultClient, url)
			if err != nil {
				return err
			}
			if asJSON {
				if err := writeJSON(cmd.OutOrStdout(), status); err != nil {
					return err
				}
			} else {
				writeHealth(cmd.OutOrStdout(), status)
			}
			if status.Status != "ok" {
				return errors.WithDetails(ErrUnhealthy, "status", status.Status)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&url, "url", "", "healthz URL (default: derived from server.listen)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the health response as JSON")
	return cmd
}

// healthURL builds the /healthz URL for a listen address. Wildcard hosts
// are replaced by loopback.
func healthURL(listen string) string {
	switch {
	case strings.HasPrefix(listen, ":"):
		listen = "127.0.0.1" + listen
	case strings.HasPrefix(listen, "0.0.0.0:"):
		listen = "127.0.0.1" + strings.TrimPrefix(listen, "0.0.0.0")
	case strings.HasPrefix(listen, "[::]:"):
		listen = "[::1]" + strings.TrimPrefix(listen, "[::]")
	}
	return "http://" + listen + "/healthz"
}

// fetchHealth queries url and decodes the health body. A 503 still carries a
// body describing why the sampler is not ok.
func fetchHealth(ctx context.Context, client *http.Client, url string) (exporter.HealthStatus, error) {
	var status exporter.HealthStatus

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return status, errors.WrapIfWithDetails(err, "build health request", "url", url)
	}
	resp, err := client.Do(req)
	if err != nil {
		return status, errors.WrapIfWithDetails(err, "exporter not reachable", "url", url)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusServiceUnavailable {
		return status, errors.NewWithDetails("unexpected health response", "url", url, "code", resp.StatusCode)
	}
	if err := json.NewDecoder(resp.Body).Decode(&status); err != nil {
		return status, errors.WrapIfWithDetails(err, "decode health response", "url", url)
	}
	return status, nil
}

// writeHealth prints a one-line summary plus any unavailable metrics.
func writeHealth(w io.Writer, s exporter.HealthStatus) {
	switch s.Status {
	case "pending":
		fmt.Fprintln(w, "pending: no sample published yet")
	default:
		fmt.Fprintf(w, "%s: tick %d, last sample %s ago\n", s.Status, s.Tick, s.Age)
	}
	if len(s.Unavailable) > 0 {
		fmt.Fprintf(w, "unavailable: %s\n", strings.Join(s.Unavailable, ", "))
	}
}

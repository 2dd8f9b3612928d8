package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/project57/simrai/internal/shared"
	"github.com/urfave/cli/v3"
)

func statusCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "status",
		Usage: "Check whether the server is running",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "addr",
				Usage: "Server address, overrides config",
			},
			&cli.BoolFlag{
				Name:    "json",
				Aliases: []string{"j"},
				Usage:   "Output raw JSON",
			},
		},
		Action: r.Status,
	}
}

// Status checks server health by calling the /health endpoint.
func (r *Runner) Status(ctx context.Context, cmd *cli.Command) error {
	addr := cmd.String("addr")
	if addr == "" {
		addr = r.config.Server.Addr()
	}

	r.logger.Info("checking server status", "addr", addr)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, "http://"+addr+"/health", nil)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}

	resp, err := r.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrServiceUnavailable, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("%w: status %d", shared.ErrServiceUnavailable, resp.StatusCode)
	}

	var health map[string]any
	if err := json.Unmarshal(body, &health); err != nil {
		return r.writePlain("✓ Server is healthy\nStatus: %s\n", string(body))
	}

	if cmd.Bool("json") {
		return r.writeJSON(health, true)
	}

	status, ok := health["status"].(string)
	if !ok {
		status = "unknown"
	}

	r.writePlain("✓ Server is healthy\n")
	return r.writePlain("Status: %s\n", status)
}

package main

import (
	"context"
	"fmt"

	"github.com/project57/simrai/internal/formatter"
	"github.com/project57/simrai/internal/repositories"
	"github.com/project57/simrai/internal/shared"
	"github.com/urfave/cli/v3"
)

func historyCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "history",
		Usage: "List playlists created through the API",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "user",
				Aliases: []string{"u"},
				Usage:   "Filter by Spotify user ID",
			},
			&cli.StringFlag{
				Name:    "format",
				Aliases: []string{"f"},
				Usage:   "Output format: text, json, csv, markdown",
				Value:   "text",
			},
			&cli.StringFlag{
				Name:    "output",
				Aliases: []string{"o"},
				Usage:   "Base path for csv/markdown file output",
			},
		},
		Action: r.History,
	}
}

// History prints or exports the playlist history from the local database.
func (r *Runner) History(ctx context.Context, cmd *cli.Command) error {
	db, err := shared.NewDatabase(r.config.Database.Path)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	repo := repositories.NewPlaylistRepository(db)

	criteria := map[string]any{}
	if user := cmd.String("user"); user != "" {
		criteria["user_id"] = user
	}

	playlists, err := repo.List(criteria)
	if err != nil {
		return fmt.Errorf("failed to list playlists: %w", err)
	}

	switch cmd.String("format") {
	case "json":
		records := make([]map[string]any, 0, len(playlists))
		for _, playlist := range playlists {
			records = append(records, map[string]any{
				"sequence":    playlist.Sequence(),
				"name":        playlist.Name(),
				"spotify_id":  playlist.SpotifyID(),
				"url":         playlist.URL(),
				"track_count": playlist.TrackCount(),
				"public":      playlist.Public(),
				"created_at":  playlist.CreatedAt(),
			})
		}
		return r.writeJSON(records, true)
	case "csv":
		if output := cmd.String("output"); output != "" {
			path, err := formatter.WriteCSVExport(playlists, output)
			if err != nil {
				return err
			}
			return r.writePlain("History written to %s\n", path)
		}
		data, err := formatter.ExportToCSV(playlists)
		if err != nil {
			return err
		}
		return r.writePlain("%s", data)
	case "markdown":
		if output := cmd.String("output"); output != "" {
			path, err := formatter.WriteMarkdownExport(playlists, output, "")
			if err != nil {
				return err
			}
			return r.writePlain("History written to %s\n", path)
		}
		return r.writePlain("%s", formatter.ExportToMarkdown(playlists, ""))
	default:
		return r.writePlain("%s", formatter.ExportToText(playlists))
	}
}

// submodule cmd contains command definitions
package main

import "github.com/urfave/cli/v3"

// setupCommand handles configuration and database initialization.
func setupCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "setup",
		Usage: "Create config.toml, initialize the database and verify credentials",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to configuration file",
				Value:   "config.toml",
			},
		},
		Action: r.Setup,
	}
}

// authCommand handles catalog authentication operations
func authCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "auth",
		Usage: "Manage catalog authentication",
		Commands: []*cli.Command{
			{
				Name:  "login",
				Usage: "Authenticate with the catalog using OAuth2 + PKCE",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "no-browser",
						Usage: "Print the authorization URL instead of opening a browser",
					},
				},
				Action: r.AuthLogin,
			},
			{
				Name:   "logout",
				Usage:  "Discard the stored refresh token",
				Action: r.AuthLogout,
			},
			{
				Name:   "status",
				Usage:  "Check credential and session state",
				Action: r.AuthStatus,
			},
		},
	}
}

// searchCommand queries the catalog.
func searchCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "search",
		Usage: "Search the catalog for tracks, albums and artists",
		Arguments: []cli.Argument{
			&cli.StringArg{
				Name: "query",
			},
		},
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "type",
				Usage: "Comma-separated result types (track,album,artist)",
				Value: "track,album,artist",
			},
			&cli.BoolFlag{
				Name:  "json",
				Usage: "Output raw JSON",
			},
			&cli.BoolFlag{
				Name:  "pretty",
				Usage: "Pretty-print output",
				Value: true,
			},
		},
		Action: r.Search,
	}
}

// albumCommand shows an album's track listing.
func albumCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "album",
		Usage: "Show an album and its track listing",
		Arguments: []cli.Argument{
			&cli.StringArg{
				Name: "id",
			},
		},
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "json",
				Usage: "Output raw JSON",
			},
		},
		Action: r.Album,
	}
}

// profileCommand shows the authenticated user's profile.
func profileCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "profile",
		Usage: "Show the authenticated user's profile, playlists and top artists",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "json",
				Usage: "Output raw JSON",
			},
		},
		Action: r.Profile,
	}
}

// playlistCommand manages the virtual playlist.
func playlistCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "playlist",
		Aliases: []string{"pl"},
		Usage:   "Manage the virtual playlist",
		Commands: []*cli.Command{
			{
				Name:  "list",
				Usage: "List playlist entries and their statuses",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output raw JSON",
					},
				},
				Action: r.PlaylistList,
			},
			{
				Name:  "add",
				Usage: "Add a catalog track to the playlist",
				Arguments: []cli.Argument{
					&cli.StringArg{
						Name: "track-id",
					},
				},
				Action: r.PlaylistAdd,
			},
			{
				Name:  "add-album",
				Usage: "Add every track of a catalog album to the playlist",
				Arguments: []cli.Argument{
					&cli.StringArg{
						Name: "album-id",
					},
				},
				Action: r.PlaylistAddAlbum,
			},
			{
				Name:  "remove",
				Usage: "Remove an entry from the playlist",
				Arguments: []cli.Argument{
					&cli.StringArg{
						Name: "id",
					},
				},
				Action: r.PlaylistRemove,
			},
			{
				Name:   "clear",
				Usage:  "Remove all entries from the playlist",
				Action: r.PlaylistClear,
			},
			{
				Name:  "link",
				Usage: "Link a local audio file to a playlist entry",
				Arguments: []cli.Argument{
					&cli.StringArg{
						Name: "id",
					},
					&cli.StringArg{
						Name: "path",
					},
				},
				Action: r.PlaylistLink,
			},
			{
				Name:  "match",
				Usage: "Scan a directory and link files to entries by their tags",
				Arguments: []cli.Argument{
					&cli.StringArg{
						Name: "dir",
					},
				},
				Action: r.PlaylistMatch,
			},
			{
				Name:  "export",
				Usage: "Export the playlist to csv, markdown or text",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "format",
						Usage: "Export format (csv, markdown, text)",
						Value: "text",
					},
					&cli.StringFlag{
						Name:    "output",
						Aliases: []string{"o"},
						Usage:   "Output file or directory path",
					},
				},
				Action: r.PlaylistExport,
			},
		},
	}
}

// deviceCommand manages the player target.
func deviceCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "device",
		Usage: "Manage the player device",
		Commands: []*cli.Command{
			{
				Name:  "status",
				Usage: "Probe the device and report free space",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output raw JSON",
					},
				},
				Action: r.DeviceStatus,
			},
			{
				Name:  "set",
				Usage: "Set and persist the device address",
				Arguments: []cli.Argument{
					&cli.StringArg{
						Name: "address",
					},
				},
				Action: r.DeviceSet,
			},
			{
				Name:  "history",
				Usage: "Show the most recently synced tracks",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output raw JSON",
					},
				},
				Action: r.DeviceHistory,
			},
		},
	}
}

// syncCommand transfers the playlist to the device.
func syncCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:   "sync",
		Usage:  "Upload every ready playlist entry to the device",
		Action: r.Sync,
	}
}

// tuiCommand returns the top-level TUI command for interactive device sync.
func tuiCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "tui",
		Aliases: []string{"interactive", "ui"},
		Usage:   "Launch interactive TUI for playlist sync",
		Action:  r.TUI,
	}
}

package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"text/tabwriter"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/robalobadob/battleship/internal/config"
	"github.com/robalobadob/battleship/internal/history"
)

var configPath string

func newRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   "battleship",
		Short: "Battleship lobby server",
		Long: `Runs the Battleship lobby API and its results archive.

Examples:
  battleship serve
  battleship serve --config battleship.yaml
  battleship migrate
  battleship leaderboard --limit 5`,
		SilenceUsage: true,
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return serve(cmd.Context())
		},
	}

	root.PersistentFlags().StringVar(&configPath, "config", "", "Path to a config file (yaml, json or toml)")

	root.AddCommand(newServeCommand())
	root.AddCommand(newMigrateCommand())
	root.AddCommand(newLeaderboardCommand())
	return root
}

func newServeCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API (default)",
		RunE: func(cmd *cobra.Command, args []string) error {
			return serve(cmd.Context())
		},
	}
}

func newMigrateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or upgrade the results archive",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := setup()
			if err != nil {
				return err
			}
			if cfg.History.Path == "" {
				return fmt.Errorf("history.path is empty, nothing to migrate")
			}
			archive, err := history.Open(cmd.Context(), cfg.History.Path)
			if err != nil {
				return err
			}
			logger.Info().Str("path", cfg.History.Path).Msg("archive is up to date")
			return archive.Close()
		},
	}
}

func newLeaderboardCommand() *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "leaderboard",
		Short: "Print archived standings",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, _, err := setup()
			if err != nil {
				return err
			}
			if cfg.History.Path == "" {
				return fmt.Errorf("history.path is empty, no archive to read")
			}
			archive, err := history.Open(cmd.Context(), cfg.History.Path)
			if err != nil {
				return err
			}
			defer archive.Close()

			rows, err := archive.Leaderboard(cmd.Context(), limit)
			if err != nil {
				return err
			}
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(tw, "RANK\tPLAYER\tWINS\tGAMES")
			for i, r := range rows {
				fmt.Fprintf(tw, "%d\t%s\t%d\t%d\n", i+1, r.Name, r.Wins, r.GamesPlayed)
			}
			return tw.Flush()
		},
	}
	cmd.Flags().IntVar(&limit, "limit", 20, "Number of players to show")
	return cmd
}

// setup loads configuration and builds the process logger.
func setup() (*config.Config, zerolog.Logger, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, zerolog.Nop(), err
	}
	logger, err := cfg.Logging.NewLogger(os.Stderr)
	if err != nil {
		return nil, zerolog.Nop(), err
	}
	return cfg, logger, nil
}

func serve(parent context.Context) error {
	cfg, logger, err := setup()
	if err != nil {
		return err
	}
	if parent == nil {
		parent = context.Background()
	}
	ctx, stop := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
	defer stop()
	return run(ctx, cfg, logger)
}

// Command court-api runs the court service and its maintenance tasks: serving
// the REST and gRPC APIs, applying migrations, provisioning accounts and
// minting tokens.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"court-service/cmd/api/app"
	"court-service/cmd/api/server"
	"court-service/internal/config"
)

// cli carries what every subcommand needs once flags are parsed.
type cli struct {
	cfg *config.Config
	log *zap.Logger
}

func (c *cli) load(cmd *cobra.Command) error {
	path, _ := cmd.Flags().GetString("config")

	cfg, err := app.LoadConfig(path)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	l, err := app.NewLogger(cfg)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	c.cfg, c.log = cfg, l
	return nil
}

func (c *cli) sync() {
	if c.log != nil {
		_ = c.log.Sync()
	}
}

func newRootCommand(c *cli) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "court-api",
		Short:         "Court records, transcription and warrant service",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if c.cfg != nil {
				return nil
			}
			return c.load(cmd)
		},
	}
	rootCmd.PersistentFlags().StringP("config", "c", "", "Directory holding app.env (defaults to CONFIG_PATH or .)")

	rootCmd.AddCommand(
		serveCommand(c),
		migrateCommand(c),
		userCommand(c),
		tokenCommand(c),
	)
	return rootCmd
}

// serveCommand constructs the 'serve' subcommand that runs the REST and gRPC
// servers together with the job workers until SIGINT or SIGTERM.
func serveCommand(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Runs the REST and gRPC servers and the job workers",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := server.WithSignal(cmd.Context(), c.log)
			defer stop()

			a, err := app.New(ctx, c.cfg, c.log)
			if err != nil {
				return err
			}
			return a.Run(ctx)
		},
	}
}

func main() {
	c := &cli{}
	defer func() {
		if p := recover(); p != nil {
			if c.log != nil {
				c.log.Error("captured panic, exiting...", zap.Any("panic", p))
			}
			c.sync()
			panic(p)
		}
	}()

	err := newRootCommand(c).ExecuteContext(context.Background())
	if err != nil {
		if c.log != nil {
			c.log.Error("command failed", zap.Error(err))
		} else {
			fmt.Fprintln(os.Stderr, "error:", err)
		}
	}
	c.sync()
	if err != nil {
		os.Exit(1) //nolint: gocritic
	}
}

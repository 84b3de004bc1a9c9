package main

import (
	"fmt"
	stdLog "log"
	"os"
	"strconv"
	"time"

	"github.com/Astemirdum/library-management/library/app"
	"github.com/Astemirdum/library-management/library/config"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap/zapcore"
)

func main() {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		stdLog.Fatal("load envs from .env ", err)
	}
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func loadConfig() (*config.Config, error) {
	return config.NewConfig(
		config.WithLogLevel(zapcore.DebugLevel),
		config.WithWriteTimeout(time.Minute),
	)
}

func newRootCmd() *cobra.Command {
	serve := &cobra.Command{
		Use:   "serve",
		Short: "Run the library HTTP API",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			return app.Run(cfg)
		},
	}
	root := &cobra.Command{
		Use:          "library",
		Short:        "Library management service",
		SilenceUsage: true,
		RunE:         serve.RunE,
	}
	root.AddCommand(serve, newMigrateCmd(), newGrantAdminCmd())
	return root
}

func newMigrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:       "migrate [up|down|status|version]",
		Short:     "Apply database migrations",
		Args:      cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		ValidArgs: []string{"up", "down", "status", "version"},
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			return app.Migrate(cmd.Context(), cfg, args[0])
		},
	}
}

func newGrantAdminCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "grant-admin <member-id>",
		Short: "Give a member the admin role",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			memberID, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil || memberID <= 0 {
				return fmt.Errorf("invalid member id %q", args[0])
			}
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			return app.GrantAdmin(cmd.Context(), cfg, memberID)
		},
	}
}

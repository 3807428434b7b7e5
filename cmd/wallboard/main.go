package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"github.com/username/wallboard-shell/internal/config"
	"github.com/username/wallboard-shell/internal/ipc"
	"github.com/username/wallboard-shell/internal/shell"
	"go.uber.org/zap"
)

var (
	configPath string
	logger     *zap.Logger
)

func main() {
	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "wallboard",
		Short:         "Agent Wallboard desktop shell",
		Long:          "Runs the agent wallboard in a desktop window with a tray icon and native notifications",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			// Load config to get log file path
			cfg, err := config.Load(configPath)
			if err == nil && cfg.Log.File != "" {
				logger, err = initFileLogger(cfg.Log.File, cfg.Log.Level)
				if err != nil {
					initLogger() // Fallback to console
				}
			} else {
				initLogger() // Default console logger
			}
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if logger != nil {
				_ = logger.Sync()
			}
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(configPath)
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}

			s, err := shell.New(cfg, shell.Deps{}, logger)
			if err != nil {
				return fmt.Errorf("failed to initialize shell: %w", err)
			}

			logger.Info("Starting wallboard",
				zap.String("locale", cfg.GetLocale()),
				zap.Strings("statuses", cfg.Tray.GetStatuses()),
				zap.String("notifications", cfg.Notifications.Backend))

			return s.Run()
		},
	}

	cmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Config file path (default: ./config.yaml, $HOME/.wallboard, /etc/wallboard)")

	cmd.AddCommand(contractCmd())
	cmd.AddCommand(configCmd())

	return cmd
}

func contractCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "contract",
		Short: "Print the frontend IPC contract as JSON",
		RunE: func(cmd *cobra.Command, args []string) error {
			return writeJSON(cmd.OutOrStdout(), ipc.Describe())
		},
	}
}

func configCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Validate the configuration and print the effective values",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(configPath)
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}
			return writeJSON(cmd.OutOrStdout(), cfg)
		},
	}
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("failed to encode output: %w", err)
	}
	return nil
}

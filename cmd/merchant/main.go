package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/alovak/cardflow-accept/merchant"
	"github.com/spf13/cobra"
	"golang.org/x/exp/slog"
)

var Version = "dev"

func main() {
	if err := newRootCmd(os.Stdout, os.Stderr).Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd(stdout, stderr io.Writer) *cobra.Command {
	var configPath string

	rootCmd := &cobra.Command{
		Use:           "merchant",
		Short:         "Accept.js checkout backend for Authorize.Net",
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.SetOut(stdout)
	rootCmd.SetErr(stderr)
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "path to a YAML config file")

	load := func() (*merchant.Config, *slog.Logger, error) {
		cfg, err := merchant.LoadConfig(configPath)
		if err != nil {
			return nil, nil, err
		}
		logger := slog.New(slog.NewJSONHandler(stderr, &slog.HandlerOptions{Level: parseLevel(cfg.LogLevel)}))
		return cfg, logger, nil
	}

	rootCmd.AddCommand(serveCmd(load))
	rootCmd.AddCommand(chargeCmd(load))

	return rootCmd
}

type loader func() (*merchant.Config, *slog.Logger, error)

func parseLevel(s string) slog.Level {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

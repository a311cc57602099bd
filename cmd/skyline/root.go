package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/Sagar1ka/World-s-Tallest-Buildings/pkg/config"
	serrors "github.com/Sagar1ka/World-s-Tallest-Buildings/pkg/errors"
	"github.com/Sagar1ka/World-s-Tallest-Buildings/pkg/logging"
	"github.com/Sagar1ka/World-s-Tallest-Buildings/pkg/pipeline"
)

type rootOptions struct {
	configPath string
	logLevel   string
	outputDir  string
	quiet      bool
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	root := &cobra.Command{
		Use:   "skyline",
		Short: "Tallest buildings report generator",
		Long: `Skyline reads the tallest-buildings CSV and writes a workbook, a bar
chart, static and interactive maps, a PDF report and a run manifest.

Running skyline with no subcommand is the same as "skyline run".`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runReports(cmd, opts)
		},
	}

	root.PersistentFlags().StringVarP(&opts.configPath, "config", "c", "", "config file (default skyline.yaml)")
	root.PersistentFlags().StringVar(&opts.logLevel, "log-level", "", "log level: debug, info, warn, error")
	root.Flags().StringVarP(&opts.outputDir, "output", "o", "", "output directory")
	root.Flags().BoolVarP(&opts.quiet, "quiet", "q", false, "hide the progress bar")

	root.AddCommand(newRunCmd(opts), newInitCmd(opts), newVersionCmd())
	return root
}

func newRunCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Generate every report",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runReports(cmd, opts)
		},
	}
	cmd.Flags().StringVarP(&opts.outputDir, "output", "o", "", "output directory")
	cmd.Flags().BoolVarP(&opts.quiet, "quiet", "q", false, "hide the progress bar")
	return cmd
}

func newInitCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Write a default config file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			path := opts.configPath
			if path == "" {
				path = config.DefaultConfigPath()
			}
			written, err := config.InitConfig(path)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if !written {
				fmt.Fprintf(out, "Config already exists at: %s\n", path)
				return nil
			}
			fmt.Fprintf(out, "Config initialized at: %s\n", path)
			fmt.Fprintln(out, "Edit this file to change inputs, outputs and report parameters.")
			return nil
		},
	}
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "Skyline %s\n", version)
		},
	}
}

// loadConfig resolves the config file, .env and SKYLINE_* overrides, then
// the command-line flags.
func loadConfig(opts *rootOptions) (*config.Config, error) {
	if err := config.LoadDotEnv(".env"); err != nil {
		return nil, err
	}

	path := opts.configPath
	if path == "" {
		path = config.DefaultConfigPath()
	}
	cfg, err := config.LoadOrDefault(path)
	if err != nil {
		return nil, err
	}
	if err := cfg.ApplyEnv(); err != nil {
		return nil, err
	}

	if opts.logLevel != "" {
		cfg.Logging.Level = opts.logLevel
	}
	if opts.outputDir != "" {
		cfg.Output.Dir = opts.outputDir
	}
	return cfg, cfg.Validate()
}

func runReports(cmd *cobra.Command, opts *rootOptions) error {
	cfg, err := loadConfig(opts)
	if err != nil {
		return err
	}
	logging.Setup(cfg.Logging.Level, cfg.Logging.Format, os.Stderr)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	popts := pipeline.Options{Stdout: cmd.OutOrStdout(), Version: version}
	if !opts.quiet && serrors.IsTTY(os.Stderr) {
		popts.Progress = os.Stderr
	}

	_, err = pipeline.New(cfg, popts).Run(ctx)
	return err
}

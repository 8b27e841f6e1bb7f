package cmd

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/ideamans/leadgate/cmd/leadgate/cmd/server"
	"github.com/ideamans/leadgate/pkg/landing/config"
	"github.com/ideamans/leadgate/pkg/shared/logging"
)

// serveCmd represents the serve command
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the landing page server",
	Long: `Start the leadgate server with the specified configuration.

The server will:
- Load the configuration file (or development defaults when it is missing)
- Initialize session and cooldown storage (memory or Redis)
- Start a local stub form endpoint in development mode
- Serve the landing page, form API, downloads and metrics
- Reload the configuration when the file changes
- Handle graceful shutdown on SIGTERM/SIGINT`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	logger, closer, err := newLogger(cfgFile)
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	defer func() { _ = closer.Close() }()

	cfg := server.Config{
		ConfigPath: cfgFile,
		Host:       host,
		Port:       port,
		HostSet:    cmd.Flags().Changed("host"),
		PortSet:    cmd.Flags().Changed("port"),
		Logger:     logger,
		Version:    version,
	}

	return server.Run(context.Background(), cfg)
}

// newLogger builds the process logger from the logging section of the config
// file. When the file cannot be loaded the default console logger is used and
// the server reports the load error.
func newLogger(path string) (logging.Logger, io.Closer, error) {
	var logCfg config.LoggingConfig
	if path != "" {
		if appCfg, err := config.NewFileLoader(path).Load(); err == nil {
			logCfg = appCfg.Logging
		}
	}

	opts := logging.Options{
		Module: "main",
		Level:  logging.ParseLevel(logCfg.Level),
		Color:  logCfg.Color,
	}
	if logCfg.File != nil && logCfg.File.Path != "" {
		opts.File = &logging.FileRotationConfig{
			Path:       logCfg.File.Path,
			MaxSizeMB:  logCfg.File.MaxSizeMB,
			MaxBackups: logCfg.File.MaxBackups,
			MaxAge:     logCfg.File.MaxAge,
			Compress:   logCfg.File.Compress,
		}
	}

	logger, closer, err := logging.New(opts)
	if err != nil {
		return nil, nil, err
	}
	return logger, closer, nil
}

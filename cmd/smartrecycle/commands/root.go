package commands

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/vbonduro/smartrecycle/internal/config"
	"github.com/vbonduro/smartrecycle/internal/logging"
)

var (
	cfg    *config.Config
	logger *slog.Logger

	dbPath   string
	logLevel string

	closeLog  = func() {}
	newLogger = logging.New
)

func Execute() error {
	if err := execute(context.Background(), newRootCmd()); err != nil {
		fail(err.Error())
		return err
	}
	return nil
}

// execute runs root and closes the log file whether or not the command failed.
func execute(ctx context.Context, root *cobra.Command) error {
	defer func() {
		closeLog()
		closeLog = func() {}
	}()
	return root.ExecuteContext(ctx)
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "smartrecycle",
		Short:         "Municipal recycling guide and chatbot server",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg = config.Load()
			if dbPath != "" {
				cfg.DBPath = dbPath
			}
			if logLevel != "" {
				cfg.LogLevel = logLevel
			}

			l, cleanup, err := newLogger(cfg.LogLevel, cfg.LogFile, cfg.LogFormat)
			if err != nil {
				return fmt.Errorf("failed to initialize logger: %w", err)
			}
			logger = l
			closeLog = cleanup
			return nil
		},
	}

	root.PersistentFlags().StringVar(&dbPath, "db", "", "SQLite database path (overrides DB_PATH)")
	root.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level: debug, info, warn, error (overrides LOG_LEVEL)")

	root.AddCommand(serveCmd(), seedCmd(), lookupCmd(), guideCmd())
	return root
}

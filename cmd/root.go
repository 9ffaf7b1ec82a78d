package cmd

import (
	"log/slog"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/dhcgn/fbmessage-stats/config"
)

var (
	cfg         config.Config
	logger      *slog.Logger
	closeLogger = func() error { return nil }
	registerErr error
)

var rootCmd = &cobra.Command{
	Use:           "fbmessage-stats",
	Short:         "Analyse a Facebook messages.htm archive and show statistics",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if registerErr != nil {
			return registerErr
		}

		loaded, err := config.LoadConfig(cmd, archiveArg(cmd, args))
		if err != nil {
			return err
		}
		cfg = loaded

		l, cleanup, err := setupLogger(cfg)
		if err != nil {
			return err
		}
		logger = l
		closeLogger = cleanup
		slog.SetDefault(logger)
		logger.Debug("configuration loaded", "source", cfg.Source(), "strict", cfg.Strict)
		return nil
	},
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		return closeLogger()
	},
}

func init() {
	registerErr = config.RegisterFlags(rootCmd)
}

// annotationArchiveArg holds the index of the positional argument naming the
// archive. Commands without the annotation use the first argument; a negative
// index means the command takes no archive argument.
const annotationArchiveArg = "archive-arg"

func archiveArg(cmd *cobra.Command, args []string) string {
	idx := 0
	if v, ok := cmd.Annotations[annotationArchiveArg]; ok {
		n, err := strconv.Atoi(v)
		if err != nil {
			return ""
		}
		idx = n
	}
	if idx < 0 || idx >= len(args) {
		return ""
	}
	return args[idx]
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

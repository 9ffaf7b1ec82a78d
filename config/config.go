package config

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/kelseyhightower/envconfig"
	"github.com/spf13/cobra"
)

const (
	EnvArchive    = "FBSTATS_ARCHIVE"
	EnvSnapshotDB = "FBSTATS_SNAPSHOT_DB"
	EnvLogLevel   = "FBSTATS_LOG_LEVEL"
)

// envConfig holds the environment fallbacks for flags left empty.
type envConfig struct {
	Archive    string `envconfig:"FBSTATS_ARCHIVE"`
	SnapshotDB string `envconfig:"FBSTATS_SNAPSHOT_DB"`
	LogLevel   string `envconfig:"FBSTATS_LOG_LEVEL"`
}

// Source names where the conversation model is loaded from.
type Source string

const (
	SourceNone         Source = ""
	SourceArchive      Source = "archive"
	SourceSnapshotFile Source = "snapshot-file"
	SourceSnapshotDB   Source = "snapshot-db"
)

// Config captures the options shared by all commands.
type Config struct {
	ArchivePath  string
	SnapshotFile string
	SnapshotDB   string
	SnapshotID   string
	Strict       bool
	LogLevel     string
	LogDir       string
}

// RegisterFlags attaches the shared flags to the root command.
func RegisterFlags(cmd *cobra.Command) error {
	flags := cmd.PersistentFlags()
	flags.String("archive", "", "Path to the messages.htm archive (falls back to "+EnvArchive+" env var)")
	flags.String("snapshot-file", "", "Load the model from a JSONL snapshot instead of the archive")
	flags.String("snapshot-db", "", "SQLite snapshot database (falls back to "+EnvSnapshotDB+" env var)")
	flags.String("snapshot-id", "", "Snapshot id inside --snapshot-db (default: latest)")
	flags.Bool("strict", false, "Abort on the first malformed thread instead of skipping it")
	flags.String("log-level", "info", "Logging level: debug, info, warn, error")
	flags.String("log-dir", "", "Directory to additionally write log files to")

	return cmd.MarkPersistentFlagFilename("archive", "htm", "html")
}

// LoadConfig converts the parsed Cobra flags into a Config struct with validation.
// A non-empty archiveArg, usually a positional argument, overrides --archive.
func LoadConfig(cmd *cobra.Command, archiveArg string) (Config, error) {
	flags := cmd.Flags()

	archivePath, err := flags.GetString("archive")
	if err != nil {
		return Config{}, err
	}
	snapshotFile, err := flags.GetString("snapshot-file")
	if err != nil {
		return Config{}, err
	}
	snapshotDB, err := flags.GetString("snapshot-db")
	if err != nil {
		return Config{}, err
	}
	snapshotID, err := flags.GetString("snapshot-id")
	if err != nil {
		return Config{}, err
	}
	strict, err := flags.GetBool("strict")
	if err != nil {
		return Config{}, err
	}
	logLevel, err := flags.GetString("log-level")
	if err != nil {
		return Config{}, err
	}
	logDir, err := flags.GetString("log-dir")
	if err != nil {
		return Config{}, err
	}

	var env envConfig
	if err := envconfig.Process("", &env); err != nil {
		return Config{}, fmt.Errorf("read environment: %w", err)
	}

	if strings.TrimSpace(archiveArg) != "" {
		archivePath = archiveArg
	}
	// an explicit snapshot flag must not be overridden by an archive from the environment
	if archivePath == "" && !flags.Changed("snapshot-file") && !flags.Changed("snapshot-db") {
		archivePath = env.Archive
	}
	if snapshotDB == "" {
		snapshotDB = env.SnapshotDB
	}
	if !flags.Changed("log-level") && env.LogLevel != "" {
		logLevel = env.LogLevel
	}

	logLevel = strings.ToLower(strings.TrimSpace(logLevel))
	if logLevel == "warning" {
		logLevel = "warn"
	}

	cfg := Config{
		ArchivePath:  cleanPath(archivePath),
		SnapshotFile: cleanPath(snapshotFile),
		SnapshotDB:   cleanPath(snapshotDB),
		SnapshotID:   strings.TrimSpace(snapshotID),
		Strict:       strict,
		LogLevel:     logLevel,
		LogDir:       cleanPath(logDir),
	}

	if err := validateConfig(cfg); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

// Source reports which input the model is loaded from. The archive wins over
// a snapshot file, which wins over a snapshot database.
func (c Config) Source() Source {
	switch {
	case c.ArchivePath != "":
		return SourceArchive
	case c.SnapshotFile != "":
		return SourceSnapshotFile
	case c.SnapshotDB != "":
		return SourceSnapshotDB
	}
	return SourceNone
}

// RequireSource fails when no input was configured.
func (c Config) RequireSource() error {
	if c.Source() == SourceNone {
		return fmt.Errorf("an archive path, --snapshot-file or --snapshot-db is required")
	}
	return nil
}

func validateConfig(cfg Config) error {
	switch cfg.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("invalid --log-level: %s", cfg.LogLevel)
	}

	if cfg.SnapshotID != "" && cfg.SnapshotDB == "" {
		return fmt.Errorf("--snapshot-id requires --snapshot-db")
	}

	return nil
}

func cleanPath(p string) string {
	p = strings.TrimSpace(p)
	if p == "" {
		return ""
	}
	return filepath.Clean(p)
}

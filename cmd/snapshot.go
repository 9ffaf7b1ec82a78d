package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/dhcgn/fbmessage-stats/config"
	"github.com/dhcgn/fbmessage-stats/snapshot"
)

var snapshotOut string

var snapshotCmd = &cobra.Command{
	Use:   "snapshot",
	Short: "Save and inspect snapshots of the extracted model",
}

var snapshotSaveCmd = &cobra.Command{
	Use:   "save [archive]",
	Short: "Parse the archive and store the model as a snapshot",
	Long: `Parse the archive and store the extracted model so later runs can skip parsing.

The model is written to --out as JSON lines, to --snapshot-db as a new
SQLite snapshot, or to both.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if cfg.Source() != config.SourceArchive {
			return fmt.Errorf("snapshot save needs an archive path as argument or --archive")
		}
		if snapshotOut == "" && cfg.SnapshotDB == "" {
			return fmt.Errorf("--out or --snapshot-db is required")
		}

		store, _, err := loadStore(cmd.Context())
		if err != nil {
			return err
		}

		if snapshotOut != "" {
			if err := snapshot.WriteFile(snapshotOut, cfg.ArchivePath, store); err != nil {
				return fmt.Errorf("write snapshot file: %w", err)
			}
			logger.Info("snapshot file written", "file", snapshotOut, "threads", store.NumThreads())
			fmt.Printf("Snapshot saved to: %s\n", snapshotOut)
		}

		if cfg.SnapshotDB != "" {
			info, err := withSnapshotDB(cmd.Context(), func(ctx context.Context, db *snapshot.DB) (snapshot.Info, error) {
				return db.Save(ctx, cfg.ArchivePath, store, time.Now())
			})
			if err != nil {
				return fmt.Errorf("save snapshot: %w", err)
			}
			logger.Info("snapshot stored", "db", cfg.SnapshotDB, "id", info.ID, "threads", info.Threads, "messages", info.Messages)
			fmt.Printf("Snapshot %s stored in: %s\n", info.ID, cfg.SnapshotDB)
		}
		return nil
	},
}

var snapshotListCmd = &cobra.Command{
	Use:   "list",
	Short: "List the snapshots stored in --snapshot-db",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if cfg.SnapshotDB == "" {
			return fmt.Errorf("--snapshot-db is required")
		}

		db, err := snapshot.Open(cmd.Context(), cfg.SnapshotDB)
		if err != nil {
			return err
		}
		defer db.Close()
		if err := db.EnsureSchema(cmd.Context()); err != nil {
			return err
		}

		infos, err := db.List(cmd.Context())
		if err != nil {
			return err
		}
		data := pterm.TableData{{"ID", "Created", "Source", "Threads", "Messages"}}
		for _, info := range infos {
			data = append(data, []string{
				info.ID,
				info.CreatedAt.Format(time.DateTime),
				info.Source,
				fmt.Sprint(info.Threads),
				fmt.Sprint(info.Messages),
			})
		}
		return pterm.DefaultTable.WithHasHeader().WithData(data).Render()
	},
}

var snapshotDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a snapshot from --snapshot-db",
	Args:  cobra.ExactArgs(1),
	Annotations: map[string]string{
		annotationArchiveArg: "-1",
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		if cfg.SnapshotDB == "" {
			return fmt.Errorf("--snapshot-db is required")
		}

		db, err := snapshot.Open(cmd.Context(), cfg.SnapshotDB)
		if err != nil {
			return err
		}
		defer db.Close()
		if err := db.EnsureSchema(cmd.Context()); err != nil {
			return err
		}

		deleted, err := db.Delete(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		if !deleted {
			return fmt.Errorf("snapshot %s not found", args[0])
		}
		fmt.Printf("Snapshot %s deleted\n", args[0])
		return nil
	},
}

func init() {
	snapshotSaveCmd.Flags().StringVarP(&snapshotOut, "out", "o", "", "Write the snapshot as JSON lines to this file")
	snapshotCmd.AddCommand(snapshotSaveCmd, snapshotListCmd, snapshotDeleteCmd)
	rootCmd.AddCommand(snapshotCmd)
}

func withSnapshotDB(ctx context.Context, fn func(context.Context, *snapshot.DB) (snapshot.Info, error)) (snapshot.Info, error) {
	db, err := snapshot.Open(ctx, cfg.SnapshotDB)
	if err != nil {
		return snapshot.Info{}, err
	}
	defer db.Close()

	if err := db.EnsureSchema(ctx); err != nil {
		return snapshot.Info{}, err
	}
	return fn(ctx, db)
}

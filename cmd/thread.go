package cmd

import (
	"errors"
	"fmt"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/dhcgn/fbmessage-stats/model"
	"github.com/dhcgn/fbmessage-stats/report"
)

var (
	threadParticipants string
	threadIndex        int
)

var threadCmd = &cobra.Command{
	Use:   "thread [archive]",
	Short: "Show statistics of one thread, or list all threads",
	Long: `Show statistics of one thread selected by --participants or --index.

Participants must be given exactly as printed in the archive: "Alice, Bob"
does not match a thread listed as "Bob, Alice". Without a selector all
threads are listed.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, _, err := loadStore(cmd.Context())
		if err != nil {
			return err
		}

		var t model.Thread
		switch {
		case threadParticipants != "":
			t, err = store.LookupThread(threadParticipants)
			if errors.Is(err, model.ErrNotFound) {
				return fmt.Errorf("no thread with participants %q", threadParticipants)
			}
		case threadIndex >= 0:
			t, err = store.Thread(threadIndex)
			if errors.Is(err, model.ErrNotFound) {
				return fmt.Errorf("thread index %d out of range (0-%d)", threadIndex, store.NumThreads()-1)
			}
		default:
			data := pterm.TableData{{"#", "Participants", "Messages"}}
			for i, t := range store.Threads() {
				data = append(data, []string{fmt.Sprint(i), t.Participants, fmt.Sprint(t.Len())})
			}
			return pterm.DefaultTable.WithHasHeader().WithData(data).Render()
		}
		if err != nil {
			return err
		}

		return report.PrintThread(t)
	},
}

func init() {
	threadCmd.Flags().StringVarP(&threadParticipants, "participants", "p", "", "Exact participant list of the thread")
	threadCmd.Flags().IntVarP(&threadIndex, "index", "i", -1, "Position of the thread in the archive")
	rootCmd.AddCommand(threadCmd)
}

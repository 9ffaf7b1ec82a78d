package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dhcgn/fbmessage-stats/model"
)

var searchLimit int

var searchCmd = &cobra.Command{
	Use:   "search <word> [archive]",
	Short: "Count a word and list the messages containing it",
	Args:  cobra.RangeArgs(1, 2),
	Annotations: map[string]string{
		annotationArchiveArg: "1",
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		store, _, err := loadStore(cmd.Context())
		if err != nil {
			return err
		}

		word := args[0]
		fmt.Printf("%q occurs %d times\n", word, store.Occurrences(word))

		matches, err := store.FindWord(word)
		if errors.Is(err, model.ErrNotFound) {
			return nil
		}
		if err != nil {
			return err
		}

		threads := store.Threads()
		for i, m := range matches {
			if searchLimit > 0 && i >= searchLimit {
				fmt.Printf("... %d more\n", len(matches)-searchLimit)
				break
			}
			fmt.Printf("[%s] %s (%s): %s\n", threads[m.Thread].Participants, m.Message.Sender, m.Message.SentAtRaw, truncate(m.Message.Body, 120))
		}
		return nil
	},
}

func init() {
	searchCmd.Flags().IntVarP(&searchLimit, "limit", "n", 20, "Maximum number of messages to list (0 = all)")
	rootCmd.AddCommand(searchCmd)
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-3]) + "..."
}

// Package report renders archive statistics for people: a terminal summary,
// CSV files and an HTML activity chart.
package report

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/pterm/pterm"

	"github.com/dhcgn/fbmessage-stats/archive"
	"github.com/dhcgn/fbmessage-stats/model"
	"github.com/dhcgn/fbmessage-stats/stats"
)

type SummaryOptions struct {
	TopN int
	// User, when set, adds per-user counts to the summary.
	User string
}

// PrintSummary writes the archive overview to the terminal.
func PrintSummary(store *archive.Store, build archive.Summary, opts SummaryOptions) error {
	pterm.DefaultSection.Println("Archive")
	pterm.Info.Printf("Threads: %s\n", humanize.Comma(int64(store.NumThreads())))
	pterm.Info.Printf("Messages: %s\n", humanize.Comma(int64(store.TotalMessages())))
	pterm.Info.Printf("Words: %s\n", humanize.Comma(int64(store.TotalWords())))
	if build.Skipped > 0 || build.TimestampErrors > 0 || build.StructuralErrors > 0 {
		pterm.Warning.Printf("Skipped threads: %d, structural errors: %d, unparsed timestamps: %d\n",
			build.Skipped, build.StructuralErrors, build.TimestampErrors)
	}

	if opts.User != "" {
		pterm.DefaultSection.Println("User " + opts.User)
		pterm.Info.Printf("Messages sent: %s\n", humanize.Comma(int64(store.MessagesBy(opts.User))))
		pterm.Info.Printf("Threads with last reply: %d\n", store.ThreadsWithLastReplyBy(opts.User))
	}

	top, err := stats.MostCommonWord(store)
	switch {
	case errors.Is(err, model.ErrEmpty):
		pterm.Info.Println("Most common word: none")
	case err != nil:
		return err
	default:
		pterm.Info.Printf("Most common word: %q (%s)\n", top.Key, humanize.Comma(int64(top.Count)))
	}

	if err := printRanked("Top words", "Word", store.WordFrequency(), opts.TopN); err != nil {
		return err
	}
	return printRanked("Most active senders", "Sender", store.Senders(), opts.TopN)
}

// PrintThread writes the statistics of a single thread to the terminal.
func PrintThread(t model.Thread) error {
	pterm.DefaultSection.Println(t.Participants)
	pterm.Info.Printf("Messages: %s\n", humanize.Comma(int64(t.Len())))
	pterm.Info.Printf("Words: %s\n", humanize.Comma(int64(t.Words())))

	data := pterm.TableData{{"Statistic", "Value"}}
	data = append(data, []string{"Average words per message", floatOrReason(stats.AverageWordsPerMessage(t))})
	data = append(data, []string{"Average gap between replies", durationOrReason(stats.AverageGapBetweenReplies(t))})
	data = append(data, []string{"Median gap", durationOrReason(stats.MedianGap(t))})
	data = append(data, []string{"Shortest gap", durationOrReason(stats.ShortestGap(t))})
	data = append(data, []string{"Longest gap", durationOrReason(stats.LongestGap(t))})
	data = append(data, []string{"Thread duration", durationOrReason(stats.TotalThreadDuration(t))})
	if first, ok := t.First(); ok && first.HasSentAt() {
		data = append(data, []string{"First message", first.SentAt.Format(time.RFC1123)})
	}
	if last, ok := t.Last(); ok {
		data = append(data, []string{"Last reply by", last.Sender})
	}
	return pterm.DefaultTable.WithHasHeader().WithData(data).Render()
}

func printRanked(title, column string, ranked []stats.Entry, limit int) error {
	if limit <= 0 || len(ranked) == 0 {
		return nil
	}
	pterm.DefaultSection.Println(title)
	data := pterm.TableData{{"#", column, "Count"}}
	for i := 0; i < limit && i < len(ranked); i++ {
		data = append(data, []string{
			strconv.Itoa(i + 1),
			ranked[i].Key,
			humanize.Comma(int64(ranked[i].Count)),
		})
	}
	return pterm.DefaultTable.WithHasHeader().WithData(data).Render()
}

func floatOrReason(v float64, err error) string {
	if err != nil {
		return reason(err)
	}
	return strconv.FormatFloat(v, 'f', 2, 64)
}

func durationOrReason(d time.Duration, err error) string {
	if err != nil {
		return reason(err)
	}
	return FormatDuration(d)
}

func reason(err error) string {
	switch {
	case errors.Is(err, model.ErrDivisionUndefined):
		return "n/a (too few messages)"
	case errors.Is(err, model.ErrMissingTimestamp):
		return "n/a (missing timestamp)"
	case errors.Is(err, model.ErrEmpty):
		return "n/a (empty)"
	}
	return "n/a (" + err.Error() + ")"
}

// FormatDuration prints d with day granularity, e.g. "3d 4h5m0s".
func FormatDuration(d time.Duration) string {
	days := d / (24 * time.Hour)
	rest := d % (24 * time.Hour)
	if days == 0 {
		return rest.String()
	}
	return fmt.Sprintf("%dd %s", days, rest)
}

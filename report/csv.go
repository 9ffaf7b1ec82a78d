package report

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/dhcgn/fbmessage-stats/archive"
	"github.com/dhcgn/fbmessage-stats/stats"
)

// SaveCSVReports writes report_words.csv, report_senders.csv and
// report_threads.csv to dir. Ranked tables are cut at limit rows.
func SaveCSVReports(store *archive.Store, dir string, limit int) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}

	if err := writeCSV(filepath.Join(dir, "report_words.csv"), rankedRecords("Word", store.WordFrequency(), limit)); err != nil {
		return err
	}
	if err := writeCSV(filepath.Join(dir, "report_senders.csv"), rankedRecords("Sender", store.Senders(), limit)); err != nil {
		return err
	}
	return writeCSV(filepath.Join(dir, "report_threads.csv"), threadRecords(store))
}

func rankedRecords(column string, ranked []stats.Entry, limit int) [][]string {
	records := [][]string{{column, "Count"}}
	for i := 0; i < limit && i < len(ranked); i++ {
		records = append(records, []string{ranked[i].Key, strconv.Itoa(ranked[i].Count)})
	}
	return records
}

func threadRecords(store *archive.Store) [][]string {
	records := [][]string{{
		"Participants", "Messages", "Words", "AverageWords", "AverageGapSeconds", "DurationSeconds", "LastSender",
	}}
	for _, t := range store.Threads() {
		record := []string{t.Participants, strconv.Itoa(t.Len()), strconv.Itoa(t.Words()), "", "", "", ""}
		if avg, err := stats.AverageWordsPerMessage(t); err == nil {
			record[3] = strconv.FormatFloat(avg, 'f', 2, 64)
		}
		if gap, err := stats.AverageGapBetweenReplies(t); err == nil {
			record[4] = strconv.FormatInt(int64(gap.Seconds()), 10)
		}
		if d, err := stats.TotalThreadDuration(t); err == nil {
			record[5] = strconv.FormatInt(int64(d.Seconds()), 10)
		}
		if last, ok := t.Last(); ok {
			record[6] = last.Sender
		}
		records = append(records, record)
	}
	return records
}

func writeCSV(path string, records [][]string) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}

	writer := csv.NewWriter(file)
	if err := writer.WriteAll(records); err != nil {
		file.Close()
		return fmt.Errorf("write %s: %w", filepath.Base(path), err)
	}

	return file.Close()
}

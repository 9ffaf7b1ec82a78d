package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/spf13/cobra"

	"github.com/dhcgn/fbmessage-stats/filter"
	"github.com/dhcgn/fbmessage-stats/report"
)

var (
	reportDir     string
	chartPath     string
	topN          int
	csvLimit      int
	statsUser     string
	includeSender []string
	includeBody   []string
	excludeSender []string
	excludeBody   []string
)

var statsCmd = &cobra.Command{
	Use:   "stats [archive]",
	Short: "Analyse the archive and show statistics",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, summary, err := loadStore(cmd.Context())
		if err != nil {
			return err
		}

		store, f, err := applyFilter(store, filter.Options{
			IncludeSender: includeSender,
			IncludeBody:   includeBody,
			ExcludeSender: excludeSender,
			ExcludeBody:   excludeBody,
		})
		if err != nil {
			return err
		}

		if err := report.PrintSummary(store, summary, report.SummaryOptions{TopN: topN, User: statsUser}); err != nil {
			return err
		}
		if f.Active() {
			printFilterHits(f.GetStats())
		}

		if reportDir != "" {
			if err := report.SaveCSVReports(store, reportDir, csvLimit); err != nil {
				return fmt.Errorf("error saving CSV reports: %w", err)
			}
			fmt.Printf("\nReports saved to directory: %s\n", reportDir)
		}

		if chartPath != "" {
			if err := os.MkdirAll(filepath.Dir(chartPath), 0o755); err != nil {
				return err
			}
			file, err := os.Create(chartPath)
			if err != nil {
				return err
			}
			if err := report.RenderActivity(file, store, topN); err != nil {
				file.Close()
				return err
			}
			if err := file.Close(); err != nil {
				return err
			}
			fmt.Printf("Activity chart saved to: %s\n", chartPath)
		}

		return nil
	},
}

func init() {
	statsCmd.Flags().StringVarP(&reportDir, "output", "o", "", "Output directory for CSV reports")
	statsCmd.Flags().StringVar(&chartPath, "chart", "", "Write an HTML activity chart to this file")
	statsCmd.Flags().IntVarP(&topN, "top", "t", 10, "Number of top items to display in statistics")
	statsCmd.Flags().IntVar(&csvLimit, "csv-limit", 1000, "Maximum rows of ranked CSV reports")
	statsCmd.Flags().StringVarP(&statsUser, "user", "u", "", "Show message and last-reply counts for this user")
	statsCmd.Flags().StringArrayVar(&includeSender, "include-sender", nil, "Regex allow-list applied to senders (mutually exclusive with exclude flags)")
	statsCmd.Flags().StringArrayVar(&includeBody, "include-body", nil, "Regex allow-list applied to message bodies (mutually exclusive with exclude flags)")
	statsCmd.Flags().StringArrayVar(&excludeSender, "exclude-sender", nil, "Regex block-list applied to senders (mutually exclusive with include flags)")
	statsCmd.Flags().StringArrayVar(&excludeBody, "exclude-body", nil, "Regex block-list applied to message bodies (mutually exclusive with include flags)")
	rootCmd.AddCommand(statsCmd)
}

func printFilterHits(s filter.Stats) {
	groups := []struct {
		title    string
		patterns []string
	}{
		{"Include Sender Filters", s.IncludeSenderPatterns},
		{"Include Body Filters", s.IncludeBodyPatterns},
		{"Exclude Sender Filters", s.ExcludeSenderPatterns},
		{"Exclude Body Filters", s.ExcludeBodyPatterns},
	}

	for _, g := range groups {
		if len(g.patterns) == 0 {
			continue
		}
		fmt.Printf("\n%s:\n", g.title)

		patterns := append([]string(nil), g.patterns...)
		sort.Slice(patterns, func(i, j int) bool {
			if s.Hits[patterns[i]] != s.Hits[patterns[j]] {
				return s.Hits[patterns[i]] > s.Hits[patterns[j]]
			}
			return patterns[i] < patterns[j]
		})
		for _, p := range patterns {
			if n := s.Hits[p]; n > 0 {
				fmt.Printf("  ✓ %s: %d hits\n", p, n)
			} else {
				fmt.Printf("  ✗ %s: 0 hits\n", p)
			}
		}
	}
}

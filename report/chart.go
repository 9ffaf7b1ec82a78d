package report

import (
	"fmt"
	"io"
	"sort"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"
	"github.com/go-echarts/go-echarts/v2/types"

	"github.com/dhcgn/fbmessage-stats/archive"
)

// RenderActivity writes an HTML bar chart of messages per sender, stacked by
// year. Only the top senders are shown; messages without a parsed timestamp
// are left out.
func RenderActivity(w io.Writer, store *archive.Store, topSenders int) error {
	labels, data, years := activityDataset(store, topSenders)
	if len(labels) == 0 {
		return fmt.Errorf("render activity: no dated messages")
	}

	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{
			Theme: types.ThemeWonderland,
		}),
		charts.WithTitleOpts(opts.Title{
			Title: "Messages per sender",
		}),
		charts.WithDataZoomOpts(opts.DataZoom{
			Type: "slider",
		}),
		charts.WithLegendOpts(opts.Legend{
			Show: true, Type: "scroll",
			Orient: "horizontal",
		}),
		charts.WithXAxisOpts(opts.XAxis{
			AxisLabel: &opts.AxisLabel{
				Show:     true,
				Rotate:   90,
				Inside:   true,
				Interval: "0",
			},
		}),
	)
	bar.SetXAxis(labels)
	for _, year := range years {
		bar.AddSeries(fmt.Sprint(year), data[year]).SetSeriesOptions(
			charts.WithBarChartOpts(opts.BarChart{Stack: "stack"}),
			charts.WithItemStyleOpts(opts.ItemStyle{Opacity: 0.5}),
		)
	}
	return bar.Render(w)
}

// activityDataset returns the sender labels, ordered by total activity, the
// per-year series aligned with labels, and the sorted list of years.
func activityDataset(store *archive.Store, topSenders int) ([]string, map[int][]opts.BarData, []int) {
	perSender := map[string]map[int]int{}
	totals := map[string]int{}
	yearSet := map[int]struct{}{}
	for _, t := range store.Threads() {
		for _, m := range t.Messages {
			if !m.HasSentAt() {
				continue
			}
			year := m.SentAt.Year()
			if perSender[m.Sender] == nil {
				perSender[m.Sender] = map[int]int{}
			}
			perSender[m.Sender][year]++
			totals[m.Sender]++
			yearSet[year] = struct{}{}
		}
	}

	labels := make([]string, 0, len(totals))
	for sender := range totals {
		labels = append(labels, sender)
	}
	sort.Slice(labels, func(i, j int) bool {
		if totals[labels[i]] != totals[labels[j]] {
			return totals[labels[i]] > totals[labels[j]]
		}
		return labels[i] < labels[j]
	})
	if topSenders > 0 && len(labels) > topSenders {
		labels = labels[:topSenders]
	}

	years := make([]int, 0, len(yearSet))
	for y := range yearSet {
		years = append(years, y)
	}
	sort.Ints(years)

	data := make(map[int][]opts.BarData, len(years))
	for _, year := range years {
		for _, sender := range labels {
			data[year] = append(data[year], opts.BarData{Value: perSender[sender][year]})
		}
	}
	return labels, data, years
}

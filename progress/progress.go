package progress

import (
	"sync"

	"github.com/pterm/pterm"

	"github.com/dhcgn/fbmessage-stats/archive"
)

// Bar shows a progress bar while an archive is being built.
type Bar struct {
	pb      *pterm.ProgressbarPrinter
	mu      sync.Mutex
	enabled bool
	skipped int
}

// New creates a progress bar. It only renders when logLevel is "info"; at
// other levels the log output is the progress report.
func New(logLevel string) *Bar {
	return &Bar{enabled: logLevel == "info"}
}

// Update advances the bar for one build event. It matches archive.Options.Observer.
func (b *Bar) Update(evt archive.Event) {
	if !b.enabled {
		return
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	switch evt.Type {
	case archive.EventTypeDiscovered:
		if evt.Count == 0 {
			pterm.Warning.Println("No threads found in archive")
			return
		}
		pb, err := pterm.DefaultProgressbar.
			WithTotal(evt.Count).
			WithTitle("Extracting threads").
			Start()
		if err != nil {
			b.enabled = false
			return
		}
		b.pb = pb
	case archive.EventTypeThread:
		if b.pb == nil {
			return
		}
		b.pb.Increment()
		if evt.Participants != "" {
			title := []rune(evt.Participants)
			if len(title) > 40 {
				title = append(title[:37], []rune("...")...)
			}
			b.pb.UpdateTitle("Thread: " + string(title))
		}
	case archive.EventTypeSkipped:
		b.skipped++
		if b.pb != nil {
			b.pb.Increment()
		}
		if evt.Err != nil {
			pterm.Warning.Printf("Skipped thread: %v\n", evt.Err)
		}
	case archive.EventTypeIssue:
		// per-message issues are summarized at the end
	}
}

// Stop finalizes the progress bar.
func (b *Bar) Stop() {
	if !b.enabled || b.pb == nil {
		return
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	if b.pb.Current < b.pb.Total {
		b.pb.Current = b.pb.Total
	}
	_, _ = b.pb.Stop()

	if b.skipped > 0 {
		pterm.Warning.Printf("Extraction complete, %d thread(s) skipped\n", b.skipped)
		return
	}
	pterm.Success.Println("Extraction complete!")
}

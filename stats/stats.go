// Package stats computes statistics over threads and word frequency tables.
// Nothing in here performs I/O except PrettyPrintTop.
package stats

import (
	"fmt"
	"io"
	"sort"
	"time"

	"github.com/dhcgn/fbmessage-stats/model"
)

// Entry is one row of a ranked table, such as a word and its occurrence count.
type Entry struct {
	Key   string
	Count int
}

// Counter accumulates counts and remembers the order keys were first seen.
type Counter struct {
	index   map[string]int
	entries []Entry
}

func NewCounter() *Counter {
	return &Counter{index: make(map[string]int)}
}

func (c *Counter) Add(key string) {
	c.AddN(key, 1)
}

func (c *Counter) AddN(key string, n int) {
	if i, ok := c.index[key]; ok {
		c.entries[i].Count += n
		return
	}
	c.index[key] = len(c.entries)
	c.entries = append(c.entries, Entry{Key: key, Count: n})
}

// Len returns the number of distinct keys.
func (c *Counter) Len() int {
	return len(c.entries)
}

// Ranked returns the entries by descending count. Equal counts keep first-seen
// order.
func (c *Counter) Ranked() []Entry {
	ranked := make([]Entry, len(c.entries))
	copy(ranked, c.entries)
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Count > ranked[j].Count
	})
	return ranked
}

// WordFrequency ranks the tokens of every message in threads.
func WordFrequency(threads []model.Thread) []Entry {
	c := NewCounter()
	for _, t := range threads {
		for _, m := range t.Messages {
			for _, tok := range m.Tokens() {
				c.Add(tok)
			}
		}
	}
	return c.Ranked()
}

// SenderActivity ranks senders by the number of messages they sent.
func SenderActivity(threads []model.Thread) []Entry {
	c := NewCounter()
	for _, t := range threads {
		for _, m := range t.Messages {
			c.Add(m.Sender)
		}
	}
	return c.Ranked()
}

// Ranker provides a ranked word frequency table.
type Ranker interface {
	WordFrequency() []Entry
}

// MostCommonWord returns the top entry of the ranked frequency table.
func MostCommonWord(r Ranker) (Entry, error) {
	ranked := r.WordFrequency()
	if len(ranked) == 0 {
		return Entry{}, model.ErrEmpty
	}
	return ranked[0], nil
}

// AverageWordsPerMessage divides the word count of t by its message count.
func AverageWordsPerMessage(t model.Thread) (float64, error) {
	if t.Len() == 0 {
		return 0, fmt.Errorf("average words of %q: %w", t.Participants, model.ErrDivisionUndefined)
	}
	return float64(t.Words()) / float64(t.Len()), nil
}

// TimeBetween returns the absolute time between two messages.
func TimeBetween(a, b model.Message) (time.Duration, error) {
	if !a.HasSentAt() || !b.HasSentAt() {
		return 0, model.ErrMissingTimestamp
	}
	d := b.SentAt.Sub(a.SentAt)
	if d < 0 {
		d = -d
	}
	return d, nil
}

// ReplyGaps returns the absolute time between each message and its
// predecessor in stored order.
func ReplyGaps(t model.Thread) ([]time.Duration, error) {
	if t.Len() < 2 {
		return nil, fmt.Errorf("reply gaps of %q: %w", t.Participants, model.ErrDivisionUndefined)
	}
	gaps := make([]time.Duration, 0, t.Len()-1)
	for i := 1; i < t.Len(); i++ {
		gap, err := TimeBetween(t.Messages[i-1], t.Messages[i])
		if err != nil {
			return nil, fmt.Errorf("reply gap %d-%d of %q: %w", i-1, i, t.Participants, err)
		}
		gaps = append(gaps, gap)
	}
	return gaps, nil
}

// AverageGapBetweenReplies averages ReplyGaps, truncated to whole seconds.
func AverageGapBetweenReplies(t model.Thread) (time.Duration, error) {
	gaps, err := ReplyGaps(t)
	if err != nil {
		return 0, err
	}
	// whole seconds keep the sum in range for gaps spanning centuries
	var total int64
	for _, g := range gaps {
		total += int64(g / time.Second)
	}
	return time.Duration(total/int64(len(gaps))) * time.Second, nil
}

// LongestGap returns the largest reply gap of t.
func LongestGap(t model.Thread) (time.Duration, error) {
	gaps, err := ReplyGaps(t)
	if err != nil {
		return 0, err
	}
	longest := gaps[0]
	for _, g := range gaps[1:] {
		if g > longest {
			longest = g
		}
	}
	return longest, nil
}

// ShortestGap returns the smallest reply gap of t.
func ShortestGap(t model.Thread) (time.Duration, error) {
	gaps, err := ReplyGaps(t)
	if err != nil {
		return 0, err
	}
	shortest := gaps[0]
	for _, g := range gaps[1:] {
		if g < shortest {
			shortest = g
		}
	}
	return shortest, nil
}

// MedianGap returns the median reply gap of t, truncated to whole seconds.
func MedianGap(t model.Thread) (time.Duration, error) {
	gaps, err := ReplyGaps(t)
	if err != nil {
		return 0, err
	}
	sort.Slice(gaps, func(i, j int) bool { return gaps[i] < gaps[j] })
	mid := len(gaps) / 2
	if len(gaps)%2 == 1 {
		return gaps[mid].Truncate(time.Second), nil
	}
	return (gaps[mid-1]/2 + gaps[mid]/2).Truncate(time.Second), nil
}

// TotalThreadDuration returns the absolute time between the first and the
// last stored message of t.
func TotalThreadDuration(t model.Thread) (time.Duration, error) {
	first, ok := t.First()
	if !ok {
		return 0, fmt.Errorf("duration of %q: %w", t.Participants, model.ErrEmpty)
	}
	last, _ := t.Last()
	d, err := TimeBetween(first, last)
	if err != nil {
		return 0, fmt.Errorf("duration of %q: %w", t.Participants, err)
	}
	return d, nil
}

// PrettyPrintTop prints the first limit entries of a ranked table.
func PrettyPrintTop(w io.Writer, ranked []Entry, limit int) {
	for i := 0; i < limit && i < len(ranked); i++ {
		fmt.Fprintf(w, "%d. %s (%d)\n", i+1, ranked[i].Key, ranked[i].Count)
	}
}

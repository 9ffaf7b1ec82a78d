package archive

import (
	"errors"
	"sync"

	"github.com/dhcgn/fbmessage-stats/model"
)

type EventType string

const (
	// EventTypeDiscovered is emitted once per build; Count holds the number of
	// thread regions found in the document.
	EventTypeDiscovered EventType = "discovered"
	EventTypeThread     EventType = "thread"
	EventTypeSkipped    EventType = "skipped"
	EventTypeIssue      EventType = "issue"
)

type Event struct {
	Type         EventType
	Index        int
	Participants string
	Count        int
	Err          error
}

type Summary struct {
	Regions          int
	Threads          int
	Messages         int
	Skipped          int
	StructuralErrors int
	TimestampErrors  int
	LastError        error
}

func (s Summary) LogAttrs() []any {
	attrs := []any{
		"regions", s.Regions,
		"threads", s.Threads,
		"messages", s.Messages,
		"skipped", s.Skipped,
		"structuralErrors", s.StructuralErrors,
		"timestampErrors", s.TimestampErrors,
	}
	if s.LastError != nil {
		attrs = append(attrs, "lastError", s.LastError.Error())
	}
	return attrs
}

// Collector folds build events into a Summary. It is safe for concurrent use.
type Collector struct {
	mu      sync.Mutex
	summary Summary
}

func NewCollector() *Collector {
	return &Collector{}
}

func (c *Collector) Observe(evt Event) {
	c.mu.Lock()
	defer c.mu.Unlock()
	switch evt.Type {
	case EventTypeDiscovered:
		c.summary.Regions += evt.Count
	case EventTypeThread:
		c.summary.Threads++
		c.summary.Messages += evt.Count
	case EventTypeSkipped:
		c.summary.Skipped++
		c.countError(evt.Err)
	case EventTypeIssue:
		c.countError(evt.Err)
	}
}

func (c *Collector) countError(err error) {
	if err == nil {
		return
	}
	switch {
	case errors.Is(err, model.ErrStructural):
		c.summary.StructuralErrors++
	case errors.Is(err, model.ErrTimestampParse):
		c.summary.TimestampErrors++
	}
	c.summary.LastError = err
}

func (c *Collector) Snapshot() Summary {
	c.mu.Lock()
	summary := c.summary
	c.mu.Unlock()
	return summary
}

// Observers fans one event out to several observers. Nil observers are skipped.
func Observers(fns ...func(Event)) func(Event) {
	return func(evt Event) {
		for _, fn := range fns {
			if fn != nil {
				fn(evt)
			}
		}
	}
}

package archive

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/dhcgn/fbmessage-stats/extract"
	"github.com/dhcgn/fbmessage-stats/markup"
	"github.com/dhcgn/fbmessage-stats/model"
)

type Options struct {
	// Strict aborts the build on the first malformed thread or message.
	Strict   bool
	Logger   *slog.Logger
	Observer func(Event)
}

// Open parses the archive document at path and builds a Store from it. Failing
// to read or parse the document is the only fatal error in lenient mode.
func Open(path string, opts Options) (*Store, error) {
	doc, err := markup.ParseFile(path)
	if err != nil {
		return nil, fmt.Errorf("read archive %s: %w", path, err)
	}
	return Build(doc, opts)
}

// Build extracts every thread region of doc in document order. Malformed
// threads are skipped and recorded in Issues unless opts.Strict is set.
func Build(doc markup.Node, opts Options) (*Store, error) {
	b := &builder{opts: opts, store: &Store{}}

	regions := doc.SelectByClass(extract.ClassThread)
	b.emit(Event{Type: EventTypeDiscovered, Index: -1, Count: len(regions)})

	for idx, region := range regions {
		if err := b.addThread(idx, region); err != nil {
			return nil, fmt.Errorf("build archive: %w", err)
		}
	}

	if opts.Logger != nil {
		opts.Logger.Info("archive built",
			"threads", len(b.store.threads),
			"regions", len(regions),
			"issues", len(b.store.issues),
		)
	}
	return b.store, nil
}

type builder struct {
	opts  Options
	store *Store
}

func (b *builder) addThread(idx int, region markup.Node) error {
	thread, issues, err := extract.Thread(region, extract.Options{Strict: b.opts.Strict})

	for _, issue := range issues {
		annotate(issue, idx)
		b.store.issues = append(b.store.issues, issue)
		b.emit(Event{Type: EventTypeIssue, Index: idx, Participants: region.OwnText(), Err: issue})
		if b.opts.Logger != nil {
			b.opts.Logger.Debug("archive message issue", "thread", idx, "err", issue)
		}
	}

	if err != nil {
		annotate(err, idx)
		if b.opts.Strict {
			return err
		}
		b.store.issues = append(b.store.issues, err)
		b.emit(Event{Type: EventTypeSkipped, Index: idx, Participants: region.OwnText(), Err: err})
		if b.opts.Logger != nil {
			b.opts.Logger.Warn("skipping malformed thread", "thread", idx, "err", err)
		}
		return nil
	}

	b.store.threads = append(b.store.threads, thread)
	b.emit(Event{Type: EventTypeThread, Index: idx, Participants: thread.Participants, Count: thread.Len()})
	return nil
}

func (b *builder) emit(evt Event) {
	if b.opts.Observer != nil {
		b.opts.Observer(evt)
	}
}

// annotate stamps the document position of the thread onto structural errors.
func annotate(err error, idx int) {
	var se *model.StructuralError
	if errors.As(err, &se) {
		se.Thread = idx
	}
}

// Package archive holds the conversation store built from one archive
// document and the aggregate queries over it.
package archive

import (
	"sync"

	"github.com/dhcgn/fbmessage-stats/model"
	"github.com/dhcgn/fbmessage-stats/stats"
)

// Store is the ordered collection of threads of one archive. It is read-only
// after construction and may be shared between goroutines.
type Store struct {
	threads []model.Thread
	issues  []error

	freqOnce sync.Once
	freq     []stats.Entry
}

// Match locates a message inside the store.
type Match struct {
	Thread  int
	Index   int
	Message model.Message
}

// New builds a store from already extracted threads, e.g. a reloaded snapshot.
func New(threads []model.Thread) *Store {
	s := &Store{threads: make([]model.Thread, len(threads))}
	copy(s.threads, threads)
	return s
}

// Issues returns the per-thread and per-message problems recorded during Build.
func (s *Store) Issues() []error {
	issues := make([]error, len(s.issues))
	copy(issues, s.issues)
	return issues
}

func (s *Store) Threads() []model.Thread {
	threads := make([]model.Thread, len(s.threads))
	copy(threads, s.threads)
	return threads
}

func (s *Store) NumThreads() int {
	return len(s.threads)
}

func (s *Store) Thread(i int) (model.Thread, error) {
	if i < 0 || i >= len(s.threads) {
		return model.Thread{}, model.ErrNotFound
	}
	return s.threads[i], nil
}

// LookupThread returns the first thread whose participant list equals
// participants exactly. No reordering or case folding is applied.
func (s *Store) LookupThread(participants string) (model.Thread, error) {
	for _, t := range s.threads {
		if t.Participants == participants {
			return t, nil
		}
	}
	return model.Thread{}, model.ErrNotFound
}

func (s *Store) TotalMessages() int {
	count := 0
	for _, t := range s.threads {
		count += t.Len()
	}
	return count
}

// MessagesBy counts the messages sent by user across all threads.
func (s *Store) MessagesBy(user string) int {
	count := 0
	for _, t := range s.threads {
		count += t.MessagesBy(user)
	}
	return count
}

func (s *Store) TotalWords() int {
	count := 0
	for _, t := range s.threads {
		count += t.Words()
	}
	return count
}

// Occurrences counts the tokens equal to word across all messages, ignoring
// case and boundary punctuation.
func (s *Store) Occurrences(word string) int {
	count := 0
	for _, t := range s.threads {
		count += t.Occurrences(word)
	}
	return count
}

// FindWord returns every message containing word.
func (s *Store) FindWord(word string) ([]Match, error) {
	var matches []Match
	for ti, t := range s.threads {
		for mi, m := range t.Messages {
			if m.Occurrences(word) > 0 {
				matches = append(matches, Match{Thread: ti, Index: mi, Message: m})
			}
		}
	}
	if len(matches) == 0 {
		return nil, model.ErrNotFound
	}
	return matches, nil
}

// WordFrequency returns the ranked token table of the whole store. The table
// is computed on first use and cached.
func (s *Store) WordFrequency() []stats.Entry {
	s.freqOnce.Do(func() {
		s.freq = stats.WordFrequency(s.threads)
	})
	ranked := make([]stats.Entry, len(s.freq))
	copy(ranked, s.freq)
	return ranked
}

// Senders ranks users by the number of messages they sent.
func (s *Store) Senders() []stats.Entry {
	return stats.SenderActivity(s.threads)
}

// ThreadsWithLastReplyBy counts the threads whose last stored message was sent
// by user. Document order is trusted to be chronological.
func (s *Store) ThreadsWithLastReplyBy(user string) int {
	count := 0
	for _, t := range s.threads {
		if last, ok := t.Last(); ok && last.Sender == user {
			count++
		}
	}
	return count
}

// Filter returns a new store holding only the messages keep accepts. Threads
// left without messages are dropped. Issues are carried over.
func (s *Store) Filter(keep func(model.Message) bool) *Store {
	filtered := &Store{issues: s.Issues()}
	for _, t := range s.threads {
		var messages []model.Message
		for _, m := range t.Messages {
			if keep(m) {
				messages = append(messages, m)
			}
		}
		if len(messages) == 0 {
			continue
		}
		filtered.threads = append(filtered.threads, model.Thread{Participants: t.Participants, Messages: messages})
	}
	return filtered
}

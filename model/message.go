package model

import (
	"strings"
	"time"
)

// Message is a single chat message extracted from an archive thread.
type Message struct {
	Sender string
	// SentAt is the zero time when SentAtRaw could not be parsed.
	SentAt    time.Time
	SentAtRaw string
	Body      string
}

// HasSentAt reports whether the timestamp of the message was parsed.
func (m Message) HasSentAt() bool {
	return !m.SentAt.IsZero()
}

// Words returns the number of whitespace separated words in the body.
func (m Message) Words() int {
	return len(strings.Fields(m.Body))
}

// Tokens returns the normalized word tokens of the body.
func (m Message) Tokens() []string {
	return Tokenize(m.Body)
}

// Occurrences counts the tokens of the body equal to word, ignoring case and
// boundary punctuation.
func (m Message) Occurrences(word string) int {
	word = NormalizeToken(word)
	if word == "" {
		return 0
	}
	count := 0
	for _, tok := range m.Tokens() {
		if tok == word {
			count++
		}
	}
	return count
}

// Between reports whether the message was sent strictly after start and
// strictly before end. Messages without a timestamp are never between.
func (m Message) Between(start, end time.Time) bool {
	if !m.HasSentAt() {
		return false
	}
	return m.SentAt.After(start) && m.SentAt.Before(end)
}

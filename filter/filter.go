package filter

import (
	"fmt"
	"regexp"
	"strings"
	"sync"

	"github.com/dhcgn/fbmessage-stats/model"
)

// Options captures the filtering configuration.
type Options struct {
	IncludeSender []string
	IncludeBody   []string
	ExcludeSender []string
	ExcludeBody   []string
}

// Filter holds compiled regex patterns for selecting messages.
type Filter struct {
	includeMode   bool
	excludeMode   bool
	includeSender []*regexp.Regexp
	includeBody   []*regexp.Regexp
	excludeSender []*regexp.Regexp
	excludeBody   []*regexp.Regexp

	mu   sync.Mutex
	hits map[*regexp.Regexp]int
}

// Stats reports how often each pattern matched.
type Stats struct {
	IncludeSenderPatterns []string
	IncludeBodyPatterns   []string
	ExcludeSenderPatterns []string
	ExcludeBodyPatterns   []string
	Hits                  map[string]int
}

// New creates a new Filter from the provided options.
func New(opts Options) (*Filter, error) {
	includeSender, err := compilePatterns(opts.IncludeSender)
	if err != nil {
		return nil, fmt.Errorf("compile include-sender pattern: %w", err)
	}
	includeBody, err := compilePatterns(opts.IncludeBody)
	if err != nil {
		return nil, fmt.Errorf("compile include-body pattern: %w", err)
	}
	excludeSender, err := compilePatterns(opts.ExcludeSender)
	if err != nil {
		return nil, fmt.Errorf("compile exclude-sender pattern: %w", err)
	}
	excludeBody, err := compilePatterns(opts.ExcludeBody)
	if err != nil {
		return nil, fmt.Errorf("compile exclude-body pattern: %w", err)
	}

	includeActive := len(includeSender) > 0 || len(includeBody) > 0
	excludeActive := len(excludeSender) > 0 || len(excludeBody) > 0
	if includeActive && excludeActive {
		return nil, fmt.Errorf("include and exclude filters are mutually exclusive")
	}

	return &Filter{
		includeMode:   includeActive,
		excludeMode:   excludeActive,
		includeSender: includeSender,
		includeBody:   includeBody,
		excludeSender: excludeSender,
		excludeBody:   excludeBody,
		hits:          make(map[*regexp.Regexp]int),
	}, nil
}

// Active reports whether any pattern is configured.
func (f *Filter) Active() bool {
	return f.includeMode || f.excludeMode
}

// Allows returns true if a message with the given sender and body passes the
// filter criteria.
func (f *Filter) Allows(sender, body string) bool {
	if f.includeMode {
		return f.matchAny(f.includeSender, sender) || f.matchAny(f.includeBody, body)
	}

	if f.excludeMode {
		if f.matchAny(f.excludeSender, sender) || f.matchAny(f.excludeBody, body) {
			return false
		}
	}

	return true
}

// AllowsMessage applies Allows to a message.
func (f *Filter) AllowsMessage(m model.Message) bool {
	return f.Allows(m.Sender, m.Body)
}

// GetStats returns the configured patterns and their hit counts.
func (f *Filter) GetStats() Stats {
	f.mu.Lock()
	defer f.mu.Unlock()

	hits := make(map[string]int, len(f.hits))
	for re, n := range f.hits {
		hits[re.String()] += n
	}
	return Stats{
		IncludeSenderPatterns: patternStrings(f.includeSender),
		IncludeBodyPatterns:   patternStrings(f.includeBody),
		ExcludeSenderPatterns: patternStrings(f.excludeSender),
		ExcludeBodyPatterns:   patternStrings(f.excludeBody),
		Hits:                  hits,
	}
}

func (f *Filter) matchAny(patterns []*regexp.Regexp, text string) bool {
	for _, re := range patterns {
		if re.MatchString(text) {
			f.mu.Lock()
			f.hits[re]++
			f.mu.Unlock()
			return true
		}
	}
	return false
}

func compilePatterns(patterns []string) ([]*regexp.Regexp, error) {
	compiled := make([]*regexp.Regexp, 0, len(patterns))
	for _, pattern := range patterns {
		pattern = strings.TrimSpace(pattern)
		if pattern == "" {
			continue
		}
		re, err := regexp.Compile(pattern)
		if err != nil {
			return nil, fmt.Errorf("compile %q: %w", pattern, err)
		}
		compiled = append(compiled, re)
	}
	return compiled, nil
}

func patternStrings(patterns []*regexp.Regexp) []string {
	out := make([]string, 0, len(patterns))
	for _, re := range patterns {
		out = append(out, re.String())
	}
	return out
}

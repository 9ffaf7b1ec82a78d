package filter

import (
	"testing"
)

// BenchmarkFilter_Allows_NoFilters benchmarks the filter when no filters are active
func BenchmarkFilter_Allows_NoFilters(b *testing.B) {
	f, err := New(Options{})
	if err != nil {
		b.Fatal(err)
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		f.Allows("Alice Smith", "This is a test message body with some content.")
	}
}

// BenchmarkFilter_Allows_WithIncludeFilter benchmarks the filter with include patterns
func BenchmarkFilter_Allows_WithIncludeFilter(b *testing.B) {
	f, err := New(Options{IncludeSender: []string{`^Alice\b`}})
	if err != nil {
		b.Fatal(err)
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		f.Allows("Alice Smith", "This is a test message body with some content.")
	}
}

// BenchmarkFilter_Allows_MultiplePatterns benchmarks with multiple regex patterns
func BenchmarkFilter_Allows_MultiplePatterns(b *testing.B) {
	f, err := New(Options{
		ExcludeSender: []string{"Bot$", "^System", "(?i)facebook"},
		ExcludeBody:   []string{"(?i)unsubscribe", `https?://\S+`},
	})
	if err != nil {
		b.Fatal(err)
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		f.Allows("Alice Smith", "This is a test message body with some content.")
	}
}

package model

import (
	"errors"
	"reflect"
	"testing"
	"time"
)

func TestTokenize(t *testing.T) {
	tests := map[string]struct {
		text string
		want []string
	}{
		"punctuation at boundaries": {
			text: "Hello, world!",
			want: []string{"hello", "world"},
		},
		"brackets and colons": {
			text: "[note]: see; this?",
			want: []string{"note", "see", "this"},
		},
		"punctuation inside a token is kept": {
			text: "e.g. don't 3.14",
			want: []string{"e.g", "don't", "3.14"},
		},
		"punctuation only tokens are dropped": {
			text: "ok ... !!! fine",
			want: []string{"ok", "fine"},
		},
		"empty": {
			text: "  \n\t ",
			want: []string{},
		},
	}
	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			if got := Tokenize(tt.text); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Tokenize(%q) = %v, want %v", tt.text, got, tt.want)
			}
		})
	}
}

func TestMessage_Occurrences(t *testing.T) {
	m := Message{Body: "Hello, hello! HELLO? hello-world"}
	if got := m.Occurrences("Hello"); got != 3 {
		t.Errorf("Occurrences(Hello) = %d, want 3", got)
	}
	if got := m.Occurrences("hello!"); got != 3 {
		t.Errorf("Occurrences(hello!) = %d, want 3", got)
	}
	if got := m.Occurrences(""); got != 0 {
		t.Errorf("Occurrences(\"\") = %d, want 0", got)
	}
	if got := m.Words(); got != 4 {
		t.Errorf("Words() = %d, want 4", got)
	}
}

func TestThread_Last(t *testing.T) {
	thread := Thread{
		Participants: "Alice, Bob",
		Messages: []Message{
			{Sender: "Alice", Body: "first"},
			{Sender: "Bob", Body: "second"},
		},
	}

	last, ok := thread.Last()
	if !ok || last.Sender != "Bob" {
		t.Fatalf("Last() = %+v, %v; want Bob", last, ok)
	}

	if _, ok := (Thread{}).Last(); ok {
		t.Error("Expected Last() on empty thread to report false")
	}

	if _, err := thread.Message(2); !errors.Is(err, ErrNotFound) {
		t.Errorf("Message(2) error = %v, want ErrNotFound", err)
	}
}

func TestThread_MessagesBetween(t *testing.T) {
	base := time.Date(2016, 3, 3, 21, 0, 0, 0, time.UTC)
	thread := Thread{Messages: []Message{
		{Sender: "a", SentAt: base},
		{Sender: "b", SentAt: base.Add(time.Hour)},
		{Sender: "c"},
		{Sender: "d", SentAt: base.Add(3 * time.Hour)},
	}}

	got := thread.MessagesBetween(base, base.Add(3*time.Hour))
	if len(got) != 1 || got[0].Sender != "b" {
		t.Fatalf("MessagesBetween() = %+v, want only b", got)
	}
}

func TestThread_Counts(t *testing.T) {
	thread := Thread{Messages: []Message{
		{Sender: "Alice", Body: "Hello, world!"},
		{Sender: "Bob", Body: "hello there"},
		{Sender: "Alice", Body: "bye"},
	}}

	if got := thread.MessagesBy("Alice"); got != 2 {
		t.Errorf("MessagesBy(Alice) = %d, want 2", got)
	}
	if got := thread.Words(); got != 5 {
		t.Errorf("Words() = %d, want 5", got)
	}
	if got := thread.Occurrences("HELLO"); got != 2 {
		t.Errorf("Occurrences(HELLO) = %d, want 2", got)
	}
	if got := len(thread.MessagesContaining("world")); got != 1 {
		t.Errorf("MessagesContaining(world) = %d messages, want 1", got)
	}
}

func TestErrors_Is(t *testing.T) {
	var err error = &StructuralError{Thread: 2, Participants: "A, B", Message: -1, Reason: "odd"}
	if !errors.Is(err, ErrStructural) {
		t.Error("Expected StructuralError to match ErrStructural")
	}
	if errors.Is(err, ErrTimestampParse) {
		t.Error("StructuralError must not match ErrTimestampParse")
	}

	inner := errors.New("bad month")
	err = &TimestampParseError{Raw: "x", Err: inner}
	if !errors.Is(err, ErrTimestampParse) || !errors.Is(err, inner) {
		t.Error("Expected TimestampParseError to match ErrTimestampParse and its cause")
	}
}

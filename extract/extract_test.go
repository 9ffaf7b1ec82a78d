package extract

import (
	"errors"
	"strings"
	"testing"

	"github.com/dhcgn/fbmessage-stats/markup"
	"github.com/dhcgn/fbmessage-stats/model"
)

func pair(user, stamp, body string) string {
	return `<div class="message"><div class="message_header"><span class="user">` + user +
		`</span><span class="meta">` + stamp + `</span></div></div><p>` + body + `</p>`
}

func threadNode(t *testing.T, participants string, inner ...string) markup.Node {
	t.Helper()
	src := `<html><body><div class="thread">` + participants + "\n" + strings.Join(inner, "\n") + `</div></body></html>`
	root, err := markup.Parse(strings.NewReader(src))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	threads := root.SelectByClass(ClassThread)
	if len(threads) != 1 {
		t.Fatalf("Expected 1 thread region, got %d", len(threads))
	}
	return threads[0]
}

func TestMessage(t *testing.T) {
	container := threadNode(t, "Alice, Bob", pair("Alice", "Thursday, March 3, 2016 at 9:14pm EST", "Hello,   world!"))
	children := container.Children()

	msg, err := Message(children[0], children[1])
	if err != nil {
		t.Fatalf("Message() error = %v", err)
	}
	if msg.Sender != "Alice" {
		t.Errorf("Sender = %q, want Alice", msg.Sender)
	}
	if msg.Body != "Hello, world!" {
		t.Errorf("Body = %q, want %q", msg.Body, "Hello, world!")
	}
	if msg.SentAtRaw != "Thursday, March 3, 2016 at 9:14PM EST" {
		t.Errorf("SentAtRaw = %q", msg.SentAtRaw)
	}
	if !msg.HasSentAt() || msg.SentAt.Format(TimestampLayout) != msg.SentAtRaw {
		t.Errorf("SentAt = %v does not round-trip to %q", msg.SentAt, msg.SentAtRaw)
	}
}

func TestMessage_BadTimestamp(t *testing.T) {
	container := threadNode(t, "Alice, Bob", pair("Alice", "sometime last week", "hi"))
	children := container.Children()

	msg, err := Message(children[0], children[1])
	if !errors.Is(err, model.ErrTimestampParse) {
		t.Fatalf("Expected ErrTimestampParse, got %v", err)
	}
	var tpe *model.TimestampParseError
	if !errors.As(err, &tpe) || tpe.Raw != "sometime last week" {
		t.Errorf("Expected TimestampParseError with raw text, got %v", err)
	}
	if msg.Sender != "Alice" || msg.Body != "hi" || msg.HasSentAt() {
		t.Errorf("Expected usable message without timestamp, got %+v", msg)
	}
}

func TestMessage_Structural(t *testing.T) {
	tests := map[string]string{
		"no header":         `<div class="message"></div><p>x</p>`,
		"no user region":    `<div class="message"><div class="message_header"><span class="meta">Thursday, March 3, 2016 at 9:14pm EST</span></div></div><p>x</p>`,
		"empty user region": `<div class="message"><div class="message_header"><span class="user"> </span><span class="meta">Thursday, March 3, 2016 at 9:14pm EST</span></div></div><p>x</p>`,
		"no meta region":    `<div class="message"><div class="message_header"><span class="user">Alice</span></div></div><p>x</p>`,
	}
	for name, inner := range tests {
		t.Run(name, func(t *testing.T) {
			children := threadNode(t, "Alice", inner).Children()
			_, err := Message(children[0], children[1])
			if !errors.Is(err, model.ErrStructural) {
				t.Errorf("Expected ErrStructural, got %v", err)
			}
		})
	}
}

func TestThread(t *testing.T) {
	container := threadNode(t, "Alice, Bob",
		pair("Alice", "Thursday, March 3, 2016 at 9:14pm EST", "Hello, world!"),
		pair("Bob", "Thursday, March 3, 2016 at 9:15pm EST", "Hi Alice"),
	)

	thread, issues, err := Thread(container, Options{})
	if err != nil {
		t.Fatalf("Thread() error = %v", err)
	}
	if len(issues) != 0 {
		t.Errorf("Expected no issues, got %v", issues)
	}
	if thread.Participants != "Alice, Bob" {
		t.Errorf("Participants = %q", thread.Participants)
	}
	if thread.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", thread.Len())
	}
	if thread.Messages[0].Sender != "Alice" || thread.Messages[1].Sender != "Bob" {
		t.Errorf("Expected document order Alice, Bob, got %+v", thread.Messages)
	}
}

func TestThread_OddChildren(t *testing.T) {
	container := threadNode(t, "Alice, Bob",
		pair("Alice", "Thursday, March 3, 2016 at 9:14pm EST", "one"),
		`<div class="message"><div class="message_header"><span class="user">Bob</span><span class="meta">Thursday, March 3, 2016 at 9:15pm EST</span></div></div>`,
	)

	thread, _, err := Thread(container, Options{})
	if !errors.Is(err, model.ErrStructural) {
		t.Fatalf("Expected ErrStructural, got %v", err)
	}
	if thread.Len() != 0 {
		t.Errorf("Expected no partial thread, got %d messages", thread.Len())
	}
}

func TestThread_Empty(t *testing.T) {
	_, _, err := Thread(threadNode(t, "Alice, Bob"), Options{})
	if !errors.Is(err, model.ErrStructural) {
		t.Fatalf("Expected ErrStructural, got %v", err)
	}
}

func TestThread_MalformedMessage(t *testing.T) {
	broken := `<div class="message"><div class="message_header"><span class="meta">Thursday, March 3, 2016 at 9:15pm EST</span></div></div><p>lost</p>`
	good := pair("Alice", "Thursday, March 3, 2016 at 9:14pm EST", "kept")

	t.Run("lenient skips the message", func(t *testing.T) {
		thread, issues, err := Thread(threadNode(t, "Alice, Bob", good, broken), Options{})
		if err != nil {
			t.Fatalf("Thread() error = %v", err)
		}
		if thread.Len() != 1 || thread.Messages[0].Body != "kept" {
			t.Errorf("Expected only the well-formed message, got %+v", thread.Messages)
		}
		if len(issues) != 1 {
			t.Fatalf("Expected 1 issue, got %d", len(issues))
		}
		var se *model.StructuralError
		if !errors.As(issues[0], &se) || se.Message != 1 || se.Participants != "Alice, Bob" {
			t.Errorf("Expected structural issue for message 1, got %v", issues[0])
		}
	})

	t.Run("strict fails the thread", func(t *testing.T) {
		_, _, err := Thread(threadNode(t, "Alice, Bob", good, broken), Options{Strict: true})
		if !errors.Is(err, model.ErrStructural) {
			t.Fatalf("Expected ErrStructural, got %v", err)
		}
	})

	t.Run("nothing left", func(t *testing.T) {
		_, issues, err := Thread(threadNode(t, "Alice, Bob", broken), Options{})
		if !errors.Is(err, model.ErrStructural) {
			t.Fatalf("Expected ErrStructural, got %v", err)
		}
		if len(issues) != 1 {
			t.Errorf("Expected the skipped message to be reported, got %d issues", len(issues))
		}
	})
}

func TestThread_EmptySenderStrict(t *testing.T) {
	container := threadNode(t, "Alice, Bob", pair("", "Thursday, March 3, 2016 at 9:14pm EST", "who?"))

	if _, _, err := Thread(container, Options{Strict: true}); !errors.Is(err, model.ErrStructural) {
		t.Fatalf("Expected ErrStructural, got %v", err)
	}
}

func TestThread_TimestampIssueKeepsMessage(t *testing.T) {
	container := threadNode(t, "Alice, Bob",
		pair("Alice", "Thursday, March 3, 2016 at 9:14pm EST", "one"),
		pair("Bob", "Saturday, March 3, 2016 at 9:15pm EST", "two"),
	)

	thread, issues, err := Thread(container, Options{Strict: true})
	if err != nil {
		t.Fatalf("Thread() error = %v", err)
	}
	if thread.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", thread.Len())
	}
	if thread.Messages[1].HasSentAt() {
		t.Error("Expected second message to have no timestamp")
	}
	if len(issues) != 1 || !errors.Is(issues[0], model.ErrTimestampParse) {
		t.Errorf("Expected one timestamp issue, got %v", issues)
	}
}

package snapshot

import (
	"testing"

	"github.com/dhcgn/fbmessage-stats/archive"
	"github.com/dhcgn/fbmessage-stats/extract"
	"github.com/dhcgn/fbmessage-stats/model"
)

func message(t *testing.T, sender, raw, body string) model.Message {
	t.Helper()
	m := model.Message{Sender: sender, SentAtRaw: raw, Body: body}
	if sentAt, err := extract.ParseTimestamp(raw); err == nil {
		m.SentAt = sentAt
	}
	return m
}

func testStore(t *testing.T) *archive.Store {
	t.Helper()
	return archive.New([]model.Thread{
		{
			Participants: "Alice Smith, Bob Jones",
			Messages: []model.Message{
				message(t, "Alice Smith", "Thursday, March 3, 2016 at 9:14PM EST", "Hello, <world>!"),
				message(t, "Bob Jones", "Thursday, March 3, 2016 at 9:15PM EST", "Hi \"Alice\""),
			},
		},
		{
			Participants: "Bob Jones, Alice Smith",
			Messages: []model.Message{
				message(t, "Bob Jones", "Saturday, March 4, 2016 at 10:05AM EST", "undated"),
				message(t, "Alice Smith", "Friday, March 4, 2016 at 10:06AM CET", "odd zone"),
			},
		},
	})
}

func assertSameThreads(t *testing.T, want, got []model.Thread) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("Expected %d threads, got %d", len(want), len(got))
	}
	for i := range want {
		if got[i].Participants != want[i].Participants {
			t.Errorf("thread %d: Participants = %q, want %q", i, got[i].Participants, want[i].Participants)
		}
		if got[i].Len() != want[i].Len() {
			t.Fatalf("thread %d: Len() = %d, want %d", i, got[i].Len(), want[i].Len())
		}
		for j, wm := range want[i].Messages {
			gm := got[i].Messages[j]
			if gm.Sender != wm.Sender || gm.Body != wm.Body || gm.SentAtRaw != wm.SentAtRaw {
				t.Errorf("thread %d message %d = %+v, want %+v", i, j, gm, wm)
			}
			if gm.HasSentAt() != wm.HasSentAt() || !gm.SentAt.Equal(wm.SentAt) {
				t.Errorf("thread %d message %d: SentAt = %v, want %v", i, j, gm.SentAt, wm.SentAt)
			}
			if wm.HasSentAt() && gm.SentAt.Format(extract.TimestampLayout) != wm.SentAtRaw {
				t.Errorf("thread %d message %d: zone lost, formatted %q", i, j, gm.SentAt.Format(extract.TimestampLayout))
			}
		}
	}
}

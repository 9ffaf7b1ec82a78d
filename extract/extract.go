// Package extract turns archive markup into messages and threads.
//
// A thread container holds the participant list as its own text, followed by
// alternating metadata and body elements:
//
//	<div class="thread">Alice, Bob
//	  <div class="message"><div class="message_header">
//	    <span class="user">Alice</span>
//	    <span class="meta">Thursday, March 3, 2016 at 9:14pm EST</span>
//	  </div></div>
//	  <p>hello</p>
//	  ...
//	</div>
package extract

import (
	"errors"
	"strings"

	"github.com/dhcgn/fbmessage-stats/markup"
	"github.com/dhcgn/fbmessage-stats/model"
)

const (
	ClassThread = "thread"
	ClassUser   = "user"
	ClassMeta   = "meta"
)

// Options controls how strictly malformed fragments are treated.
type Options struct {
	// Strict fails the whole thread on a malformed message instead of
	// skipping the message.
	Strict bool
}

// Message builds a Message from a metadata fragment and a body fragment.
//
// A *model.TimestampParseError is returned together with a usable message whose
// SentAt is zero. A *model.StructuralError means no message could be built.
func Message(meta, body markup.Node) (model.Message, error) {
	children := meta.Children()
	if len(children) == 0 {
		return model.Message{}, structural(-1, "", "metadata block has no header")
	}
	header := children[0]

	users := header.SelectByClass(ClassUser)
	if len(users) == 0 {
		return model.Message{}, structural(-1, "", "metadata header has no user region")
	}
	stamps := header.SelectByClass(ClassMeta)
	if len(stamps) == 0 {
		return model.Message{}, structural(-1, "", "metadata header has no timestamp region")
	}

	sender := joinText(users)
	if sender == "" {
		return model.Message{}, structural(-1, "", "metadata header has an empty user region")
	}

	msg := model.Message{
		Sender:    sender,
		SentAtRaw: NormalizeTimestamp(joinText(stamps)),
		Body:      body.Text(),
	}

	sentAt, err := ParseTimestamp(msg.SentAtRaw)
	if err != nil {
		return msg, &model.TimestampParseError{Raw: msg.SentAtRaw, Sender: msg.Sender, Err: err}
	}
	msg.SentAt = sentAt
	return msg, nil
}

// Thread builds a Thread from a thread container. The issues slice collects
// per-message problems that did not prevent the thread from being built; err
// is non-nil when the thread itself is unusable.
func Thread(container markup.Node, opts Options) (thread model.Thread, issues []error, err error) {
	participants := container.OwnText()
	children := container.Children()

	if len(children) == 0 {
		return model.Thread{}, nil, structural(-1, participants, "thread has no messages")
	}
	if len(children)%2 != 0 {
		return model.Thread{}, nil, structural(-1, participants, "thread has an odd number of metadata/body elements")
	}

	messages := make([]model.Message, 0, len(children)/2)
	for i := 0; i < len(children); i += 2 {
		msg, err := Message(children[i], children[i+1])
		if err == nil {
			messages = append(messages, msg)
			continue
		}

		var se *model.StructuralError
		if errors.As(err, &se) {
			se.Participants = participants
			se.Message = i / 2
			if opts.Strict {
				return model.Thread{}, nil, se
			}
			issues = append(issues, se)
			continue
		}

		// timestamp problems keep the message
		issues = append(issues, err)
		messages = append(messages, msg)
	}

	if len(messages) == 0 {
		return model.Thread{}, issues, structural(-1, participants, "thread has no well-formed messages")
	}

	return model.Thread{Participants: participants, Messages: messages}, issues, nil
}

func structural(message int, participants, reason string) *model.StructuralError {
	return &model.StructuralError{Thread: -1, Participants: participants, Message: message, Reason: reason}
}

func joinText(nodes []markup.Node) string {
	parts := make([]string, 0, len(nodes))
	for _, n := range nodes {
		if text := n.Text(); text != "" {
			parts = append(parts, text)
		}
	}
	return strings.Join(parts, " ")
}

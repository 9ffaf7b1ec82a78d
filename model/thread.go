package model

import "time"

// Thread is one conversation of an archive. Participants is the member list
// exactly as printed in the archive and is used verbatim as a lookup key, so
// "Alice, Bob" and "Bob, Alice" are different threads.
//
// Messages keep document order. They are not re-sorted by SentAt.
type Thread struct {
	Participants string
	Messages     []Message
}

// Len returns the number of messages in the thread.
func (t Thread) Len() int {
	return len(t.Messages)
}

// Message returns the message at index i.
func (t Thread) Message(i int) (Message, error) {
	if i < 0 || i >= len(t.Messages) {
		return Message{}, ErrNotFound
	}
	return t.Messages[i], nil
}

// First returns the first stored message.
func (t Thread) First() (Message, bool) {
	if len(t.Messages) == 0 {
		return Message{}, false
	}
	return t.Messages[0], true
}

// Last returns the last stored message, at index Len()-1.
func (t Thread) Last() (Message, bool) {
	if len(t.Messages) == 0 {
		return Message{}, false
	}
	return t.Messages[len(t.Messages)-1], true
}

// MessagesBy counts the messages sent by user.
func (t Thread) MessagesBy(user string) int {
	count := 0
	for _, m := range t.Messages {
		if m.Sender == user {
			count++
		}
	}
	return count
}

// Words returns the total number of whitespace separated words.
func (t Thread) Words() int {
	count := 0
	for _, m := range t.Messages {
		count += m.Words()
	}
	return count
}

// Occurrences counts the tokens equal to word across all messages.
func (t Thread) Occurrences(word string) int {
	count := 0
	for _, m := range t.Messages {
		count += m.Occurrences(word)
	}
	return count
}

// MessagesContaining returns the messages holding at least one token equal to word.
func (t Thread) MessagesContaining(word string) []Message {
	var result []Message
	for _, m := range t.Messages {
		if m.Occurrences(word) > 0 {
			result = append(result, m)
		}
	}
	return result
}

// MessagesBetween returns the messages sent strictly between start and end.
func (t Thread) MessagesBetween(start, end time.Time) []Message {
	var result []Message
	for _, m := range t.Messages {
		if m.Between(start, end) {
			result = append(result, m)
		}
	}
	return result
}

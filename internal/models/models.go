package models

import (
	"context"
	"errors"
)

const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// ErrNoResponse signals that a streaming query yielded no content. Callers
// decide whether this is fatal (single-query mode) or a retryable turn
// failure (interactive mode).
var ErrNoResponse = errors.New("no response obtained")

type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Chat is the ordered conversation replayed in full to the completion API on
// every query. Messages[0] is always the system message.
type Chat struct {
	Messages []Message `json:"messages"`
}

// NewChat returns a chat seeded with a single system message.
func NewChat(systemPrompt string) Chat {
	return Chat{
		Messages: []Message{
			{Role: RoleSystem, Content: systemPrompt},
		},
	}
}

// SystemMessage returns the first encountered Message with role 'system'
func (c *Chat) SystemMessage() (Message, error) {
	for _, msg := range c.Messages {
		if msg.Role == RoleSystem {
			return msg, nil
		}
	}
	return Message{}, errors.New("failed to find any system message")
}

// CompletionEvent is one of: string (content fragment), error (stream
// fault), NoopEvent (ignorable chunk) or StopEvent (end of stream).
type CompletionEvent any

// NoopEvent are chunks which exist but contain no printable content, such
// as role announcements or keep-alives.
type NoopEvent struct{}

// StopEvent marks that the vendor has signalled end of stream.
type StopEvent struct{}

// StreamCompleter streams completion events for the given chat. The channel
// is closed when the underlying transport closes.
type StreamCompleter interface {
	StreamCompletions(ctx context.Context, chat Chat) (chan CompletionEvent, error)
}

// Package models contains data types and constants for the dual-assistant chat client.
package models

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// MessageSender identifies who produced a message. The set is closed:
// anything outside these three values is rejected by ParseSender and
// coerced to SenderUser at the import boundary.
type MessageSender string

const (
	SenderUser    MessageSender = "user"
	SenderCognito MessageSender = "cognito"
	SenderMuse    MessageSender = "muse"
)

// ParseSender converts a wire value to a MessageSender.
func ParseSender(s string) (MessageSender, error) {
	switch MessageSender(s) {
	case SenderUser, SenderCognito, SenderMuse:
		return MessageSender(s), nil
	}
	return "", fmt.Errorf("unknown sender: %q", s)
}

// DisplayName returns the sender name as shown in transcripts.
func (s MessageSender) DisplayName() string {
	switch s {
	case SenderCognito:
		return "Cognito"
	case SenderMuse:
		return "Muse"
	default:
		return "You"
	}
}

// MessagePurpose describes the role a message plays in the dual-assistant
// protocol. Closed set, same discipline as MessageSender.
type MessagePurpose string

const (
	PurposeDiscussion         MessagePurpose = "discussion"
	PurposeFinalAnswer        MessagePurpose = "final-answer"
	PurposeSystemNotification MessagePurpose = "system-notification"
)

// ParsePurpose converts a wire value to a MessagePurpose.
func ParsePurpose(s string) (MessagePurpose, error) {
	switch MessagePurpose(s) {
	case PurposeDiscussion, PurposeFinalAnswer, PurposeSystemNotification:
		return MessagePurpose(s), nil
	}
	return "", fmt.Errorf("unknown purpose: %q", s)
}

// ImageAttachment is an inline image carried by a message. All three fields
// are required together; partial data is dropped during normalization.
type ImageAttachment struct {
	DataURL string `json:"dataUrl"`
	Name    string `json:"name"`
	Type    string `json:"type"`
}

// TextAttachment is a text file carried by a message. Name and content are
// required together.
type TextAttachment struct {
	Name    string `json:"name"`
	Content string `json:"content"`
}

// StoredMessage is a single message in a conversation. Timestamps are kept
// as ISO-8601 strings so imported values survive round-trips even when they
// fail to parse as instants.
type StoredMessage struct {
	ID             string           `json:"id"`
	Text           string           `json:"text"`
	Sender         MessageSender    `json:"sender"`
	Purpose        MessagePurpose   `json:"purpose"`
	Timestamp      string           `json:"timestamp"`
	DurationMs     *float64         `json:"durationMs,omitempty"`
	Image          *ImageAttachment `json:"image,omitempty"`
	TextAttachment *TextAttachment  `json:"textAttachment,omitempty"`
}

// Notepad is an additional scratch buffer owned by a conversation. The
// default notepad lives in the conversation's singular notepad fields; this
// type only represents the extras.
type Notepad struct {
	ID           string   `json:"id"`
	Title        string   `json:"title,omitempty"`
	Content      string   `json:"content"`
	History      []string `json:"history,omitempty"`
	HistoryIndex *int     `json:"historyIndex,omitempty"`
}

// Conversation is one chat session: ordered messages, title, timestamps and
// the associated notepad(s).
//
// Notepad, NotepadHistory and NotepadHistoryIndex describe the default
// notepad (id "main"). Notepads holds any additional ones.
type Conversation struct {
	ID                  string          `json:"id"`
	Title               string          `json:"title"`
	CreatedAt           string          `json:"createdAt"`
	UpdatedAt           string          `json:"updatedAt"`
	Messages            []StoredMessage `json:"messages"`
	Notepad             string          `json:"notepad"`
	NotepadHistory      []string        `json:"notepadHistory,omitempty"`
	NotepadHistoryIndex *int            `json:"notepadHistoryIndex,omitempty"`
	Notepads            []Notepad       `json:"notepads,omitempty"`
	ActiveNotepadID     string          `json:"activeNotepadId,omitempty"`
}

// NewConversation creates an empty conversation with fresh timestamps.
func NewConversation(title string) *Conversation {
	now := NowISO()
	if title == "" {
		title = fmt.Sprintf("Chat %s", time.Now().Format("2006-01-02 15:04"))
	}
	return &Conversation{
		ID:        NewConversationID(),
		Title:     title,
		CreatedAt: now,
		UpdatedAt: now,
		Messages:  []StoredMessage{},
		Notepad:   "",
	}
}

// Touch bumps the conversation's UpdatedAt to the current instant.
func (c *Conversation) Touch() {
	c.UpdatedAt = NowISO()
}

// NotepadIDs returns all notepad ids, default first.
func (c *Conversation) NotepadIDs() []string {
	ids := make([]string, 0, len(c.Notepads)+1)
	ids = append(ids, DefaultNotepadID)
	for _, n := range c.Notepads {
		ids = append(ids, n.ID)
	}
	return ids
}

// ActiveNotepad returns the id of the currently active notepad.
func (c *Conversation) ActiveNotepad() string {
	if c.ActiveNotepadID == "" {
		return DefaultNotepadID
	}
	return c.ActiveNotepadID
}

// NewConversationID returns a fresh unique conversation id.
func NewConversationID() string {
	return "conv-" + uuid.NewString()
}

// NewMessageID returns a fresh unique message id.
func NewMessageID() string {
	return "msg-" + uuid.NewString()
}

// NewNotepadID returns a fresh unique notepad id.
func NewNotepadID() string {
	return "np-" + uuid.NewString()
}

// NowISO returns the current instant as an ISO-8601 UTC string.
func NowISO() string {
	return time.Now().UTC().Format(time.RFC3339Nano)
}

// ParseTime parses an ISO-8601 timestamp string. The second return value
// reports whether the string was a valid instant.
func ParseTime(s string) (time.Time, bool) {
	for _, layout := range []string{time.RFC3339Nano, time.RFC3339, "2006-01-02T15:04:05"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

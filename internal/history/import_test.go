package history

import (
	"errors"
	"testing"

	apperrors "github.com/diogo/dualchat/internal/errors"
	"github.com/diogo/dualchat/internal/models"
)

func TestNormalize_InvalidJSON(t *testing.T) {
	_, err := Normalize([]byte("{not json"))
	if err == nil {
		t.Fatal("expected error for invalid JSON")
	}
	if !errors.Is(err, apperrors.ErrImportFailed) {
		t.Errorf("error should match ErrImportFailed, got %v", err)
	}
}

func TestNormalize_ScalarTopLevel(t *testing.T) {
	if _, err := Normalize([]byte(`"just a string"`)); err == nil {
		t.Error("expected error for scalar top-level value")
	}
	if _, err := Normalize([]byte(`42`)); err == nil {
		t.Error("expected error for numeric top-level value")
	}
}

func TestNormalize_SingleObjectBecomesOneElement(t *testing.T) {
	convs, err := Normalize([]byte(`{"title":"Solo"}`))
	if err != nil {
		t.Fatalf("Normalize failed: %v", err)
	}
	if len(convs) != 1 {
		t.Fatalf("expected 1 conversation, got %d", len(convs))
	}
	if convs[0].Title != "Solo" {
		t.Errorf("Title = %s, want Solo", convs[0].Title)
	}
}

func TestNormalize_DropsMalformedEntries(t *testing.T) {
	input := `[{"title":"A"}, {"bogus":123,"messages":"not-an-array"}, null]`

	convs, err := Normalize([]byte(input))
	if err != nil {
		t.Fatalf("Normalize failed: %v", err)
	}
	if len(convs) != 1 {
		t.Fatalf("expected exactly 1 conversation, got %d", len(convs))
	}
	if convs[0].Title != "A" {
		t.Errorf("Title = %s, want A", convs[0].Title)
	}
}

func TestNormalize_SynthesizesMissingFields(t *testing.T) {
	convs, err := Normalize([]byte(`{"title":""}`))
	if err != nil {
		t.Fatalf("Normalize failed: %v", err)
	}
	c := convs[0]

	if c.ID == "" {
		t.Error("missing id should be synthesized")
	}
	if c.Title != models.DefaultImportTitle {
		t.Errorf("Title = %s, want localized default", c.Title)
	}
	if c.CreatedAt == "" {
		t.Error("missing createdAt should default to now")
	}
	if c.UpdatedAt != c.CreatedAt {
		t.Error("missing updatedAt should default to createdAt")
	}
	if c.Messages == nil || len(c.Messages) != 0 {
		t.Error("messages should default to an empty list")
	}
	if c.Notepad != "" {
		t.Error("notepad should default to empty string")
	}
}

func TestNormalize_PreservesProvidedTimestamps(t *testing.T) {
	convs, _ := Normalize([]byte(`{"id":"x","createdAt":"2024-01-01T00:00:00Z","updatedAt":"2024-02-01T00:00:00Z"}`))
	if convs[0].CreatedAt != "2024-01-01T00:00:00Z" {
		t.Errorf("CreatedAt = %s", convs[0].CreatedAt)
	}
	if convs[0].UpdatedAt != "2024-02-01T00:00:00Z" {
		t.Errorf("UpdatedAt = %s", convs[0].UpdatedAt)
	}
}

func TestNormalize_NotepadCoercion(t *testing.T) {
	convs, _ := Normalize([]byte(`{"id":"x","notepad":42}`))
	if convs[0].Notepad != "" {
		t.Error("non-string notepad should coerce to empty string")
	}

	convs, _ = Normalize([]byte(`{"id":"x","notepad":"keep me"}`))
	if convs[0].Notepad != "keep me" {
		t.Errorf("Notepad = %q", convs[0].Notepad)
	}
}

func TestNormalize_NotepadHistory(t *testing.T) {
	// Non-array history is dropped
	convs, _ := Normalize([]byte(`{"id":"x","notepadHistory":"nope","notepadHistoryIndex":1}`))
	if convs[0].NotepadHistory != nil {
		t.Error("non-array notepadHistory should be dropped")
	}
	if convs[0].NotepadHistoryIndex != nil {
		t.Error("index without history is meaningless and must be absent")
	}

	// Elements coerced to string, index kept when numeric
	convs, _ = Normalize([]byte(`{"id":"x","notepadHistory":["a",7,"c"],"notepadHistoryIndex":1}`))
	hist := convs[0].NotepadHistory
	if len(hist) != 3 || hist[1] != "7" {
		t.Errorf("history = %v, want elements coerced to string", hist)
	}
	if convs[0].NotepadHistoryIndex == nil || *convs[0].NotepadHistoryIndex != 1 {
		t.Error("numeric index should be kept")
	}

	// Non-numeric index defaults to last valid index
	convs, _ = Normalize([]byte(`{"id":"x","notepadHistory":["a","b"],"notepadHistoryIndex":"bad"}`))
	if convs[0].NotepadHistoryIndex == nil || *convs[0].NotepadHistoryIndex != 1 {
		t.Error("invalid index should default to last index")
	}

	// Out-of-range index is clamped
	convs, _ = Normalize([]byte(`{"id":"x","notepadHistory":["a","b"],"notepadHistoryIndex":99}`))
	if *convs[0].NotepadHistoryIndex != 1 {
		t.Errorf("index = %d, want clamped to 1", *convs[0].NotepadHistoryIndex)
	}
}

func TestNormalize_MessageCoercion(t *testing.T) {
	input := `{"id":"x","messages":[
		{"text":"hello","sender":"cognito","purpose":"final-answer","timestamp":"2024-01-01T00:00:00Z"},
		{"sender":"alien","purpose":"gossip"},
		"not-an-object",
		null
	]}`

	convs, err := Normalize([]byte(input))
	if err != nil {
		t.Fatalf("Normalize failed: %v", err)
	}

	msgs := convs[0].Messages
	if len(msgs) != 2 {
		t.Fatalf("expected 2 messages, got %d", len(msgs))
	}

	if msgs[0].Sender != models.SenderCognito || msgs[0].Purpose != models.PurposeFinalAnswer {
		t.Errorf("message 0 = %s/%s", msgs[0].Sender, msgs[0].Purpose)
	}

	// Unknown sender/purpose coerce to the defensive defaults
	if msgs[1].Sender != models.SenderUser {
		t.Errorf("unknown sender should coerce to user, got %s", msgs[1].Sender)
	}
	if msgs[1].Purpose != models.PurposeDiscussion {
		t.Errorf("unknown purpose should coerce to discussion, got %s", msgs[1].Purpose)
	}
	if msgs[1].ID == "" || msgs[1].Timestamp == "" {
		t.Error("missing message id/timestamp should be synthesized")
	}
	if msgs[1].Text != "" {
		t.Error("missing text should become empty string")
	}
}

func TestNormalize_PartialAttachmentsDropped(t *testing.T) {
	input := `{"id":"x","messages":[
		{"text":"a","image":{"dataUrl":"data:image/png;base64,xx","name":"pic.png","type":"image/png"}},
		{"text":"b","image":{"name":"orphan.png"}},
		{"text":"c","textAttachment":{"name":"notes.txt","content":"body"}},
		{"text":"d","textAttachment":{"content":"no name"}}
	]}`

	convs, _ := Normalize([]byte(input))
	msgs := convs[0].Messages

	if msgs[0].Image == nil {
		t.Error("complete image attachment should be kept")
	}
	if msgs[1].Image != nil {
		t.Error("partial image attachment should be dropped entirely")
	}
	if msgs[2].TextAttachment == nil {
		t.Error("complete text attachment should be kept")
	}
	if msgs[3].TextAttachment != nil {
		t.Error("partial text attachment should be dropped entirely")
	}
}

func TestNormalize_DurationMs(t *testing.T) {
	convs, _ := Normalize([]byte(`{"id":"x","messages":[{"durationMs":1500},{"durationMs":-5},{"durationMs":"fast"}]}`))
	msgs := convs[0].Messages

	if msgs[0].DurationMs == nil || *msgs[0].DurationMs != 1500 {
		t.Error("non-negative numeric durationMs should be kept")
	}
	if msgs[1].DurationMs != nil {
		t.Error("negative durationMs should be dropped")
	}
	if msgs[2].DurationMs != nil {
		t.Error("non-numeric durationMs should be dropped")
	}
}

func TestNormalize_ExtraNotepads(t *testing.T) {
	input := `{"id":"x","notepads":[
		{"id":"np-1","content":"alpha","history":["","alpha"],"historyIndex":1},
		{"content":"no id"},
		"junk"
	],"activeNotepadId":"np-1"}`

	convs, _ := Normalize([]byte(input))
	c := convs[0]

	if len(c.Notepads) != 2 {
		t.Fatalf("expected 2 extra notepads, got %d", len(c.Notepads))
	}
	if c.Notepads[0].Content != "alpha" {
		t.Errorf("content = %q", c.Notepads[0].Content)
	}
	if c.Notepads[1].ID == "" {
		t.Error("missing notepad id should be synthesized")
	}
	if c.ActiveNotepadID != "np-1" {
		t.Errorf("ActiveNotepadID = %s, want np-1", c.ActiveNotepadID)
	}
}

func TestNormalize_UnknownActiveNotepadCleared(t *testing.T) {
	convs, _ := Normalize([]byte(`{"id":"x","activeNotepadId":"ghost"}`))
	if convs[0].ActiveNotepadID != "" {
		t.Error("active id referencing no known notepad should be cleared")
	}
}

func TestSafeParseConversations(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  int
	}{
		{"empty", "", 0},
		{"invalid", "{broken", 0},
		{"not an array", `{"id":"x"}`, 0},
		{"array", `[{"title":"A"},{"title":"B"}]`, 2},
		{"array with junk", `[{"title":"A"}, 17, null]`, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SafeParseConversations([]byte(tt.input))
			if got == nil {
				t.Fatal("SafeParseConversations must never return nil")
			}
			if len(got) != tt.want {
				t.Errorf("got %d conversations, want %d", len(got), tt.want)
			}
		})
	}
}

package history

import (
	"strings"
	"testing"
	"time"

	"github.com/diogo/dualchat/internal/models"
)

func sampleConversation() *models.Conversation {
	duration := 1234.0
	idx := 1
	return &models.Conversation{
		ID:        "conv-abc12345def",
		Title:     "Planning <session>",
		CreatedAt: "2024-01-01T10:00:00Z",
		UpdatedAt: "2024-01-01T11:00:00Z",
		Messages: []models.StoredMessage{
			{
				ID:        "msg-1",
				Text:      "What should we build?",
				Sender:    models.SenderUser,
				Purpose:   models.PurposeDiscussion,
				Timestamp: "2024-01-01T10:00:00Z",
			},
			{
				ID:         "msg-2",
				Text:       "A <b>plan</b> & a sketch",
				Sender:     models.SenderCognito,
				Purpose:    models.PurposeFinalAnswer,
				Timestamp:  "2024-01-01T10:05:00Z",
				DurationMs: &duration,
				TextAttachment: &models.TextAttachment{
					Name:    "notes.txt",
					Content: "details",
				},
			},
		},
		Notepad:             "current notes",
		NotepadHistory:      []string{"", "current notes"},
		NotepadHistoryIndex: &idx,
	}
}

func TestFormatConversationJSON_RoundTrip(t *testing.T) {
	c := sampleConversation()

	out, err := FormatConversationJSON(c)
	if err != nil {
		t.Fatalf("FormatConversationJSON failed: %v", err)
	}

	convs, err := Normalize([]byte(out))
	if err != nil {
		t.Fatalf("Normalize of exported JSON failed: %v", err)
	}
	if len(convs) != 1 {
		t.Fatalf("expected 1 conversation, got %d", len(convs))
	}

	got := convs[0]
	if got.ID != c.ID || got.Title != c.Title {
		t.Errorf("id/title mismatch: %s/%s", got.ID, got.Title)
	}
	if got.CreatedAt != c.CreatedAt || got.UpdatedAt != c.UpdatedAt {
		t.Error("timestamps should round-trip unchanged")
	}
	if len(got.Messages) != len(c.Messages) {
		t.Fatalf("message count = %d, want %d", len(got.Messages), len(c.Messages))
	}
	for i := range c.Messages {
		if got.Messages[i].Text != c.Messages[i].Text ||
			got.Messages[i].Sender != c.Messages[i].Sender ||
			got.Messages[i].Purpose != c.Messages[i].Purpose {
			t.Errorf("message %d did not round-trip", i)
		}
	}
	if got.Notepad != c.Notepad {
		t.Error("notepad should round-trip")
	}
	if got.NotepadHistoryIndex == nil || *got.NotepadHistoryIndex != 1 {
		t.Error("notepad history index should round-trip")
	}
	if got.Messages[1].TextAttachment == nil || got.Messages[1].TextAttachment.Name != "notes.txt" {
		t.Error("text attachment should round-trip")
	}
	if got.Messages[1].DurationMs == nil || *got.Messages[1].DurationMs != 1234 {
		t.Error("durationMs should round-trip")
	}
}

func TestFormatAllJSON_Empty(t *testing.T) {
	out, err := FormatAllJSON(nil)
	if err != nil {
		t.Fatalf("FormatAllJSON failed: %v", err)
	}
	if strings.TrimSpace(out) != "[]" {
		t.Errorf("empty export = %q, want []", out)
	}
}

func TestFormatConversationText(t *testing.T) {
	out := FormatConversationText(sampleConversation())

	for _, want := range []string{
		"# Conversation: Planning <session>",
		"ID: conv-abc12345def",
		"--- Messages ---",
		"user (discussion)",
		"cognito (final-answer)",
		"[attachment: notes.txt]",
		"--- Notepad (current) ---",
		"current notes",
		"2 snapshots, current index 1",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("text export missing %q", want)
		}
	}
}

func TestFormatConversationText_UnparseableTimestampPassesThrough(t *testing.T) {
	c := sampleConversation()
	c.Messages[0].Timestamp = "whenever"

	out := FormatConversationText(c)
	if !strings.Contains(out, "[whenever]") {
		t.Error("unparseable timestamps should be rendered as-is")
	}
}

func TestFormatAllText_Separator(t *testing.T) {
	a := sampleConversation()
	b := sampleConversation()
	b.ID = "conv-other"
	b.Title = "Second"

	out := FormatAllText([]*models.Conversation{a, b})
	if !strings.Contains(out, "===============================") {
		t.Error("multi-conversation export needs a section separator")
	}
	if !strings.Contains(out, "Second") {
		t.Error("second conversation missing from export")
	}
}

func TestFormatConversationHTML_Escaping(t *testing.T) {
	c := sampleConversation()
	c.Notepad = `<script>alert("x")</script>`

	out := FormatConversationHTML(c)

	if strings.Contains(out, "<script>alert") {
		t.Error("unescaped markup leaked into HTML export")
	}
	if !strings.Contains(out, "&lt;script&gt;") {
		t.Error("notepad content should be escaped")
	}
	if !strings.Contains(out, "Planning &lt;session&gt;") {
		t.Error("title should be escaped")
	}
	if !strings.Contains(out, "A &lt;b&gt;plan&lt;/b&gt; &amp; a sketch") {
		t.Error("message text should be escaped")
	}
	if !strings.HasPrefix(out, "<!doctype html>") {
		t.Error("HTML export should be a self-contained document")
	}
}

func TestFormatAllHTML(t *testing.T) {
	a := sampleConversation()
	b := sampleConversation()
	b.ID = "conv-b"
	b.Title = "B side"

	out := FormatAllHTML([]*models.Conversation{a, b})

	if strings.Count(out, "class=\"conversation\"") != 2 {
		t.Error("expected one section per conversation")
	}
	if !strings.Contains(out, "B side") {
		t.Error("second conversation missing")
	}
}

func TestSanitizeFilename(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{`a/b:c*d`, "a_b_c_d"},
		{`plain title`, "plain title"},
		{`???`, "_"},
		{``, "export"},
		{`  `, "export"},
		{`a\b/c:d*e?f"g<h>i|j`, "a_b_c_d_e_f_g_h_i_j"},
	}

	for _, tt := range tests {
		got := SanitizeFilename(tt.input)
		if got != tt.want {
			t.Errorf("SanitizeFilename(%q) = %q, want %q", tt.input, got, tt.want)
		}
		for _, forbidden := range `\/:*?"<>|` {
			if strings.ContainsRune(got, forbidden) {
				t.Errorf("SanitizeFilename(%q) contains forbidden %q", tt.input, forbidden)
			}
		}
	}
}

func TestExportFilename(t *testing.T) {
	c := sampleConversation()
	now := time.Date(2024, 6, 1, 12, 30, 0, 0, time.UTC)

	name := ExportFilename(c, ExportFormatJSON, now)
	if name != "Planning _session_-abc12345-20240601-123000.json" {
		t.Errorf("ExportFilename = %q", name)
	}

	// Repeated exports at different instants must not collide
	other := ExportFilename(c, ExportFormatJSON, now.Add(time.Second))
	if name == other {
		t.Error("filenames should differ across export times")
	}
}

func TestParseExportFormat(t *testing.T) {
	for input, want := range map[string]ExportFormat{
		"json": ExportFormatJSON,
		"txt":  ExportFormatText,
		"text": ExportFormatText,
		"HTML": ExportFormatHTML,
	} {
		got, err := ParseExportFormat(input)
		if err != nil || got != want {
			t.Errorf("ParseExportFormat(%q) = %v, %v; want %v", input, got, err, want)
		}
	}

	if _, err := ParseExportFormat("pdf"); err == nil {
		t.Error("expected error for unknown format")
	}
}

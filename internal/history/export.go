package history

import (
	"encoding/json"
	"fmt"
	"html"
	"strings"
	"time"

	"github.com/diogo/dualchat/internal/models"
)

// ExportFormat represents the format for exporting conversations
type ExportFormat string

const (
	ExportFormatJSON ExportFormat = "json"
	ExportFormatText ExportFormat = "txt"
	ExportFormatHTML ExportFormat = "html"
)

// ParseExportFormat converts a user-supplied format name.
func ParseExportFormat(s string) (ExportFormat, error) {
	switch ExportFormat(strings.ToLower(s)) {
	case ExportFormatJSON, ExportFormatText, ExportFormatHTML:
		return ExportFormat(strings.ToLower(s)), nil
	case "text":
		return ExportFormatText, nil
	}
	return "", fmt.Errorf("unknown export format: %q (want json, txt or html)", s)
}

// Extension returns the file extension for the format.
func (f ExportFormat) Extension() string {
	return string(f)
}

// MIME returns the MIME type for the format.
func (f ExportFormat) MIME() string {
	switch f {
	case ExportFormatJSON:
		return "application/json"
	case ExportFormatHTML:
		return "text/html"
	default:
		return "text/plain"
	}
}

const conversationSeparator = "\n\n===============================\n"

// FormatConversationJSON renders one conversation as pretty-printed JSON.
// The output round-trips through Normalize.
func FormatConversationJSON(c *models.Conversation) (string, error) {
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal conversation: %w", err)
	}
	return string(data), nil
}

// FormatAllJSON renders a conversation sequence as a pretty-printed JSON array.
func FormatAllJSON(convs []*models.Conversation) (string, error) {
	if convs == nil {
		convs = []*models.Conversation{}
	}
	data, err := json.MarshalIndent(convs, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal conversations: %w", err)
	}
	return string(data), nil
}

// FormatConversationText renders one conversation as a human-readable
// transcript.
func FormatConversationText(c *models.Conversation) string {
	var sb strings.Builder

	sb.WriteString("# Conversation: ")
	sb.WriteString(c.Title)
	sb.WriteString("\n")
	sb.WriteString("ID: ")
	sb.WriteString(c.ID)
	sb.WriteString("\n")
	sb.WriteString("Created: ")
	sb.WriteString(formatTimestamp(c.CreatedAt))
	sb.WriteString("\n")
	sb.WriteString("Updated: ")
	sb.WriteString(formatTimestamp(c.UpdatedAt))
	sb.WriteString("\n\n")

	sb.WriteString("--- Messages ---\n")
	for _, msg := range c.Messages {
		sb.WriteString(formatMessageLine(&msg))
		sb.WriteString("\n\n")
	}

	sb.WriteString("--- Notepad (current) ---\n")
	sb.WriteString(c.Notepad)
	if n := len(c.NotepadHistory); n > 0 {
		idx := n - 1
		if c.NotepadHistoryIndex != nil {
			idx = *c.NotepadHistoryIndex
		}
		sb.WriteString("\n\n")
		sb.WriteString(fmt.Sprintf("(notepad history: %d snapshots, current index %d)", n, idx))
	}

	for _, np := range c.Notepads {
		title := np.Title
		if title == "" {
			title = np.ID
		}
		sb.WriteString("\n\n--- Notepad: ")
		sb.WriteString(title)
		sb.WriteString(" ---\n")
		sb.WriteString(np.Content)
	}

	return sb.String()
}

// FormatAllText concatenates single-conversation transcripts with a section
// separator. Ordering is caller-supplied.
func FormatAllText(convs []*models.Conversation) string {
	sections := make([]string, 0, len(convs))
	for _, c := range convs {
		sections = append(sections, FormatConversationText(c))
	}
	return strings.Join(sections, conversationSeparator)
}

func formatMessageLine(msg *models.StoredMessage) string {
	var sb strings.Builder
	sb.WriteString("[")
	sb.WriteString(formatTimestamp(msg.Timestamp))
	sb.WriteString("] ")
	sb.WriteString(string(msg.Sender))
	sb.WriteString(" (")
	sb.WriteString(string(msg.Purpose))
	sb.WriteString(")")
	if msg.TextAttachment != nil {
		sb.WriteString(fmt.Sprintf(" [attachment: %s]", msg.TextAttachment.Name))
	}
	if msg.Image != nil {
		sb.WriteString(fmt.Sprintf(" [image: %s]", msg.Image.Name))
	}
	sb.WriteString(":\n")
	sb.WriteString(msg.Text)
	return sb.String()
}

// formatTimestamp renders an ISO timestamp for display; unparseable values
// pass through untouched.
func formatTimestamp(iso string) string {
	if t, ok := models.ParseTime(iso); ok {
		return t.Local().Format("2006-01-02 15:04:05")
	}
	return iso
}

const htmlStyle = `    body { font-family: system-ui, -apple-system, Segoe UI, Roboto, Helvetica, Arial, sans-serif; background: #fff; color: #111; margin: 16px; }
    h1 { color: #0ea5e9; font-size: 20px; margin: 0 0 4px 0; }
    h2 { color: #0369a1; font-size: 18px; margin: 16px 0 6px; }
    .meta { color: #555; font-size: 12px; margin-bottom: 8px; }
    .conversation { border: 1px solid #e5e7eb; border-radius: 6px; padding: 12px; margin: 12px 0; background: #fafafa; }
    .message { border: 1px solid #e5e7eb; border-radius: 6px; padding: 8px; margin: 8px 0; background: #fff; }
    .message .header { font-size: 12px; color: #374151; margin-bottom: 6px; }
    pre { white-space: pre-wrap; word-break: break-word; background: #fff; padding: 8px; border: 1px solid #e5e7eb; border-radius: 4px; }
    .notepad pre { background: #f8fafc; }`

// FormatConversationHTML renders one conversation as a self-contained HTML
// document. Every piece of conversation data is escaped before embedding.
func FormatConversationHTML(c *models.Conversation) string {
	var sb strings.Builder

	sb.WriteString("<!doctype html>\n<html lang=\"en\">\n<head>\n")
	sb.WriteString("  <meta charset=\"utf-8\" />\n")
	sb.WriteString("  <title>")
	sb.WriteString(html.EscapeString(c.Title))
	sb.WriteString("</title>\n  <style>\n")
	sb.WriteString(htmlStyle)
	sb.WriteString("\n  </style>\n</head>\n<body>\n")

	sb.WriteString("  <h1>")
	sb.WriteString(html.EscapeString(c.Title))
	sb.WriteString("</h1>\n")
	sb.WriteString("  <div class=\"meta\">ID: ")
	sb.WriteString(html.EscapeString(c.ID))
	sb.WriteString("</div>\n")
	sb.WriteString("  <div class=\"meta\">Created: ")
	sb.WriteString(html.EscapeString(formatTimestamp(c.CreatedAt)))
	sb.WriteString(" | Updated: ")
	sb.WriteString(html.EscapeString(formatTimestamp(c.UpdatedAt)))
	sb.WriteString("</div>\n")

	sb.WriteString("  <section class=\"messages\">\n    <h2>Messages</h2>\n")
	for _, msg := range c.Messages {
		writeMessageHTML(&sb, &msg)
	}
	sb.WriteString("  </section>\n")

	writeNotepadHTML(&sb, c)

	sb.WriteString("</body>\n</html>\n")
	return sb.String()
}

// FormatAllHTML renders a conversation sequence as one self-contained HTML
// document with a section per conversation.
func FormatAllHTML(convs []*models.Conversation) string {
	var sb strings.Builder

	sb.WriteString("<!doctype html>\n<html lang=\"en\">\n<head>\n")
	sb.WriteString("  <meta charset=\"utf-8\" />\n")
	sb.WriteString("  <title>Dual AI Chat export</title>\n  <style>\n")
	sb.WriteString(htmlStyle)
	sb.WriteString("\n  </style>\n</head>\n<body>\n")
	sb.WriteString("  <h1>Dual AI Chat export</h1>\n")

	for _, c := range convs {
		sb.WriteString("  <section class=\"conversation\">\n")
		sb.WriteString("    <h2>")
		sb.WriteString(html.EscapeString(c.Title))
		sb.WriteString("</h2>\n")
		sb.WriteString("    <div class=\"meta\">ID: ")
		sb.WriteString(html.EscapeString(c.ID))
		sb.WriteString(" | ")
		sb.WriteString(html.EscapeString(formatTimestamp(c.CreatedAt)))
		sb.WriteString(" / ")
		sb.WriteString(html.EscapeString(formatTimestamp(c.UpdatedAt)))
		sb.WriteString(fmt.Sprintf(" | %d messages</div>\n", len(c.Messages)))
		for _, msg := range c.Messages {
			writeMessageHTML(&sb, &msg)
		}
		writeNotepadHTML(&sb, c)
		sb.WriteString("  </section>\n")
	}

	sb.WriteString("</body>\n</html>\n")
	return sb.String()
}

func writeMessageHTML(sb *strings.Builder, msg *models.StoredMessage) {
	sb.WriteString("    <div class=\"message\"><div class=\"header\">[")
	sb.WriteString(html.EscapeString(formatTimestamp(msg.Timestamp)))
	sb.WriteString("] ")
	sb.WriteString(html.EscapeString(string(msg.Sender)))
	sb.WriteString(" (")
	sb.WriteString(html.EscapeString(string(msg.Purpose)))
	sb.WriteString(")</div><pre>")
	sb.WriteString(html.EscapeString(msg.Text))
	sb.WriteString("</pre>")
	if msg.TextAttachment != nil {
		sb.WriteString("<div class=\"meta\">Attachment: ")
		sb.WriteString(html.EscapeString(msg.TextAttachment.Name))
		sb.WriteString("</div>")
	}
	if msg.Image != nil {
		sb.WriteString("<div class=\"meta\">Image: ")
		sb.WriteString(html.EscapeString(msg.Image.Name))
		sb.WriteString("</div>")
	}
	sb.WriteString("</div>\n")
}

func writeNotepadHTML(sb *strings.Builder, c *models.Conversation) {
	sb.WriteString("  <section class=\"notepad\">\n    <h2>Notepad (current)</h2>\n    <pre>")
	sb.WriteString(html.EscapeString(c.Notepad))
	sb.WriteString("</pre>\n")
	if n := len(c.NotepadHistory); n > 0 {
		idx := n - 1
		if c.NotepadHistoryIndex != nil {
			idx = *c.NotepadHistoryIndex
		}
		sb.WriteString(fmt.Sprintf("    <div class=\"meta\">Notepad history: %d snapshots, current index %d</div>\n", n, idx))
	}
	for _, np := range c.Notepads {
		title := np.Title
		if title == "" {
			title = np.ID
		}
		sb.WriteString("    <h2>Notepad: ")
		sb.WriteString(html.EscapeString(title))
		sb.WriteString("</h2>\n    <pre>")
		sb.WriteString(html.EscapeString(np.Content))
		sb.WriteString("</pre>\n")
	}
	sb.WriteString("  </section>\n")
}

// SanitizeFilename replaces characters that are not filesystem-safe with
// underscores. An empty result falls back to "export".
func SanitizeFilename(name string) string {
	var sb strings.Builder
	lastWasUnderscore := false
	for _, r := range name {
		switch r {
		case '\\', '/', ':', '*', '?', '"', '<', '>', '|':
			if !lastWasUnderscore {
				sb.WriteRune('_')
				lastWasUnderscore = true
			}
		default:
			sb.WriteRune(r)
			lastWasUnderscore = false
		}
	}

	sanitized := strings.TrimSpace(sb.String())
	if sanitized == "" {
		return "export"
	}
	return sanitized
}

// ExportFilename derives a collision-resistant filename for a conversation
// export: sanitized title, short id fragment and a timestamp, so repeated
// exports do not silently overwrite one another.
func ExportFilename(c *models.Conversation, format ExportFormat, now time.Time) string {
	short := strings.TrimPrefix(c.ID, "conv-")
	if len(short) > 8 {
		short = short[:8]
	}
	return fmt.Sprintf("%s-%s-%s.%s",
		SanitizeFilename(c.Title), short, now.Format("20060102-150405"), format.Extension())
}

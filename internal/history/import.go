package history

import (
	"github.com/tidwall/gjson"

	apperrors "github.com/diogo/dualchat/internal/errors"
	"github.com/diogo/dualchat/internal/models"
)

// Normalize coerces an arbitrary JSON document into well-formed
// conversations. The document may be a single object or an array; every
// field may be missing, wrong-typed or hostile. Records that cannot be
// salvaged are silently dropped — one corrupt entry never aborts the whole
// import. The result is a fresh list; caller state is never touched.
//
// Returns an ImportError when the input is not valid JSON or is neither an
// object nor an array.
func Normalize(raw []byte) ([]*models.Conversation, error) {
	if !gjson.ValidBytes(raw) {
		return nil, apperrors.NewImportError("not valid JSON")
	}

	doc := gjson.ParseBytes(raw)
	out := []*models.Conversation{}

	switch {
	case doc.IsArray():
		doc.ForEach(func(_, item gjson.Result) bool {
			if c := normalizeConversation(item); c != nil {
				out = append(out, c)
			}
			return true
		})
	case doc.IsObject():
		if c := normalizeConversation(doc); c != nil {
			out = append(out, c)
		}
	default:
		return nil, apperrors.NewImportError("expected an object or an array of conversations")
	}

	return out, nil
}

// SafeParseConversations applies the importer's discipline to persistence
// read-back: invalid or missing data yields an empty collection, never an
// error.
func SafeParseConversations(raw []byte) []*models.Conversation {
	if len(raw) == 0 || !gjson.ValidBytes(raw) {
		return []*models.Conversation{}
	}

	doc := gjson.ParseBytes(raw)
	if !doc.IsArray() {
		return []*models.Conversation{}
	}

	out := []*models.Conversation{}
	doc.ForEach(func(_, item gjson.Result) bool {
		if c := normalizeConversation(item); c != nil {
			out = append(out, c)
		}
		return true
	})
	return out
}

// normalizeConversation coerces one record, or returns nil when the record
// is unsalvageable. A record is salvageable when it is an object carrying at
// least one of: a non-empty id string, a title string, or a messages array.
func normalizeConversation(item gjson.Result) *models.Conversation {
	if !item.IsObject() {
		return nil
	}

	id := item.Get("id")
	title := item.Get("title")
	messages := item.Get("messages")

	hasID := id.Type == gjson.String && id.String() != ""
	hasTitle := title.Type == gjson.String
	hasMessages := messages.IsArray()
	if !hasID && !hasTitle && !hasMessages {
		return nil
	}

	c := &models.Conversation{Messages: []models.StoredMessage{}}

	if hasID {
		c.ID = id.String()
	} else {
		c.ID = models.NewConversationID()
	}

	if hasTitle && title.String() != "" {
		c.Title = title.String()
	} else {
		c.Title = models.DefaultImportTitle
	}

	if created := item.Get("createdAt"); created.Type == gjson.String && created.String() != "" {
		c.CreatedAt = created.String()
	} else {
		c.CreatedAt = models.NowISO()
	}
	if updated := item.Get("updatedAt"); updated.Type == gjson.String && updated.String() != "" {
		c.UpdatedAt = updated.String()
	} else {
		c.UpdatedAt = c.CreatedAt
	}

	if hasMessages {
		messages.ForEach(func(_, m gjson.Result) bool {
			if msg := normalizeMessage(m); msg != nil {
				c.Messages = append(c.Messages, *msg)
			}
			return true
		})
	}

	if notepad := item.Get("notepad"); notepad.Type == gjson.String {
		c.Notepad = notepad.String()
	}

	if hist := item.Get("notepadHistory"); hist.IsArray() {
		snapshots := []string{}
		hist.ForEach(func(_, s gjson.Result) bool {
			snapshots = append(snapshots, s.String())
			return true
		})
		c.NotepadHistory = snapshots
	}
	if len(c.NotepadHistory) > 0 {
		last := len(c.NotepadHistory) - 1
		idx := last
		if v := item.Get("notepadHistoryIndex"); v.Type == gjson.Number {
			idx = int(v.Int())
			if idx < 0 {
				idx = 0
			}
			if idx > last {
				idx = last
			}
		}
		c.NotepadHistoryIndex = &idx
	}

	if pads := item.Get("notepads"); pads.IsArray() {
		pads.ForEach(func(_, p gjson.Result) bool {
			if np := normalizeNotepad(p); np != nil {
				c.Notepads = append(c.Notepads, *np)
			}
			return true
		})
	}
	if active := item.Get("activeNotepadId"); active.Type == gjson.String {
		for _, known := range c.NotepadIDs() {
			if known == active.String() {
				c.ActiveNotepadID = active.String()
				break
			}
		}
	}

	return c
}

func normalizeMessage(m gjson.Result) *models.StoredMessage {
	if !m.IsObject() {
		return nil
	}

	msg := &models.StoredMessage{
		Sender:  models.SenderUser,
		Purpose: models.PurposeDiscussion,
	}

	if id := m.Get("id"); id.Type == gjson.String && id.String() != "" {
		msg.ID = id.String()
	} else {
		msg.ID = models.NewMessageID()
	}

	if text := m.Get("text"); text.Type == gjson.String {
		msg.Text = text.String()
	}

	if sender, err := models.ParseSender(m.Get("sender").String()); err == nil {
		msg.Sender = sender
	}
	if purpose, err := models.ParsePurpose(m.Get("purpose").String()); err == nil {
		msg.Purpose = purpose
	}

	if ts := m.Get("timestamp"); ts.Type == gjson.String && ts.String() != "" {
		msg.Timestamp = ts.String()
	} else {
		msg.Timestamp = models.NowISO()
	}

	if d := m.Get("durationMs"); d.Type == gjson.Number && d.Float() >= 0 {
		v := d.Float()
		msg.DurationMs = &v
	}

	// Attachments are kept only when complete; partial data is dropped.
	if img := m.Get("image"); img.IsObject() {
		dataURL := img.Get("dataUrl")
		name := img.Get("name")
		typ := img.Get("type")
		if dataURL.Type == gjson.String && dataURL.String() != "" &&
			name.Type == gjson.String && name.String() != "" &&
			typ.Type == gjson.String && typ.String() != "" {
			msg.Image = &models.ImageAttachment{
				DataURL: dataURL.String(),
				Name:    name.String(),
				Type:    typ.String(),
			}
		}
	}
	if att := m.Get("textAttachment"); att.IsObject() {
		name := att.Get("name")
		content := att.Get("content")
		if name.Type == gjson.String && name.String() != "" && content.Type == gjson.String {
			msg.TextAttachment = &models.TextAttachment{
				Name:    name.String(),
				Content: content.String(),
			}
		}
	}

	return msg
}

func normalizeNotepad(p gjson.Result) *models.Notepad {
	if !p.IsObject() {
		return nil
	}

	np := &models.Notepad{}

	if id := p.Get("id"); id.Type == gjson.String && id.String() != "" {
		np.ID = id.String()
	} else {
		np.ID = models.NewMessageID()
	}
	if title := p.Get("title"); title.Type == gjson.String {
		np.Title = title.String()
	}
	if content := p.Get("content"); content.Type == gjson.String {
		np.Content = content.String()
	}

	if hist := p.Get("history"); hist.IsArray() {
		snapshots := []string{}
		hist.ForEach(func(_, s gjson.Result) bool {
			snapshots = append(snapshots, s.String())
			return true
		})
		np.History = snapshots
	}
	if len(np.History) > 0 {
		last := len(np.History) - 1
		idx := last
		if v := p.Get("historyIndex"); v.Type == gjson.Number {
			idx = int(v.Int())
			if idx < 0 {
				idx = 0
			}
			if idx > last {
				idx = last
			}
		}
		np.HistoryIndex = &idx
	}

	return np
}

package history

import (
	"fmt"

	apperrors "github.com/diogo/dualchat/internal/errors"
	"github.com/diogo/dualchat/internal/models"
)

// NotepadState is a snapshot of a notepad's content and history position,
// for display. CanUndo/CanRedo are derived from the history cursor.
type NotepadState struct {
	ID        string
	Title     string
	Content   string
	CanUndo   bool
	CanRedo   bool
	Snapshots int
	Cursor    int
}

// loadActiveNotepad returns the active conversation, the active notepad id
// and its rebuilt history. Must be called with the lock held.
func (s *Store) loadActiveNotepad() (*models.Conversation, string, *NotepadHistory, error) {
	conv := s.findLocked(s.activeID)
	if conv == nil {
		return nil, "", nil, apperrors.ErrNoActiveConversation
	}

	id := conv.ActiveNotepad()
	h, ok := loadNotepad(conv, id)
	if !ok {
		return nil, "", nil, fmt.Errorf("%w: %s", apperrors.ErrNotepadNotFound, id)
	}
	return conv, id, h, nil
}

// loadNotepad rebuilds the history for a notepad id on a conversation.
func loadNotepad(conv *models.Conversation, id string) (*NotepadHistory, bool) {
	if id == models.DefaultNotepadID {
		return LoadNotepadHistory(conv.Notepad, conv.NotepadHistory, conv.NotepadHistoryIndex), true
	}
	for i := range conv.Notepads {
		if conv.Notepads[i].ID == id {
			np := &conv.Notepads[i]
			return LoadNotepadHistory(np.Content, np.History, np.HistoryIndex), true
		}
	}
	return nil, false
}

// storeNotepad writes a history back onto the conversation's persisted
// notepad fields.
func storeNotepad(conv *models.Conversation, id string, h *NotepadHistory) {
	cursor := h.Cursor()
	if id == models.DefaultNotepadID {
		conv.Notepad = h.Current()
		conv.NotepadHistory = h.Snapshots()
		conv.NotepadHistoryIndex = &cursor
		return
	}
	for i := range conv.Notepads {
		if conv.Notepads[i].ID == id {
			conv.Notepads[i].Content = h.Current()
			conv.Notepads[i].History = h.Snapshots()
			conv.Notepads[i].HistoryIndex = &cursor
			return
		}
	}
}

// ApplyNotepadEdit updates the active notepad's content and records a
// history snapshot. Recording content equal to the current snapshot is a
// no-op and does not bump updatedAt.
func (s *Store) ApplyNotepadEdit(text string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	conv, id, h, err := s.loadActiveNotepad()
	if err != nil {
		return err
	}

	if !h.Record(text) {
		return nil
	}

	storeNotepad(conv, id, h)
	conv.Touch()
	s.persist()
	return nil
}

// NotepadUndo steps the active notepad one snapshot back. The bool reports
// whether an undo was available.
func (s *Store) NotepadUndo() (string, bool, error) {
	return s.notepadStep((*NotepadHistory).Undo)
}

// NotepadRedo steps the active notepad one snapshot forward.
func (s *Store) NotepadRedo() (string, bool, error) {
	return s.notepadStep((*NotepadHistory).Redo)
}

func (s *Store) notepadStep(step func(*NotepadHistory) (string, bool)) (string, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	conv, id, h, err := s.loadActiveNotepad()
	if err != nil {
		return "", false, err
	}

	text, moved := step(h)
	if !moved {
		return text, false, nil
	}

	storeNotepad(conv, id, h)
	conv.Touch()
	s.persist()
	return text, true, nil
}

// NotepadClearHistory collapses the active notepad's history to its current
// content.
func (s *Store) NotepadClearHistory() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	conv, id, h, err := s.loadActiveNotepad()
	if err != nil {
		return err
	}

	h.Clear()
	storeNotepad(conv, id, h)
	conv.Touch()
	s.persist()
	return nil
}

// NotepadState returns the active notepad's current state.
func (s *Store) NotepadState() (*NotepadState, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	conv, id, h, err := s.loadActiveNotepad()
	if err != nil {
		return nil, err
	}

	state := &NotepadState{
		ID:        id,
		Content:   h.Current(),
		CanUndo:   h.CanUndo(),
		CanRedo:   h.CanRedo(),
		Snapshots: h.Len(),
		Cursor:    h.Cursor(),
	}
	for _, np := range conv.Notepads {
		if np.ID == id {
			state.Title = np.Title
		}
	}
	return state, nil
}

// AddNotepad creates a fresh empty notepad on the active conversation and
// makes it active.
func (s *Store) AddNotepad(title string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	conv := s.findLocked(s.activeID)
	if conv == nil {
		return "", apperrors.ErrNoActiveConversation
	}

	if title == "" {
		title = fmt.Sprintf("Notepad %d", len(conv.Notepads)+2)
	}
	np := models.Notepad{
		ID:    models.NewNotepadID(),
		Title: title,
	}
	conv.Notepads = append(conv.Notepads, np)
	conv.ActiveNotepadID = np.ID
	conv.Touch()
	s.persist()
	return np.ID, nil
}

// SelectNotepad switches the active notepad of the active conversation.
func (s *Store) SelectNotepad(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	conv := s.findLocked(s.activeID)
	if conv == nil {
		return apperrors.ErrNoActiveConversation
	}

	for _, known := range conv.NotepadIDs() {
		if known == id {
			if id == models.DefaultNotepadID {
				conv.ActiveNotepadID = ""
			} else {
				conv.ActiveNotepadID = id
			}
			s.persist()
			return nil
		}
	}
	return fmt.Errorf("%w: %s", apperrors.ErrNotepadNotFound, id)
}

// RemoveNotepad deletes a notepad. A conversation is never left without
// one: removing the default notepad resets it to a fresh empty state, and
// when the active notepad goes away activation falls back to the default.
func (s *Store) RemoveNotepad(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	conv := s.findLocked(s.activeID)
	if conv == nil {
		return apperrors.ErrNoActiveConversation
	}

	if id == models.DefaultNotepadID {
		conv.Notepad = ""
		conv.NotepadHistory = nil
		conv.NotepadHistoryIndex = nil
		if conv.ActiveNotepad() == id && len(conv.Notepads) > 0 {
			conv.ActiveNotepadID = conv.Notepads[0].ID
		}
		conv.Touch()
		s.persist()
		return nil
	}

	idx := -1
	for i := range conv.Notepads {
		if conv.Notepads[i].ID == id {
			idx = i
			break
		}
	}
	if idx == -1 {
		return fmt.Errorf("%w: %s", apperrors.ErrNotepadNotFound, id)
	}

	conv.Notepads = append(conv.Notepads[:idx], conv.Notepads[idx+1:]...)
	if conv.ActiveNotepadID == id {
		conv.ActiveNotepadID = ""
	}
	conv.Touch()
	s.persist()
	return nil
}

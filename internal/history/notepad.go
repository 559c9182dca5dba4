// Package history provides conversation persistence, merging and versioning.
package history

// NotepadHistory is a bounded linear undo history over text snapshots:
// an ordered snapshot slice plus a cursor. Branching histories are
// unsupported; recording a new edit after an undo discards the redo branch.
type NotepadHistory struct {
	snapshots []string
	cursor    int
}

// NewNotepadHistory creates a history seeded with the current content.
func NewNotepadHistory(current string) *NotepadHistory {
	return &NotepadHistory{snapshots: []string{current}}
}

// LoadNotepadHistory rebuilds a history from persisted snapshots and an
// optional cursor index. Empty snapshot lists fall back to a fresh history
// over current; an out-of-range index is clamped.
func LoadNotepadHistory(current string, snapshots []string, index *int) *NotepadHistory {
	if len(snapshots) == 0 {
		return NewNotepadHistory(current)
	}

	h := &NotepadHistory{snapshots: append([]string(nil), snapshots...)}
	h.cursor = len(h.snapshots) - 1
	if index != nil {
		h.cursor = *index
	}
	if h.cursor < 0 {
		h.cursor = 0
	}
	if h.cursor > len(h.snapshots)-1 {
		h.cursor = len(h.snapshots) - 1
	}
	return h
}

// Record appends a new snapshot, truncating any redo branch past the cursor.
// Recording text equal to the current snapshot is a no-op. Returns whether
// the history changed.
func (h *NotepadHistory) Record(text string) bool {
	if h.snapshots[h.cursor] == text {
		return false
	}
	h.snapshots = append(h.snapshots[:h.cursor+1], text)
	h.cursor = len(h.snapshots) - 1
	return true
}

// Undo moves the cursor one snapshot back and returns the content now
// pointed to. At the lower bound it reports unavailable and returns the
// current content unchanged.
func (h *NotepadHistory) Undo() (string, bool) {
	if !h.CanUndo() {
		return h.Current(), false
	}
	h.cursor--
	return h.snapshots[h.cursor], true
}

// Redo moves the cursor one snapshot forward. Same bound behavior as Undo.
func (h *NotepadHistory) Redo() (string, bool) {
	if !h.CanRedo() {
		return h.Current(), false
	}
	h.cursor++
	return h.snapshots[h.cursor], true
}

// Clear collapses the history to a single entry equal to the current
// content. Content is preserved; only history is discarded.
func (h *NotepadHistory) Clear() {
	h.snapshots = []string{h.Current()}
	h.cursor = 0
}

// CanUndo reports whether an older snapshot exists.
func (h *NotepadHistory) CanUndo() bool {
	return h.cursor > 0
}

// CanRedo reports whether a newer snapshot exists.
func (h *NotepadHistory) CanRedo() bool {
	return h.cursor < len(h.snapshots)-1
}

// Current returns the snapshot at the cursor.
func (h *NotepadHistory) Current() string {
	return h.snapshots[h.cursor]
}

// Snapshots returns a copy of the snapshot sequence.
func (h *NotepadHistory) Snapshots() []string {
	return append([]string(nil), h.snapshots...)
}

// Cursor returns the current cursor position.
func (h *NotepadHistory) Cursor() int {
	return h.cursor
}

// Len returns the number of snapshots.
func (h *NotepadHistory) Len() int {
	return len(h.snapshots)
}

package history

import "testing"

func TestNotepadHistory_RecordUndoRedo(t *testing.T) {
	h := NewNotepadHistory("")
	h.Record("t1")
	h.Record("t2")

	got, ok := h.Undo()
	if !ok || got != "t1" {
		t.Errorf("Undo = %q, %v; want t1, true", got, ok)
	}

	got, ok = h.Redo()
	if !ok || got != "t2" {
		t.Errorf("Redo = %q, %v; want t2, true", got, ok)
	}
}

func TestNotepadHistory_RecordEqualIsNoop(t *testing.T) {
	h := NewNotepadHistory("same")

	if h.Record("same") {
		t.Error("recording equal content should be a no-op")
	}
	if h.Len() != 1 {
		t.Errorf("Len = %d, want 1", h.Len())
	}
}

func TestNotepadHistory_RecordDiscardsRedoBranch(t *testing.T) {
	h := NewNotepadHistory("")
	h.Record("a")
	h.Record("b")

	got, _ := h.Undo()
	if got != "a" {
		t.Fatalf("Undo = %q, want a", got)
	}

	h.Record("c")

	if h.CanRedo() {
		t.Error("redo should be unavailable after a new edit; no way back to b")
	}
	if h.Current() != "c" {
		t.Errorf("Current = %q, want c", h.Current())
	}

	got, _ = h.Undo()
	if got != "a" {
		t.Errorf("Undo after branch discard = %q, want a", got)
	}
}

func TestNotepadHistory_UndoAtLowerBound(t *testing.T) {
	h := NewNotepadHistory("only")

	got, ok := h.Undo()
	if ok {
		t.Error("Undo at lower bound should report unavailable")
	}
	if got != "only" {
		t.Errorf("Undo returned %q, want current content", got)
	}
}

func TestNotepadHistory_RedoAtUpperBound(t *testing.T) {
	h := NewNotepadHistory("")
	h.Record("a")

	_, ok := h.Redo()
	if ok {
		t.Error("Redo at upper bound should report unavailable")
	}
}

func TestNotepadHistory_Clear(t *testing.T) {
	h := NewNotepadHistory("")
	h.Record("a")
	h.Record("b")
	h.Undo()

	h.Clear()

	if h.Current() != "a" {
		t.Errorf("Clear should preserve current content, got %q", h.Current())
	}
	if h.CanUndo() || h.CanRedo() {
		t.Error("Clear should reset canUndo/canRedo to false")
	}
	if h.Len() != 1 || h.Cursor() != 0 {
		t.Errorf("Len = %d cursor = %d, want 1, 0", h.Len(), h.Cursor())
	}
}

func TestNotepadHistory_CanUndoCanRedoDerived(t *testing.T) {
	h := NewNotepadHistory("")
	if h.CanUndo() || h.CanRedo() {
		t.Error("fresh history should have no undo/redo")
	}

	h.Record("a")
	if !h.CanUndo() || h.CanRedo() {
		t.Error("after record: canUndo true, canRedo false")
	}

	h.Undo()
	if h.CanUndo() || !h.CanRedo() {
		t.Error("after undo to start: canUndo false, canRedo true")
	}
}

func TestLoadNotepadHistory_Empty(t *testing.T) {
	h := LoadNotepadHistory("current", nil, nil)

	if h.Current() != "current" {
		t.Errorf("Current = %q, want current", h.Current())
	}
	if h.Len() != 1 {
		t.Errorf("Len = %d, want 1", h.Len())
	}
}

func TestLoadNotepadHistory_DefaultsToLastIndex(t *testing.T) {
	h := LoadNotepadHistory("c", []string{"a", "b", "c"}, nil)

	if h.Cursor() != 2 {
		t.Errorf("cursor = %d, want 2", h.Cursor())
	}
}

func TestLoadNotepadHistory_ClampsIndex(t *testing.T) {
	tooBig := 10
	h := LoadNotepadHistory("c", []string{"a", "b", "c"}, &tooBig)
	if h.Cursor() != 2 {
		t.Errorf("cursor = %d, want clamped to 2", h.Cursor())
	}

	negative := -3
	h = LoadNotepadHistory("c", []string{"a", "b", "c"}, &negative)
	if h.Cursor() != 0 {
		t.Errorf("cursor = %d, want clamped to 0", h.Cursor())
	}
}

func TestLoadNotepadHistory_HonorsIndex(t *testing.T) {
	idx := 1
	h := LoadNotepadHistory("c", []string{"a", "b", "c"}, &idx)

	if h.Current() != "b" {
		t.Errorf("Current = %q, want b", h.Current())
	}
	if !h.CanUndo() || !h.CanRedo() {
		t.Error("mid-history cursor should allow both undo and redo")
	}
}

package config

import (
	"strconv"

	"github.com/diogo/dualchat/internal/models"
	"github.com/diogo/dualchat/internal/storage"
)

// Panel width bounds, in percent of the terminal width.
const (
	MinPanelWidthPercent     = 20
	MaxPanelWidthPercent     = 80
	DefaultPanelWidthPercent = 60
)

// Preferences are the UI layout settings persisted alongside conversation
// state.
type Preferences struct {
	ChatPanelWidthPercent int
	NotepadFullscreen     bool
}

// DefaultPreferences returns the layout defaults.
func DefaultPreferences() Preferences {
	return Preferences{ChatPanelWidthPercent: DefaultPanelWidthPercent}
}

// ClampPanelWidth forces a width percentage into the allowed range.
func ClampPanelWidth(percent int) int {
	if percent < MinPanelWidthPercent {
		return MinPanelWidthPercent
	}
	if percent > MaxPanelWidthPercent {
		return MaxPanelWidthPercent
	}
	return percent
}

// LoadPreferences reads layout preferences from the backend. Missing or
// unreadable values fall back to defaults.
func LoadPreferences(backend storage.Backend) Preferences {
	prefs := DefaultPreferences()

	if raw, ok, err := backend.Get(models.StorageKeyPanelWidthPercent); err == nil && ok {
		if percent, err := strconv.Atoi(string(raw)); err == nil {
			prefs.ChatPanelWidthPercent = ClampPanelWidth(percent)
		}
	}

	if raw, ok, err := backend.Get(models.StorageKeyNotepadFullscreen); err == nil && ok {
		prefs.NotepadFullscreen = string(raw) == "true"
	}

	return prefs
}

// SavePreferences writes layout preferences to the backend.
func SavePreferences(backend storage.Backend, prefs Preferences) error {
	width := strconv.Itoa(ClampPanelWidth(prefs.ChatPanelWidthPercent))
	if err := backend.Put(models.StorageKeyPanelWidthPercent, []byte(width)); err != nil {
		return err
	}
	return backend.Put(models.StorageKeyNotepadFullscreen, []byte(strconv.FormatBool(prefs.NotepadFullscreen)))
}

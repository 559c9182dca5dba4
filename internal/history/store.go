package history

import (
	"encoding/json"
	"fmt"
	"sync"

	"github.com/rs/zerolog"

	apperrors "github.com/diogo/dualchat/internal/errors"
	"github.com/diogo/dualchat/internal/models"
	"github.com/diogo/dualchat/internal/storage"
)

// Store owns the authoritative in-memory conversation collection and the
// active selection, persisting the full collection through an injected
// key-value backend after every mutation.
//
// Persistence is best-effort: a failed write never fails the mutation.
// In-memory state stays the source of truth; the failure is logged and kept
// available through PersistWarning so callers can surface it.
type Store struct {
	mu      sync.RWMutex
	backend storage.Backend
	log     zerolog.Logger

	conversations []*models.Conversation
	activeID      string
	persistErr    error
}

// NewStore creates a store and loads state from the backend. Invalid or
// missing persisted data yields an empty collection, never an error.
func NewStore(backend storage.Backend, log zerolog.Logger) *Store {
	s := &Store{
		backend:       backend,
		log:           log,
		conversations: []*models.Conversation{},
	}
	s.load()
	return s
}

func (s *Store) load() {
	raw, ok, err := s.backend.Get(models.StorageKeyConversations)
	if err != nil {
		s.log.Warn().Err(err).Msg("failed to read persisted conversations, starting empty")
		return
	}
	if ok {
		s.conversations = SafeParseConversations(raw)
	}

	rawID, ok, err := s.backend.Get(models.StorageKeyActiveConversation)
	if err != nil || !ok {
		return
	}
	id := string(rawID)
	if s.findLocked(id) != nil {
		s.activeID = id
	}
}

// persist writes the full collection and active id to the backend. Must be
// called with the write lock held.
func (s *Store) persist() {
	s.persistErr = nil

	data, err := json.Marshal(s.conversations)
	if err != nil {
		s.persistErr = apperrors.NewPersistError(models.StorageKeyConversations, err)
		s.log.Warn().Err(err).Msg("failed to serialize conversations")
		return
	}
	if err := s.backend.Put(models.StorageKeyConversations, data); err != nil {
		s.persistErr = apperrors.NewPersistError(models.StorageKeyConversations, err)
		s.log.Warn().Err(err).Msg("failed to persist conversations")
		return
	}

	if err := s.backend.Put(models.StorageKeyActiveConversation, []byte(s.activeID)); err != nil {
		s.persistErr = apperrors.NewPersistError(models.StorageKeyActiveConversation, err)
		s.log.Warn().Err(err).Msg("failed to persist active conversation id")
	}
}

// PersistWarning returns the error from the most recent persistence write,
// or nil. Mutations succeed regardless; this exists so the UI can show a
// non-fatal warning.
func (s *Store) PersistWarning() error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.persistErr
}

func (s *Store) findLocked(id string) *models.Conversation {
	for _, c := range s.conversations {
		if c.ID == id {
			return c
		}
	}
	return nil
}

// Create starts a new empty conversation and makes it the active one.
func (s *Store) Create(title string) *models.Conversation {
	s.mu.Lock()
	defer s.mu.Unlock()

	conv := models.NewConversation(title)
	s.conversations = append(s.conversations, conv)
	s.activeID = conv.ID
	s.persist()
	return conv
}

// List returns all conversations sorted most-recently-updated first.
func (s *Store) List() []*models.Conversation {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := append([]*models.Conversation(nil), s.conversations...)
	SortByRecency(out)
	return out
}

// Get retrieves a conversation by id.
func (s *Store) Get(id string) (*models.Conversation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if c := s.findLocked(id); c != nil {
		return c, nil
	}
	return nil, fmt.Errorf("%w: %s", apperrors.ErrConversationNotFound, id)
}

// Select switches the active conversation. Selecting an absent id is a
// no-op; the return value reports whether the selection changed.
func (s *Store) Select(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.findLocked(id) == nil {
		return false
	}
	s.activeID = id
	s.persist()
	return true
}

// Active returns the active conversation, or nil when none is selected.
func (s *Store) Active() *models.Conversation {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.activeID == "" {
		return nil
	}
	return s.findLocked(s.activeID)
}

// ActiveID returns the active conversation id, or empty.
func (s *Store) ActiveID() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.activeID
}

// Rename changes a conversation's title.
func (s *Store) Rename(id, title string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if title == "" {
		return fmt.Errorf("title cannot be empty")
	}

	conv := s.findLocked(id)
	if conv == nil {
		return fmt.Errorf("%w: %s", apperrors.ErrConversationNotFound, id)
	}

	conv.Title = title
	conv.Touch()
	s.persist()
	return nil
}

// Delete removes a conversation. When the active conversation is deleted,
// the most-recently-updated remainder becomes active, or none remains.
func (s *Store) Delete(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := -1
	for i, c := range s.conversations {
		if c.ID == id {
			idx = i
			break
		}
	}
	if idx == -1 {
		return fmt.Errorf("%w: %s", apperrors.ErrConversationNotFound, id)
	}

	s.conversations = append(s.conversations[:idx], s.conversations[idx+1:]...)

	if s.activeID == id {
		s.activeID = ""
		if len(s.conversations) > 0 {
			remaining := append([]*models.Conversation(nil), s.conversations...)
			SortByRecency(remaining)
			s.activeID = remaining[0].ID
		}
	}

	s.persist()
	return nil
}

// DeleteAll removes every conversation and clears the selection.
func (s *Store) DeleteAll() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.conversations = []*models.Conversation{}
	s.activeID = ""
	s.persist()
}

// AppendMessage pushes a message onto the active conversation. A missing
// message id or timestamp is synthesized. The first user message sets the
// title of a conversation that still carries its default name.
func (s *Store) AppendMessage(msg models.StoredMessage) (*models.Conversation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	conv := s.findLocked(s.activeID)
	if conv == nil {
		return nil, apperrors.ErrNoActiveConversation
	}

	if msg.ID == "" {
		msg.ID = models.NewMessageID()
	}
	if msg.Timestamp == "" {
		msg.Timestamp = models.NowISO()
	}

	conv.Messages = append(conv.Messages, msg)

	if msg.Sender == models.SenderUser && len(conv.Messages) == 1 {
		title := msg.Text
		if len(title) > models.MaxAutoTitleLen {
			title = title[:models.MaxAutoTitleLen] + "..."
		}
		if title != "" {
			conv.Title = title
		}
	}

	conv.Touch()
	s.persist()
	return conv, nil
}

// Import normalizes raw JSON, merges the result with the current collection
// and atomically replaces it. On failure (invalid JSON or zero usable
// records) the collection is left unchanged. Returns the number of imported
// records.
func (s *Store) Import(raw []byte) (int, error) {
	incoming, err := Normalize(raw)
	if err != nil {
		return 0, err
	}
	if len(incoming) == 0 {
		return 0, apperrors.NewImportError("no usable conversations in file")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.conversations = Merge(s.conversations, incoming)

	if s.activeID != "" && s.findLocked(s.activeID) == nil {
		s.activeID = ""
	}
	if s.activeID == "" && len(s.conversations) > 0 {
		s.activeID = s.conversations[0].ID // merge result is recency-first
	}

	s.persist()
	return len(incoming), nil
}

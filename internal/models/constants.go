package models

// Keys at the persistence boundary. One key holds the serialized
// conversation collection, one the active conversation id, the rest hold
// UI layout preferences.
const (
	StorageKeyConversations      = "dualchat.conversations"
	StorageKeyActiveConversation = "dualchat.activeConversationId"
	StorageKeyPanelWidthPercent  = "dualchat.chatPanelWidthPercent"
	StorageKeyNotepadFullscreen  = "dualchat.isNotepadFullscreen"
)

// DefaultNotepadID is the id of the notepad backed by a conversation's
// singular notepad fields. Every conversation has it.
const DefaultNotepadID = "main"

// DefaultImportTitle is the title substituted for imported conversations
// that carry none.
const DefaultImportTitle = "Imported conversation"

// Auto-titles derived from the first user message are truncated to this
// many characters.
const MaxAutoTitleLen = 50

package tui

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/diogo/dualchat/internal/models"
)

// ConversationSource defines the store operations needed by the selector
type ConversationSource interface {
	List() []*models.Conversation
	ActiveID() string
}

// conversationsLoadedMsg is sent when conversations are loaded
type conversationsLoadedMsg struct {
	conversations []*models.Conversation
	activeID      string
}

// SelectorModel represents the conversation selector TUI state
type SelectorModel struct {
	source ConversationSource

	// Data
	conversations []*models.Conversation
	activeID      string

	// Navigation
	cursor int

	// State
	loading   bool
	confirmed bool

	// Result
	selectedConv *models.Conversation // nil means new conversation
	isNewConv    bool

	// Dimensions
	width  int
	height int
	ready  bool
}

// NewSelectorModel creates a new conversation selector model
func NewSelectorModel(source ConversationSource) SelectorModel {
	return SelectorModel{
		source:  source,
		loading: true,
		cursor:  0, // Start at "New Conversation"
	}
}

// Init initializes the model and starts loading conversations
func (m SelectorModel) Init() tea.Cmd {
	return m.loadConversations()
}

func (m SelectorModel) loadConversations() tea.Cmd {
	return func() tea.Msg {
		return conversationsLoadedMsg{
			conversations: m.source.List(),
			activeID:      m.source.ActiveID(),
		}
	}
}

// Update handles messages and updates the model
func (m SelectorModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true

	case conversationsLoadedMsg:
		m.loading = false
		m.conversations = msg.conversations
		m.activeID = msg.activeID

	case tea.KeyMsg:
		if m.loading {
			return m, nil
		}

		switch msg.String() {
		case "ctrl+c", "esc", "q":
			return m, tea.Quit

		case "up", "k":
			m.cursor--
			if m.cursor < 0 {
				// Wrap to last item (+1 for "New Conversation" option)
				m.cursor = len(m.conversations)
			}

		case "down", "j":
			m.cursor++
			if m.cursor > len(m.conversations) {
				m.cursor = 0
			}

		case "enter":
			m.confirmed = true
			if m.cursor == 0 {
				m.isNewConv = true
				m.selectedConv = nil
			} else {
				m.isNewConv = false
				m.selectedConv = m.conversations[m.cursor-1]
			}
			return m, tea.Quit

		case "home", "g":
			m.cursor = 0

		case "end", "G":
			m.cursor = len(m.conversations)
		}
	}

	return m, nil
}

// View renders the TUI
func (m SelectorModel) View() string {
	if !m.ready {
		return loadingStyle.Render("  Initializing...")
	}

	if m.loading {
		return loadingStyle.Render("  Loading conversations...")
	}

	contentWidth := m.width - 4
	if contentWidth < 40 {
		contentWidth = 40
	}

	sections := []string{
		m.renderHeader(contentWidth),
		m.renderList(contentWidth),
		m.renderStatusBar(contentWidth),
	}
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m SelectorModel) renderHeader(width int) string {
	title := selectorTitleStyle.Render("Select Conversation")
	return selectorHeaderStyle.Width(width).Render(title)
}

func (m SelectorModel) renderList(width int) string {
	title := selectorSectionStyle.Render("Conversations")

	var items []string

	// "New Conversation" option (always first)
	items = append(items, m.renderItem(0, "+ New Conversation", false, "", width-6))

	if len(m.conversations) == 0 {
		items = append(items, hintStyle.Render("  No saved conversations"))
	} else {
		availableHeight := m.height - 12
		maxItems := max(5, availableHeight/2)

		scrollOffset := 0
		if m.cursor >= maxItems {
			scrollOffset = m.cursor - maxItems + 1
		}

		endIdx := min(scrollOffset+maxItems, len(m.conversations)+1)

		for i := scrollOffset; i < endIdx; i++ {
			if i == 0 {
				// Already rendered "New Conversation"
				continue
			}
			conv := m.conversations[i-1]
			items = append(items, m.renderItem(i, conv.Title, conv.ID == m.activeID, conv.UpdatedAt, width-6))
		}

		if scrollOffset > 0 {
			items = append([]string{hintStyle.Render("  ...")}, items...)
		}
		if endIdx < len(m.conversations)+1 {
			items = append(items, hintStyle.Render("  ..."))
		}
	}

	content := lipgloss.JoinVertical(lipgloss.Left, append([]string{title, ""}, items...)...)
	return selectorPanelStyle.Width(width).Render(content)
}

func (m SelectorModel) renderItem(index int, title string, active bool, updatedAt string, width int) string {
	cursor := "  "
	titleStyle := selectorItemStyle
	if index == m.cursor {
		cursor = selectorCursorStyle.Render("> ")
		titleStyle = selectorSelectedStyle
	}

	line := cursor + titleStyle.Render(title)

	if active {
		line += selectorCursorStyle.Render(" *")
	}

	if timeStr := relativeTime(updatedAt); timeStr != "" {
		line += selectorDimStyle.Render(fmt.Sprintf(" - %s", timeStr))
	}

	return line
}

// relativeTime renders a stored timestamp as a short "ago" string. An
// unparseable timestamp yields nothing.
func relativeTime(stamp string) string {
	ts, ok := models.ParseTime(stamp)
	if !ok {
		return ""
	}

	diff := time.Since(ts)
	switch {
	case diff < time.Hour:
		return fmt.Sprintf("%dm ago", int(diff.Minutes()))
	case diff < 24*time.Hour:
		return fmt.Sprintf("%dh ago", int(diff.Hours()))
	case diff < 7*24*time.Hour:
		return fmt.Sprintf("%dd ago", int(diff.Hours()/24))
	default:
		return ts.Format("Jan 2")
	}
}

func (m SelectorModel) renderStatusBar(width int) string {
	shortcuts := []struct {
		key  string
		desc string
	}{
		{"↑↓", "Navigate"},
		{"Enter", "Select"},
		{"Esc", "Quit"},
	}

	var items []string
	for _, s := range shortcuts {
		item := lipgloss.JoinHorizontal(
			lipgloss.Center,
			statusKeyStyle.Render(s.key),
			statusDescStyle.Render(" "+s.desc),
		)
		items = append(items, item)
	}

	bar := lipgloss.JoinHorizontal(lipgloss.Center, strings.Join(items, "  |  "))
	return selectorStatusBarStyle.Width(width).Align(lipgloss.Center).Render(bar)
}

// Result returns the selected conversation (nil for new) and whether confirmed
func (m SelectorModel) Result() (*models.Conversation, bool, bool) {
	return m.selectedConv, m.isNewConv, m.confirmed
}

// SelectorResult contains the result of running the selector
type SelectorResult struct {
	Conversation *models.Conversation // nil for new conversation
	IsNew        bool                 // true if user selected "New Conversation"
	Confirmed    bool                 // true if user confirmed selection
}

// RunSelector starts the conversation selector TUI and returns the result
func RunSelector(source ConversationSource) (SelectorResult, error) {
	m := NewSelectorModel(source)

	p := tea.NewProgram(
		m,
		tea.WithAltScreen(),
	)

	finalModel, err := p.Run()
	if err != nil {
		return SelectorResult{}, err
	}

	if sm, ok := finalModel.(SelectorModel); ok {
		conv, isNew, confirmed := sm.Result()
		return SelectorResult{
			Conversation: conv,
			IsNew:        isNew,
			Confirmed:    confirmed,
		}, nil
	}

	return SelectorResult{}, nil
}

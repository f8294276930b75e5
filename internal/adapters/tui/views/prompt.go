package views

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"postino/internal/adapters/tui/styles"
	"postino/internal/resolve"
)

// PromptKeyMap defines key bindings for the URI prompt
type PromptKeyMap struct {
	Accept key.Binding
	Cancel key.Binding
}

var PromptKeys = PromptKeyMap{
	Accept: key.NewBinding(
		key.WithKeys("enter"),
		key.WithHelp("enter", "go"),
	),
	Cancel: key.NewBinding(
		key.WithKeys("esc"),
		key.WithHelp("esc", "cancel"),
	),
}

// PromptModel asks for a resource address and jumps to it. The address is
// resolved before leaving the prompt, so typos stay here with their error
// instead of landing in an empty value pane.
type PromptModel struct {
	ViewState

	registry *resolve.Registry
	input    textinput.Model
}

// NewPromptModel creates a new URI prompt model
func NewPromptModel(registry *resolve.Registry) *PromptModel {
	input := textinput.New()
	input.Placeholder = "mail://accounts/Work"
	input.Focus()

	return &PromptModel{
		registry: registry,
		input:    input,
	}
}

// Init initializes the prompt
func (m *PromptModel) Init() tea.Cmd {
	return textinput.Blink
}

// Reset clears the prompt for reuse
func (m *PromptModel) Reset() {
	m.input.SetValue("")
	m.ClearMessage()
	m.input.Focus()
}

// Update handles messages for the prompt
func (m *PromptModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.SetSize(msg.Width, msg.Height)
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, PromptKeys.Cancel):
			return m, func() tea.Msg {
				return SwitchToBrowserMsg{}
			}

		case key.Matches(msg, PromptKeys.Accept):
			raw := strings.TrimSpace(m.input.Value())
			if raw == "" {
				return m, nil
			}
			sp, err := m.registry.Resolve(raw)
			if err != nil {
				m.SetMessage(err.Error(), true)
				return m, nil
			}
			uri := sp.URI()
			return m, func() tea.Msg {
				return SwitchToValueMsg{URI: uri}
			}
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// View renders the prompt
func (m *PromptModel) View() string {
	var b strings.Builder

	b.WriteString(styles.Title.Render("Go to URI"))
	b.WriteString("\n\n")
	b.WriteString(styles.InputFocused.Render(m.input.View()))
	b.WriteString("\n")

	if m.Message != "" {
		b.WriteString("\n")
		b.WriteString(styles.ErrorMsg.Render(m.Message))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(styles.HelpKey.Render("enter"))
	b.WriteString(styles.HelpDesc.Render(" go"))
	b.WriteString(styles.HelpSeparator.String())
	b.WriteString(styles.HelpKey.Render("esc"))
	b.WriteString(styles.HelpDesc.Render(" cancel"))

	return styles.App.Render(b.String())
}

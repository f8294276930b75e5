package views

import (
	"encoding/json"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"postino/internal/adapters/tui/styles"
	"postino/internal/resource"
)

// ValueKeyMap defines key bindings for the value pane
type ValueKeyMap struct {
	Close key.Binding
	Yank  key.Binding
}

var ValueKeys = ValueKeyMap{
	Close: key.NewBinding(
		key.WithKeys("esc", "q"),
		key.WithHelp("esc/q", "back"),
	),
	Yank: key.NewBinding(
		key.WithKeys("y"),
		key.WithHelp("y", "copy URI"),
	),
}

// ValueModel shows the resolved value behind one address as indented JSON
// in a scrollable pane. Values load through the read boundary, so
// collections arrive windowed the same way protocol clients see them.
type ValueModel struct {
	ViewState

	boundary *resource.Boundary
	uri      string
	vp       viewport.Model
	loaded   bool
}

// NewValueModel creates a new value pane model
func NewValueModel(boundary *resource.Boundary) *ValueModel {
	return &ValueModel{
		boundary: boundary,
		vp:       viewport.New(80, 20),
	}
}

// Show loads the value behind uri into the pane.
func (m *ValueModel) Show(uri string) tea.Cmd {
	m.uri = uri
	m.loaded = false
	m.ClearMessage()
	return func() tea.Msg {
		res, err := m.boundary.Read(uri)
		if err != nil {
			return valueErrMsg{uri: uri, err: err}
		}
		return valueLoadedMsg{result: res}
	}
}

type valueLoadedMsg struct {
	result resource.Result
}

type valueErrMsg struct {
	uri string
	err error
}

// Init initializes the value pane
func (m *ValueModel) Init() tea.Cmd {
	return nil
}

// Update handles messages for the value pane
func (m *ValueModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.SetSize(msg.Width, msg.Height)
		m.vp.Width = msg.Width - 4
		m.vp.Height = msg.Height - 8
		return m, nil

	case valueLoadedMsg:
		m.uri = msg.result.URI
		m.loaded = true
		payload, err := json.MarshalIndent(msg.result.Value, "", "  ")
		if err != nil {
			m.SetMessage(err.Error(), true)
			return m, nil
		}
		m.vp.SetContent(string(payload))
		m.vp.GotoTop()
		return m, nil

	case valueErrMsg:
		m.uri = msg.uri
		m.loaded = true
		m.SetMessage(msg.err.Error(), true)
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, ValueKeys.Close):
			return m, func() tea.Msg {
				return SwitchToBrowserMsg{}
			}
		case key.Matches(msg, ValueKeys.Yank):
			if err := clipboard.WriteAll(m.uri); err != nil {
				m.SetMessage(err.Error(), true)
			} else {
				m.SetMessage("Copied "+m.uri, false)
			}
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.vp, cmd = m.vp.Update(msg)
	return m, cmd
}

// View renders the value pane
func (m *ValueModel) View() string {
	var b strings.Builder

	b.WriteString(styles.Title.Render("Resource"))
	b.WriteString("\n")
	b.WriteString(styles.URIText.Render(m.uri))
	b.WriteString("\n\n")

	switch {
	case !m.loaded:
		b.WriteString(styles.MutedText.Render("Resolving..."))
	case m.MessageErr:
		b.WriteString(styles.ErrorMsg.Render(m.Message))
	default:
		b.WriteString(m.vp.View())
		if m.Message != "" {
			b.WriteString("\n")
			b.WriteString(styles.Success.Render(m.Message))
		}
	}

	b.WriteString("\n\n")
	b.WriteString(styles.HelpKey.Render("esc"))
	b.WriteString(styles.HelpDesc.Render(" back"))
	b.WriteString(styles.HelpSeparator.String())
	b.WriteString(styles.HelpKey.Render("y"))
	b.WriteString(styles.HelpDesc.Render(" copy URI"))

	return styles.App.Render(b.String())
}

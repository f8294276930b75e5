package views

import (
	"fmt"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"postino/internal/adapters/tui/styles"
	"postino/internal/resolve"
	"postino/internal/schema"
)

// BrowserKeyMap defines key bindings for the browser view
type BrowserKeyMap struct {
	Up     key.Binding
	Down   key.Binding
	Left   key.Binding
	Right  key.Binding
	Enter  key.Binding
	Yank   key.Binding
	Prompt key.Binding
	Help   key.Binding
	Quit   key.Binding
}

var BrowserKeys = BrowserKeyMap{
	Up: key.NewBinding(
		key.WithKeys("k", "up"),
		key.WithHelp("k/↑", "up"),
	),
	Down: key.NewBinding(
		key.WithKeys("j", "down"),
		key.WithHelp("j/↓", "down"),
	),
	Left: key.NewBinding(
		key.WithKeys("h", "left"),
		key.WithHelp("h/←", "collapse"),
	),
	Right: key.NewBinding(
		key.WithKeys("l", "right"),
		key.WithHelp("l/→", "expand"),
	),
	Enter: key.NewBinding(
		key.WithKeys("enter"),
		key.WithHelp("enter", "resolve"),
	),
	Yank: key.NewBinding(
		key.WithKeys("y"),
		key.WithHelp("y", "copy URI"),
	),
	Prompt: key.NewBinding(
		key.WithKeys("/"),
		key.WithHelp("/", "go to URI"),
	),
	Help: key.NewBinding(
		key.WithKeys("?"),
		key.WithHelp("?", "help"),
	),
	Quit: key.NewBinding(
		key.WithKeys("q", "ctrl+c"),
		key.WithHelp("q", "quit"),
	),
}

// BrowserModel is the model for the resource tree browser
type BrowserModel struct {
	ViewState

	registry *resolve.Registry
	roots    []*TreeNode
	flat     []*TreeNode
	cursor   int
}

// NewBrowserModel creates a new browser model
func NewBrowserModel(registry *resolve.Registry) *BrowserModel {
	return &BrowserModel{registry: registry}
}

// Init initializes the browser
func (m *BrowserModel) Init() tea.Cmd {
	return m.loadRoots
}

func (m *BrowserModel) loadRoots() tea.Msg {
	roots, err := schemeRoots(m.registry)
	if err != nil {
		return errMsg{err}
	}
	return rootsLoadedMsg{roots}
}

type rootsLoadedMsg struct {
	roots []*TreeNode
}

type errMsg struct {
	err error
}

type childrenLoadedMsg struct {
	node *TreeNode
}

// Update handles messages for the browser
func (m *BrowserModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.SetSize(msg.Width, msg.Height)
		return m, nil

	case rootsLoadedMsg:
		m.roots = msg.roots
		m.refreshFlat()
		return m, nil

	case childrenLoadedMsg:
		m.refreshFlat()
		return m, nil

	case errMsg:
		m.SetMessage(msg.err.Error(), true)
		return m, nil

	case tea.KeyMsg:
		m.ClearMessage()

		switch {
		case key.Matches(msg, BrowserKeys.Quit):
			return m, tea.Quit

		case key.Matches(msg, BrowserKeys.Up):
			if m.cursor > 0 {
				m.cursor--
			}
			return m, nil

		case key.Matches(msg, BrowserKeys.Down):
			if m.cursor < len(m.flat)-1 {
				m.cursor++
			}
			return m, nil

		case key.Matches(msg, BrowserKeys.Left):
			if node := m.selected(); node != nil {
				if node.Expanded {
					node.Collapse()
					m.refreshFlat()
				} else if node.Parent != nil {
					for i, n := range m.flat {
						if n == node.Parent {
							m.cursor = i
							break
						}
					}
				}
			}
			return m, nil

		case key.Matches(msg, BrowserKeys.Right):
			if node := m.selected(); node != nil && node.Container() {
				node.Expand()
				if !node.Loaded {
					return m, m.loadNode(node)
				}
				m.refreshFlat()
			}
			return m, nil

		case key.Matches(msg, BrowserKeys.Enter):
			if node := m.selected(); node != nil {
				uri := node.URI
				return m, func() tea.Msg {
					return SwitchToValueMsg{URI: uri}
				}
			}
			return m, nil

		case key.Matches(msg, BrowserKeys.Yank):
			if node := m.selected(); node != nil {
				if err := clipboard.WriteAll(node.URI); err != nil {
					m.SetMessage(err.Error(), true)
				} else {
					m.SetMessage(fmt.Sprintf("Copied %s", node.URI), false)
				}
			}
			return m, nil

		case key.Matches(msg, BrowserKeys.Prompt):
			return m, func() tea.Msg {
				return SwitchToPromptMsg{}
			}

		case key.Matches(msg, BrowserKeys.Help):
			return m, func() tea.Msg {
				return SwitchToHelpMsg{}
			}
		}
	}

	return m, nil
}

func (m *BrowserModel) loadNode(node *TreeNode) tea.Cmd {
	return func() tea.Msg {
		if err := loadChildren(m.registry, node); err != nil {
			return errMsg{err}
		}
		return childrenLoadedMsg{node}
	}
}

// Reload drops every loaded subtree and rereads the scheme roots, so the
// browser reflects mutations made from other views.
func (m *BrowserModel) Reload() tea.Cmd {
	return m.loadRoots
}

func (m *BrowserModel) selected() *TreeNode {
	if m.cursor >= 0 && m.cursor < len(m.flat) {
		return m.flat[m.cursor]
	}
	return nil
}

func (m *BrowserModel) refreshFlat() {
	m.flat = nil
	for _, root := range m.roots {
		m.flat = append(m.flat, root.Flatten()...)
	}
	if m.cursor >= len(m.flat) {
		m.cursor = len(m.flat) - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

// View renders the browser
func (m *BrowserModel) View() string {
	if len(m.roots) == 0 {
		return "Loading..."
	}

	var b strings.Builder

	b.WriteString(styles.Title.Render("Postino"))
	b.WriteString("\n")
	b.WriteString(styles.Subtitle.Render("Resource tree browser"))
	b.WriteString("\n\n")

	for i, node := range m.flat {
		b.WriteString(m.renderNode(node, i == m.cursor))
		b.WriteString("\n")
	}

	if m.Message != "" {
		b.WriteString("\n")
		if m.MessageErr {
			b.WriteString(styles.ErrorMsg.Render(m.Message))
		} else {
			b.WriteString(styles.Success.Render(m.Message))
		}
	}

	b.WriteString("\n")
	b.WriteString(m.renderHelpLine())

	return styles.App.Render(b.String())
}

func (m *BrowserModel) renderNode(node *TreeNode, selected bool) string {
	indent := strings.Repeat("  ", node.Depth())

	var prefix string
	switch {
	case !node.Container():
		prefix = styles.TreeLeaf
	case node.Expanded:
		prefix = styles.TreeExpanded
	default:
		prefix = styles.TreeCollapsed
	}

	text := node.Label

	var style lipgloss.Style
	switch node.Kind {
	case schema.KindCollection:
		style = styles.NodeCollection
	case schema.KindNamespace:
		style = styles.NodeNamespace
	case schema.KindObject:
		style = styles.NodeObject
	default:
		style = styles.NodeScalar
	}
	if node.Lazy {
		style = styles.NodeLazy
	}

	styledText := style.Render(text)
	if selected {
		styledText = styles.NodeSelected.Render(text)
	}

	return fmt.Sprintf("%s%s%s", indent, styles.TreeBranch.Render(prefix), styledText)
}

func (m *BrowserModel) renderHelpLine() string {
	keys := []struct {
		key  string
		desc string
	}{
		{"j/k", "navigate"},
		{"h/l", "collapse/expand"},
		{"enter", "resolve"},
		{"y", "copy URI"},
		{"/", "go to URI"},
		{"?", "help"},
		{"q", "quit"},
	}

	var parts []string
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s %s",
			styles.HelpKey.Render(k.key),
			styles.HelpDesc.Render(k.desc),
		))
	}

	return strings.Join(parts, styles.HelpSeparator.String())
}

package tui

import (
	tea "github.com/charmbracelet/bubbletea"

	"postino/internal/adapters/tui/views"
	"postino/internal/resolve"
	"postino/internal/resource"
)

// ViewState represents the current view
type ViewState int

const (
	ViewBrowser ViewState = iota
	ViewValue
	ViewPrompt
	ViewHelp
)

// App is the main TUI application model
type App struct {
	state   ViewState
	browser *views.BrowserModel
	value   *views.ValueModel
	prompt  *views.PromptModel
	help    *views.HelpModel

	width  int
	height int
}

// NewApp creates a new TUI application over a scheme registry and its read
// boundary.
func NewApp(registry *resolve.Registry, boundary *resource.Boundary) *App {
	return &App{
		state:   ViewBrowser,
		browser: views.NewBrowserModel(registry),
		value:   views.NewValueModel(boundary),
		prompt:  views.NewPromptModel(registry),
		help:    views.NewHelpModel(),
	}
}

// Init initializes the application
func (a *App) Init() tea.Cmd {
	return a.browser.Init()
}

// Update handles messages for the application
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.browser.SetSize(msg.Width, msg.Height)
		a.prompt.SetSize(msg.Width, msg.Height)
		a.help.SetSize(msg.Width, msg.Height)
		// The value pane sizes its viewport from the raw message.
		_, cmd := a.value.Update(msg)
		return a, cmd

	// View switching messages
	case views.SwitchToValueMsg:
		a.state = ViewValue
		return a, a.value.Show(msg.URI)

	case views.SwitchToPromptMsg:
		a.state = ViewPrompt
		a.prompt.Reset()
		return a, a.prompt.Init()

	case views.SwitchToHelpMsg:
		a.state = ViewHelp
		return a, nil

	case views.SwitchToBrowserMsg:
		a.state = ViewBrowser
		return a, nil
	}

	// Delegate to current view
	var cmd tea.Cmd
	switch a.state {
	case ViewBrowser:
		_, cmd = a.browser.Update(msg)
	case ViewValue:
		_, cmd = a.value.Update(msg)
	case ViewPrompt:
		_, cmd = a.prompt.Update(msg)
	case ViewHelp:
		_, cmd = a.help.Update(msg)
	}

	return a, cmd
}

// View renders the current view
func (a *App) View() string {
	switch a.state {
	case ViewValue:
		return a.value.View()
	case ViewPrompt:
		return a.prompt.View()
	case ViewHelp:
		return a.help.View()
	default:
		return a.browser.View()
	}
}

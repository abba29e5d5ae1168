package tui

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/diogo/advisorchat/internal/config"
	"github.com/diogo/advisorchat/internal/render"
)

// configView represents the current view in the config menu
type configView int

const (
	viewMain configView = iota
	viewEndpointEdit
	viewThemeSelect    // Markdown theme
	viewTUIThemeSelect // TUI palette
)

// Menu item indices for main view
const (
	menuEndpoint = iota
	menuSingleFlight
	menuCopyToClipboard
	menuRenderMarkdown
	menuTheme
	menuTUITheme
	menuLogLevel
	menuExit
	menuItemCount
)

// feedbackClearMsg is sent to clear feedback messages
type feedbackClearMsg struct{}

// ConfigModel represents the config TUI state
type ConfigModel struct {
	config    config.Config
	configDir string
	save      func(config.Config) error

	view           configView
	cursor         int
	themeCursor    int
	tuiThemeCursor int
	endpointInput  textinput.Model

	feedback        string
	feedbackErr     bool
	feedbackTimeout time.Duration

	width  int
	height int
	ready  bool
}

// NewConfigModel creates a config menu for the configuration on disk
func NewConfigModel() ConfigModel {
	cfg, err := config.LoadConfig()
	if err != nil {
		cfg = config.DefaultConfig()
	}
	configDir, _ := config.GetConfigDir()
	return newConfigModel(cfg, configDir, config.SaveConfig)
}

func newConfigModel(cfg config.Config, configDir string, save func(config.Config) error) ConfigModel {
	ti := textinput.New()
	ti.Placeholder = "http://127.0.0.1:8000/chat"
	ti.CharLimit = 512
	ti.Width = 60

	ApplyTheme(cfg.TUITheme)

	return ConfigModel{
		config:          cfg,
		configDir:       configDir,
		save:            save,
		view:            viewMain,
		themeCursor:     indexOf(render.StyleNames(), render.ResolveStyle(cfg.Markdown.Style)),
		tuiThemeCursor:  indexOf(render.PaletteNames(), cfg.TUITheme),
		endpointInput:   ti,
		feedbackTimeout: 2 * time.Second,
	}
}

func indexOf(items []string, target string) int {
	for i, item := range items {
		if item == target {
			return i
		}
	}
	return 0
}

// Init initializes the model
func (m ConfigModel) Init() tea.Cmd {
	return nil
}

// clearFeedback returns a command that clears the feedback message after a delay
func clearFeedback(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(time.Time) tea.Msg {
		return feedbackClearMsg{}
	})
}

// Update handles messages and updates the model
func (m ConfigModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true

	case feedbackClearMsg:
		m.feedback = ""
		m.feedbackErr = false

	case tea.KeyMsg:
		if m.view == viewEndpointEdit {
			return m.updateEndpointEdit(msg)
		}

		switch msg.String() {
		case "ctrl+c":
			return m, tea.Quit

		case "esc":
			if m.view != viewMain {
				m.view = viewMain
				return m, nil
			}
			return m, tea.Quit

		case "up", "k":
			m.moveCursor(-1)

		case "down", "j":
			m.moveCursor(1)

		case "enter", " ":
			return m.handleSelect()
		}
	}

	return m, nil
}

func wrap(i, n int) int {
	if n == 0 {
		return 0
	}
	return (i%n + n) % n
}

func (m *ConfigModel) moveCursor(delta int) {
	switch m.view {
	case viewMain:
		m.cursor = wrap(m.cursor+delta, menuItemCount)
	case viewThemeSelect:
		m.themeCursor = wrap(m.themeCursor+delta, len(render.StyleNames()))
	case viewTUIThemeSelect:
		m.tuiThemeCursor = wrap(m.tuiThemeCursor+delta, len(render.PaletteNames()))
	}
}

func (m ConfigModel) updateEndpointEdit(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		return m, tea.Quit
	case "esc":
		m.endpointInput.Blur()
		m.view = viewMain
		return m, nil
	case "enter":
		value := strings.TrimSpace(m.endpointInput.Value())
		if err := config.ValidateEndpoint(value); err != nil {
			m.feedback = err.Error()
			m.feedbackErr = true
			return m, clearFeedback(m.feedbackTimeout)
		}
		m.config.Endpoint = value
		m.endpointInput.Blur()
		m.view = viewMain
		return m.persist(fmt.Sprintf("Endpoint set to %s", value))
	}

	var cmd tea.Cmd
	m.endpointInput, cmd = m.endpointInput.Update(msg)
	return m, cmd
}

// persist saves the config and reports the outcome
func (m ConfigModel) persist(success string) (tea.Model, tea.Cmd) {
	if err := m.save(m.config); err != nil {
		m.feedback = fmt.Sprintf("Error: %v", err)
		m.feedbackErr = true
	} else {
		m.feedback = success
		m.feedbackErr = false
	}
	return m, clearFeedback(m.feedbackTimeout)
}

func enabledWord(v bool) string {
	if v {
		return "enabled"
	}
	return "disabled"
}

// handleSelect handles menu item selection
func (m ConfigModel) handleSelect() (tea.Model, tea.Cmd) {
	switch m.view {
	case viewMain:
		switch m.cursor {
		case menuEndpoint:
			m.endpointInput.SetValue(m.config.Endpoint)
			m.endpointInput.CursorEnd()
			m.endpointInput.Focus()
			m.view = viewEndpointEdit
			return m, textinput.Blink

		case menuSingleFlight:
			m.config.SingleFlight = !m.config.SingleFlight
			return m.persist("Single flight " + enabledWord(m.config.SingleFlight))

		case menuCopyToClipboard:
			m.config.CopyToClipboard = !m.config.CopyToClipboard
			return m.persist("Copy to clipboard " + enabledWord(m.config.CopyToClipboard))

		case menuRenderMarkdown:
			m.config.RenderMarkdown = !m.config.RenderMarkdown
			return m.persist("Markdown rendering " + enabledWord(m.config.RenderMarkdown))

		case menuTheme:
			m.view = viewThemeSelect
			return m, nil

		case menuTUITheme:
			m.view = viewTUIThemeSelect
			return m, nil

		case menuLogLevel:
			levels := config.LogLevels()
			m.config.LogLevel = levels[wrap(indexOf(levels, m.config.LogLevel)+1, len(levels))]
			return m.persist("Log level set to " + m.config.LogLevel)

		case menuExit:
			return m, tea.Quit
		}

	case viewThemeSelect:
		m.config.Markdown.Style = render.StyleNames()[m.themeCursor]
		m.view = viewMain
		return m.persist("Markdown theme set to " + m.config.Markdown.Style)

	case viewTUIThemeSelect:
		selected := render.PaletteNames()[m.tuiThemeCursor]
		m.config.TUITheme = selected
		ApplyTheme(selected)
		m.view = viewMain
		return m.persist("TUI theme set to " + selected)
	}

	return m, nil
}

// View renders the TUI
func (m ConfigModel) View() string {
	if !m.ready {
		return loadingStyle.Render("  Initializing...")
	}

	contentWidth := m.width - 4
	if contentWidth < 40 {
		contentWidth = 40
	}

	sections := []string{
		configHeaderStyle.Width(contentWidth).Render(configTitleStyle.Render("✦ Configuration")),
	}

	pathsContent := lipgloss.JoinVertical(lipgloss.Left,
		configSectionTitleStyle.Render("Paths"),
		"   Config: "+configPathStyle.Render(filepath.Join(m.configDir, "config.json")),
	)
	sections = append(sections, configPanelStyle.Width(contentWidth).Render(pathsContent))

	var settings string
	switch m.view {
	case viewMain:
		settings = m.renderMainMenu()
	case viewEndpointEdit:
		settings = m.renderEndpointEdit()
	case viewThemeSelect:
		settings = m.renderChoice("Select Markdown Theme", render.AvailableStyles(), m.themeCursor, render.ResolveStyle(m.config.Markdown.Style))
	case viewTUIThemeSelect:
		settings = m.renderPaletteSelect()
	}
	sections = append(sections, configPanelStyle.Width(contentWidth).Render(settings))

	if m.feedback != "" {
		if m.feedbackErr {
			sections = append(sections, configFeedbackStyle.Render(errorStyle.Render("✗ "+m.feedback)))
		} else {
			sections = append(sections, configFeedbackStyle.Render("✓ "+m.feedback))
		}
	}

	sections = append(sections, m.renderStatusBar(contentWidth))
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m ConfigModel) menuLine(index int, label, value string) string {
	cursor := "  "
	style := configMenuItemStyle
	if m.cursor == index {
		cursor = configCursorStyle.Render("▸ ")
		style = configMenuSelectedStyle
	}
	if value == "" {
		return cursor + style.Render(label)
	}
	return cursor + style.Width(20).Render(label) + value
}

// renderMainMenu renders the main settings menu
func (m ConfigModel) renderMainMenu() string {
	items := []string{
		configSectionTitleStyle.Render("⚙ Settings"),
		"",
		m.menuLine(menuEndpoint, "Endpoint", configValueStyle.Render(m.config.Endpoint)),
		m.menuLine(menuSingleFlight, "Single Flight", m.renderBoolValue(m.config.SingleFlight)),
		m.menuLine(menuCopyToClipboard, "Copy to Clipboard", m.renderBoolValue(m.config.CopyToClipboard)),
		m.menuLine(menuRenderMarkdown, "Render Markdown", m.renderBoolValue(m.config.RenderMarkdown)),
		m.menuLine(menuTheme, "Markdown Theme", configValueStyle.Render(render.ResolveStyle(m.config.Markdown.Style))),
		m.menuLine(menuTUITheme, "TUI Theme", configValueStyle.Render(m.paletteName())),
		m.menuLine(menuLogLevel, "Log Level", configValueStyle.Render(m.config.LogLevel)),
		"",
		m.menuLine(menuExit, "Exit", ""),
	}
	return lipgloss.JoinVertical(lipgloss.Left, items...)
}

func (m ConfigModel) paletteName() string {
	if _, ok := render.PaletteByName(m.config.TUITheme); ok {
		return m.config.TUITheme
	}
	return render.DefaultPalette
}

func (m ConfigModel) renderEndpointEdit() string {
	return lipgloss.JoinVertical(lipgloss.Left,
		configSectionTitleStyle.Render("Backend Endpoint"),
		"",
		m.endpointInput.View(),
		"",
		hintStyle.Render("Full URL of the chat route, e.g. http://127.0.0.1:8000/chat"),
	)
}

func (m ConfigModel) renderChoice(title string, choices []render.StyleInfo, cursor int, current string) string {
	items := []string{configSectionTitleStyle.Render(title), ""}
	for i, c := range choices {
		prefix := "  "
		style := configMenuItemStyle
		if cursor == i {
			prefix = configCursorStyle.Render("▸ ")
			style = configMenuSelectedStyle
		}
		suffix := ""
		if c.Name == current {
			suffix = configStatusOkStyle.Render(" (current)")
		}
		items = append(items, prefix+style.Render(fmt.Sprintf("%s - %s", c.Name, c.Description))+suffix)
	}
	return lipgloss.JoinVertical(lipgloss.Left, items...)
}

func (m ConfigModel) renderPaletteSelect() string {
	names := render.PaletteNames()
	choices := make([]render.StyleInfo, 0, len(names))
	for _, name := range names {
		p, _ := render.PaletteByName(name)
		choices = append(choices, render.StyleInfo{Name: p.Name, Description: p.Description})
	}
	return m.renderChoice("Select TUI Theme", choices, m.tuiThemeCursor, m.paletteName())
}

// renderBoolValue renders a boolean value with appropriate styling
func (m ConfigModel) renderBoolValue(value bool) string {
	if value {
		return configEnabledStyle.Render("enabled")
	}
	return configDisabledStyle.Render("disabled")
}

// renderStatusBar renders the bottom status bar
func (m ConfigModel) renderStatusBar(width int) string {
	back := "Exit"
	if m.view != viewMain {
		back = "Back"
	}
	keys := [][2]string{{"↑↓", "Navigate"}, {"Enter", "Select"}, {"Esc", back}}
	if m.view == viewEndpointEdit {
		keys = [][2]string{{"Enter", "Save"}, {"Esc", back}}
	}

	items := make([]string, 0, len(keys))
	for _, k := range keys {
		items = append(items, statusKeyStyle.Render(k[0])+statusDescStyle.Render(" "+k[1]))
	}
	return configStatusBarStyle.Width(width).Render(strings.Join(items, "  │  "))
}

// RunConfig starts the config TUI
func RunConfig() error {
	p := tea.NewProgram(NewConfigModel(), tea.WithAltScreen())
	_, err := p.Run()
	return err
}

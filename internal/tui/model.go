package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/rs/zerolog"

	"github.com/diogo/advisorchat/internal/api"
	"github.com/diogo/advisorchat/internal/config"
	"github.com/diogo/advisorchat/internal/models"
	"github.com/diogo/advisorchat/internal/render"
	"github.com/diogo/advisorchat/internal/transcript"
	"github.com/diogo/advisorchat/internal/widget"
)

// Message types for the TUI
type (
	// answerMsg is the response to the request with the given ID
	answerMsg struct {
		id     string
		result *models.AnswerResult
	}
	// failureMsg is a transport failure for the request with the given ID
	failureMsg struct {
		id  string
		err error
	}
	noticeClearMsg struct {
		seq int
	}
)

type focusArea int

const (
	focusInput focusArea = iota
	focusSend
)

// Fixed layout rows around the transcript viewport
const (
	headerRows   = 3 // bordered single line
	messagesPad  = 2 // transcript panel border
	inputRows    = 6 // margin, border, label, two textarea rows
	statusRows   = 1
	inputHeight  = 2
	minViewport  = 3
	noticeExpiry = 3 * time.Second
)

// chatUI owns the bubbles the widget writes to. Every copy of Model shares
// it, so widget callbacks land on the live components.
type chatUI struct {
	input    textarea.Model
	viewport viewport.Model
	spinner  spinner.Model

	widget   *widget.Widget
	markdown bool
	mdOpts   render.Options
	rendered map[string]string
}

// Clear empties the text box
func (u *chatUI) Clear() {
	u.input.Reset()
}

// ScrollToBottom redraws the transcript and shows its last element
func (u *chatUI) ScrollToBottom() {
	u.refresh()
	u.viewport.GotoBottom()
}

func (u *chatUI) refresh() {
	u.viewport.SetContent(u.renderTranscript())
}

func (u *chatUI) bubbleWidth() int {
	w := u.viewport.Width - 6
	if w < 10 {
		w = 10
	}
	return w
}

func (u *chatUI) renderTranscript() string {
	var b strings.Builder
	width := u.bubbleWidth()

	for i, e := range u.widget.Entries() {
		if i > 0 {
			b.WriteString("\n")
		}

		switch {
		case e.Placeholder:
			b.WriteString(placeholderStyle.Render(u.spinner.View() + " " + e.Message.Text))
		case !e.Message.IsBot():
			b.WriteString(userLabelStyle.Render("● You"))
			b.WriteString("\n")
			b.WriteString(userBubbleStyle.Width(width).Render(e.Message.Text))
		case e.Message.Text == models.ConnectionErrorText:
			b.WriteString(botLabelStyle.Render("✦ Advisor"))
			b.WriteString("\n")
			b.WriteString(failureStyle.Width(width).Render(e.Message.Text))
		default:
			b.WriteString(botLabelStyle.Render("✦ Advisor"))
			b.WriteString("\n")
			b.WriteString(botBubbleStyle.Width(width).Render(u.botText(e.Message.Text, width-4)))
		}
		b.WriteString("\n")
	}

	return b.String()
}

// botText renders a reply through glamour when enabled, memoised per width
func (u *chatUI) botText(text string, width int) string {
	if !u.markdown {
		return text
	}
	k := fmt.Sprintf("%d:%s", width, text)
	if out, ok := u.rendered[k]; ok {
		return out
	}
	out := render.Reply(text, u.mdOpts.WithWidth(width))
	u.rendered[k] = out
	return out
}

// Model represents the chat TUI state
type Model struct {
	ui     *chatUI
	widget *widget.Widget
	asker  api.AskerInterface
	cfg    config.Config
	logger zerolog.Logger

	ctx    context.Context
	cancel context.CancelFunc

	copyFn func(string) error

	focus     focusArea
	notice    string
	noticeErr bool
	noticeSeq int

	ready  bool
	width  int
	height int
}

// ModelOption configures a chat Model
type ModelOption func(*Model)

// WithLogger sets the diagnostic logger
func WithLogger(logger zerolog.Logger) ModelOption {
	return func(m *Model) {
		m.logger = logger
	}
}

// WithContext sets the parent context of every request
func WithContext(ctx context.Context) ModelOption {
	return func(m *Model) {
		m.ctx = ctx
	}
}

// WithClipboard replaces the clipboard writer used by /copy
func WithClipboard(fn func(string) error) ModelOption {
	return func(m *Model) {
		m.copyFn = fn
	}
}

// NewChatModel creates a new chat TUI model
func NewChatModel(asker api.AskerInterface, cfg config.Config, opts ...ModelOption) Model {
	ta := textarea.New()
	ta.Placeholder = "Ask about a major, a college, tuition..."
	ta.CharLimit = 4000
	ta.ShowLineNumbers = false
	ta.SetHeight(inputHeight)
	ta.KeyMap.InsertNewline.SetKeys("alt+enter", "ctrl+j")
	ta.Focus()

	ta.FocusedStyle.CursorLine = lipgloss.NewStyle()
	ta.FocusedStyle.Base = lipgloss.NewStyle().Foreground(colorText)
	ta.FocusedStyle.Placeholder = lipgloss.NewStyle().Foreground(colorTextDim)
	ta.BlurredStyle = ta.FocusedStyle

	vp := viewport.New(80, minViewport)
	vp.KeyMap = viewport.KeyMap{
		PageDown: key.NewBinding(key.WithKeys("pgdown")),
		PageUp:   key.NewBinding(key.WithKeys("pgup")),
	}

	s := spinner.New()
	s.Spinner = spinner.Points
	s.Style = loadingStyle

	m := Model{
		asker:  asker,
		cfg:    cfg,
		logger: zerolog.Nop(),
		ctx:    context.Background(),
		copyFn: clipboard.WriteAll,
	}
	for _, opt := range opts {
		opt(&m)
	}
	m.ctx, m.cancel = context.WithCancel(m.ctx)

	m.ui = &chatUI{
		input:    ta,
		viewport: vp,
		spinner:  s,
		markdown: cfg.RenderMarkdown,
		mdOpts:   render.OptionsFromConfig(cfg, 0),
		rendered: make(map[string]string),
	}
	m.widget = widget.New(m.ui, m.ui,
		widget.WithLogger(m.logger),
		widget.WithSingleFlight(cfg.SingleFlight),
	)
	m.ui.widget = m.widget

	return m
}

// Init initializes the model
func (m Model) Init() tea.Cmd {
	return textarea.Blink
}

// Update handles messages and updates the model
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true
		m.layout()
		m.ui.ScrollToBottom()
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			return m, m.quit()

		case "esc":
			if m.focus == focusSend {
				m.setFocus(focusInput)
				return m, nil
			}
			return m, m.quit()

		case "tab", "shift+tab":
			if m.focus == focusInput {
				m.setFocus(focusSend)
			} else {
				m.setFocus(focusInput)
			}
			return m, nil

		case "enter", "ctrl+s":
			return m.submit()

		case " ":
			if m.focus == focusSend {
				return m.submit()
			}

		case "pgup", "pgdown":
			m.ui.viewport, cmd = m.ui.viewport.Update(msg)
			return m, cmd
		}

		if m.focus == focusInput {
			m.ui.input, cmd = m.ui.input.Update(msg)
			cmds = append(cmds, cmd)
		}

	case tea.MouseMsg:
		if msg.Action == tea.MouseActionPress && msg.Button == tea.MouseButtonLeft && m.sendButtonHit(msg.X, msg.Y) {
			return m.submit()
		}
		m.ui.viewport, cmd = m.ui.viewport.Update(msg)
		cmds = append(cmds, cmd)

	case answerMsg:
		m.widget.Resolve(msg.id, msg.result)

	case failureMsg:
		m.widget.Fail(msg.id, msg.err)

	case spinner.TickMsg:
		if m.widget.Pending() > 0 {
			m.ui.spinner, cmd = m.ui.spinner.Update(msg)
			m.ui.refresh()
			cmds = append(cmds, cmd)
		}

	case noticeClearMsg:
		if msg.seq == m.noticeSeq {
			m.notice = ""
		}

	default:
		if m.focus == focusInput {
			m.ui.input, cmd = m.ui.input.Update(msg)
			cmds = append(cmds, cmd)
		}
	}

	return m, tea.Batch(cmds...)
}

// submit routes the text box to a slash command or the widget
func (m Model) submit() (tea.Model, tea.Cmd) {
	text := m.ui.input.Value()

	if next, cmd, handled := m.runCommand(strings.TrimSpace(text)); handled {
		return next, cmd
	}

	wasIdle := m.widget.Pending() == 0
	req, ok := m.widget.Submit(text)
	if !ok {
		if strings.TrimSpace(text) != "" && m.widget.Busy() {
			next, cmd := m.withNotice("Waiting for the previous answer...", true)
			return next, cmd
		}
		return m, nil
	}

	cmds := []tea.Cmd{m.askCmd(req)}
	if wasIdle {
		cmds = append(cmds, m.ui.spinner.Tick)
	}
	return m, tea.Batch(cmds...)
}

// askCmd runs one request off the Update loop and reports back by ID
func (m Model) askCmd(req widget.Request) tea.Cmd {
	ctx, asker := m.ctx, m.asker
	return func() tea.Msg {
		out := widget.Perform(ctx, asker, req)
		if out.Err != nil {
			return failureMsg{id: out.ID, err: out.Err}
		}
		return answerMsg{id: out.ID, result: out.Result}
	}
}

// runCommand handles slash commands. Anything it does not recognise is sent
// to the backend as a question.
func (m Model) runCommand(input string) (Model, tea.Cmd, bool) {
	if !strings.HasPrefix(input, "/") {
		return m, nil, false
	}
	fields := strings.Fields(input)

	switch fields[0] {
	case "/quit", "/exit":
		return m, m.quit(), true

	case "/clear":
		m.ui.input.Reset()
		m.widget.Clear()
		next, cmd := m.withNotice("Transcript cleared", false)
		return next, cmd, true

	case "/copy":
		m.ui.input.Reset()
		text, ok := m.widget.LastBotMessage()
		if !ok {
			next, cmd := m.withNotice("Nothing to copy yet", true)
			return next, cmd, true
		}
		if err := m.copyFn(text); err != nil {
			m.logger.Warn().Err(err).Msg("clipboard write failed")
			next, cmd := m.withNotice("Clipboard unavailable: "+err.Error(), true)
			return next, cmd, true
		}
		next, cmd := m.withNotice("Copied last answer to clipboard", false)
		return next, cmd, true

	case "/export":
		m.ui.input.Reset()
		path := defaultExportPath(time.Now())
		if len(fields) > 1 {
			path = strings.Join(fields[1:], " ")
		}
		opts := transcript.DefaultExportOptions()
		opts.Format = ""
		opts.Endpoint = m.asker.Endpoint()
		if err := m.widget.Transcript().WriteFile(path, opts); err != nil {
			m.logger.Error().Err(err).Str("path", path).Msg("export failed")
			next, cmd := m.withNotice("Export failed: "+err.Error(), true)
			return next, cmd, true
		}
		m.logger.Info().Str("path", path).Msg("transcript exported")
		next, cmd := m.withNotice("Exported to "+path, false)
		return next, cmd, true

	case "/help":
		m.ui.input.Reset()
		next, cmd := m.withNotice("/copy  /export [file.md|file.json]  /clear  /quit", false)
		return next, cmd, true
	}

	return m, nil, false
}

func defaultExportPath(now time.Time) string {
	return "advisorchat-" + now.Format("20060102-150405") + ".md"
}

func (m Model) withNotice(text string, isErr bool) (Model, tea.Cmd) {
	m.noticeSeq++
	m.notice = text
	m.noticeErr = isErr
	seq := m.noticeSeq
	return m, tea.Tick(noticeExpiry, func(time.Time) tea.Msg {
		return noticeClearMsg{seq: seq}
	})
}

func (m Model) quit() tea.Cmd {
	if m.cancel != nil {
		m.cancel()
	}
	return tea.Quit
}

func (m *Model) setFocus(f focusArea) {
	m.focus = f
	if f == focusInput {
		m.ui.input.Focus()
	} else {
		m.ui.input.Blur()
	}
}

func (m Model) panelWidth() int {
	w := m.width - 2
	if w < 30 {
		w = 30
	}
	return w
}

func (m Model) viewportHeight() int {
	h := m.height - headerRows - messagesPad - inputRows - statusRows
	if h < minViewport {
		h = minViewport
	}
	return h
}

// textareaWidth leaves room for the Send button beside the text box
func (m Model) textareaWidth() int {
	w := m.panelWidth() - 2 - lipgloss.Width(m.renderSendButton()) - 1
	if w < 10 {
		w = 10
	}
	return w
}

func (m *Model) layout() {
	m.ui.viewport.Width = m.panelWidth() - 2
	m.ui.viewport.Height = m.viewportHeight()
	m.ui.input.SetWidth(m.textareaWidth())
	m.ui.rendered = make(map[string]string)
}

// sendButtonBounds returns the screen cells covered by the Send button
func (m Model) sendButtonBounds() (x0, x1, y0, y1 int) {
	y0 = headerRows + m.viewportHeight() + messagesPad + 3
	y1 = y0 + 1
	x0 = 2 + m.textareaWidth() + 1
	x1 = x0 + lipgloss.Width(m.renderSendButton())
	return x0, x1, y0, y1
}

func (m Model) sendButtonHit(x, y int) bool {
	if !m.ready {
		return false
	}
	x0, x1, y0, y1 := m.sendButtonBounds()
	return x >= x0 && x < x1 && y >= y0 && y < y1
}

// View renders the TUI
func (m Model) View() string {
	if !m.ready {
		return loadingStyle.Render("  Initializing...")
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		m.renderHeader(),
		m.renderMessages(),
		m.renderInput(),
		m.renderStatusBar(),
	)
}

func (m Model) renderHeader() string {
	width := m.panelWidth()
	parts := []string{
		titleStyle.Render("✦ Advisor Chat"),
		hintStyle.Render("  •  "),
		subtitleStyle.Render(m.asker.Endpoint()),
	}
	if pending := m.widget.Pending(); pending > 0 {
		parts = append(parts,
			hintStyle.Render("  •  "),
			loadingStyle.Render(fmt.Sprintf("%d pending", pending)),
		)
	}
	content := lipgloss.NewStyle().MaxWidth(width - 4).Render(
		lipgloss.JoinHorizontal(lipgloss.Center, parts...),
	)
	return headerStyle.Width(width).Render(content)
}

func (m Model) renderMessages() string {
	height := m.viewportHeight()
	content := m.ui.viewport.View()
	if m.widget.Transcript().Len() == 0 {
		content = m.renderWelcome()
	}
	return messagesAreaStyle.
		Width(m.panelWidth()).
		Height(height).
		MaxHeight(height + messagesPad).
		Render(content)
}

// renderWelcome renders the welcome screen when no messages exist
func (m Model) renderWelcome() string {
	width := m.ui.viewport.Width
	content := lipgloss.JoinVertical(lipgloss.Center,
		welcomeIconStyle.Width(width).Render("✦"),
		welcomeTitleStyle.Width(width).Render("Welcome to Advisor Chat"),
		welcomeStyle.Width(width).Render("Ask about a major to see its college and tuition"),
	)

	top := (m.viewportHeight() - lipgloss.Height(content)) / 2
	if top < 0 {
		top = 0
	}
	return strings.Repeat("\n", top) + content
}

func (m Model) renderSendButton() string {
	switch {
	case m.widget.Busy():
		return sendButtonDisabledStyle.Render("Send")
	case m.focus == focusSend:
		return sendButtonFocusedStyle.Render("Send")
	default:
		return sendButtonStyle.Render("Send")
	}
}

func (m Model) renderInput() string {
	box := lipgloss.NewStyle().Width(m.textareaWidth()).Render(m.ui.input.View())
	row := lipgloss.JoinHorizontal(lipgloss.Top, box, " ", m.renderSendButton())
	content := lipgloss.JoinVertical(lipgloss.Left, inputLabelStyle.Render("You"), row)
	return inputPanelStyle.Width(m.panelWidth()).Render(content)
}

// renderStatusBar shows the latest notice, or the shortcuts
func (m Model) renderStatusBar() string {
	line := lipgloss.NewStyle().MaxWidth(m.width)
	if m.notice != "" {
		if m.noticeErr {
			return line.Render(errorStyle.Render("⚠ " + m.notice))
		}
		return line.Render(noticeStyle.Render("✓ " + m.notice))
	}

	shortcuts := []struct {
		key  string
		desc string
	}{
		{"Enter", "Send"},
		{"Tab", "Focus button"},
		{"PgUp/PgDn", "Scroll"},
		{"/help", "Commands"},
		{"Esc", "Quit"},
	}

	items := make([]string, 0, len(shortcuts))
	for _, s := range shortcuts {
		items = append(items, statusKeyStyle.Render(s.key)+statusDescStyle.Render(" "+s.desc))
	}
	bar := strings.Join(items, statusDescStyle.Render("  │  "))
	return line.Render(statusBarStyle.Width(m.width).Align(lipgloss.Center).Render(bar))
}

// RunChat starts the chat TUI
func RunChat(ctx context.Context, asker api.AskerInterface, cfg config.Config, logger zerolog.Logger) error {
	ApplyTheme(cfg.TUITheme)

	m := NewChatModel(asker, cfg, WithContext(ctx), WithLogger(logger))
	defer m.cancel()

	p := tea.NewProgram(
		m,
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
		tea.WithContext(ctx),
	)

	_, err := p.Run()
	return err
}

package commands

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/diogo/advisorchat/internal/config"
	apierrors "github.com/diogo/advisorchat/internal/errors"
	"github.com/diogo/advisorchat/internal/render"
	"github.com/diogo/advisorchat/internal/widget"
)

// Gradient colors for the spinner animation
var gradientColors = []lipgloss.Color{
	lipgloss.Color("#ff6b6b"),
	lipgloss.Color("#feca57"),
	lipgloss.Color("#48dbfb"),
	lipgloss.Color("#ff9ff3"),
	lipgloss.Color("#54a0ff"),
	lipgloss.Color("#5f27cd"),
	lipgloss.Color("#00d2d3"),
	lipgloss.Color("#1dd1a1"),
}

// spinner handles the animated loading indicator
type spinner struct {
	out     io.Writer
	message string
	stop    chan struct{}
	done    chan struct{}
	mu      sync.Mutex
	frame   int
	stopped bool
}

func newSpinner(out io.Writer, message string) *spinner {
	return &spinner{
		out:     out,
		message: message,
		stop:    make(chan struct{}),
		done:    make(chan struct{}),
	}
}

// start begins the animation
func (s *spinner) start() {
	go func() {
		defer close(s.done)

		ticker := time.NewTicker(80 * time.Millisecond)
		defer ticker.Stop()

		// Hide cursor
		fmt.Fprint(s.out, "\033[?25l")

		for {
			select {
			case <-s.stop:
				// Clear line and show cursor
				fmt.Fprint(s.out, "\r\033[K\033[?25h")
				return
			case <-ticker.C:
				s.mu.Lock()
				s.render()
				s.frame++
				s.mu.Unlock()
			}
		}
	}()
}

// render draws the current animation frame
func (s *spinner) render() {
	chars := []string{"⣾", "⣽", "⣻", "⢿", "⡿", "⣟", "⣯", "⣷"}
	p := render.ActivePalette()

	spinColor := gradientColors[s.frame%len(gradientColors)]
	spinnerChar := lipgloss.NewStyle().Foreground(spinColor).Bold(true).Render(chars[s.frame%len(chars)])

	var dots strings.Builder
	numDots := (s.frame / 3) % 4
	for i := 0; i < 3; i++ {
		if i < numDots {
			dotColor := gradientColors[(s.frame+i)%len(gradientColors)]
			dots.WriteString(lipgloss.NewStyle().Foreground(dotColor).Render("●"))
		} else {
			dots.WriteString(lipgloss.NewStyle().Foreground(p.TextMute).Render("○"))
		}
	}

	msg := lipgloss.NewStyle().Foreground(p.Text).Render(s.message)
	fmt.Fprintf(s.out, "\r\033[K%s %s %s", spinnerChar, msg, dots.String())
}

// stopOnce safely closes the stop channel only once
func (s *spinner) stopOnce() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.stopped {
		close(s.stop)
		s.stopped = true
	}
}

// stopWithSuccess stops the spinner and shows success message
func (s *spinner) stopWithSuccess(message string) {
	s.stopOnce()
	<-s.done

	success := lipgloss.NewStyle().Foreground(render.ActivePalette().Accent)
	fmt.Fprintf(s.out, "%s %s\n", success.Bold(true).Render("✓"), success.Render(message))
}

// stopWithError stops the spinner
func (s *spinner) stopWithError() {
	s.stopOnce()
	<-s.done
}

// runAsk sends one question through a headless widget and prints the
// reply. A transport failure prints the connection error reply and
// returns the underlying error so the process exits non-zero. Any other
// error is returned without a reply.
func runAsk(ctx context.Context, deps *Dependencies, opts *rootOptions, question string) error {
	if strings.TrimSpace(question) == "" {
		return apierrors.ErrEmptyQuestion
	}

	cfg, err := loadConfig(deps, opts)
	if err != nil {
		return err
	}
	render.SetPalette(cfg.TUITheme)

	logger, closer, err := newLogger(cfg, deps.Stderr)
	if err != nil {
		return err
	}
	defer closer.Close()

	client, err := deps.NewClient(cfg, logger)
	if err != nil {
		return fmt.Errorf("failed to create client: %w", err)
	}
	defer client.Close()

	raw := opts.raw || !deps.StdoutIsTTY()

	w := widget.New(nil, nil, widget.WithLogger(logger))
	req, ok := w.Submit(question)
	if !ok {
		return apierrors.ErrEmptyQuestion
	}

	var spin *spinner
	if !raw {
		spin = newSpinner(deps.Stderr, "Asking the advisor")
		spin.start()
	}

	start := time.Now()
	outcome := widget.Perform(ctx, client, req)
	w.Apply(outcome)

	logger.Debug().
		Str("request_id", req.ID).
		Dur("elapsed", time.Since(start)).
		Bool("failed", outcome.Err != nil).
		Msg("one-shot question finished")

	if spin != nil {
		if outcome.Err != nil {
			spin.stopWithError()
		} else {
			spin.stopWithSuccess("Done")
		}
	}

	if outcome.Err != nil {
		if !apierrors.IsTransportFailure(outcome.Err) {
			return outcome.Err
		}
		if text, ok := w.LastBotMessage(); ok {
			printAnswer(deps, cfg, text, raw, false)
		}
		return fmt.Errorf("ask failed: %w", outcome.Err)
	}

	text, ok := w.LastBotMessage()
	if !ok {
		// Nothing renderable came back; the chat shows nothing either.
		return nil
	}

	return writeAnswer(deps, cfg, opts, text, raw)
}

// writeAnswer delivers a reply to the clipboard, a file or the terminal
func writeAnswer(deps *Dependencies, cfg config.Config, opts *rootOptions, text string, raw bool) error {
	if raw {
		if opts.output != "" {
			return writeOutputFile(opts.output, text)
		}
		printAnswer(deps, cfg, text, true, true)
		return nil
	}

	p := render.ActivePalette()
	success := lipgloss.NewStyle().Foreground(p.Accent)
	warn := lipgloss.NewStyle().Foreground(p.Error)

	if cfg.CopyToClipboard {
		if err := deps.Clipboard(text); err != nil {
			fmt.Fprintln(deps.Stderr, warn.Render(fmt.Sprintf("⚠ Failed to copy to clipboard: %v", err)))
		} else {
			fmt.Fprintln(deps.Stderr, success.Render("✓ Copied to clipboard"))
		}
	}

	if opts.output != "" {
		if err := writeOutputFile(opts.output, text); err != nil {
			return err
		}
		fmt.Fprintln(deps.Stderr, success.Render(fmt.Sprintf("✓ Answer saved to %s", opts.output)))
		return nil
	}

	printAnswer(deps, cfg, text, false, cfg.RenderMarkdown)
	return nil
}

// printAnswer writes text to stdout, plain or in an advisor bubble
func printAnswer(deps *Dependencies, cfg config.Config, text string, raw, markdown bool) {
	if raw {
		fmt.Fprintln(deps.Stdout, text)
		return
	}

	p := render.ActivePalette()
	labelStyle := lipgloss.NewStyle().Foreground(p.Secondary).Bold(true)
	bubbleStyle := lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(p.Secondary).
		Foreground(p.Text).
		Padding(0, 1).
		MarginBottom(1)

	bubbleWidth := deps.TerminalWidth() - 4
	if bubbleWidth < 40 {
		bubbleWidth = 40
	}
	if bubbleWidth > 120 {
		bubbleWidth = 120
	}
	contentWidth := bubbleWidth - 4

	body := text
	if markdown {
		body = render.Reply(text, render.OptionsFromConfig(cfg, contentWidth))
	}

	fmt.Fprintln(deps.Stdout, labelStyle.Render("✦ Advisor"))
	fmt.Fprintln(deps.Stdout, bubbleStyle.Width(bubbleWidth).Render(body))
}

func writeOutputFile(path, text string) error {
	if err := os.WriteFile(path, []byte(text), 0o644); err != nil {
		return fmt.Errorf("failed to write output file: %w", err)
	}
	return nil
}

package transcript

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// ExportFormat represents the format for exporting a transcript
type ExportFormat string

const (
	ExportFormatMarkdown ExportFormat = "markdown"
	ExportFormatJSON     ExportFormat = "json"
)

// ExportOptions configures how transcripts are exported
type ExportOptions struct {
	Format            ExportFormat
	Title             string
	Endpoint          string
	IncludeTimestamps bool
}

// DefaultExportOptions returns sensible defaults for export
func DefaultExportOptions() ExportOptions {
	return ExportOptions{
		Format:            ExportFormatMarkdown,
		Title:             "Advisor Chat",
		IncludeTimestamps: true,
	}
}

// FormatForPath picks JSON for .json files and Markdown otherwise
func FormatForPath(path string) ExportFormat {
	if strings.EqualFold(filepath.Ext(path), ".json") {
		return ExportFormatJSON
	}
	return ExportFormatMarkdown
}

func roleName(e Entry) string {
	if e.Message.IsBot() {
		return "Assistant"
	}
	return "You"
}

// ExportMarkdown renders the finished messages of t as Markdown
func (t *Transcript) ExportMarkdown(opts ExportOptions) string {
	var sb strings.Builder

	title := opts.Title
	if title == "" {
		title = "Advisor Chat"
	}
	sb.WriteString("# ")
	sb.WriteString(title)
	sb.WriteString("\n\n")

	if opts.Endpoint != "" {
		sb.WriteString("**Endpoint:** ")
		sb.WriteString(opts.Endpoint)
		sb.WriteString("\n")
	}
	sb.WriteString("**Exported:** ")
	sb.WriteString(t.now().Format("2006-01-02 15:04:05"))
	sb.WriteString("\n")

	var finished []Entry
	for _, e := range t.entries {
		if !e.Placeholder {
			finished = append(finished, e)
		}
	}
	sb.WriteString(fmt.Sprintf("**Messages:** %d\n\n---\n\n", len(finished)))

	for i, e := range finished {
		sb.WriteString("## ")
		sb.WriteString(roleName(e))
		if opts.IncludeTimestamps && !e.Timestamp.IsZero() {
			sb.WriteString(" (")
			sb.WriteString(e.Timestamp.Format("15:04:05"))
			sb.WriteString(")")
		}
		sb.WriteString("\n\n")
		sb.WriteString(e.Message.Text)
		sb.WriteString("\n")

		if i < len(finished)-1 {
			sb.WriteString("\n---\n\n")
		}
	}

	return sb.String()
}

// ExportJSON renders the finished messages of t as indented JSON
func (t *Transcript) ExportJSON(opts ExportOptions) ([]byte, error) {
	type exportMessage struct {
		Sender    string     `json:"sender"`
		Text      string     `json:"text"`
		Timestamp *time.Time `json:"timestamp,omitempty"`
	}

	type exportTranscript struct {
		Title      string          `json:"title"`
		Endpoint   string          `json:"endpoint,omitempty"`
		ExportedAt time.Time       `json:"exported_at"`
		Messages   []exportMessage `json:"messages"`
	}

	export := exportTranscript{
		Title:      opts.Title,
		Endpoint:   opts.Endpoint,
		ExportedAt: t.now(),
		Messages:   []exportMessage{},
	}

	for _, e := range t.entries {
		if e.Placeholder {
			continue
		}
		m := exportMessage{Sender: string(e.Message.Sender), Text: e.Message.Text}
		if opts.IncludeTimestamps && !e.Timestamp.IsZero() {
			ts := e.Timestamp
			m.Timestamp = &ts
		}
		export.Messages = append(export.Messages, m)
	}

	return json.MarshalIndent(export, "", "  ")
}

// WriteFile exports t to path, choosing the format from opts or the extension
func (t *Transcript) WriteFile(path string, opts ExportOptions) error {
	if opts.Format == "" {
		opts.Format = FormatForPath(path)
	}

	var data []byte
	switch opts.Format {
	case ExportFormatJSON:
		b, err := t.ExportJSON(opts)
		if err != nil {
			return fmt.Errorf("failed to marshal transcript: %w", err)
		}
		data = b
	case ExportFormatMarkdown:
		data = []byte(t.ExportMarkdown(opts))
	default:
		return fmt.Errorf("unsupported export format: %s", opts.Format)
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create export directory: %w", err)
		}
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write export file: %w", err)
	}
	return nil
}

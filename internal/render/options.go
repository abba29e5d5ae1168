// Package render turns bot replies into styled terminal text and holds the
// colour palettes used by the chat interface.
package render

import (
	"os"

	"github.com/diogo/advisorchat/internal/config"
)

// Options configures the markdown renderer. It is comparable and used as
// the renderer pool key.
type Options struct {
	Width            int
	Style            string // glamour style name or path to a JSON style file
	EnableEmoji      bool
	PreserveNewLines bool
	TableWrap        bool
	InlineTableLinks bool
}

// DefaultOptions returns the default configuration.
func DefaultOptions() Options {
	md := config.DefaultMarkdownConfig()
	return Options{
		Width:            80,
		Style:            md.Style,
		EnableEmoji:      md.EnableEmoji,
		PreserveNewLines: md.PreserveNewLines,
		TableWrap:        md.TableWrap,
		InlineTableLinks: md.InlineTableLinks,
	}
}

// OptionsFromConfig builds options from the user configuration. GLAMOUR_STYLE
// overrides the configured style.
func OptionsFromConfig(cfg config.Config, width int) Options {
	opts := DefaultOptions()
	if width > 0 {
		opts.Width = width
	}

	md := cfg.Markdown
	if md.Style != "" {
		opts.Style = md.Style
	}
	opts.EnableEmoji = md.EnableEmoji
	opts.PreserveNewLines = md.PreserveNewLines
	opts.TableWrap = md.TableWrap
	opts.InlineTableLinks = md.InlineTableLinks

	if style := os.Getenv("GLAMOUR_STYLE"); style != "" {
		opts.Style = style
	}
	return opts
}

// WithWidth returns a copy of o with the given wrap width.
func (o Options) WithWidth(width int) Options {
	o.Width = width
	return o
}

// WithStyle returns a copy of o with the given style.
func (o Options) WithStyle(style string) Options {
	o.Style = style
	return o
}

package render

// Markdown style names understood by glamour
const (
	StyleDark       = "dark"
	StyleLight      = "light"
	StyleTokyoNight = "tokyo-night"
	StyleDracula    = "dracula"
	StylePink       = "pink"
	StyleNoTTY      = "notty"
	StyleASCII      = "ascii"
)

// StyleInfo describes a markdown style for the settings menu.
type StyleInfo struct {
	Name        string
	Description string
}

// AvailableStyles lists the built-in markdown styles.
func AvailableStyles() []StyleInfo {
	return []StyleInfo{
		{Name: StyleDark, Description: "Dark theme (default)"},
		{Name: StyleTokyoNight, Description: "Tokyo Night color scheme"},
		{Name: StyleDracula, Description: "Dracula color scheme"},
		{Name: StylePink, Description: "Pink accents"},
		{Name: StyleLight, Description: "Light theme for bright terminals"},
		{Name: StyleNoTTY, Description: "Plain text (no styling)"},
		{Name: StyleASCII, Description: "ASCII-only output"},
	}
}

// StyleNames returns the built-in style names in menu order.
func StyleNames() []string {
	styles := AvailableStyles()
	names := make([]string, len(styles))
	for i, s := range styles {
		names[i] = s.Name
	}
	return names
}

// IsBuiltinStyle reports whether style is a glamour built-in.
func IsBuiltinStyle(style string) bool {
	for _, s := range AvailableStyles() {
		if s.Name == style {
			return true
		}
	}
	return false
}

// ResolveStyle maps legacy aliases to glamour names. Unknown values are
// passed through so a JSON style path still works.
func ResolveStyle(style string) string {
	switch style {
	case "":
		return StyleDark
	case "tokyonight":
		return StyleTokyoNight
	default:
		return style
	}
}

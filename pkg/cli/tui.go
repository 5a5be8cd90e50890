package cli

import (
	"encoding/json"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
)

// Theme defines the color scheme for terminal output.
type Theme struct {
	Primary lipgloss.Color // event names
	Accent  lipgloss.Color // field keys
	Dim     lipgloss.Color // timestamps and hints
	Error   lipgloss.Color
}

// DefaultTheme is the default bright green theme.
var DefaultTheme = Theme{
	Primary: lipgloss.Color("#00ff9f"),
	Accent:  lipgloss.Color("#58a6ff"),
	Dim:     lipgloss.Color("#6e7681"),
	Error:   lipgloss.Color("#ff5f56"),
}

// Styles holds all styles derived from a theme.
type Styles struct {
	Type  lipgloss.Style
	Key   lipgloss.Style
	Value lipgloss.Style
	Time  lipgloss.Style
	Error lipgloss.Style
}

// NewStyles creates styles from a theme.
func NewStyles(t Theme) Styles {
	return Styles{
		Type:  lipgloss.NewStyle().Bold(true).Foreground(t.Primary),
		Key:   lipgloss.NewStyle().Foreground(t.Accent),
		Value: lipgloss.NewStyle(),
		Time:  lipgloss.NewStyle().Foreground(t.Dim),
		Error: lipgloss.NewStyle().Bold(true).Foreground(t.Error),
	}
}

// EventLine renders one inbound event as a single line:
//
//	15:04:05.000 slider_change id=volume value=42
//
// Fields are sorted by key; "type" is shown first and not repeated. Values
// longer than maxValue runes are truncated (0 means no limit).
func (s Styles) EventLine(at time.Time, typ string, fields map[string]any, maxValue int) string {
	var b strings.Builder
	b.WriteString(s.Time.Render(at.Format("15:04:05.000")))
	b.WriteByte(' ')
	b.WriteString(s.Type.Render(typ))

	keys := make([]string, 0, len(fields))
	for k := range fields {
		if k != "type" {
			keys = append(keys, k)
		}
	}
	slices.Sort(keys)
	for _, k := range keys {
		v := formatValue(fields[k])
		if maxValue > 0 && lipgloss.Width(v) > maxValue {
			v = truncateString(v, maxValue-1) + "…"
		}
		b.WriteByte(' ')
		b.WriteString(s.Key.Render(k))
		b.WriteByte('=')
		b.WriteString(s.Value.Render(v))
	}
	return b.String()
}

func formatValue(v any) string {
	switch v := v.(type) {
	case string:
		if v == "" || strings.ContainsAny(v, " \t\n=\"") {
			return fmt.Sprintf("%q", v)
		}
		return v
	case nil:
		return "null"
	case float64, bool:
		return fmt.Sprint(v)
	default:
		b, err := json.Marshal(v)
		if err != nil {
			return fmt.Sprint(v)
		}
		return string(b)
	}
}

// truncateString safely truncates a string to the given width,
// handling multi-byte characters correctly.
func truncateString(s string, width int) string {
	if width <= 0 {
		return ""
	}
	runes := []rune(s)
	currentWidth := 0
	for i, r := range runes {
		w := lipgloss.Width(string(r))
		if currentWidth+w > width {
			return string(runes[:i])
		}
		currentWidth += w
	}
	return s
}

// FormatSpan formats a duration for listings: "850ms", "12.5s", "3m4.0s".
func FormatSpan(d time.Duration) string {
	ms := d.Milliseconds()
	if ms < 1000 {
		return fmt.Sprintf("%dms", ms)
	}
	secs := float64(ms) / 1000
	if secs < 60 {
		return fmt.Sprintf("%.1fs", secs)
	}
	mins := int(secs / 60)
	secs -= float64(mins * 60)
	return fmt.Sprintf("%dm%.1fs", mins, secs)
}

package display

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/lucasb-eyer/go-colorful"
	"github.com/rivo/uniseg"
)

// ApplyBoldGradient renders text in bold with a horizontal color blend
// from one hex color to the other. Used for the app title in the
// dashboard header and the one-shot command headers.
func ApplyBoldGradient(text string, from, to lipgloss.Color) string {
	if text == "" {
		return ""
	}

	// Grapheme clusters, not runes, so combining marks and emoji get
	// one color each.
	var clusters []string
	gr := uniseg.NewGraphemes(text)
	for gr.Next() {
		clusters = append(clusters, gr.Str())
	}

	start := parseHex(from)
	end := parseHex(to)

	var b strings.Builder
	for i, cluster := range clusters {
		var t float64
		if len(clusters) > 1 {
			t = float64(i) / float64(len(clusters)-1)
		}
		// HCL keeps the blend perceptually even.
		c := start.BlendHcl(end, t)
		b.WriteString(lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color(c.Hex())).
			Render(cluster))
	}
	return b.String()
}

// parseHex converts a lipgloss hex color. Non-hex values (ANSI codes)
// fall back to a neutral gray so a miswired theme degrades visibly but
// harmlessly.
func parseHex(c lipgloss.Color) colorful.Color {
	if col, err := colorful.Hex(string(c)); err == nil {
		return col
	}
	return colorful.Color{R: 0.5, G: 0.5, B: 0.5}
}

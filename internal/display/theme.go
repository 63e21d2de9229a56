package display

import "github.com/charmbracelet/lipgloss"

// Theme is the dashboard palette. Styles derived from it are built
// once at startup; the dashboard never re-themes.
type Theme struct {
	Primary   lipgloss.Color // header gradient start, playing rows
	Secondary lipgloss.Color // header gradient end

	FgBase   lipgloss.Color
	FgMuted  lipgloss.Color
	FgSubtle lipgloss.Color

	Success lipgloss.Color // scrobbled feed
	Error   lipgloss.Color // sink failures
	Warning lipgloss.Color // degraded speakers

	styles Styles
}

// Styles are the prebuilt lipgloss styles the views render with.
type Styles struct {
	Base    lipgloss.Style
	Muted   lipgloss.Style
	Subtle  lipgloss.Style
	Title   lipgloss.Style
	Playing lipgloss.Style
	Success lipgloss.Style
	Error   lipgloss.Style
	Warning lipgloss.Style
}

var defaultTheme = newTheme()

func newTheme() *Theme {
	t := &Theme{
		Primary:   lipgloss.Color("#8b5cf6"),
		Secondary: lipgloss.Color("#f59e0b"),

		FgBase:   lipgloss.Color("#d0d0d0"),
		FgMuted:  lipgloss.Color("#8a8a8a"),
		FgSubtle: lipgloss.Color("#5f5f5f"),

		Success: lipgloss.Color("#34d399"),
		Error:   lipgloss.Color("#f87171"),
		Warning: lipgloss.Color("#fbbf24"),
	}

	base := lipgloss.NewStyle().Foreground(t.FgBase)
	t.styles = Styles{
		Base:    base,
		Muted:   lipgloss.NewStyle().Foreground(t.FgMuted),
		Subtle:  lipgloss.NewStyle().Foreground(t.FgSubtle),
		Title:   base.Bold(true),
		Playing: lipgloss.NewStyle().Foreground(t.Primary).Bold(true),
		Success: lipgloss.NewStyle().Foreground(t.Success),
		Error:   lipgloss.NewStyle().Foreground(t.Error),
		Warning: lipgloss.NewStyle().Foreground(t.Warning),
	}
	return t
}

// T returns the dashboard theme.
func T() *Theme {
	return defaultTheme
}

// S returns the prebuilt styles.
func (t *Theme) S() *Styles {
	return &t.styles
}

package display

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	"github.com/dustin/go-humanize"

	"github.com/llehouerou/scrobbled/internal/monitor"
	"github.com/llehouerou/scrobbled/internal/scrobble"
)

// nameColWidth is the fixed width of the speaker name column.
const nameColWidth = 16

func (m Model) View() string {
	if m.width == 0 {
		return ""
	}
	width := m.width

	var b strings.Builder
	b.WriteString(m.headerView(width))
	b.WriteString("\n")
	b.WriteString(T().S().Subtle.Render(Separator(width)))
	b.WriteString("\n")

	if len(m.statuses) == 0 {
		b.WriteString("\n  " + m.spinner.View() + T().S().Muted.Render("searching for speakers..."))
		b.WriteString("\n\n")
	} else {
		b.WriteString("\n")
		for _, st := range m.statuses {
			b.WriteString(m.speakerView(st, width))
		}
	}

	b.WriteString(T().S().Subtle.Render(Separator(width)))
	b.WriteString("\n")
	b.WriteString(m.footerView(width))
	return b.String()
}

func (m Model) headerView(width int) string {
	title := ApplyBoldGradient("scrobbled", T().Primary, T().Secondary)
	right := T().S().Muted.Render(fmt.Sprintf("%s · up %s",
		speakerCount(len(m.statuses)), formatUptime(time.Since(m.startedAt))))
	return Row(" "+title, right+" ", width)
}

// speakerView renders one speaker as a name/track line plus, when
// timing data is available, a progress line underneath.
func (m Model) speakerView(st monitor.SpeakerStatus, width int) string {
	glyph := stateGlyph(st)
	name := T().S().Title.Render(TruncateAndPad(st.Name, nameColWidth))

	var track string
	switch {
	case !st.HasTrack:
		track = T().S().Subtle.Render("nothing playing")
	case st.Artist == "" && st.Title == "":
		track = T().S().Base.Render("unknown track")
	case st.State == scrobble.StatePlaying:
		track = T().S().Playing.Render(Sanitize(fmt.Sprintf("%s - %s", st.Artist, st.Title)))
	default:
		track = T().S().Base.Render(Sanitize(fmt.Sprintf("%s - %s", st.Artist, st.Title)))
	}

	first := " " + glyph + " " + name + " " + track
	if ansi.StringWidth(first) > width {
		first = ansi.Cut(first, 0, width)
	}

	if !st.HasTrack || st.Duration <= 0 {
		return first + "\n\n"
	}
	return first + "\n" + m.progressView(st, width) + "\n\n"
}

// progressView renders the position bar with the times and the
// position at which the track becomes eligible.
func (m Model) progressView(st monitor.SpeakerStatus, width int) string {
	indent := strings.Repeat(" ", 3+nameColWidth+1)
	times := T().S().Muted.Render(fmt.Sprintf("%s / %s", formatClock(st.Position), formatClock(st.Duration)))
	target := T().S().Subtle.Render("scrobbles at " + formatClock(st.Threshold))

	barWidth := width - lipgloss.Width(indent) - lipgloss.Width(times) - lipgloss.Width(target) - 4
	if barWidth < 10 {
		return indent + times + "  " + target
	}

	var ratio float64
	if st.Duration > 0 {
		ratio = float64(st.Position) / float64(st.Duration)
	}
	m.progress.Width = barWidth
	bar := m.progress.ViewAs(min(ratio, 1))

	return indent + bar + "  " + times + "  " + target
}

func (m Model) footerView(width int) string {
	var left string
	if m.scrobbles == 0 {
		left = T().S().Muted.Render("no scrobbles yet this session")
	} else {
		count := T().S().Success.Render(fmt.Sprintf("%d scrobbled", m.scrobbles))
		left = count + T().S().Muted.Render(fmt.Sprintf(" · last: %s from %s (%s)",
			Sanitize(m.last.Title), m.last.Speaker, humanize.Time(m.last.At)))
	}

	line := Row(" "+left, T().S().Subtle.Render("q quit")+" ", width)
	if ansi.StringWidth(line) > width {
		line = ansi.Cut(line, 0, width)
	}

	if m.lastError != "" {
		line += "\n " + T().S().Error.Render(Truncate(m.lastError, width-2))
	}
	return line
}

// stateGlyph returns the styled one-cell playback indicator. Speakers
// without track data always get the idle dot, whatever their reported
// state.
func stateGlyph(st monitor.SpeakerStatus) string {
	if !st.HasTrack {
		return T().S().Subtle.Render("·")
	}
	switch st.State {
	case scrobble.StatePlaying:
		return T().S().Playing.Render("▶")
	case scrobble.StatePaused:
		return T().S().Warning.Render("⏸")
	case scrobble.StateStopped:
		return T().S().Muted.Render("■")
	default:
		return T().S().Subtle.Render("·")
	}
}

// formatClock renders seconds as m:ss, or h:mm:ss from an hour up.
func formatClock(seconds int) string {
	if seconds < 0 {
		seconds = 0
	}
	h := seconds / 3600
	m := (seconds % 3600) / 60
	s := seconds % 60
	if h > 0 {
		return fmt.Sprintf("%d:%02d:%02d", h, m, s)
	}
	return fmt.Sprintf("%d:%02d", m, s)
}

func formatUptime(d time.Duration) string {
	d = d.Round(time.Second)
	h := int(d.Hours())
	mins := int(d.Minutes()) % 60
	if h > 0 {
		return fmt.Sprintf("%dh%02dm", h, mins)
	}
	secs := int(d.Seconds()) % 60
	return fmt.Sprintf("%dm%02ds", mins, secs)
}

func speakerCount(n int) string {
	if n == 1 {
		return "1 speaker"
	}
	return fmt.Sprintf("%d speakers", n)
}

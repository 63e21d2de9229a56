package display

import (
	"strings"
	"testing"
)

func TestSanitize(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "clean string untouched",
			input: "Daft Punk - Around the World",
			want:  "Daft Punk - Around the World",
		},
		{
			name:  "control characters stripped",
			input: "Around\x1b[31m the World",
			want:  "Around[31m the World",
		},
		{
			name:  "non-breaking space replaced",
			input: "Daft Punk",
			want:  "Daft Punk",
		},
		{
			name:  "invalid utf8 dropped",
			input: "Daft\xff Punk",
			want:  "Daft Punk",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Sanitize(tt.input)
			if got != tt.want {
				t.Errorf("Sanitize(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestTruncate(t *testing.T) {
	cases := []struct {
		in    string
		width int
		want  string
	}{
		{"Da Funk", 10, "Da Funk"},
		{"Da Funk", 7, "Da Funk"},
		{"Harder Better Faster Stronger", 14, "Harder Bett..."},
		{"", 8, ""},
		// Katakana runes occupy two cells each.
		{"ワンモアタイム", 9, "ワンモ..."},
	}
	for _, c := range cases {
		if got := Truncate(c.in, c.width); got != c.want {
			t.Errorf("Truncate(%q, %d) = %q, want %q", c.in, c.width, got, c.want)
		}
	}
}

func TestPad(t *testing.T) {
	cases := []struct {
		in    string
		width int
		want  string
	}{
		{"Da Funk", 10, "Da Funk   "},
		{"Da Funk", 7, "Da Funk"},
		{"Harder Better", 5, "Harder Better"},
		{"ワン", 6, "ワン  "},
	}
	for _, c := range cases {
		if got := Pad(c.in, c.width); got != c.want {
			t.Errorf("Pad(%q, %d) = %q, want %q", c.in, c.width, got, c.want)
		}
	}
}

func TestTruncateAndPad(t *testing.T) {
	if got := TruncateAndPad("Something About Us", 10); got != "Somethi..." {
		t.Errorf("long input = %q, want %q", got, "Somethi...")
	}
	if got := TruncateAndPad("Voyager", 12); got != "Voyager     " {
		t.Errorf("short input = %q, want %q", got, "Voyager     ")
	}
}

func TestRow(t *testing.T) {
	got := Row("Kitchen", "PLAYING", 24)
	want := "Kitchen" + strings.Repeat(" ", 10) + "PLAYING"
	if got != want {
		t.Errorf("Row = %q, want %q", got, want)
	}
}

func TestRowStyledLeft(t *testing.T) {
	// Escape sequences must not count toward the layout width.
	left := "\x1b[1mKitchen\x1b[0m"
	got := Row(left, "3:05", 24)
	want := left + strings.Repeat(" ", 13) + "3:05"
	if got != want {
		t.Errorf("Row = %q, want %q", got, want)
	}
}

func TestRowOverflowKeepsGap(t *testing.T) {
	got := Row("A very long speaker name", "status", 10)
	if got != "A very long speaker name status" {
		t.Errorf("Row = %q, want single-space gap", got)
	}
}

func TestSeparator(t *testing.T) {
	if got := Separator(4); got != "────" {
		t.Errorf("Separator(4) = %q", got)
	}
}

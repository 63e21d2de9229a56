package scrobble

import (
	"testing"
	"time"
)

func TestEligible_EmptyArtistOrTitle(t *testing.T) {
	now := time.Now()
	prior := &TrackSnapshot{Artist: "A", Title: "B", Position: 100, Duration: 200}

	tests := []struct {
		name string
		snap TrackSnapshot
	}{
		{
			name: "empty artist",
			snap: TrackSnapshot{Artist: "", Title: "Song", Position: 500, Duration: 200, State: StatePlaying},
		},
		{
			name: "empty title",
			snap: TrackSnapshot{Artist: "Band", Title: "", Position: 500, Duration: 200, State: StatePlaying},
		},
		{
			name: "both empty",
			snap: TrackSnapshot{Position: 500, Duration: 200, State: StatePlaying},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if Eligible(tt.snap, prior, time.Time{}, now, 25) {
				t.Error("expected false regardless of position/duration")
			}
		})
	}
}

func TestEligible_Cooldown(t *testing.T) {
	scrobbledAt := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	snap := TrackSnapshot{Artist: "Band", Title: "Song", Position: 200, Duration: 240, State: StatePlaying}
	prior := &snap

	if Eligible(snap, prior, scrobbledAt, scrobbledAt.Add(29*time.Minute), 25) {
		t.Error("expected false 29 minutes after last scrobble")
	}
	if !Eligible(snap, prior, scrobbledAt, scrobbledAt.Add(31*time.Minute), 25) {
		t.Error("expected true 31 minutes after last scrobble")
	}
}

func TestEligible_NoPriorSnapshot(t *testing.T) {
	snap := TrackSnapshot{Artist: "Band", Title: "Song", Position: 239, Duration: 240, State: StatePlaying}

	if Eligible(snap, nil, time.Time{}, time.Now(), 25) {
		t.Error("expected false without a prior snapshot to measure against")
	}
}

func TestEligible_Thresholds(t *testing.T) {
	now := time.Now()

	tests := []struct {
		name      string
		position  int
		duration  int
		threshold float64
		want      bool
	}{
		{
			name:      "just under percent threshold",
			position:  59,
			duration:  240,
			threshold: 25,
			want:      false,
		},
		{
			name:      "at percent threshold",
			position:  60,
			duration:  240,
			threshold: 25,
			want:      true,
		},
		{
			name:      "full threshold not reached",
			position:  239,
			duration:  240,
			threshold: 100,
			want:      false,
		},
		{
			name:      "four minute floor",
			position:  240,
			duration:  240,
			threshold: 100,
			want:      true,
		},
		{
			name:      "floor beats percent on long tracks",
			position:  240,
			duration:  3600,
			threshold: 50,
			want:      true,
		},
		{
			name:      "long track under both",
			position:  239,
			duration:  3600,
			threshold: 50,
			want:      false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			snap := TrackSnapshot{
				Artist:   "Band",
				Title:    "Song",
				Position: tt.position,
				Duration: tt.duration,
				State:    StatePlaying,
			}
			got := Eligible(snap, &snap, time.Time{}, now, tt.threshold)
			if got != tt.want {
				t.Errorf("Eligible(pos=%d dur=%d pct=%v) = %v, want %v",
					tt.position, tt.duration, tt.threshold, got, tt.want)
			}
		})
	}
}

func TestQualifyingPosition(t *testing.T) {
	tests := []struct {
		duration  int
		threshold float64
		want      int
	}{
		{240, 25, 60},
		{240, 100, 240},
		{3600, 50, 240}, // floor wins on long tracks
		{100, 50, 50},
		{230, 25, 58}, // rounds up, 57.5 never qualifies
		{0, 25, 0},
	}

	for _, tt := range tests {
		if got := QualifyingPosition(tt.duration, tt.threshold); got != tt.want {
			t.Errorf("QualifyingPosition(%d, %v) = %d, want %d", tt.duration, tt.threshold, got, tt.want)
		}
	}
}

func TestParseTransportState(t *testing.T) {
	tests := []struct {
		raw  string
		want TransportState
	}{
		{"PLAYING", StatePlaying},
		{"PAUSED_PLAYBACK", StatePaused},
		{"PAUSED", StatePaused},
		{"STOPPED", StateStopped},
		{"TRANSITIONING", StateOther},
		{"NO_MEDIA_PRESENT", StateOther},
		{"", StateOther},
	}

	for _, tt := range tests {
		if got := ParseTransportState(tt.raw); got != tt.want {
			t.Errorf("ParseTransportState(%q) = %v, want %v", tt.raw, got, tt.want)
		}
	}
}

func TestTrackIdentity(t *testing.T) {
	snap := TrackSnapshot{Artist: "Daft Punk", Title: "Around the World", Album: "Homework"}
	if got := snap.Identity(); got != "Daft Punk-Around the World" {
		t.Errorf("Identity() = %q", got)
	}

	// Album must not contribute to the identity.
	live := snap
	live.Album = "Alive 2007"
	if live.Identity() != snap.Identity() {
		t.Error("identities with different albums should collide")
	}
}

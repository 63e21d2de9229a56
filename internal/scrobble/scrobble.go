// Package scrobble holds the core scrobbling domain: track snapshots,
// the eligibility rules, and the durable history stores. It performs no
// network I/O itself; speakers and submission targets are injected via
// the Speaker, Discoverer and Sink interfaces.
package scrobble

// TransportState is the playback status reported by a device.
type TransportState int

const (
	StatePlaying TransportState = iota
	StatePaused
	StateStopped
	StateOther
)

// String returns the canonical name used in logs and the
// currently-playing export.
func (s TransportState) String() string {
	switch s {
	case StatePlaying:
		return "PLAYING"
	case StatePaused:
		return "PAUSED"
	case StateStopped:
		return "STOPPED"
	default:
		return "OTHER"
	}
}

// ParseTransportState maps a raw device transport state onto the
// canonical enum. Unrecognized values map to StateOther.
func ParseTransportState(raw string) TransportState {
	switch raw {
	case "PLAYING":
		return StatePlaying
	case "PAUSED_PLAYBACK", "PAUSED":
		return StatePaused
	case "STOPPED":
		return StateStopped
	default:
		return StateOther
	}
}

// TrackSnapshot is a normalized view of what a device is playing at one
// poll instant. It is only ever built whole: if position or duration
// cannot be determined the builder yields no snapshot at all.
type TrackSnapshot struct {
	Artist   string
	Title    string
	Album    string
	Position int // seconds
	Duration int // seconds
	State    TransportState
}

// Identity returns the dedup key for this track. Album is deliberately
// excluded, so re-releases or live versions sharing artist and title
// fall under the same cooldown window.
func (s TrackSnapshot) Identity() string {
	return s.Artist + "-" + s.Title
}

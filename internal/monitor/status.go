package monitor

import "github.com/llehouerou/scrobbled/internal/scrobble"

// SpeakerStatus is the per-speaker view exported after every tick for a
// display layer to render. Speakers without usable track data still get
// an entry with HasTrack false so idle rooms stay visible.
type SpeakerStatus struct {
	DeviceID  string
	Name      string
	HasTrack  bool
	Artist    string
	Title     string
	Album     string
	Position  int
	Duration  int
	Threshold int // earliest qualifying position, seconds
	State     scrobble.TransportState
}

func statusFor(sp scrobble.Speaker, snap scrobble.TrackSnapshot, thresholdPercent float64) SpeakerStatus {
	return SpeakerStatus{
		DeviceID:  sp.ID(),
		Name:      sp.Name(),
		HasTrack:  true,
		Artist:    snap.Artist,
		Title:     snap.Title,
		Album:     snap.Album,
		Position:  snap.Position,
		Duration:  snap.Duration,
		Threshold: scrobble.QualifyingPosition(snap.Duration, thresholdPercent),
		State:     snap.State,
	}
}

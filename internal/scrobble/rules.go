package scrobble

import (
	"math"
	"time"
)

const (
	// Cooldown is the minimum time between two scrobbles of the same
	// artist+title identity.
	Cooldown = 30 * time.Minute

	// floorSeconds is the absolute playback position that always
	// qualifies a play, regardless of the percentage threshold.
	floorSeconds = 240
)

// Eligible decides whether a snapshot qualifies for a scrobble right
// now. prior is the device's snapshot from the previous poll (nil when
// none has been recorded yet), lastScrobbled the identity's most recent
// scrobble instant (zero when never scrobbled). thresholdPercent is the
// share of the track that must have played, on top of the four-minute
// absolute floor.
//
// The function is pure: recording the scrobble and persisting history
// happen in the monitor only after a positive decision and a successful
// submission.
func Eligible(snap TrackSnapshot, prior *TrackSnapshot, lastScrobbled, now time.Time, thresholdPercent float64) bool {
	if snap.Artist == "" || snap.Title == "" {
		return false
	}

	if !lastScrobbled.IsZero() && now.Sub(lastScrobbled) < Cooldown {
		return false
	}

	// Without a prior snapshot there is no progress reference yet; the
	// device was first seen mid-play this very tick.
	if prior == nil {
		return false
	}

	threshold := float64(snap.Duration) * thresholdPercent / 100
	return float64(snap.Position) >= threshold || snap.Position >= floorSeconds
}

// QualifyingPosition returns the earliest position at which a track of
// the given duration qualifies: the percentage threshold or the
// absolute floor, whichever comes first.
func QualifyingPosition(duration int, thresholdPercent float64) int {
	threshold := int(math.Ceil(float64(duration) * thresholdPercent / 100))
	if threshold > floorSeconds {
		return floorSeconds
	}
	return threshold
}

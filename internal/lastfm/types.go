package lastfm

import "time"

// ScrobbleTrack contains track metadata for scrobbling.
type ScrobbleTrack struct {
	Artist    string
	Track     string
	Album     string
	Duration  time.Duration
	Timestamp time.Time // When playback started
}

// RecentTrack is one entry of a user's listening history.
type RecentTrack struct {
	Artist     string
	Title      string
	Album      string
	When       time.Time // zero while the track is still playing
	NowPlaying bool
}

// UserInfo is the profile summary of the authenticated user.
type UserInfo struct {
	Name      string
	RealName  string
	URL       string
	PlayCount int
}

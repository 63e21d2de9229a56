package scrobble

import "context"

// RawTrack is device-reported track metadata before normalization.
// Duration and Position are clock strings (see ParseClock); either may
// be empty or a sentinel when the device has nothing useful to report.
type RawTrack struct {
	Artist   string
	Title    string
	Album    string
	Duration string
	Position string
}

// Speaker is a single pollable playback device.
type Speaker interface {
	// ID is a stable identifier for the device, its network address.
	ID() string
	// Name is a human-readable label (room name).
	Name() string
	// TrackInfo returns the raw metadata for the current track.
	TrackInfo(ctx context.Context) (RawTrack, error)
	// TransportState returns the raw playback state string.
	TransportState(ctx context.Context) (string, error)
}

// Discoverer finds the speakers currently reachable on the network.
type Discoverer interface {
	Discover(ctx context.Context) ([]Speaker, error)
}

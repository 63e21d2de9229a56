package scrobble

import (
	"context"
	"time"
)

// Submission is one play report handed to a sink.
type Submission struct {
	Artist    string
	Title     string
	Album     string
	Duration  int // seconds, 0 when unknown
	Timestamp time.Time
}

// Sink submits plays to a remote tracking service.
type Sink interface {
	// Name identifies the sink in logs ("lastfm", "listenbrainz").
	Name() string
	// NowPlaying reports the track currently playing. Best-effort.
	NowPlaying(ctx context.Context, sub Submission) error
	// Scrobble submits a completed play.
	Scrobble(ctx context.Context, sub Submission) error
}

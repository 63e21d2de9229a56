package lastfm

import (
	"context"
	"time"

	"github.com/llehouerou/scrobbled/internal/scrobble"
)

// Sink submits plays to Last.fm. It satisfies the scrobble.Sink
// interface.
type Sink struct {
	client *Client
}

// NewSink wraps a client for use as a scrobble destination.
func NewSink(client *Client) *Sink {
	return &Sink{client: client}
}

// Name identifies the sink in logs.
func (s *Sink) Name() string { return "last.fm" }

// NowPlaying reports the track as currently playing.
func (s *Sink) NowPlaying(ctx context.Context, sub scrobble.Submission) error {
	return s.client.UpdateNowPlaying(ctx, scrobbleTrack(sub))
}

// Scrobble submits a finished play.
func (s *Sink) Scrobble(ctx context.Context, sub scrobble.Submission) error {
	return s.client.Scrobble(ctx, scrobbleTrack(sub))
}

func scrobbleTrack(sub scrobble.Submission) ScrobbleTrack {
	return ScrobbleTrack{
		Artist:    sub.Artist,
		Track:     sub.Title,
		Album:     sub.Album,
		Duration:  time.Duration(sub.Duration) * time.Second,
		Timestamp: sub.Timestamp,
	}
}

// Package listenbrainz submits listens to the ListenBrainz API.
package listenbrainz

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/llehouerou/scrobbled/internal/scrobble"
)

const (
	BaseURL = "https://api.listenbrainz.org"

	submitPath           = "/1/submit-listens"
	listenTypeSingle     = "single"
	listenTypePlayingNow = "playing_now"

	submissionClient = "scrobbled"
)

// ErrListenBrainz wraps protocol-level failures.
var ErrListenBrainz = errors.New("listenbrainz error")

// Sink submits listens authenticated by a user token. It satisfies the
// scrobble.Sink interface.
type Sink struct {
	baseURL    string
	token      string
	httpClient *http.Client
}

// NewSink creates a sink for the public ListenBrainz API.
func NewSink(token string) *Sink {
	return &Sink{
		baseURL: BaseURL,
		token:   token,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// Name identifies the sink in logs.
func (s *Sink) Name() string { return "listenbrainz" }

// NowPlaying reports the track as playing now. Playing-now listens
// carry no timestamp.
func (s *Sink) NowPlaying(ctx context.Context, sub scrobble.Submission) error {
	return s.submit(ctx, listenTypePlayingNow, sub, time.Time{})
}

// Scrobble submits a finished listen.
func (s *Sink) Scrobble(ctx context.Context, sub scrobble.Submission) error {
	return s.submit(ctx, listenTypeSingle, sub, sub.Timestamp)
}

func (s *Sink) submit(ctx context.Context, listenType string, sub scrobble.Submission, stamp time.Time) error {
	payload := &Payload{
		TrackMetadata: &TrackMetadata{
			AdditionalInfo: &AdditionalInfo{
				Duration:         sub.Duration,
				SubmissionClient: submissionClient,
			},
			ArtistName:  sub.Artist,
			TrackName:   sub.Title,
			ReleaseName: sub.Album,
		},
	}
	if !stamp.IsZero() {
		payload.ListenedAt = int(stamp.Unix())
	}
	body := Scrobble{
		ListenType: listenType,
		Payload:    []*Payload{payload},
	}

	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(body); err != nil {
		return fmt.Errorf("encode payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.baseURL+submitPath, &buf)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Token "+s.token)

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("http request: %w", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusUnauthorized:
		return fmt.Errorf("unauthorized: %w", ErrListenBrainz)
	case resp.StatusCode >= 400:
		return fmt.Errorf("status %d: %w", resp.StatusCode, ErrListenBrainz)
	}
	return nil
}

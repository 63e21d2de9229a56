package listenbrainz

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/llehouerou/scrobbled/internal/scrobble"
)

func testSink(srv *httptest.Server) *Sink {
	return &Sink{
		baseURL:    srv.URL,
		token:      "token1",
		httpClient: srv.Client(),
	}
}

func testSubmission() scrobble.Submission {
	return scrobble.Submission{
		Artist:    "Daft Punk",
		Title:     "Around the World",
		Album:     "Homework",
		Duration:  431,
		Timestamp: time.Date(2025, 6, 1, 12, 30, 45, 0, time.UTC),
	}
}

func TestSink_Scrobble(t *testing.T) {
	var got Scrobble
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/1/submit-listens", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		assert.Equal(t, "Token token1", r.Header.Get("Authorization"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))

		w.Write([]byte(`{"status": "ok"}`))
	}))
	defer srv.Close()

	err := testSink(srv).Scrobble(context.Background(), testSubmission())
	require.NoError(t, err)

	assert.Equal(t, "single", got.ListenType)
	require.Len(t, got.Payload, 1)
	p := got.Payload[0]
	assert.Equal(t, int(time.Date(2025, 6, 1, 12, 30, 45, 0, time.UTC).Unix()), p.ListenedAt)
	assert.Equal(t, "Daft Punk", p.TrackMetadata.ArtistName)
	assert.Equal(t, "Around the World", p.TrackMetadata.TrackName)
	assert.Equal(t, "Homework", p.TrackMetadata.ReleaseName)
	assert.Equal(t, 431, p.TrackMetadata.AdditionalInfo.Duration)
	assert.Equal(t, "scrobbled", p.TrackMetadata.AdditionalInfo.SubmissionClient)
}

func TestSink_NowPlaying(t *testing.T) {
	var got Scrobble
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.Write([]byte(`{"status": "ok"}`))
	}))
	defer srv.Close()

	err := testSink(srv).NowPlaying(context.Background(), testSubmission())
	require.NoError(t, err)

	assert.Equal(t, "playing_now", got.ListenType)
	require.Len(t, got.Payload, 1)
	assert.Zero(t, got.Payload[0].ListenedAt, "playing now must not carry a timestamp")
}

func TestSink_Unauthorized(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	err := testSink(srv).Scrobble(context.Background(), testSubmission())
	require.ErrorIs(t, err, ErrListenBrainz)
	assert.Contains(t, err.Error(), "unauthorized")
}

func TestSink_ServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	err := testSink(srv).NowPlaying(context.Background(), testSubmission())
	require.ErrorIs(t, err, ErrListenBrainz)
}

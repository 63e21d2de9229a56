package scrobble

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
)

// NowPlayingEntry is the per-device record written to the
// currently-playing export for other tooling to read.
type NowPlayingEntry struct {
	Artist   string `json:"artist"`
	Title    string `json:"title"`
	Album    string `json:"album"`
	Duration int    `json:"duration"`
	Position int    `json:"position"`
	State    string `json:"state"`
}

// NowPlayingStore persists the latest snapshot per device. It starts
// empty on every run: entries accumulate as devices are polled, stay in
// place when a device disappears mid-run, and are not carried across
// restarts.
type NowPlayingStore struct {
	path    string
	logger  *slog.Logger
	entries map[string]NowPlayingEntry
}

// NewNowPlayingStore creates a store writing to path.
func NewNowPlayingStore(path string, logger *slog.Logger) *NowPlayingStore {
	return &NowPlayingStore{
		path:    path,
		logger:  logger,
		entries: make(map[string]NowPlayingEntry),
	}
}

// Set records the snapshot for a device and persists the full export.
// Persistence failures are logged; the in-memory state stays current.
func (s *NowPlayingStore) Set(deviceID string, snap TrackSnapshot) {
	s.entries[deviceID] = NowPlayingEntry{
		Artist:   snap.Artist,
		Title:    snap.Title,
		Album:    snap.Album,
		Duration: snap.Duration,
		Position: snap.Position,
		State:    snap.State.String(),
	}

	data, err := json.MarshalIndent(s.entries, "", "  ")
	if err != nil {
		s.logger.Error("encode currently playing", "err", err)
		return
	}
	if err := writeAtomic(s.path, data); err != nil {
		s.logger.Error("persist currently playing", "path", s.path, "err", err)
	}
}

// ReadNowPlaying reads a currently-playing export written by a running
// daemon. Used by the show command; the daemon itself never reads the
// file back.
func ReadNowPlaying(path string) (map[string]NowPlayingEntry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return map[string]NowPlayingEntry{}, nil
		}
		return nil, fmt.Errorf("read currently playing: %w", err)
	}

	var entries map[string]NowPlayingEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("decode currently playing: %w", err)
	}
	return entries, nil
}

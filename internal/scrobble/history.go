package scrobble

import (
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"time"
)

// History is the durable record of when each track identity was last
// scrobbled. The in-memory map is authoritative; every Record call
// writes straight through to disk, and write failures are logged and
// swallowed so a broken disk never stops scrobbling for the process
// lifetime.
type History struct {
	path    string
	logger  *slog.Logger
	entries map[string]time.Time
}

// LoadHistory reads the history file at path. A missing file yields an
// empty history; a corrupt payload is logged as a warning and likewise
// treated as empty rather than failing startup.
func LoadHistory(path string, logger *slog.Logger) *History {
	h := &History{
		path:    path,
		logger:  logger,
		entries: make(map[string]time.Time),
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			logger.Warn("read scrobble history", "path", path, "err", err)
		}
		return h
	}

	var raw map[string]string
	if err := json.Unmarshal(data, &raw); err != nil {
		logger.Warn("corrupt scrobble history, starting empty", "path", path, "err", err)
		return h
	}

	for identity, stamp := range raw {
		t, err := time.Parse(time.RFC3339, stamp)
		if err != nil {
			logger.Warn("skipping history entry with bad timestamp", "identity", identity, "value", stamp)
			continue
		}
		h.entries[identity] = t
	}
	return h
}

// LastScrobbled returns the most recent scrobble instant for identity.
func (h *History) LastScrobbled(identity string) (time.Time, bool) {
	t, ok := h.entries[identity]
	return t, ok
}

// IsRecent reports whether identity was scrobbled within the cooldown
// window ending at now.
func (h *History) IsRecent(identity string, now time.Time) bool {
	t, ok := h.entries[identity]
	return ok && now.Sub(t) < Cooldown
}

// Len returns the number of recorded identities.
func (h *History) Len() int {
	return len(h.entries)
}

// Record stores the scrobble instant for identity and persists the full
// history. Persistence failures keep the in-memory entry.
func (h *History) Record(identity string, instant time.Time) {
	h.entries[identity] = instant.UTC()

	raw := make(map[string]string, len(h.entries))
	for id, t := range h.entries {
		raw[id] = t.Format(time.RFC3339)
	}

	data, err := json.MarshalIndent(raw, "", "  ")
	if err != nil {
		h.logger.Error("encode scrobble history", "err", err)
		return
	}
	if err := writeAtomic(h.path, data); err != nil {
		h.logger.Error("persist scrobble history", "path", h.path, "err", err)
	}
}

// writeAtomic writes data to path via a temp file in the same directory
// and a rename, so a crash mid-write never leaves a truncated file.
func writeAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*")
	if err != nil {
		return err
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return err
	}
	if err := os.Chmod(tmp.Name(), 0o644); err != nil {
		os.Remove(tmp.Name())
		return err
	}
	return os.Rename(tmp.Name(), path)
}

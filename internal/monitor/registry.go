package monitor

import (
	"context"
	"log/slog"
	"sort"

	"github.com/llehouerou/scrobbled/internal/scrobble"
)

// Registry holds the set of speakers the monitor currently knows
// about. The set is replaced wholesale on every refresh; the add/remove
// diff exists only to be logged.
type Registry struct {
	discoverer scrobble.Discoverer
	logger     *slog.Logger
	speakers   map[string]scrobble.Speaker
}

// NewRegistry creates an empty registry backed by the discoverer.
func NewRegistry(d scrobble.Discoverer, logger *slog.Logger) *Registry {
	return &Registry{
		discoverer: d,
		logger:     logger,
		speakers:   make(map[string]scrobble.Speaker),
	}
}

// Refresh re-runs discovery and swaps in the new speaker set, returning
// the speakers that appeared and disappeared since the previous
// refresh. A discovery failure resets the registry to empty rather than
// keeping a stale set or crashing; finding zero speakers is normal
// enough to be a warning, it may be transient.
func (r *Registry) Refresh(ctx context.Context) (added, removed []scrobble.Speaker) {
	speakers, err := r.discoverer.Discover(ctx)
	if err != nil {
		r.logger.Error("speaker discovery failed", "err", err)
		speakers = nil
	} else if len(speakers) == 0 {
		r.logger.Warn("no speakers found on network")
	}

	next := make(map[string]scrobble.Speaker, len(speakers))
	for _, sp := range speakers {
		next[sp.ID()] = sp
	}

	for id, sp := range next {
		if _, ok := r.speakers[id]; !ok {
			added = append(added, sp)
		}
	}
	for id, sp := range r.speakers {
		if _, ok := next[id]; !ok {
			removed = append(removed, sp)
		}
	}
	r.speakers = next

	sortSpeakers(added)
	sortSpeakers(removed)
	return added, removed
}

// Speakers returns the known speakers in stable name order.
func (r *Registry) Speakers() []scrobble.Speaker {
	out := make([]scrobble.Speaker, 0, len(r.speakers))
	for _, sp := range r.speakers {
		out = append(out, sp)
	}
	sortSpeakers(out)
	return out
}

// Len returns the number of known speakers.
func (r *Registry) Len() int {
	return len(r.speakers)
}

func sortSpeakers(speakers []scrobble.Speaker) {
	sort.Slice(speakers, func(i, j int) bool {
		if speakers[i].Name() != speakers[j].Name() {
			return speakers[i].Name() < speakers[j].Name()
		}
		return speakers[i].ID() < speakers[j].ID()
	})
}

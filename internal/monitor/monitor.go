// Package monitor drives the speaker poll loop: it owns the device
// registry, builds track snapshots, applies the eligibility rules and
// pushes qualifying plays to the configured sinks.
package monitor

import (
	"context"
	"log/slog"
	"time"

	"github.com/llehouerou/scrobbled/internal/scrobble"
)

// Options configures a Monitor. Discoverer, History, NowPlaying and
// Logger are required; the rest have usable zero values.
type Options struct {
	ScrobbleInterval    time.Duration // main tick, default 1s
	RediscoveryInterval time.Duration // discovery cadence, default 10s
	ThresholdPercent    float64       // share of track required, clamped to [0,100]

	Discoverer scrobble.Discoverer
	History    *scrobble.History
	NowPlaying *scrobble.NowPlayingStore
	Sinks      []scrobble.Sink
	Logger     *slog.Logger

	// OnStatus, when set, receives the speaker statuses after every
	// tick. Called from the monitor goroutine; implementations must
	// not block.
	OnStatus func([]SpeakerStatus)
	// OnScrobbled, when set, is called after each successful scrobble
	// with the submission and the speaker's name.
	OnScrobbled func(scrobble.Submission, string)
	// OnSinkError, when set, is called each time a sink rejects a
	// scrobble, with the sink's name.
	OnSinkError func(string, error)
}

// Monitor is the poll-loop orchestrator. All state is owned by the
// single goroutine running Run; there is no internal locking.
type Monitor struct {
	opts     Options
	registry *Registry
	logger   *slog.Logger

	// prior holds each device's snapshot from the previous poll, the
	// progress reference the eligibility rules measure against.
	prior         map[string]*scrobble.TrackSnapshot
	lastDiscovery time.Time
}

// New creates a Monitor. Intervals below one second are raised to the
// defaults.
func New(opts Options) *Monitor {
	if opts.ScrobbleInterval < time.Second {
		opts.ScrobbleInterval = time.Second
	}
	if opts.RediscoveryInterval < time.Second {
		opts.RediscoveryInterval = 10 * time.Second
	}
	if opts.ThresholdPercent < 0 {
		opts.ThresholdPercent = 0
	}
	if opts.ThresholdPercent > 100 {
		opts.ThresholdPercent = 100
	}
	return &Monitor{
		opts:     opts,
		registry: NewRegistry(opts.Discoverer, opts.Logger),
		logger:   opts.Logger,
		prior:    make(map[string]*scrobble.TrackSnapshot),
	}
}

// Run polls until ctx is cancelled. Rediscovery shares the main tick:
// it fires when its own interval has elapsed since the last discovery,
// checked against the wall clock rather than a second timer.
func (m *Monitor) Run(ctx context.Context) error {
	m.logger.Info("monitor starting",
		"interval", m.opts.ScrobbleInterval,
		"rediscovery", m.opts.RediscoveryInterval,
		"threshold_percent", m.opts.ThresholdPercent)

	m.refresh(ctx)

	ticker := time.NewTicker(m.opts.ScrobbleInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			m.logger.Info("monitor shutting down")
			return nil
		case <-ticker.C:
			if time.Since(m.lastDiscovery) >= m.opts.RediscoveryInterval {
				m.refresh(ctx)
			}
			m.tick(ctx, time.Now())
		}
	}
}

// refresh re-runs discovery, logs the diff and drops prior snapshots of
// speakers that disappeared. Their currently-playing export entries are
// deliberately left in place.
func (m *Monitor) refresh(ctx context.Context) {
	added, removed := m.registry.Refresh(ctx)
	m.lastDiscovery = time.Now()

	for _, sp := range added {
		m.logger.Info("speaker found", "name", sp.Name(), "addr", sp.ID())
	}
	for _, sp := range removed {
		m.logger.Info("speaker lost", "name", sp.Name(), "addr", sp.ID())
		delete(m.prior, sp.ID())
	}
}

// tick processes every known speaker once. Failures are isolated per
// speaker: one broken device never blocks the others.
func (m *Monitor) tick(ctx context.Context, now time.Time) {
	statuses := make([]SpeakerStatus, 0, m.registry.Len())
	for _, sp := range m.registry.Speakers() {
		statuses = append(statuses, m.pollSpeaker(ctx, sp, now))
	}
	if m.opts.OnStatus != nil {
		m.opts.OnStatus(statuses)
	}
}

func (m *Monitor) pollSpeaker(ctx context.Context, sp scrobble.Speaker, now time.Time) SpeakerStatus {
	snap, ok := m.buildSnapshot(ctx, sp)
	if !ok {
		return SpeakerStatus{DeviceID: sp.ID(), Name: sp.Name()}
	}

	prior := m.prior[sp.ID()]

	// A change of identity while playing is a new track. Tracks with
	// no artist or title are tracked but never announced.
	if snap.State == scrobble.StatePlaying && snap.Artist != "" && snap.Title != "" &&
		(prior == nil || prior.Identity() != snap.Identity()) {
		m.announceNowPlaying(ctx, sp, snap, now)
	}

	m.prior[sp.ID()] = &snap
	m.opts.NowPlaying.Set(sp.ID(), snap)

	if snap.State == scrobble.StatePlaying {
		last, _ := m.opts.History.LastScrobbled(snap.Identity())
		if scrobble.Eligible(snap, prior, last, now, m.opts.ThresholdPercent) {
			m.submit(ctx, sp, snap, now)
		}
	}

	return statusFor(sp, snap, m.opts.ThresholdPercent)
}

// buildSnapshot queries one speaker and normalizes the result. Missing
// timing data and provider failures both yield no snapshot; only the
// log level differs.
func (m *Monitor) buildSnapshot(ctx context.Context, sp scrobble.Speaker) (scrobble.TrackSnapshot, bool) {
	var zero scrobble.TrackSnapshot

	raw, err := sp.TrackInfo(ctx)
	if err != nil {
		m.logger.Warn("query track info", "speaker", sp.Name(), "err", err)
		return zero, false
	}
	rawState, err := sp.TransportState(ctx)
	if err != nil {
		m.logger.Warn("query transport state", "speaker", sp.Name(), "err", err)
		return zero, false
	}

	duration, ok, err := scrobble.ParseClock(raw.Duration)
	if err != nil {
		m.logger.Warn("parse track duration", "speaker", sp.Name(), "err", err)
		return zero, false
	}
	if !ok {
		m.logger.Debug("no track duration", "speaker", sp.Name())
		return zero, false
	}

	position, ok, err := scrobble.ParseClock(raw.Position)
	if err != nil {
		m.logger.Warn("parse track position", "speaker", sp.Name(), "err", err)
		return zero, false
	}
	if !ok {
		m.logger.Debug("no track position", "speaker", sp.Name())
		return zero, false
	}

	return scrobble.TrackSnapshot{
		Artist:   raw.Artist,
		Title:    raw.Title,
		Album:    raw.Album,
		Position: position,
		Duration: duration,
		State:    scrobble.ParseTransportState(rawState),
	}, true
}

func (m *Monitor) announceNowPlaying(ctx context.Context, sp scrobble.Speaker, snap scrobble.TrackSnapshot, now time.Time) {
	m.logger.Info("now playing",
		"speaker", sp.Name(), "artist", snap.Artist, "title", snap.Title)

	sub := submission(snap, now)
	for _, sink := range m.opts.Sinks {
		if err := sink.NowPlaying(ctx, sub); err != nil {
			m.logger.Warn("now playing update failed", "sink", sink.Name(), "err", err)
		}
	}
}

// submit pushes the play to every sink. History is recorded as soon as
// one sink accepts; if all of them fail nothing is recorded, so the
// play is retried on the next qualifying tick.
func (m *Monitor) submit(ctx context.Context, sp scrobble.Speaker, snap scrobble.TrackSnapshot, now time.Time) {
	sub := submission(snap, now)

	accepted := 0
	for _, sink := range m.opts.Sinks {
		if err := sink.Scrobble(ctx, sub); err != nil {
			m.logger.Error("scrobble failed",
				"sink", sink.Name(), "artist", snap.Artist, "title", snap.Title, "err", err)
			if m.opts.OnSinkError != nil {
				m.opts.OnSinkError(sink.Name(), err)
			}
			continue
		}
		accepted++
	}
	if accepted == 0 && len(m.opts.Sinks) > 0 {
		return
	}

	m.opts.History.Record(snap.Identity(), now)
	m.logger.Info("scrobbled",
		"speaker", sp.Name(), "artist", snap.Artist, "title", snap.Title, "album", snap.Album)

	if m.opts.OnScrobbled != nil {
		m.opts.OnScrobbled(sub, sp.Name())
	}
}

func submission(snap scrobble.TrackSnapshot, now time.Time) scrobble.Submission {
	return scrobble.Submission{
		Artist:    snap.Artist,
		Title:     snap.Title,
		Album:     snap.Album,
		Duration:  snap.Duration,
		Timestamp: now,
	}
}

package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/oklog/run"

	"github.com/llehouerou/scrobbled/internal/config"
	"github.com/llehouerou/scrobbled/internal/display"
	"github.com/llehouerou/scrobbled/internal/errmsg"
	"github.com/llehouerou/scrobbled/internal/lastfm"
	"github.com/llehouerou/scrobbled/internal/listenbrainz"
	"github.com/llehouerou/scrobbled/internal/logging"
	"github.com/llehouerou/scrobbled/internal/monitor"
	"github.com/llehouerou/scrobbled/internal/notify"
	"github.com/llehouerou/scrobbled/internal/scrobble"
	"github.com/llehouerou/scrobbled/internal/sonos"
	"github.com/llehouerou/scrobbled/internal/state"
)

const (
	historyFile    = "last_scrobbled.json"
	nowPlayingFile = "currently_playing.json"

	journalMaxAge = 90 * 24 * time.Hour
)

// runDaemon is the default command: poll the speakers until a signal
// or the dashboard quits.
func runDaemon(args []string) error {
	fs := flag.NewFlagSet("run", flag.ExitOnError)
	configPath := fs.String("config", "", "path to config file")
	noUI := fs.Bool("no-ui", false, "disable the dashboard, log to stderr")
	debug := fs.Bool("debug", false, "verbose logging")
	interval := fs.Int("interval", 0, "seconds between speaker polls")
	rediscovery := fs.Int("rediscovery", 0, "seconds between discovery sweeps")
	threshold := fs.Float64("threshold", 0, "percent of a track required to scrobble")
	username := fs.String("username", "", "Last.fm username")
	password := fs.String("password", "", "Last.fm password")
	apiKey := fs.String("api-key", "", "Last.fm API key")
	apiSecret := fs.String("api-secret", "", "Last.fm API secret")
	_ = fs.Parse(args)

	cfg, err := config.Load(*configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	// Flags beat files and environment, but only when actually given.
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "interval":
			cfg.ScrobbleInterval = *interval
		case "rediscovery":
			cfg.RediscoveryInterval = *rediscovery
		case "threshold":
			cfg.ThresholdPercent = *threshold
		case "username":
			cfg.Lastfm.Username = *username
		case "password":
			cfg.Lastfm.Password = *password
		case "api-key":
			cfg.Lastfm.APIKey = *apiKey
		case "api-secret":
			cfg.Lastfm.APISecret = *apiSecret
		}
	})

	level := logging.ParseLevel(cfg.LogLevel)
	if *debug {
		level = slog.LevelDebug
	}

	var logger *slog.Logger
	if *noUI {
		logger = logging.SetupStderr(level)
	} else {
		var logFile *os.File
		logger, logFile, err = logging.Setup(cfg.DataDir, level)
		if err != nil {
			return fmt.Errorf("setup logging: %w", err)
		}
		defer logFile.Close()
	}

	logger.Info("starting scrobbled",
		"version", version, "data_dir", cfg.DataDir)

	stateMgr, err := state.Open(cfg.DataDir)
	if err != nil {
		return fmt.Errorf("open state database: %w", err)
	}
	defer stateMgr.Close()

	if err := stateMgr.PruneJournal(journalMaxAge); err != nil {
		logger.Warn("prune journal", "err", err)
	}

	history := scrobble.LoadHistory(filepath.Join(cfg.DataDir, historyFile), logger)
	nowPlaying := scrobble.NewNowPlayingStore(filepath.Join(cfg.DataDir, nowPlayingFile), logger)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sinks := buildSinks(ctx, cfg, stateMgr, logger)
	if len(sinks) == 0 {
		logger.Warn("no scrobble targets configured, submissions are logged only")
	}

	var notifier notify.Notifier
	if cfg.Notify.Enabled {
		notifier, err = notify.New()
		if err != nil {
			logger.Warn("desktop notifications unavailable", "err", err)
			notifier = nil
		}
	}

	var program *tea.Program

	opts := monitor.Options{
		ScrobbleInterval:    time.Duration(cfg.ScrobbleInterval) * time.Second,
		RediscoveryInterval: time.Duration(cfg.RediscoveryInterval) * time.Second,
		ThresholdPercent:    cfg.ThresholdPercent,
		Discoverer:          sonos.NewDiscoverer(),
		History:             history,
		NowPlaying:          nowPlaying,
		Sinks:               sinks,
		Logger:              logger,
		OnScrobbled: func(sub scrobble.Submission, speaker string) {
			entry := state.JournalEntry{
				Speaker:      speaker,
				Artist:       sub.Artist,
				Title:        sub.Title,
				Album:        sub.Album,
				DurationSecs: sub.Duration,
				ScrobbledAt:  sub.Timestamp,
			}
			if err := stateMgr.AddJournalEntry(entry); err != nil {
				logger.Warn("record scrobble in journal", "err", err)
			}
			if notifier != nil {
				if err := notifier.Scrobbled(sub.Artist, sub.Title, speaker); err != nil {
					logger.Debug("desktop notification", "err", err)
				}
			}
			if program != nil {
				program.Send(display.ScrobbledMsg{
					Artist:  sub.Artist,
					Title:   sub.Title,
					Speaker: speaker,
					At:      sub.Timestamp,
				})
			}
		},
	}

	if !*noUI {
		program = tea.NewProgram(display.New(), tea.WithAltScreen())
		opts.OnStatus = func(statuses []monitor.SpeakerStatus) {
			program.Send(display.StatusMsg(statuses))
		}
		opts.OnSinkError = func(sink string, err error) {
			program.Send(display.ErrorMsg(
				errmsg.FormatWith(errmsg.OpSubmitScrobble, sink, err)))
		}
	}

	mon := monitor.New(opts)

	var g run.Group
	g.Add(run.SignalHandler(ctx, os.Interrupt, syscall.SIGTERM))
	g.Add(func() error {
		return mon.Run(ctx)
	}, func(error) {
		cancel()
	})
	if program != nil {
		g.Add(func() error {
			_, err := program.Run()
			return err
		}, func(error) {
			program.Quit()
		})
	}

	err = g.Run()
	var sig run.SignalError
	if errors.As(err, &sig) {
		logger.Info("received signal", "signal", sig.Signal.String())
		return nil
	}
	return err
}

// buildSinks returns the configured submission targets. A sink that
// cannot authenticate is skipped with a warning rather than stopping
// the daemon.
func buildSinks(ctx context.Context, cfg *config.Config, stateMgr *state.Manager, logger *slog.Logger) []scrobble.Sink {
	var sinks []scrobble.Sink

	if cfg.HasLastfmConfig() {
		client := lastfm.New(cfg.Lastfm.APIKey, cfg.Lastfm.APISecret)
		if err := ensureLastfmSession(ctx, client, cfg, stateMgr, logger); err != nil {
			logger.Warn("last.fm sink disabled", "err", err)
		} else {
			sinks = append(sinks, lastfm.NewSink(client))
		}
	}

	if cfg.HasListenBrainzConfig() {
		sinks = append(sinks, listenbrainz.NewSink(cfg.ListenBrainz.Token))
	}

	return sinks
}

// ensureLastfmSession authenticates the client from the stored session
// first, falling back to the username/password flow when credentials
// are configured.
func ensureLastfmSession(ctx context.Context, client *lastfm.Client, cfg *config.Config, stateMgr *state.Manager, logger *slog.Logger) error {
	sess, err := stateMgr.GetLastfmSession()
	if err != nil {
		logger.Warn("read last.fm session", "err", err)
	}
	if sess != nil {
		client.SetSessionKey(sess.SessionKey)
		logger.Info("using stored last.fm session", "username", sess.Username)
		return nil
	}

	if !cfg.HasLastfmCredentials() {
		return errors.New("no stored session and no credentials, run 'scrobbled auth'")
	}

	if err := client.Login(ctx, cfg.Lastfm.Username, cfg.Lastfm.Password); err != nil {
		return fmt.Errorf("login: %w", err)
	}
	if err := stateMgr.SaveLastfmSession(cfg.Lastfm.Username, client.SessionKey()); err != nil {
		logger.Warn("save last.fm session", "err", err)
	}
	logger.Info("last.fm session established", "username", cfg.Lastfm.Username)
	return nil
}

package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/llehouerou/scrobbled/internal/config"
	"github.com/llehouerou/scrobbled/internal/display"
	"github.com/llehouerou/scrobbled/internal/errmsg"
	"github.com/llehouerou/scrobbled/internal/lastfm"
	"github.com/llehouerou/scrobbled/internal/logging"
	"github.com/llehouerou/scrobbled/internal/scrobble"
	"github.com/llehouerou/scrobbled/internal/state"
)

const authTimeout = 5 * time.Minute

// header prints a gradient section title, matching the dashboard's
// branding in one-shot commands.
func header(title string) {
	fmt.Println(display.ApplyBoldGradient(title, display.T().Primary, display.T().Secondary))
}

// runAuth links a Last.fm account: the password flow when credentials
// are configured, the browser callback flow otherwise.
func runAuth(args []string) error {
	fs := flag.NewFlagSet("auth", flag.ExitOnError)
	configPath := fs.String("config", "", "path to config file")
	_ = fs.Parse(args)

	cfg, err := config.Load(*configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if !cfg.HasLastfmConfig() {
		return errors.New("lastfm api_key and api_secret are not configured")
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	stateMgr, err := state.Open(cfg.DataDir)
	if err != nil {
		return fmt.Errorf("open state database: %w", err)
	}
	defer stateMgr.Close()

	client := lastfm.New(cfg.Lastfm.APIKey, cfg.Lastfm.APISecret)

	if cfg.HasLastfmCredentials() {
		if err := client.Login(ctx, cfg.Lastfm.Username, cfg.Lastfm.Password); err != nil {
			return errmsg.Error(errmsg.OpLastfmLogin, err)
		}
		if err := stateMgr.SaveLastfmSession(cfg.Lastfm.Username, client.SessionKey()); err != nil {
			return fmt.Errorf("save session: %w", err)
		}
		fmt.Printf("Linked Last.fm account %s\n", cfg.Lastfm.Username)
		return nil
	}

	srv, err := lastfm.StartAuthServer()
	if err != nil {
		return fmt.Errorf("start callback server: %w", err)
	}
	defer srv.Shutdown()

	token, err := client.GetToken(ctx)
	if err != nil {
		return errmsg.Error(errmsg.OpLastfmLogin, err)
	}

	authURL := client.GetAuthURL(token)
	fmt.Println("Open this URL in your browser to authorize scrobbled:")
	fmt.Println()
	fmt.Println("  " + authURL)
	fmt.Println()
	if err := lastfm.OpenBrowser(authURL); err == nil {
		fmt.Println("(opened in your default browser)")
	}
	fmt.Println("Waiting for authorization...")

	if cbToken, err := srv.WaitForToken(ctx, authTimeout); err == nil {
		token = cbToken
	} else if !errors.Is(err, lastfm.ErrAuthTimeout) {
		return err
	}

	username, sessionKey, err := client.GetSession(ctx, token)
	if err != nil {
		return errmsg.Error(errmsg.OpLastfmLogin, err)
	}
	if err := stateMgr.SaveLastfmSession(username, sessionKey); err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	fmt.Printf("Linked Last.fm account %s\n", username)
	return nil
}

// runShow prints the effective configuration, the session state, the
// journal totals and whatever the speakers are playing right now.
func runShow(args []string) error {
	fs := flag.NewFlagSet("show", flag.ExitOnError)
	configPath := fs.String("config", "", "path to config file")
	_ = fs.Parse(args)

	cfg, err := config.Load(*configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	header("scrobbled")
	fmt.Println()
	fmt.Printf("Data dir:     %s\n", cfg.DataDir)
	fmt.Printf("Polling:      every %ds, rediscovery every %ds\n",
		cfg.ScrobbleInterval, cfg.RediscoveryInterval)
	fmt.Printf("Threshold:    %.0f%% of track (4 minute cap)\n", cfg.ThresholdPercent)
	fmt.Printf("Last.fm:      %s\n", maskedLastfm(cfg))
	fmt.Printf("ListenBrainz: %s\n", onOff(cfg.HasListenBrainzConfig()))
	fmt.Printf("Notify:       %s\n", onOff(cfg.Notify.Enabled))
	fmt.Println()

	stateMgr, err := state.Open(cfg.DataDir)
	if err != nil {
		return fmt.Errorf("open state database: %w", err)
	}
	defer stateMgr.Close()

	if sess, err := stateMgr.GetLastfmSession(); err != nil {
		fmt.Printf("Session:      unreadable (%v)\n", err)
	} else if sess == nil {
		fmt.Println("Session:      not linked, run 'scrobbled auth'")
	} else {
		fmt.Printf("Session:      %s, linked %s\n", sess.Username, humanize.Time(sess.LinkedAt))
	}

	if stats, err := stateMgr.Stats(); err == nil {
		fmt.Printf("Journal:      %d scrobbles, %d today\n", stats.Total, stats.Today)
	}
	if entries, err := stateMgr.RecentJournalEntries(1); err == nil && len(entries) > 0 {
		e := entries[0]
		fmt.Printf("Last:         %s - %s (%s, %s)\n",
			e.Artist, e.Title, e.Speaker, humanize.Time(e.ScrobbledAt))
	}

	entries, err := scrobble.ReadNowPlaying(filepath.Join(cfg.DataDir, nowPlayingFile))
	if err != nil {
		fmt.Println(errmsg.Format(errmsg.OpLoadHistory, err))
		return nil
	}
	if len(entries) == 0 {
		return nil
	}

	fmt.Println()
	header("Current playback")
	fmt.Println()
	for id, e := range entries {
		line := fmt.Sprintf("%s - %s", e.Artist, e.Title)
		if e.Artist == "" && e.Title == "" {
			line = "nothing"
		}
		fmt.Printf("%s  %s [%s]\n", display.Pad(id, 18), line, e.State)
	}
	return nil
}

// runInfo prints the linked Last.fm account summary.
func runInfo(args []string) error {
	fs := flag.NewFlagSet("info", flag.ExitOnError)
	configPath := fs.String("config", "", "path to config file")
	_ = fs.Parse(args)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	client, cleanup, err := authenticatedClient(ctx, *configPath)
	if err != nil {
		return err
	}
	defer cleanup()

	info, err := client.UserInfo(ctx)
	if err != nil {
		return errmsg.Error(errmsg.OpLastfmFetch, err)
	}

	header(info.Name)
	if info.RealName != "" {
		fmt.Printf("  %s\n", info.RealName)
	}
	fmt.Printf("  %s plays\n", humanize.Comma(int64(info.PlayCount)))
	fmt.Printf("  %s\n", info.URL)
	return nil
}

// runRecent lists the newest scrobbles on the Last.fm account.
func runRecent(args []string) error {
	fs := flag.NewFlagSet("recent", flag.ExitOnError)
	configPath := fs.String("config", "", "path to config file")
	limit := fs.Int("limit", 10, "number of tracks (1-50)")
	_ = fs.Parse(args)

	n := min(max(*limit, 1), 50)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	client, cleanup, err := authenticatedClient(ctx, *configPath)
	if err != nil {
		return err
	}
	defer cleanup()

	tracks, err := client.RecentTracks(ctx, n)
	if err != nil {
		return errmsg.Error(errmsg.OpLastfmFetch, err)
	}

	for _, tr := range tracks {
		when := humanize.Time(tr.When)
		if tr.NowPlaying {
			when = "now playing"
		}
		fmt.Printf("%s  %s - %s\n", display.Pad(when, 16), tr.Artist, tr.Title)
	}
	return nil
}

// runReset deletes the stored session; with -history it also wipes the
// scrobble history, the playback export and the journal.
func runReset(args []string) error {
	fs := flag.NewFlagSet("reset", flag.ExitOnError)
	configPath := fs.String("config", "", "path to config file")
	wipeHistory := fs.Bool("history", false, "also remove scrobble history and journal")
	_ = fs.Parse(args)

	cfg, err := config.Load(*configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	stateMgr, err := state.Open(cfg.DataDir)
	if err != nil {
		return fmt.Errorf("open state database: %w", err)
	}
	defer stateMgr.Close()

	if !*wipeHistory {
		if err := stateMgr.DeleteLastfmSession(); err != nil {
			return errmsg.Error(errmsg.OpStateReset, err)
		}
		fmt.Println("Last.fm session cleared")
		return nil
	}

	if err := stateMgr.Reset(); err != nil {
		return errmsg.Error(errmsg.OpStateReset, err)
	}
	for _, name := range []string{historyFile, nowPlayingFile} {
		if err := os.Remove(filepath.Join(cfg.DataDir, name)); err != nil && !os.IsNotExist(err) {
			return errmsg.Error(errmsg.OpStateReset, err)
		}
	}
	fmt.Println("Last.fm session, scrobble history and journal cleared")
	return nil
}

// authenticatedClient builds a Last.fm client from the stored session,
// for one-shot commands.
func authenticatedClient(ctx context.Context, configPath string) (*lastfm.Client, func(), error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, nil, fmt.Errorf("load config: %w", err)
	}
	if !cfg.HasLastfmConfig() {
		return nil, nil, errors.New("lastfm api_key and api_secret are not configured")
	}

	stateMgr, err := state.Open(cfg.DataDir)
	if err != nil {
		return nil, nil, fmt.Errorf("open state database: %w", err)
	}

	client := lastfm.New(cfg.Lastfm.APIKey, cfg.Lastfm.APISecret)
	logger := logging.SetupStderr(slog.LevelWarn)
	if err := ensureLastfmSession(ctx, client, cfg, stateMgr, logger); err != nil {
		stateMgr.Close()
		return nil, nil, err
	}

	return client, func() { stateMgr.Close() }, nil
}

func maskedLastfm(cfg *config.Config) string {
	if !cfg.HasLastfmConfig() {
		return "not configured"
	}
	key := cfg.Lastfm.APIKey
	if len(key) > 8 {
		key = key[:4] + "..." + key[len(key)-4:]
	}
	if cfg.Lastfm.Username != "" {
		return fmt.Sprintf("%s (key %s)", cfg.Lastfm.Username, key)
	}
	return "key " + key
}

func onOff(enabled bool) string {
	if enabled {
		return "enabled"
	}
	return "disabled"
}

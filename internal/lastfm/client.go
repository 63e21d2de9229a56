package lastfm

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/shkh/lastfm-go/lastfm"
	"golang.org/x/time/rate"
)

// ErrNotAuthenticated is returned by calls that need a linked account
// before one exists.
var ErrNotAuthenticated = errors.New("not authenticated")

// Client wraps the Last.fm API for scrobbling operations. All calls go
// through a shared limiter pacing requests to the API.
type Client struct {
	api        *lastfm.Api
	apiKey     string
	apiSecret  string
	sessionKey string
	limiter    *rate.Limiter
}

// New builds a client from the application's API key pair. The client
// is unauthenticated until a session key is set or obtained.
func New(apiKey, apiSecret string) *Client {
	return &Client{
		api:       lastfm.New(apiKey, apiSecret),
		apiKey:    apiKey,
		apiSecret: apiSecret,
		// Last.fm unofficial rate limit is ~5 requests per second.
		limiter: rate.NewLimiter(rate.Every(200*time.Millisecond), 1),
	}
}

// SetSessionKey restores a session key saved from an earlier link.
func (c *Client) SetSessionKey(key string) {
	c.sessionKey = key
	c.api.SetSession(key)
}

// SessionKey returns the active session key, or "" when unlinked.
func (c *Client) SessionKey() string {
	return c.sessionKey
}

// IsAuthenticated reports whether a session key is present.
func (c *Client) IsAuthenticated() bool {
	return c.sessionKey != ""
}

// Login authenticates with username and password through the mobile
// session flow and keeps the resulting session key.
func (c *Client) Login(ctx context.Context, username, password string) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return err
	}
	if err := c.api.Login(username, password); err != nil {
		return fmt.Errorf("login: %w", err)
	}
	c.sessionKey = c.api.GetSessionKey()
	return nil
}

// GetToken requests an authentication token for the browser flow.
func (c *Client) GetToken(ctx context.Context) (string, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return "", err
	}
	result, err := c.api.GetToken()
	if err != nil {
		return "", fmt.Errorf("get token: %w", err)
	}
	return result, nil
}

// GetAuthURL returns the page where the user grants the token access
// to their account.
func (c *Client) GetAuthURL(token string) string {
	return fmt.Sprintf("https://www.last.fm/api/auth/?api_key=%s&token=%s", c.apiKey, token)
}

// GetSession trades an authorized token for a session key and the
// account's username.
func (c *Client) GetSession(ctx context.Context, token string) (username, sessionKey string, err error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return "", "", err
	}
	if err := c.api.LoginWithToken(token); err != nil {
		return "", "", fmt.Errorf("get session: %w", err)
	}

	sessionKey = c.api.GetSessionKey()
	c.sessionKey = sessionKey

	userInfo, err := c.api.User.GetInfo(nil)
	if err != nil {
		// The session itself is good; a failed user.getInfo only costs
		// us the display name.
		return "unknown", sessionKey, nil //nolint:nilerr // username is optional
	}

	return userInfo.Name, sessionKey, nil
}

// UpdateNowPlaying marks the track as playing right now. The status is
// transient on the Last.fm side and expires on its own.
func (c *Client) UpdateNowPlaying(ctx context.Context, track ScrobbleTrack) error {
	if !c.IsAuthenticated() {
		return ErrNotAuthenticated
	}
	if err := c.limiter.Wait(ctx); err != nil {
		return err
	}

	params := lastfm.P{
		"artist": track.Artist,
		"track":  track.Track,
	}
	if track.Album != "" {
		params["album"] = track.Album
	}
	if track.Duration > 0 {
		params["duration"] = int(track.Duration.Seconds())
	}

	if _, err := c.api.Track.UpdateNowPlaying(params); err != nil {
		return fmt.Errorf("update now playing: %w", err)
	}
	return nil
}

// Scrobble records one finished play in the account's history.
func (c *Client) Scrobble(ctx context.Context, track ScrobbleTrack) error {
	if !c.IsAuthenticated() {
		return ErrNotAuthenticated
	}
	if err := c.limiter.Wait(ctx); err != nil {
		return err
	}

	params := lastfm.P{
		"artist":    track.Artist,
		"track":     track.Track,
		"timestamp": track.Timestamp.Unix(),
	}
	if track.Album != "" {
		params["album"] = track.Album
	}
	if track.Duration > 0 {
		params["duration"] = int(track.Duration.Seconds())
	}

	if _, err := c.api.Track.Scrobble(params); err != nil {
		return fmt.Errorf("scrobble: %w", err)
	}
	return nil
}

// UserInfo fetches the authenticated user's profile.
func (c *Client) UserInfo(ctx context.Context) (UserInfo, error) {
	var zero UserInfo
	if !c.IsAuthenticated() {
		return zero, ErrNotAuthenticated
	}
	if err := c.limiter.Wait(ctx); err != nil {
		return zero, err
	}

	result, err := c.api.User.GetInfo(nil)
	if err != nil {
		return zero, fmt.Errorf("get user info: %w", err)
	}

	playCount := 0
	if result.PlayCount != "" {
		_, _ = fmt.Sscanf(result.PlayCount, "%d", &playCount) //nolint:errcheck // parse failure means count stays 0
	}

	return UserInfo{
		Name:      result.Name,
		RealName:  result.RealName,
		URL:       result.Url,
		PlayCount: playCount,
	}, nil
}

// RecentTracks fetches the user's latest scrobbles, most recent first.
func (c *Client) RecentTracks(ctx context.Context, limit int) ([]RecentTrack, error) {
	if !c.IsAuthenticated() {
		return nil, ErrNotAuthenticated
	}
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	userInfo, err := c.api.User.GetInfo(nil)
	if err != nil {
		return nil, fmt.Errorf("get user info: %w", err)
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}
	result, err := c.api.User.GetRecentTracks(lastfm.P{
		"user":  userInfo.Name,
		"limit": limit,
	})
	if err != nil {
		return nil, fmt.Errorf("get recent tracks: %w", err)
	}

	tracks := make([]RecentTrack, 0, len(result.Tracks))
	for _, t := range result.Tracks {
		rt := RecentTrack{
			Artist:     t.Artist.Name,
			Title:      t.Name,
			Album:      t.Album.Name,
			NowPlaying: t.NowPlaying == "true",
		}
		if uts, err := strconv.ParseInt(t.Date.Uts, 10, 64); err == nil {
			rt.When = time.Unix(uts, 0)
		}
		tracks = append(tracks, rt)
	}
	return tracks, nil
}

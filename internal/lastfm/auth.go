package lastfm

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os/exec"
	"runtime"
	"time"
)

// AuthCallbackPort is where the browser lands after the user authorizes
// the application on last.fm.
const AuthCallbackPort = 9848

// ErrAuthTimeout is returned when the user never completes the
// authorization in the browser.
var ErrAuthTimeout = errors.New("authorization timed out")

const authPage = `<!DOCTYPE html>
<html>
<head><title>Last.fm Authorization</title></head>
<body style="font-family: sans-serif; text-align: center; margin-top: 4em;">
<h1>%s</h1>
<p>%s</p>
</body>
</html>`

// AuthServer receives the token redirect of the browser-based
// authorization flow on a loopback HTTP listener.
type AuthServer struct {
	server    *http.Server
	listener  net.Listener
	tokenChan chan string
	done      chan struct{}
}

// StartAuthServer begins listening for the authorization callback.
func StartAuthServer() (*AuthServer, error) {
	addr := fmt.Sprintf("127.0.0.1:%d", AuthCallbackPort)
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("listen on %s: %w", addr, err)
	}

	as := &AuthServer{
		listener:  listener,
		tokenChan: make(chan string, 1),
		done:      make(chan struct{}),
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/callback", as.handleCallback)
	as.server = &http.Server{
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		_ = as.server.Serve(listener)
		close(as.done)
	}()

	return as, nil
}

// handleCallback answers the redirect from last.fm. The token arrives
// as a query parameter; an empty one means the user denied access.
func (as *AuthServer) handleCallback(w http.ResponseWriter, r *http.Request) {
	token := r.URL.Query().Get("token")

	w.Header().Set("Content-Type", "text/html")
	if token == "" {
		fmt.Fprintf(w, authPage, "Authorization Failed", "No token received. Please try again.")
	} else {
		fmt.Fprintf(w, authPage, "Authorization Successful!", "You can close this window and return to the terminal.")
	}

	select {
	case as.tokenChan <- token:
	default:
		// A second hit on the callback loses the race; the first token wins.
	}
}

// WaitForToken blocks until the callback delivers a token, the timeout
// elapses or ctx is cancelled. An empty token means the authorization
// page reported failure.
func (as *AuthServer) WaitForToken(ctx context.Context, timeout time.Duration) (string, error) {
	select {
	case token := <-as.tokenChan:
		if token == "" {
			return "", errors.New("authorization failed")
		}
		return token, nil
	case <-time.After(timeout):
		return "", ErrAuthTimeout
	case <-ctx.Done():
		return "", ctx.Err()
	}
}

// Shutdown stops the listener and waits for the serve loop to exit.
func (as *AuthServer) Shutdown() {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	_ = as.server.Shutdown(ctx)
	<-as.done
}

// OpenBrowser opens url with the platform's default browser.
func OpenBrowser(url string) error {
	var args []string
	switch runtime.GOOS {
	case "darwin":
		args = []string{"open"}
	case "linux":
		args = []string{"xdg-open"}
	case "windows":
		args = []string{"cmd", "/c", "start"}
	default:
		return fmt.Errorf("unsupported platform: %s", runtime.GOOS)
	}
	args = append(args, url)
	return exec.Command(args[0], args[1:]...).Start()
}

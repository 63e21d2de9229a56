// Package notify shows desktop notifications for submitted scrobbles.
package notify

import "fmt"

// A Notifier announces scrobbles on the desktop. Implementations are
// best-effort: a missing notification daemon must never break the
// scrobbler.
type Notifier interface {
	// Scrobbled announces a submitted play. Each call replaces the
	// previous announcement so a long listening session does not pile
	// up bubbles.
	Scrobbled(artist, title, speaker string) error
}

func scrobbleText(artist, title, speaker string) (summary, body string) {
	return "Scrobbled from " + speaker, fmt.Sprintf("%s - %s", artist, title)
}

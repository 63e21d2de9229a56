// Package errmsg renders failures as messages fit for the terminal.
package errmsg

import (
	"errors"
	"fmt"
)

// Op names an operation in the words the user would use for it.
type Op string

const (
	// Speakers
	OpDiscoverSpeakers Op = "discover speakers"
	OpQuerySpeaker     Op = "query speaker"

	// Scrobbling
	OpSubmitScrobble     Op = "submit scrobble"
	OpAnnounceNowPlaying Op = "announce now playing"
	OpSaveHistory        Op = "save scrobble history"
	OpLoadHistory        Op = "load scrobble history"

	// Last.fm
	OpLastfmLogin Op = "authenticate with Last.fm"
	OpLastfmFetch Op = "fetch Last.fm data"

	// Local state
	OpJournalWrite Op = "record scrobble in journal"
	OpStateOpen    Op = "open state database"
	OpStateReset   Op = "reset local state"

	// Startup
	OpInitialize Op = "initialize application"
)

// Format renders "Failed to <op>: <cause>". A nil cause renders as "".
func Format(op Op, err error) string {
	if err == nil {
		return ""
	}
	return fmt.Sprintf("Failed to %s: %v", op, err)
}

// FormatWith is Format plus a quoted subject, usually a speaker name
// or a path.
func FormatWith(op Op, context string, err error) string {
	if err == nil {
		return ""
	}
	if context == "" {
		return Format(op, err)
	}
	return fmt.Sprintf("Failed to %s '%s': %v", op, context, err)
}

// Error returns the formatted message as an error, for commands that
// surface it as their exit reason. The original chain is deliberately
// not wrapped; the message is the user-facing end of the line.
func Error(op Op, err error) error {
	if err == nil {
		return nil
	}
	return errors.New(Format(op, err))
}

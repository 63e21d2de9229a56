package main

import (
	"fmt"
	"os"
)

var version = "0.1.0"

func usage() {
	fmt.Fprintf(os.Stderr, `scrobbled - scrobble Sonos playback to Last.fm and ListenBrainz

Usage: scrobbled [command] [options]

Commands:
  run       Watch speakers and scrobble eligible plays (default)
  auth      Link a Last.fm account
  show      Configuration, session state and current playback
  info      Last.fm account details
  recent    Recent scrobbles from Last.fm
  reset     Clear the stored Last.fm session
  version   Print version and exit

Options for run:
  -config string
        Path to config file (default: ~/.config/scrobbled/config.toml)
  -no-ui
        Disable the dashboard, log to stderr
  -debug
        Verbose logging
  -interval int
        Seconds between speaker polls
  -rediscovery int
        Seconds between discovery sweeps
  -threshold float
        Percent of a track that must play before it scrobbles

Examples:
  scrobbled                            # dashboard daemon
  scrobbled run -no-ui                 # headless daemon, for systemd
  scrobbled auth                       # browser-based Last.fm link
  scrobbled recent -limit 20           # last 20 scrobbles
  scrobbled reset -history             # forget session and history

`)
}

func main() {
	args := os.Args[1:]

	cmd := "run"
	if len(args) > 0 && args[0] != "" && args[0][0] != '-' {
		cmd = args[0]
		args = args[1:]
	}

	var err error
	switch cmd {
	case "run":
		err = runDaemon(args)
	case "auth":
		err = runAuth(args)
	case "show":
		err = runShow(args)
	case "info":
		err = runInfo(args)
	case "recent":
		err = runRecent(args)
	case "reset":
		err = runReset(args)
	case "version":
		fmt.Println("scrobbled", version)
	case "help":
		usage()
	default:
		fmt.Fprintf(os.Stderr, "scrobbled: unknown command %q\n\n", cmd)
		usage()
		os.Exit(2)
	}

	if err != nil {
		fmt.Fprintf(os.Stderr, "scrobbled: %v\n", err)
		os.Exit(1)
	}
}

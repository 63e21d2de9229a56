// Diagnostic tool: discover Sonos speakers on the local network and
// print what each one is playing.
package main

import (
	"context"
	"log"
	"time"

	"github.com/mattn/go-runewidth"

	"github.com/llehouerou/scrobbled/internal/scrobble"
	"github.com/llehouerou/scrobbled/internal/sonos"
)

func main() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	log.Println("Searching for Sonos speakers...")

	speakers, err := sonos.NewDiscoverer().Discover(ctx)
	if err != nil {
		log.Fatalf("Discovery failed: %v", err)
	}
	if len(speakers) == 0 {
		log.Println("No speakers found")
		return
	}

	log.Printf("Found %d speaker(s):", len(speakers))
	printTable(speakers)

	for _, sp := range speakers {
		state, err := sp.TransportState(ctx)
		if err != nil {
			log.Printf("%s: transport state query failed: %v", sp.Name(), err)
			continue
		}

		track, err := sp.TrackInfo(ctx)
		if err != nil {
			log.Printf("%s: track query failed: %v", sp.Name(), err)
			continue
		}

		if track.Artist == "" && track.Title == "" {
			log.Printf("%s: %s, nothing in the queue", sp.Name(), state)
			continue
		}
		log.Printf("%s: %s, %s - %s (%s) at %s of %s",
			sp.Name(), state, track.Artist, track.Title, track.Album,
			track.Position, track.Duration)
	}
}

func printTable(speakers []scrobble.Speaker) {
	nameW, addrW := runewidth.StringWidth("NAME"), runewidth.StringWidth("ADDRESS")
	for _, sp := range speakers {
		nameW = max(nameW, runewidth.StringWidth(sp.Name()))
		addrW = max(addrW, runewidth.StringWidth(sp.ID()))
	}

	log.Printf("  %s  %s  %s",
		runewidth.FillRight("NAME", nameW),
		runewidth.FillRight("ADDRESS", addrW),
		"MODEL")
	for _, sp := range speakers {
		log.Printf("  %s  %s  %s",
			runewidth.FillRight(sp.Name(), nameW),
			runewidth.FillRight(sp.ID(), addrW),
			speakerModel(sp))
	}
}

// speakerModel pulls the hardware model when the underlying device
// exposes one.
func speakerModel(sp scrobble.Speaker) string {
	type modeler interface{ Model() string }
	if m, ok := sp.(modeler); ok && m.Model() != "" {
		return m.Model()
	}
	return "-"
}

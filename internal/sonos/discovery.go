// Package sonos discovers Sonos zone players on the local network and
// queries their playback state over UPnP.
package sonos

import (
	"bufio"
	"bytes"
	"context"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/textproto"
	"net/url"
	"strings"
	"time"

	"github.com/llehouerou/scrobbled/internal/scrobble"
)

const (
	ssdpAddress  = "239.255.255.250:1900"
	searchTarget = "urn:schemas-upnp-org:device:ZonePlayer:1"

	// Zone players answer an MX:1 search within a second; the extra
	// time absorbs slow wifi.
	defaultSearchWindow = 3 * time.Second
)

// Discoverer finds Sonos speakers with an SSDP multicast search. It
// satisfies the scrobble.Discoverer interface.
type Discoverer struct {
	searchWindow time.Duration
	httpClient   *http.Client
}

// NewDiscoverer creates a Discoverer with the default search window.
func NewDiscoverer() *Discoverer {
	return &Discoverer{
		searchWindow: defaultSearchWindow,
		httpClient:   &http.Client{Timeout: 5 * time.Second},
	}
}

// Discover searches for zone players and returns one Speaker per
// responding device. A speaker whose description cannot be fetched
// keeps its IP address as the display name.
func (d *Discoverer) Discover(ctx context.Context) ([]scrobble.Speaker, error) {
	locations, err := d.search(ctx)
	if err != nil {
		return nil, err
	}

	speakers := make([]scrobble.Speaker, 0, len(locations))
	for ip, location := range locations {
		desc, err := d.fetchDescription(ctx, location)
		if err != nil || desc.RoomName == "" {
			desc.RoomName = ip
		}
		speakers = append(speakers, newSpeaker(ip, desc.RoomName, desc.ModelName))
	}
	return speakers, nil
}

// search multicasts an M-SEARCH request and collects responses until
// the search window closes, keyed by responder IP so duplicate answers
// collapse.
func (d *Discoverer) search(ctx context.Context) (map[string]string, error) {
	addr, err := net.ResolveUDPAddr("udp4", ssdpAddress)
	if err != nil {
		return nil, fmt.Errorf("resolve multicast address: %w", err)
	}

	conn, err := net.ListenUDP("udp4", &net.UDPAddr{IP: net.IPv4zero})
	if err != nil {
		return nil, fmt.Errorf("open udp socket: %w", err)
	}
	defer conn.Close()

	request := strings.Join([]string{
		"M-SEARCH * HTTP/1.1",
		"HOST: " + ssdpAddress,
		`MAN: "ssdp:discover"`,
		"MX: 1",
		"ST: " + searchTarget,
		"", "",
	}, "\r\n")

	// Repeats cover dropped datagrams.
	for range 3 {
		if _, err := conn.WriteToUDP([]byte(request), addr); err != nil {
			return nil, fmt.Errorf("send search request: %w", err)
		}
	}

	deadline := time.Now().Add(d.searchWindow)
	if ctxDeadline, ok := ctx.Deadline(); ok && ctxDeadline.Before(deadline) {
		deadline = ctxDeadline
	}
	if err := conn.SetReadDeadline(deadline); err != nil {
		return nil, fmt.Errorf("set read deadline: %w", err)
	}

	locations := make(map[string]string)
	buf := make([]byte, 2048)
	for {
		n, _, err := conn.ReadFromUDP(buf)
		if err != nil {
			var nerr net.Error
			if errors.As(err, &nerr) && nerr.Timeout() {
				return locations, nil
			}
			return nil, fmt.Errorf("read search response: %w", err)
		}
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if ip, location, ok := parseSearchResponse(buf[:n]); ok {
			locations[ip] = location
		}
	}
}

// parseSearchResponse extracts the responder IP and description URL
// from one SSDP datagram. Responses for other device types are
// ignored.
func parseSearchResponse(data []byte) (ip, location string, ok bool) {
	reader := textproto.NewReader(bufio.NewReader(bytes.NewReader(data)))

	status, err := reader.ReadLine()
	if err != nil || !strings.Contains(status, "200 OK") {
		return "", "", false
	}
	header, err := reader.ReadMIMEHeader()
	if err != nil && !errors.Is(err, io.EOF) {
		return "", "", false
	}
	if !strings.Contains(header.Get("St"), "ZonePlayer") {
		return "", "", false
	}

	location = header.Get("Location")
	u, err := url.Parse(location)
	if err != nil || u.Hostname() == "" {
		return "", "", false
	}
	return u.Hostname(), location, true
}

type deviceDescription struct {
	RoomName  string `xml:"device>roomName"`
	ModelName string `xml:"device>modelName"`
}

// fetchDescription reads the room and model names from the device
// description the speaker advertised in its search response.
func (d *Discoverer) fetchDescription(ctx context.Context, location string) (deviceDescription, error) {
	var desc deviceDescription

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, location, http.NoBody)
	if err != nil {
		return desc, fmt.Errorf("create request: %w", err)
	}

	resp, err := d.httpClient.Do(req)
	if err != nil {
		return desc, fmt.Errorf("http request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return desc, fmt.Errorf("unexpected status: %s", resp.Status)
	}

	if err := xml.NewDecoder(resp.Body).Decode(&desc); err != nil {
		return desc, fmt.Errorf("decode description: %w", err)
	}
	return desc, nil
}

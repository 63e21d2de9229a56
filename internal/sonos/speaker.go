package sonos

import (
	"context"
	"encoding/xml"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/llehouerou/scrobbled/internal/scrobble"
)

const (
	controlPort = "1400"
	controlPath = "/MediaRenderer/AVTransport/Control"
	avTransport = "urn:schemas-upnp-org:service:AVTransport:1"
)

// Speaker is one Sonos zone player, addressed by IP. It satisfies the
// scrobble.Speaker interface.
type Speaker struct {
	ip         string
	room       string
	model      string
	baseURL    string
	httpClient *http.Client
}

func newSpeaker(ip, room, model string) *Speaker {
	return &Speaker{
		ip:         ip,
		room:       room,
		model:      model,
		baseURL:    "http://" + net.JoinHostPort(ip, controlPort),
		httpClient: &http.Client{Timeout: 5 * time.Second},
	}
}

// ID returns the speaker's IP address, the stable device identifier.
func (s *Speaker) ID() string { return s.ip }

// Name returns the Sonos room name.
func (s *Speaker) Name() string { return s.room }

// Model returns the hardware model from the device description, or ""
// when the description could not be fetched.
func (s *Speaker) Model() string { return s.model }

type positionInfo struct {
	TrackDuration string `xml:"Body>GetPositionInfoResponse>TrackDuration"`
	RelTime       string `xml:"Body>GetPositionInfoResponse>RelTime"`
	TrackMetaData string `xml:"Body>GetPositionInfoResponse>TrackMetaData"`
}

// TrackInfo queries the current track with a GetPositionInfo call.
// Timing fields come back raw, including the NOT_IMPLEMENTED sentinel
// used when no track is loaded; the caller interprets them.
func (s *Speaker) TrackInfo(ctx context.Context) (scrobble.RawTrack, error) {
	var zero scrobble.RawTrack

	body, err := s.soapCall(ctx, "GetPositionInfo")
	if err != nil {
		return zero, err
	}

	var info positionInfo
	if err := xml.Unmarshal(body, &info); err != nil {
		return zero, fmt.Errorf("decode position info: %w", err)
	}

	meta, err := parseTrackMetadata(info.TrackMetaData)
	if err != nil {
		return zero, err
	}

	return scrobble.RawTrack{
		Artist:   meta.Creator,
		Title:    meta.Title,
		Album:    meta.Album,
		Duration: info.TrackDuration,
		Position: info.RelTime,
	}, nil
}

type transportInfo struct {
	State string `xml:"Body>GetTransportInfoResponse>CurrentTransportState"`
}

// TransportState returns the raw transport state string: PLAYING,
// PAUSED_PLAYBACK, STOPPED or TRANSITIONING.
func (s *Speaker) TransportState(ctx context.Context) (string, error) {
	body, err := s.soapCall(ctx, "GetTransportInfo")
	if err != nil {
		return "", err
	}

	var info transportInfo
	if err := xml.Unmarshal(body, &info); err != nil {
		return "", fmt.Errorf("decode transport info: %w", err)
	}
	return info.State, nil
}

// soapCall posts an argument-free AVTransport action for instance 0
// and returns the raw response envelope.
func (s *Speaker) soapCall(ctx context.Context, action string) ([]byte, error) {
	envelope := fmt.Sprintf(`<?xml version="1.0" encoding="utf-8"?>`+
		`<s:Envelope xmlns:s="http://schemas.xmlsoap.org/soap/envelope/" s:encodingStyle="http://schemas.xmlsoap.org/soap/encoding/">`+
		`<s:Body><u:%s xmlns:u="%s"><InstanceID>0</InstanceID></u:%s></s:Body>`+
		`</s:Envelope>`, action, avTransport, action)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.baseURL+controlPath, strings.NewReader(envelope))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", `text/xml; charset="utf-8"`)
	req.Header.Set("SOAPACTION", fmt.Sprintf("%q", avTransport+"#"+action))

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("http request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%s returned status %s", action, resp.Status)
	}
	return body, nil
}

package sonos

import (
	"encoding/xml"
	"fmt"
)

// trackMetadata is the track description a zone player embeds in
// position info responses as an escaped DIDL-Lite document.
type trackMetadata struct {
	Title   string
	Creator string
	Album   string
}

type didlLite struct {
	Items []didlItem `xml:"item"`
}

type didlItem struct {
	Title   string `xml:"title"`
	Creator string `xml:"creator"`
	Album   string `xml:"album"`
}

// parseTrackMetadata decodes a DIDL-Lite document. Players report
// "NOT_IMPLEMENTED" or an empty string when nothing is loaded; both
// yield empty metadata rather than an error. Radio streams often omit
// the creator, which leaves the artist empty.
func parseTrackMetadata(raw string) (trackMetadata, error) {
	var zero trackMetadata
	if raw == "" || raw == "NOT_IMPLEMENTED" {
		return zero, nil
	}

	var doc didlLite
	if err := xml.Unmarshal([]byte(raw), &doc); err != nil {
		return zero, fmt.Errorf("decode track metadata: %w", err)
	}
	if len(doc.Items) == 0 {
		return zero, nil
	}

	item := doc.Items[0]
	return trackMetadata{
		Title:   item.Title,
		Creator: item.Creator,
		Album:   item.Album,
	}, nil
}

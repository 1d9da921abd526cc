package transkribus

import (
	"encoding/xml"
	"fmt"
	"strings"
)

// pageXML is the slice of the PAGE XML schema the dumper cares about:
// PcGts > Page > TextRegion* > TextEquiv > Unicode.
type pageXML struct {
	Page struct {
		Regions []struct {
			TextEquiv struct {
				Unicode string `xml:"Unicode"`
			} `xml:"TextEquiv"`
		} `xml:"TextRegion"`
	} `xml:"Page"`
}

// PageText extracts the transcription text from a PAGE XML document. Texts
// of multiple regions are joined with newlines in document order. ok is
// false when the document carries no text content at all.
func PageText(raw []byte) (text string, ok bool, err error) {
	var doc pageXML
	if err := xml.Unmarshal(raw, &doc); err != nil {
		return "", false, fmt.Errorf("parse PAGE XML: %w", err)
	}
	var parts []string
	for _, region := range doc.Page.Regions {
		if region.TextEquiv.Unicode != "" {
			parts = append(parts, region.TextEquiv.Unicode)
		}
	}
	if len(parts) == 0 {
		return "", false, nil
	}
	return strings.Join(parts, "\n"), true, nil
}

package dumper

import (
	"fmt"

	"github.com/vk/ts-dumper/internal/transkribus"
)

// renderMeta formats the metadata sidecar for a page's newest transcript.
// Absent string fields render "N/A"; an absent line count renders 0.
func renderMeta(t transkribus.Transcript) string {
	status := t.Status
	if status == "" {
		status = "N/A"
	}
	user := t.UserName
	if user == "" {
		user = "N/A"
	}
	return fmt.Sprintf("status:\t%s\nuserName:\t%s\nnrOfLines:\t%d", status, user, t.NrOfLines)
}

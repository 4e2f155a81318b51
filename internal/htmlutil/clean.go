package htmlutil

import (
	"github.com/k3a/html2text"
)

// ToText converts an MPC HTML page to plain text using a proper HTML
// parser. Handles entities, strips tags, and keeps table cells and the
// preformatted ephemeris block as readable lines.
func ToText(s string) string {
	return html2text.HTML2Text(s)
}

// Package share builds the public share URL and messenger text for a card.
// Opening external apps and the clipboard stay with the caller.
package share

import (
	"fmt"
	"net/url"
	"strings"
)

// CardURL is the opaque public path for a card; resolving it is the only way
// to view the card.
func CardURL(base, id string) string {
	return strings.TrimRight(base, "/") + "/card/" + id
}

// LineShareText is the message body sent alongside the card URL, sender-aware.
func LineShareText(senderName *string, cardURL string) string {
	if senderName != nil && *senderName != "" {
		return fmt.Sprintf("%sからメッセージカードが届きました!\n%s", *senderName, cardURL)
	}
	return fmt.Sprintf("メッセージカードが届きました!\n%s", cardURL)
}

// LineShareURL is the deep link that hands the text to the LINE app.
func LineShareURL(text string) string {
	return "line://msg/text/" + url.PathEscape(text)
}

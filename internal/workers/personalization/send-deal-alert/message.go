package senddealalert

import (
	"fmt"
	"strings"

	"rewards-workers/internal/common/aws"
)

const emailSubject = "New deals near you"

func (d DealLine) String() string {
	var b strings.Builder
	b.WriteString(d.Title)
	if d.MerchantName != "" {
		b.WriteString(" at ")
		b.WriteString(d.MerchantName)
	}
	if d.Distance != "" {
		fmt.Fprintf(&b, " (%s)", d.Distance)
	}
	return b.String()
}

// render builds the alert text. SMS lists deals on one line; email uses one
// line per deal. Deals beyond max are summarized as a count.
func render(channel, to, name string, deals []DealLine, max int) aws.Message {
	shown := deals
	if len(shown) > max {
		shown = shown[:max]
	}
	lines := make([]string, len(shown))
	for i, d := range shown {
		lines[i] = d.String()
	}
	more := len(deals) - len(shown)

	if channel == aws.ChannelSMS {
		body := fmt.Sprintf("%d deals near you: %s", len(deals), strings.Join(lines, "; "))
		if len(deals) == 1 {
			body = "Deal near you: " + lines[0]
		}
		if more > 0 {
			body += fmt.Sprintf(" +%d more", more)
		}
		return aws.Message{To: to, Body: body}
	}

	var b strings.Builder
	if name != "" {
		fmt.Fprintf(&b, "Hi %s,\n\n", name)
	}
	b.WriteString("These deals are close to you right now:\n\n")
	for _, l := range lines {
		fmt.Fprintf(&b, "- %s\n", l)
	}
	if more > 0 {
		fmt.Fprintf(&b, "\n...and %d more in the app.\n", more)
	}
	return aws.Message{To: to, Subject: emailSubject, Body: b.String()}
}

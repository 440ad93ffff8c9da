// Package uiutil holds small presentation helpers shared by templates and
// handlers.
package uiutil

import "time"

// FriendlyDateTimeLayout is the timestamp format shown in the UI, e.g. for
// the board's "refreshed at" line.
const FriendlyDateTimeLayout = "Jan 2, 2006 3:04 PM"

// FormatFriendlyDateTime formats a timestamp for display in local time.
// Zero times render as an empty string so templates can elide the line.
func FormatFriendlyDateTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Local().Format(FriendlyDateTimeLayout)
}

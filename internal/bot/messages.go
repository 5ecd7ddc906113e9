package bot

import "fmt"

// Command reply texts. Like the dialog prompts these are plain text, since
// list output echoes stored answers verbatim.
const (
	noticeUseDM = "This command works in our direct chat only. Please message me privately."

	noticeListEmpty = "📭 You have no saved addresses yet."
	noticeListHead  = "📦 Your saved addresses, newest first:"

	noticeCheckinStarted = "I've sent you a direct message. Let's continue there! ✉️"
	noticeCheckinNoDM    = "I couldn't reach you privately. Please open a direct chat with me and send /checkin again."

	noticeCommandFailed = "🚨 Something went wrong. Please try again in a moment."
)

func noticePurged(count int64) string {
	switch count {
	case 0:
		return "Nothing to delete: you had no saved addresses."
	case 1:
		return "🗑 Deleted 1 saved address."
	default:
		return fmt.Sprintf("🗑 Deleted %d saved addresses.", count)
	}
}

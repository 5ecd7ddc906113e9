package conversation

import "fmt"

// User-facing dialog texts. Replies are plain text on purpose: answers are
// echoed verbatim and must not be interpreted as markup.
const (
	PromptName  = "Welcome! 🥳 Let's save a shipping address. First, what is the recipient's full name?"
	PromptPhone = "Got it! Now the contact phone number, please."
	PromptEmail = "Last one: what email should we keep on file?"

	NoticeSaved        = "✅ All set! Name, address, phone and email are saved."
	NoticeSaveFailed   = "🚨 Something went wrong while saving. Please start over with /checkin."
	NoticeContinueInDM = "This conversation contains personal details. Please continue in our direct chat."
)

// PromptAddress acknowledges the name answer and asks for the delivery address.
func PromptAddress(fullName string) string {
	return fmt.Sprintf("Thanks, %s! Now send the full delivery address.", fullName)
}

package conversation

// Event is the normalized view of one inbound free-text message.
type Event struct {
	UserID   int64
	Username string
	Private  bool
	Text     string
}

// Gateway is the outbound surface the dialog needs from the chat transport.
// Reply answers in the originating chat, Direct reaches the user's private
// chat, Delete removes the originating message. Callers decide per call
// whether a failure matters.
type Gateway interface {
	Reply(text string) error
	Direct(userID int64, text string) error
	Delete() error
}

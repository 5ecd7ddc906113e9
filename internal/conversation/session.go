package conversation

import "time"

// Step identifies a stage of the fixed address-collection dialog.
type Step string

const (
	// StepName waits for the recipient's full name.
	StepName Step = "awaiting_name"
	// StepAddress waits for the delivery address.
	StepAddress Step = "awaiting_address"
	// StepPhone waits for the contact phone number.
	StepPhone Step = "awaiting_phone"
	// StepEmail waits for the contact email; answering it completes the dialog.
	StepEmail Step = "awaiting_email"
)

// Draft accumulates the answers given so far. Fields are filled in step
// order and never rewritten within the same dialog.
type Draft struct {
	FullName    string
	FullAddress string
	PhoneNumber string
	Email       string
}

// Session is the per-user progress record of one address-collection dialog.
// A session exists exactly while the dialog is unfinished.
type Session struct {
	Step      Step
	Draft     Draft
	StartedAt time.Time
	UpdatedAt time.Time
}

// Record is the completed dialog handed to persistence.
type Record struct {
	Owner       int64
	DisplayName string
	Draft       Draft
}

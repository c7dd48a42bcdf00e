package models

// PageActions attaches the two response buttons to a paged message. The
// payloads are opaque callback tokens the webhook hands back unchanged.
type PageActions struct {
	ConfirmData string
	DeclineData string
}

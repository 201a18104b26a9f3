package publish

import "context"

// Message is the formatted content handed to a publishing back-end.
type Message struct {
	Title    string
	Body     string
	ImageURL string
}

// Publisher is one publishing back-end. Any returned error counts as a
// send failure for the retry gate.
type Publisher interface {
	Name() string
	Send(ctx context.Context, msg Message) error
}

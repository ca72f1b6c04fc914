package interfaces

// Mailer delivers one message to all recipients in a single send.
// A nil return means the transport acknowledged the message; any error
// is the delivery diagnostic.
type Mailer interface {
	Send(to []string, subject, body string) error
}

// Package mail holds the outbound email message and the transports that
// deliver it: SMTP through go-mail and an HTTP email service.
package mail

// Message is a fully rendered plain-text email.
type Message struct {
	From    string `json:"from"`
	To      string `json:"to"`
	Subject string `json:"subject"`
	Body    string `json:"body"`
}

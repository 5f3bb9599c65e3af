package mail

import "gopkg.in/gomail.v2"

type NewSubscriberEmailData struct {
	Email        string
	Name         string
	Source       string
	SubscribedAt string
}

// Dialer is satisfied by *gomail.Dialer.
type Dialer interface {
	DialAndSend(m ...*gomail.Message) error
}

type EmailSender struct {
	From     string
	NotifyTo string
	Dialer   Dialer
}

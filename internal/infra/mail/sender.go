package mail

import (
	"bytes"
	"context"
	"embed"
	"fmt"
	"html/template"
	"strings"

	"gopkg.in/gomail.v2"

	"github.com/robinblocks/site/internal/infra/queue"
)

//go:embed templates/*.html
var templateFS embed.FS

var newSubscriberTmpl = template.Must(template.ParseFS(templateFS, "templates/new_subscriber.html"))

func NewEmailSender(host string, port int, user, password, from, notifyTo string) *EmailSender {
	return &EmailSender{
		From:     from,
		NotifyTo: notifyTo,
		Dialer:   gomail.NewDialer(host, port, user, password),
	}
}

// NotifyNewSubscriber emails the site owner about a signup.
func (s *EmailSender) NotifyNewSubscriber(ctx context.Context, event queue.SubscribedEvent) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	subject, body, err := renderNewSubscriber(event)
	if err != nil {
		return err
	}

	m := gomail.NewMessage()
	m.SetHeader("From", s.From)
	m.SetHeader("To", s.NotifyTo)
	m.SetHeader("Subject", subject)
	m.SetBody("text/html", body)

	if err := s.Dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("failed to send SMTP email: %w", err)
	}
	return nil
}

func renderNewSubscriber(event queue.SubscribedEvent) (string, string, error) {
	name := strings.TrimSpace(event.FirstName + " " + event.LastName)
	data := NewSubscriberEmailData{
		Email:        event.Email,
		Name:         name,
		Source:       event.Source,
		SubscribedAt: event.SubscribedAt.Format("2006-01-02 15:04 MST"),
	}

	var body bytes.Buffer
	if err := newSubscriberTmpl.Execute(&body, data); err != nil {
		return "", "", fmt.Errorf("failed to render email template: %w", err)
	}

	subject := "New Robin Blocks subscriber: " + event.Email
	return subject, body.String(), nil
}

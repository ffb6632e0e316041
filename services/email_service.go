package services

import (
	"fmt"

	"gopkg.in/gomail.v2"

	"run2rejuvenate-api/config"
)

type EmailService struct {
	config *config.Config
	dialer *gomail.Dialer
}

func NewEmailService(cfg *config.Config) *EmailService {
	service := &EmailService{config: cfg}
	if cfg.SMTPHost != "" {
		service.dialer = gomail.NewDialer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUsername, cfg.SMTPPassword)
	}
	return service
}

// Enabled reports whether SMTP is configured. Mail is best effort; the API
// never fails a request because a message could not be sent.
func (es *EmailService) Enabled() bool {
	return es != nil && es.dialer != nil
}

// SendRegistrationConfirmation notifies a participant that their event
// registration went through.
func (es *EmailService) SendRegistrationConfirmation(email, name, eventName string) error {
	if !es.Enabled() {
		return nil
	}

	m := gomail.NewMessage()
	m.SetHeader("From", m.FormatAddress(es.config.FromEmail, es.config.FromName))
	m.SetHeader("To", email)
	m.SetHeader("Subject", fmt.Sprintf("You're registered for %s!", eventName))
	m.SetBody("text/html", fmt.Sprintf(`
		<h2>Hi %s,</h2>
		<p>Your registration for <strong>%s</strong> is confirmed.</p>
		<p>Log your progress from the event page once it starts. Good luck!</p>
		<p>— The Run2Rejuvenate Team</p>`, name, eventName))

	return es.dialer.DialAndSend(m)
}

// SendWelcomeEmail greets a newly registered user
func (es *EmailService) SendWelcomeEmail(email, name string) error {
	if !es.Enabled() {
		return nil
	}

	m := gomail.NewMessage()
	m.SetHeader("From", m.FormatAddress(es.config.FromEmail, es.config.FromName))
	m.SetHeader("To", email)
	m.SetHeader("Subject", "Welcome to Run2Rejuvenate!")
	m.SetBody("text/html", fmt.Sprintf(`
		<h2>Welcome %s!</h2>
		<p>Your account is ready. Browse upcoming events and register to start
		logging your runs, rides and walks.</p>
		<p>— The Run2Rejuvenate Team</p>`, name))

	return es.dialer.DialAndSend(m)
}

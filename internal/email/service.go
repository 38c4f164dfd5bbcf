package email

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"
	"gopkg.in/gomail.v2"
)

// Service sends transactional mail. Send failures are the caller's to
// log; no mail failure should ever fail a request.
type Service interface {
	SendWelcome(ctx context.Context, to, name string) error
	SendAppointmentUpdate(ctx context.Context, to, patientName, status, notes string) error
}

type Config struct {
	Host     string
	Port     int
	User     string
	Password string
	From     string
}

type smtpService struct {
	dialer *gomail.Dialer
	from   string
}

// NewService returns an SMTP-backed mailer, or a no-op mailer when no
// host is configured.
func NewService(cfg Config) Service {
	if cfg.Host == "" {
		return &noopService{}
	}
	return &smtpService{
		dialer: gomail.NewDialer(cfg.Host, cfg.Port, cfg.User, cfg.Password),
		from:   cfg.From,
	}
}

func (s *smtpService) send(to, subject, body string) error {
	m := gomail.NewMessage()
	m.SetHeader("From", s.from)
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/plain", body)

	if err := s.dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	return nil
}

func (s *smtpService) SendWelcome(_ context.Context, to, name string) error {
	body := fmt.Sprintf("Hi %s,\n\nYour account has been created. You can now log in and manage your practice.\n", name)
	return s.send(to, "Welcome", body)
}

func (s *smtpService) SendAppointmentUpdate(_ context.Context, to, patientName, status, notes string) error {
	body := fmt.Sprintf("The appointment for %s is now %s.", patientName, status)
	if notes != "" {
		body += "\n\nNotes: " + notes
	}
	return s.send(to, "Appointment update", body)
}

type noopService struct{}

func (n *noopService) SendWelcome(_ context.Context, to, _ string) error {
	log.Debug().Str("to", to).Msg("mail disabled, skipping welcome email")
	return nil
}

func (n *noopService) SendAppointmentUpdate(_ context.Context, to, _, _, _ string) error {
	log.Debug().Str("to", to).Msg("mail disabled, skipping appointment email")
	return nil
}

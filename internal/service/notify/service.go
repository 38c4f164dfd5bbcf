// Package notify layers appointment notifications on top of the ledger:
// a message-log write plus an email to the patient. The ledger itself
// has no outbound side effects; callers invoke this after a successful
// status change and failures are logged, never surfaced.
package notify

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/mindline/practice-api/internal/email"
	"github.com/mindline/practice-api/internal/model"
	"github.com/mindline/practice-api/internal/repository"
	msgservice "github.com/mindline/practice-api/internal/service/message"
)

type Service struct {
	messages *msgservice.Service
	accounts repository.AccountRepository
	patients repository.PatientRepository
	mailer   email.Service
}

func NewService(messages *msgservice.Service, accounts repository.AccountRepository,
	patients repository.PatientRepository, mailer email.Service) *Service {
	return &Service{
		messages: messages,
		accounts: accounts,
		patients: patients,
		mailer:   mailer,
	}
}

// AppointmentChanged tells the patient's client account (when one
// exists) about a status change, and mails the patient.
func (s *Service) AppointmentChanged(ctx context.Context, appointment *model.Appointment) {
	patient, err := s.patients.Get(ctx, appointment.PatientID)
	if err != nil {
		log.Warn().Err(err).Str("appointment_id", appointment.ID.String()).
			Msg("cannot notify: patient lookup failed")
		return
	}

	if err := s.mailer.SendAppointmentUpdate(ctx, patient.Email, patient.Name,
		string(appointment.Status), appointment.Notes); err != nil {
		log.Warn().Err(err).Str("email", patient.Email).Msg("failed to send appointment email")
	}

	client, err := s.accounts.GetByLinkedPatient(ctx, appointment.PatientID)
	if err != nil {
		// No client login for this patient; email was the only channel.
		return
	}

	body := fmt.Sprintf("Your appointment on %s is now %s.",
		appointment.StartTime.Format("2006-01-02 15:04"), appointment.Status)
	if appointment.Notes != "" {
		body += " Notes: " + appointment.Notes
	}

	if _, err := s.messages.Send(ctx, appointment.PractitionerID, &model.SendMessageRequest{
		RecipientID: client.ID,
		Body:        body,
	}); err != nil {
		log.Warn().Err(err).Str("appointment_id", appointment.ID.String()).
			Msg("failed to write notification message")
	}
}

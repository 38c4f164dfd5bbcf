package appointment

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"

	"github.com/mindline/practice-api/internal/apperror"
	"github.com/mindline/practice-api/internal/model"
	"github.com/mindline/practice-api/internal/repository"
	"github.com/mindline/practice-api/pkg/cache"
)

// transitions is the complete set of permitted status changes. Anything
// absent here is an InvalidTransition; the terminal states (rejected,
// completed, cancelled, missed) have no outgoing edges at all.
var transitions = map[model.AppointmentStatus][]model.AppointmentStatus{
	model.AppointmentStatusPending: {
		model.AppointmentStatusApproved,
		model.AppointmentStatusRejected,
	},
	model.AppointmentStatusApproved: {
		model.AppointmentStatusCompleted,
		model.AppointmentStatusCancelled,
		model.AppointmentStatusMissed,
	},
	model.AppointmentStatusScheduled: {
		model.AppointmentStatusCompleted,
		model.AppointmentStatusCancelled,
		model.AppointmentStatusMissed,
	},
}

func canTransition(from, to model.AppointmentStatus) bool {
	for _, t := range transitions[from] {
		if t == to {
			return true
		}
	}
	return false
}

type Service struct {
	repo     repository.AppointmentRepository
	patients repository.PatientRepository
	cache    *cache.Cache
}

func NewService(repo repository.AppointmentRepository, patients repository.PatientRepository, c *cache.Cache) *Service {
	return &Service{repo: repo, patients: patients, cache: c}
}

// Create books a slot. A practitioner books directly (scheduled); a
// client account requests one (pending) against its own linked patient
// record.
func (s *Service) Create(ctx context.Context, actor *model.Account, req *model.CreateAppointmentRequest) (*model.Appointment, error) {
	if req.StartTime.IsZero() {
		return nil, apperror.Validation("start time is required")
	}
	if req.DurationMinutes <= 0 {
		return nil, apperror.Validation("duration must be a positive number of minutes")
	}

	practitionerID, ok := actor.PractitionerID()
	if !ok {
		return nil, apperror.Forbidden("account is not linked to a practitioner")
	}

	status := model.AppointmentStatusScheduled
	if !actor.IsPractitioner() {
		status = model.AppointmentStatusPending
		if actor.LinkedPatientID == nil || *actor.LinkedPatientID != req.PatientID {
			return nil, apperror.Forbidden("clients may only request appointments for their own patient record")
		}
	}

	patient, err := s.patients.Get(ctx, req.PatientID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperror.NotFound("patient")
		}
		return nil, apperror.Internal(err)
	}
	if patient.PractitionerID != practitionerID {
		return nil, apperror.Forbidden("patient belongs to another practitioner")
	}

	appointment := &model.Appointment{
		Base:            model.Base{ID: uuid.New()},
		PractitionerID:  practitionerID,
		PatientID:       req.PatientID,
		StartTime:       req.StartTime,
		DurationMinutes: req.DurationMinutes,
		Status:          status,
		Notes:           req.Notes,
	}

	if err := s.repo.Create(ctx, appointment); err != nil {
		return nil, apperror.Internal(err)
	}

	s.cache.Invalidate(listKey(practitionerID))
	return appointment, nil
}

func (s *Service) Get(ctx context.Context, id, practitionerID uuid.UUID) (*model.Appointment, error) {
	appointment, err := s.repo.Get(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperror.NotFound("appointment")
		}
		return nil, apperror.Internal(err)
	}

	if appointment.PractitionerID != practitionerID {
		return nil, apperror.Forbidden("appointment belongs to another practitioner")
	}
	return appointment, nil
}

func (s *Service) List(ctx context.Context, practitionerID uuid.UUID, filters *model.AppointmentFilters) ([]*model.Appointment, error) {
	if filters == nil || *filters == (model.AppointmentFilters{}) {
		if v, ok := s.cache.Get(listKey(practitionerID)); ok {
			return v.([]*model.Appointment), nil
		}
	}

	appointments, err := s.repo.List(ctx, practitionerID, filters)
	if err != nil {
		return nil, apperror.Internal(err)
	}

	if filters == nil || *filters == (model.AppointmentFilters{}) {
		s.cache.Set(listKey(practitionerID), appointments)
	}
	return appointments, nil
}

// Approve moves a pending appointment to approved. Approving an already
// approved appointment is a no-op returning the current state; the
// second return reports whether anything actually changed, so callers
// can skip side effects such as notifications.
func (s *Service) Approve(ctx context.Context, id, practitionerID uuid.UUID, notes string) (*model.Appointment, bool, error) {
	appointment, err := s.Get(ctx, id, practitionerID)
	if err != nil {
		return nil, false, err
	}

	if appointment.Status == model.AppointmentStatusApproved {
		return appointment, false, nil
	}

	if notes != "" {
		appointment.Notes = notes
	}
	appointment, err = s.transition(ctx, appointment, model.AppointmentStatusApproved)
	if err != nil {
		return nil, false, err
	}
	return appointment, true, nil
}

// Reject requires a non-blank reason, stored as the appointment notes.
func (s *Service) Reject(ctx context.Context, id, practitionerID uuid.UUID, reason string) (*model.Appointment, error) {
	if strings.TrimSpace(reason) == "" {
		return nil, apperror.Validation("a rejection reason is required")
	}

	appointment, err := s.Get(ctx, id, practitionerID)
	if err != nil {
		return nil, err
	}

	appointment.Notes = reason
	return s.transition(ctx, appointment, model.AppointmentStatusRejected)
}

func (s *Service) Complete(ctx context.Context, id, practitionerID uuid.UUID, notes string) (*model.Appointment, error) {
	return s.close(ctx, id, practitionerID, notes, model.AppointmentStatusCompleted)
}

func (s *Service) Cancel(ctx context.Context, id, practitionerID uuid.UUID, notes string) (*model.Appointment, error) {
	return s.close(ctx, id, practitionerID, notes, model.AppointmentStatusCancelled)
}

// MarkMissed records a no-show. This is a manual practitioner action;
// nothing transitions appointments by clock.
func (s *Service) MarkMissed(ctx context.Context, id, practitionerID uuid.UUID, notes string) (*model.Appointment, error) {
	return s.close(ctx, id, practitionerID, notes, model.AppointmentStatusMissed)
}

func (s *Service) close(ctx context.Context, id, practitionerID uuid.UUID, notes string, to model.AppointmentStatus) (*model.Appointment, error) {
	appointment, err := s.Get(ctx, id, practitionerID)
	if err != nil {
		return nil, err
	}

	if notes != "" {
		appointment.Notes = notes
	}
	return s.transition(ctx, appointment, to)
}

func (s *Service) transition(ctx context.Context, appointment *model.Appointment, to model.AppointmentStatus) (*model.Appointment, error) {
	if !canTransition(appointment.Status, to) {
		return nil, apperror.InvalidTransition(string(appointment.Status), string(to))
	}

	appointment.Status = to
	if err := s.repo.Update(ctx, appointment); err != nil {
		return nil, apperror.Internal(err)
	}

	s.cache.Invalidate(listKey(appointment.PractitionerID))
	return appointment, nil
}

func listKey(practitionerID uuid.UUID) string {
	return "appointments:" + practitionerID.String()
}

package appointment

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mindline/practice-api/internal/apperror"
	"github.com/mindline/practice-api/internal/model"
	"github.com/mindline/practice-api/internal/repository/memory"
	"github.com/mindline/practice-api/pkg/cache"
)

type fixture struct {
	svc          *Service
	patients     *memory.PatientRepository
	appointments *memory.AppointmentRepository
	practitioner *model.Account
	client       *model.Account
	patient      *model.Patient
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	patients := memory.NewPatientRepository()
	appointments := memory.NewAppointmentRepository()

	practitioner := &model.Account{
		Base: model.Base{ID: uuid.New()},
		Kind: model.AccountKindPractitioner,
	}

	patient := &model.Patient{
		Base:           model.Base{ID: uuid.New()},
		PractitionerID: practitioner.ID,
		Name:           "Maria Lopez",
		Email:          "maria@example.com",
	}
	require.NoError(t, patients.Create(context.Background(), patient))

	client := &model.Account{
		Base:                 model.Base{ID: uuid.New()},
		Kind:                 model.AccountKindClient,
		LinkedPractitionerID: &practitioner.ID,
		LinkedPatientID:      &patient.ID,
	}

	return &fixture{
		svc:          NewService(appointments, patients, cache.New(time.Minute)),
		patients:     patients,
		appointments: appointments,
		practitioner: practitioner,
		client:       client,
		patient:      patient,
	}
}

func (f *fixture) createAs(t *testing.T, actor *model.Account) *model.Appointment {
	t.Helper()
	apt, err := f.svc.Create(context.Background(), actor, &model.CreateAppointmentRequest{
		PatientID:       f.patient.ID,
		StartTime:       time.Date(2024, 5, 14, 10, 0, 0, 0, time.UTC),
		DurationMinutes: 50,
	})
	require.NoError(t, err)
	return apt
}

func TestCreateClientRequestIsPending(t *testing.T) {
	f := newFixture(t)

	apt := f.createAs(t, f.client)
	assert.Equal(t, model.AppointmentStatusPending, apt.Status)
	assert.Equal(t, f.practitioner.ID, apt.PractitionerID)
}

func TestCreatePractitionerBookingIsScheduled(t *testing.T) {
	f := newFixture(t)

	apt := f.createAs(t, f.practitioner)
	assert.Equal(t, model.AppointmentStatusScheduled, apt.Status)
}

func TestCreateValidation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.svc.Create(ctx, f.practitioner, &model.CreateAppointmentRequest{
		PatientID:       f.patient.ID,
		DurationMinutes: 50,
	})
	assert.True(t, apperror.IsKind(err, apperror.KindValidation), "missing start time")

	_, err = f.svc.Create(ctx, f.practitioner, &model.CreateAppointmentRequest{
		PatientID:       f.patient.ID,
		StartTime:       time.Now(),
		DurationMinutes: 0,
	})
	assert.True(t, apperror.IsKind(err, apperror.KindValidation), "zero duration")

	_, err = f.svc.Create(ctx, f.practitioner, &model.CreateAppointmentRequest{
		PatientID:       f.patient.ID,
		StartTime:       time.Now(),
		DurationMinutes: -10,
	})
	assert.True(t, apperror.IsKind(err, apperror.KindValidation), "negative duration")
}

func TestCreateForeignPatientForbidden(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	other := &model.Account{Base: model.Base{ID: uuid.New()}, Kind: model.AccountKindPractitioner}
	_, err := f.svc.Create(ctx, other, &model.CreateAppointmentRequest{
		PatientID:       f.patient.ID,
		StartTime:       time.Now(),
		DurationMinutes: 30,
	})
	assert.True(t, apperror.IsKind(err, apperror.KindForbidden))
}

func TestClientCannotBookAnotherPatient(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	otherPatient := &model.Patient{
		Base:           model.Base{ID: uuid.New()},
		PractitionerID: f.practitioner.ID,
		Name:           "Someone Else",
		Email:          "someone@example.com",
	}
	require.NoError(t, f.patients.Create(ctx, otherPatient))

	_, err := f.svc.Create(ctx, f.client, &model.CreateAppointmentRequest{
		PatientID:       otherPatient.ID,
		StartTime:       time.Now(),
		DurationMinutes: 30,
	})
	assert.True(t, apperror.IsKind(err, apperror.KindForbidden))
}

// The canonical rejection flow: blank reason fails, a real reason lands
// in notes, and a second reject hits a terminal state.
func TestRejectFlow(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	apt := f.createAs(t, f.client)

	_, err := f.svc.Reject(ctx, apt.ID, f.practitioner.ID, "")
	assert.True(t, apperror.IsKind(err, apperror.KindValidation), "blank reason")

	_, err = f.svc.Reject(ctx, apt.ID, f.practitioner.ID, "   \t ")
	assert.True(t, apperror.IsKind(err, apperror.KindValidation), "whitespace reason")

	rejected, err := f.svc.Reject(ctx, apt.ID, f.practitioner.ID, "Schedule conflict")
	require.NoError(t, err)
	assert.Equal(t, model.AppointmentStatusRejected, rejected.Status)
	assert.Equal(t, "Schedule conflict", rejected.Notes)

	_, err = f.svc.Reject(ctx, apt.ID, f.practitioner.ID, "again")
	assert.True(t, apperror.IsKind(err, apperror.KindInvalidTransition))
}

func TestApproveIsIdempotent(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	apt := f.createAs(t, f.client)

	approved, changed, err := f.svc.Approve(ctx, apt.ID, f.practitioner.ID, "")
	require.NoError(t, err)
	assert.True(t, changed)
	assert.Equal(t, model.AppointmentStatusApproved, approved.Status)
	assert.Empty(t, approved.Notes)

	again, changed, err := f.svc.Approve(ctx, apt.ID, f.practitioner.ID, "")
	require.NoError(t, err)
	assert.False(t, changed, "repeat approval must not register as a change")
	assert.Equal(t, model.AppointmentStatusApproved, again.Status)
}

func TestOwnershipCheckedOnReadsAndWrites(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	intruder := uuid.New()

	apt := f.createAs(t, f.client)

	_, err := f.svc.Get(ctx, apt.ID, intruder)
	assert.True(t, apperror.IsKind(err, apperror.KindForbidden))

	_, _, err = f.svc.Approve(ctx, apt.ID, intruder, "")
	assert.True(t, apperror.IsKind(err, apperror.KindForbidden))

	_, err = f.svc.Cancel(ctx, apt.ID, intruder, "")
	assert.True(t, apperror.IsKind(err, apperror.KindForbidden))
}

// Exhaustive check of the transition table: every (from, to) pair is
// accepted exactly when it is listed, everything else is rejected.
func TestTransitionTable(t *testing.T) {
	allowed := map[model.AppointmentStatus][]model.AppointmentStatus{
		model.AppointmentStatusPending:   {model.AppointmentStatusApproved, model.AppointmentStatusRejected},
		model.AppointmentStatusApproved:  {model.AppointmentStatusCompleted, model.AppointmentStatusCancelled, model.AppointmentStatusMissed},
		model.AppointmentStatusScheduled: {model.AppointmentStatusCompleted, model.AppointmentStatusCancelled, model.AppointmentStatusMissed},
	}
	all := []model.AppointmentStatus{
		model.AppointmentStatusPending,
		model.AppointmentStatusApproved,
		model.AppointmentStatusRejected,
		model.AppointmentStatusScheduled,
		model.AppointmentStatusCompleted,
		model.AppointmentStatusCancelled,
		model.AppointmentStatusMissed,
	}

	for _, from := range all {
		for _, to := range all {
			want := false
			for _, a := range allowed[from] {
				if a == to {
					want = true
				}
			}
			assert.Equalf(t, want, canTransition(from, to), "%s -> %s", from, to)
		}
	}
}

func TestTerminalStatesHaveNoExit(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	terminalVia := map[string]func(id uuid.UUID) error{
		"completed": func(id uuid.UUID) error {
			_, err := f.svc.Complete(ctx, id, f.practitioner.ID, "")
			return err
		},
		"cancelled": func(id uuid.UUID) error {
			_, err := f.svc.Cancel(ctx, id, f.practitioner.ID, "")
			return err
		},
		"missed": func(id uuid.UUID) error {
			_, err := f.svc.MarkMissed(ctx, id, f.practitioner.ID, "")
			return err
		},
	}

	for name, closeFn := range terminalVia {
		apt := f.createAs(t, f.practitioner)
		require.NoError(t, closeFn(apt.ID), name)

		_, _, err := f.svc.Approve(ctx, apt.ID, f.practitioner.ID, "")
		assert.Truef(t, apperror.IsKind(err, apperror.KindInvalidTransition), "approve after %s", name)

		_, err = f.svc.Complete(ctx, apt.ID, f.practitioner.ID, "")
		assert.Truef(t, apperror.IsKind(err, apperror.KindInvalidTransition), "complete after %s", name)

		_, err = f.svc.Cancel(ctx, apt.ID, f.practitioner.ID, "")
		assert.Truef(t, apperror.IsKind(err, apperror.KindInvalidTransition), "cancel after %s", name)
	}
}

func TestCompleteBeforeStartTimeAllowed(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	apt, err := f.svc.Create(ctx, f.practitioner, &model.CreateAppointmentRequest{
		PatientID:       f.patient.ID,
		StartTime:       time.Now().Add(48 * time.Hour),
		DurationMinutes: 50,
	})
	require.NoError(t, err)

	// No enforcement that the slot has passed; this is a known policy
	// gap carried over deliberately.
	completed, err := f.svc.Complete(ctx, apt.ID, f.practitioner.ID, "")
	require.NoError(t, err)
	assert.Equal(t, model.AppointmentStatusCompleted, completed.Status)
}

func TestListFilters(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	a := f.createAs(t, f.client)
	b := f.createAs(t, f.practitioner)

	_, _, err := f.svc.Approve(ctx, a.ID, f.practitioner.ID, "")
	require.NoError(t, err)

	pending, err := f.svc.List(ctx, f.practitioner.ID, &model.AppointmentFilters{
		Status: model.AppointmentStatusScheduled,
	})
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, b.ID, pending[0].ID)

	all, err := f.svc.List(ctx, f.practitioner.ID, nil)
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

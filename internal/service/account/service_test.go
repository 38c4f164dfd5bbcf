package account

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mindline/practice-api/internal/apperror"
	"github.com/mindline/practice-api/internal/email"
	"github.com/mindline/practice-api/internal/model"
	"github.com/mindline/practice-api/internal/repository/memory"
	"github.com/mindline/practice-api/pkg/security"
)

func newService() (*Service, *memory.PatientRepository) {
	patients := memory.NewPatientRepository()
	svc := NewService(
		memory.NewAccountRepository(),
		patients,
		security.NewArgonHasher(),
		email.NewService(email.Config{}),
	)
	return svc, patients
}

func registerPractitioner(t *testing.T, svc *Service) *model.Account {
	t.Helper()
	account, err := svc.Register(context.Background(), &model.RegisterRequest{
		Kind:     model.AccountKindPractitioner,
		Email:    "dr.reyes@example.com",
		Password: "correct horse battery",
		Name:     "Dr. Reyes",
	})
	require.NoError(t, err)
	return account
}

func TestRegisterPractitionerGetsInviteCode(t *testing.T) {
	svc, _ := newService()

	account := registerPractitioner(t, svc)
	require.NotNil(t, account.InviteCode)
	assert.Len(t, *account.InviteCode, 10)
	assert.Equal(t, model.AccountKindPractitioner, account.Kind)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	svc, _ := newService()
	registerPractitioner(t, svc)

	_, err := svc.Register(context.Background(), &model.RegisterRequest{
		Kind:     model.AccountKindPractitioner,
		Email:    "dr.reyes@example.com",
		Password: "another password",
		Name:     "Impostor",
	})
	assert.True(t, apperror.IsKind(err, apperror.KindConflict))
}

func TestRegisterClientWithInviteCode(t *testing.T) {
	svc, patients := newService()
	ctx := context.Background()

	practitioner := registerPractitioner(t, svc)

	client, err := svc.Register(ctx, &model.RegisterRequest{
		Kind:       model.AccountKindClient,
		Email:      "maria@example.com",
		Password:   "a client password",
		Name:       "Maria Lopez",
		InviteCode: *practitioner.InviteCode,
	})
	require.NoError(t, err)

	require.NotNil(t, client.LinkedPractitionerID)
	assert.Equal(t, practitioner.ID, *client.LinkedPractitionerID)
	require.NotNil(t, client.LinkedPatientID)

	// Registration created a patient record under the practitioner,
	// linked by id rather than email matching.
	patient, err := patients.Get(ctx, *client.LinkedPatientID)
	require.NoError(t, err)
	assert.Equal(t, practitioner.ID, patient.PractitionerID)
	assert.Equal(t, "Maria Lopez", patient.Name)
}

func TestFailedRegistrationLeavesNoPatient(t *testing.T) {
	svc, patients := newService()
	ctx := context.Background()

	practitioner := registerPractitioner(t, svc)

	_, err := svc.Register(ctx, &model.RegisterRequest{
		Kind:       model.AccountKindClient,
		Email:      "maria@example.com",
		Password:   "a client password",
		Name:       "Maria Lopez",
		InviteCode: *practitioner.InviteCode,
	})
	require.NoError(t, err)

	// A second registration with the same email is rejected and must
	// not add another patient record under the practitioner.
	_, err = svc.Register(ctx, &model.RegisterRequest{
		Kind:       model.AccountKindClient,
		Email:      "maria@example.com",
		Password:   "a different password",
		Name:       "Maria Lopez",
		InviteCode: *practitioner.InviteCode,
	})
	require.True(t, apperror.IsKind(err, apperror.KindConflict))

	roster, err := patients.List(ctx, practitioner.ID)
	require.NoError(t, err)
	assert.Len(t, roster, 1)
}

func TestRegisterClientWithBadInviteCode(t *testing.T) {
	svc, _ := newService()

	_, err := svc.Register(context.Background(), &model.RegisterRequest{
		Kind:       model.AccountKindClient,
		Email:      "maria@example.com",
		Password:   "a client password",
		Name:       "Maria Lopez",
		InviteCode: "NOSUCHCODE",
	})
	assert.True(t, apperror.IsKind(err, apperror.KindValidation))
}

func TestVerify(t *testing.T) {
	svc, _ := newService()
	registerPractitioner(t, svc)
	ctx := context.Background()

	account, err := svc.Verify(ctx, "dr.reyes@example.com", "correct horse battery")
	require.NoError(t, err)
	assert.Equal(t, "dr.reyes@example.com", account.Email)

	_, err = svc.Verify(ctx, "dr.reyes@example.com", "wrong password")
	assert.True(t, apperror.IsKind(err, apperror.KindUnauthenticated))

	_, err = svc.Verify(ctx, "nobody@example.com", "correct horse battery")
	assert.True(t, apperror.IsKind(err, apperror.KindUnauthenticated))
}

func TestPasswordHashNeverSerialized(t *testing.T) {
	svc, _ := newService()
	account := registerPractitioner(t, svc)

	assert.NotEmpty(t, account.PasswordHash)
	assert.NotContains(t, account.PasswordHash, "correct horse battery")
}

func TestUpdateProfile(t *testing.T) {
	svc, _ := newService()
	account := registerPractitioner(t, svc)
	ctx := context.Background()

	bio := "Psychotherapist, CBT focus."
	updated, err := svc.UpdateProfile(ctx, account.ID, &model.UpdateProfileRequest{Bio: &bio})
	require.NoError(t, err)
	assert.Equal(t, bio, updated.Bio)
	assert.Equal(t, account.Name, updated.Name)
}

func TestRegenerateInviteCode(t *testing.T) {
	svc, _ := newService()
	ctx := context.Background()

	practitioner := registerPractitioner(t, svc)
	old := *practitioner.InviteCode

	updated, err := svc.RegenerateInviteCode(ctx, practitioner.ID)
	require.NoError(t, err)
	require.NotNil(t, updated.InviteCode)
	assert.NotEqual(t, old, *updated.InviteCode)

	client, err := svc.Register(ctx, &model.RegisterRequest{
		Kind:     model.AccountKindClient,
		Email:    "maria@example.com",
		Password: "a client password",
		Name:     "Maria Lopez",
	})
	require.NoError(t, err)

	_, err = svc.RegenerateInviteCode(ctx, client.ID)
	assert.True(t, apperror.IsKind(err, apperror.KindForbidden))
}

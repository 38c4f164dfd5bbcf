package consent

import (
	"context"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mindline/practice-api/internal/apperror"
	"github.com/mindline/practice-api/internal/model"
	"github.com/mindline/practice-api/internal/repository/memory"
)

const sampleContent = "I consent to the processing of my health data for the purpose of treatment planning and record keeping."

type consentFixture struct {
	svc            *Service
	patients       *memory.PatientRepository
	practitionerID uuid.UUID
	patient        *model.Patient
}

func newConsentFixture(t *testing.T) *consentFixture {
	t.Helper()

	patients := memory.NewPatientRepository()
	practitionerID := uuid.New()

	patient := &model.Patient{
		Base:           model.Base{ID: uuid.New()},
		PractitionerID: practitionerID,
		Name:           "Dana Reeves",
	}
	require.NoError(t, patients.Create(context.Background(), patient))

	return &consentFixture{
		svc:            NewService(memory.NewConsentRepository(patients), patients),
		patients:       patients,
		practitionerID: practitionerID,
		patient:        patient,
	}
}

func TestCreateTemplateValidation(t *testing.T) {
	f := newConsentFixture(t)
	ctx := context.Background()

	_, err := f.svc.CreateTemplate(ctx, f.practitionerID, &model.CreateConsentTemplateRequest{
		Title:   "ab",
		Content: sampleContent,
	})
	assert.True(t, apperror.IsKind(err, apperror.KindValidation))

	_, err = f.svc.CreateTemplate(ctx, f.practitionerID, &model.CreateConsentTemplateRequest{
		Title:   "Data processing",
		Content: "too short",
	})
	assert.True(t, apperror.IsKind(err, apperror.KindValidation))

	template, err := f.svc.CreateTemplate(ctx, f.practitionerID, &model.CreateConsentTemplateRequest{
		Title:   "  Data processing  ",
		Content: sampleContent,
	})
	require.NoError(t, err)
	assert.Equal(t, "Data processing", template.Title)
	assert.Equal(t, 1, template.Version)
}

func TestUpdateTemplateBumpsVersion(t *testing.T) {
	f := newConsentFixture(t)
	ctx := context.Background()

	template, err := f.svc.CreateTemplate(ctx, f.practitionerID, &model.CreateConsentTemplateRequest{
		Title:   "Data processing",
		Content: sampleContent,
	})
	require.NoError(t, err)

	title := "Data processing v2"
	updated, err := f.svc.UpdateTemplate(ctx, template.ID, f.practitionerID, &model.UpdateConsentTemplateRequest{Title: &title})
	require.NoError(t, err)
	assert.Equal(t, 2, updated.Version)
	assert.Equal(t, sampleContent, updated.Content, "content untouched when omitted")

	_, err = f.svc.UpdateTemplate(ctx, template.ID, uuid.New(), &model.UpdateConsentTemplateRequest{Title: &title})
	assert.True(t, apperror.IsKind(err, apperror.KindForbidden))
}

func TestSignedConsentKeepsVersionAfterTemplateEdit(t *testing.T) {
	f := newConsentFixture(t)
	ctx := context.Background()

	template, err := f.svc.CreateTemplate(ctx, f.practitionerID, &model.CreateConsentTemplateRequest{
		Title:   "Data processing",
		Content: sampleContent,
	})
	require.NoError(t, err)

	signed, err := f.svc.Sign(ctx, template.ID, &model.SignConsentRequest{
		PatientID: f.patient.ID,
		Signature: "Dana Reeves",
	})
	require.NoError(t, err)
	assert.Equal(t, 1, signed.TemplateVersion)

	content := strings.Replace(sampleContent, "treatment planning", "billing", 1)
	_, err = f.svc.UpdateTemplate(ctx, template.ID, f.practitionerID, &model.UpdateConsentTemplateRequest{Content: &content})
	require.NoError(t, err)

	records, err := f.svc.ListSigned(ctx, f.practitionerID)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, 1, records[0].TemplateVersion, "signing captured the version at signing time")

	later, err := f.svc.Sign(ctx, template.ID, &model.SignConsentRequest{
		PatientID: f.patient.ID,
		Signature: "Dana Reeves",
	})
	require.NoError(t, err)
	assert.Equal(t, 2, later.TemplateVersion)
}

func TestSignCrossPractitionerForbidden(t *testing.T) {
	f := newConsentFixture(t)
	ctx := context.Background()

	template, err := f.svc.CreateTemplate(ctx, f.practitionerID, &model.CreateConsentTemplateRequest{
		Title:   "Data processing",
		Content: sampleContent,
	})
	require.NoError(t, err)

	foreign := &model.Patient{
		Base:           model.Base{ID: uuid.New()},
		PractitionerID: uuid.New(),
		Name:           "Other Patient",
	}
	require.NoError(t, f.patients.Create(ctx, foreign))

	_, err = f.svc.Sign(ctx, template.ID, &model.SignConsentRequest{
		PatientID: foreign.ID,
		Signature: "Other Patient",
	})
	assert.True(t, apperror.IsKind(err, apperror.KindForbidden))

	_, err = f.svc.Sign(ctx, template.ID, &model.SignConsentRequest{
		PatientID: f.patient.ID,
		Signature: "   ",
	})
	assert.True(t, apperror.IsKind(err, apperror.KindValidation))

	_, err = f.svc.Sign(ctx, uuid.New(), &model.SignConsentRequest{
		PatientID: f.patient.ID,
		Signature: "Dana Reeves",
	})
	assert.True(t, apperror.IsKind(err, apperror.KindNotFound))
}

func TestListSignedScopedToPractitioner(t *testing.T) {
	f := newConsentFixture(t)
	ctx := context.Background()

	template, err := f.svc.CreateTemplate(ctx, f.practitionerID, &model.CreateConsentTemplateRequest{
		Title:   "Data processing",
		Content: sampleContent,
	})
	require.NoError(t, err)

	_, err = f.svc.Sign(ctx, template.ID, &model.SignConsentRequest{
		PatientID: f.patient.ID,
		Signature: "Dana Reeves",
	})
	require.NoError(t, err)

	records, err := f.svc.ListSigned(ctx, uuid.New())
	require.NoError(t, err)
	assert.Empty(t, records)
}

package firm

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"intakeflow/internal/database"
	"intakeflow/internal/domain"
	"intakeflow/internal/logger"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:firm_test_%s?mode=memory&cache=shared", t.Name())
	db, err := database.Connect(dsn, logger.Nop())
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))
	return db
}

func newTestService(t *testing.T) *Service {
	return NewService(NewRepository(setupTestDB(t)), "https://intake.example.com/", logger.Nop())
}

func createAcme(t *testing.T, svc *Service) *domain.Firm {
	t.Helper()
	f, err := svc.Create(context.Background(), CreateFirmRequest{
		Name:          "Acme Immigration Law",
		Slug:          "acme-immigration",
		Email:         "office@acme.test",
		ServiceStates: []string{"California", "Texas", "California"},
		MinBudget:     5000,
	})
	require.NoError(t, err)
	return f
}

func TestService_CreateAndLookup(t *testing.T) {
	svc := newTestService(t)
	f := createAcme(t, svc)

	assert.NotEqual(t, uuid.Nil, f.ID)
	assert.Equal(t, []string{"California", "Texas"}, f.ServiceStates)
	assert.Equal(t, "office@acme.test", f.NotificationEmail)

	bySlug, err := svc.GetByIdentifier(context.Background(), "acme-immigration")
	require.NoError(t, err)
	assert.Equal(t, f.ID, bySlug.ID)
	assert.Equal(t, []string{"California", "Texas"}, bySlug.ServiceStates)

	byID, err := svc.GetByIdentifier(context.Background(), f.ID.String())
	require.NoError(t, err)
	assert.Equal(t, "acme-immigration", byID.Slug)
}

func TestService_UnknownFirm(t *testing.T) {
	svc := newTestService(t)

	_, err := svc.GetByIdentifier(context.Background(), "nobody")
	var nf *domain.NotFoundError
	require.True(t, errors.As(err, &nf))
	assert.Equal(t, "firm", nf.Resource)

	_, err = svc.Settings(context.Background(), uuid.New())
	assert.True(t, errors.As(err, &nf))
}

func TestService_CreateRejectsBadInput(t *testing.T) {
	svc := newTestService(t)

	_, err := svc.Create(context.Background(), CreateFirmRequest{
		Name:          "A",
		Slug:          "Bad Slug",
		Email:         "nope",
		ServiceStates: []string{"Atlantis"},
	})
	var verr *domain.ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, "min", verr.Fields["firm_name"])
	assert.Equal(t, "slug", verr.Fields["firm_slug"])
	assert.Equal(t, "email", verr.Fields["email"])
	assert.Equal(t, "us_state", verr.Fields["service_states[0]"])

	_, err = svc.Create(context.Background(), CreateFirmRequest{
		Name:          "Sessions Law",
		Slug:          "sessions",
		Email:         "office@sessions.test",
		ServiceStates: []string{"Texas"},
	})
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, "slug", verr.Fields["firm_slug"])
}

func TestService_DuplicateSlug(t *testing.T) {
	svc := newTestService(t)
	createAcme(t, svc)

	_, err := svc.Create(context.Background(), CreateFirmRequest{
		Name:  "Other Firm",
		Slug:  "acme-immigration",
		Email: "other@firm.test",
	})
	assert.ErrorIs(t, err, ErrSlugTaken)
}

func TestService_Settings(t *testing.T) {
	svc := newTestService(t)
	f := createAcme(t, svc)

	settings, err := svc.Settings(context.Background(), f.ID)
	require.NoError(t, err)
	assert.Equal(t, "https://intake.example.com/intake/acme-immigration", settings.IntakeURL)
	assert.Equal(t, 5000, settings.MinBudget)
	assert.Equal(t, MinBudgetOptions, settings.MinBudgetOptions)
}

func TestService_UpdateSettings(t *testing.T) {
	svc := newTestService(t)
	f := createAcme(t, svc)

	notify := "alerts@acme.test"
	zero := 0
	settings, err := svc.UpdateSettings(context.Background(), f.ID, UpdateSettingsRequest{
		NotificationEmail: &notify,
		ServiceStates:     []string{"New York"},
		MinBudget:         &zero,
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"New York"}, settings.ServiceStates)
	assert.Equal(t, 0, settings.MinBudget)
	assert.Equal(t, "alerts@acme.test", settings.NotificationEmail)
	assert.Equal(t, "Acme Immigration Law", settings.FirmName, "untouched fields survive")

	reloaded, err := svc.GetByIdentifier(context.Background(), f.ID.String())
	require.NoError(t, err)
	assert.Equal(t, []string{"New York"}, reloaded.ServiceStates)
	assert.Equal(t, 0, reloaded.MinBudget)

	// an explicit empty list clears the service area
	settings, err = svc.UpdateSettings(context.Background(), f.ID, UpdateSettingsRequest{ServiceStates: []string{}})
	require.NoError(t, err)
	assert.Empty(t, settings.ServiceStates)
}

func TestService_UpdateSettingsRejectsUnknownState(t *testing.T) {
	svc := newTestService(t)
	f := createAcme(t, svc)

	_, err := svc.UpdateSettings(context.Background(), f.ID, UpdateSettingsRequest{
		ServiceStates: []string{"Texas", "Narnia"},
	})
	var verr *domain.ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, "us_state", verr.Fields["service_states[1]"])
}

func TestService_UpdateSettingsSlugConflict(t *testing.T) {
	svc := newTestService(t)
	f := createAcme(t, svc)
	_, err := svc.Create(context.Background(), CreateFirmRequest{
		Name:  "Border Legal",
		Slug:  "border-legal",
		Email: "hi@border.test",
	})
	require.NoError(t, err)

	taken := "border-legal"
	_, err = svc.UpdateSettings(context.Background(), f.ID, UpdateSettingsRequest{FirmSlug: &taken})
	assert.ErrorIs(t, err, ErrSlugTaken)
}

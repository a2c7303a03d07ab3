package intake

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"intakeflow/internal/domain"
)

func strp(s string) *string { return &s }
func boolp(b bool) *bool    { return &b }

func walkToLast(w *Wizard) {
	for !w.IsComplete() {
		w.Advance()
	}
}

func completePatch() domain.DraftPatch {
	return domain.DraftPatch{
		CaseType:          strp(string(domain.CaseH1BWorkVisa)),
		State:             strp("California"),
		ImmigrationStatus: strp(string(domain.StatusWorkVisa)),
		Timeline:          strp(string(domain.TimelineUrgent)),
		Budget:            strp(string(domain.BudgetOver20k)),
		PreviousAttorney:  boolp(false),
		CaseDetails:       strp("Need help with my H-1B extension"),
		ClientName:        strp("Jane Doe"),
		ClientEmail:       strp("jane@example.com"),
		ClientPhone:       strp("(650) 253-0000"),
		PreferredContact:  strp(string(domain.ContactEmail)),
		BestTime:          strp(string(domain.BestTimeMorning)),
	}
}

func TestWizard_Navigation(t *testing.T) {
	w := NewWizard()
	assert.Equal(t, StepCaseType, w.Step())
	assert.Equal(t, 12, w.Progress())

	w.Retreat()
	assert.Equal(t, FirstStep, w.Step(), "retreat at the first step is a no-op")

	w.Advance()
	w.Advance()
	assert.Equal(t, StepImmigrationStatus, w.Step())
	assert.Equal(t, 37, w.Progress())

	walkToLast(w)
	assert.True(t, w.IsComplete())
	assert.Equal(t, 100, w.Progress())

	w.Advance()
	assert.Equal(t, LastStep, w.Step(), "advance at the last step is a no-op")

	w.Retreat()
	assert.Equal(t, StepCaseDetails, w.Step())
	assert.False(t, w.IsComplete())
}

func TestWizard_AdvanceDoesNotRequireAnswers(t *testing.T) {
	w := NewWizard()
	walkToLast(w)
	assert.Equal(t, domain.IntakeDraft{}, w.Draft())
}

func TestWizard_UpdateMergesOnlyProvidedFields(t *testing.T) {
	w := NewWizard()
	require.NoError(t, w.Update(domain.DraftPatch{CaseType: strp("DACA")}))
	require.NoError(t, w.Update(domain.DraftPatch{Budget: strp(string(domain.Budget5kTo10k))}))

	d := w.Draft()
	assert.Equal(t, "DACA", d.CaseType)
	assert.Equal(t, string(domain.Budget5kTo10k), d.Budget)
}

func TestWizard_CountryOnlyKeptOutsideUS(t *testing.T) {
	w := NewWizard()
	require.NoError(t, w.Update(domain.DraftPatch{State: strp("Outside USA"), Country: strp("Canada")}))
	assert.Equal(t, "Canada", w.Draft().Country)

	require.NoError(t, w.Update(domain.DraftPatch{State: strp("Texas")}))
	assert.Empty(t, w.Draft().Country)

	require.NoError(t, w.Update(domain.DraftPatch{Country: strp("Mexico")}))
	assert.Empty(t, w.Draft().Country, "country is ignored while a US state is selected")
}

// A client who answers "no" after typing attorney details must not carry the
// details into the lead.
func TestWizard_PreviousAttorneyNoClearsDetails(t *testing.T) {
	w := NewWizard()
	require.NoError(t, w.Update(domain.DraftPatch{
		PreviousAttorney:        boolp(true),
		PreviousAttorneyDetails: strp("Smith & Co, 2022"),
	}))
	assert.Equal(t, "Smith & Co, 2022", w.Draft().PreviousAttorneyDetails)

	require.NoError(t, w.Update(domain.DraftPatch{PreviousAttorney: boolp(false)}))
	assert.False(t, w.Draft().PreviousAttorney)
	assert.Empty(t, w.Draft().PreviousAttorneyDetails)
}

func TestWizard_CaseDetailsBound(t *testing.T) {
	w := NewWizard()

	exact := strings.Repeat("a", domain.MaxCaseDetailsLength)
	require.NoError(t, w.Update(domain.DraftPatch{CaseDetails: strp(exact)}))
	assert.Equal(t, exact, w.Draft().CaseDetails)

	err := w.Update(domain.DraftPatch{
		CaseDetails: strp(exact + "b"),
		ClientName:  strp("Jane"),
	})
	var verr *domain.ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, "max", verr.Fields["case_details"])
	assert.Equal(t, exact, w.Draft().CaseDetails, "previous narrative is retained")
	assert.Equal(t, "Jane", w.Draft().ClientName, "other fields still merge")
}

func TestWizard_CaseDetailsCountsCharacters(t *testing.T) {
	w := NewWizard()
	multibyte := strings.Repeat("é", domain.MaxCaseDetailsLength)
	assert.NoError(t, w.Update(domain.DraftPatch{CaseDetails: strp(multibyte)}))
}

func TestWizard_FinalizeRequiresLastStep(t *testing.T) {
	w := NewWizard()
	require.NoError(t, w.Update(completePatch()))

	_, err := w.Finalize()
	assert.ErrorIs(t, err, ErrNotAtLastStep)
}

func TestWizard_FinalizeNormalizesPhone(t *testing.T) {
	w := NewWizard()
	require.NoError(t, w.Update(completePatch()))
	walkToLast(w)

	d, err := w.Finalize()
	require.NoError(t, err)
	assert.Equal(t, "+16502530000", d.ClientPhone)
	assert.Equal(t, "(650) 253-0000", w.Draft().ClientPhone, "wizard draft is left untouched")
}

func TestWizard_FinalizeReportsContactErrors(t *testing.T) {
	w := NewWizard()
	walkToLast(w)
	require.NoError(t, w.Update(domain.DraftPatch{
		ClientEmail:      strp("not-an-email"),
		ClientPhone:      strp("12"),
		PreferredContact: strp("Carrier pigeon"),
	}))

	_, err := w.Finalize()
	var verr *domain.ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, "required", verr.Fields["client_name"])
	assert.Equal(t, "email", verr.Fields["client_email"])
	assert.Equal(t, "phone", verr.Fields["client_phone"])
	assert.Equal(t, "contact_method", verr.Fields["preferred_contact"])
	assert.Equal(t, "required", verr.Fields["best_time"])
}

func TestWizard_FinalizeRequiresConditionalFields(t *testing.T) {
	w := NewWizard()
	p := completePatch()
	p.State = strp("Outside USA")
	p.PreviousAttorney = boolp(true)
	require.NoError(t, w.Update(p))
	walkToLast(w)

	_, err := w.Finalize()
	var verr *domain.ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, "required", verr.Fields["country"])
	assert.Equal(t, "required", verr.Fields["previous_attorney_details"])
}

func TestWizard_AttorneyDetailsBound(t *testing.T) {
	w := NewWizard()
	require.NoError(t, w.Update(domain.DraftPatch{
		PreviousAttorney:        boolp(true),
		PreviousAttorneyDetails: strp("Smith & Co, 2022"),
	}))

	err := w.Update(domain.DraftPatch{
		PreviousAttorneyDetails: strp(strings.Repeat("x", 100000)),
		ClientName:              strp("Jane"),
	})
	var verr *domain.ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, "max", verr.Fields["previous_attorney_details"])
	assert.Equal(t, "Smith & Co, 2022", w.Draft().PreviousAttorneyDetails)
	assert.Equal(t, "Jane", w.Draft().ClientName)

	exact := strings.Repeat("é", domain.MaxAttorneyDetailsLength)
	assert.NoError(t, w.Update(domain.DraftPatch{PreviousAttorneyDetails: strp(exact)}))
	assert.Equal(t, exact, w.Draft().PreviousAttorneyDetails)
}

func TestWizard_ShortAnswersBound(t *testing.T) {
	w := NewWizard()
	require.NoError(t, w.Update(domain.DraftPatch{State: strp("Outside USA"), Country: strp("Canada")}))

	long := strings.Repeat("a", 300)
	err := w.Update(domain.DraftPatch{
		Country:    strp(long),
		CaseType:   strp(long),
		ClientName: strp(long),
	})
	var verr *domain.ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, "max", verr.Fields["country"])
	assert.Equal(t, "max", verr.Fields["case_type"])
	assert.Equal(t, "max", verr.Fields["client_name"])
	assert.Equal(t, "Canada", w.Draft().Country)
	assert.Empty(t, w.Draft().CaseType)
}

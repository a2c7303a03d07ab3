package intake

import (
	"strings"

	"intakeflow/internal/domain"
	"intakeflow/internal/pkg/phone"
	"intakeflow/internal/pkg/validator"
)

// Step is a 1-based questionnaire position.
type Step int

const (
	StepCaseType Step = iota + 1
	StepLocation
	StepImmigrationStatus
	StepTimeline
	StepBudget
	StepPreviousAttorney
	StepCaseDetails
	StepContactInfo
)

const (
	FirstStep = StepCaseType
	LastStep  = StepContactInfo
)

var stepNames = map[Step]string{
	StepCaseType:          "case_type",
	StepLocation:          "location",
	StepImmigrationStatus: "immigration_status",
	StepTimeline:          "timeline",
	StepBudget:            "budget",
	StepPreviousAttorney:  "previous_attorney",
	StepCaseDetails:       "case_details",
	StepContactInfo:       "contact_info",
}

func (s Step) String() string {
	return stepNames[s]
}

// Wizard walks a single client through the questionnaire. Navigation is
// lenient: steps can be skipped or revisited with incomplete answers, and
// contact details are only checked when the draft is finalized.
type Wizard struct {
	step  Step
	draft domain.IntakeDraft
}

func NewWizard() *Wizard {
	return &Wizard{step: FirstStep}
}

func (w *Wizard) Step() Step { return w.step }

func (w *Wizard) Draft() domain.IntakeDraft { return w.draft }

// Progress is the completed share of the questionnaire in percent.
func (w *Wizard) Progress() int {
	return int(w.step) * 100 / int(LastStep)
}

func (w *Wizard) IsComplete() bool {
	return w.step == LastStep
}

func (w *Wizard) Advance() {
	if w.step < LastStep {
		w.step++
	}
}

func (w *Wizard) Retreat() {
	if w.step > FirstStep {
		w.step--
	}
}

// Update merges the non-nil fields of p into the draft. Clearing rules are
// applied as part of the merge: country only survives while the state is
// "Outside USA", and attorney details only while PreviousAttorney is true.
// An answer longer than its field bound is refused and the previous value
// kept; the rest of the patch still applies and a *domain.ValidationError
// naming the refused fields is returned.
func (w *Wizard) Update(p domain.DraftPatch) error {
	d := &w.draft
	verr := &domain.ValidationError{}

	merge(verr, &d.CaseType, "case_type", p.CaseType)
	merge(verr, &d.ImmigrationStatus, "immigration_status", p.ImmigrationStatus)
	merge(verr, &d.Timeline, "timeline", p.Timeline)
	merge(verr, &d.Budget, "budget", p.Budget)
	merge(verr, &d.ClientName, "client_name", p.ClientName)
	merge(verr, &d.ClientEmail, "client_email", p.ClientEmail)
	merge(verr, &d.ClientPhone, "client_phone", p.ClientPhone)
	merge(verr, &d.PreferredContact, "preferred_contact", p.PreferredContact)
	merge(verr, &d.BestTime, "best_time", p.BestTime)

	merge(verr, &d.State, "state", p.State)
	if d.OutsideUS() {
		merge(verr, &d.Country, "country", p.Country)
	} else {
		d.Country = ""
	}

	if p.PreviousAttorney != nil {
		d.PreviousAttorney = *p.PreviousAttorney
	}
	merge(verr, &d.PreviousAttorneyDetails, "previous_attorney_details", p.PreviousAttorneyDetails)
	if !d.PreviousAttorney {
		d.PreviousAttorneyDetails = ""
	}

	merge(verr, &d.CaseDetails, "case_details", p.CaseDetails)

	if len(verr.Fields) > 0 {
		return verr
	}
	return nil
}

// Finalize checks submit-time requirements and returns the draft ready to
// persist, with the phone number normalized. The wizard's own draft is not
// modified, so a failed submission can be retried as is.
func (w *Wizard) Finalize() (domain.IntakeDraft, error) {
	if !w.IsComplete() {
		return domain.IntakeDraft{}, ErrNotAtLastStep
	}

	d := w.draft
	d.ClientName = strings.TrimSpace(d.ClientName)
	d.ClientEmail = strings.TrimSpace(d.ClientEmail)

	verr := &domain.ValidationError{}
	if d.ClientName == "" {
		verr.Add("client_name", "required")
	}
	switch {
	case d.ClientEmail == "":
		verr.Add("client_email", "required")
	case !validator.Var(d.ClientEmail, "email"):
		verr.Add("client_email", "email")
	}
	if strings.TrimSpace(d.ClientPhone) == "" {
		verr.Add("client_phone", "required")
	} else if normalized, err := phone.Normalize(d.ClientPhone, ""); err != nil {
		verr.Add("client_phone", "phone")
	} else {
		d.ClientPhone = normalized
	}
	switch {
	case d.PreferredContact == "":
		verr.Add("preferred_contact", "required")
	case !validator.Var(d.PreferredContact, "contact_method"):
		verr.Add("preferred_contact", "contact_method")
	}
	switch {
	case d.BestTime == "":
		verr.Add("best_time", "required")
	case !validator.Var(d.BestTime, "best_time"):
		verr.Add("best_time", "best_time")
	}
	if d.PreviousAttorney && strings.TrimSpace(d.PreviousAttorneyDetails) == "" {
		verr.Add("previous_attorney_details", "required")
	}
	if d.OutsideUS() && strings.TrimSpace(d.Country) == "" {
		verr.Add("country", "required")
	}
	if !domain.CaseDetailsFits(d.CaseDetails) {
		verr.Add("case_details", "max")
	}
	if !domain.FieldFits("previous_attorney_details", d.PreviousAttorneyDetails) {
		verr.Add("previous_attorney_details", "max")
	}

	if len(verr.Fields) > 0 {
		return domain.IntakeDraft{}, verr
	}
	return d, nil
}

// merge copies v into dst when set and within the field bound.
func merge(verr *domain.ValidationError, dst *string, field string, v *string) {
	if v == nil {
		return
	}
	if !domain.FieldFits(field, *v) {
		verr.Add(field, "max")
		return
	}
	*dst = *v
}

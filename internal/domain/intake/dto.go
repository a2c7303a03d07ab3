package intake

import "intakeflow/internal/domain"

// OptionsResponse lists every closed option set the questionnaire offers, in
// display order.
type OptionsResponse struct {
	CaseTypes           []domain.CaseType          `json:"case_types"`
	States              []domain.State             `json:"states"`
	ImmigrationStatuses []domain.ImmigrationStatus `json:"immigration_statuses"`
	Timelines           []domain.Timeline          `json:"timelines"`
	Budgets             []domain.Budget            `json:"budgets"`
	ContactMethods      []domain.ContactMethod     `json:"contact_methods"`
	BestTimes           []domain.BestTime          `json:"best_times"`
	MaxCaseDetails      int                        `json:"max_case_details"`
	Steps               []StepInfo                 `json:"steps"`
}

type StepInfo struct {
	Number Step   `json:"number"`
	Name   string `json:"name"`
}

func NewOptionsResponse() OptionsResponse {
	steps := make([]StepInfo, 0, int(LastStep))
	for s := FirstStep; s <= LastStep; s++ {
		steps = append(steps, StepInfo{Number: s, Name: s.String()})
	}
	return OptionsResponse{
		CaseTypes:           domain.CaseTypes,
		States:              domain.States,
		ImmigrationStatuses: domain.ImmigrationStatuses,
		Timelines:           domain.Timelines,
		Budgets:             domain.Budgets,
		ContactMethods:      domain.ContactMethods,
		BestTimes:           domain.BestTimes,
		MaxCaseDetails:      domain.MaxCaseDetailsLength,
		Steps:               steps,
	}
}

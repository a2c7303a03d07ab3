package domain

import "unicode/utf8"

// MaxCaseDetailsLength bounds the free-text case narrative, in characters.
const MaxCaseDetailsLength = 500

// MaxAttorneyDetailsLength bounds the previous attorney answer, in characters.
const MaxAttorneyDetailsLength = 500

// fieldLimits bounds every other text answer, in characters, to fit its
// column.
var fieldLimits = map[string]int{
	"case_type":                 64,
	"state":                     64,
	"country":                   128,
	"immigration_status":        64,
	"timeline":                  64,
	"budget":                    64,
	"previous_attorney_details": MaxAttorneyDetailsLength,
	"case_details":              MaxCaseDetailsLength,
	"client_name":               255,
	"client_email":              255,
	"client_phone":              32,
	"preferred_contact":         16,
	"best_time":                 32,
}

// IntakeDraft is the in-progress questionnaire record. It is owned by a single
// intake wizard and never persisted directly.
type IntakeDraft struct {
	CaseType                string `json:"case_type"`
	State                   string `json:"state"`
	Country                 string `json:"country"`
	ImmigrationStatus       string `json:"immigration_status"`
	Timeline                string `json:"timeline"`
	Budget                  string `json:"budget"`
	PreviousAttorney        bool   `json:"previous_attorney"`
	PreviousAttorneyDetails string `json:"previous_attorney_details"`
	CaseDetails             string `json:"case_details"`

	ClientName       string `json:"client_name"`
	ClientEmail      string `json:"client_email"`
	ClientPhone      string `json:"client_phone"`
	PreferredContact string `json:"preferred_contact"`
	BestTime         string `json:"best_time"`
}

// DraftPatch carries a partial draft update. Nil fields are left untouched.
type DraftPatch struct {
	CaseType                *string `json:"case_type,omitempty"`
	State                   *string `json:"state,omitempty"`
	Country                 *string `json:"country,omitempty"`
	ImmigrationStatus       *string `json:"immigration_status,omitempty"`
	Timeline                *string `json:"timeline,omitempty"`
	Budget                  *string `json:"budget,omitempty"`
	PreviousAttorney        *bool   `json:"previous_attorney,omitempty"`
	PreviousAttorneyDetails *string `json:"previous_attorney_details,omitempty"`
	CaseDetails             *string `json:"case_details,omitempty"`

	ClientName       *string `json:"client_name,omitempty"`
	ClientEmail      *string `json:"client_email,omitempty"`
	ClientPhone      *string `json:"client_phone,omitempty"`
	PreferredContact *string `json:"preferred_contact,omitempty"`
	BestTime         *string `json:"best_time,omitempty"`
}

// CaseDetailsFits reports whether s is within the narrative bound.
func CaseDetailsFits(s string) bool {
	return utf8.RuneCountInString(s) <= MaxCaseDetailsLength
}

// FieldFits reports whether s is within the bound for the draft field named
// by its JSON key. Unknown fields are unbounded.
func FieldFits(field, s string) bool {
	limit, ok := fieldLimits[field]
	return !ok || utf8.RuneCountInString(s) <= limit
}

// OutsideUS reports whether the client selected the out-of-country option.
func (d IntakeDraft) OutsideUS() bool {
	return State(d.State) == StateOutsideUSA
}

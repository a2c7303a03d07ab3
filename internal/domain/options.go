package domain

// Option sets offered by the intake questionnaire. Drafts and leads keep the
// raw submitted string; the Parse helpers map it onto a known variant or the
// Unrecognized marker so callers never treat an arbitrary string as valid.

const Unrecognized = "unrecognized"

func parseOption[T ~string](s string, known []T) T {
	for _, k := range known {
		if string(k) == s {
			return k
		}
	}
	return T(Unrecognized)
}

// CaseType is the kind of immigration matter.
type CaseType string

const (
	CaseH1BWorkVisa      CaseType = "H-1B Work Visa"
	CaseGreenCard        CaseType = "Green Card/Permanent Residence"
	CaseFamilyBased      CaseType = "Family-Based Immigration"
	CaseAsylumRefugee    CaseType = "Asylum/Refugee Status"
	CaseCitizenship      CaseType = "Citizenship/Naturalization"
	CaseDeportation      CaseType = "Deportation Defense"
	CaseDACA             CaseType = "DACA"
	CaseOther            CaseType = "Other"
	CaseTypeUnrecognized CaseType = Unrecognized
)

var CaseTypes = []CaseType{
	CaseH1BWorkVisa, CaseGreenCard, CaseFamilyBased, CaseAsylumRefugee,
	CaseCitizenship, CaseDeportation, CaseDACA, CaseOther,
}

func ParseCaseType(s string) CaseType { return parseOption(s, CaseTypes) }

// State is a US state or the out-of-country marker.
type State string

const (
	StateOutsideUSA   State = "Outside USA"
	StateUnrecognized State = Unrecognized
)

var States = []State{
	"Alabama", "Alaska", "Arizona", "Arkansas", "California", "Colorado", "Connecticut",
	"Delaware", "Florida", "Georgia", "Hawaii", "Idaho", "Illinois", "Indiana", "Iowa",
	"Kansas", "Kentucky", "Louisiana", "Maine", "Maryland", "Massachusetts", "Michigan",
	"Minnesota", "Mississippi", "Missouri", "Montana", "Nebraska", "Nevada", "New Hampshire",
	"New Jersey", "New Mexico", "New York", "North Carolina", "North Dakota", "Ohio",
	"Oklahoma", "Oregon", "Pennsylvania", "Rhode Island", "South Carolina", "South Dakota",
	"Tennessee", "Texas", "Utah", "Vermont", "Virginia", "Washington", "West Virginia",
	"Wisconsin", "Wyoming", StateOutsideUSA,
}

func ParseState(s string) State { return parseOption(s, States) }

// ImmigrationStatus is the client's current status.
type ImmigrationStatus string

const (
	StatusUSCitizen         ImmigrationStatus = "US Citizen"
	StatusGreenCardHolder   ImmigrationStatus = "Green Card Holder"
	StatusWorkVisa          ImmigrationStatus = "Valid Work Visa (H-1B, L-1, etc.)"
	StatusStudentVisa       ImmigrationStatus = "Valid Student Visa (F-1)"
	StatusExpiredVisa       ImmigrationStatus = "Expired Visa"
	StatusUndocumented      ImmigrationStatus = "Undocumented"
	StatusOutsideUS         ImmigrationStatus = "Outside the US"
	StatusPreferNotToSay    ImmigrationStatus = "Prefer not to say"
	ImmigrationUnrecognized ImmigrationStatus = Unrecognized
)

var ImmigrationStatuses = []ImmigrationStatus{
	StatusUSCitizen, StatusGreenCardHolder, StatusWorkVisa, StatusStudentVisa,
	StatusExpiredVisa, StatusUndocumented, StatusOutsideUS, StatusPreferNotToSay,
}

func ParseImmigrationStatus(s string) ImmigrationStatus {
	return parseOption(s, ImmigrationStatuses)
}

// Timeline is how soon the client needs the matter resolved.
type Timeline string

const (
	TimelineUrgent       Timeline = "Urgent (less than 30 days)"
	Timeline1To3Months   Timeline = "1-3 months"
	Timeline3To6Months   Timeline = "3-6 months"
	Timeline6To12Months  Timeline = "6-12 months"
	TimelineExploring    Timeline = "Just exploring options"
	TimelineUnrecognized Timeline = Unrecognized
)

var Timelines = []Timeline{
	TimelineUrgent, Timeline1To3Months, Timeline3To6Months, Timeline6To12Months, TimelineExploring,
}

func ParseTimeline(s string) Timeline { return parseOption(s, Timelines) }

// Budget is the client's stated budget band for legal fees.
type Budget string

const (
	BudgetUnder2k      Budget = "Under $2,000"
	Budget2kTo5k       Budget = "$2,000-$5,000"
	Budget5kTo10k      Budget = "$5,000-$10,000"
	Budget10kTo20k     Budget = "$10,000-$20,000"
	BudgetOver20k      Budget = "Over $20,000"
	BudgetNotSure      Budget = "Not sure yet"
	BudgetUnrecognized Budget = Unrecognized
)

var Budgets = []Budget{
	BudgetUnder2k, Budget2kTo5k, Budget5kTo10k, Budget10kTo20k, BudgetOver20k, BudgetNotSure,
}

func ParseBudget(s string) Budget { return parseOption(s, Budgets) }

var budgetLowerBounds = map[Budget]int{
	BudgetUnder2k:  0,
	Budget2kTo5k:   2000,
	Budget5kTo10k:  5000,
	Budget10kTo20k: 10000,
	BudgetOver20k:  20000,
}

// LowerBound returns the band's lower bound in dollars. "Not sure yet" and
// unrecognized budgets have no bound.
func (b Budget) LowerBound() (int, bool) {
	v, ok := budgetLowerBounds[b]
	return v, ok
}

// ContactMethod is how the client prefers to be reached.
type ContactMethod string

const (
	ContactPhone ContactMethod = "Phone"
	ContactEmail ContactMethod = "Email"
	ContactText  ContactMethod = "Text"
)

var ContactMethods = []ContactMethod{ContactPhone, ContactEmail, ContactText}

func ParseContactMethod(s string) ContactMethod { return parseOption(s, ContactMethods) }

// BestTime is the client's preferred call window.
type BestTime string

const (
	BestTimeMorning   BestTime = "Morning 9-12"
	BestTimeAfternoon BestTime = "Afternoon 12-3"
	BestTimeEvening   BestTime = "Evening 3-6"
	BestTimeAnytime   BestTime = "Anytime"
)

var BestTimes = []BestTime{BestTimeMorning, BestTimeAfternoon, BestTimeEvening, BestTimeAnytime}

func ParseBestTime(s string) BestTime { return parseOption(s, BestTimes) }

// IsKnown reports whether v parsed to a real option rather than the marker.
func IsKnown[T ~string](v T) bool {
	return string(v) != Unrecognized
}

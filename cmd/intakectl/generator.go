package main

import (
	"fmt"
	"time"

	"github.com/brianvoe/gofakeit/v6"

	"intakeflow/internal/domain"
	"intakeflow/internal/domain/dashboard"
)

var areaCodes = []int{212, 305, 312, 415, 512, 617, 650, 713}

// draftGenerator produces realistic completed drafts for demo data.
type draftGenerator struct {
	f *gofakeit.Faker
}

func newDraftGenerator(seed int64) *draftGenerator {
	return &draftGenerator{f: gofakeit.New(seed)}
}

func pick[T ~string](f *gofakeit.Faker, options []T) string {
	return string(options[f.Number(0, len(options)-1)])
}

func (g *draftGenerator) Draft() domain.IntakeDraft {
	f := g.f
	d := domain.IntakeDraft{
		CaseType:          pick(f, domain.CaseTypes),
		State:             pick(f, domain.States),
		ImmigrationStatus: pick(f, domain.ImmigrationStatuses),
		Timeline:          pick(f, domain.Timelines),
		Budget:            pick(f, domain.Budgets),
		PreviousAttorney:  f.Number(0, 3) == 0,
		CaseDetails:       f.Sentence(f.Number(8, 30)),
		ClientName:        f.Name(),
		ClientEmail:       f.Email(),
		ClientPhone:       fmt.Sprintf("+1%d%07d", areaCodes[f.Number(0, len(areaCodes)-1)], f.Number(2000000, 9999999)),
		PreferredContact:  pick(f, domain.ContactMethods),
		BestTime:          pick(f, domain.BestTimes),
	}
	if d.OutsideUS() {
		d.Country = f.Country()
	}
	if d.PreviousAttorney {
		d.PreviousAttorneyDetails = fmt.Sprintf("%s, %d", f.Company(), f.Number(2015, 2025))
	}
	if !domain.CaseDetailsFits(d.CaseDetails) {
		d.CaseDetails = string([]rune(d.CaseDetails)[:domain.MaxCaseDetailsLength])
	}
	return d
}

// CreatedAt returns a moment between the start of now's month and now.
func (g *draftGenerator) CreatedAt(now time.Time, loc *time.Location) time.Time {
	start := dashboard.MonthStart(now, loc)
	if !now.After(start) {
		return now
	}
	return g.f.DateRange(start, now)
}

package dashboard

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"intakeflow/internal/domain"
)

// RollingStats counts a firm's leads for one calendar month.
// Total always equals Hot + Qualified + Unqualified.
type RollingStats struct {
	Total       int    `json:"total"`
	Hot         int    `json:"hot"`
	Qualified   int    `json:"qualified"`
	Unqualified int    `json:"unqualified"`
	Month       string `json:"month"`
}

// Aggregator maintains RollingStats for the calendar month it was seeded in.
// It never rolls over on its own; a new month needs a new Seed.
type Aggregator struct {
	mu    sync.Mutex
	loc   *time.Location
	start time.Time
	end   time.Time
	seen  map[uuid.UUID]struct{}
	stats RollingStats
}

// NewAggregator returns an unseeded aggregator whose month boundaries are
// taken in loc (UTC when nil). Observe ignores everything until Seed.
func NewAggregator(loc *time.Location) *Aggregator {
	if loc == nil {
		loc = time.UTC
	}
	return &Aggregator{loc: loc, seen: make(map[uuid.UUID]struct{})}
}

// MonthStart returns midnight on the first day of now's month in loc.
func MonthStart(now time.Time, loc *time.Location) time.Time {
	if loc == nil {
		loc = time.UTC
	}
	t := now.In(loc)
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, loc)
}

// Seed resets the window to now's month and counts leads from it.
func (a *Aggregator) Seed(leads []domain.Lead, now time.Time) {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.start = MonthStart(now, a.loc)
	a.end = a.start.AddDate(0, 1, 0)
	a.seen = make(map[uuid.UUID]struct{}, len(leads))
	a.stats = RollingStats{Month: a.start.Format("2006-01")}
	for i := range leads {
		a.observe(&leads[i])
	}
}

// Observe counts l once. It reports false when l falls outside the window
// or its id was already counted.
func (a *Aggregator) Observe(l domain.Lead) bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.observe(&l)
}

func (a *Aggregator) observe(l *domain.Lead) bool {
	if a.start.IsZero() || l.CreatedAt.Before(a.start) || !l.CreatedAt.Before(a.end) {
		return false
	}
	if _, dup := a.seen[l.ID]; dup {
		return false
	}
	a.seen[l.ID] = struct{}{}

	a.stats.Total++
	switch tier, _ := domain.ParseTier(string(l.Score)); tier {
	case domain.TierHot:
		a.stats.Hot++
	case domain.TierQualified:
		a.stats.Qualified++
	default:
		a.stats.Unqualified++
	}
	return true
}

func (a *Aggregator) Snapshot() RollingStats {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.stats
}

// Window returns the half-open [start, end) month being counted.
func (a *Aggregator) Window() (time.Time, time.Time) {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.start, a.end
}

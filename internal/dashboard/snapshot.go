package dashboard

import (
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/Murugesh1804/revivewell-final/internal/domain/checkin"
	"github.com/Murugesh1804/revivewell-final/internal/domain/meeting"
	"github.com/Murugesh1804/revivewell-final/internal/triage"
)

// Snapshot is the immutable, versioned view-model a dashboard consumer
// reads. It is replaced wholesale on every commit, never mutated in place,
// so no frame ever mixes values from a half-finished refresh.
type Snapshot struct {
	Version uint64
	TakenAt time.Time

	Stats *Stats
	// CriticalCheckins holds every check-in carrying at least one risk
	// flag, most recent first.
	CriticalCheckins []*checkin.CheckIn
	// TodaysAppointments are the appointments on the local calendar day of
	// TakenAt.
	TodaysAppointments []*Appointment
	// Groups is the per-patient check-in timeline index.
	Groups map[uuid.UUID]*triage.PatientGroup
	Meetings []*meeting.Meeting
	// InsightText is empty until the insight slice has been explicitly
	// refreshed.
	InsightText string
	// Degraded marks slices whose last refresh failed; their values above
	// are last-good, possibly stale.
	Degraded map[SliceKey]bool
}

// buildLocked composes a snapshot from committed slice values. The store
// lock is held; only committed values are read, so the result is
// internally consistent by construction.
func (s *Store) buildLocked() *Snapshot {
	now := s.clock()

	var criticals []*checkin.CheckIn
	for _, c := range s.checkins {
		if triage.Classify(c).Critical {
			criticals = append(criticals, c)
		}
	}
	sort.SliceStable(criticals, func(i, j int) bool {
		return criticals[i].CreatedAt.After(criticals[j].CreatedAt)
	})

	today := triage.Filter(s.appointments, now, triage.Today, func(a *Appointment) time.Time {
		return a.Date
	})

	degraded := make(map[SliceKey]bool)
	for key, st := range s.statuses {
		if st.state == StateFailed {
			degraded[key] = true
		}
	}

	return &Snapshot{
		Version:            s.version,
		TakenAt:            now,
		Stats:              s.stats,
		CriticalCheckins:   criticals,
		TodaysAppointments: today,
		Groups:             triage.GroupByPatient(s.checkins),
		Meetings:           s.meetings,
		InsightText:        s.insight,
		Degraded:           degraded,
	}
}

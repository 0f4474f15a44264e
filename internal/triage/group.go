package triage

import (
	"sort"

	"github.com/google/uuid"

	"github.com/Murugesh1804/revivewell-final/internal/domain/checkin"
)

// PatientGroup is one patient's check-in timeline, most recent first.
// Groups are keyed by patient ID; the display name is carried as metadata
// only, so two patients sharing a name never collapse into one timeline.
type PatientGroup struct {
	PatientID   uuid.UUID          `json:"patient_id"`
	PatientName string             `json:"patient_name"`
	Checkins    []*checkin.CheckIn `json:"checkins"`
}

// GroupByPatient partitions check-ins by patient identity. Records without a
// patient ID are excluded; that is the documented drop policy, not a bug.
// Within each group check-ins are ordered most-recent-first, and the group's
// display name is taken from the newest record that carries one.
func GroupByPatient(checkins []*checkin.CheckIn) map[uuid.UUID]*PatientGroup {
	groups := make(map[uuid.UUID]*PatientGroup)
	for _, c := range checkins {
		if c == nil || c.UserID == uuid.Nil {
			continue
		}
		g, ok := groups[c.UserID]
		if !ok {
			g = &PatientGroup{PatientID: c.UserID}
			groups[c.UserID] = g
		}
		g.Checkins = append(g.Checkins, c)
	}
	for _, g := range groups {
		sort.SliceStable(g.Checkins, func(i, j int) bool {
			return g.Checkins[i].CreatedAt.After(g.Checkins[j].CreatedAt)
		})
		for _, c := range g.Checkins {
			if c.PatientName != "" {
				g.PatientName = c.PatientName
				break
			}
		}
	}
	return groups
}

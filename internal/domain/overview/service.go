// Package overview computes the role-scoped dashboard stats: a snapshot for
// patients (progress, next appointment, recent check-ins) and a roster for
// clinicians (counts plus per-patient risk derived from recent check-ins).
package overview

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/Murugesh1804/revivewell-final/internal/domain/appointment"
	"github.com/Murugesh1804/revivewell-final/internal/domain/checkin"
	"github.com/Murugesh1804/revivewell-final/internal/domain/identity"
	"github.com/Murugesh1804/revivewell-final/internal/triage"
)

const (
	recentCheckinLimit = 7
	rosterLimit        = 10
	riskWindowDays     = 7
)

// PatientStats is the patient dashboard payload.
type PatientStats struct {
	Progress        int                      `json:"progress"`
	NextAppointment *appointment.Appointment `json:"nextAppointment"`
	RecentCheckins  []*checkin.CheckIn       `json:"recentCheckins"`
}

// RosterEntry is one patient row on the clinician dashboard.
type RosterEntry struct {
	ID              uuid.UUID  `json:"id"`
	Name            string     `json:"name"`
	LastCheckin     *time.Time `json:"last_checkin"`
	RiskLevel       string     `json:"risk_level"`
	RiskColor       string     `json:"risk_color"`
	NextAppointment *time.Time `json:"next_appointment"`
}

// ClinicianStats is the clinician dashboard payload. CriticalCases counts
// patients whose recent check-ins carry at least one risk flag.
type ClinicianStats struct {
	TotalPatients     int            `json:"totalPatients"`
	CriticalCases     int            `json:"criticalCases"`
	TodayAppointments int            `json:"todayAppointments"`
	Progress          int            `json:"progress"`
	Patients          []*RosterEntry `json:"patients"`
}

// Clock lets tests pin "now".
type Clock func() time.Time

type Service struct {
	identity     *identity.Service
	checkins     *checkin.Service
	appointments *appointment.Service
	now          Clock
}

func NewService(ids *identity.Service, cks *checkin.Service, appts *appointment.Service, now Clock) *Service {
	if now == nil {
		now = time.Now
	}
	return &Service{identity: ids, checkins: cks, appointments: appts, now: now}
}

// ForPatient builds the patient dashboard. Progress is the share of days in
// the risk window with a flag-free check-in.
func (s *Service) ForPatient(ctx context.Context, patientID uuid.UUID) (*PatientStats, error) {
	now := s.now()

	next, err := s.appointments.NextForPatient(ctx, patientID, now)
	if err != nil {
		return nil, err
	}

	recent, _, err := s.checkins.ListForPatient(ctx, patientID)
	if err != nil {
		return nil, err
	}
	if len(recent) > recentCheckinLimit {
		recent = recent[:recentCheckinLimit]
	}
	if recent == nil {
		recent = []*checkin.CheckIn{}
	}

	return &PatientStats{
		Progress:        progressScore(recent),
		NextAppointment: next,
		RecentCheckins:  recent,
	}, nil
}

// progressScore rates recent check-ins 0-100: full credit for a flag-free
// day, half credit for a flagged one, zero for missing days.
func progressScore(recent []*checkin.CheckIn) int {
	if len(recent) == 0 {
		return 0
	}
	score := 0
	for _, c := range recent {
		if triage.Classify(c).Critical {
			score += 50
		} else {
			score += 100
		}
	}
	return score / recentCheckinLimit
}

// ForClinician builds the roster view. Risk levels and the critical-case
// count are computed from the last week of check-ins, never hardcoded.
func (s *Service) ForClinician(ctx context.Context, providerID uuid.UUID) (*ClinicianStats, error) {
	now := s.now()

	total, err := s.identity.CountPatients(ctx)
	if err != nil {
		return nil, err
	}

	todayCount, err := s.appointments.CountToday(ctx, providerID, now)
	if err != nil {
		return nil, err
	}

	cutoff := now.AddDate(0, 0, -riskWindowDays)
	windowed, err := s.checkins.ListSince(ctx, cutoff)
	if err != nil {
		return nil, err
	}

	// Assessments per patient over the window.
	assessments := make(map[uuid.UUID][]triage.Assessment)
	lastSeen := make(map[uuid.UUID]time.Time)
	for _, c := range windowed {
		assessments[c.UserID] = append(assessments[c.UserID], triage.Classify(c))
		if c.CreatedAt.After(lastSeen[c.UserID]) {
			lastSeen[c.UserID] = c.CreatedAt
		}
	}

	critical := 0
	for _, as := range assessments {
		for _, a := range as {
			if a.Critical {
				critical++
				break
			}
		}
	}

	patients, err := s.identity.ListPatients(ctx)
	if err != nil {
		return nil, err
	}

	roster := make([]*RosterEntry, 0, rosterLimit)
	progressTotal := 0
	for _, p := range patients {
		if len(roster) == rosterLimit {
			break
		}
		level := triage.BucketRiskLevel(assessments[p.ID])

		entry := &RosterEntry{
			ID:        p.ID,
			Name:      p.Name,
			RiskLevel: string(level),
			RiskColor: level.Color(),
		}
		if seen, ok := lastSeen[p.ID]; ok {
			t := seen
			entry.LastCheckin = &t
		}
		if next, err := s.appointments.NextForPatient(ctx, p.ID, now); err == nil && next != nil {
			d := next.Date
			entry.NextAppointment = &d
		}
		roster = append(roster, entry)

		switch level {
		case triage.RiskLow:
			progressTotal += 100
		case triage.RiskMedium:
			progressTotal += 50
		}
	}

	progress := 0
	if len(roster) > 0 {
		progress = progressTotal / len(roster)
	}

	return &ClinicianStats{
		TotalPatients:     total,
		CriticalCases:     critical,
		TodayAppointments: todayCount,
		Progress:          progress,
		Patients:          roster,
	}, nil
}

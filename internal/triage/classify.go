// Package triage holds the deterministic clinical-risk logic shared by the
// dashboard aggregation engine and the stats endpoint: per-check-in risk
// classification, calendar time windows, and the patient grouping index.
// Everything in this package is pure; suspension and I/O live elsewhere.
package triage

import (
	"github.com/Murugesh1804/revivewell-final/internal/domain/checkin"
)

// RiskFlag is a single risk signal derived from a check-in. Flags are never
// persisted; they are recomputed from the record every time.
type RiskFlag string

const (
	FlagEmergencyContact RiskFlag = "emergency-contact-needed"
	FlagCounselor        RiskFlag = "counselor-needed"
	FlagLowMood          RiskFlag = "low-mood"
	FlagHighCravings     RiskFlag = "high-cravings"
)

// Score thresholds. Any single severe signal escalates the patient to the
// critical list: over-flagging is preferred to a missed urgent case.
const (
	lowMoodBelow      = 3
	highCravingsAbove = 8
)

// Assessment is the result of classifying one check-in.
type Assessment struct {
	Flags    []RiskFlag `json:"flags"`
	Critical bool       `json:"critical"`
}

// Has reports whether the assessment carries the given flag.
func (a Assessment) Has(flag RiskFlag) bool {
	for _, f := range a.Flags {
		if f == flag {
			return true
		}
	}
	return false
}

// Classify evaluates the four risk rules independently and returns every flag
// that applies. A check-in is critical iff at least one flag is set.
func Classify(c *checkin.CheckIn) Assessment {
	var flags []RiskFlag
	if c.NeedEmergencyContact {
		flags = append(flags, FlagEmergencyContact)
	}
	if c.NeedCounselor {
		flags = append(flags, FlagCounselor)
	}
	if c.Mood < lowMoodBelow {
		flags = append(flags, FlagLowMood)
	}
	if c.Cravings > highCravingsAbove {
		flags = append(flags, FlagHighCravings)
	}
	return Assessment{Flags: flags, Critical: len(flags) > 0}
}

// RiskLevel buckets a patient for the roster view. The engine never overrides
// a collaborator-supplied level; BucketRiskLevel exists for the record owner.
type RiskLevel string

const (
	RiskLow    RiskLevel = "Low"
	RiskMedium RiskLevel = "Medium"
	RiskHigh   RiskLevel = "High"
)

// Color returns the display color for a risk level.
func (r RiskLevel) Color() string {
	switch r {
	case RiskHigh:
		return "red"
	case RiskMedium:
		return "orange"
	default:
		return "green"
	}
}

// BucketRiskLevel derives a roster risk level from a patient's recent
// assessments: High when an emergency-contact flag appears or three or more
// flags accumulate, Medium when any flag appears, Low otherwise.
func BucketRiskLevel(assessments []Assessment) RiskLevel {
	total := 0
	for _, a := range assessments {
		if a.Has(FlagEmergencyContact) {
			return RiskHigh
		}
		total += len(a.Flags)
	}
	switch {
	case total >= 3:
		return RiskHigh
	case total > 0:
		return RiskMedium
	default:
		return RiskLow
	}
}

package dashboard

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/Murugesh1804/revivewell-final/internal/domain/checkin"
	"github.com/Murugesh1804/revivewell-final/internal/domain/meeting"
)

// Normalizer converts raw collaborator payloads into canonical typed
// records. Field names may arrive snake_case or camelCase, numbers as
// strings, booleans as 0/1. A record that cannot be normalized is dropped
// and logged; a drop never propagates as an error.
type Normalizer struct {
	logger zerolog.Logger
}

func NewNormalizer(logger zerolog.Logger) *Normalizer {
	return &Normalizer{logger: logger}
}

type rawObject map[string]json.RawMessage

// pick returns the first present key, accommodating the payload dialects.
func (o rawObject) pick(keys ...string) (json.RawMessage, bool) {
	for _, k := range keys {
		if v, ok := o[k]; ok && string(v) != "null" {
			return v, true
		}
	}
	return nil, false
}

func (o rawObject) str(keys ...string) string {
	v, ok := o.pick(keys...)
	if !ok {
		return ""
	}
	var s string
	if err := json.Unmarshal(v, &s); err != nil {
		return ""
	}
	return s
}

func (o rawObject) flexInt(keys ...string) (int, bool) {
	v, ok := o.pick(keys...)
	if !ok {
		return 0, false
	}
	var f checkin.FlexInt
	if err := json.Unmarshal(v, &f); err != nil {
		return 0, false
	}
	return f.Int(), true
}

func (o rawObject) flexBool(keys ...string) bool {
	v, ok := o.pick(keys...)
	if !ok {
		return false
	}
	var f checkin.FlexBool
	if err := json.Unmarshal(v, &f); err != nil {
		return false
	}
	return f.Bool()
}

func (o rawObject) flexTime(keys ...string) time.Time {
	v, ok := o.pick(keys...)
	if !ok {
		return time.Time{}
	}
	var f checkin.FlexTime
	if err := json.Unmarshal(v, &f); err != nil {
		return time.Time{}
	}
	return f.Time()
}

func (o rawObject) id(keys ...string) uuid.UUID {
	s := o.str(keys...)
	if s == "" {
		return uuid.Nil
	}
	id, err := uuid.Parse(s)
	if err != nil {
		return uuid.Nil
	}
	return id
}

// CheckIn normalizes one raw check-in. Required: record id, patient id,
// and both scores in [1,10].
func (n *Normalizer) CheckIn(raw json.RawMessage) (*checkin.CheckIn, error) {
	var o rawObject
	if err := json.Unmarshal(raw, &o); err != nil {
		return nil, fmt.Errorf("not an object: %w", err)
	}

	id := o.id("id")
	if id == uuid.Nil {
		return nil, fmt.Errorf("missing record id")
	}
	patientID := o.id("user_id", "patientId", "patient_id")
	if patientID == uuid.Nil {
		return nil, fmt.Errorf("missing patient id")
	}

	mood, moodOK := o.flexInt("mood")
	cravings, cravingsOK := o.flexInt("cravings")
	if !moodOK || !cravingsOK {
		return nil, fmt.Errorf("missing scores")
	}

	c := &checkin.CheckIn{
		ID:                   id,
		UserID:               patientID,
		PatientName:          o.str("patient_name", "patientName"),
		Mood:                 mood,
		Cravings:             cravings,
		NeedCounselor:        o.flexBool("need_counselor", "needCounselor"),
		NeedSupportGroup:     o.flexBool("need_support_group", "needSupportGroup"),
		NeedEmergencyContact: o.flexBool("need_emergency_contact", "needEmergencyContact"),
		CreatedAt:            o.flexTime("created_at", "createdAt"),
	}
	if s := o.str("challenges"); s != "" {
		c.Challenges = &s
	}
	if s := o.str("goals"); s != "" {
		c.Goals = &s
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// CheckIns normalizes a batch, dropping rejects.
func (n *Normalizer) CheckIns(raw []json.RawMessage) []*checkin.CheckIn {
	out := make([]*checkin.CheckIn, 0, len(raw))
	for _, r := range raw {
		c, err := n.CheckIn(r)
		if err != nil {
			n.logger.Warn().Err(err).Msg("dropping malformed check-in record")
			continue
		}
		out = append(out, c)
	}
	return out
}

// Appointment is the engine's view of a booking as the collaborator
// returns it: the calendar day as a timestamp, the clock time and type as
// display strings.
type Appointment struct {
	ID          uuid.UUID `json:"id"`
	PatientID   uuid.UUID `json:"patient_id"`
	PatientName string    `json:"patient_name,omitempty"`
	Date        time.Time `json:"date"`
	Time        string    `json:"time"`
	Type        string    `json:"type"`
	Status      string    `json:"status"`
}

// Appointment normalizes one raw appointment. Required: id, patient id,
// and a parseable date.
func (n *Normalizer) Appointment(raw json.RawMessage) (*Appointment, error) {
	var o rawObject
	if err := json.Unmarshal(raw, &o); err != nil {
		return nil, fmt.Errorf("not an object: %w", err)
	}

	id := o.id("id")
	if id == uuid.Nil {
		return nil, fmt.Errorf("missing record id")
	}
	patientID := o.id("patient_id", "patientId")
	if patientID == uuid.Nil {
		return nil, fmt.Errorf("missing patient id")
	}
	date := o.flexTime("date")
	if date.IsZero() {
		return nil, fmt.Errorf("missing date")
	}

	status := o.str("status")
	if status == "" {
		status = "scheduled"
	}

	return &Appointment{
		ID:          id,
		PatientID:   patientID,
		PatientName: o.str("patient_name", "patientName"),
		Date:        date,
		Time:        o.str("time"),
		Type:        o.str("type"),
		Status:      status,
	}, nil
}

// Appointments normalizes a batch, dropping rejects.
func (n *Normalizer) Appointments(raw []json.RawMessage) []*Appointment {
	out := make([]*Appointment, 0, len(raw))
	for _, r := range raw {
		a, err := n.Appointment(r)
		if err != nil {
			n.logger.Warn().Err(err).Msg("dropping malformed appointment record")
			continue
		}
		out = append(out, a)
	}
	return out
}

// Patient is a roster row as the stats collaborator owns it. RiskLevel is
// collaborator-supplied; the engine displays it and never recomputes it.
type Patient struct {
	ID                uuid.UUID  `json:"id"`
	Name              string     `json:"name"`
	RiskLevel         string     `json:"risk_level"`
	LastCheckinAt     *time.Time `json:"last_checkin,omitempty"`
	NextAppointmentAt *time.Time `json:"next_appointment,omitempty"`
}

// Stats is the clinician stats payload after normalization.
type Stats struct {
	TotalPatients     int        `json:"totalPatients"`
	CriticalCases     int        `json:"criticalCases"`
	TodayAppointments int        `json:"todayAppointments"`
	Progress          int        `json:"progress"`
	Patients          []*Patient `json:"patients"`
}

// Stats normalizes the stats payload. Roster rows without an id are
// dropped; counts default to zero when absent.
func (n *Normalizer) Stats(raw json.RawMessage) (*Stats, error) {
	var o rawObject
	if err := json.Unmarshal(raw, &o); err != nil {
		return nil, fmt.Errorf("not an object: %w", err)
	}

	s := &Stats{Patients: []*Patient{}}
	s.TotalPatients, _ = o.flexInt("totalPatients", "total_patients")
	s.CriticalCases, _ = o.flexInt("criticalCases", "critical_cases")
	s.TodayAppointments, _ = o.flexInt("todayAppointments", "today_appointments")
	s.Progress, _ = o.flexInt("progress")

	rows, ok := o.pick("patients")
	if !ok {
		return s, nil
	}
	var rawRows []json.RawMessage
	if err := json.Unmarshal(rows, &rawRows); err != nil {
		return nil, fmt.Errorf("patients is not an array: %w", err)
	}
	for _, r := range rawRows {
		var ro rawObject
		if err := json.Unmarshal(r, &ro); err != nil {
			n.logger.Warn().Err(err).Msg("dropping malformed roster row")
			continue
		}
		id := ro.id("id")
		if id == uuid.Nil {
			n.logger.Warn().Msg("dropping roster row without id")
			continue
		}
		p := &Patient{
			ID:        id,
			Name:      ro.str("name"),
			RiskLevel: ro.str("risk_level", "riskLevel"),
		}
		if p.RiskLevel == "" {
			p.RiskLevel = "Low"
		}
		if t := ro.flexTime("last_checkin", "lastCheckinAt"); !t.IsZero() {
			p.LastCheckinAt = &t
		}
		if t := ro.flexTime("next_appointment", "nextAppointmentAt"); !t.IsZero() {
			p.NextAppointmentAt = &t
		}
		s.Patients = append(s.Patients, p)
	}
	return s, nil
}

// Meetings normalizes the support-group directory.
func (n *Normalizer) Meetings(raw []json.RawMessage) []*meeting.Meeting {
	out := make([]*meeting.Meeting, 0, len(raw))
	for _, r := range raw {
		var o rawObject
		if err := json.Unmarshal(r, &o); err != nil {
			n.logger.Warn().Err(err).Msg("dropping malformed meeting record")
			continue
		}
		id := o.id("id")
		if id == uuid.Nil {
			n.logger.Warn().Msg("dropping meeting record without id")
			continue
		}
		out = append(out, &meeting.Meeting{
			ID:       id,
			Location: o.str("location"),
			Time:     o.str("time"),
			Day:      o.str("day"),
		})
	}
	return out
}

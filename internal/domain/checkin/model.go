package checkin

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

// CheckIn maps to the daily_checkin table. A record is a patient-submitted
// daily self-report of mood, cravings, and support needs. Mood and cravings
// are always in [1,10] once a record has passed validation.
type CheckIn struct {
	ID                   uuid.UUID `db:"id" json:"id"`
	UserID               uuid.UUID `db:"user_id" json:"user_id"`
	PatientName          string    `db:"patient_name" json:"patient_name,omitempty"`
	Mood                 int       `db:"mood" json:"mood"`
	Cravings             int       `db:"cravings" json:"cravings"`
	Challenges           *string   `db:"challenges" json:"challenges,omitempty"`
	Goals                *string   `db:"goals" json:"goals,omitempty"`
	NeedCounselor        bool      `db:"need_counselor" json:"need_counselor"`
	NeedSupportGroup     bool      `db:"need_support_group" json:"need_support_group"`
	NeedEmergencyContact bool      `db:"need_emergency_contact" json:"need_emergency_contact"`
	CreatedAt            time.Time `db:"created_at" json:"created_at"`
}

// Validate checks the score invariants.
func (c *CheckIn) Validate() error {
	if c.Mood < 1 || c.Mood > 10 {
		return fmt.Errorf("mood must be between 1 and 10, got %d", c.Mood)
	}
	if c.Cravings < 1 || c.Cravings > 10 {
		return fmt.Errorf("cravings must be between 1 and 10, got %d", c.Cravings)
	}
	return nil
}

// ---------------------------------------------------------------------------
// Lenient wire types
//
// Upstream payloads are not trustworthy about types: numeric fields arrive as
// strings, booleans as 0/1, timestamps in several layouts. These types accept
// all observed encodings and marshal back to the canonical one.
// ---------------------------------------------------------------------------

// FlexInt is an int that also unmarshals from a quoted number or a float.
type FlexInt int

func (f *FlexInt) UnmarshalJSON(data []byte) error {
	s := strings.TrimSpace(string(bytes.Trim(data, `"`)))
	if s == "" || s == "null" {
		*f = 0
		return nil
	}
	if n, err := strconv.Atoi(s); err == nil {
		*f = FlexInt(n)
		return nil
	}
	if fl, err := strconv.ParseFloat(s, 64); err == nil {
		*f = FlexInt(int(fl))
		return nil
	}
	return fmt.Errorf("cannot parse %q as integer", s)
}

// Int returns the plain int value.
func (f FlexInt) Int() int { return int(f) }

// FlexBool is a bool that also unmarshals from 0/1 and their quoted forms.
type FlexBool bool

func (f *FlexBool) UnmarshalJSON(data []byte) error {
	s := strings.ToLower(strings.TrimSpace(string(bytes.Trim(data, `"`))))
	switch s {
	case "", "null", "0", "false":
		*f = false
	case "1", "true":
		*f = true
	default:
		return fmt.Errorf("cannot parse %q as boolean", s)
	}
	return nil
}

// Bool returns the plain bool value.
func (f FlexBool) Bool() bool { return bool(f) }

// flexTimeLayouts are tried in order when parsing a timestamp. The SQLite
// backend this service replaced emitted bare "2006-01-02 15:04:05" strings.
var flexTimeLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"2006-01-02",
}

// FlexTime is a time.Time that unmarshals from several common layouts.
type FlexTime time.Time

func (f *FlexTime) UnmarshalJSON(data []byte) error {
	s := strings.TrimSpace(string(bytes.Trim(data, `"`)))
	if s == "" || s == "null" {
		*f = FlexTime(time.Time{})
		return nil
	}
	for _, layout := range flexTimeLayouts {
		if t, err := time.ParseInLocation(layout, s, time.Local); err == nil {
			*f = FlexTime(t)
			return nil
		}
	}
	return fmt.Errorf("cannot parse %q as timestamp", s)
}

func (f FlexTime) MarshalJSON() ([]byte, error) {
	return json.Marshal(time.Time(f).Format(time.RFC3339))
}

// Time returns the plain time.Time value.
func (f FlexTime) Time() time.Time { return time.Time(f) }

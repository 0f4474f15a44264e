// Package meeting serves the community support-group directory shown on
// the patient dashboard.
package meeting

import "github.com/google/uuid"

// Meeting is one recurring support-group session. Time and Day stay
// display strings ("7:00 PM", "Tuesday") exactly as listed.
type Meeting struct {
	ID       uuid.UUID `db:"id" json:"id"`
	Location string    `db:"location" json:"location"`
	Time     string    `db:"time" json:"time"`
	Day      string    `db:"day" json:"day"`
}

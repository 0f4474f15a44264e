package checkin

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type repoPG struct{ pool *pgxpool.Pool }

func NewRepoPG(pool *pgxpool.Pool) Repository {
	return &repoPG{pool: pool}
}

const checkinCols = `c.id, c.user_id, c.mood, c.cravings, c.challenges, c.goals,
	c.need_counselor, c.need_support_group, c.need_emergency_contact, c.created_at`

func scanCheckIn(row pgx.Row, withName bool) (*CheckIn, error) {
	var c CheckIn
	dest := []interface{}{
		&c.ID, &c.UserID, &c.Mood, &c.Cravings, &c.Challenges, &c.Goals,
		&c.NeedCounselor, &c.NeedSupportGroup, &c.NeedEmergencyContact, &c.CreatedAt,
	}
	if withName {
		dest = append(dest, &c.PatientName)
	}
	if err := row.Scan(dest...); err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *repoPG) Create(ctx context.Context, c *CheckIn) error {
	c.ID = uuid.New()
	_, err := r.pool.Exec(ctx, `
		INSERT INTO daily_checkin (id, user_id, mood, cravings, challenges, goals,
			need_counselor, need_support_group, need_emergency_contact)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)`,
		c.ID, c.UserID, c.Mood, c.Cravings, c.Challenges, c.Goals,
		c.NeedCounselor, c.NeedSupportGroup, c.NeedEmergencyContact)
	return err
}

func (r *repoPG) ListByUser(ctx context.Context, userID uuid.UUID, limit int) ([]*CheckIn, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+checkinCols+` FROM daily_checkin c
		WHERE c.user_id = $1
		ORDER BY c.created_at DESC
		LIMIT $2`, userID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collect(rows, false)
}

func (r *repoPG) ListAcrossPatients(ctx context.Context, limit int) ([]*CheckIn, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+checkinCols+`, u.name AS patient_name
		FROM daily_checkin c
		JOIN users u ON c.user_id = u.id
		WHERE u.user_type = 'patient'
		ORDER BY c.created_at DESC
		LIMIT $1`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collect(rows, true)
}

func (r *repoPG) ListSince(ctx context.Context, cutoff time.Time) ([]*CheckIn, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+checkinCols+`, u.name AS patient_name
		FROM daily_checkin c
		JOIN users u ON c.user_id = u.id
		WHERE u.user_type = 'patient' AND c.created_at >= $1
		ORDER BY c.created_at DESC`, cutoff)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collect(rows, true)
}

func collect(rows pgx.Rows, withName bool) ([]*CheckIn, error) {
	var items []*CheckIn
	for rows.Next() {
		c, err := scanCheckIn(rows, withName)
		if err != nil {
			return nil, err
		}
		items = append(items, c)
	}
	return items, rows.Err()
}

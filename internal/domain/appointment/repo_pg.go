package appointment

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type repoPG struct{ pool *pgxpool.Pool }

func NewRepoPG(pool *pgxpool.Pool) Repository {
	return &repoPG{pool: pool}
}

const apptCols = `a.id, a.patient_id, a.provider_id, a.date, a.time, a.type,
	a.notes, a.status, a.created_at`

func (r *repoPG) Create(ctx context.Context, a *Appointment) error {
	a.ID = uuid.New()
	_, err := r.pool.Exec(ctx, `
		INSERT INTO appointments (id, patient_id, provider_id, date, time, type, notes, status)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8)`,
		a.ID, a.PatientID, a.ProviderID, a.Date, a.Time, a.Type, a.Notes, a.Status)
	return err
}

func (r *repoPG) ListByPatient(ctx context.Context, patientID uuid.UUID) ([]*Appointment, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+apptCols+`, u.name AS provider_name
		FROM appointments a
		JOIN users u ON a.provider_id = u.id
		WHERE a.patient_id = $1
		ORDER BY a.date, a.time`, patientID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []*Appointment
	for rows.Next() {
		var a Appointment
		if err := rows.Scan(&a.ID, &a.PatientID, &a.ProviderID, &a.Date, &a.Time,
			&a.Type, &a.Notes, &a.Status, &a.CreatedAt, &a.ProviderName); err != nil {
			return nil, err
		}
		items = append(items, &a)
	}
	return items, rows.Err()
}

func (r *repoPG) ListByProvider(ctx context.Context, providerID uuid.UUID) ([]*Appointment, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+apptCols+`, u.name AS patient_name
		FROM appointments a
		JOIN users u ON a.patient_id = u.id
		WHERE a.provider_id = $1
		ORDER BY a.date, a.time`, providerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []*Appointment
	for rows.Next() {
		var a Appointment
		if err := rows.Scan(&a.ID, &a.PatientID, &a.ProviderID, &a.Date, &a.Time,
			&a.Type, &a.Notes, &a.Status, &a.CreatedAt, &a.PatientName); err != nil {
			return nil, err
		}
		items = append(items, &a)
	}
	return items, rows.Err()
}

func (r *repoPG) NextForPatient(ctx context.Context, patientID uuid.UUID, from time.Time) (*Appointment, error) {
	var a Appointment
	err := r.pool.QueryRow(ctx, `
		SELECT `+apptCols+`, u.name AS provider_name
		FROM appointments a
		JOIN users u ON a.provider_id = u.id
		WHERE a.patient_id = $1 AND a.date >= $2 AND a.status = 'scheduled'
		ORDER BY a.date, a.time
		LIMIT 1`, patientID, from).
		Scan(&a.ID, &a.PatientID, &a.ProviderID, &a.Date, &a.Time,
			&a.Type, &a.Notes, &a.Status, &a.CreatedAt, &a.ProviderName)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *repoPG) CountForProviderOn(ctx context.Context, providerID uuid.UUID, day time.Time) (int, error) {
	var n int
	err := r.pool.QueryRow(ctx, `
		SELECT COUNT(*) FROM appointments
		WHERE provider_id = $1 AND date = $2`, providerID, day).Scan(&n)
	return n, err
}

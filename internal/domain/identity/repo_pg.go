package identity

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

type userRepoPG struct{ pool *pgxpool.Pool }

func NewUserRepoPG(pool *pgxpool.Pool) UserRepository {
	return &userRepoPG{pool: pool}
}

const userCols = `id, name, email, password_hash, user_type, created_at`

func scanUser(row pgx.Row) (*User, error) {
	var u User
	err := row.Scan(&u.ID, &u.Name, &u.Email, &u.PasswordHash, &u.UserType, &u.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	return &u, err
}

func (r *userRepoPG) Create(ctx context.Context, u *User) error {
	u.ID = uuid.New()
	_, err := r.pool.Exec(ctx, `
		INSERT INTO users (id, name, email, password_hash, user_type)
		VALUES ($1,$2,$3,$4,$5)`,
		u.ID, u.Name, u.Email, u.PasswordHash, u.UserType)
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return ErrDuplicateEmail
	}
	return err
}

func (r *userRepoPG) GetByID(ctx context.Context, id uuid.UUID) (*User, error) {
	return scanUser(r.pool.QueryRow(ctx, `SELECT `+userCols+` FROM users WHERE id = $1`, id))
}

func (r *userRepoPG) GetByEmail(ctx context.Context, email string) (*User, error) {
	return scanUser(r.pool.QueryRow(ctx, `SELECT `+userCols+` FROM users WHERE email = $1`, email))
}

func (r *userRepoPG) UpdateName(ctx context.Context, id uuid.UUID, name string) error {
	_, err := r.pool.Exec(ctx, `UPDATE users SET name = $2 WHERE id = $1`, id, name)
	return err
}

func (r *userRepoPG) ListByType(ctx context.Context, userType string) ([]*User, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+userCols+` FROM users WHERE user_type = $1 ORDER BY name`, userType)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []*User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, u)
	}
	return items, rows.Err()
}

func (r *userRepoPG) CountByType(ctx context.Context, userType string) (int, error) {
	var n int
	err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM users WHERE user_type = $1`, userType).Scan(&n)
	return n, err
}

type profileRepoPG struct{ pool *pgxpool.Pool }

func NewProfileRepoPG(pool *pgxpool.Pool) ProfileRepository {
	return &profileRepoPG{pool: pool}
}

func (r *profileRepoPG) Upsert(ctx context.Context, p *PatientProfile) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	_, err := r.pool.Exec(ctx, `
		INSERT INTO patient_profiles (id, user_id, dob, contact_number, primary_substance,
			usage_duration, previous_treatment, primary_goal, specific_goals, support_system)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)
		ON CONFLICT (user_id) DO UPDATE SET
			dob = EXCLUDED.dob,
			contact_number = EXCLUDED.contact_number,
			primary_substance = EXCLUDED.primary_substance,
			usage_duration = EXCLUDED.usage_duration,
			previous_treatment = EXCLUDED.previous_treatment,
			primary_goal = EXCLUDED.primary_goal,
			specific_goals = EXCLUDED.specific_goals,
			support_system = EXCLUDED.support_system`,
		p.ID, p.UserID, p.DOB, p.ContactNumber, p.PrimarySubstance,
		p.UsageDuration, p.PreviousTreatment, p.PrimaryGoal, p.SpecificGoals, p.SupportSystem)
	return err
}

func (r *profileRepoPG) GetByUserID(ctx context.Context, userID uuid.UUID) (*PatientProfile, error) {
	var p PatientProfile
	err := r.pool.QueryRow(ctx, `
		SELECT id, user_id, dob, contact_number, primary_substance, usage_duration,
			previous_treatment, primary_goal, specific_goals, support_system, created_at
		FROM patient_profiles WHERE user_id = $1`, userID).
		Scan(&p.ID, &p.UserID, &p.DOB, &p.ContactNumber, &p.PrimarySubstance, &p.UsageDuration,
			&p.PreviousTreatment, &p.PrimaryGoal, &p.SpecificGoals, &p.SupportSystem, &p.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

package meeting

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
)

type repoPG struct{ pool *pgxpool.Pool }

func NewRepoPG(pool *pgxpool.Pool) Repository {
	return &repoPG{pool: pool}
}

func (r *repoPG) List(ctx context.Context) ([]*Meeting, error) {
	rows, err := r.pool.Query(ctx, `SELECT id, location, time, day FROM aa_meetings ORDER BY day, time`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []*Meeting
	for rows.Next() {
		var m Meeting
		if err := rows.Scan(&m.ID, &m.Location, &m.Time, &m.Day); err != nil {
			return nil, err
		}
		items = append(items, &m)
	}
	return items, rows.Err()
}

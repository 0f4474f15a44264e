package meeting

import "context"

type Repository interface {
	List(ctx context.Context) ([]*Meeting, error)
}

package domain

import (
	"context"
	"time"
)

// Group is a reference category that inventoried services belong to,
// such as "core-network" or "storage". Groups are seeded on first run
// and may be extended by operators.
type Group struct {
	ID          int64
	Name        string
	Description string
	CreatedAt   time.Time
}

// GroupRepository defines persistence operations for groups.
type GroupRepository interface {
	List(ctx context.Context) ([]Group, error)
	GetByID(ctx context.Context, id int64) (*Group, error)
	GetByName(ctx context.Context, name string) (*Group, error)
	Create(ctx context.Context, group *Group) error
	Update(ctx context.Context, group *Group) error
	Delete(ctx context.Context, id int64) error
}

package domain

import (
	"context"
	"time"
)

// StatusEvent records one status transition of an inventoried service.
// ServiceName is denormalized from the join when listing, so recent
// activity stays readable without a second lookup.
type StatusEvent struct {
	ID          int64
	ServiceID   int64
	ServiceName string
	OldStatus   ServiceStatus
	NewStatus   ServiceStatus
	CreatedAt   time.Time
}

type StatusEventRepository interface {
	Record(ctx context.Context, event *StatusEvent) error
	ListRecent(ctx context.Context, limit int) ([]StatusEvent, error)
}

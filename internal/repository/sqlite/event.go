package sqlite

import (
	"context"
	"fmt"
	"time"

	"github.com/jslaski/patchbay/internal/domain"
)

// statusEventRepository implements domain.StatusEventRepository.
type statusEventRepository struct {
	store *Store
}

func (r *statusEventRepository) Record(ctx context.Context, event *domain.StatusEvent) error {
	db, err := r.store.ensure(ctx)
	if err != nil {
		return err
	}

	now := time.Now().UTC()
	result, err := db.ExecContext(ctx,
		`INSERT INTO status_events (service_id, old_status, new_status, created_at)
		 VALUES (?, ?, ?, ?)`,
		event.ServiceID, string(event.OldStatus), string(event.NewStatus), now,
	)
	if err != nil {
		return fmt.Errorf("insert status event: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("get last insert id: %w", err)
	}
	event.ID = id
	event.CreatedAt = now
	return nil
}

func (r *statusEventRepository) ListRecent(ctx context.Context, limit int) ([]domain.StatusEvent, error) {
	db, err := r.store.ensure(ctx)
	if err != nil {
		return nil, err
	}

	rows, err := db.QueryContext(ctx,
		`SELECT e.id, e.service_id, s.name, e.old_status, e.new_status, e.created_at
		 FROM status_events e
		 JOIN network_services s ON s.id = e.service_id
		 ORDER BY e.created_at DESC, e.id DESC
		 LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("list recent status events: %w", err)
	}
	defer rows.Close()

	var events []domain.StatusEvent
	for rows.Next() {
		var e domain.StatusEvent
		if err := rows.Scan(&e.ID, &e.ServiceID, &e.ServiceName, &e.OldStatus, &e.NewStatus, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan status event: %w", err)
		}
		events = append(events, e)
	}
	return events, rows.Err()
}

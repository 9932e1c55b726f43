package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jslaski/patchbay/internal/domain"
)

const serviceColumns = `id, group_id, name, host, port, protocol, status, owner, notes,
	last_checked_at, created_at, updated_at`

// serviceRepository implements domain.ServiceRepository.
type serviceRepository struct {
	store *Store
}

func (r *serviceRepository) List(ctx context.Context) ([]domain.Service, error) {
	db, err := r.store.ensure(ctx)
	if err != nil {
		return nil, err
	}

	rows, err := db.QueryContext(ctx,
		"SELECT "+serviceColumns+" FROM network_services ORDER BY name")
	if err != nil {
		return nil, fmt.Errorf("list services: %w", err)
	}
	defer rows.Close()
	return scanServices(rows)
}

func (r *serviceRepository) ListByGroup(ctx context.Context, groupID int64) ([]domain.Service, error) {
	db, err := r.store.ensure(ctx)
	if err != nil {
		return nil, err
	}

	rows, err := db.QueryContext(ctx,
		"SELECT "+serviceColumns+" FROM network_services WHERE group_id = ? ORDER BY name", groupID)
	if err != nil {
		return nil, fmt.Errorf("list services by group: %w", err)
	}
	defer rows.Close()
	return scanServices(rows)
}

func (r *serviceRepository) GetByID(ctx context.Context, id int64) (*domain.Service, error) {
	db, err := r.store.ensure(ctx)
	if err != nil {
		return nil, err
	}

	svc := &domain.Service{}
	err = db.QueryRowContext(ctx,
		"SELECT "+serviceColumns+" FROM network_services WHERE id = ?", id,
	).Scan(&svc.ID, &svc.GroupID, &svc.Name, &svc.Host, &svc.Port, &svc.Protocol, &svc.Status,
		&svc.Owner, &svc.Notes, &svc.LastCheckedAt, &svc.CreatedAt, &svc.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get service by id: %w", err)
	}
	return svc, nil
}

func (r *serviceRepository) Create(ctx context.Context, service *domain.Service) error {
	db, err := r.store.ensure(ctx)
	if err != nil {
		return err
	}

	now := time.Now().UTC()
	result, err := db.ExecContext(ctx,
		`INSERT INTO network_services (group_id, name, host, port, protocol, status, owner, notes, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		service.GroupID, service.Name, service.Host, service.Port,
		string(service.Protocol), string(service.Status), service.Owner, service.Notes, now, now,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicateEndpoint
		}
		return fmt.Errorf("insert service: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("get last insert id: %w", err)
	}

	service.ID = id
	service.CreatedAt = now
	service.UpdatedAt = now
	return nil
}

func (r *serviceRepository) Update(ctx context.Context, service *domain.Service) error {
	db, err := r.store.ensure(ctx)
	if err != nil {
		return err
	}

	now := time.Now().UTC()
	result, err := db.ExecContext(ctx,
		`UPDATE network_services
		 SET group_id = ?, name = ?, host = ?, port = ?, protocol = ?, owner = ?, notes = ?, updated_at = ?
		 WHERE id = ?`,
		service.GroupID, service.Name, service.Host, service.Port,
		string(service.Protocol), service.Owner, service.Notes, now, service.ID,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicateEndpoint
		}
		return fmt.Errorf("update service: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if rows == 0 {
		return domain.ErrNotFound
	}
	service.UpdatedAt = now
	return nil
}

func (r *serviceRepository) UpdateStatus(ctx context.Context, id int64, status domain.ServiceStatus, checkedAt time.Time) error {
	db, err := r.store.ensure(ctx)
	if err != nil {
		return err
	}

	result, err := db.ExecContext(ctx,
		"UPDATE network_services SET status = ?, last_checked_at = ?, updated_at = ? WHERE id = ?",
		string(status), checkedAt.UTC(), checkedAt.UTC(), id,
	)
	if err != nil {
		return fmt.Errorf("update service status: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if rows == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *serviceRepository) Delete(ctx context.Context, id int64) error {
	db, err := r.store.ensure(ctx)
	if err != nil {
		return err
	}

	result, err := db.ExecContext(ctx, "DELETE FROM network_services WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("delete service: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if rows == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *serviceRepository) CountByStatus(ctx context.Context) (map[domain.ServiceStatus]int, error) {
	db, err := r.store.ensure(ctx)
	if err != nil {
		return nil, err
	}

	rows, err := db.QueryContext(ctx,
		"SELECT status, COUNT(*) FROM network_services GROUP BY status")
	if err != nil {
		return nil, fmt.Errorf("count services by status: %w", err)
	}
	defer rows.Close()

	counts := make(map[domain.ServiceStatus]int)
	for rows.Next() {
		var status domain.ServiceStatus
		var n int
		if err := rows.Scan(&status, &n); err != nil {
			return nil, fmt.Errorf("scan status count: %w", err)
		}
		counts[status] = n
	}
	return counts, rows.Err()
}

func (r *serviceRepository) CountByGroup(ctx context.Context) (map[int64]int, error) {
	db, err := r.store.ensure(ctx)
	if err != nil {
		return nil, err
	}

	rows, err := db.QueryContext(ctx,
		"SELECT group_id, COUNT(*) FROM network_services GROUP BY group_id")
	if err != nil {
		return nil, fmt.Errorf("count services by group: %w", err)
	}
	defer rows.Close()

	counts := make(map[int64]int)
	for rows.Next() {
		var groupID int64
		var n int
		if err := rows.Scan(&groupID, &n); err != nil {
			return nil, fmt.Errorf("scan group count: %w", err)
		}
		counts[groupID] = n
	}
	return counts, rows.Err()
}

func scanServices(rows *sql.Rows) ([]domain.Service, error) {
	var services []domain.Service
	for rows.Next() {
		var svc domain.Service
		if err := rows.Scan(&svc.ID, &svc.GroupID, &svc.Name, &svc.Host, &svc.Port, &svc.Protocol,
			&svc.Status, &svc.Owner, &svc.Notes, &svc.LastCheckedAt, &svc.CreatedAt, &svc.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan service: %w", err)
		}
		services = append(services, svc)
	}
	return services, rows.Err()
}

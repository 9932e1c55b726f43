package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jslaski/patchbay/internal/domain"
)

// groupRepository implements domain.GroupRepository.
type groupRepository struct {
	store *Store
}

func (r *groupRepository) List(ctx context.Context) ([]domain.Group, error) {
	db, err := r.store.ensure(ctx)
	if err != nil {
		return nil, err
	}

	rows, err := db.QueryContext(ctx,
		"SELECT id, name, description, created_at FROM groups ORDER BY name")
	if err != nil {
		return nil, fmt.Errorf("list groups: %w", err)
	}
	defer rows.Close()

	var groups []domain.Group
	for rows.Next() {
		var g domain.Group
		if err := rows.Scan(&g.ID, &g.Name, &g.Description, &g.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan group: %w", err)
		}
		groups = append(groups, g)
	}
	return groups, rows.Err()
}

func (r *groupRepository) GetByID(ctx context.Context, id int64) (*domain.Group, error) {
	db, err := r.store.ensure(ctx)
	if err != nil {
		return nil, err
	}

	g := &domain.Group{}
	err = db.QueryRowContext(ctx,
		"SELECT id, name, description, created_at FROM groups WHERE id = ?", id,
	).Scan(&g.ID, &g.Name, &g.Description, &g.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get group by id: %w", err)
	}
	return g, nil
}

func (r *groupRepository) GetByName(ctx context.Context, name string) (*domain.Group, error) {
	db, err := r.store.ensure(ctx)
	if err != nil {
		return nil, err
	}

	g := &domain.Group{}
	err = db.QueryRowContext(ctx,
		"SELECT id, name, description, created_at FROM groups WHERE name = ?", name,
	).Scan(&g.ID, &g.Name, &g.Description, &g.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get group by name: %w", err)
	}
	return g, nil
}

func (r *groupRepository) Create(ctx context.Context, group *domain.Group) error {
	db, err := r.store.ensure(ctx)
	if err != nil {
		return err
	}

	result, err := db.ExecContext(ctx,
		"INSERT INTO groups (name, description) VALUES (?, ?)",
		group.Name, group.Description,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicateGroup
		}
		return fmt.Errorf("insert group: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("get last insert id: %w", err)
	}
	group.ID = id
	return nil
}

func (r *groupRepository) Update(ctx context.Context, group *domain.Group) error {
	db, err := r.store.ensure(ctx)
	if err != nil {
		return err
	}

	result, err := db.ExecContext(ctx,
		"UPDATE groups SET name = ?, description = ? WHERE id = ?",
		group.Name, group.Description, group.ID,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicateGroup
		}
		return fmt.Errorf("update group: %w", err)
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

func (r *groupRepository) Delete(ctx context.Context, id int64) error {
	db, err := r.store.ensure(ctx)
	if err != nil {
		return err
	}

	result, err := db.ExecContext(ctx, "DELETE FROM groups WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("delete group: %w", err)
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

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/roach88/veto/internal/booking"
)

// CreateResource inserts a resource. The name is NFC-normalized before
// the uniqueness check; a collision returns ErrNameTaken.
func (s *Store) CreateResource(ctx context.Context, res booking.Resource) error {
	return createResource(ctx, s.db, res)
}

// Resource returns a resource by id, or an error wrapping ErrNotFound.
func (s *Store) Resource(ctx context.Context, id string) (booking.Resource, error) {
	return getResource(ctx, s.db, id)
}

// ResourceByName returns a resource by its NFC-normalized name.
func (s *Store) ResourceByName(ctx context.Context, name string) (booking.Resource, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, name, type, capacity, active
		FROM resources
		WHERE name = ?
	`, booking.NormalizeName(name))

	res, err := scanResourceRow(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return booking.Resource{}, fmt.Errorf("resource named %q: %w", name, ErrNotFound)
		}
		return booking.Resource{}, err
	}
	return res, nil
}

// ListResources returns all resources ordered by name.
//
// Returns an empty slice (not nil) when no resources exist.
func (s *Store) ListResources(ctx context.Context) ([]booking.Resource, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, type, capacity, active
		FROM resources
		ORDER BY name COLLATE BINARY ASC, id COLLATE BINARY ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("query resources: %w", err)
	}
	defer rows.Close()

	var resources []booking.Resource
	for rows.Next() {
		res, err := scanResource(rows)
		if err != nil {
			return nil, err
		}
		resources = append(resources, res)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate resources: %w", err)
	}

	if resources == nil {
		resources = []booking.Resource{}
	}

	return resources, nil
}

// UpdateResourceCapacity changes a resource's total capacity.
func (s *Store) UpdateResourceCapacity(ctx context.Context, id string, capacity int64) error {
	if capacity < 1 {
		return fmt.Errorf("capacity must be >= 1, got %d", capacity)
	}

	result, err := s.db.ExecContext(ctx, `
		UPDATE resources SET capacity = ? WHERE id = ?
	`, capacity, id)
	if err != nil {
		return fmt.Errorf("update resource capacity: %w", err)
	}
	return requireRow(result, "resource", id)
}

// SetResourceActive toggles assignability. Deactivation leaves existing
// assignments untouched; only new admissions are refused.
func (s *Store) SetResourceActive(ctx context.Context, id string, active bool) error {
	result, err := s.db.ExecContext(ctx, `
		UPDATE resources SET active = ? WHERE id = ?
	`, marshalBool(active), id)
	if err != nil {
		return fmt.Errorf("update resource active: %w", err)
	}
	return requireRow(result, "resource", id)
}

// createResource is the shared insert used by Store and Snapshot.
func createResource(ctx context.Context, q dbtx, res booking.Resource) error {
	if res.ID == "" {
		return fmt.Errorf("resource id is required")
	}
	if res.Capacity < 1 {
		return fmt.Errorf("resource %s: capacity must be >= 1, got %d", res.ID, res.Capacity)
	}
	if !booking.ValidResourceTypes[res.Type] {
		return fmt.Errorf("resource %s: invalid type %q", res.ID, res.Type)
	}

	_, err := q.ExecContext(ctx, `
		INSERT INTO resources (id, name, type, capacity, active)
		VALUES (?, ?, ?, ?, ?)
	`, res.ID, booking.NormalizeName(res.Name), string(res.Type), res.Capacity, marshalBool(res.Active))
	if err != nil {
		return fmt.Errorf("insert resource %s: %w", res.ID, mapUniqueError(err))
	}
	return nil
}

// getResource is the shared lookup used by Store and Snapshot.
func getResource(ctx context.Context, q dbtx, id string) (booking.Resource, error) {
	row := q.QueryRowContext(ctx, `
		SELECT id, name, type, capacity, active
		FROM resources
		WHERE id = ?
	`, id)

	res, err := scanResourceRow(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return booking.Resource{}, fmt.Errorf("resource %s: %w", id, ErrNotFound)
		}
		return booking.Resource{}, err
	}
	return res, nil
}

// scanner covers both *sql.Rows and *sql.Row.
type scanner interface {
	Scan(dest ...any) error
}

func scanResource(sc scanner) (booking.Resource, error) {
	var (
		res    booking.Resource
		typ    string
		active int64
	)
	if err := sc.Scan(&res.ID, &res.Name, &typ, &res.Capacity, &active); err != nil {
		return booking.Resource{}, fmt.Errorf("scan resource: %w", err)
	}
	res.Type = booking.ResourceType(typ)
	res.Active = active != 0
	return res, nil
}

func scanResourceRow(row *sql.Row) (booking.Resource, error) {
	var (
		res    booking.Resource
		typ    string
		active int64
	)
	if err := row.Scan(&res.ID, &res.Name, &typ, &res.Capacity, &active); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return booking.Resource{}, err
		}
		return booking.Resource{}, fmt.Errorf("scan resource: %w", err)
	}
	res.Type = booking.ResourceType(typ)
	res.Active = active != 0
	return res, nil
}

// requireRow converts a zero-row update into a not-found error.
func requireRow(result sql.Result, entity, id string) error {
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("%s %s: %w", entity, id, ErrNotFound)
	}
	return nil
}

package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/starford/resource-api/internal/models"
	"github.com/starford/resource-api/internal/pagination"
)

// Repository defines the resource persistence operations. Consumers should
// depend on this interface rather than the concrete *Store.
type Repository interface {
	Create(ctx context.Context, in NewResource) (*models.Resource, error)
	FindByID(ctx context.Context, id string) (*models.Resource, error)
	FindAll(ctx context.Context, f Filter) ([]models.Resource, error)
	Count(ctx context.Context, f Filter) (int, error)
	Update(ctx context.Context, id string, p Patch) (*models.Resource, error)
	SoftDelete(ctx context.Context, id string) (bool, error)
}

// Verify *Store satisfies Repository at compile time.
var _ Repository = (*Store)(nil)

// NewResource holds the caller-supplied fields of a new resource.
type NewResource struct {
	Name string
	Type models.ResourceType
	Data map[string]any
	// CreatedAt backdates the row; zero means now.
	CreatedAt time.Time
}

// Patch is a partial update; nil fields are left unchanged.
type Patch struct {
	Name *string
	Type *models.ResourceType
	Data map[string]any
}

// Filter narrows and pages a listing. Zero values mean "no constraint",
// except Limit, which falls back to pagination.DefaultLimit.
type Filter struct {
	Name   string
	Type   models.ResourceType
	Sort   pagination.SortField
	Order  pagination.Order
	Offset int
	Limit  int
}

var sortColumns = map[pagination.SortField]string{
	pagination.SortCreatedAt: "created_at",
	pagination.SortUpdatedAt: "updated_at",
	pagination.SortName:      "name",
}

const selectColumns = `id, name, type, data, created_at, updated_at, is_deleted, deleted_at`

// Create inserts a resource with a generated id and timestamps.
func (s *Store) Create(ctx context.Context, in NewResource) (*models.Resource, error) {
	data, err := encodeData(in.Data)
	if err != nil {
		return nil, err
	}
	now := s.now()
	if !in.CreatedAt.IsZero() {
		now = in.CreatedAt.UTC()
	}
	res := &models.Resource{
		ID:        s.newID(),
		Name:      in.Name,
		Type:      in.Type,
		Data:      nonNilData(in.Data),
		CreatedAt: now,
		UpdatedAt: now,
	}
	_, err = s.conn.ExecContext(ctx, `
		INSERT INTO resources (id, name, type, data, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`, res.ID, res.Name, string(res.Type), data, now, now)
	if err != nil {
		return nil, fmt.Errorf("store: insert resource: %w", err)
	}
	return res, nil
}

// FindByID returns the live resource with id, or nil when it does not exist
// or was soft-deleted.
func (s *Store) FindByID(ctx context.Context, id string) (*models.Resource, error) {
	return findLive(ctx, s.conn, id)
}

// FindAll returns one page of live resources matching f.
func (s *Store) FindAll(ctx context.Context, f Filter) ([]models.Resource, error) {
	where, args := f.predicate()

	col, ok := sortColumns[f.Sort]
	if !ok {
		col = sortColumns[pagination.SortCreatedAt]
	}
	dir := "ASC"
	if f.Order == pagination.OrderDESC {
		dir = "DESC"
	}
	limit := f.Limit
	if limit <= 0 {
		limit = pagination.DefaultLimit
	}
	offset := f.Offset
	if offset < 0 {
		offset = 0
	}

	query := fmt.Sprintf(`SELECT %s FROM resources WHERE %s ORDER BY %s %s, id %s LIMIT ? OFFSET ?`,
		selectColumns, where, col, dir, dir)
	args = append(args, limit, offset)

	rows, err := s.conn.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("store: list resources: %w", err)
	}
	defer rows.Close()

	out := []models.Resource{}
	for rows.Next() {
		r, err := scanResource(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *r)
	}
	return out, rows.Err()
}

// Count returns the number of live resources matching f, ignoring paging.
func (s *Store) Count(ctx context.Context, f Filter) (int, error) {
	where, args := f.predicate()
	var n int
	err := s.conn.QueryRowContext(ctx, `SELECT COUNT(*) FROM resources WHERE `+where, args...).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("store: count resources: %w", err)
	}
	return n, nil
}

// Update applies p to the live resource with id and returns the result, or
// nil when no live resource matched.
func (s *Store) Update(ctx context.Context, id string, p Patch) (*models.Resource, error) {
	sets := []string{"updated_at = ?"}
	args := []any{s.now()}
	if p.Name != nil {
		sets = append(sets, "name = ?")
		args = append(args, *p.Name)
	}
	if p.Type != nil {
		sets = append(sets, "type = ?")
		args = append(args, string(*p.Type))
	}
	if p.Data != nil {
		data, err := encodeData(p.Data)
		if err != nil {
			return nil, err
		}
		sets = append(sets, "data = ?")
		args = append(args, data)
	}
	args = append(args, id)

	tx, err := s.conn.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("store: begin tx: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // best-effort on failure path

	res, err := tx.ExecContext(ctx,
		`UPDATE resources SET `+strings.Join(sets, ", ")+` WHERE id = ? AND is_deleted = 0`, args...)
	if err != nil {
		return nil, fmt.Errorf("store: update resource: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("store: update resource: %w", err)
	}
	if n == 0 {
		return nil, nil
	}

	updated, err := findLive(ctx, tx, id)
	if err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("store: commit update: %w", err)
	}
	return updated, nil
}

// SoftDelete marks the live resource with id as deleted. It reports false
// when nothing matched.
func (s *Store) SoftDelete(ctx context.Context, id string) (bool, error) {
	res, err := s.conn.ExecContext(ctx,
		`UPDATE resources SET is_deleted = 1, deleted_at = ? WHERE id = ? AND is_deleted = 0`, s.now(), id)
	if err != nil {
		return false, fmt.Errorf("store: soft delete resource: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("store: soft delete resource: %w", err)
	}
	return n > 0, nil
}

// DeleteAll hard-deletes every row. Used by the seeder's reset mode.
func (s *Store) DeleteAll(ctx context.Context) (int64, error) {
	res, err := s.conn.ExecContext(ctx, `DELETE FROM resources`)
	if err != nil {
		return 0, fmt.Errorf("store: delete all: %w", err)
	}
	return res.RowsAffected()
}

func (f Filter) predicate() (string, []any) {
	clauses := []string{"is_deleted = 0"}
	var args []any
	if f.Name != "" {
		clauses = append(clauses, "instr(fold(name), fold(?)) > 0")
		args = append(args, f.Name)
	}
	if f.Type != "" {
		clauses = append(clauses, "type = ?")
		args = append(args, string(f.Type))
	}
	return strings.Join(clauses, " AND "), args
}

type queryer interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func findLive(ctx context.Context, q queryer, id string) (*models.Resource, error) {
	row := q.QueryRowContext(ctx,
		`SELECT `+selectColumns+` FROM resources WHERE id = ? AND is_deleted = 0`, id)
	r, err := scanResource(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	return r, err
}

type scanner interface {
	Scan(dest ...any) error
}

func scanResource(sc scanner) (*models.Resource, error) {
	var (
		r         models.Resource
		typ, data string
		deleted   int
		deletedAt sql.NullTime
	)
	err := sc.Scan(&r.ID, &r.Name, &typ, &data, &r.CreatedAt, &r.UpdatedAt, &deleted, &deletedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("store: scan resource: %w", err)
	}
	r.Type = models.ResourceType(typ)
	r.IsDeleted = deleted != 0
	if deletedAt.Valid {
		t := deletedAt.Time
		r.DeletedAt = &t
	}
	if err := json.Unmarshal([]byte(data), &r.Data); err != nil {
		return nil, fmt.Errorf("store: decode data for %s: %w", r.ID, err)
	}
	r.Data = nonNilData(r.Data)
	return &r, nil
}

func encodeData(data map[string]any) (string, error) {
	b, err := json.Marshal(nonNilData(data))
	if err != nil {
		return "", fmt.Errorf("store: encode data: %w", err)
	}
	return string(b), nil
}

func nonNilData(data map[string]any) map[string]any {
	if data == nil {
		return map[string]any{}
	}
	return data
}

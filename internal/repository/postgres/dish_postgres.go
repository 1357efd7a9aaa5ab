package postgres

import (
	"context"
	"database/sql"
	"strings"

	"chef/internal/model"
	"chef/internal/repository"
)

// DishPostgres is a PostgreSQL implementation of repository.DishRepository.
type DishPostgres struct {
	db *sql.DB
}

// NewDishPostgres creates a new DishPostgres repository.
func NewDishPostgres(db *sql.DB) *DishPostgres {
	return &DishPostgres{db: db}
}

var _ repository.DishRepository = (*DishPostgres)(nil)

const dishColumns = `id, owner_id, title, text, exclude_from_suggestions, COALESCE(photo_key, ''), created_at, updated_at`

func scanDish(row rowScanner) (*model.Dish, error) {
	var d model.Dish
	if err := row.Scan(
		&d.ID,
		&d.OwnerID,
		&d.Title,
		&d.Text,
		&d.ExcludeFromSuggestions,
		&d.PhotoKey,
		&d.CreatedAt,
		&d.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &d, nil
}

// Create inserts a new dish row and returns the stored record.
func (r *DishPostgres) Create(ctx context.Context, dish *model.Dish) (*model.Dish, error) {
	const q = `
		INSERT INTO dishes (id, owner_id, title, text, exclude_from_suggestions, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING ` + dishColumns
	row := r.db.QueryRowContext(ctx, q,
		dish.ID,
		dish.OwnerID,
		dish.Title,
		dish.Text,
		dish.ExcludeFromSuggestions,
		dish.CreatedAt,
		dish.UpdatedAt,
	)
	out, err := scanDish(row)
	if err != nil {
		return nil, mapError(err)
	}
	return out, nil
}

// Update overwrites the editable fields of a dish.
func (r *DishPostgres) Update(ctx context.Context, dish *model.Dish) (*model.Dish, error) {
	const q = `
		UPDATE dishes
		SET title = $2, text = $3, exclude_from_suggestions = $4, updated_at = $5
		WHERE id = $1
		RETURNING ` + dishColumns
	row := r.db.QueryRowContext(ctx, q,
		dish.ID,
		dish.Title,
		dish.Text,
		dish.ExcludeFromSuggestions,
		dish.UpdatedAt,
	)
	out, err := scanDish(row)
	if err != nil {
		return nil, mapError(err)
	}
	return out, nil
}

// FindByID fetches a single dish by its ID.
func (r *DishPostgres) FindByID(ctx context.Context, id string) (*model.Dish, error) {
	const q = `SELECT ` + dishColumns + ` FROM dishes WHERE id = $1`
	return scanDish(r.db.QueryRowContext(ctx, q, id))
}

// ListByOwner returns the owner's dishes, optionally filtered by a search term.
func (r *DishPostgres) ListByOwner(ctx context.Context, ownerID, search string) ([]model.Dish, error) {
	const qAll = `
		SELECT ` + dishColumns + `
		FROM dishes
		WHERE owner_id = $1
		ORDER BY LOWER(title), id
	`
	const qSearch = `
		SELECT ` + dishColumns + `
		FROM dishes
		WHERE owner_id = $1 AND (title ILIKE $2 OR text ILIKE $2)
		ORDER BY LOWER(title), id
	`

	var (
		rows *sql.Rows
		err  error
	)
	if search == "" {
		rows, err = r.db.QueryContext(ctx, qAll, ownerID)
	} else {
		rows, err = r.db.QueryContext(ctx, qSearch, ownerID, containsPattern(search))
	}
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]model.Dish, 0)
	for rows.Next() {
		d, err := scanDish(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *d)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

// LeastRecentlyScheduled returns suggestible dishes ordered by how long ago they were last eaten.
func (r *DishPostgres) LeastRecentlyScheduled(ctx context.Context, ownerID string, limit int) ([]model.DishSuggestion, error) {
	const q = `
		SELECT d.id, d.owner_id, d.title, d.text, d.exclude_from_suggestions, COALESCE(d.photo_key, ''),
		       d.created_at, d.updated_at, MAX(m.date) AS last_scheduled
		FROM dishes d
		LEFT JOIN meals m ON m.dish_id = d.id
		WHERE d.owner_id = $1 AND NOT d.exclude_from_suggestions
		GROUP BY d.id
		ORDER BY last_scheduled ASC NULLS FIRST, LOWER(d.title)
		LIMIT $2
	`
	rows, err := r.db.QueryContext(ctx, q, ownerID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]model.DishSuggestion, 0)
	for rows.Next() {
		var (
			s    model.DishSuggestion
			last sql.NullTime
		)
		if err := rows.Scan(
			&s.ID,
			&s.OwnerID,
			&s.Title,
			&s.Text,
			&s.ExcludeFromSuggestions,
			&s.PhotoKey,
			&s.CreatedAt,
			&s.UpdatedAt,
			&last,
		); err != nil {
			return nil, err
		}
		if last.Valid {
			t := last.Time
			s.LastScheduled = &t
		}
		items = append(items, s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

// SetPhoto stores the photo object key for a dish.
func (r *DishPostgres) SetPhoto(ctx context.Context, id, key string) error {
	const q = `UPDATE dishes SET photo_key = NULLIF($2, '') WHERE id = $1`
	res, err := r.db.ExecContext(ctx, q, id, key)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// Delete removes a dish by ID. It does not return an error if the row does not exist.
func (r *DishPostgres) Delete(ctx context.Context, id string) error {
	const q = `DELETE FROM dishes WHERE id = $1`
	_, err := r.db.ExecContext(ctx, q, id)
	return err
}

// containsPattern turns a user search term into an ILIKE pattern, escaping wildcards.
func containsPattern(term string) string {
	escaped := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(term)
	return "%" + escaped + "%"
}

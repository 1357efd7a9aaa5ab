package postgres

import (
	"context"
	"database/sql"
	"time"

	"chef/internal/model"
	"chef/internal/repository"
)

// MealPostgres is a PostgreSQL implementation of repository.MealRepository.
// Reads join dishes so that every meal carries its dish title.
type MealPostgres struct {
	db *sql.DB
}

// NewMealPostgres creates a new MealPostgres repository.
func NewMealPostgres(db *sql.DB) *MealPostgres {
	return &MealPostgres{db: db}
}

var _ repository.MealRepository = (*MealPostgres)(nil)

func scanMeal(row rowScanner) (*model.Meal, error) {
	var m model.Meal
	if err := row.Scan(
		&m.ID,
		&m.DishID,
		&m.DishTitle,
		&m.Date,
		&m.OwnerID,
		&m.CreatedAt,
	); err != nil {
		return nil, err
	}
	return &m, nil
}

func (r *MealPostgres) Create(ctx context.Context, meal *model.Meal) (*model.Meal, error) {
	const q = `
		WITH inserted AS (
			INSERT INTO meals (id, dish_id, date, owner_id, created_at)
			VALUES ($1, $2, $3, $4, $5)
			RETURNING id, dish_id, date, owner_id, created_at
		)
		SELECT i.id, i.dish_id, d.title, i.date, i.owner_id, i.created_at
		FROM inserted i
		JOIN dishes d ON d.id = i.dish_id
	`
	row := r.db.QueryRowContext(ctx, q,
		meal.ID,
		meal.DishID,
		meal.Date,
		meal.OwnerID,
		meal.CreatedAt,
	)
	out, err := scanMeal(row)
	if err != nil {
		return nil, mapError(err)
	}
	return out, nil
}

func (r *MealPostgres) Update(ctx context.Context, meal *model.Meal) (*model.Meal, error) {
	const q = `
		WITH updated AS (
			UPDATE meals SET dish_id = $2, date = $3
			WHERE id = $1
			RETURNING id, dish_id, date, owner_id, created_at
		)
		SELECT u.id, u.dish_id, d.title, u.date, u.owner_id, u.created_at
		FROM updated u
		JOIN dishes d ON d.id = u.dish_id
	`
	out, err := scanMeal(r.db.QueryRowContext(ctx, q, meal.ID, meal.DishID, meal.Date))
	if err != nil {
		return nil, mapError(err)
	}
	return out, nil
}

func (r *MealPostgres) FindByID(ctx context.Context, id string) (*model.Meal, error) {
	const q = `
		SELECT m.id, m.dish_id, d.title, m.date, m.owner_id, m.created_at
		FROM meals m
		JOIN dishes d ON d.id = m.dish_id
		WHERE m.id = $1
	`
	return scanMeal(r.db.QueryRowContext(ctx, q, id))
}

func (r *MealPostgres) ListByOwner(ctx context.Context, ownerID string) ([]model.Meal, error) {
	const q = `
		SELECT m.id, m.dish_id, d.title, m.date, m.owner_id, m.created_at
		FROM meals m
		JOIN dishes d ON d.id = m.dish_id
		WHERE m.owner_id = $1
		ORDER BY m.date, m.created_at
	`
	return r.list(ctx, q, ownerID)
}

func (r *MealPostgres) ListBetween(ctx context.Context, ownerID string, from, to time.Time) ([]model.Meal, error) {
	const q = `
		SELECT m.id, m.dish_id, d.title, m.date, m.owner_id, m.created_at
		FROM meals m
		JOIN dishes d ON d.id = m.dish_id
		WHERE m.owner_id = $1 AND m.date >= $2 AND m.date < $3
		ORDER BY m.date, m.created_at
	`
	return r.list(ctx, q, ownerID, from, to)
}

func (r *MealPostgres) list(ctx context.Context, q string, args ...any) ([]model.Meal, error) {
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]model.Meal, 0)
	for rows.Next() {
		m, err := scanMeal(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *m)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

// Delete removes a meal by ID. Missing rows are not an error.
func (r *MealPostgres) Delete(ctx context.Context, id string) error {
	const q = `DELETE FROM meals WHERE id = $1`
	_, err := r.db.ExecContext(ctx, q, id)
	return err
}

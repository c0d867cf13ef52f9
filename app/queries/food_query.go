package queries

import (
	"context"
	"fmt"

	"github.com/Mariolucas03/Kairos/app/models"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

type FoodQueries struct {
	DB *sqlx.DB
}

const foodColumns = `id, user_id, name, calories, protein, carbs, fat, fiber, serving_size, icon, folder`

// SearchFoods matches name case-insensitively over the user's foods and the shared catalogue.
func (q *FoodQueries) SearchFoods(ctx context.Context, userID uuid.UUID, query string, limit int) ([]models.Food, error) {
	foods := []models.Food{}
	err := q.DB.SelectContext(ctx, &foods, `
		SELECT `+foodColumns+` FROM foods
		WHERE name ILIKE '%' || $2 || '%' AND (user_id = $1 OR user_id IS NULL)
		ORDER BY name ASC
		LIMIT $3
	`, userID, query, limit)
	if err != nil {
		return nil, fmt.Errorf("unable to search foods, DB error: %w", err)
	}
	return foods, nil
}

func (q *FoodQueries) ListSavedFoods(ctx context.Context, userID uuid.UUID, limit int) ([]models.Food, error) {
	foods := []models.Food{}
	err := q.DB.SelectContext(ctx, &foods, `
		SELECT `+foodColumns+` FROM foods WHERE user_id = $1 ORDER BY created_at DESC LIMIT $2
	`, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("unable to list foods, DB error: %w", err)
	}
	return foods, nil
}

func (q *FoodQueries) GetFood(ctx context.Context, id uuid.UUID) (*models.Food, error) {
	var f models.Food
	if err := q.DB.GetContext(ctx, &f, `SELECT `+foodColumns+` FROM foods WHERE id = $1`, id); err != nil {
		return nil, notFound(err)
	}
	return &f, nil
}

func (q *FoodQueries) CreateFood(ctx context.Context, f *models.Food) error {
	_, err := q.DB.NamedExecContext(ctx, `
		INSERT INTO foods (`+foodColumns+`)
		VALUES (:id, :user_id, :name, :calories, :protein, :carbs, :fat, :fiber, :serving_size, :icon, :folder)
	`, f)
	if err != nil {
		return fmt.Errorf("unable to create food, DB error: %w", err)
	}
	return nil
}

func (q *FoodQueries) UpdateFood(ctx context.Context, f *models.Food) error {
	res, err := q.DB.NamedExecContext(ctx, `
		UPDATE foods SET name = :name, calories = :calories, protein = :protein, carbs = :carbs, fat = :fat,
			fiber = :fiber, serving_size = :serving_size, icon = :icon, folder = :folder
		WHERE id = :id
	`, f)
	if err != nil {
		return fmt.Errorf("unable to update food, DB error: %w", err)
	}
	if rows, _ := res.RowsAffected(); rows == 0 {
		return ErrNotFound
	}
	return nil
}

func (q *FoodQueries) DeleteFood(ctx context.Context, id uuid.UUID) error {
	res, err := q.DB.ExecContext(ctx, `DELETE FROM foods WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("unable to delete food, DB error: %w", err)
	}
	if rows, _ := res.RowsAffected(); rows == 0 {
		return ErrNotFound
	}
	return nil
}

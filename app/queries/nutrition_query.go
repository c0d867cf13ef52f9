package queries

import (
	"context"
	"fmt"

	"github.com/Mariolucas03/Kairos/app/models"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

type NutritionQueries struct {
	DB *sqlx.DB
}

const nutritionColumns = `id, user_id, date, meals, total_calories, total_protein, total_carbs, total_fat, total_fiber,
	created_at, updated_at`

func (q *NutritionQueries) FindOrCreateNutritionLog(ctx context.Context, seed *models.NutritionLog) (*models.NutritionLog, error) {
	_, err := q.DB.NamedExecContext(ctx, `
		INSERT INTO nutrition_logs (`+nutritionColumns+`)
		VALUES (:id, :user_id, :date, :meals, :total_calories, :total_protein, :total_carbs, :total_fat, :total_fiber,
			:created_at, :updated_at)
		ON CONFLICT (user_id, date) DO NOTHING
	`, seed)
	if err != nil {
		return nil, fmt.Errorf("unable to create nutrition log, DB error: %w", err)
	}
	return q.GetNutritionLog(ctx, seed.UserID, seed.Date)
}

func (q *NutritionQueries) GetNutritionLog(ctx context.Context, userID uuid.UUID, date string) (*models.NutritionLog, error) {
	var l models.NutritionLog
	err := q.DB.GetContext(ctx, &l, `SELECT `+nutritionColumns+` FROM nutrition_logs WHERE user_id = $1 AND date = $2`, userID, date)
	if err != nil {
		return nil, notFound(err)
	}
	return &l, nil
}

func (q *NutritionQueries) SaveNutritionLog(ctx context.Context, l *models.NutritionLog) error {
	err := q.DB.QueryRowxContext(ctx, `
		UPDATE nutrition_logs SET meals = $1, total_calories = $2, total_protein = $3, total_carbs = $4,
			total_fat = $5, total_fiber = $6, updated_at = now()
		WHERE id = $7
		RETURNING updated_at
	`, l.Meals, l.TotalCalories, l.TotalProtein, l.TotalCarbs, l.TotalFat, l.TotalFiber, l.ID).Scan(&l.UpdatedAt)
	if err != nil {
		return notFound(err)
	}
	return nil
}

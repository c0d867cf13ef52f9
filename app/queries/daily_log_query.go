package queries

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/Mariolucas03/Kairos/app/models"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

type DailyLogQueries struct {
	DB *sqlx.DB
}

const dailyLogColumns = `id, user_id, date, weight, mood, sleep_hours, steps, notes, streak_current, sport_workouts,
	gym_workouts, nutrition, mission_stats, gains, created_at, updated_at`

// FindOrCreateDailyLog relies on the (user_id, date) unique key, so concurrent callers converge on one row.
func (q *DailyLogQueries) FindOrCreateDailyLog(ctx context.Context, seed *models.DailyLog) (*models.DailyLog, error) {
	_, err := q.DB.NamedExecContext(ctx, `
		INSERT INTO daily_logs (`+dailyLogColumns+`)
		VALUES (:id, :user_id, :date, :weight, :mood, :sleep_hours, :steps, :notes, :streak_current, :sport_workouts,
			:gym_workouts, :nutrition, :mission_stats, :gains, :created_at, :updated_at)
		ON CONFLICT (user_id, date) DO NOTHING
	`, seed)
	if err != nil {
		return nil, fmt.Errorf("unable to create daily log, DB error: %w", err)
	}
	return q.GetDailyLog(ctx, seed.UserID, seed.Date)
}

func (q *DailyLogQueries) GetDailyLog(ctx context.Context, userID uuid.UUID, date string) (*models.DailyLog, error) {
	var l models.DailyLog
	err := q.DB.GetContext(ctx, &l, `SELECT `+dailyLogColumns+` FROM daily_logs WHERE user_id = $1 AND date = $2`, userID, date)
	if err != nil {
		return nil, notFound(err)
	}
	return &l, nil
}

func (q *DailyLogQueries) SaveDailyLog(ctx context.Context, l *models.DailyLog) error {
	err := q.DB.QueryRowxContext(ctx, `
		UPDATE daily_logs SET weight = $1, mood = $2, sleep_hours = $3, steps = $4, notes = $5, streak_current = $6,
			sport_workouts = $7, gym_workouts = $8, nutrition = $9, mission_stats = $10, gains = $11, updated_at = now()
		WHERE id = $12
		RETURNING updated_at
	`, l.Weight, l.Mood, l.SleepHours, l.Steps, l.Notes, l.StreakCurrent, l.SportWorkouts, l.GymWorkouts,
		l.Nutrition, l.MissionStats, l.Gains, l.ID).Scan(&l.UpdatedAt)
	if err != nil {
		return notFound(err)
	}
	return nil
}

func (q *DailyLogQueries) AppendCompletion(ctx context.Context, userID uuid.UUID, date string, entry models.CompletedMission) error {
	b, err := json.Marshal(entry)
	if err != nil {
		return err
	}
	res, err := q.DB.ExecContext(ctx, `
		UPDATE daily_logs SET mission_stats = jsonb_set(
				jsonb_set(mission_stats, '{completed}', to_jsonb(COALESCE((mission_stats->>'completed')::int, 0) + 1)),
				'{listCompleted}', COALESCE(mission_stats->'listCompleted', '[]'::jsonb) || jsonb_build_array($3::jsonb)),
			updated_at = now()
		WHERE user_id = $1 AND date = $2
	`, userID, date, string(b))
	if err != nil {
		return fmt.Errorf("unable to record completion, DB error: %w", err)
	}
	if rows, _ := res.RowsAffected(); rows == 0 {
		return ErrNotFound
	}
	return nil
}

// PriorWeight is the most recent non-zero weight logged before date, or 0.
func (q *DailyLogQueries) PriorWeight(ctx context.Context, userID uuid.UUID, date string) (float64, error) {
	var w float64
	err := q.DB.GetContext(ctx, &w, `
		SELECT weight FROM daily_logs
		WHERE user_id = $1 AND date < $2 AND weight > 0
		ORDER BY date DESC LIMIT 1
	`, userID, date)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("unable to read prior weight, DB error: %w", err)
	}
	return w, nil
}

func (q *DailyLogQueries) WeightHistory(ctx context.Context, userID uuid.UUID) ([]models.WeightPoint, error) {
	points := []models.WeightPoint{}
	err := q.DB.SelectContext(ctx, &points, `
		SELECT date, weight FROM daily_logs WHERE user_id = $1 AND weight > 0 ORDER BY date ASC
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("unable to read weight history, DB error: %w", err)
	}
	return points, nil
}

// SetTotalKcal overwrites nutrition.totalKcal; a missing log is left missing.
func (q *DailyLogQueries) SetTotalKcal(ctx context.Context, userID uuid.UUID, date string, kcal int) error {
	_, err := q.DB.ExecContext(ctx, `
		UPDATE daily_logs SET nutrition = jsonb_set(nutrition, '{totalKcal}', to_jsonb($3::int)), updated_at = now()
		WHERE user_id = $1 AND date = $2
	`, userID, date, kcal)
	if err != nil {
		return fmt.Errorf("unable to sync kcal, DB error: %w", err)
	}
	return nil
}

package queries

import (
	"context"
	"fmt"

	"github.com/Mariolucas03/Kairos/app/models"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

type UserQueries struct {
	DB *sqlx.DB
}

const userColumns = `id, username, email, password_hash, avatar, frame, title, theme, pet, coins, game_coins, xp, level,
	streak_current, streak_last_log, mission_requests, inventory, created_at, updated_at`

func (q *UserQueries) GetUserByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	var u models.User
	err := q.DB.GetContext(ctx, &u, `SELECT `+userColumns+` FROM users WHERE id = $1`, id)
	if err != nil {
		return nil, notFound(err)
	}
	return &u, nil
}

func (q *UserQueries) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	var u models.User
	err := q.DB.GetContext(ctx, &u, `SELECT `+userColumns+` FROM users WHERE username = $1`, username)
	if err != nil {
		return nil, notFound(err)
	}
	return &u, nil
}

func (q *UserQueries) IsUserExists(ctx context.Context, username, email string) (bool, error) {
	var exists bool
	err := q.DB.GetContext(ctx, &exists,
		`SELECT EXISTS (SELECT 1 FROM users WHERE username = $1 OR lower(email) = lower($2))`, username, email)
	if err != nil {
		return false, fmt.Errorf("unable to check user, DB error: %w", err)
	}
	return exists, nil
}

func (q *UserQueries) CreateUser(ctx context.Context, u *models.User) error {
	_, err := q.DB.NamedExecContext(ctx, `
		INSERT INTO users (id, username, email, password_hash, coins, game_coins, xp, level,
			streak_current, streak_last_log, mission_requests, inventory, created_at, updated_at)
		VALUES (:id, :username, :email, :password_hash, :coins, :game_coins, :xp, :level,
			:streak_current, :streak_last_log, :mission_requests, :inventory, :created_at, :updated_at)
	`, u)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicate
		}
		return fmt.Errorf("unable to create user, DB error: %w", err)
	}
	return nil
}

func (q *UserQueries) UpdateStreak(ctx context.Context, id uuid.UUID, s models.Streak) error {
	res, err := q.DB.ExecContext(ctx,
		`UPDATE users SET streak_current = $1, streak_last_log = $2, updated_at = now() WHERE id = $3`,
		s.Current, s.LastLogDate, id)
	if err != nil {
		return fmt.Errorf("unable to update streak, DB error: %w", err)
	}
	if rows, _ := res.RowsAffected(); rows == 0 {
		return ErrNotFound
	}
	return nil
}

// PushMissionRequest adds missionID to the user's pending requests, ignoring duplicates.
func (q *UserQueries) PushMissionRequest(ctx context.Context, id uuid.UUID, missionID string) error {
	_, err := q.DB.ExecContext(ctx, `
		UPDATE users SET mission_requests = array_append(mission_requests, $1), updated_at = now()
		WHERE id = $2 AND NOT ($1 = ANY (mission_requests))
	`, missionID, id)
	if err != nil {
		return fmt.Errorf("unable to push mission request, DB error: %w", err)
	}
	return nil
}

func (q *UserQueries) PullMissionRequest(ctx context.Context, id uuid.UUID, missionID string) error {
	_, err := q.DB.ExecContext(ctx, `
		UPDATE users SET mission_requests = array_remove(mission_requests, $1), updated_at = now()
		WHERE id = $2
	`, missionID, id)
	if err != nil {
		return fmt.Errorf("unable to pull mission request, DB error: %w", err)
	}
	return nil
}

func (q *UserQueries) MutateUser(ctx context.Context, id uuid.UUID, fn func(u *models.User) error) (*models.User, error) {
	tx, err := q.DB.BeginTxx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("unable to start transaction: %w", err)
	}
	defer tx.Rollback()

	var u models.User
	if err := tx.GetContext(ctx, &u, `SELECT `+userColumns+` FROM users WHERE id = $1 FOR UPDATE`, id); err != nil {
		return nil, notFound(err)
	}
	if err := fn(&u); err != nil {
		return nil, err
	}

	err = tx.QueryRowxContext(ctx, `
		UPDATE users SET coins = $1, game_coins = $2, xp = $3, level = $4, inventory = $5,
			avatar = $6, frame = $7, title = $8, theme = $9, pet = $10, updated_at = now()
		WHERE id = $11
		RETURNING updated_at
	`, u.Coins, u.GameCoins, u.XP, u.Level, u.Inventory, u.Avatar, u.Frame, u.Title, u.Theme, u.Pet, id).Scan(&u.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("unable to update user, DB error: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("unable to commit transaction: %w", err)
	}
	return &u, nil
}

// getProfiles resolves the lightweight profile of every id in ids, keyed by id. Unknown ids are skipped.
func getProfiles(ctx context.Context, db sqlx.QueryerContext, ids []string) (map[string]models.ParticipantProfile, error) {
	out := make(map[string]models.ParticipantProfile, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	var profiles []models.ParticipantProfile
	err := sqlx.SelectContext(ctx, db, &profiles,
		`SELECT id::text AS id, username, avatar FROM users WHERE id::text = ANY ($1)`, pq.Array(ids))
	if err != nil {
		return nil, err
	}
	for _, p := range profiles {
		out[p.ID] = p
	}
	return out, nil
}

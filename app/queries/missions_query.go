package queries

import (
	"context"
	"fmt"
	"time"

	"github.com/Mariolucas03/Kairos/app/models"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

type MissionsQueries struct {
	DB *sqlx.DB
}

const missionColumns = `id, owner_id, participants, title, type, difficulty, frequency, specific_days, target, progress,
	unit, completed, last_updated, is_coop, invitation_status, contributions, xp_reward, coin_reward,
	game_coin_reward, version, created_at, updated_at`

// memberFilter matches a canonical user id against the owner column and every participant entry,
// tolerating legacy rows that stored ids upper-cased or padded.
const memberFilter = `(owner_id = $1 OR $1 = ANY (participants)
	OR lower(trim(owner_id)) = $1
	OR EXISTS (SELECT 1 FROM unnest(participants) p WHERE lower(trim(p)) = $1))`

func (q *MissionsQueries) ListForUser(ctx context.Context, userID string) ([]*models.Mission, error) {
	missions := []*models.Mission{}
	err := q.DB.SelectContext(ctx, &missions, `
		SELECT `+missionColumns+` FROM missions
		WHERE `+memberFilter+`
		ORDER BY completed ASC, created_at DESC
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("unable to list missions, DB error: %w", err)
	}

	ids := []string{}
	seen := map[string]bool{}
	for _, m := range missions {
		for _, p := range m.Participants {
			if !seen[p] {
				seen[p] = true
				ids = append(ids, p)
			}
		}
	}
	profiles, err := getProfiles(ctx, q.DB, ids)
	if err != nil {
		return nil, fmt.Errorf("unable to load participant profiles, DB error: %w", err)
	}
	for _, m := range missions {
		m.ParticipantProfiles = make([]models.ParticipantProfile, 0, len(m.Participants))
		for _, p := range m.Participants {
			if prof, ok := profiles[p]; ok {
				m.ParticipantProfiles = append(m.ParticipantProfiles, prof)
			}
		}
	}
	return missions, nil
}

func (q *MissionsQueries) GetMission(ctx context.Context, id uuid.UUID) (*models.Mission, error) {
	var m models.Mission
	if err := q.DB.GetContext(ctx, &m, `SELECT `+missionColumns+` FROM missions WHERE id = $1`, id); err != nil {
		return nil, notFound(err)
	}
	return &m, nil
}

func (q *MissionsQueries) CreateMission(ctx context.Context, m *models.Mission) error {
	m.Version = 1
	_, err := q.DB.NamedExecContext(ctx, `
		INSERT INTO missions (`+missionColumns+`)
		VALUES (:id, :owner_id, :participants, :title, :type, :difficulty, :frequency, :specific_days, :target,
			:progress, :unit, :completed, :last_updated, :is_coop, :invitation_status, :contributions, :xp_reward,
			:coin_reward, :game_coin_reward, :version, :created_at, :updated_at)
	`, m)
	if err != nil {
		return fmt.Errorf("unable to create mission, DB error: %w", err)
	}
	return nil
}

// UpdateMission is a compare-and-swap on (id, version).
func (q *MissionsQueries) UpdateMission(ctx context.Context, m *models.Mission) error {
	res, err := q.DB.NamedExecContext(ctx, `
		UPDATE missions SET
			participants = :participants, title = :title, type = :type, difficulty = :difficulty,
			frequency = :frequency, specific_days = :specific_days, target = :target, progress = :progress,
			unit = :unit, completed = :completed, last_updated = :last_updated, is_coop = :is_coop,
			invitation_status = :invitation_status, contributions = :contributions, xp_reward = :xp_reward,
			coin_reward = :coin_reward, game_coin_reward = :game_coin_reward,
			version = version + 1, updated_at = now()
		WHERE id = :id AND version = :version
	`, m)
	if err != nil {
		return fmt.Errorf("unable to update mission, DB error: %w", err)
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		var exists bool
		if err := q.DB.GetContext(ctx, &exists, `SELECT EXISTS (SELECT 1 FROM missions WHERE id = $1)`, m.ID); err != nil {
			return err
		}
		if !exists {
			return ErrNotFound
		}
		return ErrConflict
	}
	m.Version++
	return nil
}

func (q *MissionsQueries) DeleteMission(ctx context.Context, id uuid.UUID) error {
	res, err := q.DB.ExecContext(ctx, `DELETE FROM missions WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("unable to delete mission, DB error: %w", err)
	}
	if rows, _ := res.RowsAffected(); rows == 0 {
		return ErrNotFound
	}
	return nil
}

func (q *MissionsQueries) DeleteMissionsForUser(ctx context.Context, userID string) (int64, error) {
	res, err := q.DB.ExecContext(ctx, `DELETE FROM missions WHERE `+memberFilter, userID)
	if err != nil {
		return 0, fmt.Errorf("unable to purge missions, DB error: %w", err)
	}
	return res.RowsAffected()
}

func (q *MissionsQueries) FindLinked(ctx context.Context, ownerID string, exclude uuid.UUID, title, unit string) ([]*models.Mission, error) {
	missions := []*models.Mission{}
	err := q.DB.SelectContext(ctx, &missions, `
		SELECT `+missionColumns+` FROM missions
		WHERE lower(trim(owner_id)) = $1 AND title = $2 AND unit = $3 AND id <> $4 AND NOT completed
		ORDER BY created_at ASC
	`, ownerID, title, unit, exclude)
	if err != nil {
		return nil, fmt.Errorf("unable to find linked missions, DB error: %w", err)
	}
	return missions, nil
}

// CountApplicable counts the daily missions that apply to a weekday: not waiting on an invitation,
// and either scheduled every day or explicitly on that weekday.
func (q *MissionsQueries) CountApplicable(ctx context.Context, userID string, weekday int) (int, error) {
	var n int
	err := q.DB.GetContext(ctx, &n, `
		SELECT count(*) FROM missions
		WHERE `+memberFilter+`
		  AND frequency = 'daily'
		  AND NOT (is_coop AND invitation_status = 'pending')
		  AND (cardinality(specific_days) = 0 OR $2 = ANY (specific_days))
	`, userID, weekday)
	if err != nil {
		return 0, fmt.Errorf("unable to count missions, DB error: %w", err)
	}
	return n, nil
}

func (q *MissionsQueries) ListStaleDailyHabits(ctx context.Context, before time.Time) ([]*models.Mission, error) {
	missions := []*models.Mission{}
	err := q.DB.SelectContext(ctx, &missions, `
		SELECT `+missionColumns+` FROM missions
		WHERE type = 'habit' AND frequency = 'daily' AND completed AND last_updated < $1
	`, before)
	if err != nil {
		return nil, fmt.Errorf("unable to list stale habits, DB error: %w", err)
	}
	return missions, nil
}

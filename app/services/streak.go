package services

import (
	"context"
	"time"

	"github.com/Mariolucas03/Kairos/app/models"
	"github.com/Mariolucas03/Kairos/pkg/utils"
	"github.com/google/uuid"
)

// AdvanceStreak moves a login streak forward to now. Same day: unchanged. Yesterday: +1. Older or never: back
// to 1. A last date ahead of today (clock skew) is left alone.
func AdvanceStreak(s models.Streak, now time.Time, loc *time.Location) (models.Streak, bool) {
	stamp := now
	if s.LastLogDate == nil {
		return models.Streak{Current: 1, LastLogDate: &stamp}, true
	}
	today := utils.DateKey(now, loc)
	last := utils.DateKey(*s.LastLogDate, loc)
	yesterday := utils.PreviousDateKey(now, loc)

	switch {
	case last == today:
		return s, false
	case last == yesterday:
		return models.Streak{Current: s.Current + 1, LastLogDate: &stamp}, true
	case last < yesterday:
		return models.Streak{Current: 1, LastLogDate: &stamp}, true
	default:
		return s, false
	}
}

type StreakService struct {
	Users UserStore
	Loc   *time.Location
	Now   func() time.Time
}

// Touch reloads the user, advances the streak and persists it when it moved.
func (s *StreakService) Touch(ctx context.Context, userID uuid.UUID) (*models.User, error) {
	u, err := s.Users.GetUserByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	now := time.Now()
	if s.Now != nil {
		now = s.Now()
	}
	next, changed := AdvanceStreak(u.Streak(), now, s.Loc)
	if !changed {
		return u, nil
	}
	if err := s.Users.UpdateStreak(ctx, u.ID, next); err != nil {
		return nil, err
	}
	u.SetStreak(next)
	return u, nil
}

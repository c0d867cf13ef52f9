package services

import (
	"context"

	"github.com/Mariolucas03/Kairos/app/models"
	"github.com/google/uuid"
)

// xpPerLevel is the XP it takes to leave level 1; leaving level L costs L times that.
const xpPerLevel = 100

type LevelService struct {
	Users UserStore
}

type LevelResult struct {
	User      *models.User
	LeveledUp bool
}

// AddRewards credits a reward to one user inside a row lock and applies the level curve.
func (s *LevelService) AddRewards(ctx context.Context, userID uuid.UUID, r models.RewardBreakdown) (*LevelResult, error) {
	leveled := false
	u, err := s.Users.MutateUser(ctx, userID, func(u *models.User) error {
		u.XP += r.XP
		u.Coins += r.Coins
		u.GameCoins += r.GameCoins
		leveled = applyLevelCurve(u)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &LevelResult{User: u, LeveledUp: leveled}, nil
}

// applyLevelCurve converts banked XP into levels, carrying the surplus, and reports whether the level rose.
func applyLevelCurve(u *models.User) bool {
	if u.Level < 1 {
		u.Level = 1
	}
	if u.XP < 0 {
		u.XP = 0
	}
	start := u.Level
	for u.XP >= u.Level*xpPerLevel {
		u.XP -= u.Level * xpPerLevel
		u.Level++
	}
	return u.Level > start
}

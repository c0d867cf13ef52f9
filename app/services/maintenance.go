package services

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2/log"
)

type MaintenanceService struct {
	Missions MissionStore
	Loc      *time.Location
	Now      func() time.Time
}

// RunNightly re-arms every completed daily habit last touched before today. Missions that fail to save are
// logged and left for the lazy reset on their next read.
func (s *MaintenanceService) RunNightly(ctx context.Context) (int, error) {
	now := time.Now()
	if s.Now != nil {
		now = s.Now()
	}
	local := now.In(s.Loc)
	startOfDay := time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, s.Loc)

	stale, err := s.Missions.ListStaleDailyHabits(ctx, startOfDay)
	if err != nil {
		return 0, err
	}
	reset := 0
	for _, m := range stale {
		if err := ctx.Err(); err != nil {
			return reset, err
		}
		canonicalizeMission(m)
		ResetMission(m)
		if err := s.Missions.UpdateMission(ctx, m); err != nil {
			log.Warnw("nightly reset skipped", "mission", m.ID, "error", err)
			continue
		}
		reset++
	}
	log.Infow("nightly maintenance finished", "candidates", len(stale), "reset", reset)
	return reset, nil
}

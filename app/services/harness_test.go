package services

import (
	"context"
	"time"

	"github.com/Mariolucas03/Kairos/app/models"
	"github.com/Mariolucas03/Kairos/app/services/memstore"
	"github.com/Mariolucas03/Kairos/pkg/utils"
	"github.com/google/uuid"
	"github.com/lib/pq"
)

type fakeAnalyzer struct {
	estimate *models.FoodEstimate
	err      error
}

func (f *fakeAnalyzer) Analyze(_ context.Context, _ string) (*models.FoodEstimate, error) {
	return f.estimate, f.err
}

// harness wires every service over fresh in-memory stores with a fixed clock.
type harness struct {
	now       time.Time
	loc       *time.Location
	users     *memstore.Users
	missions  *memstore.Missions
	logs      *memstore.DailyLogs
	nutrition *memstore.Nutrition
	foods     *memstore.Foods
	shop      *memstore.Shop
	svc       *Services
}

var testLoc = time.FixedZone("CET", 3600)

func newHarness(now time.Time, users ...*models.User) *harness {
	h := &harness{
		now:       now,
		loc:       testLoc,
		users:     memstore.NewUsers(users...),
		missions:  memstore.NewMissions(),
		logs:      memstore.NewDailyLogs(),
		nutrition: memstore.NewNutrition(),
		foods:     &memstore.Foods{},
		shop:      &memstore.Shop{},
	}
	h.svc = New(Stores{
		Users:     h.users,
		Missions:  h.missions,
		DailyLogs: h.logs,
		Nutrition: h.nutrition,
		Foods:     h.foods,
		Shop:      h.shop,
	}, Options{
		Location: testLoc,
		Now:      func() time.Time { return h.now },
		Secret:   "test-secret",
		TokenTTL: time.Hour,
	})
	h.svc.Auth.HashCost = 4
	return h
}

func (h *harness) today() string {
	return utils.DateKey(h.now, h.loc)
}

func newUser(name string) *models.User {
	return &models.User{
		ID:              uuid.New(),
		Username:        name,
		Email:           name + "@example.com",
		Level:           1,
		GameCoins:       500,
		StreakCurrent:   1,
		MissionRequests: pq.StringArray{},
		Inventory:       models.Inventory{},
	}
}

func (h *harness) seedMission(m *models.Mission) *models.Mission {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	if m.CreatedAt.IsZero() {
		m.CreatedAt = h.now.Add(-time.Hour)
	}
	h.missions.Seed(m)
	return m
}

func soloMission(owner *models.User, title, unit string, target float64) *models.Mission {
	m := &models.Mission{
		OwnerID:          owner.ID.String(),
		Participants:     pq.StringArray{owner.ID.String()},
		Title:            title,
		Type:             models.TypeHabit,
		Difficulty:       models.DifficultyEasy,
		Frequency:        models.FrequencyDaily,
		SpecificDays:     pq.Int64Array{},
		Target:           target,
		Unit:             unit,
		InvitationStatus: models.InvitationNone,
		Contributions:    models.Contributions{owner.ID.String(): 0},
	}
	applyRewards(m)
	return m
}

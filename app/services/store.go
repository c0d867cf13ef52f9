package services

import (
	"context"
	"time"

	"github.com/Mariolucas03/Kairos/app/models"
	"github.com/google/uuid"
)

// UserStore is the persistence surface the services need for users. app/queries.UserQueries implements it.
type UserStore interface {
	GetUserByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	GetUserByUsername(ctx context.Context, username string) (*models.User, error)
	IsUserExists(ctx context.Context, username, email string) (bool, error)
	CreateUser(ctx context.Context, u *models.User) error
	UpdateStreak(ctx context.Context, id uuid.UUID, s models.Streak) error
	PushMissionRequest(ctx context.Context, id uuid.UUID, missionID string) error
	PullMissionRequest(ctx context.Context, id uuid.UUID, missionID string) error
	// MutateUser loads the row under a lock, lets fn change it and writes balances, level and cosmetics back.
	MutateUser(ctx context.Context, id uuid.UUID, fn func(u *models.User) error) (*models.User, error)
}

type MissionStore interface {
	// ListForUser returns every mission the user owns or participates in, incomplete first then newest.
	ListForUser(ctx context.Context, userID string) ([]*models.Mission, error)
	GetMission(ctx context.Context, id uuid.UUID) (*models.Mission, error)
	CreateMission(ctx context.Context, m *models.Mission) error
	// UpdateMission writes m if its version still matches and bumps m.Version; a stale version yields ErrConflict.
	UpdateMission(ctx context.Context, m *models.Mission) error
	DeleteMission(ctx context.Context, id uuid.UUID) error
	DeleteMissionsForUser(ctx context.Context, userID string) (int64, error)
	// FindLinked returns the owner's other incomplete missions sharing title and unit.
	FindLinked(ctx context.Context, ownerID string, exclude uuid.UUID, title, unit string) ([]*models.Mission, error)
	CountApplicable(ctx context.Context, userID string, weekday int) (int, error)
	// ListStaleDailyHabits returns completed daily habits last touched before the given instant.
	ListStaleDailyHabits(ctx context.Context, before time.Time) ([]*models.Mission, error)
}

type DailyLogStore interface {
	// FindOrCreateDailyLog inserts seed unless a log already exists for (user, date) and returns the stored row.
	FindOrCreateDailyLog(ctx context.Context, seed *models.DailyLog) (*models.DailyLog, error)
	GetDailyLog(ctx context.Context, userID uuid.UUID, date string) (*models.DailyLog, error)
	SaveDailyLog(ctx context.Context, l *models.DailyLog) error
	// AppendCompletion atomically bumps missionStats.completed and appends entry to the list.
	AppendCompletion(ctx context.Context, userID uuid.UUID, date string, entry models.CompletedMission) error
	PriorWeight(ctx context.Context, userID uuid.UUID, date string) (float64, error)
	WeightHistory(ctx context.Context, userID uuid.UUID) ([]models.WeightPoint, error)
	SetTotalKcal(ctx context.Context, userID uuid.UUID, date string, kcal int) error
}

type NutritionStore interface {
	FindOrCreateNutritionLog(ctx context.Context, seed *models.NutritionLog) (*models.NutritionLog, error)
	GetNutritionLog(ctx context.Context, userID uuid.UUID, date string) (*models.NutritionLog, error)
	SaveNutritionLog(ctx context.Context, l *models.NutritionLog) error
}

type FoodStore interface {
	SearchFoods(ctx context.Context, userID uuid.UUID, query string, limit int) ([]models.Food, error)
	ListSavedFoods(ctx context.Context, userID uuid.UUID, limit int) ([]models.Food, error)
	GetFood(ctx context.Context, id uuid.UUID) (*models.Food, error)
	CreateFood(ctx context.Context, f *models.Food) error
	UpdateFood(ctx context.Context, f *models.Food) error
	DeleteFood(ctx context.Context, id uuid.UUID) error
}

type ShopStore interface {
	CountSystemItems(ctx context.Context) (int, error)
	InsertShopItems(ctx context.Context, items []models.ShopItem) error
	ListShopItems(ctx context.Context, userID uuid.UUID) ([]models.ShopItem, error)
	GetShopItem(ctx context.Context, id uuid.UUID) (*models.ShopItem, error)
	CreateShopItem(ctx context.Context, item *models.ShopItem) error
}

// FoodAnalyzer estimates macros from a free-text meal description.
type FoodAnalyzer interface {
	Analyze(ctx context.Context, text string) (*models.FoodEstimate, error)
}

package models

import (
	"database/sql/driver"
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

type DailyLog struct {
	ID            uuid.UUID        `json:"id" db:"id"`
	UserID        uuid.UUID        `json:"user" db:"user_id"`
	Date          string           `json:"date" db:"date"`
	Weight        float64          `json:"weight" db:"weight"`
	Mood          string           `json:"mood" db:"mood"`
	SleepHours    float64          `json:"sleepHours" db:"sleep_hours"`
	Steps         int              `json:"steps" db:"steps"`
	Notes         string           `json:"notes" db:"notes"`
	StreakCurrent int              `json:"streakCurrent" db:"streak_current"`
	SportWorkouts RawJSON          `json:"sportWorkouts" db:"sport_workouts"`
	GymWorkouts   RawJSON          `json:"gymWorkouts" db:"gym_workouts"`
	Nutrition     NutritionSummary `json:"nutrition" db:"nutrition"`
	MissionStats  MissionStats     `json:"missionStats" db:"mission_stats"`
	Gains         Gains            `json:"gains" db:"gains"`
	CreatedAt     time.Time        `json:"createdAt" db:"created_at"`
	UpdatedAt     time.Time        `json:"updatedAt" db:"updated_at"`
}

type NutritionSummary struct {
	TotalKcal    int     `json:"totalKcal"`
	GoalKcal     int     `json:"goalKcal,omitempty"`
	WaterLiters  float64 `json:"waterLiters,omitempty"`
	TotalProtein int     `json:"totalProtein,omitempty"`
	TotalCarbs   int     `json:"totalCarbs,omitempty"`
	TotalFat     int     `json:"totalFat,omitempty"`
	TotalFiber   int     `json:"totalFiber,omitempty"`
	Meals        []Meal  `json:"meals,omitempty"`
}

func (n NutritionSummary) Value() (driver.Value, error) {
	// meal detail is owned by the nutrition log and never persisted here
	n.Meals = nil
	return jsonValue(n)
}

func (n *NutritionSummary) Scan(src interface{}) error {
	return scanJSON(src, n)
}

type CompletedMission struct {
	Title      string `json:"title"`
	XPReward   int    `json:"xpReward"`
	CoinReward int    `json:"coinReward"`
	Type       string `json:"type"`
}

type MissionStats struct {
	Completed     int                `json:"completed"`
	Total         int                `json:"total"`
	ListCompleted []CompletedMission `json:"listCompleted"`
}

func (s MissionStats) Value() (driver.Value, error) {
	if s.ListCompleted == nil {
		s.ListCompleted = []CompletedMission{}
	}
	return jsonValue(s)
}

func (s *MissionStats) Scan(src interface{}) error {
	return scanJSON(src, s)
}

type Gains struct {
	Coins int `json:"coins"`
	XP    int `json:"xp"`
	Lives int `json:"lives"`
}

func (g Gains) Value() (driver.Value, error) {
	return jsonValue(g)
}

func (g *Gains) Scan(src interface{}) error {
	return scanJSON(src, g)
}

type WeightPoint struct {
	Date   string  `json:"date" db:"date"`
	Weight float64 `json:"weight" db:"weight"`
}

type UpdateDailyLogRequest struct {
	Type  string          `json:"type" validate:"required"`
	Value json.RawMessage `json:"value"`
	Date  string          `json:"date"`
}

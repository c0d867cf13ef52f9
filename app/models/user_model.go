package models

import (
	"database/sql/driver"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

type User struct {
	ID              uuid.UUID      `json:"id" db:"id"`
	Username        string         `json:"username" db:"username"`
	Email           string         `json:"email" db:"email"`
	PasswordHash    string         `json:"-" db:"password_hash"`
	Avatar          string         `json:"avatar,omitempty" db:"avatar"`
	Frame           string         `json:"frame,omitempty" db:"frame"`
	Title           string         `json:"title,omitempty" db:"title"`
	Theme           string         `json:"theme,omitempty" db:"theme"`
	Pet             string         `json:"pet,omitempty" db:"pet"`
	Coins           int            `json:"coins" db:"coins"`
	GameCoins       int            `json:"gameCoins" db:"game_coins"`
	XP              int            `json:"xp" db:"xp"`
	Level           int            `json:"level" db:"level"`
	StreakCurrent   int            `json:"streakCurrent" db:"streak_current"`
	StreakLastLog   *time.Time     `json:"streakLastLogDate,omitempty" db:"streak_last_log"`
	MissionRequests pq.StringArray `json:"missionRequests" db:"mission_requests"`
	Inventory       Inventory      `json:"inventory" db:"inventory"`
	CreatedAt       time.Time      `json:"createdAt" db:"created_at"`
	UpdatedAt       time.Time      `json:"updatedAt" db:"updated_at"`
}

// Streak is the login streak pair the streak middleware advances.
type Streak struct {
	Current     int        `json:"current"`
	LastLogDate *time.Time `json:"lastLogDate,omitempty"`
}

func (u *User) Streak() Streak {
	return Streak{Current: u.StreakCurrent, LastLogDate: u.StreakLastLog}
}

func (u *User) SetStreak(s Streak) {
	u.StreakCurrent = s.Current
	u.StreakLastLog = s.LastLogDate
}

// ParticipantProfile is the lightweight projection attached to listed missions.
type ParticipantProfile struct {
	ID       string `json:"id" db:"id"`
	Username string `json:"username" db:"username"`
	Avatar   string `json:"avatar,omitempty" db:"avatar"`
}

type InventoryEntry struct {
	ItemID   uuid.UUID `json:"item"`
	Quantity int       `json:"quantity"`
}

type Inventory []InventoryEntry

func (inv Inventory) Value() (driver.Value, error) {
	if inv == nil {
		return "[]", nil
	}
	return jsonValue(inv)
}

func (inv *Inventory) Scan(src interface{}) error {
	return scanJSON(src, inv)
}

// Find returns the index of the entry holding itemID, or -1.
func (inv Inventory) Find(itemID uuid.UUID) int {
	for i, e := range inv {
		if e.ItemID == itemID {
			return i
		}
	}
	return -1
}

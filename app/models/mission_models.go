package models

import (
	"database/sql/driver"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

const (
	TypeHabit = "habit"
	TypeQuest = "quest"

	FrequencyDaily   = "daily"
	FrequencyWeekly  = "weekly"
	FrequencyMonthly = "monthly"
	FrequencyYearly  = "yearly"

	DifficultyEasy   = "easy"
	DifficultyMedium = "medium"
	DifficultyHard   = "hard"
	DifficultyEpic   = "epic"

	InvitationNone    = "none"
	InvitationPending = "pending"
	InvitationActive  = "active"
)

type Mission struct {
	ID               uuid.UUID      `json:"id" db:"id"`
	OwnerID          string         `json:"user" db:"owner_id"`
	Participants     pq.StringArray `json:"participants" db:"participants"`
	Title            string         `json:"title" db:"title"`
	Type             string         `json:"type" db:"type"`
	Difficulty       string         `json:"difficulty" db:"difficulty"`
	Frequency        string         `json:"frequency" db:"frequency"`
	SpecificDays     pq.Int64Array  `json:"specificDays" db:"specific_days"`
	Target           float64        `json:"target" db:"target"`
	Progress         float64        `json:"progress" db:"progress"`
	Unit             string         `json:"unit" db:"unit"`
	Completed        bool           `json:"completed" db:"completed"`
	LastUpdated      time.Time      `json:"lastUpdated" db:"last_updated"`
	IsCoop           bool           `json:"isCoop" db:"is_coop"`
	InvitationStatus string         `json:"invitationStatus" db:"invitation_status"`
	Contributions    Contributions  `json:"contributions" db:"contributions"`
	XPReward         int            `json:"xpReward" db:"xp_reward"`
	CoinReward       int            `json:"coinReward" db:"coin_reward"`
	GameCoinReward   int            `json:"gameCoinReward" db:"game_coin_reward"`
	Version          int            `json:"-" db:"version"`
	CreatedAt        time.Time      `json:"createdAt" db:"created_at"`
	UpdatedAt        time.Time      `json:"updatedAt" db:"updated_at"`

	ParticipantProfiles []ParticipantProfile `json:"participantProfiles,omitempty" db:"-"`
}

// Clone returns a deep copy so callers can mutate without aliasing slices or the contributions map.
func (m *Mission) Clone() *Mission {
	cp := *m
	cp.Participants = append(pq.StringArray(nil), m.Participants...)
	cp.SpecificDays = append(pq.Int64Array(nil), m.SpecificDays...)
	if m.Contributions != nil {
		cp.Contributions = make(Contributions, len(m.Contributions))
		for k, v := range m.Contributions {
			cp.Contributions[k] = v
		}
	}
	cp.ParticipantProfiles = append([]ParticipantProfile(nil), m.ParticipantProfiles...)
	return &cp
}

// HasParticipant reports whether the canonical id is in the participant set.
func (m *Mission) HasParticipant(id string) bool {
	for _, p := range m.Participants {
		if p == id {
			return true
		}
	}
	return false
}

// Contributions maps a canonical participant id to the amount that participant added.
type Contributions map[string]float64

func (c Contributions) Value() (driver.Value, error) {
	if c == nil {
		return nil, nil
	}
	return jsonValue(c)
}

func (c *Contributions) Scan(src interface{}) error {
	if src == nil {
		*c = nil
		return nil
	}
	return scanJSON(src, c)
}

type CreateMissionRequest struct {
	Title        string      `json:"title"`
	Frequency    string      `json:"frequency" validate:"omitempty,oneof=daily weekly monthly yearly"`
	Type         string      `json:"type" validate:"omitempty,oneof=habit quest"`
	Difficulty   string      `json:"difficulty" validate:"omitempty,oneof=easy medium hard epic"`
	Target       interface{} `json:"target"`
	SpecificDays []int64     `json:"specificDays" validate:"omitempty,dive,min=0,max=6"`
	Unit         string      `json:"unit"`
	IsCoop       bool        `json:"isCoop"`
	FriendID     string      `json:"friendId"`
}

type EditMissionRequest struct {
	Title        *string     `json:"title"`
	Target       interface{} `json:"target"`
	Frequency    *string     `json:"frequency" validate:"omitempty,oneof=daily weekly monthly yearly"`
	Difficulty   *string     `json:"difficulty" validate:"omitempty,oneof=easy medium hard epic"`
	Unit         *string     `json:"unit"`
	SpecificDays []int64     `json:"specificDays" validate:"omitempty,dive,min=0,max=6"`
}

type ProgressRequest struct {
	Amount   interface{} `json:"amount"`
	EditMode bool        `json:"editMode"`
	EditMissionRequest
}

type RespondInviteRequest struct {
	MissionID string `json:"missionId" validate:"required"`
	Action    string `json:"action" validate:"required,oneof=accept reject"`
}

type RewardBreakdown struct {
	XP        int `json:"xp"`
	Coins     int `json:"coins"`
	GameCoins int `json:"gameCoins"`
}

package services

import (
	"errors"
	"time"

	"github.com/Mariolucas03/Kairos/app/models"
	"github.com/Mariolucas03/Kairos/pkg/utils"
	"github.com/lib/pq"
)

var errMalformedMission = errors.New("mission has no contributions map")

type HabitState int

const (
	// StateArmed accepts progress.
	StateArmed HabitState = iota
	// StateCompletedToday rejects progress until the day rolls over.
	StateCompletedToday
	// StateStaleCompleted was completed on a previous day and is due a reset.
	StateStaleCompleted
)

// ClassifyMission places m in the habit state machine relative to now's calendar day in loc.
func ClassifyMission(m *models.Mission, now time.Time, loc *time.Location) HabitState {
	if !m.Completed {
		return StateArmed
	}
	if utils.SameDay(m.LastUpdated, now, loc) {
		return StateCompletedToday
	}
	return StateStaleCompleted
}

// ResetMission re-arms a mission: zero progress, not completed, every contribution zeroed.
func ResetMission(m *models.Mission) {
	m.Progress = 0
	m.Completed = false
	if m.Contributions == nil {
		m.Contributions = models.Contributions{}
	}
	for k := range m.Contributions {
		m.Contributions[k] = 0
	}
	for _, p := range m.Participants {
		m.Contributions[p] = 0
	}
}

// ReconcileDaily applies the lazy once-a-day reset to completed daily habits and reports whether m changed.
// A mission without a contributions map is left untouched and reported as malformed.
func ReconcileDaily(m *models.Mission, now time.Time, loc *time.Location) (bool, error) {
	if m.Type != models.TypeHabit || m.Frequency != models.FrequencyDaily {
		return false, nil
	}
	if ClassifyMission(m, now, loc) != StateStaleCompleted {
		return false, nil
	}
	if m.Contributions == nil {
		return false, errMalformedMission
	}
	ResetMission(m)
	return true, nil
}

// canonicalizeMission rewrites owner, participants and contribution keys into canonical id form.
// Contributions stored under two spellings of the same id are summed.
func canonicalizeMission(m *models.Mission) {
	if id, err := utils.NormalizeID(m.OwnerID); err == nil {
		m.OwnerID = id
	}
	participants := make([]string, 0, len(m.Participants)+1)
	participants = append(participants, m.Participants...)
	m.Participants = pq.StringArray(utils.NormalizeIDs(participants))
	if m.OwnerID != "" && !m.HasParticipant(m.OwnerID) {
		m.Participants = append(pq.StringArray{m.OwnerID}, m.Participants...)
	}
	if m.Contributions == nil {
		return
	}
	rekeyed := make(models.Contributions, len(m.Contributions))
	for k, v := range m.Contributions {
		id, err := utils.NormalizeID(k)
		if err != nil {
			id = k
		}
		rekeyed[id] += v
	}
	m.Contributions = rekeyed
}

func isMember(m *models.Mission, userID string) bool {
	return m.OwnerID == userID || m.HasParticipant(userID)
}

// addProgress accumulates amount for actor, clamps progress into [0, target] and reports whether
// this call completed the mission.
func addProgress(m *models.Mission, actor string, amount float64, now time.Time) bool {
	if m.Contributions == nil {
		m.Contributions = models.Contributions{}
	}
	m.Progress += amount
	if m.Progress < 0 {
		m.Progress = 0
	}
	m.Contributions[actor] += amount
	if m.Contributions[actor] < 0 {
		m.Contributions[actor] = 0
	}
	m.LastUpdated = now
	if m.Progress >= m.Target {
		m.Progress = m.Target
		m.Completed = true
		return true
	}
	return false
}

func completionEntry(m *models.Mission) models.CompletedMission {
	return models.CompletedMission{
		Title:      m.Title,
		XPReward:   m.XPReward,
		CoinReward: m.CoinReward,
		Type:       m.Type,
	}
}

package services

import (
	"math"

	"github.com/Mariolucas03/Kairos/app/models"
)

type rewardBase struct {
	xp, gameCoins, coins float64
}

var rewardTable = map[string]rewardBase{
	models.DifficultyEasy:   {xp: 50, gameCoins: 100, coins: 10},
	models.DifficultyMedium: {xp: 75, gameCoins: 150, coins: 30},
	models.DifficultyHard:   {xp: 100, gameCoins: 200, coins: 50},
	models.DifficultyEpic:   {xp: 150, gameCoins: 250, coins: 70},
}

var frequencyMultipliers = map[string]float64{
	models.FrequencyDaily:   1,
	models.FrequencyWeekly:  5,
	models.FrequencyMonthly: 15,
	models.FrequencyYearly:  100,
}

const coopMultiplier = 1.5

// CalculateRewards maps difficulty, frequency and the cooperative flag to a reward. Unknown
// difficulties price as easy and unknown frequencies as daily.
func CalculateRewards(difficulty, frequency string, isCoop bool) models.RewardBreakdown {
	base, ok := rewardTable[difficulty]
	if !ok {
		base = rewardTable[models.DifficultyEasy]
	}
	mult, ok := frequencyMultipliers[frequency]
	if !ok {
		mult = 1
	}
	if isCoop {
		mult *= coopMultiplier
	}
	return models.RewardBreakdown{
		XP:        int(math.Round(base.xp * mult)),
		Coins:     int(math.Round(base.coins * mult)),
		GameCoins: int(math.Round(base.gameCoins * mult)),
	}
}

func applyRewards(m *models.Mission) {
	r := CalculateRewards(m.Difficulty, m.Frequency, m.IsCoop)
	m.XPReward = r.XP
	m.CoinReward = r.Coins
	m.GameCoinReward = r.GameCoins
}

func missionReward(m *models.Mission) models.RewardBreakdown {
	return models.RewardBreakdown{XP: m.XPReward, Coins: m.CoinReward, GameCoins: m.GameCoinReward}
}

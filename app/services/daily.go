package services

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/Mariolucas03/Kairos/app/models"
	"github.com/Mariolucas03/Kairos/pkg/utils"
	"github.com/gofiber/fiber/v2/log"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

type DailyService struct {
	Missions  MissionStore
	Logs      DailyLogStore
	Nutrition NutritionStore
	Loc       *time.Location
	Now       func() time.Time
}

func (s *DailyService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

// Today is the current date key in the app timezone.
func (s *DailyService) Today() string {
	return utils.DateKey(s.now(), s.Loc)
}

// resolveDate defaults an empty date to today and validates anything else.
func (s *DailyService) resolveDate(date string) (string, error) {
	if date == "" {
		return s.Today(), nil
	}
	if _, err := utils.ParseDateKey(date, s.Loc); err != nil {
		return "", invalid(err.Error())
	}
	return date, nil
}

// EnsureDailyLog finds or creates the (user, date) log and heals its mission total and kcal against the
// live sources. It writes only when something drifted.
func (s *DailyService) EnsureDailyLog(ctx context.Context, userID uuid.UUID, date string, streak int) (*models.DailyLog, *models.NutritionLog, error) {
	weekday, err := utils.Weekday(date, s.Loc)
	if err != nil {
		return nil, nil, invalid(err.Error())
	}

	var (
		applicable int
		weight     float64
		nutrition  *models.NutritionLog
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		n, err := s.Missions.CountApplicable(gctx, userID.String(), weekday)
		applicable = n
		return err
	})
	g.Go(func() error {
		w, err := s.Logs.PriorWeight(gctx, userID, date)
		weight = w
		return err
	})
	g.Go(func() error {
		nl, err := s.Nutrition.GetNutritionLog(gctx, userID, date)
		if errors.Is(err, ErrNotFound) {
			return nil
		}
		nutrition = nl
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}

	kcal := 0
	if nutrition != nil {
		kcal = nutrition.TotalCalories
	}

	now := s.now()
	l, err := s.Logs.FindOrCreateDailyLog(ctx, &models.DailyLog{
		ID:            uuid.New(),
		UserID:        userID,
		Date:          date,
		Weight:        weight,
		StreakCurrent: streak,
		Nutrition:     models.NutritionSummary{TotalKcal: kcal},
		MissionStats:  models.MissionStats{Total: applicable, ListCompleted: []models.CompletedMission{}},
		CreatedAt:     now,
		UpdatedAt:     now,
	})
	if err != nil {
		return nil, nil, err
	}

	changed := false
	if l.MissionStats.Total != applicable {
		log.Infow("correcting daily mission total", "user", userID, "date", date, "from", l.MissionStats.Total, "to", applicable)
		l.MissionStats.Total = applicable
		if l.MissionStats.Completed > applicable {
			l.MissionStats.Completed = applicable
		}
		changed = true
	}
	if l.Nutrition.TotalKcal != kcal {
		l.Nutrition.TotalKcal = kcal
		changed = true
	}
	if changed {
		if err := s.Logs.SaveDailyLog(ctx, l); err != nil {
			return nil, nil, err
		}
	}
	return l, nutrition, nil
}

// GetDailyLog ensures the log for date (today when empty) and attaches the day's meal breakdown.
func (s *DailyService) GetDailyLog(ctx context.Context, user *models.User, date string) (*models.DailyLog, error) {
	date, err := s.resolveDate(date)
	if err != nil {
		return nil, err
	}
	l, nutrition, err := s.EnsureDailyLog(ctx, user.ID, date, user.StreakCurrent)
	if err != nil {
		return nil, err
	}
	attachNutrition(l, nutrition)
	return l, nil
}

// GetDailyLogByDate is read-only: a day with no log returns nil without creating one.
func (s *DailyService) GetDailyLogByDate(ctx context.Context, userID uuid.UUID, date string) (*models.DailyLog, error) {
	if date == "" {
		return nil, invalid("date is required")
	}
	if _, err := utils.ParseDateKey(date, s.Loc); err != nil {
		return nil, invalid(err.Error())
	}
	l, err := s.Logs.GetDailyLog(ctx, userID, date)
	if errors.Is(err, ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	nutrition, err := s.Nutrition.GetNutritionLog(ctx, userID, date)
	if err != nil && !errors.Is(err, ErrNotFound) {
		return nil, err
	}
	attachNutrition(l, nutrition)
	return l, nil
}

func attachNutrition(l *models.DailyLog, n *models.NutritionLog) {
	if n == nil {
		return
	}
	l.Nutrition.Meals = n.Meals
	if l.Nutrition.Meals == nil {
		l.Nutrition.Meals = []models.Meal{}
	}
	l.Nutrition.TotalKcal = n.TotalCalories
	l.Nutrition.TotalProtein = n.TotalProtein
	l.Nutrition.TotalCarbs = n.TotalCarbs
	l.Nutrition.TotalFat = n.TotalFat
	l.Nutrition.TotalFiber = n.TotalFiber
}

// UpdateWidget writes one named field of the day's log.
func (s *DailyService) UpdateWidget(ctx context.Context, user *models.User, req *models.UpdateDailyLogRequest) (*models.DailyLog, error) {
	date, err := s.resolveDate(req.Date)
	if err != nil {
		return nil, err
	}
	l, _, err := s.EnsureDailyLog(ctx, user.ID, date, user.StreakCurrent)
	if err != nil {
		return nil, err
	}
	if err := applyWidget(l, req.Type, req.Value); err != nil {
		return nil, err
	}
	if err := s.Logs.SaveDailyLog(ctx, l); err != nil {
		return nil, err
	}
	return l, nil
}

func applyWidget(l *models.DailyLog, field string, value json.RawMessage) error {
	switch field {
	case "mood":
		return decodeInto(field, value, &l.Mood)
	case "notes":
		return decodeInto(field, value, &l.Notes)
	case "weight":
		return decodeNumber(field, value, &l.Weight)
	case "sleepHours":
		return decodeNumber(field, value, &l.SleepHours)
	case "steps":
		var f float64
		if err := decodeNumber(field, value, &f); err != nil {
			return err
		}
		l.Steps = utils.RoundInt(f)
	case "streakCurrent":
		var f float64
		if err := decodeNumber(field, value, &f); err != nil {
			return err
		}
		l.StreakCurrent = utils.RoundInt(f)
	case "nutrition":
		return mergeNutrition(l, value)
	case "sport":
		return decodeArray(field, value, &l.SportWorkouts)
	case "training":
		return decodeArray(field, value, &l.GymWorkouts)
	case "missions":
		var stats models.MissionStats
		if err := decodeInto(field, value, &stats); err != nil {
			return err
		}
		if stats.ListCompleted == nil {
			stats.ListCompleted = []models.CompletedMission{}
		}
		l.MissionStats = stats
	case "gains":
		return decodeInto(field, value, &l.Gains)
	default:
		return writeThrough(l, field, value)
	}
	return nil
}

func decodeInto(field string, value json.RawMessage, dst interface{}) error {
	if len(value) == 0 {
		return invalid("missing value for " + field)
	}
	if err := json.Unmarshal(value, dst); err != nil {
		return invalid("invalid value for " + field)
	}
	return nil
}

func decodeNumber(field string, value json.RawMessage, dst *float64) error {
	var raw interface{}
	if err := decodeInto(field, value, &raw); err != nil {
		return err
	}
	f, ok := utils.ParseNumber(raw)
	if !ok || f < 0 {
		return invalid("invalid value for " + field)
	}
	*dst = f
	return nil
}

func decodeArray(field string, value json.RawMessage, dst *models.RawJSON) error {
	var arr []json.RawMessage
	if err := decodeInto(field, value, &arr); err != nil {
		return err
	}
	*dst = models.RawJSON(value)
	return nil
}

// mergeNutrition overlays the keys present in value onto the stored nutrition summary.
func mergeNutrition(l *models.DailyLog, value json.RawMessage) error {
	var patch map[string]json.RawMessage
	if err := decodeInto("nutrition", value, &patch); err != nil {
		return err
	}
	current, err := json.Marshal(l.Nutrition)
	if err != nil {
		return err
	}
	merged := map[string]json.RawMessage{}
	if err := json.Unmarshal(current, &merged); err != nil {
		return err
	}
	for k, v := range patch {
		merged[k] = v
	}
	b, err := json.Marshal(merged)
	if err != nil {
		return err
	}
	var next models.NutritionSummary
	if err := json.Unmarshal(b, &next); err != nil {
		return invalid("invalid value for nutrition")
	}
	l.Nutrition = next
	return nil
}

var immutableLogFields = map[string]bool{"id": true, "user": true, "date": true, "createdAt": true, "updatedAt": true}

// writeThrough sets an otherwise unhandled field only when the log already has it.
func writeThrough(l *models.DailyLog, field string, value json.RawMessage) error {
	current, err := json.Marshal(l)
	if err != nil {
		return err
	}
	fields := map[string]json.RawMessage{}
	if err := json.Unmarshal(current, &fields); err != nil {
		return err
	}
	if _, ok := fields[field]; !ok || immutableLogFields[field] {
		return invalid("unknown field " + field)
	}
	if len(value) == 0 {
		return invalid("missing value for " + field)
	}
	fields[field] = value
	b, err := json.Marshal(fields)
	if err != nil {
		return err
	}
	var next models.DailyLog
	if err := json.Unmarshal(b, &next); err != nil {
		return invalid("invalid value for " + field)
	}
	next.ID, next.UserID, next.Date, next.CreatedAt, next.UpdatedAt = l.ID, l.UserID, l.Date, l.CreatedAt, l.UpdatedAt
	*l = next
	return nil
}

func (s *DailyService) WeightHistory(ctx context.Context, userID uuid.UUID) ([]models.WeightPoint, error) {
	return s.Logs.WeightHistory(ctx, userID)
}

// RecordCompletion appends a completed mission to today's log, creating the log first when needed.
func (s *DailyService) RecordCompletion(ctx context.Context, userID uuid.UUID, streak int, entry models.CompletedMission) error {
	date := s.Today()
	if _, _, err := s.EnsureDailyLog(ctx, userID, date, streak); err != nil {
		return err
	}
	return s.Logs.AppendCompletion(ctx, userID, date, entry)
}

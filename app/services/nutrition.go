package services

import (
	"context"
	"strings"
	"time"

	"github.com/Mariolucas03/Kairos/app/models"
	"github.com/Mariolucas03/Kairos/pkg/utils"
	"github.com/gofiber/fiber/v2/log"
	"github.com/google/uuid"
)

var DefaultMeals = []string{"BREAKFAST", "SNACK", "LUNCH", "AFTERNOON SNACK", "DINNER"}

type NutritionService struct {
	Logs  NutritionStore
	Daily DailyLogStore
	Loc   *time.Location
	Now   func() time.Time
}

func (s *NutritionService) resolveDate(date string) (string, error) {
	if date == "" {
		now := time.Now()
		if s.Now != nil {
			now = s.Now()
		}
		return utils.DateKey(now, s.Loc), nil
	}
	if _, err := utils.ParseDateKey(date, s.Loc); err != nil {
		return "", invalid(err.Error())
	}
	return date, nil
}

// GetLog returns the day's nutrition log, creating it with the default meal slots on first access.
func (s *NutritionService) GetLog(ctx context.Context, userID uuid.UUID, date string) (*models.NutritionLog, error) {
	date, err := s.resolveDate(date)
	if err != nil {
		return nil, err
	}
	return s.ensure(ctx, userID, date)
}

func (s *NutritionService) ensure(ctx context.Context, userID uuid.UUID, date string) (*models.NutritionLog, error) {
	meals := make(models.Meals, 0, len(DefaultMeals))
	for _, name := range DefaultMeals {
		meals = append(meals, models.Meal{ID: uuid.New(), Name: name, Foods: []models.FoodEntry{}})
	}
	now := time.Now()
	return s.Logs.FindOrCreateNutritionLog(ctx, &models.NutritionLog{
		ID:        uuid.New(),
		UserID:    userID,
		Date:      date,
		Meals:     meals,
		CreatedAt: now,
		UpdatedAt: now,
	})
}

func (s *NutritionService) AddMeal(ctx context.Context, userID uuid.UUID, date, name string) (*models.NutritionLog, error) {
	name = strings.ToUpper(utils.CleanLabel(name))
	if name == "" {
		return nil, invalid("meal name is required")
	}
	date, err := s.resolveDate(date)
	if err != nil {
		return nil, err
	}
	l, err := s.ensure(ctx, userID, date)
	if err != nil {
		return nil, err
	}
	l.Meals = append(l.Meals, models.Meal{ID: uuid.New(), Name: name, Foods: []models.FoodEntry{}})
	if err := s.Logs.SaveNutritionLog(ctx, l); err != nil {
		return nil, err
	}
	return l, nil
}

// AddFood appends a food to one meal and bumps the running totals, rounding after the add.
func (s *NutritionService) AddFood(ctx context.Context, userID uuid.UUID, date string, mealID uuid.UUID, req *models.AddFoodRequest) (*models.NutritionLog, error) {
	date, err := s.resolveDate(date)
	if err != nil {
		return nil, err
	}
	entry, err := foodEntryFromRequest(req)
	if err != nil {
		return nil, err
	}
	l, err := s.Logs.GetNutritionLog(ctx, userID, date)
	if err != nil {
		return nil, err
	}
	idx := l.Meals.Find(mealID)
	if idx == -1 {
		return nil, ErrNotFound
	}
	l.Meals[idx].Foods = append(l.Meals[idx].Foods, entry)

	l.TotalCalories = addTotal(l.TotalCalories, entry.Calories)
	l.TotalProtein = addTotal(l.TotalProtein, entry.Protein)
	l.TotalCarbs = addTotal(l.TotalCarbs, entry.Carbs)
	l.TotalFat = addTotal(l.TotalFat, entry.Fat)
	l.TotalFiber = addTotal(l.TotalFiber, entry.Fiber)

	if err := s.Logs.SaveNutritionLog(ctx, l); err != nil {
		return nil, err
	}
	s.syncKcal(ctx, userID, date, l.TotalCalories)
	return l, nil
}

// RemoveFood takes a food out of a meal and subtracts it from the totals, never below zero.
func (s *NutritionService) RemoveFood(ctx context.Context, userID uuid.UUID, date string, mealID, foodID uuid.UUID) (*models.NutritionLog, error) {
	date, err := s.resolveDate(date)
	if err != nil {
		return nil, err
	}
	l, err := s.Logs.GetNutritionLog(ctx, userID, date)
	if err != nil {
		return nil, err
	}
	idx := l.Meals.Find(mealID)
	if idx == -1 {
		return nil, ErrNotFound
	}
	foods := l.Meals[idx].Foods
	pos := -1
	for i := range foods {
		if foods[i].ID == foodID {
			pos = i
			break
		}
	}
	if pos == -1 {
		return nil, ErrNotFound
	}
	food := foods[pos]
	l.Meals[idx].Foods = append(foods[:pos:pos], foods[pos+1:]...)

	l.TotalCalories = subTotal(l.TotalCalories, food.Calories)
	l.TotalProtein = subTotal(l.TotalProtein, food.Protein)
	l.TotalCarbs = subTotal(l.TotalCarbs, food.Carbs)
	l.TotalFat = subTotal(l.TotalFat, food.Fat)
	l.TotalFiber = subTotal(l.TotalFiber, food.Fiber)

	if err := s.Logs.SaveNutritionLog(ctx, l); err != nil {
		return nil, err
	}
	s.syncKcal(ctx, userID, date, l.TotalCalories)
	return l, nil
}

// syncKcal mirrors the total into the day's daily log if one exists. The daily log heals itself on its
// next read, so a failure here is only logged.
func (s *NutritionService) syncKcal(ctx context.Context, userID uuid.UUID, date string, kcal int) {
	if err := s.Daily.SetTotalKcal(ctx, userID, date, kcal); err != nil {
		log.Warnw("daily log kcal not synced", "user", userID, "date", date, "error", err)
	}
}

func foodEntryFromRequest(req *models.AddFoodRequest) (models.FoodEntry, error) {
	name := utils.CleanLabel(req.Name)
	if name == "" {
		return models.FoodEntry{}, invalid("food name is required")
	}
	calories, ok := utils.ParseNumber(req.Calories)
	if !ok || calories < 0 {
		return models.FoodEntry{}, invalid("calories must be a non-negative number")
	}
	macro := func(v interface{}) float64 {
		f, ok := utils.ParseNumber(v)
		if !ok || f < 0 {
			return 0
		}
		return f
	}
	return models.FoodEntry{
		ID:       uuid.New(),
		Name:     name,
		Calories: calories,
		Protein:  macro(req.Protein),
		Carbs:    macro(req.Carbs),
		Fat:      macro(req.Fat),
		Fiber:    macro(req.Fiber),
		Quantity: positiveOr(req.Quantity, 1),
	}, nil
}

// addTotal and subTotal move a total by the same rounded amount, so removing a food undoes its add exactly.
func addTotal(total int, v float64) int {
	return total + utils.RoundInt(v)
}

func subTotal(total int, v float64) int {
	return max(0, total-utils.RoundInt(v))
}

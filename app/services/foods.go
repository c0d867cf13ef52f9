package services

import (
	"context"
	"errors"

	"github.com/Mariolucas03/Kairos/app/models"
	"github.com/Mariolucas03/Kairos/pkg/utils"
	"github.com/google/uuid"
)

const (
	searchLimit     = 20
	savedFoodsLimit = 50
	defaultServing  = "1 serving"
	defaultFolder   = "General"
)

var ErrAnalyzerUnavailable = errors.New("food analysis unavailable")

type FoodService struct {
	Foods    FoodStore
	Analyzer FoodAnalyzer
}

// Search returns up to 20 of the user's or shared foods whose name contains query.
func (s *FoodService) Search(ctx context.Context, userID uuid.UUID, query string) ([]models.Food, error) {
	query = utils.CleanLabel(query)
	if query == "" {
		return []models.Food{}, nil
	}
	return s.Foods.SearchFoods(ctx, userID, query, searchLimit)
}

func (s *FoodService) ListSaved(ctx context.Context, userID uuid.UUID) ([]models.Food, error) {
	return s.Foods.ListSavedFoods(ctx, userID, savedFoodsLimit)
}

func (s *FoodService) Create(ctx context.Context, userID uuid.UUID, req *models.SaveFoodRequest) (*models.Food, error) {
	owner := userID
	f := &models.Food{ID: uuid.New(), UserID: &owner}
	if err := fillFood(f, req); err != nil {
		return nil, err
	}
	if err := s.Foods.CreateFood(ctx, f); err != nil {
		return nil, err
	}
	return f, nil
}

func (s *FoodService) Update(ctx context.Context, userID, foodID uuid.UUID, req *models.SaveFoodRequest) (*models.Food, error) {
	f, err := s.owned(ctx, userID, foodID)
	if err != nil {
		return nil, err
	}
	if err := fillFood(f, req); err != nil {
		return nil, err
	}
	if err := s.Foods.UpdateFood(ctx, f); err != nil {
		return nil, err
	}
	return f, nil
}

func (s *FoodService) Delete(ctx context.Context, userID, foodID uuid.UUID) error {
	if _, err := s.owned(ctx, userID, foodID); err != nil {
		return err
	}
	return s.Foods.DeleteFood(ctx, foodID)
}

// owned loads a food only if userID owns it; shared foods and other users' foods read as not found.
func (s *FoodService) owned(ctx context.Context, userID, foodID uuid.UUID) (*models.Food, error) {
	f, err := s.Foods.GetFood(ctx, foodID)
	if err != nil {
		return nil, err
	}
	if f.UserID == nil || *f.UserID != userID {
		return nil, ErrNotFound
	}
	return f, nil
}

func fillFood(f *models.Food, req *models.SaveFoodRequest) error {
	name := utils.CleanLabel(req.Name)
	if name == "" {
		return invalid("food name is required")
	}
	f.Name = name
	f.Calories = req.Calories
	f.Protein = req.Protein
	f.Carbs = req.Carbs
	f.Fat = req.Fat
	f.Fiber = req.Fiber
	f.ServingSize = orDefault(utils.CleanLabel(req.ServingSize), defaultServing)
	f.Folder = orDefault(req.Folder, defaultFolder)
	return nil
}

// AnalyzeText asks the external classifier for a macro estimate of a free-text meal.
func (s *FoodService) AnalyzeText(ctx context.Context, text string) (*models.FoodEstimate, error) {
	text = utils.CleanLabel(text)
	if text == "" {
		return nil, invalid("text is required")
	}
	if s.Analyzer == nil {
		return nil, ErrAnalyzerUnavailable
	}
	estimate, err := s.Analyzer.Analyze(ctx, text)
	if err != nil {
		return nil, errors.Join(ErrAnalyzerUnavailable, err)
	}
	return estimate, nil
}

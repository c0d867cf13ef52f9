package models

import (
	"github.com/google/uuid"
)

var FoodFolders = []string{"General", "Breakfast", "Lunch", "Dinner", "Snack"}

type Food struct {
	ID          uuid.UUID  `json:"id" db:"id"`
	UserID      *uuid.UUID `json:"user,omitempty" db:"user_id"`
	Name        string     `json:"name" db:"name"`
	Calories    float64    `json:"calories" db:"calories"`
	Protein     float64    `json:"protein" db:"protein"`
	Carbs       float64    `json:"carbs" db:"carbs"`
	Fat         float64    `json:"fat" db:"fat"`
	Fiber       float64    `json:"fiber" db:"fiber"`
	ServingSize string     `json:"servingSize" db:"serving_size"`
	Icon        string     `json:"icon" db:"icon"`
	Folder      string     `json:"folder" db:"folder"`
}

type SaveFoodRequest struct {
	Name        string  `json:"name" validate:"required,lte=120"`
	Calories    float64 `json:"calories" validate:"gte=0"`
	Protein     float64 `json:"protein" validate:"gte=0"`
	Carbs       float64 `json:"carbs" validate:"gte=0"`
	Fat         float64 `json:"fat" validate:"gte=0"`
	Fiber       float64 `json:"fiber" validate:"gte=0"`
	ServingSize string  `json:"servingSize"`
	Folder      string  `json:"folder" validate:"omitempty,oneof=General Breakfast Lunch Dinner Snack"`
}

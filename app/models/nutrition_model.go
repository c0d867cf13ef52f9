package models

import (
	"database/sql/driver"
	"time"

	"github.com/google/uuid"
)

type FoodEntry struct {
	ID       uuid.UUID `json:"id"`
	Name     string    `json:"name"`
	Calories float64   `json:"calories"`
	Protein  float64   `json:"protein"`
	Carbs    float64   `json:"carbs"`
	Fat      float64   `json:"fat"`
	Fiber    float64   `json:"fiber"`
	Quantity float64   `json:"quantity"`
}

type Meal struct {
	ID    uuid.UUID   `json:"id"`
	Name  string      `json:"name"`
	Foods []FoodEntry `json:"foods"`
}

type Meals []Meal

func (m Meals) Value() (driver.Value, error) {
	if m == nil {
		return "[]", nil
	}
	return jsonValue(m)
}

func (m *Meals) Scan(src interface{}) error {
	return scanJSON(src, m)
}

// Find returns the index of the meal with the given id, or -1.
func (m Meals) Find(id uuid.UUID) int {
	for i := range m {
		if m[i].ID == id {
			return i
		}
	}
	return -1
}

type NutritionLog struct {
	ID            uuid.UUID `json:"id" db:"id"`
	UserID        uuid.UUID `json:"user" db:"user_id"`
	Date          string    `json:"date" db:"date"`
	Meals         Meals     `json:"meals" db:"meals"`
	TotalCalories int       `json:"totalCalories" db:"total_calories"`
	TotalProtein  int       `json:"totalProtein" db:"total_protein"`
	TotalCarbs    int       `json:"totalCarbs" db:"total_carbs"`
	TotalFat      int       `json:"totalFat" db:"total_fat"`
	TotalFiber    int       `json:"totalFiber" db:"total_fiber"`
	CreatedAt     time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt     time.Time `json:"updatedAt" db:"updated_at"`
}

type AddMealRequest struct {
	Name string `json:"name" validate:"required,lte=40"`
}

type AddFoodRequest struct {
	Name     string      `json:"name" validate:"required"`
	Calories interface{} `json:"calories"`
	Protein  interface{} `json:"protein"`
	Carbs    interface{} `json:"carbs"`
	Fat      interface{} `json:"fat"`
	Fiber    interface{} `json:"fiber"`
	Quantity interface{} `json:"quantity"`
}

type AnalyzeTextRequest struct {
	Text string `json:"text" validate:"required,lte=500"`
}

// FoodEstimate is what the external classifier returns for a free-text description.
type FoodEstimate struct {
	Name     string  `json:"name"`
	Calories float64 `json:"calories"`
	Protein  float64 `json:"protein"`
	Carbs    float64 `json:"carbs"`
	Fat      float64 `json:"fat"`
	Fiber    float64 `json:"fiber"`
}

package models

import (
	"github.com/google/uuid"
)

const CategoryReward = "reward"

type ShopItem struct {
	ID          uuid.UUID  `json:"id" db:"id" yaml:"-"`
	UserID      *uuid.UUID `json:"user,omitempty" db:"user_id" yaml:"-"`
	Name        string     `json:"name" db:"name" yaml:"name"`
	Price       int        `json:"price" db:"price" yaml:"price"`
	Category    string     `json:"category" db:"category" yaml:"category"`
	Icon        string     `json:"icon" db:"icon" yaml:"icon"`
	Description string     `json:"description" db:"description" yaml:"description"`
	EffectType  string     `json:"effectType,omitempty" db:"effect_type" yaml:"effectType"`
	EffectValue int        `json:"effectValue,omitempty" db:"effect_value" yaml:"effectValue"`
}

// Unique reports whether owning one copy of the item is the limit.
func (i ShopItem) Unique() bool {
	switch i.Category {
	case "avatar", "frame", "theme", "title", "pet":
		return true
	}
	return false
}

type CreateRewardRequest struct {
	Name  string      `json:"name" validate:"required,lte=80"`
	Price interface{} `json:"price"`
}

type BuyItemRequest struct {
	ItemID string `json:"itemId" validate:"required,uuid"`
}

type ExchangeRequest struct {
	AmountGameCoins int `json:"amountGameCoins"`
}

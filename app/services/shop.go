package services

import (
	"context"
	_ "embed"
	"fmt"
	"math/rand/v2"

	"github.com/Mariolucas03/Kairos/app/models"
	"github.com/Mariolucas03/Kairos/pkg/utils"
	"github.com/gofiber/fiber/v2/log"
	"github.com/google/uuid"
	"gopkg.in/yaml.v3"
)

//go:embed shop_items.yaml
var shopSeedYAML []byte

const (
	minExchange   = 100
	exchangeRate  = 100
	rewardIcon    = "🎟️"
	chestSmallWin = 10
	chestBigWin   = 100
)

// LoadShopSeed parses the embedded system catalogue.
func LoadShopSeed() ([]models.ShopItem, error) {
	var items []models.ShopItem
	if err := yaml.Unmarshal(shopSeedYAML, &items); err != nil {
		return nil, fmt.Errorf("parsing shop seed: %w", err)
	}
	return items, nil
}

type ShopService struct {
	Shop  ShopStore
	Users UserStore
	// Roll returns a float in [0, 1) for chest openings.
	Roll func() float64
}

type UseResult struct {
	Message string                 `json:"message"`
	User    *models.User           `json:"user"`
	Reward  map[string]interface{} `json:"reward"`
}

// ListItems returns the system catalogue and the user's personal rewards, seeding the catalogue if it is empty.
func (s *ShopService) ListItems(ctx context.Context, userID uuid.UUID) ([]models.ShopItem, error) {
	n, err := s.Shop.CountSystemItems(ctx)
	if err != nil {
		return nil, err
	}
	if n == 0 {
		seed, err := LoadShopSeed()
		if err != nil {
			return nil, err
		}
		for i := range seed {
			seed[i].ID = uuid.New()
		}
		if err := s.Shop.InsertShopItems(ctx, seed); err != nil {
			return nil, err
		}
		log.Infow("shop catalogue seeded", "items", len(seed))
	}
	return s.Shop.ListShopItems(ctx, userID)
}

func (s *ShopService) CreateReward(ctx context.Context, userID uuid.UUID, req *models.CreateRewardRequest) (*models.ShopItem, error) {
	name := utils.CleanLabel(req.Name)
	if name == "" {
		return nil, invalid("name is required")
	}
	price, ok := utils.ParseNumber(req.Price)
	if !ok || price < 0 || price != float64(int(price)) {
		return nil, invalid("invalid price")
	}
	owner := userID
	item := &models.ShopItem{
		ID:          uuid.New(),
		UserID:      &owner,
		Name:        name,
		Price:       int(price),
		Category:    models.CategoryReward,
		Icon:        rewardIcon,
		Description: "Personal reward.",
	}
	if err := s.Shop.CreateShopItem(ctx, item); err != nil {
		return nil, err
	}
	return item, nil
}

// Buy charges coins for personal rewards and game coins for catalogue items.
func (s *ShopService) Buy(ctx context.Context, userID uuid.UUID, itemID string) (*models.User, *models.ShopItem, error) {
	item, err := s.item(ctx, userID, itemID)
	if err != nil {
		return nil, nil, err
	}
	u, err := s.Users.MutateUser(ctx, userID, func(u *models.User) error {
		balance := &u.GameCoins
		if item.Category == models.CategoryReward {
			balance = &u.Coins
		}
		if *balance < item.Price {
			return ErrInsufficientFunds
		}
		idx := u.Inventory.Find(item.ID)
		if idx != -1 && item.Unique() {
			return ErrAlreadyOwned
		}
		*balance -= item.Price
		if idx != -1 {
			u.Inventory[idx].Quantity++
		} else {
			u.Inventory = append(u.Inventory, models.InventoryEntry{ItemID: item.ID, Quantity: 1})
		}
		return nil
	})
	if err != nil {
		return nil, nil, err
	}
	return u, item, nil
}

// Use equips a cosmetic or spends one unit of a consumable, chest or personal reward.
func (s *ShopService) Use(ctx context.Context, userID uuid.UUID, itemID string) (*UseResult, error) {
	item, err := s.item(ctx, userID, itemID)
	if err != nil {
		return nil, err
	}
	res := &UseResult{Message: "Item used"}
	u, err := s.Users.MutateUser(ctx, userID, func(u *models.User) error {
		idx := u.Inventory.Find(item.ID)
		if idx == -1 {
			return ErrNotOwned
		}
		switch item.Category {
		case "avatar":
			u.Avatar, res.Message = item.Icon, "Avatar equipped"
			return nil
		case "frame":
			u.Frame, res.Message = item.Icon, "Frame equipped"
			return nil
		case "pet":
			u.Pet, res.Message = item.Icon, "Pet equipped"
			return nil
		case "title":
			u.Title, res.Message = item.Name, "Title equipped"
			return nil
		case "theme":
			u.Theme, res.Message = orDefault(item.EffectType, "dark"), "Theme applied"
			return nil
		case "chest":
			prize := chestSmallWin
			if s.roll() > 0.8 {
				prize = chestBigWin
			}
			u.Coins += prize
			res.Message = "Chest opened"
			res.Reward = map[string]interface{}{"type": "coins", "value": prize}
		case "consumable":
			if item.EffectType == "xp" && item.EffectValue > 0 {
				u.XP += item.EffectValue
				applyLevelCurve(u)
			}
			res.Message = "Potion used"
		case models.CategoryReward:
			res.Message = "Reward redeemed"
		}
		u.Inventory[idx].Quantity--
		if u.Inventory[idx].Quantity <= 0 {
			u.Inventory = append(u.Inventory[:idx], u.Inventory[idx+1:]...)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	res.User = u
	return res, nil
}

// Exchange converts game coins into coins at 100:1. The whole amount is charged; a remainder below 100 is lost.
func (s *ShopService) Exchange(ctx context.Context, userID uuid.UUID, amount int) (*models.User, int, error) {
	if amount < minExchange {
		return nil, 0, invalid(fmt.Sprintf("minimum exchange is %d game coins", minExchange))
	}
	received := amount / exchangeRate
	u, err := s.Users.MutateUser(ctx, userID, func(u *models.User) error {
		if u.GameCoins < amount {
			return ErrInsufficientFunds
		}
		u.GameCoins -= amount
		u.Coins += received
		return nil
	})
	if err != nil {
		return nil, 0, err
	}
	return u, received, nil
}

// item loads a shop item visible to userID. Other users' personal rewards read as not found.
func (s *ShopService) item(ctx context.Context, userID uuid.UUID, raw string) (*models.ShopItem, error) {
	id, err := uuid.Parse(raw)
	if err != nil {
		return nil, invalid("invalid item id")
	}
	item, err := s.Shop.GetShopItem(ctx, id)
	if err != nil {
		return nil, err
	}
	if item.Category == models.CategoryReward && (item.UserID == nil || *item.UserID != userID) {
		return nil, ErrNotFound
	}
	return item, nil
}

func (s *ShopService) roll() float64 {
	if s.Roll != nil {
		return s.Roll()
	}
	return rand.Float64()
}

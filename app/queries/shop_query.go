package queries

import (
	"context"
	"fmt"

	"github.com/Mariolucas03/Kairos/app/models"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

type ShopQueries struct {
	DB *sqlx.DB
}

const shopColumns = `id, user_id, name, price, category, icon, description, effect_type, effect_value`

func (q *ShopQueries) CountSystemItems(ctx context.Context) (int, error) {
	var n int
	if err := q.DB.GetContext(ctx, &n, `SELECT count(*) FROM shop_items WHERE category <> 'reward'`); err != nil {
		return 0, fmt.Errorf("unable to count shop items, DB error: %w", err)
	}
	return n, nil
}

func (q *ShopQueries) InsertShopItems(ctx context.Context, items []models.ShopItem) error {
	tx, err := q.DB.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("unable to start transaction: %w", err)
	}
	defer tx.Rollback()

	for i := range items {
		_, err := tx.NamedExecContext(ctx, `
			INSERT INTO shop_items (`+shopColumns+`)
			VALUES (:id, :user_id, :name, :price, :category, :icon, :description, :effect_type, :effect_value)
		`, &items[i])
		if err != nil {
			return fmt.Errorf("unable to insert shop item %q, DB error: %w", items[i].Name, err)
		}
	}
	return tx.Commit()
}

// ListShopItems returns the system catalogue plus the user's personal rewards.
func (q *ShopQueries) ListShopItems(ctx context.Context, userID uuid.UUID) ([]models.ShopItem, error) {
	items := []models.ShopItem{}
	err := q.DB.SelectContext(ctx, &items, `
		SELECT `+shopColumns+` FROM shop_items
		WHERE category <> 'reward' OR user_id = $1
		ORDER BY category ASC, price ASC
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("unable to list shop items, DB error: %w", err)
	}
	return items, nil
}

func (q *ShopQueries) GetShopItem(ctx context.Context, id uuid.UUID) (*models.ShopItem, error) {
	var item models.ShopItem
	if err := q.DB.GetContext(ctx, &item, `SELECT `+shopColumns+` FROM shop_items WHERE id = $1`, id); err != nil {
		return nil, notFound(err)
	}
	return &item, nil
}

func (q *ShopQueries) CreateShopItem(ctx context.Context, item *models.ShopItem) error {
	_, err := q.DB.NamedExecContext(ctx, `
		INSERT INTO shop_items (`+shopColumns+`)
		VALUES (:id, :user_id, :name, :price, :category, :icon, :description, :effect_type, :effect_value)
	`, item)
	if err != nil {
		return fmt.Errorf("unable to create shop item, DB error: %w", err)
	}
	return nil
}

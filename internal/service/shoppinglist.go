package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/platefeed/backend/internal/apperr"
	"github.com/platefeed/backend/internal/models"
)

// ShoppingListItem is one aggregated line of a user's shopping list.
type ShoppingListItem struct {
	Name            string `json:"name"`
	MeasurementUnit string `json:"measurement_unit"`
	TotalAmount     int    `json:"total_amount"`
}

// ShoppingListService aggregates the line items of every recipe in a
// user's cart into a deduplicated, summed list.
type ShoppingListService struct {
	db *gorm.DB
}

func NewShoppingListService(db *gorm.DB) *ShoppingListService {
	return &ShoppingListService{db: db}
}

// ShoppingList groups the line items reachable through the user's cart by
// (ingredient name, measurement unit) and sums the amounts, ordered by
// name. Grouping is by name and unit rather than ingredient id so that
// the output stays presentation-stable even if two ingredient rows come
// to share a name and unit. Recomputed fresh on every call.
func (s *ShoppingListService) ShoppingList(ctx context.Context, userID uuid.UUID) ([]ShoppingListItem, error) {
	var items []ShoppingListItem
	err := s.db.WithContext(ctx).
		Model(&models.RecipeIngredient{}).
		Select("ingredients.name AS name, ingredients.measurement_unit AS measurement_unit, SUM(recipe_ingredients.amount) AS total_amount").
		Joins("JOIN ingredients ON ingredients.id = recipe_ingredients.ingredient_id").
		Joins("JOIN shopping_cart_items ON shopping_cart_items.recipe_id = recipe_ingredients.recipe_id").
		Where("shopping_cart_items.user_id = ?", userID).
		Group("ingredients.name, ingredients.measurement_unit").
		Order("ingredients.name ASC").
		Scan(&items).Error
	if err != nil {
		return nil, apperr.Internal("failed to aggregate shopping list", err)
	}
	if items == nil {
		items = []ShoppingListItem{}
	}
	return items, nil
}

// RenderShoppingList formats the aggregated list as the downloadable
// plain-text attachment, one numbered line per ingredient.
func RenderShoppingList(items []ShoppingListItem) string {
	var b strings.Builder
	for i, item := range items {
		fmt.Fprintf(&b, "%d. %s (%s) — %d\n", i+1, item.Name, item.MeasurementUnit, item.TotalAmount)
	}
	return b.String()
}

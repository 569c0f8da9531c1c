package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/platefeed/backend/internal/testhelpers"
)

func TestShoppingListAggregation(t *testing.T) {
	db := testhelpers.SetupTestDB(t)
	recipes := NewRecipeService(db)
	cart := NewCartService(db)
	lists := NewShoppingListService(db)
	ctx := context.Background()

	user := seedUser(t, db, "user@example.com", "user")
	tag := seedTag(t, db, "Dinner", "#00AAFF", "dinner")
	flour := seedIngredient(t, db, "flour", "g")
	sugar := seedIngredient(t, db, "sugar", "g")

	cake, err := recipes.Create(ctx, user.ID, CreateRecipeInput{
		Name:        "Cake",
		Text:        "Bake.",
		CookingTime: 45,
		TagIDs:      []uuid.UUID{tag.ID},
		Ingredients: []IngredientInput{
			{ID: flour.ID, Amount: 200},
			{ID: sugar.ID, Amount: 50},
		},
	})
	require.NoError(t, err)

	bread, err := recipes.Create(ctx, user.ID, CreateRecipeInput{
		Name:        "Bread",
		Text:        "Bake.",
		CookingTime: 60,
		TagIDs:      []uuid.UUID{tag.ID},
		Ingredients: []IngredientInput{{ID: flour.ID, Amount: 300}},
	})
	require.NoError(t, err)

	_, err = cart.Add(ctx, user.ID, cake.ID)
	require.NoError(t, err)
	_, err = cart.Add(ctx, user.ID, bread.ID)
	require.NoError(t, err)

	items, err := lists.ShoppingList(ctx, user.ID)
	require.NoError(t, err)

	// Same (name, unit) sums across recipes; output is name-ordered.
	require.Len(t, items, 2)
	assert.Equal(t, ShoppingListItem{Name: "flour", MeasurementUnit: "g", TotalAmount: 500}, items[0])
	assert.Equal(t, ShoppingListItem{Name: "sugar", MeasurementUnit: "g", TotalAmount: 50}, items[1])
}

func TestShoppingListSeparatesUnits(t *testing.T) {
	db := testhelpers.SetupTestDB(t)
	recipes := NewRecipeService(db)
	cart := NewCartService(db)
	lists := NewShoppingListService(db)
	ctx := context.Background()

	user := seedUser(t, db, "user@example.com", "user")
	tag := seedTag(t, db, "Dinner", "#00AAFF", "dinner")
	grams := seedIngredient(t, db, "butter", "g")
	spoons := seedIngredient(t, db, "butter", "tbsp")

	recipe, err := recipes.Create(ctx, user.ID, CreateRecipeInput{
		Name:        "Sauce",
		Text:        "Melt.",
		CookingTime: 5,
		TagIDs:      []uuid.UUID{tag.ID},
		Ingredients: []IngredientInput{
			{ID: grams.ID, Amount: 100},
			{ID: spoons.ID, Amount: 2},
		},
	})
	require.NoError(t, err)

	_, err = cart.Add(ctx, user.ID, recipe.ID)
	require.NoError(t, err)

	items, err := lists.ShoppingList(ctx, user.ID)
	require.NoError(t, err)

	// Same name, different unit: two distinct lines, never summed.
	require.Len(t, items, 2)
	assert.Equal(t, "g", items[0].MeasurementUnit)
	assert.Equal(t, "tbsp", items[1].MeasurementUnit)
}

func TestShoppingListScopedToUser(t *testing.T) {
	db := testhelpers.SetupTestDB(t)
	recipes := NewRecipeService(db)
	cart := NewCartService(db)
	lists := NewShoppingListService(db)
	ctx := context.Background()

	alice := seedUser(t, db, "alice@example.com", "alice")
	bob := seedUser(t, db, "bob@example.com", "bob")
	tag := seedTag(t, db, "Dinner", "#00AAFF", "dinner")
	flour := seedIngredient(t, db, "flour", "g")

	recipe, err := recipes.Create(ctx, alice.ID, CreateRecipeInput{
		Name:        "Bread",
		Text:        "Bake.",
		CookingTime: 60,
		TagIDs:      []uuid.UUID{tag.ID},
		Ingredients: []IngredientInput{{ID: flour.ID, Amount: 300}},
	})
	require.NoError(t, err)

	_, err = cart.Add(ctx, alice.ID, recipe.ID)
	require.NoError(t, err)

	items, err := lists.ShoppingList(ctx, bob.ID)
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestRenderShoppingList(t *testing.T) {
	items := []ShoppingListItem{
		{Name: "flour", MeasurementUnit: "g", TotalAmount: 500},
		{Name: "sugar", MeasurementUnit: "g", TotalAmount: 50},
	}

	got := RenderShoppingList(items)
	assert.Equal(t, "1. flour (g) — 500\n2. sugar (g) — 50\n", got)
}

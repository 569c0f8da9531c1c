package integration

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/platefeed/backend/internal/models"
	"github.com/platefeed/backend/internal/service"
	"github.com/platefeed/backend/internal/testhelpers"
)

// Runs the recipe composition and aggregation paths against a real
// postgres. Skips when docker is unavailable.
func TestRecipeFlowOnPostgres(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping container-based test in short mode")
	}

	db := testhelpers.SetupPostgresTestDB(t)
	recipes := service.NewRecipeService(db)
	cart := service.NewCartService(db)
	lists := service.NewShoppingListService(db)
	ctx := context.Background()

	author := models.User{
		Email:        "author@example.com",
		Username:     "author",
		FirstName:    "Test",
		LastName:     "User",
		PasswordHash: "x",
	}
	require.NoError(t, db.Create(&author).Error)

	tag := models.Tag{Name: "Dinner", Color: "#00AAFF", Slug: "dinner"}
	require.NoError(t, db.Create(&tag).Error)

	flour := models.Ingredient{Name: "flour", MeasurementUnit: "g"}
	require.NoError(t, db.Create(&flour).Error)
	sugar := models.Ingredient{Name: "sugar", MeasurementUnit: "g"}
	require.NoError(t, db.Create(&sugar).Error)

	cake, err := recipes.Create(ctx, author.ID, service.CreateRecipeInput{
		Name:        "Cake",
		Text:        "Bake.",
		CookingTime: 45,
		TagIDs:      []uuid.UUID{tag.ID},
		Ingredients: []service.IngredientInput{
			{ID: flour.ID, Amount: 200},
			{ID: sugar.ID, Amount: 50},
		},
	})
	require.NoError(t, err)

	bread, err := recipes.Create(ctx, author.ID, service.CreateRecipeInput{
		Name:        "Bread",
		Text:        "Bake.",
		CookingTime: 60,
		TagIDs:      []uuid.UUID{tag.ID},
		Ingredients: []service.IngredientInput{{ID: flour.ID, Amount: 300}},
	})
	require.NoError(t, err)

	_, err = cart.Add(ctx, author.ID, cake.ID)
	require.NoError(t, err)
	_, err = cart.Add(ctx, author.ID, bread.ID)
	require.NoError(t, err)

	items, err := lists.ShoppingList(ctx, author.ID)
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, service.ShoppingListItem{Name: "flour", MeasurementUnit: "g", TotalAmount: 500}, items[0])
	assert.Equal(t, service.ShoppingListItem{Name: "sugar", MeasurementUnit: "g", TotalAmount: 50}, items[1])

	// The postgres check constraint rejects a zero cooking time even if
	// validation were bypassed.
	bad := models.Recipe{AuthorID: &author.ID, Name: "Bad", Text: "x", CookingTime: 0}
	assert.Error(t, db.Create(&bad).Error)
}

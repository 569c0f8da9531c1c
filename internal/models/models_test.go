package models_test

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/platefeed/backend/internal/models"
	"github.com/platefeed/backend/internal/testhelpers"
)

func TestUserUniqueEmailAndUsername(t *testing.T) {
	db := testhelpers.SetupTestDB(t)

	user := models.User{
		Email:        "user@example.com",
		Username:     "user",
		FirstName:    "Test",
		LastName:     "User",
		PasswordHash: "x",
	}
	require.NoError(t, db.Create(&user).Error)
	assert.NotEqual(t, uuid.Nil, user.ID)

	dup := models.User{
		Email:        "user@example.com",
		Username:     "other",
		FirstName:    "Test",
		LastName:     "User",
		PasswordHash: "x",
	}
	err := db.Create(&dup).Error
	assert.ErrorIs(t, err, gorm.ErrDuplicatedKey)
}

func TestIngredientPairUniqueness(t *testing.T) {
	db := testhelpers.SetupTestDB(t)

	require.NoError(t, db.Create(&models.Ingredient{Name: "butter", MeasurementUnit: "g"}).Error)

	// Same name with a different unit is a distinct ingredient.
	require.NoError(t, db.Create(&models.Ingredient{Name: "butter", MeasurementUnit: "tbsp"}).Error)

	err := db.Create(&models.Ingredient{Name: "butter", MeasurementUnit: "g"}).Error
	assert.ErrorIs(t, err, gorm.ErrDuplicatedKey)
}

func TestRecipeIngredientPairUniqueness(t *testing.T) {
	db := testhelpers.SetupTestDB(t)

	author := models.User{
		Email:        "author@example.com",
		Username:     "author",
		FirstName:    "Test",
		LastName:     "User",
		PasswordHash: "x",
	}
	require.NoError(t, db.Create(&author).Error)

	recipe := models.Recipe{
		AuthorID:    &author.ID,
		Name:        "Toast",
		Text:        "Toast it.",
		CookingTime: 5,
	}
	require.NoError(t, db.Create(&recipe).Error)

	flour := models.Ingredient{Name: "flour", MeasurementUnit: "g"}
	require.NoError(t, db.Create(&flour).Error)

	require.NoError(t, db.Create(&models.RecipeIngredient{
		RecipeID:     recipe.ID,
		IngredientID: flour.ID,
		Amount:       100,
	}).Error)

	err := db.Create(&models.RecipeIngredient{
		RecipeID:     recipe.ID,
		IngredientID: flour.ID,
		Amount:       200,
	}).Error
	assert.ErrorIs(t, err, gorm.ErrDuplicatedKey)
}

func TestSubscriptionPairUniqueness(t *testing.T) {
	db := testhelpers.SetupTestDB(t)

	mk := func(email, username string) models.User {
		u := models.User{
			Email:        email,
			Username:     username,
			FirstName:    "Test",
			LastName:     "User",
			PasswordHash: "x",
		}
		require.NoError(t, db.Create(&u).Error)
		return u
	}
	follower := mk("follower@example.com", "follower")
	author := mk("author@example.com", "author")

	require.NoError(t, db.Create(&models.Subscription{
		FollowerID: follower.ID,
		AuthorID:   author.ID,
	}).Error)

	err := db.Create(&models.Subscription{
		FollowerID: follower.ID,
		AuthorID:   author.ID,
	}).Error
	assert.ErrorIs(t, err, gorm.ErrDuplicatedKey)

	// The reverse direction is a different relation.
	require.NoError(t, db.Create(&models.Subscription{
		FollowerID: author.ID,
		AuthorID:   follower.ID,
	}).Error)
}

package service

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/platefeed/backend/internal/apperr"
	"github.com/platefeed/backend/internal/models"
)

// RecipeSummary is the short recipe representation returned by the
// favorite and cart toggles.
type RecipeSummary struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	ImageURL    string    `json:"image"`
	CookingTime int       `json:"cooking_time"`
}

func summarize(r *models.Recipe) RecipeSummary {
	return RecipeSummary{
		ID:          r.ID,
		Name:        r.Name,
		ImageURL:    r.ImageURL,
		CookingTime: r.CookingTime,
	}
}

// FavoriteService toggles favorite marks on recipes.
type FavoriteService struct {
	db *gorm.DB
}

func NewFavoriteService(db *gorm.DB) *FavoriteService {
	return &FavoriteService{db: db}
}

// Add marks the recipe as a favorite of the user. A second add for the
// same pair is a conflict; the unique constraint backstops racing adds.
func (s *FavoriteService) Add(ctx context.Context, userID, recipeID uuid.UUID) (*RecipeSummary, error) {
	recipe, err := recipeByID(s.db.WithContext(ctx), recipeID)
	if err != nil {
		return nil, err
	}

	var existing models.Favorite
	err = s.db.WithContext(ctx).
		Where("user_id = ? AND recipe_id = ?", userID, recipeID).
		First(&existing).Error
	if err == nil {
		return nil, apperr.Conflict("recipe is already in favorites")
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.Internal("failed to check favorite", err)
	}

	fav := models.Favorite{UserID: userID, RecipeID: recipeID}
	if err := s.db.WithContext(ctx).Create(&fav).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, apperr.Conflict("recipe is already in favorites")
		}
		return nil, apperr.Internal("failed to add favorite", err)
	}

	summary := summarize(recipe)
	return &summary, nil
}

// Remove deletes the favorite mark. Removing a mark that does not exist
// is a clean not-found, never a silent success.
func (s *FavoriteService) Remove(ctx context.Context, userID, recipeID uuid.UUID) error {
	result := s.db.WithContext(ctx).
		Where("user_id = ? AND recipe_id = ?", userID, recipeID).
		Delete(&models.Favorite{})
	if result.Error != nil {
		return apperr.Internal("failed to remove favorite", result.Error)
	}
	if result.RowsAffected == 0 {
		return apperr.NotFound("recipe is not in favorites")
	}
	return nil
}

// CartService toggles shopping-cart entries on recipes.
type CartService struct {
	db *gorm.DB
}

func NewCartService(db *gorm.DB) *CartService {
	return &CartService{db: db}
}

func (s *CartService) Add(ctx context.Context, userID, recipeID uuid.UUID) (*RecipeSummary, error) {
	recipe, err := recipeByID(s.db.WithContext(ctx), recipeID)
	if err != nil {
		return nil, err
	}

	var existing models.ShoppingCartItem
	err = s.db.WithContext(ctx).
		Where("user_id = ? AND recipe_id = ?", userID, recipeID).
		First(&existing).Error
	if err == nil {
		return nil, apperr.Conflict("recipe is already in the shopping cart")
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.Internal("failed to check cart entry", err)
	}

	entry := models.ShoppingCartItem{UserID: userID, RecipeID: recipeID}
	if err := s.db.WithContext(ctx).Create(&entry).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, apperr.Conflict("recipe is already in the shopping cart")
		}
		return nil, apperr.Internal("failed to add cart entry", err)
	}

	summary := summarize(recipe)
	return &summary, nil
}

func (s *CartService) Remove(ctx context.Context, userID, recipeID uuid.UUID) error {
	result := s.db.WithContext(ctx).
		Where("user_id = ? AND recipe_id = ?", userID, recipeID).
		Delete(&models.ShoppingCartItem{})
	if result.Error != nil {
		return apperr.Internal("failed to remove cart entry", result.Error)
	}
	if result.RowsAffected == 0 {
		return apperr.NotFound("recipe is not in the shopping cart")
	}
	return nil
}

func recipeByID(db *gorm.DB, recipeID uuid.UUID) (*models.Recipe, error) {
	var recipe models.Recipe
	if err := db.First(&recipe, "id = ?", recipeID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("recipe not found")
		}
		return nil, apperr.Internal("failed to load recipe", err)
	}
	return &recipe, nil
}

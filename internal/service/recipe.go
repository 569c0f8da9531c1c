package service

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/platefeed/backend/internal/apperr"
	"github.com/platefeed/backend/internal/log"
	"github.com/platefeed/backend/internal/models"
)

// RecipeService handles recipe composition: validated, atomic writes of a
// recipe together with its tag set and ingredient line items, and
// viewer-relative reads.
type RecipeService struct {
	db *gorm.DB
}

// NewRecipeService creates a new RecipeService instance
func NewRecipeService(db *gorm.DB) *RecipeService {
	return &RecipeService{db: db}
}

// IngredientInput is one requested line item: an existing ingredient and
// how much of it the recipe uses.
type IngredientInput struct {
	ID     uuid.UUID
	Amount int
}

// CreateRecipeInput carries everything a recipe is created with. Tag set
// and ingredient set are supplied together with the recipe, never
// incrementally.
type CreateRecipeInput struct {
	Name        string
	Text        string
	CookingTime int
	ImageURL    string
	TagIDs      []uuid.UUID
	Ingredients []IngredientInput
}

// UpdateRecipeInput is a patch: nil means keep the current value,
// non-nil (including a zero value) means set it. A supplied tag or
// ingredient set fully replaces the prior one.
type UpdateRecipeInput struct {
	Name        *string
	Text        *string
	CookingTime *int
	ImageURL    *string
	TagIDs      *[]uuid.UUID
	Ingredients *[]IngredientInput
}

// ListRecipesFilter narrows List. FavoritedOnly and InCartOnly are
// relative to the viewer passed to List.
type ListRecipesFilter struct {
	AuthorID      *uuid.UUID
	TagSlugs      []string
	FavoritedOnly bool
	InCartOnly    bool
}

// Create validates the input and persists the recipe row, its tag
// associations and its line items inside one transaction. Any failure
// leaves the database untouched.
func (s *RecipeService) Create(ctx context.Context, authorID uuid.UUID, in CreateRecipeInput) (*models.Recipe, error) {
	if in.CookingTime < 1 {
		return nil, apperr.Validation("cooking time must be at least 1 minute")
	}
	if err := validateTagIDs(in.TagIDs); err != nil {
		return nil, err
	}
	if err := validateIngredientInputs(in.Ingredients); err != nil {
		return nil, err
	}

	var recipeID uuid.UUID
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		tags, err := tagsByID(tx, in.TagIDs)
		if err != nil {
			return err
		}
		if err := ingredientsExist(tx, in.Ingredients); err != nil {
			return err
		}

		recipe := models.Recipe{
			AuthorID:    &authorID,
			Name:        in.Name,
			Text:        in.Text,
			CookingTime: in.CookingTime,
			ImageURL:    in.ImageURL,
		}
		if err := tx.Create(&recipe).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return apperr.Conflict("recipe with this name already exists for this author")
			}
			return apperr.Internal("failed to create recipe", err)
		}
		if err := tx.Model(&recipe).Association("Tags").Replace(&tags); err != nil {
			return apperr.Internal("failed to set recipe tags", err)
		}
		if err := insertLineItems(tx, recipe.ID, in.Ingredients); err != nil {
			return err
		}

		recipeID = recipe.ID
		return nil
	})
	if err != nil {
		return nil, err
	}

	log.Info(ctx, "recipe created", "recipe_id", recipeID, "author_id", authorID)
	return s.Get(ctx, recipeID, &authorID)
}

// Update applies a partial update. Fields not supplied keep their prior
// values; a supplied tag or ingredient set replaces the prior set
// wholesale (clear-then-insert). Only the author may update.
func (s *RecipeService) Update(ctx context.Context, recipeID, actorID uuid.UUID, in UpdateRecipeInput) (*models.Recipe, error) {
	if in.CookingTime != nil && *in.CookingTime < 1 {
		return nil, apperr.Validation("cooking time must be at least 1 minute")
	}
	if in.TagIDs != nil {
		if err := validateTagIDs(*in.TagIDs); err != nil {
			return nil, err
		}
	}
	if in.Ingredients != nil {
		if err := validateIngredientInputs(*in.Ingredients); err != nil {
			return nil, err
		}
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var recipe models.Recipe
		if err := tx.First(&recipe, "id = ?", recipeID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperr.NotFound("recipe not found")
			}
			return apperr.Internal("failed to load recipe", err)
		}
		if recipe.AuthorID == nil || *recipe.AuthorID != actorID {
			return apperr.Forbidden("only the author can modify this recipe")
		}

		updates := map[string]interface{}{}
		if in.Name != nil {
			updates["name"] = *in.Name
		}
		if in.Text != nil {
			updates["text"] = *in.Text
		}
		if in.CookingTime != nil {
			updates["cooking_time"] = *in.CookingTime
		}
		if in.ImageURL != nil {
			updates["image_url"] = *in.ImageURL
		}
		if len(updates) > 0 {
			if err := tx.Model(&recipe).Updates(updates).Error; err != nil {
				if errors.Is(err, gorm.ErrDuplicatedKey) {
					return apperr.Conflict("recipe with this name already exists for this author")
				}
				return apperr.Internal("failed to update recipe", err)
			}
		}

		if in.TagIDs != nil {
			tags, err := tagsByID(tx, *in.TagIDs)
			if err != nil {
				return err
			}
			if err := tx.Model(&recipe).Association("Tags").Replace(&tags); err != nil {
				return apperr.Internal("failed to replace recipe tags", err)
			}
		}

		if in.Ingredients != nil {
			if err := ingredientsExist(tx, *in.Ingredients); err != nil {
				return err
			}
			if err := tx.Where("recipe_id = ?", recipe.ID).Delete(&models.RecipeIngredient{}).Error; err != nil {
				return apperr.Internal("failed to clear recipe ingredients", err)
			}
			if err := insertLineItems(tx, recipe.ID, *in.Ingredients); err != nil {
				return err
			}
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	return s.Get(ctx, recipeID, &actorID)
}

// Delete removes a recipe with its line items, favorite marks and cart
// entries. Only the author may delete.
func (s *RecipeService) Delete(ctx context.Context, recipeID, actorID uuid.UUID) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var recipe models.Recipe
		if err := tx.First(&recipe, "id = ?", recipeID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperr.NotFound("recipe not found")
			}
			return apperr.Internal("failed to load recipe", err)
		}
		if recipe.AuthorID == nil || *recipe.AuthorID != actorID {
			return apperr.Forbidden("only the author can delete this recipe")
		}

		for _, del := range []error{
			tx.Where("recipe_id = ?", recipeID).Delete(&models.RecipeIngredient{}).Error,
			tx.Where("recipe_id = ?", recipeID).Delete(&models.Favorite{}).Error,
			tx.Where("recipe_id = ?", recipeID).Delete(&models.ShoppingCartItem{}).Error,
			tx.Exec("DELETE FROM recipe_tags WHERE recipe_id = ?", recipeID).Error,
			tx.Delete(&models.Recipe{}, "id = ?", recipeID).Error,
		} {
			if del != nil {
				return apperr.Internal("failed to delete recipe", del)
			}
		}
		return nil
	})
}

// Get retrieves a recipe with tags, line items and author, annotated for
// the viewer.
func (s *RecipeService) Get(ctx context.Context, recipeID uuid.UUID, viewerID *uuid.UUID) (*models.Recipe, error) {
	var recipe models.Recipe
	err := s.db.WithContext(ctx).
		Preload("Tags").
		Preload("Ingredients.Ingredient").
		Preload("Author").
		First(&recipe, "id = ?", recipeID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("recipe not found")
		}
		return nil, apperr.Internal("failed to load recipe", err)
	}

	if err := s.Annotate(ctx, []*models.Recipe{&recipe}, viewerID); err != nil {
		return nil, err
	}
	return &recipe, nil
}

// List returns recipes matching the filter, newest first, annotated for
// the viewer.
func (s *RecipeService) List(ctx context.Context, filter ListRecipesFilter, viewerID *uuid.UUID) ([]*models.Recipe, error) {
	if (filter.FavoritedOnly || filter.InCartOnly) && viewerID == nil {
		return []*models.Recipe{}, nil
	}

	query := s.db.WithContext(ctx).Model(&models.Recipe{}).
		Preload("Tags").
		Preload("Ingredients.Ingredient").
		Preload("Author").
		Order("recipes.created_at DESC")

	if filter.AuthorID != nil {
		query = query.Where("recipes.author_id = ?", *filter.AuthorID)
	}
	if len(filter.TagSlugs) > 0 {
		query = query.
			Joins("JOIN recipe_tags ON recipe_tags.recipe_id = recipes.id").
			Joins("JOIN tags ON tags.id = recipe_tags.tag_id").
			Where("tags.slug IN ?", filter.TagSlugs).
			Distinct("recipes.*")
	}
	if filter.FavoritedOnly {
		query = query.
			Joins("JOIN favorites ON favorites.recipe_id = recipes.id").
			Where("favorites.user_id = ?", *viewerID)
	}
	if filter.InCartOnly {
		query = query.
			Joins("JOIN shopping_cart_items ON shopping_cart_items.recipe_id = recipes.id").
			Where("shopping_cart_items.user_id = ?", *viewerID)
	}

	var recipes []*models.Recipe
	if err := query.Find(&recipes).Error; err != nil {
		return nil, apperr.Internal("failed to list recipes", err)
	}

	if err := s.Annotate(ctx, recipes, viewerID); err != nil {
		return nil, err
	}
	return recipes, nil
}

// Annotate fills is_favorited and is_in_shopping_cart for the viewer.
// Anonymous viewers get false flags without touching the database; for
// authenticated viewers the flags come from two batched lookups against
// the viewer's own relations, whatever page size N is.
func (s *RecipeService) Annotate(ctx context.Context, recipes []*models.Recipe, viewerID *uuid.UUID) error {
	if viewerID == nil || len(recipes) == 0 {
		return nil
	}

	ids := make([]uuid.UUID, len(recipes))
	for i, r := range recipes {
		ids[i] = r.ID
	}

	var favorited []uuid.UUID
	if err := s.db.WithContext(ctx).Model(&models.Favorite{}).
		Where("user_id = ? AND recipe_id IN ?", *viewerID, ids).
		Pluck("recipe_id", &favorited).Error; err != nil {
		return apperr.Internal("failed to load favorite marks", err)
	}

	var inCart []uuid.UUID
	if err := s.db.WithContext(ctx).Model(&models.ShoppingCartItem{}).
		Where("user_id = ? AND recipe_id IN ?", *viewerID, ids).
		Pluck("recipe_id", &inCart).Error; err != nil {
		return apperr.Internal("failed to load cart entries", err)
	}

	favSet := make(map[uuid.UUID]struct{}, len(favorited))
	for _, id := range favorited {
		favSet[id] = struct{}{}
	}
	cartSet := make(map[uuid.UUID]struct{}, len(inCart))
	for _, id := range inCart {
		cartSet[id] = struct{}{}
	}

	for _, r := range recipes {
		_, r.IsFavorited = favSet[r.ID]
		_, r.IsInShoppingCart = cartSet[r.ID]
	}
	return nil
}

func validateTagIDs(ids []uuid.UUID) error {
	if len(ids) == 0 {
		return apperr.Validation("at least one tag is required")
	}
	seen := make(map[uuid.UUID]struct{}, len(ids))
	for _, id := range ids {
		if _, dup := seen[id]; dup {
			return apperr.Validation("tags repeated")
		}
		seen[id] = struct{}{}
	}
	return nil
}

func validateIngredientInputs(items []IngredientInput) error {
	if len(items) == 0 {
		return apperr.Validation("at least one ingredient is required")
	}
	seen := make(map[uuid.UUID]struct{}, len(items))
	for _, item := range items {
		if item.Amount < 1 {
			return apperr.Validation("ingredient amount must be at least 1")
		}
		if _, dup := seen[item.ID]; dup {
			return apperr.Validation("ingredients repeated")
		}
		seen[item.ID] = struct{}{}
	}
	return nil
}

func tagsByID(tx *gorm.DB, ids []uuid.UUID) ([]models.Tag, error) {
	var tags []models.Tag
	if err := tx.Where("id IN ?", ids).Find(&tags).Error; err != nil {
		return nil, apperr.Internal("failed to load tags", err)
	}
	if len(tags) != len(ids) {
		return nil, apperr.NotFound("tag not found")
	}
	return tags, nil
}

func ingredientsExist(tx *gorm.DB, items []IngredientInput) error {
	ids := make([]uuid.UUID, len(items))
	for i, item := range items {
		ids[i] = item.ID
	}
	var count int64
	if err := tx.Model(&models.Ingredient{}).Where("id IN ?", ids).Count(&count).Error; err != nil {
		return apperr.Internal("failed to check ingredients", err)
	}
	if count != int64(len(ids)) {
		return apperr.NotFound("ingredient not found")
	}
	return nil
}

// insertLineItems bulk-inserts the line items for a recipe. The caller
// has already cleared any prior items; the (recipe, ingredient) unique
// constraint is the backstop if validation ever races.
func insertLineItems(tx *gorm.DB, recipeID uuid.UUID, items []IngredientInput) error {
	rows := make([]models.RecipeIngredient, len(items))
	for i, item := range items {
		rows[i] = models.RecipeIngredient{
			RecipeID:     recipeID,
			IngredientID: item.ID,
			Amount:       item.Amount,
		}
	}
	if err := tx.Create(&rows).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return apperr.Validation("ingredients repeated")
		}
		return apperr.Internal("failed to insert recipe ingredients", err)
	}
	return nil
}

package api

import (
	"time"

	"github.com/google/uuid"

	"github.com/platefeed/backend/internal/models"
	"github.com/platefeed/backend/internal/service"
)

type registerRequest struct {
	Email     string `json:"email" binding:"required,email"`
	Username  string `json:"username" binding:"required"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Password  string `json:"password" binding:"required,min=8"`
}

type loginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type recipeIngredientRequest struct {
	ID     uuid.UUID `json:"id" binding:"required"`
	Amount int       `json:"amount" binding:"required"`
}

type createRecipeRequest struct {
	Name        string                    `json:"name" binding:"required"`
	Text        string                    `json:"text" binding:"required"`
	CookingTime int                       `json:"cooking_time" binding:"required"`
	Image       string                    `json:"image"`
	Tags        []uuid.UUID               `json:"tags" binding:"required"`
	Ingredients []recipeIngredientRequest `json:"ingredients" binding:"required"`
}

// updateRecipeRequest is a patch: absent fields keep their prior values,
// present fields (including zero values) are applied.
type updateRecipeRequest struct {
	Name        *string                    `json:"name"`
	Text        *string                    `json:"text"`
	CookingTime *int                       `json:"cooking_time"`
	Image       *string                    `json:"image"`
	Tags        *[]uuid.UUID               `json:"tags"`
	Ingredients *[]recipeIngredientRequest `json:"ingredients"`
}

type userResponse struct {
	ID           uuid.UUID `json:"id"`
	Email        string    `json:"email"`
	Username     string    `json:"username"`
	FirstName    string    `json:"first_name"`
	LastName     string    `json:"last_name"`
	IsSubscribed bool      `json:"is_subscribed"`
}

type ingredientInRecipeResponse struct {
	ID              uuid.UUID `json:"id"`
	Name            string    `json:"name"`
	MeasurementUnit string    `json:"measurement_unit"`
	Amount          int       `json:"amount"`
}

type recipeResponse struct {
	ID               uuid.UUID                    `json:"id"`
	Tags             []models.Tag                 `json:"tags"`
	Author           *userResponse                `json:"author"`
	Ingredients      []ingredientInRecipeResponse `json:"ingredients"`
	IsFavorited      bool                         `json:"is_favorited"`
	IsInShoppingCart bool                         `json:"is_in_shopping_cart"`
	Name             string                       `json:"name"`
	Image            string                       `json:"image"`
	Text             string                       `json:"text"`
	CookingTime      int                          `json:"cooking_time"`
	CreatedAt        time.Time                    `json:"created_at"`
}

func toUserResponse(u *models.User) *userResponse {
	if u == nil {
		return nil
	}
	return &userResponse{
		ID:           u.ID,
		Email:        u.Email,
		Username:     u.Username,
		FirstName:    u.FirstName,
		LastName:     u.LastName,
		IsSubscribed: u.IsSubscribed,
	}
}

func toRecipeResponse(r *models.Recipe) recipeResponse {
	ingredients := make([]ingredientInRecipeResponse, 0, len(r.Ingredients))
	for _, line := range r.Ingredients {
		item := ingredientInRecipeResponse{
			ID:     line.IngredientID,
			Amount: line.Amount,
		}
		if line.Ingredient != nil {
			item.Name = line.Ingredient.Name
			item.MeasurementUnit = line.Ingredient.MeasurementUnit
		}
		ingredients = append(ingredients, item)
	}

	tags := r.Tags
	if tags == nil {
		tags = []models.Tag{}
	}

	return recipeResponse{
		ID:               r.ID,
		Tags:             tags,
		Author:           toUserResponse(r.Author),
		Ingredients:      ingredients,
		IsFavorited:      r.IsFavorited,
		IsInShoppingCart: r.IsInShoppingCart,
		Name:             r.Name,
		Image:            r.ImageURL,
		Text:             r.Text,
		CookingTime:      r.CookingTime,
		CreatedAt:        r.CreatedAt,
	}
}

func toIngredientInputs(reqs []recipeIngredientRequest) []service.IngredientInput {
	inputs := make([]service.IngredientInput, len(reqs))
	for i, req := range reqs {
		inputs[i] = service.IngredientInput{ID: req.ID, Amount: req.Amount}
	}
	return inputs
}

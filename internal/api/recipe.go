package api

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/platefeed/backend/internal/apperr"
	"github.com/platefeed/backend/internal/middleware"
	"github.com/platefeed/backend/internal/service"
)

// RecipeHandler serves recipe CRUD plus the per-recipe relation
// endpoints (favorite, shopping cart) and the shopping list download.
type RecipeHandler struct {
	recipeService       *service.RecipeService
	favoriteService     *service.FavoriteService
	cartService         *service.CartService
	shoppingListService *service.ShoppingListService
	imageService        *service.ImageService
	validator           middleware.TokenValidator
}

func NewRecipeHandler(
	recipeService *service.RecipeService,
	favoriteService *service.FavoriteService,
	cartService *service.CartService,
	shoppingListService *service.ShoppingListService,
	imageService *service.ImageService,
	validator middleware.TokenValidator,
) *RecipeHandler {
	return &RecipeHandler{
		recipeService:       recipeService,
		favoriteService:     favoriteService,
		cartService:         cartService,
		shoppingListService: shoppingListService,
		imageService:        imageService,
		validator:           validator,
	}
}

func (h *RecipeHandler) RegisterRoutes(router *gin.RouterGroup) {
	recipes := router.Group("/recipes")
	{
		recipes.GET("", middleware.OptionalAuthMiddleware(h.validator), h.List)
		recipes.GET("/:id", middleware.OptionalAuthMiddleware(h.validator), h.Get)

		authed := recipes.Group("", middleware.AuthMiddleware(h.validator))
		{
			authed.POST("", h.Create)
			authed.PATCH("/:id", h.Update)
			authed.DELETE("/:id", h.Delete)
			authed.POST("/:id/favorite", h.AddFavorite)
			authed.DELETE("/:id/favorite", h.RemoveFavorite)
			authed.POST("/:id/shopping_cart", h.AddToCart)
			authed.DELETE("/:id/shopping_cart", h.RemoveFromCart)
			authed.GET("/download_shopping_cart", h.DownloadShoppingCart)
		}
	}
}

func (h *RecipeHandler) List(c *gin.Context) {
	viewerID := middleware.ViewerID(c)

	var filter service.ListRecipesFilter
	if author := c.Query("author"); author != "" {
		authorID, err := uuid.Parse(author)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid author id"})
			return
		}
		filter.AuthorID = &authorID
	}
	if tags := c.QueryArray("tags"); len(tags) > 0 {
		filter.TagSlugs = tags
	}
	filter.FavoritedOnly = c.Query("is_favorited") == "1"
	filter.InCartOnly = c.Query("is_in_shopping_cart") == "1"

	recipes, err := h.recipeService.List(c.Request.Context(), filter, viewerID)
	if err != nil {
		writeError(c, err)
		return
	}

	out := make([]recipeResponse, 0, len(recipes))
	for _, r := range recipes {
		out = append(out, toRecipeResponse(r))
	}
	c.JSON(http.StatusOK, out)
}

func (h *RecipeHandler) Get(c *gin.Context) {
	recipeID, ok := pathID(c)
	if !ok {
		return
	}

	recipe, err := h.recipeService.Get(c.Request.Context(), recipeID, middleware.ViewerID(c))
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, toRecipeResponse(recipe))
}

func (h *RecipeHandler) Create(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req createRecipeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	imageURL, err := h.resolveImage(c, req.Image)
	if err != nil {
		writeError(c, err)
		return
	}

	recipe, err := h.recipeService.Create(c.Request.Context(), userID, service.CreateRecipeInput{
		Name:        req.Name,
		Text:        req.Text,
		CookingTime: req.CookingTime,
		ImageURL:    imageURL,
		TagIDs:      req.Tags,
		Ingredients: toIngredientInputs(req.Ingredients),
	})
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, toRecipeResponse(recipe))
}

func (h *RecipeHandler) Update(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	recipeID, ok := pathID(c)
	if !ok {
		return
	}

	var req updateRecipeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	in := service.UpdateRecipeInput{
		Name:        req.Name,
		Text:        req.Text,
		CookingTime: req.CookingTime,
		TagIDs:      req.Tags,
	}
	if req.Image != nil {
		imageURL, err := h.resolveImage(c, *req.Image)
		if err != nil {
			writeError(c, err)
			return
		}
		in.ImageURL = &imageURL
	}
	if req.Ingredients != nil {
		inputs := toIngredientInputs(*req.Ingredients)
		in.Ingredients = &inputs
	}

	recipe, err := h.recipeService.Update(c.Request.Context(), recipeID, userID, in)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, toRecipeResponse(recipe))
}

func (h *RecipeHandler) Delete(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	recipeID, ok := pathID(c)
	if !ok {
		return
	}

	if err := h.recipeService.Delete(c.Request.Context(), recipeID, userID); err != nil {
		writeError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

func (h *RecipeHandler) AddFavorite(c *gin.Context) {
	h.addRelation(c, h.favoriteService.Add)
}

func (h *RecipeHandler) RemoveFavorite(c *gin.Context) {
	h.removeRelation(c, h.favoriteService.Remove)
}

func (h *RecipeHandler) AddToCart(c *gin.Context) {
	h.addRelation(c, h.cartService.Add)
}

func (h *RecipeHandler) RemoveFromCart(c *gin.Context) {
	h.removeRelation(c, h.cartService.Remove)
}

func (h *RecipeHandler) DownloadShoppingCart(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	items, err := h.shoppingListService.ShoppingList(c.Request.Context(), userID)
	if err != nil {
		writeError(c, err)
		return
	}
	if len(items) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "shopping cart is empty"})
		return
	}

	body := service.RenderShoppingList(items)
	c.Header("Content-Disposition", `attachment; filename="shopping_list.txt"`)
	c.Data(http.StatusOK, "text/plain; charset=utf-8", []byte(body))
}

func (h *RecipeHandler) addRelation(c *gin.Context, add func(ctx context.Context, userID, recipeID uuid.UUID) (*service.RecipeSummary, error)) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	recipeID, ok := pathID(c)
	if !ok {
		return
	}

	summary, err := add(c.Request.Context(), userID, recipeID)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, summary)
}

func (h *RecipeHandler) removeRelation(c *gin.Context, remove func(ctx context.Context, userID, recipeID uuid.UUID) error) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	recipeID, ok := pathID(c)
	if !ok {
		return
	}

	if err := remove(c.Request.Context(), userID, recipeID); err != nil {
		writeError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// resolveImage turns a base64 data URL into a stored object URL. Plain
// URLs pass through untouched so clients can keep an existing image on
// update.
func (h *RecipeHandler) resolveImage(c *gin.Context, image string) (string, error) {
	if image == "" || !service.IsDataURL(image) {
		return image, nil
	}
	if h.imageService == nil {
		return "", apperr.Validation("image upload is not configured")
	}
	return h.imageService.UploadBase64(c.Request.Context(), image)
}

func pathID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(strings.TrimSpace(c.Param("id")))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return uuid.Nil, false
	}
	return id, true
}

func currentUserID(c *gin.Context) (uuid.UUID, bool) {
	id := middleware.ViewerID(c)
	if id == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return uuid.Nil, false
	}
	return *id, true
}

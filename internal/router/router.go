package router

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/platefeed/backend/internal/api"
	"github.com/platefeed/backend/internal/middleware"
	"github.com/platefeed/backend/internal/service"
)

// Handlers groups everything SetupRouter mounts.
type Handlers struct {
	Auth       *api.AuthHandler
	User       *api.UserHandler
	Recipe     *api.RecipeHandler
	Tag        *api.TagHandler
	Ingredient *api.IngredientHandler
	Health     *api.HealthHandler
}

// SetupRouter configures the application routes.
func SetupRouter(h Handlers) *gin.Engine {
	router := gin.Default()

	router.Use(middleware.CORS())

	v1 := router.Group("/api/v1")

	h.Health.RegisterRoutes(v1)
	h.Auth.RegisterRoutes(v1)
	h.User.RegisterRoutes(v1)
	h.Recipe.RegisterRoutes(v1)
	h.Tag.RegisterRoutes(v1)
	h.Ingredient.RegisterRoutes(v1)

	return router
}

// NewHandlers wires the default handler set over a database handle and
// an auth service. The image service may be nil when object storage is
// not configured.
func NewHandlers(db *gorm.DB, authService *service.AuthService, imageService *service.ImageService) Handlers {
	return Handlers{
		Auth: api.NewAuthHandler(authService),
		User: api.NewUserHandler(authService, service.NewSubscriptionService(db), authService),
		Recipe: api.NewRecipeHandler(
			service.NewRecipeService(db),
			service.NewFavoriteService(db),
			service.NewCartService(db),
			service.NewShoppingListService(db),
			imageService,
			authService,
		),
		Tag:        api.NewTagHandler(db),
		Ingredient: api.NewIngredientHandler(db),
		Health:     api.NewHealthHandler(db),
	}
}

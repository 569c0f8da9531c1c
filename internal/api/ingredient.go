package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/platefeed/backend/internal/models"
)

// IngredientHandler serves the read-only ingredient catalogue used when
// composing recipes. Supports case-insensitive prefix search via ?name=.
type IngredientHandler struct {
	db *gorm.DB
}

func NewIngredientHandler(db *gorm.DB) *IngredientHandler {
	return &IngredientHandler{db: db}
}

func (h *IngredientHandler) RegisterRoutes(router *gin.RouterGroup) {
	ingredients := router.Group("/ingredients")
	{
		ingredients.GET("", h.List)
		ingredients.GET("/:id", h.Get)
	}
}

func (h *IngredientHandler) List(c *gin.Context) {
	query := h.db.WithContext(c.Request.Context()).Order("name ASC")
	if name := c.Query("name"); name != "" {
		query = query.Where("LOWER(name) LIKE LOWER(?)", name+"%")
	}

	var ingredients []models.Ingredient
	if err := query.Find(&ingredients).Error; err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, ingredients)
}

func (h *IngredientHandler) Get(c *gin.Context) {
	ingredientID, ok := pathID(c)
	if !ok {
		return
	}

	var ingredient models.Ingredient
	err := h.db.WithContext(c.Request.Context()).First(&ingredient, "id = ?", ingredientID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "ingredient not found"})
		return
	}
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, ingredient)
}

package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/platefeed/backend/internal/models"
)

// TagHandler serves the read-only tag catalogue. Tags are managed out of
// band, so there are no write endpoints.
type TagHandler struct {
	db *gorm.DB
}

func NewTagHandler(db *gorm.DB) *TagHandler {
	return &TagHandler{db: db}
}

func (h *TagHandler) RegisterRoutes(router *gin.RouterGroup) {
	tags := router.Group("/tags")
	{
		tags.GET("", h.List)
		tags.GET("/:id", h.Get)
	}
}

func (h *TagHandler) List(c *gin.Context) {
	var tags []models.Tag
	if err := h.db.WithContext(c.Request.Context()).Order("name ASC").Find(&tags).Error; err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, tags)
}

func (h *TagHandler) Get(c *gin.Context) {
	tagID, ok := pathID(c)
	if !ok {
		return
	}

	var tag models.Tag
	err := h.db.WithContext(c.Request.Context()).First(&tag, "id = ?", tagID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "tag not found"})
		return
	}
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, tag)
}

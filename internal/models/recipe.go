package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Recipe is owned by its author. The author reference uses SET NULL so
// recipes outlive a deleted account. (Name, author) is unique.
type Recipe struct {
	ID          uuid.UUID  `gorm:"type:varchar(36);primarykey" json:"id"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
	AuthorID    *uuid.UUID `gorm:"type:varchar(36);index;uniqueIndex:idx_recipes_author_name" json:"author_id"`
	Name        string     `gorm:"size:200;not null;uniqueIndex:idx_recipes_author_name" json:"name"`
	Text        string     `gorm:"type:text;not null" json:"text"`
	CookingTime int        `gorm:"not null;check:cooking_time >= 1" json:"cooking_time"`
	ImageURL    string     `gorm:"size:500" json:"image"`

	Author      *User              `gorm:"foreignKey:AuthorID;constraint:OnDelete:SET NULL" json:"author,omitempty"`
	Tags        []Tag              `gorm:"many2many:recipe_tags;constraint:OnDelete:CASCADE" json:"tags"`
	Ingredients []RecipeIngredient `gorm:"foreignKey:RecipeID" json:"ingredients"`

	// Viewer-relative flags, never persisted.
	IsFavorited      bool `gorm:"-" json:"is_favorited"`
	IsInShoppingCart bool `gorm:"-" json:"is_in_shopping_cart"`
}

func (r *Recipe) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}

// RecipeIngredient is a line item: this recipe uses this much of this
// ingredient. (Recipe, ingredient) is unique and the amount is >= 1.
// Line items are owned by their recipe and replaced wholesale on update.
type RecipeIngredient struct {
	ID           uuid.UUID `gorm:"type:varchar(36);primarykey" json:"-"`
	RecipeID     uuid.UUID `gorm:"type:varchar(36);not null;index;uniqueIndex:idx_recipe_ingredient" json:"-"`
	IngredientID uuid.UUID `gorm:"type:varchar(36);not null;index;uniqueIndex:idx_recipe_ingredient" json:"id"`
	Amount       int       `gorm:"not null;check:amount >= 1" json:"amount"`

	Recipe     *Recipe     `gorm:"foreignKey:RecipeID;constraint:OnDelete:CASCADE" json:"-"`
	Ingredient *Ingredient `gorm:"foreignKey:IngredientID;constraint:OnDelete:CASCADE" json:"-"`
}

func (RecipeIngredient) TableName() string {
	return "recipe_ingredients"
}

func (ri *RecipeIngredient) BeforeCreate(tx *gorm.DB) error {
	if ri.ID == uuid.Nil {
		ri.ID = uuid.New()
	}
	return nil
}

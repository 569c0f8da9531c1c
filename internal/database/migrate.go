package database

import (
	"gorm.io/gorm"

	"github.com/platefeed/backend/internal/models"
)

// AutoMigrate creates or updates the schema for every persisted entity.
// Production deployments run the SQL migrations in cmd/migrate instead;
// this path covers sqlite and development boots.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.User{},
		&models.Tag{},
		&models.Ingredient{},
		&models.Recipe{},
		&models.RecipeIngredient{},
		&models.Favorite{},
		&models.ShoppingCartItem{},
		&models.Subscription{},
	)
}

package database

import (
	"gorm.io/gorm"

	"github.com/foodgram/backend/internal/models"
)

// RunMigrations applies the schema for every model. Composite unique
// indexes on the join entities (favorites, shopping carts, follows,
// recipe ingredients) are created here and are what the relationship
// guard's atomic insert relies on.
func RunMigrations(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.User{},
		&models.Tag{},
		&models.Ingredient{},
		&models.Recipe{},
		&models.RecipeIngredient{},
		&models.Favorite{},
		&models.ShoppingCart{},
		&models.Follow{},
	)
}

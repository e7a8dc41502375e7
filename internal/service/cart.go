package service

import (
	"context"

	"github.com/google/uuid"

	"github.com/foodgram/backend/internal/models"
	"github.com/foodgram/backend/internal/types"
)

// AddToCart puts the recipe into the user's shopping cart. A second
// attempt for the same pair fails with ErrDuplicateRelationship.
func (s *RecipeService) AddToCart(ctx context.Context, userID, recipeID uuid.UUID) (*types.RecipeShortView, error) {
	recipe, err := s.shortView(ctx, recipeID)
	if err != nil {
		return nil, err
	}
	entry := models.ShoppingCart{UserID: userID, RecipeID: recipeID}
	if err := createUnique(ctx, s.db, &entry, "recipe already in shopping cart"); err != nil {
		return nil, err
	}
	return recipe, nil
}

// RemoveFromCart removes the cart row; missing row is ErrNotFound.
func (s *RecipeService) RemoveFromCart(ctx context.Context, userID, recipeID uuid.UUID) error {
	return deleteRelation[models.ShoppingCart](ctx, s.db, "user_id = ? AND recipe_id = ?", userID, recipeID)
}

// ShoppingList aggregates ingredient amounts across every recipe in the
// user's cart, grouped by ingredient name and unit. The summation runs
// in the store, not in memory.
func (s *RecipeService) ShoppingList(ctx context.Context, userID uuid.UUID) ([]types.ShoppingListItem, error) {
	var items []types.ShoppingListItem
	err := s.db.WithContext(ctx).
		Model(&models.RecipeIngredient{}).
		Select("ingredients.name AS name, ingredients.measurement_unit AS measurement_unit, SUM(recipe_ingredients.amount) AS amount").
		Joins("JOIN ingredients ON ingredients.id = recipe_ingredients.ingredient_id").
		Joins("JOIN shopping_carts ON shopping_carts.recipe_id = recipe_ingredients.recipe_id").
		Where("shopping_carts.user_id = ?", userID).
		Group("ingredients.name, ingredients.measurement_unit").
		Order("ingredients.name").
		Scan(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}

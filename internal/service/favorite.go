package service

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/foodgram/backend/internal/models"
	"github.com/foodgram/backend/internal/types"
)

// Favorite adds the recipe to the user's favorites. A second attempt
// for the same pair fails with ErrDuplicateRelationship.
func (s *RecipeService) Favorite(ctx context.Context, userID, recipeID uuid.UUID) (*types.RecipeShortView, error) {
	recipe, err := s.shortView(ctx, recipeID)
	if err != nil {
		return nil, err
	}
	fav := models.Favorite{UserID: userID, RecipeID: recipeID}
	if err := createUnique(ctx, s.db, &fav, "recipe already in favorites"); err != nil {
		return nil, err
	}
	return recipe, nil
}

// Unfavorite removes the favorite row; missing row is ErrNotFound.
func (s *RecipeService) Unfavorite(ctx context.Context, userID, recipeID uuid.UUID) error {
	return deleteRelation[models.Favorite](ctx, s.db, "user_id = ? AND recipe_id = ?", userID, recipeID)
}

func (s *RecipeService) shortView(ctx context.Context, recipeID uuid.UUID) (*types.RecipeShortView, error) {
	var recipe models.Recipe
	if err := s.db.WithContext(ctx).First(&recipe, "id = ?", recipeID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &types.RecipeShortView{
		ID:          recipe.ID,
		Name:        recipe.Name,
		Image:       recipe.ImageURL,
		CookingTime: recipe.CookingTime,
	}, nil
}

package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/foodgram/backend/internal/models"
	"github.com/foodgram/backend/internal/types"
)

// FollowService handles subscriptions between users and the projection
// of followed authors with their recipes.
type FollowService struct {
	db *gorm.DB
}

func NewFollowService(db *gorm.DB) *FollowService {
	return &FollowService{db: db}
}

// Subscribe creates a follow from the requesting user to the target
// author. Following yourself is rejected, and a duplicate subscription
// fails with ErrDuplicateRelationship.
func (s *FollowService) Subscribe(ctx context.Context, userID, authorID uuid.UUID, recipeLimit int) (*types.FollowingUserView, error) {
	if userID == authorID {
		return nil, fmt.Errorf("%w: cannot subscribe to yourself", ErrInvalidReference)
	}

	var author models.User
	if err := s.db.WithContext(ctx).First(&author, "id = ?", authorID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: unknown user id", ErrInvalidReference)
		}
		return nil, err
	}

	follow := models.Follow{UserID: userID, AuthorID: authorID}
	if err := createUnique(ctx, s.db, &follow, "already subscribed"); err != nil {
		return nil, err
	}

	return s.projectUser(ctx, &author, &userID, recipeLimit)
}

// Unsubscribe removes the follow row; missing row is ErrNotFound.
func (s *FollowService) Unsubscribe(ctx context.Context, userID, authorID uuid.UUID) error {
	return deleteRelation[models.Follow](ctx, s.db, "user_id = ? AND author_id = ?", userID, authorID)
}

// Project builds a FollowingUserView for the target user as seen by the
// viewer. recipeLimit bounds the embedded recipe list at the query
// level; the count stays unbounded.
func (s *FollowService) Project(ctx context.Context, targetID uuid.UUID, viewer *uuid.UUID, recipeLimit int) (*types.FollowingUserView, error) {
	var target models.User
	if err := s.db.WithContext(ctx).First(&target, "id = ?", targetID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return s.projectUser(ctx, &target, viewer, recipeLimit)
}

// Subscriptions returns a FollowingUserView for every author the user
// follows, oldest subscription first.
func (s *FollowService) Subscriptions(ctx context.Context, userID uuid.UUID, recipeLimit int) ([]types.FollowingUserView, error) {
	var authors []models.User
	err := s.db.WithContext(ctx).
		Joins("JOIN follows ON follows.author_id = users.id").
		Where("follows.user_id = ?", userID).
		Order("follows.created_at").
		Find(&authors).Error
	if err != nil {
		return nil, err
	}

	views := make([]types.FollowingUserView, 0, len(authors))
	for i := range authors {
		view, err := s.projectUser(ctx, &authors[i], &userID, recipeLimit)
		if err != nil {
			return nil, err
		}
		views = append(views, *view)
	}
	return views, nil
}

func (s *FollowService) projectUser(ctx context.Context, target *models.User, viewer *uuid.UUID, recipeLimit int) (*types.FollowingUserView, error) {
	q := s.db.WithContext(ctx).
		Where("author_id = ?", target.ID).
		Order("created_at DESC")
	if recipeLimit > 0 {
		// Bound at the source rather than slicing a materialized list.
		q = q.Limit(recipeLimit)
	}
	var recipes []models.Recipe
	if err := q.Find(&recipes).Error; err != nil {
		return nil, err
	}

	var count int64
	err := s.db.WithContext(ctx).Model(&models.Recipe{}).
		Where("author_id = ?", target.ID).
		Count(&count).Error
	if err != nil {
		return nil, err
	}

	subscribed := false
	if viewer != nil && *viewer != target.ID {
		var follows int64
		err := s.db.WithContext(ctx).Model(&models.Follow{}).
			Where("user_id = ? AND author_id = ?", *viewer, target.ID).
			Count(&follows).Error
		if err != nil {
			return nil, err
		}
		subscribed = follows > 0
	}

	shorts := make([]types.RecipeShortView, 0, len(recipes))
	for _, r := range recipes {
		shorts = append(shorts, types.RecipeShortView{
			ID:          r.ID,
			Name:        r.Name,
			Image:       r.ImageURL,
			CookingTime: r.CookingTime,
		})
	}

	return &types.FollowingUserView{
		ID:           target.ID,
		Email:        target.Email,
		Username:     target.Username,
		FirstName:    target.FirstName,
		LastName:     target.LastName,
		Recipes:      shorts,
		RecipesCount: count,
		IsSubscribed: subscribed,
	}, nil
}

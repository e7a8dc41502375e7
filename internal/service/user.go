package service

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/foodgram/backend/internal/models"
	"github.com/foodgram/backend/internal/types"
)

// UserService serves user views with the viewer-relative subscription
// flag.
type UserService struct {
	db *gorm.DB
}

func NewUserService(db *gorm.DB) *UserService {
	return &UserService{db: db}
}

func (s *UserService) Get(ctx context.Context, id uuid.UUID, viewer *uuid.UUID) (*types.UserView, error) {
	var user models.User
	if err := s.db.WithContext(ctx).First(&user, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	subscribed := false
	if viewer != nil && *viewer != user.ID {
		var count int64
		err := s.db.WithContext(ctx).Model(&models.Follow{}).
			Where("user_id = ? AND author_id = ?", *viewer, user.ID).
			Count(&count).Error
		if err != nil {
			return nil, err
		}
		subscribed = count > 0
	}

	view := userView(&user, subscribed)
	return &view, nil
}

func (s *UserService) List(ctx context.Context, viewer *uuid.UUID, page, limit int) ([]types.UserView, int64, error) {
	var count int64
	if err := s.db.WithContext(ctx).Model(&models.User{}).Count(&count).Error; err != nil {
		return nil, 0, err
	}

	q := s.db.WithContext(ctx).Order("username")
	if limit > 0 {
		q = q.Limit(limit)
		if page > 1 {
			q = q.Offset((page - 1) * limit)
		}
	}
	var users []models.User
	if err := q.Find(&users).Error; err != nil {
		return nil, 0, err
	}

	following := make(map[uuid.UUID]bool)
	if viewer != nil && len(users) > 0 {
		ids := make([]uuid.UUID, len(users))
		for i, u := range users {
			ids[i] = u.ID
		}
		var followedIDs []uuid.UUID
		err := s.db.WithContext(ctx).Model(&models.Follow{}).
			Where("user_id = ? AND author_id IN ?", *viewer, ids).
			Pluck("author_id", &followedIDs).Error
		if err != nil {
			return nil, 0, err
		}
		for _, id := range followedIDs {
			following[id] = true
		}
	}

	views := make([]types.UserView, 0, len(users))
	for i := range users {
		subscribed := viewer != nil && *viewer != users[i].ID && following[users[i].ID]
		views = append(views, userView(&users[i], subscribed))
	}
	return views, count, nil
}

func userView(u *models.User, subscribed bool) types.UserView {
	return types.UserView{
		ID:           u.ID,
		Username:     u.Username,
		FirstName:    u.FirstName,
		LastName:     u.LastName,
		Email:        u.Email,
		IsSubscribed: subscribed,
	}
}

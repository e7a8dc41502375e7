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

// RecipeService owns the recipe aggregate: the write path (create and
// update inside one transaction, ingredient and tag sets replaced as a
// whole) and the read path (views with viewer-relative booleans).
type RecipeService struct {
	db    *gorm.DB
	media MediaStore
}

func NewRecipeService(db *gorm.DB, media MediaStore) *RecipeService {
	return &RecipeService{db: db, media: media}
}

// RecipeFilter narrows a recipe listing. Nil/zero fields are ignored.
type RecipeFilter struct {
	AuthorID  *uuid.UUID
	TagSlugs  []string
	Favorited bool
	InCart    bool
	Page      int
	Limit     int
}

// Create validates and persists a new recipe aggregate. The recipe row,
// its tag associations and its ingredient rows are written in a single
// transaction. The response is read-model shaped.
func (s *RecipeService) Create(ctx context.Context, authorID uuid.UUID, in types.RecipeInput) (*types.RecipeView, error) {
	if err := validateRecipeInput(in); err != nil {
		return nil, err
	}
	if in.Image == "" {
		return nil, fmt.Errorf("%w: image is required", ErrInvalidField)
	}

	tags, err := s.resolveTags(ctx, in.Tags)
	if err != nil {
		return nil, err
	}
	if err := s.resolveIngredients(ctx, in.Ingredients); err != nil {
		return nil, err
	}

	imageURL, err := s.storeImage(ctx, in.Image)
	if err != nil {
		return nil, err
	}

	recipe := models.Recipe{
		AuthorID:    authorID,
		Name:        in.Name,
		Text:        in.Text,
		CookingTime: in.CookingTime,
		ImageURL:    imageURL,
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&recipe).Error; err != nil {
			return err
		}
		if err := tx.Model(&recipe).Association("Tags").Append(&tags); err != nil {
			return err
		}
		rows := ingredientRows(recipe.ID, in.Ingredients)
		return tx.Create(&rows).Error
	})
	if err != nil {
		return nil, err
	}

	return s.Get(ctx, recipe.ID, &authorID)
}

// Update replaces the recipe's scalar fields and full-replaces its tag
// and ingredient sets. Validation happens before any write, so a
// rejected update leaves the existing rows untouched.
func (s *RecipeService) Update(ctx context.Context, userID, recipeID uuid.UUID, in types.RecipeInput) (*types.RecipeView, error) {
	var recipe models.Recipe
	if err := s.db.WithContext(ctx).First(&recipe, "id = ?", recipeID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if recipe.AuthorID != userID {
		return nil, ErrForbidden
	}

	if err := validateRecipeInput(in); err != nil {
		return nil, err
	}
	tags, err := s.resolveTags(ctx, in.Tags)
	if err != nil {
		return nil, err
	}
	if err := s.resolveIngredients(ctx, in.Ingredients); err != nil {
		return nil, err
	}

	imageURL := recipe.ImageURL
	if in.Image != "" {
		if imageURL, err = s.storeImage(ctx, in.Image); err != nil {
			return nil, err
		}
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		updates := map[string]interface{}{
			"name":         in.Name,
			"text":         in.Text,
			"cooking_time": in.CookingTime,
			"image_url":    imageURL,
		}
		if err := tx.Model(&recipe).Updates(updates).Error; err != nil {
			return err
		}
		if err := tx.Model(&recipe).Association("Tags").Replace(&tags); err != nil {
			return err
		}
		if err := tx.Where("recipe_id = ?", recipe.ID).Delete(&models.RecipeIngredient{}).Error; err != nil {
			return err
		}
		rows := ingredientRows(recipe.ID, in.Ingredients)
		return tx.Create(&rows).Error
	})
	if err != nil {
		return nil, err
	}

	return s.Get(ctx, recipe.ID, &userID)
}

// Delete removes a recipe together with its owned ingredient rows, tag
// associations and any favorite or cart rows pointing at it.
func (s *RecipeService) Delete(ctx context.Context, userID, recipeID uuid.UUID) error {
	var recipe models.Recipe
	if err := s.db.WithContext(ctx).First(&recipe, "id = ?", recipeID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}
	if recipe.AuthorID != userID {
		return ErrForbidden
	}

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("recipe_id = ?", recipeID).Delete(&models.RecipeIngredient{}).Error; err != nil {
			return err
		}
		if err := tx.Model(&recipe).Association("Tags").Clear(); err != nil {
			return err
		}
		if err := tx.Where("recipe_id = ?", recipeID).Delete(&models.Favorite{}).Error; err != nil {
			return err
		}
		if err := tx.Where("recipe_id = ?", recipeID).Delete(&models.ShoppingCart{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Recipe{}, "id = ?", recipeID).Error
	})
}

// Get loads one recipe and projects it for the given viewer. A nil
// viewer is an anonymous request.
func (s *RecipeService) Get(ctx context.Context, id uuid.UUID, viewer *uuid.UUID) (*types.RecipeView, error) {
	var recipe models.Recipe
	err := s.db.WithContext(ctx).
		Preload("Tags").
		Preload("Ingredients.Ingredient").
		Preload("Author").
		First(&recipe, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	views, err := s.project(ctx, []models.Recipe{recipe}, viewer)
	if err != nil {
		return nil, err
	}
	return &views[0], nil
}

// List returns a filtered, paginated recipe listing, newest first.
func (s *RecipeService) List(ctx context.Context, viewer *uuid.UUID, f RecipeFilter) (*types.RecipePage, error) {
	q := s.db.WithContext(ctx).Model(&models.Recipe{})

	if f.AuthorID != nil {
		q = q.Where("author_id = ?", *f.AuthorID)
	}
	if len(f.TagSlugs) > 0 {
		sub := s.db.Table("recipe_tags").
			Select("recipe_tags.recipe_id").
			Joins("JOIN tags ON tags.id = recipe_tags.tag_id").
			Where("tags.slug IN ?", f.TagSlugs)
		q = q.Where("recipes.id IN (?)", sub)
	}
	if f.Favorited && viewer != nil {
		sub := s.db.Model(&models.Favorite{}).
			Select("recipe_id").
			Where("user_id = ?", *viewer)
		q = q.Where("recipes.id IN (?)", sub)
	}
	if f.InCart && viewer != nil {
		sub := s.db.Model(&models.ShoppingCart{}).
			Select("recipe_id").
			Where("user_id = ?", *viewer)
		q = q.Where("recipes.id IN (?)", sub)
	}

	var count int64
	if err := q.Count(&count).Error; err != nil {
		return nil, err
	}

	if f.Limit > 0 {
		q = q.Limit(f.Limit)
		if f.Page > 1 {
			q = q.Offset((f.Page - 1) * f.Limit)
		}
	}

	var recipes []models.Recipe
	err := q.Preload("Tags").
		Preload("Ingredients.Ingredient").
		Preload("Author").
		Order("created_at DESC").
		Find(&recipes).Error
	if err != nil {
		return nil, err
	}

	views, err := s.project(ctx, recipes, viewer)
	if err != nil {
		return nil, err
	}
	return &types.RecipePage{Count: count, Results: views}, nil
}

// project builds read views for a batch of preloaded recipes. The
// viewer-relative lookups (favorites, cart entries, follows) are done
// with one query per relation for the whole batch.
func (s *RecipeService) project(ctx context.Context, recipes []models.Recipe, viewer *uuid.UUID) ([]types.RecipeView, error) {
	favorited := make(map[uuid.UUID]bool)
	inCart := make(map[uuid.UUID]bool)
	following := make(map[uuid.UUID]bool)

	if viewer != nil && len(recipes) > 0 {
		recipeIDs := make([]uuid.UUID, len(recipes))
		authorIDs := make([]uuid.UUID, len(recipes))
		for i, r := range recipes {
			recipeIDs[i] = r.ID
			authorIDs[i] = r.AuthorID
		}

		var favoriteIDs []uuid.UUID
		err := s.db.WithContext(ctx).Model(&models.Favorite{}).
			Where("user_id = ? AND recipe_id IN ?", *viewer, recipeIDs).
			Pluck("recipe_id", &favoriteIDs).Error
		if err != nil {
			return nil, err
		}
		for _, id := range favoriteIDs {
			favorited[id] = true
		}

		var cartIDs []uuid.UUID
		err = s.db.WithContext(ctx).Model(&models.ShoppingCart{}).
			Where("user_id = ? AND recipe_id IN ?", *viewer, recipeIDs).
			Pluck("recipe_id", &cartIDs).Error
		if err != nil {
			return nil, err
		}
		for _, id := range cartIDs {
			inCart[id] = true
		}

		var followedIDs []uuid.UUID
		err = s.db.WithContext(ctx).Model(&models.Follow{}).
			Where("user_id = ? AND author_id IN ?", *viewer, authorIDs).
			Pluck("author_id", &followedIDs).Error
		if err != nil {
			return nil, err
		}
		for _, id := range followedIDs {
			following[id] = true
		}
	}

	views := make([]types.RecipeView, 0, len(recipes))
	for _, r := range recipes {
		tags := make([]types.TagView, 0, len(r.Tags))
		for _, t := range r.Tags {
			tags = append(tags, types.TagView{ID: t.ID, Name: t.Name, Slug: t.Slug, Color: t.Color})
		}

		ingredients := make([]types.IngredientAmount, 0, len(r.Ingredients))
		for _, ri := range r.Ingredients {
			ingredients = append(ingredients, types.IngredientAmount{
				ID:              ri.Ingredient.ID,
				Name:            ri.Ingredient.Name,
				MeasurementUnit: ri.Ingredient.MeasurementUnit,
				Amount:          ri.Amount,
			})
		}

		author := types.UserView{
			ID:           r.Author.ID,
			Username:     r.Author.Username,
			FirstName:    r.Author.FirstName,
			LastName:     r.Author.LastName,
			Email:        r.Author.Email,
			IsSubscribed: viewer != nil && *viewer != r.AuthorID && following[r.AuthorID],
		}

		views = append(views, types.RecipeView{
			ID:               r.ID,
			Tags:             tags,
			Author:           author,
			Ingredients:      ingredients,
			IsFavorited:      favorited[r.ID],
			IsInShoppingCart: inCart[r.ID],
			Name:             r.Name,
			Image:            r.ImageURL,
			Text:             r.Text,
			CookingTime:      r.CookingTime,
		})
	}
	return views, nil
}

func (s *RecipeService) storeImage(ctx context.Context, payload string) (string, error) {
	decoded, err := DecodeImage(payload)
	if err != nil {
		return "", err
	}
	if decoded == nil {
		// Already an addressable reference, keep it.
		return payload, nil
	}
	key := fmt.Sprintf("recipes/%s.%s", uuid.New(), decoded.Ext)
	return s.media.Save(ctx, key, decoded.Data)
}

func (s *RecipeService) resolveTags(ctx context.Context, ids []uuid.UUID) ([]models.Tag, error) {
	var tags []models.Tag
	if err := s.db.WithContext(ctx).Where("id IN ?", ids).Find(&tags).Error; err != nil {
		return nil, err
	}
	if len(tags) != len(ids) {
		return nil, fmt.Errorf("%w: unknown tag id", ErrInvalidReference)
	}
	return tags, nil
}

func (s *RecipeService) resolveIngredients(ctx context.Context, inputs []types.IngredientAmountInput) error {
	ids := make([]uuid.UUID, len(inputs))
	for i, in := range inputs {
		ids[i] = in.ID
	}
	var count int64
	if err := s.db.WithContext(ctx).Model(&models.Ingredient{}).Where("id IN ?", ids).Count(&count).Error; err != nil {
		return err
	}
	if count != int64(len(ids)) {
		return fmt.Errorf("%w: unknown ingredient id", ErrInvalidReference)
	}
	return nil
}

func validateRecipeInput(in types.RecipeInput) error {
	if in.CookingTime <= 0 {
		return fmt.Errorf("%w: cooking_time must be a positive integer", ErrInvalidField)
	}
	if len(in.Tags) == 0 {
		return fmt.Errorf("%w: at least one tag is required", ErrEmptyCollection)
	}
	if len(in.Ingredients) == 0 {
		return fmt.Errorf("%w: at least one ingredient is required", ErrEmptyCollection)
	}
	seenTags := make(map[uuid.UUID]struct{}, len(in.Tags))
	for _, id := range in.Tags {
		if _, dup := seenTags[id]; dup {
			return fmt.Errorf("%w: duplicate tag %s", ErrInvalidField, id)
		}
		seenTags[id] = struct{}{}
	}
	seen := make(map[uuid.UUID]struct{}, len(in.Ingredients))
	for _, ing := range in.Ingredients {
		if ing.Amount <= 0 {
			return fmt.Errorf("%w: ingredient amount must be positive", ErrInvalidField)
		}
		if _, dup := seen[ing.ID]; dup {
			return fmt.Errorf("%w: duplicate ingredient %s", ErrInvalidField, ing.ID)
		}
		seen[ing.ID] = struct{}{}
	}
	return nil
}

func ingredientRows(recipeID uuid.UUID, inputs []types.IngredientAmountInput) []models.RecipeIngredient {
	rows := make([]models.RecipeIngredient, len(inputs))
	for i, in := range inputs {
		rows[i] = models.RecipeIngredient{
			RecipeID:     recipeID,
			IngredientID: in.ID,
			Amount:       in.Amount,
		}
	}
	return rows
}

package service

import (
	"context"
	"encoding/base64"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/foodgram/backend/internal/models"
	"github.com/foodgram/backend/internal/testhelpers"
	"github.com/foodgram/backend/internal/types"
)

func testImagePayload() string {
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString([]byte("png bytes"))
}

type recipeFixture struct {
	svc         *RecipeService
	db          *gorm.DB
	author      *models.User
	tags        []*models.Tag
	ingredients []*models.Ingredient
}

func newRecipeFixture(t *testing.T) *recipeFixture {
	db := testhelpers.NewTestDB(t)
	return &recipeFixture{
		svc:    NewRecipeService(db, testhelpers.NewFakeMediaStore()),
		db:     db,
		author: testhelpers.CreateUser(t, db, "chef"),
		tags: []*models.Tag{
			testhelpers.CreateTag(t, db, "Breakfast", "breakfast", "#FFAA00"),
			testhelpers.CreateTag(t, db, "Dinner", "dinner", "#00AAFF"),
		},
		ingredients: []*models.Ingredient{
			testhelpers.CreateIngredient(t, db, "flour", "g"),
			testhelpers.CreateIngredient(t, db, "milk", "ml"),
			testhelpers.CreateIngredient(t, db, "egg", "pcs"),
		},
	}
}

func (f *recipeFixture) validInput() types.RecipeInput {
	return types.RecipeInput{
		Name:        "Pancakes",
		Text:        "Mix and fry.",
		CookingTime: 20,
		Image:       testImagePayload(),
		Tags:        []uuid.UUID{f.tags[0].ID},
		Ingredients: []types.IngredientAmountInput{
			{ID: f.ingredients[0].ID, Amount: 200},
			{ID: f.ingredients[1].ID, Amount: 300},
		},
	}
}

func TestCreateRecipe(t *testing.T) {
	f := newRecipeFixture(t)
	ctx := context.Background()

	view, err := f.svc.Create(ctx, f.author.ID, f.validInput())
	require.NoError(t, err)

	assert.Equal(t, "Pancakes", view.Name)
	assert.Equal(t, 20, view.CookingTime)
	assert.Equal(t, "chef", view.Author.Username)
	assert.False(t, view.Author.IsSubscribed)
	assert.False(t, view.IsFavorited)
	assert.False(t, view.IsInShoppingCart)
	assert.Contains(t, view.Image, "https://media.test/recipes/")

	require.Len(t, view.Tags, 1)
	assert.Equal(t, "breakfast", view.Tags[0].Slug)

	// Each submitted (ingredient, amount) pair round-trips.
	require.Len(t, view.Ingredients, 2)
	amounts := map[string]int{}
	for _, ing := range view.Ingredients {
		amounts[ing.Name] = ing.Amount
	}
	assert.Equal(t, 200, amounts["flour"])
	assert.Equal(t, 300, amounts["milk"])
}

func TestCreateRecipeValidation(t *testing.T) {
	f := newRecipeFixture(t)
	ctx := context.Background()

	tests := []struct {
		name    string
		mutate  func(*types.RecipeInput)
		wantErr error
	}{
		{
			name:    "non-positive cooking time",
			mutate:  func(in *types.RecipeInput) { in.CookingTime = 0 },
			wantErr: ErrInvalidField,
		},
		{
			name:    "no tags",
			mutate:  func(in *types.RecipeInput) { in.Tags = nil },
			wantErr: ErrEmptyCollection,
		},
		{
			name:    "no ingredients",
			mutate:  func(in *types.RecipeInput) { in.Ingredients = nil },
			wantErr: ErrEmptyCollection,
		},
		{
			name: "non-positive amount",
			mutate: func(in *types.RecipeInput) {
				in.Ingredients[0].Amount = 0
			},
			wantErr: ErrInvalidField,
		},
		{
			name: "duplicate ingredient",
			mutate: func(in *types.RecipeInput) {
				in.Ingredients = append(in.Ingredients, types.IngredientAmountInput{
					ID: in.Ingredients[0].ID, Amount: 50,
				})
			},
			wantErr: ErrInvalidField,
		},
		{
			name: "unknown tag",
			mutate: func(in *types.RecipeInput) {
				in.Tags = []uuid.UUID{uuid.New()}
			},
			wantErr: ErrInvalidReference,
		},
		{
			name: "unknown ingredient",
			mutate: func(in *types.RecipeInput) {
				in.Ingredients[0].ID = uuid.New()
			},
			wantErr: ErrInvalidReference,
		},
		{
			name:    "missing image",
			mutate:  func(in *types.RecipeInput) { in.Image = "" },
			wantErr: ErrInvalidField,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := f.validInput()
			tt.mutate(&in)
			_, err := f.svc.Create(ctx, f.author.ID, in)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestUpdateRecipeReplacesIngredientSet(t *testing.T) {
	f := newRecipeFixture(t)
	ctx := context.Background()

	in := f.validInput()
	in.Ingredients = []types.IngredientAmountInput{
		{ID: f.ingredients[0].ID, Amount: 100},
		{ID: f.ingredients[1].ID, Amount: 200},
		{ID: f.ingredients[2].ID, Amount: 3},
	}
	created, err := f.svc.Create(ctx, f.author.ID, in)
	require.NoError(t, err)
	require.Len(t, created.Ingredients, 3)

	update := f.validInput()
	update.Name = "Thin Pancakes"
	update.Image = ""
	update.Tags = []uuid.UUID{f.tags[1].ID}
	update.Ingredients = []types.IngredientAmountInput{
		{ID: f.ingredients[2].ID, Amount: 5},
	}
	view, err := f.svc.Update(ctx, f.author.ID, created.ID, update)
	require.NoError(t, err)

	assert.Equal(t, "Thin Pancakes", view.Name)
	require.Len(t, view.Ingredients, 1)
	assert.Equal(t, "egg", view.Ingredients[0].Name)
	assert.Equal(t, 5, view.Ingredients[0].Amount)
	require.Len(t, view.Tags, 1)
	assert.Equal(t, "dinner", view.Tags[0].Slug)
	// Image was not resubmitted, the stored URL stays.
	assert.Equal(t, created.Image, view.Image)

	// No leftover join rows after the full replace.
	var rows int64
	require.NoError(t, f.db.Model(&models.RecipeIngredient{}).
		Where("recipe_id = ?", created.ID).
		Count(&rows).Error)
	assert.Equal(t, int64(1), rows)
}

func TestUpdateRecipeEmptyIngredientsKeepsExistingRows(t *testing.T) {
	f := newRecipeFixture(t)
	ctx := context.Background()

	created, err := f.svc.Create(ctx, f.author.ID, f.validInput())
	require.NoError(t, err)

	update := f.validInput()
	update.Ingredients = nil
	_, err = f.svc.Update(ctx, f.author.ID, created.ID, update)
	assert.ErrorIs(t, err, ErrEmptyCollection)

	// The rejected update must not partially clear the old set.
	var rows int64
	require.NoError(t, f.db.Model(&models.RecipeIngredient{}).
		Where("recipe_id = ?", created.ID).
		Count(&rows).Error)
	assert.Equal(t, int64(2), rows)
}

func TestUpdateRecipeForbiddenForNonAuthor(t *testing.T) {
	f := newRecipeFixture(t)
	ctx := context.Background()

	created, err := f.svc.Create(ctx, f.author.ID, f.validInput())
	require.NoError(t, err)

	stranger := testhelpers.CreateUser(t, f.db, "stranger")
	_, err = f.svc.Update(ctx, stranger.ID, created.ID, f.validInput())
	assert.ErrorIs(t, err, ErrForbidden)
}

func TestFavoriteProjection(t *testing.T) {
	f := newRecipeFixture(t)
	ctx := context.Background()

	created, err := f.svc.Create(ctx, f.author.ID, f.validInput())
	require.NoError(t, err)

	// Anonymous viewer.
	view, err := f.svc.Get(ctx, created.ID, nil)
	require.NoError(t, err)
	assert.False(t, view.IsFavorited)

	// Authenticated viewer without a favorite row.
	reader := testhelpers.CreateUser(t, f.db, "reader")
	view, err = f.svc.Get(ctx, created.ID, &reader.ID)
	require.NoError(t, err)
	assert.False(t, view.IsFavorited)

	_, err = f.svc.Favorite(ctx, reader.ID, created.ID)
	require.NoError(t, err)

	view, err = f.svc.Get(ctx, created.ID, &reader.ID)
	require.NoError(t, err)
	assert.True(t, view.IsFavorited)

	// The author's own view is unaffected.
	view, err = f.svc.Get(ctx, created.ID, &f.author.ID)
	require.NoError(t, err)
	assert.False(t, view.IsFavorited)
}

func TestListRecipesFilters(t *testing.T) {
	f := newRecipeFixture(t)
	ctx := context.Background()

	breakfast := f.validInput()
	_, err := f.svc.Create(ctx, f.author.ID, breakfast)
	require.NoError(t, err)

	dinner := f.validInput()
	dinner.Name = "Stew"
	dinner.Tags = []uuid.UUID{f.tags[1].ID}
	_, err = f.svc.Create(ctx, f.author.ID, dinner)
	require.NoError(t, err)

	other := testhelpers.CreateUser(t, f.db, "other")
	othersInput := f.validInput()
	othersInput.Name = "Toast"
	_, err = f.svc.Create(ctx, other.ID, othersInput)
	require.NoError(t, err)

	page, err := f.svc.List(ctx, nil, RecipeFilter{Limit: 10})
	require.NoError(t, err)
	assert.Equal(t, int64(3), page.Count)

	page, err = f.svc.List(ctx, nil, RecipeFilter{AuthorID: &f.author.ID, Limit: 10})
	require.NoError(t, err)
	assert.Equal(t, int64(2), page.Count)

	page, err = f.svc.List(ctx, nil, RecipeFilter{TagSlugs: []string{"dinner"}, Limit: 10})
	require.NoError(t, err)
	assert.Equal(t, int64(1), page.Count)
	require.Len(t, page.Results, 1)
	assert.Equal(t, "Stew", page.Results[0].Name)
}

func TestDeleteRecipeRemovesOwnedRows(t *testing.T) {
	f := newRecipeFixture(t)
	ctx := context.Background()

	created, err := f.svc.Create(ctx, f.author.ID, f.validInput())
	require.NoError(t, err)

	reader := testhelpers.CreateUser(t, f.db, "reader")
	_, err = f.svc.Favorite(ctx, reader.ID, created.ID)
	require.NoError(t, err)

	require.NoError(t, f.svc.Delete(ctx, f.author.ID, created.ID))

	_, err = f.svc.Get(ctx, created.ID, nil)
	assert.ErrorIs(t, err, ErrNotFound)

	var rows int64
	require.NoError(t, f.db.Model(&models.RecipeIngredient{}).
		Where("recipe_id = ?", created.ID).Count(&rows).Error)
	assert.Equal(t, int64(0), rows)
	require.NoError(t, f.db.Model(&models.Favorite{}).
		Where("recipe_id = ?", created.ID).Count(&rows).Error)
	assert.Equal(t, int64(0), rows)
}

package types

import "github.com/google/uuid"

// TagView is the outward-facing shape of a catalog tag.
type TagView struct {
	ID    uuid.UUID `json:"id"`
	Name  string    `json:"name"`
	Slug  string    `json:"slug"`
	Color string    `json:"color"`
}

// IngredientAmount is one flattened ingredient row of a recipe view:
// catalog identity plus the amount this recipe uses.
type IngredientAmount struct {
	ID              uuid.UUID `json:"id"`
	Name            string    `json:"name"`
	MeasurementUnit string    `json:"measurement_unit"`
	Amount          int       `json:"amount"`
}

// UserView is a user as seen by a particular viewer. IsSubscribed is
// relative to the viewer and is always false for anonymous requests.
type UserView struct {
	ID           uuid.UUID `json:"id"`
	Username     string    `json:"username"`
	FirstName    string    `json:"first_name"`
	LastName     string    `json:"last_name"`
	Email        string    `json:"email"`
	IsSubscribed bool      `json:"is_subscribed"`
}

// RecipeView is the full read model of a recipe, including the
// viewer-relative booleans.
type RecipeView struct {
	ID               uuid.UUID          `json:"id"`
	Tags             []TagView          `json:"tags"`
	Author           UserView           `json:"author"`
	Ingredients      []IngredientAmount `json:"ingredients"`
	IsFavorited      bool               `json:"is_favorited"`
	IsInShoppingCart bool               `json:"is_in_shopping_cart"`
	Name             string             `json:"name"`
	Image            string             `json:"image"`
	Text             string             `json:"text"`
	CookingTime      int                `json:"cooking_time"`
}

// RecipeShortView is the reduced recipe shape embedded in subscription
// listings: no tags, ingredients or viewer-relative fields.
type RecipeShortView struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Image       string    `json:"image"`
	CookingTime int       `json:"cooking_time"`
}

// FollowingUserView is an author together with a bounded list of their
// recipes and the unbounded total count.
type FollowingUserView struct {
	ID           uuid.UUID         `json:"id"`
	Email        string            `json:"email"`
	Username     string            `json:"username"`
	FirstName    string            `json:"first_name"`
	LastName     string            `json:"last_name"`
	Recipes      []RecipeShortView `json:"recipes"`
	RecipesCount int64             `json:"recipes_count"`
	IsSubscribed bool              `json:"is_subscribed"`
}

// ShoppingListItem is one aggregated line of the downloadable shopping
// list: total amount of an ingredient across every recipe in the cart.
type ShoppingListItem struct {
	Name            string `json:"name"`
	MeasurementUnit string `json:"measurement_unit"`
	Amount          int    `json:"amount"`
}

// RecipePage is a paginated recipe listing.
type RecipePage struct {
	Count   int64        `json:"count"`
	Results []RecipeView `json:"results"`
}

package types

import "github.com/google/uuid"

// IngredientAmountInput is one (ingredient id, amount) pair of a recipe
// submission.
type IngredientAmountInput struct {
	ID     uuid.UUID `json:"id" binding:"required"`
	Amount int       `json:"amount" binding:"required"`
}

// RecipeInput is the request body for creating or updating a recipe.
// Field-level validation beyond presence lives in the recipe service so
// that every caller gets the same typed errors.
type RecipeInput struct {
	Name        string                  `json:"name" binding:"required"`
	Text        string                  `json:"text" binding:"required"`
	CookingTime int                     `json:"cooking_time" binding:"required"`
	Image       string                  `json:"image"`
	Tags        []uuid.UUID             `json:"tags"`
	Ingredients []IngredientAmountInput `json:"ingredients"`
}

// RegisterRequest is the request body for account creation.
type RegisterRequest struct {
	Username  string `json:"username" binding:"required"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email" binding:"required,email"`
	Password  string `json:"password" binding:"required,min=8"`
}

// LoginRequest is the request body for token issuance.
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

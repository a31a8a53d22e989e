package recipe

import "errors"

var (
	ErrNotFound            = errors.New("recipe not found")
	ErrForbidden           = errors.New("only the author can modify this recipe")
	ErrDuplicateIngredient = errors.New("ingredient ids must not repeat")
	ErrInvalidAmount       = errors.New("ingredient amount must be between 1 and 1000")
	ErrIngredientNotFound  = errors.New("unknown ingredient id")
	ErrTagNotFound         = errors.New("unknown tag id")
	ErrInvalidCookingTime  = errors.New("cooking time must be at least 1")
	ErrNoIngredients       = errors.New("recipe needs at least one ingredient")
	ErrNoTags              = errors.New("recipe needs at least one tag")
	ErrInvalidImage        = errors.New("invalid image payload")
)

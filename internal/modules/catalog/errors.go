package catalog

import "errors"

var (
	ErrTagNotFound        = errors.New("tag not found")
	ErrIngredientNotFound = errors.New("ingredient not found")
	ErrInvalidTag         = errors.New("invalid tag payload")
)

package recipehost

import "errors"

var (
	ErrRecipeEvalFailed  = errors.New("recipe evaluation failed")
	ErrInvalidReleaseType = errors.New("invalid release type")
)

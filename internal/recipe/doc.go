// Package recipe defines the data model produced by evaluating a recipe:
// package and manager entries, version records, pipeline steps, exports,
// flags, and build-dependency selectors.
//
// Nothing in this package evaluates a recipe; it only describes the shape
// of what evaluation yields. Evaluation lives in internal/recipehost.
package recipe

package entities

import "errors"

// Domain errors
var (
	// Template / plan errors
	ErrTemplateNotFound = errors.New("template not found")
	ErrEmptyPlan        = errors.New("template yields no questions")
	ErrInvalidWeights   = errors.New("assessment weights must sum to 100")

	// Interview errors
	ErrInterviewNotFound = errors.New("interview not found")
)

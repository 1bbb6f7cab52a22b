package learning

import "errors"

var (
	// ErrGeneratorRequired is returned when constructing an analyzer
	// without a text generator.
	ErrGeneratorRequired = errors.New("generator is required")

	// ErrEmptyGoal is returned when the learning goal is blank.
	ErrEmptyGoal = errors.New("learning goal cannot be empty")

	// ErrInvalidPlan is returned when the model's response parses as JSON
	// but does not conform to the study plan shape.
	ErrInvalidPlan = errors.New("response does not conform to study plan shape")
)

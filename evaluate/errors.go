package evaluate

import "errors"

var (
	// ErrInterpreterRequired is returned when an Evaluator is built without an interpreter.
	ErrInterpreterRequired = errors.New("interpreter is required")

	// ErrInvalidThreshold is returned for a pass mark outside [0, 1].
	ErrInvalidThreshold = errors.New("threshold must be between 0 and 1")

	// ErrInvalidDiversityThreshold is returned for a diversity threshold below 1.
	ErrInvalidDiversityThreshold = errors.New("diversity threshold must be at least 1")
)

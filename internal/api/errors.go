package api

import "errors"

var (
	errSliderBounds  = errors.New("slider max must be greater than min")
	errChoiceOptions = errors.New("multiple choice needs at least two options")
	errUnknownFormat = errors.New("unknown question format")
	errEmptyAnswer   = errors.New("answer carries no value")
)

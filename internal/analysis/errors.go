package analysis

import "errors"

// Common errors returned by analysis engines
var (
	// ErrAnalysisFailed is returned when an analysis fails for any general reason
	ErrAnalysisFailed = errors.New("failed to analyse stock")

	// ErrEmptyInput is returned when the company name or stock code is empty
	ErrEmptyInput = errors.New("name and code are required")

	// ErrInvalidResponse is returned when the LLM response cannot be parsed or is malformed
	ErrInvalidResponse = errors.New("invalid response from language model")

	// ErrContentBlocked is returned when the LLM blocks the content due to safety filters
	ErrContentBlocked = errors.New("content blocked by language model safety filters")

	// ErrTransientFailure is returned for temporary errors that might resolve on retry
	ErrTransientFailure = errors.New("transient error during analysis")

	// ErrInvalidConfig is returned when the analyzer configuration is invalid
	ErrInvalidConfig = errors.New("invalid analyzer configuration")
)

// ABOUTME: Sentinel errors for the quiz generation engine
// ABOUTME: Callers branch on these with errors.Is
package core

import "errors"

var (
	// ErrInvalidChunkConfig is returned for a chunk size/overlap pair that cannot advance
	ErrInvalidChunkConfig = errors.New("invalid chunk configuration: need size > overlap >= 0")

	// ErrNoContent means a document produced no extractable text
	ErrNoContent = errors.New("no extractable content")

	// ErrNoUsableContext means exclusion filtering left nothing to ground a question on
	ErrNoUsableContext = errors.New("no usable context after filtering excluded terms")

	// ErrGenerationExhausted means every attempt produced an unusable question
	ErrGenerationExhausted = errors.New("could not generate a question, try again")

	// ErrServiceUnavailable means no language model is configured
	ErrServiceUnavailable = errors.New("question generation service unavailable")

	// ErrNoMatch means no document matches the requested topic
	ErrNoMatch = errors.New("no document matches topic")
)

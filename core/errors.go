package core

import "errors"

var (
	// ErrClassificationParse is returned when a classification response is not
	// in the expected structured form. It is always recovered locally via the
	// keyword fallback and never surfaces to callers.
	ErrClassificationParse = errors.New("classification output not parseable")

	// ErrRetrievalUnavailable signals the retrieval backend cannot be reached.
	// Agents proceed with whatever context they have.
	ErrRetrievalUnavailable = errors.New("retrieval backend unavailable")

	// ErrToolUnavailable signals a structured lookup port cannot be reached.
	ErrToolUnavailable = errors.New("lookup tool unavailable")

	// ErrGenerationTimeout signals a generation call exceeded its deadline.
	ErrGenerationTimeout = errors.New("generation timed out")

	// ErrGeneration signals a failed or empty generation response.
	ErrGeneration = errors.New("generation failed")

	// ErrAllAgentsFailed marks the terminal per-turn condition where every
	// dispatched specialist failed. The caller still receives a fallback
	// response, not an error.
	ErrAllAgentsFailed = errors.New("all agents failed")

	// ErrSessionSave wraps session persistence failures, the one hard error a
	// turn can surface: losing conversational continuity is not silently
	// degradable.
	ErrSessionSave = errors.New("session save failed")
)

// Package router classifies student queries into the fixed specialist
// category set. Classification is model-driven with a deterministic keyword
// fallback, and decisions are cached by normalized query so identical
// questions never pay for a second model call within the TTL.
package router

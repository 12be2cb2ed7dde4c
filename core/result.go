package core

import "time"

// AgentResult is produced once per specialist invocation per turn. It is
// owned by the orchestrator for the duration of synthesis and never fails the
// turn on its own: failures are carried in Success / Err rather than raised.
type AgentResult struct {
	Category Category `json:"category"`
	// Answer is the generated text, or a fixed "unavailable" placeholder when
	// Success is false.
	Answer string `json:"answer"`
	// Sources lists the passage source locators used to ground the answer.
	Sources []string `json:"sources,omitempty"`
	// Attributes holds any new context attributes the agent extracted, to be
	// merged into the session by the orchestrator.
	Attributes map[string]string `json:"attributes,omitempty"`
	Success    bool              `json:"success"`
	TimedOut   bool              `json:"timed_out,omitempty"`
	Latency    time.Duration     `json:"latency"`
	// Err records the underlying failure for logging; it never propagates as
	// an error return.
	Err error `json:"-"`
}

// SynthesizedResponse is the final answer returned to the caller.
type SynthesizedResponse struct {
	Answer string `json:"answer"`
	// Categories lists the contributing (successful) categories in routing
	// decision order.
	Categories []Category `json:"categories,omitempty"`
	// Sources is the deduplicated union of contributing passage locators,
	// first-seen order preserved.
	Sources []string `json:"sources,omitempty"`
	// Partial marks a turn where at least one, but not all, dispatched agents
	// failed. Failed marks the all-agents-failed fallback.
	Partial bool          `json:"partial,omitempty"`
	Failed  bool          `json:"failed,omitempty"`
	Elapsed time.Duration `json:"elapsed"`
}

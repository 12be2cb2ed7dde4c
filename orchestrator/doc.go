// Package orchestrator is the top-level entry point of AdvisorMesh. One
// Handle call processes one turn: it routes the query, schedules the target
// specialists (concurrently when more than one), synthesizes a single
// deterministic answer, updates the session and emits trace events.
package orchestrator

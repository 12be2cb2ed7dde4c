// Package agent implements the specialist agents: one instantiation per
// category with an identical execution shape. Each agent retrieves passages,
// optionally performs a structured lookup, generates an answer and extracts
// new context attributes. Failures degrade the answer instead of aborting
// the turn.
package agent

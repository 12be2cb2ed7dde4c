// Package session provides implementations of the core.SessionStore port.
// The in-memory store is best suited for tests and single-process
// deployments; durable backends implement the same interface.
package session

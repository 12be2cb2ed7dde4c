// Package tool provides in-memory implementations of the structured lookup
// ports: a course catalog keyed by course code and a program directory
// searchable by field keyword. Both are pure lookups with no side effects.
package tool

// Package model defines the generation port: a normalized request/response
// pair and the minimal Model interface required to drive text generation.
// Provider adapters live in subpackages (openai, anthropic); MockModel offers
// a deterministic in-memory implementation for tests and examples.
package model

// Package observability provides structured logging, in-process metrics and
// the trace emitter implementing the core.TraceEmitter port. The Logger
// interface is a tiny abstraction over slog so downstream code can depend on
// a minimal contract while allowing users to plug any structured logger.
package observability

// Package core provides the foundational domain types and port interfaces for
// AdvisorMesh. It defines the core abstractions for:
//
//   - Categories (the closed set of specialist domains)
//   - Routing decisions (which specialists handle a query, and how)
//   - Sessions (stateful conversational containers with turn history and
//     accumulated student context)
//   - Agent results and synthesized responses
//   - Pluggable ports for retrieval, structured lookups, session persistence
//     and trace emission
//
// The package intentionally keeps implementation concerns (model providers,
// concrete stores, orchestration) out of scope, exposing small interfaces to
// enable custom backends and extensions.
package core

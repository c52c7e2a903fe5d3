// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Required Interfaces
//
//   - Embedder: Turns text into vectors. The primary embedder is remote;
//     a local fallback implementation always exists, so search never
//     becomes unavailable.
//   - VectorStore: Indexed chunk persistence, hybrid scoring and the
//     metadata index.
//   - ConfigStore: Application configuration.
//
// # Optional Interfaces
//
// These can be nil - the application degrades gracefully:
//
//   - LLMService: Answer synthesis. Without it, `ask` degrades to `search`.
//   - FilingSource: Remote filing retrieval (EDGAR). Without it, ingestion
//     works only from the local filing store.
//   - FilingStore: Raw filing persistence. Without it, `fetch` streams
//     straight into ingestion.
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter package
package driven

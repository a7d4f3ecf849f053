// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Required Interfaces
//
// These must be provided for the application to function:
//
//   - CacheStore: Coordinate cache persistence (JSON file, SQLite or memory)
//   - BrowserLauncher: Starts browser sessions used to follow redirects
//   - DatasetReader: Parses the location export
//   - ConfigStore: Application configuration
//
// # Optional Interfaces
//
// These can be nil - the application degrades gracefully:
//
//   - AttemptLog: History of resolution attempts. Without it, failures are only logged.
//   - DatasetWriter: Enriched output. Without it, results are returned but not written.
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter package
package driven

// Package sqlite provides a unified SQLite-based implementation of the
// certificate, chunk and job store interfaces.
//
// This adapter uses modernc.org/sqlite, a pure Go SQLite implementation that
// requires no CGO, enabling easy cross-compilation. A single database
// connection backs all store interfaces:
//
//   - CertificateStore: certificate metadata and full text
//   - ChunkStore: chunked text with optional embeddings
//   - JobStore: background job records
//
// # Schema
//
// The database schema is managed through versioned migrations stored in the
// migrations/ directory. Each migration is a pair of .up.sql and .down.sql
// files.
//
// # Pattern queries
//
// SQLite carries no regexp engine by default, so pattern filtering runs in
// Go after a tenant-scoped scan. Certificate trees are small (hundreds of
// files); the scan is not the bottleneck, the text extraction is.
//
// # Thread Safety
//
// All operations are thread-safe. The store uses database-level locking
// provided by SQLite in WAL mode.
package sqlite

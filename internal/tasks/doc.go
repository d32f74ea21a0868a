// Package tasks imports chart files in bulk with real-time progress reporting.
//
// # Bulk Import
//
// [ImportEngine.BulkImport] fans files out to a bounded worker pool. A [rate.Limiter] paces how fast
// files are handed to workers so a large import does not starve the HTTP API of the database write lock.
// Each worker reads one file and passes it to an [Ingester], normally a [catalog.Catalog].
//
// Outcomes per file:
//   - created : a new chart was registered, possibly with a new song
//   - skipped : the content is already registered (including duplicates inside the same batch)
//   - failed : the file could not be read, parsed or stored
//
// [CollectFiles] turns command line arguments into the file list, walking directories for *.ksh files.
//
// # Progress Reporting
//
// Progress updates are sent on an optional channel with select/default, so a slow reader never blocks workers.
package tasks

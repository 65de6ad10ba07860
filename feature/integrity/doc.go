// Package integrity provides health checks of the infrastructure the catalog
// depends on.
//
// Unlike the reconcile command, which audits aggregate values against source
// records, this package validates structure: that the database schema carries
// every column the catalog models declare and that object storage holds the
// bucket and the optional provider registry document.
//
// # Checks Provided
//
//   - Schema: every table of catalog.Models() exists and has every mapped column.
//   - Storage: the bucket exists; the registry document is present and parses as JSON.
//
// # HTTP Endpoints
//
//   - GET /integrity : Runs all checks.
//   - GET /integrity/schema : Runs the schema check.
//   - GET /integrity/storage : Runs the storage check.
package integrity

// Package middleware contains HTTP middleware for the Fiber application.
//
// # Components
//
//   - auth: API key validation (X-API-Key) protecting the catalog API.
//   - rayid: assigns a Request ID (RayID) to every request, stores it in the
//     Fiber locals and echoes it in the X-Ray-ID response header.
//
// Both are registered globally in the start command, rayid first so that every
// log line of a request carries the same ray_id.
package middleware

// Package middleware contains HTTP middleware for the Fiber application.
//
// # Components
//
//   - auth: API key validation (X-API-Key header) protecting every route except
//     the configured public paths.
//   - rayid: assigns every request a ray id (UUID), stored in the context locals
//     and echoed in the X-Ray-ID response header so that log lines can be traced.
//
// Register rayid first so that every later log line carries the id.
package middleware

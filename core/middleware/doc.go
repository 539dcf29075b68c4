// Package middleware contains HTTP middleware for the ops Fiber application.
//
// # Components
//
//   - Auth: API key validation protecting the manual sweep/reconcile triggers.
//   - RayID: assigns every request a RayID, stored in the Fiber locals and
//     echoed in the X-Ray-ID response header.
package middleware

// Package server exposes stored runs over a read-only HTTP API.
//
// # Routes
//
//	GET /health             liveness probe
//	GET /runs               run summaries, newest first (?limit=n)
//	GET /runs/{id}          one run summary
//	GET /runs/{id}/snapshot the catalog snapshot saved with a run
//
// Errors are written as JSON objects of the form {"error": "..."}; unknown runs answer 404.
//
// # Middleware
//
// [Middleware] wraps handlers in the order they are added to [Server.Use]. [RequestLogger] logs one line per
// request through charmbracelet/log.
package server

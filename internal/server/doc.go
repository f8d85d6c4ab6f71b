// Package server wires the Fiber application: recovery, CORS, request IDs,
// structured request logging with proxy-aware client IPs, and the /metrics
// exposition endpoint. Route handlers live in the routes subpackage; this
// package only owns middleware and app construction so tests can assemble an
// app around a stub pipeline.
package server

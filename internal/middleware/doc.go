// Package middleware provides HTTP middleware for the media board server.
//
// It includes:
//   - Request ids (X-Request-ID), generated with google/uuid when absent
//   - Request logging in W3C Extended Log Format, with the request id
//   - Prometheus request metrics labelled by mux route template
//
// Thumbnail fetches and health checks can be left out of the access log.
package middleware

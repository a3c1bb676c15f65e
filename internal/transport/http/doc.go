// Package http contains the chi HTTP handlers for the analyzer API: session
// state access and patching, the deterministic analysis tools, the LLM agent
// endpoint, the document fetch proxy and tabular uploads.
//
// Handlers resolve the (tenant, session) identity from the request context
// placed there by the middleware chain, delegate to the service layer, and
// render responses with go-chi/render. All errors flow through the RFC 7807
// error handler.
package http

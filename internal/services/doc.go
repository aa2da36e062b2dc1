// Package services implements the client side of the PopFix REST backend.
//
// [Gateway] is the single choke point for outbound HTTP: it joins paths onto
// the configured base URL, serializes JSON bodies, attaches the bearer token
// from the session cache, and normalizes error payloads into [APIError].
// It performs no retries and never mutates local state; callers own both.
//
// [AuthService] and [MovieService] are the domain clients layered on the
// Gateway. Their raw response shapes are mapped onto the canonical
// [models.MovieSummary] / [models.FavoriteEdge] / [models.Comment] types in
// normalize.go, which is the only place that knows about the backend's
// shape variations (seconds vs. formatted durations, numeric vs. string ids,
// ratings at different nesting levels).
package services

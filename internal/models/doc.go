// Package models defines the domain entities for the PopFix terminal client.
//
// The package contains two categories of types:
//
// 1. Backend-owned data the client holds transient copies of:
//   - [MovieSummary] : Canonical catalog entry after payload normalization
//   - [FavoriteEdge] : Per-user favorite/rating relation attached to a movie
//   - [Comment] : Append-only comment on a movie
//   - [User] : Account profile as returned by the users endpoints
//
// 2. Client-owned state:
//   - [Session] : The authenticated identity and bearer token, persisted by
//     the local session cache and read synchronously by every view
//
// All remote entities are scoped to the view that fetched them and may be
// stale; the session is the only state with process-wide visibility.
package models

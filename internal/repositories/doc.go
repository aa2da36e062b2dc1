// package repositories provides sqlite-backed persistence for client-side
// state.
//
// [SessionRepository] holds the single cached login session and doubles as
// the token source the HTTP gateway pulls bearer tokens from.
// [MovieCacheRepository] keeps a best-effort local copy of catalog entries
// for offline listing.
package repositories

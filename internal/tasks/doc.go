// package tasks implements the optimistic mutation flow for favorites,
// ratings, and comments.
//
// The core abstraction is the two-phase mutation: a controller method checks
// the auth precondition, applies the change to local state synchronously,
// and returns a [Mutation]. Executing the mutation performs the backend call
// and reconciles: on success the optimistic state is confirmed (or replaced
// with a server-provided value), on failure it is rolled back. Cross-view
// notification happens over [EventBus] after reconciliation.
package tasks

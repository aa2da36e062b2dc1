// Package ui implements an interactive terminal interface using bubbletea's Elm architecture.
//
// The TUI provides a multi-view browsing workflow:
//  1. [CatalogView] : Browse and search the movie catalog
//  2. [LoginView] : Sign in when an action requires a session
//  3. [DetailView] : Movie details, comments, rating, and favorite toggle
//  4. [FavoritesView] : The user's favorites with ratings
//  5. [ProfileView] : The signed-in account
//
// The (view) [Model] implements bubbletea/Elm's standard Init/Update/View pattern.
// Favorite and rating changes apply optimistically through the controllers in
// [tasks]; reconcile outcomes and cross-view notifications arrive as messages,
// so a change made in one view is reflected in the others without a refetch.
//
// Keyboard navigation uses vim-style bindings (j/k, enter, esc, f, 1-5, c, q)
// with contextual help displayed via charmbracelet/bubbles/help.
package ui

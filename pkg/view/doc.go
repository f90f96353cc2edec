// Package view holds the state of an interactive floor map as an immutable
// value.
//
// Every user action and every backend response is a reducer: a method on
// [State] that returns the next State and leaves the receiver untouched. A
// front end (the terminal browser, a test) owns the current value and
// replaces it with whatever the reducer returns.
//
// # Stale responses
//
// Fetches are tagged with the [State.Generation] current when they were
// issued. Switching building or floor, or submitting a request, bumps the
// generation. [State.RoomsLoaded] and the other response reducers ignore
// results whose generation no longer matches, so a slow response for a floor
// that is no longer shown cannot overwrite the current one.
package view

// Package order submits orders and maintains the order history log.
// Submission validates locally (auth token, non-empty cart) before any
// network call; successful submissions prepend to the history, and a
// history fetch replaces the log wholesale with the server's view.
package order

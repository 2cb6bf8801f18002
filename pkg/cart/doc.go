// Package cart holds the shopping cart: one line per product with a
// unit-price snapshot taken at add time, and derived totals recomputed on
// every mutation. The cart is purely local; it never issues remote calls.
package cart

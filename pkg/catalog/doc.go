// Package catalog holds the catalog query state: the filter store that
// owns the current query parameters, and the fetch controller that turns
// each distinct filter into one remote request and applies only the most
// recently issued request's resolution.
package catalog

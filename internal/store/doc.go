// Package store defines interfaces for data persistence operations on users,
// stores and ratings, the error values every implementation returns, and
// the transaction helpers services use to group writes.
package store

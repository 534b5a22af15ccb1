// Package service holds the use cases of the ratings platform: signup and
// login, admin user and store management, the owner views and user ratings.
//
// Services depend on the repository interfaces in internal/store and on a
// store.Transactor. Every mutating operation runs inside one transaction and
// binds the stores to it with WithTx, so a rating write and the aggregate
// recompute that follows it commit or roll back together.
//
// Expected failures are returned as the sentinel errors in errors.go, the
// store package, or *domain.ValidationError. The API layer maps them to HTTP
// status codes.
package service

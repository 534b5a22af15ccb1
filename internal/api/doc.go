// Package api handles incoming HTTP requests, routing, request validation,
// and response formatting. It acts as an adapter between external clients
// and the internal application services, translating HTTP concerns to
// business operations.
//
// Routes live under /api/auth, /api/admin, /api/owner and /api/user. The
// last three are gated by middleware.AuthMiddleware and middleware.RequireRoles.
package api

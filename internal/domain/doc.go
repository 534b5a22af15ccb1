// Package domain holds the entities of the store rating platform (users,
// stores and ratings), the closed set of roles, and the validation rules that
// apply to them no matter how they are stored or served.
//
// Derived store fields (average_rating, ratings_count) are computed from
// ratings with NewRatingSummary; nothing outside the rating write
// path sets them.
package domain

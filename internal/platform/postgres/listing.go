package postgres

import (
	"fmt"
	"strings"

	"github.com/phrazzld/store-rating-api/internal/domain"
)

// sortColumns maps the sort fields a client may request onto SQL columns.
// Every map must contain the key "name", used when the request names anything else.
type sortColumns map[string]string

var (
	userSortColumns = sortColumns{
		"name":       "name",
		"email":      "email",
		"address":    "address",
		"role":       "role",
		"created_at": "created_at",
	}

	adminStoreSortColumns = sortColumns{
		"name":           "s.name",
		"email":          "s.email",
		"address":        "s.address",
		"average_rating": "s.average_rating",
		"ratings_count":  "s.ratings_count",
	}

	userStoreSortColumns = sortColumns{
		"name":           "s.name",
		"address":        "s.address",
		"average_rating": "s.average_rating",
		"ratings_count":  "s.ratings_count",
	}
)

// orderBy renders an ORDER BY clause for opts, falling back to the name column
// for unknown fields. tieBreak keeps paging stable when the sort column repeats.
func (c sortColumns) orderBy(opts domain.ListOptions, tieBreak string) string {
	column, ok := c[opts.SortBy]
	if !ok {
		column = c["name"]
	}
	order := domain.SortAsc
	if opts.Order == domain.SortDesc {
		order = domain.SortDesc
	}
	return fmt.Sprintf(" ORDER BY %s %s, %s ASC", column, order, tieBreak)
}

// queryArgs accumulates positional arguments and WHERE conditions.
type queryArgs struct {
	args       []any
	conditions []string
}

// add appends v and returns its placeholder.
func (q *queryArgs) add(v any) string {
	q.args = append(q.args, v)
	return fmt.Sprintf("$%d", len(q.args))
}

// where adds a raw condition.
func (q *queryArgs) where(condition string) {
	q.conditions = append(q.conditions, condition)
}

// contains adds a case-insensitive substring match on column. Blank values are ignored.
func (q *queryArgs) contains(column, value string) {
	value = strings.TrimSpace(value)
	if value == "" {
		return
	}
	q.where(fmt.Sprintf("%s ILIKE %s", column, q.add("%"+escapeLike(value)+"%")))
}

func (q *queryArgs) whereClause() string {
	if len(q.conditions) == 0 {
		return ""
	}
	return " WHERE " + strings.Join(q.conditions, " AND ")
}

// page renders LIMIT and OFFSET for opts.
func (q *queryArgs) page(opts domain.ListOptions) string {
	return fmt.Sprintf(" LIMIT %s OFFSET %s", q.add(opts.Limit), q.add(opts.Offset()))
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// escapeLike makes user input match literally inside a LIKE pattern.
func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}

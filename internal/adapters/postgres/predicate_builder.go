package postgres

import (
	"fmt"
	"strings"

	"property-service/internal/core/domain"
)

// queryBuilder renders a compiled predicate into a parameterized WHERE
// clause. Values never enter the SQL text; every one becomes a positional
// argument.
type queryBuilder struct {
	conditions []string
	args       []interface{}
	argId      int
}

func newQueryBuilder() *queryBuilder {
	return &queryBuilder{
		argId:      1,
		conditions: make([]string, 0),
		args:       make([]interface{}, 0),
	}
}

func (qb *queryBuilder) renderCondition(c domain.Condition) string {
	var clause string
	switch c.Op {
	case domain.OpEq:
		clause = fmt.Sprintf("%s = $%d", c.Field, qb.argId)
		qb.args = append(qb.args, c.Value)
	case domain.OpGte:
		clause = fmt.Sprintf("%s >= $%d", c.Field, qb.argId)
		qb.args = append(qb.args, c.Value)
	case domain.OpLte:
		clause = fmt.Sprintf("%s <= $%d", c.Field, qb.argId)
		qb.args = append(qb.args, c.Value)
	case domain.OpContains:
		clause = fmt.Sprintf("%s ILIKE $%d", c.Field, qb.argId)
		qb.args = append(qb.args, "%"+fmt.Sprintf("%v", c.Value)+"%")
	case domain.OpIn:
		clause = fmt.Sprintf("%s = ANY($%d)", c.Field, qb.argId)
		qb.args = append(qb.args, c.Value)
	default:
		// Unknown operators fall back to equality rather than silently
		// widening the result set.
		clause = fmt.Sprintf("%s = $%d", c.Field, qb.argId)
		qb.args = append(qb.args, c.Value)
	}
	qb.argId++
	return clause
}

func (qb *queryBuilder) addCondition(c domain.Condition) {
	qb.conditions = append(qb.conditions, qb.renderCondition(c))
}

func (qb *queryBuilder) addOrGroup(g domain.ConditionGroup) {
	if len(g.Conditions) == 0 {
		return
	}
	clauses := make([]string, 0, len(g.Conditions))
	for _, c := range g.Conditions {
		clauses = append(clauses, qb.renderCondition(c))
	}
	qb.conditions = append(qb.conditions, "("+strings.Join(clauses, " OR ")+")")
}

func (qb *queryBuilder) build() (string, []interface{}) {
	if len(qb.conditions) == 0 {
		return "", qb.args
	}
	return "WHERE " + strings.Join(qb.conditions, " AND "), qb.args
}

// buildWhereClause renders the whole predicate: top-level conditions and
// OR-groups, all AND-combined, in predicate order so identical predicates
// always produce identical SQL.
func buildWhereClause(p domain.CompiledPredicate) (string, []interface{}) {
	qb := newQueryBuilder()
	for _, c := range p.Conditions {
		qb.addCondition(c)
	}
	for _, g := range p.OrGroups {
		qb.addOrGroup(g)
	}
	return qb.build()
}

// buildOrderByClause maps the resolved sort onto the properties columns.
// The id tiebreaker keeps pages stable when the sort key repeats.
func buildOrderByClause(sort domain.SortSpec) string {
	if sort.FeaturedFirst {
		return "ORDER BY is_featured DESC, created_at DESC, id ASC"
	}

	column, ok := sortColumns[sort.Field]
	if !ok {
		return "ORDER BY is_featured DESC, created_at DESC, id ASC"
	}
	direction := "DESC"
	if sort.Order == domain.SortAsc {
		direction = "ASC"
	}
	return fmt.Sprintf("ORDER BY %s %s, id ASC", column, direction)
}

// sortColumns whitelists sortable columns; anything else falls back to the
// default ordering instead of reaching the SQL text.
var sortColumns = map[string]string{
	domain.SortByPrice:     "price",
	domain.SortByArea:      "area",
	domain.SortByCreatedAt: "created_at",
	domain.SortByViews:     "views_count",
}

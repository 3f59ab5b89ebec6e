package domain

// Condition operators understood by the store adapter.
const (
	OpEq       = "eq"       // field = value
	OpGte      = "gte"      // field >= value
	OpLte      = "lte"      // field <= value
	OpContains = "contains" // case-insensitive substring match
	OpIn       = "in"       // field = ANY(values)
)

// Condition is a single field-level constraint.
type Condition struct {
	Field string
	Op    string
	Value interface{}
}

// ConditionGroup is an OR-combined set of conditions (location and keyword
// search expand into these).
type ConditionGroup struct {
	Conditions []Condition
}

// CompiledPredicate is the output of the filter compiler: top-level conditions
// and OR-groups, all AND-combined. Opaque to callers; only the persistent
// store adapter renders it.
type CompiledPredicate struct {
	Conditions []Condition
	OrGroups   []ConditionGroup
}

// IsEmpty reports whether the predicate constrains nothing.
func (p CompiledPredicate) IsEmpty() bool {
	return len(p.Conditions) == 0 && len(p.OrGroups) == 0
}

// Package filter describes storage-neutral predicates. Query builders render
// Items into their own dialect (SQL text, ORM clauses) without re-deciding
// match semantics.
package filter

// ComparisonType is the kind of comparison applied to a column.
type ComparisonType string

const (
	Equal ComparisonType = "eq"   // column = value
	Like  ComparisonType = "like" // column LIKE value; value already carries wildcards
)

// Dimension names the table a column belongs to.
type Dimension string

// Item is one predicate. All Items of a query are ANDed.
type Item struct {
	Dimension Dimension      `json:"dimension"`
	Column    string         `json:"column"`
	Operator  ComparisonType `json:"operator"`
	Value     any            `json:"value"`
}

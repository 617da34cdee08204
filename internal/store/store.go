// Package store defines the tabular store contract the pipeline runs
// against: filtered select, update, insert and delete by table name and
// column predicates. The pipeline never joins tables or runs raw SQL;
// every access goes through this narrow interface so backends (and test
// doubles) stay interchangeable.
package store

import "context"

// Row is a single record keyed by column name. Values are whatever the
// backend produced; use the accessors to read them leniently.
type Row map[string]any

// Text returns the column as a string, or "" when absent or NULL.
func (r Row) Text(col string) string {
	switch v := r[col].(type) {
	case string:
		return v
	case []byte:
		return string(v)
	}
	return ""
}

// Int returns the column as an int, or 0 when absent or NULL.
func (r Row) Int(col string) int {
	switch v := r[col].(type) {
	case int:
		return v
	case int64:
		return int(v)
	case float64:
		return int(v)
	}
	return 0
}

// Op is a predicate operator.
type Op string

const (
	OpEq     Op = "eq"      // column = value
	OpIn     Op = "in"      // column IN (values...)
	OpLike   Op = "like"    // column LIKE value (use Contains for substrings)
	OpIsNull Op = "is_null" // column IS NULL or empty
)

// Cond is a single column predicate.
type Cond struct {
	Column string
	Op     Op
	Value  any
}

// Eq matches rows where column equals value.
func Eq(column string, value any) Cond {
	return Cond{Column: column, Op: OpEq, Value: value}
}

// In matches rows where column is any of the given values.
func In(column string, values ...string) Cond {
	return Cond{Column: column, Op: OpIn, Value: values}
}

// Contains matches rows where column contains the substring.
func Contains(column, substring string) Cond {
	return Cond{Column: column, Op: OpLike, Value: "%" + substring + "%"}
}

// IsNull matches rows where column is NULL (or the empty string, which
// the capture stage writes interchangeably with NULL).
func IsNull(column string) Cond {
	return Cond{Column: column, Op: OpIsNull}
}

// Query is a filtered select against one table.
type Query struct {
	Table   string
	Columns []string // empty means all columns
	Where   []Cond
	OrderBy string // column name; empty means backend order
	Desc    bool
	Limit   int // 0 means no limit
}

// Store is the tabular store collaborator. Implementations must make
// Update a keyed or filtered single-statement write so that re-running
// a scan converges instead of corrupting state.
type Store interface {
	Select(ctx context.Context, q Query) ([]Row, error)
	Update(ctx context.Context, table string, patch Row, where []Cond) (int64, error)
	Insert(ctx context.Context, table string, record Row) (Row, error)
	Delete(ctx context.Context, table string, where []Cond) (int64, error)
	Close() error
}

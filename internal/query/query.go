// Package query provides a small typed predicate DSL for building read
// filters. Services compose predicates with And/Or/In; the repository layer
// renders them to parameterized SQL, keeping filter semantics independent of
// any backend's string syntax.
package query

import (
	"strconv"
	"strings"
)

// Params accumulates positional arguments while predicates render.
type Params struct {
	args []any
}

// Add appends a value and returns its placeholder ($1, $2, ...).
func (p *Params) Add(v any) string {
	p.args = append(p.args, v)
	return "$" + strconv.Itoa(len(p.args))
}

// Args returns the accumulated argument slice.
func (p *Params) Args() []any {
	return p.args
}

// Pred is a filter predicate renderable to SQL.
type Pred interface {
	SQL(p *Params) string
}

type eq struct {
	col string
	val any
}

func (e eq) SQL(p *Params) string { return e.col + " = " + p.Add(e.val) }

// Eq matches rows where col equals val.
func Eq(col string, val any) Pred { return eq{col: col, val: val} }

type ne struct {
	col string
	val any
}

func (n ne) SQL(p *Params) string { return n.col + " <> " + p.Add(n.val) }

// Ne matches rows where col differs from val. NULL columns do not match;
// combine with IsNull when NULL should pass.
func Ne(col string, val any) Pred { return ne{col: col, val: val} }

type in struct {
	col  string
	vals []any
}

func (i in) SQL(p *Params) string {
	if len(i.vals) == 0 {
		// An empty set matches nothing. Callers expressing "no constraint"
		// must omit the predicate instead; this keeps restricted queries
		// failing closed.
		return "FALSE"
	}
	placeholders := make([]string, len(i.vals))
	for idx, v := range i.vals {
		placeholders[idx] = p.Add(v)
	}
	return i.col + " IN (" + strings.Join(placeholders, ", ") + ")"
}

// In matches rows where col is any of vals. An empty vals renders FALSE.
func In[T any](col string, vals []T) Pred {
	anyVals := make([]any, len(vals))
	for i, v := range vals {
		anyVals[i] = v
	}
	return in{col: col, vals: anyVals}
}

type isNull struct{ col string }

func (n isNull) SQL(*Params) string { return n.col + " IS NULL" }

// IsNull matches rows where col is NULL.
func IsNull(col string) Pred { return isNull{col: col} }

type notNull struct{ col string }

func (n notNull) SQL(*Params) string { return n.col + " IS NOT NULL" }

// NotNull matches rows where col is not NULL.
func NotNull(col string) Pred { return notNull{col: col} }

type gte struct {
	col string
	val any
}

func (g gte) SQL(p *Params) string { return g.col + " >= " + p.Add(g.val) }

// Gte matches rows where col is at least val.
func Gte(col string, val any) Pred { return gte{col: col, val: val} }

type lte struct {
	col string
	val any
}

func (l lte) SQL(p *Params) string { return l.col + " <= " + p.Add(l.val) }

// Lte matches rows where col is at most val.
func Lte(col string, val any) Pred { return lte{col: col, val: val} }

type none struct{}

func (none) SQL(*Params) string { return "FALSE" }

// None matches no rows. Used to fail closed, e.g. when an external user's
// source allow-list is empty.
func None() Pred { return none{} }

type composite struct {
	op    string
	preds []Pred
}

func (c composite) SQL(p *Params) string {
	if len(c.preds) == 0 {
		return "TRUE"
	}
	if len(c.preds) == 1 {
		return c.preds[0].SQL(p)
	}
	parts := make([]string, len(c.preds))
	for i, pred := range c.preds {
		parts[i] = pred.SQL(p)
	}
	return "(" + strings.Join(parts, " "+c.op+" ") + ")"
}

// And combines predicates conjunctively.
func And(preds ...Pred) Pred { return composite{op: "AND", preds: preds} }

// Or combines predicates disjunctively.
func Or(preds ...Pred) Pred { return composite{op: "OR", preds: preds} }

// Where renders predicates into a WHERE clause and its arguments. With no
// predicates it returns an empty clause.
func Where(preds ...Pred) (string, []any) {
	if len(preds) == 0 {
		return "", nil
	}
	p := &Params{}
	clause := And(preds...).SQL(p)
	return " WHERE " + clause, p.Args()
}

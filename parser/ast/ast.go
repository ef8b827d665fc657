// Copyright 2024 PerchDB, Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package ast holds the normalized statement form the optimizer consumes.
// The SQL text parser producing it lives outside this module; everything
// here is already resolved to plain, unquoted identifiers.
package ast

import (
	"github.com/perchdb/perch/types"
	"github.com/perchdb/perch/util/hint"
)

// Op is a comparison operator of a normalized predicate.
type Op byte

const (
	// OpEQ is `=`.
	OpEQ Op = iota
	// OpLT is `<`.
	OpLT
	// OpLE is `<=`.
	OpLE
	// OpGT is `>`.
	OpGT
	// OpGE is `>=`.
	OpGE
)

// String implements fmt.Stringer interface.
func (op Op) String() string {
	switch op {
	case OpEQ:
		return "="
	case OpLT:
		return "<"
	case OpLE:
		return "<="
	case OpGT:
		return ">"
	case OpGE:
		return ">="
	}
	return "?"
}

// ColumnName is a possibly table-qualified column reference.
type ColumnName struct {
	// Table is the qualifier as written: an alias or a table name. Empty
	// when the reference is unqualified.
	Table string
	Name  string
}

// Clone returns a deep copy.
func (c *ColumnName) Clone() *ColumnName {
	nc := *c
	return &nc
}

// SelectField is one projected output of a statement.
type SelectField struct {
	// WildCard marks a `*` field, expanded at compile time against the
	// target table.
	WildCard bool
	Expr     *ColumnName
	AsName   string
}

// Clone returns a deep copy.
func (f *SelectField) Clone() *SelectField {
	nf := *f
	if f.Expr != nil {
		nf.Expr = f.Expr.Clone()
	}
	return &nf
}

// TableName names a table, optionally schema qualified.
type TableName struct {
	Schema string
	Name   string
}

// TableRef is the single-table FROM clause of a normalized statement.
type TableRef struct {
	Table *TableName
	Alias string
}

// Clone returns a deep copy.
func (t *TableRef) Clone() *TableRef {
	nt := *t
	if t.Table != nil {
		tn := *t.Table
		nt.Table = &tn
	}
	return &nt
}

// ColumnPredicate is one conjunct of the normalized WHERE clause: a
// comparison between a column and a constant.
type ColumnPredicate struct {
	Column *ColumnName
	Op     Op
	Value  types.Datum
}

// Clone returns a deep copy.
func (p *ColumnPredicate) Clone() *ColumnPredicate {
	np := *p
	np.Column = p.Column.Clone()
	return &np
}

// ByItem is one element of an ORDER BY or GROUP BY list.
type ByItem struct {
	Column *ColumnName
	Desc   bool
}

// Clone returns a deep copy.
func (b *ByItem) Clone() *ByItem {
	nb := *b
	nb.Column = b.Column.Clone()
	return &nb
}

// GroupByClause is the grouping of a statement.
type GroupByClause struct {
	Items []*ByItem
}

// Clone returns a deep copy.
func (g *GroupByClause) Clone() *GroupByClause {
	items := make([]*ByItem, 0, len(g.Items))
	for _, it := range g.Items {
		items = append(items, it.Clone())
	}
	return &GroupByClause{Items: items}
}

// OrderByClause is the requested ordering of a statement.
type OrderByClause struct {
	Items []*ByItem
}

// Clone returns a deep copy.
func (o *OrderByClause) Clone() *OrderByClause {
	items := make([]*ByItem, 0, len(o.Items))
	for _, it := range o.Items {
		items = append(items, it.Clone())
	}
	return &OrderByClause{Items: items}
}

// SelectStmt is a normalized single-table query. The optimizer rewrites it
// against different target tables by swapping From; everything else is
// preserved.
type SelectStmt struct {
	Hints   *hint.HintSet
	From    *TableRef
	Fields  []*SelectField
	Where   []*ColumnPredicate
	GroupBy *GroupByClause
	OrderBy *OrderByClause
}

// Clone returns a deep copy of the statement. The hint set is shared; it is
// immutable once parsed.
func (s *SelectStmt) Clone() *SelectStmt {
	ns := &SelectStmt{Hints: s.Hints}
	if s.From != nil {
		ns.From = s.From.Clone()
	}
	ns.Fields = make([]*SelectField, 0, len(s.Fields))
	for _, f := range s.Fields {
		ns.Fields = append(ns.Fields, f.Clone())
	}
	ns.Where = make([]*ColumnPredicate, 0, len(s.Where))
	for _, p := range s.Where {
		ns.Where = append(ns.Where, p.Clone())
	}
	if s.GroupBy != nil {
		ns.GroupBy = s.GroupBy.Clone()
	}
	if s.OrderBy != nil {
		ns.OrderBy = s.OrderBy.Clone()
	}
	return ns
}

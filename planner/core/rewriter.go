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

package core

import (
	"github.com/perchdb/perch/parser/ast"
	"github.com/perchdb/perch/parser/model"
)

// RetargetStatement clones sel with its FROM clause replaced by target
// under the given alias. Projection, predicates, grouping and ordering are
// carried over untouched. Identifiers are copied exactly, never re-cased or
// re-quoted, so case-sensitive names survive the rewrite. The schema
// qualifier stays empty when the target lives in the default schema.
func RetargetStatement(sel *ast.SelectStmt, target *model.TableInfo, alias string) *ast.SelectStmt {
	ns := sel.Clone()
	ns.From = &ast.TableRef{
		Table: &ast.TableName{Schema: target.Schema, Name: target.Name},
		Alias: alias,
	}
	return ns
}

// ColumnResolver knows which qualifier a statement used for its base table.
type ColumnResolver struct {
	refName string
}

// NewColumnResolver builds a resolver from the compiled base plan.
func NewColumnResolver(base *ScanPlan) *ColumnResolver {
	return &ColumnResolver{refName: base.TableRef.RefName()}
}

// ResolvesToBase reports whether the qualifier referred to the base table.
func (r *ColumnResolver) ResolvesToBase(qualifier string) bool {
	return qualifier == "" || qualifier == r.refName
}

// TranslateForIndex rewrites base-table column references so the statement
// can be recompiled against an index table: qualifiers that named the base
// table are dropped and the references rebind by column name at the new
// FROM table. Done once per optimize call; every candidate build shares the
// translated statement.
func TranslateForIndex(sel *ast.SelectStmt, r *ColumnResolver) *ast.SelectStmt {
	ns := sel.Clone()
	for _, field := range ns.Fields {
		if field.Expr != nil {
			translateColumn(field.Expr, r)
		}
	}
	for _, cond := range ns.Where {
		translateColumn(cond.Column, r)
	}
	if ns.GroupBy != nil {
		for _, item := range ns.GroupBy.Items {
			translateColumn(item.Column, r)
		}
	}
	if ns.OrderBy != nil {
		for _, item := range ns.OrderBy.Items {
			translateColumn(item.Column, r)
		}
	}
	return ns
}

func translateColumn(cn *ast.ColumnName, r *ColumnResolver) {
	if r.ResolvesToBase(cn.Table) {
		cn.Table = ""
	}
}

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
	"github.com/perchdb/perch/infoschema"
	"github.com/perchdb/perch/parser/ast"
	"github.com/perchdb/perch/parser/model"
	"github.com/perchdb/perch/types"
	"github.com/perchdb/perch/util/hint"
)

func newTestOptimizer() *Optimizer {
	return &Optimizer{useIndexes: true}
}

func buildTable(name string, typ model.TableType, state model.IndexState, cols, key []string) *model.TableInfo {
	tbl := &model.TableInfo{Name: name, Type: typ, State: state}
	for i, colName := range cols {
		tbl.Columns = append(tbl.Columns, &model.ColumnInfo{
			Name:      colName,
			Offset:    i,
			FieldType: types.FieldType{Tp: types.TypeVarchar},
		})
	}
	for _, keyName := range key {
		tbl.PKColumns = append(tbl.PKColumns, tbl.FindColumn(keyName))
	}
	return tbl
}

func dataTable(name string, cols, key []string, indexes ...*model.TableInfo) *model.TableInfo {
	tbl := buildTable(name, model.TypeData, model.StateActive, cols, key)
	tbl.Indexes = indexes
	return tbl
}

func indexTable(name string, state model.IndexState, cols, key []string) *model.TableInfo {
	return buildTable(name, model.TypeIndex, state, cols, key)
}

func testCompiler(tables ...*model.TableInfo) Compiler {
	return NewCompiler(infoschema.MockInfoSchema(tables))
}

func newSelect(table, alias string, fields ...string) *ast.SelectStmt {
	sel := &ast.SelectStmt{
		From: &ast.TableRef{Table: &ast.TableName{Name: table}, Alias: alias},
	}
	for _, field := range fields {
		if field == "*" {
			sel.Fields = append(sel.Fields, &ast.SelectField{WildCard: true})
			continue
		}
		sel.Fields = append(sel.Fields, &ast.SelectField{Expr: &ast.ColumnName{Name: field}})
	}
	return sel
}

func withHint(sel *ast.SelectStmt, comment string) *ast.SelectStmt {
	sel.Hints = hint.ParseHintComment(comment)
	return sel
}

func withWhere(sel *ast.SelectStmt, conds ...*ast.ColumnPredicate) *ast.SelectStmt {
	sel.Where = append(sel.Where, conds...)
	return sel
}

func withOrderBy(sel *ast.SelectStmt, desc bool, cols ...string) *ast.SelectStmt {
	sel.OrderBy = &ast.OrderByClause{}
	for _, col := range cols {
		sel.OrderBy.Items = append(sel.OrderBy.Items, &ast.ByItem{
			Column: &ast.ColumnName{Name: col},
			Desc:   desc,
		})
	}
	return sel
}

func withGroupBy(sel *ast.SelectStmt, cols ...string) *ast.SelectStmt {
	sel.GroupBy = &ast.GroupByClause{}
	for _, col := range cols {
		sel.GroupBy.Items = append(sel.GroupBy.Items, &ast.ByItem{
			Column: &ast.ColumnName{Name: col},
		})
	}
	return sel
}

func eq(col string, v int64) *ast.ColumnPredicate {
	return &ast.ColumnPredicate{
		Column: &ast.ColumnName{Name: col},
		Op:     ast.OpEQ,
		Value:  types.NewIntDatum(v),
	}
}

func gt(col string, v int64) *ast.ColumnPredicate {
	return &ast.ColumnPredicate{
		Column: &ast.ColumnName{Name: col},
		Op:     ast.OpGT,
		Value:  types.NewIntDatum(v),
	}
}

// countingCompiler records how often each FROM table is compiled.
type countingCompiler struct {
	inner Compiler
	calls map[string]int
	total int
}

func newCountingCompiler(inner Compiler) *countingCompiler {
	return &countingCompiler{inner: inner, calls: make(map[string]int)}
}

// Compile implements Compiler interface.
func (c *countingCompiler) Compile(sel *ast.SelectStmt, targetColumns []*types.FieldType) (*ScanPlan, error) {
	c.total++
	if sel.From != nil && sel.From.Table != nil {
		c.calls[sel.From.Table.Name]++
	}
	return c.inner.Compile(sel, targetColumns)
}

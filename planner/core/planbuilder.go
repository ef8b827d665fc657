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
	"github.com/pingcap/errors"

	"github.com/perchdb/perch/infoschema"
	"github.com/perchdb/perch/parser/ast"
	"github.com/perchdb/perch/parser/model"
	"github.com/perchdb/perch/types"
	"github.com/perchdb/perch/util/ranger"
)

// Compiler turns a normalized statement into an executable scan plan
// against the statement's FROM table. targetColumns, when non-empty, pins
// the expected output types; compilation fails if the projection width
// differs.
type Compiler interface {
	Compile(sel *ast.SelectStmt, targetColumns []*types.FieldType) (*ScanPlan, error)
}

// planBuilder is the catalog-backed Compiler.
type planBuilder struct {
	is infoschema.InfoSchema
}

// NewCompiler creates a Compiler resolving tables against is.
func NewCompiler(is infoschema.InfoSchema) Compiler {
	return &planBuilder{is: is}
}

// Compile implements Compiler interface.
func (b *planBuilder) Compile(sel *ast.SelectStmt, targetColumns []*types.FieldType) (*ScanPlan, error) {
	if sel.From == nil || sel.From.Table == nil {
		return nil, errors.Trace(ErrMissingFrom)
	}
	tbl, err := b.is.TableByName(sel.From.Table.Schema, sel.From.Table.Name)
	if err != nil {
		return nil, errors.Trace(err)
	}
	ref := &TableRef{Table: tbl, Alias: sel.From.Alias}

	projector, err := b.buildProjector(ref, sel.Fields)
	if err != nil {
		return nil, errors.Trace(err)
	}
	if len(targetColumns) > 0 {
		if len(targetColumns) != projector.ColumnCount() {
			return nil, errors.Annotatef(ErrWrongNumberOfColumns,
				"expected %d, projection has %d", len(targetColumns), projector.ColumnCount())
		}
		for i, ft := range targetColumns {
			projector.Columns[i].FieldType = *ft
		}
	}

	for _, cond := range sel.Where {
		if _, err = b.resolveColumn(ref, cond.Column); err != nil {
			return nil, errors.Trace(err)
		}
	}
	ranges := ranger.BuildKeyRanges(tbl.PKColumns, sel.Where)

	orderBy, err := b.buildOrderBy(ref, sel)
	if err != nil {
		return nil, errors.Trace(err)
	}
	groupBy, err := b.buildGroupBy(ref, sel)
	if err != nil {
		return nil, errors.Trace(err)
	}

	return &ScanPlan{
		TableRef:  ref,
		Stmt:      sel,
		Projector: projector,
		OrderBy:   orderBy,
		GroupBy:   groupBy,
		Ranges:    ranges,
	}, nil
}

func (b *planBuilder) buildProjector(ref *TableRef, fields []*ast.SelectField) (*RowProjector, error) {
	projector := &RowProjector{}
	for _, field := range fields {
		if field.WildCard {
			// Expanded against the target table, so the width differs
			// between a data table and its narrower indexes.
			for _, col := range ref.Table.Columns {
				projector.Columns = append(projector.Columns, &ColumnProjection{
					Name:      col.Name,
					Source:    &ast.ColumnName{Name: col.Name},
					FieldType: col.FieldType,
				})
			}
			continue
		}
		col, err := b.resolveColumn(ref, field.Expr)
		if err != nil {
			return nil, errors.Trace(err)
		}
		name := field.AsName
		if name == "" {
			name = col.Name
		}
		projector.Columns = append(projector.Columns, &ColumnProjection{
			Name:      name,
			Source:    field.Expr,
			FieldType: col.FieldType,
		})
	}
	return projector, nil
}

// resolveColumn binds a column reference against the FROM table. An alias
// hides the underlying table name, matching how the statement rewriter
// re-targets a query while keeping its alias.
func (b *planBuilder) resolveColumn(ref *TableRef, cn *ast.ColumnName) (*model.ColumnInfo, error) {
	if cn.Table != "" && cn.Table != ref.RefName() {
		return nil, errors.Annotatef(ErrColumnNotFound, "column %s.%s", cn.Table, cn.Name)
	}
	col := ref.Table.FindColumn(cn.Name)
	if col == nil {
		return nil, errors.Annotatef(ErrColumnNotFound, "column %s on table %s", cn.Name, ref.Table.Name)
	}
	return col, nil
}

// buildOrderBy returns the residual ordering: empty when the key order of
// the FROM table already satisfies the requested order.
func (b *planBuilder) buildOrderBy(ref *TableRef, sel *ast.SelectStmt) ([]*ast.ByItem, error) {
	if sel.OrderBy == nil || len(sel.OrderBy.Items) == 0 {
		return nil, nil
	}
	for _, item := range sel.OrderBy.Items {
		if _, err := b.resolveColumn(ref, item.Column); err != nil {
			return nil, errors.Trace(err)
		}
	}
	if keyOrderSatisfies(ref.Table, sel.OrderBy.Items, sel.Where, false) {
		return nil, nil
	}
	return sel.OrderBy.Items, nil
}

func (b *planBuilder) buildGroupBy(ref *TableRef, sel *ast.SelectStmt) (*GroupByDescriptor, error) {
	if sel.GroupBy == nil || len(sel.GroupBy.Items) == 0 {
		return nil, nil
	}
	for _, item := range sel.GroupBy.Items {
		if _, err := b.resolveColumn(ref, item.Column); err != nil {
			return nil, errors.Trace(err)
		}
	}
	return &GroupByDescriptor{
		Items:           sel.GroupBy.Items,
		OrderPreserving: keyOrderSatisfies(ref.Table, sel.GroupBy.Items, sel.Where, true),
	}, nil
}

// keyOrderSatisfies reports whether the requested by-items follow the
// table's key order. Key columns pinned to a single value by an equality
// predicate may be skipped: all rows agree on them. With ignoreDesc false,
// the request must also be uniform in direction, since a scan can run
// forward or reverse but not both.
func keyOrderSatisfies(tbl *model.TableInfo, items []*ast.ByItem, conds []*ast.ColumnPredicate, ignoreDesc bool) bool {
	if !ignoreDesc {
		for _, item := range items {
			if item.Desc != items[0].Desc {
				return false
			}
		}
	}
	pinned := make(map[string]struct{}, len(conds))
	for _, cond := range conds {
		if cond.Op == ast.OpEQ {
			pinned[cond.Column.Name] = struct{}{}
		}
	}
	ki := 0
	for _, item := range items {
		for ki < len(tbl.PKColumns) && tbl.PKColumns[ki].Name != item.Column.Name {
			if _, ok := pinned[tbl.PKColumns[ki].Name]; !ok {
				return false
			}
			ki++
		}
		if ki >= len(tbl.PKColumns) {
			return false
		}
		ki++
	}
	return true
}

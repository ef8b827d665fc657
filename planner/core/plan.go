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
	"github.com/perchdb/perch/types"
	"github.com/perchdb/perch/util/ranger"
)

// TableRef binds a resolved table to the name it carries inside one
// statement.
type TableRef struct {
	Table *model.TableInfo
	// Alias is the statement's alias for the table, "" when unaliased.
	Alias string
}

// RefName returns the identifier the statement knows the table by: the
// alias when present, the table name otherwise. The INDEX hint scopes its
// names by this identifier.
func (tr *TableRef) RefName() string {
	if tr.Alias != "" {
		return tr.Alias
	}
	return tr.Table.Name
}

// ColumnProjection is one output column of a compiled plan: the produced
// name plus the source column it reads.
type ColumnProjection struct {
	Name      string
	Source    *ast.ColumnName
	FieldType types.FieldType
}

// RowProjector is the ordered output row shape of a plan.
type RowProjector struct {
	Columns []*ColumnProjection
}

// ColumnCount returns the projection width. Candidate validation compares
// it against the base plan to catch silent wildcard shrinkage on narrower
// index tables.
func (rp *RowProjector) ColumnCount() int {
	return len(rp.Columns)
}

// FieldTypes returns the output types in projection order.
func (rp *RowProjector) FieldTypes() []*types.FieldType {
	fts := make([]*types.FieldType, 0, len(rp.Columns))
	for _, col := range rp.Columns {
		ft := col.FieldType
		fts = append(fts, &ft)
	}
	return fts
}

// GroupByDescriptor describes the grouping of a compiled plan.
type GroupByDescriptor struct {
	Items []*ast.ByItem
	// OrderPreserving is set when the scan already emits groups
	// contiguously, so grouping needs no separate sort.
	OrderPreserving bool
}

// ScanPlan is one candidate execution plan: the result of compiling a
// statement against one target table, base or index. It is immutable after
// compilation; selection only reads and orders candidates.
type ScanPlan struct {
	TableRef *TableRef
	// Stmt is the normalized statement this plan was compiled from.
	Stmt      *ast.SelectStmt
	Projector *RowProjector
	// OrderBy is the residual ordering the executor still has to apply;
	// empty when the table's key order satisfies the request.
	OrderBy []*ast.ByItem
	// GroupBy is nil for ungrouped statements.
	GroupBy *GroupByDescriptor
	Ranges  *ranger.ScanRanges
}

// IsPointLookup reports whether the plan resolves to a single fully
// qualified key.
func (p *ScanPlan) IsPointLookup() bool {
	return p.Ranges.IsPointLookup()
}

// OrderByEliminated reports whether the plan needs no downstream sort step.
func (p *ScanPlan) OrderByEliminated() bool {
	return len(p.OrderBy) == 0
}

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
	"testing"

	"github.com/pingcap/errors"
	"github.com/stretchr/testify/require"

	"github.com/perchdb/perch/parser/ast"
	"github.com/perchdb/perch/types"
)

func TestCompileProjection(t *testing.T) {
	tbl := dataTable("T", []string{"K1", "K2", "C1"}, []string{"K1", "K2"})
	compiler := testCompiler(tbl)

	plan, err := compiler.Compile(newSelect("T", "", "*"), nil)
	require.NoError(t, err)
	require.Equal(t, 3, plan.Projector.ColumnCount())
	require.Equal(t, "K1", plan.Projector.Columns[0].Name)

	sel := newSelect("T", "", "C1")
	sel.Fields[0].AsName = "val"
	plan, err = compiler.Compile(sel, nil)
	require.NoError(t, err)
	require.Equal(t, 1, plan.Projector.ColumnCount())
	require.Equal(t, "val", plan.Projector.Columns[0].Name)

	_, err = compiler.Compile(newSelect("T", "", "NOPE"), nil)
	require.True(t, IsColumnNotFound(err))

	_, err = compiler.Compile(&ast.SelectStmt{}, nil)
	require.Equal(t, ErrMissingFrom, errors.Cause(err))
}

func TestCompileAliasQualifier(t *testing.T) {
	tbl := dataTable("T", []string{"K1", "C1"}, []string{"K1"})
	compiler := testCompiler(tbl)

	sel := newSelect("T", "a", "C1")
	sel.Fields[0].Expr.Table = "a"
	_, err := compiler.Compile(sel, nil)
	require.NoError(t, err)

	// The alias hides the underlying table name.
	sel = newSelect("T", "a", "C1")
	sel.Fields[0].Expr.Table = "T"
	_, err = compiler.Compile(sel, nil)
	require.True(t, IsColumnNotFound(err))
}

func TestCompileTargetColumns(t *testing.T) {
	tbl := dataTable("T", []string{"K1", "C1"}, []string{"K1"})
	compiler := testCompiler(tbl)

	plan, err := compiler.Compile(newSelect("T", "", "C1"),
		[]*types.FieldType{types.NewFieldType(types.TypeTimestamp)})
	require.NoError(t, err)
	require.Equal(t, types.TypeTimestamp, plan.Projector.Columns[0].FieldType.Tp)

	_, err = compiler.Compile(newSelect("T", "", "C1"),
		[]*types.FieldType{types.NewFieldType(types.TypeTimestamp), types.NewFieldType(types.TypeVarchar)})
	require.Equal(t, ErrWrongNumberOfColumns, errors.Cause(err))
}

func TestCompileOrderByResidual(t *testing.T) {
	tbl := dataTable("T", []string{"K1", "K2", "C1"}, []string{"K1", "K2"})
	compiler := testCompiler(tbl)

	// Key order satisfies the request outright.
	plan, err := compiler.Compile(withOrderBy(newSelect("T", "", "C1"), false, "K1", "K2"), nil)
	require.NoError(t, err)
	require.True(t, plan.OrderByEliminated())

	// A key column pinned by equality may be skipped.
	plan, err = compiler.Compile(
		withOrderBy(withWhere(newSelect("T", "", "C1"), eq("K1", 1)), false, "K2"), nil)
	require.NoError(t, err)
	require.True(t, plan.OrderByEliminated())

	// A range predicate does not pin its column.
	plan, err = compiler.Compile(
		withOrderBy(withWhere(newSelect("T", "", "C1"), gt("K1", 1)), false, "K2"), nil)
	require.NoError(t, err)
	require.False(t, plan.OrderByEliminated())

	// Non-key ordering stays residual.
	plan, err = compiler.Compile(withOrderBy(newSelect("T", "", "C1"), false, "C1"), nil)
	require.NoError(t, err)
	require.False(t, plan.OrderByEliminated())
	require.Len(t, plan.OrderBy, 1)
}

func TestCompileOrderByDirection(t *testing.T) {
	tbl := dataTable("T", []string{"K1", "K2", "C1"}, []string{"K1", "K2"})
	compiler := testCompiler(tbl)

	// A uniformly descending request maps onto a reverse scan.
	plan, err := compiler.Compile(withOrderBy(newSelect("T", "", "C1"), true, "K1", "K2"), nil)
	require.NoError(t, err)
	require.True(t, plan.OrderByEliminated())

	// Mixed directions cannot ride a single scan.
	sel := withOrderBy(newSelect("T", "", "C1"), false, "K1", "K2")
	sel.OrderBy.Items[1].Desc = true
	plan, err = compiler.Compile(sel, nil)
	require.NoError(t, err)
	require.False(t, plan.OrderByEliminated())
}

func TestCompileGroupBy(t *testing.T) {
	tbl := dataTable("T", []string{"K1", "K2", "C1"}, []string{"K1", "K2"})
	compiler := testCompiler(tbl)

	plan, err := compiler.Compile(withGroupBy(newSelect("T", "", "C1"), "K1"), nil)
	require.NoError(t, err)
	require.True(t, plan.GroupBy.OrderPreserving)

	// Grouping ignores scan direction: contiguity is all that matters, so a
	// trailing key column works once the leading one is pinned.
	plan, err = compiler.Compile(
		withGroupBy(withWhere(newSelect("T", "", "C1"), eq("K1", 1)), "K2"), nil)
	require.NoError(t, err)
	require.True(t, plan.GroupBy.OrderPreserving)

	plan, err = compiler.Compile(withGroupBy(newSelect("T", "", "C1"), "K2"), nil)
	require.NoError(t, err)
	require.False(t, plan.GroupBy.OrderPreserving)

	plan, err = compiler.Compile(newSelect("T", "", "C1"), nil)
	require.NoError(t, err)
	require.Nil(t, plan.GroupBy)
}

func TestCompileKeyRanges(t *testing.T) {
	tbl := dataTable("T", []string{"K1", "K2", "C1"}, []string{"K1", "K2"})
	compiler := testCompiler(tbl)

	plan, err := compiler.Compile(
		withWhere(newSelect("T", "", "C1"), eq("K1", 1), eq("K2", 2)), nil)
	require.NoError(t, err)
	require.True(t, plan.IsPointLookup())
	require.Equal(t, 2, plan.Ranges.SegmentCount())

	plan, err = compiler.Compile(withWhere(newSelect("T", "", "C1"), eq("K1", 1)), nil)
	require.NoError(t, err)
	require.False(t, plan.IsPointLookup())
	require.Equal(t, 1, plan.Ranges.SegmentCount())

	// A gap in the key prefix stops range extraction.
	plan, err = compiler.Compile(withWhere(newSelect("T", "", "C1"), eq("K2", 2)), nil)
	require.NoError(t, err)
	require.Equal(t, 0, plan.Ranges.SegmentCount())
}

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
	"slices"
	"sort"

	"github.com/pingcap/errors"
	"github.com/pingcap/failpoint"
	"go.uber.org/zap"

	"github.com/perchdb/perch/config"
	"github.com/perchdb/perch/metrics"
	"github.com/perchdb/perch/parser/ast"
	"github.com/perchdb/perch/parser/model"
	"github.com/perchdb/perch/types"
	"github.com/perchdb/perch/util/hint"
	"github.com/perchdb/perch/util/logutil"
)

// Optimizer picks the physical scan target of a statement: the base table
// or one of its secondary indexes. It keeps no per-call state and is safe
// to share across concurrent Optimize calls.
type Optimizer struct {
	useIndexes bool
}

// NewOptimizer creates an Optimizer configured from the global config.
func NewOptimizer() *Optimizer {
	return &Optimizer{useIndexes: config.GetGlobalConfig().Performance.UseIndexes}
}

// Optimize compiles sel once per eligible target table and returns the best
// candidate. targetColumns fixes the expected output types for
// write-with-select statements; a plain read passes nil and the types are
// taken from the base plan so every candidate compiles to an identical row
// shape. The base-table plan is always built and is returned outright when
// indexes are disabled, absent, or excluded by the statement.
func (o *Optimizer) Optimize(sel *ast.SelectStmt, compiler Compiler, targetColumns []*types.FieldType) (*ScanPlan, error) {
	dataPlan, err := compiler.Compile(sel, targetColumns)
	if err != nil {
		return nil, errors.Trace(err)
	}
	if !o.useIndexes {
		metrics.OptimizeCounter.WithLabelValues(metrics.LblBase).Inc()
		return dataPlan, nil
	}
	// Continue from the statement as the base compile normalized it.
	sel = dataPlan.Stmt
	dataTable := dataPlan.TableRef.Table
	// The eligibility list is owned by this call; hint resolution prunes it
	// so later stages do not reconsider failed indexes.
	indexes := slices.Clone(dataTable.Indexes)
	if len(indexes) == 0 || dataTable.DynamicColumns || sel.Hints.HasNoIndex() {
		metrics.OptimizeCounter.WithLabelValues(metrics.LblBase).Inc()
		return dataPlan, nil
	}

	if len(targetColumns) == 0 {
		targetColumns = dataPlan.Projector.FieldTypes()
	}

	translated := TranslateForIndex(sel, NewColumnResolver(dataPlan))
	plans := make([]*ScanPlan, 0, len(indexes)+1)
	plans = append(plans, dataPlan)
	hinted, err := o.hintedPlan(compiler, translated, sel.Hints, &indexes, targetColumns, &plans)
	if err != nil {
		return nil, errors.Trace(err)
	}
	if hinted != nil {
		// A successfully hinted index wins outright.
		metrics.OptimizeCounter.WithLabelValues(metrics.LblHinted).Inc()
		return hinted, nil
	}
	for _, index := range indexes {
		if _, err = o.buildIndexPlan(compiler, translated, index, targetColumns, &plans); err != nil {
			return nil, errors.Trace(err)
		}
	}
	metrics.CandidateCountHistogram.Observe(float64(len(plans)))
	metrics.OptimizeCounter.WithLabelValues(metrics.LblHeuristic).Inc()
	return chooseBestPlan(sel.Hints, plans), nil
}

// hintedPlan walks the INDEX directive scoped to the base table and builds
// the first hinted index that yields a usable plan. An index that fails to
// build is removed from the eligibility list and scanning continues; names
// not matching any eligible index are skipped.
func (o *Optimizer) hintedPlan(compiler Compiler, translated *ast.SelectStmt, hints *hint.HintSet,
	indexes *[]*model.TableInfo, targetColumns []*types.FieldType, plans *[]*ScanPlan) (*ScanPlan, error) {
	directive := hints.IndexHint()
	if directive == "" {
		return nil, nil
	}
	dataPlan := (*plans)[0]
	scanner := hint.NewIndexHintScanner(directive, dataPlan.TableRef.RefName())
	for {
		name, ok := scanner.Next()
		if !ok {
			return nil, nil
		}
		pos := indexPosition(*indexes, name)
		if pos < 0 {
			continue
		}
		added, err := o.buildIndexPlan(compiler, translated, (*indexes)[pos], targetColumns, plans)
		if err != nil {
			return nil, errors.Trace(err)
		}
		if added {
			// The hinted candidate sits right after the base plan.
			return (*plans)[1], nil
		}
		*indexes = slices.Delete(*indexes, pos, pos+1)
	}
}

func indexPosition(indexes []*model.TableInfo, name string) int {
	for i, index := range indexes {
		if index.Name == name {
			return i
		}
	}
	return -1
}

// buildIndexPlan retargets the translated statement at index, recompiles
// it, and appends the result to plans when usable. A not-applicable index
// reports false without error; anything but a coverage miss propagates.
func (o *Optimizer) buildIndexPlan(compiler Compiler, translated *ast.SelectStmt, index *model.TableInfo,
	targetColumns []*types.FieldType, plans *[]*ScanPlan) (bool, error) {
	if _, ferr := failpoint.Eval("github.com/perchdb/perch/planner/core/skipIndexCandidate"); ferr == nil {
		return false, nil
	}

	dataPlan := (*plans)[0]
	nCols := dataPlan.Projector.ColumnCount()
	indexSel := RetargetStatement(translated, index, dataPlan.TableRef.Alias)
	plan, err := compiler.Compile(indexSel, targetColumns)
	if err != nil {
		if IsColumnNotFound(err) {
			// The index does not cover a referenced column. With no
			// cardinality stats a join back to the data table cannot be
			// costed, so the index is dropped instead of guessing.
			logutil.BgLogger().Debug("index does not cover the query, candidate dropped",
				zap.String("index", index.Name), zap.Error(err))
			metrics.CandidateRejectCounter.WithLabelValues(metrics.LblColumnMissing).Inc()
			return false, nil
		}
		if IsWrongNumberOfColumns(err) {
			// A wildcard expanded to fewer columns on this index than on the
			// base table, so the pinned target types no longer fit. The index
			// cannot produce the base row shape; drop it.
			logutil.BgLogger().Debug("index projection width differs from the base plan, candidate dropped",
				zap.String("index", index.Name), zap.Error(err))
			metrics.CandidateRejectCounter.WithLabelValues(metrics.LblColumnMismatch).Inc()
			return false, nil
		}
		return false, errors.Trace(err)
	}
	// Both checks run on the freshly compiled plan: the catalog entry seen
	// before recompilation may be stale, and the width comparison backstops
	// compilers that do not enforce the pinned target width themselves.
	if plan.TableRef.Table.State != model.StateActive {
		metrics.CandidateRejectCounter.WithLabelValues(metrics.LblNotActive).Inc()
		return false, nil
	}
	if plan.Projector.ColumnCount() != nCols {
		metrics.CandidateRejectCounter.WithLabelValues(metrics.LblColumnMismatch).Inc()
		return false, nil
	}
	*plans = append(*plans, plan)
	return true, nil
}

// chooseBestPlan picks one plan out of a non-empty candidate list without
// statistics. Point lookups trump everything; among those (or all plans if
// none), plans whose key order absorbs the requested ORDER BY trump the
// rest; the surviving pool is ranked by a deterministic comparator and the
// head of that final pool wins. An empty candidate list is a caller bug.
func chooseBestPlan(hints *hint.HintSet, plans []*ScanPlan) *ScanPlan {
	if len(plans) == 1 {
		return plans[0]
	}
	pool := plans
	pointLookups := make([]*ScanPlan, 0, len(plans))
	for _, plan := range pool {
		if plan.IsPointLookup() {
			pointLookups = append(pointLookups, plan)
		}
	}
	if len(pointLookups) > 0 {
		pool = pointLookups
	}
	// Sorting downstream is typically the most expensive step, so prefer
	// plans that already satisfy the requested order.
	ordered := make([]*ScanPlan, 0, len(pool))
	for _, plan := range pool {
		if plan.OrderByEliminated() {
			ordered = append(ordered, plan)
		}
	}
	if len(ordered) > 0 {
		pool = ordered
	}
	indexDir := 1
	if hints.HasUseDataOverIndexTable() {
		indexDir = -1
	}
	sort.SliceStable(pool, func(i, j int) bool {
		return comparePlans(pool[i], pool[j], indexDir) < 0
	})
	return pool[0]
}

// comparePlans ranks two candidates; negative means a scans first.
func comparePlans(a, b *ScanPlan, indexDir int) int {
	// More constrained leading key columns reads as a more selective
	// access path.
	if c := b.Ranges.SegmentCount() - a.Ranges.SegmentCount(); c != 0 {
		return c
	}
	if a.GroupBy != nil && b.GroupBy != nil && a.GroupBy.OrderPreserving != b.GroupBy.OrderPreserving {
		if a.GroupBy.OrderPreserving {
			return -1
		}
		return 1
	}
	// Prefer the physically narrower table.
	if c := a.TableRef.Table.NonKeyColumnCount() - b.TableRef.Table.NonKeyColumnCount(); c != 0 {
		return c
	}
	// Index table beats data table unless USE_DATA_OVER_INDEX_TABLE flips
	// the direction. Applies only to a data/index pair; two index plans
	// stay in their original order.
	aIdx, bIdx := a.TableRef.Table.IsIndex(), b.TableRef.Table.IsIndex()
	if aIdx != bIdx {
		if aIdx {
			return -indexDir
		}
		return indexDir
	}
	return 0
}

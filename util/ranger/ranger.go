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

package ranger

import (
	"fmt"
	"strings"

	"github.com/perchdb/perch/parser/ast"
	"github.com/perchdb/perch/parser/model"
	"github.com/perchdb/perch/types"
)

// Range is the interval a scan covers on one key column.
type Range struct {
	Low         types.Datum
	High        types.Datum
	LowExclude  bool
	HighExclude bool
}

// IsPoint reports whether the range pins the column to a single value.
func (r *Range) IsPoint() bool {
	return !r.LowExclude && !r.HighExclude && r.Low.Equals(r.High)
}

// String implements fmt.Stringer interface.
func (r *Range) String() string {
	lb, hb := "[", "]"
	if r.LowExclude {
		lb = "("
	}
	if r.HighExclude {
		hb = ")"
	}
	return fmt.Sprintf("%s%s,%s%s", lb, r.Low, r.High, hb)
}

// ScanRanges is the scan-range predicate set of a compiled plan: one range
// per leading key column the statement constrains.
type ScanRanges struct {
	ranges      []*Range
	pointLookup bool
}

// Ranges returns the per-column ranges, outermost key column first.
func (sr *ScanRanges) Ranges() []*Range {
	return sr.ranges
}

// SegmentCount returns how many leading key columns the scan constrains.
func (sr *ScanRanges) SegmentCount() int {
	return len(sr.ranges)
}

// IsPointLookup reports whether every key column is pinned to one value, so
// the scan resolves to a single key.
func (sr *ScanRanges) IsPointLookup() bool {
	return sr.pointLookup
}

// String implements fmt.Stringer interface.
func (sr *ScanRanges) String() string {
	parts := make([]string, 0, len(sr.ranges))
	for _, r := range sr.ranges {
		parts = append(parts, r.String())
	}
	return strings.Join(parts, " ")
}

// BuildKeyRanges derives scan ranges from the normalized predicates over an
// ordered key. Key columns are consumed left to right: an equality pins the
// column and extends the prefix, a bound condition closes the prefix with a
// partial range, and an unconstrained column stops it. conds must already be
// resolved against the table owning keyCols.
func BuildKeyRanges(keyCols []*model.ColumnInfo, conds []*ast.ColumnPredicate) *ScanRanges {
	sr := &ScanRanges{}
	for _, keyCol := range keyCols {
		eq, bounds := collectColumnConds(keyCol.Name, conds)
		if eq != nil {
			sr.ranges = append(sr.ranges, &Range{Low: eq.Value, High: eq.Value})
			continue
		}
		if len(bounds) > 0 {
			sr.ranges = append(sr.ranges, boundedRange(bounds))
		}
		return sr
	}
	// Every key column carries an equality: single-key scan.
	sr.pointLookup = len(keyCols) > 0
	return sr
}

func collectColumnConds(name string, conds []*ast.ColumnPredicate) (eq *ast.ColumnPredicate, bounds []*ast.ColumnPredicate) {
	for _, cond := range conds {
		if cond.Column.Name != name {
			continue
		}
		if cond.Op == ast.OpEQ {
			return cond, nil
		}
		bounds = append(bounds, cond)
	}
	return nil, bounds
}

func boundedRange(bounds []*ast.ColumnPredicate) *Range {
	r := &Range{Low: types.MinNotNullDatum(), High: types.MaxValueDatum()}
	for _, cond := range bounds {
		switch cond.Op {
		case ast.OpGT:
			r.Low, r.LowExclude = cond.Value, true
		case ast.OpGE:
			r.Low, r.LowExclude = cond.Value, false
		case ast.OpLT:
			r.High, r.HighExclude = cond.Value, true
		case ast.OpLE:
			r.High, r.HighExclude = cond.Value, false
		}
	}
	return r
}

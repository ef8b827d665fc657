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

package model

import (
	"github.com/perchdb/perch/types"
)

// TableType distinguishes a data table from a secondary-index table. A
// secondary index mirrors a subset of the data table's columns under an
// alternate key ordering and is queried like any other table.
type TableType byte

const (
	// TypeData is a base data table.
	TypeData TableType = iota
	// TypeIndex is a secondary-index table derived from a data table.
	TypeIndex
)

// String implements fmt.Stringer interface.
func (t TableType) String() string {
	switch t {
	case TypeData:
		return "DATA"
	case TypeIndex:
		return "INDEX"
	}
	return "unknown"
}

// IndexState is the lifecycle state of a secondary-index table. Only an
// active index is fully built and safe to answer reads.
type IndexState byte

const (
	// StateActive means the index is fully populated and queryable.
	StateActive IndexState = iota
	// StateBuilding means the index is still being populated.
	StateBuilding
	// StateDisabled means the index has been administratively disabled.
	StateDisabled
	// StateInactive means the index fell behind and needs a rebuild.
	StateInactive
)

// String implements fmt.Stringer interface.
func (s IndexState) String() string {
	switch s {
	case StateActive:
		return "ACTIVE"
	case StateBuilding:
		return "BUILDING"
	case StateDisabled:
		return "DISABLED"
	case StateInactive:
		return "INACTIVE"
	}
	return "unknown"
}

// ColumnInfo provides meta data describing a table column. Column names are
// stored already unquoted and compare case sensitively.
type ColumnInfo struct {
	Name      string          `json:"name"`
	Offset    int             `json:"offset"`
	FieldType types.FieldType `json:"type"`
}

// TableInfo provides meta data describing a table or a secondary-index
// table. It is immutable after catalog load; the optimizer treats it as a
// snapshot for the duration of one call.
type TableInfo struct {
	Schema string    `json:"schema"`
	Name   string    `json:"name"`
	Type   TableType `json:"type"`
	// State is the index lifecycle state. Data tables are always active.
	State IndexState `json:"state"`
	// Columns is the full column list in definition order.
	Columns []*ColumnInfo `json:"columns"`
	// PKColumns is the ordered key of the table. For an index table this is
	// the alternate key the index sorts by.
	PKColumns []*ColumnInfo `json:"pk_columns"`
	// Indexes lists the secondary-index tables of a data table. An index
	// table never owns further indexes.
	Indexes []*TableInfo `json:"indexes"`
	// DynamicColumns marks a table reference that carries runtime-added
	// columns, which no index can cover.
	DynamicColumns bool `json:"dynamic_columns"`
}

// IsIndex reports whether the table is a secondary-index table.
func (t *TableInfo) IsIndex() bool {
	return t.Type == TypeIndex
}

// FindColumn returns the column with the given name, or nil. The match is
// exact; identifiers are presented already unquoted.
func (t *TableInfo) FindColumn(name string) *ColumnInfo {
	for _, col := range t.Columns {
		if col.Name == name {
			return col
		}
	}
	return nil
}

// IsPKColumn reports whether name is one of the table's key columns.
func (t *TableInfo) IsPKColumn(name string) bool {
	for _, col := range t.PKColumns {
		if col.Name == name {
			return true
		}
	}
	return false
}

// NonKeyColumnCount returns the number of columns stored outside the key.
// The heuristic planner uses it as the width of the physical row.
func (t *TableInfo) NonKeyColumnCount() int {
	return len(t.Columns) - len(t.PKColumns)
}

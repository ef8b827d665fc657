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

package infoschema

import (
	"sort"

	"github.com/pingcap/errors"

	"github.com/perchdb/perch/parser/model"
)

// Error instances.
var (
	// ErrTableNotExists is returned when a statement names an unknown table.
	ErrTableNotExists = errors.New("table does not exist")
)

// InfoSchema is an immutable snapshot of the catalog. One optimize call
// resolves every table against a single snapshot; concurrent calls may hold
// different snapshots.
type InfoSchema interface {
	// TableByName resolves schema.table to its metadata. schema may be ""
	// for the default schema.
	TableByName(schema, table string) (*model.TableInfo, error)
	// SchemaExists reports whether any table lives under schema.
	SchemaExists(schema string) bool
	// AllSchemaNames lists the known schema names, sorted.
	AllSchemaNames() []string
}

type tableKey struct {
	schema string
	table  string
}

type infoSchema struct {
	tables map[tableKey]*model.TableInfo
}

// MockInfoSchema builds an InfoSchema snapshot from a flat table list.
// Index tables of each data table are registered under the data table's
// schema so hinted recompilation can resolve them by name.
func MockInfoSchema(tables []*model.TableInfo) InfoSchema {
	is := &infoSchema{tables: make(map[tableKey]*model.TableInfo, len(tables))}
	for _, tbl := range tables {
		is.tables[tableKey{schema: tbl.Schema, table: tbl.Name}] = tbl
		for _, idx := range tbl.Indexes {
			is.tables[tableKey{schema: idx.Schema, table: idx.Name}] = idx
		}
	}
	return is
}

// TableByName implements InfoSchema interface.
func (is *infoSchema) TableByName(schema, table string) (*model.TableInfo, error) {
	tbl, ok := is.tables[tableKey{schema: schema, table: table}]
	if !ok {
		return nil, errors.Annotatef(ErrTableNotExists, "table %s.%s", schema, table)
	}
	return tbl, nil
}

// SchemaExists implements InfoSchema interface.
func (is *infoSchema) SchemaExists(schema string) bool {
	for key := range is.tables {
		if key.schema == schema {
			return true
		}
	}
	return false
}

// AllSchemaNames implements InfoSchema interface.
func (is *infoSchema) AllSchemaNames() []string {
	seen := make(map[string]struct{})
	for key := range is.tables {
		seen[key.schema] = struct{}{}
	}
	names := make([]string, 0, len(seen))
	for name := range seen {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

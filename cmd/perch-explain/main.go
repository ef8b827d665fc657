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

// perch-explain runs the heuristic plan selector over a catalog fixture and
// a normalized statement fixture and reports which scan target it picks.
package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/pingcap/errors"
	"github.com/spf13/cobra"

	"github.com/perchdb/perch/config"
	"github.com/perchdb/perch/infoschema"
	"github.com/perchdb/perch/metrics"
	"github.com/perchdb/perch/parser/ast"
	"github.com/perchdb/perch/parser/model"
	"github.com/perchdb/perch/planner/core"
	"github.com/perchdb/perch/types"
	"github.com/perchdb/perch/util/hint"
	"github.com/perchdb/perch/util/logutil"
)

var (
	configFile  string
	catalogFile string
	queryFile   string
)

func main() {
	cmd := &cobra.Command{
		Use:          "perch-explain",
		Short:        "explain which scan target the plan selector picks for a statement",
		SilenceUsage: true,
		RunE: func(_ *cobra.Command, _ []string) error {
			return run()
		},
	}
	cmd.Flags().StringVar(&configFile, "config", "", "path to a toml config file")
	cmd.Flags().StringVar(&catalogFile, "catalog", "", "path to the catalog fixture (json)")
	cmd.Flags().StringVar(&queryFile, "query", "", "path to the statement fixture (json)")
	_ = cmd.MarkFlagRequired("catalog")
	_ = cmd.MarkFlagRequired("query")
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func run() error {
	cfg := config.NewConfig()
	if configFile != "" {
		if err := cfg.Load(configFile); err != nil {
			return errors.Annotate(err, "load config")
		}
	}
	config.StoreGlobalConfig(cfg)
	if err := logutil.InitLogger(cfg.Log.ToLogConfig()); err != nil {
		return errors.Trace(err)
	}
	metrics.RegisterMetrics()

	is, err := loadCatalog(catalogFile)
	if err != nil {
		return errors.Annotate(err, "load catalog")
	}
	sel, err := loadQuery(queryFile)
	if err != nil {
		return errors.Annotate(err, "load query")
	}

	plan, err := core.NewOptimizer().Optimize(sel, core.NewCompiler(is), nil)
	if err != nil {
		return errors.Annotate(err, "optimize")
	}
	printPlan(plan)
	return nil
}

func printPlan(plan *core.ScanPlan) {
	tbl := plan.TableRef.Table
	fmt.Printf("scan target: %s (%s)\n", tbl.Name, tbl.Type)
	fmt.Printf("key ranges:  %d segment(s), point lookup: %v\n",
		plan.Ranges.SegmentCount(), plan.IsPointLookup())
	if plan.Ranges.SegmentCount() > 0 {
		fmt.Printf("             %s\n", plan.Ranges)
	}
	if plan.OrderByEliminated() {
		fmt.Println("order by:    satisfied by key order")
	} else {
		fmt.Printf("order by:    %d residual item(s)\n", len(plan.OrderBy))
	}
	if plan.GroupBy != nil {
		fmt.Printf("group by:    order preserving: %v\n", plan.GroupBy.OrderPreserving)
	}
	fmt.Printf("projection:  %d column(s)\n", plan.Projector.ColumnCount())
}

// Catalog fixture format.

type catalogFixture struct {
	Tables []*tableFixture `json:"tables"`
}

type tableFixture struct {
	Schema  string           `json:"schema"`
	Name    string           `json:"name"`
	State   string           `json:"state"`
	Columns []*columnFixture `json:"columns"`
	Key     []string         `json:"key"`
	Indexes []*tableFixture  `json:"indexes"`
	Dynamic bool             `json:"dynamic"`
}

type columnFixture struct {
	Name string `json:"name"`
	Type string `json:"type"`
}

func loadCatalog(path string) (infoschema.InfoSchema, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Trace(err)
	}
	var fixture catalogFixture
	if err = json.Unmarshal(data, &fixture); err != nil {
		return nil, errors.Trace(err)
	}
	tables := make([]*model.TableInfo, 0, len(fixture.Tables))
	for _, tf := range fixture.Tables {
		tbl, err := tf.toTableInfo(model.TypeData, "")
		if err != nil {
			return nil, errors.Trace(err)
		}
		tables = append(tables, tbl)
	}
	return infoschema.MockInfoSchema(tables), nil
}

func (tf *tableFixture) toTableInfo(typ model.TableType, parentSchema string) (*model.TableInfo, error) {
	schema := tf.Schema
	if schema == "" {
		schema = parentSchema
	}
	tbl := &model.TableInfo{
		Schema:         schema,
		Name:           tf.Name,
		Type:           typ,
		DynamicColumns: tf.Dynamic,
	}
	for i, cf := range tf.Columns {
		tp, err := parseType(cf.Type)
		if err != nil {
			return nil, errors.Trace(err)
		}
		tbl.Columns = append(tbl.Columns, &model.ColumnInfo{
			Name:      cf.Name,
			Offset:    i,
			FieldType: types.FieldType{Tp: tp},
		})
	}
	for _, keyName := range tf.Key {
		col := tbl.FindColumn(keyName)
		if col == nil {
			return nil, errors.Errorf("key column %s not in table %s", keyName, tf.Name)
		}
		tbl.PKColumns = append(tbl.PKColumns, col)
	}
	if typ == model.TypeIndex {
		state, err := parseState(tf.State)
		if err != nil {
			return nil, errors.Trace(err)
		}
		tbl.State = state
		if len(tf.Indexes) > 0 {
			return nil, errors.Errorf("index table %s cannot own indexes", tf.Name)
		}
		return tbl, nil
	}
	for _, idxFixture := range tf.Indexes {
		idx, err := idxFixture.toTableInfo(model.TypeIndex, schema)
		if err != nil {
			return nil, errors.Trace(err)
		}
		tbl.Indexes = append(tbl.Indexes, idx)
	}
	return tbl, nil
}

func parseType(name string) (byte, error) {
	switch name {
	case "bigint", "int":
		return types.TypeLonglong, nil
	case "double":
		return types.TypeDouble, nil
	case "varchar", "string":
		return types.TypeVarchar, nil
	case "timestamp":
		return types.TypeTimestamp, nil
	case "":
		return types.TypeUnspecified, nil
	}
	return 0, errors.Errorf("unknown column type %q", name)
}

func parseState(name string) (model.IndexState, error) {
	switch name {
	case "ACTIVE", "":
		return model.StateActive, nil
	case "BUILDING":
		return model.StateBuilding, nil
	case "DISABLED":
		return model.StateDisabled, nil
	case "INACTIVE":
		return model.StateInactive, nil
	}
	return 0, errors.Errorf("unknown index state %q", name)
}

// Statement fixture format.

type queryFixture struct {
	Hint string `json:"hint"`
	From struct {
		Schema string `json:"schema"`
		Table  string `json:"table"`
		Alias  string `json:"alias"`
	} `json:"from"`
	Fields  []*fieldFixture `json:"fields"`
	Where   []*predFixture  `json:"where"`
	GroupBy []string        `json:"group_by"`
	OrderBy []*orderFixture `json:"order_by"`
}

type fieldFixture struct {
	WildCard bool   `json:"wildcard"`
	Column   string `json:"column"`
	As       string `json:"as"`
}

type predFixture struct {
	Column string `json:"column"`
	Op     string `json:"op"`
	Value  any    `json:"value"`
}

type orderFixture struct {
	Column string `json:"column"`
	Desc   bool   `json:"desc"`
}

func loadQuery(path string) (*ast.SelectStmt, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Trace(err)
	}
	var fixture queryFixture
	if err = json.Unmarshal(data, &fixture); err != nil {
		return nil, errors.Trace(err)
	}
	sel := &ast.SelectStmt{
		Hints: hint.ParseHintComment(fixture.Hint),
		From: &ast.TableRef{
			Table: &ast.TableName{Schema: fixture.From.Schema, Name: fixture.From.Table},
			Alias: fixture.From.Alias,
		},
	}
	for _, ff := range fixture.Fields {
		field := &ast.SelectField{WildCard: ff.WildCard, AsName: ff.As}
		if !ff.WildCard {
			field.Expr = &ast.ColumnName{Name: ff.Column}
		}
		sel.Fields = append(sel.Fields, field)
	}
	for _, pf := range fixture.Where {
		op, err := parseOp(pf.Op)
		if err != nil {
			return nil, errors.Trace(err)
		}
		sel.Where = append(sel.Where, &ast.ColumnPredicate{
			Column: &ast.ColumnName{Name: pf.Column},
			Op:     op,
			Value:  toDatum(pf.Value),
		})
	}
	if len(fixture.GroupBy) > 0 {
		sel.GroupBy = &ast.GroupByClause{}
		for _, name := range fixture.GroupBy {
			sel.GroupBy.Items = append(sel.GroupBy.Items, &ast.ByItem{Column: &ast.ColumnName{Name: name}})
		}
	}
	if len(fixture.OrderBy) > 0 {
		sel.OrderBy = &ast.OrderByClause{}
		for _, of := range fixture.OrderBy {
			sel.OrderBy.Items = append(sel.OrderBy.Items, &ast.ByItem{
				Column: &ast.ColumnName{Name: of.Column},
				Desc:   of.Desc,
			})
		}
	}
	return sel, nil
}

func parseOp(name string) (ast.Op, error) {
	switch name {
	case "=":
		return ast.OpEQ, nil
	case "<":
		return ast.OpLT, nil
	case "<=":
		return ast.OpLE, nil
	case ">":
		return ast.OpGT, nil
	case ">=":
		return ast.OpGE, nil
	}
	return 0, errors.Errorf("unknown operator %q", name)
}

func toDatum(value any) types.Datum {
	switch v := value.(type) {
	case float64:
		if v == float64(int64(v)) {
			return types.NewIntDatum(int64(v))
		}
		return types.NewFloat64Datum(v)
	case string:
		return types.NewStringDatum(v)
	}
	return types.Datum{}
}

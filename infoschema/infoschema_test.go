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
	"testing"

	"github.com/pingcap/errors"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/perchdb/perch/parser/model"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func TestMockInfoSchema(t *testing.T) {
	idx := &model.TableInfo{Schema: "app", Name: "IDX1", Type: model.TypeIndex}
	tbl := &model.TableInfo{Schema: "app", Name: "T", Indexes: []*model.TableInfo{idx}}
	is := MockInfoSchema([]*model.TableInfo{tbl})

	got, err := is.TableByName("app", "T")
	require.NoError(t, err)
	require.Same(t, tbl, got)

	// Index tables resolve by name too, so hinted recompilation can reach
	// them.
	got, err = is.TableByName("app", "IDX1")
	require.NoError(t, err)
	require.Same(t, idx, got)

	_, err = is.TableByName("app", "missing")
	require.Error(t, err)
	require.Equal(t, ErrTableNotExists, errors.Cause(err))

	_, err = is.TableByName("other", "T")
	require.Error(t, err)

	require.True(t, is.SchemaExists("app"))
	require.False(t, is.SchemaExists("other"))
	require.Equal(t, []string{"app"}, is.AllSchemaNames())
}

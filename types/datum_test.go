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

package types

import (
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func TestDatum(t *testing.T) {
	require.True(t, NewIntDatum(7).Equals(NewIntDatum(7)))
	require.False(t, NewIntDatum(7).Equals(NewIntDatum(8)))
	require.False(t, NewIntDatum(7).Equals(NewStringDatum("7")))
	require.True(t, MaxValueDatum().Equals(MaxValueDatum()))

	require.Equal(t, "7", NewIntDatum(7).String())
	require.Equal(t, "-inf", MinNotNullDatum().String())
	require.Equal(t, "+inf", MaxValueDatum().String())
	require.Equal(t, "NULL", Datum{}.String())
	require.Equal(t, int64(7), NewIntDatum(7).GetValue())
	require.Nil(t, MaxValueDatum().GetValue())
}

func TestFieldType(t *testing.T) {
	require.Equal(t, "bigint", NewFieldType(TypeLonglong).String())
	require.Equal(t, "varchar", NewFieldType(TypeVarchar).String())
	require.Equal(t, "unspecified", NewFieldType(TypeUnspecified).String())
	require.True(t, NewFieldType(TypeDouble).Equal(NewFieldType(TypeDouble)))
	require.False(t, NewFieldType(TypeDouble).Equal(NewFieldType(TypeVarchar)))
}

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

// Field type codes. The catalog stores one per column; plan compilation
// carries them through so that every candidate plan of a statement exposes
// identical output types.
const (
	TypeUnspecified byte = iota
	TypeLonglong
	TypeDouble
	TypeVarchar
	TypeTimestamp
)

// FieldType describes the value type of a column or of a projected
// expression.
type FieldType struct {
	Tp byte
}

// NewFieldType creates a FieldType with the given type code.
func NewFieldType(tp byte) *FieldType {
	return &FieldType{Tp: tp}
}

// Equal checks whether two field types are interchangeable.
func (ft *FieldType) Equal(other *FieldType) bool {
	return ft.Tp == other.Tp
}

// String implements fmt.Stringer interface.
func (ft *FieldType) String() string {
	switch ft.Tp {
	case TypeLonglong:
		return "bigint"
	case TypeDouble:
		return "double"
	case TypeVarchar:
		return "varchar"
	case TypeTimestamp:
		return "timestamp"
	}
	return "unspecified"
}

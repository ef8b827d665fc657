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
	"fmt"
)

// Datum kinds.
const (
	KindNull byte = iota
	KindInt64
	KindFloat64
	KindString
	// KindMinNotNull and KindMaxValue are the open bounds used by scan
	// ranges for key columns that are only constrained on one side.
	KindMinNotNull
	KindMaxValue
)

// Datum is a boxed value. Scan ranges use datums for their bounds and the
// normalized statement uses them for predicate constants.
type Datum struct {
	k byte
	i int64
	f float64
	s string
}

// NewIntDatum creates a Datum from an int64 value.
func NewIntDatum(i int64) Datum {
	return Datum{k: KindInt64, i: i}
}

// NewFloat64Datum creates a Datum from a float64 value.
func NewFloat64Datum(f float64) Datum {
	return Datum{k: KindFloat64, f: f}
}

// NewStringDatum creates a Datum from a string value.
func NewStringDatum(s string) Datum {
	return Datum{k: KindString, s: s}
}

// MinNotNullDatum returns the lowest non-null bound.
func MinNotNullDatum() Datum {
	return Datum{k: KindMinNotNull}
}

// MaxValueDatum returns the upper unbounded value.
func MaxValueDatum() Datum {
	return Datum{k: KindMaxValue}
}

// Kind returns the datum kind.
func (d Datum) Kind() byte {
	return d.k
}

// GetInt64 gets the int64 value.
func (d Datum) GetInt64() int64 {
	return d.i
}

// GetFloat64 gets the float64 value.
func (d Datum) GetFloat64() float64 {
	return d.f
}

// GetString gets the string value.
func (d Datum) GetString() string {
	return d.s
}

// GetValue returns the value as an empty interface.
func (d Datum) GetValue() any {
	switch d.k {
	case KindInt64:
		return d.i
	case KindFloat64:
		return d.f
	case KindString:
		return d.s
	}
	return nil
}

// Equals reports whether two datums hold the same kind and value.
func (d Datum) Equals(other Datum) bool {
	if d.k != other.k {
		return false
	}
	switch d.k {
	case KindInt64:
		return d.i == other.i
	case KindFloat64:
		return d.f == other.f
	case KindString:
		return d.s == other.s
	}
	return true
}

// String implements fmt.Stringer interface.
func (d Datum) String() string {
	switch d.k {
	case KindNull:
		return "NULL"
	case KindMinNotNull:
		return "-inf"
	case KindMaxValue:
		return "+inf"
	}
	return fmt.Sprintf("%v", d.GetValue())
}

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
	"github.com/pingcap/errors"
)

// error definitions.
var (
	// ErrColumnNotFound is raised during compilation when a referenced
	// column does not exist on the target table. The optimizer treats it as
	// "this index does not cover the query" rather than a failure.
	ErrColumnNotFound = errors.New("column not found")
	// ErrWrongNumberOfColumns is raised when the caller-supplied target
	// columns do not match the projection width.
	ErrWrongNumberOfColumns = errors.New("wrong number of target columns")
	// ErrMissingFrom is raised for a statement without a FROM table.
	ErrMissingFrom = errors.New("statement has no FROM table")
)

// IsColumnNotFound reports whether err is, or wraps, ErrColumnNotFound.
func IsColumnNotFound(err error) bool {
	return errors.Cause(err) == ErrColumnNotFound
}

// IsWrongNumberOfColumns reports whether err is, or wraps,
// ErrWrongNumberOfColumns.
func IsWrongNumberOfColumns(err error) bool {
	return errors.Cause(err) == ErrWrongNumberOfColumns
}

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

package hint

import (
	"strings"
)

// Directive names recognized in a hint comment.
const (
	// HintNoIndex disables index consideration for the statement.
	HintNoIndex = "NO_INDEX"
	// HintUseDataOverIndexTable flips the final data-vs-index tie break in
	// favor of the data table.
	HintUseDataOverIndexTable = "USE_DATA_OVER_INDEX_TABLE"
	// HintIndex names the indexes the statement prefers, scoped per table:
	// INDEX(t idx1 idx2).
	HintIndex = "INDEX"
)

// Tokens of the INDEX directive value. The scanner grammar depends on these
// exact literals; the directive text is user-authored SQL and must keep
// parsing the same way.
const (
	// Prefix opens a table scope.
	Prefix = "("
	// Separator splits the table identifier and the index names.
	Separator = " "
	// Suffix terminates a table scope.
	Suffix = ")"
)

// HintSet is the parsed hint directive set of one statement.
type HintSet struct {
	noIndex               bool
	useDataOverIndexTable bool
	indexHint             string
}

// HasNoIndex reports whether the NO_INDEX directive is present.
func (hs *HintSet) HasNoIndex() bool {
	return hs != nil && hs.noIndex
}

// HasUseDataOverIndexTable reports whether the USE_DATA_OVER_INDEX_TABLE
// directive is present.
func (hs *HintSet) HasUseDataOverIndexTable() bool {
	return hs != nil && hs.useDataOverIndexTable
}

// IndexHint returns the raw INDEX directive value, or "" when absent. When
// the directive is repeated the values are concatenated in order of
// occurrence.
func (hs *HintSet) IndexHint() string {
	if hs == nil {
		return ""
	}
	return hs.indexHint
}

// NewHintSet builds a HintSet directly. Mainly used by tests and fixtures
// that skip the comment syntax.
func NewHintSet(noIndex, useDataOverIndexTable bool, indexHint string) *HintSet {
	return &HintSet{
		noIndex:               noIndex,
		useDataOverIndexTable: useDataOverIndexTable,
		indexHint:             normalizeDirective(indexHint),
	}
}

// ParseHintComment parses the body of a /*+ ... */ hint comment into a
// HintSet. Unknown directives are ignored. The body is the text between the
// comment markers, e.g. `NO_INDEX INDEX(t idx1)`.
func ParseHintComment(body string) *HintSet {
	hs := &HintSet{}
	rest := body
	for {
		rest = strings.TrimLeft(rest, " \t\r\n,")
		if rest == "" {
			return hs
		}
		name := rest
		if i := strings.IndexAny(rest, " \t\r\n,("); i >= 0 {
			name = rest[:i]
			rest = rest[i:]
		} else {
			rest = ""
		}
		var value string
		if strings.HasPrefix(rest, Prefix) {
			end := strings.Index(rest, Suffix)
			if end < 0 {
				value = rest
				rest = ""
			} else {
				value = rest[:end+len(Suffix)]
				rest = rest[end+len(Suffix):]
			}
		}
		switch name {
		case HintNoIndex:
			hs.noIndex = true
		case HintUseDataOverIndexTable:
			hs.useDataOverIndexTable = true
		case HintIndex:
			hs.indexHint += normalizeDirective(value)
		}
	}
}

// normalizeDirective maps the comma form INDEX(t idx1,idx2) onto the
// separator form the scanner grammar is defined over.
func normalizeDirective(value string) string {
	return strings.ReplaceAll(value, ",", Separator)
}

// ExtractHintComment finds the first /*+ ... */ block in a statement text
// and returns its parsed HintSet together with the statement stripped of the
// comment. A statement without a hint block yields an empty HintSet.
func ExtractHintComment(sql string) (*HintSet, string) {
	start := strings.Index(sql, "/*+")
	if start < 0 {
		return &HintSet{}, sql
	}
	end := strings.Index(sql[start:], "*/")
	if end < 0 {
		return &HintSet{}, sql
	}
	end += start
	body := sql[start+len("/*+") : end]
	return ParseHintComment(body), sql[:start] + sql[end+len("*/"):]
}

// IndexHintScanner walks an INDEX directive value and yields the index
// names scoped to one table, left to right. The caller consumes names one
// at a time and may stop early once a name resolves to a usable plan.
//
// A scope is located by plain substring search for `(<tableID> `. Inside a
// scope each name runs up to the next separator or suffix, whichever comes
// first; when both sit at the same offset the suffix wins and closes the
// scope. A missing suffix makes the remainder of the text the final name.
type IndexHintScanner struct {
	directive string
	prefix    string
	pos       int
	inScope   bool
}

// NewIndexHintScanner creates a scanner over directive for the table known
// in the query as tableID (the alias if the table is aliased, the table
// name otherwise). Matching is exact; identifiers arrive already unquoted.
func NewIndexHintScanner(directive, tableID string) *IndexHintScanner {
	return &IndexHintScanner{
		directive: directive,
		prefix:    Prefix + tableID + Separator,
	}
}

// Next returns the next index name for the scanner's table. ok is false
// once the directive is exhausted.
func (s *IndexHintScanner) Next() (name string, ok bool) {
	for s.pos < len(s.directive) {
		if !s.inScope {
			i := strings.Index(s.directive[s.pos:], s.prefix)
			if i < 0 {
				s.pos = len(s.directive)
				return "", false
			}
			s.pos += i + len(s.prefix)
			s.inScope = true
		}
		for s.inScope && s.pos < len(s.directive) {
			sep := strings.Index(s.directive[s.pos:], Separator)
			suf := strings.Index(s.directive[s.pos:], Suffix)
			var end int
			switch {
			case sep < 0 && suf < 0:
				// Missing suffix: the rest of the text is the last name.
				end = len(s.directive)
				s.inScope = false
			case sep < 0:
				end = s.pos + suf
				s.inScope = false
			case suf < 0:
				end = s.pos + sep
			default:
				// Both found; the suffix wins a tie and closes the scope.
				end = s.pos + min(sep, suf)
				s.inScope = suf > sep
			}
			name = s.directive[s.pos:end]
			if end >= len(s.directive) {
				s.pos = len(s.directive)
			} else {
				s.pos = end + 1
			}
			if name != "" {
				return name, true
			}
		}
		s.inScope = false
	}
	return "", false
}

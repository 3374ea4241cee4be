// Copyright 2026 Ian Lewis
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package mdx

import (
	"regexp"
	"strconv"
	"strings"
)

// StyleMap maps stylesheet codes to markup fragments.
type StyleMap map[int]string

var styleCodeRegex = regexp.MustCompile("`([0-9]+)`")

// ParseStyleSheet parses a header stylesheet. The stylesheet is a list of
// lines where a line of digits starts a new code and every other line is
// appended to the current code's fragment. For each code this concatenates
// the opening and closing markup. Lines before the first code are ignored.
func ParseStyleSheet(s string) StyleMap {
	m := StyleMap{}
	code, ok := 0, false
	for _, line := range splitLines(s) {
		if isDigits(line) {
			n, err := strconv.Atoi(line)
			if err != nil {
				// Too large to be a code. Treat as a fragment.
				if ok {
					m[code] += line
				}
				continue
			}
			code, ok = n, true
			continue
		}
		if ok {
			m[code] += line
		}
	}
	return m
}

// Apply replaces every `N` code in s with its fragment. Unknown codes are
// left in place.
func (m StyleMap) Apply(s string) string {
	if len(m) == 0 {
		return s
	}
	return styleCodeRegex.ReplaceAllStringFunc(s, func(c string) string {
		n, err := strconv.Atoi(strings.Trim(c, "`"))
		if err != nil {
			return c
		}
		if f, ok := m[n]; ok {
			return f
		}
		return c
	})
}

// splitLines splits s on \n, \r\n and \r. A trailing line break does not
// produce an empty final line.
func splitLines(s string) []string {
	if s == "" {
		return nil
	}
	s = strings.ReplaceAll(s, "\r\n", "\n")
	s = strings.ReplaceAll(s, "\r", "\n")
	s = strings.TrimSuffix(s, "\n")
	return strings.Split(s, "\n")
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for i := range len(s) {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

var lineBreaks = strings.NewReplacer("\r", "", "\n", "")

// ReadAll reads the .mdx file at path and returns a mapping of headword to
// HTML definition. Stylesheet codes are substituted and line breaks are
// removed from every record.
//
// Entries are expected in the archive's stored order, which MDict sorts by
// headword. Entries that share a headword with the entry immediately before
// them are concatenated onto it. Duplicates that are not adjacent are not
// merged: the later entry replaces the earlier one.
func ReadAll(path string) (map[string]string, error) {
	a, err := Open(path)
	if err != nil {
		return nil, err
	}
	defer a.Close()

	styles := ParseStyleSheet(a.Header().StyleSheet())
	m := make(map[string]string, a.Len())

	// Relies on the sort order: only the previous headword is compared.
	prev, first := "", true
	err = a.Entries(func(e Entry) error {
		record := lineBreaks.Replace(styles.Apply(e.Record))
		if !first && e.Headword == prev {
			m[e.Headword] += record
		} else {
			m[e.Headword] = record
		}
		prev, first = e.Headword, false
		return nil
	})
	if err != nil {
		return nil, err
	}
	return m, nil
}

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

// Package format defines the dictionary source kinds understood by
// dictimport and the errors returned when reading them.
package format

import (
	"fmt"
	"strings"
)

// Kind is the kind of a dictionary source.
type Kind int

const (
	// Unknown is the zero Kind. It is used in errors raised before a
	// source has been classified.
	Unknown Kind = iota

	// JSON is a JSON object mapping headwords to definitions.
	JSON

	// Frequency is a JSON array of words ordered by frequency.
	Frequency

	// Records is a JSON array of objects with "term" and "definition"
	// keys (Migaku style).
	Records

	// Stardict is a Stardict dictionary (.ifo, .idx and .dict files).
	Stardict

	// MDX is a MDict .mdx archive.
	MDX

	// Audio is a directory tree of audio files named after headwords.
	Audio
)

var kindNames = map[Kind]string{
	Unknown:   "unknown",
	JSON:      "json",
	Frequency: "freq",
	Records:   "migaku",
	Stardict:  "stardict",
	MDX:       "mdx",
	Audio:     "audiolib",
}

// String returns the stable name of the kind.
func (k Kind) String() string {
	if n, ok := kindNames[k]; ok {
		return n
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// ParseKind returns the Kind with the given name.
func ParseKind(name string) (Kind, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	for k, n := range kindNames {
		if k != Unknown && n == name {
			return k, nil
		}
	}
	return Unknown, fmt.Errorf("%w: %q", ErrUnsupportedFormat, name)
}

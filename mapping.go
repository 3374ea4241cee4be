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

package dictimport

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/ianlewis/go-dictimport/format"
)

// Entry is a request to import a single source.
type Entry struct {
	// Path is the path to the source.
	Path string

	// Kind is the kind of the source. See Detect.
	Kind format.Kind

	// Language is the language the dictionary is stored under.
	Language string

	// Name is the name the dictionary is stored under.
	Name string
}

// Mapping is the normalized contents of a source. Exactly one of
// Definitions, Ranks or Audio is set depending on Kind.
type Mapping struct {
	Kind format.Kind

	// Definitions maps headwords to HTML or plain text definitions. It is
	// set for JSON, Records, Stardict and MDX sources.
	Definitions map[string]string

	// Ranks maps words to their 1-based frequency rank. It is set for
	// Frequency sources.
	Ranks map[string]int

	// Audio maps lowercased headwords to file paths relative to the audio
	// library root. It is set for Audio sources.
	Audio map[string][]string
}

// Len returns the number of headwords in the mapping.
func (m *Mapping) Len() int {
	switch m.Kind {
	case format.Frequency:
		return len(m.Ranks)
	case format.Audio:
		return len(m.Audio)
	case format.Unknown, format.JSON, format.Records, format.Stardict, format.MDX:
	}
	return len(m.Definitions)
}

// Values returns the mapping with every value rendered as a string. Ranks
// are decimal numbers and audio paths are a JSON array.
func (m *Mapping) Values() (map[string]string, error) {
	switch m.Kind {
	case format.Frequency:
		v := make(map[string]string, len(m.Ranks))
		for w, r := range m.Ranks {
			v[w] = strconv.Itoa(r)
		}
		return v, nil
	case format.Audio:
		v := make(map[string]string, len(m.Audio))
		for w, paths := range m.Audio {
			b, err := json.Marshal(paths)
			if err != nil {
				return nil, fmt.Errorf("encoding audio paths for %q: %w", w, err)
			}
			v[w] = string(b)
		}
		return v, nil
	case format.Unknown, format.JSON, format.Records, format.Stardict, format.MDX:
	}
	return m.Definitions, nil
}

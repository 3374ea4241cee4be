// Copyright 2021 Google LLC
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

// Package ifo implements reading .ifo files.
//
// The .ifo file is a text file. The first line is a magic string and every
// following non-empty line is a key=value pair. The first pair must be the
// version.
package ifo

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"regexp"
	"strings"
)

var (
	errMissingVersion = errors.New("missing version")
	errInvalidKey     = errors.New("invalid key")
	errInvalidLine    = errors.New("invalid line")
	errEmpty          = errors.New("empty ifo file")
)

var keyRegex = regexp.MustCompile("^[a-zA-Z0-9-_]+$")

// Ifo is the dictionary metadata read from an .ifo file.
type Ifo struct {
	magic    string
	metadata map[string]string
}

// New reads the .ifo data from r.
func New(r io.Reader) (*Ifo, error) {
	s := bufio.NewScanner(r)
	if !s.Scan() {
		if err := s.Err(); err != nil {
			return nil, fmt.Errorf("reading magic: %w", err)
		}
		return nil, errEmpty
	}

	i := &Ifo{
		// NOTE: Some dictionaries are saved with a byte order mark.
		magic:    strings.TrimSpace(strings.TrimPrefix(s.Text(), "\ufeff")),
		metadata: map[string]string{},
	}

	n := 0
	for s.Scan() {
		line := strings.TrimRight(s.Text(), "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}
		key, value, ok := strings.Cut(line, "=")
		if !ok {
			return nil, fmt.Errorf("%w: %q", errInvalidLine, line)
		}
		key = strings.TrimSpace(key)
		value = strings.TrimSpace(value)
		if !keyRegex.MatchString(key) {
			return nil, fmt.Errorf("%w: %q", errInvalidKey, key)
		}
		if n == 0 && key != "version" {
			return nil, errMissingVersion
		}

		i.metadata[key] = value
		n++
	}
	if err := s.Err(); err != nil {
		return nil, fmt.Errorf("reading metadata: %w", err)
	}
	if n == 0 {
		return nil, errMissingVersion
	}

	return i, nil
}

// Magic returns the magic string on the first line of the file.
func (i *Ifo) Magic() string {
	return i.magic
}

// Value returns the value for the given key or the empty string.
func (i *Ifo) Value(key string) string {
	return i.metadata[key]
}

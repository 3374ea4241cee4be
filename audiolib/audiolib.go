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

// Package audiolib indexes a directory tree of pronunciation recordings by
// headword.
package audiolib

import (
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/ianlewis/go-dictimport/format"
)

// Scan walks root recursively and returns a mapping of headword to the paths
// of its files relative to root. The headword of a file is its lowercased
// name without the extension, so cat.mp3 and Cat.wav both belong to "cat".
// Only regular files are indexed.
//
// Paths for a headword are in traversal order. filepath.WalkDir visits
// entries in lexical order, but callers should not rely on the order of
// files sharing a headword.
func Scan(root string) (map[string][]string, error) {
	root = filepath.Clean(root)

	fi, err := os.Stat(root)
	if err != nil {
		return nil, format.IO(format.Audio, root, err)
	}
	if !fi.IsDir() {
		return nil, format.Unsupported(format.Audio, root, "not a directory")
	}

	m := map[string][]string{}
	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if !d.Type().IsRegular() {
			return nil
		}

		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		w := Headword(d.Name())
		m[w] = append(m[w], rel)
		return nil
	})
	if err != nil {
		return nil, format.IO(format.Audio, root, err)
	}
	return m, nil
}

// Headword returns the headword for the file name. Leading dots are part of
// the name, not an extension.
func Headword(name string) string {
	ext := filepath.Ext(strings.TrimLeft(name, "."))
	return strings.ToLower(strings.TrimSuffix(name, ext))
}

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
	"os"
	"path/filepath"
	"strings"

	"github.com/ianlewis/go-dictimport/format"
	"github.com/ianlewis/go-dictimport/jsondict"
)

// Source is a classified dictionary source.
type Source struct {
	// Path is the path to the source file or directory.
	Path string

	// Kind is the kind of the source.
	Kind format.Kind

	// Basename is the file name without its extension, or the directory
	// name for audio libraries.
	Basename string
}

// Entry returns an import request for the source.
func (s *Source) Entry(language, name string) Entry {
	return Entry{
		Path:     s.Path,
		Kind:     s.Kind,
		Language: language,
		Name:     name,
	}
}

// Detect classifies the source at path. Directories are audio libraries.
// Files are classified by extension, ignoring case, and JSON files by the
// shape of their content. Detect does not modify the source.
func Detect(path string) (*Source, error) {
	fi, err := os.Stat(path)
	if err != nil {
		return nil, format.IO(format.Unknown, path, err)
	}

	base := filepath.Base(filepath.Clean(path))
	if fi.IsDir() {
		return &Source{
			Path:     path,
			Kind:     format.Audio,
			Basename: base,
		}, nil
	}

	ext := filepath.Ext(base)
	src := &Source{
		Path:     path,
		Basename: strings.TrimSuffix(base, ext),
	}
	switch strings.ToLower(ext) {
	case ".ifo":
		src.Kind = format.Stardict
	case ".mdx":
		src.Kind = format.MDX
	case ".json":
		src.Kind, err = jsondict.Sniff(path)
		if err != nil {
			//nolint:wrapcheck // already a *format.Error
			return nil, err
		}
	default:
		return nil, format.Unsupported(format.Unknown, path, "unknown extension %q", ext)
	}
	return src, nil
}

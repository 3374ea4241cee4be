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
	"context"
	"errors"
	"fmt"

	"github.com/ianlewis/go-dictimport/audiolib"
	"github.com/ianlewis/go-dictimport/format"
	"github.com/ianlewis/go-dictimport/jsondict"
	"github.com/ianlewis/go-dictimport/mdx"
	"github.com/ianlewis/go-dictimport/stardict"
)

// ErrInvalidEntry indicates an import request without a name or language.
var ErrInvalidEntry = errors.New("invalid entry")

// Importer reads sources and hands them to a Store.
type Importer struct {
	store Store
}

// NewImporter returns an Importer that writes to store.
func NewImporter(store Store) *Importer {
	return &Importer{
		store: store,
	}
}

// Read parses the source described by e. The whole source is read into
// memory. Errors are returned as they are returned by the parser.
func (i *Importer) Read(e Entry) (*Mapping, error) {
	m := &Mapping{Kind: e.Kind}
	var err error
	switch e.Kind {
	case format.JSON:
		m.Definitions, err = jsondict.ReadPlain(e.Path)
	case format.Records:
		m.Definitions, err = jsondict.ReadRecords(e.Path)
	case format.Frequency:
		m.Ranks, err = jsondict.ReadFrequency(e.Path)
	case format.Stardict:
		m.Definitions, err = stardict.ReadAll(e.Path)
	case format.MDX:
		m.Definitions, err = mdx.ReadAll(e.Path)
	case format.Audio:
		m.Audio, err = audiolib.Scan(e.Path)
	default:
		return nil, format.Unsupported(e.Kind, e.Path, "unknown kind")
	}
	if err != nil {
		//nolint:wrapcheck // parser errors are returned unchanged.
		return nil, err
	}
	return m, nil
}

// Import reads the source described by e and stores it with a single call
// to the Store's BulkInsert. The Store is not called if reading fails.
func (i *Importer) Import(ctx context.Context, e Entry) error {
	if e.Name == "" {
		return fmt.Errorf("%w: missing name", ErrInvalidEntry)
	}
	if e.Language == "" {
		return fmt.Errorf("%w: missing language", ErrInvalidEntry)
	}

	m, err := i.Read(e)
	if err != nil {
		return err
	}

	if err := i.store.BulkInsert(ctx, m, e.Language, e.Name); err != nil {
		return fmt.Errorf("storing dictionary %q: %w", e.Name, err)
	}
	return nil
}

// Delete removes the dictionary with the given name from the Store.
func (i *Importer) Delete(ctx context.Context, name string) error {
	if name == "" {
		return fmt.Errorf("%w: missing name", ErrInvalidEntry)
	}
	if err := i.store.DeleteDictionary(ctx, name); err != nil {
		return fmt.Errorf("deleting dictionary %q: %w", name, err)
	}
	return nil
}

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

// Package memstore is an in-memory dictimport.Store. Headwords are indexed
// by their folded form so lookups ignore case, accents, punctuation and
// spacing.
package memstore

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"sync"

	"github.com/ianlewis/go-dictimport"
	"github.com/ianlewis/go-dictimport/format"
	"github.com/ianlewis/go-dictimport/internal/folding"
	"github.com/ianlewis/go-dictimport/internal/index"
)

// Record is a stored headword and its value.
type Record struct {
	Headword string
	Value    string

	folded string
}

// String returns the folded headword.
func (r *Record) String() string {
	return r.folded
}

// Dictionary is a stored dictionary.
type Dictionary struct {
	Name     string
	Language string
	Kind     format.Kind

	index *index.Index[*Record]
}

// Len returns the number of headwords in the dictionary.
func (d *Dictionary) Len() int {
	return d.index.Len()
}

// Records returns the records ordered by folded headword.
func (d *Dictionary) Records() []*Record {
	return d.index.All()
}

// Lookup returns the records whose folded headword matches the folded
// query.
func (d *Dictionary) Lookup(query string) ([]*Record, error) {
	q, err := folding.String(query)
	if err != nil {
		return nil, err
	}
	return d.index.Search(q), nil
}

// Store holds dictionaries in memory. It is safe for concurrent use.
type Store struct {
	logger *slog.Logger

	mu    sync.RWMutex
	dicts map[string]*Dictionary
}

var _ dictimport.Store = (*Store)(nil)

// New returns an empty Store. If logger is nil slog.Default is used.
func New(logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{
		logger: logger.With("component", "memstore"),
		dicts:  map[string]*Dictionary{},
	}
}

// BulkInsert implements dictimport.Store.BulkInsert. A dictionary already
// stored under name is replaced.
func (s *Store) BulkInsert(ctx context.Context, m *dictimport.Mapping, language, name string) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("inserting %q: %w", name, err)
	}

	values, err := m.Values()
	if err != nil {
		return fmt.Errorf("inserting %q: %w", name, err)
	}
	records := make([]*Record, 0, len(values))
	for w, v := range values {
		folded, err := folding.String(w)
		if err != nil {
			return fmt.Errorf("inserting %q: %w", name, err)
		}
		records = append(records, &Record{
			Headword: w,
			Value:    v,
			folded:   folded,
		})
	}
	// Map iteration order is random. Sort first so that equal folded
	// headwords are always in the same order.
	slices.SortFunc(records, func(a, b *Record) int {
		return strings.Compare(a.Headword, b.Headword)
	})

	d := &Dictionary{
		Name:     name,
		Language: language,
		Kind:     m.Kind,
		index:    index.New(records, strings.Compare),
	}

	s.mu.Lock()
	_, replaced := s.dicts[name]
	s.dicts[name] = d
	s.mu.Unlock()

	s.logger.DebugContext(ctx, "stored dictionary",
		"name", name,
		"language", language,
		"kind", m.Kind.String(),
		"headwords", d.Len(),
		"replaced", replaced,
	)
	return nil
}

// DeleteDictionary implements dictimport.Store.DeleteDictionary.
func (s *Store) DeleteDictionary(ctx context.Context, name string) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("deleting %q: %w", name, err)
	}

	s.mu.Lock()
	_, ok := s.dicts[name]
	delete(s.dicts, name)
	s.mu.Unlock()

	s.logger.DebugContext(ctx, "deleted dictionary", "name", name, "found", ok)
	return nil
}

// Dictionary returns the dictionary stored under name.
func (s *Store) Dictionary(name string) (*Dictionary, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	d, ok := s.dicts[name]
	return d, ok
}

// Dictionaries returns all stored dictionaries ordered by name.
func (s *Store) Dictionaries() []*Dictionary {
	s.mu.RLock()
	defer s.mu.RUnlock()

	dicts := make([]*Dictionary, 0, len(s.dicts))
	for _, d := range s.dicts {
		dicts = append(dicts, d)
	}
	slices.SortFunc(dicts, func(a, b *Dictionary) int {
		return strings.Compare(a.Name, b.Name)
	})
	return dicts
}

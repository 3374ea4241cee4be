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

// Package jsondict reads the JSON dictionary variants: a plain object of
// headword to definition, a list of {"term", "definition"} records and a
// frequency list of words ordered by rank.
package jsondict

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"os"

	"github.com/ianlewis/go-dictimport/format"
)

// Sniff classifies the JSON document at path by its top-level shape. An
// object is format.JSON, an array starting with a string is
// format.Frequency and an array starting with an object is format.Records.
// Malformed JSON and empty arrays are corrupt. Any other shape is
// unsupported.
func Sniff(path string) (format.Kind, error) {
	b, err := readFile(format.Unknown, path)
	if err != nil {
		return format.Unknown, err
	}
	if !json.Valid(b) {
		return format.Unknown, format.Corrupt(format.Unknown, path, "malformed JSON")
	}

	k, err := sniff(b)
	if err != nil {
		if errors.Is(err, errEmpty) {
			return format.Unknown, format.Corrupt(format.Unknown, path, "%v", err)
		}
		return format.Unknown, format.Unsupported(format.Unknown, path, "%v", err)
	}
	return k, nil
}

var (
	errEmpty = errors.New("empty array")
	errShape = errors.New("unsupported JSON shape")
)

// sniff inspects the first tokens of a valid document.
func sniff(b []byte) (format.Kind, error) {
	dec := json.NewDecoder(bytes.NewReader(b))
	tok, err := dec.Token()
	if err != nil {
		return format.Unknown, err
	}
	switch tok {
	case json.Delim('{'):
		return format.JSON, nil
	case json.Delim('['):
	default:
		return format.Unknown, errShape
	}

	tok, err = dec.Token()
	if err != nil {
		return format.Unknown, err
	}
	switch tok.(type) {
	case string:
		return format.Frequency, nil
	case json.Delim:
		switch tok {
		case json.Delim('{'):
			return format.Records, nil
		case json.Delim(']'):
			return format.Unknown, errEmpty
		}
	}
	return format.Unknown, errShape
}

// ReadPlain reads an object of headword to definition. Every value must be a
// string.
func ReadPlain(path string) (map[string]string, error) {
	var m map[string]string
	if err := decodeFile(format.JSON, path, &m); err != nil {
		return nil, err
	}
	if m == nil {
		return nil, format.Corrupt(format.JSON, path, "expected an object")
	}
	return m, nil
}

type record struct {
	Term       *string `json:"term"`
	Definition *string `json:"definition"`
}

// ReadRecords reads a list of {"term", "definition"} objects into a mapping
// of term to definition. Later records for a term overwrite earlier ones.
func ReadRecords(path string) (map[string]string, error) {
	var records []*record
	if err := decodeFile(format.Records, path, &records); err != nil {
		return nil, err
	}
	if records == nil {
		return nil, format.Corrupt(format.Records, path, "expected an array")
	}

	m := make(map[string]string, len(records))
	for i, r := range records {
		switch {
		case r == nil:
			return nil, format.Corrupt(format.Records, path, "record %d: null record", i)
		case r.Term == nil:
			return nil, format.Corrupt(format.Records, path, "record %d: missing term", i)
		case r.Definition == nil:
			return nil, format.Corrupt(format.Records, path, "record %d: missing definition", i)
		}
		m[*r.Term] = *r.Definition
	}
	return m, nil
}

// ReadFrequency reads a list of words into a mapping of word to its 1-based
// rank. A repeated word is ranked at its last occurrence and earlier
// occurrences do not take up a rank, so ["a", "b", "a"] ranks b first and a
// second.
func ReadFrequency(path string) (map[string]int, error) {
	var words []*string
	if err := decodeFile(format.Frequency, path, &words); err != nil {
		return nil, err
	}
	if words == nil {
		return nil, format.Corrupt(format.Frequency, path, "expected an array")
	}

	last := make(map[string]int, len(words))
	for i, w := range words {
		if w == nil {
			return nil, format.Corrupt(format.Frequency, path, "word %d: null word", i)
		}
		last[*w] = i
	}

	m := make(map[string]int, len(last))
	rank := 0
	for i, w := range words {
		if last[*w] != i {
			continue
		}
		rank++
		m[*w] = rank
	}
	return m, nil
}

// decodeFile decodes the single JSON document at path into v.
func decodeFile(k format.Kind, path string, v any) error {
	b, err := readFile(k, path)
	if err != nil {
		return err
	}

	dec := json.NewDecoder(bytes.NewReader(b))
	if err := dec.Decode(v); err != nil {
		return format.Corrupt(k, path, "decoding JSON: %v", err)
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return format.Corrupt(k, path, "trailing data after JSON document")
	}
	return nil
}

func readFile(k format.Kind, path string) ([]byte, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, format.IO(k, path, err)
	}
	return b, nil
}

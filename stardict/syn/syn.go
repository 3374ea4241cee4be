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

// Package syn implements reading .syn files.
//
// The optional .syn file lists synonyms for the words in the .idx file. Each
// entry comes in two parts:
//  1. The synonym: a utf-8 string terminated by a null terminator ('\0').
//  2. The original word index: a 32 bit integer index of the word in the
//     .idx file in network byte order.
package syn

import (
	"bufio"
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/klauspost/compress/gzip"
)

var (
	// ErrNotFound indicates that no .syn file exists next to the .ifo file.
	ErrNotFound = errors.New("syn file not found")

	// ErrTruncated indicates that the file ends in the middle of an entry.
	ErrTruncated = errors.New("truncated synonym entry")
)

// maxWordSize is the largest entry the scanner will buffer.
const maxWordSize = 64 * 1024

// Word is a .syn file entry.
type Word struct {
	// Word is the synonym.
	Word string

	// OriginalWordIndex is the index of the word in the .idx file.
	OriginalWordIndex uint32
}

// Scanner scans a synonym file from start to end.
type Scanner struct {
	r io.ReadCloser
	s *bufio.Scanner
}

// NewScanner returns a new Scanner. The Scanner assumes ownership of the
// reader and should be closed with the Close method.
func NewScanner(r io.ReadCloser) *Scanner {
	s := &Scanner{
		r: r,
		s: bufio.NewScanner(bufio.NewReader(r)),
	}
	s.s.Buffer(make([]byte, 0, 4096), maxWordSize)
	s.s.Split(splitEntry)
	return s
}

// Scan advances to the next entry. It returns false if the scan stops
// either by reaching the end of the file or an error.
func (s *Scanner) Scan() bool {
	return s.s.Scan()
}

// Err returns the first error encountered.
func (s *Scanner) Err() error {
	//nolint:wrapcheck // error should not be wrapped
	return s.s.Err()
}

// Close closes the underlying reader.
func (s *Scanner) Close() error {
	if err := s.r.Close(); err != nil {
		return fmt.Errorf("closing syn file: %w", err)
	}
	return nil
}

// Word returns the current entry.
func (s *Scanner) Word() *Word {
	var w Word
	b := s.s.Bytes()
	if i := bytes.IndexByte(b, 0); i >= 0 {
		w.Word = string(b[:i])
		w.OriginalWordIndex = binary.BigEndian.Uint32(b[i+1:])
	}
	return &w
}

func splitEntry(data []byte, atEOF bool) (advance int, token []byte, err error) {
	if atEOF && len(data) == 0 {
		return 0, nil, nil
	}
	if i := bytes.IndexByte(data, 0); i >= 0 {
		// The zero byte is followed by the 4 byte word index.
		size := i + 5
		if len(data) >= size {
			return size, data[:size], nil
		}
	}
	if atEOF {
		return 0, nil, fmt.Errorf("%w: %d trailing bytes", ErrTruncated, len(data))
	}
	return 0, nil, nil
}

// ReadAll reads every entry from r in file order and closes it.
func ReadAll(r io.ReadCloser) ([]*Word, error) {
	s := NewScanner(r)
	defer s.Close()

	var words []*Word
	for s.Scan() {
		words = append(words, s.Word())
	}
	if err := s.Err(); err != nil {
		return nil, fmt.Errorf("scanning synonyms: %w", err)
	}
	return words, nil
}

// ReadFromIfoPath reads the .syn file next to the given .ifo file.
func ReadFromIfoPath(ifoPath string) ([]*Word, error) {
	r, err := Open(ifoPath)
	if err != nil {
		return nil, err
	}
	return ReadAll(r)
}

// Open opens the .syn file given the path to the .ifo file. Gzip compressed
// files are decompressed transparently.
func Open(ifoPath string) (io.ReadCloser, error) {
	baseName := strings.TrimSuffix(ifoPath, filepath.Ext(ifoPath))

	synExts := []string{
		".syn",
		".syn.gz",
		".syn.dz",
		".SYN",
		".SYN.GZ",
		".SYN.DZ",
	}
	var f *os.File
	var err error
	for _, ext := range synExts {
		f, err = os.Open(baseName + ext)
		if err == nil {
			break
		}
		if !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("opening .syn file: %w", err)
		}
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, baseName)
	}

	// dictzip files are valid gzip streams.
	switch strings.ToLower(filepath.Ext(f.Name())) {
	case ".gz", ".dz":
	default:
		return f, nil
	}

	z, err := gzip.NewReader(f)
	if err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("creating .syn gzip reader: %w", err)
	}
	return &gzipFile{Reader: z, f: f}, nil
}

type gzipFile struct {
	*gzip.Reader
	f *os.File
}

func (g *gzipFile) Close() error {
	zErr := g.Reader.Close()
	if err := g.f.Close(); err != nil {
		return fmt.Errorf("closing .syn file: %w", err)
	}
	if zErr != nil {
		return fmt.Errorf("closing .syn gzip reader: %w", zErr)
	}
	return nil
}

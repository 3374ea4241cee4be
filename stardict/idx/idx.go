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

package idx

import (
	"bufio"
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
	// ErrNotFound indicates that no .idx file exists next to the .ifo file.
	ErrNotFound = errors.New("idx file not found")

	// ErrInvalidIdxOffset indicates that the OffsetBits is an invalid value.
	ErrInvalidIdxOffset = errors.New("invalid idxoffsetbits")

	// ErrTruncated indicates that the index ends in the middle of an entry.
	ErrTruncated = errors.New("truncated index entry")
)

// Word is an .idx file entry.
type Word struct {
	Word   string
	Offset uint64
	Size   uint32
}

// Options are options for reading an .idx file.
type Options struct {
	// OffsetBits are the number of bits in the offset fields. Valid values for
	// OffsetBits are either 32 or 64.
	OffsetBits int
}

// DefaultOptions is the default options for an Idx.
var DefaultOptions = &Options{
	OffsetBits: 32,
}

// Idx is the full contents of an .idx file in file order.
type Idx struct {
	words []*Word

	// size is the uncompressed size of the index data.
	size int64
}

// New reads the whole index from r and closes it.
func New(r io.ReadCloser, options *Options) (*Idx, error) {
	defer r.Close()

	if options == nil {
		options = DefaultOptions
	}
	bits := options.OffsetBits
	if bits != 32 && bits != 64 {
		return nil, fmt.Errorf("%w: %v", ErrInvalidIdxOffset, bits)
	}

	// Each title is followed by the offset and a 32 bit size.
	tail := make([]byte, bits/8+4)
	br := bufio.NewReader(r)
	idx := &Idx{}
	for {
		title, err := br.ReadBytes(0)
		if errors.Is(err, io.EOF) {
			if len(title) > 0 {
				return nil, fmt.Errorf("%w: %d trailing bytes", ErrTruncated, len(title))
			}
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading index: %w", err)
		}
		title = title[:len(title)-1]

		if n, err := io.ReadFull(br, tail); err != nil {
			if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
				return nil, fmt.Errorf("%w: %q has %d of %d bytes", ErrTruncated, title, n, len(tail))
			}
			return nil, fmt.Errorf("reading index: %w", err)
		}

		w := &Word{
			Word: string(title),
			Size: binary.BigEndian.Uint32(tail[bits/8:]),
		}
		if bits == 64 {
			w.Offset = binary.BigEndian.Uint64(tail)
		} else {
			w.Offset = uint64(binary.BigEndian.Uint32(tail))
		}
		idx.words = append(idx.words, w)
		idx.size += int64(len(title) + 1 + len(tail))
	}

	return idx, nil
}

// NewFromIfoPath reads the .idx file next to the given .ifo file.
func NewFromIfoPath(ifoPath string, options *Options) (*Idx, error) {
	r, err := Open(ifoPath)
	if err != nil {
		return nil, err
	}
	return New(r, options)
}

// Words returns the index entries in file order.
func (idx *Idx) Words() []*Word {
	return idx.words
}

// Size returns the uncompressed size of the index in bytes.
func (idx *Idx) Size() int64 {
	return idx.size
}

// Open opens the .idx file given the path to the .ifo file. Gzip compressed
// indexes are decompressed transparently.
func Open(ifoPath string) (io.ReadCloser, error) {
	baseName := strings.TrimSuffix(ifoPath, filepath.Ext(ifoPath))

	idxExts := []string{".idx", ".idx.gz", ".IDX", ".IDX.gz", ".IDX.GZ"}
	var f *os.File
	var err error
	for _, ext := range idxExts {
		f, err = os.Open(baseName + ext)
		if err == nil {
			break
		}
		if !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("opening .idx file: %w", err)
		}
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, baseName)
	}

	if strings.ToLower(filepath.Ext(f.Name())) != ".gz" {
		return f, nil
	}

	z, err := gzip.NewReader(f)
	if err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("creating .idx gzip reader: %w", err)
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
		return fmt.Errorf("closing .idx file: %w", err)
	}
	if zErr != nil {
		return fmt.Errorf("closing .idx gzip reader: %w", zErr)
	}
	return nil
}

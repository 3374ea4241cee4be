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

// Package dict implements reading .dict files.
package dict

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strings"

	"github.com/ianlewis/go-dictzip"

	"github.com/ianlewis/go-dictimport/stardict/idx"
)

var (
	errInvalidType        = errors.New("invalid type")
	errWordOffsetTooLarge = errors.New("word offset too large")

	// ErrInvalidData indicates that a word's data does not match its
	// declared layout.
	ErrInvalidData = errors.New("invalid word data")

	// ErrNotFound indicates that no .dict file exists next to the .ifo file.
	ErrNotFound = errors.New("dict file not found")
)

// Dict represents a Stardict dictionary's dictionary data.
type Dict struct {
	r                io.ReaderAt
	closers          []io.Closer
	sametypesequence []DataType
}

// Word is a full dictionary entry.
type Word struct {
	Data []*Data
}

// DataType is a type of data in a word. Data types are specified by a single
// byte at the beginning of a word. Lower case characters represent string-like
// data that is terminated by a null terminator ('\0'). Upper case characters
// represent file-like data that starts with a 32-bit size followed by file
// data.
type DataType byte

const (
	// UTFTextType is utf-8 text.
	UTFTextType = DataType('m')

	// LocaleTextType is text in a locale encoding.
	LocaleTextType = DataType('l')

	// PangoTextType is utf-8 text in the Pango text format.
	PangoTextType = DataType('g')

	// PhoneticType is utf-8 text representing an English phonetic string.
	PhoneticType = DataType('t')

	// XDXFType is utf-8 encoded xml in XDXF format.
	XDXFType = DataType('x')

	// YinBiaoOrKataType is utf-8 encoded Yin Biao or Kana phonetic string.
	YinBiaoOrKataType = DataType('y')

	// PowerWordType is a utf-8 encoded KingSoft PowerWord XML format.
	PowerWordType = DataType('p')

	// MediaWikiType is utf-8 encoded text in MediaWiki format.
	MediaWikiType = DataType('w')

	// HTMLType is utf-8 encoded HTML text.
	HTMLType = DataType('h')

	// WordNetType is WordNet data.
	WordNetType = DataType('n')

	// ResourceFileListType is a list of files in resource storage.
	ResourceFileListType = DataType('r')

	// WavType is .wav sound file data.
	WavType = DataType('W')

	// PictureType is image file data. This was used by the
	// stardict-advertisement-plugin. Images are better stored in a resource
	// file list.
	PictureType = DataType('P')

	// ExperimentalType is reserved for experimental features.
	ExperimentalType = DataType('X')
)

// IsText returns true if the data type is string-like.
func (t DataType) IsText() bool {
	return 'a' <= t && t <= 'z'
}

// Data is a data entry in a Word.
type Data struct {
	Type DataType
	Data []byte
}

// Options are options for reading a .dict file.
type Options struct {
	// SameTypeSequence is the value of the .ifo sametypesequence option.
	SameTypeSequence []DataType
}

// New returns a new Dict from the given reader. If r is an io.Closer, Dict
// takes ownership of it and it is closed by the Dict's Close method.
func New(r io.ReaderAt, options *Options) (*Dict, error) {
	if options == nil {
		options = &Options{}
	}

	// verify sametypesequence
	for _, s := range options.SameTypeSequence {
		switch s {
		case UTFTextType,
			LocaleTextType,
			PangoTextType,
			PhoneticType,
			XDXFType,
			YinBiaoOrKataType,
			PowerWordType,
			MediaWikiType,
			HTMLType,
			WordNetType,
			ResourceFileListType,
			WavType,
			PictureType,
			ExperimentalType:
		default:
			return nil, fmt.Errorf("%w: %q", errInvalidType, s)
		}
	}

	d := &Dict{
		r:                r,
		sametypesequence: options.SameTypeSequence,
	}
	if c, ok := r.(io.Closer); ok {
		d.closers = append(d.closers, c)
	}
	return d, nil
}

// NewFromIfoPath opens the .dict file next to the given .ifo file. Files
// compressed with dictzip (.dict.dz) are read with random access.
func NewFromIfoPath(ifoPath string, options *Options) (*Dict, error) {
	f, err := Open(ifoPath)
	if err != nil {
		return nil, err
	}

	if strings.ToLower(filepath.Ext(f.Name())) != ".dz" {
		return New(f, options)
	}

	z, err := dictzip.NewReader(f)
	if err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("creating dictzip reader: %w", err)
	}
	// The dictzip reader does not own f so it is tracked separately.
	d, err := New(readerAt{z}, options)
	if err != nil {
		_ = f.Close()
		return nil, err
	}
	d.closers = append(d.closers, f)
	return d, nil
}

// Open opens the .dict file given the path to the .ifo file.
func Open(ifoPath string) (*os.File, error) {
	baseName := strings.TrimSuffix(ifoPath, filepath.Ext(ifoPath))

	dictExts := []string{".dict", ".dict.dz", ".DICT", ".DICT.dz", ".DICT.DZ"}
	var f *os.File
	var err error
	for _, ext := range dictExts {
		f, err = os.Open(baseName + ext)
		if err == nil {
			break
		}
		if !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("opening .dict file: %w", err)
		}
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, baseName)
	}
	return f, nil
}

// Close closes the underlying readers.
func (d *Dict) Close() error {
	var errs []error
	for _, c := range d.closers {
		if err := c.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("closing dict: %w", err)
	}
	return nil
}

// Word retrieves the word for the given index entry from the
// dictionary.
func (d *Dict) Word(e *idx.Word) (*Word, error) {
	// TODO(#9): Support dictionary word offsets math.MaxInt64 > x < math.MaxUint64
	if e.Offset > math.MaxInt64 {
		return nil, fmt.Errorf("%w: %d", errWordOffsetTooLarge, e.Offset)
	}
	b := make([]byte, e.Size)
	// NOTE: if ReadAt does not read e.Size bytes then an error is returned.
	//nolint:gosec // offset size is bounds checked above.
	n, err := d.r.ReadAt(b, int64(e.Offset))
	if n < len(b) {
		if err == nil {
			err = io.ErrUnexpectedEOF
		}
		return nil, fmt.Errorf("reading word %q: %w", e.Word, err)
	}

	var wordData []*Data
	if len(d.sametypesequence) > 0 {
		// When sametypesequence is specified, that determines the type of the
		// word's data. The last item carries no terminator or size.
		for i, t := range d.sametypesequence {
			last := i == len(d.sametypesequence)-1
			var data []byte
			switch {
			case last:
				data = b
				b = nil
			case t.IsText():
				j := bytes.IndexByte(b, 0)
				if j < 0 {
					return nil, fmt.Errorf("%w: %q: unterminated %q item", ErrInvalidData, e.Word, t)
				}
				data = b[:j]
				b = b[j+1:]
			default:
				data, b, err = splitFile(b)
				if err != nil {
					return nil, fmt.Errorf("%w: %q: %w", ErrInvalidData, e.Word, err)
				}
			}
			wordData = append(wordData, &Data{
				Type: t,
				Data: data,
			})
		}
	} else {
		for len(b) > 0 {
			t := DataType(b[0])
			b = b[1:]

			var data []byte
			if t.IsText() {
				// Data is a string like sequence.
				i := bytes.IndexByte(b, 0)
				if i < 0 {
					data = b
					b = nil
				} else {
					data = b[:i]
					b = b[i+1:] // Skip the null terminator
				}
			} else {
				data, b, err = splitFile(b)
				if err != nil {
					return nil, fmt.Errorf("%w: %q: %w", ErrInvalidData, e.Word, err)
				}
			}
			wordData = append(wordData, &Data{
				Type: t,
				Data: data,
			})
		}
	}

	return &Word{
		Data: wordData,
	}, nil
}

type readerAt struct {
	r io.ReaderAt
}

func (r readerAt) ReadAt(p []byte, off int64) (int, error) {
	//nolint:wrapcheck // error should not be wrapped
	return r.r.ReadAt(p, off)
}

// splitFile splits a size prefixed file-like item from b.
func splitFile(b []byte) ([]byte, []byte, error) {
	if len(b) < 4 {
		return nil, nil, fmt.Errorf("short file size: %d bytes", len(b))
	}
	size := binary.BigEndian.Uint32(b)
	b = b[4:]
	if uint64(size) > uint64(len(b)) {
		return nil, nil, fmt.Errorf("file size %d exceeds remaining %d bytes", size, len(b))
	}
	return b[:size], b[size:], nil
}

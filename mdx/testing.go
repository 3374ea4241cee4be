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

package mdx

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"hash/adler32"
	"html"

	"github.com/klauspost/compress/zlib"
	"golang.org/x/text/encoding/unicode"
)

// ArchiveOptions are options for MakeArchive.
type ArchiveOptions struct {
	// Version is the GeneratedByEngineVersion. Defaults to "2.0".
	Version string

	// Encoding is the text encoding. Defaults to "UTF-8".
	Encoding string

	// Title is the dictionary title.
	Title string

	// StyleSheet is the raw stylesheet.
	StyleSheet string

	// Compression is the compression used for key and record blocks.
	Compression Compression

	// KeysPerBlock is the number of keys in each key block. Zero puts all
	// keys in a single block.
	KeysPerBlock int

	// RecordsPerBlock is the number of records in each record block. Zero
	// puts all records in a single block.
	RecordsPerBlock int
}

// MakeArchive creates .mdx file data holding the entries in the given
// order. It is intended for tests.
func MakeArchive(entries []Entry, opts *ArchiveOptions) ([]byte, error) {
	if opts == nil {
		opts = &ArchiveOptions{}
	}
	version := opts.Version
	if version == "" {
		version = "2.0"
	}
	encName := opts.Encoding
	if encName == "" {
		encName = "UTF-8"
	}

	text := fmt.Sprintf(
		`<Dictionary GeneratedByEngineVersion="%s" RequiredEngineVersion="%s" Encrypted="0" Encoding="%s" Format="Html" Title="%s" StyleSheet="%s"/>`+"\r\n",
		version, version, encName, html.EscapeString(opts.Title), html.EscapeString(opts.StyleSheet))
	h, err := parseHeader(text)
	if err != nil {
		return nil, err
	}
	w := h.numberWidth()

	var out bytes.Buffer

	// Header
	headerText, err := unicode.UTF16(unicode.LittleEndian, unicode.IgnoreBOM).NewEncoder().Bytes([]byte(text))
	if err != nil {
		return nil, fmt.Errorf("encoding header: %w", err)
	}
	headerText = append(headerText, 0, 0)
	//nolint:gosec // test data is small.
	putUint32(&out, binary.BigEndian, uint32(len(headerText)))
	out.Write(headerText)
	putUint32(&out, binary.LittleEndian, adler32.Checksum(headerText))

	// Records are laid out first so that keys know their offsets.
	term := []byte{0}
	if h.utf16 {
		term = []byte{0, 0}
	}
	encode := func(s string) ([]byte, error) {
		if h.enc == nil {
			return []byte(s), nil
		}
		b, err := h.enc.NewEncoder().Bytes([]byte(s))
		if err != nil {
			return nil, fmt.Errorf("encoding %q: %w", s, err)
		}
		return b, nil
	}

	offsets := make([]uint64, len(entries))
	var records [][]byte
	var offset uint64
	for i, e := range entries {
		r, err := encode(e.Record)
		if err != nil {
			return nil, err
		}
		r = append(r, term...)
		offsets[i] = offset
		offset += uint64(len(r))
		records = append(records, r)
	}

	// Keyword section
	var info, keyBlocks bytes.Buffer
	numKeyBlocks := 0
	for _, chunk := range chunks(len(entries), opts.KeysPerBlock) {
		var block bytes.Buffer
		var first, last []byte
		for i := chunk[0]; i < chunk[1]; i++ {
			k, err := encode(entries[i].Headword)
			if err != nil {
				return nil, err
			}
			if i == chunk[0] {
				first = k
			}
			last = k
			putNumber(&block, w, offsets[i])
			block.Write(k)
			block.Write(term)
		}
		c, err := compress(opts.Compression, block.Bytes())
		if err != nil {
			return nil, err
		}
		keyBlocks.Write(c)

		putNumber(&info, w, uint64(chunk[1]-chunk[0]))
		for _, k := range [][]byte{first, last} {
			n := len(k)
			if h.utf16 {
				n /= 2
			}
			if w == 8 {
				//nolint:gosec // test data is small.
				putUint16(&info, uint16(n))
				info.Write(k)
				info.Write(term)
			} else {
				info.WriteByte(byte(n))
				info.Write(k)
			}
		}
		putNumber(&info, w, uint64(len(c)))
		putNumber(&info, w, uint64(block.Len()))
		numKeyBlocks++
	}

	infoData := info.Bytes()
	if w == 8 {
		infoData, err = compress(Zlib, infoData)
		if err != nil {
			return nil, err
		}
	}

	var sect bytes.Buffer
	putNumber(&sect, w, uint64(numKeyBlocks))
	putNumber(&sect, w, uint64(len(entries)))
	if w == 8 {
		putNumber(&sect, w, uint64(info.Len()))
	}
	putNumber(&sect, w, uint64(len(infoData)))
	putNumber(&sect, w, uint64(keyBlocks.Len()))
	out.Write(sect.Bytes())
	if w == 8 {
		putUint32(&out, binary.BigEndian, adler32.Checksum(sect.Bytes()))
	}
	out.Write(infoData)
	out.Write(keyBlocks.Bytes())

	// Record section
	var recordInfo, recordBlocks bytes.Buffer
	numRecordBlocks := 0
	for _, chunk := range chunks(len(entries), opts.RecordsPerBlock) {
		block := bytes.Join(records[chunk[0]:chunk[1]], nil)
		c, err := compress(opts.Compression, block)
		if err != nil {
			return nil, err
		}
		recordBlocks.Write(c)
		putNumber(&recordInfo, w, uint64(len(c)))
		putNumber(&recordInfo, w, uint64(len(block)))
		numRecordBlocks++
	}
	putNumber(&out, w, uint64(numRecordBlocks))
	putNumber(&out, w, uint64(len(entries)))
	putNumber(&out, w, uint64(recordInfo.Len()))
	putNumber(&out, w, uint64(recordBlocks.Len()))
	out.Write(recordInfo.Bytes())
	out.Write(recordBlocks.Bytes())

	return out.Bytes(), nil
}

// chunks splits n items into [start, end) ranges of size per. An empty
// archive still has one empty block.
func chunks(n, per int) [][2]int {
	if per <= 0 || per > n {
		per = n
	}
	if n == 0 {
		return [][2]int{{0, 0}}
	}
	var c [][2]int
	for i := 0; i < n; i += per {
		c = append(c, [2]int{i, min(i+per, n)})
	}
	return c
}

// compress builds a block as read by decompressBlock.
func compress(c Compression, data []byte) ([]byte, error) {
	var b bytes.Buffer
	putUint32(&b, binary.LittleEndian, uint32(c))
	putUint32(&b, binary.BigEndian, adler32.Checksum(data))

	switch c {
	case None:
		b.Write(data)
	case Zlib:
		z := zlib.NewWriter(&b)
		if _, err := z.Write(data); err != nil {
			return nil, fmt.Errorf("compressing block: %w", err)
		}
		if err := z.Close(); err != nil {
			return nil, fmt.Errorf("compressing block: %w", err)
		}
	case LZO:
		return nil, fmt.Errorf("%w: lzo", errUnsupportedCompression)
	default:
		return nil, fmt.Errorf("%w: type %d", errUnsupportedCompression, c)
	}
	return b.Bytes(), nil
}

func putNumber(b *bytes.Buffer, w int, n uint64) {
	if w == 8 {
		b.Write(binary.BigEndian.AppendUint64(nil, n))
		return
	}
	//nolint:gosec // version 1 archives use 32 bit numbers.
	b.Write(binary.BigEndian.AppendUint32(nil, uint32(n)))
}

func putUint32(b *bytes.Buffer, order binary.AppendByteOrder, n uint32) {
	b.Write(order.AppendUint32(nil, n))
}

func putUint16(b *bytes.Buffer, n uint16) {
	b.Write(binary.BigEndian.AppendUint16(nil, n))
}

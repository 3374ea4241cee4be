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
	"bufio"
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"hash/adler32"
	"io"
	"os"
	"strings"

	"github.com/ianlewis/go-dictimport/format"
)

var (
	errKeyBlockInfo = errors.New("bad key block info")
	errKeyBlock     = errors.New("bad key block")
	errRecordInfo   = errors.New("bad record block info")
	errRecordOffset = errors.New("bad record offset")
	errEntryCount   = errors.New("entry count mismatch")
	errSectionSize  = errors.New("section too large")
)

// keyInfoMagic starts the compressed key block info of version 2 archives.
var keyInfoMagic = []byte{2, 0, 0, 0}

// maxSectionSize bounds allocations driven by size fields in the file.
const maxSectionSize = 1 << 31

// Entry is a headword and its record.
type Entry struct {
	Headword string
	Record   string
}

type key struct {
	offset uint64
	word   string
}

type blockSize struct {
	compressed   uint64
	decompressed uint64
}

// Archive is an open .mdx file. The header and keys are read by Open and the
// records are streamed by Entries.
type Archive struct {
	path   string
	f      *os.File
	r      *bufio.Reader
	header *Header
	keys   []key
	read   bool
}

// Open opens the .mdx file at path and reads its header and keys. Errors are
// *format.Error values.
func Open(path string) (*Archive, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, format.IO(format.MDX, path, err)
	}

	a := &Archive{
		path: path,
		f:    f,
		r:    bufio.NewReader(f),
	}
	if err := a.readKeys(); err != nil {
		_ = f.Close()
		return nil, a.wrap(err)
	}
	return a, nil
}

// Header returns the archive header.
func (a *Archive) Header() *Header {
	return a.header
}

// Len returns the number of entries in the archive.
func (a *Archive) Len() int {
	return len(a.keys)
}

// Close closes the underlying file.
func (a *Archive) Close() error {
	if err := a.f.Close(); err != nil {
		return fmt.Errorf("closing %q: %w", a.path, err)
	}
	return nil
}

// Entries calls fn for every entry in stored order. Record text has its
// null terminator removed but is otherwise unchanged. Entries may only be
// called once. If fn returns an error iteration stops and the error is
// returned unchanged.
func (a *Archive) Entries(fn func(Entry) error) error {
	if a.read {
		return format.Corrupt(format.MDX, a.path, "records already read")
	}
	a.read = true

	var fnErr error
	err := a.readRecords(func(e Entry) error {
		if err := fn(e); err != nil {
			fnErr = err
			return err
		}
		return nil
	})
	if fnErr != nil {
		return fnErr
	}
	if err != nil {
		return a.wrap(err)
	}
	return nil
}

// wrap classifies low level errors. Failed reads of the file are I/O
// failures, everything else including truncation means the file is corrupt.
func (a *Archive) wrap(err error) error {
	var pathErr *os.PathError
	if errors.As(err, &pathErr) {
		return format.IO(format.MDX, a.path, err)
	}
	if errors.Is(err, errEncrypted) || errors.Is(err, errUnsupportedCompression) {
		return format.Unsupported(format.MDX, a.path, "%v", err)
	}
	return format.Corrupt(format.MDX, a.path, "%v", err)
}

func (a *Archive) readKeys() error {
	h, err := readHeader(a.r)
	if err != nil {
		return err
	}
	a.header = h
	w := h.numberWidth()

	// Keyword section header.
	n := 4
	if w == 8 {
		n = 5
	}
	sect := make([]byte, n*w)
	if _, err := io.ReadFull(a.r, sect); err != nil {
		return fmt.Errorf("reading keyword section: %w", err)
	}
	if w == 8 {
		var sum uint32
		if err := binary.Read(a.r, binary.BigEndian, &sum); err != nil {
			return fmt.Errorf("reading keyword section checksum: %w", err)
		}
		if got := adler32.Checksum(sect); got != sum {
			return fmt.Errorf("%w: keyword section: want %08x, got %08x", errChecksum, sum, got)
		}
	}
	nums := readNumbers(sect, w)
	numBlocks, numEntries := nums[0], nums[1]
	var infoDecompSize, infoSize, blocksSize uint64
	if w == 8 {
		infoDecompSize, infoSize, blocksSize = nums[2], nums[3], nums[4]
	} else {
		infoSize, blocksSize = nums[2], nums[3]
	}

	info, err := readSection(a.r, infoSize)
	if err != nil {
		return fmt.Errorf("reading key block info: %w", err)
	}
	if w == 8 {
		if !bytes.HasPrefix(info, keyInfoMagic) {
			return fmt.Errorf("%w: bad magic", errKeyBlockInfo)
		}
		// The key block info is stored like a zlib block.
		info, err = decompressBlock(info, infoDecompSize)
		if err != nil {
			return fmt.Errorf("%w: %w", errKeyBlockInfo, err)
		}
	}
	sizes, err := h.decodeKeyBlockInfo(info, numBlocks)
	if err != nil {
		return err
	}

	blocks, err := readSection(a.r, blocksSize)
	if err != nil {
		return fmt.Errorf("reading key blocks: %w", err)
	}
	for i, s := range sizes {
		if s.compressed > uint64(len(blocks)) {
			return fmt.Errorf("%w: block %d: size %d exceeds section", errKeyBlock, i, s.compressed)
		}
		b, err := decompressBlock(blocks[:s.compressed], s.decompressed)
		if err != nil {
			return fmt.Errorf("%w: block %d: %w", errKeyBlock, i, err)
		}
		blocks = blocks[s.compressed:]
		if err := h.splitKeyBlock(b, &a.keys); err != nil {
			return err
		}
	}
	if uint64(len(a.keys)) != numEntries {
		return fmt.Errorf("%w: keyword section has %d entries, read %d", errEntryCount, numEntries, len(a.keys))
	}
	return nil
}

// decodeKeyBlockInfo returns the sizes of the key blocks.
func (h *Header) decodeKeyBlockInfo(b []byte, numBlocks uint64) ([]blockSize, error) {
	w := h.numberWidth()
	// Version 2 stores text sizes as uint16 followed by a null terminator.
	textSizeWidth, term := 1, 0
	if w == 8 {
		textSizeWidth, term = 2, 1
	}
	unit := 1
	if h.utf16 {
		unit = 2
	}

	var sizes []blockSize
	for len(b) > 0 {
		// num entries
		if len(b) < w {
			return nil, fmt.Errorf("%w: truncated", errKeyBlockInfo)
		}
		b = b[w:]

		// first and last word of the block
		for range 2 {
			if len(b) < textSizeWidth {
				return nil, fmt.Errorf("%w: truncated", errKeyBlockInfo)
			}
			var n int
			if textSizeWidth == 2 {
				n = int(binary.BigEndian.Uint16(b))
			} else {
				n = int(b[0])
			}
			b = b[textSizeWidth:]
			n = (n + term) * unit
			if len(b) < n {
				return nil, fmt.Errorf("%w: truncated", errKeyBlockInfo)
			}
			b = b[n:]
		}

		if len(b) < 2*w {
			return nil, fmt.Errorf("%w: truncated", errKeyBlockInfo)
		}
		nums := readNumbers(b[:2*w], w)
		b = b[2*w:]
		sizes = append(sizes, blockSize{
			compressed:   nums[0],
			decompressed: nums[1],
		})
	}

	if uint64(len(sizes)) != numBlocks {
		return nil, fmt.Errorf("%w: want %d blocks, got %d", errKeyBlockInfo, numBlocks, len(sizes))
	}
	return sizes, nil
}

// splitKeyBlock appends the keys in the decompressed block b to keys.
func (h *Header) splitKeyBlock(b []byte, keys *[]key) error {
	w := h.numberWidth()
	for len(b) > 0 {
		if len(b) < w {
			return fmt.Errorf("%w: truncated key id", errKeyBlock)
		}
		offset := readNumbers(b[:w], w)[0]
		b = b[w:]

		end := h.textEnd(b)
		if end < 0 {
			return fmt.Errorf("%w: unterminated key", errKeyBlock)
		}
		word, err := h.decode(b[:end])
		if err != nil {
			return fmt.Errorf("%w: %w", errKeyBlock, err)
		}
		*keys = append(*keys, key{
			offset: offset,
			word:   word,
		})
		if h.utf16 {
			b = b[end+2:]
		} else {
			b = b[end+1:]
		}
	}
	return nil
}

// textEnd returns the index of the null terminator of the text at the start
// of b or -1.
func (h *Header) textEnd(b []byte) int {
	if !h.utf16 {
		return bytes.IndexByte(b, 0)
	}
	for i := 0; i+1 < len(b); i += 2 {
		if b[i] == 0 && b[i+1] == 0 {
			return i
		}
	}
	return -1
}

func (a *Archive) readRecords(fn func(Entry) error) error {
	w := a.header.numberWidth()

	sect := make([]byte, 4*w)
	if _, err := io.ReadFull(a.r, sect); err != nil {
		return fmt.Errorf("reading record section: %w", err)
	}
	nums := readNumbers(sect, w)
	numBlocks, numEntries, infoSize := nums[0], nums[1], nums[2]
	if numEntries != uint64(len(a.keys)) {
		return fmt.Errorf("%w: record section has %d entries, keys %d", errEntryCount, numEntries, len(a.keys))
	}
	// Each block has a compressed and a decompressed size.
	if numBlocks > maxSectionSize/(2*uint64(w)) || infoSize != numBlocks*2*uint64(w) {
		return fmt.Errorf("%w: size %d for %d blocks", errRecordInfo, infoSize, numBlocks)
	}

	info, err := readSection(a.r, infoSize)
	if err != nil {
		return fmt.Errorf("reading record block info: %w", err)
	}
	infoNums := readNumbers(info, w)
	if uint64(len(infoNums)) != 2*numBlocks {
		return fmt.Errorf("%w: %d sizes for %d blocks", errRecordInfo, len(infoNums), numBlocks)
	}

	i := 0
	var offset uint64
	for blk := uint64(0); blk < numBlocks; blk++ {
		compSize, decompSize := infoNums[2*blk], infoNums[2*blk+1]
		raw, err := readSection(a.r, compSize)
		if err != nil {
			return fmt.Errorf("reading record block %d: %w", blk, err)
		}
		block, err := decompressBlock(raw, decompSize)
		if err != nil {
			return fmt.Errorf("record block %d: %w", blk, err)
		}

		end := offset + uint64(len(block))
		for ; i < len(a.keys) && a.keys[i].offset < end; i++ {
			k := a.keys[i]
			if k.offset < offset {
				return fmt.Errorf("%w: %q at %d precedes block %d", errRecordOffset, k.word, k.offset, blk)
			}
			recEnd := end
			if i+1 < len(a.keys) {
				recEnd = a.keys[i+1].offset
			}
			if recEnd < k.offset {
				return fmt.Errorf("%w: %q at %d follows next key", errRecordOffset, k.word, k.offset)
			}
			// A record never spans blocks. Clamp to the block if the next
			// key lives in a later one.
			recEnd = min(recEnd, end)

			text, err := a.header.decode(block[k.offset-offset : recEnd-offset])
			if err != nil {
				return fmt.Errorf("%w: record %q: %w", errRecordOffset, k.word, err)
			}
			if err := fn(Entry{
				Headword: k.word,
				Record:   strings.Trim(text, "\x00"),
			}); err != nil {
				return err
			}
		}
		offset = end
	}

	if i < len(a.keys) {
		return fmt.Errorf("%w: %q at %d is past the last record block", errRecordOffset, a.keys[i].word, a.keys[i].offset)
	}
	return nil
}

// readSection reads a size prefixed section of the file. The buffer grows
// with the data actually read so a corrupt size cannot force a large
// allocation.
func readSection(r io.Reader, size uint64) ([]byte, error) {
	if size > maxSectionSize {
		return nil, fmt.Errorf("%w: %d bytes", errSectionSize, size)
	}
	//nolint:gosec // bounded by maxSectionSize.
	b, err := io.ReadAll(io.LimitReader(r, int64(size)))
	if err != nil {
		//nolint:wrapcheck // callers add context.
		return nil, err
	}
	if uint64(len(b)) != size {
		return nil, fmt.Errorf("%w: %d of %d bytes", io.ErrUnexpectedEOF, len(b), size)
	}
	return b, nil
}

// readNumbers decodes big-endian numbers of width w.
func readNumbers(b []byte, w int) []uint64 {
	nums := make([]uint64, 0, len(b)/w)
	for ; len(b) >= w; b = b[w:] {
		if w == 8 {
			nums = append(nums, binary.BigEndian.Uint64(b))
		} else {
			nums = append(nums, uint64(binary.BigEndian.Uint32(b)))
		}
	}
	return nums
}

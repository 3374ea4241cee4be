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
	"errors"
	"fmt"
	"hash/adler32"
	"io"

	"github.com/klauspost/compress/zlib"
)

// Compression is the compression type of a block.
type Compression uint32

const (
	// None is an uncompressed block.
	None Compression = 0

	// LZO is a LZO1X compressed block.
	LZO Compression = 1

	// Zlib is a zlib compressed block.
	Zlib Compression = 2
)

// blockHeaderSize is the size of the compression type and checksum.
const blockHeaderSize = 8

var (
	errUnsupportedCompression = errors.New("unsupported compression")
	errBlockSize              = errors.New("bad block size")
)

// decompressBlock decompresses a key or record block. size is the expected
// decompressed size.
func decompressBlock(b []byte, size uint64) ([]byte, error) {
	if len(b) < blockHeaderSize {
		return nil, fmt.Errorf("%w: %d bytes", errBlockSize, len(b))
	}
	c := Compression(binary.LittleEndian.Uint32(b[:4]))
	sum := binary.BigEndian.Uint32(b[4:8])
	data := b[blockHeaderSize:]

	var out []byte
	switch c {
	case None:
		out = data
	case Zlib:
		z, err := zlib.NewReader(bytes.NewReader(data))
		if err != nil {
			return nil, fmt.Errorf("opening zlib block: %w", err)
		}
		defer z.Close()
		out, err = io.ReadAll(io.LimitReader(z, int64(size)+1))
		if err != nil {
			return nil, fmt.Errorf("decompressing zlib block: %w", err)
		}
	case LZO:
		return nil, fmt.Errorf("%w: lzo", errUnsupportedCompression)
	default:
		return nil, fmt.Errorf("%w: type %d", errUnsupportedCompression, c)
	}

	if uint64(len(out)) != size {
		return nil, fmt.Errorf("%w: decompressed %d bytes, want %d", errBlockSize, len(out), size)
	}
	if got := adler32.Checksum(out); got != sum {
		return nil, fmt.Errorf("%w: block: want %08x, got %08x", errChecksum, sum, got)
	}
	return out, nil
}

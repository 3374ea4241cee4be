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

package testutil

import (
	"encoding/binary"
	"math"
	"testing"

	"github.com/ianlewis/go-dictimport/stardict/idx"
	"github.com/ianlewis/go-dictimport/stardict/syn"
)

// MakeIndex returns .idx file data for words using offsets of the given
// number of bits.
func MakeIndex(t *testing.T, words []*idx.Word, offsetBits int) []byte {
	t.Helper()

	var b []byte
	for _, w := range words {
		b = append(b, w.Word...)
		b = append(b, 0)
		switch offsetBits {
		case 32:
			if w.Offset > math.MaxUint32 {
				t.Fatalf("offset of %q too large for 32 bits: %d", w.Word, w.Offset)
			}
			//nolint:gosec // checked above.
			b = binary.BigEndian.AppendUint32(b, uint32(w.Offset))
		case 64:
			b = binary.BigEndian.AppendUint64(b, w.Offset)
		default:
			t.Fatalf("unsupported offset bits: %d", offsetBits)
		}
		b = binary.BigEndian.AppendUint32(b, w.Size)
	}
	return b
}

// MakeSyn returns .syn file data for words.
func MakeSyn(t *testing.T, words []*syn.Word) []byte {
	t.Helper()

	var b []byte
	for _, w := range words {
		b = append(b, w.Word...)
		b = append(b, 0)
		b = binary.BigEndian.AppendUint32(b, w.OriginalWordIndex)
	}
	return b
}

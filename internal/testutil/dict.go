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

package testutil

import (
	"encoding/binary"
	"math"
	"os"
	"testing"

	"github.com/ianlewis/go-dictzip"

	"github.com/ianlewis/go-dictimport/stardict/dict"
)

// WriteDictFile writes the words to path, compressing them with dictzip if
// dz is true.
func WriteDictFile(t *testing.T, path string, words []*dict.Word, sameTypeSequence []dict.DataType, dz bool) {
	t.Helper()

	d := MakeDict(t, words, sameTypeSequence)
	if !dz {
		if err := os.WriteFile(path, d, 0o600); err != nil {
			t.Fatal(err)
		}
		return
	}

	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	z, err := dictzip.NewWriter(f)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := z.Write(d); err != nil {
		t.Fatal(err)
	}
	if err := z.Close(); err != nil {
		t.Fatal(err)
	}
}

// MakeDict creates test .dict file data.
func MakeDict(t *testing.T, words []*dict.Word, sameTypeSequence []dict.DataType) []byte {
	t.Helper()

	b := []byte{}
	for _, w := range words {
		b = append(b, MakeWord(t, w, sameTypeSequence)...)
	}
	return b
}

// MakeWord encodes a single word's data.
func MakeWord(t *testing.T, w *dict.Word, sameTypeSequence []dict.DataType) []byte {
	t.Helper()

	b := []byte{}
	for i, d := range w.Data {
		if len(sameTypeSequence) == 0 {
			b = append(b, byte(d.Type))
			if d.Type.IsText() {
				// Data is a string like sequence.
				b = append(b, d.Data...)
				b = append(b, 0) // Append a zero byte terminator.
			} else {
				b = appendFile(t, b, d.Data)
			}
			continue
		}

		// The last item has neither a null terminator nor a size.
		switch {
		case i == len(w.Data)-1:
			b = append(b, d.Data...)
		case d.Type.IsText():
			b = append(b, d.Data...)
			b = append(b, 0)
		default:
			b = appendFile(t, b, d.Data)
		}
	}
	return b
}

func appendFile(t *testing.T, b, data []byte) []byte {
	t.Helper()

	dataLen := len(data)
	if dataLen > math.MaxUint32 {
		t.Fatalf("word data too long: %d", dataLen)
	}
	sizeBytes := make([]byte, 4)
	binary.BigEndian.PutUint32(sizeBytes, uint32(dataLen))
	b = append(b, sizeBytes...)
	return append(b, data...)
}

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
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/klauspost/compress/gzip"

	"github.com/ianlewis/go-dictimport/stardict/dict"
	"github.com/ianlewis/go-dictimport/stardict/idx"
	"github.com/ianlewis/go-dictimport/stardict/syn"
)

// StardictEntry is a single headword in a test Stardict dictionary.
type StardictEntry struct {
	Word string
	Data []*dict.Data
}

// Stardict describes a test Stardict dictionary.
type Stardict struct {
	// Version is the .ifo version. Defaults to 3.0.0.
	Version string

	// Bookname defaults to "test".
	Bookname string

	// SameTypeSequence is the sametypesequence option.
	SameTypeSequence []dict.DataType

	// OffsetBits is the idxoffsetbits option. Defaults to 32.
	OffsetBits int

	// IdxGzip writes the index as .idx.gz.
	IdxGzip bool

	// DictZip writes the data as .dict.dz.
	DictZip bool

	// ExtraIfo are appended verbatim to the .ifo file.
	ExtraIfo []string

	Entries []StardictEntry

	// Synonyms are written to a .syn file when not empty.
	Synonyms []*syn.Word
}

// WriteStardict writes the dictionary as name.ifo, name.idx[.gz] and
// name.dict[.dz] under dir and returns the .ifo path.
func WriteStardict(t *testing.T, dir, name string, s *Stardict) string {
	t.Helper()

	version := s.Version
	if version == "" {
		version = "3.0.0"
	}
	bookname := s.Bookname
	if bookname == "" {
		bookname = "test"
	}
	offsetBits := s.OffsetBits
	if offsetBits == 0 {
		offsetBits = 32
	}

	var words []*dict.Word
	var idxWords []*idx.Word
	var offset uint64
	for _, e := range s.Entries {
		w := &dict.Word{Data: e.Data}
		size := len(MakeWord(t, w, s.SameTypeSequence))
		idxWords = append(idxWords, &idx.Word{
			Word:   e.Word,
			Offset: offset,
			//nolint:gosec // test data is small.
			Size: uint32(size),
		})
		words = append(words, w)
		offset += uint64(size)
	}
	idxData := MakeIndex(t, idxWords, offsetBits)

	var ifo strings.Builder
	fmt.Fprintln(&ifo, "StarDict's dict ifo file")
	fmt.Fprintf(&ifo, "version=%s\n", version)
	fmt.Fprintf(&ifo, "bookname=%s\n", bookname)
	fmt.Fprintf(&ifo, "wordcount=%d\n", len(idxWords))
	fmt.Fprintf(&ifo, "idxfilesize=%d\n", len(idxData))
	if offsetBits != 32 {
		fmt.Fprintf(&ifo, "idxoffsetbits=%d\n", offsetBits)
	}
	if len(s.SameTypeSequence) > 0 {
		seq := make([]byte, len(s.SameTypeSequence))
		for i, dt := range s.SameTypeSequence {
			seq[i] = byte(dt)
		}
		fmt.Fprintf(&ifo, "sametypesequence=%s\n", seq)
	}
	if len(s.Synonyms) > 0 {
		fmt.Fprintf(&ifo, "synwordcount=%d\n", len(s.Synonyms))
	}
	for _, line := range s.ExtraIfo {
		fmt.Fprintln(&ifo, line)
	}

	ifoPath := filepath.Join(dir, name+".ifo")
	if err := os.WriteFile(ifoPath, []byte(ifo.String()), 0o600); err != nil {
		t.Fatal(err)
	}

	if s.IdxGzip {
		var buf bytes.Buffer
		z := gzip.NewWriter(&buf)
		if _, err := z.Write(idxData); err != nil {
			t.Fatal(err)
		}
		if err := z.Close(); err != nil {
			t.Fatal(err)
		}
		idxData = buf.Bytes()
	}
	idxPath := filepath.Join(dir, name+".idx")
	if s.IdxGzip {
		idxPath += ".gz"
	}
	if err := os.WriteFile(idxPath, idxData, 0o600); err != nil {
		t.Fatal(err)
	}

	dictPath := filepath.Join(dir, name+".dict")
	if s.DictZip {
		dictPath += ".dz"
	}
	WriteDictFile(t, dictPath, words, s.SameTypeSequence, s.DictZip)

	if len(s.Synonyms) > 0 {
		synPath := filepath.Join(dir, name+".syn")
		if err := os.WriteFile(synPath, MakeSyn(t, s.Synonyms), 0o600); err != nil {
			t.Fatal(err)
		}
	}

	return ifoPath
}

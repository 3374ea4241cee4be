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

package stardict

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/ianlewis/go-dictimport/format"
	"github.com/ianlewis/go-dictimport/stardict/dict"
	"github.com/ianlewis/go-dictimport/stardict/idx"
	"github.com/ianlewis/go-dictimport/stardict/ifo"
	"github.com/ianlewis/go-dictimport/stardict/syn"
	"github.com/ianlewis/go-dictimport/xdxf"
)

const ifoMagic = "StarDict's dict ifo file"

// Stardict is a stardict dictionary.
type Stardict struct {
	ifoPath string

	version          string
	bookname         string
	wordcount        int64
	synwordcount     int64
	idxfilesize      int64
	idxoffsetbits    int64
	author           string
	email            string
	website          string
	description      string
	sametypesequence []dict.DataType
}

// Open opens a Stardict dictionary from the given .ifo file path. Only the
// .ifo file is read. Errors are *format.Error values.
func Open(path string) (*Stardict, error) {
	s := &Stardict{
		ifoPath:       path,
		idxoffsetbits: 32,
	}

	if strings.ToLower(filepath.Ext(s.ifoPath)) != ".ifo" {
		return nil, format.Unsupported(format.Stardict, path, "bad extension: %q", filepath.Ext(s.ifoPath))
	}

	ifoFile, err := os.Open(s.ifoPath)
	if err != nil {
		return nil, format.IO(format.Stardict, path, err)
	}
	defer ifoFile.Close()

	i, err := ifo.New(ifoFile)
	if err != nil {
		return nil, format.Corrupt(format.Stardict, path, "reading .ifo: %v", err)
	}

	if i.Magic() != ifoMagic {
		return nil, format.Corrupt(format.Stardict, path, "bad magic data")
	}

	// Validate the version
	s.version = i.Value("version")
	switch s.version {
	case "2.4.2":
	case "3.0.0":
	default:
		return nil, format.Corrupt(format.Stardict, path, "invalid version: %q", s.version)
	}

	s.bookname = i.Value("bookname")
	if s.bookname == "" {
		return nil, format.Corrupt(format.Stardict, path, "missing bookname")
	}

	s.wordcount, err = strconv.ParseInt(i.Value("wordcount"), 10, 64)
	if err != nil {
		return nil, format.Corrupt(format.Stardict, path, "bad wordcount: %v", err)
	}

	s.idxfilesize, err = strconv.ParseInt(i.Value("idxfilesize"), 10, 64)
	if err != nil {
		return nil, format.Corrupt(format.Stardict, path, "bad idxfilesize: %v", err)
	}

	idxoffsetbits := i.Value("idxoffsetbits")
	if idxoffsetbits != "" && s.version == "3.0.0" {
		s.idxoffsetbits, err = strconv.ParseInt(idxoffsetbits, 10, 64)
		if err != nil {
			return nil, format.Corrupt(format.Stardict, path, "invalid idxoffsetbits: %v", err)
		}
	}

	synwordcount := i.Value("synwordcount")
	if synwordcount != "" {
		s.synwordcount, err = strconv.ParseInt(synwordcount, 10, 64)
		if err != nil {
			return nil, format.Corrupt(format.Stardict, path, "bad synwordcount: %v", err)
		}
	}

	for _, r := range []byte(i.Value("sametypesequence")) {
		s.sametypesequence = append(s.sametypesequence, dict.DataType(r))
	}

	s.author = i.Value("author")
	s.email = i.Value("email")
	s.description = i.Value("description")
	s.website = i.Value("website")

	return s, nil
}

// Bookname returns the dictionary name.
func (s *Stardict) Bookname() string {
	return s.bookname
}

// Description returns the dictionary description.
func (s *Stardict) Description() string {
	return s.description
}

// Author returns the dictionary author.
func (s *Stardict) Author() string {
	return s.author
}

// Email returns the dictionary contact email.
func (s *Stardict) Email() string {
	return s.email
}

// Website returns the dictionary website url.
func (s *Stardict) Website() string {
	return s.website
}

// WordCount returns the dictionary word count.
func (s *Stardict) WordCount() int64 {
	return s.wordcount
}

// Version returns the dictionary format version.
func (s *Stardict) Version() string {
	return s.version
}

// SameTypeSequence returns the sametypesequence option. It is empty when
// every word carries its own type markers.
func (s *Stardict) SameTypeSequence() []dict.DataType {
	return s.sametypesequence
}

// ReadAll reads every index entry and its article and returns a mapping of
// headword to definition. XDXF data is converted to HTML; other text data is
// returned unchanged and binary data is skipped. A headword that appears more
// than once in the index keeps its last article. Synonyms from the .syn file
// are included when the .ifo declares a synwordcount.
func (s *Stardict) ReadAll() (map[string]string, error) {
	index, err := idx.NewFromIfoPath(s.ifoPath, &idx.Options{
		//nolint:gosec // validated to be 32 or 64 by idx.New.
		OffsetBits: int(s.idxoffsetbits),
	})
	if err != nil {
		return nil, s.siblingErr("reading index", err)
	}

	words := index.Words()
	if int64(len(words)) != s.wordcount {
		return nil, format.Corrupt(format.Stardict, s.ifoPath,
			"wordcount is %d but index has %d words", s.wordcount, len(words))
	}
	if index.Size() != s.idxfilesize {
		return nil, format.Corrupt(format.Stardict, s.ifoPath,
			"idxfilesize is %d but index is %d bytes", s.idxfilesize, index.Size())
	}

	d, err := dict.NewFromIfoPath(s.ifoPath, &dict.Options{
		SameTypeSequence: s.sametypesequence,
	})
	if err != nil {
		return nil, s.siblingErr("opening dict", err)
	}
	defer d.Close()

	defs := make([]string, len(words))
	m := make(map[string]string, len(words))
	for i, w := range words {
		word, err := d.Word(w)
		if err != nil {
			return nil, format.Corrupt(format.Stardict, s.ifoPath, "%v", err)
		}
		defs[i] = definition(word)
		m[w.Word] = defs[i]
	}

	if err := s.addSynonyms(m, defs); err != nil {
		return nil, err
	}
	return m, nil
}

// addSynonyms adds the entries of the .syn file to m. A synonym takes the
// definition of the index word it refers to and never replaces a headword.
func (s *Stardict) addSynonyms(m map[string]string, defs []string) error {
	if s.synwordcount == 0 {
		return nil
	}

	synonyms, err := syn.ReadFromIfoPath(s.ifoPath)
	if err != nil {
		return s.siblingErr("reading synonyms", err)
	}
	if int64(len(synonyms)) != s.synwordcount {
		return format.Corrupt(format.Stardict, s.ifoPath,
			"synwordcount is %d but .syn has %d words", s.synwordcount, len(synonyms))
	}

	for _, w := range synonyms {
		if int(w.OriginalWordIndex) >= len(defs) {
			return format.Corrupt(format.Stardict, s.ifoPath,
				"synonym %q refers to word %d of %d", w.Word, w.OriginalWordIndex, len(defs))
		}
		if _, ok := m[w.Word]; !ok {
			m[w.Word] = defs[w.OriginalWordIndex]
		}
	}
	return nil
}

// siblingErr classifies errors opening the .idx and .dict files. Missing or
// malformed siblings make the dictionary corrupt while other errors are
// reported as I/O failures.
func (s *Stardict) siblingErr(op string, err error) error {
	var pathErr *os.PathError
	if errors.As(err, &pathErr) && !errors.Is(err, os.ErrNotExist) {
		return format.IO(format.Stardict, s.ifoPath, fmt.Errorf("%s: %w", op, err))
	}
	return format.Corrupt(format.Stardict, s.ifoPath, "%s: %v", op, err)
}

// definition joins the text data of a word.
func definition(w *dict.Word) string {
	var parts []string
	for _, d := range w.Data {
		switch {
		case d.Type == dict.XDXFType:
			parts = append(parts, xdxf.ToHTML(string(d.Data)))
		case d.Type == dict.ResourceFileListType, !d.Type.IsText():
		default:
			parts = append(parts, string(d.Data))
		}
	}
	return strings.Join(parts, "\n")
}

// ReadAll opens the Stardict dictionary at the .ifo path and reads all of its
// entries. See (*Stardict).ReadAll.
func ReadAll(ifoPath string) (map[string]string, error) {
	s, err := Open(ifoPath)
	if err != nil {
		return nil, err
	}
	return s.ReadAll()
}

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

package stardict_test

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/ianlewis/go-dictimport/format"
	"github.com/ianlewis/go-dictimport/internal/testutil"
	"github.com/ianlewis/go-dictimport/stardict"
	"github.com/ianlewis/go-dictimport/stardict/dict"
	"github.com/ianlewis/go-dictimport/stardict/syn"
)

func text(t dict.DataType, s string) *dict.Data {
	return &dict.Data{
		Type: t,
		Data: []byte(s),
	}
}

// TestOpen tests Open.
func TestOpen(t *testing.T) {
	t.Parallel()

	path := testutil.WriteStardict(t, t.TempDir(), "dict", &testutil.Stardict{
		Version:          "2.4.2",
		Bookname:         "Test Dictionary",
		SameTypeSequence: []dict.DataType{dict.PhoneticType, dict.UTFTextType},
		ExtraIfo: []string{
			"author=Ian",
			"email=ian@example.com",
			"website=https://example.com/",
			"description=A test = dictionary",
		},
		Entries: []testutil.StardictEntry{
			{Word: "a", Data: []*dict.Data{text('t', "/a/"), text('m', "alpha")}},
		},
	})

	s, err := stardict.Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}

	got := map[string]string{
		"bookname":    s.Bookname(),
		"version":     s.Version(),
		"author":      s.Author(),
		"email":       s.Email(),
		"website":     s.Website(),
		"description": s.Description(),
	}
	want := map[string]string{
		"bookname":    "Test Dictionary",
		"version":     "2.4.2",
		"author":      "Ian",
		"email":       "ian@example.com",
		"website":     "https://example.com/",
		"description": "A test = dictionary",
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("ifo values (-want, +got):\n%s", diff)
	}
	if want, got := int64(1), s.WordCount(); want != got {
		t.Errorf("WordCount; want: %d, got: %d", want, got)
	}
	if diff := cmp.Diff([]dict.DataType{dict.PhoneticType, dict.UTFTextType}, s.SameTypeSequence()); diff != "" {
		t.Errorf("SameTypeSequence (-want, +got):\n%s", diff)
	}
}

// TestReadAll tests ReadAll.
func TestReadAll(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		dict     *testutil.Stardict
		expected map[string]string
	}{
		{
			name: "type markers",
			dict: &testutil.Stardict{
				Entries: []testutil.StardictEntry{
					{Word: "apple", Data: []*dict.Data{text('m', "a fruit")}},
					{Word: "Banana", Data: []*dict.Data{text('h', "<b>yellow</b>")}},
				},
			},
			expected: map[string]string{
				"apple":  "a fruit",
				"Banana": "<b>yellow</b>",
			},
		},
		{
			name: "sametypesequence",
			dict: &testutil.Stardict{
				SameTypeSequence: []dict.DataType{dict.UTFTextType},
				Entries: []testutil.StardictEntry{
					{Word: "a", Data: []*dict.Data{text('m', "alpha")}},
					{Word: "b", Data: []*dict.Data{text('m', "beta")}},
				},
			},
			expected: map[string]string{
				"a": "alpha",
				"b": "beta",
			},
		},
		{
			name: "multiple text items",
			dict: &testutil.Stardict{
				SameTypeSequence: []dict.DataType{dict.PhoneticType, dict.UTFTextType},
				Entries: []testutil.StardictEntry{
					{Word: "cat", Data: []*dict.Data{text('t', "kæt"), text('m', "a small animal")}},
				},
			},
			expected: map[string]string{
				"cat": "kæt\na small animal",
			},
		},
		{
			name: "xdxf",
			dict: &testutil.Stardict{
				SameTypeSequence: []dict.DataType{dict.XDXFType},
				Entries: []testutil.StardictEntry{
					{Word: "cat", Data: []*dict.Data{text('x', "<k>cat</k>\n<tr>kæt</tr> <abr>n.</abr> a small animal")}},
					{Word: "dog", Data: []*dict.Data{text('x', "see <kref>cat</kref>")}},
				},
			},
			expected: map[string]string{
				"cat": `<b class="k">cat</b><br><span class="tr">[kæt]</span> <abbr>n.</abbr> a small animal`,
				"dog": `see <a href="bword://cat">cat</a>`,
			},
		},
		{
			name: "binary and resources skipped",
			dict: &testutil.Stardict{
				Entries: []testutil.StardictEntry{
					{Word: "a", Data: []*dict.Data{
						{Type: dict.WavType, Data: []byte{0, 1, 2, 3}},
						text('r', "img:a.png"),
						text('m', "alpha"),
						{Type: dict.PictureType, Data: []byte{0xff}},
					}},
				},
			},
			expected: map[string]string{
				"a": "alpha",
			},
		},
		{
			name: "duplicate headwords",
			dict: &testutil.Stardict{
				Entries: []testutil.StardictEntry{
					{Word: "a", Data: []*dict.Data{text('m', "first")}},
					{Word: "a", Data: []*dict.Data{text('m', "second")}},
				},
			},
			expected: map[string]string{
				"a": "second",
			},
		},
		{
			name: "compressed",
			dict: &testutil.Stardict{
				IdxGzip:          true,
				DictZip:          true,
				SameTypeSequence: []dict.DataType{dict.UTFTextType},
				Entries: []testutil.StardictEntry{
					{Word: "a", Data: []*dict.Data{text('m', "alpha")}},
					{Word: "b", Data: []*dict.Data{text('m', strings.Repeat("beta ", 1000))}},
					{Word: "c", Data: []*dict.Data{text('m', "gamma")}},
				},
			},
			expected: map[string]string{
				"a": "alpha",
				"b": strings.Repeat("beta ", 1000),
				"c": "gamma",
			},
		},
		{
			name: "64 bit offsets",
			dict: &testutil.Stardict{
				OffsetBits: 64,
				Entries: []testutil.StardictEntry{
					{Word: "a", Data: []*dict.Data{text('m', "alpha")}},
					{Word: "b", Data: []*dict.Data{text('m', "beta")}},
				},
			},
			expected: map[string]string{
				"a": "alpha",
				"b": "beta",
			},
		},
		{
			name: "synonyms",
			dict: &testutil.Stardict{
				Entries: []testutil.StardictEntry{
					{Word: "cat", Data: []*dict.Data{text('m', "a small animal")}},
					{Word: "dog", Data: []*dict.Data{text('m', "a loyal animal")}},
				},
				Synonyms: []*syn.Word{
					{Word: "kitty", OriginalWordIndex: 0},
					{Word: "puppy", OriginalWordIndex: 1},
					{Word: "dog", OriginalWordIndex: 0},
				},
			},
			expected: map[string]string{
				"cat":   "a small animal",
				"dog":   "a loyal animal",
				"kitty": "a small animal",
				"puppy": "a loyal animal",
			},
		},
		{
			name:     "empty",
			dict:     &testutil.Stardict{},
			expected: map[string]string{},
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			t.Parallel()

			path := testutil.WriteStardict(t, t.TempDir(), "dict", test.dict)
			got, err := stardict.ReadAll(path)
			if err != nil {
				t.Fatalf("ReadAll: %v", err)
			}
			if diff := cmp.Diff(test.expected, got); diff != "" {
				t.Fatalf("ReadAll (-want, +got):\n%s", diff)
			}
		})
	}
}

// TestReadAll_Errors tests ReadAll failures.
func TestReadAll_Errors(t *testing.T) {
	t.Parallel()

	base := &testutil.Stardict{
		Entries: []testutil.StardictEntry{
			{Word: "a", Data: []*dict.Data{text('m', "alpha")}},
			{Word: "b", Data: []*dict.Data{text('m', "beta")}},
		},
		Synonyms: []*syn.Word{
			{Word: "al", OriginalWordIndex: 0},
		},
	}

	replaceIfo := func(old, repl string) func(t *testing.T, ifoPath string) {
		return func(t *testing.T, ifoPath string) {
			t.Helper()
			b, err := os.ReadFile(ifoPath)
			if err != nil {
				t.Fatal(err)
			}
			s := strings.Replace(string(b), old, repl, 1)
			if err := os.WriteFile(ifoPath, []byte(s), 0o600); err != nil {
				t.Fatal(err)
			}
		}
	}
	remove := func(ext string) func(t *testing.T, ifoPath string) {
		return func(t *testing.T, ifoPath string) {
			t.Helper()
			if err := os.Remove(strings.TrimSuffix(ifoPath, ".ifo") + ext); err != nil {
				t.Fatal(err)
			}
		}
	}

	tests := []struct {
		name   string
		modify func(t *testing.T, ifoPath string)
		err    error
	}{
		{
			name:   "missing idx",
			modify: remove(".idx"),
			err:    format.ErrCorruptFile,
		},
		{
			name:   "missing dict",
			modify: remove(".dict"),
			err:    format.ErrCorruptFile,
		},
		{
			name:   "missing ifo",
			modify: remove(".ifo"),
			err:    format.ErrIO,
		},
		{
			name:   "wordcount mismatch",
			modify: replaceIfo("wordcount=2", "wordcount=3"),
			err:    format.ErrCorruptFile,
		},
		{
			name:   "idxfilesize mismatch",
			modify: replaceIfo("idxfilesize=", "idxfilesize=1"),
			err:    format.ErrCorruptFile,
		},
		{
			name:   "bad magic",
			modify: replaceIfo("StarDict's dict ifo file", "Not a dictionary"),
			err:    format.ErrCorruptFile,
		},
		{
			name:   "bad version",
			modify: replaceIfo("version=3.0.0", "version=1.0.0"),
			err:    format.ErrCorruptFile,
		},
		{
			name:   "missing wordcount",
			modify: replaceIfo("wordcount=2\n", ""),
			err:    format.ErrCorruptFile,
		},
		{
			name:   "missing syn",
			modify: remove(".syn"),
			err:    format.ErrCorruptFile,
		},
		{
			name:   "synwordcount mismatch",
			modify: replaceIfo("synwordcount=1", "synwordcount=2"),
			err:    format.ErrCorruptFile,
		},
		{
			name: "synonym out of range",
			modify: func(t *testing.T, ifoPath string) {
				t.Helper()
				b := testutil.MakeSyn(t, []*syn.Word{{Word: "al", OriginalWordIndex: 2}})
				if err := os.WriteFile(strings.TrimSuffix(ifoPath, ".ifo")+".syn", b, 0o600); err != nil {
					t.Fatal(err)
				}
			},
			err: format.ErrCorruptFile,
		},
		{
			name: "truncated dict",
			modify: func(t *testing.T, ifoPath string) {
				t.Helper()
				if err := os.Truncate(strings.TrimSuffix(ifoPath, ".ifo")+".dict", 3); err != nil {
					t.Fatal(err)
				}
			},
			err: format.ErrCorruptFile,
		},
		{
			name: "truncated idx",
			modify: func(t *testing.T, ifoPath string) {
				t.Helper()
				if err := os.Truncate(strings.TrimSuffix(ifoPath, ".ifo")+".idx", 4); err != nil {
					t.Fatal(err)
				}
			},
			err: format.ErrCorruptFile,
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			t.Parallel()

			path := testutil.WriteStardict(t, t.TempDir(), "dict", base)
			test.modify(t, path)

			got, err := stardict.ReadAll(path)
			if !errors.Is(err, test.err) {
				t.Fatalf("ReadAll; want: %v, got: %v", test.err, err)
			}
			if got != nil {
				t.Fatalf("ReadAll returned a partial mapping: %v", got)
			}
			var fe *format.Error
			if !errors.As(err, &fe) || fe.Kind != format.Stardict {
				t.Fatalf("ReadAll: unexpected error detail: %#v", err)
			}
		})
	}
}

// TestOpen_Extension tests that only .ifo paths are accepted.
func TestOpen_Extension(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "dict.idx")
	if err := os.WriteFile(path, nil, 0o600); err != nil {
		t.Fatal(err)
	}
	if _, err := stardict.Open(path); !errors.Is(err, format.ErrUnsupportedFormat) {
		t.Fatalf("Open; want: %v, got: %v", format.ErrUnsupportedFormat, err)
	}
}

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

// Package dictimport reads dictionaries, frequency lists and audio libraries
// in several on-disk formats and normalizes each into a mapping keyed by
// headword that is handed to a Store.
//
// Supported sources:
//  1. A JSON object of headword to definition.
//  2. A JSON array of words ordered by frequency.
//  3. A JSON array of {"term": ..., "definition": ...} records.
//  4. A Stardict dictionary given by its .ifo file. XDXF articles are
//     converted to HTML.
//  5. An MDict .mdx archive. Stylesheet codes are expanded.
//  6. A directory of audio files named after their headwords.
//
// A typical import detects the kind of a path and imports it:
//
//	src, err := dictimport.Detect(path)
//	if err != nil {
//		return err
//	}
//	err = dictimport.NewImporter(store).Import(ctx, src.Entry("en", src.Basename))
//
// Errors from reading sources are *format.Error values wrapping one of
// format.ErrUnsupportedFormat, format.ErrCorruptFile or format.ErrIO.
package dictimport

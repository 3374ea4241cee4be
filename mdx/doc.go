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

// Package mdx reads MDict .mdx dictionary archives.
//
// An .mdx file is laid out as:
//  1. A header: a big-endian uint32 length, an UTF-16LE encoded XML tag
//     holding the dictionary attributes (engine version, encoding,
//     stylesheet, ...) and a little-endian Adler-32 checksum.
//  2. The keyword section: block counts and sizes, the key block info table
//     and the key blocks. Each key carries the offset of its record.
//  3. The record section: block counts and sizes, the record block info
//     table and the record blocks.
//
// Numbers are big-endian uint64 for engine version 2.0 and uint32 for
// earlier versions. Blocks start with a 4 byte compression type (0 none,
// 1 LZO, 2 zlib) and a big-endian Adler-32 of the decompressed data.
//
// Encrypted archives and LZO compressed blocks are not supported.
package mdx

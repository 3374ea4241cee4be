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
	"html"
	"io"
	"regexp"
	"strconv"
	"strings"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/htmlindex"
	"golang.org/x/text/encoding/unicode"
)

var (
	errChecksum    = errors.New("checksum mismatch")
	errVersion     = errors.New("unsupported engine version")
	errEncrypted   = errors.New("encrypted archives are not supported")
	errEncoding    = errors.New("unknown encoding")
	errHeaderSize  = errors.New("bad header size")
	errMissingAttr = errors.New("missing header attribute")
)

// maxHeaderSize bounds the header allocation for corrupt length fields.
const maxHeaderSize = 16 << 20

var attrRegex = regexp.MustCompile(`(\w+)="([^"]*)"`)

// Header holds the attributes of an .mdx header.
type Header struct {
	attrs map[string]string

	// Version is the GeneratedByEngineVersion attribute.
	Version float64

	// Encoding is the canonical name of the text encoding.
	Encoding string

	// Encrypted is the Encrypted attribute as a bit field.
	Encrypted int

	enc   encoding.Encoding
	utf16 bool
}

// Value returns the header attribute with the given name. Entities in the
// value are unescaped.
func (h *Header) Value(name string) string {
	return h.attrs[name]
}

// Title returns the dictionary title.
func (h *Header) Title() string {
	return h.attrs["Title"]
}

// StyleSheet returns the raw stylesheet attribute.
func (h *Header) StyleSheet() string {
	return h.attrs["StyleSheet"]
}

// numberWidth returns the size in bytes of the numbers in the file.
func (h *Header) numberWidth() int {
	if h.Version >= 2.0 {
		return 8
	}
	return 4
}

// decode decodes text in the archive's encoding.
func (h *Header) decode(b []byte) (string, error) {
	if h.enc == nil {
		return string(b), nil
	}
	s, err := h.enc.NewDecoder().Bytes(b)
	if err != nil {
		return "", fmt.Errorf("decoding %s text: %w", h.Encoding, err)
	}
	return string(s), nil
}

// readHeader reads the header section from r.
func readHeader(r io.Reader) (*Header, error) {
	var size uint32
	if err := binary.Read(r, binary.BigEndian, &size); err != nil {
		return nil, fmt.Errorf("reading header size: %w", err)
	}
	if size < 2 || size > maxHeaderSize {
		return nil, fmt.Errorf("%w: %d", errHeaderSize, size)
	}

	b, err := readSection(r, uint64(size))
	if err != nil {
		return nil, fmt.Errorf("reading header: %w", err)
	}

	var sum uint32
	if err := binary.Read(r, binary.LittleEndian, &sum); err != nil {
		return nil, fmt.Errorf("reading header checksum: %w", err)
	}
	if got := adler32.Checksum(b); got != sum {
		return nil, fmt.Errorf("%w: header: want %08x, got %08x", errChecksum, sum, got)
	}

	// The tag is UTF-16LE and ends with a two byte null terminator.
	text, err := unicode.UTF16(unicode.LittleEndian, unicode.IgnoreBOM).NewDecoder().Bytes(bytes.TrimSuffix(b, []byte{0, 0}))
	if err != nil {
		return nil, fmt.Errorf("decoding header: %w", err)
	}

	return parseHeader(string(text))
}

// parseHeader parses the attributes of the header tag.
func parseHeader(text string) (*Header, error) {
	h := &Header{
		attrs: map[string]string{},
	}
	for _, m := range attrRegex.FindAllStringSubmatch(text, -1) {
		h.attrs[m[1]] = html.UnescapeString(m[2])
	}

	v, ok := h.attrs["GeneratedByEngineVersion"]
	if !ok {
		return nil, fmt.Errorf("%w: GeneratedByEngineVersion", errMissingAttr)
	}
	var err error
	h.Version, err = strconv.ParseFloat(strings.TrimSpace(v), 64)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", errVersion, v)
	}
	if h.Version >= 3.0 {
		return nil, fmt.Errorf("%w: %v", errVersion, h.Version)
	}

	switch e := strings.TrimSpace(h.attrs["Encrypted"]); e {
	case "", "No":
	case "Yes":
		h.Encrypted = 1
	default:
		h.Encrypted, err = strconv.Atoi(e)
		if err != nil {
			return nil, fmt.Errorf("bad Encrypted attribute %q: %w", e, err)
		}
	}
	if h.Encrypted != 0 {
		return nil, fmt.Errorf("%w: Encrypted=%d", errEncrypted, h.Encrypted)
	}

	if err := h.setEncoding(h.attrs["Encoding"]); err != nil {
		return nil, err
	}

	return h, nil
}

func (h *Header) setEncoding(name string) error {
	name = strings.ToLower(strings.TrimSpace(name))
	switch name {
	case "", "utf-8", "utf8":
		h.Encoding = "UTF-8"
		return nil
	case "utf-16", "utf-16le":
		h.Encoding = "UTF-16"
		h.enc = unicode.UTF16(unicode.LittleEndian, unicode.IgnoreBOM)
		h.utf16 = true
		return nil
	case "gbk", "gb2312":
		// GB18030 is a superset of both.
		name = "gb18030"
	}

	enc, err := htmlindex.Get(name)
	if err != nil {
		return fmt.Errorf("%w: %q", errEncoding, name)
	}
	canonical, err := htmlindex.Name(enc)
	if err != nil {
		canonical = name
	}
	h.Encoding = canonical
	h.enc = enc
	return nil
}

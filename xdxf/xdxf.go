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

// Package xdxf converts XDXF article markup to HTML.
//
// XDXF is the SGML-like markup used by some Stardict dictionaries
// (sametypesequence=x). Conversion follows a fixed tag table:
//
//	ar                  <div class="article">
//	k                   <b class="k">
//	b i u sub sup       unchanged
//	blockquote          unchanged
//	tt                  <code>
//	c c="COLOR"         <span style="color:COLOR"> (default green)
//	abr abbr            <abbr>
//	tr                  <span class="tr">[...]</span>
//	ex co dtrn gr pos   <span class="NAME">
//	opt                 <span class="opt">
//	def                 <div class="def">
//	kref                <a href="bword://TEXT">TEXT</a>
//	iref href=URL       <a href="URL">
//	br                  <br>
//	rref nu             removed along with their content
//
// Any other tag is removed and its content kept. Newlines become <br>.
package xdxf

import (
	"html"
	"strings"

	nethtml "golang.org/x/net/html"
)

// element is the HTML emitted for an XDXF tag.
type element struct {
	open  string
	close string
}

var tags = map[string]element{
	"ar":         {`<div class="article">`, `</div>`},
	"k":          {`<b class="k">`, `</b>`},
	"b":          {`<b>`, `</b>`},
	"i":          {`<i>`, `</i>`},
	"u":          {`<u>`, `</u>`},
	"sub":        {`<sub>`, `</sub>`},
	"sup":        {`<sup>`, `</sup>`},
	"blockquote": {`<blockquote>`, `</blockquote>`},
	"tt":         {`<code>`, `</code>`},
	"abr":        {`<abbr>`, `</abbr>`},
	"abbr":       {`<abbr>`, `</abbr>`},
	"tr":         {`<span class="tr">[`, `]</span>`},
	"ex":         {`<span class="ex">`, `</span>`},
	"co":         {`<span class="co">`, `</span>`},
	"dtrn":       {`<span class="dtrn">`, `</span>`},
	"gr":         {`<span class="gr">`, `</span>`},
	"pos":        {`<span class="pos">`, `</span>`},
	"opt":        {`<span class="opt">`, `</span>`},
	"def":        {`<div class="def">`, `</div>`},
	"c":          {``, `</span>`},
	"iref":       {``, `</a>`},
}

// dropped tags are removed together with their content.
var dropped = map[string]bool{
	"rref": true,
	"nu":   true,
}

const defaultColor = "green"

// ToHTML converts XDXF markup to HTML. It never fails: malformed markup is
// converted on a best effort basis.
func ToHTML(s string) string {
	var b strings.Builder
	z := nethtml.NewTokenizer(strings.NewReader(s))

	// skip counts nested dropped elements.
	skip := 0
	// kref collects the text of an open <kref> element.
	var kref *strings.Builder

	for {
		tt := z.Next()
		// Reading from a string the only error is io.EOF.
		if tt == nethtml.ErrorToken {
			break
		}

		tok := z.Token()
		name := strings.ToLower(tok.Data)

		switch tt {
		case nethtml.TextToken:
			if skip > 0 {
				continue
			}
			if kref != nil {
				kref.WriteString(tok.Data)
				continue
			}
			writeText(&b, tok.Data)

		case nethtml.StartTagToken, nethtml.SelfClosingTagToken:
			if dropped[name] {
				if tt == nethtml.StartTagToken {
					skip++
				}
				continue
			}
			if skip > 0 {
				continue
			}
			switch name {
			case "br":
				b.WriteString("<br>")
			case "kref":
				if tt == nethtml.StartTagToken && kref == nil {
					kref = &strings.Builder{}
				}
			case "c":
				color := attr(tok, "c")
				if color == "" {
					color = defaultColor
				}
				b.WriteString(`<span style="color:` + html.EscapeString(color) + `">`)
				if tt == nethtml.SelfClosingTagToken {
					b.WriteString(tags[name].close)
				}
			case "iref":
				b.WriteString(`<a href="` + html.EscapeString(attr(tok, "href")) + `">`)
				if tt == nethtml.SelfClosingTagToken {
					b.WriteString(tags[name].close)
				}
			default:
				if e, ok := tags[name]; ok {
					b.WriteString(e.open)
					if tt == nethtml.SelfClosingTagToken {
						b.WriteString(e.close)
					}
				}
			}

		case nethtml.EndTagToken:
			if dropped[name] {
				if skip > 0 {
					skip--
				}
				continue
			}
			if skip > 0 {
				continue
			}
			if name == "kref" {
				if kref != nil {
					writeKref(&b, kref.String())
					kref = nil
				}
				continue
			}
			if e, ok := tags[name]; ok {
				b.WriteString(e.close)
			}
		}
	}

	// Flush an unterminated <kref>.
	if kref != nil {
		writeKref(&b, kref.String())
	}

	return b.String()
}

func writeText(b *strings.Builder, text string) {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	for i, line := range strings.Split(text, "\n") {
		if i > 0 {
			b.WriteString("<br>")
		}
		b.WriteString(html.EscapeString(line))
	}
}

func writeKref(b *strings.Builder, word string) {
	word = strings.TrimSpace(word)
	b.WriteString(`<a href="bword://` + html.EscapeString(word) + `">`)
	b.WriteString(html.EscapeString(word))
	b.WriteString(`</a>`)
}

func attr(tok nethtml.Token, key string) string {
	for _, a := range tok.Attr {
		if strings.EqualFold(a.Key, key) {
			return a.Val
		}
	}
	return ""
}

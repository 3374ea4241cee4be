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

package main

import (
	"fmt"
	"io"
	"strconv"

	"github.com/k3a/html2text"
	"github.com/rodaine/table"
	"github.com/urfave/cli/v2"
	"golang.org/x/text/transform"

	"github.com/ianlewis/go-dictimport"
	"github.com/ianlewis/go-dictimport/format"
	"github.com/ianlewis/go-dictimport/internal/folding"
	"github.com/ianlewis/go-dictimport/mdx"
	"github.com/ianlewis/go-dictimport/stardict"
	"github.com/ianlewis/go-dictimport/store/memstore"
)

// previewLen is the maximum number of runes shown for a value.
const previewLen = 60

var inspectCommand = &cli.Command{
	Name:      "inspect",
	Usage:     "Read a dictionary source and preview its headwords",
	ArgsUsage: "PATH [QUERY]",
	Flags: []cli.Flag{
		&cli.IntFlag{
			Name:  "limit",
			Usage: "show at most `N` headwords (0 for all)",
			Value: 10,
		},
	},
	Action: func(c *cli.Context) error {
		if err := argCount(c, 1, 2); err != nil {
			return err
		}

		e, err := newEnv(c)
		if err != nil {
			return err
		}

		src, err := dictimport.Detect(c.Args().Get(0))
		if err != nil {
			return fmt.Errorf("%w: %w", ErrDictimport, err)
		}

		if err := printSource(c.App.Writer, src); err != nil {
			return err
		}

		ctx := c.Context
		store := memstore.New(e.logger)
		entry := src.Entry(e.cfg.Import.Language, src.Basename)
		if err := dictimport.NewImporter(store).Import(ctx, entry); err != nil {
			return fmt.Errorf("%w: %w", ErrDictimport, err)
		}
		d, _ := store.Dictionary(entry.Name)

		records := d.Records()
		if c.NArg() > 1 {
			records, err = d.Lookup(c.Args().Get(1))
			if err != nil {
				return fmt.Errorf("%w: %w", ErrDictimport, err)
			}
		}
		if limit := c.Int("limit"); limit > 0 && len(records) > limit {
			records = records[:limit]
		}

		fmt.Fprintln(c.App.Writer)
		tbl := table.New("Headword", "Value").WithWriter(c.App.Writer)
		for _, r := range records {
			tbl.AddRow(r.Headword, preview(src.Kind, r.Value))
		}
		tbl.Print()
		return nil
	},
}

// printSource prints the source metadata.
func printSource(w io.Writer, src *dictimport.Source) error {
	tbl := table.New("Field", "Value").WithWriter(w)
	tbl.AddRow("Path", src.Path)
	tbl.AddRow("Kind", src.Kind)

	switch src.Kind {
	case format.Stardict:
		s, err := stardict.Open(src.Path)
		if err != nil {
			return fmt.Errorf("%w: %w", ErrDictimport, err)
		}
		tbl.AddRow("Name", s.Bookname())
		tbl.AddRow("Author", s.Author())
		tbl.AddRow("Email", s.Email())
		tbl.AddRow("Word Count", s.WordCount())
	case format.MDX:
		a, err := mdx.Open(src.Path)
		if err != nil {
			return fmt.Errorf("%w: %w", ErrDictimport, err)
		}
		defer func() { _ = a.Close() }()
		h := a.Header()
		tbl.AddRow("Name", h.Title())
		tbl.AddRow("Version", strconv.FormatFloat(h.Version, 'f', -1, 64))
		tbl.AddRow("Encoding", h.Encoding)
		tbl.AddRow("Word Count", a.Len())
	case format.Unknown, format.JSON, format.Frequency, format.Records, format.Audio:
		tbl.AddRow("Name", src.Basename)
	}
	tbl.Print()
	return nil
}

// preview renders a stored value as a single line of text.
func preview(k format.Kind, value string) string {
	switch k {
	case format.Frequency, format.Audio:
		return value
	case format.Unknown, format.JSON, format.Records, format.Stardict, format.MDX:
	}

	text, _, err := transform.String(&folding.Whitespace{}, html2text.HTML2Text(value))
	if err != nil {
		text = value
	}
	if r := []rune(text); len(r) > previewLen {
		text = string(r[:previewLen-1]) + "…"
	}
	return text
}

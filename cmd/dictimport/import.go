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

	"github.com/urfave/cli/v2"

	"github.com/ianlewis/go-dictimport"
	"github.com/ianlewis/go-dictimport/format"
)

var importCommand = &cli.Command{
	Name:      "import",
	Usage:     "Import a dictionary source into the store",
	ArgsUsage: "PATH",
	Flags: []cli.Flag{
		&cli.StringFlag{
			Name:    "lang",
			Usage:   "store the dictionary under `LANGUAGE`",
			Aliases: []string{"l"},
		},
		&cli.StringFlag{
			Name:    "name",
			Usage:   "store the dictionary under `NAME` (default: the file name)",
			Aliases: []string{"n"},
		},
		&cli.StringFlag{
			Name:  "kind",
			Usage: "read the source as `KIND` instead of detecting it",
		},
	},
	Action: func(c *cli.Context) error {
		if err := argCount(c, 1, 1); err != nil {
			return err
		}

		e, err := newEnv(c)
		if err != nil {
			return err
		}

		src, err := dictimport.Detect(c.Args().First())
		if err != nil {
			return fmt.Errorf("%w: %w", ErrDictimport, err)
		}
		if c.IsSet("kind") {
			src.Kind, err = format.ParseKind(c.String("kind"))
			if err != nil {
				return fmt.Errorf("%w: %w", ErrFlagParse, err)
			}
		}

		lang := e.cfg.Import.Language
		if c.IsSet("lang") {
			lang = c.String("lang")
		}
		name := src.Basename
		if c.IsSet("name") {
			name = c.String("name")
		}

		ctx := c.Context
		store, release, err := e.openStore(ctx)
		if err != nil {
			return err
		}
		defer release()

		entry := src.Entry(lang, name)
		e.logger.DebugContext(ctx, "importing",
			"path", entry.Path,
			"kind", entry.Kind,
			"language", entry.Language,
			"name", entry.Name,
		)
		if err := dictimport.NewImporter(store).Import(ctx, entry); err != nil {
			return fmt.Errorf("%w: %w", ErrDictimport, err)
		}

		_, err = fmt.Fprintf(c.App.Writer, "imported %s as %q (%s, %s)\n", entry.Path, entry.Name, entry.Kind, entry.Language)
		if err != nil {
			return fmt.Errorf("%w: %w", ErrDictimport, err)
		}
		return nil
	},
}

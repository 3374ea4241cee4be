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

	"github.com/rodaine/table"
	"github.com/urfave/cli/v2"

	"github.com/ianlewis/go-dictimport"
)

var detectCommand = &cli.Command{
	Name:      "detect",
	Usage:     "Detect the kind of dictionary sources",
	ArgsUsage: "PATH...",
	Action: func(c *cli.Context) error {
		if c.NArg() == 0 {
			return fmt.Errorf("%w: no path given", ErrFlagParse)
		}

		tbl := table.New("Path", "Kind", "Name").WithWriter(c.App.Writer)
		var firstErr error
		for _, path := range c.Args().Slice() {
			src, err := dictimport.Detect(path)
			if err != nil {
				fmt.Fprintf(c.App.ErrWriter, "%v\n", err)
				if firstErr == nil {
					firstErr = err
				}
				continue
			}
			tbl.AddRow(src.Path, src.Kind, src.Basename)
		}
		tbl.Print()

		return firstErr
	},
}

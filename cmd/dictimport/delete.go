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
)

var deleteCommand = &cli.Command{
	Name:      "delete",
	Usage:     "Delete a dictionary from the store",
	ArgsUsage: "NAME",
	Action: func(c *cli.Context) error {
		if err := argCount(c, 1, 1); err != nil {
			return err
		}

		e, err := newEnv(c)
		if err != nil {
			return err
		}

		ctx := c.Context
		store, release, err := e.openPostgres(ctx)
		if err != nil {
			return err
		}
		defer release()

		name := c.Args().First()
		if err := dictimport.NewImporter(store).Delete(ctx, name); err != nil {
			return fmt.Errorf("%w: %w", ErrDictimport, err)
		}
		e.logger.InfoContext(ctx, "deleted dictionary", "name", name)
		return nil
	},
}

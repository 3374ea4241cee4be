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
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/urfave/cli/v2"
	"sigs.k8s.io/release-utils/version"

	"github.com/ianlewis/go-dictimport"
	"github.com/ianlewis/go-dictimport/format"
	"github.com/ianlewis/go-dictimport/internal/config"
	"github.com/ianlewis/go-dictimport/internal/logging"
	"github.com/ianlewis/go-dictimport/store/memstore"
	"github.com/ianlewis/go-dictimport/store/pgstore"
)

const (
	// ExitCodeSuccess is successful error code.
	ExitCodeSuccess int = iota

	// ExitCodeFlagParseError is the exit code for a flag parsing error.
	ExitCodeFlagParseError

	// ExitCodeUnknownError is the exit code for an unknown error.
	ExitCodeUnknownError

	// ExitCodeUnsupported is the exit code for unsupported sources.
	ExitCodeUnsupported

	// ExitCodeCorrupt is the exit code for corrupt sources.
	ExitCodeCorrupt

	// ExitCodeIO is the exit code for I/O errors.
	ExitCodeIO
)

// ErrDictimport is a parent error for all command errors.
var ErrDictimport = errors.New("dictimport")

// ErrFlagParse is a flag parsing error.
var ErrFlagParse = fmt.Errorf("%w: parsing flags", ErrDictimport)

// ErrUnsupported indicates a feature is unsupported.
var ErrUnsupported = fmt.Errorf("%w: unsupported", ErrDictimport)

var copyrightNames = []string{
	"2026 Ian Lewis",
}

//nolint:gochecknoinits // init needed needed for global variable.
func init() {
	// Set the HelpFlag to a random name so that it isn't used. `cli` handles
	// the flag with the root command such that it takes a command name argument
	// which we handle ourselves.
	//
	// This flag is hidden by the help output.
	// See: github.com/urfave/cli/issues/1809
	cli.HelpFlag = &cli.BoolFlag{
		// NOTE: Use a random name no one would guess.
		Name:               "d41d8cd98f00b204e980",
		DisableDefaultText: true,
	}
}

// check checks the error and panics if not nil.
func check(err error) {
	if err != nil {
		panic(err)
	}
}

// exitCode returns the process exit code for err.
func exitCode(err error) int {
	switch {
	case err == nil:
		return ExitCodeSuccess
	case errors.Is(err, ErrFlagParse):
		return ExitCodeFlagParseError
	case errors.Is(err, format.ErrUnsupportedFormat), errors.Is(err, ErrUnsupported):
		return ExitCodeUnsupported
	case errors.Is(err, format.ErrCorruptFile):
		return ExitCodeCorrupt
	case errors.Is(err, format.ErrIO):
		return ExitCodeIO
	default:
		return ExitCodeUnknownError
	}
}

func printVersion(c *cli.Context) error {
	info := version.GetVersionInfo()
	_, err := fmt.Fprintf(c.App.Writer, "%s %s\n", c.App.Name, info.GitVersion)
	if err != nil {
		return fmt.Errorf("%w: printing version: %w", ErrDictimport, err)
	}
	return nil
}

// loadConfig loads the configuration and applies global flag overrides.
func loadConfig(c *cli.Context) (*config.Config, error) {
	cfg, err := config.Load(c.String("config"))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDictimport, err)
	}

	if c.IsSet("log-level") {
		cfg.Log.Level = c.String("log-level")
	}
	if c.IsSet("store") {
		cfg.Store.Backend = c.String("store")
	}
	if c.IsSet("dsn") {
		cfg.Store.DSN = c.String("dsn")
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDictimport, err)
	}
	return cfg, nil
}

// env is the state shared by commands.
type env struct {
	cfg    *config.Config
	logger *slog.Logger
}

func newEnv(c *cli.Context) (*env, error) {
	cfg, err := loadConfig(c)
	if err != nil {
		return nil, err
	}
	return &env{
		cfg:    cfg,
		logger: logging.New(c.App.ErrWriter, cfg.Log),
	}, nil
}

// openStore opens the configured store. The returned function releases it.
func (e *env) openStore(ctx context.Context) (dictimport.Store, func(), error) {
	if e.cfg.Store.Backend == config.BackendMemory {
		return memstore.New(e.logger), func() {}, nil
	}
	return e.openPostgres(ctx)
}

// openPostgres opens the Postgres store, running migrations if configured.
func (e *env) openPostgres(ctx context.Context) (*pgstore.Store, func(), error) {
	if e.cfg.Store.Backend != config.BackendPostgres {
		return nil, nil, fmt.Errorf("%w: the %q store is not persistent", ErrUnsupported, e.cfg.Store.Backend)
	}

	pool, err := pgstore.NewPool(ctx, e.cfg.Store.DSN)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %w", ErrDictimport, err)
	}
	if !e.cfg.Store.SkipMigrations {
		if err := pgstore.Migrate(ctx, pool); err != nil {
			pool.Close()
			return nil, nil, fmt.Errorf("%w: %w", ErrDictimport, err)
		}
	}
	return pgstore.New(pool, e.logger), pool.Close, nil
}

// argCount returns an error if c was not given between min and max
// positional arguments.
func argCount(c *cli.Context, minArgs, maxArgs int) error {
	if n := c.NArg(); n < minArgs || n > maxArgs {
		return fmt.Errorf("%w: unexpected number of arguments: %d", ErrFlagParse, n)
	}
	return nil
}

func newDictimportApp() *cli.App {
	return &cli.App{
		Name:  filepath.Base(os.Args[0]),
		Usage: "Import dictionaries into a dictionary store.",
		Description: strings.Join([]string{
			"Reads JSON, frequency, record, Stardict and MDX dictionaries and",
			"audio libraries and stores them as headword mappings.",
			"http://github.com/ianlewis/go-dictimport",
		}, "\n"),
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Usage:   "read configuration from `FILE`",
				Aliases: []string{"c"},
				EnvVars: []string{config.PathEnv},
			},
			&cli.StringFlag{
				Name:  "store",
				Usage: "store `BACKEND` (memory or postgres)",
			},
			&cli.StringFlag{
				Name:  "dsn",
				Usage: "Postgres connection `DSN`",
			},
			&cli.StringFlag{
				Name:  "log-level",
				Usage: "log `LEVEL` (debug, info, warn, error)",
			},

			// Special flags are shown at the end.
			&cli.BoolFlag{
				Name:               "help",
				Usage:              "print this help text and exit",
				Aliases:            []string{"h"},
				DisableDefaultText: true,
			},
			&cli.BoolFlag{
				Name:               "version",
				Usage:              "print version information and exit",
				Aliases:            []string{"V"},
				DisableDefaultText: true,
			},
		},
		Copyright:       strings.Join(copyrightNames, "\n"),
		HideHelp:        true,
		HideHelpCommand: true,
		Action: func(c *cli.Context) error {
			if c.Bool("version") {
				return printVersion(c)
			}

			check(cli.ShowAppHelp(c))
			return nil
		},
		Commands: []*cli.Command{
			detectCommand,
			importCommand,
			inspectCommand,
			deleteCommand,
			listCommand,
		},
	}
}

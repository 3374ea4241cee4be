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

package format

import (
	"errors"
	"fmt"
)

var (
	// ErrUnsupportedFormat indicates that a path has an unrecognized
	// extension or content shape.
	ErrUnsupportedFormat = errors.New("unsupported format")

	// ErrCorruptFile indicates a structurally invalid file: bad container
	// data, failed decompression, missing required keys or missing and
	// mismatched sibling files.
	ErrCorruptFile = errors.New("corrupt file")

	// ErrIO indicates that a file could not be read.
	ErrIO = errors.New("i/o failure")
)

// Error is an error reading a dictionary source. Err always wraps one of
// ErrUnsupportedFormat, ErrCorruptFile or ErrIO.
type Error struct {
	Kind Kind
	Path string
	Err  error
}

// Error implements error.
func (e *Error) Error() string {
	return fmt.Sprintf("%s %q: %v", e.Kind, e.Path, e.Err)
}

// Unwrap returns the underlying error.
func (e *Error) Unwrap() error {
	return e.Err
}

// Corrupt returns an *Error wrapping ErrCorruptFile.
func Corrupt(k Kind, path string, format string, args ...any) error {
	return &Error{
		Kind: k,
		Path: path,
		Err:  fmt.Errorf("%w: %s", ErrCorruptFile, fmt.Sprintf(format, args...)),
	}
}

// Unsupported returns an *Error wrapping ErrUnsupportedFormat.
func Unsupported(k Kind, path string, format string, args ...any) error {
	return &Error{
		Kind: k,
		Path: path,
		Err:  fmt.Errorf("%w: %s", ErrUnsupportedFormat, fmt.Sprintf(format, args...)),
	}
}

// IO returns an *Error wrapping ErrIO and err.
func IO(k Kind, path string, err error) error {
	return &Error{
		Kind: k,
		Path: path,
		Err:  fmt.Errorf("%w: %w", ErrIO, err),
	}
}

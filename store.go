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

package dictimport

import "context"

// Store persists imported mappings. Implementations are in the store
// directory.
type Store interface {
	// BulkInsert stores every headword in m under the dictionary name and
	// language, replacing any dictionary already stored under name.
	BulkInsert(ctx context.Context, m *Mapping, language, name string) error

	// DeleteDictionary removes the dictionary with the given name. Deleting
	// a missing dictionary is not an error.
	DeleteDictionary(ctx context.Context, name string) error
}

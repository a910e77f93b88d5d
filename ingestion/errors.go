// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package ingestion

import "errors"

var (
	// ErrUnsupportedFormat is returned for files whose extension has no reader.
	ErrUnsupportedFormat = errors.New("unsupported document format")

	// ErrInvalidChunkConfig is returned when chunk size or overlap are out of range.
	ErrInvalidChunkConfig = errors.New("invalid chunk configuration")

	// ErrNotDirectory is returned when LoadDir is given a path that is not a directory.
	ErrNotDirectory = errors.New("not a directory")
)

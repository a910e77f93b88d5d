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

// Package files persists search index snapshots as three artifacts in a
// directory:
//
//	vectors.bin   dense vectors and their dimension
//	chunks.bin    the position-ordered chunk list
//	corpus.bin    whitespace tokens of every chunk
//
// Each artifact starts with the generation id of the build that wrote it and
// is renamed into place from a temporary file. Load refuses a set of
// artifacts whose generations differ, which is what a crash between two
// renames leaves behind. The lexical scorer is never persisted; it is rebuilt from
// corpus.bin on load.
package files

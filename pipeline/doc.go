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

// Package pipeline runs a query through a fixed sequence of stages:
// plan, retrieve, synthesize, extract entities and extract signals.
//
// Each stage reads fields written by the stages before it and writes its
// own fields on a shared core.PipelineState. Only retrieval can fail a run;
// failures of the summarization, extraction and sentiment services degrade
// to fallback values.
package pipeline

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

// Package storage provides the storage abstraction layer for briefing.
//
// This package defines repository interfaces that decouple the local update
// dataset from the retrieval pipeline. The BadgerDB implementation lives in
// storage/badger; tests can substitute any other implementation.
//
// # Constructor Return Type Pattern
//
// Public constructors in implementation packages return the interfaces defined
// here:
//
//	updates, checkpoints, backend, err := badger.NewMemoryRepositories()
//
// Internal constructors may return concrete types since they're only used
// within the implementation package.
//
// # Architecture
//
//   - UpdateRepository: update records plus a per-product index used by QueryLocal
//   - CheckpointRepository: import checkpoints keyed by seed source
//
// # Serialization
//
// Values are encoded with the MUS serializers in core. Serialization failures wrap ErrSerializationFailed.
//
// # Thread Safety
//
// All repository implementations must be thread-safe and support
// concurrent access from multiple goroutines.
//
// # Context Support
//
// All repository methods accept context.Context for cancellation
// and timeout support. Pass context.Background() for operations
// without specific timeout requirements.
package storage

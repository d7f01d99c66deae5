// Copyright 2026 Blink Labs Software
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

// Package common provides the types shared by every part of the ledger.
//
// # Key Files by Purpose
//
// Transactions:
//   - tx.go: OutputRef, Input, Output and Transaction, including hashing and
//     the proof context that witnesses sign
//   - hash.go: Blake2b256 and Blake2b224 hashes
//
// Payloads:
//   - typed.go: TypeId, DynamicallyTypedData and the TypeRegistry that
//     detects colliding type IDs
//
// Validation:
//   - verifier.go: the Verifier interface and the Environment it sees
//   - constraint.go: SimpleConstraintChecker, ConstraintChecker and the
//     accumulators used to fold values across a block
//   - errors.go: error types shared by the executive and the pieces
//
// # Common Patterns
//
// Errors are value types that match a sentinel with errors.Is, so callers can
// test the kind of failure without caring about its details:
//
//	if errors.Is(err, common.ErrMissingInput) { ... }
//
// Checkers that never look at verifiers implement SimpleConstraintChecker and
// are lifted with Widen.
//
// # Testing
//
// Use MockStore from internal/test/ledger/ledger.go to inject storage failures.
package common

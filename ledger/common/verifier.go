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

package common

// Environment is the read-only chain state visible to verifiers and checkers
type Environment struct {
	Height uint32
}

// Verifier decides whether an output may be consumed. proofContext is the
// canonical encoding of the spending transaction with every witness cleared,
// and proof is the witness supplied with the input. Implementations must be
// pure functions of their arguments
type Verifier interface {
	Verify(proofContext []byte, env Environment, proof []byte) bool
}

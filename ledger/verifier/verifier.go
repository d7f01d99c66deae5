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

package verifier

import (
	"github.com/blinklabs-io/utxokit/cbor"
	"github.com/blinklabs-io/utxokit/ledger/common"
)

// UpForGrabs can be spent by anyone
type UpForGrabs struct {
	cbor.StructAsArray
}

func (UpForGrabs) Verify(_ []byte, _ common.Environment, _ []byte) bool {
	return true
}

// Unspendable can never be spent. Transactions have no way to remove an
// output without satisfying its verifier, so outputs guarded by it stay in
// the store permanently
type Unspendable struct {
	cbor.StructAsArray
}

func (Unspendable) Verify(_ []byte, _ common.Environment, _ []byte) bool {
	return false
}

// TestVerifier returns a fixed answer and is meant for tests
type TestVerifier struct {
	cbor.StructAsArray
	Verifies bool
}

func (v TestVerifier) Verify(_ []byte, _ common.Environment, _ []byte) bool {
	return v.Verifies
}

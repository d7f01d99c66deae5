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

package pipeline

import (
	"github.com/blinklabs-io/utxokit/cbor"
	"github.com/blinklabs-io/utxokit/ledger/common"
	"github.com/blinklabs-io/utxokit/ledger/executive"
)

// NewExecutivePipeline returns a pipeline that decodes canonical CBOR
// transactions, validates them against exec concurrently and applies them
// through exec in submission order
func NewExecutivePipeline[V common.Verifier, C common.ConstraintChecker[V]](
	exec *executive.Executive[V, C],
	opts ...Option,
) *TxPipeline[*common.Transaction[V, C]] {
	return New[*common.Transaction[V, C]](
		DecodeTransaction[V, C],
		exec.Validate,
		exec.Apply,
		opts...,
	)
}

// DecodeTransaction decodes a single transaction and rejects trailing bytes
func DecodeTransaction[V any, C any](rawCbor []byte) (*common.Transaction[V, C], error) {
	var tx common.Transaction[V, C]
	if err := cbor.DecodeExact(rawCbor, &tx); err != nil {
		return nil, err
	}
	return &tx, nil
}

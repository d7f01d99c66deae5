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

import (
	"encoding/hex"
	"fmt"

	"github.com/blinklabs-io/utxokit/cbor"
)

// OutputRef uniquely names one output by the hash of the transaction that
// created it and the output's position in that transaction
type OutputRef struct {
	cbor.StructAsArray
	TxHash Blake2b256
	Index  uint32
}

func NewOutputRef(hash string, idx uint32) OutputRef {
	tmpHash, err := hex.DecodeString(hash)
	if err != nil {
		panic(fmt.Sprintf("failed to decode transaction hash: %s", err))
	}
	return OutputRef{
		TxHash: NewBlake2b256(tmpHash),
		Index:  idx,
	}
}

func (r OutputRef) String() string {
	return fmt.Sprintf("%s#%d", r.TxHash.String(), r.Index)
}

// Key returns the canonical encoding of the ref, used as the UTXO store key
func (r OutputRef) Key() []byte {
	return cbor.MustEncode(r)
}

// Input references an output to consume (or peek) along with the proof
// that authorizes it
type Input struct {
	cbor.StructAsArray
	OutputRef OutputRef
	Witness   []byte
}

// Output is a piece of ledger state guarded by a verifier
type Output[V any] struct {
	cbor.StructAsArray
	Payload  DynamicallyTypedData
	Verifier V
}

type Transaction[V any, C any] struct {
	cbor.StructAsArray
	Inputs  []Input
	Peeks   []Input
	Outputs []Output[V]
	Checker C
}

// Stripped returns a copy of the transaction with the witness of every input
// and peek cleared. The receiver is not modified
func (tx *Transaction[V, C]) Stripped() (*Transaction[V, C], error) {
	ret := &Transaction[V, C]{
		Outputs: tx.Outputs,
		Checker: tx.Checker,
	}
	if err := cbor.DeepCopy(&ret.Inputs, tx.Inputs); err != nil {
		return nil, fmt.Errorf("copy inputs: %w", err)
	}
	if err := cbor.DeepCopy(&ret.Peeks, tx.Peeks); err != nil {
		return nil, fmt.Errorf("copy peeks: %w", err)
	}
	for i := range ret.Inputs {
		ret.Inputs[i].Witness = nil
	}
	for i := range ret.Peeks {
		ret.Peeks[i].Witness = nil
	}
	return ret, nil
}

// ProofContext returns the canonical encoding of the stripped transaction.
// This is what every verifier signs over
func (tx *Transaction[V, C]) ProofContext() ([]byte, error) {
	stripped, err := tx.Stripped()
	if err != nil {
		return nil, err
	}
	return cbor.Encode(stripped)
}

// Hash returns the transaction identity, which does not depend on any witness
func (tx *Transaction[V, C]) Hash() (Blake2b256, error) {
	proofContext, err := tx.ProofContext()
	if err != nil {
		return Blake2b256{}, err
	}
	return Blake2b256Hash(proofContext), nil
}

// OutputRefs returns the refs that the outputs of a transaction with the
// given hash will be stored at
func (tx *Transaction[V, C]) OutputRefs(txHash Blake2b256) []OutputRef {
	ret := make([]OutputRef, 0, len(tx.Outputs))
	for idx := range tx.Outputs {
		ret = append(
			ret,
			OutputRef{
				TxHash: txHash,
				// #nosec G115 -- output count is bounded by the encoded transaction size
				Index: uint32(idx),
			},
		)
	}
	return ret
}

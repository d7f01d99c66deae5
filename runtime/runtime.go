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

// Package runtime assembles the verifiers and constraint checkers from this
// module into one concrete ledger. Transactions, outputs and the Executive are
// all instantiated over OuterVerifier and OuterConstraintChecker
package runtime

import (
	"fmt"

	"github.com/blinklabs-io/utxokit/cbor"
	"github.com/blinklabs-io/utxokit/ledger/common"
	"github.com/blinklabs-io/utxokit/ledger/executive"
	"github.com/blinklabs-io/utxokit/ledger/utxo"
)

type (
	Transaction = common.Transaction[OuterVerifier, OuterConstraintChecker]
	Output      = common.Output[OuterVerifier]
	Executive   = executive.Executive[OuterVerifier, OuterConstraintChecker]
	Set         = utxo.Set[OuterVerifier]
)

func init() {
	_ = common.DefaultTypeRegistry.Register("dex.Order[TokenA,TokenB]", OrderAForB{})
	_ = common.DefaultTypeRegistry.Register("dex.Order[TokenB,TokenA]", OrderBForA{})
}

// New returns an Executive over store. It fails if any two registered payload
// types share a TypeId
func New(store utxo.KeyValueStore, opts ...executive.Option) (*Executive, error) {
	if err := common.DefaultTypeRegistry.Validate(); err != nil {
		return nil, fmt.Errorf("type registry: %w", err)
	}
	config := executive.DefaultConfig()
	for _, opt := range opts {
		opt(&config)
	}
	set := utxo.NewSet[OuterVerifier](store, config.Logger)
	return executive.New[OuterVerifier, OuterConstraintChecker](
		set,
		executive.WithConfig(config),
	), nil
}

// NewTransaction builds a transaction with the given checker, which must be
// one accepted by NewOuterConstraintChecker
func NewTransaction(
	inputs []common.Input,
	peeks []common.Input,
	outputs []Output,
	checker any,
) *Transaction {
	return &Transaction{
		Inputs:  inputs,
		Peeks:   peeks,
		Outputs: outputs,
		Checker: NewOuterConstraintChecker(checker),
	}
}

// NewOutput wraps payload and guards it with v
func NewOutput(payload common.UtxoData, v common.Verifier) (Output, error) {
	verifierType, err := outerVerifierType(v)
	if err != nil {
		return Output{}, err
	}
	data, err := common.Wrap(payload)
	if err != nil {
		return Output{}, err
	}
	return Output{
		Payload: data,
		Verifier: OuterVerifier{
			Type:     verifierType,
			Verifier: v,
		},
	}, nil
}

// DecodeTransaction decodes a single encoded transaction. Trailing bytes are rejected
func DecodeTransaction(data []byte) (*Transaction, error) {
	var tx Transaction
	if err := cbor.DecodeExact(data, &tx); err != nil {
		return nil, fmt.Errorf("decode transaction: %w", err)
	}
	return &tx, nil
}

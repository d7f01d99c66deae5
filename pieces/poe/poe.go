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

// Package poe implements proof of existence: claims record the hash of a
// document along with the height from which the claim takes effect
package poe

import (
	"errors"

	"github.com/blinklabs-io/utxokit/cbor"
	"github.com/blinklabs-io/utxokit/ledger/common"
)

var (
	ErrWrongNumberInputs     = errors.New("wrong number of inputs")
	ErrWrongNumberOutputs    = errors.New("wrong number of outputs")
	ErrBadlyTypedInput       = errors.New("badly typed input")
	ErrBadlyTypedOutput      = errors.New("badly typed output")
	ErrEffectiveHeightInPast = errors.New("effective height in the past")
)

type ClaimData struct {
	cbor.StructAsArray
	Claim           common.Blake2b256
	EffectiveHeight uint32
}

func (ClaimData) TypeId() common.TypeId {
	return common.TypeId{'p', 'o', 'e', '_'}
}

func NewClaim(document []byte, effectiveHeight uint32) ClaimData {
	return ClaimData{
		Claim:           common.Blake2b256Hash(document),
		EffectiveHeight: effectiveHeight,
	}
}

func init() {
	_ = common.DefaultTypeRegistry.Register("poe.ClaimData", ClaimData{})
}

// Claim creates new claims. It consumes nothing, and every claim must take
// effect at or after the current height
type Claim[V any] struct {
	cbor.StructAsArray
}

func (Claim[V]) Check(
	env common.Environment,
	inputs, _, outputs []common.Output[V],
) (common.CheckingSuccess, error) {
	if len(inputs) != 0 {
		return common.CheckingSuccess{}, ErrWrongNumberInputs
	}
	for _, output := range outputs {
		claim, err := common.Extract[ClaimData](output.Payload)
		if err != nil {
			return common.CheckingSuccess{}, ErrBadlyTypedOutput
		}
		if claim.EffectiveHeight < env.Height {
			return common.CheckingSuccess{}, ErrEffectiveHeightInPast
		}
	}
	return common.CheckingSuccess{
		Accumulator: common.NoopAccumulator{},
	}, nil
}

// Revoke destroys claims without creating anything
type Revoke struct {
	cbor.StructAsArray
}

func (Revoke) Check(
	inputs, _, outputs []common.DynamicallyTypedData,
) (common.CheckingSuccess, error) {
	if len(outputs) != 0 {
		return common.CheckingSuccess{}, ErrWrongNumberOutputs
	}
	if _, err := common.ExtractAll[ClaimData](inputs); err != nil {
		return common.CheckingSuccess{}, ErrBadlyTypedInput
	}
	return common.CheckingSuccess{
		Accumulator: common.NoopAccumulator{},
	}, nil
}

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

// Package amoeba is a toy piece in which amoebas are created, split into
// two daughters of the next generation, and die
package amoeba

import (
	"errors"
	"math"

	"github.com/blinklabs-io/utxokit/cbor"
	"github.com/blinklabs-io/utxokit/ledger/common"
)

var (
	ErrBadlyTypedInput        = errors.New("badly typed input")
	ErrBadlyTypedOutput       = errors.New("badly typed output")
	ErrCreatedNothing         = errors.New("created nothing")
	ErrCreatedTooMany         = errors.New("created too many")
	ErrCreationMayNotConsume  = errors.New("creation may not consume")
	ErrNoVictim               = errors.New("no victim")
	ErrTooManyVictims         = errors.New("too many victims")
	ErrDeathMayNotCreate      = errors.New("death may not create")
	ErrWrongNumberOfDaughters = errors.New("wrong number of daughters")
	ErrWrongNumberOfMothers   = errors.New("wrong number of mothers")
	ErrWrongGeneration        = errors.New("wrong generation")
)

// AmoebaDetails is the state of one amoeba
type AmoebaDetails struct {
	cbor.StructAsArray
	Generation uint32
	// FourBytes is arbitrary data that lets otherwise identical amoebas be told apart
	FourBytes [4]byte
}

func (AmoebaDetails) TypeId() common.TypeId {
	return common.TypeId{'a', 'm', 'o', 'e'}
}

func init() {
	_ = common.DefaultTypeRegistry.Register("amoeba.AmoebaDetails", AmoebaDetails{})
}

// Mitosis splits one mother into exactly two daughters of the next generation
type Mitosis struct {
	cbor.StructAsArray
}

func (Mitosis) Check(
	inputs, _, outputs []common.DynamicallyTypedData,
) (common.CheckingSuccess, error) {
	if len(inputs) != 1 {
		return common.CheckingSuccess{}, ErrWrongNumberOfMothers
	}
	mother, err := common.Extract[AmoebaDetails](inputs[0])
	if err != nil {
		return common.CheckingSuccess{}, ErrBadlyTypedInput
	}
	if len(outputs) != 2 {
		return common.CheckingSuccess{}, ErrWrongNumberOfDaughters
	}
	daughters, err := common.ExtractAll[AmoebaDetails](outputs)
	if err != nil {
		return common.CheckingSuccess{}, ErrBadlyTypedOutput
	}
	// The last generation can have no daughters
	if mother.Generation == math.MaxUint32 {
		return common.CheckingSuccess{}, ErrWrongGeneration
	}
	for _, daughter := range daughters {
		if daughter.Generation != mother.Generation+1 {
			return common.CheckingSuccess{}, ErrWrongGeneration
		}
	}
	return common.CheckingSuccess{
		Accumulator: common.NoopAccumulator{},
	}, nil
}

// Creation brings a single generation 0 amoeba into existence
type Creation struct {
	cbor.StructAsArray
}

func (Creation) Check(
	inputs, _, outputs []common.DynamicallyTypedData,
) (common.CheckingSuccess, error) {
	if len(outputs) == 0 {
		return common.CheckingSuccess{}, ErrCreatedNothing
	}
	if len(outputs) != 1 {
		return common.CheckingSuccess{}, ErrCreatedTooMany
	}
	eve, err := common.Extract[AmoebaDetails](outputs[0])
	if err != nil {
		return common.CheckingSuccess{}, ErrBadlyTypedOutput
	}
	if eve.Generation != 0 {
		return common.CheckingSuccess{}, ErrWrongGeneration
	}
	if len(inputs) != 0 {
		return common.CheckingSuccess{}, ErrCreationMayNotConsume
	}
	return common.CheckingSuccess{
		Accumulator: common.NoopAccumulator{},
	}, nil
}

// Death consumes a single amoeba and creates nothing
type Death struct {
	cbor.StructAsArray
}

func (Death) Check(
	inputs, _, outputs []common.DynamicallyTypedData,
) (common.CheckingSuccess, error) {
	if len(inputs) == 0 {
		return common.CheckingSuccess{}, ErrNoVictim
	}
	if len(inputs) != 1 {
		return common.CheckingSuccess{}, ErrTooManyVictims
	}
	if _, err := common.Extract[AmoebaDetails](inputs[0]); err != nil {
		return common.CheckingSuccess{}, ErrBadlyTypedInput
	}
	if len(outputs) != 0 {
		return common.CheckingSuccess{}, ErrDeathMayNotCreate
	}
	return common.CheckingSuccess{
		Accumulator: common.NoopAccumulator{},
	}, nil
}

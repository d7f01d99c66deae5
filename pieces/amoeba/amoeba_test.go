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

package amoeba

import (
	"math"
	"testing"

	"github.com/blinklabs-io/utxokit/cbor"
	"github.com/blinklabs-io/utxokit/ledger/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type bogus struct {
	cbor.StructAsArray
}

func (bogus) TypeId() common.TypeId {
	return common.TypeId{'b', 'o', 'g', 'u'}
}

func amoebas(generations ...uint32) []common.DynamicallyTypedData {
	ret := make([]common.DynamicallyTypedData, 0, len(generations))
	for idx, generation := range generations {
		ret = append(
			ret,
			common.MustWrap(AmoebaDetails{
				Generation: generation,
				// #nosec G115 -- test values are small
				FourBytes: [4]byte{byte(idx), 'a', 'b', 'c'},
			}),
		)
	}
	return ret
}

var bogusData = []common.DynamicallyTypedData{common.MustWrap(bogus{})}

type checkerTestDef struct {
	name        string
	inputs      []common.DynamicallyTypedData
	outputs     []common.DynamicallyTypedData
	expectedErr error
}

func runCheckerTests(t *testing.T, checker common.SimpleConstraintChecker, testDefs []checkerTestDef) {
	t.Helper()
	for _, testDef := range testDefs {
		t.Run(testDef.name, func(t *testing.T) {
			res, err := checker.Check(testDef.inputs, nil, testDef.outputs)
			if testDef.expectedErr != nil {
				assert.ErrorIs(t, err, testDef.expectedErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, uint64(0), res.Priority)
		})
	}
}

func TestMitosis(t *testing.T) {
	runCheckerTests(t, Mitosis{}, []checkerTestDef{
		{name: "valid", inputs: amoebas(1), outputs: amoebas(2, 2)},
		{name: "valid from creation", inputs: amoebas(0), outputs: amoebas(1, 1)},
		{name: "no mother", outputs: amoebas(2, 2), expectedErr: ErrWrongNumberOfMothers},
		{name: "two mothers", inputs: amoebas(1, 1), outputs: amoebas(2, 2), expectedErr: ErrWrongNumberOfMothers},
		{name: "badly typed mother", inputs: bogusData, outputs: amoebas(2, 2), expectedErr: ErrBadlyTypedInput},
		{name: "one daughter", inputs: amoebas(1), outputs: amoebas(2), expectedErr: ErrWrongNumberOfDaughters},
		{name: "three daughters", inputs: amoebas(1), outputs: amoebas(2, 2, 2), expectedErr: ErrWrongNumberOfDaughters},
		{
			name:        "badly typed daughter",
			inputs:      amoebas(1),
			outputs:     append(amoebas(2), bogusData...),
			expectedErr: ErrBadlyTypedOutput,
		},
		{name: "first daughter wrong generation", inputs: amoebas(1), outputs: amoebas(3, 2), expectedErr: ErrWrongGeneration},
		{name: "second daughter wrong generation", inputs: amoebas(1), outputs: amoebas(2, 1), expectedErr: ErrWrongGeneration},
		{name: "last generation", inputs: amoebas(math.MaxUint32), outputs: amoebas(0, 0), expectedErr: ErrWrongGeneration},
	})
}

// Mitosis succeeds only with exactly two daughters of the next generation
func TestMitosisGenerations(t *testing.T) {
	for _, mother := range []uint32{0, 1, 7, 1000} {
		for first := mother; first < mother+3; first++ {
			for second := mother; second < mother+3; second++ {
				_, err := Mitosis{}.Check(amoebas(mother), nil, amoebas(first, second))
				if first == mother+1 && second == mother+1 {
					assert.NoError(t, err)
				} else {
					assert.ErrorIs(t, err, ErrWrongGeneration)
				}
			}
		}
	}
}

func TestCreation(t *testing.T) {
	runCheckerTests(t, Creation{}, []checkerTestDef{
		{name: "valid", outputs: amoebas(0)},
		{name: "nothing", expectedErr: ErrCreatedNothing},
		{name: "too many", outputs: amoebas(0, 0), expectedErr: ErrCreatedTooMany},
		{name: "badly typed", outputs: bogusData, expectedErr: ErrBadlyTypedOutput},
		{name: "wrong generation", outputs: amoebas(1), expectedErr: ErrWrongGeneration},
		{name: "consumes", inputs: amoebas(3), outputs: amoebas(0), expectedErr: ErrCreationMayNotConsume},
	})
}

func TestDeath(t *testing.T) {
	runCheckerTests(t, Death{}, []checkerTestDef{
		{name: "valid", inputs: amoebas(4)},
		{name: "no victim", expectedErr: ErrNoVictim},
		{name: "too many victims", inputs: amoebas(4, 5), expectedErr: ErrTooManyVictims},
		{name: "badly typed", inputs: bogusData, expectedErr: ErrBadlyTypedInput},
		{name: "creates", inputs: amoebas(4), outputs: amoebas(0), expectedErr: ErrDeathMayNotCreate},
	})
}

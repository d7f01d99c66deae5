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

package kitties

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

var (
	testMom   = NewKitty(NewMom(), []byte("mom"), [4]byte{'m', 'a', 'm', 'a'})
	testDad   = NewKitty(NewDad(), []byte("dad"), [4]byte{'p', 'a', 'p', 'a'})
	bogusData = common.MustWrap(bogus{})
)

func wrap(kitties ...KittyData) []common.DynamicallyTypedData {
	ret := make([]common.DynamicallyTypedData, 0, len(kitties))
	for _, kitty := range kitties {
		ret = append(ret, common.MustWrap(kitty))
	}
	return ret
}

// family returns the outputs of breeding testMom and testDad after applying modify
func family(modify func(newMom, newDad, child *KittyData)) []common.DynamicallyTypedData {
	ret := Family(testMom, testDad, NewDad(), [4]byte{'b', 'a', 'b', 'y'})
	if modify != nil {
		modify(&ret[0], &ret[1], &ret[2])
	}
	return wrap(ret...)
}

func modified(kitty KittyData, modify func(*KittyData)) KittyData {
	modify(&kitty)
	return kitty
}

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

func TestKittyDataRoundTrip(t *testing.T) {
	wrapped, err := common.Wrap(testMom)
	require.NoError(t, err)
	assert.Equal(t, common.TypeId{'K', 'i', 't', 't'}, wrapped.TypeId)
	kitty, err := common.Extract[KittyData](wrapped)
	require.NoError(t, err)
	assert.Equal(t, testMom, kitty)
	assert.Equal(t, NumFreeBreedings, kitty.FreeBreedings)
	assert.Equal(t, uint64(0), kitty.NumBreedings)
	assert.Equal(t, "Dad", testDad.Parent.Gender.String())
}

func TestChildDNA(t *testing.T) {
	newFamily := Family(testMom, testDad, NewMom(), [4]byte{})
	assert.Equal(t, ChildDNA(newFamily[0], newFamily[1]), newFamily[2].DNA)
	// Breeding the same pair again yields a different child
	bredAgain := modified(newFamily[0], func(k *KittyData) { k.NumBreedings++ })
	assert.NotEqual(t, ChildDNA(newFamily[0], newFamily[1]), ChildDNA(bredAgain, newFamily[1]))
	// The order of the parents matters
	assert.NotEqual(t, ChildDNA(newFamily[0], newFamily[1]), ChildDNA(newFamily[1], newFamily[0]))
}

func TestCreate(t *testing.T) {
	runCheckerTests(t, Create{}, []checkerTestDef{
		{name: "one kitty", outputs: wrap(testMom)},
		{name: "several kitties", outputs: wrap(testMom, testDad)},
		{name: "nothing", expectedErr: ErrCreatingNothing},
		{name: "with inputs", inputs: wrap(testDad), outputs: wrap(testMom), expectedErr: ErrCreatingWithInputs},
		{
			name:        "badly typed",
			outputs:     []common.DynamicallyTypedData{common.MustWrap(testMom), bogusData},
			expectedErr: ErrBadlyTyped,
		},
		{
			name: "unknown gender",
			outputs: wrap(modified(testMom, func(k *KittyData) {
				k.Parent.Gender = 7
			})),
			expectedErr: ErrBadlyTyped,
		},
	})
}

func TestUpdateName(t *testing.T) {
	renamed := modified(testMom, func(k *KittyData) { k.Name = [4]byte{'m', 'o', 'm', 'o'} })
	runCheckerTests(t, UpdateName{}, []checkerTestDef{
		{name: "rename", inputs: wrap(testMom), outputs: wrap(renamed)},
		{
			name:    "rename several",
			inputs:  wrap(testMom, testDad),
			outputs: wrap(renamed, modified(testDad, func(k *KittyData) { k.Name = [4]byte{'p', 'o', 'p', 's'} })),
		},
		{name: "nothing", expectedErr: ErrNumberOfInputOutputMismatch},
		{name: "missing output", inputs: wrap(testMom, testDad), outputs: wrap(renamed), expectedErr: ErrNumberOfInputOutputMismatch},
		{name: "wrong order", inputs: wrap(testDad, testMom), outputs: wrap(renamed, testDad), expectedErr: ErrDnaMismatchBetweenInputAndOutput},
		{name: "unaltered", inputs: wrap(testMom), outputs: wrap(testMom), expectedErr: ErrKittyNameUnaltered},
		{
			name:   "free breedings changed",
			inputs: wrap(testMom),
			outputs: wrap(modified(renamed, func(k *KittyData) {
				k.FreeBreedings++
			})),
			expectedErr: ErrFreeBreedingCannotBeUpdated,
		},
		{
			name:   "number of breedings changed",
			inputs: wrap(testMom),
			outputs: wrap(modified(testMom, func(k *KittyData) {
				k.NumBreedings++
			})),
			expectedErr: ErrNumOfBreedingCannotBeUpdated,
		},
		{
			name:   "gender changed",
			inputs: wrap(testMom),
			outputs: wrap(modified(testMom, func(k *KittyData) {
				k.Parent.Gender = Dad
			})),
			expectedErr: ErrKittyGenderCannotBeUpdated,
		},
		{
			name:        "badly typed input",
			inputs:      []common.DynamicallyTypedData{bogusData},
			outputs:     wrap(renamed),
			expectedErr: ErrBadlyTyped,
		},
		{
			name:        "badly typed output",
			inputs:      wrap(testMom),
			outputs:     []common.DynamicallyTypedData{bogusData},
			expectedErr: ErrBadlyTyped,
		},
	})
}

func TestBreed(t *testing.T) {
	otherMom := NewKitty(NewMom(), []byte("other mom"), [4]byte{})
	otherDad := NewKitty(NewDad(), []byte("other dad"), [4]byte{})
	runCheckerTests(t, Breed{}, []checkerTestDef{
		{name: "valid", inputs: wrap(testMom, testDad), outputs: family(nil)},
		{name: "one parent", inputs: wrap(testMom), outputs: family(nil), expectedErr: ErrTwoParentsDoNotExist},
		{name: "three parents", inputs: wrap(testMom, testDad, otherDad), outputs: family(nil), expectedErr: ErrTwoParentsDoNotExist},
		{
			name:        "badly typed parent",
			inputs:      []common.DynamicallyTypedData{common.MustWrap(testMom), bogusData},
			outputs:     family(nil),
			expectedErr: ErrBadlyTyped,
		},
		{name: "two moms", inputs: wrap(testMom, otherMom), outputs: family(nil), expectedErr: ErrTwoMomsNotValid},
		{name: "two dads", inputs: wrap(otherDad, testDad), outputs: family(nil), expectedErr: ErrTwoDadsNotValid},
		{
			name:        "mom resting",
			inputs:      wrap(modified(testMom, func(k *KittyData) { k.Parent.Resting = true }), testDad),
			outputs:     family(nil),
			expectedErr: ErrMomNotReadyYet,
		},
		{
			name:        "dad resting",
			inputs:      wrap(testMom, modified(testDad, func(k *KittyData) { k.Parent.Resting = true })),
			outputs:     family(nil),
			expectedErr: ErrDadTooTired,
		},
		{
			name:        "no free breedings",
			inputs:      wrap(testMom, modified(testDad, func(k *KittyData) { k.FreeBreedings = 0 })),
			outputs:     family(nil),
			expectedErr: ErrNotEnoughFreeBreedings,
		},
		{
			name:        "too many breedings",
			inputs:      wrap(modified(testMom, func(k *KittyData) { k.NumBreedings = math.MaxUint64 }), testDad),
			outputs:     family(nil),
			expectedErr: ErrTooManyBreedingsForKitty,
		},
		{
			name:        "no child",
			inputs:      wrap(testMom, testDad),
			outputs:     family(nil)[:2],
			expectedErr: ErrNotEnoughFamilyMembers,
		},
		{
			name:        "badly typed child",
			inputs:      wrap(testMom, testDad),
			outputs:     append(family(nil)[:2], bogusData),
			expectedErr: ErrBadlyTyped,
		},
		{
			name:   "new mom not resting",
			inputs: wrap(testMom, testDad),
			outputs: family(func(newMom, _, _ *KittyData) {
				newMom.Parent.Resting = false
			}),
			expectedErr: ErrNewMomIsStillRearinToGo,
		},
		{
			name:   "new dad not resting",
			inputs: wrap(testMom, testDad),
			outputs: family(func(_, newDad, _ *KittyData) {
				newDad.Parent.Resting = false
			}),
			expectedErr: ErrNewDadIsStillRearinToGo,
		},
		{
			name:   "new mom became a dad",
			inputs: wrap(testMom, testDad),
			outputs: family(func(newMom, _, _ *KittyData) {
				newMom.Parent.Gender = Dad
			}),
			expectedErr: ErrTwoDadsNotValid,
		},
		{
			name:   "new dad became a mom",
			inputs: wrap(testMom, testDad),
			outputs: family(func(_, newDad, _ *KittyData) {
				newDad.Parent.Gender = Mom
			}),
			expectedErr: ErrTwoMomsNotValid,
		},
		{
			name:   "free breeding not used",
			inputs: wrap(testMom, testDad),
			outputs: family(func(newMom, _, _ *KittyData) {
				newMom.FreeBreedings++
			}),
			expectedErr: ErrNewParentFreeBreedingsIncorrect,
		},
		{
			name:   "breeding not counted",
			inputs: wrap(testMom, testDad),
			outputs: family(func(_, newDad, _ *KittyData) {
				newDad.NumBreedings--
			}),
			expectedErr: ErrNewParentNumberBreedingsIncorrect,
		},
		{
			name:   "parent swapped",
			inputs: wrap(testMom, testDad),
			outputs: family(func(newMom, _, _ *KittyData) {
				newMom.DNA = otherMom.DNA
			}),
			expectedErr: ErrNewParentDnaDoesntMatchOld,
		},
		{
			name:   "child dna",
			inputs: wrap(testMom, testDad),
			outputs: family(func(_, _, child *KittyData) {
				child.DNA = otherDad.DNA
			}),
			expectedErr: ErrNewChildDnaIncorrect,
		},
		{
			name:   "child free breedings",
			inputs: wrap(testMom, testDad),
			outputs: family(func(_, _, child *KittyData) {
				child.FreeBreedings = NumFreeBreedings + 1
			}),
			expectedErr: ErrNewChildFreeBreedingsIncorrect,
		},
		{
			name:   "child already bred",
			inputs: wrap(testMom, testDad),
			outputs: family(func(_, _, child *KittyData) {
				child.NumBreedings = 1
			}),
			expectedErr: ErrNewChildHasNonZeroBreedings,
		},
		{
			name:   "child resting",
			inputs: wrap(testMom, testDad),
			outputs: family(func(_, _, child *KittyData) {
				child.Parent.Resting = true
			}),
			expectedErr: ErrNewChildIncorrectParentInfo,
		},
	})
}

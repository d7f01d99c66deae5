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

// Package kitties is a collectible NFT game. Kitties are minted from nothing,
// renamed, and bred in pairs to produce a child whose DNA is derived from
// both parents
package kitties

import (
	"errors"
	"fmt"
	"math"

	"github.com/blinklabs-io/utxokit/cbor"
	"github.com/blinklabs-io/utxokit/ledger/common"
)

// NumFreeBreedings is the number of breedings every newborn kitty starts with
const NumFreeBreedings uint64 = 2

var (
	ErrBadlyTyped                        = errors.New("badly typed")
	ErrTwoParentsDoNotExist              = errors.New("breeding needs exactly two parents")
	ErrNotEnoughFamilyMembers            = errors.New("breeding must create mom, dad and child")
	ErrMomNotReadyYet                    = errors.New("mom gave birth recently")
	ErrDadTooTired                       = errors.New("dad is too tired")
	ErrTwoMomsNotValid                   = errors.New("two moms cannot breed")
	ErrTwoDadsNotValid                   = errors.New("two dads cannot breed")
	ErrNewMomIsStillRearinToGo           = errors.New("new mom must be resting")
	ErrNewDadIsStillRearinToGo           = errors.New("new dad must be resting")
	ErrNewParentFreeBreedingsIncorrect   = errors.New("new parent free breedings incorrect")
	ErrNewParentDnaDoesntMatchOld        = errors.New("new parent dna does not match old")
	ErrNewParentNumberBreedingsIncorrect = errors.New("new parent number of breedings incorrect")
	ErrNewChildDnaIncorrect              = errors.New("new child dna incorrect")
	ErrNewChildFreeBreedingsIncorrect    = errors.New("new child free breedings incorrect")
	ErrNewChildHasNonZeroBreedings       = errors.New("new child has non-zero breedings")
	ErrNewChildIncorrectParentInfo       = errors.New("new child must not be resting")
	ErrTooManyBreedingsForKitty          = errors.New("too many breedings for kitty")
	ErrNotEnoughFreeBreedings            = errors.New("not enough free breedings")
	ErrCreatingNothing                   = errors.New("creating nothing")
	ErrCreatingWithInputs                = errors.New("creating with inputs")
	ErrNumberOfInputOutputMismatch       = errors.New("number of inputs and outputs differ")
	ErrDnaMismatchBetweenInputAndOutput  = errors.New("dna mismatch between input and output")
	ErrKittyNameUnaltered                = errors.New("kitty name unaltered")
	ErrFreeBreedingCannotBeUpdated       = errors.New("free breedings cannot be updated")
	ErrNumOfBreedingCannotBeUpdated      = errors.New("number of breedings cannot be updated")
	ErrKittyGenderCannotBeUpdated        = errors.New("kitty gender cannot be updated")
)

type Gender uint8

const (
	Mom Gender = 0
	Dad Gender = 1
)

func (g Gender) String() string {
	switch g {
	case Mom:
		return "Mom"
	case Dad:
		return "Dad"
	}
	return fmt.Sprintf("Gender(%d)", uint8(g))
}

// Parent is the breeding state of a kitty. A resting mom gave birth
// recently, and a resting dad is tired. Neither can breed while resting
type Parent struct {
	cbor.StructAsArray
	Gender  Gender
	Resting bool
}

func NewMom() Parent {
	return Parent{Gender: Mom}
}

func NewDad() Parent {
	return Parent{Gender: Dad}
}

// KittyData is a single kitty. DNA never changes and identifies the kitty
// across renames and breedings
type KittyData struct {
	cbor.StructAsArray
	Parent        Parent
	FreeBreedings uint64
	DNA           common.Blake2b256
	NumBreedings  uint64
	Name          [4]byte
}

func (KittyData) TypeId() common.TypeId {
	return common.TypeId{'K', 'i', 't', 't'}
}

func init() {
	_ = common.DefaultTypeRegistry.Register("kitties.KittyData", KittyData{})
}

// NewKitty returns a newborn kitty whose DNA is the hash of dnaPreimage
func NewKitty(parent Parent, dnaPreimage []byte, name [4]byte) KittyData {
	return KittyData{
		Parent:        parent,
		FreeBreedings: NumFreeBreedings,
		DNA:           common.Blake2b256Hash(dnaPreimage),
		Name:          name,
	}
}

// ChildDNA derives a child's DNA from its parents as they are after the
// breeding that produced it
func ChildDNA(newMom, newDad KittyData) common.Blake2b256 {
	tmp := struct {
		cbor.StructAsArray
		MomDNA          common.Blake2b256
		DadDNA          common.Blake2b256
		MomNumBreedings uint64
		DadNumBreedings uint64
	}{
		MomDNA:          newMom.DNA,
		DadDNA:          newDad.DNA,
		MomNumBreedings: newMom.NumBreedings,
		DadNumBreedings: newDad.NumBreedings,
	}
	return common.Blake2b256Hash(cbor.MustEncode(&tmp))
}

// Family returns the outputs of a valid Breed transaction for mom and dad:
// both parents resting with one breeding used, followed by their child
func Family(mom, dad KittyData, child Parent, name [4]byte) []KittyData {
	newMom := mom
	newMom.Parent.Resting = true
	newMom.FreeBreedings--
	newMom.NumBreedings++
	newDad := dad
	newDad.Parent.Resting = true
	newDad.FreeBreedings--
	newDad.NumBreedings++
	return []KittyData{
		newMom,
		newDad,
		{
			Parent:        Parent{Gender: child.Gender},
			FreeBreedings: NumFreeBreedings,
			DNA:           ChildDNA(newMom, newDad),
			Name:          name,
		},
	}
}

func extractKitty(data common.DynamicallyTypedData) (KittyData, error) {
	kitty, err := common.Extract[KittyData](data)
	if err != nil {
		return KittyData{}, ErrBadlyTyped
	}
	if kitty.Parent.Gender != Mom && kitty.Parent.Gender != Dad {
		return KittyData{}, ErrBadlyTyped
	}
	return kitty, nil
}

// Create mints any number of new kitties from nothing
type Create struct {
	cbor.StructAsArray
}

func (Create) Check(
	inputs, _, outputs []common.DynamicallyTypedData,
) (common.CheckingSuccess, error) {
	if len(inputs) != 0 {
		return common.CheckingSuccess{}, ErrCreatingWithInputs
	}
	if len(outputs) == 0 {
		return common.CheckingSuccess{}, ErrCreatingNothing
	}
	for _, output := range outputs {
		if _, err := extractKitty(output); err != nil {
			return common.CheckingSuccess{}, err
		}
	}
	return common.CheckingSuccess{
		Accumulator: common.NoopAccumulator{},
	}, nil
}

// UpdateName renames kitties. Input i is replaced by output i, which may
// differ from it in name only
type UpdateName struct {
	cbor.StructAsArray
}

func (UpdateName) Check(
	inputs, _, outputs []common.DynamicallyTypedData,
) (common.CheckingSuccess, error) {
	if len(inputs) != len(outputs) || len(inputs) == 0 {
		return common.CheckingSuccess{}, ErrNumberOfInputOutputMismatch
	}
	for i := range inputs {
		original, err := extractKitty(inputs[i])
		if err != nil {
			return common.CheckingSuccess{}, err
		}
		updated, err := extractKitty(outputs[i])
		if err != nil {
			return common.CheckingSuccess{}, err
		}
		if err := checkRename(original, updated); err != nil {
			return common.CheckingSuccess{}, err
		}
	}
	return common.CheckingSuccess{
		Accumulator: common.NoopAccumulator{},
	}, nil
}

func checkRename(original, updated KittyData) error {
	if original.DNA != updated.DNA {
		return ErrDnaMismatchBetweenInputAndOutput
	}
	if original == updated {
		return ErrKittyNameUnaltered
	}
	if original.FreeBreedings != updated.FreeBreedings {
		return ErrFreeBreedingCannotBeUpdated
	}
	if original.NumBreedings != updated.NumBreedings {
		return ErrNumOfBreedingCannotBeUpdated
	}
	if original.Parent != updated.Parent {
		return ErrKittyGenderCannotBeUpdated
	}
	return nil
}

// Breed consumes a mom and a dad, in that order, and creates the new mom,
// the new dad and their child, in that order
type Breed struct {
	cbor.StructAsArray
}

func (Breed) Check(
	inputs, _, outputs []common.DynamicallyTypedData,
) (common.CheckingSuccess, error) {
	if len(inputs) != 2 {
		return common.CheckingSuccess{}, ErrTwoParentsDoNotExist
	}
	mom, err := extractKitty(inputs[0])
	if err != nil {
		return common.CheckingSuccess{}, err
	}
	dad, err := extractKitty(inputs[1])
	if err != nil {
		return common.CheckingSuccess{}, err
	}
	if err := checkCanBreed(mom, dad); err != nil {
		return common.CheckingSuccess{}, err
	}
	if len(outputs) != 3 {
		return common.CheckingSuccess{}, ErrNotEnoughFamilyMembers
	}
	family := make([]KittyData, 0, len(outputs))
	for _, output := range outputs {
		kitty, err := extractKitty(output)
		if err != nil {
			return common.CheckingSuccess{}, err
		}
		family = append(family, kitty)
	}
	newMom, newDad, child := family[0], family[1], family[2]
	if err := checkNewParent(mom, newMom, Mom); err != nil {
		return common.CheckingSuccess{}, err
	}
	if err := checkNewParent(dad, newDad, Dad); err != nil {
		return common.CheckingSuccess{}, err
	}
	if err := checkChild(newMom, newDad, child); err != nil {
		return common.CheckingSuccess{}, err
	}
	return common.CheckingSuccess{
		Accumulator: common.NoopAccumulator{},
	}, nil
}

func checkCanBreed(mom, dad KittyData) error {
	if mom.Parent.Gender != Mom {
		return ErrTwoDadsNotValid
	}
	if mom.Parent.Resting {
		return ErrMomNotReadyYet
	}
	if mom.NumBreedings == math.MaxUint64 {
		return ErrTooManyBreedingsForKitty
	}
	if dad.Parent.Gender != Dad {
		return ErrTwoMomsNotValid
	}
	if dad.Parent.Resting {
		return ErrDadTooTired
	}
	if dad.NumBreedings == math.MaxUint64 {
		return ErrTooManyBreedingsForKitty
	}
	if mom.FreeBreedings == 0 || dad.FreeBreedings == 0 {
		return ErrNotEnoughFreeBreedings
	}
	return nil
}

// checkNewParent checks that updated is old after one breeding. Callers
// have already checked that old can breed
func checkNewParent(old, updated KittyData, gender Gender) error {
	if updated.Parent.Gender != gender {
		if gender == Mom {
			return ErrTwoDadsNotValid
		}
		return ErrTwoMomsNotValid
	}
	if !updated.Parent.Resting {
		if gender == Mom {
			return ErrNewMomIsStillRearinToGo
		}
		return ErrNewDadIsStillRearinToGo
	}
	if updated.FreeBreedings != old.FreeBreedings-1 {
		return ErrNewParentFreeBreedingsIncorrect
	}
	if updated.NumBreedings != old.NumBreedings+1 {
		return ErrNewParentNumberBreedingsIncorrect
	}
	if updated.DNA != old.DNA {
		return ErrNewParentDnaDoesntMatchOld
	}
	return nil
}

func checkChild(newMom, newDad, child KittyData) error {
	if child.DNA != ChildDNA(newMom, newDad) {
		return ErrNewChildDnaIncorrect
	}
	if child.FreeBreedings != NumFreeBreedings {
		return ErrNewChildFreeBreedingsIncorrect
	}
	if child.NumBreedings != 0 {
		return ErrNewChildHasNonZeroBreedings
	}
	if child.Parent.Resting {
		return ErrNewChildIncorrectParentInfo
	}
	return nil
}

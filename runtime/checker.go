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

package runtime

import (
	"errors"
	"fmt"

	"github.com/blinklabs-io/utxokit/cbor"
	"github.com/blinklabs-io/utxokit/ledger/common"
	"github.com/blinklabs-io/utxokit/pieces/amoeba"
	"github.com/blinklabs-io/utxokit/pieces/dex"
	"github.com/blinklabs-io/utxokit/pieces/kitties"
	"github.com/blinklabs-io/utxokit/pieces/money"
	"github.com/blinklabs-io/utxokit/pieces/poe"
)

const (
	CheckerTypeSpendMoney      = 0
	CheckerTypeMintMoney       = 1
	CheckerTypeAmoebaMitosis   = 2
	CheckerTypeAmoebaDeath     = 3
	CheckerTypeAmoebaCreation  = 4
	CheckerTypePoeClaim        = 5
	CheckerTypePoeRevoke       = 6
	CheckerTypeSpendTokenA     = 7
	CheckerTypeSpendTokenB     = 8
	CheckerTypeMintTokenA      = 9
	CheckerTypeMintTokenB      = 10
	CheckerTypeMakeOrderAB     = 11
	CheckerTypeMakeOrderBA     = 12
	CheckerTypeMatchOrders     = 13
	CheckerTypeKittyCreate     = 14
	CheckerTypeKittyBreed      = 15
	CheckerTypeKittyUpdateName = 16
)

var ErrUnknownChecker = errors.New("unknown constraint checker")

type (
	OrderAForB  = dex.Order[OuterVerifier, money.TokenA, money.TokenB]
	OrderBForA  = dex.Order[OuterVerifier, money.TokenB, money.TokenA]
	MakeOrderAB = dex.MakeOrder[OuterVerifier, money.TokenA, money.TokenB]
	MakeOrderBA = dex.MakeOrder[OuterVerifier, money.TokenB, money.TokenA]
	MatchOrders = dex.MatchOrders[OuterVerifier, money.TokenA, money.TokenB]
	PoeClaim    = poe.Claim[OuterVerifier]
)

// OuterConstraintChecker is the closed set of constraint checkers this
// runtime accepts. Checker holds either a common.SimpleConstraintChecker or a
// common.ConstraintChecker[OuterVerifier]. It encodes as [type, checker]
type OuterConstraintChecker struct {
	Type    uint
	Checker any
}

// NewOuterConstraintChecker wraps one of the checkers listed above. It panics
// if c is not one of them
func NewOuterConstraintChecker(c any) OuterConstraintChecker {
	checkerType, err := outerCheckerType(c)
	if err != nil {
		panic(err.Error())
	}
	return OuterConstraintChecker{
		Type:    checkerType,
		Checker: c,
	}
}

func outerCheckerType(c any) (uint, error) {
	switch c.(type) {
	case money.SpendMoney[money.Native]:
		return CheckerTypeSpendMoney, nil
	case money.MintMoney[money.Native]:
		return CheckerTypeMintMoney, nil
	case amoeba.Mitosis:
		return CheckerTypeAmoebaMitosis, nil
	case amoeba.Death:
		return CheckerTypeAmoebaDeath, nil
	case amoeba.Creation:
		return CheckerTypeAmoebaCreation, nil
	case PoeClaim:
		return CheckerTypePoeClaim, nil
	case poe.Revoke:
		return CheckerTypePoeRevoke, nil
	case money.SpendMoney[money.TokenA]:
		return CheckerTypeSpendTokenA, nil
	case money.SpendMoney[money.TokenB]:
		return CheckerTypeSpendTokenB, nil
	case money.MintMoney[money.TokenA]:
		return CheckerTypeMintTokenA, nil
	case money.MintMoney[money.TokenB]:
		return CheckerTypeMintTokenB, nil
	case MakeOrderAB:
		return CheckerTypeMakeOrderAB, nil
	case MakeOrderBA:
		return CheckerTypeMakeOrderBA, nil
	case MatchOrders:
		return CheckerTypeMatchOrders, nil
	case kitties.Create:
		return CheckerTypeKittyCreate, nil
	case kitties.Breed:
		return CheckerTypeKittyBreed, nil
	case kitties.UpdateName:
		return CheckerTypeKittyUpdateName, nil
	}
	return 0, fmt.Errorf("%w: %T", ErrUnknownChecker, c)
}

func (c OuterConstraintChecker) Check(
	env common.Environment,
	inputs, peeks, outputs []common.Output[OuterVerifier],
) (common.CheckingSuccess, error) {
	switch checker := c.Checker.(type) {
	case common.ConstraintChecker[OuterVerifier]:
		return checker.Check(env, inputs, peeks, outputs)
	case common.SimpleConstraintChecker:
		return common.Widen[OuterVerifier](checker).Check(env, inputs, peeks, outputs)
	}
	return common.CheckingSuccess{}, fmt.Errorf("%w: %T", ErrUnknownChecker, c.Checker)
}

func (c OuterConstraintChecker) MarshalCBOR() ([]byte, error) {
	checkerType, err := outerCheckerType(c.Checker)
	if err != nil {
		return nil, err
	}
	return cbor.EncodeVariant(checkerType, c.Checker)
}

func (c *OuterConstraintChecker) UnmarshalCBOR(data []byte) error {
	checkerType, err := cbor.DecodeIdFromList(data)
	if err != nil {
		return err
	}
	var tmpChecker any
	switch checkerType {
	case CheckerTypeSpendMoney:
		tmpChecker, err = decodeVariantPayload[money.SpendMoney[money.Native]](data)
	case CheckerTypeMintMoney:
		tmpChecker, err = decodeVariantPayload[money.MintMoney[money.Native]](data)
	case CheckerTypeAmoebaMitosis:
		tmpChecker, err = decodeVariantPayload[amoeba.Mitosis](data)
	case CheckerTypeAmoebaDeath:
		tmpChecker, err = decodeVariantPayload[amoeba.Death](data)
	case CheckerTypeAmoebaCreation:
		tmpChecker, err = decodeVariantPayload[amoeba.Creation](data)
	case CheckerTypePoeClaim:
		tmpChecker, err = decodeVariantPayload[PoeClaim](data)
	case CheckerTypePoeRevoke:
		tmpChecker, err = decodeVariantPayload[poe.Revoke](data)
	case CheckerTypeSpendTokenA:
		tmpChecker, err = decodeVariantPayload[money.SpendMoney[money.TokenA]](data)
	case CheckerTypeSpendTokenB:
		tmpChecker, err = decodeVariantPayload[money.SpendMoney[money.TokenB]](data)
	case CheckerTypeMintTokenA:
		tmpChecker, err = decodeVariantPayload[money.MintMoney[money.TokenA]](data)
	case CheckerTypeMintTokenB:
		tmpChecker, err = decodeVariantPayload[money.MintMoney[money.TokenB]](data)
	case CheckerTypeMakeOrderAB:
		tmpChecker, err = decodeVariantPayload[MakeOrderAB](data)
	case CheckerTypeMakeOrderBA:
		tmpChecker, err = decodeVariantPayload[MakeOrderBA](data)
	case CheckerTypeMatchOrders:
		tmpChecker, err = decodeVariantPayload[MatchOrders](data)
	case CheckerTypeKittyCreate:
		tmpChecker, err = decodeVariantPayload[kitties.Create](data)
	case CheckerTypeKittyBreed:
		tmpChecker, err = decodeVariantPayload[kitties.Breed](data)
	case CheckerTypeKittyUpdateName:
		tmpChecker, err = decodeVariantPayload[kitties.UpdateName](data)
	default:
		return fmt.Errorf("%w: type %d", ErrUnknownChecker, checkerType)
	}
	if err != nil {
		return err
	}
	// checkerType is known within uint range
	c.Type = uint(checkerType) // #nosec G115
	c.Checker = tmpChecker
	return nil
}

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

// Package dex implements an order book for swapping one token for another.
// Makers lock collateral in an order, and matchers later consume compatible
// orders together, paying each maker exactly what they asked for
package dex

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/blinklabs-io/utxokit/cbor"
	"github.com/blinklabs-io/utxokit/ledger/common"
	"github.com/blinklabs-io/utxokit/pieces/money"
	"github.com/holiman/uint256"
)

var (
	ErrTypeError                      = errors.New("type error")
	ErrOrderMissing                   = errors.New("order missing")
	ErrTooManyOutputsWhenMakingOrder  = errors.New("too many outputs when making order")
	ErrNotEnoughCollateralToOpenOrder = errors.New("not enough collateral to open order")
	ErrOrderAndPayoutCountDiffer      = errors.New("order and payout count differ")
	ErrPayoutDoesNotSatisfyOrder      = errors.New("payout does not satisfy order")
	ErrInsufficientTokenAForMatch     = errors.New("insufficient token A for match")
	ErrInsufficientTokenBForMatch     = errors.New("insufficient token B for match")
	ErrVerifierMismatchForTrade       = errors.New("verifier mismatch for trade")
	ErrValueOverflow                  = errors.New("value overflow")
	ErrNotEnoughOrders                = errors.New("a match needs at least two orders")
	ErrZeroValueOrder                 = errors.New("order offers or asks nothing")
	ErrZeroValuePayout                = errors.New("payout has zero value")
)

// Order offers an amount of token A in exchange for an amount of token B.
// Whoever fills the order must create a Coin[B] of exactly AskAmount guarded
// by PayoutVerifier
type Order[V any, A, B money.Instance] struct {
	OfferAmount    uint256.Int
	AskAmount      uint256.Int
	PayoutVerifier V
}

// orderCbor is the wire layout of Order. Amounts use the same minimal
// big-endian encoding as coins
type orderCbor[V any] struct {
	cbor.StructAsArray
	OfferAmount    []byte
	AskAmount      []byte
	PayoutVerifier V
}

func NewOrder[V any, A, B money.Instance](
	offer, ask uint64,
	payoutVerifier V,
) Order[V, A, B] {
	return Order[V, A, B]{
		OfferAmount:    *uint256.NewInt(offer),
		AskAmount:      *uint256.NewInt(ask),
		PayoutVerifier: payoutVerifier,
	}
}

// TypeId encodes both sides of the pair, so an A for B order never decodes
// as a B for A order
func (Order[V, A, B]) TypeId() common.TypeId {
	var a A
	var b B
	return common.TypeId{'o', 'r', a.InstanceId(), b.InstanceId()}
}

func (o Order[V, A, B]) String() string {
	var a A
	var b B
	return fmt.Sprintf(
		"Order(%s of %d for %s of %d)",
		o.OfferAmount.Dec(),
		a.InstanceId(),
		o.AskAmount.Dec(),
		b.InstanceId(),
	)
}

func (o Order[V, A, B]) MarshalCBOR() ([]byte, error) {
	tmp := orderCbor[V]{
		OfferAmount:    money.AmountBytes(o.OfferAmount),
		AskAmount:      money.AmountBytes(o.AskAmount),
		PayoutVerifier: o.PayoutVerifier,
	}
	return cbor.Encode(&tmp)
}

func (o *Order[V, A, B]) UnmarshalCBOR(data []byte) error {
	var tmp orderCbor[V]
	if _, err := cbor.Decode(data, &tmp); err != nil {
		return err
	}
	offer, err := money.AmountFromBytes(tmp.OfferAmount)
	if err != nil {
		return fmt.Errorf("offer amount: %w", err)
	}
	ask, err := money.AmountFromBytes(tmp.AskAmount)
	if err != nil {
		return fmt.Errorf("ask amount: %w", err)
	}
	o.OfferAmount = offer
	o.AskAmount = ask
	o.PayoutVerifier = tmp.PayoutVerifier
	return nil
}

// MakeOrder opens a single order, consuming coins of the offered token as
// collateral. Collateral beyond the offer amount is forfeited
type MakeOrder[V any, A, B money.Instance] struct {
	cbor.StructAsArray
}

func (MakeOrder[V, A, B]) Check(
	inputs, _, outputs []common.DynamicallyTypedData,
) (common.CheckingSuccess, error) {
	if len(outputs) == 0 {
		return common.CheckingSuccess{}, ErrOrderMissing
	}
	if len(outputs) > 1 {
		return common.CheckingSuccess{}, ErrTooManyOutputsWhenMakingOrder
	}
	order, err := common.Extract[Order[V, A, B]](outputs[0])
	if err != nil {
		return common.CheckingSuccess{}, ErrTypeError
	}
	if order.OfferAmount.IsZero() || order.AskAmount.IsZero() {
		return common.CheckingSuccess{}, ErrZeroValueOrder
	}
	var collateral uint256.Int
	for _, input := range inputs {
		coin, err := common.Extract[money.Coin[A]](input)
		if err != nil {
			return common.CheckingSuccess{}, ErrTypeError
		}
		if _, overflow := collateral.AddOverflow(&collateral, &coin.Value); overflow {
			return common.CheckingSuccess{}, ErrValueOverflow
		}
	}
	if collateral.Lt(&order.OfferAmount) {
		return common.CheckingSuccess{}, ErrNotEnoughCollateralToOpenOrder
	}
	return common.CheckingSuccess{
		Accumulator: common.NoopAccumulator{},
	}, nil
}

// MatchOrders fills two or more orders in either direction of the A/B pair.
// Input i is an order and output i is its payout. The orders taken together
// must offer at least as much of each token as they ask for
type MatchOrders[V any, A, B money.Instance] struct {
	cbor.StructAsArray
}

// side is the direction-independent view of one order
type side struct {
	offer    uint256.Int
	ask      uint256.Int
	offersA  bool
	verifier []byte
}

func (MatchOrders[V, A, B]) Check(
	_ common.Environment,
	inputs, _, outputs []common.Output[V],
) (common.CheckingSuccess, error) {
	if len(inputs) != len(outputs) {
		return common.CheckingSuccess{}, ErrOrderAndPayoutCountDiffer
	}
	if len(inputs) < 2 {
		return common.CheckingSuccess{}, ErrNotEnoughOrders
	}
	var offeredA, askedA, offeredB, askedB uint256.Int
	for i, input := range inputs {
		order, err := decodeSide[V, A, B](input.Payload)
		if err != nil {
			return common.CheckingSuccess{}, err
		}
		payout := outputs[i]
		var paid uint256.Int
		if order.offersA {
			coin, err := common.Extract[money.Coin[B]](payout.Payload)
			if err != nil {
				return common.CheckingSuccess{}, ErrTypeError
			}
			paid = coin.Value
		} else {
			coin, err := common.Extract[money.Coin[A]](payout.Payload)
			if err != nil {
				return common.CheckingSuccess{}, ErrTypeError
			}
			paid = coin.Value
		}
		if paid.IsZero() {
			return common.CheckingSuccess{}, ErrZeroValuePayout
		}
		if !paid.Eq(&order.ask) {
			return common.CheckingSuccess{}, ErrPayoutDoesNotSatisfyOrder
		}
		payoutVerifier, err := cbor.Encode(payout.Verifier)
		if err != nil {
			return common.CheckingSuccess{}, ErrVerifierMismatchForTrade
		}
		if !bytes.Equal(payoutVerifier, order.verifier) {
			return common.CheckingSuccess{}, ErrVerifierMismatchForTrade
		}
		var overflow bool
		if order.offersA {
			_, overflow = offeredA.AddOverflow(&offeredA, &order.offer)
			if !overflow {
				_, overflow = askedB.AddOverflow(&askedB, &order.ask)
			}
		} else {
			_, overflow = offeredB.AddOverflow(&offeredB, &order.offer)
			if !overflow {
				_, overflow = askedA.AddOverflow(&askedA, &order.ask)
			}
		}
		if overflow {
			return common.CheckingSuccess{}, ErrValueOverflow
		}
	}
	if offeredA.Lt(&askedA) {
		return common.CheckingSuccess{}, ErrInsufficientTokenAForMatch
	}
	if offeredB.Lt(&askedB) {
		return common.CheckingSuccess{}, ErrInsufficientTokenBForMatch
	}
	return common.CheckingSuccess{
		Accumulator: common.NoopAccumulator{},
	}, nil
}

func decodeSide[V any, A, B money.Instance](
	data common.DynamicallyTypedData,
) (side, error) {
	if forward, err := common.Extract[Order[V, A, B]](data); err == nil {
		return newSide(forward.OfferAmount, forward.AskAmount, true, forward.PayoutVerifier)
	}
	if reverse, err := common.Extract[Order[V, B, A]](data); err == nil {
		return newSide(reverse.OfferAmount, reverse.AskAmount, false, reverse.PayoutVerifier)
	}
	return side{}, ErrTypeError
}

func newSide(offer, ask uint256.Int, offersA bool, verifier any) (side, error) {
	if offer.IsZero() || ask.IsZero() {
		return side{}, ErrZeroValueOrder
	}
	verifierCbor, err := cbor.Encode(verifier)
	if err != nil {
		return side{}, ErrTypeError
	}
	return side{
		offer:    offer,
		ask:      ask,
		offersA:  offersA,
		verifier: verifierCbor,
	}, nil
}

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

package money

import (
	"errors"

	"github.com/blinklabs-io/utxokit/cbor"
	"github.com/blinklabs-io/utxokit/ledger/common"
	"github.com/holiman/uint256"
)

var (
	// ErrBadlyTyped does not distinguish between badly typed inputs and outputs
	ErrBadlyTyped          = errors.New("badly typed")
	ErrMintingWithInputs   = errors.New("minting with inputs")
	ErrMintingNothing      = errors.New("minting nothing")
	ErrSpendingNothing     = errors.New("spending nothing")
	ErrOutputsExceedInputs = errors.New("outputs exceed inputs")
	ErrValueOverflow       = errors.New("value overflow")
	ErrZeroValueCoin       = errors.New("zero value coin")
)

// ImbalancedFundsAccumulator tallies the coins burned by spends in a block
type ImbalancedFundsAccumulator struct{}

func (ImbalancedFundsAccumulator) Key() string {
	return "imbalanc"
}

func (ImbalancedFundsAccumulator) Initial() uint256.Int {
	return uint256.Int{}
}

func (ImbalancedFundsAccumulator) Accumulate(a, b uint256.Int) (uint256.Int, error) {
	var ret uint256.Int
	if _, overflow := ret.AddOverflow(&a, &b); overflow {
		return uint256.Int{}, ErrValueOverflow
	}
	return ret, nil
}

// SpendMoney consumes coins and creates coins of no greater total value.
// The difference is burned and becomes the transaction's priority
type SpendMoney[I Instance] struct {
	cbor.StructAsArray
}

func (SpendMoney[I]) Check(
	inputs, _, outputs []common.DynamicallyTypedData,
) (common.CheckingSuccess, error) {
	if len(inputs) == 0 {
		return common.CheckingSuccess{}, ErrSpendingNothing
	}
	var totalInput, totalOutput uint256.Int
	for _, input := range inputs {
		coin, err := common.Extract[Coin[I]](input)
		if err != nil {
			return common.CheckingSuccess{}, ErrBadlyTyped
		}
		if _, overflow := totalInput.AddOverflow(&totalInput, &coin.Value); overflow {
			return common.CheckingSuccess{}, ErrValueOverflow
		}
	}
	for _, output := range outputs {
		coin, err := common.Extract[Coin[I]](output)
		if err != nil {
			return common.CheckingSuccess{}, ErrBadlyTyped
		}
		if coin.Value.IsZero() {
			return common.CheckingSuccess{}, ErrZeroValueCoin
		}
		if _, overflow := totalOutput.AddOverflow(&totalOutput, &coin.Value); overflow {
			return common.CheckingSuccess{}, ErrValueOverflow
		}
	}
	if totalOutput.Gt(&totalInput) {
		return common.CheckingSuccess{}, ErrOutputsExceedInputs
	}
	var burned uint256.Int
	burned.Sub(&totalInput, &totalOutput)
	return common.CheckingSuccess{
		Priority:         common.SaturatingUint64(&burned),
		Accumulator:      ImbalancedFundsAccumulator{},
		AccumulatorValue: burned,
	}, nil
}

// MintMoney creates coins from nothing. It has no inputs and no priority
type MintMoney[I Instance] struct {
	cbor.StructAsArray
}

func (MintMoney[I]) Check(
	inputs, _, outputs []common.DynamicallyTypedData,
) (common.CheckingSuccess, error) {
	if len(inputs) > 0 {
		return common.CheckingSuccess{}, ErrMintingWithInputs
	}
	if len(outputs) == 0 {
		return common.CheckingSuccess{}, ErrMintingNothing
	}
	for _, output := range outputs {
		coin, err := common.Extract[Coin[I]](output)
		if err != nil {
			return common.CheckingSuccess{}, ErrBadlyTyped
		}
		if coin.Value.IsZero() {
			return common.CheckingSuccess{}, ErrZeroValueCoin
		}
	}
	return common.CheckingSuccess{
		Accumulator: common.NoopAccumulator{},
	}, nil
}

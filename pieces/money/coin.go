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
	"fmt"

	"github.com/blinklabs-io/utxokit/cbor"
	"github.com/blinklabs-io/utxokit/ledger/common"
	"github.com/holiman/uint256"
)

// Instance identifies one fungible token. Each instance gets its own TypeId,
// so coins of different instances can never be confused
type Instance interface {
	InstanceId() uint8
}

// Native is the chain's default token
type Native struct{}

func (Native) InstanceId() uint8 { return 0 }

// TokenA is a second token, used as one side of trading pairs
type TokenA struct{}

func (TokenA) InstanceId() uint8 { return 1 }

// TokenB is a third token, used as the other side of trading pairs
type TokenB struct{}

func (TokenB) InstanceId() uint8 { return 2 }

// Cash is implemented by payloads that behave like a coin
type Cash interface {
	common.UtxoData
	Amount() uint256.Int
}

// Coin is a single coin of token instance I
type Coin[I Instance] struct {
	Value uint256.Int
}

func NewCoin[I Instance](amount uint64) Coin[I] {
	return Coin[I]{
		Value: *uint256.NewInt(amount),
	}
}

func (Coin[I]) TypeId() common.TypeId {
	var i I
	return common.TypeId{'c', 'o', 'i', i.InstanceId()}
}

func (c Coin[I]) Amount() uint256.Int {
	return c.Value
}

func (c Coin[I]) String() string {
	var i I
	return fmt.Sprintf("Coin<%d>(%s)", i.InstanceId(), c.Value.Dec())
}

// MarshalCBOR encodes the value as its minimal big-endian bytes
func (c Coin[I]) MarshalCBOR() ([]byte, error) {
	return cbor.Encode(AmountBytes(c.Value))
}

func (c *Coin[I]) UnmarshalCBOR(data []byte) error {
	var tmpData []byte
	if _, err := cbor.Decode(data, &tmpData); err != nil {
		return err
	}
	value, err := AmountFromBytes(tmpData)
	if err != nil {
		return err
	}
	c.Value = value
	return nil
}

// AmountBytes returns the minimal big-endian encoding of an amount. Zero is
// encoded as no bytes at all
func AmountBytes(v uint256.Int) []byte {
	return v.Bytes()
}

// AmountFromBytes is the inverse of AmountBytes. Only the minimal encoding is
// accepted so that every amount has exactly one encoding
func AmountFromBytes(data []byte) (uint256.Int, error) {
	var ret uint256.Int
	if len(data) > 32 {
		return ret, fmt.Errorf("amount too large: %d bytes", len(data))
	}
	if len(data) > 0 && data[0] == 0 {
		return ret, errors.New("amount has leading zero bytes")
	}
	ret.SetBytes(data)
	return ret, nil
}

func init() {
	_ = common.DefaultTypeRegistry.Register("money.Coin[Native]", Coin[Native]{})
	_ = common.DefaultTypeRegistry.Register("money.Coin[TokenA]", Coin[TokenA]{})
	_ = common.DefaultTypeRegistry.Register("money.Coin[TokenB]", Coin[TokenB]{})
}

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
	"encoding/hex"
	"errors"
	"fmt"

	"github.com/blinklabs-io/utxokit/ledger/common"
	"github.com/blinklabs-io/utxokit/ledger/utxo"
	"github.com/blinklabs-io/utxokit/ledger/verifier"
	"github.com/blinklabs-io/utxokit/pieces/money"
	"github.com/mitchellh/mapstructure"
)

const (
	GenesisTokenNative = "native"
	GenesisTokenA      = "tokenA"
	GenesisTokenB      = "tokenB"
)

var ErrInvalidGenesis = errors.New("invalid genesis")

// GenesisOutput is one coin created at genesis. An empty Token means the
// native token, and an empty Owner leaves the coin up for grabs
type GenesisOutput struct {
	Token  string `mapstructure:"token"`
	Amount uint64 `mapstructure:"amount"`
	// Owner is the hex encoded ed25519 public key that may spend the coin
	Owner string `mapstructure:"owner"`
}

type GenesisConfig struct {
	Outputs []GenesisOutput `mapstructure:"outputs"`
}

// DecodeGenesisConfig decodes a genesis config from the generic map produced
// by a JSON or YAML decoder. Unknown keys are rejected
func DecodeGenesisConfig(raw map[string]any) (*GenesisConfig, error) {
	var ret GenesisConfig
	decoder, err := mapstructure.NewDecoder(
		&mapstructure.DecoderConfig{
			ErrorUnused: true,
			Result:      &ret,
		},
	)
	if err != nil {
		return nil, err
	}
	if err := decoder.Decode(raw); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidGenesis, err)
	}
	return &ret, nil
}

// Build returns the genesis outputs in config order
func (g *GenesisConfig) Build() ([]Output, error) {
	ret := make([]Output, 0, len(g.Outputs))
	for i, genesisOutput := range g.Outputs {
		output, err := genesisOutput.build()
		if err != nil {
			return nil, fmt.Errorf("%w: output %d: %w", ErrInvalidGenesis, i, err)
		}
		ret = append(ret, output)
	}
	return ret, nil
}

func (o GenesisOutput) build() (Output, error) {
	if o.Amount == 0 {
		return Output{}, money.ErrZeroValueCoin
	}
	var payload common.UtxoData
	switch o.Token {
	case "", GenesisTokenNative:
		payload = money.NewCoin[money.Native](o.Amount)
	case GenesisTokenA:
		payload = money.NewCoin[money.TokenA](o.Amount)
	case GenesisTokenB:
		payload = money.NewCoin[money.TokenB](o.Amount)
	default:
		return Output{}, fmt.Errorf("unknown token: %s", o.Token)
	}
	var owner common.Verifier = verifier.UpForGrabs{}
	if o.Owner != "" {
		ownerBytes, err := hex.DecodeString(o.Owner)
		if err != nil {
			return Output{}, fmt.Errorf("decode owner: %w", err)
		}
		pubKey := verifier.NewPublicKey(ownerBytes)
		if len(ownerBytes) != len(pubKey) || !pubKey.Valid() {
			return Output{}, fmt.Errorf("owner is not a valid public key: %s", o.Owner)
		}
		owner = verifier.SigCheck{OwnerPubkey: pubKey}
	}
	return NewOutput(payload, owner)
}

// GenesisOutputRef is where the genesis output at index is stored. Genesis
// outputs are not created by a transaction, so they all share the zero hash
func GenesisOutputRef(index uint32) common.OutputRef {
	return common.OutputRef{
		Index: index,
	}
}

// ApplyGenesis stores every genesis output through exec in one atomic write
// and returns their refs in config order
func ApplyGenesis(exec *Executive, config *GenesisConfig) ([]common.OutputRef, error) {
	outputs, err := config.Build()
	if err != nil {
		return nil, err
	}
	refs := make([]common.OutputRef, 0, len(outputs))
	entries := make([]utxo.Entry[OuterVerifier], 0, len(outputs))
	for i, output := range outputs {
		// #nosec G115 -- a genesis config never holds more than MaxUint32 outputs
		ref := GenesisOutputRef(uint32(i))
		refs = append(refs, ref)
		entries = append(entries, utxo.Entry[OuterVerifier]{
			Ref:    ref,
			Output: output,
		})
	}
	if err := exec.Seed(entries); err != nil {
		return nil, err
	}
	return refs, nil
}

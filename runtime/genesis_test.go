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
	"encoding/json"
	"testing"

	"github.com/blinklabs-io/utxokit/internal/test"
	"github.com/blinklabs-io/utxokit/ledger/common"
	"github.com/blinklabs-io/utxokit/ledger/utxo"
	"github.com/blinklabs-io/utxokit/ledger/verifier"
	"github.com/blinklabs-io/utxokit/pieces/money"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func genesisFromJson(t *testing.T, data string) (*GenesisConfig, error) {
	t.Helper()
	var raw map[string]any
	require.NoError(t, json.Unmarshal([]byte(data), &raw))
	return DecodeGenesisConfig(raw)
}

func TestDecodeGenesisConfig(t *testing.T) {
	owner := hex.EncodeToString(test.Ed25519PublicKey(1))
	config, err := genesisFromJson(
		t,
		`{"outputs": [
			{"amount": 100, "owner": "`+owner+`"},
			{"amount": 200, "token": "tokenA"},
			{"amount": 300, "token": "tokenB"}
		]}`,
	)
	require.NoError(t, err)
	require.Len(t, config.Outputs, 3)
	assert.Equal(t, uint64(100), config.Outputs[0].Amount)
	assert.Equal(t, owner, config.Outputs[0].Owner)
	assert.Equal(t, GenesisTokenA, config.Outputs[1].Token)

	outputs, err := config.Build()
	require.NoError(t, err)
	require.Len(t, outputs, 3)
	coin, err := common.Extract[money.Coin[money.Native]](outputs[0].Payload)
	require.NoError(t, err)
	assert.Equal(t, money.NewCoin[money.Native](100), coin)
	assert.Equal(
		t,
		NewOuterVerifier(verifier.SigCheck{OwnerPubkey: verifier.NewPublicKey(test.Ed25519PublicKey(1))}),
		outputs[0].Verifier,
	)
	_, err = common.Extract[money.Coin[money.TokenA]](outputs[1].Payload)
	assert.NoError(t, err)
	assert.Equal(t, NewOuterVerifier(verifier.UpForGrabs{}), outputs[1].Verifier)
	_, err = common.Extract[money.Coin[money.TokenB]](outputs[2].Payload)
	assert.NoError(t, err)
}

func TestGenesisConfigErrors(t *testing.T) {
	testDefs := []struct {
		name string
		json string
	}{
		{name: "unknown key", json: `{"outputs": [{"amout": 100}]}`},
		{name: "negative amount", json: `{"outputs": [{"amount": -1}]}`},
		{name: "zero amount", json: `{"outputs": [{"amount": 0}]}`},
		{name: "unknown token", json: `{"outputs": [{"amount": 1, "token": "tokenC"}]}`},
		{name: "owner not hex", json: `{"outputs": [{"amount": 1, "owner": "zz"}]}`},
		{name: "owner too short", json: `{"outputs": [{"amount": 1, "owner": "0102"}]}`},
		{
			name: "owner of small order",
			json: `{"outputs": [{"amount": 1, "owner": "0000000000000000000000000000000000000000000000000000000000000000"}]}`,
		},
	}
	for _, testDef := range testDefs {
		t.Run(testDef.name, func(t *testing.T) {
			config, err := genesisFromJson(t, testDef.json)
			if err == nil {
				_, err = config.Build()
			}
			assert.ErrorIs(t, err, ErrInvalidGenesis)
		})
	}
}

func TestApplyGenesis(t *testing.T) {
	store := utxo.NewMemoryStore()
	exec, err := New(store)
	require.NoError(t, err)
	config := &GenesisConfig{
		Outputs: []GenesisOutput{
			{Amount: 10},
			{Amount: 20, Token: GenesisTokenB},
		},
	}
	refs, err := ApplyGenesis(exec, config)
	require.NoError(t, err)
	assert.Equal(t, []common.OutputRef{GenesisOutputRef(0), GenesisOutputRef(1)}, refs)
	assert.True(t, refs[1].TxHash.IsZero())
	assert.Equal(t, 2, store.Len())
	out, err := exec.Set().Peek(refs[1])
	require.NoError(t, err)
	require.NotNil(t, out)
	coin, err := common.Extract[money.Coin[money.TokenB]](out.Payload)
	require.NoError(t, err)
	assert.Equal(t, money.NewCoin[money.TokenB](20), coin)

	// Genesis can only be applied once
	_, err = ApplyGenesis(exec, config)
	assert.ErrorIs(t, err, common.ErrPreExistingOutput)
	assert.Equal(t, 2, store.Len())
}

func TestApplyGenesisInvalid(t *testing.T) {
	store := utxo.NewMemoryStore()
	exec, err := New(store)
	require.NoError(t, err)
	_, err = ApplyGenesis(
		exec,
		&GenesisConfig{
			Outputs: []GenesisOutput{{Amount: 10}, {Amount: 0}},
		},
	)
	assert.ErrorIs(t, err, money.ErrZeroValueCoin)
	assert.Equal(t, 0, store.Len())
}

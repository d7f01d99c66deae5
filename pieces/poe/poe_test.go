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

package poe

import (
	"testing"

	"github.com/blinklabs-io/utxokit/cbor"
	"github.com/blinklabs-io/utxokit/ledger/common"
	"github.com/blinklabs-io/utxokit/ledger/verifier"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type bogus struct {
	cbor.StructAsArray
}

func (bogus) TypeId() common.TypeId {
	return common.TypeId{'b', 'o', 'g', 'u'}
}

func claimOutput(document string, height uint32) common.Output[verifier.UpForGrabs] {
	return common.Output[verifier.UpForGrabs]{
		Payload: common.MustWrap(NewClaim([]byte(document), height)),
	}
}

func TestClaim(t *testing.T) {
	env := common.Environment{Height: 10}
	checker := Claim[verifier.UpForGrabs]{}
	testDefs := []struct {
		name        string
		inputs      []common.Output[verifier.UpForGrabs]
		outputs     []common.Output[verifier.UpForGrabs]
		expectedErr error
	}{
		{
			name:    "single claim",
			outputs: []common.Output[verifier.UpForGrabs]{claimOutput("doc", 10)},
		},
		{
			name:    "several claims in the future",
			outputs: []common.Output[verifier.UpForGrabs]{claimOutput("a", 11), claimOutput("b", 500)},
		},
		{
			name: "no claims",
		},
		{
			name:        "claim in the past",
			outputs:     []common.Output[verifier.UpForGrabs]{claimOutput("a", 11), claimOutput("b", 9)},
			expectedErr: ErrEffectiveHeightInPast,
		},
		{
			name:        "consumes input",
			inputs:      []common.Output[verifier.UpForGrabs]{claimOutput("old", 1)},
			outputs:     []common.Output[verifier.UpForGrabs]{claimOutput("doc", 10)},
			expectedErr: ErrWrongNumberInputs,
		},
		{
			name:        "badly typed",
			outputs:     []common.Output[verifier.UpForGrabs]{{Payload: common.MustWrap(bogus{})}},
			expectedErr: ErrBadlyTypedOutput,
		},
	}
	for _, testDef := range testDefs {
		t.Run(testDef.name, func(t *testing.T) {
			res, err := checker.Check(env, testDef.inputs, nil, testDef.outputs)
			if testDef.expectedErr != nil {
				assert.ErrorIs(t, err, testDef.expectedErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, uint64(0), res.Priority)
		})
	}
}

func TestClaimDependsOnHeight(t *testing.T) {
	outputs := []common.Output[verifier.UpForGrabs]{claimOutput("doc", 20)}
	checker := Claim[verifier.UpForGrabs]{}
	_, err := checker.Check(common.Environment{Height: 20}, nil, nil, outputs)
	assert.NoError(t, err)
	_, err = checker.Check(common.Environment{Height: 21}, nil, nil, outputs)
	assert.ErrorIs(t, err, ErrEffectiveHeightInPast)
}

func TestRevoke(t *testing.T) {
	claim := common.MustWrap(NewClaim([]byte("doc"), 1))
	_, err := Revoke{}.Check([]common.DynamicallyTypedData{claim}, nil, nil)
	assert.NoError(t, err)
	_, err = Revoke{}.Check(nil, nil, nil)
	assert.NoError(t, err)
	_, err = Revoke{}.Check([]common.DynamicallyTypedData{claim}, nil, []common.DynamicallyTypedData{claim})
	assert.ErrorIs(t, err, ErrWrongNumberOutputs)
	_, err = Revoke{}.Check([]common.DynamicallyTypedData{common.MustWrap(bogus{})}, nil, nil)
	assert.ErrorIs(t, err, ErrBadlyTypedInput)
}

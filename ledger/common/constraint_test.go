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

package common

import (
	"errors"
	"math"
	"testing"

	"github.com/holiman/uint256"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var errTooFewInputs = errors.New("too few inputs")

// countingChecker passes when there are at least as many inputs as outputs
type countingChecker struct{}

func (countingChecker) Check(
	inputs, peeks, outputs []DynamicallyTypedData,
) (CheckingSuccess, error) {
	if len(inputs) < len(outputs) {
		return CheckingSuccess{}, errTooFewInputs
	}
	return CheckingSuccess{
		// #nosec G115 -- test values are small
		Priority:    uint64(len(inputs) - len(outputs) + len(peeks)),
		Accumulator: NoopAccumulator{},
	}, nil
}

func TestWiden(t *testing.T) {
	checker := Widen[testVerifier](countingChecker{})
	outputs := []Output[testVerifier]{
		{Payload: MustWrap(testCounter{Count: 1}), Verifier: testVerifier{Owner: 1}},
	}
	inputs := []Output[testVerifier]{
		{Payload: MustWrap(testCounter{Count: 2}), Verifier: testVerifier{Owner: 2}},
		{Payload: MustWrap(testCounter{Count: 3}), Verifier: testVerifier{Owner: 3}},
	}
	res, err := checker.Check(Environment{Height: 10}, inputs, nil, outputs)
	require.NoError(t, err)
	assert.Equal(t, uint64(1), res.Priority)
	_, err = checker.Check(Environment{}, nil, nil, outputs)
	assert.ErrorIs(t, err, errTooFewInputs)
}

func TestPayloads(t *testing.T) {
	outputs := []Output[testVerifier]{
		{Payload: MustWrap(testCounter{Count: 1})},
		{Payload: MustWrap(testGauge{Count: 1})},
	}
	payloads := Payloads(outputs)
	require.Len(t, payloads, 2)
	assert.Equal(t, testGauge{}.TypeId(), payloads[1].TypeId)
	assert.Empty(t, Payloads[testVerifier](nil))
}

func TestNoopAccumulator(t *testing.T) {
	acc := NoopAccumulator{}
	initial := acc.Initial()
	assert.True(t, initial.IsZero())
	res, err := acc.Accumulate(*uint256.NewInt(5), *uint256.NewInt(6))
	require.NoError(t, err)
	assert.True(t, res.IsZero())
}

func TestSaturatingUint64(t *testing.T) {
	assert.Equal(t, uint64(12), SaturatingUint64(uint256.NewInt(12)))
	assert.Equal(t, uint64(math.MaxUint64), SaturatingUint64(uint256.NewInt(math.MaxUint64)))
	big := new(uint256.Int).Add(uint256.NewInt(math.MaxUint64), uint256.NewInt(1))
	assert.Equal(t, uint64(math.MaxUint64), SaturatingUint64(big))
}

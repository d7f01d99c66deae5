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
	"math"

	"github.com/holiman/uint256"
)

// Accumulator folds a value reported by each successful check across every
// transaction in a block. Accumulate must be associative and Initial must be
// its identity
type Accumulator interface {
	Key() string
	Initial() uint256.Int
	Accumulate(a, b uint256.Int) (uint256.Int, error)
}

// NoopAccumulator is used by checkers that have nothing to fold
type NoopAccumulator struct{}

func (NoopAccumulator) Key() string {
	return ""
}

func (NoopAccumulator) Initial() uint256.Int {
	return uint256.Int{}
}

func (NoopAccumulator) Accumulate(_, _ uint256.Int) (uint256.Int, error) {
	return uint256.Int{}, nil
}

// CheckingSuccess is the result of a passing constraint check
type CheckingSuccess struct {
	Priority         uint64
	Accumulator      Accumulator
	AccumulatorValue uint256.Int
}

// SimpleConstraintChecker sees only the payloads of a transaction
type SimpleConstraintChecker interface {
	Check(
		inputs, peeks, outputs []DynamicallyTypedData,
	) (CheckingSuccess, error)
}

// ConstraintChecker sees full outputs, including their verifiers, and the current environment
type ConstraintChecker[V any] interface {
	Check(
		env Environment,
		inputs, peeks, outputs []Output[V],
	) (CheckingSuccess, error)
}

// Widen lifts a SimpleConstraintChecker into a ConstraintChecker by dropping
// verifiers and the environment before delegating
func Widen[V any](c SimpleConstraintChecker) ConstraintChecker[V] {
	return widened[V]{checker: c}
}

type widened[V any] struct {
	checker SimpleConstraintChecker
}

func (w widened[V]) Check(
	_ Environment,
	inputs, peeks, outputs []Output[V],
) (CheckingSuccess, error) {
	return w.checker.Check(
		Payloads(inputs),
		Payloads(peeks),
		Payloads(outputs),
	)
}

// Payloads returns the payload of every output
func Payloads[V any](outputs []Output[V]) []DynamicallyTypedData {
	ret := make([]DynamicallyTypedData, 0, len(outputs))
	for _, output := range outputs {
		ret = append(ret, output.Payload)
	}
	return ret
}

// SaturatingUint64 returns v as a uint64, or math.MaxUint64 if it does not fit
func SaturatingUint64(v *uint256.Int) uint64 {
	if !v.IsUint64() {
		return math.MaxUint64
	}
	return v.Uint64()
}

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
	"testing"

	"github.com/blinklabs-io/utxokit/cbor"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testCounter struct {
	cbor.StructAsArray
	Count uint64
}

func (testCounter) TypeId() TypeId {
	return TypeId{'t', 'c', 'n', 't'}
}

// testGauge has the same shape as testCounter but a different tag
type testGauge struct {
	cbor.StructAsArray
	Count uint64
}

func (testGauge) TypeId() TypeId {
	return TypeId{'t', 'g', 'a', 'u'}
}

// testImpostor claims the tag of testCounter
type testImpostor struct {
	Name string
}

func (testImpostor) TypeId() TypeId {
	return TypeId{'t', 'c', 'n', 't'}
}

func TestWrapExtract(t *testing.T) {
	wrapped, err := Wrap(testCounter{Count: 42})
	require.NoError(t, err)
	assert.Equal(t, TypeId{'t', 'c', 'n', 't'}, wrapped.TypeId)
	counter, err := Extract[testCounter](wrapped)
	require.NoError(t, err)
	assert.Equal(t, uint64(42), counter.Count)
}

func TestExtractWrongType(t *testing.T) {
	// The bytes would decode fine as a testGauge, but the tag does not match
	wrapped := MustWrap(testCounter{Count: 7})
	_, err := Extract[testGauge](wrapped)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrWrongType)
	assert.NotErrorIs(t, err, ErrDecodingFailed)
	var typingErr *DynamicTypingError
	require.True(t, errors.As(err, &typingErr))
	assert.Equal(t, testGauge{}.TypeId(), typingErr.Expected)
	assert.Equal(t, testCounter{}.TypeId(), typingErr.Actual)
	// Data is never looked at when the tag differs
	garbage := DynamicallyTypedData{
		TypeId: TypeId{'x', 'x', 'x', 'x'},
		Data:   []byte{0xff, 0xff},
	}
	_, err = Extract[testCounter](garbage)
	assert.ErrorIs(t, err, ErrWrongType)
}

func TestExtractDecodingFailed(t *testing.T) {
	testDefs := []struct {
		name string
		data []byte
	}{
		{name: "empty", data: nil},
		{name: "text string", data: []byte{0x62, 0x68, 0x69}},
		{name: "truncated", data: []byte{0x81}},
		{name: "trailing data", data: []byte{0x81, 0x07, 0x00}},
	}
	for _, testDef := range testDefs {
		t.Run(testDef.name, func(t *testing.T) {
			d := DynamicallyTypedData{
				TypeId: testCounter{}.TypeId(),
				Data:   testDef.data,
			}
			_, err := Extract[testCounter](d)
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrDecodingFailed)
			assert.NotErrorIs(t, err, ErrWrongType)
		})
	}
}

func TestExtractAll(t *testing.T) {
	items := []DynamicallyTypedData{
		MustWrap(testCounter{Count: 1}),
		MustWrap(testCounter{Count: 2}),
	}
	counters, err := ExtractAll[testCounter](items)
	require.NoError(t, err)
	require.Len(t, counters, 2)
	assert.Equal(t, uint64(2), counters[1].Count)
	items = append(items, MustWrap(testGauge{Count: 3}))
	_, err = ExtractAll[testCounter](items)
	assert.ErrorIs(t, err, ErrWrongType)
}

func TestTypeRegistry(t *testing.T) {
	registry := NewTypeRegistry()
	require.NoError(t, registry.Register("counter", testCounter{}))
	require.NoError(t, registry.Register("gauge", testGauge{}))
	// Same type twice is fine
	require.NoError(t, registry.Register("counter", testCounter{}))
	require.NoError(t, registry.Validate())
	name, ok := registry.Lookup(testCounter{}.TypeId())
	assert.True(t, ok)
	assert.Equal(t, "counter", name)
	assert.Equal(t, []string{"counter", "gauge"}, registry.Names())

	err := registry.Register("impostor", testImpostor{})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrTypeIdCollision)
	var collisionErr *TypeIdCollisionError
	require.True(t, errors.As(err, &collisionErr))
	assert.Equal(t, "counter", collisionErr.Existing)
	assert.Equal(t, "impostor", collisionErr.New)
	// The collision is remembered for startup validation
	assert.ErrorIs(t, registry.Validate(), ErrTypeIdCollision)
	// The original owner keeps the tag
	name, _ = registry.Lookup(testCounter{}.TypeId())
	assert.Equal(t, "counter", name)
}

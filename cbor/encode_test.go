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

package cbor_test

import (
	"encoding/hex"
	"testing"

	"github.com/blinklabs-io/utxokit/cbor"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type encodeTestDefinition struct {
	CborHex string
	Object  any
}

var encodeTests = []encodeTestDefinition{
	// Simple list of numbers
	{
		CborHex: "83010203",
		Object:  []any{1, 2, 3},
	},
	// Map keys are sorted canonically regardless of insertion order
	{
		CborHex: "a201020304",
		Object:  map[int]int{3: 4, 1: 2},
	},
	// Struct encoded as array
	{
		CborHex: "82182a43010203",
		Object: struct {
			cbor.StructAsArray
			A uint
			B []byte
		}{A: 42, B: []byte{1, 2, 3}},
	},
	// Nil byte slice encodes the same as an empty one
	{
		CborHex: "40",
		Object:  []byte(nil),
	},
}

func TestEncode(t *testing.T) {
	for _, test := range encodeTests {
		cborData, err := cbor.Encode(test.Object)
		if err != nil {
			t.Fatalf("failed to encode object to CBOR: %s", err)
		}
		cborHex := hex.EncodeToString(cborData)
		if cborHex != test.CborHex {
			t.Fatalf(
				"object did not encode to expected CBOR\n  got: %s\n  wanted: %s",
				cborHex,
				test.CborHex,
			)
		}
	}
}

func TestEncodeVariant(t *testing.T) {
	data, err := cbor.EncodeVariant(2, []byte{0xab})
	require.NoError(t, err)
	assert.Equal(t, "820241ab", hex.EncodeToString(data))
}

func TestDeepCopyDoesNotShareSlices(t *testing.T) {
	type item struct {
		Id   uint32
		Data []byte
	}
	src := []item{{Id: 1, Data: []byte{1, 2}}}
	var dest []item
	require.NoError(t, cbor.DeepCopy(&dest, &src))
	require.Len(t, dest, 1)
	dest[0].Data[0] = 0xff
	assert.Equal(t, byte(1), src[0].Data[0])
	assert.Equal(t, uint32(1), dest[0].Id)
}

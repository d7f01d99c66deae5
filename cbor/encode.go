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

package cbor

import (
	"bytes"
	"sync"

	_cbor "github.com/fxamacker/cbor/v2"
)

var (
	cachedEncMode     _cbor.EncMode
	cachedEncModeErr  error
	cachedEncModeOnce sync.Once
)

// getEncMode returns a cached EncMode configured for canonical output.
// Byte-equality of two encodings is relied upon for duplicate detection and
// transaction identity, so every option here must be deterministic.
func getEncMode() (_cbor.EncMode, error) {
	cachedEncModeOnce.Do(func() {
		opts := _cbor.CoreDetEncOptions()
		// Never emit indefinite-length items
		opts.IndefLength = _cbor.IndefLengthForbidden
		// Keep nil and empty slices distinguishable from absent fields in a stable way
		opts.NilContainers = _cbor.NilContainerAsEmpty
		cachedEncMode, cachedEncModeErr = opts.EncMode()
	})
	return cachedEncMode, cachedEncModeErr
}

// Encode produces the canonical CBOR encoding of data
func Encode(data any) ([]byte, error) {
	em, err := getEncMode()
	if err != nil {
		return nil, err
	}
	buf := bytes.NewBuffer(nil)
	enc := em.NewEncoder(buf)
	if err := enc.Encode(data); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// MustEncode is like Encode but panics on error. It is intended for values
// whose encoding cannot fail, such as fixed-layout structs built internally
func MustEncode(data any) []byte {
	ret, err := Encode(data)
	if err != nil {
		panic("unexpected error encoding CBOR: " + err.Error())
	}
	return ret
}

// EncodeVariant encodes a tagged-union value as a two-item list of the
// variant ID followed by the variant payload
func EncodeVariant(id uint, payload any) ([]byte, error) {
	tmpData := struct {
		StructAsArray
		Id      uint
		Payload any
	}{
		Id:      id,
		Payload: payload,
	}
	return Encode(&tmpData)
}

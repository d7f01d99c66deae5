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

// Package cbor provides the canonical CBOR codec used for transaction identity,
// storage keys and values, and duplicate detection.
//
// It wraps github.com/fxamacker/cbor/v2 with a fixed encoding mode (core
// deterministic, definite lengths only) so that two equal values always
// produce identical bytes.
//
// # Key Types
//
//   - StructAsArray: Embed to encode struct fields as a CBOR array instead of a map
//   - RawMessage: Deferred decoding (like json.RawMessage)
//
// # Tagged unions
//
// Sum types are encoded as a two-item list [id, payload]:
//
//	data, err := cbor.EncodeVariant(3, payload)
//	id, value, err := cbor.DecodeVariant(data, map[int]any{3: &Payload{}})
//
// DecodeIdFromList reads only the leading ID and is the basis for custom
// UnmarshalCBOR methods that pick a concrete type before decoding.
package cbor

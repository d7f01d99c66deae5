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

package test

import (
	"bytes"
	"crypto/ed25519"
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/btcsuite/btcd/btcec/v2"
)

// Ed25519Key returns a deterministic ed25519 key derived from a single seed byte
func Ed25519Key(seed byte) ed25519.PrivateKey {
	return ed25519.NewKeyFromSeed(bytes.Repeat([]byte{seed}, ed25519.SeedSize))
}

// Ed25519PublicKey returns the public half of Ed25519Key(seed)
func Ed25519PublicKey(seed byte) []byte {
	return []byte(Ed25519Key(seed).Public().(ed25519.PublicKey))
}

// Secp256k1Key returns a deterministic secp256k1 key derived from a single non-zero seed byte
func Secp256k1Key(seed byte) *btcec.PrivateKey {
	privKey, _ := btcec.PrivKeyFromBytes(bytes.Repeat([]byte{seed}, 32))
	return privKey
}

// DecodeHexString decodes a hex string and panics on failure, which makes it
// usable inline in test tables
func DecodeHexString(hexData string) []byte {
	decoded, err := hex.DecodeString(strings.TrimSpace(hexData))
	if err != nil {
		panic(fmt.Sprintf("error decoding hex: %s", err))
	}
	return decoded
}

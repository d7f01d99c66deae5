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

package verifier

import (
	"crypto/ed25519"
	"encoding/hex"

	"filippo.io/edwards25519"
	"github.com/blinklabs-io/utxokit/cbor"
	"github.com/blinklabs-io/utxokit/ledger/common"
)

// PublicKey is an ed25519 public key
type PublicKey [ed25519.PublicKeySize]byte

func NewPublicKey(data []byte) PublicKey {
	p := PublicKey{}
	copy(p[:], data)
	return p
}

func (p PublicKey) String() string {
	return hex.EncodeToString(p[:])
}

// Valid reports whether the key decodes to a curve point that is not of small order
func (p PublicKey) Valid() bool {
	point := &edwards25519.Point{}
	if _, err := point.SetBytes(p[:]); err != nil {
		return false
	}
	isSmallOrder := (&edwards25519.Point{}).MultByCofactor(point).
		Equal(edwards25519.NewIdentityPoint()) ==
		1
	return !isSmallOrder
}

func verifySignature(pubKey PublicKey, sig, msg []byte) bool {
	if len(sig) != ed25519.SignatureSize {
		return false
	}
	if !pubKey.Valid() {
		return false
	}
	return ed25519.Verify(ed25519.PublicKey(pubKey[:]), msg, sig)
}

// SigCheck requires an ed25519 signature by the owner over the proof context
type SigCheck struct {
	cbor.StructAsArray
	OwnerPubkey PublicKey
}

func (s SigCheck) Verify(proofContext []byte, _ common.Environment, proof []byte) bool {
	return verifySignature(s.OwnerPubkey, proof, proofContext)
}

// SignatureAndIndex is one signature in a multisig proof, with the position of the
// signatory who made it
type SignatureAndIndex struct {
	cbor.StructAsArray
	Signature []byte
	Index     uint32
}

// ThresholdMultiSignature requires valid signatures from at least Threshold distinct signatories.
// The proof is the encoding of a list of SignatureAndIndex
type ThresholdMultiSignature struct {
	cbor.StructAsArray
	Threshold   uint8
	Signatories []PublicKey
}

// HasDuplicateSignatories reports whether any signatory is listed more than once
func (m ThresholdMultiSignature) HasDuplicateSignatories() bool {
	seen := make(map[PublicKey]struct{}, len(m.Signatories))
	for _, signatory := range m.Signatories {
		if _, ok := seen[signatory]; ok {
			return true
		}
		seen[signatory] = struct{}{}
	}
	return false
}

func (m ThresholdMultiSignature) Verify(proofContext []byte, _ common.Environment, proof []byte) bool {
	if m.HasDuplicateSignatories() {
		return false
	}
	var sigs []SignatureAndIndex
	if err := cbor.DecodeExact(proof, &sigs); err != nil {
		return false
	}
	if len(sigs) < int(m.Threshold) {
		return false
	}
	seenIndexes := make(map[uint32]struct{}, len(sigs))
	for _, sig := range sigs {
		if int(sig.Index) >= len(m.Signatories) {
			return false
		}
		// A signatory only counts once, however many of its signatures are supplied
		if _, ok := seenIndexes[sig.Index]; ok {
			return false
		}
		seenIndexes[sig.Index] = struct{}{}
	}
	validSigs := 0
	for _, sig := range sigs {
		if verifySignature(m.Signatories[sig.Index], sig.Signature, proofContext) {
			validSigs++
		}
	}
	return validSigs >= int(m.Threshold)
}

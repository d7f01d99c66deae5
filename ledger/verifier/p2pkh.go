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
	"github.com/blinklabs-io/utxokit/cbor"
	"github.com/blinklabs-io/utxokit/ledger/common"
	"github.com/btcsuite/btcd/btcec/v2"
	"github.com/btcsuite/btcd/btcec/v2/ecdsa"
)

const P2PKHAddressPrefix = "utxo"

// P2PKH requires a secp256k1 signature from the key whose hash is stored in the output
type P2PKH struct {
	cbor.StructAsArray
	OwnerPubkeyHash common.Blake2b224
}

// P2PKHProof is the witness for a P2PKH output
type P2PKHProof struct {
	cbor.StructAsArray
	// Compressed public key
	Pubkey []byte
	// DER-encoded signature over the Blake2b-256 hash of the proof context
	Signature []byte
}

func NewP2PKH(pubKey *btcec.PublicKey) P2PKH {
	return P2PKH{
		OwnerPubkeyHash: common.Blake2b224Hash(pubKey.SerializeCompressed()),
	}
}

// Address renders the owner's key hash as a bech32 string
func (p P2PKH) Address() string {
	return p.OwnerPubkeyHash.Bech32(P2PKHAddressPrefix)
}

func (p P2PKH) Verify(proofContext []byte, _ common.Environment, proof []byte) bool {
	var tmpProof P2PKHProof
	if err := cbor.DecodeExact(proof, &tmpProof); err != nil {
		return false
	}
	if common.Blake2b224Hash(tmpProof.Pubkey) != p.OwnerPubkeyHash {
		return false
	}
	pubKey, err := btcec.ParsePubKey(tmpProof.Pubkey)
	if err != nil {
		return false
	}
	sig, err := ecdsa.ParseDERSignature(tmpProof.Signature)
	if err != nil {
		return false
	}
	hash := common.Blake2b256Hash(proofContext)
	return sig.Verify(hash[:], pubKey)
}

// SignP2PKH builds the witness for spending a P2PKH output owned by privKey
func SignP2PKH(privKey *btcec.PrivateKey, proofContext []byte) ([]byte, error) {
	hash := common.Blake2b256Hash(proofContext)
	sig := ecdsa.Sign(privKey, hash[:])
	return cbor.Encode(
		P2PKHProof{
			Pubkey:    privKey.PubKey().SerializeCompressed(),
			Signature: sig.Serialize(),
		},
	)
}

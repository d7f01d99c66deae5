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

	"github.com/blinklabs-io/utxokit/cbor"
	"github.com/blinklabs-io/utxokit/ledger/common"
)

// TimeLock can be spent by anyone once the chain reaches UnlockBlockHeight
type TimeLock struct {
	cbor.StructAsArray
	UnlockBlockHeight uint32
}

func (t TimeLock) Verify(_ []byte, env common.Environment, _ []byte) bool {
	return env.Height >= t.UnlockBlockHeight
}

// BlakeTwoHashLock can be spent by anyone who reveals the preimage of HashLock
type BlakeTwoHashLock struct {
	cbor.StructAsArray
	HashLock common.Blake2b256
}

func NewBlakeTwoHashLock(secret []byte) BlakeTwoHashLock {
	return BlakeTwoHashLock{
		HashLock: common.Blake2b256Hash(secret),
	}
}

func (b BlakeTwoHashLock) Verify(_ []byte, _ common.Environment, proof []byte) bool {
	return common.Blake2b256Hash(proof) == b.HashLock
}

const (
	HashTimeLockProofTypeSpendHash = 0
	HashTimeLockProofTypeRefund    = 1
)

// HashTimeLock can be spent by the recipient with the hash preimage, or by the
// executor once the lock expires
type HashTimeLock struct {
	cbor.StructAsArray
	HashLock        common.Blake2b256
	RecipientPubkey PublicKey
	ExecutorPubkey  PublicKey
	LockUntil       uint32
}

type HashTimeLockSpendHash struct {
	cbor.StructAsArray
	Secret    []byte
	Signature []byte
}

type HashTimeLockRefund struct {
	cbor.StructAsArray
	Signature []byte
}

func (h HashTimeLock) Verify(proofContext []byte, env common.Environment, proof []byte) bool {
	_, tmpProof, err := cbor.DecodeVariant(
		proof,
		map[int]any{
			HashTimeLockProofTypeSpendHash: &HashTimeLockSpendHash{},
			HashTimeLockProofTypeRefund:    &HashTimeLockRefund{},
		},
	)
	if err != nil {
		return false
	}
	switch p := tmpProof.(type) {
	case *HashTimeLockSpendHash:
		return common.Blake2b256Hash(p.Secret) == h.HashLock &&
			verifySignature(h.RecipientPubkey, p.Signature, proofContext)
	case *HashTimeLockRefund:
		return env.Height >= h.LockUntil &&
			verifySignature(h.ExecutorPubkey, p.Signature, proofContext)
	}
	return false
}

// SpendHashProof builds the recipient witness for a HashTimeLock
func SpendHashProof(secret []byte, recipient ed25519.PrivateKey, proofContext []byte) ([]byte, error) {
	return cbor.EncodeVariant(
		HashTimeLockProofTypeSpendHash,
		HashTimeLockSpendHash{
			Secret:    secret,
			Signature: ed25519.Sign(recipient, proofContext),
		},
	)
}

// RefundProof builds the executor witness for an expired HashTimeLock
func RefundProof(executor ed25519.PrivateKey, proofContext []byte) ([]byte, error) {
	return cbor.EncodeVariant(
		HashTimeLockProofTypeRefund,
		HashTimeLockRefund{
			Signature: ed25519.Sign(executor, proofContext),
		},
	)
}
